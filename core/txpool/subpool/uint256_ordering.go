package subpool

import (
	"github.com/holiman/uint256"

	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// Uint256Ordering is the pool's default TransactionOrdering: it maps a
// transaction's GetPriority() straight to a uint256 priority value,
// treating an absent priority as Priority.None.
type Uint256Ordering[T txtypes.PoolTransaction] struct{}

// Priority implements Ordering.
func (Uint256Ordering[T]) Priority(tx T) Priority[*uint256.Int] {
	if p := tx.GetPriority(); p != nil {
		return PriorityValue(p)
	}
	return PriorityNone[*uint256.Int]()
}
