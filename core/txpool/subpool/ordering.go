// Package subpool implements the pool's two execution-readiness tiers —
// Pending (ready now) and Parked (blocked on a nonce gap or balance) — and
// the best-transactions iterator that drains Pending in priority order.
package subpool

import (
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// Comparable is the bound a PriorityValue must satisfy: a total order
// expressed the way *uint256.Int and similar ecosystem numeric types
// already do it, rather than requiring the `<` operator (which rules out
// pointer/struct priority values such as *uint256.Int).
type Comparable[P any] interface {
	Cmp(other P) int
}

// Priority is either a concrete value or the absence of one; absent always
// sorts below any concrete value, mirroring the Rust source's
// `Priority::None < Priority::Value(_)`.
type Priority[P Comparable[P]] struct {
	value  P
	isSome bool
}

// PriorityValue wraps a concrete priority.
func PriorityValue[P Comparable[P]](v P) Priority[P] {
	return Priority[P]{value: v, isSome: true}
}

// PriorityNone represents the absence of a priority.
func PriorityNone[P Comparable[P]]() Priority[P] {
	return Priority[P]{}
}

// Compare returns -1, 0, or 1 the way (*big.Int).Cmp does.
func (p Priority[P]) Compare(other Priority[P]) int {
	switch {
	case !p.isSome && !other.isSome:
		return 0
	case !p.isSome:
		return -1
	case !other.isSome:
		return 1
	default:
		return p.value.Cmp(other.value)
	}
}

// Ordering is a pure capability mapping a transaction to its priority.
type Ordering[T txtypes.PoolTransaction, P Comparable[P]] interface {
	Priority(tx T) Priority[P]
}
