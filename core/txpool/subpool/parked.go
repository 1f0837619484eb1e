package subpool

import (
	"github.com/ethereum/go-ethereum/common/prque"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// parkedEntry pairs a transaction with the pool-local submission id it was
// parked with.
type parkedEntry[T txtypes.PoolTransaction] struct {
	transaction  *txtypes.ValidPoolTransaction[T]
	submissionID uint64
}

// ParkedPool holds transactions blocked by a nonce gap or insufficient
// balance. The spec keys it by TransactionId but explicitly does not
// require iteration in that order (the Parked pool is never a producer for
// the best iterator), so a hash map gives O(1) add/remove/len instead of
// the O(log n) an ordered tree would cost for no observable benefit here.
type ParkedPool[T txtypes.PoolTransaction] struct {
	byID map[identifier.TransactionId]*parkedEntry[T]

	// submissionID backs the per-entry metadata the spec reserves for a
	// future FIFO-based eviction tie-break (§4.4.1).
	submissionID uint64

	// oldest is a priority queue of TransactionId ordered by submission
	// id, reserved for that same future eviction policy. No admission or
	// removal path in this core consults it; see DESIGN.md.
	oldest *prque.Prque[int64, identifier.TransactionId]
}

// NewParkedPool constructs an empty parked pool.
func NewParkedPool[T txtypes.PoolTransaction]() *ParkedPool[T] {
	return &ParkedPool[T]{
		byID:   make(map[identifier.TransactionId]*parkedEntry[T]),
		oldest: prque.New[int64, identifier.TransactionId](nil),
	}
}

// Len reports the number of transactions currently parked.
func (p *ParkedPool[T]) Len() int { return len(p.byID) }

// Contains reports whether id is currently parked.
func (p *ParkedPool[T]) Contains(id identifier.TransactionId) bool {
	_, ok := p.byID[id]
	return ok
}

// AddTransaction parks tx.
func (p *ParkedPool[T]) AddTransaction(tx *txtypes.ValidPoolTransaction[T]) {
	id := tx.ID()
	submissionID := p.submissionID
	p.submissionID++
	p.byID[id] = &parkedEntry[T]{transaction: tx, submissionID: submissionID}
	// Negated so Pop() (a max-priority pop) yields the smallest submission
	// id first, i.e. the oldest parked entry.
	p.oldest.Push(id, -int64(submissionID))
}

// RemoveTransaction removes the parked entry for id, if present.
func (p *ParkedPool[T]) RemoveTransaction(id identifier.TransactionId) {
	delete(p.byID, id)
	// oldest is left with a stale entry; it is filtered out lazily the one
	// place it would ever be consulted (see Oldest below), exactly as
	// go-ethereum's own priced-list does for removals it doesn't bother
	// compacting eagerly.
}

// Get returns the parked transaction for id, if any.
func (p *ParkedPool[T]) Get(id identifier.TransactionId) (*txtypes.ValidPoolTransaction[T], bool) {
	entry, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return entry.transaction, true
}

// Oldest returns the longest-parked transaction still present, or false if
// the pool is empty. It exists to give the reserved FIFO-eviction ordering
// (§4.4.1) an observable, test-covered shape even though no eviction policy
// in this core invokes it.
func (p *ParkedPool[T]) Oldest() (identifier.TransactionId, bool) {
	for !p.oldest.Empty() {
		id, _ := p.oldest.Peek()
		if p.Contains(id) {
			return id, true
		}
		p.oldest.Pop() // stale entry left behind by a prior removal
	}
	return identifier.TransactionId{}, false
}
