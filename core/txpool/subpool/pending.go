package subpool

import (
	"container/heap"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/event"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// PendingTransaction adds a monotonically increasing submission id and a
// priority to a valid transaction; it is the element type of the pending
// pool's ordered structures. Its total order is lexicographic
// (priority, submission_id), ascending; the "best" element is the maximum.
type PendingTransaction[T txtypes.PoolTransaction, P Comparable[P]] struct {
	SubmissionID uint64
	Transaction  *txtypes.ValidPoolTransaction[T]
	Priority     Priority[P]
}

// Compare returns -1, 0, or 1 under the (priority, submission_id) order.
func (a *PendingTransaction[T, P]) Compare(b *PendingTransaction[T, P]) int {
	if c := a.Priority.Compare(b.Priority); c != 0 {
		return c
	}
	switch {
	case a.SubmissionID < b.SubmissionID:
		return -1
	case a.SubmissionID > b.SubmissionID:
		return 1
	default:
		return 0
	}
}

// clone returns a shallow copy; PendingTransaction is cheap to copy since
// Transaction is a pointer, matching the Rust source's Arc-clone semantics.
func (a *PendingTransaction[T, P]) clone() *PendingTransaction[T, P] {
	cp := *a
	return &cp
}

// maxHeap is a container/heap-backed max-priority structure used for the
// per-sender "independent" set: it only ever needs push and pop-max, which
// a binary heap gives in O(log n) without pulling in an external ordered
// tree/set library for a single call site.
type maxHeap[T txtypes.PoolTransaction, P Comparable[P]] []*PendingTransaction[T, P]

func (h maxHeap[T, P]) Len() int            { return len(h) }
func (h maxHeap[T, P]) Less(i, j int) bool  { return h[i].Compare(h[j]) > 0 } // max-heap
func (h maxHeap[T, P]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap[T, P]) Push(x interface{}) { *h = append(*h, x.(*PendingTransaction[T, P])) }
func (h *maxHeap[T, P]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PendingPool holds transactions executable on the current state.
type PendingPool[T txtypes.PoolTransaction, P Comparable[P]] struct {
	ordering Ordering[T, P]

	// submissionID is a monotone, wrapping counter serving as the
	// tie-breaker in PendingTransaction's total order.
	submissionID uint64

	// byID holds every pending transaction keyed by its (sender, nonce).
	byID map[identifier.TransactionId]*PendingTransaction[T, P]

	// independent holds, per sender, the pending entry with the lowest
	// nonce currently pending for that sender (invariant I4).
	independent map[identifier.SenderId]*PendingTransaction[T, P]

	// notifier is a bounded, lossy broadcast of every newly
	// admitted pending transaction: sends never block, and a send with no
	// subscriber (or a full subscriber buffer) is silently dropped.
	notifier *broadcaster[*PendingTransaction[T, P]]

	feed event.Feed // secondary fan-out consumed by Pool.SubscribeNewTxsEvent
}

// NewPendingPool constructs an empty pending pool whose notifier buffers up
// to bufferCapacity pending notifications for each subscriber that does not
// ask Subscribe for a buffer size of its own.
func NewPendingPool[T txtypes.PoolTransaction, P Comparable[P]](ordering Ordering[T, P], bufferCapacity int) *PendingPool[T, P] {
	return &PendingPool[T, P]{
		ordering:    ordering,
		byID:        make(map[identifier.TransactionId]*PendingTransaction[T, P]),
		independent: make(map[identifier.SenderId]*PendingTransaction[T, P]),
		notifier:    newBroadcaster[*PendingTransaction[T, P]](bufferCapacity),
	}
}

// Len reports the number of transactions currently pending.
func (p *PendingPool[T, P]) Len() int { return len(p.byID) }

// Contains reports whether id is currently pending.
func (p *PendingPool[T, P]) Contains(id identifier.TransactionId) bool {
	_, ok := p.byID[id]
	return ok
}

// AddTransaction admits tx into the pending pool. The caller must have
// already routed any same-slot replacement through AllTransactions, so a
// duplicate TransactionId here is a programming error.
//
// baseFee is accepted for parity with a fee-tiered pending pool; this core
// has no EIP-1559 base-fee tier, so it is always zero and unused beyond
// being part of the method's documented contract (spec §4.5 step 5).
func (p *PendingPool[T, P]) AddTransaction(tx *txtypes.ValidPoolTransaction[T], baseFee uint64) {
	id := tx.ID()
	if p.Contains(id) {
		panic(fmt.Sprintf("subpool: transaction already pending: sender=%d nonce=%d", id.Sender, id.Nonce))
	}

	entry := &PendingTransaction[T, P]{
		SubmissionID: p.nextSubmissionID(),
		Transaction:  tx,
		Priority:     p.ordering.Priority(tx.Transaction),
	}

	// Broadcast before the index update would be wrong: a subscriber that
	// reacts to the notification by calling Best() must observe the entry,
	// so publish only after both indices below are updated.
	p.byID[id] = entry
	// independent tracks the lowest pending nonce per sender (invariant
	// I4); a higher-nonce arrival never displaces an already-lower
	// representative, since the best iterator only discovers it later via
	// descendant promotion (see best.go).
	if rep, ok := p.independent[id.Sender]; !ok || tx.Nonce() < rep.Transaction.Nonce() {
		p.independent[id.Sender] = entry
	}

	if p.notifier.hasSubscribers() {
		p.notifier.send(entry.clone())
	}
	p.feed.Send(entry.clone())
}

// RemoveTransaction removes the pending entry for id, if present, clearing
// it from `independent` when it was that sender's representative.
func (p *PendingPool[T, P]) RemoveTransaction(id identifier.TransactionId) {
	entry, ok := p.byID[id]
	if !ok {
		return
	}
	delete(p.byID, id)
	if rep, ok := p.independent[id.Sender]; ok && rep.Transaction.ID() == id {
		delete(p.independent, id.Sender)
	}
	_ = entry
}

// Best returns an iterator seeded from a snapshot of the current pending
// set. Mutations to the live pool after this call do not affect it.
func (p *PendingPool[T, P]) Best() *Best[T, P] {
	all := make(map[identifier.TransactionId]*PendingTransaction[T, P], len(p.byID))
	for id, tx := range p.byID {
		all[id] = tx
	}

	indep := make(maxHeap[T, P], 0, len(p.independent))
	for _, tx := range p.independent {
		indep = append(indep, tx)
	}
	heap.Init(&indep)

	return &Best[T, P]{
		all:         all,
		independent: &indep,
		invalid:     mapset.NewThreadUnsafeSet[identifier.SenderId](),
	}
}

// Subscribe returns a channel fed a clone of every newly-admitted pending
// transaction, best-effort: a slow subscriber can miss entries.
func (p *PendingPool[T, P]) Subscribe(buffer int) (<-chan *PendingTransaction[T, P], func()) {
	return p.notifier.subscribe(buffer)
}

// SubscribeEvent tracks the secondary event.Feed fan-out.
func (p *PendingPool[T, P]) SubscribeEvent(ch chan<- *PendingTransaction[T, P]) event.Subscription {
	return p.feed.Subscribe(ch)
}

func (p *PendingPool[T, P]) nextSubmissionID() uint64 {
	id := p.submissionID
	p.submissionID++ // wraps around; tie-breaking only needs monotonicity within practical pool lifetimes
	return id
}

