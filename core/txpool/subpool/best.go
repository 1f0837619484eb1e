package subpool

import (
	"container/heap"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// Best is a lazy, finite, non-restartable iterator over a snapshot of the
// pending pool taken at PendingPool.Best() time. Transactions admitted to
// the live pool afterwards are invisible to it; transactions removed from
// the live pool remain visible, since the iterator only ever consults its
// own snapshot.
type Best[T txtypes.PoolTransaction, P Comparable[P]] struct {
	// all is a snapshot of the pending by-id index at creation time.
	all map[identifier.TransactionId]*PendingTransaction[T, P]
	// independent holds the per-sender minima, seeded from the live
	// pool's `independent` map and replenished by descendant promotion.
	independent *maxHeap[T, P]
	// invalid marks senders an executor has reported as failing mid-run;
	// no further transaction from that sender is yielded this iteration.
	// A generic set from the ecosystem pack fits this exactly — insert,
	// membership test, nothing else — so it is used here instead of a
	// hand-rolled map[SenderId]struct{}.
	invalid mapset.Set[identifier.SenderId]
}

// MarkInvalid excludes sender from the remainder of this iteration. It is
// the iterator's side-channel for an executor reporting a failed
// transaction mid-run (spec §4.6, §9).
func (b *Best[T, P]) MarkInvalid(sender identifier.SenderId) {
	b.invalid.Add(sender)
}

// Next returns the highest-priority transaction whose sender has not been
// marked invalid, or nil if the snapshot is exhausted.
func (b *Best[T, P]) Next() *txtypes.ValidPoolTransaction[T] {
	for {
		best := b.popBest()
		if best == nil {
			return nil
		}
		sender := best.Transaction.SenderID()
		if b.invalid.Contains(sender) {
			continue
		}
		b.promoteDescendant(best)
		return best.Transaction
	}
}

// popBest pops the greatest element of independent and drops its entry
// from the remaining snapshot.
func (b *Best[T, P]) popBest() *PendingTransaction[T, P] {
	if b.independent.Len() == 0 {
		return nil
	}
	best := heap.Pop(b.independent).(*PendingTransaction[T, P])
	delete(b.all, best.Transaction.ID())
	return best
}

// promoteDescendant keeps the per-sender nonce sequence contiguous across
// iterations: on yield of (sender, nonce), (sender, nonce+1) becomes the
// new independent candidate for sender if it is present in the snapshot.
// This is the recommended, not mandated, strategy from spec §4.6/§9.
func (b *Best[T, P]) promoteDescendant(yielded *PendingTransaction[T, P]) {
	next := identifier.NewTransactionId(yielded.Transaction.SenderID(), yielded.Transaction.Nonce()+1)
	if descendant, ok := b.all[next]; ok {
		heap.Push(b.independent, descendant)
	}
}
