// Package txpool implements the transaction pool core: a validation
// pipeline feeding a single AllTransactions index, partitioned into a
// Pending sub-pool (executable now) and a Parked sub-pool (blocked on
// balance or a nonce gap), exposed through Pool.
package txpool

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/subpool"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
	"github.com/Pyoyeongjong/pintL1/core/txpool/validate"
)

// Pool is the public façade: it owns the sender registry, runs every
// candidate through a Validator, and serializes every mutation of the
// underlying TxPool behind a single writer lock (spec §5 — a single writer,
// many readers, is sufficient; no per-sub-pool locking is attempted).
type Pool[T txtypes.PoolTransaction, P subpool.Comparable[P]] struct {
	validator validate.Validator[T]
	senders   *identifier.Registry

	mu   sync.RWMutex
	core *txPool[T, P]

	// rejections is a bounded, most-recent-first diagnostic ring of
	// admission failures, independent of pool state: it exists purely for
	// operational visibility and has no bearing on any admission,
	// replacement, or iteration semantics.
	rejMu      sync.Mutex
	rejections *lru.Cache[common.Hash, *Error]

	metrics *metrics
}

// New constructs a Pool with the given validator, priority ordering, and
// configuration.
func New[T txtypes.PoolTransaction, P subpool.Comparable[P]](
	validator validate.Validator[T],
	ordering subpool.Ordering[T, P],
	config Config,
) *Pool[T, P] {
	config = config.sanitize()
	rejections, err := lru.New[common.Hash, *Error](config.RecentRejectionsCap)
	if err != nil {
		// Only returns an error for a non-positive size, which sanitize
		// above already rules out.
		panic(err)
	}
	return &Pool[T, P]{
		validator:  validator,
		senders:    identifier.NewRegistry(),
		core:       newTxPool[T, P](ordering, config),
		rejections: rejections,
		metrics:    newMetrics(),
	}
}

// AddTransaction runs tx through the validator and, if accepted, admits it
// into the appropriate sub-pool (spec §4.1, §4.5).
func (p *Pool[T, P]) AddTransaction(ctx context.Context, origin txtypes.TransactionOrigin, tx T) (*txtypes.ValidPoolTransaction[T], error) {
	outcome := p.validator.ValidateTransaction(ctx, origin, tx)

	switch {
	case outcome.IsError():
		poolErr := NewImportError(outcome.Hash(), outcome.Err())
		p.recordRejection(poolErr)
		p.metrics.rejected.WithLabelValues(poolErr.Kind.String()).Inc()
		log.Debug("txpool: validator error", "hash", outcome.Hash(), "err", outcome.Err())
		return nil, poolErr
	case outcome.IsInvalid():
		poolErr := NewError(tx.Hash(), InvalidTransaction)
		p.recordRejection(poolErr)
		p.metrics.rejected.WithLabelValues(outcome.Kind().String()).Inc()
		log.Debug("txpool: rejected", "hash", tx.Hash(), "kind", outcome.Kind())
		return nil, poolErr
	}

	sender := p.senders.SenderIDOrCreate(tx.Sender())
	valid := txtypes.NewValidPoolTransaction[T](tx, sender, origin, time.Now())

	p.mu.Lock()
	added, poolErr := p.core.addTransaction(valid, outcome.Balance(), outcome.Nonce())
	p.mu.Unlock()

	if poolErr != nil {
		p.recordRejection(poolErr)
		p.metrics.rejected.WithLabelValues(poolErr.Kind.String()).Inc()
		log.Debug("txpool: admission failed", "hash", tx.Hash(), "kind", poolErr.Kind)
		return nil, poolErr
	}

	switch added.kind {
	case addedPending:
		p.metrics.pendingGauge.Set(float64(p.PendingLen()))
		log.Trace("txpool: admitted pending", "hash", tx.Hash(), "sender", tx.Sender())
	case addedParked:
		p.metrics.parkedGauge.Set(float64(p.ParkedLen()))
		log.Trace("txpool: admitted parked", "hash", tx.Hash(), "sender", tx.Sender())
	}
	return added.transaction, nil
}

// AddExternalTransaction is a convenience wrapper for network-sourced
// candidates (spec §6's "External" origin).
func (p *Pool[T, P]) AddExternalTransaction(ctx context.Context, tx T) (*txtypes.ValidPoolTransaction[T], error) {
	return p.AddTransaction(ctx, txtypes.External, tx)
}

// Get returns the live transaction for hash, if any.
func (p *Pool[T, P]) Get(hash common.Hash) (*txtypes.ValidPoolTransaction[T], bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.get(hash)
}

// RemoveTransaction removes tx (by id) from the pool, wherever it currently
// resides.
func (p *Pool[T, P]) RemoveTransaction(id identifier.TransactionId) (*txtypes.ValidPoolTransaction[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.core.removeTransaction(id)
}

// PendingLen reports the number of pending transactions.
func (p *Pool[T, P]) PendingLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.pendingLen()
}

// ParkedLen reports the number of parked transactions.
func (p *Pool[T, P]) ParkedLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.parkedLen()
}

// BestTransactions returns a snapshot iterator over the pending pool,
// ordered best-first (spec §4.6).
func (p *Pool[T, P]) BestTransactions() *subpool.Best[T, P] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.best()
}

// SubscribeNewTxsEvent wires the pending pool's secondary event.Feed fan-out
// to the caller's channel, the go-ethereum idiom for pool-to-miner/gossip
// notification used across the pack's other chain clients.
func (p *Pool[T, P]) SubscribeNewTxsEvent(ch chan<- *subpool.PendingTransaction[T, P]) event.Subscription {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.pending.SubscribeEvent(ch)
}

// SubscribeNewPendingTransactions returns a best-effort channel of newly
// admitted pending transactions (the hand-rolled bounded broadcaster; spec
// §6's "broadcast, lossy" notification channel).
func (p *Pool[T, P]) SubscribeNewPendingTransactions(buffer int) (<-chan *subpool.PendingTransaction[T, P], func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.core.pending.Subscribe(buffer)
}

// recordRejection appends err to the diagnostic ring.
func (p *Pool[T, P]) recordRejection(err *Error) {
	p.rejMu.Lock()
	defer p.rejMu.Unlock()
	p.rejections.Add(err.Hash, err)
}

// RecentRejections returns up to n of the most recently rejected
// submissions, most-recent-first. It is a diagnostic aid only (SPEC_FULL
// §4.7/§6) and carries no admission semantics.
func (p *Pool[T, P]) RecentRejections(n int) []*Error {
	p.rejMu.Lock()
	defer p.rejMu.Unlock()

	keys := p.rejections.Keys() // oldest to newest, no recency update
	if n <= 0 || n > len(keys) {
		n = len(keys)
	}
	out := make([]*Error, 0, n)
	for i := len(keys) - 1; i >= 0 && len(out) < n; i-- {
		if errVal, ok := p.rejections.Peek(keys[i]); ok {
			out = append(out, errVal)
		}
	}
	return out
}

// Uint256Ordering is re-exported so callers building a Pool don't need to
// import subpool directly just to pick the default priority ordering.
type Uint256Ordering[T txtypes.PoolTransaction] = subpool.Uint256Ordering[T]
