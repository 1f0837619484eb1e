package txpool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/subpool"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// senderInfo caches the on-chain nonce and balance for a sender, updated on
// every admission (spec §3).
type senderInfo struct {
	stateNonce uint64
	balance    *uint256.Int
}

func (s *senderInfo) update(stateNonce uint64, balance *uint256.Int) {
	s.stateNonce = stateNonce
	s.balance = balance
}

// addedKind distinguishes the two ways an admission can succeed.
type addedKind uint8

const (
	addedPending addedKind = iota
	addedParked
)

// addedTransaction is the result of a successful TxPool.addTransaction.
type addedTransaction[T txtypes.PoolTransaction] struct {
	kind        addedKind
	transaction *txtypes.ValidPoolTransaction[T]
}

// txPool aggregates the AllTransactions index and the two sub-pools: the
// Rust source's TxPool<T> (spec §4.5). It is not safe for concurrent use on
// its own; Pool guards it with a single writer lock.
type txPool[T txtypes.PoolTransaction, P subpool.Comparable[P]] struct {
	config Config

	senderInfos     map[identifier.SenderId]*senderInfo
	allTransactions *allTransactions[T]
	pending         *subpool.PendingPool[T, P]
	parked          *subpool.ParkedPool[T]
}

func newTxPool[T txtypes.PoolTransaction, P subpool.Comparable[P]](ordering subpool.Ordering[T, P], config Config) *txPool[T, P] {
	config = config.sanitize()
	return &txPool[T, P]{
		config:          config,
		senderInfos:     make(map[identifier.SenderId]*senderInfo),
		allTransactions: newAllTransactions[T](),
		pending:         subpool.NewPendingPool[T, P](ordering, config.MaxNewPendingTxsNotifications),
		parked:          subpool.NewParkedPool[T](),
	}
}

func (p *txPool[T, P]) contains(hash common.Hash) bool {
	return p.allTransactions.contains(hash)
}

func (p *txPool[T, P]) get(hash common.Hash) (*txtypes.ValidPoolTransaction[T], bool) {
	return p.allTransactions.get(hash)
}

// addTransaction implements spec §4.5's add_transaction algorithm.
func (p *txPool[T, P]) addTransaction(
	tx *txtypes.ValidPoolTransaction[T],
	onChainBalance *uint256.Int,
	onChainNonce uint64,
) (addedTransaction[T], *Error) {
	if p.contains(tx.Hash()) {
		return addedTransaction[T]{}, NewError(tx.Hash(), AlreadyImported)
	}

	// Step 2, reserved: authorization check, currently a no-op (spec §4.5).

	info, ok := p.senderInfos[tx.SenderID()]
	if !ok {
		info = &senderInfo{}
		p.senderInfos[tx.SenderID()] = info
	}
	info.update(onChainNonce, onChainBalance)

	ok2, insErr := p.allTransactions.insertTx(tx, onChainBalance, onChainNonce)
	if insErr != nil {
		switch insErr.kind {
		case insertErrUnderpriced:
			return addedTransaction[T]{}, NewError(tx.Hash(), ReplacementUnderpriced)
		default:
			return addedTransaction[T]{}, NewError(tx.Hash(), InvalidTransaction)
		}
	}

	if ok2.replacedTx != nil {
		p.removeFromSubPool(ok2.replacedTx.transaction.ID(), ok2.replacedTx.subPool)
	}
	p.addToSubPool(ok2.transaction, ok2.subPool)

	kind := addedParked
	if ok2.subPool.IsPending() {
		kind = addedPending
	}
	return addedTransaction[T]{kind: kind, transaction: ok2.transaction}, nil
}

func (p *txPool[T, P]) removeFromSubPool(id identifier.TransactionId, subPool txtypes.SubPool) {
	if subPool.IsPending() {
		p.pending.RemoveTransaction(id)
	} else {
		p.parked.RemoveTransaction(id)
	}
}

func (p *txPool[T, P]) addToSubPool(tx *txtypes.ValidPoolTransaction[T], subPool txtypes.SubPool) {
	if subPool.IsPending() {
		// This core has no EIP-1559 fee tier, so base_fee is always 0.
		p.pending.AddTransaction(tx, 0)
	} else {
		p.parked.AddTransaction(tx)
	}
}

// removeTransaction removes a transaction (by id) from both AllTransactions
// and whichever sub-pool it was last known to occupy.
func (p *txPool[T, P]) removeTransaction(id identifier.TransactionId) (*txtypes.ValidPoolTransaction[T], bool) {
	tx, subPool, ok := p.allTransactions.removeTransaction(id)
	if !ok {
		return nil, false
	}
	p.removeFromSubPool(id, subPool)
	return tx, true
}

// removeTransactionByHash mirrors removeTransaction, keyed by hash.
func (p *txPool[T, P]) removeTransactionByHash(hash common.Hash) (*txtypes.ValidPoolTransaction[T], bool) {
	tx, subPool, ok := p.allTransactions.removeTransactionByHash(hash)
	if !ok {
		return nil, false
	}
	p.removeFromSubPool(tx.ID(), subPool)
	return tx, true
}

func (p *txPool[T, P]) pendingLen() int { return p.pending.Len() }
func (p *txPool[T, P]) parkedLen() int  { return p.parked.Len() }

func (p *txPool[T, P]) best() *subpool.Best[T, P] {
	return p.pending.Best()
}
