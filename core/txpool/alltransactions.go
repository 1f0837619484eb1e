package txpool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// insertOk is the successful result of AllTransactions.insertTx.
type insertOk[T txtypes.PoolTransaction] struct {
	transaction *txtypes.ValidPoolTransaction[T]
	replacedTx  *replacedTx[T]
	subPool     txtypes.SubPool
}

type replacedTx[T txtypes.PoolTransaction] struct {
	transaction *txtypes.ValidPoolTransaction[T]
	subPool     txtypes.SubPool
}

// insertErrKind distinguishes AllTransactions.insertTx failure modes.
type insertErrKind uint8

const (
	insertErrUnderpriced insertErrKind = iota
	insertErrInvalidTransaction
)

type insertErr[T txtypes.PoolTransaction] struct {
	kind        insertErrKind
	transaction *txtypes.ValidPoolTransaction[T]
}

// poolInternalTransaction pairs a valid transaction with its derived state
// and sub-pool; it is the element type of AllTransactions.txs (spec §3).
type poolInternalTransaction[T txtypes.PoolTransaction] struct {
	transaction *txtypes.ValidPoolTransaction[T]
	state       txtypes.TxState
	subPool     txtypes.SubPool
}

// allTransactions is the single source of truth for every live transaction,
// keyed both by (sender, nonce) and by hash, kept in lockstep (invariant I1).
type allTransactions[T txtypes.PoolTransaction] struct {
	byHash map[common.Hash]*txtypes.ValidPoolTransaction[T]
	txs    map[identifier.TransactionId]*poolInternalTransaction[T]
}

func newAllTransactions[T txtypes.PoolTransaction]() *allTransactions[T] {
	return &allTransactions[T]{
		byHash: make(map[common.Hash]*txtypes.ValidPoolTransaction[T]),
		txs:    make(map[identifier.TransactionId]*poolInternalTransaction[T]),
	}
}

// contains reports whether hash is currently known.
func (a *allTransactions[T]) contains(hash common.Hash) bool {
	_, ok := a.byHash[hash]
	return ok
}

// get returns the valid transaction for hash, if known.
func (a *allTransactions[T]) get(hash common.Hash) (*txtypes.ValidPoolTransaction[T], bool) {
	tx, ok := a.byHash[hash]
	return tx, ok
}

// insertTx inserts tx, deriving its TxState/SubPool from the supplied
// on-chain values, and applies the replacement rule if a same-slot
// incumbent already exists (spec §4.3, invariant I5).
//
// Preconditions, asserted rather than returned as errors because the
// validator (§4.2) already guarantees them before a transaction ever
// reaches this call: onChainNonce <= tx.Nonce(), and tx.Cost() > 0. A
// violation here is a caller bug, not a rejectable transaction — hence the
// panic instead of insertErrInvalidTransaction, which is reserved for a
// structural violation a caller could plausibly trigger by bypassing the
// validator (spec §4.3 "error arm").
func (a *allTransactions[T]) insertTx(
	tx *txtypes.ValidPoolTransaction[T],
	onChainBalance *uint256.Int,
	onChainNonce uint64,
) (insertOk[T], *insertErr[T]) {
	if onChainNonce > tx.Nonce() {
		panic(fmt.Sprintf("txpool: on-chain nonce %d exceeds transaction nonce %d", onChainNonce, tx.Nonce()))
	}
	if tx.Cost().Sign() <= 0 {
		panic("txpool: transaction cost must be positive")
	}

	cost := new(uint256.Int).Add(tx.Transaction.Cost(), tx.Transaction.Value())
	state := txtypes.TxState{
		HasBalance:  cost.Cmp(onChainBalance) <= 0,
		HasAncestor: tx.Nonce() > onChainNonce,
	}
	subPool := state.Derive()

	incoming := &poolInternalTransaction[T]{transaction: tx, state: state, subPool: subPool}

	id := tx.ID()
	incumbent, occupied := a.txs[id]
	if !occupied {
		a.txs[id] = incoming
		a.byHash[tx.Hash()] = tx
		return insertOk[T]{transaction: tx, subPool: subPool}, nil
	}

	// Replacement monotonicity (I5): the incumbent is retained unless the
	// incoming candidate is strictly higher cost.
	if tx.Cost().Cmp(incumbent.transaction.Cost()) <= 0 {
		return insertOk[T]{}, &insertErr[T]{kind: insertErrUnderpriced, transaction: tx}
	}

	delete(a.byHash, incumbent.transaction.Hash())
	a.txs[id] = incoming
	a.byHash[tx.Hash()] = tx

	return insertOk[T]{
		transaction: tx,
		replacedTx:  &replacedTx[T]{transaction: incumbent.transaction, subPool: incumbent.subPool},
		subPool:     subPool,
	}, nil
}

// removeTransaction removes the entry for id, returning the removed
// transaction and its last-known sub-pool.
func (a *allTransactions[T]) removeTransaction(id identifier.TransactionId) (*txtypes.ValidPoolTransaction[T], txtypes.SubPool, bool) {
	entry, ok := a.txs[id]
	if !ok {
		return nil, txtypes.Parked, false
	}
	delete(a.txs, id)
	delete(a.byHash, entry.transaction.Hash())
	return entry.transaction, entry.subPool, true
}

// removeTransactionByHash mirrors removeTransaction, keyed by hash.
func (a *allTransactions[T]) removeTransactionByHash(hash common.Hash) (*txtypes.ValidPoolTransaction[T], txtypes.SubPool, bool) {
	tx, ok := a.byHash[hash]
	if !ok {
		return nil, txtypes.Parked, false
	}
	return a.removeTransaction(tx.ID())
}

// len reports the total number of live transactions across both sub-pools.
func (a *allTransactions[T]) len() int { return len(a.txs) }
