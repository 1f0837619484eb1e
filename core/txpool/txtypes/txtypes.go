// Package txtypes defines the transaction-pool's data model: the capability
// a pooled transaction must expose, the origin it entered from, the valid
// wrapper produced by a Validator, and the small state word that decides
// sub-pool placement.
package txtypes

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Pyoyeongjong/pintL1/core/txpool/identifier"
)

// PoolTransaction is the capability any in-pool transaction exposes to the
// core. Decoding, signature recovery, and cryptography stay outside the
// pool's concern entirely; a conforming PoolTransaction implementation has
// already been decoded and its sender recovered.
type PoolTransaction interface {
	TxType() uint8
	ChainID() *uint256.Int
	Nonce() uint64
	Value() *uint256.Int
	Sender() common.Address
	Hash() common.Hash
	// Cost is the bid/priority expressed as a non-negative amount; it is
	// the replacement comparator and the default ordering input.
	Cost() *uint256.Int
	// GetPriority returns the raw priority value, or nil if the
	// transaction doesn't carry one (e.g. it was rejected upstream of
	// ordering but is still being inspected).
	GetPriority() *uint256.Int
}

// TransactionOrigin records where a candidate transaction came from. It
// affects only the propagate flag a Validator returns.
type TransactionOrigin uint8

const (
	// Local transactions were submitted by this node's own user/RPC.
	Local TransactionOrigin = iota
	// External transactions arrived from the network.
	External
	// Private transactions must never be rebroadcast.
	Private
)

func (o TransactionOrigin) String() string {
	switch o {
	case Local:
		return "local"
	case External:
		return "external"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// ValidPoolTransaction wraps a PoolTransaction once a Validator has accepted
// it. Invariant: transactionID.Nonce == transaction.Nonce() and
// transactionID.Sender is the interned id for transaction.Sender().
type ValidPoolTransaction[T PoolTransaction] struct {
	Transaction   T
	TransactionID identifier.TransactionId
	Origin        TransactionOrigin
	Timestamp     time.Time
}

// NewValidPoolTransaction constructs the wrapper. The TransactionId nonce is
// taken from tx, so that half of the identity invariant holds by
// construction; sender is trusted to be the interned id for tx.Sender().
func NewValidPoolTransaction[T PoolTransaction](tx T, sender identifier.SenderId, origin TransactionOrigin, now time.Time) *ValidPoolTransaction[T] {
	return &ValidPoolTransaction[T]{
		Transaction:   tx,
		TransactionID: identifier.NewTransactionId(sender, tx.Nonce()),
		Origin:        origin,
		Timestamp:     now,
	}
}

// ID returns the transaction's (sender, nonce) primary key.
func (v *ValidPoolTransaction[T]) ID() identifier.TransactionId {
	return v.TransactionID
}

// SenderID returns the interned sender id.
func (v *ValidPoolTransaction[T]) SenderID() identifier.SenderId {
	return v.TransactionID.Sender
}

// Hash returns the transaction's content hash.
func (v *ValidPoolTransaction[T]) Hash() common.Hash {
	return v.Transaction.Hash()
}

// Nonce returns the transaction's nonce.
func (v *ValidPoolTransaction[T]) Nonce() uint64 {
	return v.Transaction.Nonce()
}

// Cost returns the transaction's bid, used for the replacement comparator.
func (v *ValidPoolTransaction[T]) Cost() *uint256.Int {
	return v.Transaction.Cost()
}

// TxState is the 2-bit state word that determines a transaction's sub-pool.
// It is computed once at insertion and is immutable afterwards in this
// core (a full node would recompute it on every state transition; that is
// out of scope here).
type TxState struct {
	// HasBalance holds when cost+value <= on-chain balance at insertion time.
	HasBalance bool
	// HasAncestor holds when nonce > on-chain nonce, i.e. there is at least
	// one unseen earlier nonce blocking execution.
	HasAncestor bool
}

// SubPool derives the sub-pool a TxState belongs to. Pending iff the
// transaction has sufficient balance and no nonce gap; Parked otherwise.
// No third sub-pool exists in this core.
type SubPool uint8

const (
	Parked SubPool = iota
	Pending
)

func (s SubPool) IsPending() bool { return s == Pending }

func (s SubPool) String() string {
	if s == Pending {
		return "pending"
	}
	return "parked"
}

// Derive computes the sub-pool a TxState belongs to.
func (s TxState) Derive() SubPool {
	if s.HasBalance && !s.HasAncestor {
		return Pending
	}
	return Parked
}
