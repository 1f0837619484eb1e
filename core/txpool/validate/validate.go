// Package validate implements the pool's state-aware admission check: the
// tri-valued outcome (Valid / Invalid / Error) described in spec §4.2.
package validate

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// InvalidKind enumerates the reasons a candidate can be permanently
// rejected.
type InvalidKind uint8

const (
	TxTypeNotSupported InvalidKind = iota
	NotEnoughFee
	NonceNotConsistent
)

func (k InvalidKind) String() string {
	switch k {
	case TxTypeNotSupported:
		return "tx type not supported"
	case NotEnoughFee:
		return "not enough fee"
	case NonceNotConsistent:
		return "nonce not consistent"
	default:
		return "unknown"
	}
}

// Outcome is the tri-valued result of validating a candidate transaction.
// Exactly one of the three constructors below produced any given value.
type Outcome[T txtypes.PoolTransaction] struct {
	transaction T

	valid bool
	// Valid fields
	balance   *uint256.Int
	nonce     uint64
	propagate bool

	// Invalid fields
	invalidSet bool
	kind       InvalidKind

	// Error fields
	errSet bool
	hash   common.Hash
	err    error
}

// Valid reports an accepted candidate, carrying the sender's on-chain
// balance and nonce at the snapshot consulted, plus whether it may be
// rebroadcast.
func Valid[T txtypes.PoolTransaction](tx T, balance *uint256.Int, nonce uint64, propagate bool) Outcome[T] {
	return Outcome[T]{transaction: tx, valid: true, balance: balance, nonce: nonce, propagate: propagate}
}

// Invalid reports a permanently rejected candidate.
func Invalid[T txtypes.PoolTransaction](tx T, kind InvalidKind) Outcome[T] {
	return Outcome[T]{transaction: tx, invalidSet: true, kind: kind}
}

// Error reports a transient failure; the caller must not treat it as a
// permanent rejection.
func Error[T txtypes.PoolTransaction](hash common.Hash, err error) Outcome[T] {
	return Outcome[T]{errSet: true, hash: hash, err: err}
}

func (o Outcome[T]) IsValid() bool   { return o.valid }
func (o Outcome[T]) IsInvalid() bool { return o.invalidSet }
func (o Outcome[T]) IsError() bool   { return o.errSet }

// Transaction returns the candidate transaction; populated for Valid and
// Invalid outcomes.
func (o Outcome[T]) Transaction() T { return o.transaction }

// Balance returns the sender's on-chain balance; only meaningful when IsValid.
func (o Outcome[T]) Balance() *uint256.Int { return o.balance }

// Nonce returns the sender's on-chain nonce; only meaningful when IsValid.
func (o Outcome[T]) Nonce() uint64 { return o.nonce }

// Propagate reports whether the transaction may be rebroadcast; only
// meaningful when IsValid.
func (o Outcome[T]) Propagate() bool { return o.propagate }

// Kind returns the rejection reason; only meaningful when IsInvalid.
func (o Outcome[T]) Kind() InvalidKind { return o.kind }

// Hash and Err return the transient-failure details; only meaningful when IsError.
func (o Outcome[T]) Hash() common.Hash { return o.hash }
func (o Outcome[T]) Err() error        { return o.err }

// Validator is the pool's state-aware admission capability.
type Validator[T txtypes.PoolTransaction] interface {
	ValidateTransaction(ctx context.Context, origin txtypes.TransactionOrigin, tx T) Outcome[T]
}

// Account is the minimal on-chain account shape the validator consults.
type Account struct {
	Nonce   uint64
	Balance *uint256.Int
}

// StateSnapshot is a point-in-time view of account state.
type StateSnapshot interface {
	// BasicAccount returns the account at addr, or nil if it has never
	// been seen (the caller treats a missing account as {nonce:0, balance:0}).
	BasicAccount(addr common.Address) (*Account, error)
}

// StateProviderFactory produces StateSnapshots. This is the one boundary in
// the core where dynamic dispatch is appropriate (spec §9): callers plug in
// whatever chain/state backend they have, the validator only ever sees the
// narrow StateSnapshot capability.
type StateProviderFactory interface {
	Latest() (StateSnapshot, error)
	StateByBlockNumber(number uint64) (StateSnapshot, error)
}
