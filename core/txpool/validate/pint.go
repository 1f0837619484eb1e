package validate

import (
	"context"

	"github.com/holiman/uint256"
	"golang.org/x/sync/singleflight"

	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// defaultTxFeeCap is the soft ceiling on advertised priority a
// PintValidatorBuilder applies unless overridden (spec §6 configuration).
// It is advisory only; this core does not reject on it.
const defaultTxFeeCap = uint64(1e9)

// PintValidator is the Pint-flavored TransactionValidator (spec §4.2): the
// only validation algorithm this core requires.
type PintValidator[T txtypes.PoolTransaction] struct {
	client    StateProviderFactory
	txFeeCap  uint64
	snapshots singleflight.Group
}

// PintValidatorBuilder configures and constructs a PintValidator.
type PintValidatorBuilder[T txtypes.PoolTransaction] struct {
	client   StateProviderFactory
	txFeeCap uint64
}

// NewPintValidatorBuilder starts from the default tx_fee_cap of 1e9.
func NewPintValidatorBuilder[T txtypes.PoolTransaction](client StateProviderFactory) *PintValidatorBuilder[T] {
	return &PintValidatorBuilder[T]{client: client, txFeeCap: defaultTxFeeCap}
}

// SetTxFeeCap overrides the advisory fee cap; 0 means no cap.
func (b *PintValidatorBuilder[T]) SetTxFeeCap(cap uint64) *PintValidatorBuilder[T] {
	b.txFeeCap = cap
	return b
}

// Build constructs the validator.
func (b *PintValidatorBuilder[T]) Build() *PintValidator[T] {
	return &PintValidator[T]{client: b.client, txFeeCap: b.txFeeCap}
}

// ValidateTransaction implements Validator. It performs the state-free
// checks first, then — only if those pass — fetches a state snapshot and
// performs the state-dependent checks (spec §4.2 algorithm).
//
// Concurrent callers validating against the same chain head collapse into
// one Latest() fetch via singleflight, the Go expression of the source's
// "pass the cached reference in" batching trick, generalized to work
// across goroutines rather than within a single sequential batch.
func (v *PintValidator[T]) ValidateTransaction(ctx context.Context, origin txtypes.TransactionOrigin, tx T) Outcome[T] {
	if outcome, rejected := v.validateStateless(tx); rejected {
		return outcome
	}

	snapshotAny, err, _ := v.snapshots.Do("latest", func() (interface{}, error) {
		return v.client.Latest()
	})
	if err != nil {
		return Error[T](tx.Hash(), err)
	}
	snapshot := snapshotAny.(StateSnapshot)

	return v.validateAgainstState(origin, tx, snapshot)
}

// validateStateless runs the state-free checks: tx type, then non-zero cost.
func (v *PintValidator[T]) validateStateless(tx T) (Outcome[T], bool) {
	if tx.TxType() != 0 {
		return Invalid(tx, TxTypeNotSupported), true
	}
	if tx.Cost().Sign() <= 0 {
		return Invalid(tx, NotEnoughFee), true
	}
	return Outcome[T]{}, false
}

// validateAgainstState fetches the sender's account and checks its nonce;
// a missing account is treated as {nonce: 0, balance: 0}.
func (v *PintValidator[T]) validateAgainstState(origin txtypes.TransactionOrigin, tx T, snapshot StateSnapshot) Outcome[T] {
	account, err := snapshot.BasicAccount(tx.Sender())
	if err != nil {
		return Error[T](tx.Hash(), err)
	}
	if account == nil {
		account = &Account{Nonce: 0, Balance: uint256.NewInt(0)}
	}

	if tx.Nonce() < account.Nonce {
		return Invalid(tx, NonceNotConsistent)
	}

	return Valid(tx, account.Balance, account.Nonce, origin != txtypes.Private)
}
