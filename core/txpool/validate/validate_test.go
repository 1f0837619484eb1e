package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

type validateTestTx struct {
	txType uint8
	nonce  uint64
	cost   int64
	sender common.Address
	hash   common.Hash
}

func (t validateTestTx) TxType() uint8             { return t.txType }
func (t validateTestTx) ChainID() *uint256.Int     { return uint256.NewInt(1) }
func (t validateTestTx) Nonce() uint64             { return t.nonce }
func (t validateTestTx) Value() *uint256.Int       { return uint256.NewInt(0) }
func (t validateTestTx) Sender() common.Address    { return t.sender }
func (t validateTestTx) Hash() common.Hash         { return t.hash }
func (t validateTestTx) Cost() *uint256.Int        { return uint256.NewInt(uint64(t.cost)) }
func (t validateTestTx) GetPriority() *uint256.Int { return uint256.NewInt(uint64(t.cost)) }

type fakeSnapshot struct {
	accounts map[common.Address]*Account
	err      error
}

func (f *fakeSnapshot) BasicAccount(addr common.Address) (*Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts[addr], nil
}

type fakeStateFactory struct {
	snapshot *fakeSnapshot
	err      error
	calls    int
}

func (f *fakeStateFactory) Latest() (StateSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeStateFactory) StateByBlockNumber(uint64) (StateSnapshot, error) {
	return f.snapshot, nil
}

func TestPintValidator_RejectsUnsupportedTxType(t *testing.T) {
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{accounts: map[common.Address]*Account{}}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 1, cost: 10}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsInvalid())
	require.Equal(t, TxTypeNotSupported, outcome.Kind())
	require.Equal(t, 0, factory.calls, "state-free rejection must not fetch a snapshot")
}

func TestPintValidator_RejectsNonPositiveCost(t *testing.T) {
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{accounts: map[common.Address]*Account{}}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 0}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsInvalid())
	require.Equal(t, NotEnoughFee, outcome.Kind())
}

func TestPintValidator_RejectsStaleNonce(t *testing.T) {
	addr := common.HexToAddress("0x01")
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{
		accounts: map[common.Address]*Account{addr: {Nonce: 5, Balance: uint256.NewInt(100)}},
	}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 10, nonce: 4, sender: addr}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsInvalid())
	require.Equal(t, NonceNotConsistent, outcome.Kind())
}

func TestPintValidator_AcceptsValidTransaction(t *testing.T) {
	addr := common.HexToAddress("0x02")
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{
		accounts: map[common.Address]*Account{addr: {Nonce: 0, Balance: uint256.NewInt(100)}},
	}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 10, nonce: 0, sender: addr}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.External, tx)

	require.True(t, outcome.IsValid())
	require.Equal(t, uint64(0), outcome.Nonce())
	require.Equal(t, uint64(100), outcome.Balance().Uint64())
	require.True(t, outcome.Propagate())
}

func TestPintValidator_PrivateOriginNeverPropagates(t *testing.T) {
	addr := common.HexToAddress("0x03")
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{
		accounts: map[common.Address]*Account{addr: {Nonce: 0, Balance: uint256.NewInt(100)}},
	}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 10, nonce: 0, sender: addr}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Private, tx)

	require.True(t, outcome.IsValid())
	require.False(t, outcome.Propagate())
}

func TestPintValidator_UnknownAccountDefaultsToZero(t *testing.T) {
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{accounts: map[common.Address]*Account{}}}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 10, nonce: 0, sender: common.HexToAddress("0x09")}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsValid())
	require.Equal(t, uint64(0), outcome.Nonce())
	require.Equal(t, uint64(0), outcome.Balance().Uint64())
}

func TestPintValidator_StateErrorPropagates(t *testing.T) {
	wantErr := errors.New("state backend unavailable")
	factory := &fakeStateFactory{err: wantErr}
	validator := NewPintValidatorBuilder[validateTestTx](factory).Build()

	tx := validateTestTx{txType: 0, cost: 10, nonce: 0, sender: common.HexToAddress("0x0a")}
	outcome := validator.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsError())
	require.ErrorIs(t, outcome.Err(), wantErr)
}

func TestTaskExecutor_DelegatesUnchanged(t *testing.T) {
	addr := common.HexToAddress("0x04")
	factory := &fakeStateFactory{snapshot: &fakeSnapshot{
		accounts: map[common.Address]*Account{addr: {Nonce: 0, Balance: uint256.NewInt(100)}},
	}}
	inner := NewPintValidatorBuilder[validateTestTx](factory).Build()
	executor := NewTaskExecutor[validateTestTx](inner)

	tx := validateTestTx{txType: 0, cost: 10, nonce: 0, sender: addr}
	outcome := executor.ValidateTransaction(context.Background(), txtypes.Local, tx)

	require.True(t, outcome.IsValid())
}
