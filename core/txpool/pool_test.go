package txpool

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/Pyoyeongjong/pintL1/core/txpool/pinttx"
	"github.com/Pyoyeongjong/pintL1/core/txpool/subpool"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
	"github.com/Pyoyeongjong/pintL1/core/txpool/validate"
)

type poolTestState struct {
	accounts map[common.Address]*validate.Account
}

func newPoolTestState() *poolTestState {
	return &poolTestState{accounts: make(map[common.Address]*validate.Account)}
}

func (s *poolTestState) set(addr common.Address, nonce uint64, balance uint64) {
	s.accounts[addr] = &validate.Account{Nonce: nonce, Balance: uint256.NewInt(balance)}
}

func (s *poolTestState) Latest() (validate.StateSnapshot, error)               { return s, nil }
func (s *poolTestState) StateByBlockNumber(uint64) (validate.StateSnapshot, error) { return s, nil }
func (s *poolTestState) BasicAccount(addr common.Address) (*validate.Account, error) {
	return s.accounts[addr], nil
}

func newTestPool(t *testing.T, state *poolTestState) *Pool[*pinttx.Transaction, *uint256.Int] {
	t.Helper()
	validator := validate.NewPintValidatorBuilder[*pinttx.Transaction](state).Build()
	ordering := subpool.Uint256Ordering[*pinttx.Transaction]{}
	return New[*pinttx.Transaction](validator, ordering, DefaultConfig)
}

func newHash(seed byte) common.Hash {
	var h common.Hash
	h[common.HashLength-1] = seed
	return h
}

func TestPoolAddTransaction_GoesPending(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x01")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	tx := pinttx.New(1, newHash(1), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	valid, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)
	require.NotNil(t, valid)
	require.Equal(t, 1, pool.PendingLen())
	require.Equal(t, 0, pool.ParkedLen())
}

func TestPoolAddTransaction_NonceGapParks(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x02")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	tx := pinttx.New(1, newHash(2), alice, common.Address{}, 5, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)
	require.Equal(t, 0, pool.PendingLen())
	require.Equal(t, 1, pool.ParkedLen())
}

func TestPoolAddTransaction_AlreadyImported(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x03")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	tx := pinttx.New(1, newHash(3), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)

	_, err = pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAlreadyImported)
}

func TestPoolAddTransaction_ReplacementUnderpriced(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x04")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	first := pinttx.New(1, newHash(4), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, first)
	require.NoError(t, err)

	sameCost := pinttx.New(1, newHash(5), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err = pool.AddTransaction(context.Background(), txtypes.Local, sameCost)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrReplacementUnderpriced)

	higherCost := pinttx.New(1, newHash(6), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(11))
	valid, err := pool.AddTransaction(context.Background(), txtypes.Local, higherCost)
	require.NoError(t, err)
	require.Equal(t, higherCost.Hash(), valid.Hash())
	require.Equal(t, 1, pool.PendingLen())

	_, ok := pool.Get(first.Hash())
	require.False(t, ok)
}

func TestPoolAddTransaction_InvalidRejected(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x05")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	// Cost of zero is rejected by the validator's stateless check.
	tx := pinttx.New(1, newHash(7), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(0))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.Error(t, err)

	rejections := pool.RecentRejections(10)
	require.Len(t, rejections, 1)
	require.Equal(t, tx.Hash(), rejections[0].Hash)
}

func TestPoolBestTransactions_PriorityOrder(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x06")
	bob := common.HexToAddress("0x07")
	state.set(alice, 0, 1000)
	state.set(bob, 0, 1000)
	pool := newTestPool(t, state)

	txLow := pinttx.New(1, newHash(8), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(5))
	txHigh := pinttx.New(1, newHash(9), bob, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(50))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, txLow)
	require.NoError(t, err)
	_, err = pool.AddTransaction(context.Background(), txtypes.Local, txHigh)
	require.NoError(t, err)

	best := pool.BestTransactions()
	first := best.Next()
	require.NotNil(t, first)
	require.Equal(t, txHigh.Hash(), first.Hash())

	second := best.Next()
	require.NotNil(t, second)
	require.Equal(t, txLow.Hash(), second.Hash())

	require.Nil(t, best.Next())
}

func TestPoolSubscribeNewPendingTransactions(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x08")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	ch, unsubscribe := pool.SubscribeNewPendingTransactions(1)
	defer unsubscribe()

	tx := pinttx.New(1, newHash(10), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)

	select {
	case entry := <-ch:
		require.Equal(t, tx.Hash(), entry.Transaction.Hash())
	default:
		t.Fatal("expected a buffered pending notification")
	}
}

func TestPoolSubscribeNewTxsEvent(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x09")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	ch := make(chan *subpool.PendingTransaction[*pinttx.Transaction, *uint256.Int], 1)
	sub := pool.SubscribeNewTxsEvent(ch)
	defer sub.Unsubscribe()

	tx := pinttx.New(1, newHash(11), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)

	select {
	case entry := <-ch:
		require.Equal(t, tx.Hash(), entry.Transaction.Hash())
	case err := <-sub.Err():
		t.Fatalf("subscription error: %v", err)
	}
}

func TestPoolRemoveTransaction(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x0a")
	state.set(alice, 0, 1000)
	pool := newTestPool(t, state)

	tx := pinttx.New(1, newHash(12), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	valid, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)
	require.NoError(t, err)

	removed, ok := pool.RemoveTransaction(valid.ID())
	require.True(t, ok)
	require.Equal(t, tx.Hash(), removed.Hash())
	require.Equal(t, 0, pool.PendingLen())

	_, ok = pool.Get(tx.Hash())
	require.False(t, ok)
}

// failingState is a StateProviderFactory whose Latest() always fails,
// simulating a transient backend outage (spec §4.7's "Error(hash, _)" arm).
type failingState struct {
	err error
}

func (f *failingState) Latest() (validate.StateSnapshot, error) { return nil, f.err }
func (f *failingState) StateByBlockNumber(uint64) (validate.StateSnapshot, error) {
	return nil, f.err
}

func TestPoolAddTransaction_ValidatorErrorMapsToImportError(t *testing.T) {
	backendErr := errors.New("state backend unavailable")
	validator := validate.NewPintValidatorBuilder[*pinttx.Transaction](&failingState{err: backendErr}).Build()
	ordering := subpool.Uint256Ordering[*pinttx.Transaction]{}
	pool := New[*pinttx.Transaction](validator, ordering, DefaultConfig)

	tx := pinttx.New(1, newHash(20), common.HexToAddress("0x0b"), common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, tx)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrImportError)
	require.ErrorIs(t, err, backendErr)

	var poolErr *Error
	require.ErrorAs(t, err, &poolErr)
	require.Equal(t, ImportError, poolErr.Kind)
	require.Equal(t, tx.Hash(), poolErr.Hash)

	rejections := pool.RecentRejections(10)
	require.Len(t, rejections, 1)
	require.Equal(t, ImportError, rejections[0].Kind)
}

// TestPoolBestTransactions_SnapshotIsolation exercises spec.md §8's named
// law: mutating the live pool after BestTransactions() must not affect an
// iterator already taken.
func TestPoolBestTransactions_SnapshotIsolation(t *testing.T) {
	state := newPoolTestState()
	alice := common.HexToAddress("0x0c")
	bob := common.HexToAddress("0x0d")
	state.set(alice, 0, 1000)
	state.set(bob, 0, 1000)
	pool := newTestPool(t, state)

	aliceTx := pinttx.New(1, newHash(21), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(10))
	_, err := pool.AddTransaction(context.Background(), txtypes.Local, aliceTx)
	require.NoError(t, err)

	best := pool.BestTransactions()

	// Mutate the live pool after the snapshot was taken: replace alice's
	// transaction and admit a new, higher-priority one from bob.
	replacement := pinttx.New(1, newHash(22), alice, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(999))
	_, err = pool.AddTransaction(context.Background(), txtypes.Local, replacement)
	require.NoError(t, err)

	bobTx := pinttx.New(1, newHash(23), bob, common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(500))
	_, err = pool.AddTransaction(context.Background(), txtypes.Local, bobTx)
	require.NoError(t, err)

	// The already-taken iterator must still yield exactly the pre-mutation
	// snapshot: alice's original (now-replaced) transaction, nothing else.
	first := best.Next()
	require.NotNil(t, first)
	require.Equal(t, aliceTx.Hash(), first.Hash())
	require.Nil(t, best.Next())

	// The live pool, read fresh, reflects the mutations.
	freshBest := pool.BestTransactions()
	freshFirst := freshBest.Next()
	require.NotNil(t, freshFirst)
	require.Equal(t, replacement.Hash(), freshFirst.Hash())
}

// TestPoolAddExternalTransaction_ConcurrentAdmission runs many goroutines
// submitting distinct transactions through the writer lock concurrently,
// checking every admission is reflected exactly once (spec §5: a single
// writer must serialize mutations without losing updates). Run with -race
// to catch any lock-ordering regression.
func TestPoolAddExternalTransaction_ConcurrentAdmission(t *testing.T) {
	state := newPoolTestState()
	pool := newTestPool(t, state)

	const senders = 8
	addrs := make([]common.Address, senders)
	for i := 0; i < senders; i++ {
		addrs[i] = common.BigToAddress(new(big.Int).SetUint64(uint64(i + 1)))
		state.set(addrs[i], 0, 1000)
	}

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx := pinttx.New(1, newHash(byte(100+i)), addrs[i], common.Address{}, 0, uint256.NewInt(0), uint256.NewInt(uint64(10+i)))
			_, err := pool.AddExternalTransaction(context.Background(), tx)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, senders, pool.PendingLen())
}
