// Package pinttx provides a minimal, concrete txtypes.PoolTransaction
// implementation: the pool core is generic over the transaction shape, but
// something has to play that role for tests, the demo CLI, and anyone
// wiring this module up before their own chain's transaction type exists.
package pinttx

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Transaction is a self-contained PoolTransaction: no signature, no RLP, no
// decoding — just the fields the pool core actually consults.
type Transaction struct {
	chainID  *uint256.Int
	hash     common.Hash
	sender   common.Address
	to       common.Address
	nonce    uint64
	value    *uint256.Int
	fee      *uint256.Int
	priority *uint256.Int
}

// New builds a Transaction. fee doubles as both the cost basis and the
// default priority value, matching the single-fee-tier model this core
// implements (no EIP-1559 split between base fee and tip).
func New(chainID uint64, hash common.Hash, sender, to common.Address, nonce uint64, value, fee *uint256.Int) *Transaction {
	return &Transaction{
		chainID:  uint256.NewInt(chainID),
		hash:     hash,
		sender:   sender,
		to:       to,
		nonce:    nonce,
		value:    value,
		fee:      fee,
		priority: fee,
	}
}

func (t *Transaction) TxType() uint8          { return 0 }
func (t *Transaction) ChainID() *uint256.Int  { return t.chainID }
func (t *Transaction) Nonce() uint64          { return t.nonce }
func (t *Transaction) Value() *uint256.Int    { return t.value }
func (t *Transaction) Sender() common.Address { return t.sender }
func (t *Transaction) To() common.Address     { return t.to }
func (t *Transaction) Hash() common.Hash      { return t.hash }
func (t *Transaction) Cost() *uint256.Int     { return t.fee }
func (t *Transaction) GetPriority() *uint256.Int {
	return t.priority
}

// WithNonce returns a shallow copy of t with nonce replaced, the idiom used
// throughout the test suite to derive a descendant/ancestor of a base
// transaction without re-specifying every field.
func (t *Transaction) WithNonce(nonce uint64) *Transaction {
	cp := *t
	cp.nonce = nonce
	return &cp
}

// WithFee returns a shallow copy of t with fee (and priority) replaced.
func (t *Transaction) WithFee(fee *uint256.Int) *Transaction {
	cp := *t
	cp.fee = fee
	cp.priority = fee
	return &cp
}

// WithHash returns a shallow copy of t with hash replaced.
func (t *Transaction) WithHash(hash common.Hash) *Transaction {
	cp := *t
	cp.hash = hash
	return &cp
}
