// Package identifier maintains the dense sender-id namespace the pool's
// ordered indices key on, instead of the wider 20-byte account address.
package identifier

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SenderId is a dense, process-lifetime-stable id assigned to a sender
// address the first time the pool sees it. Ids are never recycled.
type SenderId uint64

// TransactionId is the primary key of the pool's ordered indices: the pair
// (sender, nonce). The total order, implemented by Less, is lexicographic
// with sender as the primary component.
type TransactionId struct {
	Sender SenderId
	Nonce  uint64
}

// NewTransactionId builds the (sender, nonce) pair identifying a slot.
func NewTransactionId(sender SenderId, nonce uint64) TransactionId {
	return TransactionId{Sender: sender, Nonce: nonce}
}

// Less reports whether id sorts before other under the lexicographic
// (sender, nonce) order.
func (id TransactionId) Less(other TransactionId) bool {
	if id.Sender != other.Sender {
		return id.Sender < other.Sender
	}
	return id.Nonce < other.Nonce
}

// Registry maintains the bijection between sender addresses and dense
// SenderIds. It is safe for concurrent use: every method takes the
// registry's own mutex, so the pool façade calls it without holding its
// pool lock.
type Registry struct {
	mu            sync.Mutex // guards every field below
	nextId        SenderId
	addressToId   map[common.Address]SenderId
	idToAddress   map[SenderId]common.Address
}

// NewRegistry returns an empty identifier registry.
func NewRegistry() *Registry {
	return &Registry{
		addressToId: make(map[common.Address]SenderId),
		idToAddress: make(map[SenderId]common.Address),
	}
}

// SenderID performs a pure lookup, returning false if addr has never been seen.
func (r *Registry) SenderID(addr common.Address) (SenderId, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.addressToId[addr]
	return id, ok
}

// SenderIDOrCreate returns the existing id for addr, or assigns and records
// the next one. Requires exclusive access on the creation path.
func (r *Registry) SenderIDOrCreate(addr common.Address) SenderId {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.addressToId[addr]; ok {
		return id
	}
	id := r.nextId
	r.nextId++ // wraps around on overflow; not expected in practice
	r.addressToId[addr] = id
	r.idToAddress[id] = addr
	return id
}

// Address performs the reverse lookup, returning false if id was never assigned.
func (r *Registry) Address(id SenderId) (common.Address, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, ok := r.idToAddress[id]
	return addr, ok
}

// Len reports the number of distinct senders seen so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.addressToId)
}
