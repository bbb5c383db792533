// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"sync"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// Mempool represents the transactions waiting to be sealed into the next
// block. Insertion order is preserved and is the order transactions land in
// the block.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// size of the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a copy of the pending transactions in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	out := make([]database.Tx, len(mp.pool))
	copy(out, mp.pool)

	return out
}

// PickAll removes every transaction from the pool and returns them in
// insertion order. The returned slice is never nil.
func (mp *Mempool) PickAll() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	out := mp.pool
	if out == nil {
		out = []database.Tx{}
	}
	mp.pool = nil

	return out
}
