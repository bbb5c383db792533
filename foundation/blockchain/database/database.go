// Package database handles the lower level support for maintaining the
// blockchain in memory along with the hashing and proof of work rules every
// block must satisfy.
package database

import (
	"fmt"
	"sync"
)

// Database manages the in memory chain of blocks for the node. Nothing is
// persisted across restarts.
type Database struct {
	mu    sync.RWMutex
	chain Chain
}

// New constructs an empty database. The caller is responsible for writing
// the genesis block.
func New() *Database {
	return &Database{
		chain: Chain{},
	}
}

// Write appends a new block to the chain. The block must carry the next
// index in the chain.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if exp := uint64(len(db.chain)) + 1; block.Index != exp {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Index, exp)
	}

	db.chain = append(db.chain, block)

	return nil
}

// Replace swaps the entire chain for the specified one.
func (db *Database) Replace(chain Chain) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = chain.Clone()
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain.Last().Clone()
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Copy returns a copy of the chain.
func (db *Database) Copy() Chain {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain.Clone()
}

// GetBlock returns the block with the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index == 0 || index > uint64(len(db.chain)) {
		return Block{}, fmt.Errorf("block %d does not exist", index)
	}

	return db.chain[index-1].Clone(), nil
}
