package state

import (
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// QueryChain returns a copy of the full chain.
func (s *State) QueryChain() database.Chain {
	return s.db.Copy()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	return s.db.Length()
}

// QueryBlock returns the block with the specified index.
func (s *State) QueryBlock(index uint64) (database.Block, error) {
	return s.db.GetBlock(index)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
