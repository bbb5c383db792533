package state

import (
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// NewBlock seals a new block with the specified proof, moving every pending
// transaction into it. When prevHash is empty the hash of the latest block
// is used.
func (s *State) NewBlock(proof uint64, prevHash string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.newBlock(proof, prevHash)
}

// newBlock performs the work of NewBlock. The caller must hold mu.
func (s *State) newBlock(proof uint64, prevHash string) (database.Block, error) {
	if prevHash == "" {
		prevHash = s.db.LatestBlock().Hash()
	}

	index := uint64(s.db.Length()) + 1
	trans := s.mempool.PickAll()

	block := database.NewBlock(index, trans, proof, prevHash)
	if err := s.db.Write(block); err != nil {

		// Put the transactions back so nothing is lost.
		for _, tx := range trans {
			s.mempool.Add(tx)
		}
		return database.Block{}, err
	}

	s.evHandler("state: newBlock: sealed: blk[%d]: txs[%d]: hash[%s]", block.Index, len(block.Transactions), block.Hash())

	s.metrics.SetChainLength(int(index))
	s.metrics.SetPending(s.mempool.Count())

	return block.Clone(), nil
}
