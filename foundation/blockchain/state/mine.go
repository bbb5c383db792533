package state

import (
	"context"
	"errors"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/ledgerlabs/powchain/foundation/blockchain/genesis"
)

// ErrStaleProof is returned when the chain changed while a proof was being
// searched for and the proof does not solve the puzzle for the new latest
// block.
var ErrStaleProof = errors.New("chain changed during mining, proof is stale")

// =============================================================================

// MineNewBlock performs one full mining cycle: it finds the proof for the
// latest block, credits this node with the mining reward and seals the
// pending transactions into a new block. The proof search can be cancelled
// through the context.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.mining.Inc()
	defer s.mining.Dec()

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// The search runs against a snapshot of the latest block without
	// holding the lock. This can be cancelled.
	lastBlock := s.RetrieveLatestBlock()
	proof, err := database.FindProof(ctx, lastBlock.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The chain may have been replaced or extended while we were mining.
	// The proof is only accepted if it still solves the puzzle for what is
	// now the latest block.
	latest := s.db.LatestBlock()
	if !database.ValidProof(latest.Proof, proof) {
		s.evHandler("state: MineNewBlock: MINING: stale proof[%d]: mined on blk[%d], latest blk[%d]", proof, lastBlock.Index, latest.Index)
		s.metrics.StaleProof()
		return database.Block{}, ErrStaleProof
	}

	s.evHandler("state: MineNewBlock: MINING: apply mining reward: node[%s]", s.nodeID)

	s.mempool.Add(database.NewRewardTx(genesis.RewardSender, s.nodeID, genesis.MiningReward))

	block, err := s.newBlock(proof, "")
	if err != nil {
		return database.Block{}, err
	}

	s.metrics.BlockMined()

	return block, nil
}
