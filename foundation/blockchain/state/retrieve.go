package state

import (
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
)

// RetrieveNodeID returns the identifier credited with mining rewards.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// IsMining reports whether a proof search is currently running.
func (s *State) IsMining() bool {
	return s.mining.Load() > 0
}
