package private

import (
	"github.com/ledgerlabs/powchain/business/sys/validate"
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// registerNodes is what a client posts to add peers.
type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

// Validate checks a list of nodes was supplied.
func (rn registerNodes) Validate() error {
	return validate.Check(rn)
}

// =============================================================================

type nodes struct {
	Nodes  []string `json:"nodes"`
	Length int      `json:"length"`
}

type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type replaced struct {
	Message  string         `json:"message"`
	NewChain database.Chain `json:"new_chain"`
}

type authoritative struct {
	Message string         `json:"message"`
	Chain   database.Chain `json:"chain"`
}

type status struct {
	NodeID         string   `json:"node_id"`
	Host           string   `json:"host"`
	LastBlockIndex uint64   `json:"last_block_index"`
	LastBlockHash  string   `json:"last_block_hash"`
	Pending        int      `json:"pending"`
	Mining         bool     `json:"mining"`
	KnownPeers     []string `json:"known_peers"`
}

type pending struct {
	Transactions []database.Tx `json:"transactions"`
	Length       int           `json:"length"`
}
