// Package genesis maintains the fixed values every chain starts from.
package genesis

// These values are shared by every node in the network. Changing any of them
// forks the node away from its peers.
const (
	Proof        = 100 // Proof stored in the genesis block.
	PrevHash     = "1" // Previous hash stored in the genesis block.
	Difficulty   = 4   // Number of leading '0' hex characters a proof hash needs.
	MiningReward = 1   // Amount credited to the miner of each block.
	RewardSender = "0" // Sender of the mining reward, meaning newly minted coins.
)
