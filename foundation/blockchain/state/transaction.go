package state

import "github.com/ledgerlabs/powchain/foundation/blockchain/database"

// NewTransaction adds a transaction to the pending pool and returns the
// index of the block that will eventually hold it. Amounts and balances are
// not validated; the ledger does not track balances.
func (s *State) NewTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	count := s.mempool.Add(tx)
	index := s.db.LatestBlock().Index + 1
	s.mu.Unlock()

	s.evHandler("state: NewTransaction: tx[%s]: blk[%d]: pending[%d]", tx, index, count)
	s.metrics.SetPending(count)

	s.Worker.SignalStartMining()

	return index
}
