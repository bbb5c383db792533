package state

import (
	"context"
	"errors"
	"sync"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
)

// ResolveConflicts implements the longest valid chain rule. Every known peer
// is asked for its chain; a chain is a candidate only if it is strictly
// longer than the best seen so far, starting with our own, and valid. If a
// candidate is found the local chain is replaced wholesale.
//
// Peers that can't be reached or answer with garbage are skipped. When more
// than one peer offers an equally long winning chain, the first one to
// arrive is kept.
func (s *State) ResolveConflicts(ctx context.Context) (bool, database.Chain) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		newChain  database.Chain
		maxLength = s.db.Length()
	)

	for _, pr := range s.RetrieveKnownPeers() {
		pr := pr

		task := func() {
			defer wg.Done()

			chain, err := s.NetRequestPeerChain(ctx, pr)
			if err != nil {
				s.evHandler("state: ResolveConflicts: peer-node[%s]: SKIP: %s", pr, err)
				switch {
				case errors.Is(err, ErrMalformedResponse):
					s.metrics.PeerFailure("malformed")
				default:
					s.metrics.PeerFailure("unreachable")
				}
				return
			}

			mu.Lock()
			longer := len(chain) > maxLength
			mu.Unlock()

			if !longer {
				s.evHandler("state: ResolveConflicts: peer-node[%s]: SKIP: length[%d] not longer", pr, len(chain))
				return
			}

			if err := database.ValidateChain(chain, s.evHandler); err != nil {
				s.evHandler("state: ResolveConflicts: peer-node[%s]: SKIP: %s", pr, err)
				s.metrics.PeerFailure("invalid")
				return
			}

			mu.Lock()
			defer mu.Unlock()

			// Another peer may have delivered a longer chain while this
			// one was being validated.
			if len(chain) > maxLength {
				s.evHandler("state: ResolveConflicts: peer-node[%s]: candidate length[%d]", pr, len(chain))
				maxLength = len(chain)
				newChain = chain
			}
		}

		wg.Add(1)
		if err := s.fetchPool.Submit(task); err != nil {
			wg.Done()
			s.evHandler("state: ResolveConflicts: peer-node[%s]: SKIP: %s", pr, err)
		}
	}

	wg.Wait()

	if newChain == nil {
		s.evHandler("state: ResolveConflicts: our chain is authoritative")
		return false, s.db.Copy()
	}

	if !s.replaceChain(newChain) {
		s.evHandler("state: ResolveConflicts: local chain grew during resolution, keeping it")
		return false, s.db.Copy()
	}

	s.evHandler("state: ResolveConflicts: our chain was replaced: length[%d]", len(newChain))

	// Any mining in progress is working on a block that no longer exists.
	s.Worker.SignalCancelMining()

	return true, s.db.Copy()
}

// replaceChain swaps in the new chain as long as it is still strictly
// longer than the local one.
func (s *State) replaceChain(chain database.Chain) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chain) <= s.db.Length() {
		return false
	}

	s.db.Replace(chain)

	s.metrics.ChainReplaced()
	s.metrics.SetChainLength(len(chain))

	return true
}
