package state

import (
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
)

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(peer peer.Peer) bool {
	return s.knownPeers.Add(peer)
}

// RemoveKnownPeer provides the ability to forget a peer.
func (s *State) RemoveKnownPeer(peer peer.Peer) {
	s.knownPeers.Remove(peer)
}

// RegisterPeers normalizes each address and adds it to the known peers. No
// network call is made to confirm a peer exists. Nothing is added if any
// address is invalid.
func (s *State) RegisterPeers(addresses []string) ([]peer.Peer, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.Parse(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, pr)
	}

	for _, pr := range peers {
		if s.AddKnownPeer(pr) {
			s.evHandler("state: RegisterPeers: adding peer-node %s", pr)
		}
	}

	return peers, nil
}
