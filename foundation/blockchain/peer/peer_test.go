package peer_test

import (
	"errors"
	"testing"

	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host3"}, {Host: "host1"}, {Host: "host2"}, {Host: "host1"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			if ps.Count() != 3 {
				t.Logf("Test %s:\tgot: %d", tst.name, ps.Count())
				t.Logf("Test %s:\texp: %d", tst.name, 3)
				t.Fatalf("Test %s:\tShould not store duplicates.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != 3 || peers[0].Host != "host1" || peers[2].Host != "host3" {
				t.Logf("Test %s:\tgot: %v", tst.name, peers)
				t.Fatalf("Test %s:\tShould get back the peers sorted by host.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != 2 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, 2)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			ps.Remove(peer.New("host1"))
			if ps.Count() != 2 {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Parse(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		invalid bool
	}

	tt := []table{
		{name: "url", address: "http://192.168.0.5:5000", host: "192.168.0.5:5000"},
		{name: "url-path", address: "http://192.168.0.5:5000/chain", host: "192.168.0.5:5000"},
		{name: "https", address: "https://node.example.com", host: "node.example.com"},
		{name: "bare", address: "localhost:5001", host: "localhost:5001"},
		{name: "spaces", address: "  127.0.0.1:5002 ", host: "127.0.0.1:5002"},
		{name: "empty", address: "", invalid: true},
		{name: "scheme-only", address: "http://", invalid: true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			pr, err := peer.Parse(tst.address)

			if tst.invalid {
				if !errors.Is(err, peer.ErrInvalidAddress) {
					t.Fatalf("Test %s:\tShould reject the address, got %v.", tst.name, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould be able to parse the address: %s", tst.name, err)
			}

			if pr.Host != tst.host {
				t.Logf("Test %s:\tgot: %s", tst.name, pr.Host)
				t.Logf("Test %s:\texp: %s", tst.name, tst.host)
				t.Fatalf("Test %s:\tShould keep only the network location.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
