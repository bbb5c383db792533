// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/ledgerlabs/powchain/foundation/blockchain/genesis"
	"github.com/ledgerlabs/powchain/foundation/blockchain/mempool"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
	"github.com/ledgerlabs/powchain/foundation/metrics"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/atomic"
)

// Defaults applied when the configuration leaves a value unset.
const (
	defaultPeerTimeout    = 5 * time.Second
	defaultMaxPeerFetches = 16
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and peer reconciliation.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID         string
	Host           string
	KnownPeers     *peer.PeerSet
	PeerTimeout    time.Duration
	MaxPeerFetches int
	Metrics        *metrics.Metrics
	EvHandler      EventHandler
}

// State manages the chain and the pending pool. Every operation that mutates
// either one holds mu so the previous hash of a new block always matches the
// block it was appended to.
type State struct {
	mu sync.Mutex

	nodeID    string
	host      string
	evHandler EventHandler
	mining    *atomic.Int32

	knownPeers *peer.PeerSet
	db         *database.Database
	mempool    *mempool.Mempool
	client     *resty.Client
	fetchPool  *ants.Pool
	metrics    *metrics.Metrics

	Worker Worker
}

// New constructs a new blockchain for data management. The chain starts
// with the genesis block already in place.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	maxPeerFetches := cfg.MaxPeerFetches
	if maxPeerFetches <= 0 {
		maxPeerFetches = defaultMaxPeerFetches
	}

	// Peer chains are fetched concurrently, but never more than this many
	// at a time.
	fetchPool, err := ants.NewPool(maxPeerFetches)
	if err != nil {
		return nil, fmt.Errorf("constructing peer fetch pool: %w", err)
	}

	client := resty.New().
		SetTimeout(peerTimeout).
		SetHeader("Accept", "application/json")

	state := State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		evHandler: ev,
		mining:    atomic.NewInt32(0),

		knownPeers: knownPeers,
		db:         database.New(),
		mempool:    mempool.New(),
		client:     client,
		fetchPool:  fetchPool,
		metrics:    cfg.Metrics,

		// The worker.Run function replaces this with the real worker.
		Worker: noopWorker{},
	}

	// Every chain starts from the same fixed genesis block.
	if _, err := state.NewBlock(genesis.Proof, genesis.PrevHash); err != nil {
		fetchPool.Release()
		return nil, fmt.Errorf("writing genesis block: %w", err)
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	// Release the goroutines used to talk to peers.
	s.fetchPool.Release()

	return nil
}

// =============================================================================

// noopWorker is in place until a real worker registers itself.
type noopWorker struct{}

func (noopWorker) Shutdown()           {}
func (noopWorker) SignalStartMining()  {}
func (noopWorker) SignalCancelMining() {}
