// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ledgerlabs/powchain/business/sys/validate"
	"github.com/ledgerlabs/powchain/business/web/errs"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
	"github.com/ledgerlabs/powchain/foundation/blockchain/state"
	"github.com/ledgerlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of peer endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Nodes returns the set of known peers.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hosts := hostList(h.State.RetrieveKnownPeers())

	resp := nodes{
		Nodes:  hosts,
		Length: len(hosts),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the posted addresses to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		if validate.IsFieldErrors(err) {
			return errs.NewTrusted(errors.New("please supply a valid list of nodes"), http.StatusBadRequest)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	peers, err := h.State.RegisterPeers(rn.Nodes)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("register nodes", "traceid", v.TraceID, "added", len(peers))

	resp := registered{
		Message:    "New nodes have been added",
		TotalNodes: hostList(h.State.RetrieveKnownPeers()),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the consensus algorithm against every known peer.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	isReplaced, chain := h.State.ResolveConflicts(ctx)

	if isReplaced {
		resp := replaced{
			Message:  "Our chain was replaced",
			NewChain: chain,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritative{
		Message: "Our chain is authoritative",
		Chain:   chain,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	resp := status{
		NodeID:         h.State.RetrieveNodeID(),
		Host:           h.State.RetrieveHost(),
		LastBlockIndex: latestBlock.Index,
		LastBlockHash:  latestBlock.Hash(),
		Pending:        h.State.QueryMempoolLength(),
		Mining:         h.State.IsMining(),
		KnownPeers:     hostList(h.State.RetrieveKnownPeers()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the transactions waiting for the next block.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()

	resp := pending{
		Transactions: txs,
		Length:       len(txs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Block returns the block with the specified index.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, err := h.State.QueryBlock(index)
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// =============================================================================

func hostList(peers []peer.Peer) []string {
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}
	return hosts
}
