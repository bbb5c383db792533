package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
)

// ErrMalformedResponse is returned when a peer answers with something other
// than a well formed chain export.
var ErrMalformedResponse = errors.New("malformed peer response")

const baseURL = "http://%s"

// NetRequestPeerChain asks the peer for its full chain. The response must
// carry both the chain and its length, and the two must agree.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) (database.Chain, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	url := fmt.Sprintf(baseURL, pr.Host) + "/chain"

	resp, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	var cs struct {
		Chain  *database.Chain `json:"chain"`
		Length *int            `json:"length"`
	}
	if err := json.Unmarshal(resp.Body(), &cs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	switch {
	case cs.Chain == nil:
		return nil, fmt.Errorf("%w: missing chain", ErrMalformedResponse)
	case cs.Length == nil:
		return nil, fmt.Errorf("%w: missing length", ErrMalformedResponse)
	case *cs.Length != len(*cs.Chain):
		return nil, fmt.Errorf("%w: length %d does not match %d blocks", ErrMalformedResponse, *cs.Length, len(*cs.Chain))
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, *cs.Length)

	return *cs.Chain, nil
}
