package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ledgerlabs/powchain/app/services/node/handlers"
	"github.com/ledgerlabs/powchain/business/web/errs"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
	"github.com/ledgerlabs/powchain/foundation/blockchain/state"
	"github.com/ledgerlabs/powchain/foundation/events"
	"github.com/ledgerlabs/powchain/foundation/metrics"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// NodeTests holds methods for each node subtest. This type allows passing
// dependencies for tests while still providing a convenient syntax when
// subtests are registered.
type NodeTests struct {
	app   http.Handler
	debug http.Handler
	state *state.State
}

func TestNode(t *testing.T) {
	log := zap.NewNop().Sugar()
	mtr := metrics.New()

	st, err := state.New(state.Config{
		NodeID:    "node1",
		Host:      "localhost:5000",
		Metrics:   mtr,
		EvHandler: func(string, ...any) {},
	})
	if err != nil {
		t.Fatalf("constructing state: %s", err)
	}
	defer st.Shutdown()

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Evts:     events.New(),
		Metrics:  mtr,
	}

	tests := NodeTests{
		app:   handlers.APIMux(cfg),
		debug: handlers.DebugMux("test", cfg),
		state: st,
	}

	t.Run("addTransactionMissing400", tests.addTransactionMissing400)
	t.Run("addTransactionMalformed400", tests.addTransactionMalformed400)
	t.Run("addTransaction201", tests.addTransaction201)
	t.Run("mempool200", tests.mempool200)
	t.Run("mine200", tests.mine200)
	t.Run("chain200", tests.chain200)
	t.Run("registerNodes", tests.registerNodes)
	t.Run("resolveAuthoritative200", tests.resolveAuthoritative200)
	t.Run("status200", tests.status200)
	t.Run("block", tests.block)
	t.Run("resolveReplaced200", tests.resolveReplaced200)
	t.Run("debug", tests.debugRoutes)
	t.Run("preflight", tests.preflight)
}

func (nt *NodeTests) do(method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)
	return w
}

func (nt *NodeTests) addTransactionMissing400(t *testing.T) {
	w := nt.do(http.MethodPost, "/transactions/new", `{"sender": "A"}`)

	t.Log("Given the need to reject incomplete transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen posting a transaction without recipient and amount.", testID)
		{
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 400 for the response.", success, testID)

			var got errs.Response
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response to an error type : %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to unmarshal the response to an error type.", success, testID)

			_, recipient := got.Fields["recipient"]
			_, amount := got.Fields["amount"]
			_, sender := got.Fields["sender"]
			if !recipient || !amount || sender {
				t.Logf("\t\tTest %d:\tgot: %v", testID, got.Fields)
				t.Fatalf("\t%s\tTest %d:\tShould name the missing fields.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould name the missing fields.", success, testID)
		}
	}
}

func (nt *NodeTests) addTransactionMalformed400(t *testing.T) {
	w := nt.do(http.MethodPost, "/transactions/new", `not json`)

	t.Log("Given the need to reject malformed transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen posting a body that is not JSON.", testID)
		{
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 400 for the response.", success, testID)
		}
	}
}

func (nt *NodeTests) addTransaction201(t *testing.T) {
	t.Log("Given the need to add transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen posting a complete transaction.", testID)
		{
			w := nt.do(http.MethodPost, "/transactions/new", `{"sender": "A", "recipient": "B", "amount": 10}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 201 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 201 for the response.", success, testID)

			var got struct {
				Message string `json:"message"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			exp := "Transaction will be added to Block 2"
			if got.Message != exp {
				t.Logf("\t\tTest %d:\tgot: %s", testID, got.Message)
				t.Logf("\t\tTest %d:\texp: %s", testID, exp)
				t.Fatalf("\t%s\tTest %d:\tShould get back the block index.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the block index.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen posting a transaction with a zero amount.", testID)
		{
			w := nt.do(http.MethodPost, "/transactions/new", `{"sender": "B", "recipient": "C", "amount": 0}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest %d:\tShould accept a present zero amount : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould accept a present zero amount.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen posting an amount written as a string.", testID)
		{
			w := nt.do(http.MethodPost, "/transactions/new", `{"sender": "B", "recipient": "C", "amount": "5"}`)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 400 for the response.", success, testID)
		}
	}
}

func (nt *NodeTests) mempool200(t *testing.T) {
	w := nt.do(http.MethodGet, "/v1/node/mempool", "")

	t.Log("Given the need to see the pending transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two transactions are waiting.", testID)
		{
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)

			var got struct {
				Transactions []struct {
					Sender string          `json:"sender"`
					Amount json.RawMessage `json:"amount"`
				} `json:"transactions"`
				Length int `json:"length"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Length != 2 || len(got.Transactions) != 2 || got.Transactions[0].Sender != "A" {
				t.Logf("\t\tTest %d:\tgot: %+v", testID, got)
				t.Fatalf("\t%s\tTest %d:\tShould list the transactions in order.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould list the transactions in order.", success, testID)

			if string(got.Transactions[0].Amount) != "10" {
				t.Logf("\t\tTest %d:\tgot: %s", testID, got.Transactions[0].Amount)
				t.Fatalf("\t%s\tTest %d:\tShould keep the amount as it was posted.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the amount as it was posted.", success, testID)
		}
	}
}

func (nt *NodeTests) mine200(t *testing.T) {
	w := nt.do(http.MethodGet, "/mine", "")

	t.Log("Given the need to forge blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen asking the node to mine.", testID)
		{
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)

			var got struct {
				Message      string            `json:"message"`
				Index        uint64            `json:"index"`
				Transactions []json.RawMessage `json:"transactions"`
				Proof        uint64            `json:"proof"`
				PrevHash     string            `json:"previous_hash"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Message != "New Block Forged" || got.Index != 2 || len(got.Transactions) != 3 || got.Proof != 35293 {
				t.Logf("\t\tTest %d:\tgot: %+v", testID, got)
				t.Fatalf("\t%s\tTest %d:\tShould describe the forged block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould describe the forged block.", success, testID)
		}
	}
}

func (nt *NodeTests) chain200(t *testing.T) {
	w := nt.do(http.MethodGet, "/chain", "")

	t.Log("Given the need to export the chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen asking for the chain.", testID)
		{
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)

			var got peer.ChainState
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Length != 2 || len(got.Chain) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould get back both blocks, got %d.", failed, testID, got.Length)
			}
			t.Logf("\t%s\tTest %d:\tShould get back both blocks.", success, testID)

			local := nt.state.QueryChain()
			if got.Chain[1].Hash() != local[1].Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould hash the same after the round trip.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hash the same after the round trip.", success, testID)
		}
	}
}

func (nt *NodeTests) registerNodes(t *testing.T) {
	t.Log("Given the need to register peers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen posting without a list of nodes.", testID)
		{
			w := nt.do(http.MethodPost, "/nodes/register", `{}`)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 400 for the response.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen posting a list of nodes.", testID)
		{
			w := nt.do(http.MethodPost, "/nodes/register", `{"nodes": ["http://192.168.0.5:5000", "192.168.0.6:5000"]}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 201 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 201 for the response.", success, testID)

			var got struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"total_nodes"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Message != "New nodes have been added" || len(got.TotalNodes) != 2 || got.TotalNodes[0] != "192.168.0.5:5000" {
				t.Logf("\t\tTest %d:\tgot: %+v", testID, got)
				t.Fatalf("\t%s\tTest %d:\tShould list the normalized peers.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould list the normalized peers.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen listing the nodes.", testID)
		{
			w := nt.do(http.MethodGet, "/nodes", "")

			var got struct {
				Nodes  []string `json:"nodes"`
				Length int      `json:"length"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Length != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould list both peers, got %d.", failed, testID, got.Length)
			}
			t.Logf("\t%s\tTest %d:\tShould list both peers.", success, testID)
		}

		// The peers registered above don't exist.
		for _, host := range []string{"192.168.0.5:5000", "192.168.0.6:5000"} {
			nt.state.RemoveKnownPeer(peer.New(host))
		}
	}
}

func (nt *NodeTests) resolveAuthoritative200(t *testing.T) {
	w := nt.do(http.MethodGet, "/nodes/resolve", "")

	t.Log("Given the need to resolve conflicts.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen there are no peers.", testID)
		{
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)

			var got struct {
				Message string            `json:"message"`
				Chain   []json.RawMessage `json:"chain"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Message != "Our chain is authoritative" || len(got.Chain) != 2 {
				t.Logf("\t\tTest %d:\tgot: %s", testID, got.Message)
				t.Fatalf("\t%s\tTest %d:\tShould keep the local chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the local chain.", success, testID)
		}
	}
}

func (nt *NodeTests) status200(t *testing.T) {
	w := nt.do(http.MethodGet, "/v1/node/status", "")

	t.Log("Given the need to report node status.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen asking for the status.", testID)
		{
			var got struct {
				NodeID         string `json:"node_id"`
				Host           string `json:"host"`
				LastBlockIndex uint64 `json:"last_block_index"`
				LastBlockHash  string `json:"last_block_hash"`
				Pending        int    `json:"pending"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			latest := nt.state.RetrieveLatestBlock()
			if got.NodeID != "node1" || got.Host != "localhost:5000" || got.LastBlockIndex != 2 || got.LastBlockHash != latest.Hash() || got.Pending != 0 {
				t.Logf("\t\tTest %d:\tgot: %+v", testID, got)
				t.Fatalf("\t%s\tTest %d:\tShould describe the node.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould describe the node.", success, testID)
		}
	}
}

func (nt *NodeTests) block(t *testing.T) {
	t.Log("Given the need to look up a single block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen asking for the genesis block.", testID)
		{
			w := nt.do(http.MethodGet, "/v1/node/block/1", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen asking for a block that doesn't exist.", testID)
		{
			w := nt.do(http.MethodGet, "/v1/node/block/99", "")
			if w.Code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 404 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 404 for the response.", success, testID)
		}
	}
}

func (nt *NodeTests) resolveReplaced200(t *testing.T) {
	t.Log("Given the need to adopt a longer chain from a peer.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a registered peer holds four blocks.", testID)
		{
			remote, err := state.New(state.Config{
				NodeID:    "node2",
				Host:      "localhost:5001",
				EvHandler: func(string, ...any) {},
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the peer : %v", failed, testID, err)
			}
			defer remote.Shutdown()

			for remote.QueryChainLength() < 4 {
				if _, err := remote.MineNewBlock(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine on the peer : %v", failed, testID, err)
				}
			}

			srv := httptest.NewServer(handlers.APIMux(handlers.MuxConfig{
				Shutdown: make(chan os.Signal, 1),
				Log:      zap.NewNop().Sugar(),
				State:    remote,
				Evts:     events.New(),
			}))
			defer srv.Close()

			host := strings.TrimPrefix(srv.URL, "http://")
			defer nt.state.RemoveKnownPeer(peer.New(host))

			if w := nt.do(http.MethodPost, "/nodes/register", `{"nodes": ["`+srv.URL+`"]}`); w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest %d:\tShould be able to register the peer : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to register the peer.", success, testID)

			w := nt.do(http.MethodGet, "/nodes/resolve", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)

			var got struct {
				Message  string            `json:"message"`
				NewChain []json.RawMessage `json:"new_chain"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Message != "Our chain was replaced" || len(got.NewChain) != 4 {
				t.Logf("\t\tTest %d:\tgot: %s %d", testID, got.Message, len(got.NewChain))
				t.Fatalf("\t%s\tTest %d:\tShould report the new chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the new chain.", success, testID)

			if nt.state.RetrieveLatestBlock().Hash() != remote.RetrieveLatestBlock().Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould hold the peer chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hold the peer chain.", success, testID)
		}
	}
}

func (nt *NodeTests) debugRoutes(t *testing.T) {
	get := func(path string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		nt.debug.ServeHTTP(w, r)
		return w
	}

	t.Log("Given the need to check the health of the node.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen asking for readiness.", testID)
		{
			w := get("/debug/readiness")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}

			var got struct {
				Status string `json:"status"`
				Length int    `json:"length"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if got.Status != "ok" || got.Length != nt.state.QueryChainLength() {
				t.Fatalf("\t%s\tTest %d:\tShould be ready with the chain length : %+v", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould be ready with the chain length.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen asking for liveness.", testID)
		{
			w := get("/debug/liveness")

			var got struct {
				Status string `json:"status"`
				Build  string `json:"build"`
				NodeID string `json:"node_id"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if w.Code != http.StatusOK || got.Status != "up" || got.Build != "test" || got.NodeID != "node1" {
				t.Fatalf("\t%s\tTest %d:\tShould be alive : %d %+v", failed, testID, w.Code, got)
			}
			t.Logf("\t%s\tTest %d:\tShould be alive.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen scraping the metrics.", testID)
		{
			w := get("/metrics")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
			}

			body := w.Body.String()
			exp := []string{
				"powchain_ledger_blocks_mined_total 1",
				"powchain_consensus_chain_replaced_total 1",
				"powchain_ledger_chain_length 4",
				`powchain_web_requests_total{method="GET"}`,
				"powchain_web_errors_total",
			}
			for _, line := range exp {
				if !strings.Contains(body, line) {
					t.Fatalf("\t%s\tTest %d:\tShould expose %q.", failed, testID, line)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould expose the ledger and web metrics.", success, testID)
		}
	}
}

func (nt *NodeTests) preflight(t *testing.T) {
	w := nt.do(http.MethodOptions, "/preflight", "")

	t.Log("Given the need to answer CORS preflight requests.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen sending an OPTIONS request.", testID)
		{
			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("\t%s\tTest %d:\tShould set the CORS headers.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould set the CORS headers.", success, testID)
		}
	}
}
