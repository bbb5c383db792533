// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ledgerlabs/powchain/app/services/node/handlers/v1/private"
	"github.com/ledgerlabs/powchain/app/services/node/handlers/v1/public"
	"github.com/ledgerlabs/powchain/foundation/blockchain/state"
	"github.com/ledgerlabs/powchain/foundation/events"
	"github.com/ledgerlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// LedgerRoutes binds the ledger and peer routes. These are mounted without a
// version prefix.
func LedgerRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.AddTransaction)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)

	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, "", "/nodes", prv.Nodes)
	app.Handle(http.MethodPost, "", "/nodes/register", prv.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", prv.Resolve)
}

// NodeRoutes binds all the version 1 node routes.
func NodeRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)

	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/mempool", prv.Mempool)
	app.Handle(http.MethodGet, version, "/node/block/:index", prv.Block)
}
