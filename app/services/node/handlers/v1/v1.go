// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/groovechain/groovechain/app/services/node/handlers/v1/private"
	"github.com/groovechain/groovechain/app/services/node/handlers/v1/public"
	"github.com/groovechain/groovechain/foundation/blockchain/state"
	"github.com/groovechain/groovechain/foundation/events"
	"github.com/groovechain/groovechain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the viewer facing routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/tree/list", pbl.TreeList)
	app.Handle(http.MethodGet, version, "/tree/render", pbl.TreeRender)
}

// PrivateRoutes binds all the miner protocol routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/block/list", prv.BlockList)
	app.Handle(http.MethodPost, version, "/node/block/submit", prv.SubmitBlock)
	app.Handle(http.MethodGet, version, "/node/config", prv.Config)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/node/register", prv.Register)
}
