// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/groovechain/groovechain/foundation/blockchain/state"
	"github.com/groovechain/groovechain/foundation/events"
	"github.com/groovechain/groovechain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of viewer endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// TreeList returns every block the node holds, forks included.
func (h Handlers) TreeList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveAllBlocks()
	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// TreeRender returns a text drawing of the fork structure.
func (h Handlers) TreeRender(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Tree string `json:"tree"`
	}{
		Tree: h.State.RenderTree(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
