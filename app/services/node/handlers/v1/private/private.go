// Package private maintains the group of handlers for the miner protocol.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/groovechain/groovechain/foundation/blockchain/state"
	"github.com/groovechain/groovechain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of miner protocol endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// BlockList returns the complete set of blocks currently known to the node.
func (h Handlers) BlockList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveAllBlocks()
	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// SubmitBlock takes a block mined by a miner, validates it and if that
// passes, adds the block to the chain tree. The verdict is always
// structured so a miner can tell a lost race from a malformed block.
func (h Handlers) SubmitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a candidate block.
	var sb submitBlock
	if err := web.Decode(r, &sb); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	b := toBlock(sb)
	h.Log.Infow("submit block", "traceid", v.TraceID, "block", b.ID, "miner", b.Header.MinerLabel, "height", b.Header.Height)

	// Ask the state package to adjudicate the submission. An error here is
	// an internal invariant violation, not a validation outcome.
	result, err := h.State.ProcessSubmittedBlock(b)
	if err != nil {
		return err
	}

	resp := struct {
		Verdict   string `json:"verdict"`
		Reason    string `json:"reason,omitempty"`
		TipID     string `json:"tip_id"`
		TipHeight uint64 `json:"tip_height"`
	}{
		Verdict:   string(result.Verdict),
		Reason:    string(result.Reason),
		TipID:     result.Tip.ID,
		TipHeight: result.Tip.Header.Height,
	}

	statusCode := http.StatusOK
	if result.Verdict == state.VerdictRejected {
		statusCode = http.StatusNotAcceptable
	}

	return web.Respond(ctx, w, resp, statusCode)
}

// Config returns the network parameters fixed at node startup.
func (h Handlers) Config(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	resp := struct {
		ChainID    uint16 `json:"chain_id"`
		Difficulty uint   `json:"difficulty"`
		GenesisID  string `json:"genesis_id"`
	}{
		ChainID:    gen.ChainID,
		Difficulty: gen.Difficulty,
		GenesisID:  gen.Block().ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tip := h.State.RetrieveTip()

	resp := struct {
		TipID     string   `json:"tip_id"`
		TipHeight uint64   `json:"tip_height"`
		Blocks    int      `json:"blocks"`
		Miners    []string `json:"miners"`
	}{
		TipID:     tip.ID,
		TipHeight: tip.Header.Height,
		Blocks:    h.State.RetrieveTreeLen(),
		Miners:    h.State.RetrieveMiners(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Register records a miner's label for the status surface.
func (h Handlers) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var rm registerMiner
	if err := web.Decode(r, &rm); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if h.State.RegisterMiner(rm.MinerLabel) {
		h.Log.Infow("register miner", "traceid", v.TraceID, "miner", rm.MinerLabel)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "registered",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
