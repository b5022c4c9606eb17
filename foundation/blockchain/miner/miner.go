// Package miner maintains the local cached copy of the chain for a mining
// process. The cache is exclusively owned by the miner and rebuilt from node
// responses, never merged peer to peer.
package miner

import (
	"context"
	"fmt"
	"sync"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/chain"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/blockchain/nodeclient"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for the mining workflows.
type Worker interface {
	Shutdown()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start a miner.
type Config struct {
	MinerLabel string
	NodeHost   string
	Genesis    genesis.Genesis
	MoveSource block.Source
	EvHandler  EventHandler
}

// Miner manages the local view of the chain and drives block production.
type Miner struct {
	mu         sync.Mutex
	minerLabel string
	genesis    genesis.Genesis
	tree       *chain.Tree
	client     *nodeclient.Client
	moveSource block.Source
	evHandler  EventHandler

	// Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the miner.
	Worker Worker
}

// New constructs a new miner with a local tree holding just genesis.
func New(cfg Config) (*Miner, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	tree, err := chain.New(cfg.Genesis.Block())
	if err != nil {
		return nil, err
	}

	m := Miner{
		minerLabel: cfg.MinerLabel,
		genesis:    cfg.Genesis,
		tree:       tree,
		client:     nodeclient.New(cfg.NodeHost),
		moveSource: cfg.MoveSource,
		evHandler:  ev,
	}

	return &m, nil
}

// Shutdown cleanly brings the miner down.
func (m *Miner) Shutdown() error {
	m.Worker.Shutdown()
	return nil
}

// =============================================================================

// Sync fetches the complete block set from the node and rebuilds the local
// tree from it. Blocks that cannot be attached are reported and dropped;
// the next sync gets another chance at them.
func (m *Miner) Sync() error {
	m.evHandler("miner: Sync: started")
	defer m.evHandler("miner: Sync: completed")

	blocks, err := m.client.FetchBlocks()
	if err != nil {
		return fmt.Errorf("fetching blocks: %w", err)
	}

	tree, unattached, err := chain.NewFromBlocks(m.genesis.Block(), blocks, m.genesis.Difficulty)
	if err != nil {
		return fmt.Errorf("rebuilding tree: %w", err)
	}

	if len(unattached) > 0 {
		m.evHandler("miner: Sync: WARNING: unattached blocks[%d]", len(unattached))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree = tree

	m.evHandler("miner: Sync: blocks[%d]", tree.Len())

	return nil
}

// SelectParent returns the block the tip selection rule favors in the
// local tree.
func (m *Miner) SelectParent() block.Block {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tree.SelectParent()
}

// RenderTree returns a text drawing of the local fork structure.
func (m *Miner) RenderTree() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tree.Render()
}

// =============================================================================

// MineNewBlock selects a parent from the local tree and performs the proof
// of work search for a new block on top of it. The search is abandoned when
// the context is cancelled.
func (m *Miner) MineNewBlock(ctx context.Context, parent block.Block) (block.Block, error) {
	b := block.New(parent, m.minerLabel, block.PickMove(m.moveSource))

	if err := b.Solve(ctx, m.genesis.Difficulty, m.evHandler); err != nil {
		return block.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return block.Block{}, ctx.Err()
	}

	return b, nil
}

// SubmitBlock sends a solved block to the node for adjudication.
func (m *Miner) SubmitBlock(b block.Block) (nodeclient.SubmitResponse, error) {
	return m.client.SubmitBlock(b)
}

// NodeStatus asks the node for its current tip information.
func (m *Miner) NodeStatus() (nodeclient.StatusInfo, error) {
	return m.client.Status()
}

// Register announces this miner's label to the node.
func (m *Miner) Register() error {
	return m.client.Register(m.minerLabel)
}

// VerifyNetworkConfig checks the node's parameters against this miner's
// genesis. A mismatch is not fatal, it manifests as persistent rejections,
// but reporting it early helps the operator diagnose the condition.
func (m *Miner) VerifyNetworkConfig() error {
	cfg, err := m.client.Config()
	if err != nil {
		return fmt.Errorf("fetching config: %w", err)
	}

	if cfg.Difficulty != m.genesis.Difficulty {
		return fmt.Errorf("difficulty mismatch: node %d, miner %d", cfg.Difficulty, m.genesis.Difficulty)
	}
	if cfg.GenesisID != m.genesis.Block().ID {
		return fmt.Errorf("genesis mismatch: node %s, miner %s", cfg.GenesisID, m.genesis.Block().ID)
	}

	return nil
}
