// Package state is the core API for the node and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/chain"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/metrics"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	Genesis   genesis.Genesis
	Host      string
	EvHandler EventHandler
}

// State manages the authoritative chain tree. The node is the single source
// of truth: miners never accept each other's blocks without the node's
// adjudication. One mutex serializes validate+insert against all snapshots,
// so a fetch never observes a half-inserted block.
type State struct {
	mu        sync.Mutex
	host      string
	genesis   genesis.Genesis
	tree      *chain.Tree
	evHandler EventHandler

	minersMu sync.RWMutex
	miners   map[string]struct{}
}

// New constructs a new state for chain management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// The tree starts with just the derived genesis block.
	tree, err := chain.New(cfg.Genesis.Block())
	if err != nil {
		return nil, err
	}
	metrics.TreeBlocks.Set(float64(tree.Len()))

	state := State{
		host:      cfg.Host,
		genesis:   cfg.Genesis,
		tree:      tree,
		evHandler: ev,
		miners:    make(map[string]struct{}),
	}

	return &state, nil
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveAllBlocks returns a consistent snapshot of every block the node
// knows about, forks included.
func (s *State) RetrieveAllBlocks() []block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.AllBlocks()
}

// RetrieveTip returns the block the tip selection rule currently favors.
func (s *State) RetrieveTip() block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.SelectParent()
}

// RetrieveTreeLen returns the number of blocks in the tree.
func (s *State) RetrieveTreeLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Len()
}

// RenderTree returns a text drawing of the fork structure.
func (s *State) RenderTree() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Render()
}

// =============================================================================

// RegisterMiner records a miner label for the status surface. It reports
// whether the label was new.
func (s *State) RegisterMiner(label string) bool {
	s.minersMu.Lock()
	defer s.minersMu.Unlock()

	if _, exists := s.miners[label]; exists {
		return false
	}

	s.miners[label] = struct{}{}
	return true
}

// RetrieveMiners returns the labels of the miners that registered with
// this node.
func (s *State) RetrieveMiners() []string {
	s.minersMu.RLock()
	defer s.minersMu.RUnlock()

	miners := make([]string, 0, len(s.miners))
	for label := range s.miners {
		miners = append(miners, label)
	}
	return miners
}
