// Package chain maintains the fork tolerant tree of blocks and implements
// the deterministic tip selection rule.
//
// The tree is an arena: a flat mapping from block id to block plus a
// separate adjacency mapping from parent id to the set of child ids. Nothing
// holds a direct reference to its parent or children, only ids used for
// lookup. A Tree is not safe for concurrent use; the owner must serialize
// access.
package chain

import (
	"fmt"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
)

// Tree represents all known blocks for a chain, forks included. There is
// exactly one root, the genesis block, and every other block is reachable
// from it by following parent ids.
type Tree struct {
	blocks    map[string]block.Block
	children  map[string]map[string]struct{}
	genesisID string
}

// New constructs a tree holding just the specified genesis block.
func New(genesis block.Block) (*Tree, error) {
	if !genesis.IsGenesis() {
		return nil, fmt.Errorf("block %s is not a genesis block", genesis.ID)
	}
	if genesis.ID != genesis.Hash() {
		return nil, fmt.Errorf("genesis block id %s does not match its digest", genesis.ID)
	}

	t := Tree{
		blocks:    map[string]block.Block{genesis.ID: genesis},
		children:  make(map[string]map[string]struct{}),
		genesisID: genesis.ID,
	}

	return &t, nil
}

// Genesis returns the root block of the tree.
func (t *Tree) Genesis() block.Block {
	return t.blocks[t.genesisID]
}

// Contains reports whether the block with the specified id is in the tree.
func (t *Tree) Contains(id string) bool {
	_, exists := t.blocks[id]
	return exists
}

// Get returns the block with the specified id.
func (t *Tree) Get(id string) (block.Block, bool) {
	b, exists := t.blocks[id]
	return b, exists
}

// Len returns the number of blocks in the tree, forks included.
func (t *Tree) Len() int {
	return len(t.blocks)
}

// AllBlocks returns every block in the tree. The order is unspecified, the
// set is complete and duplicate free.
func (t *Tree) AllBlocks() []block.Block {
	blocks := make([]block.Block, 0, len(t.blocks))
	for _, b := range t.blocks {
		blocks = append(blocks, b)
	}
	return blocks
}

// Children returns the ids of the blocks extending the specified id.
func (t *Tree) Children(id string) []string {
	ids := make([]string, 0, len(t.children[id]))
	for child := range t.children[id] {
		ids = append(ids, child)
	}
	return ids
}

// =============================================================================

// Insert adds a validated block to the tree. The caller must have run
// Validate first; a failure here is an internal invariant violation, not a
// recoverable submission error.
func (t *Tree) Insert(b block.Block) error {
	if b.ID != b.Hash() {
		return fmt.Errorf("integrity: block id %s does not match its digest", b.ID)
	}
	if _, exists := t.blocks[b.ID]; exists {
		return fmt.Errorf("integrity: block %s already in the tree", b.ID)
	}
	if _, exists := t.blocks[b.Header.ParentID]; !exists {
		return fmt.Errorf("integrity: parent %s not in the tree", b.Header.ParentID)
	}

	t.blocks[b.ID] = b

	set, exists := t.children[b.Header.ParentID]
	if !exists {
		set = make(map[string]struct{})
		t.children[b.Header.ParentID] = set
	}
	set[b.ID] = struct{}{}

	return nil
}

// SelectParent implements the tip selection rule: among the blocks with no
// recorded children, the one with the maximum height wins, and a tie at the
// frontier is broken by the lowest nonce. The rule is total and stable: the
// same tree state always yields the same winner. A tree holding only genesis
// returns genesis.
func (t *Tree) SelectParent() block.Block {
	var tip block.Block
	var found bool

	for id, b := range t.blocks {
		if len(t.children[id]) > 0 {
			continue
		}

		switch {
		case !found:
			tip = b
			found = true
		case b.Header.Height > tip.Header.Height:
			tip = b
		case b.Header.Height == tip.Header.Height && b.Header.Nonce < tip.Header.Nonce:
			tip = b
		}
	}

	return tip
}
