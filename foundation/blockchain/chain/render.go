package chain

import (
	"fmt"
	"sort"

	"github.com/disiqueira/gotree/v3"
)

// Render returns a text drawing of the fork structure with one line per
// block. Children are ordered by nonce so the drawing is stable for a given
// tree state.
func (t *Tree) Render() string {
	root := gotree.New(t.label(t.genesisID))
	t.renderChildren(root, t.genesisID)
	return root.Print()
}

func (t *Tree) renderChildren(node gotree.Tree, id string) {
	ids := t.Children(id)

	sort.Slice(ids, func(i, j int) bool {
		bi, bj := t.blocks[ids[i]], t.blocks[ids[j]]
		if bi.Header.Nonce != bj.Header.Nonce {
			return bi.Header.Nonce < bj.Header.Nonce
		}
		return bi.ID < bj.ID
	})

	for _, child := range ids {
		t.renderChildren(node.Add(t.label(child)), child)
	}
}

func (t *Tree) label(id string) string {
	b := t.blocks[id]
	return fmt.Sprintf("%s (nonce: %d, move: %s)", b.Header.MinerLabel, b.Header.Nonce, b.Header.Move)
}
