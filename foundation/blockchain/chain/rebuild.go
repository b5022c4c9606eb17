package chain

import (
	"errors"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
)

// NewFromBlocks builds a tree from the genesis block and an unordered set of
// blocks, the shape of a full-sync response. Blocks are attached over
// multiple passes so a child can arrive before its parent in the set.
// Returned alongside the tree are the blocks that could not be attached:
// orphans of an unknown branch, duplicates, or blocks failing validation.
func NewFromBlocks(genesis block.Block, blocks []block.Block, difficulty uint) (*Tree, []block.Block, error) {
	t, err := New(genesis)
	if err != nil {
		return nil, nil, err
	}

	remaining := blocks
	var unattached []block.Block

	inserted := true
	for inserted {
		inserted = false
		var still []block.Block

		for _, b := range remaining {
			err := t.Validate(b, difficulty)
			switch {
			case err == nil:
				if err := t.Insert(b); err != nil {
					return nil, nil, err
				}
				inserted = true

			case errors.Is(err, ErrAlreadyKnown):
				// Duplicate of a block already attached, drop it.

			case GetRejectError(err) != nil && GetRejectError(err).Reason == ReasonUnknownParent:
				// The parent may simply not have been attached yet.
				// Keep the block for the next pass.
				still = append(still, b)

			default:
				unattached = append(unattached, b)
			}
		}

		remaining = still
	}

	// Whatever is left after the passes settle is orphaned.
	unattached = append(unattached, remaining...)

	return t, unattached, nil
}
