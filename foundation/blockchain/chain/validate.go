package chain

import (
	"errors"
	"fmt"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
)

// ErrAlreadyKnown is returned from Validate when the candidate block is
// already in the tree. This is not a failure: the submission is idempotent
// and the submitter is told the block was accepted previously.
var ErrAlreadyKnown = errors.New("block already known")

// RejectReason identifies why a candidate block was rejected. The reasons
// are part of the wire protocol so a submitter can tell a lost mining race
// from a malformed block.
type RejectReason string

// Set of reject reasons.
const (
	ReasonUnknownParent    RejectReason = "unknown_parent"
	ReasonBadHeight        RejectReason = "bad_height"
	ReasonDigestMismatch   RejectReason = "digest_mismatch"
	ReasonInsufficientWork RejectReason = "insufficient_work"
)

// RejectError is returned from Validate when a candidate block fails one of
// the consensus checks.
type RejectError struct {
	Reason RejectReason
	Err    error
}

// NewRejectError wraps the underlying failure with its protocol reason.
func NewRejectError(reason RejectReason, err error) error {
	return &RejectError{Reason: reason, Err: err}
}

// Error implements the error interface.
func (re *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", re.Reason, re.Err)
}

// GetRejectError returns a copy of the RejectError pointer.
func GetRejectError(err error) *RejectError {
	var re *RejectError
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// Validate checks a candidate block against the current tree state and the
// network difficulty. The checks run in a fixed order and short-circuit on
// the first failure. A nil return means the candidate can be inserted;
// ErrAlreadyKnown means it is already in the tree and must not be inserted
// again.
func (t *Tree) Validate(candidate block.Block, difficulty uint) error {

	// A parentless block can only ever be the protocol genesis, which the
	// tree was constructed with. Genesis is exempt from the difficulty
	// predicate by protocol convention.
	if candidate.Header.ParentID == "" {
		if candidate.ID == t.genesisID {
			return ErrAlreadyKnown
		}
		return NewRejectError(ReasonUnknownParent, errors.New("parentless block does not match the protocol genesis"))
	}

	parent, exists := t.Get(candidate.Header.ParentID)
	if !exists {
		return NewRejectError(ReasonUnknownParent, fmt.Errorf("parent %s not in the tree", candidate.Header.ParentID))
	}

	if candidate.Header.Height != parent.Header.Height+1 {
		return NewRejectError(ReasonBadHeight, fmt.Errorf("got height %d, exp %d", candidate.Header.Height, parent.Header.Height+1))
	}

	// Recompute the digest from the header. A mismatch covers both
	// tampering and serialization bugs on the submitter side.
	if hash := candidate.Hash(); hash != candidate.ID {
		return NewRejectError(ReasonDigestMismatch, fmt.Errorf("got id %s, recomputed %s", candidate.ID, hash))
	}

	if !block.SatisfiesDifficulty(candidate.ID, difficulty) {
		return NewRejectError(ReasonInsufficientWork, fmt.Errorf("id %s does not have %d leading zero bits", candidate.ID, difficulty))
	}

	if t.Contains(candidate.ID) {
		return ErrAlreadyKnown
	}

	return nil
}
