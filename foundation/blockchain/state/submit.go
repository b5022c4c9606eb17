package state

import (
	"errors"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/chain"
	"github.com/groovechain/groovechain/foundation/metrics"
)

// Verdict represents the outcome of a block submission.
type Verdict string

// Set of submission verdicts.
const (
	VerdictAccepted     Verdict = "accepted"
	VerdictAlreadyKnown Verdict = "already_known"
	VerdictRejected     Verdict = "rejected"
)

// SubmitResult is what a submitter is told about their block.
type SubmitResult struct {
	Verdict Verdict
	Reason  chain.RejectReason
	Tip     block.Block
}

// =============================================================================

// ProcessSubmittedBlock takes a block submitted by a miner, validates it
// against the current tree state and inserts it if it passes. Validation
// and insertion are atomic with respect to all other submissions and all
// fetches. The returned error is reserved for internal invariant
// violations; every routine outcome, rejections included, is expressed in
// the SubmitResult.
func (s *State) ProcessSubmittedBlock(b block.Block) (SubmitResult, error) {
	s.evHandler("state: ProcessSubmittedBlock: started: prevBlk[%s]: newBlk[%s]: miner[%s]", b.Header.ParentID, b.ID, b.Header.MinerLabel)
	defer s.evHandler("state: ProcessSubmittedBlock: completed: newBlk[%s]", b.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Validate(b, s.genesis.Difficulty); err != nil {
		switch {
		case errors.Is(err, chain.ErrAlreadyKnown):
			s.evHandler("state: ProcessSubmittedBlock: blk[%s]: already known", b.ID)
			metrics.Submissions.WithLabelValues(string(VerdictAlreadyKnown)).Inc()

			return SubmitResult{Verdict: VerdictAlreadyKnown, Tip: s.tree.SelectParent()}, nil

		default:
			re := chain.GetRejectError(err)
			if re == nil {
				return SubmitResult{}, err
			}

			s.evHandler("state: ProcessSubmittedBlock: blk[%s]: REJECTED: %s", b.ID, re)
			metrics.Submissions.WithLabelValues(string(VerdictRejected)).Inc()
			metrics.Rejections.WithLabelValues(string(re.Reason)).Inc()

			return SubmitResult{Verdict: VerdictRejected, Reason: re.Reason, Tip: s.tree.SelectParent()}, nil
		}
	}

	// The block passed every consensus check. A failure from Insert at this
	// point is a programming error and must not corrupt the tree; it aborts
	// just this submission.
	if err := s.tree.Insert(b); err != nil {
		s.evHandler("state: ProcessSubmittedBlock: blk[%s]: INTEGRITY: %s", b.ID, err)
		return SubmitResult{}, err
	}

	metrics.Submissions.WithLabelValues(string(VerdictAccepted)).Inc()
	metrics.TreeBlocks.Set(float64(s.tree.Len()))

	tip := s.tree.SelectParent()
	s.evHandler("state: ProcessSubmittedBlock: blk[%s]: ACCEPTED: height[%d]: tip[%s]", b.ID, b.Header.Height, tip.ID)

	return SubmitResult{Verdict: VerdictAccepted, Tip: tip}, nil
}
