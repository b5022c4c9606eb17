package worker

import (
	"context"
	"sync"
	"time"

	"github.com/groovechain/groovechain/foundation/blockchain/block"
	"github.com/groovechain/groovechain/foundation/blockchain/state"
)

// syncRetryWait is how long the loop backs off after a failed sync before
// trying the node again.
const syncRetryWait = time.Second

// miningOperations runs the mining loop: fetch, select a parent, search,
// submit, repeat. The loop never terminates on routine failures, only on
// shutdown.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		default:
			w.runMiningOperation()
		}
	}
}

// runMiningOperation performs one full fetch/select/mine/submit cycle.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Refresh the local tree from the node. Transport errors are recovered
	// locally: log, wait a moment, let the loop try again.
	if err := w.miner.Sync(); err != nil {
		w.evHandler("worker: runMiningOperation: sync: ERROR: %s", err)
		w.waitOrShut(syncRetryWait)
		return
	}

	// Deterministic tip selection against the freshly synced tree.
	parent := w.miner.SelectParent()
	w.setCurrentParent(parent.ID)
	defer w.setCurrentParent("")

	w.evHandler("worker: runMiningOperation: MINING: parent[%s]: height[%d]", parent.ID, parent.Header.Height)

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err := w.miner.MineNewBlock(ctx, parent)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		// We mined a block. Send it to the node for adjudication.
		w.submitBlock(block)
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}

// submitBlock sends the solved block to the node and reports the verdict.
// Whatever the outcome, the loop refetches next; a rejected block is never
// retried against the stale tree state.
func (w *Worker) submitBlock(b block.Block) {
	resp, err := w.miner.SubmitBlock(b)
	if err != nil {
		w.evHandler("worker: submitBlock: ERROR: %s", err)
		return
	}

	switch state.Verdict(resp.Verdict) {
	case state.VerdictAccepted:
		w.evHandler("worker: submitBlock: blk[%s]: ACCEPTED: height[%d]", b.ID, b.Header.Height)
	case state.VerdictAlreadyKnown:
		w.evHandler("worker: submitBlock: blk[%s]: already known by the node", b.ID)
	case state.VerdictRejected:
		w.evHandler("worker: submitBlock: blk[%s]: REJECTED: reason[%s]: refetching", b.ID, resp.Reason)
	default:
		w.evHandler("worker: submitBlock: blk[%s]: unexpected verdict[%s]", b.ID, resp.Verdict)
	}
}

// waitOrShut sleeps for the specified duration unless shutdown is signaled.
func (w *Worker) waitOrShut(d time.Duration) {
	select {
	case <-time.After(d):
	case <-w.shut:
	}
}
