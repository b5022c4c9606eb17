// Package worker implements the mining workflows for a miner process:
// the fetch/select/mine/submit loop and the tip watch that cancels a
// search made stale by the rest of the network.
package worker

import (
	"sync"
	"time"

	"github.com/groovechain/groovechain/foundation/blockchain/miner"
)

// Worker manages the mining workflows for a miner.
type Worker struct {
	miner        *miner.Miner
	wg           sync.WaitGroup
	ticker       time.Ticker
	shut         chan struct{}
	cancelMining chan bool
	evHandler    miner.EventHandler

	parentMu      sync.Mutex
	currentParent string
}

// Run creates a worker, registers the worker with the miner, and starts up
// all the background processes.
func Run(m *miner.Miner, tipCheckInterval time.Duration, evHandler miner.EventHandler) {
	w := Worker{
		miner:        m,
		ticker:       *time.NewTicker(tipCheckInterval),
		shut:         make(chan struct{}),
		cancelMining: make(chan bool, 1),
		evHandler:    evHandler,
	}

	// Register this worker with the miner.
	m.Worker = &w

	// A parameter mismatch with the node is diagnosed here once instead of
	// through an unexplained stream of rejections later.
	if err := m.VerifyNetworkConfig(); err != nil {
		w.evHandler("worker: run: WARNING: %s", err)
	}

	if err := m.Register(); err != nil {
		w.evHandler("worker: run: register: WARNING: %s", err)
	}

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.tipWatchOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the miner.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. If there is already a signal pending in the channel,
// just return since the operation will be cancelled.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// setCurrentParent records the parent id the mining G is searching against
// so the tip watch can tell when the network has moved on.
func (w *Worker) setCurrentParent(id string) {
	w.parentMu.Lock()
	defer w.parentMu.Unlock()
	w.currentParent = id
}

// getCurrentParent returns the parent id currently being mined against,
// empty when no search is in flight.
func (w *Worker) getCurrentParent() string {
	w.parentMu.Lock()
	defer w.parentMu.Unlock()
	return w.currentParent
}
