package worker

// tipWatchOperations periodically asks the node whether the accepted tip
// has advanced past the parent the in-flight search is mining against.
func (w *Worker) tipWatchOperations() {
	w.evHandler("worker: tipWatchOperations: G started")
	defer w.evHandler("worker: tipWatchOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runTipWatchOperation()
			}
		case <-w.shut:
			w.evHandler("worker: tipWatchOperations: received shut signal")
			return
		}
	}
}

// runTipWatchOperation cancels the in-flight search when the node's tip no
// longer matches the parent being mined against. Continuing such a search
// wastes work: the produced block would be rejected as stale.
func (w *Worker) runTipWatchOperation() {
	parentID := w.getCurrentParent()
	if parentID == "" {
		return
	}

	status, err := w.miner.NodeStatus()
	if err != nil {
		w.evHandler("worker: runTipWatchOperation: status: ERROR: %s", err)
		return
	}

	if status.TipID != parentID {
		w.evHandler("worker: runTipWatchOperation: tip advanced: node[%s]: mining[%s]", status.TipID, parentID)
		w.SignalCancelMining()
	}
}
