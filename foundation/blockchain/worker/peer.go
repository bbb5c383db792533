package worker

import (
	"context"
	"time"
)

// defaultResolveTimeout bounds a background resolution when the
// configuration leaves it unset.
const defaultResolveTimeout = 30 * time.Second

// consensusOperations handles resolving conflicts with peers on a timer.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	// A nil channel blocks forever, which leaves only the shut case when
	// periodic resolution is turned off.
	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-tick:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation asks every known peer for its chain and adopts the
// longest valid one.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	timeout := w.cfg.ResolveTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	replaced, chain := w.state.ResolveConflicts(ctx)
	w.evHandler("worker: runConsensusOperation: replaced[%t]: length[%d]", replaced, len(chain))
}
