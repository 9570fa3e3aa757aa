package ingest

import (
	"context"
	"log"
	"time"
)

// Poller drives the orchestrator on a fixed interval. One pass runs to
// completion before the next tick is handled; there is no overlap within a
// single poller.
type Poller struct {
	orchestrator *Orchestrator
	interval     time.Duration
	stopChan     chan struct{}
}

// NewPoller creates a new poller
func NewPoller(orchestrator *Orchestrator, interval time.Duration) *Poller {
	return &Poller{
		orchestrator: orchestrator,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the polling loop
func (p *Poller) Start() {
	log.Printf("[Poller] Starting inbox poller (interval: %s)", p.interval)

	go func() {
		// Run immediately on start
		p.runOnce()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.runOnce()
			case <-p.stopChan:
				log.Println("[Poller] Poller stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the poller
func (p *Poller) Stop() {
	close(p.stopChan)
}

func (p *Poller) runOnce() {
	summary, err := p.orchestrator.RunPass(context.Background())
	if err != nil {
		log.Printf("[Poller] Pass aborted: %v", err)
		return
	}
	if summary.Processed > 0 || summary.Skipped > 0 {
		log.Printf("[Poller] Pass complete: %d processed, %d skipped", summary.Processed, summary.Skipped)
	}
}
