// Package stats polls the backend's continuous-learner statistics.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/logging"
)

// PollInterval is the fixed refresh cadence.
const PollInterval = 30 * time.Second

// Usage is the learner's counters. Always replaced wholesale, never
// diffed or merged.
type Usage struct {
	URLsQueued     int    `json:"urls_queued"`
	URLsCrawled    int    `json:"urls_crawled"`
	URLsFailed     int    `json:"urls_failed"`
	DocumentsAdded int    `json:"documents_added"`
	QueueSize      int    `json:"queue_size"`
	LastCrawlTime  string `json:"last_crawl_time"`
	Running        bool   `json:"running"`
}

// Fetch performs one stats round trip.
func Fetch(ctx context.Context, c *api.Client) (*Usage, error) {
	var u Usage
	if err := c.GetJSON(ctx, "/learner/stats", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Poller refreshes Usage on a fixed interval for the lifetime of its
// context. Context cancellation is the only stop mechanism; cancelling
// exactly once at teardown is the owner's job.
type Poller struct {
	api      *api.Client
	interval time.Duration
	wg       sync.WaitGroup
}

// NewPoller creates a Poller on the shared backend client.
func NewPoller(c *api.Client) *Poller {
	return &Poller{api: c, interval: PollInterval}
}

// Start begins polling: one immediate fetch, then every interval until
// the context is cancelled. Each result is delivered through notify. A
// failed poll is logged and skipped; it never disables future polls.
func (p *Poller) Start(ctx context.Context, notify func(Usage)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.poll(ctx, notify)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx, notify)
			}
		}
	}()
}

func (p *Poller) poll(ctx context.Context, notify func(Usage)) {
	u, err := Fetch(ctx, p.api)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn("stats poll failed", "error", err)
		}
		return
	}
	notify(*u)
}

// Wait blocks until the polling goroutine exits. Call after cancelling
// the context passed to Start.
func (p *Poller) Wait() {
	p.wg.Wait()
}
