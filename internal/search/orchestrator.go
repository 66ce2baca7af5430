package search

import (
	"context"
	"sync/atomic"

	"github.com/GaryOcean428/qsearch/internal/logging"
)

// Orchestrator serializes the effect of concurrent searches on visible
// state. Every submission takes a sequence number at submission time; a
// finished search may be applied only while its number is still the
// latest issued. The transport is never cancelled — stale responses are
// simply discarded.
type Orchestrator struct {
	client *Client
	seq    atomic.Uint64
}

// NewOrchestrator wraps a Client with supersession bookkeeping.
func NewOrchestrator(c *Client) *Orchestrator {
	return &Orchestrator{client: c}
}

// Done carries one finished search back to the caller, tagged with the
// sequence number taken at submission.
type Done struct {
	Seq     uint64
	Query   Query
	Outcome *Outcome
	Err     error
}

// Begin registers a submission and returns its sequence number. Call this
// synchronously at submit time, before the round trip starts, so ordering
// follows submission order rather than completion order.
func (o *Orchestrator) Begin() uint64 {
	return o.seq.Add(1)
}

// Run performs the round trip for a submission started with Begin.
func (o *Orchestrator) Run(ctx context.Context, seq uint64, q Query) Done {
	out, err := o.client.Search(ctx, q)
	if err != nil {
		logging.Warn("search failed", "mode", string(q.Mode), "seq", seq, "error", err)
	}
	return Done{Seq: seq, Query: q, Outcome: out, Err: err}
}

// Superseded reports whether a submission has been displaced by a newer
// one. Callers must check this before applying a Done to visible state.
func (o *Orchestrator) Superseded(seq uint64) bool {
	return seq != o.seq.Load()
}
