// Package search issues local and hybrid queries against the qsearch
// backend and keeps stale responses from reaching visible state.
//
// Local mode ranks purely by geometric distance in the document index.
// Hybrid mode asks the backend to blend that distance with an external
// web-rank signal; alpha steers the blend (0 favors the web rank, 1
// favors pure geometric distance).
package search

import (
	"time"
)

// Mode selects the ranking path.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeHybrid Mode = "hybrid"
)

// Limit bounds for the result count.
const (
	MinLimit = 1
	MaxLimit = 50
)

// Query is one search submission.
type Query struct {
	Text  string
	Limit int
	Mode  Mode
	// Alpha is the hybrid blend weight in [0,1]. Ignored in local mode.
	Alpha float64
	// Learn asks the backend to queue hybrid results for its continuous
	// learner. Ignored in local mode.
	Learn bool
}

// ClampLimit forces the result bound into the sane range.
func ClampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ClampAlpha forces the blend weight into [0,1].
func ClampAlpha(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Result is one ranked hit. The scoring fields populated depend on the
// mode that produced it; the two sets are never mixed.
type Result struct {
	DocID   string
	URL     string
	Title   string
	Snippet string

	// Local mode: geometric distance to the query basin.
	Distance float64

	// Hybrid mode: distance, external rank position, and blended score.
	BasinDistance  float64
	SerperPosition int
	HybridScore    float64
}

// LocalProvenance tags an outcome produced by the plain search path.
type LocalProvenance struct {
	CacheHit bool
}

// HybridProvenance tags an outcome produced by the hybrid path.
type HybridProvenance struct {
	// Alpha is the blend weight actually sent.
	Alpha float64
}

// Outcome is the complete product of one search. Created fresh on every
// submission and replaces its predecessor wholesale. Results keep the
// backend's order; that order is the ranking.
type Outcome struct {
	Query   Query
	Results []Result
	Elapsed time.Duration

	// Exactly one of these is set, matching Query.Mode.
	Local  *LocalProvenance
	Hybrid *HybridProvenance
}
