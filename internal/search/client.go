package search

import (
	"context"
	"time"

	"github.com/GaryOcean428/qsearch/internal/api"
)

// Client performs search round trips. Mode dispatch lives here; the
// supersession bookkeeping lives in Orchestrator.
type Client struct {
	api *api.Client
}

// NewClient creates a search Client on the shared backend client.
func NewClient(c *api.Client) *Client {
	return &Client{api: c}
}

// localRequest is the body for POST /search.
type localRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// localResponse is the backend's plain-search answer.
type localResponse struct {
	Query    string `json:"query"`
	Count    int    `json:"count"`
	CacheHit *bool  `json:"cache_hit"`
	Results  []struct {
		DocID    string  `json:"doc_id"`
		URL      string  `json:"url"`
		Title    string  `json:"title"`
		Snippet  string  `json:"snippet"`
		Distance float64 `json:"distance"`
	} `json:"results"`
}

// hybridRequest is the body for POST /hybrid.
type hybridRequest struct {
	Query string  `json:"query"`
	Limit int     `json:"limit"`
	Alpha float64 `json:"alpha"`
	Learn bool    `json:"learn"`
}

// hybridResponse is the backend's hybrid-search answer. Missing numeric
// fields decode as zero, never as an absent-value error.
type hybridResponse struct {
	Query   string `json:"query"`
	Count   int    `json:"count"`
	Results []struct {
		URL            string  `json:"url"`
		Title          string  `json:"title"`
		Snippet        string  `json:"snippet"`
		SerperPosition int     `json:"serper_position"`
		BasinDistance  float64 `json:"basin_distance"`
		HybridScore    float64 `json:"hybrid_score"`
	} `json:"results"`
}

// Search runs one query. The error is an *api.RequestError for non-2xx
// answers and an *api.TransportError when the call never completed.
func (c *Client) Search(ctx context.Context, q Query) (*Outcome, error) {
	q.Limit = ClampLimit(q.Limit)

	start := time.Now()
	var out *Outcome
	var err error
	switch q.Mode {
	case ModeHybrid:
		out, err = c.hybrid(ctx, q)
	default:
		q.Mode = ModeLocal
		out, err = c.local(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

func (c *Client) local(ctx context.Context, q Query) (*Outcome, error) {
	var resp localResponse
	req := localRequest{Query: q.Text, Limit: q.Limit}
	if err := c.api.PostJSON(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{
			DocID:    r.DocID,
			URL:      r.URL,
			Title:    r.Title,
			Snippet:  r.Snippet,
			Distance: r.Distance,
		})
	}

	return &Outcome{
		Query:   q,
		Results: results,
		Local:   &LocalProvenance{CacheHit: resp.CacheHit != nil && *resp.CacheHit},
	}, nil
}

func (c *Client) hybrid(ctx context.Context, q Query) (*Outcome, error) {
	q.Alpha = ClampAlpha(q.Alpha)

	var resp hybridResponse
	req := hybridRequest{Query: q.Text, Limit: q.Limit, Alpha: q.Alpha, Learn: q.Learn}
	if err := c.api.PostJSON(ctx, "/hybrid", req, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{
			URL:            r.URL,
			Title:          r.Title,
			Snippet:        r.Snippet,
			SerperPosition: r.SerperPosition,
			BasinDistance:  r.BasinDistance,
			HybridScore:    r.HybridScore,
		})
	}

	return &Outcome{
		Query:   q,
		Results: results,
		Hybrid:  &HybridProvenance{Alpha: q.Alpha},
	}, nil
}
