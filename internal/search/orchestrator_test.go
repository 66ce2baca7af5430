package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaryOcean428/qsearch/internal/api"
)

// stallingBackend holds responses for one query until released, answering
// everything else immediately.
type stallingBackend struct {
	stallQuery string
	release    chan struct{}
}

func (b *stallingBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["query"] == b.stallQuery {
			<-b.release
		}
		json.NewEncoder(w).Encode(map[string]any{
			"query": req["query"],
			"count": 1,
			"results": []map[string]any{
				{"doc_id": "for-" + req["query"].(string), "url": "https://x", "title": "t", "snippet": "s", "distance": 0.1},
			},
		})
	})
	return mux
}

func TestSecondSearchSupersedesFirst(t *testing.T) {
	backend := &stallingBackend{stallQuery: "alpha", release: make(chan struct{})}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	o := NewOrchestrator(NewClient(api.New(srv.URL, nil)))
	ctx := context.Background()

	first := o.Begin()
	second := o.Begin()

	// The second query resolves first.
	secondDone := o.Run(ctx, second, Query{Text: "beta", Limit: 5, Mode: ModeLocal})
	require.NoError(t, secondDone.Err)
	assert.False(t, o.Superseded(secondDone.Seq), "latest submission is applicable")

	// Now the stalled first query comes back — too late.
	firstCh := make(chan Done, 1)
	go func() {
		firstCh <- o.Run(ctx, first, Query{Text: "alpha", Limit: 5, Mode: ModeLocal})
	}()
	close(backend.release)
	firstDone := <-firstCh

	require.NoError(t, firstDone.Err)
	assert.True(t, o.Superseded(firstDone.Seq), "stale response must be discarded")

	// Visible state simulation: apply only non-superseded outcomes.
	var visible *Outcome
	for _, d := range []Done{firstDone, secondDone} {
		if !o.Superseded(d.Seq) {
			visible = d.Outcome
		}
	}
	require.NotNil(t, visible)
	assert.Equal(t, "beta", visible.Query.Text)
	assert.Equal(t, "for-beta", visible.Results[0].DocID)
}

func TestFailedSearchStillTagged(t *testing.T) {
	srv := httptest.NewServer((&stallingBackend{release: make(chan struct{})}).handler())
	o := NewOrchestrator(NewClient(api.New(srv.URL, nil)))
	srv.Close()

	seq := o.Begin()
	done := o.Run(context.Background(), seq, Query{Text: "q", Limit: 5, Mode: ModeLocal})

	require.Error(t, done.Err)
	assert.Equal(t, seq, done.Seq, "errors carry the submission seq for staleness checks")
	assert.Nil(t, done.Outcome)
	assert.False(t, o.Superseded(done.Seq))
}

func TestBeginIsMonotonic(t *testing.T) {
	o := NewOrchestrator(nil)
	a, b, c := o.Begin(), o.Begin(), o.Begin()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.True(t, o.Superseded(a))
	assert.True(t, o.Superseded(b))
	assert.False(t, o.Superseded(c))
}
