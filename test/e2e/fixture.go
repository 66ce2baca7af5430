package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"time"
)

// startBackend serves a deterministic qsearch API for UI tests.
func startBackend() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	mux.HandleFunc("GET /api/v1/auth/providers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"enabled":   true,
			"providers": map[string]bool{"local": true},
		})
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
	})
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
			Limit int    `json:"limit"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"query":     req.Query,
			"count":     1,
			"cache_hit": false,
			"results": []map[string]any{
				{
					"doc_id":   "fixture-1",
					"url":      "https://example.com/fixture-1",
					"title":    "Fixture Result One",
					"snippet":  "A deterministic result for UI tests.",
					"distance": 0.1234,
				},
			},
		})
	})
	mux.HandleFunc("GET /learner/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"urls_queued":     3,
			"urls_crawled":    2,
			"urls_failed":     0,
			"documents_added": 2,
			"queue_size":      1,
			"running":         true,
		})
	})

	return httptest.NewServer(mux)
}

func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
