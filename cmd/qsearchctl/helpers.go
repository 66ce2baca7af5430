package main

import (
	"log"
	"path/filepath"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/auth"
	"github.com/GaryOcean428/qsearch/internal/config"
)

// newClient builds the backend client from config, sharing the TUI's
// cookie jar so the CLI sees the same session.
func newClient() *api.Client {
	cfg := config.Load()

	dir, err := config.DataDir()
	if err != nil {
		log.Fatalf("data directory: %v", err)
	}
	jar, err := auth.OpenJar(filepath.Join(dir, "cookies.json"), cfg.APIURL)
	if err != nil {
		log.Fatalf("cookie jar: %v", err)
	}
	return api.New(cfg.APIURL, jar)
}

// dataPath returns a file path under the data directory or fatals.
func dataPath(name string) string {
	dir, err := config.DataDir()
	if err != nil {
		log.Fatalf("data directory: %v", err)
	}
	return filepath.Join(dir, name)
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
