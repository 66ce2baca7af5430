// Package config handles the persistent client configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration.
type Config struct {
	// APIURL is the qsearch backend base URL.
	APIURL string `json:"api_url"`

	// DefaultLimit is the result-count bound applied to new searches.
	DefaultLimit int `json:"default_limit"`

	// DefaultAlpha is the hybrid blend weight applied to new searches.
	// 0 favors the web-rank signal, 1 favors pure geometric distance.
	DefaultAlpha float64 `json:"default_alpha"`

	// HistoryLimit caps how many past searches are kept locally.
	HistoryLimit int `json:"history_limit"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:       "http://localhost:8000",
		DefaultLimit: 10,
		DefaultAlpha: 0.5,
		HistoryLimit: 200,
	}
}

// DataDir returns ~/.qsearch, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".qsearch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the path to the config file.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qsearch", "config.json")
}

// Load reads config from disk, or returns defaults. A missing or corrupt
// file is not an error. Environment variables override the file:
// QSEARCH_API_URL sets the backend URL (a .env in the working directory
// is honored too).
func Load() *Config {
	cfg := loadFile(Path())
	applyEnv(cfg)
	return cfg
}

func loadFile(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig()
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 200
	}
	return cfg
}

func applyEnv(cfg *Config) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	if url := os.Getenv("QSEARCH_API_URL"); url != "" {
		cfg.APIURL = url
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
