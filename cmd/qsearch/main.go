// Command qsearch is the terminal client for the qsearch geometric
// search backend: local and hybrid search, sessions, theme preference,
// learner statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/auth"
	"github.com/GaryOcean428/qsearch/internal/config"
	"github.com/GaryOcean428/qsearch/internal/history"
	"github.com/GaryOcean428/qsearch/internal/logging"
	"github.com/GaryOcean428/qsearch/internal/search"
	"github.com/GaryOcean428/qsearch/internal/stats"
	"github.com/GaryOcean428/qsearch/internal/theme"
	"github.com/GaryOcean428/qsearch/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "qsearch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	if err := logging.Init(dataDir); err != nil {
		return err
	}
	defer logging.Close()

	jar, err := auth.OpenJar(filepath.Join(dataDir, "cookies.json"), cfg.APIURL)
	if err != nil {
		return fmt.Errorf("cookie jar: %w", err)
	}
	client := api.New(cfg.APIURL, jar)

	hist, err := history.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		// History is a convenience; the shell runs without it.
		logging.Warn("history unavailable", "error", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ambient detection must happen before the TUI owns the tty. The
	// watcher goroutine starts now but the program exists only later, so
	// the handoff goes through an atomic pointer.
	var program atomic.Pointer[tea.Program]
	resolver := theme.NewResolver(theme.NewTermEnv(dataDir), func(mode theme.Resolved) {
		if p := program.Load(); p != nil {
			p.Send(ui.ThemeApplied(mode))
		}
	})
	defer resolver.Close()

	app := ui.NewApp(ui.Deps{
		Ctx:          ctx,
		Orch:         search.NewOrchestrator(search.NewClient(client)),
		Session:      auth.NewStore(client, jar),
		Resolver:     resolver,
		History:      hist,
		API:          client,
		HistoryKeep:  cfg.HistoryLimit,
		DefaultLimit: cfg.DefaultLimit,
		DefaultAlpha: cfg.DefaultAlpha,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	program.Store(p)

	// Usage statistics refresh for the lifetime of the shell. The context
	// cancel below is the single teardown point.
	poller := stats.NewPoller(client)
	poller.Start(ctx, func(u stats.Usage) {
		p.Send(ui.StatsLoaded(u))
	})

	_, runErr := p.Run()

	cancel()
	poller.Wait()

	if err := jar.Save(); err != nil {
		logging.Warn("failed to persist session cookies", "error", err)
	}

	return runErr
}
