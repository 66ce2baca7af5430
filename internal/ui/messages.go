// Package ui provides the Bubble Tea TUI for the qsearch client.
package ui

import (
	"github.com/GaryOcean428/qsearch/internal/auth"
	"github.com/GaryOcean428/qsearch/internal/history"
	"github.com/GaryOcean428/qsearch/internal/search"
	"github.com/GaryOcean428/qsearch/internal/stats"
	"github.com/GaryOcean428/qsearch/internal/theme"
)

// SessionSettled is sent when the session store finishes its initial
// capability fetch and probe.
type SessionSettled struct{}

// AuthDone is sent when a login or register round trip finishes.
type AuthDone struct {
	Session  *auth.Session
	Register bool
	Err      error
}

// RedirectStarted is sent after the browser handoff for a provider login.
type RedirectStarted struct {
	Provider string
	Err      error
}

// SearchDone wraps a finished search, tagged with its submission seq.
type SearchDone search.Done

// StatsLoaded delivers a fresh usage snapshot from the poller.
type StatsLoaded stats.Usage

// ThemeApplied is sent when the resolved theme changes outside the
// update loop (an ambient change while preference is system).
type ThemeApplied theme.Resolved

// HistoryLoaded delivers recent local search history.
type HistoryLoaded struct {
	Entries []history.Entry
	Err     error
}

// HealthChecked reports startup backend reachability.
type HealthChecked struct {
	Err error
}
