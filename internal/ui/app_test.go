package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/auth"
	"github.com/GaryOcean428/qsearch/internal/search"
	"github.com/GaryOcean428/qsearch/internal/theme"
)

// memEnv is an in-memory theme environment for tests.
type memEnv struct {
	stored  string
	ambient theme.Resolved
}

func (f *memEnv) ReadPersisted() (string, error) { return f.stored, nil }
func (f *memEnv) WritePersisted(s string) error  { f.stored = s; return nil }
func (f *memEnv) Ambient() theme.Resolved        { return f.ambient }
func (f *memEnv) SubscribeAmbient(func(theme.Resolved)) func() {
	return func() {}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	client := api.New("http://127.0.0.1:1", nil) // never dialed in these tests
	resolver := theme.NewResolver(&memEnv{stored: "dark", ambient: theme.ResolvedDark}, func(theme.Resolved) {})
	t.Cleanup(resolver.Close)

	app := NewApp(Deps{
		Ctx:          context.Background(),
		Orch:         search.NewOrchestrator(nil),
		Session:      auth.NewStore(client, nil),
		Resolver:     resolver,
		API:          client,
		DefaultLimit: 10,
		DefaultAlpha: 0.5,
	})

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(App)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func localOutcome(text string, cacheHit bool, titles ...string) *search.Outcome {
	results := make([]search.Result, len(titles))
	for i, title := range titles {
		results[i] = search.Result{DocID: title, Title: title, Distance: float64(i) / 10}
	}
	return &search.Outcome{
		Query:   search.Query{Text: text, Limit: 5, Mode: search.ModeLocal},
		Results: results,
		Elapsed: 12 * time.Millisecond,
		Local:   &search.LocalProvenance{CacheHit: cacheHit},
	}
}

func TestStaleSearchDiscarded(t *testing.T) {
	app := newTestApp(t)
	orch := app.deps.Orch

	first := orch.Begin()
	second := orch.Begin()

	// Second query resolves first and owns the screen.
	model, _ := app.Update(SearchDone{Seq: second, Outcome: localOutcome("beta", false, "beta-hit")})
	app = model.(App)
	if app.Outcome() == nil || app.Outcome().Query.Text != "beta" {
		t.Fatal("latest outcome not applied")
	}

	// First query arrives late: must be dropped.
	model, _ = app.Update(SearchDone{Seq: first, Outcome: localOutcome("alpha", false, "alpha-hit")})
	app = model.(App)
	if app.Outcome().Query.Text != "beta" {
		t.Errorf("visible outcome = %q, want the second query's results", app.Outcome().Query.Text)
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	app := newTestApp(t)
	orch := app.deps.Orch

	first := orch.Begin()
	second := orch.Begin()

	model, _ := app.Update(SearchDone{Seq: second, Outcome: localOutcome("beta", false, "b")})
	app = model.(App)

	// A stale failure must not clobber the fresh outcome.
	model, _ = app.Update(SearchDone{Seq: first, Err: &api.RequestError{Status: 500, Body: "boom"}})
	app = model.(App)
	if app.Outcome() == nil || app.searchErr != "" {
		t.Error("stale error leaked into visible state")
	}
}

func TestLocalOutcomeShowsCacheHit(t *testing.T) {
	app := newTestApp(t)
	seq := app.deps.Orch.Begin()

	out := localOutcome("quantum entanglement", true, "Bell pairs", "EPR")
	model, _ := app.Update(SearchDone{Seq: seq, Outcome: out})
	app = model.(App)

	if got := len(app.Outcome().Results); got != 2 {
		t.Fatalf("visible results = %d, want 2", got)
	}
	// Backend order preserved.
	if app.Outcome().Results[0].Title != "Bell pairs" {
		t.Errorf("first result = %q, want backend order kept", app.Outcome().Results[0].Title)
	}

	view := app.View()
	if !strings.Contains(view, "cache: hit") {
		t.Error("view missing cache hit indicator")
	}
}

func TestHybridOutcomeShowsAlphaNotCache(t *testing.T) {
	app := newTestApp(t)
	seq := app.deps.Orch.Begin()

	out := &search.Outcome{
		Query: search.Query{Text: "fusion", Limit: 5, Mode: search.ModeHybrid, Alpha: 0.3},
		Results: []search.Result{
			{Title: "ITER", SerperPosition: 1, BasinDistance: 0.3, HybridScore: 0.21},
			{Title: "Stellarator", SerperPosition: 2, BasinDistance: 0.5, HybridScore: 0},
		},
		Hybrid: &search.HybridProvenance{Alpha: 0.3},
	}
	model, _ := app.Update(SearchDone{Seq: seq, Outcome: out})
	app = model.(App)

	view := app.View()
	if !strings.Contains(view, "alpha=0.30") {
		t.Error("view missing the blend weight actually used")
	}
	if strings.Contains(view, "cache:") {
		t.Error("hybrid outcome must not show a cache indicator")
	}
	// Missing hybrid_score propagated as numeric zero.
	if !strings.Contains(view, "s=0.000") {
		t.Error("zero hybrid score not rendered numerically")
	}
}

func TestModeToggleAndAlphaKeys(t *testing.T) {
	app := newTestApp(t)
	app.input.Blur()

	model, _ := app.Update(key("m"))
	app = model.(App)
	if app.Mode() != search.ModeHybrid {
		t.Fatalf("mode = %q, want hybrid", app.Mode())
	}

	model, _ = app.Update(key("+"))
	app = model.(App)
	if app.Alpha() != 0.6 {
		t.Errorf("alpha = %v, want 0.6", app.Alpha())
	}

	for i := 0; i < 10; i++ {
		model, _ = app.Update(key("+"))
		app = model.(App)
	}
	if app.Alpha() != 1.0 {
		t.Errorf("alpha = %v, want clamped to 1", app.Alpha())
	}

	model, _ = app.Update(key("m"))
	app = model.(App)
	if app.Mode() != search.ModeLocal {
		t.Errorf("mode = %q, want local after second toggle", app.Mode())
	}
}

func TestThemeCycleRestyles(t *testing.T) {
	app := newTestApp(t)
	app.input.Blur()

	if app.deps.Resolver.Preference() != theme.Dark {
		t.Fatalf("precondition: preference = %q", app.deps.Resolver.Preference())
	}

	// dark -> system -> light
	model, _ := app.Update(key("t"))
	app = model.(App)
	if app.deps.Resolver.Preference() != theme.System {
		t.Errorf("preference = %q, want system", app.deps.Resolver.Preference())
	}

	model, _ = app.Update(key("t"))
	app = model.(App)
	if app.deps.Resolver.Preference() != theme.Light {
		t.Errorf("preference = %q, want light", app.deps.Resolver.Preference())
	}
}

func TestAmbientThemeMessageRestyles(t *testing.T) {
	app := newTestApp(t)

	before := app.CurrentStyles()
	model, _ := app.Update(ThemeApplied(theme.ResolvedLight))
	app = model.(App)
	after := app.CurrentStyles()

	if before.Title.GetForeground() == after.Title.GetForeground() {
		t.Error("styles unchanged after ambient theme switch")
	}
}
