package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/auth"
	"github.com/GaryOcean428/qsearch/internal/history"
	"github.com/GaryOcean428/qsearch/internal/logging"
	"github.com/GaryOcean428/qsearch/internal/search"
	"github.com/GaryOcean428/qsearch/internal/stats"
	"github.com/GaryOcean428/qsearch/internal/theme"
)

// viewID selects which screen the shell shows.
type viewID int

const (
	viewSearch viewID = iota
	viewAuth
	viewHistory
)

// Deps are the collaborators the App composes. The App reads the session
// store and theme resolver; it never owns their state.
type Deps struct {
	Ctx      context.Context
	Orch     *search.Orchestrator
	Session  *auth.Store
	Resolver *theme.Resolver
	History  *history.Store // optional
	API      *api.Client

	// HistoryKeep caps local history retention.
	HistoryKeep int
	// DefaultLimit and DefaultAlpha seed new queries.
	DefaultLimit int
	DefaultAlpha float64
}

// App is the root Bubble Tea model: the application shell composing the
// theme resolver, session store, and search orchestrator.
type App struct {
	deps Deps

	styles Styles
	input  textinput.Model
	spin   spinner.Model

	view      viewID
	authView  authModel
	searching bool
	mode      search.Mode
	alpha     float64
	limit     int

	outcome   *search.Outcome
	cursor    int
	searchErr string

	usage     *stats.Usage
	healthErr error
	histList  []history.Entry

	width  int
	height int
	ready  bool
}

// NewApp creates the shell. The resolver has already applied the initial
// theme; styles are derived from its current resolution.
func NewApp(deps Deps) App {
	input := textinput.New()
	input.Placeholder = "search..."
	input.Prompt = "/ "
	input.CharLimit = 512
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if deps.DefaultLimit == 0 {
		deps.DefaultLimit = 10
	}

	return App{
		deps:     deps,
		styles:   NewStyles(deps.Resolver.Resolved()),
		input:    input,
		spin:     sp,
		mode:     search.ModeLocal,
		alpha:    deps.DefaultAlpha,
		limit:    deps.DefaultLimit,
		authView: newAuthModel(deps.Ctx, deps.Session),
	}
}

// Init settles the session store and checks backend health.
func (a App) Init() tea.Cmd {
	ctx := a.deps.Ctx
	session := a.deps.Session
	client := a.deps.API
	return tea.Batch(
		func() tea.Msg {
			session.Initialize(ctx)
			return SessionSettled{}
		},
		func() tea.Msg {
			return HealthChecked{Err: client.Health(ctx)}
		},
	)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case SessionSettled:
		if a.view == viewAuth {
			var cmd tea.Cmd
			a.authView, cmd = a.authView.update(msg)
			if a.deps.Session.State() == auth.StateAuthenticated {
				a.view = viewSearch
			}
			return a, cmd
		}
		return a, nil

	case AuthDone:
		var cmd tea.Cmd
		a.authView, cmd = a.authView.update(msg)
		if msg.Err == nil {
			a.view = viewSearch
		}
		return a, cmd

	case RedirectStarted:
		var cmd tea.Cmd
		a.authView, cmd = a.authView.update(msg)
		return a, cmd

	case SearchDone:
		return a.applySearch(msg)

	case StatsLoaded:
		u := stats.Usage(msg)
		a.usage = &u
		return a, nil

	case ThemeApplied:
		a.styles = NewStyles(theme.Resolved(msg))
		return a, nil

	case HealthChecked:
		a.healthErr = msg.Err
		if msg.Err != nil {
			logging.Warn("backend health check failed", "error", msg.Err)
		}
		return a, nil

	case HistoryLoaded:
		if msg.Err == nil {
			a.histList = msg.Entries
		}
		return a, nil

	case spinner.TickMsg:
		if !a.searching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// applySearch applies a finished search to visible state unless a newer
// submission has displaced it.
func (a App) applySearch(msg SearchDone) (tea.Model, tea.Cmd) {
	if a.deps.Orch.Superseded(msg.Seq) {
		// A later query owns the screen now. Drop this one.
		return a, nil
	}

	a.searching = false
	if msg.Err != nil {
		a.outcome = nil
		a.searchErr = msg.Err.Error()
		return a, nil
	}

	a.outcome = msg.Outcome
	a.cursor = 0
	a.searchErr = ""
	return a, a.recordHistory(msg.Outcome)
}

func (a App) recordHistory(out *search.Outcome) tea.Cmd {
	if a.deps.History == nil {
		return nil
	}
	h := a.deps.History
	keep := a.deps.HistoryKeep
	entry := history.Entry{
		Query:   out.Query.Text,
		Mode:    string(out.Query.Mode),
		Results: len(out.Results),
	}
	if out.Hybrid != nil {
		entry.Alpha = out.Hybrid.Alpha
	}
	if out.Local != nil {
		entry.CacheHit = out.Local.CacheHit
	}
	return func() tea.Msg {
		if err := h.Record(entry, keep); err != nil {
			logging.Warn("history record failed", "error", err)
		}
		return nil
	}
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys first.
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.view {
	case viewAuth:
		if msg.String() == "esc" {
			a.view = viewSearch
			return a, nil
		}
		var cmd tea.Cmd
		a.authView, cmd = a.authView.update(msg)
		return a, cmd

	case viewHistory:
		switch msg.String() {
		case "esc", "q", "h":
			a.view = viewSearch
			return a, nil
		}
		return a, nil
	}

	return a.handleSearchKey(msg)
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.input.Focused() {
			a.input.Blur()
		}
		return a, nil

	case "enter":
		if a.input.Focused() {
			return a.submitSearch()
		}
		return a, nil
	}

	if a.input.Focused() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Browse-mode keys, input blurred.
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "/", "i":
		a.input.Focus()
		return a, textinput.Blink
	case "j", "down":
		if a.outcome != nil && a.cursor < len(a.outcome.Results)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "m":
		if a.mode == search.ModeLocal {
			a.mode = search.ModeHybrid
		} else {
			a.mode = search.ModeLocal
		}
	case "+", "=":
		a.alpha = search.ClampAlpha(a.alpha + 0.1)
	case "-":
		a.alpha = search.ClampAlpha(a.alpha - 0.1)
	case "t":
		return a.cycleTheme()
	case "l":
		if a.deps.Session.State() == auth.StateAnonymous && a.deps.Session.Capabilities().Enabled {
			a.view = viewAuth
		}
	case "L":
		if a.deps.Session.State() == auth.StateAuthenticated {
			ctx := a.deps.Ctx
			session := a.deps.Session
			return a, func() tea.Msg {
				session.Logout(ctx)
				return SessionSettled{}
			}
		}
	case "h":
		return a.openHistory()
	}
	return a, nil
}

func (a App) submitSearch() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())
	if text == "" || a.deps.Orch == nil {
		return a, nil
	}

	q := search.Query{
		Text:  text,
		Limit: a.limit,
		Mode:  a.mode,
		Alpha: a.alpha,
		Learn: a.mode == search.ModeHybrid,
	}

	// Sequence assigned now, synchronously: supersession follows
	// submission order, not completion order.
	seq := a.deps.Orch.Begin()
	a.searching = true
	a.searchErr = ""

	ctx := a.deps.Ctx
	orch := a.deps.Orch
	return a, tea.Batch(
		a.spin.Tick,
		func() tea.Msg {
			return SearchDone(orch.Run(ctx, seq, q))
		},
	)
}

func (a App) cycleTheme() (tea.Model, tea.Cmd) {
	var next theme.Preference
	switch a.deps.Resolver.Preference() {
	case theme.Light:
		next = theme.Dark
	case theme.Dark:
		next = theme.System
	default:
		next = theme.Light
	}
	a.deps.Resolver.SetPreference(next)
	// SetPreference already applied the mode; mirror it in our styles now
	// rather than waiting for the next message.
	a.styles = NewStyles(a.deps.Resolver.Resolved())
	return a, nil
}

func (a App) openHistory() (tea.Model, tea.Cmd) {
	if a.deps.History == nil {
		return a, nil
	}
	a.view = viewHistory
	h := a.deps.History
	return a, func() tea.Msg {
		entries, err := h.Recent(20)
		return HistoryLoaded{Entries: entries, Err: err}
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var body string
	switch a.view {
	case viewAuth:
		body = a.authView.view(a.styles)
	case viewHistory:
		body = a.viewHistory()
	default:
		body = a.viewSearch()
	}

	return body + "\n" + a.statusBar()
}

func (a App) viewSearch() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("qsearch") + " " + a.styles.ModeBadge.Render(a.modeLabel()) + "\n\n")
	b.WriteString(a.input.View() + "\n\n")

	switch {
	case a.searching:
		b.WriteString(a.spin.View() + " searching...\n")
	case a.searchErr != "":
		b.WriteString(a.styles.Error.Render(a.searchErr) + "\n")
	case a.outcome != nil:
		b.WriteString(renderOutcome(a.outcome, a.cursor, a.styles, a.width))
	default:
		b.WriteString(a.styles.Help.Render("enter search · m mode · +/- alpha · t theme · l sign in · h history · q quit"))
	}
	return b.String()
}

func (a App) viewHistory() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Recent searches") + "\n\n")
	if len(a.histList) == 0 {
		b.WriteString(a.styles.StatusText.Render("  nothing yet") + "\n")
	}
	for _, e := range a.histList {
		label := fmt.Sprintf("%-8s %3d results  %s", e.Mode, e.Results, e.Query)
		b.WriteString(a.styles.NormalItem.Render(label) + "\n")
	}
	b.WriteString(a.styles.Help.Render("esc back"))
	return b.String()
}

func (a App) modeLabel() string {
	if a.mode == search.ModeHybrid {
		return fmt.Sprintf("hybrid α=%.1f", a.alpha)
	}
	return "local"
}

func (a App) statusBar() string {
	var parts []string

	switch a.deps.Session.State() {
	case auth.StateLoading:
		parts = append(parts, "session: ...")
	case auth.StateAuthenticated:
		if s := a.deps.Session.Session(); s != nil {
			parts = append(parts, "signed in: "+s.Email)
		}
	default:
		parts = append(parts, "anonymous")
	}

	if a.usage != nil {
		learner := fmt.Sprintf("learner: %d queued / %d crawled / %d added",
			a.usage.URLsQueued, a.usage.URLsCrawled, a.usage.DocumentsAdded)
		if a.usage.Running {
			learner += " ●"
		}
		parts = append(parts, learner)
	}

	if a.healthErr != nil {
		parts = append(parts, a.styles.Error.Render("backend unreachable"))
	}

	bar := strings.Join(parts, "  ·  ")
	return a.styles.StatusBar.Width(max(a.width, len(bar))).Render(bar)
}

// Outcome returns the visible outcome (for testing).
func (a App) Outcome() *search.Outcome {
	return a.outcome
}

// Mode returns the selected search mode (for testing).
func (a App) Mode() search.Mode {
	return a.mode
}

// Alpha returns the current blend weight (for testing).
func (a App) Alpha() float64 {
	return a.alpha
}

// Styles returns the active style set (for testing).
func (a App) CurrentStyles() Styles {
	return a.styles
}
