// Package auth owns the client's authentication state against the
// qsearch backend.
//
// The store settles through uninitialized -> loading -> authenticated or
// anonymous at startup, then flips between the last two on login/logout.
// Credentials are backend session cookies carried by the API client's
// jar; the store never handles tokens.
package auth

import (
	"context"
	"sync"

	"github.com/GaryOcean428/qsearch/internal/api"
	"github.com/GaryOcean428/qsearch/internal/logging"
)

// Session identifies the signed-in principal. Replaced wholesale on every
// transition, never partially mutated.
type Session struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Provider  string `json:"provider,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Capabilities describes which auth integration the deployment exposes.
// Fetched once at startup and treated as immutable afterwards.
type Capabilities struct {
	Enabled   bool            `json:"enabled"`
	Providers map[string]bool `json:"providers"`
}

// EnabledProviders returns the names of enabled third-party providers,
// excluding the local password integration.
func (c Capabilities) EnabledProviders() []string {
	var names []string
	for name, on := range c.Providers {
		if on && name != "local" {
			names = append(names, name)
		}
	}
	return names
}

// PasswordEnabled reports whether the local email/password flow is on.
func (c Capabilities) PasswordEnabled() bool {
	return c.Enabled && c.Providers["local"]
}

// State is the store's position in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Store holds the session and drives transitions. Safe for concurrent
// use: round trips run on background goroutines while the TUI's render
// loop reads the state every frame.
type Store struct {
	api *api.Client
	jar *Jar // optional; cleared on logout

	mu       sync.Mutex
	state    State
	session  *Session
	caps     Capabilities
	strategy Strategy
}

// NewStore creates an uninitialized Store. The jar may be nil; when set,
// logout drops its persisted cookies.
func NewStore(c *api.Client, jar *Jar) *Store {
	return &Store{api: c, jar: jar, state: StateUninitialized}
}

// Initialize fetches auth capabilities and settles the store. With no
// integration enabled (or capabilities unreachable/malformed) it settles
// straight to anonymous with no session probe. Otherwise it probes once.
// Never returns an error: every failure degrades to anonymous.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	var caps Capabilities
	if err := s.api.GetJSON(ctx, "/api/v1/auth/providers", &caps); err != nil {
		logging.Warn("auth capabilities unavailable, treating as disabled", "error", err)
		s.settle(nil)
		return
	}
	strategy := newStrategy(caps, s.api)

	s.mu.Lock()
	s.caps = caps
	s.strategy = strategy
	s.mu.Unlock()

	if !caps.Enabled || strategy == nil {
		s.settle(nil)
		return
	}

	s.settle(s.probeSession(ctx))
}

// probeSession asks the backend who we are. Any outcome other than an
// explicit authenticated payload resolves to nil (anonymous). Transport
// failures are logged, not surfaced.
func (s *Store) probeSession(ctx context.Context) *Session {
	var resp struct {
		Authenticated bool     `json:"authenticated"`
		User          *Session `json:"user"`
	}
	if err := s.api.GetJSON(ctx, "/api/v1/auth/me", &resp); err != nil {
		logging.Warn("session probe failed, degrading to anonymous", "error", err)
		return nil
	}
	if !resp.Authenticated || resp.User == nil {
		return nil
	}
	return resp.User
}

// settle ends the loading phase in authenticated or anonymous.
func (s *Store) settle(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	if session != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether the initial probe is still in flight. Login,
// register and logout never set this; their pending indicators belong to
// the caller.
func (s *Store) Loading() bool {
	return s.State() == StateLoading
}

// Session returns the current session, nil when anonymous.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Capabilities returns the deployment's auth capabilities.
func (s *Store) Capabilities() Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

// Password returns the password strategy, nil for redirect deployments.
func (s *Store) Password() *PasswordStrategy {
	p, _ := s.loadStrategy().(*PasswordStrategy)
	return p
}

// Redirect returns the redirect strategy, nil for password deployments.
func (s *Store) Redirect() *RedirectStrategy {
	r, _ := s.loadStrategy().(*RedirectStrategy)
	return r
}

func (s *Store) loadStrategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// Apply replaces the session wholesale after a successful login or
// registration round trip.
func (s *Store) Apply(session *Session) {
	s.settle(session)
}

// Refresh re-runs the session probe and re-settles. Used after a
// redirect login flow returns control, when the new session is only
// visible backend-side.
func (s *Store) Refresh(ctx context.Context) {
	if s.loadStrategy() == nil {
		return
	}
	s.settle(s.probeSession(ctx))
}

// Logout calls the backend, then clears the session locally regardless of
// the outcome. Sign-out always succeeds from the client's point of view.
// Persisted cookies go with it, so a stale file cannot resurrect the
// sign-in on the next run.
func (s *Store) Logout(ctx context.Context) {
	if strategy := s.loadStrategy(); strategy != nil {
		if err := strategy.Logout(ctx); err != nil {
			logging.Warn("logout request failed, clearing session anyway", "error", err)
		}
	}
	if s.jar != nil {
		s.jar.Clear()
	}
	s.settle(nil)
}
