package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pkg/browser"

	"github.com/GaryOcean428/qsearch/internal/api"
)

// MinPasswordLength is enforced client-side before any network call.
const MinPasswordLength = 6

// Strategy is the deployment's auth integration. Password and redirect
// deployments are mutually exclusive; the variant is picked once from the
// capabilities at startup, never at runtime.
type Strategy interface {
	Logout(ctx context.Context) error
}

// newStrategy picks the variant the capabilities describe. Returns nil
// when no integration is enabled.
func newStrategy(caps Capabilities, c *api.Client) Strategy {
	if !caps.Enabled {
		return nil
	}
	if caps.Providers["local"] {
		return &PasswordStrategy{api: c}
	}
	providers := caps.EnabledProviders()
	if len(providers) == 0 {
		return nil
	}
	sort.Strings(providers)
	return &RedirectStrategy{
		api:       c,
		providers: providers,
		open:      browser.OpenURL,
	}
}

// authResponse is the shared success shape of register and login.
type authResponse struct {
	OK   bool     `json:"ok"`
	User *Session `json:"user"`
}

// PasswordStrategy signs in with email/password round trips.
type PasswordStrategy struct {
	api *api.Client
}

// Register creates an account. On success the backend sets the session
// cookie and returns the new user. Failure reasons come from the response
// detail when present.
func (p *PasswordStrategy) Register(ctx context.Context, email, password, name string) (*Session, error) {
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name,omitempty"`
	}{email, password, name}

	var resp authResponse
	if err := p.api.PostJSON(ctx, "/api/v1/auth/register", body, &resp); err != nil {
		return nil, errors.New(api.Detail(err, "Registration failed"))
	}
	if !resp.OK || resp.User == nil {
		return nil, errors.New("Registration failed")
	}
	return resp.User, nil
}

// Login authenticates an existing account.
func (p *PasswordStrategy) Login(ctx context.Context, email, password string) (*Session, error) {
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var resp authResponse
	if err := p.api.PostJSON(ctx, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, errors.New(api.Detail(err, "Login failed"))
	}
	if !resp.OK || resp.User == nil {
		return nil, errors.New("Login failed")
	}
	return resp.User, nil
}

// Logout clears the backend session.
func (p *PasswordStrategy) Logout(ctx context.Context) error {
	return p.api.PostJSON(ctx, "/api/v1/auth/logout", struct{}{}, nil)
}

// RedirectStrategy hands the user off to a third-party provider. No round
// trip happens here; the session becomes visible on the next probe, after
// the provider flow returns.
type RedirectStrategy struct {
	api       *api.Client
	providers []string
	open      func(url string) error
}

// Providers returns the enabled provider names, sorted.
func (r *RedirectStrategy) Providers() []string {
	return r.providers
}

// LoginURL returns the backend handoff URL for a provider.
func (r *RedirectStrategy) LoginURL(provider string) string {
	return fmt.Sprintf("%s/api/v1/auth/%s/login", r.api.BaseURL(), provider)
}

// Login opens the provider's handoff URL in the system browser.
func (r *RedirectStrategy) Login(provider string) error {
	found := false
	for _, p := range r.providers {
		if p == provider {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown provider %q", provider)
	}
	return r.open(r.LoginURL(provider))
}

// Logout clears the backend session. Same endpoint as the password flow;
// providers share the cookie session.
func (r *RedirectStrategy) Logout(ctx context.Context) error {
	return r.api.PostJSON(ctx, "/api/v1/auth/logout", struct{}{}, nil)
}
