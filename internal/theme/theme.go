// Package theme resolves the effective display mode from a persisted
// preference and the terminal's ambient background.
//
// The persisted value is the preference only; the resolved mode is always
// recomputed and never written anywhere. While the preference is "system"
// the resolver watches the ambient channel and re-applies on change.
package theme

import (
	"errors"
	"os"
	"sync"

	"github.com/GaryOcean428/qsearch/internal/logging"
)

// Preference is the user's persisted choice.
type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Resolved is the mode actually applied. Always light or dark.
type Resolved string

const (
	ResolvedLight Resolved = "light"
	ResolvedDark  Resolved = "dark"
)

// ParsePreference maps a stored string to a Preference. Anything outside
// the three known values is treated as System.
func ParsePreference(s string) Preference {
	switch Preference(s) {
	case Light, Dark, System:
		return Preference(s)
	default:
		return System
	}
}

// Env abstracts the environment capabilities the resolver depends on, so
// it can be tested with fakes: persisted storage and the ambient
// background channel.
type Env interface {
	// ReadPersisted returns the stored preference string.
	ReadPersisted() (string, error)
	// WritePersisted stores the preference string.
	WritePersisted(string) error
	// Ambient returns the terminal's current background mode.
	Ambient() Resolved
	// SubscribeAmbient registers a callback invoked whenever the ambient
	// mode changes. The returned func cancels the subscription.
	SubscribeAmbient(func(Resolved)) (cancel func())
}

// Resolver owns the theme preference and its application. The apply
// callback runs synchronously on every change; it is the only writer to
// the presentation layer's mode.
type Resolver struct {
	mu     sync.Mutex
	env    Env
	pref   Preference
	apply  func(Resolved)
	cancel func() // non-nil iff an ambient subscription is live
}

// NewResolver loads the persisted preference (falling back to System on
// any storage failure or unrecognized value), applies the resolved mode
// once, and subscribes to ambient changes when the preference is System.
func NewResolver(env Env, apply func(Resolved)) *Resolver {
	r := &Resolver{env: env, apply: apply}

	stored, err := env.ReadPersisted()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("theme storage unreadable, using system preference", "error", err)
		}
		stored = string(System)
	}
	r.pref = ParsePreference(stored)

	r.apply(r.Resolve(r.pref))
	r.syncSubscription()
	return r
}

// Preference returns the current preference.
func (r *Resolver) Preference() Preference {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pref
}

// Resolve maps a preference to the mode to apply. Pure: System defers to
// the ambient background at call time, with no side effects.
func (r *Resolver) Resolve(p Preference) Resolved {
	switch p {
	case Light:
		return ResolvedLight
	case Dark:
		return ResolvedDark
	default:
		return r.env.Ambient()
	}
}

// SetPreference persists p, recomputes the resolved mode, and applies it
// synchronously. Storage failures are swallowed: the in-memory preference
// still changes and the session continues from ambient alone.
func (r *Resolver) SetPreference(p Preference) {
	p = ParsePreference(string(p))

	r.mu.Lock()
	r.pref = p
	r.mu.Unlock()

	if err := r.env.WritePersisted(string(p)); err != nil {
		logging.Warn("theme storage unwritable, preference not persisted", "error", err)
	}

	r.apply(r.Resolve(p))
	r.syncSubscription()
}

// Resolved returns the currently effective mode.
func (r *Resolver) Resolved() Resolved {
	return r.Resolve(r.Preference())
}

// Close tears down any live ambient subscription.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// syncSubscription keeps exactly one ambient subscription alive while the
// preference is System, and none otherwise.
func (r *Resolver) syncSubscription() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pref == System {
		if r.cancel == nil {
			r.cancel = r.env.SubscribeAmbient(func(mode Resolved) {
				r.apply(mode)
			})
		}
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
