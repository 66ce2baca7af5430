package theme

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeEnv is an in-memory Env with a controllable ambient mode.
type fakeEnv struct {
	stored   string
	readErr  error
	writeErr error
	ambient  Resolved

	subscriber func(Resolved)
	subCount   int
	cancels    int
}

func (f *fakeEnv) ReadPersisted() (string, error) {
	return f.stored, f.readErr
}

func (f *fakeEnv) WritePersisted(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.stored = s
	return nil
}

func (f *fakeEnv) Ambient() Resolved {
	return f.ambient
}

func (f *fakeEnv) SubscribeAmbient(fn func(Resolved)) func() {
	f.subscriber = fn
	f.subCount++
	return func() {
		f.cancels++
		f.subscriber = nil
	}
}

// flipAmbient simulates an OS theme change notification.
func (f *fakeEnv) flipAmbient(mode Resolved) {
	f.ambient = mode
	if f.subscriber != nil {
		f.subscriber(mode)
	}
}

func TestParsePreferenceUnrecognized(t *testing.T) {
	cases := map[string]Preference{
		"light":   Light,
		"dark":    Dark,
		"system":  System,
		"":        System,
		"blue":    System,
		"DARK":    System,
		"light ":  System,
		"default": System,
	}
	for in, want := range cases {
		if got := ParsePreference(in); got != want {
			t.Errorf("ParsePreference(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveIsPure(t *testing.T) {
	env := &fakeEnv{stored: "system", ambient: ResolvedDark}
	r := NewResolver(env, func(Resolved) {})
	defer r.Close()

	for i := 0; i < 3; i++ {
		if got := r.Resolve(System); got != ResolvedDark {
			t.Fatalf("Resolve(System) = %q, want dark", got)
		}
	}
	if got := r.Resolve(Light); got != ResolvedLight {
		t.Errorf("Resolve(Light) = %q, want light", got)
	}
	if got := r.Resolve(Dark); got != ResolvedDark {
		t.Errorf("Resolve(Dark) = %q, want dark", got)
	}

	env.ambient = ResolvedLight
	if got := r.Resolve(System); got != ResolvedLight {
		t.Errorf("Resolve(System) after ambient flip = %q, want light", got)
	}
}

func TestSetPreferenceAppliesSynchronously(t *testing.T) {
	env := &fakeEnv{stored: "system", ambient: ResolvedDark}
	var applied []Resolved
	r := NewResolver(env, func(m Resolved) { applied = append(applied, m) })
	defer r.Close()

	// Constructor applies once from ambient.
	if len(applied) != 1 || applied[0] != ResolvedDark {
		t.Fatalf("initial apply = %v, want [dark]", applied)
	}

	r.SetPreference(Light)
	if len(applied) != 2 || applied[1] != ResolvedLight {
		t.Fatalf("apply after SetPreference(Light) = %v, want light appended", applied)
	}
	if env.stored != "light" {
		t.Errorf("persisted %q, want light", env.stored)
	}
}

func TestAmbientChangeWhileSystem(t *testing.T) {
	env := &fakeEnv{stored: "system", ambient: ResolvedLight}
	var current Resolved
	r := NewResolver(env, func(m Resolved) { current = m })
	defer r.Close()

	if current != ResolvedLight {
		t.Fatalf("initial mode = %q, want light", current)
	}

	// No SetPreference call: the subscription alone must re-apply.
	env.flipAmbient(ResolvedDark)
	if current != ResolvedDark {
		t.Errorf("mode after ambient flip = %q, want dark", current)
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	env := &fakeEnv{stored: "system", ambient: ResolvedDark}
	r := NewResolver(env, func(Resolved) {})
	defer r.Close()

	if env.subCount != 1 {
		t.Fatalf("subscriptions after init = %d, want 1", env.subCount)
	}

	// Moving away from system tears the subscription down.
	r.SetPreference(Dark)
	if env.cancels != 1 {
		t.Errorf("cancels after SetPreference(Dark) = %d, want 1", env.cancels)
	}
	if env.subscriber != nil {
		t.Error("subscriber still registered after leaving system")
	}

	// Moving back re-establishes exactly one.
	r.SetPreference(System)
	if env.subCount != 2 {
		t.Errorf("subscriptions after returning to system = %d, want 2", env.subCount)
	}

	// Repeated system sets must not stack subscriptions.
	r.SetPreference(System)
	if env.subCount != 2 {
		t.Errorf("subscriptions after redundant set = %d, want 2", env.subCount)
	}
}

func TestAmbientWatcherNotifiesOnTransition(t *testing.T) {
	var mu sync.Mutex
	mode := ResolvedLight
	current := func() Resolved {
		mu.Lock()
		defer mu.Unlock()
		return mode
	}

	notified := make(chan Resolved, 4)
	w := newAmbientWatcher(current, func(m Resolved) { notified <- m }, time.Millisecond)

	mu.Lock()
	mode = ResolvedDark
	mu.Unlock()

	select {
	case got := <-notified:
		if got != ResolvedDark {
			t.Fatalf("notified %q, want dark", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never observed the transition")
	}

	// Steady state: no repeat notification without a further change.
	select {
	case m := <-notified:
		t.Fatalf("unexpected repeat notification %q", m)
	case <-time.After(20 * time.Millisecond):
	}

	w.stop()
	w.stop() // idempotent
}

func TestStorageFailuresSwallowed(t *testing.T) {
	env := &fakeEnv{
		readErr: errors.New("storage disabled"),
		ambient: ResolvedDark,
	}
	var current Resolved
	r := NewResolver(env, func(m Resolved) { current = m })
	defer r.Close()

	// Unreadable storage degrades to system-from-ambient.
	if r.Preference() != System {
		t.Errorf("preference = %q, want system", r.Preference())
	}
	if current != ResolvedDark {
		t.Errorf("mode = %q, want dark", current)
	}

	// Unwritable storage still changes the live preference.
	env.writeErr = errors.New("storage disabled")
	r.SetPreference(Light)
	if r.Preference() != Light {
		t.Errorf("preference after failed write = %q, want light", r.Preference())
	}
	if current != ResolvedLight {
		t.Errorf("mode after failed write = %q, want light", current)
	}
}
