package theme

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// prefFile is the single key under which the preference is persisted.
const prefFile = "theme"

// ambientPollInterval is how often the watcher re-checks the terminal
// background. Terminals expose no change notification, so the channel is
// realized as a change-detecting poll.
const ambientPollInterval = 30 * time.Second

// TermEnv is the real environment: a one-line file under the data dir for
// storage, termenv for ambient background detection.
type TermEnv struct {
	dir string
}

// NewTermEnv creates a TermEnv persisting under dir.
func NewTermEnv(dir string) *TermEnv {
	return &TermEnv{dir: dir}
}

// ReadPersisted returns the stored preference string.
func (e *TermEnv) ReadPersisted() (string, error) {
	data, err := os.ReadFile(filepath.Join(e.dir, prefFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WritePersisted stores the preference string.
func (e *TermEnv) WritePersisted(s string) error {
	return os.WriteFile(filepath.Join(e.dir, prefFile), []byte(s+"\n"), 0644)
}

// Ambient queries the terminal background. A fresh termenv Output per
// call, so repeated polls see the terminal's current answer instead of
// the package-level cache.
func (e *TermEnv) Ambient() Resolved {
	if termenv.NewOutput(os.Stdout).HasDarkBackground() {
		return ResolvedDark
	}
	return ResolvedLight
}

// SubscribeAmbient starts a watcher goroutine that notifies fn when the
// ambient mode changes. Cancel stops the goroutine; calling cancel twice
// is safe.
func (e *TermEnv) SubscribeAmbient(fn func(Resolved)) func() {
	w := newAmbientWatcher(e.Ambient, fn, ambientPollInterval)
	return w.stop
}

// ambientWatcher polls the ambient mode and fires only on transitions.
type ambientWatcher struct {
	done     chan struct{}
	stopOnce sync.Once
}

func newAmbientWatcher(current func() Resolved, fn func(Resolved), interval time.Duration) *ambientWatcher {
	w := &ambientWatcher{done: make(chan struct{})}

	go func() {
		last := current()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.done:
				return
			case <-ticker.C:
				now := current()
				if now != last {
					last = now
					fn(now)
				}
			}
		}
	}()

	return w
}

func (w *ambientWatcher) stop() {
	w.stopOnce.Do(func() { close(w.done) })
}
