package auth

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/GaryOcean428/qsearch/internal/logging"
)

// Jar is a cookie jar that persists the backend's session cookies to disk,
// so a sign-in survives client restarts. It is the TUI's stand-in for the
// browser's ambient cookie store.
type Jar struct {
	inner http.CookieJar
	path  string
	base  *url.URL

	mu      sync.Mutex
	cookies map[string]*http.Cookie // by name, backend host only
}

// persistedCookie is the on-disk shape.
type persistedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// OpenJar creates a Jar persisting at path, preloading any cookies saved
// by a previous run. A missing or corrupt file starts empty.
func OpenJar(path, baseURL string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	j := &Jar{
		inner:   inner,
		path:    path,
		base:    base,
		cookies: make(map[string]*http.Cookie),
	}
	j.load()
	return j, nil
}

// SetCookies stores cookies, tracking the backend host's for persistence.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	if u.Host != j.base.Host {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c
	}
}

// Cookies returns cookies to send with a request to u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Save writes the backend's cookies to disk. Called after auth state
// changes and at shutdown.
func (j *Jar) Save() error {
	j.mu.Lock()
	out := make([]persistedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		if !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
			continue
		}
		out = append(out, persistedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	j.mu.Unlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0600)
}

// Clear drops all persisted cookies, on disk and in memory. Used after
// logout so a stale session file cannot resurrect the sign-in.
func (j *Jar) Clear() {
	j.mu.Lock()
	j.cookies = make(map[string]*http.Cookie)
	j.mu.Unlock()

	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove cookie file", "error", err)
	}
}

func (j *Jar) load() {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	var saved []persistedCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		logging.Warn("cookie file unreadable, starting fresh", "error", err)
		return
	}

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, pc := range saved {
		if !pc.Expires.IsZero() && pc.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    pc.Name,
			Value:   pc.Value,
			Path:    pc.Path,
			Expires: pc.Expires,
		})
	}
	if len(cookies) > 0 {
		j.inner.SetCookies(j.base, cookies)
		j.mu.Lock()
		for _, c := range cookies {
			j.cookies[c.Name] = c
		}
		j.mu.Unlock()
	}
}
