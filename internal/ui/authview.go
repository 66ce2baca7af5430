package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GaryOcean428/qsearch/internal/auth"
)

// authField indexes the focusable form fields.
type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldName
)

// authModel is the sign-in view. For password deployments it is a
// login/register form; for redirect deployments it is a provider picker.
type authModel struct {
	ctx     context.Context
	session *auth.Store

	email    textinput.Model
	password textinput.Model
	name     textinput.Model
	focus    authField
	register bool // register form instead of login
	pending  bool // round trip in flight, owned here not by the store
	errMsg   string

	providerCursor int
}

func newAuthModel(ctx context.Context, session *auth.Store) authModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 256
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "name (optional)"
	name.CharLimit = 128

	return authModel{
		ctx:      ctx,
		session:  session,
		email:    email,
		password: password,
		name:     name,
	}
}

func (m authModel) update(msg tea.Msg) (authModel, tea.Cmd) {
	if r := m.session.Redirect(); r != nil {
		return m.updateRedirect(msg, r)
	}
	return m.updatePassword(msg)
}

func (m authModel) updatePassword(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case AuthDone:
		m.pending = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.session.Apply(msg.Session)
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		m.errMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, nil
		case "ctrl+r":
			m.register = !m.register
			if !m.register && m.focus == fieldName {
				m.setFocus(fieldEmail)
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

func (m *authModel) cycleFocus(dir int) {
	last := fieldPassword
	if m.register {
		last = fieldName
	}
	next := int(m.focus) + dir
	if next < 0 {
		next = int(last)
	}
	if next > int(last) {
		next = 0
	}
	m.setFocus(authField(next))
}

func (m *authModel) setFocus(f authField) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	m.name.Blur()
	switch f {
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	case fieldName:
		m.name.Focus()
	}
}

func (m authModel) submit() (authModel, tea.Cmd) {
	p := m.session.Password()
	if p == nil || m.pending {
		return m, nil
	}

	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" {
		m.errMsg = "email is required"
		return m, nil
	}
	// Reject short passwords here, before any network round trip.
	if len(password) < auth.MinPasswordLength {
		m.errMsg = fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)
		return m, nil
	}

	m.pending = true
	register := m.register
	name := strings.TrimSpace(m.name.Value())
	ctx := m.ctx
	return m, func() tea.Msg {
		if register {
			session, err := p.Register(ctx, email, password, name)
			return AuthDone{Session: session, Register: true, Err: err}
		}
		session, err := p.Login(ctx, email, password)
		return AuthDone{Session: session, Err: err}
	}
}

func (m authModel) updateRedirect(msg tea.Msg, r *auth.RedirectStrategy) (authModel, tea.Cmd) {
	providers := r.Providers()

	switch msg := msg.(type) {
	case RedirectStarted:
		m.pending = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil

	case SessionSettled:
		m.pending = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.providerCursor < len(providers)-1 {
				m.providerCursor++
			}
			return m, nil
		case "k", "up":
			if m.providerCursor > 0 {
				m.providerCursor--
			}
			return m, nil
		case "enter":
			if len(providers) == 0 {
				return m, nil
			}
			provider := providers[m.providerCursor]
			return m, func() tea.Msg {
				return RedirectStarted{Provider: provider, Err: r.Login(provider)}
			}
		case "R":
			// The session only becomes visible on the next probe, after
			// the provider flow returns.
			m.pending = true
			ctx := m.ctx
			session := m.session
			return m, func() tea.Msg {
				session.Refresh(ctx)
				return SessionSettled{}
			}
		}
	}
	return m, nil
}

func (m authModel) view(s Styles) string {
	if r := m.session.Redirect(); r != nil {
		return m.viewRedirect(s, r)
	}
	return m.viewPassword(s)
}

func (m authModel) viewPassword(s Styles) string {
	var b strings.Builder

	title := "Sign in"
	if m.register {
		title = "Create account"
	}
	b.WriteString(s.Title.Render(title) + "\n\n")

	b.WriteString(s.FormLabel.Render("  email    ") + m.email.View() + "\n")
	b.WriteString(s.FormLabel.Render("  password ") + m.password.View() + "\n")
	if m.register {
		b.WriteString(s.FormLabel.Render("  name     ") + m.name.View() + "\n")
	}
	b.WriteString("\n")

	if m.pending {
		b.WriteString(s.StatusText.Render("  submitting...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(s.Error.Render(m.errMsg) + "\n")
	}

	b.WriteString(s.Help.Render("enter submit · tab next field · ctrl+r toggle login/register · esc back"))
	return b.String()
}

func (m authModel) viewRedirect(s Styles, r *auth.RedirectStrategy) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Sign in with a provider") + "\n\n")

	for i, p := range r.Providers() {
		line := "  " + p
		if i == m.providerCursor {
			line = s.SelectedItem.Render(p)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if m.pending {
		b.WriteString(s.StatusText.Render("  checking session...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(s.Error.Render(m.errMsg) + "\n")
	}

	b.WriteString(s.Help.Render("enter open browser · R re-check session · esc back"))
	return b.String()
}
