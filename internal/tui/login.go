package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/session"
)

type loginResultMsg struct{ err error }

type loginModel struct {
	store *session.Store

	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errMsg   string
}

func newLoginModel(store *session.Store) loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120
	password.Width = 40

	return loginModel{store: store, email: email, password: password}
}

func (m loginModel) reset() loginModel {
	m.email.SetValue("")
	m.password.SetValue("")
	m.email.Blur()
	m.password.Blur()
	m.focus = 0
	m.busy = false
	m.errMsg = ""
	return m
}

func (m loginModel) focusCmd() tea.Cmd {
	return func() tea.Msg {
		return loginFocusMsg{}
	}
}

type loginFocusMsg struct{}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFocusMsg:
		m.focus = 0
		m.email.Focus()
		return m, textinput.Blink

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return loggedInMsg{} }

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.email.Focus()
			m.password.Blur()
		} else {
			m.password.Focus()
			m.email.Blur()
		}
		return m, textinput.Blink

	case "ctrl+r":
		return m, func() tea.Msg { return switchToRegisterMsg{} }

	case "enter":
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if email == "" || password == "" {
			m.errMsg = "Email and password are required."
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		store := m.store
		return m, func() tea.Msg {
			return loginResultMsg{err: store.Login(context.Background(), email, password)}
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Sign in"))
	s.WriteString("\n")
	s.WriteString(m.email.View())
	s.WriteString("\n")
	s.WriteString(m.password.View())
	s.WriteString("\n\n")

	if m.busy {
		s.WriteString(statusStyle.Render("Signing in...") + "\n")
	}
	if m.errMsg != "" {
		s.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	s.WriteString(helpStyle.Render("enter: sign in • tab: next field • ctrl+r: create account • ctrl+c: quit"))

	return s.String()
}
