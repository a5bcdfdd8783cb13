package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type switchToRegisterMsg struct{}
type switchToLoginMsg struct{}

type registerResultMsg struct{ err error }

type registerFocusMsg struct{}

// registerModel collects the initial profile: credentials plus optional
// favorite topics and digest frequency.
type registerModel struct {
	store *session.Store

	email    textinput.Model
	password textinput.Model
	focus    int

	topicCursor   int
	topicSelected map[string]bool
	inTopics      bool

	frequency models.EmailFrequency

	busy   bool
	errMsg string
}

func newRegisterModel(store *session.Store) registerModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120
	password.Width = 40

	return registerModel{
		store:         store,
		email:         email,
		password:      password,
		topicSelected: make(map[string]bool),
		frequency:     models.FrequencyWeekly,
	}
}

func (m registerModel) reset() registerModel {
	m.email.SetValue("")
	m.password.SetValue("")
	m.email.Blur()
	m.password.Blur()
	m.focus = 0
	m.topicCursor = 0
	m.topicSelected = make(map[string]bool)
	m.inTopics = false
	m.frequency = models.FrequencyWeekly
	m.busy = false
	m.errMsg = ""
	return m
}

func (m registerModel) focusCmd() tea.Cmd {
	return func() tea.Msg { return registerFocusMsg{} }
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerFocusMsg:
		m.focus = 0
		m.email.Focus()
		return m, textinput.Blink

	case registerResultMsg:
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

func (m registerModel) handleKey(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return switchToLoginMsg{} }

	case "tab":
		return m.nextField(), textinput.Blink

	case "ctrl+f":
		m.frequency = nextFrequency(m.frequency)
		return m, nil

	case "enter":
		if m.inTopics {
			return m.submit()
		}
		if m.focus == 1 {
			return m.submit()
		}
		return m.nextField(), textinput.Blink
	}

	if m.inTopics {
		switch msg.String() {
		case "up", "k":
			if m.topicCursor > 0 {
				m.topicCursor--
			}
		case "down", "j":
			if m.topicCursor < len(models.FavoriteTopics)-1 {
				m.topicCursor++
			}
		case " ":
			t := models.FavoriteTopics[m.topicCursor]
			m.topicSelected[t] = !m.topicSelected[t]
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m registerModel) nextField() registerModel {
	switch {
	case m.inTopics:
		m.inTopics = false
		m.focus = 0
		m.email.Focus()
		m.password.Blur()
	case m.focus == 0:
		m.focus = 1
		m.password.Focus()
		m.email.Blur()
	default:
		m.inTopics = true
		m.email.Blur()
		m.password.Blur()
	}
	return m
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errMsg = "Email and password are required."
		return m, nil
	}

	topics := make([]string, 0, len(m.topicSelected))
	for _, t := range models.FavoriteTopics {
		if m.topicSelected[t] {
			topics = append(topics, t)
		}
	}

	m.busy = true
	m.errMsg = ""
	store := m.store
	req := api.RegisterRequest{
		Email:          email,
		Password:       password,
		FavoriteTopics: topics,
		EmailFrequency: m.frequency,
	}
	return m, func() tea.Msg {
		return registerResultMsg{err: store.Register(context.Background(), req)}
	}
}

func nextFrequency(f models.EmailFrequency) models.EmailFrequency {
	switch f {
	case models.FrequencyDaily:
		return models.FrequencyWeekly
	case models.FrequencyWeekly:
		return models.FrequencyNever
	default:
		return models.FrequencyDaily
	}
}

func (m registerModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Create account"))
	s.WriteString("\n")
	s.WriteString(m.email.View())
	s.WriteString("\n")
	s.WriteString(m.password.View())
	s.WriteString("\n\n")

	s.WriteString("Favorite topics (optional)\n")
	for i, t := range models.FavoriteTopics {
		cursor := "  "
		if m.inTopics && i == m.topicCursor {
			cursor = selectedStyle.Render("> ")
		}
		mark := "[ ]"
		if m.topicSelected[t] {
			mark = "[x]"
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, t))
	}

	s.WriteString(fmt.Sprintf("\nEmail digest: %s\n\n", statusStyle.Render(string(m.frequency))))

	if m.busy {
		s.WriteString(statusStyle.Render("Creating account...") + "\n")
	}
	if m.errMsg != "" {
		s.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	s.WriteString(helpStyle.Render("tab: next field • space: toggle topic • ctrl+f: digest frequency • enter: submit • esc: back to sign in"))

	return s.String()
}
