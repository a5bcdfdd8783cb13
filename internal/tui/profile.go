package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type profileSavedMsg struct{ err error }

// profileModel edits the user's topic and email-digest preferences.
type profileModel struct {
	store *session.Store

	topicCursor   int
	topicSelected map[string]bool
	frequency     models.EmailFrequency

	busy bool
}

func newProfileModel(store *session.Store) profileModel {
	return profileModel{store: store, topicSelected: make(map[string]bool)}
}

// activate snapshots the current preferences into the form.
func (m profileModel) activate() profileModel {
	m.topicSelected = make(map[string]bool)
	m.frequency = models.FrequencyWeekly
	m.topicCursor = 0
	m.busy = false

	if u := m.store.User(); u != nil {
		for _, t := range u.FavoriteTopics {
			m.topicSelected[t] = true
		}
		m.frequency = models.ParseEmailFrequency(string(u.EmailFrequency))
	}
	return m
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			return m, toastError(msg.err.Error())
		}
		return m, toast("Profile updated.")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

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

	case "f":
		m.frequency = nextFrequency(m.frequency)

	case "enter":
		topics := make([]string, 0, len(m.topicSelected))
		for _, t := range models.FavoriteTopics {
			if m.topicSelected[t] {
				topics = append(topics, t)
			}
		}
		m.busy = true
		store, freq := m.store, m.frequency
		return m, func() tea.Msg {
			err := store.UpdateProfile(context.Background(), api.ProfileUpdate{
				FavoriteTopics: &topics,
				EmailFrequency: &freq,
			})
			return profileSavedMsg{err: err}
		}

	case "L":
		store := m.store
		return m, func() tea.Msg {
			store.Logout()
			return nil
		}
	}

	return m, nil
}

func (m profileModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Profile"))
	s.WriteString("\n")

	if u := m.store.User(); u != nil {
		s.WriteString(dimStyle.Render(u.Email))
		s.WriteString("\n\n")
	}

	s.WriteString("Favorite topics\n")
	for i, t := range models.FavoriteTopics {
		cursor := "  "
		if i == m.topicCursor {
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
		s.WriteString(statusStyle.Render("Saving...") + "\n")
	}

	s.WriteString(helpStyle.Render("space: toggle topic • f: digest frequency • enter: save • L: sign out • q: quit"))

	return s.String()
}
