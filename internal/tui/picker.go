package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type pickerCollectionsMsg struct{ items []models.Collection }

type pickerSavedMsg struct {
	created bool
	err     error
}

// pickerModel is the save-to-collection flow: existing collections are
// one-keystroke targets, or a new name creates a collection and
// attaches the article in one user-visible action.
type pickerModel struct {
	client  *api.Client
	article models.Article

	collections []models.Collection
	cursor      int

	nameInput textinput.Model
	naming    bool
	busy      bool
}

func newPickerModel(client *api.Client) pickerModel {
	input := textinput.New()
	input.Placeholder = "Collection name"
	input.CharLimit = 80
	input.Width = 40

	return pickerModel{client: client, nameInput: input}
}

func (m pickerModel) open(article models.Article) (pickerModel, tea.Cmd) {
	m.article = article
	m.collections = nil
	m.cursor = 0
	m.naming = false
	m.busy = false
	m.nameInput.SetValue("")
	m.nameInput.Blur()

	client := m.client
	return m, func() tea.Msg {
		// A failed list still lets the user create a new collection.
		items, err := client.ListCollections(context.Background())
		if err != nil {
			items = nil
		}
		return pickerCollectionsMsg{items: items}
	}
}

func (m pickerModel) Update(msg tea.Msg) (pickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pickerCollectionsMsg:
		m.collections = msg.items
		return m, nil

	case pickerSavedMsg:
		m.busy = false
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to save article."))
		}
		text := "Article saved to collection."
		if msg.created {
			text = "Collection created and article saved."
		}
		return m, tea.Batch(toast(text), func() tea.Msg { return closePickerMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m pickerModel) handleKey(msg tea.KeyMsg) (pickerModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	if m.naming {
		switch msg.String() {
		case "esc":
			m.naming = false
			m.nameInput.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			m.busy = true
			client, article := m.client, m.article
			return m, func() tea.Msg {
				c, err := client.CreateCollection(context.Background(), name)
				if err != nil {
					return pickerSavedMsg{created: true, err: err}
				}
				if c == nil {
					return pickerSavedMsg{created: true, err: fmt.Errorf("server returned no collection")}
				}
				return pickerSavedMsg{created: true, err: client.AddArticle(context.Background(), c.ID, article)}
			}
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return closePickerMsg{} }

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.collections)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(m.collections) {
			m.busy = true
			client, article, id := m.client, m.article, m.collections[m.cursor].ID
			return m, func() tea.Msg {
				return pickerSavedMsg{err: client.AddArticle(context.Background(), id, article)}
			}
		}

	case "c":
		m.naming = true
		m.nameInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m pickerModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Save to collection"))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(m.article.Title))
	s.WriteString("\n\n")

	if m.naming {
		s.WriteString("New collection\n\n")
		s.WriteString(m.nameInput.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("enter: create and save • esc: back"))
		return s.String()
	}

	if len(m.collections) == 0 {
		s.WriteString(dimStyle.Render("No collections yet. Create one below to save the article."))
		s.WriteString("\n")
	} else {
		for i, c := range m.collections {
			cursor := "  "
			if i == m.cursor {
				cursor = selectedStyle.Render("> ")
			}
			s.WriteString(fmt.Sprintf("%s%s\n", cursor, c.Name))
		}
	}

	s.WriteString("\n")
	if m.busy {
		s.WriteString(statusStyle.Render("Saving...") + "\n")
	}
	s.WriteString(helpStyle.Render("enter: save here • c: new collection • esc: cancel"))

	return s.String()
}
