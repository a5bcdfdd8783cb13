package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type collectionsLoadedMsg struct {
	seq   int
	items []models.Collection
	err   error
}

type collectionCreatedMsg struct{ err error }
type collectionDeletedMsg struct{ err error }

type collectionsModel struct {
	client  *api.Client
	tracker *state.Tracker

	collections []models.Collection
	cursor      int
	loadSeq     int

	spinner spinner.Model

	creating   bool
	nameInput  textinput.Model
	createBusy bool

	toDelete   *models.Collection
	deleteBusy bool
}

func newCollectionsModel(client *api.Client, tracker *state.Tracker) collectionsModel {
	input := textinput.New()
	input.Placeholder = "e.g. Weekly reads"
	input.CharLimit = 80
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return collectionsModel{
		client:    client,
		tracker:   tracker,
		nameInput: input,
		spinner:   sp,
	}
}

func (m collectionsModel) typing() bool {
	return m.creating
}

func (m collectionsModel) activate() (collectionsModel, tea.Cmd) {
	m.creating = false
	m.toDelete = nil
	return m.load()
}

func (m collectionsModel) load() (collectionsModel, tea.Cmd) {
	m.loadSeq++
	seq := m.loadSeq
	m.collections = nil
	m.tracker.SetStatus(state.PageCollections, state.StatusPending, "")
	client := m.client
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		items, err := client.ListCollections(context.Background())
		return collectionsLoadedMsg{seq: seq, items: items, err: err}
	})
}

func (m collectionsModel) Update(msg tea.Msg) (collectionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.tracker.Get(state.PageCollections).Status != state.StatusPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case collectionsLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, nil
			}
			m.tracker.SetStatus(state.PageCollections, state.StatusFailed, api.ServerMessage(msg.err))
			return m, nil
		}
		m.collections = msg.items
		if m.cursor >= len(m.collections) {
			m.cursor = 0
		}
		m.tracker.SetStatus(state.PageCollections, state.StatusSucceeded, "")
		return m, nil

	case collectionCreatedMsg:
		m.createBusy = false
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to create collection."))
		}
		m.creating = false
		m.nameInput.SetValue("")
		var cmd tea.Cmd
		m, cmd = m.load()
		return m, tea.Batch(toast("Collection created."), cmd)

	case collectionDeletedMsg:
		m.deleteBusy = false
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to delete collection."))
		}
		// Only drop it locally after the server confirmed, then reload.
		m.toDelete = nil
		var cmd tea.Cmd
		m, cmd = m.load()
		return m, tea.Batch(toast("Collection deleted."), cmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m collectionsModel) handleKey(msg tea.KeyMsg) (collectionsModel, tea.Cmd) {
	if m.creating {
		switch msg.String() {
		case "esc":
			m.creating = false
			m.nameInput.SetValue("")
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" || m.createBusy {
				return m, nil
			}
			m.createBusy = true
			client := m.client
			return m, func() tea.Msg {
				_, err := client.CreateCollection(context.Background(), name)
				return collectionCreatedMsg{err: err}
			}
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.toDelete != nil {
		switch msg.String() {
		case "y", "enter":
			if m.deleteBusy {
				return m, nil
			}
			m.deleteBusy = true
			client, id := m.client, m.toDelete.ID
			return m, func() tea.Msg {
				return collectionDeletedMsg{err: client.DeleteCollection(context.Background(), id)}
			}
		case "n", "esc":
			m.toDelete = nil
		}
		return m, nil
	}

	switch msg.String() {
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
			id := m.collections[m.cursor].ID
			return m, func() tea.Msg { return openCollectionMsg{id: id} }
		}

	case "c":
		m.creating = true
		m.nameInput.Focus()
		return m, textinput.Blink

	case "d":
		if m.cursor < len(m.collections) {
			c := m.collections[m.cursor]
			m.toDelete = &c
		}

	case "r":
		return m.load()
	}

	return m, nil
}

func (m collectionsModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("My collections"))
	s.WriteString("\n")

	vs := m.tracker.Get(state.PageCollections)

	if m.creating {
		s.WriteString("New collection\n\n")
		s.WriteString(m.nameInput.View())
		s.WriteString("\n\n")
		if m.createBusy {
			s.WriteString(statusStyle.Render("Creating...") + "\n")
		}
		s.WriteString(helpStyle.Render("enter: create • esc: cancel"))
		return s.String()
	}

	if m.toDelete != nil {
		s.WriteString(fmt.Sprintf("Delete collection %q?\n", m.toDelete.Name))
		s.WriteString(dimStyle.Render("Articles saved in it will no longer appear in this collection."))
		s.WriteString("\n\n")
		if m.deleteBusy {
			s.WriteString(statusStyle.Render("Deleting...") + "\n")
		}
		s.WriteString(helpStyle.Render("y: delete • n: cancel"))
		return s.String()
	}

	switch vs.Status {
	case state.StatusPending:
		s.WriteString(m.spinner.View() + " Loading...\n")
	case state.StatusFailed:
		s.WriteString(errorStyle.Render(vs.Error))
		s.WriteString("\n")
	}

	if vs.Status == state.StatusSucceeded && len(m.collections) == 0 {
		s.WriteString("No collections yet.\n")
		s.WriteString(dimStyle.Render("Create your first collection to organize the news you want to keep."))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("c: create collection • 1: search • q: quit"))
		return s.String()
	}

	for i, c := range m.collections {
		cursor := "  "
		if i == m.cursor {
			cursor = selectedStyle.Render("> ")
		}
		label := fmt.Sprintf("%d articles saved", len(c.Articles))
		if len(c.Articles) == 1 {
			label = "1 article saved"
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n", cursor, articleTitleStyle.Render(c.Name), dimStyle.Render(label)))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: open • c: create • d: delete • r: refresh • q: quit"))

	return s.String()
}

func errText(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
