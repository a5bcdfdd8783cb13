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

type collectionLoadedMsg struct {
	seq        int
	collection *models.Collection
	err        error
}

type collectionRenamedMsg struct{ err error }
type detailDeletedMsg struct{ err error }

type articleRemovedMsg struct {
	articleID string
	err       error
}

type detailModel struct {
	client  *api.Client
	tracker *state.Tracker

	id         string
	collection *models.Collection
	cursor     int
	loadSeq    int

	spinner spinner.Model

	renaming   bool
	nameInput  textinput.Model
	renameBusy bool

	confirmDelete bool
	deleteBusy    bool

	toRemove   *models.Article
	removingID string
}

func newDetailModel(client *api.Client, tracker *state.Tracker) detailModel {
	input := textinput.New()
	input.CharLimit = 80
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return detailModel{
		client:    client,
		tracker:   tracker,
		nameInput: input,
		spinner:   sp,
	}
}

func (m detailModel) typing() bool {
	return m.renaming
}

func (m detailModel) open(id string) (detailModel, tea.Cmd) {
	m.id = id
	m.collection = nil
	m.cursor = 0
	m.renaming = false
	m.confirmDelete = false
	m.toRemove = nil
	m.removingID = ""
	return m.load()
}

func (m detailModel) load() (detailModel, tea.Cmd) {
	m.loadSeq++
	seq := m.loadSeq
	m.tracker.SetStatus(state.PageCollectionDetail, state.StatusPending, "")
	client, id := m.client, m.id
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		c, err := client.GetCollection(context.Background(), id)
		return collectionLoadedMsg{seq: seq, collection: c, err: err}
	})
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.tracker.Get(state.PageCollectionDetail).Status != state.StatusPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case collectionLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, nil
			}
			m.collection = nil
			m.tracker.SetStatus(state.PageCollectionDetail, state.StatusFailed, api.ServerMessage(msg.err))
			return m, nil
		}
		m.collection = msg.collection
		if m.collection != nil {
			m.nameInput.SetValue(m.collection.Name)
			if m.cursor >= len(m.collection.Articles) {
				m.cursor = 0
			}
		}
		m.tracker.SetStatus(state.PageCollectionDetail, state.StatusSucceeded, "")
		return m, nil

	case collectionRenamedMsg:
		m.renameBusy = false
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to rename collection."))
		}
		m.renaming = false
		var cmd tea.Cmd
		m, cmd = m.load()
		return m, tea.Batch(toast("Name updated."), cmd)

	case detailDeletedMsg:
		m.deleteBusy = false
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to delete collection."))
		}
		m.confirmDelete = false
		return m, tea.Batch(toast("Collection deleted."), func() tea.Msg {
			return backToCollectionsMsg{}
		})

	case articleRemovedMsg:
		if m.removingID == msg.articleID {
			m.removingID = ""
		}
		if msg.err != nil {
			return m, toastError(errText(msg.err, "Failed to remove article."))
		}
		// Reload the whole collection: the server stays the authority
		// on ordering and content.
		var cmd tea.Cmd
		m, cmd = m.load()
		return m, tea.Batch(toast("Article removed from collection."), cmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.renaming {
		switch msg.String() {
		case "esc":
			m.renaming = false
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" || m.renameBusy {
				return m, nil
			}
			m.renameBusy = true
			client, id := m.client, m.id
			return m, func() tea.Msg {
				_, err := client.RenameCollection(context.Background(), id, name)
				return collectionRenamedMsg{err: err}
			}
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.confirmDelete {
		switch msg.String() {
		case "y", "enter":
			if m.deleteBusy {
				return m, nil
			}
			m.deleteBusy = true
			client, id := m.client, m.id
			return m, func() tea.Msg {
				return detailDeletedMsg{err: client.DeleteCollection(context.Background(), id)}
			}
		case "n", "esc":
			m.confirmDelete = false
		}
		return m, nil
	}

	if m.toRemove != nil {
		switch msg.String() {
		case "y", "enter":
			articleID := m.toRemove.ID
			m.toRemove = nil
			// Disable this article's remove control while in flight.
			m.removingID = articleID
			client, id := m.client, m.id
			return m, func() tea.Msg {
				return articleRemovedMsg{
					articleID: articleID,
					err:       client.RemoveArticle(context.Background(), id, articleID),
				}
			}
		case "n", "esc":
			m.toRemove = nil
		}
		return m, nil
	}

	articles := m.articles()

	switch msg.String() {
	case "esc", "backspace":
		return m, func() tea.Msg { return backToCollectionsMsg{} }

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(articles)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(articles) {
			a := articles[m.cursor]
			return m, func() tea.Msg { return openReaderMsg{article: a} }
		}

	case "e":
		if m.collection != nil {
			m.renaming = true
			m.nameInput.SetValue(m.collection.Name)
			m.nameInput.Focus()
			return m, textinput.Blink
		}

	case "d":
		if m.collection != nil {
			m.confirmDelete = true
		}

	case "x":
		if m.cursor < len(articles) && m.removingID == "" {
			a := articles[m.cursor]
			m.toRemove = &a
		}

	case "r":
		return m.load()
	}

	return m, nil
}

func (m detailModel) articles() []models.Article {
	if m.collection == nil {
		return nil
	}
	return m.collection.Articles
}

func (m detailModel) View() string {
	var s strings.Builder

	vs := m.tracker.Get(state.PageCollectionDetail)

	if m.renaming {
		s.WriteString(titleStyle.Render("Rename collection"))
		s.WriteString("\n")
		s.WriteString(m.nameInput.View())
		s.WriteString("\n\n")
		if m.renameBusy {
			s.WriteString(statusStyle.Render("Saving...") + "\n")
		}
		s.WriteString(helpStyle.Render("enter: save • esc: cancel"))
		return s.String()
	}

	if m.confirmDelete && m.collection != nil {
		s.WriteString(fmt.Sprintf("Delete collection %q?\n\n", m.collection.Name))
		if m.deleteBusy {
			s.WriteString(statusStyle.Render("Deleting...") + "\n")
		}
		s.WriteString(helpStyle.Render("y: delete • n: cancel"))
		return s.String()
	}

	if m.toRemove != nil {
		s.WriteString(fmt.Sprintf("Remove %q from this collection?\n\n", m.toRemove.Title))
		s.WriteString(helpStyle.Render("y: remove • n: cancel"))
		return s.String()
	}

	if vs.Status == state.StatusPending {
		s.WriteString(m.spinner.View() + " Loading...\n")
		return s.String()
	}

	if vs.Status == state.StatusFailed {
		s.WriteString(errorStyle.Render(vs.Error))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("esc: back to collections"))
		return s.String()
	}

	if m.collection == nil {
		s.WriteString(dimStyle.Render("Collection not found."))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("esc: back to collections"))
		return s.String()
	}

	s.WriteString(titleStyle.Render(m.collection.Name))
	s.WriteString("\n")

	articles := m.articles()
	if len(articles) == 0 {
		s.WriteString("No articles in this collection.\n")
		s.WriteString(dimStyle.Render("Articles you save here will show up in this list. Use search to find news to add."))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("e: rename • d: delete collection • esc: back"))
		return s.String()
	}

	for i, a := range articles {
		row := renderArticleRow(a, i == m.cursor)
		if m.removingID != "" && a.ID == m.removingID {
			row = dimStyle.Render("  removing...") + "\n"
		}
		s.WriteString(row)
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: read • x: remove article • e: rename • d: delete collection • r: refresh • esc: back"))

	return s.String()
}
