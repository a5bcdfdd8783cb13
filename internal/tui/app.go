package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/config"
	"github.com/rbarbosa/newsdeck/internal/database"
	"github.com/rbarbosa/newsdeck/internal/events"
	"github.com/rbarbosa/newsdeck/internal/render"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/internal/state"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewSearch
	viewCollections
	viewCollectionDetail
	viewProfile
	viewReader
)

// App is the root model. It owns view routing, the transient toast
// line, and the reaction to session expiry; each page keeps its own
// state in a sub-model.
type App struct {
	store   *session.Store
	tracker *state.Tracker
	expiry  chan struct{}

	view       view
	returnTo   view
	readerFrom view
	resolved   bool
	width      int
	height     int

	toast    string
	toastErr bool
	toastSeq int

	login       loginModel
	register    registerModel
	search      searchModel
	collections collectionsModel
	detail      detailModel
	profile     profileModel
	reader      readerModel
	picker      pickerModel
	pickerOpen  bool
}

func New(cfg *config.Config, store *session.Store, client *api.Client, tracker *state.Tracker, db *database.DB, bus *events.Bus) App {
	// Buffered so Emit never blocks; racing expiries coalesce into one
	// message, which is all the UI needs.
	expiry := make(chan struct{}, 1)
	bus.Subscribe(events.SessionExpired, func() {
		select {
		case expiry <- struct{}{}:
		default:
		}
	})

	return App{
		store:       store,
		tracker:     tracker,
		expiry:      expiry,
		view:        viewLogin,
		returnTo:    viewSearch,
		login:       newLoginModel(store),
		register:    newRegisterModel(store),
		search:      newSearchModel(cfg, client, store, tracker, db),
		collections: newCollectionsModel(client, tracker),
		detail:      newDetailModel(client, tracker),
		profile:     newProfileModel(store),
		reader:      newReaderModel(render.NewArticleRenderer()),
		picker:      newPickerModel(client),
	}
}

func (m App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		resolveSession(m.store),
		waitForExpiry(m.expiry),
	)
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionResolvedMsg:
		m.resolved = true
		if m.store.IsAuthenticated() {
			return m.switchTo(viewSearch)
		}
		m.view = viewLogin
		m.login = m.login.reset()
		return m, m.login.focusCmd()

	case sessionExpiredMsg:
		cmd := m.onSessionExpired()
		return m, tea.Batch(cmd, waitForExpiry(m.expiry))

	case loggedInMsg:
		target := m.returnTo
		m.returnTo = viewSearch
		return m.switchTo(target)

	case switchToRegisterMsg:
		return m.switchTo(viewRegister)

	case switchToLoginMsg:
		return m.switchTo(viewLogin)

	case openCollectionMsg:
		m.leave(m.view)
		m.view = viewCollectionDetail
		var cmd tea.Cmd
		m.detail, cmd = m.detail.open(msg.id)
		return m, cmd

	case backToCollectionsMsg:
		return m.switchTo(viewCollections)

	case openReaderMsg:
		m.readerFrom = m.view
		m.view = viewReader
		m.reader = m.reader.open(msg.article, m.width)
		return m, nil

	case closeReaderMsg:
		m.view = m.readerFrom
		return m, nil

	case openPickerMsg:
		m.pickerOpen = true
		var cmd tea.Cmd
		m.picker, cmd = m.picker.open(msg.article)
		return m, cmd

	case closePickerMsg:
		m.pickerOpen = false
		return m, nil

	case toastMsg:
		m.toast = msg.text
		m.toastErr = msg.isErr
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return clearToastMsg{seq: seq}
		})

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil
	}

	return m.broadcast(msg)
}

// broadcast forwards a message to every sub-model; each one ignores
// message types it does not own.
func (m App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.login, cmd = m.login.Update(msg)
	cmds = append(cmds, cmd)
	m.register, cmd = m.register.Update(msg)
	cmds = append(cmds, cmd)
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	m.collections, cmd = m.collections.Update(msg)
	cmds = append(cmds, cmd)
	m.detail, cmd = m.detail.Update(msg)
	cmds = append(cmds, cmd)
	m.profile, cmd = m.profile.Update(msg)
	cmds = append(cmds, cmd)
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.pickerOpen {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	// Global navigation, inactive while a text field has focus.
	if m.store.IsAuthenticated() && !m.typing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1":
			return m.switchTo(viewSearch)
		case "2":
			return m.switchTo(viewCollections)
		case "3":
			return m.switchTo(viewProfile)
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case viewLogin:
		m.login, cmd = m.login.Update(msg)
	case viewRegister:
		m.register, cmd = m.register.Update(msg)
	case viewSearch:
		m.search, cmd = m.search.Update(msg)
	case viewCollections:
		m.collections, cmd = m.collections.Update(msg)
	case viewCollectionDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	case viewReader:
		m.reader, cmd = m.reader.Update(msg)
	}
	return m, cmd
}

func (m App) typing() bool {
	switch m.view {
	case viewLogin:
		return true
	case viewRegister:
		return true
	case viewSearch:
		return m.search.typing()
	case viewCollections:
		return m.collections.typing()
	case viewCollectionDetail:
		return m.detail.typing()
	}
	return false
}

// switchTo leaves the current view, resets its page state, and enters
// the target with a fresh load.
func (m App) switchTo(target view) (tea.Model, tea.Cmd) {
	m.leave(m.view)
	m.view = target

	var cmd tea.Cmd
	switch target {
	case viewSearch:
		m.search, cmd = m.search.activate()
	case viewCollections:
		m.collections, cmd = m.collections.activate()
	case viewProfile:
		m.profile = m.profile.activate()
	case viewLogin:
		m.login = m.login.reset()
		cmd = m.login.focusCmd()
	case viewRegister:
		m.register = m.register.reset()
		cmd = m.register.focusCmd()
	}
	return m, cmd
}

// leave resets the page view state of data-driven views so re-entry
// does not show stale success content while a fresh load runs.
func (m *App) leave(v view) {
	switch v {
	case viewSearch:
		m.tracker.ResetPage(state.PageSearch)
	case viewCollections:
		m.tracker.ResetPage(state.PageCollections)
	case viewCollectionDetail:
		m.tracker.ResetPage(state.PageCollectionDetail)
	}
}

// onSessionExpired forces navigation to the login view, recording the
// interrupted view as the return target. Auth views stay put.
func (m *App) onSessionExpired() tea.Cmd {
	m.pickerOpen = false
	if m.view == viewLogin || m.view == viewRegister {
		return nil
	}
	m.returnTo = m.view
	if m.view == viewReader {
		m.returnTo = m.readerFrom
	}
	m.leave(m.view)
	m.view = viewLogin
	m.login = m.login.reset()
	return tea.Batch(
		m.login.focusCmd(),
		toastError("Session ended. Sign in to continue."),
	)
}

func (m App) View() string {
	var body string

	if !m.resolved {
		body = dimStyle.Render("Starting...")
	} else if m.pickerOpen {
		body = m.picker.View()
	} else {
		switch m.view {
		case viewLogin:
			body = m.login.View()
		case viewRegister:
			body = m.register.View()
		case viewSearch:
			body = m.search.View()
		case viewCollections:
			body = m.collections.View()
		case viewCollectionDetail:
			body = m.detail.View()
		case viewProfile:
			body = m.profile.View()
		case viewReader:
			body = m.reader.View()
		}
	}

	var s strings.Builder
	s.WriteString(body)
	if m.toast != "" {
		s.WriteString("\n")
		if m.toastErr {
			s.WriteString(errorStyle.Render(m.toast))
		} else {
			s.WriteString(statusStyle.Render(m.toast))
		}
	}
	return s.String()
}

func resolveSession(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		_ = store.Resolve(context.Background())
		return sessionResolvedMsg{}
	}
}

func waitForExpiry(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return sessionExpiredMsg{}
	}
}
