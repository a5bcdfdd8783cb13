package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/config"
	"github.com/rbarbosa/newsdeck/internal/database"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type searchTab int

const (
	tabAll searchTab = iota
	tabFavorites
)

const (
	minQueryLen = 3

	// Quiet periods for search-as-you-type. Typing restarts the timer;
	// only the final pending one fires.
	debounceTyping   = 800 * time.Millisecond
	debounceCleared  = 600 * time.Millisecond
	debounceTabEntry = 400 * time.Millisecond

	cacheKeyAllNews = "news/all"
)

type debounceAction int

const (
	debounceLoadAll debounceAction = iota
	debounceSearch
)

type searchDebounceMsg struct {
	seq    int
	action debounceAction
}

// feedResultMsg completes a feed or search load. seq ties it to the
// load that started it; completions of superseded loads are dropped.
type feedResultMsg struct {
	seq      int
	page     *models.FeedPage
	label    string
	isSearch bool
	err      error
}

type topicsSavedMsg struct {
	topics []string
	err    error
}

type searchModel struct {
	client  *api.Client
	store   *session.Store
	tracker *state.Tracker
	db      *database.DB

	feedPageSize   int
	searchPageSize int

	input   textinput.Model
	spinner spinner.Model

	tab            searchTab
	articles       []models.Article
	totalResults   int
	page           int
	feedLabel      string
	isSearchResult bool
	cursor         int

	loadSeq     int
	debounceSeq int
	lastRaw     string
	cachePaint  bool

	topicPickerOpen bool
	topicCursor     int
	topicSelected   map[string]bool
	savingTopics    bool

	width int
}

func newSearchModel(cfg *config.Config, client *api.Client, store *session.Store, tracker *state.Tracker, db *database.DB) searchModel {
	input := textinput.New()
	input.Placeholder = "e.g. crypto, AI, tech..."
	input.CharLimit = 120
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return searchModel{
		client:         client,
		store:          store,
		tracker:        tracker,
		db:             db,
		feedPageSize:   cfg.UI.PageSize,
		searchPageSize: cfg.UI.SearchPageSize,
		input:          input,
		spinner:        sp,
		page:           1,
	}
}

func (m searchModel) typing() bool {
	return m.input.Focused() || m.topicPickerOpen
}

func (m searchModel) query() string {
	return strings.TrimSpace(m.input.Value())
}

func (m searchModel) hasFavorites() bool {
	u := m.store.User()
	if u == nil {
		return false
	}
	return models.HasFavoriteTopics(u.FavoriteTopics)
}

// activate runs when the view is entered. A long-enough query already
// in the box gets the short tab-entry quiet period; otherwise the tab's
// feed loads immediately.
func (m searchModel) activate() (searchModel, tea.Cmd) {
	if m.tab == tabFavorites {
		return m.enterFavorites()
	}
	if len(m.query()) >= minQueryLen {
		return m, m.schedule(debounceTabEntry, debounceSearch)
	}

	sm, cmd := m.startAllNews(1)
	if !sm.cachePaint {
		sm.cachePaint = true
		if cached, err := sm.db.CachedFeedPage(cacheKeyAllNews, 24*time.Hour); err == nil && cached != nil {
			sm.articles = cached.Articles
			sm.totalResults = cached.TotalResults
			sm.page = cached.Page
			sm.feedLabel = "All news (cached)"
		}
	}
	return sm, cmd
}

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.tracker.Get(state.PageSearch).Status != state.StatusPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDebounceMsg:
		if msg.seq != m.debounceSeq || m.tab != tabAll {
			return m, nil
		}
		switch msg.action {
		case debounceSearch:
			if len(m.query()) >= minQueryLen {
				return m.startSearch(1)
			}
		case debounceLoadAll:
			return m.startAllNews(1)
		}
		return m, nil

	case feedResultMsg:
		return m.onFeedResult(msg)

	case topicsSavedMsg:
		m.savingTopics = false
		if msg.err != nil {
			return m, toastError(msg.err.Error())
		}
		m.topicPickerOpen = false
		var cmd tea.Cmd
		if m.tab == tabFavorites && len(msg.topics) > 0 {
			m, cmd = m.startFavorites(1)
		}
		return m, tea.Batch(toast("Topics updated."), cmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m searchModel) onFeedResult(msg feedResultMsg) (searchModel, tea.Cmd) {
	if msg.seq != m.loadSeq {
		// A newer load owns the page state now.
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			// Handled globally by the session layer.
			return m, nil
		}
		m.articles = nil
		m.feedLabel = ""
		m.tracker.SetStatus(state.PageSearch, state.StatusFailed, api.ServerMessage(msg.err))
		return m, nil
	}

	m.articles = msg.page.Articles
	m.totalResults = msg.page.TotalResults
	m.page = msg.page.Page
	m.feedLabel = msg.label
	m.isSearchResult = msg.isSearch
	m.cursor = 0
	m.tracker.SetStatus(state.PageSearch, state.StatusSucceeded, "")
	return m, nil
}

func (m searchModel) handleKey(msg tea.KeyMsg) (searchModel, tea.Cmd) {
	if m.topicPickerOpen {
		return m.handleTopicPickerKey(msg)
	}

	if m.input.Focused() {
		switch msg.String() {
		case "esc":
			m.input.Blur()
			return m, nil
		case "enter":
			m.input.Blur()
			if m.tab == tabAll && len(m.query()) >= minQueryLen {
				return m.startSearch(1)
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.onQueryChanged())
		}
		return m, cmd
	}

	loading := m.tracker.Get(state.PageSearch).Status == state.StatusPending

	switch msg.String() {
	case "/":
		if m.tab == tabAll {
			m.input.Focus()
			return m, textinput.Blink
		}

	case "tab":
		if loading {
			return m, nil
		}
		if m.tab == tabAll {
			m.tab = tabFavorites
			return m.enterFavorites()
		}
		m.tab = tabAll
		if len(m.query()) >= minQueryLen {
			return m, m.schedule(debounceTabEntry, debounceSearch)
		}
		return m.startAllNews(1)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.articles)-1 {
			m.cursor++
		}

	case "left", "h", "p":
		return m.gotoPage(m.page - 1)

	case "right", "l", "n":
		return m.gotoPage(m.page + 1)

	case "enter":
		if a, ok := m.selected(); ok {
			return m, func() tea.Msg { return openReaderMsg{article: a} }
		}

	case "s":
		if a, ok := m.selected(); ok {
			return m, func() tea.Msg { return openPickerMsg{article: a} }
		}

	case "t":
		m.openTopicPicker()
	}

	return m, nil
}

func (m searchModel) selected() (models.Article, bool) {
	if m.cursor >= 0 && m.cursor < len(m.articles) {
		return m.articles[m.cursor], true
	}
	return models.Article{}, false
}

// onQueryChanged restarts the debounce timer after every keystroke.
// Queries shorter than three characters are never searched; an emptied
// query reloads the unfiltered feed after its own quiet period.
func (m *searchModel) onQueryChanged() tea.Cmd {
	if m.tab != tabAll {
		return nil
	}

	q := m.query()
	switch {
	case q == "":
		return m.schedule(debounceCleared, debounceLoadAll)
	case len(q) < minQueryLen:
		// Cancel any pending timer without starting a new one.
		m.debounceSeq++
		return nil
	default:
		return m.schedule(debounceTyping, debounceSearch)
	}
}

func (m *searchModel) schedule(d time.Duration, action debounceAction) tea.Cmd {
	m.debounceSeq++
	seq := m.debounceSeq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, action: action}
	})
}

func (m searchModel) enterFavorites() (searchModel, tea.Cmd) {
	if m.hasFavorites() {
		return m.startFavorites(1)
	}
	// Empty state: no request is issued.
	m.articles = nil
	m.totalResults = 0
	m.feedLabel = ""
	m.isSearchResult = false
	m.tracker.SetStatus(state.PageSearch, state.StatusSucceeded, "")
	return m, nil
}

// clearForLoad drops the previous article list and count before the
// new request resolves, so stale content never mixes with a new label.
func (m *searchModel) clearForLoad(isSearch bool) int {
	m.loadSeq++
	m.articles = nil
	m.totalResults = 0
	m.feedLabel = ""
	m.isSearchResult = isSearch
	m.tracker.SetStatus(state.PageSearch, state.StatusPending, "")
	return m.loadSeq
}

func (m searchModel) startAllNews(page int) (searchModel, tea.Cmd) {
	seq := m.clearForLoad(false)
	client, db, size := m.client, m.db, m.feedPageSize
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		fp, err := client.AllNews(context.Background(), page, size)
		if err != nil {
			return feedResultMsg{seq: seq, err: err}
		}
		if page == 1 {
			_ = db.CacheFeedPage(cacheKeyAllNews, fp)
		}
		return feedResultMsg{seq: seq, page: fp, label: "All news"}
	})
}

func (m searchModel) startFavorites(page int) (searchModel, tea.Cmd) {
	seq := m.clearForLoad(false)
	client, size := m.client, m.feedPageSize
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		fp, err := client.FavoriteNews(context.Background(), page, size)
		if err != nil {
			return feedResultMsg{seq: seq, err: err}
		}
		label := "Top news"
		if fp.FromFavorites {
			label = "My topics"
		}
		return feedResultMsg{seq: seq, page: fp, label: label}
	})
}

func (m searchModel) startSearch(page int) (searchModel, tea.Cmd) {
	q := m.query()
	if q == "" {
		return m, nil
	}
	seq := m.clearForLoad(true)
	client, size := m.client, m.searchPageSize
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		fp, err := client.SearchNews(context.Background(), q, page, size)
		if err != nil {
			return feedResultMsg{seq: seq, err: err}
		}
		return feedResultMsg{seq: seq, page: fp, isSearch: true}
	})
}

func (m searchModel) effectivePageSize() int {
	if m.isSearchResult {
		return m.searchPageSize
	}
	return m.feedPageSize
}

// totalPages is ceil(totalResults / pageSize) with a floor of zero.
func totalPages(totalResults, pageSize int) int {
	if totalResults <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalResults + pageSize - 1) / pageSize
}

func (m searchModel) gotoPage(page int) (searchModel, tea.Cmd) {
	loading := m.tracker.Get(state.PageSearch).Status == state.StatusPending
	if loading || page < 1 || page > totalPages(m.totalResults, m.effectivePageSize()) {
		return m, nil
	}
	// Page change scrolls back to the top of the list.
	m.cursor = 0
	if m.isSearchResult {
		return m.startSearch(page)
	}
	if m.tab == tabAll {
		return m.startAllNews(page)
	}
	return m.startFavorites(page)
}

func (m *searchModel) openTopicPicker() {
	m.topicSelected = make(map[string]bool)
	if u := m.store.User(); u != nil {
		for _, t := range u.FavoriteTopics {
			m.topicSelected[t] = true
		}
	}
	m.topicCursor = 0
	m.topicPickerOpen = true
}

func (m searchModel) handleTopicPickerKey(msg tea.KeyMsg) (searchModel, tea.Cmd) {
	if m.savingTopics {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.topicPickerOpen = false

	case "up", "k":
		if m.topicCursor > 0 {
			m.topicCursor--
		}

	case "down", "j":
		if m.topicCursor < len(models.FavoriteTopics)-1 {
			m.topicCursor++
		}

	case " ":
		topic := models.FavoriteTopics[m.topicCursor]
		m.topicSelected[topic] = !m.topicSelected[topic]

	case "enter":
		m.savingTopics = true
		topics := make([]string, 0, len(m.topicSelected))
		for _, t := range models.FavoriteTopics {
			if m.topicSelected[t] {
				topics = append(topics, t)
			}
		}
		store := m.store
		return m, func() tea.Msg {
			err := store.UpdateProfile(context.Background(), api.ProfileUpdate{FavoriteTopics: &topics})
			return topicsSavedMsg{topics: topics, err: err}
		}
	}

	return m, nil
}

func (m searchModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Search news"))
	s.WriteString("\n")

	if m.topicPickerOpen {
		return s.String() + m.topicPickerView()
	}

	allTab := tabInactiveStyle.Render("All news")
	favTab := tabInactiveStyle.Render("My topics")
	if m.tab == tabAll {
		allTab = tabActiveStyle.Render("All news")
	} else {
		favTab = tabActiveStyle.Render("My topics")
	}
	s.WriteString(fmt.Sprintf("%s  %s\n\n", allTab, favTab))

	if m.tab == tabAll {
		s.WriteString(m.input.View())
		s.WriteString("\n\n")
	}

	vs := m.tracker.Get(state.PageSearch)

	if m.tab == tabFavorites && !m.hasFavorites() && vs.Status != state.StatusPending {
		s.WriteString("No favorite topics yet.\n")
		s.WriteString(dimStyle.Render("Pick the topics you want to follow to see a personalized feed here."))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("t: pick topics • tab: all news • q: quit"))
		return s.String()
	}

	switch vs.Status {
	case state.StatusPending:
		s.WriteString(m.spinner.View() + " Loading...\n")
	case state.StatusFailed:
		s.WriteString(errorStyle.Render(vs.Error))
		s.WriteString("\n")
	}

	if m.feedLabel != "" && len(m.articles) > 0 {
		s.WriteString(labelStyle.Render(m.feedLabel))
		s.WriteString("\n")
	}

	for i, a := range m.articles {
		s.WriteString(renderArticleRow(a, i == m.cursor))
	}

	if vs.Status == state.StatusSucceeded && len(m.articles) == 0 && m.feedLabel == "" && m.isSearchResult {
		s.WriteString(dimStyle.Render("No results.") + "\n")
	}

	if tp := totalPages(m.totalResults, m.effectivePageSize()); tp > 1 {
		s.WriteString(fmt.Sprintf("\n%s\n", dimStyle.Render(fmt.Sprintf("page %d / %d", m.page, tp))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("/: search • tab: switch feed • enter: read • s: save • h/l: page • t: topics • q: quit"))

	return s.String()
}

func (m searchModel) topicPickerView() string {
	var s strings.Builder
	s.WriteString("Favorite topics\n\n")
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
	s.WriteString("\n")
	if m.savingTopics {
		s.WriteString(statusStyle.Render("Saving...") + "\n")
	}
	s.WriteString(helpStyle.Render("space: toggle • enter: save • esc: cancel"))
	return s.String()
}

func renderArticleRow(a models.Article, selected bool) string {
	title := a.Title
	if selected {
		title = selectedStyle.Render("> " + title)
	} else {
		title = "  " + articleTitleStyle.Render(title)
	}

	meta := a.Source
	if !a.PublishedAt.IsZero() {
		if meta != "" {
			meta += " · "
		}
		meta += a.PublishedAt.Format("Jan 2, 2006")
	}

	out := title + "\n"
	if meta != "" {
		out += "  " + dimStyle.Render(meta) + "\n"
	}
	return out
}
