package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

func newTestSearch(t *testing.T, env tuiEnv) searchModel {
	t.Helper()
	return newSearchModel(env.cfg, env.client, env.store, env.tracker, env.db)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, totalPages(20, 9))
	assert.Equal(t, 1, totalPages(9, 9))
	assert.Equal(t, 2, totalPages(10, 9))
	assert.Equal(t, 0, totalPages(0, 12))
	assert.Equal(t, 0, totalPages(-5, 12))
}

func TestShortQueriesNeverSearch(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)
	m.input.Focus()

	// "a", "ai", "ai " are all under the three-character minimum once
	// trimmed. Each keystroke may bump the debounce counter but none of
	// the resulting timers may trigger a search.
	for _, s := range []string{"a", "i", " "} {
		m, _ = typeRunes(m, s)
		m = drain(m, func() tea.Msg {
			return searchDebounceMsg{seq: m.debounceSeq, action: debounceSearch}
		})
	}

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Empty(t, env.backend.searchCalls)
}

func TestDebouncedSearchFiresOnce(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)
	m.input.Focus()

	m, _ = typeRunes(m, "ai-")

	// Timers from earlier keystrokes carry stale sequence numbers and
	// must be ignored when they fire late.
	m = drain(m, func() tea.Msg {
		return searchDebounceMsg{seq: m.debounceSeq - 1, action: debounceSearch}
	})
	env.backend.mu.Lock()
	assert.Empty(t, env.backend.searchCalls)
	env.backend.mu.Unlock()

	// The final timer fires after the quiet period.
	m = drain(m, func() tea.Msg {
		return searchDebounceMsg{seq: m.debounceSeq, action: debounceSearch}
	})

	env.backend.mu.Lock()
	assert.Equal(t, []string{"ai-"}, env.backend.searchCalls)
	env.backend.mu.Unlock()

	assert.Equal(t, state.StatusSucceeded, env.tracker.Get(state.PageSearch).Status)
	assert.Len(t, m.articles, 1)
	assert.True(t, m.isSearchResult)
}

func TestClearedQueryReloadsFeed(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)
	m.input.Focus()

	m, _ = typeRunes(m, "tech")
	m.input.SetValue("")
	cmd := m.onQueryChanged()
	require.NotNil(t, cmd)

	m = drain(m, func() tea.Msg {
		return searchDebounceMsg{seq: m.debounceSeq, action: debounceLoadAll}
	})

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Equal(t, 1, env.backend.allCalls)
	assert.Equal(t, "All news", m.feedLabel)
}

func TestStaleFeedResultIsDropped(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)

	m.loadSeq = 2
	m.tracker.SetStatus(state.PageSearch, state.StatusPending, "")

	stale := feedResultMsg{
		seq:   1,
		page:  &models.FeedPage{Articles: []models.Article{{Title: "old"}}, TotalResults: 99, Page: 4},
		label: "stale",
	}
	m, _ = m.Update(stale)

	assert.Nil(t, m.articles)
	assert.Equal(t, state.StatusPending, env.tracker.Get(state.PageSearch).Status)
}

func TestLoadClearsPreviousResults(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)

	m.articles = []models.Article{{Title: "old"}}
	m.totalResults = 42
	m.feedLabel = "Old label"

	sm, _ := m.startAllNews(1)

	assert.Nil(t, sm.articles)
	assert.Zero(t, sm.totalResults)
	assert.Empty(t, sm.feedLabel)
	assert.Equal(t, state.StatusPending, env.tracker.Get(state.PageSearch).Status)
}

func TestFeedErrorFallsBackToGenericMessage(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)

	seq := m.clearForLoad(false)
	m, _ = m.Update(feedResultMsg{seq: seq, err: errors.New("connection refused")})

	vs := env.tracker.Get(state.PageSearch)
	assert.Equal(t, state.StatusFailed, vs.Status)
	assert.Equal(t, state.FallbackError, vs.Error)
}

func TestFavoritesTabWithoutTopicsIssuesNoRequest(t *testing.T) {
	env := newTUIEnv(t)
	env.backend.userTopics = []string{}
	env.login(t)

	m := newTestSearch(t, env)
	m.tab = tabFavorites
	sm, cmd := m.activate()
	require.Nil(t, cmd)

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Zero(t, env.backend.favoritesCalls)
	assert.Equal(t, state.StatusSucceeded, env.tracker.Get(state.PageSearch).Status)
	assert.Contains(t, sm.View(), "No favorite topics yet.")
}

func TestFavoritesTabLoadsWhenTopicsExist(t *testing.T) {
	env := newTUIEnv(t)
	env.backend.userTopics = []string{"technology"}
	env.backend.newsTotal = 1
	env.login(t)

	m := newTestSearch(t, env)
	m.tab = tabFavorites
	sm, cmd := m.activate()
	sm = drain(sm, cmd)

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Equal(t, 1, env.backend.favoritesCalls)
	assert.Equal(t, "My topics", sm.feedLabel)
}

func TestGotoPageGuards(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	m := newTestSearch(t, env)

	m.totalResults = 20
	m.page = 1
	env.tracker.SetStatus(state.PageSearch, state.StatusSucceeded, "")

	// Below the lower bound.
	sm, cmd := m.gotoPage(0)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, sm.page)

	// Past the last page: 20 results at 9 per page is 3 pages.
	sm, cmd = m.gotoPage(4)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, sm.page)

	// While a load is pending nothing moves.
	env.tracker.SetStatus(state.PageSearch, state.StatusPending, "")
	sm, cmd = m.gotoPage(2)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, sm.page)
}

func TestGotoPageLoadsNextPage(t *testing.T) {
	env := newTUIEnv(t)
	env.backend.newsTotal = 20
	env.login(t)
	m := newTestSearch(t, env)

	sm, cmd := m.startAllNews(1)
	sm = drain(sm, cmd)
	require.Equal(t, 1, sm.page)

	sm, cmd = sm.gotoPage(2)
	sm = drain(sm, cmd)

	assert.Equal(t, 2, sm.page)
	assert.Zero(t, sm.cursor)
	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Equal(t, 2, env.backend.allCalls)
}
