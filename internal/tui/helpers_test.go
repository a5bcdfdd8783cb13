package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/config"
	"github.com/rbarbosa/newsdeck/internal/database"
	"github.com/rbarbosa/newsdeck/internal/events"
	"github.com/rbarbosa/newsdeck/internal/session"
	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

// collect runs a command tree and returns the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

type updatable[T any] interface {
	Update(tea.Msg) (T, tea.Cmd)
}

// drain feeds a command's messages back into the model until it goes
// quiet, skipping presentational messages that would loop forever.
func drain[T updatable[T]](m T, cmd tea.Cmd) T {
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		switch msg.(type) {
		case spinner.TickMsg, toastMsg, clearToastMsg:
			continue
		}

		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return m
}

// fakeBackend is an in-memory rendition of the collections and news
// endpoints.
type fakeBackend struct {
	mu          sync.Mutex
	collections []*models.Collection
	nextID      int

	searchCalls    []string
	allCalls       int
	favoritesCalls int

	newsTotal  int
	userTopics []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 1}
}

func (f *fakeBackend) find(id string) *models.Collection {
	for _, c := range f.collections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case parts[0] == "auth" && len(parts) == 2 && parts[1] == "login":
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user": models.User{
				ID:             "u1",
				Email:          "reader@example.com",
				FavoriteTopics: f.userTopics,
				EmailFrequency: models.FrequencyWeekly,
			},
		})

	case parts[0] == "news":
		f.serveNews(w, r, parts[1])

	case parts[0] == "collections" && len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			list := make([]models.Collection, 0, len(f.collections))
			for _, c := range f.collections {
				list = append(list, *c)
			}
			json.NewEncoder(w).Encode(map[string]any{"collections": list})
		case http.MethodPost:
			var body struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			c := &models.Collection{ID: fmt.Sprintf("c%d", f.nextID), Name: body.Name, Articles: []models.Article{}}
			f.nextID++
			f.collections = append(f.collections, c)
			json.NewEncoder(w).Encode(map[string]any{"collection": c})
		}

	case parts[0] == "collections" && len(parts) == 2:
		c := f.find(parts[1])
		if c == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"message": "collection not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"collection": c})
		case http.MethodPut:
			var body struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			c.Name = body.Name
			json.NewEncoder(w).Encode(map[string]any{"collection": c})
		case http.MethodDelete:
			for i, cc := range f.collections {
				if cc.ID == c.ID {
					f.collections = append(f.collections[:i], f.collections[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		}

	case parts[0] == "collections" && len(parts) == 3 && parts[2] == "articles":
		c := f.find(parts[1])
		if c == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var a models.Article
		json.NewDecoder(r.Body).Decode(&a)
		a.ID = fmt.Sprintf("a%d", f.nextID)
		f.nextID++
		c.Articles = append(c.Articles, a)
		w.WriteHeader(http.StatusCreated)

	case parts[0] == "collections" && len(parts) == 4 && parts[2] == "articles":
		c := f.find(parts[1])
		if c == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		for i, a := range c.Articles {
			if a.ID == parts[3] {
				c.Articles = append(c.Articles[:i], c.Articles[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBackend) serveNews(w http.ResponseWriter, r *http.Request, kind string) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == 0 {
		page = 1
	}

	switch kind {
	case "search":
		f.searchCalls = append(f.searchCalls, r.URL.Query().Get("topic"))
	case "all":
		f.allCalls++
	case "favorites":
		f.favoritesCalls++
	}

	resp := map[string]any{
		"articles":     []models.Article{{Title: "X", URL: "http://x", PublishedAt: time.Now()}},
		"totalResults": f.newsTotal,
		"page":         page,
	}
	if kind == "favorites" {
		resp["fromFavorites"] = true
	}
	json.NewEncoder(w).Encode(resp)
}

type tuiEnv struct {
	backend *fakeBackend
	client  *api.Client
	store   *session.Store
	tracker *state.Tracker
	db      *database.DB
	bus     *events.Bus
	cfg     *config.Config
}

func newTUIEnv(t *testing.T) tuiEnv {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewBus()
	store := session.NewStore(db, bus)
	client := api.NewClient(srv.URL, 5*time.Second, store.Token, store.Expire)
	store.Bind(client)

	return tuiEnv{
		backend: backend,
		client:  client,
		store:   store,
		tracker: state.NewTracker(),
		db:      db,
		bus:     bus,
		cfg:     config.Default(),
	}
}

func (e tuiEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, e.store.Login(context.Background(), "reader@example.com", "secret"))
}

func typeRunes(m searchModel, s string) (searchModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, r := range s {
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m, cmd
}
