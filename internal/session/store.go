// Package session owns the authenticated identity and token. It is the
// only writer of the persisted session; the HTTP gateway gets a
// read-only token accessor and a one-way invalidate callback.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rbarbosa/newsdeck/internal/api"
	"github.com/rbarbosa/newsdeck/internal/database"
	"github.com/rbarbosa/newsdeck/internal/events"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

type State string

const (
	StateUnknown       State = "unknown"
	StateResolving     State = "resolving"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// AuthAPI is the slice of the backend client the store needs.
// *api.Client satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*models.User, error)
}

type Store struct {
	mu    sync.Mutex
	state State
	token string
	user  *models.User

	db  *database.DB
	bus *events.Bus
	api AuthAPI
}

func NewStore(db *database.DB, bus *events.Bus) *Store {
	return &Store{state: StateUnknown, db: db, bus: bus}
}

// Bind attaches the backend client. Done after construction because the
// gateway itself is built from this store's Token and Expire.
func (s *Store) Bind(a AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = a
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the cached session user, nil when not authenticated.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

// Resolve runs the startup lifecycle: a persisted token moves the store
// to resolving and the profile is fetched; any failure discards the
// persisted pair. No persisted token means anonymous right away.
func (s *Store) Resolve(ctx context.Context) error {
	token, user, err := s.db.LoadSession()
	if err != nil {
		if !errors.Is(err, database.ErrNoSession) {
			// Corrupt persisted state is treated like no state.
			_ = s.db.ClearSession()
		}
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.state = StateResolving
	s.token = token
	s.user = user
	s.mu.Unlock()

	fresh, err := s.api.Profile(ctx)
	if err != nil || fresh == nil {
		// A 401 already went through Expire via the gateway; every
		// other failure clears the pair here the same way.
		s.clearToAnonymous(false)
		return nil
	}

	s.mu.Lock()
	s.user = fresh
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.db.SaveSession(token, fresh); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Login authenticates and, on a response carrying both token and user,
// persists the pair and moves to authenticated.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return authError(err, "Login failed.")
	}
	if resp.Token == "" || resp.User == nil {
		return &AuthError{Message: messageOr(resp.Message, "Login failed.")}
	}
	return s.adopt(resp.Token, resp.User)
}

// Register creates an account with the same contract as Login.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return authError(err, "Registration failed.")
	}
	if resp.Token == "" || resp.User == nil {
		return &AuthError{Message: messageOr(resp.Message, "Registration failed.")}
	}
	return s.adopt(resp.Token, resp.User)
}

// UpdateProfile replaces the cached user when the server confirms.
func (s *Store) UpdateProfile(ctx context.Context, update api.ProfileUpdate) error {
	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return &ProfileError{Message: messageOr(api.ServerMessage(err), "Profile update failed.")}
	}
	if user == nil {
		return &ProfileError{Message: "Profile update failed."}
	}

	s.mu.Lock()
	token := s.token
	s.user = user
	s.mu.Unlock()

	if token == "" {
		return nil
	}
	if err := s.db.SaveSession(token, user); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Logout clears the persisted pair and broadcasts session-expired.
func (s *Store) Logout() {
	s.clearToAnonymous(true)
}

// Expire is the gateway's 401 hook. It behaves exactly like Logout but
// is a no-op when the store is already anonymous, so racing 401s from
// parallel requests broadcast only once.
func (s *Store) Expire() {
	s.mu.Lock()
	alreadyAnonymous := s.state == StateAnonymous && s.token == ""
	s.mu.Unlock()
	if alreadyAnonymous {
		return
	}
	s.clearToAnonymous(true)
}

func (s *Store) adopt(token string, user *models.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.db.SaveSession(token, user); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

func (s *Store) clearToAnonymous(broadcast bool) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	_ = s.db.ClearSession()

	if broadcast {
		s.bus.Emit(events.SessionExpired)
	}
}
