package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

var ErrNoSession = errors.New("no persisted session")

// SaveSession stores the token together with the serialized user. Both
// values are written in one transaction so a crash can never leave a
// token without a user or vice versa.
func (db *DB) SaveSession(token string, user *models.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("refusing to persist partial session")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("clearing old session: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO session (id, token, user_json, saved_at) VALUES (1, ?, ?, ?)",
		token, string(userJSON), time.Now(),
	); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return tx.Commit()
}

// LoadSession returns the persisted token and user, or ErrNoSession.
func (db *DB) LoadSession() (string, *models.User, error) {
	var token, userJSON string
	err := db.QueryRow("SELECT token, user_json FROM session WHERE id = 1").Scan(&token, &userJSON)
	if err == sql.ErrNoRows {
		return "", nil, ErrNoSession
	}
	if err != nil {
		return "", nil, fmt.Errorf("querying session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return "", nil, fmt.Errorf("unmarshaling user: %w", err)
	}

	return token, &user, nil
}

// ClearSession removes the persisted token and user together.
func (db *DB) ClearSession() error {
	if _, err := db.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// CacheFeedPage stores the last good payload for a feed endpoint so the
// UI can paint it immediately on the next start.
func (db *DB) CacheFeedPage(key string, page *models.FeedPage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshaling feed page: %w", err)
	}

	if _, err := db.Exec(
		"INSERT OR REPLACE INTO feed_cache (cache_key, payload_json, fetched_at) VALUES (?, ?, ?)",
		key, string(payload), time.Now(),
	); err != nil {
		return fmt.Errorf("caching feed page: %w", err)
	}
	return nil
}

// CachedFeedPage returns the cached payload for key if it is younger
// than maxAge. A miss returns (nil, nil).
func (db *DB) CachedFeedPage(key string, maxAge time.Duration) (*models.FeedPage, error) {
	var payload string
	var fetchedAt time.Time
	err := db.QueryRow(
		"SELECT payload_json, fetched_at FROM feed_cache WHERE cache_key = ?", key,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying feed cache: %w", err)
	}

	if time.Since(fetchedAt) > maxAge {
		return nil, nil
	}

	var page models.FeedPage
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return nil, fmt.Errorf("unmarshaling feed page: %w", err)
	}
	return &page, nil
}
