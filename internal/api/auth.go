package api

import (
	"context"
	"net/http"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

type RegisterRequest struct {
	Email          string                `json:"email"`
	Password       string                `json:"password"`
	FavoriteTopics []string              `json:"favoriteTopics,omitempty"`
	EmailFrequency models.EmailFrequency `json:"emailFrequency,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what /auth/login and /auth/register return. Token and
// User may each be absent; the session store decides whether the pair
// is usable.
type AuthResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// ProfileUpdate carries a partial preferences update. Nil fields are
// omitted so the server keeps their current values.
type ProfileUpdate struct {
	FavoriteTopics *[]string              `json:"favoriteTopics,omitempty"`
	EmailFrequency *models.EmailFrequency `json:"emailFrequency,omitempty"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the session user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile updates preferences and returns the new user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
