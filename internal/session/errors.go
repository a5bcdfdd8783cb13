package session

import "github.com/rbarbosa/newsdeck/internal/api"

// AuthError is a failed login or registration: bad credentials or a
// success response missing the token/user pair.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ProfileError is a failed preferences update.
type ProfileError struct {
	Message string
}

func (e *ProfileError) Error() string { return e.Message }

func authError(err error, fallback string) error {
	return &AuthError{Message: messageOr(api.ServerMessage(err), fallback)}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
