// Package session keeps login sessions outside the entity store. A session
// maps an opaque token to a user id until it expires.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Session is one authenticated login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether s is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions.
type Store interface {
	// Put saves s until s.ExpiresAt.
	Put(ctx context.Context, s Session) error

	// Get returns the session for token, or ErrNotFound.
	Get(ctx context.Context, token string) (Session, error)

	// Delete removes the session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	Close() error
}
