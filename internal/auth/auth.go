// Package auth implements password login over the user directory. Passwords
// are stored as bcrypt hashes; a successful login opens a session whose
// token the client presents as a bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/realdesk/internal/session"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// DefaultTTL is how long a session lasts unless configured otherwise.
const DefaultTTL = 8 * time.Hour

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned for a missing, unknown or expired token.
	ErrUnauthenticated = errors.New("not authenticated")
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// CheckPassword returns nil when password matches hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Service logs users in and out.
type Service struct {
	users    types.UserDirectory
	sessions session.Store
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewService returns a Service. A ttl of zero means DefaultTTL.
func NewService(users types.UserDirectory, sessions session.Store, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, sessions: sessions, ttl: ttl, log: log, now: time.Now}
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, types.User, error) {
	user, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, types.ErrNotFound) {
		s.log.Info("login rejected", zap.String("username", username))
		return session.Session{}, types.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return session.Session{}, types.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		s.log.Info("login rejected", zap.String("username", username))
		return session.Session{}, types.User{}, err
	}

	sess := session.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return session.Session{}, types.User{}, fmt.Errorf("opening session: %w", err)
	}
	s.log.Info("login", zap.Int64("user_id", user.ID))
	return sess, user, nil
}

// Authenticate resolves a token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (types.User, error) {
	if token == "" {
		return types.User{}, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return types.User{}, ErrUnauthenticated
	}
	if err != nil {
		return types.User{}, fmt.Errorf("reading session: %w", err)
	}

	user, err := s.users.Get(ctx, sess.UserID)
	if errors.Is(err, types.ErrNotFound) {
		return types.User{}, ErrUnauthenticated
	}
	if err != nil {
		return types.User{}, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// Logout ends the session for token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
