package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/auth"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

type ctxKey int

const userKey ctxKey = iota

// UserFrom returns the authenticated user stored by RequireSession.
func UserFrom(ctx context.Context) (types.User, bool) {
	u, ok := ctx.Value(userKey).(types.User)
	return u, ok
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      types.User `json:"user"`
}

type authHandler struct {
	svc *auth.Service
	log *zap.Logger
}

func (h authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	sess, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeFailure(w, r, h.log, "Error logging in", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: user})
}

func (h authHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			writeFailure(w, r, h.log, "Error logging out", err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h authHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		var err error
		user, err = h.svc.Authenticate(r.Context(), bearerToken(r))
		if errors.Is(err, auth.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err != nil {
			writeFailure(w, r, h.log, "Error reading session", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, user)
}

// RequireSession rejects requests without a valid bearer token and stores
// the user in the request context.
func RequireSession(svc *auth.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := svc.Authenticate(r.Context(), bearerToken(r))
			if errors.Is(err, auth.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if err != nil {
				writeFailure(w, r, log, "Error reading session", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}
