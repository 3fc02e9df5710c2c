// Package middleware resolves the session cookie into an explicit identity
// that handlers receive through the request context. Identity is never read
// from process-wide state.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/repository"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// SessionAuth validates session cookies against the sessions table.
type SessionAuth struct {
	repo *repository.Repository
	log  *logrus.Logger
}

// NewSessionAuth creates a new session authenticator
func NewSessionAuth(repo *repository.Repository, log *logrus.Logger) *SessionAuth {
	return &SessionAuth{repo: repo, log: log}
}

// Resolve returns the user owning the request's session, or nil when the
// request carries no valid session.
func (a *SessionAuth) Resolve(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := a.repo.FindSessionByToken(cookie.Value)
	if err != nil {
		return nil
	}
	if session.Expired(time.Now()) {
		if err := a.repo.DeleteSession(session.Token); err != nil {
			a.log.Errorf("Failed to delete expired session: %v", err)
		}
		return nil
	}

	user, err := a.repo.FindUserByID(session.UserID)
	if err != nil {
		return nil
	}
	return user
}

// Middleware rejects requests without a valid session and puts the resolved
// user into the request context.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := a.Resolve(r)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// Optional injects the resolved user when a valid session is present but
// lets anonymous requests through.
func (a *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := a.Resolve(r); user != nil {
			r = r.WithContext(ContextWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithUser binds an authenticated user to the context.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user, nil for anonymous.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
