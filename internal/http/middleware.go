package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ScriptsHub07/venda3/internal/auth"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
)

const sessionUserKey = "userID"

// Auth wires session state into the request pipeline.
type Auth struct {
	sessions *scs.SessionManager
	users    *auth.Service
}

func NewAuth(sessions *scs.SessionManager, users *auth.Service) *Auth {
	return &Auth{sessions: sessions, users: users}
}

func (a *Auth) SignIn(ctx context.Context, userID uuid.UUID) error {
	if err := a.sessions.RenewToken(ctx); err != nil {
		return err
	}
	a.sessions.Put(ctx, sessionUserKey, userID.String())
	return nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	return a.sessions.Destroy(ctx)
}

func (a *Auth) sessionUser(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(a.sessions.GetString(ctx, sessionUserKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// RequireAuth guards JSON API routes: no session means 401.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := a.sessionUser(r.Context())
		if userID == uuid.Nil {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly guards the admin prefix: anonymous sessions are sent to the
// login page, authenticated non-admins back home.
func (a *Auth) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := a.sessionUser(r.Context())
		if userID == uuid.Nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		user, err := a.users.GetUser(r.Context(), userID)
		if err != nil || !user.IsAdmin {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated bounces signed-in sessions off login/register.
func (a *Auth) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.sessionUser(r.Context()) != uuid.Nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserIDFromContext(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
