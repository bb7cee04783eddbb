package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/andrebq/authbox/users"
)

type (
	// SecurityRealm puts a Strategy in front of an http.Handler
	SecurityRealm struct {
		strategy   Strategy
		cookieName string
	}

	ctxKey byte
)

var (
	userKey = ctxKey(1)
)

// NewRealm protects handlers with strategy. cookieName is the session
// cookie that counts as "some credential was sent" even for strategies
// that do not read it.
func NewRealm(strategy Strategy, cookieName string) *SecurityRealm {
	return &SecurityRealm{
		strategy:   strategy,
		cookieName: cookieName,
	}
}

// Strategy returns the strategy used by the realm
func (s *SecurityRealm) Strategy() Strategy {
	return s.strategy
}

// Protect only calls sensitive when the path is excluded or the request
// resolves to a user; requests without any credential get 401 and
// requests whose credentials do not resolve get 403.
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.strategy.RequiresAuth(r.URL.Path) {
			sensitive.ServeHTTP(w, r)
			return
		}
		if !s.hasCredential(r) {
			WriteError(w, http.StatusUnauthorized)
			return
		}
		u, ok := CurrentUser(s.strategy, r)
		if !ok {
			WriteError(w, http.StatusForbidden)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func (s *SecurityRealm) hasCredential(r *http.Request) bool {
	if _, err := AuthorizationHeader(r); err == nil {
		return true
	}
	if _, err := SessionCookie(r, s.cookieName); err == nil {
		return true
	}
	return false
}

// WithUser returns a context carrying u
func WithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user stored by SecurityRealm.Protect
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userKey).(*users.User)
	return u, ok && u != nil
}

// WriteError replies with {"error": <status text>}
func WriteError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}
