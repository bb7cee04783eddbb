package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/users"
)

type (
	// Strategy is implemented by every authentication mechanism
	Strategy interface {
		// RequiresAuth returns false when path is excluded from authentication
		RequiresAuth(path string) bool
		// Token extracts the raw credential from the request
		Token(r *http.Request) (string, error)
		// Authenticate resolves the request to a user
		Authenticate(r *http.Request) (*users.User, error)
	}

	// Directory is the subset of users.Store needed to resolve credentials
	Directory interface {
		Search(ctx context.Context, f users.Filter) ([]users.User, error)
	}

	// ExcludedPaths lists path patterns that never require authentication.
	// Strategies embed it to implement RequiresAuth.
	ExcludedPaths []string

	// Base never resolves a user: every path that is not excluded ends
	// up forbidden.
	Base struct {
		ExcludedPaths
	}
)

// RequiresAuth reports if path needs authentication given the excluded
// patterns. Empty paths and empty exclusion lists always require
// authentication.
func RequiresAuth(path string, excluded []string) bool {
	if len(path) == 0 || len(excluded) == 0 {
		return true
	}
	path = withSlash(path)
	for _, pattern := range excluded {
		if len(pattern) == 0 {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(path, pattern[:len(pattern)-1]) {
				return false
			}
			continue
		}
		if path == withSlash(pattern) {
			return false
		}
	}
	return true
}

func (e ExcludedPaths) RequiresAuth(path string) bool {
	return RequiresAuth(path, e)
}

// AuthorizationHeader returns the Authorization header of r
func AuthorizationHeader(r *http.Request) (string, error) {
	if r == nil {
		return "", MissingCredential{Source: "request"}
	}
	val := r.Header.Get("Authorization")
	if len(val) == 0 {
		return "", MissingCredential{Source: "Authorization header"}
	}
	return val, nil
}

// SessionCookie returns the value of the cookie called name
func SessionCookie(r *http.Request, name string) (string, error) {
	if r == nil {
		return "", MissingCredential{Source: "request"}
	}
	if len(name) == 0 {
		return "", MissingCredential{Source: "session cookie name"}
	}
	c, err := r.Cookie(name)
	if err != nil || len(c.Value) == 0 {
		return "", MissingCredential{Source: "session cookie"}
	}
	return c.Value, nil
}

// CurrentUser returns the user behind r, or false if the strategy could
// not resolve one. The reason is logged, never returned.
func CurrentUser(s Strategy, r *http.Request) (*users.User, bool) {
	if r == nil {
		return nil, false
	}
	u, err := s.Authenticate(r)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Request not authenticated")
		return nil, false
	}
	if u == nil {
		return nil, false
	}
	return u, true
}

func NewBase(excluded []string) *Base {
	return &Base{ExcludedPaths: ExcludedPaths(excluded)}
}

func (b *Base) Token(r *http.Request) (string, error) {
	return AuthorizationHeader(r)
}

func (b *Base) Authenticate(r *http.Request) (*users.User, error) {
	return nil, UnknownUser{}
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
