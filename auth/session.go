package auth

import (
	"context"
	"net/http"

	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/users"
)

const (
	// SessionNameEnvVar holds the name of the session cookie
	SessionNameEnvVar = "SESSION_NAME"
)

type (
	// Session authenticates requests carrying a session id cookie.
	//
	// Which session.Store backs it decides if sessions expire and if
	// they survive the process.
	Session struct {
		ExcludedPaths
		cookieName string
		sessions   session.Store
		users      Directory
	}
)

func NewSession(excluded []string, cookieName string, sessions session.Store, dir Directory) *Session {
	return &Session{
		ExcludedPaths: ExcludedPaths(excluded),
		cookieName:    cookieName,
		sessions:      sessions,
		users:         dir,
	}
}

// CookieName returns the name of the cookie that carries the session id
func (s *Session) CookieName() string {
	return s.cookieName
}

// CreateSession starts a new session for userID and returns its id
func (s *Session) CreateSession(ctx context.Context, userID string) (string, error) {
	e, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", err
	}
	return e.SessionID, nil
}

// SessionForRequest returns the session id carried by r
func (s *Session) SessionForRequest(r *http.Request) (string, error) {
	return SessionCookie(r, s.cookieName)
}

// UserIDForSession returns the user id bound to an active session
func (s *Session) UserIDForSession(ctx context.Context, sessionID string) (string, error) {
	e, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return e.UserID, nil
}

// DestroySession ends the session carried by r, it returns false if r
// carries no active session.
func (s *Session) DestroySession(r *http.Request) bool {
	sid, err := s.SessionForRequest(r)
	if err != nil {
		return false
	}
	return s.sessions.Destroy(r.Context(), sid) == nil
}

func (s *Session) Token(r *http.Request) (string, error) {
	return s.SessionForRequest(r)
}

func (s *Session) Authenticate(r *http.Request) (*users.User, error) {
	sid, err := s.SessionForRequest(r)
	if err != nil {
		return nil, err
	}
	uid, err := s.UserIDForSession(r.Context(), sid)
	if err != nil {
		return nil, err
	}
	found, err := s.users.Search(r.Context(), users.Filter{ID: uid})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, UnknownUser{}
	}
	return &found[0], nil
}
