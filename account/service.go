// Package account implements self service registration, login and
// password recovery on top of the user directory and a session store.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/users"
	"github.com/google/uuid"
)

type (
	Service struct {
		users    users.Store
		sessions session.Store
	}
)

func NewService(u users.Store, s session.Store) *Service {
	return &Service{users: u, sessions: s}
}

// Register creates a new user with the given credentials
func (s *Service) Register(ctx context.Context, email, plain string) (*users.User, error) {
	if email == "" || plain == "" {
		return nil, users.InvalidUser{Reason: "email and password are required"}
	}
	_, err := users.FindOne(ctx, s.users, users.Filter{Email: email})
	if err == nil {
		return nil, AlreadyRegistered{Email: email}
	} else if !errors.As(err, &users.UserNotFound{}) {
		return nil, err
	}
	u := users.User{Email: email}
	if err = u.SetPassword(plain); err != nil {
		return nil, fmt.Errorf("unable to hash password, cause %w", err)
	}
	err = s.users.Add(ctx, &u)
	if errors.As(err, &users.DuplicateEmail{}) {
		return nil, AlreadyRegistered{Email: email}
	} else if err != nil {
		return nil, err
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Str("user_id", u.ID).Msg("User registered")
	return &u, nil
}

// ValidLogin reports if email and plain identify a registered user
func (s *Service) ValidLogin(ctx context.Context, email, plain string) bool {
	if email == "" || plain == "" {
		return false
	}
	u, err := users.FindOne(ctx, s.users, users.Filter{Email: email})
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Debug().Err(err).Msg("Login rejected")
		return false
	}
	return u.IsValidPassword(plain)
}

// CreateSession starts a session for the user registered with email and
// returns its id
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	u, err := users.FindOne(ctx, s.users, users.Filter{Email: email})
	if errors.As(err, &users.UserNotFound{}) {
		return "", UnknownEmail{Email: email}
	} else if err != nil {
		return "", err
	}
	e, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", err
	}
	if u.SessionID != "" {
		s.discard(ctx, u.SessionID)
	}
	u.SessionID = e.SessionID
	if err = s.users.Update(ctx, u); err != nil {
		s.discard(ctx, e.SessionID)
		return "", err
	}
	return e.SessionID, nil
}

// UserFromSession returns the user that owns the active session sid
func (s *Service) UserFromSession(ctx context.Context, sid string) (*users.User, error) {
	if sid == "" {
		return nil, NoSession{}
	}
	e, err := s.sessions.Lookup(ctx, sid)
	if err != nil {
		return nil, err
	}
	u, err := users.FindOne(ctx, s.users, users.Filter{ID: e.UserID})
	if err != nil {
		return nil, err
	}
	if u.SessionID != sid {
		// the user logged out (or in again) from another client
		return nil, NoSession{}
	}
	return u, nil
}

// DestroySession ends the session recorded for userID
func (s *Service) DestroySession(ctx context.Context, userID string) error {
	u, err := users.FindOne(ctx, s.users, users.Filter{ID: userID})
	if err != nil {
		return err
	}
	if u.SessionID == "" {
		return NoSession{}
	}
	err = s.sessions.Destroy(ctx, u.SessionID)
	if err != nil && !isGone(err) {
		return err
	}
	u.SessionID = ""
	return s.users.Update(ctx, u)
}

// ResetPasswordToken issues a token that allows UpdatePassword to
// replace the password of the user registered with email
func (s *Service) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", UnknownEmail{}
	}
	u, err := users.FindOne(ctx, s.users, users.Filter{Email: email})
	if errors.As(err, &users.UserNotFound{}) {
		return "", UnknownEmail{Email: email}
	} else if err != nil {
		return "", err
	}
	token, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("unable to generate reset token, cause %w", err)
	}
	u.ResetToken = token.String()
	if err = s.users.Update(ctx, u); err != nil {
		return "", err
	}
	return u.ResetToken, nil
}

// UpdatePassword replaces the password of the user holding token, the
// token cannot be used again.
func (s *Service) UpdatePassword(ctx context.Context, token, plain string) error {
	if token == "" {
		return InvalidResetToken{}
	}
	if plain == "" {
		return users.InvalidUser{Reason: "password is required"}
	}
	u, err := users.FindOne(ctx, s.users, users.Filter{ResetToken: token})
	if errors.As(err, &users.UserNotFound{}) {
		return InvalidResetToken{}
	} else if err != nil {
		return err
	}
	if err = u.SetPassword(plain); err != nil {
		return fmt.Errorf("unable to hash password, cause %w", err)
	}
	u.ResetToken = ""
	return s.users.Update(ctx, u)
}

// discard destroys a session nobody can reach anymore
func (s *Service) discard(ctx context.Context, sid string) {
	err := s.sessions.Destroy(ctx, sid)
	if err != nil && !isGone(err) {
		log := logutil.GetOrDefault(ctx)
		log.Debug().Err(err).Msg("Unable to destroy session")
	}
}

func isGone(err error) bool {
	return errors.As(err, &session.SessionNotFound{}) || errors.As(err, &session.ExpiredSession{})
}
