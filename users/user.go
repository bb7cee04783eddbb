// Package users keeps the user directory used by every authentication
// strategy: lookups by attribute, registration and profile updates.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/andrebq/authbox/password"
)

type (
	// User is a registered account. HashedPassword is never exposed
	// outside of this process.
	User struct {
		ID             string
		Email          string
		HashedPassword string
		SessionID      string
		ResetToken     string
		FirstName      string
		LastName       string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Filter selects users whose attributes match every non-empty field,
	// an empty filter matches all users.
	Filter struct {
		ID         string
		Email      string
		SessionID  string
		ResetToken string
	}

	// Store is implemented by anything that can keep users
	Store interface {
		Add(ctx context.Context, u *User) error
		Search(ctx context.Context, f Filter) ([]User, error)
		Update(ctx context.Context, u *User) error
		Count(ctx context.Context) (int, error)
	}
)

// IsValidPassword reports if plain matches the stored password hash
func (u *User) IsValidPassword(plain string) bool {
	if u == nil || len(plain) == 0 {
		return false
	}
	return password.Verify(u.HashedPassword, plain)
}

// SetPassword replaces the stored hash with the hash of plain
func (u *User) SetPassword(plain string) error {
	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	u.HashedPassword = hashed
	return nil
}

// DisplayName returns the best name available to show this user
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return strings.Join([]string{u.FirstName, u.LastName}, " ")
}

// IDOnly reports if the filter selects a single user by id and nothing else
func (f Filter) IDOnly() bool {
	return f.ID != "" && f.Email == "" && f.SessionID == "" && f.ResetToken == ""
}

// FindOne returns the first user matching f, or UserNotFound
func FindOne(ctx context.Context, s Store, f Filter) (*User, error) {
	found, err := s.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, UserNotFound{Filter: f}
	}
	return &found[0], nil
}
