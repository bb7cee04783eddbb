package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/andrebq/authbox/users"
)

const (
	basicPrefix = "Basic "
)

type (
	// Basic authenticates requests carrying
	// `Authorization: Basic base64(email:password)`
	Basic struct {
		ExcludedPaths
		users Directory
	}
)

func NewBasic(excluded []string, dir Directory) *Basic {
	return &Basic{
		ExcludedPaths: ExcludedPaths(excluded),
		users:         dir,
	}
}

// ExtractBase64Header returns what follows the "Basic " prefix (case
// sensitive, exactly one space)
func ExtractBase64Header(header string) (string, error) {
	if len(header) == 0 {
		return "", MissingCredential{Source: "Authorization header"}
	}
	if !strings.HasPrefix(header, basicPrefix) {
		return "", MalformedCredential{Reason: "not a Basic authorization"}
	}
	return header[len(basicPrefix):], nil
}

// DecodeBase64 decodes a standard base64 string that must contain valid
// UTF-8 text
func DecodeBase64(b64 string) (string, error) {
	if len(b64) == 0 {
		return "", MissingCredential{Source: "Basic credentials"}
	}
	buf, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", MalformedCredential{Reason: "invalid base64"}
	}
	if !utf8.Valid(buf) {
		return "", MalformedCredential{Reason: "invalid utf-8"}
	}
	return string(buf), nil
}

// ExtractCredentials splits decoded on the first ':', the password may
// contain ':' itself
func ExtractCredentials(decoded string) (email, password string, err error) {
	parts := strings.SplitN(decoded, ":", 2)
	if len(parts) != 2 {
		return "", "", MalformedCredential{Reason: "missing ':' separator"}
	}
	return parts[0], parts[1], nil
}

// UserFromCredentials looks up the user by email and checks its password
func (b *Basic) UserFromCredentials(ctx context.Context, email, password string) (*users.User, error) {
	if len(email) == 0 || len(password) == 0 {
		return nil, MissingCredential{Source: "email or password"}
	}
	found, err := b.users.Search(ctx, users.Filter{Email: email})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, UnknownUser{}
	}
	u := found[0]
	if !u.IsValidPassword(password) {
		return nil, InvalidSecret{}
	}
	return &u, nil
}

func (b *Basic) Token(r *http.Request) (string, error) {
	return AuthorizationHeader(r)
}

func (b *Basic) Authenticate(r *http.Request) (*users.User, error) {
	header, err := b.Token(r)
	if err != nil {
		return nil, err
	}
	encoded, err := ExtractBase64Header(header)
	if err != nil {
		return nil, err
	}
	decoded, err := DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	email, password, err := ExtractCredentials(decoded)
	if err != nil {
		return nil, err
	}
	return b.UserFromCredentials(r.Context(), email, password)
}
