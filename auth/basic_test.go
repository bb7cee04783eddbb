package auth

import (
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBase64Header(t *testing.T) {
	for _, tc := range []struct {
		header   string
		expected string
		ok       bool
	}{
		{"Basic SG9sYmVydG9u", "SG9sYmVydG9u", true},
		{"Basic ", "", true},
		{"", "", false},
		{"Holberton", "", false},
		{"basic SG9sYmVydG9u", "", false},
		{"BasicSG9sYmVydG9u", "", false},
		{"Bearer abc", "", false},
	} {
		actual, err := ExtractBase64Header(tc.header)
		assert.Equal(t, tc.ok, err == nil, "header %q", tc.header)
		assert.Equal(t, tc.expected, actual, "header %q", tc.header)
	}
}

func TestDecodeBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("a:b"))
	decoded, err := DecodeBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, "a:b", decoded)

	_, err = DecodeBase64("Holberton")
	assert.True(t, errors.As(err, &MalformedCredential{}))

	_, err = DecodeBase64(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}))
	assert.True(t, errors.Is(err, MalformedCredential{Reason: "invalid utf-8"}))

	_, err = DecodeBase64("")
	assert.True(t, errors.As(err, &MissingCredential{}))
}

func TestExtractCredentials(t *testing.T) {
	email, pwd, err := ExtractCredentials("a:b:c")
	require.NoError(t, err)
	assert.Equal(t, "a", email)
	assert.Equal(t, "b:c", pwd)

	email, pwd, err = ExtractCredentials("bob@dylan.com:")
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", email)
	assert.Equal(t, "", pwd)

	_, _, err = ExtractCredentials("Holberton School")
	assert.True(t, errors.As(err, &MalformedCredential{}))
}

func TestBasicAuthenticate(t *testing.T) {
	dir := newDirectory(t, "bob@hbtn.io", "H0lbertonSchool98!")
	b := NewBasic([]string{"/api/v1/status/"}, dir)

	basic := func(creds string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", basic("bob@hbtn.io:H0lbertonSchool98!"))
	u, err := b.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "id-bob@hbtn.io", u.ID)

	for _, tc := range []struct {
		header string
		target interface{}
	}{
		{"", &MissingCredential{}},
		{"Bearer abc", &MalformedCredential{}},
		{"Basic !!!", &MalformedCredential{}},
		{basic("no-separator"), &MalformedCredential{}},
		{basic("bob@hbtn.io:"), &MissingCredential{}},
		{basic("alice@hbtn.io:H0lbertonSchool98!"), &UnknownUser{}},
		{basic("bob@hbtn.io:wrong"), &InvalidSecret{}},
	} {
		req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		for i := 0; i < 2; i++ {
			u, err := b.Authenticate(req)
			assert.Nil(t, u)
			assert.True(t, errors.As(err, tc.target), "header %q should fail with %T, got %v", tc.header, tc.target, err)
			_, ok := CurrentUser(b, req)
			assert.False(t, ok)
		}
	}
	_, ok := CurrentUser(b, nil)
	assert.False(t, ok)
}
