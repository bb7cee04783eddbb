package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andrebq/authbox/session"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func TestProtect(t *testing.T) {
	dir := newDirectory(t, "bob@hbtn.io", "pwd")
	basic := NewBasic([]string{"/api/v1/status/"}, dir)
	var count uint32
	var seen string
	protected := NewRealm(basic, "_my_session_id").Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(&count, 1)
		if u, ok := UserFromContext(r.Context()); ok {
			seen = u.Email
		}
		http.Error(w, "OK", http.StatusOK)
	}))

	apitest.Handler(protected).Get("/api/v1/status").Expect(t).Status(http.StatusOK).End()
	apitest.Handler(protected).Get("/api/v1/users").Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Unauthorized")).
		End()
	apitest.Handler(protected).Get("/api/v1/users").
		Header("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("bob@hbtn.io:wrong"))).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()
	apitest.Handler(protected).Get("/api/v1/users").
		Cookie("_my_session_id", "abc").
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.Handler(protected).Get("/api/v1/users").
		Header("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("bob@hbtn.io:pwd"))).
		Expect(t).
		Status(http.StatusOK).
		End()

	if count != 2 {
		t.Fatalf("Protected endpoint should have been called twice, got %v", count)
	}
	if seen != "bob@hbtn.io" {
		t.Fatalf("Protected endpoint should see the authenticated user, got %q", seen)
	}
}

func TestProtectWithSession(t *testing.T) {
	dir := newDirectory(t, "bob@hbtn.io", "pwd")
	s := NewSession([]string{"/api/v1/auth_session/login/"}, "_my_session_id", session.NewTable(), dir)
	protected := NewRealm(s, s.CookieName()).Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	sid, err := s.CreateSession(context.Background(), "id-bob@hbtn.io")
	if err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).Get("/api/v1/users/me").Cookie("_my_session_id", sid).Expect(t).Status(http.StatusNoContent).End()
	apitest.Handler(protected).Post("/api/v1/auth_session/login").Expect(t).Status(http.StatusNoContent).End()
}
