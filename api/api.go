// Package api exposes the user directory over HTTP.
//
// AsHandler serves the authenticated /api/v1 endpoints, AsAccountHandler
// serves the self service account endpoints.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrebq/authbox/auth"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/users"
	"github.com/julienschmidt/httprouter"
)

type (
	Deps struct {
		// Strategy must be built with ExcludedPaths
		Strategy auth.Strategy
		Users    users.Store
		// CookieName is the session cookie, it is also used to decide
		// if a request carries any credential at all
		CookieName string
	}
)

// ExcludedPaths returns the /api/v1 paths that never require
// authentication
func ExcludedPaths() []string {
	return []string{
		"/api/v1/status/",
		"/api/v1/unauthorized/",
		"/api/v1/forbidden/",
		"/api/v1/auth_session/login/",
	}
}

func AsHandler(ctx context.Context, deps Deps) (http.Handler, error) {
	if deps.Strategy == nil {
		return nil, errors.New("api: missing authentication strategy")
	}
	if deps.Users == nil {
		return nil, errors.New("api: missing user store")
	}
	router := httprouter.New()
	router.HandlerFunc("GET", "/api/v1/status", status)
	router.HandlerFunc("GET", "/api/v1/stats", stats(deps.Users))
	router.HandlerFunc("GET", "/api/v1/unauthorized", func(w http.ResponseWriter, _ *http.Request) {
		auth.WriteError(w, http.StatusUnauthorized)
	})
	router.HandlerFunc("GET", "/api/v1/forbidden", func(w http.ResponseWriter, _ *http.Request) {
		auth.WriteError(w, http.StatusForbidden)
	})
	router.HandlerFunc("GET", "/api/v1/users", listUsers(deps.Users))
	router.GET("/api/v1/users/:id", getUser(deps.Users))
	if s, ok := deps.Strategy.(*auth.Session); ok {
		router.HandlerFunc("POST", "/api/v1/auth_session/login", login(s, deps.Users))
		router.HandlerFunc("DELETE", "/api/v1/auth_session/logout", logout(s))
	}
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		auth.WriteError(w, http.StatusNotFound)
	})
	return auth.NewRealm(deps.Strategy, deps.CookieName).Protect(router), nil
}

func status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, jsonObject{"status": "OK"})
}

func stats(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.Count(r.Context())
		if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to count users")
			auth.WriteError(w, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, jsonObject{"users": n})
	}
}

func listUsers(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := store.Search(r.Context(), users.Filter{})
		if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to list users")
			auth.WriteError(w, http.StatusInternalServerError)
			return
		}
		out := make([]userView, 0, len(found))
		for i := range found {
			out = append(out, asView(&found[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getUser(store users.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id := p.ByName("id")
		if id == "me" {
			current, ok := auth.UserFromContext(r.Context())
			if !ok {
				auth.WriteError(w, http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, asView(current))
			return
		}
		u, err := users.FindOne(r.Context(), store, users.Filter{ID: id})
		if errors.As(err, &users.UserNotFound{}) {
			auth.WriteError(w, http.StatusNotFound)
			return
		} else if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to fetch user")
			auth.WriteError(w, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, asView(u))
	}
}

func login(s *auth.Session, store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PostFormValue("email")
		if email == "" {
			writeError(w, http.StatusBadRequest, "email missing")
			return
		}
		plain := r.PostFormValue("password")
		if plain == "" {
			writeError(w, http.StatusBadRequest, "password missing")
			return
		}
		u, err := users.FindOne(r.Context(), store, users.Filter{Email: email})
		if errors.As(err, &users.UserNotFound{}) {
			writeError(w, http.StatusNotFound, "no user found for this email")
			return
		} else if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to fetch user")
			auth.WriteError(w, http.StatusInternalServerError)
			return
		}
		if !u.IsValidPassword(plain) {
			writeError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		sid, err := s.CreateSession(r.Context(), u.ID)
		if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to create session")
			auth.WriteError(w, http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: s.CookieName(), Value: sid, Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, asView(u))
	}
}

func logout(s *auth.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.DestroySession(r) {
			auth.WriteError(w, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, jsonObject{})
	}
}
