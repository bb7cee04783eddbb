package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

// AsAccountHandler serves registration, login and password recovery.
// Sessions are carried by the cookie called cookieName.
func AsAccountHandler(ctx context.Context, svc *account.Service, cookieName string) (http.Handler, error) {
	if svc == nil {
		return nil, errors.New("api: missing account service")
	}
	if cookieName == "" {
		return nil, errors.New("api: missing session cookie name")
	}
	h := accountHandler{svc: svc, cookieName: cookieName}
	router := httprouter.New()
	router.HandlerFunc("GET", "/", h.welcome)
	router.HandlerFunc("POST", "/users", h.register)
	router.HandlerFunc("POST", "/sessions", h.login)
	router.HandlerFunc("DELETE", "/sessions", h.logout)
	router.HandlerFunc("GET", "/profile", h.profile)
	router.HandlerFunc("POST", "/reset_password", h.resetToken)
	router.HandlerFunc("PUT", "/reset_password", h.updatePassword)
	return router, nil
}

type (
	accountHandler struct {
		svc        *account.Service
		cookieName string
	}
)

func (h accountHandler) welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, jsonObject{"message": "Bienvenue"})
}

func (h accountHandler) register(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	u, err := h.svc.Register(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, jsonObject{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, jsonObject{"email": u.Email, "message": "user created"})
}

func (h accountHandler) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	if !h.svc.ValidLogin(r.Context(), email, r.PostFormValue("password")) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sid, err := h.svc.CreateSession(r.Context(), email)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Unable to create session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: h.cookieName, Value: sid, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, jsonObject{"email": email, "message": "logged in"})
}

func (h accountHandler) logout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := h.svc.DestroySession(r.Context(), u); err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Unable to destroy session")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h accountHandler) profile(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(r)
	u, err := h.svc.UserFromSession(r.Context(), sid)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Debug().Err(err).Msg("Profile requested without a valid session")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, jsonObject{"email": u.Email})
}

func (h accountHandler) resetToken(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token, err := h.svc.ResetPasswordToken(r.Context(), email)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, jsonObject{"email": email, "reset_token": token})
}

func (h accountHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	err := h.svc.UpdatePassword(r.Context(), r.PostForm.Get("reset_token"), r.PostForm.Get("new_password"))
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, jsonObject{"email": email, "message": "Password updated"})
}

// currentUser returns the id of the user behind the session cookie
func (h accountHandler) currentUser(r *http.Request) (string, bool) {
	u, err := h.svc.UserFromSession(r.Context(), h.sessionID(r))
	if err != nil {
		return "", false
	}
	return u.ID, true
}

func (h accountHandler) sessionID(r *http.Request) string {
	c, err := r.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
