package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrebq/authbox/users"
)

type (
	userView struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}

	jsonObject map[string]interface{}
)

const (
	timeFormat = "2006-01-02T15:04:05"
)

func asView(u *users.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, jsonObject{"error": msg})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
