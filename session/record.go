package session

import (
	"context"
	"time"
)

type (
	// Record is the durable copy of a session
	Record struct {
		SessionID string    `json:"session_id"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	// RecordFilter selects records whose attributes match every non-empty field
	RecordFilter struct {
		SessionID string
		UserID    string
	}

	// RecordStore keeps session records outside of the process memory.
	//
	// Add and Remove may only change an in-memory index, callers must
	// call Save to make them durable. Load replaces the in-memory index
	// with what is currently stored.
	RecordStore interface {
		Load(ctx context.Context) error
		Save(ctx context.Context) error
		Search(ctx context.Context, f RecordFilter) ([]Record, error)
		Add(ctx context.Context, r Record) error
		Remove(ctx context.Context, r Record) error
	}
)

// Match reports if r is selected by f
func (f RecordFilter) Match(r Record) bool {
	if f.SessionID != "" && f.SessionID != r.SessionID {
		return false
	}
	if f.UserID != "" && f.UserID != r.UserID {
		return false
	}
	return true
}
