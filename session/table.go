package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	// Entry is one active session
	Entry struct {
		SessionID string
		UserID    string
		CreatedAt time.Time
	}

	// Store creates, resolves and destroys sessions
	Store interface {
		Create(ctx context.Context, userID string) (Entry, error)
		Lookup(ctx context.Context, sessionID string) (Entry, error)
		Destroy(ctx context.Context, sessionID string) error
	}

	// Table is the in-memory Store, every other Store wraps one of these.
	//
	// All operations are atomic with respect to each other.
	Table struct {
		mu      sync.RWMutex
		entries map[string]Entry
		now     func() time.Time
	}
)

func NewTable() *Table {
	return &Table{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (t *Table) Create(_ context.Context, userID string) (Entry, error) {
	if len(userID) == 0 {
		return Entry{}, MissingUserID{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		id, err := uuid.NewRandom()
		if err != nil {
			return Entry{}, fmt.Errorf("session: unable to generate session id, cause %w", err)
		}
		sid := id.String()
		if _, taken := t.entries[sid]; taken {
			continue
		}
		e := Entry{SessionID: sid, UserID: userID, CreatedAt: t.now()}
		t.entries[sid] = e
		return e, nil
	}
}

func (t *Table) Lookup(_ context.Context, sessionID string) (Entry, error) {
	if len(sessionID) == 0 {
		return Entry{}, SessionNotFound{}
	}
	t.mu.RLock()
	e, ok := t.entries[sessionID]
	t.mu.RUnlock()
	if !ok {
		return Entry{}, SessionNotFound{SessionID: sessionID}
	}
	return e, nil
}

func (t *Table) Destroy(_ context.Context, sessionID string) error {
	if len(sessionID) == 0 {
		return SessionNotFound{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[sessionID]; !ok {
		return SessionNotFound{SessionID: sessionID}
	}
	delete(t.entries, sessionID)
	return nil
}

// Len returns how many sessions are kept in memory, expired ones included
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
