package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andrebq/authbox/internal/logutil"
)

type (
	// Persistent mirrors sessions in a RecordStore.
	//
	// Creates and lookups always reload the record store, so a session
	// created by another process sharing the same store is honored (and
	// kept) here as well. Sessions found expired or missing in the store
	// are dropped from memory.
	Persistent struct {
		mu      sync.Mutex
		next    *Expiring
		records RecordStore
	}
)

func NewPersistent(next *Expiring, records RecordStore) *Persistent {
	return &Persistent{
		next:    next,
		records: records,
	}
}

func (p *Persistent) Create(ctx context.Context, userID string) (Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// pick up records saved by other processes, Save writes the whole index
	err := p.records.Load(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("session: unable to load session records, cause %w", err)
	}
	entry, err := p.next.Create(ctx, userID)
	if err != nil {
		return Entry{}, err
	}
	rec := Record{SessionID: entry.SessionID, UserID: entry.UserID, CreatedAt: entry.CreatedAt}
	err = p.records.Add(ctx, rec)
	if err == nil {
		err = p.records.Save(ctx)
	}
	if err != nil {
		p.forget(ctx, entry.SessionID)
		return Entry{}, fmt.Errorf("session: unable to persist session, cause %w", err)
	}
	return entry, nil
}

func (p *Persistent) Lookup(ctx context.Context, sessionID string) (Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, err := p.lookupLocked(ctx, sessionID)
	if err != nil {
		return Entry{}, err
	}
	return Entry{SessionID: rec.SessionID, UserID: rec.UserID, CreatedAt: rec.CreatedAt}, nil
}

func (p *Persistent) Destroy(ctx context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, err := p.lookupLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	p.forget(ctx, sessionID)
	err = p.records.Remove(ctx, rec)
	if err != nil {
		return fmt.Errorf("session: unable to remove session record, cause %w", err)
	}
	err = p.records.Save(ctx)
	if err != nil {
		return fmt.Errorf("session: unable to save session records, cause %w", err)
	}
	return nil
}

func (p *Persistent) lookupLocked(ctx context.Context, sessionID string) (Record, error) {
	if len(sessionID) == 0 {
		return Record{}, SessionNotFound{}
	}
	err := p.records.Load(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("session: unable to load session records, cause %w", err)
	}
	found, err := p.records.Search(ctx, RecordFilter{SessionID: sessionID})
	if err != nil {
		return Record{}, fmt.Errorf("session: unable to search session records, cause %w", err)
	}
	if len(found) == 0 {
		p.forget(ctx, sessionID)
		return Record{}, SessionNotFound{SessionID: sessionID}
	}
	rec := found[0]
	if p.next.Expired(rec.CreatedAt) {
		p.forget(ctx, sessionID)
		return Record{}, ExpiredSession{SessionID: sessionID, CreatedAt: rec.CreatedAt, TTL: p.next.TTL()}
	}
	return rec, nil
}

// forget drops sessionID from the in-memory table. The session might
// have been created by another process, so a missing entry is fine.
func (p *Persistent) forget(ctx context.Context, sessionID string) {
	err := p.next.next.Destroy(ctx, sessionID)
	if err != nil && !errors.As(err, &SessionNotFound{}) {
		log := logutil.GetOrDefault(ctx)
		log.Debug().Err(err).Msg("Unable to remove session from memory")
	}
}
