package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	// memRecords emulates a shared backing file: saved holds what other
	// processes can observe, index is what this process loaded.
	memRecords struct {
		mu    sync.Mutex
		saved map[string]Record
		index map[string]Record
		loads int
	}
)

func newMemRecords() *memRecords {
	return &memRecords{saved: map[string]Record{}, index: map[string]Record{}}
}

func (m *memRecords) Load(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	m.index = copyRecords(m.saved)
	return nil
}

func (m *memRecords) Save(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = copyRecords(m.index)
	return nil
}

func (m *memRecords) Search(_ context.Context, f RecordFilter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.index {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) Add(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index[r.SessionID] = r
	return nil
}

func (m *memRecords) Remove(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.index, r.SessionID)
	return nil
}

func copyRecords(in map[string]Record) map[string]Record {
	out := make(map[string]Record, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func TestPersistentLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	table, exp := expiringWithClock(time.Hour, clock)
	records := newMemRecords()
	p := NewPersistent(exp, records)

	entry, err := p.Create(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records.saved, 1)
	assert.Equal(t, "user-1", records.saved[entry.SessionID].UserID)

	found, err := p.Lookup(ctx, entry.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
	assert.Equal(t, 2, records.loads, "creates and lookups reload the record store")

	require.NoError(t, p.Destroy(ctx, entry.SessionID))
	assert.Empty(t, records.saved)
	assert.Equal(t, 0, table.Len())

	_, err = p.Lookup(ctx, entry.SessionID)
	assert.True(t, errors.As(err, &SessionNotFound{}))
	assert.Error(t, p.Destroy(ctx, entry.SessionID))
}

func TestPersistentSharedRecordStore(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	records := newMemRecords()
	_, expA := expiringWithClock(time.Hour, clock)
	_, expB := expiringWithClock(time.Hour, clock)
	a := NewPersistent(expA, records)
	b := NewPersistent(expB, records)

	entry, err := a.Create(ctx, "user-1")
	require.NoError(t, err)

	found, err := b.Lookup(ctx, entry.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)

	require.NoError(t, b.Destroy(ctx, entry.SessionID), "sessions from other processes can be destroyed")
	_, err = a.Lookup(ctx, entry.SessionID)
	assert.True(t, errors.As(err, &SessionNotFound{}))
}

func TestPersistentExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	table, exp := expiringWithClock(time.Second, clock)
	records := newMemRecords()
	p := NewPersistent(exp, records)

	entry, err := p.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = p.Lookup(ctx, entry.SessionID)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	for i := 0; i < 2; i++ {
		_, err = p.Lookup(ctx, entry.SessionID)
		assert.True(t, errors.As(err, &ExpiredSession{}), "got %v", err)
		assert.Equal(t, 0, table.Len(), "expired sessions are evicted from memory")
	}
	err = p.Destroy(ctx, entry.SessionID)
	assert.True(t, errors.As(err, &ExpiredSession{}))
}

func TestPersistentWithoutTTL(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	_, exp := expiringWithClock(0, clock)
	p := NewPersistent(exp, newMemRecords())
	entry, err := p.Create(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(1000 * time.Hour)
	found, err := p.Lookup(ctx, entry.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
}

func TestPersistentRejectsEmptyUser(t *testing.T) {
	ctx := context.Background()
	records := newMemRecords()
	p := NewPersistent(NewExpiring(NewTable(), 0), records)
	_, err := p.Create(ctx, "")
	assert.True(t, errors.Is(err, MissingUserID{}))
	assert.Empty(t, records.saved)
	_, err = p.Lookup(ctx, "")
	assert.True(t, errors.As(err, &SessionNotFound{}))
}
