package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	fakeClock struct {
		now time.Time
	}
)

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func expiringWithClock(ttl time.Duration, clock *fakeClock) (*Table, *Expiring) {
	table := NewTable()
	table.now = clock.Now
	exp := NewExpiring(table, ttl)
	exp.now = clock.Now
	return table, exp
}

func TestExpiringSession(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	table, exp := expiringWithClock(time.Second, clock)

	entry, err := exp.Create(ctx, "user-1")
	require.NoError(t, err)

	found, err := exp.Lookup(ctx, entry.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)

	clock.Advance(time.Second)
	_, err = exp.Lookup(ctx, entry.SessionID)
	require.NoError(t, err, "a session is still valid exactly at its ttl")

	clock.Advance(time.Second)
	_, err = exp.Lookup(ctx, entry.SessionID)
	var expired ExpiredSession
	require.True(t, errors.As(err, &expired), "got %v", err)
	assert.Equal(t, time.Second, expired.TTL)
	assert.Equal(t, 0, table.Len(), "expired sessions are evicted on lookup")

	_, err = exp.Lookup(ctx, entry.SessionID)
	assert.True(t, errors.As(err, &SessionNotFound{}))
}

func TestExpiringWithoutTTL(t *testing.T) {
	ctx := context.Background()
	for _, ttl := range []time.Duration{0, -time.Second} {
		clock := newClock()
		_, exp := expiringWithClock(ttl, clock)
		entry, err := exp.Create(ctx, "user-1")
		require.NoError(t, err)
		clock.Advance(24 * 365 * time.Hour)
		found, err := exp.Lookup(ctx, entry.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", found.UserID)
	}
}

func TestExpiringDestroy(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	_, exp := expiringWithClock(time.Minute, clock)

	live, err := exp.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, exp.Destroy(ctx, live.SessionID))
	_, err = exp.Lookup(ctx, live.SessionID)
	assert.True(t, errors.As(err, &SessionNotFound{}))

	stale, err := exp.Create(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	err = exp.Destroy(ctx, stale.SessionID)
	assert.True(t, errors.As(err, &ExpiredSession{}))
}

func TestParseTTL(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		in       string
		expected time.Duration
	}{
		{"", 0},
		{"60", time.Minute},
		{" 5 ", 5 * time.Second},
		{"abc", 0},
		{"1.5", 0},
		{"-1", -time.Second},
		{"9300000000", time.Duration(maxSeconds) * time.Second},
		{"99999999999999999999", time.Duration(maxSeconds) * time.Second},
		{"-99999999999999999999", 0},
		{"-9300000000", -time.Duration(maxSeconds) * time.Second},
	} {
		actual := ParseTTL(ctx, tc.in)
		assert.Equal(t, tc.expected, actual, "input %q", tc.in)
		if tc.expected > 0 {
			assert.True(t, actual > 0, "input %q must not wrap around", tc.in)
		}
	}

	env := map[string]string{DurationEnvVar: "30"}
	assert.Equal(t, 30*time.Second, TTLFromEnv(ctx, DurationEnvVar, func(k string) string { return env[k] }))
	assert.Equal(t, time.Duration(0), TTLFromEnv(ctx, "UNSET", func(k string) string { return env[k] }))
}
