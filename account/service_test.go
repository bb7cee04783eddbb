package account

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/internal/testutil"
	"github.com/andrebq/authbox/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(ctx context.Context, t *testing.T, pairs ...string) *Service {
	dir, cleanup := testutil.AcquirePopulatedDirectory(ctx, t, "users.db", testutil.Register(pairs...))
	t.Cleanup(cleanup)
	return NewService(dir, session.NewTable())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService(ctx, t)

	u, err := svc.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "pw", u.HashedPassword)

	_, err = svc.Register(ctx, "a@b.com", "other")
	assert.True(t, errors.Is(err, AlreadyRegistered{Email: "a@b.com"}))
	assert.Equal(t, "User a@b.com already exists", err.Error())

	_, err = svc.Register(ctx, "", "pw")
	assert.Error(t, err)
}

func TestValidLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(ctx, t, "a@b.com", "pw")

	assert.True(t, svc.ValidLogin(ctx, "a@b.com", "pw"))
	assert.False(t, svc.ValidLogin(ctx, "a@b.com", "wrong"))
	assert.False(t, svc.ValidLogin(ctx, "a@b.com", ""))
	assert.False(t, svc.ValidLogin(ctx, "x@b.com", "pw"))
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(ctx, t)
	registered, err := svc.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "x@b.com")
	assert.True(t, errors.As(err, &UnknownEmail{}))

	sid, err := svc.CreateSession(ctx, "a@b.com")
	require.NoError(t, err)
	u, err := svc.UserFromSession(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.UserFromSession(ctx, "")
	assert.True(t, errors.Is(err, NoSession{}))
	_, err = svc.UserFromSession(ctx, "unknown")
	assert.Error(t, err)

	// logging in again invalidates the previous session
	again, err := svc.CreateSession(ctx, "a@b.com")
	require.NoError(t, err)
	_, err = svc.UserFromSession(ctx, sid)
	assert.Error(t, err)

	require.NoError(t, svc.DestroySession(ctx, registered.ID))
	_, err = svc.UserFromSession(ctx, again)
	assert.Error(t, err)
	assert.True(t, errors.Is(svc.DestroySession(ctx, registered.ID), NoSession{}))
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(ctx, t)
	_, err := svc.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	_, err = svc.ResetPasswordToken(ctx, "x@b.com")
	assert.True(t, errors.As(err, &UnknownEmail{}))

	token, err := svc.ResetPasswordToken(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.True(t, errors.Is(svc.UpdatePassword(ctx, "bogus", "new"), InvalidResetToken{}))
	require.NoError(t, svc.UpdatePassword(ctx, token, "new"))
	assert.True(t, svc.ValidLogin(ctx, "a@b.com", "new"))
	assert.False(t, svc.ValidLogin(ctx, "a@b.com", "pw"))

	assert.True(t, errors.Is(svc.UpdatePassword(ctx, token, "again"), InvalidResetToken{}), "tokens are single use")
}

type (
	stuckSessions struct {
		session.Store
	}
)

func (stuckSessions) Destroy(context.Context, string) error {
	return errors.New("storage offline")
}

func TestDiscardedSessionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := logutil.WithLogger(context.Background(), zerolog.New(&buf).Level(zerolog.DebugLevel))
	dir, cleanup := testutil.AcquirePopulatedDirectory(ctx, t, "users.db", testutil.Register("a@b.com", "pw"))
	defer cleanup()
	svc := NewService(dir, stuckSessions{Store: session.NewTable()})

	_, err := svc.CreateSession(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	// logging in again discards the previous session
	_, err = svc.CreateSession(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "storage offline")
	assert.Contains(t, buf.String(), `"level":"debug"`)
}
