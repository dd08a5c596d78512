package redisclient

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-marketplace/internal/session"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, "test:session:"), mr
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, err := store.Get(ctx, session.KeyDoctorToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Set(ctx, session.KeyDoctorToken, "doc-token"))
	got, err := store.Get(ctx, session.KeyDoctorToken)
	require.NoError(t, err)
	assert.Equal(t, "doc-token", got)

	raw, err := mr.Get("test:session:doctorToken")
	require.NoError(t, err)
	assert.Equal(t, "doc-token", raw)
}

func TestSessionStoreDeleteIsLogout(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, session.SaveJSON(ctx, store, session.KeyUser, map[string]string{"_id": "u1"}))
	require.NoError(t, store.Set(ctx, session.KeyUserToken, "tok"))

	require.NoError(t, store.Delete(ctx, session.KeyUser, session.KeyUserToken))

	assert.False(t, mr.Exists("test:session:user"))
	assert.False(t, mr.Exists("test:session:userToken"))
	assert.NoError(t, store.Delete(ctx))
}

func TestNewRedisClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), addr, "", "")
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), addr, "", "")
	assert.Error(t, err)
}
