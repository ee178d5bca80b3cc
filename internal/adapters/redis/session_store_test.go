package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/ports"
	"github.com/localspot/localspot-api/internal/testutil"
)

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:           id,
		UserID:       "u1",
		Email:        "a@b.c",
		Role:         domainauth.RoleUser,
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	ctx := context.Background()

	sess := testSession("s1", time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.AccessToken, got.AccessToken)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_SaveValidation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	ctx := context.Background()

	// No ID.
	err := store.Save(ctx, testSession("", time.Hour))
	assert.Error(t, err)

	// Already expired.
	err = store.Save(ctx, testSession("s1", -time.Minute))
	assert.Error(t, err)
}

func TestSessionStore_GetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	// Deleting a missing session is a no-op.
	assert.NoError(t, store.Delete(ctx, "missing"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_PrefixIsolation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	a := NewSessionStoreWithPrefix(client, "a:")
	b := NewSessionStoreWithPrefix(client, "b:")

	require.NoError(t, a.Save(ctx, testSession("s1", time.Hour)))

	_, err := b.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = a.Get(ctx, "s1")
	assert.NoError(t, err)
}
