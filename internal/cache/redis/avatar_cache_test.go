package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rplatform "crow-backend/internal/platform/redis"
)

func newCache(t *testing.T) (*AvatarCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := rplatform.Open(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewAvatarCache(client, time.Hour), mr
}

func TestAvatarCache(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, cache.Set(ctx, 7, &AvatarEntry{FileID: "f1", FilePath: "photos/file_1.jpg"}))
	assert.True(t, mr.Exists("avatar:7"))
	assert.Equal(t, time.Hour, mr.TTL("avatar:7"))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "photos/file_1.jpg", got.FilePath)
	assert.False(t, got.FetchedAt.IsZero())

	mr.FastForward(2 * time.Hour)
	_, err = cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestAvatarCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newCache(t)

	require.NoError(t, cache.Set(ctx, 1, &AvatarEntry{FilePath: "p"}))
	require.NoError(t, cache.Invalidate(ctx, 1))

	_, err := cache.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrMiss)
}
