package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	rplatform "crow-backend/internal/platform/redis"
)

// ErrMiss is returned by Get when nothing is cached for the user.
var ErrMiss = errors.New("avatar cache miss")

// AvatarEntry stores the resolved Telegram file_path of a user's profile photo.
type AvatarEntry struct {
	FileID    string    `json:"file_id"`
	FilePath  string    `json:"file_path"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AvatarCache provides Redis-based caching for user avatar file paths.
type AvatarCache struct {
	client *rplatform.Client
	ttl    time.Duration
}

func NewAvatarCache(client *rplatform.Client, ttl time.Duration) *AvatarCache {
	return &AvatarCache{client: client, ttl: ttl}
}

func (c *AvatarCache) key(userID int64) string {
	return fmt.Sprintf("avatar:%d", userID)
}

func (c *AvatarCache) Get(ctx context.Context, userID int64) (*AvatarEntry, error) {
	v, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var e AvatarEntry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Set stores the avatar entry with TTL.
func (c *AvatarCache) Set(ctx context.Context, userID int64, e *AvatarEntry) error {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), b, c.ttl).Err()
}

func (c *AvatarCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
