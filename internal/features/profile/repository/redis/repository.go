package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"crow-backend/internal/features/profile/models"
	"crow-backend/internal/features/profile/repository"
)

type profileRepository struct {
	client redis.UniversalClient
}

func NewProfileRepository(client redis.UniversalClient) repository.ProfileRepository {
	return &profileRepository{
		client: client,
	}
}

func key(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key(userID), err)
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key(userID), err)
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key(profile.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key(profile.UserID), err)
	}
	return nil
}
