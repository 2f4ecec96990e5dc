package memory

import (
	"context"
	"sync"

	"crow-backend/internal/features/profile/models"
	"crow-backend/internal/features/profile/repository"
)

// profileRepository keeps profiles in process memory. Used for local runs
// with STORE_DRIVER=memory and in tests.
type profileRepository struct {
	mu       sync.RWMutex
	profiles map[int64]models.Profile
}

func NewProfileRepository() repository.ProfileRepository {
	return &profileRepository{profiles: make(map[int64]models.Profile)}
}

func (r *profileRepository) Get(_ context.Context, userID int64) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *profileRepository) Save(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = *profile
	return nil
}
