package repository

import (
	"context"
	"errors"

	"crow-backend/internal/features/profile/models"
)

// ErrNotFound is returned by Get when no profile is stored for the id.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository stores one profile per user. Writes to the same key are
// last-write-wins; no cross-key transactions are offered.
type ProfileRepository interface {
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}
