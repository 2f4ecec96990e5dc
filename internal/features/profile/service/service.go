package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"crow-backend/internal/common/metrics"
	"crow-backend/internal/features/profile/models"
	"crow-backend/internal/features/profile/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService owns profile lifecycle: creation, merge and balance moves.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	IsOnboarded(ctx context.Context, userID int64) (bool, error)
	EnsureProfile(ctx context.Context, np models.NewProfile) (*models.Profile, bool, error)
	Save(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.Profile, error)
	AdjustBalance(ctx context.Context, userID int64, delta int64) (int64, error)
}

type profileService struct {
	repo           repository.ProfileRepository
	initialBalance int64
	logger         zerolog.Logger
	now            func() time.Time
}

func NewProfileService(repo repository.ProfileRepository, initialBalance int64, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:           repo,
		initialBalance: initialBalance,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile %d: %w", userID, err)
	}
	return p, nil
}

// IsOnboarded reports whether the user has completed the first-time flow,
// that is a profile exists and has been saved from the Mini App.
func (s *profileService) IsOnboarded(ctx context.Context, userID int64) (bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.IsOnboarded(), nil
}

func (s *profileService) EnsureProfile(ctx context.Context, np models.NewProfile) (*models.Profile, bool, error) {
	existing, err := s.Get(ctx, np.UserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	p := models.New(np, s.initialBalance, s.now())
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create profile %d: %w", np.UserID, err)
	}

	metrics.ProfilesCreated.WithLabelValues("start").Inc()
	s.logger.Info().Int64("user_id", np.UserID).Msg("Profile created")
	return p, true, nil
}

// Save creates the profile with the initial balance when absent, otherwise
// merges the patch into the stored record. A patch that changes nothing
// leaves the stored record untouched, updated_at included.
func (s *profileService) Save(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.Profile, error) {
	now := s.now()

	p, err := s.Get(ctx, userID)
	created := false
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = models.New(models.NewProfile{UserID: userID}, s.initialBalance, now)
		created = true
	case err != nil:
		return nil, err
	}

	before := *p
	p.Apply(patch)
	p.Onboarded = true
	if !created && *p == before {
		return p, nil
	}
	p.UpdatedAt = now

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile %d: %w", userID, err)
	}

	if created {
		metrics.ProfilesCreated.WithLabelValues("save").Inc()
		s.logger.Info().Int64("user_id", userID).Msg("Profile created from save")
	}
	return p, nil
}

// AdjustBalance adds delta to the stored balance. Negative results are allowed.
func (s *profileService) AdjustBalance(ctx context.Context, userID int64, delta int64) (int64, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	p.Balance += delta
	p.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, p); err != nil {
		return 0, fmt.Errorf("save balance %d: %w", userID, err)
	}

	s.logger.Debug().Int64("user_id", userID).Int64("delta", delta).Int64("balance", p.Balance).Msg("Balance adjusted")
	return p.Balance, nil
}
