package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"crow-backend/internal/features/profile/models"
	profileservice "crow-backend/internal/features/profile/service"
)

const (
	WelcomeText      = "Привет! Добро пожаловать в наш проект."
	OpenWebAppButton = "Открыть мини-приложение"
)

// Bot is what onboarding needs from the Telegram client.
type Bot interface {
	SendWebAppButton(chatID int64, text, buttonText, url string) error
	ProfilePhotoFileID(userID int64) (string, error)
}

// StartEvent is a /start command received from a private chat.
type StartEvent struct {
	ChatID    int64
	UserID    int64
	FirstName string
	LastName  string
	Username  string
}

type OnboardingService struct {
	profiles  profileservice.ProfileService
	bot       Bot
	publicURL string
	logger    zerolog.Logger
}

func NewOnboardingService(profiles profileservice.ProfileService, bot Bot, publicURL string, logger zerolog.Logger) *OnboardingService {
	return &OnboardingService{
		profiles:  profiles,
		bot:       bot,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// HandleStart creates the profile when absent and replies with the Mini App
// button. Profile failures are logged only; the reply is always attempted.
func (s *OnboardingService) HandleStart(ctx context.Context, ev StartEvent) error {
	log := s.logger.With().Int64("user_id", ev.UserID).Int64("chat_id", ev.ChatID).Logger()

	_, err := s.profiles.Get(ctx, ev.UserID)
	switch {
	case errors.Is(err, profileservice.ErrProfileNotFound):
		s.createProfile(ctx, ev, log)
	case err != nil:
		log.Error().Err(err).Msg("Failed to load profile on start")
	}

	if err := s.bot.SendWebAppButton(ev.ChatID, WelcomeText, OpenWebAppButton, s.WebAppURL(ev.UserID)); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

func (s *OnboardingService) createProfile(ctx context.Context, ev StartEvent, log zerolog.Logger) {
	np := models.NewProfile{
		UserID:    ev.UserID,
		Name:      strings.TrimSpace(ev.FirstName + " " + ev.LastName),
		Username:  ev.Username,
		AvatarURL: s.avatarURL(ev.UserID, log),
	}

	if _, _, err := s.profiles.EnsureProfile(ctx, np); err != nil {
		log.Error().Err(err).Msg("Failed to create profile on start")
	}
}

// avatarURL returns the proxied avatar URL when the user has a profile photo.
// Lookup failures leave the avatar blank.
func (s *OnboardingService) avatarURL(userID int64, log zerolog.Logger) string {
	fileID, err := s.bot.ProfilePhotoFileID(userID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch profile photo")
		return ""
	}
	if fileID == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%d", s.publicURL, userID)
}

func (s *OnboardingService) WebAppURL(userID int64) string {
	return fmt.Sprintf("%s/webapp.html?user_id=%d", s.publicURL, userID)
}
