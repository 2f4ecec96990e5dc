package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"crow-backend/internal/common/metrics"
	"crow-backend/internal/features/payment/models"
	profileservice "crow-backend/internal/features/profile/service"
	"crow-backend/internal/platform/telegram"
)

const starsCurrency = "XTR"

var (
	ErrProviderNotConfigured = errors.New("payment provider token is not configured")
	ErrUnsupportedMultiplier = errors.New("unsupported boost multiplier")
	ErrInvalidRequest        = errors.New("invalid boost request")
	ErrInvoiceDispatch       = errors.New("invoice dispatch failed")
)

// Bot is what the payment flow needs from the Telegram client.
type Bot interface {
	SendInvoice(inv telegram.Invoice) error
	AnswerPreCheckout(queryID string, ok bool, errorMessage string) error
	SendText(chatID int64, text string) error
}

type Config struct {
	ProviderToken string
	Currency      string
	PriceScale    int
	PublicURL     string
}

type PaymentService struct {
	profiles profileservice.ProfileService
	bot      Bot
	cfg      Config
	logger   zerolog.Logger
}

func NewPaymentService(profiles profileservice.ProfileService, bot Bot, cfg Config, logger zerolog.Logger) *PaymentService {
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = starsCurrency
	}
	if cfg.PriceScale <= 0 {
		cfg.PriceScale = 100
	}
	return &PaymentService{
		profiles: profiles,
		bot:      bot,
		cfg:      cfg,
		logger:   logger,
	}
}

// RequestBoost sends a boost invoice to the user's private chat.
func (s *PaymentService) RequestBoost(ctx context.Context, req models.BoostRequest) error {
	if req.UserID <= 0 || req.Multiplier <= 0 || req.Price <= 0 || req.Price > models.MaxPrice {
		return ErrInvalidRequest
	}
	if _, ok := models.BonusFor(req.Multiplier); !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedMultiplier, req.Multiplier)
	}
	if s.cfg.ProviderToken == "" {
		return ErrProviderNotConfigured
	}

	if _, err := s.profiles.Get(ctx, req.UserID); err != nil {
		return err
	}

	amount := req.Price * s.cfg.PriceScale
	if amount/s.cfg.PriceScale != req.Price {
		return fmt.Errorf("%w: price %d overflows at scale %d", ErrInvalidRequest, req.Price, s.cfg.PriceScale)
	}

	payload := models.EncodePayload(req.Multiplier)
	inv := telegram.Invoice{
		ChatID:         req.UserID,
		Title:          models.InvoiceTitle,
		Description:    models.Description(req.Multiplier),
		Payload:        payload,
		ProviderToken:  s.providerToken(),
		StartParameter: payload,
		Currency:       s.cfg.Currency,
		Prices: []telegram.Price{{
			Label:  models.PriceLabel(req.Multiplier),
			Amount: amount,
		}},
		PhotoURL:    s.cfg.PublicURL + models.InvoicePhoto,
		PhotoWidth:  models.InvoicePhotoPx,
		PhotoHeight: models.InvoicePhotoPx,
	}

	if err := s.bot.SendInvoice(inv); err != nil {
		return fmt.Errorf("%w: %w", ErrInvoiceDispatch, err)
	}

	metrics.InvoicesSent.WithLabelValues(strconv.Itoa(req.Multiplier)).Inc()
	return nil
}

// providerToken is empty for Telegram Stars, which rejects provider tokens.
func (s *PaymentService) providerToken() string {
	if s.cfg.Currency == starsCurrency {
		return ""
	}
	return s.cfg.ProviderToken
}

// ApprovePreCheckout accepts every pre-checkout query.
func (s *PaymentService) ApprovePreCheckout(_ context.Context, q models.PreCheckout) {
	log := s.logger.With().Str("query_id", q.ID).Int64("user_id", q.UserID).Str("payload", q.Payload).Logger()

	if err := s.bot.AnswerPreCheckout(q.ID, true, ""); err != nil {
		log.Error().Err(err).Msg("Failed to answer pre-checkout query")
		return
	}
	log.Debug().Int("total_amount", q.TotalAmount).Str("currency", q.Currency).Msg("Pre-checkout approved")
}

// CreditPayment credits the bonus bought by a successful payment. Replayed
// payments are credited again.
func (s *PaymentService) CreditPayment(ctx context.Context, p models.SuccessfulPayment) {
	log := s.logger.With().
		Int64("user_id", p.UserID).
		Str("payload", p.Payload).
		Str("charge_id", p.ChargeID).
		Logger()

	multiplier, err := models.ParsePayload(p.Payload)
	if err != nil {
		metrics.PaymentsRejected.WithLabelValues("invalid_payload").Inc()
		log.Error().Err(err).Msg("Invalid payment payload")
		return
	}

	bonus, ok := models.BonusFor(multiplier)
	if !ok {
		metrics.PaymentsRejected.WithLabelValues("unknown_multiplier").Inc()
		log.Error().Int("multiplier", multiplier).Msg("Invalid boost multiplier")
		return
	}

	balance, err := s.profiles.AdjustBalance(ctx, p.UserID, bonus)
	if err != nil {
		reason := "store_error"
		if errors.Is(err, profileservice.ErrProfileNotFound) {
			reason = "profile_not_found"
		}
		metrics.PaymentsRejected.WithLabelValues(reason).Inc()
		log.Error().Err(err).Msg("Failed to credit payment")
		return
	}

	metrics.PaymentsCredited.WithLabelValues(strconv.Itoa(multiplier)).Inc()
	log.Info().
		Int("multiplier", multiplier).
		Int64("bonus", bonus).
		Int64("balance", balance).
		Int("total_amount", p.TotalAmount).
		Str("currency", p.Currency).
		Msg("Payment credited")

	chatID := p.ChatID
	if chatID == 0 {
		chatID = p.UserID
	}
	if err := s.bot.SendText(chatID, models.CreditMessage(multiplier, balance)); err != nil {
		log.Error().Err(err).Msg("Failed to send payment confirmation")
	}
}
