package workers

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"crow-backend/internal/common/metrics"
	onboarding "crow-backend/internal/features/onboarding/service"
	"crow-backend/internal/features/payment/models"
)

var allowedUpdates = []string{"message", "pre_checkout_query"}

// UpdateSource is satisfied by *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type StartHandler interface {
	HandleStart(ctx context.Context, ev onboarding.StartEvent) error
}

type PaymentHandler interface {
	ApprovePreCheckout(ctx context.Context, q models.PreCheckout)
	CreditPayment(ctx context.Context, p models.SuccessfulPayment)
}

// BotUpdatesWorker long-polls Telegram and routes updates to the services.
type BotUpdatesWorker struct {
	source      UpdateSource
	start       StartHandler
	payments    PaymentHandler
	pollTimeout int
	logger      zerolog.Logger
}

func NewBotUpdatesWorker(source UpdateSource, start StartHandler, payments PaymentHandler, pollTimeout int, logger zerolog.Logger) *BotUpdatesWorker {
	return &BotUpdatesWorker{
		source:      source,
		start:       start,
		payments:    payments,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Start polls until ctx is cancelled or the update channel closes, then waits
// for in-flight updates to finish.
func (w *BotUpdatesWorker) Start(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = w.pollTimeout
	cfg.AllowedUpdates = allowedUpdates

	updates := w.source.GetUpdatesChan(cfg)
	w.logger.Info().Strs("allowed_updates", allowedUpdates).Msg("Starting bot updates worker...")

	// in-flight updates outlive the poll loop
	workCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		w.logger.Info().Msg("Bot updates worker stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping bot updates worker...")
			w.source.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.processUpdate(workCtx, update)
			}()
		}
	}
}

func (w *BotUpdatesWorker) processUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Int("update_id", update.UpdateID).Str("panic", fmt.Sprintf("%v", r)).Msg("Panic while processing update")
		}
	}()

	switch {
	case update.PreCheckoutQuery != nil:
		metrics.BotUpdates.WithLabelValues("pre_checkout_query").Inc()
		q := update.PreCheckoutQuery
		pc := models.PreCheckout{
			ID:          q.ID,
			Payload:     q.InvoicePayload,
			Currency:    q.Currency,
			TotalAmount: q.TotalAmount,
		}
		if q.From != nil {
			pc.UserID = q.From.ID
		}
		w.payments.ApprovePreCheckout(ctx, pc)

	case update.Message != nil:
		w.processMessage(ctx, update.Message)

	default:
		metrics.BotUpdates.WithLabelValues("ignored").Inc()
	}
}

func (w *BotUpdatesWorker) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		metrics.BotUpdates.WithLabelValues("ignored").Inc()
		return
	}

	if sp := msg.SuccessfulPayment; sp != nil {
		metrics.BotUpdates.WithLabelValues("successful_payment").Inc()
		w.payments.CreditPayment(ctx, models.SuccessfulPayment{
			UserID:      msg.From.ID,
			ChatID:      msg.Chat.ID,
			Payload:     sp.InvoicePayload,
			Currency:    sp.Currency,
			TotalAmount: sp.TotalAmount,
			ChargeID:    sp.TelegramPaymentChargeID,
		})
		return
	}

	if msg.IsCommand() && msg.Command() == "start" {
		metrics.BotUpdates.WithLabelValues("start").Inc()
		ev := onboarding.StartEvent{
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.UserName,
		}
		if err := w.start.HandleStart(ctx, ev); err != nil {
			w.logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("Failed to handle /start")
		}
		return
	}

	metrics.BotUpdates.WithLabelValues("ignored").Inc()
}
