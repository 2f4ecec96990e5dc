package workers

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	onboarding "crow-backend/internal/features/onboarding/service"
	"crow-backend/internal/features/payment/models"
)

type fakeSource struct {
	ch      chan tgbotapi.Update
	config  tgbotapi.UpdateConfig
	stopped bool
}

func (s *fakeSource) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	s.config = config
	return s.ch
}

func (s *fakeSource) StopReceivingUpdates() { s.stopped = true }

type recorder struct {
	mu      sync.Mutex
	starts  []onboarding.StartEvent
	checks  []models.PreCheckout
	credits []models.SuccessfulPayment
	block   chan struct{}
	err     error
}

func (r *recorder) HandleStart(_ context.Context, ev onboarding.StartEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, ev)
	return r.err
}

func (r *recorder) ApprovePreCheckout(_ context.Context, q models.PreCheckout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, q)
}

func (r *recorder) CreditPayment(_ context.Context, p models.SuccessfulPayment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credits = append(r.credits, p)
}

func startMessage(userID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID, FirstName: "John", LastName: "Doe", UserName: "jd"},
		Chat:     &tgbotapi.Chat{ID: userID + 1000},
		Text:     "/start",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
}

// run feeds updates through the worker and waits for it to drain.
func run(t *testing.T, rec *recorder, logger zerolog.Logger, updates ...tgbotapi.Update) *fakeSource {
	t.Helper()
	src := &fakeSource{ch: make(chan tgbotapi.Update, len(updates))}
	for _, u := range updates {
		src.ch <- u
	}
	close(src.ch)

	NewBotUpdatesWorker(src, rec, rec, 60, logger).Start(context.Background())
	return src
}

func TestWorker_PollConfig(t *testing.T) {
	src := run(t, &recorder{}, zerolog.Nop())
	assert.Equal(t, 60, src.config.Timeout)
	assert.Equal(t, []string{"message", "pre_checkout_query"}, src.config.AllowedUpdates)
}

func TestWorker_RoutesUpdates(t *testing.T) {
	rec := &recorder{}
	run(t, rec, zerolog.Nop(),
		tgbotapi.Update{UpdateID: 1, Message: startMessage(42)},
		tgbotapi.Update{UpdateID: 2, PreCheckoutQuery: &tgbotapi.PreCheckoutQuery{
			ID: "q1", From: &tgbotapi.User{ID: 42}, Currency: "XTR", TotalAmount: 500, InvoicePayload: "boost_5",
		}},
		tgbotapi.Update{UpdateID: 3, Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: 42},
			Chat: &tgbotapi.Chat{ID: 42},
			SuccessfulPayment: &tgbotapi.SuccessfulPayment{
				Currency: "XTR", TotalAmount: 500, InvoicePayload: "boost_5", TelegramPaymentChargeID: "ch_1",
			},
		}},
		tgbotapi.Update{UpdateID: 4, Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: 42}, Text: "hello"}},
		tgbotapi.Update{UpdateID: 5},
	)

	require.Len(t, rec.starts, 1)
	assert.Equal(t, onboarding.StartEvent{ChatID: 1042, UserID: 42, FirstName: "John", LastName: "Doe", Username: "jd"}, rec.starts[0])

	require.Len(t, rec.checks, 1)
	assert.Equal(t, models.PreCheckout{ID: "q1", UserID: 42, Payload: "boost_5", Currency: "XTR", TotalAmount: 500}, rec.checks[0])

	require.Len(t, rec.credits, 1)
	assert.Equal(t, models.SuccessfulPayment{
		UserID: 42, ChatID: 42, Payload: "boost_5", Currency: "XTR", TotalAmount: 500, ChargeID: "ch_1",
	}, rec.credits[0])
}

func TestWorker_StartErrorIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	rec := &recorder{err: errors.New("bot was blocked by the user")}
	run(t, rec, zerolog.New(buf), tgbotapi.Update{Message: startMessage(1)})

	assert.Contains(t, buf.String(), "Failed to handle /start")
	assert.Contains(t, buf.String(), "bot was blocked by the user")
}

func TestWorker_StopWaitsForInFlight(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	src := &fakeSource{ch: make(chan tgbotapi.Update, 1)}
	src.ch <- tgbotapi.Update{Message: startMessage(1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewBotUpdatesWorker(src, rec, rec, 60, zerolog.Nop()).Start(ctx)
		close(done)
	}()

	// let the worker pick the update up before cancelling
	require.Eventually(t, func() bool { return len(src.ch) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
		t.Fatal("worker returned before the in-flight update finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(rec.block)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, src.stopped)
	assert.Len(t, rec.starts, 1)
}
