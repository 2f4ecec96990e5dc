package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crow-backend/internal/features/payment/models"
	profilemodels "crow-backend/internal/features/profile/models"
	"crow-backend/internal/features/profile/repository/memory"
	profileservice "crow-backend/internal/features/profile/service"
	"crow-backend/internal/platform/telegram"
)

type textMessage struct {
	chatID int64
	text   string
}

type fakeBot struct {
	invoices   []telegram.Invoice
	answered   []string
	texts      []textMessage
	invoiceErr error
	answerErr  error
}

func (b *fakeBot) SendInvoice(inv telegram.Invoice) error {
	b.invoices = append(b.invoices, inv)
	return b.invoiceErr
}

func (b *fakeBot) AnswerPreCheckout(queryID string, ok bool, _ string) error {
	if ok {
		b.answered = append(b.answered, queryID)
	}
	return b.answerErr
}

func (b *fakeBot) SendText(chatID int64, text string) error {
	b.texts = append(b.texts, textMessage{chatID, text})
	return nil
}

type fixture struct {
	svc      *PaymentService
	bot      *fakeBot
	profiles profileservice.ProfileService
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	profiles := profileservice.NewProfileService(memory.NewProfileRepository(), 1000, zerolog.Nop())
	bot := &fakeBot{}
	return &fixture{
		svc:      NewPaymentService(profiles, bot, cfg, zerolog.New(logs)),
		bot:      bot,
		profiles: profiles,
		logs:     logs,
	}
}

func (f *fixture) seed(t *testing.T, userID int64) {
	t.Helper()
	_, err := f.profiles.Save(context.Background(), userID, profilemodels.ProfilePatch{})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, userID int64) int64 {
	t.Helper()
	p, err := f.profiles.Get(context.Background(), userID)
	require.NoError(t, err)
	return p.Balance
}

var starsConfig = Config{ProviderToken: "stars", Currency: "XTR", PriceScale: 100, PublicURL: "https://app.example/"}

func TestRequestBoost_SendsInvoice(t *testing.T) {
	f := newFixture(t, starsConfig)
	f.seed(t, 42)

	require.NoError(t, f.svc.RequestBoost(context.Background(), models.BoostRequest{UserID: 42, Multiplier: 5, Price: 3}))

	require.Len(t, f.bot.invoices, 1)
	assert.Equal(t, telegram.Invoice{
		ChatID:         42,
		Title:          "Boost Purchase",
		Description:    "Purchase Boost x5",
		Payload:        "boost_5",
		ProviderToken:  "",
		StartParameter: "boost_5",
		Currency:       "XTR",
		Prices:         []telegram.Price{{Label: "5x Boost", Amount: 300}},
		PhotoURL:       "https://app.example/logo.png",
		PhotoWidth:     100,
		PhotoHeight:    100,
	}, f.bot.invoices[0])
}

func TestRequestBoost_FiatCurrencyKeepsProviderToken(t *testing.T) {
	f := newFixture(t, Config{ProviderToken: "provider:123", Currency: "USD", PriceScale: 100, PublicURL: "https://app.example"})
	f.seed(t, 1)

	require.NoError(t, f.svc.RequestBoost(context.Background(), models.BoostRequest{UserID: 1, Multiplier: 2, Price: 1}))
	require.Len(t, f.bot.invoices, 1)
	assert.Equal(t, "provider:123", f.bot.invoices[0].ProviderToken)
	assert.Equal(t, "USD", f.bot.invoices[0].Currency)
}

func TestRequestBoost_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t, starsConfig)
		for _, req := range []models.BoostRequest{
			{Multiplier: 2, Price: 1},
			{UserID: 1, Price: 1},
			{UserID: 1, Multiplier: 2},
			{UserID: -1, Multiplier: 2, Price: 1},
			{UserID: 1, Multiplier: 2, Price: models.MaxPrice + 1},
		} {
			assert.ErrorIs(t, f.svc.RequestBoost(ctx, req), ErrInvalidRequest)
		}
		assert.Empty(t, f.bot.invoices)
	})

	t.Run("unsupported multiplier", func(t *testing.T) {
		f := newFixture(t, starsConfig)
		f.seed(t, 1)
		err := f.svc.RequestBoost(ctx, models.BoostRequest{UserID: 1, Multiplier: 3, Price: 1})
		assert.ErrorIs(t, err, ErrUnsupportedMultiplier)
		assert.Empty(t, f.bot.invoices)
	})

	t.Run("provider not configured", func(t *testing.T) {
		f := newFixture(t, Config{PublicURL: "https://app.example"})
		f.seed(t, 1)
		err := f.svc.RequestBoost(ctx, models.BoostRequest{UserID: 1, Multiplier: 2, Price: 1})
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("profile absent", func(t *testing.T) {
		f := newFixture(t, starsConfig)
		err := f.svc.RequestBoost(ctx, models.BoostRequest{UserID: 1, Multiplier: 2, Price: 1})
		assert.ErrorIs(t, err, profileservice.ErrProfileNotFound)
		assert.Empty(t, f.bot.invoices)
	})

	t.Run("scaled price overflows", func(t *testing.T) {
		f := newFixture(t, Config{ProviderToken: "stars", Currency: "XTR", PriceScale: math.MaxInt / 10, PublicURL: "https://app.example"})
		f.seed(t, 1)
		err := f.svc.RequestBoost(ctx, models.BoostRequest{UserID: 1, Multiplier: 2, Price: 100})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Empty(t, f.bot.invoices)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		f := newFixture(t, starsConfig)
		f.seed(t, 1)
		f.bot.invoiceErr = errors.New("Bad Request: chat not found")
		err := f.svc.RequestBoost(ctx, models.BoostRequest{UserID: 1, Multiplier: 2, Price: 1})
		assert.ErrorIs(t, err, ErrInvoiceDispatch)
		assert.ErrorIs(t, err, f.bot.invoiceErr)
	})
}

func TestApprovePreCheckout(t *testing.T) {
	f := newFixture(t, starsConfig)
	f.svc.ApprovePreCheckout(context.Background(), models.PreCheckout{ID: "q1", UserID: 1, Payload: "anything"})
	assert.Equal(t, []string{"q1"}, f.bot.answered)

	f.bot.answerErr = errors.New("query is too old")
	f.svc.ApprovePreCheckout(context.Background(), models.PreCheckout{ID: "q2"})
	assert.Contains(t, f.logs.String(), "Failed to answer pre-checkout query")
}

func TestCreditPayment_BonusTable(t *testing.T) {
	tests := []struct {
		payload string
		credit  int64
	}{
		{"boost_2", 200},
		{"boost_5", 500},
		{"boost_10", 1000},
		{"boost_3", 0},
		{"boost_", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			f := newFixture(t, starsConfig)
			f.seed(t, 42)

			f.svc.CreditPayment(context.Background(), models.SuccessfulPayment{
				UserID: 42, ChatID: 42, Payload: tt.payload, Currency: "XTR", ChargeID: "ch_1",
			})

			assert.Equal(t, 1000+tt.credit, f.balance(t, 42))
			if tt.credit == 0 {
				assert.Contains(t, f.logs.String(), `"level":"error"`)
				assert.Empty(t, f.bot.texts)
				return
			}
			require.Len(t, f.bot.texts, 1)
			assert.Equal(t, int64(42), f.bot.texts[0].chatID)
			assert.Contains(t, f.bot.texts[0].text, "$crow")
		})
	}
}

func TestCreditPayment_ConfirmationText(t *testing.T) {
	f := newFixture(t, starsConfig)
	f.seed(t, 7)

	f.svc.CreditPayment(context.Background(), models.SuccessfulPayment{UserID: 7, Payload: "boost_2"})

	require.Len(t, f.bot.texts, 1)
	assert.Equal(t, textMessage{7, "Boost x2 успешно приобретён! Ваш новый баланс: 1200 $crow"}, f.bot.texts[0])
}

func TestCreditPayment_ReplayCreditsTwice(t *testing.T) {
	f := newFixture(t, starsConfig)
	f.seed(t, 7)

	p := models.SuccessfulPayment{UserID: 7, ChatID: 7, Payload: "boost_5", ChargeID: "same"}
	f.svc.CreditPayment(context.Background(), p)
	f.svc.CreditPayment(context.Background(), p)

	assert.Equal(t, int64(2000), f.balance(t, 7))
}

func TestCreditPayment_UnknownUser(t *testing.T) {
	f := newFixture(t, starsConfig)

	f.svc.CreditPayment(context.Background(), models.SuccessfulPayment{UserID: 9, Payload: "boost_2"})

	assert.Contains(t, f.logs.String(), "Failed to credit payment")
	assert.Empty(t, f.bot.texts)
	_, err := f.profiles.Get(context.Background(), 9)
	assert.ErrorIs(t, err, profileservice.ErrProfileNotFound)
}
