package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

const (
	InvoiceTitle   = "Boost Purchase"
	InvoicePhoto   = "/logo.png"
	InvoicePhotoPx = 100
)

var ErrInvalidPayload = errors.New("invalid boost payload")

var payloadPattern = regexp.MustCompile(`boost_(\d+)`)

// bonusTable maps a purchased multiplier to the balance credit it buys.
var bonusTable = map[int]int64{
	2:  200,
	5:  500,
	10: 1000,
}

func EncodePayload(multiplier int) string {
	return fmt.Sprintf("boost_%d", multiplier)
}

// ParsePayload extracts the multiplier from an invoice payload.
func ParsePayload(payload string) (int, error) {
	m := payloadPattern.FindStringSubmatch(payload)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPayload, payload)
	}
	multiplier, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPayload, payload)
	}
	return multiplier, nil
}

// BonusFor returns the credit for a multiplier and whether it is sold.
func BonusFor(multiplier int) (int64, bool) {
	bonus, ok := bonusTable[multiplier]
	return bonus, ok
}

func SupportedMultipliers() []int {
	out := make([]int, 0, len(bonusTable))
	for m := range bonusTable {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

func Description(multiplier int) string {
	return fmt.Sprintf("Purchase Boost x%d", multiplier)
}

func PriceLabel(multiplier int) string {
	return fmt.Sprintf("%dx Boost", multiplier)
}

func CreditMessage(multiplier int, balance int64) string {
	return fmt.Sprintf("Boost x%d успешно приобретён! Ваш новый баланс: %d $crow", multiplier, balance)
}

// MaxPrice caps the requested price before it is scaled to the smallest unit.
const MaxPrice = 100000

// RequestBoostBody is the body of POST /request-boost.
type RequestBoostBody struct {
	UserID     *int64 `json:"user_id" binding:"required,gt=0" example:"42"`
	Multiplier *int   `json:"multiplier" binding:"required,boost_multiplier" example:"5"`
	Price      *int   `json:"price" binding:"required,gt=0,lte=100000" example:"5"`
}

type BoostRequest struct {
	UserID     int64
	Multiplier int
	Price      int
}

// PreCheckout is a pre-checkout query received from Telegram.
type PreCheckout struct {
	ID          string
	UserID      int64
	Payload     string
	Currency    string
	TotalAmount int
}

// SuccessfulPayment is the service message Telegram sends after a charge.
type SuccessfulPayment struct {
	UserID      int64
	ChatID      int64
	Payload     string
	Currency    string
	TotalAmount int
	ChargeID    string
}
