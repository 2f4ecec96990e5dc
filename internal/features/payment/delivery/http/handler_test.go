package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crow-backend/internal/common/middleware"
	"crow-backend/internal/features/payment/models"
	"crow-backend/internal/features/payment/service"
	profileservice "crow-backend/internal/features/profile/service"
)

type stubRequester struct {
	calls []models.BoostRequest
	err   error
}

func (s *stubRequester) RequestBoost(_ context.Context, req models.BoostRequest) error {
	s.calls = append(s.calls, req)
	return s.err
}

func setup(err error) (*gin.Engine, *stubRequester) {
	gin.SetMode(gin.TestMode)
	stub := &stubRequester{err: err}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(zerolog.Nop()))
	NewPaymentHandler(stub).RegisterRoutes(r)
	return r, stub
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/request-boost", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestBoost_OK(t *testing.T) {
	r, stub := setup(nil)

	rr := post(r, `{"user_id":42,"multiplier":5,"price":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Invoice sent.", rr.Body.String())
	assert.Equal(t, []models.BoostRequest{{UserID: 42, Multiplier: 5, Price: 3}}, stub.calls)
}

func TestRequestBoost_BadInput(t *testing.T) {
	for _, body := range []string{
		`{"multiplier":5,"price":3}`,
		`{"user_id":42,"price":3}`,
		`{"user_id":42,"multiplier":5}`,
		`{"user_id":42,"multiplier":5,"price":0}`,
		`{"user_id":42,"multiplier":5,"price":100001}`,
		`{"user_id":42,"multiplier":5,"price":9223372036854775807}`,
		`{"user_id":0,"multiplier":5,"price":1}`,
		`{"user_id":42,"multiplier":3,"price":1}`,
		`{"user_id":42,"multiplier":"5","price":1}`,
		`not json`,
	} {
		t.Run(body, func(t *testing.T) {
			r, stub := setup(nil)
			rr := post(r, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, stub.calls)
		})
	}
}

func TestRequestBoost_UnsupportedMultiplierNamesChoices(t *testing.T) {
	r, _ := setup(nil)

	rr := post(r, `{"user_id":42,"multiplier":7,"price":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "[2 5 10]")
}

func TestRequestBoost_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{profileservice.ErrProfileNotFound, http.StatusNotFound},
		{service.ErrInvalidRequest, http.StatusBadRequest},
		{fmt.Errorf("%w: 3", service.ErrUnsupportedMultiplier), http.StatusBadRequest},
		{service.ErrProviderNotConfigured, http.StatusInternalServerError},
		{fmt.Errorf("%w: %w", service.ErrInvoiceDispatch, errors.New("chat not found")), http.StatusInternalServerError},
		{errors.New("redis down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r, _ := setup(tt.err)
			rr := post(r, `{"user_id":42,"multiplier":2,"price":1}`)
			assert.Equal(t, tt.status, rr.Code)
			assert.NotContains(t, rr.Body.String(), "chat not found")
			assert.NotContains(t, rr.Body.String(), "redis down")
		})
	}
}
