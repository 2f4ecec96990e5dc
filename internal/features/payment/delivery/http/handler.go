package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "crow-backend/internal/common/errors"
	"crow-backend/internal/common/middleware"
	"crow-backend/internal/common/validation"
	"crow-backend/internal/features/payment/models"
	"crow-backend/internal/features/payment/service"
	profileservice "crow-backend/internal/features/profile/service"
)

// BoostRequester is the part of the payment service the handler calls.
type BoostRequester interface {
	RequestBoost(ctx context.Context, req models.BoostRequest) error
}

type PaymentHandler struct {
	service BoostRequester
}

func NewPaymentHandler(service BoostRequester) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

func validMultiplier(fl validator.FieldLevel) bool {
	_, ok := models.BonusFor(int(fl.Field().Int()))
	return ok
}

func (h *PaymentHandler) RegisterRoutes(router gin.IRouter) {
	validation.MustRegister("boost_multiplier", validMultiplier)
	router.POST("/request-boost", h.RequestBoost)
}

// @Summary Request boost
// @Description Sends a Telegram Stars invoice for a boost to the user's chat
// @Tags payments
// @Accept json
// @Produce plain
// @Param request body models.RequestBoostBody true "Boost to buy"
// @Success 200 {string} string "Invoice sent."
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Provider not configured or invoice dispatch failed"
// @Router /request-boost [post]
func (h *PaymentHandler) RequestBoost(c *gin.Context) {
	var body models.RequestBoostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.Abort(c, bindError(err))
		return
	}
	if !middleware.AuthorizeUser(c, *body.UserID) {
		return
	}

	req := models.BoostRequest{UserID: *body.UserID, Multiplier: *body.Multiplier, Price: *body.Price}
	if err := h.service.RequestBoost(c.Request.Context(), req); err != nil {
		middleware.Abort(c, mapError(err, req.UserID))
		return
	}

	c.String(http.StatusOK, "Invoice sent.")
}

func bindError(err error) *apperrors.AppError {
	if fe, ok := validation.FieldError(err); ok {
		if fe.Tag() == "boost_multiplier" {
			return apperrors.NewValidationError("multiplier",
				fmt.Sprintf("must be one of %v", models.SupportedMultipliers()))
		}
		return apperrors.New(apperrors.ErrCodeValidation, "Invalid request.").WithDetail("field", fe.Field())
	}
	return apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request.")
}

func mapError(err error, userID int64) *apperrors.AppError {
	switch {
	case errors.Is(err, profileservice.ErrProfileNotFound):
		return apperrors.NewUserNotFoundError(userID)
	case errors.Is(err, service.ErrInvalidRequest):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid request.")
	case errors.Is(err, service.ErrUnsupportedMultiplier):
		return apperrors.NewValidationError("multiplier", fmt.Sprintf("must be one of %v", models.SupportedMultipliers()))
	case errors.Is(err, service.ErrProviderNotConfigured):
		return apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "Payment provider is not configured")
	case errors.Is(err, service.ErrInvoiceDispatch):
		return apperrors.NewTelegramAPIError("send invoice", err).WithUserID(userID)
	default:
		return apperrors.NewStoreError("request boost", err).WithUserID(userID)
	}
}
