package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "crow-backend/internal/common/errors"
	"crow-backend/internal/common/middleware"
	"crow-backend/internal/common/validation"
	"crow-backend/internal/features/profile/models"
	"crow-backend/internal/features/profile/service"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/save-user-data", h.SaveUserData)
	router.GET("/user-data", h.GetUserData)
	router.POST("/update-balance", h.UpdateBalance)
}

// @Summary Save user data
// @Description Creates the profile with the initial balance when absent, otherwise merges the given fields. Present fields always override stored values.
// @Tags profile
// @Accept json
// @Produce plain
// @Param request body models.SaveUserDataRequest true "Profile fields"
// @Success 200 {string} string "User data saved."
// @Failure 400 {object} models.ErrorResponse "User ID is required"
// @Failure 403 {object} models.ErrorResponse "Init data belongs to another user"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /save-user-data [post]
func (h *ProfileHandler) SaveUserData(c *gin.Context) {
	var req models.SaveUserDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, bindError(err))
		return
	}
	if !middleware.AuthorizeUser(c, *req.UserID) {
		return
	}

	if _, err := h.service.Save(c.Request.Context(), *req.UserID, req.ProfilePatch); err != nil {
		middleware.Abort(c, apperrors.NewStoreError("save user data", err).WithUserID(*req.UserID))
		return
	}

	c.String(http.StatusOK, "User data saved.")
}

// @Summary Get user data
// @Description Returns the stored profile
// @Tags profile
// @Produce json
// @Param user_id query int true "Telegram user ID"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse "User ID is required"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /user-data [get]
func (h *ProfileHandler) GetUserData(c *gin.Context) {
	userID, ok := QueryUserID(c)
	if !ok {
		return
	}
	if !middleware.AuthorizeUser(c, userID) {
		return
	}

	profile, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		abortProfileError(c, "get user data", userID, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Update balance
// @Description Adds amount (may be negative) to the user's balance
// @Tags profile
// @Accept json
// @Produce json
// @Param request body models.UpdateBalanceRequest true "Balance delta"
// @Success 200 {object} models.BalanceResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /update-balance [post]
func (h *ProfileHandler) UpdateBalance(c *gin.Context) {
	var req models.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, bindError(err))
		return
	}
	if !middleware.AuthorizeUser(c, *req.UserID) {
		return
	}

	balance, err := h.service.AdjustBalance(c.Request.Context(), *req.UserID, *req.Amount)
	if err != nil {
		abortProfileError(c, "update balance", *req.UserID, err)
		return
	}

	c.JSON(http.StatusOK, models.BalanceResponse{Balance: balance})
}

// QueryUserID reads the user_id query parameter, aborting with 400 when it
// is missing or not a positive integer.
func QueryUserID(c *gin.Context) (int64, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		middleware.Abort(c, apperrors.NewValidationError("user_id", "User ID is required."))
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		middleware.Abort(c, apperrors.NewValidationError("user_id", "User ID must be a positive integer."))
		return 0, false
	}
	return userID, true
}

// bindError maps a binding failure to a 400: a missing required field
// becomes a validation error naming it, anything else a bad request.
func bindError(err error) *apperrors.AppError {
	if fe, ok := validation.FieldError(err); ok {
		field := fe.Field()
		if field == "UserID" {
			return apperrors.NewValidationError("user_id", "User ID is required.")
		}
		return apperrors.NewValidationError(strings.ToLower(field), "is required")
	}
	return apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request.")
}

func abortProfileError(c *gin.Context, op string, userID int64, err error) {
	if errors.Is(err, service.ErrProfileNotFound) {
		middleware.Abort(c, apperrors.NewUserNotFoundError(userID))
		return
	}
	middleware.Abort(c, apperrors.NewStoreError(op, err).WithUserID(userID))
}
