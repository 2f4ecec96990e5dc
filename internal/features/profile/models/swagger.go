package models

// SaveUserDataRequest is the body of POST /save-user-data.
type SaveUserDataRequest struct {
	UserID *int64 `json:"user_id" binding:"required,gt=0" example:"42"`
	ProfilePatch
}

// UpdateBalanceRequest is the body of POST /update-balance.
type UpdateBalanceRequest struct {
	UserID *int64 `json:"user_id" binding:"required,gt=0" example:"42"`
	Amount *int64 `json:"amount" binding:"required" example:"-150"`
}

// BalanceResponse represents the balance after an adjustment
type BalanceResponse struct {
	Balance int64 `json:"balance" example:"850"`
}

// MessageResponse is the plain confirmation some endpoints return.
type MessageResponse struct {
	Message string `json:"message" example:"User data saved."`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`
	Error   struct {
		Code    string `json:"code" example:"USER_NOT_FOUND"`
		Message string `json:"message" example:"User not found."`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
