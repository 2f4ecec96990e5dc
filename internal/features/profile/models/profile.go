package models

import "time"

const DefaultLanguage = "ru"

// Profile is the persisted per-user record, keyed by Telegram user id.
// @Description Stored user profile
type Profile struct {
	UserID     int64     `json:"user_id" example:"42"`
	Name       string    `json:"name" example:"John Doe"`
	Username   string    `json:"username" example:"johndoe"`
	AvatarURL  string    `json:"avatar_url" example:"https://app.example.com/avatars/42"`
	Premium    bool      `json:"premium" example:"true"`
	Language   string    `json:"language" example:"en"`
	AccountAge int64     `json:"account_age" example:"50"`
	Bonus      int64     `json:"bonus" example:"100"`
	Total      int64     `json:"total" example:"425"`
	Balance    int64     `json:"balance" example:"1000"`
	Onboarded  bool      `json:"onboarded" example:"true"`
	CreatedAt  time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}

// NewProfile carries the fields known when a profile is first created.
type NewProfile struct {
	UserID    int64
	Name      string
	Username  string
	AvatarURL string
}

// ProfilePatch is a partial update. Nil fields keep the stored value; any
// non-nil field overrides it, zero values included.
type ProfilePatch struct {
	Premium    *bool   `json:"premium,omitempty"`
	Language   *string `json:"language,omitempty"`
	AccountAge *int64  `json:"account_age,omitempty"`
	Bonus      *int64  `json:"bonus,omitempty"`
	Total      *int64  `json:"total,omitempty"`
	Name       *string `json:"name,omitempty"`
	Username   *string `json:"username,omitempty"`
}

// New builds a profile with default values for the given identity.
func New(np NewProfile, balance int64, now time.Time) *Profile {
	return &Profile{
		UserID:    np.UserID,
		Name:      np.Name,
		Username:  np.Username,
		AvatarURL: np.AvatarURL,
		Language:  DefaultLanguage,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOnboarded reports whether the user went through the first-time flow.
// Records stored before the onboarded flag existed count when they already
// carry Mini App data.
func (p *Profile) IsOnboarded() bool {
	return p.Onboarded || p.Total != 0 || p.AccountAge != 0
}

// Apply merges the patch into p.
func (p *Profile) Apply(patch ProfilePatch) {
	if patch.Premium != nil {
		p.Premium = *patch.Premium
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.AccountAge != nil {
		p.AccountAge = *patch.AccountAge
	}
	if patch.Bonus != nil {
		p.Bonus = *patch.Bonus
	}
	if patch.Total != nil {
		p.Total = *patch.Total
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Username != nil {
		p.Username = *patch.Username
	}
}
