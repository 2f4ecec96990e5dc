package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"crow-backend/internal/common/errors"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"
	InitDataQuery  = "init_data"
)

// InitData validates Telegram Mini App init-data when the client sends it,
// either in the X-Telegram-Init-Data header or the init_data query parameter.
// Requests without init-data pass through untouched; requests with invalid
// init-data are rejected with 401. A zero ttl disables the expiry check.
func InitData(token string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			raw = c.Query(InitDataQuery)
		}
		if raw == "" {
			c.Next()
			return
		}

		if err := initdata.Validate(raw, token, ttl); err != nil {
			Abort(c, errors.Wrap(err, errors.ErrCodeUnauthorized, "Unauthorized: invalid init data"))
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			Abort(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Failed to parse init data"))
			return
		}

		if parsed.User.ID != 0 {
			c.Set(UserIDKey, parsed.User.ID)
		}

		c.Next()
	}
}

// AuthorizeUser checks that the user id a request acts on matches the signed
// init-data user, when init-data was supplied. It aborts with 403 on mismatch.
func AuthorizeUser(c *gin.Context, userID int64) bool {
	signed := getUserID(c)
	if signed == 0 || signed == userID {
		return true
	}
	Abort(c, errors.NewForbiddenError("user_id does not match init data"))
	return false
}
