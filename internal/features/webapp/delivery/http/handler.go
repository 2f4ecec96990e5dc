package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	rcache "crow-backend/internal/cache/redis"
	apperrors "crow-backend/internal/common/errors"
	"crow-backend/internal/common/middleware"
	profilehttp "crow-backend/internal/features/profile/delivery/http"
)

const (
	LivenessText  = "Сервер работает."
	FirstTimePage = "index.html"
	ReturningPage = "third.html"
	avatarMaxAge  = "public, max-age=86400"
)

type OnboardingChecker interface {
	IsOnboarded(ctx context.Context, userID int64) (bool, error)
}

// AvatarSource resolves and downloads Telegram profile photos.
type AvatarSource interface {
	ProfilePhotoFileID(userID int64) (string, error)
	FilePath(fileID string) (string, error)
	Download(ctx context.Context, filePath string) (*http.Response, error)
}

type AvatarCache interface {
	Get(ctx context.Context, userID int64) (*rcache.AvatarEntry, error)
	Set(ctx context.Context, userID int64, e *rcache.AvatarEntry) error
	Invalidate(ctx context.Context, userID int64) error
}

// Pinger reports backing store availability.
type Pinger interface {
	Check(ctx context.Context) error
}

type Options struct {
	StaticDir string
	Profiles  OnboardingChecker
	Avatars   AvatarSource
	Cache     AvatarCache // optional
	Store     Pinger      // optional
	Logger    zerolog.Logger
}

type WebAppHandler struct {
	opts Options
}

func NewWebAppHandler(opts Options) *WebAppHandler {
	return &WebAppHandler{opts: opts}
}

func (h *WebAppHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Liveness)
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/webapp.html", h.WebApp)
	router.GET("/avatars/:user_id", h.Avatar)
	router.NoRoute(h.Static)
}

// @Summary Liveness
// @Tags system
// @Produce plain
// @Success 200 {string} string "Сервер работает."
// @Router / [get]
func (h *WebAppHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, LivenessText)
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *WebAppHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Description Pings the profile store
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *WebAppHandler) Ready(c *gin.Context) {
	if h.opts.Store != nil {
		if err := h.opts.Store.Check(c.Request.Context()); err != nil {
			h.opts.Logger.Warn().Err(err).Msg("Readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Mini App entry page
// @Description Serves the returning-user page once the profile has been saved, the first-time page otherwise
// @Tags webapp
// @Produce html
// @Param user_id query int true "Telegram user ID"
// @Success 200 {string} string "HTML page"
// @Failure 400 {object} map[string]interface{} "User ID is required"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /webapp.html [get]
func (h *WebAppHandler) WebApp(c *gin.Context) {
	userID, ok := profilehttp.QueryUserID(c)
	if !ok {
		return
	}

	onboarded, err := h.opts.Profiles.IsOnboarded(c.Request.Context(), userID)
	if err != nil {
		middleware.Abort(c, apperrors.NewStoreError("load profile", err).WithUserID(userID))
		return
	}

	page := FirstTimePage
	if onboarded {
		page = ReturningPage
	}
	c.File(filepath.Join(h.opts.StaticDir, page))
}

// @Summary User avatar
// @Description Proxies the user's Telegram profile photo without exposing the bot token
// @Tags webapp
// @Produce image/jpeg
// @Param user_id path int true "Telegram user ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{} "Avatar not set"
// @Failure 500 {object} map[string]interface{} "Telegram API failure"
// @Router /avatars/{user_id} [get]
func (h *WebAppHandler) Avatar(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		middleware.Abort(c, apperrors.NewValidationError("user_id", "User ID must be an integer."))
		return
	}
	ctx := c.Request.Context()

	filePath := ""
	if h.opts.Cache != nil {
		if entry, err := h.opts.Cache.Get(ctx, userID); err == nil && entry.FilePath != "" {
			filePath = entry.FilePath
		} else if err != nil && !errors.Is(err, rcache.ErrMiss) {
			h.opts.Logger.Warn().Err(err).Int64("user_id", userID).Msg("Avatar cache read failed")
		}
	}

	if filePath == "" {
		fileID, err := h.opts.Avatars.ProfilePhotoFileID(userID)
		if err != nil {
			middleware.Abort(c, apperrors.NewTelegramAPIError("get profile photos", err).WithUserID(userID))
			return
		}
		if fileID == "" {
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeNotFound, "Avatar not set."))
			return
		}
		fp, err := h.opts.Avatars.FilePath(fileID)
		if err != nil {
			middleware.Abort(c, apperrors.NewTelegramAPIError("get file", err).WithUserID(userID))
			return
		}
		filePath = fp
		if h.opts.Cache != nil {
			if err := h.opts.Cache.Set(ctx, userID, &rcache.AvatarEntry{FileID: fileID, FilePath: filePath}); err != nil {
				h.opts.Logger.Warn().Err(err).Int64("user_id", userID).Msg("Avatar cache write failed")
			}
		}
	}

	resp, err := h.opts.Avatars.Download(ctx, filePath)
	if err != nil {
		middleware.Abort(c, apperrors.NewTelegramAPIError("download avatar", err).WithUserID(userID))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// photo changed or file path expired
		if h.opts.Cache != nil {
			_ = h.opts.Cache.Invalidate(ctx, userID)
		}
		middleware.Abort(c, apperrors.New(apperrors.ErrCodeNotFound, "Avatar not available."))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.Header("Cache-Control", avatarMaxAge)
	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, nil)
}

// Static serves Mini App assets from the static directory for any unmatched
// GET or HEAD request.
func (h *WebAppHandler) Static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		middleware.Abort(c, apperrors.New(apperrors.ErrCodeNotFound, "Not found."))
		return
	}

	name := filepath.Join(h.opts.StaticDir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
	f, err := os.Open(name)
	if err != nil {
		middleware.Abort(c, apperrors.New(apperrors.ErrCodeNotFound, "Not found."))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		middleware.Abort(c, apperrors.New(apperrors.ErrCodeNotFound, "Not found."))
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
