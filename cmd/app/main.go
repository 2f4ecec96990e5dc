package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "crow-backend/docs"
	rcache "crow-backend/internal/cache/redis"
	"crow-backend/internal/common/config"
	"crow-backend/internal/common/logger"
	"crow-backend/internal/common/metrics"
	"crow-backend/internal/common/middleware"
	onboardingService "crow-backend/internal/features/onboarding/service"
	paymentHTTP "crow-backend/internal/features/payment/delivery/http"
	paymentService "crow-backend/internal/features/payment/service"
	profileHTTP "crow-backend/internal/features/profile/delivery/http"
	profileRepo "crow-backend/internal/features/profile/repository"
	profileMemory "crow-backend/internal/features/profile/repository/memory"
	profileRedis "crow-backend/internal/features/profile/repository/redis"
	profileService "crow-backend/internal/features/profile/service"
	webappHTTP "crow-backend/internal/features/webapp/delivery/http"
	"crow-backend/internal/platform/redis"
	"crow-backend/internal/platform/telegram"
	"crow-backend/internal/workers"
)

// @title           $crow Mini App API
// @version         1.0
// @description     Backend for the $crow Telegram Mini App: profiles, balances and Stars boost payments.

// @BasePath  /

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Optional Telegram Mini App init data. When present it must be valid and belong to the requested user_id.

// @tag.name profile
// @tag.description Profile storage and balance

// @tag.name payments
// @tag.description Boost invoices paid in Telegram Stars

// @tag.name webapp
// @tag.description Mini App pages and avatars

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("crow-backend", false)
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init("crow-backend", cfg.Debug)
	logger.Info().
		Str("store", cfg.Store.Driver).
		Bool("payments", cfg.PaymentsEnabled()).
		Msg("Starting $crow backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Profile store
	var (
		repo        profileRepo.ProfileRepository
		avatarCache webappHTTP.AvatarCache
		storeCheck  webappHTTP.Pinger
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("Using in-memory profile store, data is lost on restart")
		repo = profileMemory.NewProfileRepository()
	default:
		redisClient, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		repo = profileRedis.NewProfileRepository(redisClient.Client)
		avatarCache = rcache.NewAvatarCache(redisClient, cfg.Redis.AvatarCacheTTL)
		storeCheck = redisClient
		logger.Info().Msg("Redis connection established")
	}

	// Telegram
	botAPI, err := telegram.NewBotAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("Telegram bot authorized")
	tgClient := telegram.NewClient(botAPI, cfg.Telegram.BotToken, logger.Component("telegram"))

	// Services
	profileSvc := profileService.NewProfileService(repo, cfg.App.InitialBalance, logger.Component("profile"))
	onboardingSvc := onboardingService.NewOnboardingService(profileSvc, tgClient, cfg.App.PublicURL, logger.Component("onboarding"))
	paymentSvc := paymentService.NewPaymentService(profileSvc, tgClient, paymentService.Config{
		ProviderToken: cfg.Payments.ProviderToken,
		Currency:      cfg.Payments.Currency,
		PriceScale:    cfg.Payments.PriceScale,
		PublicURL:     cfg.App.PublicURL,
	}, logger.Component("payment"))

	if !cfg.PaymentsEnabled() {
		logger.Warn().Msg("PAYMENT_PROVIDER_TOKEN is not set, /request-boost will fail")
	}

	// HTTP
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	httpLogger := logger.Component("http")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(httpLogger))
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler(httpLogger))
	router.Use(middleware.Recovery(httpLogger))
	router.Use(cors.New(corsConfig(cfg.Server.Origins)))
	router.Use(middleware.InitData(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL))

	setupRoutes(router, profileSvc, paymentSvc, webappHTTP.Options{
		StaticDir: cfg.Server.StaticDir,
		Profiles:  profileSvc,
		Avatars:   tgClient,
		Cache:     avatarCache,
		Store:     storeCheck,
		Logger:    logger.Component("webapp"),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		workers.NewBotUpdatesWorker(botAPI, onboardingSvc, paymentSvc, cfg.Telegram.PollTimeout, logger.Component("bot")).Start(ctx)
	}()

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	wg.Wait()

	logger.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, profiles profileService.ProfileService, payments *paymentService.PaymentService, webapp webappHTTP.Options) {
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	profileHTTP.NewProfileHandler(profiles).RegisterRoutes(router)
	paymentHTTP.NewPaymentHandler(payments).RegisterRoutes(router)
	webappHTTP.NewWebAppHandler(webapp).RegisterRoutes(router)
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID", middleware.InitDataHeader}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
