package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"3000"`
		Origins         []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
		StaticDir       string        `env:"STATIC_DIR" envDefault:"public"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	}

	Store struct {
		// redis or memory; memory is meant for local runs only
		Driver string `env:"STORE_DRIVER" envDefault:"redis"`
	}

	Redis struct {
		URL            string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
		AvatarCacheTTL time.Duration `env:"AVATAR_CACHE_TTL" envDefault:"1h"`
	}

	Telegram struct {
		BotToken    string        `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
		Debug       bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
		PollTimeout int           `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"60"`
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	App struct {
		// Public base URL used for deep links, avatar links and invoice photos
		PublicURL      string `env:"APP_URL,required,notEmpty"`
		InitialBalance int64  `env:"INITIAL_BALANCE" envDefault:"1000"`
	}

	Payments struct {
		ProviderToken string `env:"PAYMENT_PROVIDER_TOKEN"`
		Currency      string `env:"PAYMENT_CURRENCY" envDefault:"XTR"`
		PriceScale    int    `env:"PAYMENT_PRICE_SCALE" envDefault:"100"`
	}
}

// Load reads .env (when present) and the process environment into Config.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.App.PublicURL = strings.TrimRight(cfg.App.PublicURL, "/")

	switch cfg.Store.Driver {
	case StoreDriverRedis, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.Payments.PriceScale <= 0 {
		return nil, fmt.Errorf("invalid PAYMENT_PRICE_SCALE: %d", cfg.Payments.PriceScale)
	}

	return cfg, nil
}

// PaymentsEnabled reports whether a payment provider credential is configured.
func (c *Config) PaymentsEnabled() bool {
	return c.Payments.ProviderToken != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
