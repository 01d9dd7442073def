package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	Environment   string `envconfig:"ENV" default:"development"`

	APIBaseURL    string        `envconfig:"API_BASE_URL" required:"true"`
	APIHMACSecret string        `envconfig:"API_HMAC_SECRET"`
	APIPlatform   string        `envconfig:"API_PLATFORM" default:"telegram"`
	APITimeout    time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	SiteURL string `envconfig:"SITE_URL"`

	RedisURL   string        `envconfig:"REDIS_URL"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	DBDSN          string `envconfig:"DB_DSN"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`
	SnapshotDir    string `envconfig:"SNAPSHOT_DIR"`

	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"6h"`
	Timezone        string        `envconfig:"TIMEZONE" default:"Europe/Moscow"`

	LogFile string `envconfig:"LOG_FILE"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые envconfig не проверяет сам
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TelegramToken) == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if err := checkURL("API_BASE_URL", c.APIBaseURL); err != nil {
		return err
	}
	if c.SiteURL != "" {
		if err := checkURL("SITE_URL", c.SiteURL); err != nil {
			return err
		}
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location часовой пояс, в котором считается "сегодня"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
