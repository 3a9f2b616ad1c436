package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Invite       InviteConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"staffing-board"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	ClientURL             string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes   int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	PasswordResetTTLMinutes int    `env:"AUTH_PASSWORD_RESET_TTL_MINUTES" envDefault:"30"`
	BcryptCost              int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	PasswordMinLength       int    `env:"AUTH_PASSWORD_MIN_LENGTH" envDefault:"8"`
}

// InviteConfig controls recruiter invitations.
type InviteConfig struct {
	TTL time.Duration `env:"INVITE_TTL" envDefault:"48h"`
}

// NotificationConfig controls the outbound notification queue.
type NotificationConfig struct {
	EmailFrom      string        `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@example.com"`
	WebhookURL     string        `env:"NOTIFY_WEBHOOK_URL"`
	WebhookTimeout time.Duration `env:"NOTIFY_WEBHOOK_TIMEOUT" envDefault:"5s"`
	OutboxKey      string        `env:"NOTIFY_OUTBOX_KEY" envDefault:"notifications:outbox"`
	OutboxBuffer   int           `env:"NOTIFY_OUTBOX_BUFFER" envDefault:"256"`
	PollTimeout    time.Duration `env:"NOTIFY_POLL_TIMEOUT" envDefault:"5s"`
}

// RateLimitConfig throttles public auth and invite endpoints per client IP.
type RateLimitConfig struct {
	PublicPerMinute int `env:"RATELIMIT_PUBLIC_PER_MINUTE" envDefault:"20"`
	PublicBurst     int `env:"RATELIMIT_PUBLIC_BURST" envDefault:"10"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Invite.TTL <= 0 {
		return errors.New("INVITE_TTL must be positive")
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		return errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if c.Auth.PasswordResetTTLMinutes <= 0 {
		return errors.New("AUTH_PASSWORD_RESET_TTL_MINUTES must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost {
		c.Auth.BcryptCost = bcrypt.MinCost
	}
	if c.Auth.BcryptCost > bcrypt.MaxCost {
		c.Auth.BcryptCost = bcrypt.MaxCost
	}
	if c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	c.App.ClientURL = strings.TrimRight(c.App.ClientURL, "/")
	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the JWT lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// PasswordResetTTL returns the lifetime of a password reset token.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}
