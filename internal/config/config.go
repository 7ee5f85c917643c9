package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string
	Port           string
	LogFormat      string
	RequestTimeout time.Duration
	BcryptCost     int
	AllowedOrigins string
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Stats          StatsConfig
	RateLimit      RateLimitConfig
	Seed           SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string
}

// RedisConfig holds the optional stats cache address
type RedisConfig struct {
	Addr string
}

// StatsConfig holds statistics cache settings
type StatsConfig struct {
	CacheTTL        time.Duration
	RefreshSchedule string
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	GeneralMax int
	AuthMax    int
	Window     time.Duration
}

// SeedConfig holds the development administrator
type SeedConfig struct {
	Username string
	Email    string
	Password string
}

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const devJWTSecret = "dev_secret_change_me"

// sharedEnv is read without a prefix
type sharedEnv struct {
	AppMode              string        `envconfig:"APP_MODE" default:"dev"`
	Port                 string        `envconfig:"PORT" default:"3000"`
	LogFormat            string        `envconfig:"LOG_FORMAT" default:"text"`
	RequestTimeout       time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	BcryptCost           int           `envconfig:"BCRYPT_COST" default:"12"`
	AllowedOrigins       string        `envconfig:"ALLOWED_ORIGINS"`
	RedisAddr            string        `envconfig:"REDIS_ADDR"`
	StatsCacheTTL        time.Duration `envconfig:"STATS_CACHE_TTL" default:"5m"`
	StatsRefreshSchedule string        `envconfig:"STATS_REFRESH_SCHEDULE" default:"@every 5m"`
	RateLimitMax         int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	AuthRateLimitMax     int           `envconfig:"AUTH_RATE_LIMIT_MAX" default:"5"`
	RateLimitWindow      time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	SeedUsername         string        `envconfig:"SEED_ADMIN_USERNAME" default:"admin"`
	SeedEmail            string        `envconfig:"SEED_ADMIN_EMAIL" default:"admin@company.com"`
	SeedPassword         string        `envconfig:"SEED_ADMIN_PASSWORD"`
}

// modeEnv is read with the DEV or PROD prefix
type modeEnv struct {
	DBDriver  string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost    string `envconfig:"DB_HOST" default:"localhost"`
	DBPort    string `envconfig:"DB_PORT"`
	DBUser    string `envconfig:"DB_USER" default:"root"`
	DBPass    string `envconfig:"DB_PASS"`
	DBName    string `envconfig:"DB_NAME" default:"employee_portal"`
	JWTSecret string `envconfig:"JWT_SECRET"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; the environment wins over it
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only
func FromEnv() (*Config, error) {
	var shared sharedEnv
	if err := envconfig.Process("", &shared); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	appMode := strings.TrimSpace(shared.AppMode)
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	var mode modeEnv
	if err := envconfig.Process(strings.ToUpper(appMode), &mode); err != nil {
		return nil, fmt.Errorf("read %s environment: %w", appMode, err)
	}

	cfg := &Config{
		AppMode:        appMode,
		Port:           shared.Port,
		LogFormat:      strings.ToLower(shared.LogFormat),
		RequestTimeout: shared.RequestTimeout,
		BcryptCost:     shared.BcryptCost,
		AllowedOrigins: shared.AllowedOrigins,
		Database: DatabaseConfig{
			Driver:   strings.ToLower(mode.DBDriver),
			Host:     mode.DBHost,
			Port:     mode.DBPort,
			User:     mode.DBUser,
			Password: mode.DBPass,
			DBName:   mode.DBName,
		},
		JWT:   JWTConfig{Secret: mode.JWTSecret},
		Redis: RedisConfig{Addr: shared.RedisAddr},
		Stats: StatsConfig{
			CacheTTL:        shared.StatsCacheTTL,
			RefreshSchedule: shared.StatsRefreshSchedule,
		},
		RateLimit: RateLimitConfig{
			GeneralMax: shared.RateLimitMax,
			AuthMax:    shared.AuthRateLimitMax,
			Window:     shared.RateLimitWindow,
		},
		Seed: SeedConfig{
			Username: shared.SeedUsername,
			Email:    shared.SeedEmail,
			Password: shared.SeedPassword,
		},
	}

	if cfg.Database.Port == "" {
		cfg.Database.Port = defaultPort(cfg.Database.Driver)
	}
	if cfg.JWT.Secret == "" && cfg.IsDev() {
		cfg.JWT.Secret = devJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or memory)", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("PROD_JWT_SECRET must be provided")
	}
	if c.IsProd() && c.JWT.Secret == devJWTSecret {
		return errors.New("PROD_JWT_SECRET must not use the development default")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.BcryptCost)
	}
	if c.RateLimit.GeneralMax <= 0 || c.RateLimit.AuthMax <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return c.AllowedOrigins
}
