// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// JWT Configuration. JWT_SECRET_KEY has no default on purpose; the server
	// refuses to start without an externally supplied secret.
	JWTSecretKey         string        `mapstructure:"JWT_SECRET_KEY"`
	JWTIssuer            string        `mapstructure:"JWT_ISSUER"`
	JWTAccessTokenExpiry time.Duration `mapstructure:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
	BcryptCost           int           `mapstructure:"BCRYPT_COST"`

	// Google OAuth Configuration
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`

	// OAuth state cookie + exchange settings
	OAuthStateCookieName     string        `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthCookieMaxAgeMinutes int           `mapstructure:"OAUTH_COOKIE_MAX_AGE_MINUTES"`
	OAuthCookieDomain        string        `mapstructure:"OAUTH_COOKIE_DOMAIN"`
	OAuthCookieSecure        bool          `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthCookieHTTPOnly      bool          `mapstructure:"OAUTH_COOKIE_HTTP_ONLY"`
	OAuthCookieSameSite      string        `mapstructure:"OAUTH_COOKIE_SAME_SITE"`
	OAuthExchangeTimeout     time.Duration `mapstructure:"OAUTH_EXCHANGE_TIMEOUT_SECONDS"`

	// Front-end base URL for the OAuth success redirect and CORS.
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Rate limiting for credential endpoints. A rate of 0 disables the limiter.
	AuthRateLimitRPS   float64 `mapstructure:"AUTH_RATE_LIMIT_RPS"`
	AuthRateLimitBurst int     `mapstructure:"AUTH_RATE_LIMIT_BURST"`

	// Cron Jobs
	StrategyExpiryJobSchedule string `mapstructure:"STRATEGY_EXPIRY_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "strategy_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_ISSUER", "strategy_backend")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 60*24)
	v.SetDefault("BCRYPT_COST", 0) // 0 -> bcrypt.DefaultCost

	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_COOKIE_MAX_AGE_MINUTES", 10)
	v.SetDefault("OAUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_COOKIE_SECURE", true)
	v.SetDefault("OAUTH_COOKIE_HTTP_ONLY", true)
	v.SetDefault("OAUTH_COOKIE_SAME_SITE", "Lax")
	v.SetDefault("OAUTH_EXCHANGE_TIMEOUT_SECONDS", 10)

	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5.0)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)

	v.SetDefault("STRATEGY_EXPIRY_JOB_SCHEDULE", "@daily")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute
	cfg.OAuthExchangeTimeout = time.Duration(v.GetInt("OAUTH_EXCHANGE_TIMEOUT_SECONDS")) * time.Second

	// DSN for GORM constructed from individual DB_* params; the DB_SOURCE env
	// var (URL form) is left to external migration tooling.
	cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: JWT_SECRET_KEY is not set. A signing secret must be supplied externally")
	}
	if strings.TrimSpace(cfg.FrontendURL) == "" {
		return nil, fmt.Errorf("FATAL: FRONTEND_URL is not set. It is required for the OAuth success redirect")
	}
	if cfg.GoogleOAuthEnabled() && strings.TrimSpace(cfg.GoogleRedirectURI) == "" {
		return nil, fmt.Errorf("FATAL: GOOGLE_REDIRECT_URI is not set but Google OAuth credentials are configured")
	}

	return &cfg, nil
}

// GoogleOAuthEnabled reports whether Google login is configured.
func (c *Config) GoogleOAuthEnabled() bool {
	return strings.TrimSpace(c.GoogleClientID) != "" && strings.TrimSpace(c.GoogleClientSecret) != ""
}
