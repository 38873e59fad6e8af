package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds every setting of the application.
type Config struct {
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"8080"`

	JWTSecretKey      string        `env:"JWT_SECRET_KEY"`
	AdminUsername     string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`

	UploadDir       string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads/"`
	MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"5242880"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// UseR2 reports whether logos go to Cloudflare R2.
// Without R2 files are written to the local UploadDir.
func (c *Config) UseR2() bool {
	return c.R2AccountID != ""
}

// AuthEnabled reports whether mutating routes require an admin token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecretKey != ""
}

// Load reads the configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the current environment only, without .env.
func Parse() (*Config, error) {
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
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	if c.AuthEnabled() && c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH must be set when JWT_SECRET_KEY is set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}

	if c.UseR2() {
		if c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" || c.R2BucketName == "" || c.R2PublicBaseURL == "" {
			return errors.New("R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL are required when R2_ACCOUNT_ID is set")
		}
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	if !strings.HasSuffix(c.UploadURLPrefix, "/") {
		c.UploadURLPrefix += "/"
	}

	return nil
}
