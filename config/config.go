package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPAddr string
	DBDriver string

	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	JWTSecret       string
	JWTIssuer       string
	TokenTTL        time.Duration
	ResetSessionTTL time.Duration

	UploadDir string

	ResendAPIKey string
	MailFrom     string
	AppBaseURL   string

	LogLevel logrus.Level
}

// Load reads .env when present and then the process environment.
func Load(logger logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.WithError(err).Debug("no .env file loaded")
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getenv("HTTP_ADDR"),
		DBDriver:      strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER"))),
		MongoURI:      getenv("MONGODB_URI"),
		MongoDatabase: getenv("MONGODB_DATABASE"),
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER"),
		UploadDir:     getenv("UPLOAD_DIR"),
		ResendAPIKey:  getenv("RESEND_API_KEY"),
		MailFrom:      getenv("MAIL_FROM"),
		AppBaseURL:    getenv("APP_BASE_URL"),
		LogLevel:      logrus.InfoLevel,
	}

	if cfg.HTTPAddr == "" {
		if port := getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverMongo
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "codebox"
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "codebox"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	var err error
	if cfg.TokenTTL, err = duration(getenv, "TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResetSessionTTL, err = duration(getenv, "RESET_SESSION_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func duration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
