package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	JWTSecret      string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
	ResetTokenTTL  time.Duration

	// lenient or strict, see policy.ParseMode
	OrderStatusMode string

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

// Load reads the environment, after .env when one exists. Missing secrets are
// fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logrus.Fatal(err)
	}
	return cfg
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:           getenv("DB_DSN"),
		ServerPort:      getenv("SERVER_PORT"),
		SessionSecret:   getenv("SESSION_SECRET"),
		JWTSecret:       getenv("JWT_SECRET"),
		OrderStatusMode: getenv("ORDER_STATUS_MODE"),
		LogLevel:        getenv("LOG_LEVEL"),
		LogFormat:       getenv("LOG_FORMAT"),
		AdminEmail:      getenv("ADMIN_EMAIL"),
		AdminPassword:   getenv("ADMIN_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.OrderStatusMode == "" {
		cfg.OrderStatusMode = "lenient"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	var err error
	if cfg.AccessTokenTTL, err = duration(getenv, "ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = duration(getenv, "SESSION_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = duration(getenv, "RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

// Logger returns a logrus logger configured from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
