// Package config loads the API server settings from the environment and the
// CLI settings from YAML.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Server struct {
	Port    string
	Storage string

	// Location is the zone "today" is computed in.
	Location *time.Location

	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Slack   ChannelConfig
	Discord ChannelConfig

	DeliveryQueue int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the libpq style URL accepted by both pgx and lib/pq.
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// RedisConfig is disabled when REDIS_HOST is unset.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// ChannelConfig is a chat sink. Both fields must be set for it to be used.
type ChannelConfig struct {
	BotToken  string
	ChannelID string
}

func (c ChannelConfig) Enabled() bool { return c.BotToken != "" && c.ChannelID != "" }

// LoadServer reads .env when present, then the process environment.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()
	return serverFromEnv(os.Getenv)
}

func serverFromEnv(getenv func(string) string) (*Server, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var errs []error

	cfg := &Server{
		Port:    get("PORT", "8080"),
		Storage: strings.ToLower(get("STORAGE", StoragePostgres)),
		DB: DBConfig{
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getenv("REDIS_HOST"),
			Port:     get("REDIS_PORT", "6379"),
			Password: getenv("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET"),
			Issuer: get("JWT_ISSUER", "itera-sync"),
		},
		Slack: ChannelConfig{
			BotToken:  getenv("SLACK_BOT_TOKEN"),
			ChannelID: getenv("SLACK_CHANNEL_ID"),
		},
		Discord: ChannelConfig{
			BotToken:  getenv("DISCORD_BOT_TOKEN"),
			ChannelID: getenv("DISCORD_CHANNEL_ID"),
		},
	}

	var err error
	if cfg.Redis.DB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
	}
	if cfg.DeliveryQueue, err = strconv.Atoi(get("DELIVERY_QUEUE_SIZE", "100")); err != nil {
		errs = append(errs, fmt.Errorf("DELIVERY_QUEUE_SIZE: %w", err))
	}
	if cfg.JWT.TokenTTL, err = time.ParseDuration(get("JWT_TTL", "72h")); err != nil {
		errs = append(errs, fmt.Errorf("JWT_TTL: %w", err))
	}
	if cfg.Location, err = time.LoadLocation(get("APP_TIMEZONE", "UTC")); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DB.User == "" || cfg.DB.Name == "" {
			errs = append(errs, errors.New("DB_USER and DB_NAME are required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage))
	}

	if cfg.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
