package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB holds the Postgres connection settings.
type DB struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Pass     string `env:"DB_PASS"`
	Name     string `env:"DB_NAME" envDefault:"attendees"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

// URL builds the postgres connection string, escaping credentials.
func (d DB) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Pass),
		d.Host,
		d.Port,
		url.QueryEscape(d.Name),
		url.QueryEscape(d.SSLMode),
	)
}

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Timezone        string        `env:"TIMEZONE" envDefault:"UTC"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"attendees.db"`
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	HistoryPageSize int           `env:"HISTORY_PAGE_SIZE" envDefault:"200"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DB              DB

	location *time.Location
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

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
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (postgres|sqlite)", c.StoreDriver)
	}

	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("HISTORY_PAGE_SIZE must be positive, got %d", c.HistoryPageSize)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	return nil
}

// Location is the server/display timezone used for day boundaries.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
