package config

import (
	"time"

	"boosterClubAPI/internal/qr"
)

type Config struct {
	Environment string      `koanf:"environment" validate:"oneof=development test staging production"`
	HTTP        HTTP        `koanf:"http"`
	Database    Database    `koanf:"database"`
	Auth        Auth        `koanf:"auth"`
	Metrics     Metrics     `koanf:"metrics"`
	Log         Log         `koanf:"log"`
	QR          qr.Settings `koanf:"qr"`
}

type HTTP struct {
	Port               string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimitPerSecond float64       `koanf:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int           `koanf:"rate_limit_burst" validate:"min=1"`
	PprofSecret        string        `koanf:"pprof_secret"`
}

type Database struct {
	URL         string `koanf:"url" validate:"required"`
	MaxConns    int32  `koanf:"max_conns" validate:"min=1"`
	MinConns    int32  `koanf:"min_conns" validate:"min=0,ltefield=MaxConns"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// Auth needs at least one way to verify admin tokens.
type Auth struct {
	ClerkSecretKey string   `koanf:"clerk_secret_key" validate:"required_without=AdminJWTSecret"`
	AdminJWTSecret string   `koanf:"admin_jwt_secret" validate:"omitempty,min=32"`
	AdminSubjects  []string `koanf:"admin_subjects"`
}

type Metrics struct {
	User string `koanf:"user"`
	Pass string `koanf:"pass" validate:"required_with=User"`
}

type Log struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"min=1"`
	MaxBackups int    `koanf:"max_backups" validate:"min=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"min=0"`
}

// Defaults returns the values used for anything no layer sets.
func Defaults() Config {
	return Config{
		Environment: "development",
		HTTP: HTTP{
			Port:               "3333",
			ReadTimeout:        5 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			RateLimitPerSecond: 5,
			RateLimitBurst:     30,
		},
		Database: Database{
			MaxConns: 25,
			MinConns: 5,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}
