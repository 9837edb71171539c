// Package dbconfig resolves the Postgres instance backing matches,
// tournaments and the outbox from DB_* environment variables.
package dbconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries the connection settings plus the pool limits the game
// services run with. The outbox worker holds a connection open across its
// drain transaction, so the pool needs headroom beyond the request path.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
}

// FromEnv builds a Config from DB_* variables, defaulting to a local
// development database.
func FromEnv() Config {
	return Config{
		Host:         stringEnv("DB_HOST", "localhost"),
		Port:         intEnv("DB_PORT", 5432),
		User:         stringEnv("DB_USER", "postgres"),
		Password:     stringEnv("DB_PASSWORD", "postgres"),
		Database:     stringEnv("DB_NAME", "finfootball"),
		SSLMode:      stringEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: intEnv("DB_MAX_IDLE_CONNS", 5),
	}
}

// DSN renders the config as a Postgres connection URL.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
