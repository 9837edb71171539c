package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/finfootball/go/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds everything the server process needs beyond DB_* settings:
// the game rule set plus broker and listener endpoints.
type Config struct {
	Game models.GameConfig `yaml:"game"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Outbox struct {
		PollIntervalMs int64 `yaml:"poll_interval_ms"`
		BatchSize      int32 `yaml:"batch_size"`
	} `yaml:"outbox"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the yaml config file, falling back to defaults when the
// file is absent so a bare checkout still runs.
func loadConfig(path string) (*Config, error) {
	config := &Config{Game: models.DefaultGameConfig()}
	config.Server.Port = getEnv("PORT", "8080")
	config.NATS.URL = getEnv("NATS_URL", "nats://localhost:4222")
	config.Outbox.PollIntervalMs = int64(getEnvAsInt("OUTBOX_POLL_INTERVAL_MS", 1000))
	config.Outbox.BatchSize = int32(getEnvAsInt("OUTBOX_BATCH_SIZE", 100))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return config, nil
}

// OutboxPollInterval returns the outbox poll interval as a duration.
func (c *Config) OutboxPollInterval() time.Duration {
	return time.Duration(c.Outbox.PollIntervalMs) * time.Millisecond
}
