// Package config loads the environment variables of the bot into a typed Config.
// Everything has a default except the discord token and the channel id.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"zoneboard/internal/board"
	"zoneboard/internal/nxtapi"
)

var ErrMissing = errors.New("missing required configuration")

type Config struct {
	// Discord
	DiscordToken string
	ChannelId    string

	// Remote API
	ApiBaseUrl           string
	HttpTimeout          time.Duration
	ApiRequestsPerMinute int

	// Update loop
	UpdateInterval time.Duration
	Timezone       string
	ZoneOwnership  board.OwnershipMode

	// Liveness server, empty disables it
	HealthAddr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the environment and applies defaults. Missing credentials
// are reported as ErrMissing
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DiscordToken = strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	cfg.ChannelId = strings.TrimSpace(os.Getenv("CHANNEL_ID"))

	cfg.ApiBaseUrl = getenv("API_BASE_URL", nxtapi.DEFAULT_BASE_URL)

	var err error
	if cfg.HttpTimeout, err = duration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpdateInterval, err = duration("UPDATE_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}

	cfg.ApiRequestsPerMinute = 30
	if v := os.Getenv("API_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid API_REQUESTS_PER_MINUTE %q: must be a positive integer", v)
		}
		cfg.ApiRequestsPerMinute = n
	}

	cfg.Timezone = getenv("TIMEZONE", board.DefaultTimezone)

	if cfg.ZoneOwnership, err = board.ParseOwnershipMode(os.Getenv("ZONE_OWNERSHIP")); err != nil {
		return nil, fmt.Errorf("invalid ZONE_OWNERSHIP: %w", err)
	}

	cfg.HealthAddr = ":8080"
	if v, ok := os.LookupEnv("HEALTH_ADDR"); ok {
		cfg.HealthAddr = strings.TrimSpace(v)
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getenv("LOG_FORMAT", "console"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have no default.
func (c *Config) Validate() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.ChannelId == "" {
		missing = append(missing, "CHANNEL_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if _, err := strconv.ParseUint(c.ChannelId, 10, 64); err != nil {
		return fmt.Errorf("invalid CHANNEL_ID %q: not a discord id", c.ChannelId)
	}
	return nil
}

func getenv(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration like 60s", key, v)
	}
	return d, nil
}
