package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the process needs at startup. A missing token,
// owner or channel id is a fatal condition, not a runtime error.
type Config struct {
	BotToken   string
	OwnerID    int64
	ChannelID  int64
	DBPath     string
	SessionTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}

	ownerIDStr := os.Getenv("OWNER_ID")
	if ownerIDStr == "" {
		return nil, fmt.Errorf("OWNER_ID environment variable is required")
	}
	ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("OWNER_ID must be a numeric Telegram user id: %w", err)
	}
	cfg.OwnerID = ownerID

	channelIDStr := os.Getenv("CHANNEL_ID")
	if channelIDStr == "" {
		return nil, fmt.Errorf("CHANNEL_ID environment variable is required")
	}
	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHANNEL_ID must be a numeric chat id: %w", err)
	}
	cfg.ChannelID = channelID

	cfg.DBPath = os.Getenv("DB_PATH")
	if cfg.DBPath == "" {
		cfg.DBPath = "poster.db"
	}

	cfg.SessionTTL = 60 * time.Minute
	if ttlStr := os.Getenv("SESSION_TTL_MINUTES"); ttlStr != "" {
		ttl, err := strconv.Atoi(ttlStr)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(ttl) * time.Minute
	}

	return cfg, nil
}
