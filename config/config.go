package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardsrv/drawpoker/game"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port string

	// Session scheduling
	TurnTimeout time.Duration
	Debug       bool

	// Default table parameters
	Table game.Config
}

// Load reads the configuration from environment variables, with an
// optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// only fail when the file exists but could not be read
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	table := game.DefaultConfig()
	var err error
	if table.MinPlayers, err = getEnvInt("TABLE_MIN_PLAYERS", table.MinPlayers); err != nil {
		return nil, err
	}
	if table.MaxPlayers, err = getEnvInt("TABLE_MAX_PLAYERS", table.MaxPlayers); err != nil {
		return nil, err
	}
	if table.StartingChips, err = getEnvInt("TABLE_STARTING_CHIPS", table.StartingChips); err != nil {
		return nil, err
	}
	if table.Ante, err = getEnvInt("TABLE_ANTE", table.Ante); err != nil {
		return nil, err
	}
	if table.MaxDrawCount, err = getEnvInt("TABLE_MAX_DRAW_COUNT", table.MaxDrawCount); err != nil {
		return nil, err
	}
	table.AceLowStraights = getEnvBool("TABLE_ACE_LOW_STRAIGHTS", false)

	timeoutSecs, err := getEnvInt("TURN_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "7777"),
		TurnTimeout: time.Duration(timeoutSecs) * time.Second,
		Debug:       getEnvBool("DEBUG", false),
		Table:       table,
	}

	if err := cfg.Table.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
