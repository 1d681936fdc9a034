// internal/config/config.go

// Package config collects the server's environment configuration in
// one place. Values come from the environment (godotenv loads a .env
// file in the entrypoints); Postgres and Redis keep their own
// connection variables in their packages.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/KoubaPetr/kabo/internal/game"
)

type Config struct {
	// TCPAddr is the raw-socket game port; HTTPAddr serves the user
	// API, the leaderboard, and the websocket binding.
	TCPAddr  string
	HTTPAddr string

	// HumanSeats is how many remote participants a table waits for;
	// BotSeats pads the table with greedy bots.
	HumanSeats int
	BotSeats   int

	LogLevel string

	// StatsEnabled wires Postgres career stats; LeaderboardEnabled
	// wires the Redis leaderboard. Either can run without the other.
	StatsEnabled       bool
	LeaderboardEnabled bool
}

func Load() (*Config, error) {
	cfg := &Config{
		TCPAddr:            getEnv("KABO_TCP_ADDR", ":5555"),
		HTTPAddr:           getEnv("KABO_HTTP_ADDR", ":8080"),
		HumanSeats:         getEnvInt("KABO_HUMAN_SEATS", 1),
		BotSeats:           getEnvInt("KABO_BOT_SEATS", 1),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		StatsEnabled:       getEnvBool("KABO_STATS_ENABLED", false),
		LeaderboardEnabled: getEnvBool("KABO_LEADERBOARD_ENABLED", false),
	}

	total := cfg.HumanSeats + cfg.BotSeats
	if total < game.MinPlayers || total > game.MaxPlayers {
		return nil, fmt.Errorf("KABO_HUMAN_SEATS + KABO_BOT_SEATS must be %d-%d, got %d",
			game.MinPlayers, game.MaxPlayers, total)
	}
	if cfg.HumanSeats < 1 {
		return nil, fmt.Errorf("KABO_HUMAN_SEATS must be at least 1, got %d", cfg.HumanSeats)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
