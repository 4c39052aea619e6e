package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	StartingRating int
	LeagueWeeks    int
	GamesPerWeek   int
	PairingCrons   []string
	Timezone       string
	SlackWebhook   string
	AdminToken     string
	// RoundDebounce is how long after a round is generated further triggers
	// return that round instead of creating another. Zero disables it.
	RoundDebounce time.Duration
}

// MaxRounds bounds the number of rounds the league will ever create.
func (c *Config) MaxRounds() int {
	return c.LeagueWeeks * c.GamesPerWeek
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "ladder.db"),
		ServerPort:   getEnv("SERVER_PORT", "3000"),
		LogLevel:     getEnv("LOG_LEVEL", "debug"),
		PairingCrons: splitList(getEnv("PAIRING_CRON", "0 9 * * 3;0 9 * * 5")),
		Timezone:     getEnv("TZ", "Australia/Brisbane"),
		SlackWebhook: getEnv("SLACK_WEBHOOK_URL", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),
	}

	var err error
	if cfg.StartingRating, err = getEnvInt("STARTING_RATING", 1250); err != nil {
		return nil, err
	}
	if cfg.LeagueWeeks, err = getEnvInt("LEAGUE_WEEKS", 4); err != nil {
		return nil, err
	}
	if cfg.GamesPerWeek, err = getEnvInt("GAMES_PER_WEEK", 2); err != nil {
		return nil, err
	}
	if cfg.RoundDebounce, err = getEnvDuration("ROUND_DEBOUNCE", 10*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("starting_rating", cfg.StartingRating).
		Int("max_rounds", cfg.MaxRounds()).
		Strs("pairing_crons", cfg.PairingCrons).
		Str("timezone", cfg.Timezone).
		Dur("round_debounce", cfg.RoundDebounce).
		Bool("slack_enabled", cfg.SlackWebhook != "").
		Bool("admin_token_set", cfg.AdminToken != "").
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LeagueWeeks <= 0 {
		return fmt.Errorf("LEAGUE_WEEKS must be positive, got %d", c.LeagueWeeks)
	}
	if c.GamesPerWeek <= 0 {
		return fmt.Errorf("GAMES_PER_WEEK must be positive, got %d", c.GamesPerWeek)
	}
	if c.RoundDebounce < 0 {
		return fmt.Errorf("ROUND_DEBOUNCE must not be negative, got %s", c.RoundDebounce)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves TZ, falling back to UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
