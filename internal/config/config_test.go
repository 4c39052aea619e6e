package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "STARTING_RATING", "LEAGUE_WEEKS", "GAMES_PER_WEEK", "PAIRING_CRON", "TZ", "SLACK_WEBHOOK_URL", "ADMIN_TOKEN", "ROUND_DEBOUNCE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "ladder.db", cfg.DBPath)
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, 1250, cfg.StartingRating)
	assert.Equal(t, 8, cfg.MaxRounds())
	assert.Equal(t, []string{"0 9 * * 3", "0 9 * * 5"}, cfg.PairingCrons)
	assert.Equal(t, "Australia/Brisbane", cfg.Timezone)
	assert.Empty(t, cfg.SlackWebhook)
	assert.Equal(t, 10*time.Minute, cfg.RoundDebounce)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STARTING_RATING", "1000")
	t.Setenv("LEAGUE_WEEKS", "6")
	t.Setenv("GAMES_PER_WEEK", "3")
	t.Setenv("PAIRING_CRON", " 0 8 * * 1 ; ;0 8 * * 4")
	t.Setenv("ROUND_DEBOUNCE", "0s")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.StartingRating)
	assert.Equal(t, 18, cfg.MaxRounds())
	assert.Equal(t, []string{"0 8 * * 1", "0 8 * * 4"}, cfg.PairingCrons)
	assert.Zero(t, cfg.RoundDebounce)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAGUE_WEEKS", "four")

	_, err := Load(zerolog.Nop())
	assert.ErrorContains(t, err, "LEAGUE_WEEKS")

	t.Setenv("LEAGUE_WEEKS", "")
	t.Setenv("ROUND_DEBOUNCE", "soon")
	_, err = Load(zerolog.Nop())
	assert.ErrorContains(t, err, "ROUND_DEBOUNCE")
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBPath: "x.db", LeagueWeeks: 0, GamesPerWeek: 2}
	assert.Error(t, cfg.Validate())

	cfg.LeagueWeeks = 1
	assert.NoError(t, cfg.Validate())

	cfg.RoundDebounce = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.RoundDebounce = 0
	cfg.GamesPerWeek = -1
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg := &Config{DBPath: "x.db", LeagueWeeks: 1, GamesPerWeek: 1}
	loc, err := cfg.Location()
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Australia/Brisbane"
	loc, err = cfg.Location()
	assert.NoError(t, err)
	assert.Equal(t, "Australia/Brisbane", loc.String())

	cfg.Timezone = "Mars/Olympus_Mons"
	assert.ErrorContains(t, cfg.Validate(), "TZ")
}
