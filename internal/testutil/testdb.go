package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewDB opens a migrated SQLite database in a temp directory that is removed
// when the test ends.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "ladder.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return sqlDB
}

// Config returns a league configuration suitable for tests.
func Config() *config.Config {
	return &config.Config{
		DBPath:         "unused",
		StartingRating: 1250,
		LeagueWeeks:    4,
		GamesPerWeek:   2,
		PairingCrons:   []string{"0 9 * * 3", "0 9 * * 5"},
		Timezone:       "Australia/Brisbane",
	}
}
