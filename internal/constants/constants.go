package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LeaderboardLimit   = 20
	RecentMatchesLimit = 50
	PlayerMatchesLimit = 30
)

const (
	ChampionBadge = "👑 Champion"
	DunceBadge    = "🤡 Dunce"
)
