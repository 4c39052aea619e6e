package domain

import (
	"time"
)

type Player struct {
	ID        int
	Name      string
	SlackID   string
	Rating    int
	Tier      string // cached from Rating, recomputed on every change
	Wins      int
	Losses    int
	Active    bool // inactive players are kept but never paired
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Player) TotalGames() int {
	return p.Wins + p.Losses
}

type Match struct {
	ID          int
	WinnerID    int
	LoserID     int
	WinnerScore int
	LoserScore  int

	// RatingChange is the winner's gain; LoserChange is the loser's signed delta.
	// They are rounded independently and need not be negatives of each other.
	RatingChange int
	LoserChange  int

	RoundID   *int
	CreatedAt time.Time
}

type MatchSummary struct {
	Match
	WinnerName string
	LoserName  string
}

type RatingHistory struct {
	ID         string // nanoid
	PlayerID   int
	Rating     int
	MatchID    *int // nil for season resets
	RecordedAt time.Time
}

type RoundStatus string

const (
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

type Round struct {
	ID          int
	SeasonID    *int
	WeekStart   time.Time
	Status      RoundStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Pairing struct {
	ID        int
	RoundID   int
	Player1ID int
	Player2ID int
	Completed bool
	MatchID   *int
	CreatedAt time.Time
}

func (p Pairing) Involves(a, b int) bool {
	return (p.Player1ID == a && p.Player2ID == b) || (p.Player1ID == b && p.Player2ID == a)
}

type PairingDetail struct {
	Pairing
	Player1Name   string
	Player1Rating int
	Player2Name   string
	Player2Rating int
}

type SeasonStatus string

const (
	SeasonActive    SeasonStatus = "active"
	SeasonCompleted SeasonStatus = "completed"
)

type Season struct {
	ID           int
	Name         string
	Slug         string
	Status       SeasonStatus
	StartDate    time.Time
	EndDate      *time.Time
	ChampionID   *int
	TotalMatches int
	TotalRounds  int
	CreatedAt    time.Time
}

// LeagueState holds the explicit pointers to the active round and season.
type LeagueState struct {
	CurrentRoundID  *int
	CurrentSeasonID *int
}

type LeaderboardEntry struct {
	Rank   int
	Player Player
	Badge  string
}
