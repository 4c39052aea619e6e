package db

import (
	"time"
)

type LeagueState struct {
	ID              int64
	CurrentRoundID  *int64
	CurrentSeasonID *int64
}

type Match struct {
	ID           int64
	WinnerID     int64
	LoserID      int64
	WinnerScore  int64
	LoserScore   int64
	RatingChange int64
	LoserChange  int64
	RoundID      *int64
	CreatedAt    time.Time
}

type Pairing struct {
	ID        int64
	RoundID   int64
	Player1ID int64
	Player2ID int64
	Completed bool
	MatchID   *int64
	CreatedAt time.Time
}

type Player struct {
	ID        int64
	Name      string
	SlackID   *string
	Rating    int64
	Tier      string
	Wins      int64
	Losses    int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RatingHistory struct {
	ID         string
	PlayerID   int64
	Rating     int64
	MatchID    *int64
	RecordedAt time.Time
}

type Round struct {
	ID          int64
	SeasonID    *int64
	WeekStart   time.Time
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Season struct {
	ID           int64
	Name         string
	Slug         string
	Status       string
	StartDate    time.Time
	EndDate      *time.Time
	ChampionID   *int64
	TotalMatches int64
	TotalRounds  int64
	CreatedAt    time.Time
}
