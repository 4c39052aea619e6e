package server

import (
	"time"

	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/service"
)

type playerResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	SlackID   string    `json:"slack_id,omitempty"`
	Rating    int       `json:"rating"`
	Tier      string    `json:"tier"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type leaderboardEntryResponse struct {
	Rank   int            `json:"rank"`
	Badge  string         `json:"badge,omitempty"`
	Player playerResponse `json:"player"`
}

type matchResponse struct {
	ID           int       `json:"id"`
	WinnerID     int       `json:"winner_id"`
	WinnerName   string    `json:"winner_name,omitempty"`
	LoserID      int       `json:"loser_id"`
	LoserName    string    `json:"loser_name,omitempty"`
	WinnerScore  int       `json:"winner_score"`
	LoserScore   int       `json:"loser_score"`
	RatingChange int       `json:"rating_change"`
	LoserChange  int       `json:"loser_change"`
	RoundID      *int      `json:"round_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type recordMatchResponse struct {
	Match     matchResponse  `json:"match"`
	Winner    playerResponse `json:"winner"`
	Loser     playerResponse `json:"loser"`
	PairingID *int           `json:"pairing_id,omitempty"`
}

type historyResponse struct {
	ID         string    `json:"id"`
	Rating     int       `json:"rating"`
	MatchID    *int      `json:"match_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type roundResponse struct {
	ID          int        `json:"id"`
	SeasonID    *int       `json:"season_id,omitempty"`
	WeekStart   time.Time  `json:"week_start"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type pairingResponse struct {
	ID            int    `json:"id"`
	Player1ID     int    `json:"player1_id"`
	Player1Name   string `json:"player1_name"`
	Player1Rating int    `json:"player1_rating"`
	Player2ID     int    `json:"player2_id"`
	Player2Name   string `json:"player2_name"`
	Player2Rating int    `json:"player2_rating"`
	Completed     bool   `json:"completed"`
	MatchID       *int   `json:"match_id,omitempty"`
}

type roundViewResponse struct {
	Round    *roundResponse    `json:"round"`
	Pairings []pairingResponse `json:"pairings"`
}

type generateRoundResponse struct {
	roundViewResponse
	Number          int             `json:"number,omitempty"`
	Dropped         *playerResponse `json:"dropped,omitempty"`
	LeagueCompleted bool            `json:"league_completed"`
	Reused          bool            `json:"reused"`
}

type seasonResponse struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ChampionID   *int       `json:"champion_id,omitempty"`
	TotalMatches int        `json:"total_matches"`
	TotalRounds  int        `json:"total_rounds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toPlayerResponse(p *domain.Player) playerResponse {
	return playerResponse{
		ID:        p.ID,
		Name:      p.Name,
		SlackID:   p.SlackID,
		Rating:    p.Rating,
		Tier:      p.Tier,
		Wins:      p.Wins,
		Losses:    p.Losses,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}

func toMatchResponse(m *domain.Match) matchResponse {
	return matchResponse{
		ID:           m.ID,
		WinnerID:     m.WinnerID,
		LoserID:      m.LoserID,
		WinnerScore:  m.WinnerScore,
		LoserScore:   m.LoserScore,
		RatingChange: m.RatingChange,
		LoserChange:  m.LoserChange,
		RoundID:      m.RoundID,
		CreatedAt:    m.CreatedAt,
	}
}

func toMatchSummaries(matches []domain.MatchSummary) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i := range matches {
		out[i] = toMatchResponse(&matches[i].Match)
		out[i].WinnerName = matches[i].WinnerName
		out[i].LoserName = matches[i].LoserName
	}
	return out
}

func toRoundView(view service.RoundView) roundViewResponse {
	resp := roundViewResponse{Pairings: make([]pairingResponse, len(view.Pairings))}
	if r := view.Round; r != nil {
		resp.Round = &roundResponse{
			ID:          r.ID,
			SeasonID:    r.SeasonID,
			WeekStart:   r.WeekStart,
			Status:      string(r.Status),
			CreatedAt:   r.CreatedAt,
			CompletedAt: r.CompletedAt,
		}
	}
	for i, p := range view.Pairings {
		resp.Pairings[i] = pairingResponse{
			ID:            p.ID,
			Player1ID:     p.Player1ID,
			Player1Name:   p.Player1Name,
			Player1Rating: p.Player1Rating,
			Player2ID:     p.Player2ID,
			Player2Name:   p.Player2Name,
			Player2Rating: p.Player2Rating,
			Completed:     p.Completed,
			MatchID:       p.MatchID,
		}
	}
	return resp
}

func toSeasonResponse(s *domain.Season) seasonResponse {
	return seasonResponse{
		ID:           s.ID,
		Name:         s.Name,
		Slug:         s.Slug,
		Status:       string(s.Status),
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		ChampionID:   s.ChampionID,
		TotalMatches: s.TotalMatches,
		TotalRounds:  s.TotalRounds,
	}
}
