package db

import (
	"context"
)

const getLeagueState = `SELECT id, current_round_id, current_season_id FROM league_state WHERE id = 1`

func (q *Queries) GetLeagueState(ctx context.Context) (LeagueState, error) {
	row := q.db.QueryRowContext(ctx, getLeagueState)
	var i LeagueState
	err := row.Scan(&i.ID, &i.CurrentRoundID, &i.CurrentSeasonID)
	return i, err
}

const setCurrentRound = `UPDATE league_state SET current_round_id = ? WHERE id = 1`

func (q *Queries) SetCurrentRound(ctx context.Context, roundID *int64) error {
	_, err := q.db.ExecContext(ctx, setCurrentRound, roundID)
	return err
}

const setCurrentSeason = `UPDATE league_state SET current_season_id = ? WHERE id = 1`

func (q *Queries) SetCurrentSeason(ctx context.Context, seasonID *int64) error {
	_, err := q.db.ExecContext(ctx, setCurrentSeason, seasonID)
	return err
}
