package db

import (
	"context"
	"time"
)

const matchColumns = `id, winner_id, loser_id, winner_score, loser_score, rating_change, loser_change, round_id, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (Match, error) {
	var i Match
	err := row.Scan(
		&i.ID,
		&i.WinnerID,
		&i.LoserID,
		&i.WinnerScore,
		&i.LoserScore,
		&i.RatingChange,
		&i.LoserChange,
		&i.RoundID,
		&i.CreatedAt,
	)
	return i, err
}

const createMatch = `INSERT INTO matches (winner_id, loser_id, winner_score, loser_score, rating_change, loser_change, round_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type CreateMatchParams struct {
	WinnerID     int64
	LoserID      int64
	WinnerScore  int64
	LoserScore   int64
	RatingChange int64
	LoserChange  int64
	RoundID      *int64
	CreatedAt    time.Time
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createMatch,
		arg.WinnerID,
		arg.LoserID,
		arg.WinnerScore,
		arg.LoserScore,
		arg.RatingChange,
		arg.LoserChange,
		arg.RoundID,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getMatch = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`

func (q *Queries) GetMatch(ctx context.Context, id int64) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, id)
	return scanMatch(row)
}

const deleteMatch = `DELETE FROM matches WHERE id = ?`

func (q *Queries) DeleteMatch(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMatch, id)
	return err
}

const countMatches = `SELECT COUNT(*) FROM matches`

func (q *Queries) CountMatches(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countMatchesSince = `SELECT COUNT(*) FROM matches WHERE created_at >= ?`

func (q *Queries) CountMatchesSince(ctx context.Context, since time.Time) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatchesSince, since)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type MatchWithNamesRow struct {
	Match      Match
	WinnerName string
	LoserName  string
}

const matchWithNamesSelect = `SELECT m.id, m.winner_id, m.loser_id, m.winner_score, m.loser_score,
       m.rating_change, m.loser_change, m.round_id, m.created_at,
       w.name, l.name
FROM matches m
JOIN players w ON m.winner_id = w.id
JOIN players l ON m.loser_id = l.id`

const listRecentMatches = `` + matchWithNamesSelect + `
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?`

func (q *Queries) ListRecentMatches(ctx context.Context, limit int64) ([]MatchWithNamesRow, error) {
	return q.listMatchesWithNames(ctx, listRecentMatches, limit)
}

const listPlayerMatches = `` + matchWithNamesSelect + `
WHERE m.winner_id = ?1 OR m.loser_id = ?1
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?2`

type ListPlayerMatchesParams struct {
	PlayerID int64
	Limit    int64
}

func (q *Queries) ListPlayerMatches(ctx context.Context, arg ListPlayerMatchesParams) ([]MatchWithNamesRow, error) {
	return q.listMatchesWithNames(ctx, listPlayerMatches, arg.PlayerID, arg.Limit)
}

func (q *Queries) listMatchesWithNames(ctx context.Context, query string, args ...interface{}) ([]MatchWithNamesRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchWithNamesRow
	for rows.Next() {
		var i MatchWithNamesRow
		if err := rows.Scan(
			&i.Match.ID,
			&i.Match.WinnerID,
			&i.Match.LoserID,
			&i.Match.WinnerScore,
			&i.Match.LoserScore,
			&i.Match.RatingChange,
			&i.Match.LoserChange,
			&i.Match.RoundID,
			&i.Match.CreatedAt,
			&i.WinnerName,
			&i.LoserName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
