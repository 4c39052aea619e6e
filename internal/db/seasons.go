package db

import (
	"context"
	"time"
)

const seasonColumns = `id, name, slug, status, start_date, end_date, champion_id, total_matches, total_rounds, created_at`

func scanSeason(row interface{ Scan(...interface{}) error }) (Season, error) {
	var i Season
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Status,
		&i.StartDate,
		&i.EndDate,
		&i.ChampionID,
		&i.TotalMatches,
		&i.TotalRounds,
		&i.CreatedAt,
	)
	return i, err
}

const createSeason = `INSERT INTO seasons (name, slug, status, start_date, created_at)
VALUES (?, ?, 'active', ?, ?)`

type CreateSeasonParams struct {
	Name      string
	Slug      string
	StartDate time.Time
	CreatedAt time.Time
}

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createSeason, arg.Name, arg.Slug, arg.StartDate, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getSeason = `SELECT ` + seasonColumns + ` FROM seasons WHERE id = ?`

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := q.db.QueryRowContext(ctx, getSeason, id)
	return scanSeason(row)
}

const getSeasonBySlug = `SELECT ` + seasonColumns + ` FROM seasons WHERE slug = ?`

func (q *Queries) GetSeasonBySlug(ctx context.Context, slug string) (Season, error) {
	row := q.db.QueryRowContext(ctx, getSeasonBySlug, slug)
	return scanSeason(row)
}

const countSeasonsBySlug = `SELECT COUNT(*) FROM seasons WHERE slug = ?`

func (q *Queries) CountSeasonsBySlug(ctx context.Context, slug string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSeasonsBySlug, slug)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listSeasons = `SELECT ` + seasonColumns + ` FROM seasons ORDER BY id DESC`

func (q *Queries) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx, listSeasons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Season
	for rows.Next() {
		i, err := scanSeason(rows)
		if err != nil {
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

const completeSeason = `UPDATE seasons
SET status = 'completed', end_date = ?, champion_id = ?, total_matches = ?, total_rounds = ?
WHERE id = ?`

type CompleteSeasonParams struct {
	EndDate      time.Time
	ChampionID   *int64
	TotalMatches int64
	TotalRounds  int64
	ID           int64
}

func (q *Queries) CompleteSeason(ctx context.Context, arg CompleteSeasonParams) error {
	_, err := q.db.ExecContext(ctx, completeSeason,
		arg.EndDate,
		arg.ChampionID,
		arg.TotalMatches,
		arg.TotalRounds,
		arg.ID,
	)
	return err
}
