package db

import (
	"context"
	"time"
)

const playerColumns = `id, name, slack_id, rating, tier, wins, losses, active, created_at, updated_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.SlackID,
		&i.Rating,
		&i.Tier,
		&i.Wins,
		&i.Losses,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPlayer = `INSERT INTO players (name, slack_id, rating, tier, wins, losses, active, created_at, updated_at)
VALUES (?, ?, ?, ?, 0, 0, 1, ?, ?)`

type CreatePlayerParams struct {
	Name      string
	SlackID   *string
	Rating    int64
	Tier      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createPlayer,
		arg.Name,
		arg.SlackID,
		arg.Rating,
		arg.Tier,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getPlayer = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	return scanPlayer(row)
}

const getPlayerBySlackID = `SELECT ` + playerColumns + ` FROM players WHERE slack_id = ?`

func (q *Queries) GetPlayerBySlackID(ctx context.Context, slackID string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerBySlackID, slackID)
	return scanPlayer(row)
}

const listPlayersByRating = `SELECT ` + playerColumns + ` FROM players
ORDER BY rating DESC, id ASC
LIMIT ?`

func (q *Queries) ListPlayersByRating(ctx context.Context, limit int64) ([]Player, error) {
	return q.listPlayers(ctx, listPlayersByRating, limit)
}

const listActiveRoster = `SELECT ` + playerColumns + ` FROM players
WHERE active = 1
ORDER BY rating DESC, id ASC`

func (q *Queries) ListActiveRoster(ctx context.Context) ([]Player, error) {
	return q.listPlayers(ctx, listActiveRoster)
}

const listAllPlayers = `SELECT ` + playerColumns + ` FROM players ORDER BY id ASC`

func (q *Queries) ListAllPlayers(ctx context.Context) ([]Player, error) {
	return q.listPlayers(ctx, listAllPlayers)
}

func (q *Queries) listPlayers(ctx context.Context, query string, args ...interface{}) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const getTopPlayer = `SELECT ` + playerColumns + ` FROM players
ORDER BY rating DESC, id ASC
LIMIT 1`

func (q *Queries) GetTopPlayer(ctx context.Context) (Player, error) {
	row := q.db.QueryRowContext(ctx, getTopPlayer)
	return scanPlayer(row)
}

const updatePlayerStanding = `UPDATE players
SET rating = ?, tier = ?, wins = ?, losses = ?, updated_at = ?
WHERE id = ?`

type UpdatePlayerStandingParams struct {
	Rating    int64
	Tier      string
	Wins      int64
	Losses    int64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePlayerStanding(ctx context.Context, arg UpdatePlayerStandingParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerStanding,
		arg.Rating,
		arg.Tier,
		arg.Wins,
		arg.Losses,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const updatePlayerActive = `UPDATE players SET active = ?, updated_at = ? WHERE id = ?`

type UpdatePlayerActiveParams struct {
	Active    bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePlayerActive(ctx context.Context, arg UpdatePlayerActiveParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerActive, arg.Active, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetAllPlayers = `UPDATE players SET rating = ?, tier = ?, wins = 0, losses = 0, updated_at = ?`

type ResetAllPlayersParams struct {
	Rating    int64
	Tier      string
	UpdatedAt time.Time
}

func (q *Queries) ResetAllPlayers(ctx context.Context, arg ResetAllPlayersParams) error {
	_, err := q.db.ExecContext(ctx, resetAllPlayers, arg.Rating, arg.Tier, arg.UpdatedAt)
	return err
}
