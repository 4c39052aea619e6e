package db

import (
	"context"
	"time"
)

const roundColumns = `id, season_id, week_start, status, created_at, completed_at`

func scanRound(row interface{ Scan(...interface{}) error }) (Round, error) {
	var i Round
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.WeekStart,
		&i.Status,
		&i.CreatedAt,
		&i.CompletedAt,
	)
	return i, err
}

const createRound = `INSERT INTO rounds (season_id, week_start, status, created_at)
VALUES (?, ?, 'active', ?)`

type CreateRoundParams struct {
	SeasonID  *int64
	WeekStart time.Time
	CreatedAt time.Time
}

func (q *Queries) CreateRound(ctx context.Context, arg CreateRoundParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createRound, arg.SeasonID, arg.WeekStart, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getRound = `SELECT ` + roundColumns + ` FROM rounds WHERE id = ?`

func (q *Queries) GetRound(ctx context.Context, id int64) (Round, error) {
	row := q.db.QueryRowContext(ctx, getRound, id)
	return scanRound(row)
}

const countRounds = `SELECT COUNT(*) FROM rounds`

func (q *Queries) CountRounds(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRounds)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countRoundsBySeason = `SELECT COUNT(*) FROM rounds WHERE season_id = ?`

func (q *Queries) CountRoundsBySeason(ctx context.Context, seasonID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRoundsBySeason, seasonID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const completeActiveRounds = `UPDATE rounds SET status = 'completed', completed_at = ? WHERE status = 'active'`

func (q *Queries) CompleteActiveRounds(ctx context.Context, completedAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, completeActiveRounds, completedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const pairingColumns = `id, round_id, player1_id, player2_id, completed, match_id, created_at`

func scanPairing(row interface{ Scan(...interface{}) error }) (Pairing, error) {
	var i Pairing
	err := row.Scan(
		&i.ID,
		&i.RoundID,
		&i.Player1ID,
		&i.Player2ID,
		&i.Completed,
		&i.MatchID,
		&i.CreatedAt,
	)
	return i, err
}

const createPairing = `INSERT INTO pairings (round_id, player1_id, player2_id, completed, created_at)
VALUES (?, ?, ?, 0, ?)`

type CreatePairingParams struct {
	RoundID   int64
	Player1ID int64
	Player2ID int64
	CreatedAt time.Time
}

func (q *Queries) CreatePairing(ctx context.Context, arg CreatePairingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createPairing, arg.RoundID, arg.Player1ID, arg.Player2ID, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getPairing = `SELECT ` + pairingColumns + ` FROM pairings WHERE id = ?`

func (q *Queries) GetPairing(ctx context.Context, id int64) (Pairing, error) {
	row := q.db.QueryRowContext(ctx, getPairing, id)
	return scanPairing(row)
}

const findOpenPairing = `SELECT ` + pairingColumns + ` FROM pairings
WHERE round_id = ?1
  AND completed = 0
  AND ((player1_id = ?2 AND player2_id = ?3) OR (player1_id = ?3 AND player2_id = ?2))
ORDER BY id ASC
LIMIT 1`

type FindOpenPairingParams struct {
	RoundID int64
	PlayerA int64
	PlayerB int64
}

func (q *Queries) FindOpenPairing(ctx context.Context, arg FindOpenPairingParams) (Pairing, error) {
	row := q.db.QueryRowContext(ctx, findOpenPairing, arg.RoundID, arg.PlayerA, arg.PlayerB)
	return scanPairing(row)
}

const completePairing = `UPDATE pairings SET completed = 1, match_id = ? WHERE id = ?`

type CompletePairingParams struct {
	MatchID *int64
	ID      int64
}

func (q *Queries) CompletePairing(ctx context.Context, arg CompletePairingParams) error {
	_, err := q.db.ExecContext(ctx, completePairing, arg.MatchID, arg.ID)
	return err
}

const resetPairingsByMatch = `UPDATE pairings SET completed = 0, match_id = NULL WHERE match_id = ?`

func (q *Queries) ResetPairingsByMatch(ctx context.Context, matchID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetPairingsByMatch, matchID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type ListPairingsByRoundRow struct {
	Pairing       Pairing
	Player1Name   string
	Player1Rating int64
	Player2Name   string
	Player2Rating int64
}

const listPairingsByRound = `SELECT p.id, p.round_id, p.player1_id, p.player2_id, p.completed, p.match_id, p.created_at,
       p1.name, p1.rating, p2.name, p2.rating
FROM pairings p
JOIN players p1 ON p.player1_id = p1.id
JOIN players p2 ON p.player2_id = p2.id
WHERE p.round_id = ?
ORDER BY p.id ASC`

func (q *Queries) ListPairingsByRound(ctx context.Context, roundID int64) ([]ListPairingsByRoundRow, error) {
	rows, err := q.db.QueryContext(ctx, listPairingsByRound, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPairingsByRoundRow
	for rows.Next() {
		var i ListPairingsByRoundRow
		if err := rows.Scan(
			&i.Pairing.ID,
			&i.Pairing.RoundID,
			&i.Pairing.Player1ID,
			&i.Pairing.Player2ID,
			&i.Pairing.Completed,
			&i.Pairing.MatchID,
			&i.Pairing.CreatedAt,
			&i.Player1Name,
			&i.Player1Rating,
			&i.Player2Name,
			&i.Player2Rating,
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
