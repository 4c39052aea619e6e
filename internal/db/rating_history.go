package db

import (
	"context"
	"time"
)

const createRatingHistory = `INSERT INTO rating_history (id, player_id, rating, match_id, recorded_at)
VALUES (?, ?, ?, ?, ?)`

type CreateRatingHistoryParams struct {
	ID         string
	PlayerID   int64
	Rating     int64
	MatchID    *int64
	RecordedAt time.Time
}

func (q *Queries) CreateRatingHistory(ctx context.Context, arg CreateRatingHistoryParams) error {
	_, err := q.db.ExecContext(ctx, createRatingHistory,
		arg.ID,
		arg.PlayerID,
		arg.Rating,
		arg.MatchID,
		arg.RecordedAt,
	)
	return err
}

const deleteRatingHistoryByMatch = `DELETE FROM rating_history WHERE match_id = ?`

func (q *Queries) DeleteRatingHistoryByMatch(ctx context.Context, matchID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRatingHistoryByMatch, matchID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countRatingHistoryByMatch = `SELECT COUNT(*) FROM rating_history WHERE match_id = ?`

func (q *Queries) CountRatingHistoryByMatch(ctx context.Context, matchID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRatingHistoryByMatch, matchID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listRatingHistoryByPlayer = `SELECT id, player_id, rating, match_id, recorded_at
FROM rating_history
WHERE player_id = ?
ORDER BY recorded_at ASC, rowid ASC`

func (q *Queries) ListRatingHistoryByPlayer(ctx context.Context, playerID int64) ([]RatingHistory, error) {
	rows, err := q.db.QueryContext(ctx, listRatingHistoryByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RatingHistory
	for rows.Next() {
		var i RatingHistory
		if err := rows.Scan(
			&i.ID,
			&i.PlayerID,
			&i.Rating,
			&i.MatchID,
			&i.RecordedAt,
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
