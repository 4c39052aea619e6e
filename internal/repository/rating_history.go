package repository

import (
	"context"
	"fmt"

	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RatingHistoryRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRatingHistoryRepository(queries *db.Queries, logger zerolog.Logger) *RatingHistoryRepository {
	return &RatingHistoryRepository{
		queries: queries,
		logger:  logger,
	}
}

// AppendBatch writes one snapshot per record, generating ids where missing.
func (r *RatingHistoryRepository) AppendBatch(ctx context.Context, records []domain.RatingHistory) error {
	for _, record := range records {
		id := record.ID
		if id == "" {
			var err error
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		err := r.queries.CreateRatingHistory(ctx, db.CreateRatingHistoryParams{
			ID:         id,
			PlayerID:   int64(record.PlayerID),
			Rating:     int64(record.Rating),
			MatchID:    toInt64Ptr(record.MatchID),
			RecordedAt: record.RecordedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert rating history for player %d: %w", record.PlayerID, err)
		}
	}
	return nil
}

func (r *RatingHistoryRepository) DeleteForMatch(ctx context.Context, matchID int) (int, error) {
	n, err := r.queries.DeleteRatingHistoryByMatch(ctx, int64(matchID))
	if err != nil {
		return 0, fmt.Errorf("failed to delete rating history for match %d: %w", matchID, err)
	}
	return int(n), nil
}

func (r *RatingHistoryRepository) CountForMatch(ctx context.Context, matchID int) (int, error) {
	n, err := r.queries.CountRatingHistoryByMatch(ctx, int64(matchID))
	return int(n), err
}

// ForPlayer returns a player's snapshots oldest first.
func (r *RatingHistoryRepository) ForPlayer(ctx context.Context, playerID int) ([]domain.RatingHistory, error) {
	records, err := r.queries.ListRatingHistoryByPlayer(ctx, int64(playerID))
	if err != nil {
		return nil, err
	}

	result := make([]domain.RatingHistory, len(records))
	for i, rec := range records {
		result[i] = domain.RatingHistory{
			ID:         rec.ID,
			PlayerID:   int(rec.PlayerID),
			Rating:     int(rec.Rating),
			MatchID:    toIntPtr(rec.MatchID),
			RecordedAt: rec.RecordedAt,
		}
	}
	return result, nil
}
