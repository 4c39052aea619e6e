package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewMatchRepository(queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	id, err := r.queries.CreateMatch(ctx, db.CreateMatchParams{
		WinnerID:     int64(match.WinnerID),
		LoserID:      int64(match.LoserID),
		WinnerScore:  int64(match.WinnerScore),
		LoserScore:   int64(match.LoserScore),
		RatingChange: int64(match.RatingChange),
		LoserChange:  int64(match.LoserChange),
		RoundID:      toInt64Ptr(match.RoundID),
		CreatedAt:    match.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *MatchRepository) Get(ctx context.Context, id int) (*domain.Match, error) {
	match, err := r.queries.GetMatch(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	m := toDomainMatch(match)
	return &m, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int) error {
	if err := r.queries.DeleteMatch(ctx, int64(id)); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountMatches(ctx)
	return int(n), err
}

func (r *MatchRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	n, err := r.queries.CountMatchesSince(ctx, since)
	return int(n), err
}

func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]domain.MatchSummary, error) {
	rows, err := r.queries.ListRecentMatches(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	return toMatchSummaries(rows), nil
}

func (r *MatchRepository) ForPlayer(ctx context.Context, playerID, limit int) ([]domain.MatchSummary, error) {
	rows, err := r.queries.ListPlayerMatches(ctx, db.ListPlayerMatchesParams{
		PlayerID: int64(playerID),
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return toMatchSummaries(rows), nil
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		ID:           int(m.ID),
		WinnerID:     int(m.WinnerID),
		LoserID:      int(m.LoserID),
		WinnerScore:  int(m.WinnerScore),
		LoserScore:   int(m.LoserScore),
		RatingChange: int(m.RatingChange),
		LoserChange:  int(m.LoserChange),
		RoundID:      toIntPtr(m.RoundID),
		CreatedAt:    m.CreatedAt,
	}
}

func toMatchSummaries(rows []db.MatchWithNamesRow) []domain.MatchSummary {
	result := make([]domain.MatchSummary, len(rows))
	for i, row := range rows {
		result[i] = domain.MatchSummary{
			Match:      toDomainMatch(row.Match),
			WinnerName: row.WinnerName,
			LoserName:  row.LoserName,
		}
	}
	return result
}
