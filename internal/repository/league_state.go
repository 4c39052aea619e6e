package repository

import (
	"context"
	"fmt"

	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"

	"github.com/rs/zerolog"
)

type LeagueRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewLeagueRepository(queries *db.Queries, logger zerolog.Logger) *LeagueRepository {
	return &LeagueRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *LeagueRepository) State(ctx context.Context) (domain.LeagueState, error) {
	state, err := r.queries.GetLeagueState(ctx)
	if err != nil {
		return domain.LeagueState{}, fmt.Errorf("failed to read league state: %w", err)
	}
	return domain.LeagueState{
		CurrentRoundID:  toIntPtr(state.CurrentRoundID),
		CurrentSeasonID: toIntPtr(state.CurrentSeasonID),
	}, nil
}

func (r *LeagueRepository) SetCurrentRound(ctx context.Context, roundID *int) error {
	if err := r.queries.SetCurrentRound(ctx, toInt64Ptr(roundID)); err != nil {
		return fmt.Errorf("failed to set current round: %w", err)
	}
	return nil
}

func (r *LeagueRepository) SetCurrentSeason(ctx context.Context, seasonID *int) error {
	if err := r.queries.SetCurrentSeason(ctx, toInt64Ptr(seasonID)); err != nil {
		return fmt.Errorf("failed to set current season: %w", err)
	}
	return nil
}
