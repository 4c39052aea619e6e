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

type SeasonRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewSeasonRepository(queries *db.Queries, logger zerolog.Logger) *SeasonRepository {
	return &SeasonRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *SeasonRepository) Create(ctx context.Context, name, slug string, now time.Time) (*domain.Season, error) {
	id, err := r.queries.CreateSeason(ctx, db.CreateSeasonParams{
		Name:      name,
		Slug:      slug,
		StartDate: now,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create season %q: %w", name, err)
	}
	return r.Get(ctx, int(id))
}

func (r *SeasonRepository) Get(ctx context.Context, id int) (*domain.Season, error) {
	season, err := r.queries.GetSeason(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSeasonNotFound
	}
	if err != nil {
		return nil, err
	}
	s := toDomainSeason(season)
	return &s, nil
}

func (r *SeasonRepository) GetBySlug(ctx context.Context, slug string) (*domain.Season, error) {
	season, err := r.queries.GetSeasonBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSeasonNotFound
	}
	if err != nil {
		return nil, err
	}
	s := toDomainSeason(season)
	return &s, nil
}

func (r *SeasonRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	n, err := r.queries.CountSeasonsBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every season, newest first.
func (r *SeasonRepository) List(ctx context.Context) ([]domain.Season, error) {
	seasons, err := r.queries.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Season, len(seasons))
	for i, s := range seasons {
		result[i] = toDomainSeason(s)
	}
	return result, nil
}

func (r *SeasonRepository) Complete(ctx context.Context, season *domain.Season) error {
	if season.EndDate == nil {
		return fmt.Errorf("season %d has no end date", season.ID)
	}

	err := r.queries.CompleteSeason(ctx, db.CompleteSeasonParams{
		EndDate:      *season.EndDate,
		ChampionID:   toInt64Ptr(season.ChampionID),
		TotalMatches: int64(season.TotalMatches),
		TotalRounds:  int64(season.TotalRounds),
		ID:           int64(season.ID),
	})
	if err != nil {
		return fmt.Errorf("failed to complete season %d: %w", season.ID, err)
	}
	return nil
}

func toDomainSeason(s db.Season) domain.Season {
	return domain.Season{
		ID:           int(s.ID),
		Name:         s.Name,
		Slug:         s.Slug,
		Status:       domain.SeasonStatus(s.Status),
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		ChampionID:   toIntPtr(s.ChampionID),
		TotalMatches: int(s.TotalMatches),
		TotalRounds:  int(s.TotalRounds),
		CreatedAt:    s.CreatedAt,
	}
}
