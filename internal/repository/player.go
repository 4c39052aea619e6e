package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewPlayerRepository(queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, name, slackID string, rating int, tier string, now time.Time) (*domain.Player, error) {
	var slack *string
	if slackID != "" {
		slack = &slackID
	}

	id, err := r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		Name:      name,
		SlackID:   slack,
		Rating:    int64(rating),
		Tier:      tier,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, domain.ErrDuplicatePlayer
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return r.Get(ctx, int(id))
}

func (r *PlayerRepository) Get(ctx context.Context, id int) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) GetBySlackID(ctx context.Context, slackID string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerBySlackID(ctx, slackID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) Leaderboard(ctx context.Context, limit int) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersByRating(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	return toDomainPlayers(players), nil
}

// Roster returns the active players, highest rating first.
func (r *PlayerRepository) Roster(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListActiveRoster(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainPlayers(players), nil
}

func (r *PlayerRepository) All(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainPlayers(players), nil
}

// Top returns the highest-rated player, or nil when there are none.
func (r *PlayerRepository) Top(ctx context.Context) (*domain.Player, error) {
	player, err := r.queries.GetTopPlayer(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) UpdateStanding(ctx context.Context, player *domain.Player) error {
	r.logger.Debug().
		Int("player_id", player.ID).
		Int("rating", player.Rating).
		Str("tier", player.Tier).
		Int("wins", player.Wins).
		Int("losses", player.Losses).
		Msg("updating player standing")

	err := r.queries.UpdatePlayerStanding(ctx, db.UpdatePlayerStandingParams{
		Rating:    int64(player.Rating),
		Tier:      player.Tier,
		Wins:      int64(player.Wins),
		Losses:    int64(player.Losses),
		UpdatedAt: player.UpdatedAt,
		ID:        int64(player.ID),
	})
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return nil
}

func (r *PlayerRepository) SetActive(ctx context.Context, id int, active bool, now time.Time) error {
	n, err := r.queries.UpdatePlayerActive(ctx, db.UpdatePlayerActiveParams{
		Active:    active,
		UpdatedAt: now,
		ID:        int64(id),
	})
	if err != nil {
		return fmt.Errorf("failed to set player %d active: %w", id, err)
	}
	if n == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) ResetAll(ctx context.Context, rating int, tier string, now time.Time) error {
	return r.queries.ResetAllPlayers(ctx, db.ResetAllPlayersParams{
		Rating:    int64(rating),
		Tier:      tier,
		UpdatedAt: now,
	})
}

func toDomainPlayer(p db.Player) domain.Player {
	player := domain.Player{
		ID:        int(p.ID),
		Name:      p.Name,
		Rating:    int(p.Rating),
		Tier:      p.Tier,
		Wins:      int(p.Wins),
		Losses:    int(p.Losses),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.SlackID != nil {
		player.SlackID = *p.SlackID
	}
	return player
}

func toDomainPlayers(players []db.Player) []domain.Player {
	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = toDomainPlayer(p)
	}
	return result
}
