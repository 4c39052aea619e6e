package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/elo"
	"swyftx-slam/internal/repository"

	"github.com/rs/zerolog"
)

type PlayerService struct {
	store  Transactor
	cfg    *config.Config
	logger zerolog.Logger
}

func NewPlayerService(store Transactor, cfg *config.Config, logger zerolog.Logger) *PlayerService {
	return &PlayerService{store: store, cfg: cfg, logger: logger}
}

func (s *PlayerService) Register(ctx context.Context, name, slackID string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingName
	}

	var player *domain.Player
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		var err error
		player, err = tx.Players.Create(ctx, name, strings.TrimSpace(slackID), s.cfg.StartingRating, elo.ClassifyTier(s.cfg.StartingRating), time.Now().UTC())
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to register player")
		return nil, err
	}

	s.logger.Info().Int("player_id", player.ID).Str("name", player.Name).Int("rating", player.Rating).Msg("player registered")
	return player, nil
}

func (s *PlayerService) Get(ctx context.Context, id int) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.store.Reader().Players.Get(ctx, id)
}

// SetActive blocks or unblocks a player from future pairings. Their record
// and history are kept either way.
func (s *PlayerService) SetActive(ctx context.Context, id int, active bool) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var player *domain.Player
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		if err := tx.Players.SetActive(ctx, id, active, time.Now().UTC()); err != nil {
			return err
		}
		var err error
		player, err = tx.Players.Get(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Int("player_id", id).Bool("active", active).Msg("failed to set player active")
		return nil, err
	}

	s.logger.Info().Int("player_id", id).Bool("active", active).Msg("player active flag updated")
	return player, nil
}

func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.LeaderboardLimit
	}

	players, err := s.store.Reader().Players.Leaderboard(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load leaderboard")
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = domain.LeaderboardEntry{Rank: i + 1, Player: p}
	}
	if len(entries) > 0 {
		entries[0].Badge = constants.ChampionBadge
	}
	if len(entries) > 1 {
		entries[len(entries)-1].Badge = constants.DunceBadge
	}
	return entries, nil
}

// History returns the player's rating trajectory, oldest first.
func (s *PlayerService) History(ctx context.Context, id int) ([]domain.RatingHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	reader := s.store.Reader()
	if _, err := reader.Players.Get(ctx, id); err != nil {
		return nil, err
	}
	return reader.History.ForPlayer(ctx, id)
}
