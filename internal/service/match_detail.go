package service

import (
	"context"

	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/domain"

	"github.com/rs/zerolog"
)

// MatchDetailService serves the read side of the match log.
type MatchDetailService struct {
	store  Transactor
	logger zerolog.Logger
}

func NewMatchDetailService(store Transactor, logger zerolog.Logger) *MatchDetailService {
	return &MatchDetailService{store: store, logger: logger}
}

func (s *MatchDetailService) GetMatch(ctx context.Context, id int) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Int("match_id", id).Msg("getting match")
	return s.store.Reader().Matches.Get(ctx, id)
}

func (s *MatchDetailService) Recent(ctx context.Context, limit int) ([]domain.MatchSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.RecentMatchesLimit
	}
	return s.store.Reader().Matches.Recent(ctx, limit)
}

func (s *MatchDetailService) ForPlayer(ctx context.Context, playerID, limit int) ([]domain.MatchSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.PlayerMatchesLimit
	}

	reader := s.store.Reader()
	if _, err := reader.Players.Get(ctx, playerID); err != nil {
		return nil, err
	}
	return reader.Matches.ForPlayer(ctx, playerID, limit)
}
