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

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

type SeasonService struct {
	store     Transactor
	cfg       *config.Config
	announcer Announcer
	logger    zerolog.Logger
}

func NewSeasonService(store Transactor, cfg *config.Config, announcer Announcer, logger zerolog.Logger) *SeasonService {
	return &SeasonService{store: store, cfg: cfg, announcer: announcer, logger: logger}
}

// StartSeason closes whatever season and round are active, then opens a new
// season. With resetRatings every player goes back to the starting rating
// with a clean record.
func (s *SeasonService) StartSeason(ctx context.Context, name string, resetRatings bool) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingName
	}

	var (
		season *domain.Season
		closed *domain.Season
	)
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		now := time.Now().UTC()

		var err error
		closed, err = s.closeActiveSeason(ctx, tx, now)
		if err != nil {
			return err
		}
		if err := closeActiveRound(ctx, tx, now); err != nil {
			return err
		}

		seasonSlug, err := uniqueSlug(ctx, tx, name)
		if err != nil {
			return err
		}
		season, err = tx.Seasons.Create(ctx, name, seasonSlug, now)
		if err != nil {
			return err
		}
		if err := tx.League.SetCurrentSeason(ctx, &season.ID); err != nil {
			return err
		}

		if resetRatings {
			return s.resetRatings(ctx, tx, now)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to start season")
		return nil, err
	}

	if closed != nil {
		s.logger.Info().Int("season_id", closed.ID).Msg("previous season force-closed")
	}
	s.logger.Info().
		Int("season_id", season.ID).
		Str("slug", season.Slug).
		Bool("reset_ratings", resetRatings).
		Msg("season started")

	msg := fmt.Sprintf("🏁 Season %q has started!", season.Name)
	if resetRatings {
		msg += fmt.Sprintf(" Everyone is back to %d.", s.cfg.StartingRating)
	}
	announceInBackground(s.announcer, s.logger, msg)

	return season, nil
}

func (s *SeasonService) EndSeason(ctx context.Context) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var (
		season   *domain.Season
		champion *domain.Player
	)
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		now := time.Now().UTC()

		var err error
		season, err = s.closeActiveSeason(ctx, tx, now)
		if err != nil {
			return err
		}
		if season == nil {
			return domain.ErrNoActiveSeason
		}
		if err := closeActiveRound(ctx, tx, now); err != nil {
			return err
		}

		if season.ChampionID != nil {
			champion, err = tx.Players.Get(ctx, *season.ChampionID)
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to end season")
		return nil, err
	}

	s.logger.Info().
		Int("season_id", season.ID).
		Int("total_matches", season.TotalMatches).
		Int("total_rounds", season.TotalRounds).
		Msg("season ended")

	if champion != nil {
		announceInBackground(s.announcer, s.logger,
			fmt.Sprintf("🏆 Season %q is over! %s takes the crown at %d.", season.Name, champion.Name, champion.Rating))
	}

	return season, nil
}

func (s *SeasonService) Current(ctx context.Context) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	reader := s.store.Reader()
	state, err := reader.League.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentSeasonID == nil {
		return nil, domain.ErrNoActiveSeason
	}
	return reader.Seasons.Get(ctx, *state.CurrentSeasonID)
}

func (s *SeasonService) List(ctx context.Context) ([]domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.store.Reader().Seasons.List(ctx)
}

// closeActiveSeason completes the season the league points at, recording its
// aggregates and champion. It returns nil when no season is active.
func (s *SeasonService) closeActiveSeason(ctx context.Context, tx *repository.Tx, now time.Time) (*domain.Season, error) {
	state, err := tx.League.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentSeasonID == nil {
		return nil, nil
	}

	season, err := tx.Seasons.Get(ctx, *state.CurrentSeasonID)
	if err != nil {
		return nil, err
	}

	matches, err := tx.Matches.CountSince(ctx, season.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count season matches: %w", err)
	}
	rounds, err := tx.Rounds.CountForSeason(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count season rounds: %w", err)
	}
	top, err := tx.Players.Top(ctx)
	if err != nil {
		return nil, err
	}

	season.Status = domain.SeasonCompleted
	season.EndDate = &now
	season.TotalMatches = matches
	season.TotalRounds = rounds
	if top != nil {
		season.ChampionID = &top.ID
	}

	if err := tx.Seasons.Complete(ctx, season); err != nil {
		return nil, err
	}
	if err := tx.League.SetCurrentSeason(ctx, nil); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *SeasonService) resetRatings(ctx context.Context, tx *repository.Tx, now time.Time) error {
	if err := tx.Players.ResetAll(ctx, s.cfg.StartingRating, elo.ClassifyTier(s.cfg.StartingRating), now); err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}

	players, err := tx.Players.All(ctx)
	if err != nil {
		return err
	}

	records := make([]domain.RatingHistory, len(players))
	for i, p := range players {
		records[i] = domain.RatingHistory{PlayerID: p.ID, Rating: p.Rating, RecordedAt: now}
	}
	if err := tx.History.AppendBatch(ctx, records); err != nil {
		return err
	}

	s.logger.Info().Int("players", len(players)).Int("rating", s.cfg.StartingRating).Msg("ratings reset")
	return nil
}

func closeActiveRound(ctx context.Context, tx *repository.Tx, now time.Time) error {
	if _, err := tx.Rounds.CompleteActive(ctx, now); err != nil {
		return err
	}
	return tx.League.SetCurrentRound(ctx, nil)
}

// uniqueSlug derives a slug from name, suffixing -2, -3, ... until unused.
func uniqueSlug(ctx context.Context, tx *repository.Tx, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "season"
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := tx.Seasons.SlugTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
