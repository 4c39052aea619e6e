package scheduler

import (
	"context"
	"fmt"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

type RoundGenerator interface {
	GenerateRound(ctx context.Context) (*service.RoundResult, error)
}

// PairingScheduler generates a new round on every PAIRING_CRON tick.
type PairingScheduler struct {
	scheduler gocron.Scheduler
	rounds    RoundGenerator
	logger    zerolog.Logger
}

func New(cfg *config.Config, rounds RoundGenerator, logger zerolog.Logger) (*PairingScheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler time zone: %w", err)
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &PairingScheduler{
		scheduler: sched,
		rounds:    rounds,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}

	for i, expr := range cfg.PairingCrons {
		_, err := sched.NewJob(
			gocron.CronJob(expr, false),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
				defer cancel()
				_ = s.Trigger(ctx)
			}),
			gocron.WithName(fmt.Sprintf("pairing-%d", i+1)),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, fmt.Errorf("invalid pairing cron %q: %w", expr, err)
		}
		s.logger.Info().Str("cron", expr).Str("tz", loc.String()).Msg("pairing job scheduled")
	}

	return s, nil
}

func (s *PairingScheduler) Start() {
	s.scheduler.Start()
	s.logger.Info().Int("jobs", len(s.scheduler.Jobs())).Msg("scheduler started")
}

func (s *PairingScheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info().Msg("scheduler stopped")
	return nil
}

func (s *PairingScheduler) Jobs() []gocron.Job {
	return s.scheduler.Jobs()
}

// Trigger runs one pairing pass, the same path a cron tick takes.
func (s *PairingScheduler) Trigger(ctx context.Context) error {
	result, err := s.rounds.GenerateRound(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled pairing failed")
		return err
	}

	if result.LeagueCompleted {
		s.logger.Info().Msg("league completed, skipping scheduled pairing")
		return nil
	}

	event := s.logger.Info().
		Int("round_id", result.Round.ID).
		Int("pairings", len(result.Pairings))
	if result.Dropped != nil {
		event = event.Int("dropped_player_id", result.Dropped.ID)
	}
	event.Msg("scheduled pairing complete")
	return nil
}
