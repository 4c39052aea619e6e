package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/pairing"
	"swyftx-slam/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type RoundView struct {
	Round    *domain.Round
	Pairings []domain.PairingDetail
}

type RoundResult struct {
	RoundView
	// Number is the round's position among every round ever created.
	Number int
	// Dropped is the player left out of an odd roster.
	Dropped *domain.Player
	// LeagueCompleted reports that the round cap was already reached and
	// nothing was created.
	LeagueCompleted bool
	// Reused reports that a round generated within the debounce window was
	// returned instead of a new one.
	Reused bool
}

type RoundService struct {
	store     Transactor
	cfg       *config.Config
	announcer Announcer
	group     singleflight.Group
	logger    zerolog.Logger
}

func NewRoundService(store Transactor, cfg *config.Config, announcer Announcer, logger zerolog.Logger) *RoundService {
	return &RoundService{store: store, cfg: cfg, announcer: announcer, logger: logger}
}

// GenerateRound pairs the active roster into a new round. Callers overlapping
// in this process share one generation. Any trigger that takes the write lock
// within RoundDebounce of the current round's creation gets that round back.
func (s *RoundService) GenerateRound(ctx context.Context) (*RoundResult, error) {
	v, err, shared := s.group.Do("generate-round", func() (any, error) {
		return s.generateRound(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug().Msg("joined in-flight round generation")
	}
	return v.(*RoundResult), nil
}

func (s *RoundService) generateRound(ctx context.Context) (*RoundResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	loc, err := s.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load league time zone: %w", err)
	}

	result := &RoundResult{}
	err = s.store.InTx(ctx, func(tx *repository.Tx) error {
		total, err := tx.Rounds.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count rounds: %w", err)
		}

		now := time.Now().UTC()
		state, err := tx.League.State(ctx)
		if err != nil {
			return err
		}

		recent, err := s.recentRound(ctx, tx, state, now)
		if err != nil {
			return err
		}
		if recent != nil {
			result.RoundView = *recent
			result.Number = total
			result.Reused = true
			return nil
		}

		if total >= s.cfg.MaxRounds() {
			result.LeagueCompleted = true
			return nil
		}

		roster, err := tx.Players.Roster(ctx)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		if len(roster) < 2 {
			return domain.ErrInsufficientPlayers
		}

		byID := make(map[int]domain.Player, len(roster))
		entrants := make([]pairing.Entrant, len(roster))
		for i, p := range roster {
			byID[p.ID] = p
			entrants[i] = pairing.Entrant{ID: p.ID, Rating: p.Rating}
		}

		entrants, dropped := pairing.DropLowest(entrants)
		if dropped != nil {
			p := byID[dropped.ID]
			result.Dropped = &p
			s.logger.Warn().
				Int("player_id", p.ID).
				Str("name", p.Name).
				Int("rating", p.Rating).
				Msg("odd roster, lowest-rated player sits this round out")
		}

		pairs, err := pairing.Generate(entrants)
		if err != nil {
			return err
		}

		if _, err := tx.Rounds.CompleteActive(ctx, now); err != nil {
			return err
		}

		round, err := tx.Rounds.Create(ctx, state.CurrentSeasonID, weekStart(now, loc), now)
		if err != nil {
			return err
		}

		matchups := make([]repository.Matchup, len(pairs))
		for i, pair := range pairs {
			matchups[i] = repository.Matchup{Player1ID: pair.First.ID, Player2ID: pair.Second.ID}
		}
		if err := tx.Rounds.CreatePairings(ctx, round.ID, matchups, now); err != nil {
			return err
		}
		if err := tx.League.SetCurrentRound(ctx, &round.ID); err != nil {
			return err
		}

		details, err := tx.Rounds.Pairings(ctx, round.ID)
		if err != nil {
			return err
		}

		result.Round = round
		result.Pairings = details
		result.Number = total + 1
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate round")
		return nil, err
	}

	if result.LeagueCompleted {
		s.logger.Info().Int("max_rounds", s.cfg.MaxRounds()).Msg("league completed, no round generated")
		return result, nil
	}
	if result.Reused {
		s.logger.Info().
			Int("round_id", result.Round.ID).
			Dur("debounce", s.cfg.RoundDebounce).
			Msg("round already generated in this window")
		return result, nil
	}

	s.logger.Info().
		Int("round_id", result.Round.ID).
		Int("number", result.Number).
		Int("pairings", len(result.Pairings)).
		Msg("round generated")

	announceInBackground(s.announcer, s.logger, pairingAnnouncement(result))
	return result, nil
}

// recentRound returns the current round when it is still active and was
// created less than RoundDebounce before now.
func (s *RoundService) recentRound(ctx context.Context, tx *repository.Tx, state domain.LeagueState, now time.Time) (*RoundView, error) {
	if s.cfg.RoundDebounce <= 0 || state.CurrentRoundID == nil {
		return nil, nil
	}

	round, err := tx.Rounds.Get(ctx, *state.CurrentRoundID)
	if err != nil {
		return nil, err
	}
	if round.Status != domain.RoundActive || now.Sub(round.CreatedAt) >= s.cfg.RoundDebounce {
		return nil, nil
	}

	pairings, err := tx.Rounds.Pairings(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	return &RoundView{Round: round, Pairings: pairings}, nil
}

// CurrentRound returns the active round and its pairings. With no active
// round the view is empty.
func (s *RoundService) CurrentRound(ctx context.Context) (*RoundView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	reader := s.store.Reader()
	state, err := reader.League.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentRoundID == nil {
		return &RoundView{}, nil
	}

	round, err := reader.Rounds.Get(ctx, *state.CurrentRoundID)
	if err != nil {
		return nil, err
	}
	pairings, err := reader.Rounds.Pairings(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	return &RoundView{Round: round, Pairings: pairings}, nil
}

// openPairingFor finds the incomplete pairing of a and b in the active round.
func openPairingFor(ctx context.Context, tx *repository.Tx, a, b int) (*domain.Pairing, error) {
	state, err := tx.League.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentRoundID == nil {
		return nil, nil
	}
	return tx.Rounds.OpenPairing(ctx, *state.CurrentRoundID, a, b)
}

func completePairing(ctx context.Context, tx *repository.Tx, p *domain.Pairing, matchID int) error {
	if err := tx.Rounds.CompletePairing(ctx, p.ID, matchID); err != nil {
		return err
	}
	p.Completed = true
	p.MatchID = &matchID
	return nil
}

// weekStart is midnight on the Monday of now's week in loc.
func weekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	y, m, d := local.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

func pairingAnnouncement(result *RoundResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏓 Round %d pairings are out!", result.Number)
	for _, p := range result.Pairings {
		fmt.Fprintf(&b, "\n• %s (%d) vs %s (%d)", p.Player1Name, p.Player1Rating, p.Player2Name, p.Player2Rating)
	}
	if result.Dropped != nil {
		fmt.Fprintf(&b, "\n%s sits this one out.", result.Dropped.Name)
	}
	return b.String()
}
