package service

import (
	"context"
	"fmt"
	"time"

	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/elo"
	"swyftx-slam/internal/repository"
	"swyftx-slam/internal/trashtalk"

	"github.com/rs/zerolog"
)

// MatchService is the match ledger: it records results and reverses them.
type MatchService struct {
	store     Transactor
	announcer Announcer
	talk      *trashtalk.Generator
	logger    zerolog.Logger
}

func NewMatchService(store Transactor, announcer Announcer, talk *trashtalk.Generator, logger zerolog.Logger) *MatchService {
	return &MatchService{store: store, announcer: announcer, talk: talk, logger: logger}
}

type RecordResult struct {
	Match  *domain.Match
	Winner *domain.Player
	Loser  *domain.Player
	// Pairing is the scheduled pairing this match resolved, if any.
	Pairing *domain.Pairing
}

func (s *MatchService) RecordMatch(ctx context.Context, winnerID, loserID, winnerScore, loserScore int) (*RecordResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if winnerID == loserID {
		return nil, domain.ErrSameParticipant
	}
	if winnerScore < 0 || loserScore < 0 || winnerScore <= loserScore {
		return nil, domain.ErrInvalidScore
	}

	var result RecordResult
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		winner, err := tx.Players.Get(ctx, winnerID)
		if err != nil {
			return fmt.Errorf("winner %d: %w", winnerID, err)
		}
		loser, err := tx.Players.Get(ctx, loserID)
		if err != nil {
			return fmt.Errorf("loser %d: %w", loserID, err)
		}

		outcome := elo.ApplyResult(winner.Rating, loser.Rating)
		now := time.Now().UTC()

		winner.Rating = outcome.WinnerRating
		winner.Tier = elo.ClassifyTier(winner.Rating)
		winner.Wins++
		winner.UpdatedAt = now
		if err := tx.Players.UpdateStanding(ctx, winner); err != nil {
			return err
		}

		loser.Rating = outcome.LoserRating
		loser.Tier = elo.ClassifyTier(loser.Rating)
		loser.Losses++
		loser.UpdatedAt = now
		if err := tx.Players.UpdateStanding(ctx, loser); err != nil {
			return err
		}

		pairing, err := openPairingFor(ctx, tx, winnerID, loserID)
		if err != nil {
			return err
		}

		var roundID *int
		if pairing != nil {
			roundID = &pairing.RoundID
		}

		match, err := tx.Matches.Create(ctx, &domain.Match{
			WinnerID:     winnerID,
			LoserID:      loserID,
			WinnerScore:  winnerScore,
			LoserScore:   loserScore,
			RatingChange: outcome.WinnerDelta,
			LoserChange:  outcome.LoserDelta,
			RoundID:      roundID,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		err = tx.History.AppendBatch(ctx, []domain.RatingHistory{
			{PlayerID: winnerID, Rating: winner.Rating, MatchID: &match.ID, RecordedAt: now},
			{PlayerID: loserID, Rating: loser.Rating, MatchID: &match.ID, RecordedAt: now},
		})
		if err != nil {
			return err
		}

		if pairing != nil {
			if err := completePairing(ctx, tx, pairing, match.ID); err != nil {
				return err
			}
		}

		result = RecordResult{Match: match, Winner: winner, Loser: loser, Pairing: pairing}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int("winner_id", winnerID).Int("loser_id", loserID).Msg("failed to record match")
		return nil, err
	}

	s.logger.Info().
		Int("match_id", result.Match.ID).
		Int("winner_id", winnerID).
		Int("loser_id", loserID).
		Int("rating_change", result.Match.RatingChange).
		Int("loser_change", result.Match.LoserChange).
		Bool("scheduled", result.Pairing != nil).
		Msg("match recorded")

	announceInBackground(s.announcer, s.logger, s.talk.Message(
		result.Winner.Name,
		result.Loser.Name,
		result.Match.RatingChange,
		winnerScore,
		loserScore,
	))

	return &result, nil
}

// UndoMatch reverses exactly what RecordMatch applied for one match. Later
// matches involving the same players are not recomputed.
func (s *MatchService) UndoMatch(ctx context.Context, matchID int) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var undone *domain.Match
	err := s.store.InTx(ctx, func(tx *repository.Tx) error {
		match, err := tx.Matches.Get(ctx, matchID)
		if err != nil {
			return err
		}

		winner, err := tx.Players.Get(ctx, match.WinnerID)
		if err != nil {
			return fmt.Errorf("winner %d: %w", match.WinnerID, err)
		}
		loser, err := tx.Players.Get(ctx, match.LoserID)
		if err != nil {
			return fmt.Errorf("loser %d: %w", match.LoserID, err)
		}

		now := time.Now().UTC()

		winner.Rating -= match.RatingChange
		winner.Tier = elo.ClassifyTier(winner.Rating)
		winner.Wins--
		winner.UpdatedAt = now
		if err := tx.Players.UpdateStanding(ctx, winner); err != nil {
			return err
		}

		// LoserChange is signed, so subtracting it gives the points back.
		loser.Rating -= match.LoserChange
		loser.Tier = elo.ClassifyTier(loser.Rating)
		loser.Losses--
		loser.UpdatedAt = now
		if err := tx.Players.UpdateStanding(ctx, loser); err != nil {
			return err
		}

		if _, err := tx.Rounds.ResetPairingsForMatch(ctx, match.ID); err != nil {
			return err
		}
		if _, err := tx.History.DeleteForMatch(ctx, match.ID); err != nil {
			return err
		}
		if err := tx.Matches.Delete(ctx, match.ID); err != nil {
			return err
		}

		undone = match
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int("match_id", matchID).Msg("failed to undo match")
		return nil, err
	}

	s.logger.Info().
		Int("match_id", matchID).
		Int("winner_id", undone.WinnerID).
		Int("loser_id", undone.LoserID).
		Int("rating_change", undone.RatingChange).
		Msg("match undone")

	return undone, nil
}
