package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"

	"github.com/rs/zerolog"
)

// Matchup is an unordered pair of player ids to be stored as a pairing.
type Matchup struct {
	Player1ID int
	Player2ID int
}

type RoundRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRoundRepository(queries *db.Queries, logger zerolog.Logger) *RoundRepository {
	return &RoundRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *RoundRepository) Create(ctx context.Context, seasonID *int, weekStart, now time.Time) (*domain.Round, error) {
	id, err := r.queries.CreateRound(ctx, db.CreateRoundParams{
		SeasonID:  toInt64Ptr(seasonID),
		WeekStart: weekStart,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RoundRepository) Get(ctx context.Context, id int) (*domain.Round, error) {
	round, err := r.queries.GetRound(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Round{
		ID:          int(round.ID),
		SeasonID:    toIntPtr(round.SeasonID),
		WeekStart:   round.WeekStart,
		Status:      domain.RoundStatus(round.Status),
		CreatedAt:   round.CreatedAt,
		CompletedAt: round.CompletedAt,
	}, nil
}

// Count returns every round ever created, completed or not.
func (r *RoundRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountRounds(ctx)
	return int(n), err
}

func (r *RoundRepository) CountForSeason(ctx context.Context, seasonID int) (int, error) {
	n, err := r.queries.CountRoundsBySeason(ctx, int64(seasonID))
	return int(n), err
}

func (r *RoundRepository) CompleteActive(ctx context.Context, now time.Time) (int, error) {
	n, err := r.queries.CompleteActiveRounds(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete active rounds: %w", err)
	}
	return int(n), nil
}

func (r *RoundRepository) CreatePairings(ctx context.Context, roundID int, matchups []Matchup, now time.Time) error {
	for i := 0; i < len(matchups); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(matchups))

		r.logger.Debug().
			Int("round_id", roundID).
			Int("batch_start", i).
			Int("batch_end", end).
			Msg("inserting pairings")

		for _, m := range matchups[i:end] {
			_, err := r.queries.CreatePairing(ctx, db.CreatePairingParams{
				RoundID:   int64(roundID),
				Player1ID: int64(m.Player1ID),
				Player2ID: int64(m.Player2ID),
				CreatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("failed to create pairing %d vs %d: %w", m.Player1ID, m.Player2ID, err)
			}
		}
	}
	return nil
}

func (r *RoundRepository) GetPairing(ctx context.Context, id int) (*domain.Pairing, error) {
	pairing, err := r.queries.GetPairing(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: pairing %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	p := toDomainPairing(pairing)
	return &p, nil
}

// OpenPairing finds the uncompleted pairing of a and b in either order, or
// returns nil when the round has none.
func (r *RoundRepository) OpenPairing(ctx context.Context, roundID, a, b int) (*domain.Pairing, error) {
	pairing, err := r.queries.FindOpenPairing(ctx, db.FindOpenPairingParams{
		RoundID: int64(roundID),
		PlayerA: int64(a),
		PlayerB: int64(b),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := toDomainPairing(pairing)
	return &p, nil
}

func (r *RoundRepository) CompletePairing(ctx context.Context, pairingID, matchID int) error {
	mid := int64(matchID)
	err := r.queries.CompletePairing(ctx, db.CompletePairingParams{
		MatchID: &mid,
		ID:      int64(pairingID),
	})
	if err != nil {
		return fmt.Errorf("failed to complete pairing %d: %w", pairingID, err)
	}
	return nil
}

// ResetPairingsForMatch reopens any pairing completed by matchID.
func (r *RoundRepository) ResetPairingsForMatch(ctx context.Context, matchID int) (int, error) {
	n, err := r.queries.ResetPairingsByMatch(ctx, int64(matchID))
	if err != nil {
		return 0, fmt.Errorf("failed to reset pairings for match %d: %w", matchID, err)
	}
	return int(n), nil
}

func (r *RoundRepository) Pairings(ctx context.Context, roundID int) ([]domain.PairingDetail, error) {
	rows, err := r.queries.ListPairingsByRound(ctx, int64(roundID))
	if err != nil {
		return nil, err
	}

	result := make([]domain.PairingDetail, len(rows))
	for i, row := range rows {
		result[i] = domain.PairingDetail{
			Pairing:       toDomainPairing(row.Pairing),
			Player1Name:   row.Player1Name,
			Player1Rating: int(row.Player1Rating),
			Player2Name:   row.Player2Name,
			Player2Rating: int(row.Player2Rating),
		}
	}
	return result, nil
}

func toDomainPairing(p db.Pairing) domain.Pairing {
	return domain.Pairing{
		ID:        int(p.ID),
		RoundID:   int(p.RoundID),
		Player1ID: int(p.Player1ID),
		Player2ID: int(p.Player2ID),
		Completed: p.Completed,
		MatchID:   toIntPtr(p.MatchID),
		CreatedAt: p.CreatedAt,
	}
}
