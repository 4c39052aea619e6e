package repository

import (
	"context"
	"database/sql"
	"fmt"

	"swyftx-slam/internal/db"

	"github.com/rs/zerolog"
)

// Tx groups the repositories bound to one transaction.
type Tx struct {
	Players *PlayerRepository
	Matches *MatchRepository
	History *RatingHistoryRepository
	Rounds  *RoundRepository
	Seasons *SeasonRepository
	League  *LeagueRepository
}

type Store struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStore(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *Store {
	return &Store{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// InTx runs fn inside a single transaction. Any error from fn rolls back
// every write fn made; nothing is committed unless fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.bind(s.queries.WithTx(tx))); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reader returns repositories bound to the connection pool, for reads that
// need no transaction.
func (s *Store) Reader() *Tx {
	return s.bind(s.queries)
}

func (s *Store) bind(q *db.Queries) *Tx {
	return &Tx{
		Players: NewPlayerRepository(q, s.logger),
		Matches: NewMatchRepository(q, s.logger),
		History: NewRatingHistoryRepository(q, s.logger),
		Rounds:  NewRoundRepository(q, s.logger),
		Seasons: NewSeasonRepository(q, s.logger),
		League:  NewLeagueRepository(q, s.logger),
	}
}

func toIntPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func toInt64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}
