package service

import (
	"context"
	"errors"

	"swyftx-slam/internal/constants"
	"swyftx-slam/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Transactor is the store the ledger and round lifecycle depend on. InTx must
// commit every write fn makes or none of them.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *repository.Tx) error) error
	Reader() *repository.Tx
}

// Announcer posts a message to the league's chat channel.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// Broadcast fans a message out to every announcer and joins their errors.
type Broadcast []Announcer

func (b Broadcast) Announce(ctx context.Context, text string) error {
	var errs []error
	for _, a := range b {
		if err := a.Announce(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// announceInBackground posts messages once the caller's transaction has
// committed. Failures are logged and never reach the caller.
func announceInBackground(announcer Announcer, logger zerolog.Logger, messages ...string) {
	if announcer == nil || len(messages) == 0 {
		return
	}

	g := new(errgroup.Group)
	for _, msg := range messages {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), constants.ExternalAPITimeout)
			defer cancel()
			return announcer.Announce(ctx, msg)
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			logger.Warn().Err(err).Msg("failed to post announcement")
		}
	}()
}
