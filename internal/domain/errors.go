package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error below wraps exactly one of these, so callers can
// branch on errors.Is(err, ErrNotFound) without knowing the specific cause.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
)

var (
	ErrSameParticipant   = fmt.Errorf("%w: winner and loser must be different players", ErrValidation)
	ErrInvalidScore      = fmt.Errorf("%w: scores must be non-negative and the winner must outscore the loser", ErrValidation)
	ErrInvalidRosterSize = fmt.Errorf("%w: pairing requires an even number of players", ErrValidation)
	ErrMissingName       = fmt.Errorf("%w: name is required", ErrValidation)
	ErrMissingField      = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrDuplicatePlayer   = fmt.Errorf("%w: player already registered", ErrValidation)

	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	ErrMatchNotFound  = fmt.Errorf("match %w", ErrNotFound)
	ErrRoundNotFound  = fmt.Errorf("round %w", ErrNotFound)
	ErrSeasonNotFound = fmt.Errorf("season %w", ErrNotFound)

	ErrInsufficientPlayers = fmt.Errorf("%w: at least two players are required for pairings", ErrStateConflict)
	ErrNoActiveSeason      = fmt.Errorf("%w: no active season", ErrStateConflict)
)
