package models

import "github.com/cockroachdb/errors"

// Pick validation errors
var (
	ErrNoPicker        = errors.New("no picker identity")
	ErrEmptyPickSet    = errors.New("empty")
	ErrPickCapReached  = errors.New("pick limit reached")
	ErrOtherSidePicked = errors.New("other team already picked for this game")
	ErrTeamNotInGame   = errors.New("team is not playing in this game")
	ErrNotMNFGame      = errors.New("game is not the monday night game")
	ErrWeekMismatch    = errors.New("pick does not belong to this week")
	ErrUnknownPickKind = errors.New("unknown pick kind")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrInvalidGameID   = errors.New("invalid game id")
)

// Scoring errors
var (
	ErrGameNotFinal = errors.New("game has no final result")
	ErrNoSpread     = errors.New("game has no spread line")
)

// Lookup errors
var (
	ErrGameNotFound = errors.New("game not found")
	ErrUserNotFound = errors.New("user not found")
)
