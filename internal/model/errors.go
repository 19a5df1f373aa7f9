package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidColor   = errors.New("invalid color")

	// Lookup errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("player is already in room")
	ErrNotHost        = errors.New("player is not the host")
	ErrCannotKickSelf = errors.New("host cannot kick themselves")
	ErrGameInProgress = errors.New("game is in progress")

	// Rule violations
	ErrWrongPlayerCount   = errors.New("a game needs between 2 and 4 players")
	ErrGameFinished       = errors.New("game is already finished")
	ErrNotPlayerTurn      = errors.New("not this player's turn")
	ErrCardNotInHand      = errors.New("card is not in hand")
	ErrIllegalCard        = errors.New("card does not match the current card")
	ErrPlayableCardExists = errors.New("player holds a playable card")
	ErrNoPendingColor     = errors.New("no color choice is pending")
	ErrColorChoicePending = errors.New("waiting for a color to be chosen")

	// Exhaustion errors
	ErrDeckEmpty     = errors.New("deck is empty")
	ErrNoNumericCard = errors.New("no numeric card left to open the game")

	// Concurrency errors
	ErrRoomBusy = errors.New("room is busy, retry")

	// Internal errors
	ErrInternal = errors.New("server error")
)

// ErrorKind classifies errors for transport mapping
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindRuleViolation ErrorKind = "rule_violation"
	KindExhaustion    ErrorKind = "exhaustion"
	KindConflict      ErrorKind = "conflict"
	KindInternal      ErrorKind = "internal"
)

// KindOf returns the kind of err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidColor):
		return KindValidation
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrGameNotFound), errors.Is(err, ErrPlayerNotFound):
		return KindNotFound
	case errors.Is(err, ErrDeckEmpty), errors.Is(err, ErrNoNumericCard):
		return KindExhaustion
	case errors.Is(err, ErrRoomBusy):
		return KindConflict
	case errors.Is(err, ErrRoomFull), errors.Is(err, ErrAlreadyInRoom), errors.Is(err, ErrNotHost),
		errors.Is(err, ErrCannotKickSelf), errors.Is(err, ErrGameInProgress),
		errors.Is(err, ErrWrongPlayerCount), errors.Is(err, ErrGameFinished),
		errors.Is(err, ErrNotPlayerTurn), errors.Is(err, ErrCardNotInHand),
		errors.Is(err, ErrIllegalCard), errors.Is(err, ErrPlayableCardExists),
		errors.Is(err, ErrNoPendingColor), errors.Is(err, ErrColorChoicePending):
		return KindRuleViolation
	default:
		return KindInternal
	}
}

// IsRetryable returns true for errors the caller may retry unchanged
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}
