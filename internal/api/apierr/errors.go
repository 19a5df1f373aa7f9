package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcoot/unogame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidColor       = "INVALID_COLOR"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRoomFull           = "ROOM_FULL"
	CodeAlreadyInRoom      = "ALREADY_IN_ROOM"
	CodeNotHost            = "NOT_HOST"
	CodeCannotKickSelf     = "CANNOT_KICK_SELF"
	CodeGameInProgress     = "GAME_IN_PROGRESS"
	CodeWrongPlayerCount   = "WRONG_PLAYER_COUNT"
	CodeGameFinished       = "GAME_FINISHED"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeCardNotInHand      = "CARD_NOT_IN_HAND"
	CodeIllegalCard        = "ILLEGAL_CARD"
	CodePlayableCardExists = "PLAYABLE_CARD_EXISTS"
	CodeNoPendingColor     = "NO_PENDING_COLOR"
	CodeColorChoicePending = "COLOR_CHOICE_PENDING"
	CodeDeckEmpty          = "DECK_EMPTY"
	CodeNoNumericCard      = "NO_NUMERIC_CARD"
	CodeRoomBusy           = "ROOM_BUSY"
	CodeInternalError      = "INTERNAL_ERROR"
)

// RetryAfterSeconds is advertised to clients that hit a busy room
const RetryAfterSeconds = 1

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if he.apiError.Code == CodeRoomBusy {
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// FromError returns the HTTP status and client-facing error for err.
// Unknown errors never leak their message.
func FromError(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidColor):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidColor, "Color must be red, blue, green or yellow"}}
	case errors.Is(err, model.ErrInvalidRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}

	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in this room"}}
	case errors.Is(err, model.ErrCannotKickSelf):
		return &httpError{http.StatusConflict, APIError{CodeCannotKickSelf, "The host cannot kick themselves"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrWrongPlayerCount):
		return &httpError{http.StatusConflict, APIError{CodeWrongPlayerCount, "A game needs 2 to 4 players"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game is finished"}}
	case errors.Is(err, model.ErrCardNotInHand):
		return &httpError{http.StatusConflict, APIError{CodeCardNotInHand, "Card is not in your hand"}}
	case errors.Is(err, model.ErrIllegalCard):
		return &httpError{http.StatusConflict, APIError{CodeIllegalCard, "Card does not match the current card"}}
	case errors.Is(err, model.ErrPlayableCardExists):
		return &httpError{http.StatusConflict, APIError{CodePlayableCardExists, "You have a playable card"}}
	case errors.Is(err, model.ErrNoPendingColor):
		return &httpError{http.StatusConflict, APIError{CodeNoPendingColor, "No wild is waiting for a color"}}
	case errors.Is(err, model.ErrColorChoicePending):
		return &httpError{http.StatusConflict, APIError{CodeColorChoicePending, "Waiting for a color choice"}}
	case errors.Is(err, model.ErrDeckEmpty):
		return &httpError{http.StatusConflict, APIError{CodeDeckEmpty, "The deck is empty"}}
	case errors.Is(err, model.ErrNoNumericCard):
		return &httpError{http.StatusConflict, APIError{CodeNoNumericCard, "No numeric card left to open the game"}}

	case errors.Is(err, model.ErrRoomBusy):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRoomBusy, "Room is busy, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, model.ErrInternal.Error()}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, model.ErrInternal.Error()}}
}
