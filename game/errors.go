package game

import (
	"errors"

	"github.com/cardsrv/drawpoker/cards"
	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/hands"
)

// Rejection errors. Each one rejects a single command without touching
// session state; none is fatal to the session.
var (
	ErrInvalidState      = errors.New("session: command not legal in current phase")
	ErrNotYourTurn       = errors.New("session: not your turn")
	ErrInsufficientChips = errors.New("session: insufficient chips")
	ErrGameFull          = errors.New("session: game is full")
	ErrGameAlreadyExists = errors.New("session: game already exists")
	ErrGameNotFound      = errors.New("session: game not found")
	ErrPlayerNotFound    = errors.New("session: player not found")
	ErrDrawLimitExceeded = errors.New("session: draw limit exceeded")
)

// ErrorKind maps a rejection to the wire kind carried by ERROR events.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, ErrInsufficientChips):
		return "INSUFFICIENT_CHIPS"
	case errors.Is(err, ErrGameFull):
		return "GAME_FULL"
	case errors.Is(err, ErrGameAlreadyExists):
		return "GAME_ALREADY_EXISTS"
	case errors.Is(err, ErrGameNotFound):
		return "GAME_NOT_FOUND"
	case errors.Is(err, ErrPlayerNotFound):
		return "PLAYER_NOT_FOUND"
	case errors.Is(err, ErrDrawLimitExceeded):
		return "DRAW_LIMIT_EXCEEDED"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, cards.ErrEmptyDeck):
		return "EMPTY_DECK"
	case errors.Is(err, hands.ErrInvalidHand):
		return "INVALID_HAND"
	case errors.Is(err, commands.ErrUnknownAction):
		return "UNKNOWN_ACTION"
	case errors.Is(err, commands.ErrMalformed):
		return "MALFORMED_COMMAND"
	default:
		return "INTERNAL"
	}
}
