// Package events defines the outbound events a game session produces
// for the dispatcher to deliver to clients, and an in-memory log so a
// hand is replayable from its event stream.
package events

import "github.com/cardsrv/drawpoker/cards"

// EventHandler is a callback receiving session events.
type EventHandler func(event Event)

// Event is a fact produced by applying a command to a session.
type Event interface {
	Name() string
	Game() string
}

// PlayerJoined is emitted when a player takes a seat.
type PlayerJoined struct {
	GameID   string
	PlayerID string
	Seat     int
	Chips    int
}

func (e PlayerJoined) Name() string { return "PLAYER_JOINED" }
func (e PlayerJoined) Game() string { return e.GameID }

// PlayerLeft is emitted when a player gives up their seat.
type PlayerLeft struct {
	GameID   string
	PlayerID string
}

func (e PlayerLeft) Name() string { return "PLAYER_LEFT" }
func (e PlayerLeft) Game() string { return e.GameID }

// HandStarted is emitted once antes are collected and cards dealt.
type HandStarted struct {
	GameID  string
	HandID  string
	Players []string
	Ante    int
	Pot     int
}

func (e HandStarted) Name() string { return "HAND_STARTED" }
func (e HandStarted) Game() string { return e.GameID }

// CardsDealt carries a player's cards. Private: delivered only to
// that player.
type CardsDealt struct {
	GameID   string
	PlayerID string
	Cards    cards.Stack
}

func (e CardsDealt) Name() string { return "CARDS_DEALT" }
func (e CardsDealt) Game() string { return e.GameID }

// TurnChanged is emitted whenever the action moves to a new player.
type TurnChanged struct {
	GameID    string
	PlayerID  string
	Phase     string
	BetToCall int
}

func (e TurnChanged) Name() string { return "TURN_CHANGED" }
func (e TurnChanged) Game() string { return e.GameID }

// PotUpdated is emitted whenever chips move into the pot.
type PotUpdated struct {
	GameID   string
	PlayerID string
	Amount   int
	Pot      int
}

func (e PotUpdated) Name() string { return "POT_UPDATED" }
func (e PotUpdated) Game() string { return e.GameID }

// PlayerFolded is emitted when a player abandons the hand.
type PlayerFolded struct {
	GameID   string
	PlayerID string
}

func (e PlayerFolded) Name() string { return "PLAYER_FOLDED" }
func (e PlayerFolded) Game() string { return e.GameID }

// CardsDrawn is the public record of a draw: how many cards were
// exchanged, never which.
type CardsDrawn struct {
	GameID    string
	PlayerID  string
	Discarded int
}

func (e CardsDrawn) Name() string { return "CARDS_DRAWN" }
func (e CardsDrawn) Game() string { return e.GameID }

// HandRevealed is emitted when a player shows their hand at showdown.
type HandRevealed struct {
	GameID   string
	PlayerID string
	Cards    cards.Stack
	Strength string
}

func (e HandRevealed) Name() string { return "HAND_REVEALED" }
func (e HandRevealed) Game() string { return e.GameID }

// ShowdownResult is emitted when the pot is awarded.
type ShowdownResult struct {
	GameID  string
	HandID  string
	Winners []string
	Payouts map[string]int
	Pot     int
}

func (e ShowdownResult) Name() string { return "SHOWDOWN_RESULT" }
func (e ShowdownResult) Game() string { return e.GameID }

// SessionTerminated is emitted when the session shuts down.
type SessionTerminated struct {
	GameID string
	Reason string
}

func (e SessionTerminated) Name() string { return "SESSION_TERMINATED" }
func (e SessionTerminated) Game() string { return e.GameID }

// Error is sent to the submitting client when a command is rejected.
type Error struct {
	GameID   string
	PlayerID string
	Kind     string
	Reason   string
}

func (e Error) Name() string { return "ERROR" }
func (e Error) Game() string { return e.GameID }
