package game

import (
	"fmt"

	"github.com/cardsrv/drawpoker/cards"
)

// HandSize is the number of cards in a draw-poker hand.
const HandSize = 5

// Config holds the immutable parameters of a game session. It is
// validated once at session creation and never mutated.
type Config struct {
	MinPlayers    int
	MaxPlayers    int
	StartingChips int
	Ante          int
	MaxDrawCount  int

	// AceLowStraights enables the A-2-3-4-5 straight in the hand
	// evaluator. Aces are high only by default.
	AceLowStraights bool
}

// DefaultConfig returns the standard table parameters.
func DefaultConfig() Config {
	return Config{
		MinPlayers:    2,
		MaxPlayers:    6,
		StartingChips: 1000,
		Ante:          10,
		MaxDrawCount:  3,
	}
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.MinPlayers < 2 {
		return fmt.Errorf("config: minPlayers must be at least 2, got %d", c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("config: maxPlayers %d below minPlayers %d", c.MaxPlayers, c.MinPlayers)
	}
	if c.MaxPlayers*HandSize > cards.DeckSize {
		return fmt.Errorf("config: maxPlayers %d cannot be dealt from one deck", c.MaxPlayers)
	}
	if c.StartingChips <= 0 {
		return fmt.Errorf("config: startingChips must be positive, got %d", c.StartingChips)
	}
	if c.Ante < 0 {
		return fmt.Errorf("config: ante must not be negative, got %d", c.Ante)
	}
	if c.MaxDrawCount < 0 {
		return fmt.Errorf("config: maxDrawCount must not be negative, got %d", c.MaxDrawCount)
	}
	return nil
}
