package game

import "github.com/cardsrv/drawpoker/cards"

// Status describes a player's standing within the current hand.
type Status string

const (
	StatusActive     Status = "active"
	StatusFolded     Status = "folded"
	StatusAllIn      Status = "all_in"
	StatusSpectating Status = "spectating"
)

// Player is a seated participant. Seat order in the session's player
// slice is turn order.
type Player struct {
	ID       string
	Chips    int
	Hand     cards.Stack
	Status   Status
	RoundBet int // contribution to the pot this betting round

	acted   bool // acted since the last raise (or phase entry)
	leaving bool // seat is vacated once the hand resolves
}

// NewPlayer creates a seated player with the starting stack.
func NewPlayer(id string, chips int) *Player {
	return &Player{
		ID:     id,
		Chips:  chips,
		Status: StatusActive,
	}
}

// canBet reports whether the player can still put chips in.
func (p *Player) canBet() bool {
	return p.Status == StatusActive
}

// inHand reports whether the player still holds cards in the hand.
func (p *Player) inHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}
