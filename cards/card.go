package cards

import "fmt"

// Suit represents a card suit. Suits carry no ordering; they only
// matter for flush detection and display.
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits lists the four suits in canonical deck order.
func Suits() []Suit {
	return []Suit{Spades, Hearts, Diamonds, Clubs}
}

// Rank represents a card rank, Two through Ace.
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks lists the thirteen ranks in ascending order of power.
func Ranks() []Rank {
	return []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

var rankPowers = map[Rank]int{
	Two:   2,
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  11,
	Queen: 12,
	King:  13,
	Ace:   14,
}

// Power returns the rank's numerical strength (2-14, Ace high).
// Unknown ranks return 0.
func (r Rank) Power() int {
	return rankPowers[r]
}

// Label returns the rank's display label.
func (r Rank) Label() string {
	return string(r)
}

// Card represents a playing card.
type Card struct {
	Suit Suit
	Rank Rank
}

// String returns the string representation of a card, e.g. "A♠".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Equals checks if two cards are equal.
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "10S" -> Card{Suit: Spades, Rank: Ten}
func CardFromString(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	var suit Suit
	switch s[len(s)-1:] {
	case "♠", "s", "S":
		suit = Spades
	case "♥", "h", "H":
		suit = Hearts
	case "♦", "d", "D":
		suit = Diamonds
	case "♣", "c", "C":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %s", s[len(s)-1:])
	}

	rank := Rank(s[:len(s)-1])
	if rank == "T" {
		rank = Ten
	}
	if rank.Power() == 0 {
		return Card{}, fmt.Errorf("invalid card rank: %s", s[:len(s)-1])
	}

	return Card{Suit: suit, Rank: rank}, nil
}
