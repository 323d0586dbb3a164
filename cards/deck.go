package cards

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyDeck is returned when drawing from a deck with no cards left.
var ErrEmptyDeck = errors.New("deck: no cards remaining")

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Deck is an ordered sequence of the 52 distinct cards. It only
// shrinks through Draw and regrows only via Reset. The random source
// is injected so shuffles can be made deterministic in tests.
type Deck struct {
	cards Stack
	rng   *rand.Rand
	base  Stack // non-nil for stacked decks
}

// NewDeck creates a full deck in canonical order. A nil rng falls back
// to a time-seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStackedDeck creates a deck that always resets to the given order
// and ignores shuffles, for deterministic dealing in tests.
func NewStackedDeck(base Stack) *Deck {
	d := &Deck{base: base.Copy()}
	d.Reset()
	return d
}

// Reset restores the full deck in canonical (or stacked) order,
// discarding any previously drawn state.
func (d *Deck) Reset() {
	if d.base != nil {
		d.cards = d.base.Copy()
		return
	}
	d.cards = make(Stack, 0, DeckSize)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
}

// Shuffle applies a uniform random permutation to the remaining cards.
// Stacked decks keep their order.
func (d *Deck) Shuffle() {
	if d.base != nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN removes and returns the top n cards.
func (d *Deck) DrawN(n int) (Stack, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	drawn := d.cards[:n].Copy()
	d.cards = d.cards[n:]
	return drawn, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
