package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	deck := NewDeck(nil)
	assert.Equal(t, DeckSize, deck.Remaining())

	seen := map[Card]bool{}
	for deck.Remaining() > 0 {
		card, err := deck.Draw()
		require.NoError(t, err)
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
	assert.Len(t, seen, DeckSize)
}

func TestDeckResetRestoresFullDeck(t *testing.T) {
	deck := NewDeck(nil)
	deck.Shuffle()
	for i := 0; i < 10; i++ {
		_, err := deck.Draw()
		require.NoError(t, err)
	}
	assert.Equal(t, 42, deck.Remaining())

	deck.Reset()
	assert.Equal(t, DeckSize, deck.Remaining())
}

func TestDeckDrawEmpty(t *testing.T) {
	deck := NewDeck(nil)
	for i := 0; i < DeckSize; i++ {
		_, err := deck.Draw()
		require.NoError(t, err)
	}

	_, err := deck.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestDeckDrawN(t *testing.T) {
	deck := NewDeck(nil)
	drawn, err := deck.DrawN(5)
	require.NoError(t, err)
	assert.Len(t, drawn, 5)
	assert.Equal(t, 47, deck.Remaining())

	_, err = deck.DrawN(48)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestDeckShuffleIsDeterministicWithSeededSource(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(42)))
	b := NewDeck(rand.New(rand.NewSource(42)))
	a.Shuffle()
	b.Shuffle()

	for a.Remaining() > 0 {
		ca, err := a.Draw()
		require.NoError(t, err)
		cb, err := b.Draw()
		require.NoError(t, err)
		assert.Equal(t, ca, cb)
	}
}

func TestDeckShufflePreservesCardSet(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(7)))
	deck.Shuffle()

	seen := map[Card]bool{}
	for deck.Remaining() > 0 {
		card, err := deck.Draw()
		require.NoError(t, err)
		seen[card] = true
	}
	assert.Len(t, seen, DeckSize)
}
