package game

import (
	"github.com/cardsrv/drawpoker/cards"
	"github.com/cardsrv/drawpoker/hands"
)

// Factory supplies a session's collaborators. It is the composition
// seam for alternate rule sets: a session never constructs its own
// deck, evaluator or config.
type Factory interface {
	NewDeck() *cards.Deck
	NewEvaluator() *hands.Evaluator
	NewConfig() Config
}

// StandardFactory builds sessions for fixed-layout draw poker with a
// single uniform ante.
type StandardFactory struct {
	cfg Config
}

// NewStandardFactory creates a factory around the given config.
func NewStandardFactory(cfg Config) *StandardFactory {
	return &StandardFactory{cfg: cfg}
}

func (f *StandardFactory) NewDeck() *cards.Deck {
	return cards.NewDeck(nil)
}

func (f *StandardFactory) NewEvaluator() *hands.Evaluator {
	if f.cfg.AceLowStraights {
		return hands.NewEvaluator(hands.WithAceLowStraights())
	}
	return hands.NewEvaluator()
}

func (f *StandardFactory) NewConfig() Config {
	return f.cfg
}
