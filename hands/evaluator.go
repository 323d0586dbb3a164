package hands

import (
	"errors"
	"sort"

	"github.com/cardsrv/drawpoker/cards"
)

// ErrInvalidHand is returned when a hand is not exactly five distinct cards.
var ErrInvalidHand = errors.New("hands: hand must be exactly five distinct cards")

// Category represents the category of a poker hand. Any hand of a
// higher category beats every hand of a lower category.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = map[Category]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (c Category) String() string {
	return categoryNames[c]
}

// Strength is the comparable result of evaluating a hand. Two
// strengths compare first by category, then position by position along
// the kicker tuple. Equal tuples mean a genuine tie.
type Strength struct {
	Category Category
	Kickers  []int // decisive rank powers, most significant first
}

// Compare returns -1, 0 or 1 as s is weaker than, equal to, or
// stronger than other.
func (s Strength) Compare(other Strength) int {
	if s.Category != other.Category {
		if s.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(s.Kickers) && i < len(other.Kickers); i++ {
		if s.Kickers[i] != other.Kickers[i] {
			if s.Kickers[i] < other.Kickers[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Beats reports whether s strictly outranks other.
func (s Strength) Beats(other Strength) bool {
	return s.Compare(other) > 0
}

// Equal reports whether the two strengths are an exact tie.
func (s Strength) Equal(other Strength) bool {
	return s.Compare(other) == 0
}

func (s Strength) String() string {
	return s.Category.String()
}

// Evaluator scores five-card hands. It is stateless and safe to share
// across sessions. Aces are high only unless the evaluator was built
// with WithAceLowStraights.
type Evaluator struct {
	aceLow bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAceLowStraights enables the A-2-3-4-5 straight.
func WithAceLowStraights() Option {
	return func(e *Evaluator) { e.aceLow = true }
}

// NewEvaluator creates a hand evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores a hand of exactly five distinct cards.
func (e *Evaluator) Evaluate(hand cards.Stack) (Strength, error) {
	if len(hand) != 5 {
		return Strength{}, ErrInvalidHand
	}
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			if hand[i].Equals(hand[j]) {
				return Strength{}, ErrInvalidHand
			}
		}
	}

	sorted := sortByPowerDesc(hand)
	flush := isFlush(sorted)
	straightHigh := e.straightHighCard(sorted)

	if flush && straightHigh > 0 {
		return Strength{Category: StraightFlush, Kickers: []int{straightHigh}}, nil
	}

	if quad, kicker := fourOfAKind(sorted); quad > 0 {
		return Strength{Category: FourOfAKind, Kickers: []int{quad, kicker}}, nil
	}

	if trips, pair := fullHouse(sorted); trips > 0 {
		return Strength{Category: FullHouse, Kickers: []int{trips, pair}}, nil
	}

	if flush {
		return Strength{Category: Flush, Kickers: powers(sorted)}, nil
	}

	if straightHigh > 0 {
		return Strength{Category: Straight, Kickers: []int{straightHigh}}, nil
	}

	if trips, kickers := threeOfAKind(sorted); trips > 0 {
		return Strength{Category: ThreeOfAKind, Kickers: append([]int{trips}, kickers...)}, nil
	}

	if high, low, kicker := twoPair(sorted); high > 0 {
		return Strength{Category: TwoPair, Kickers: []int{high, low, kicker}}, nil
	}

	if pair, kickers := onePair(sorted); pair > 0 {
		return Strength{Category: OnePair, Kickers: append([]int{pair}, kickers...)}, nil
	}

	return Strength{Category: HighCard, Kickers: powers(sorted)}, nil
}

// straightHighCard returns the power of the straight's top card, or 0
// when the hand is not a straight. An ace-low straight ranks by the
// five, not the ace.
func (e *Evaluator) straightHighCard(sorted cards.Stack) int {
	consecutive := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank.Power() != sorted[i-1].Rank.Power()-1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return sorted[0].Rank.Power()
	}

	if e.aceLow && isAceLowStraight(sorted) {
		return cards.Five.Power()
	}

	return 0
}

// sortByPowerDesc sorts cards by rank power, highest first.
func sortByPowerDesc(hand cards.Stack) cards.Stack {
	result := hand.Copy()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Rank.Power() > result[j].Rank.Power()
	})
	return result
}

func powers(hand cards.Stack) []int {
	out := make([]int, len(hand))
	for i, card := range hand {
		out[i] = card.Rank.Power()
	}
	return out
}

func countRanks(hand cards.Stack) map[cards.Rank]int {
	counts := make(map[cards.Rank]int)
	for _, card := range hand {
		counts[card.Rank]++
	}
	return counts
}

// isFlush checks if all cards are of the same suit.
func isFlush(hand cards.Stack) bool {
	suit := hand[0].Suit
	for _, card := range hand[1:] {
		if card.Suit != suit {
			return false
		}
	}
	return true
}

// isAceLowStraight checks for A-5-4-3-2.
func isAceLowStraight(hand cards.Stack) bool {
	wanted := map[cards.Rank]bool{
		cards.Ace:   false,
		cards.Five:  false,
		cards.Four:  false,
		cards.Three: false,
		cards.Two:   false,
	}
	for _, card := range hand {
		if _, ok := wanted[card.Rank]; !ok {
			return false
		}
		wanted[card.Rank] = true
	}
	for _, present := range wanted {
		if !present {
			return false
		}
	}
	return true
}

// fourOfAKind returns the quad power and kicker power, or zeros.
func fourOfAKind(hand cards.Stack) (int, int) {
	var quad, kicker cards.Rank
	for rank, count := range countRanks(hand) {
		if count == 4 {
			quad = rank
		} else {
			kicker = rank
		}
	}
	if quad == "" {
		return 0, 0
	}
	return quad.Power(), kicker.Power()
}

// fullHouse returns the trips power and pair power, or zeros.
func fullHouse(hand cards.Stack) (int, int) {
	var trips, pair cards.Rank
	for rank, count := range countRanks(hand) {
		switch count {
		case 3:
			trips = rank
		case 2:
			pair = rank
		}
	}
	if trips == "" || pair == "" {
		return 0, 0
	}
	return trips.Power(), pair.Power()
}

// threeOfAKind returns the trips power and the kickers descending, or zeros.
func threeOfAKind(hand cards.Stack) (int, []int) {
	var trips cards.Rank
	var kickers []int
	for rank, count := range countRanks(hand) {
		if count == 3 {
			trips = rank
		} else {
			kickers = append(kickers, rank.Power())
		}
	}
	if trips == "" {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(kickers)))
	return trips.Power(), kickers
}

// twoPair returns the higher pair, lower pair and kicker powers, or zeros.
func twoPair(hand cards.Stack) (int, int, int) {
	var pairs []int
	var kicker int
	for rank, count := range countRanks(hand) {
		switch count {
		case 2:
			pairs = append(pairs, rank.Power())
		case 1:
			kicker = rank.Power()
		}
	}
	if len(pairs) != 2 {
		return 0, 0, 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
	return pairs[0], pairs[1], kicker
}

// onePair returns the pair power and the kickers descending, or zeros.
func onePair(hand cards.Stack) (int, []int) {
	var pair cards.Rank
	var kickers []int
	for rank, count := range countRanks(hand) {
		if count == 2 {
			pair = rank
		} else {
			kickers = append(kickers, rank.Power())
		}
	}
	if pair == "" || len(kickers) != 3 {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(kickers)))
	return pair.Power(), kickers
}
