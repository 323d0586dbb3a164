package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsrv/drawpoker/cards"
	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/hands"
)

// stackedFactory deals from a predetermined card order so hands are
// reproducible. A nil stack falls back to a regular shuffled deck.
type stackedFactory struct {
	cfg   Config
	stack cards.Stack
}

func (f *stackedFactory) NewDeck() *cards.Deck {
	if f.stack == nil {
		return cards.NewDeck(nil)
	}
	return cards.NewStackedDeck(f.stack)
}

func (f *stackedFactory) NewEvaluator() *hands.Evaluator {
	return hands.NewEvaluator()
}

func (f *stackedFactory) NewConfig() Config {
	return f.cfg
}

func testConfig() Config {
	return Config{MinPlayers: 2, MaxPlayers: 4, StartingChips: 100, Ante: 5, MaxDrawCount: 3}
}

func mustStack(t *testing.T, shorthands ...string) cards.Stack {
	t.Helper()
	stack, err := cards.StackFromStrings(shorthands...)
	require.NoError(t, err)
	return stack
}

func hdr(player string) commands.Header {
	return commands.Header{Game: "G1", Player: player}
}

func apply(t *testing.T, s *Session, cmd commands.Command) []events.Event {
	t.Helper()
	evts, err := s.Apply(cmd)
	require.NoError(t, err, "command %s by %s", cmd.Kind(), cmd.PlayerID())
	return evts
}

func newStartedSession(t *testing.T, stack cards.Stack, playerIDs ...string) *Session {
	t.Helper()
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig(), stack: stack})
	require.NoError(t, err)
	for _, id := range playerIDs {
		apply(t, s, commands.Join{Header: hdr(id)})
	}
	apply(t, s, commands.Start{Header: hdr(playerIDs[0])})
	return s
}

// twoPlayerStack deals A a nine-high ace kicker hand and B a slightly
// weaker one, with two clubs left over for draws.
func twoPlayerStack(t *testing.T) cards.Stack {
	return mustStack(t,
		"Ah", "Kd", "Qc", "Js", "9h", // A: high card A K Q J 9
		"As", "Kh", "Qd", "Jc", "8d", // B: high card A K Q J 8
		"2c", "3c",
	)
}

func potInvariant(t *testing.T, s *Session, total int) {
	t.Helper()
	sum := s.pot
	for _, p := range s.players {
		sum += p.Chips
	}
	assert.Equal(t, total, sum, "pot invariant violated")
}

func eventNames(evts []events.Event) []string {
	names := make([]string, len(evts))
	for i, e := range evts {
		names[i] = e.Name()
	}
	return names
}

func TestJoinAndStartScenario(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)
	assert.Equal(t, PhaseWaitingForPlayers, s.Phase())

	evts := apply(t, s, commands.Join{Header: hdr("A")})
	require.Len(t, evts, 1)
	joined := evts[0].(events.PlayerJoined)
	assert.Equal(t, 0, joined.Seat)
	assert.Equal(t, 100, joined.Chips)

	apply(t, s, commands.Join{Header: hdr("B")})

	evts = apply(t, s, commands.Start{Header: hdr("A")})
	names := eventNames(evts)
	assert.Equal(t, []string{"HAND_STARTED", "CARDS_DEALT", "CARDS_DEALT", "TURN_CHANGED"}, names)

	started := evts[0].(events.HandStarted)
	assert.Equal(t, 5, started.Ante)
	assert.Equal(t, 10, started.Pot)
	assert.Equal(t, []string{"A", "B"}, started.Players)

	assert.Equal(t, PhaseBettingRound1, s.Phase())
	assert.Equal(t, 10, s.pot)
	for _, p := range s.players {
		assert.Equal(t, 95, p.Chips)
		assert.Len(t, p.Hand, HandSize)
	}

	turn := evts[3].(events.TurnChanged)
	assert.Equal(t, "A", turn.PlayerID)

	potInvariant(t, s, 200)
}

func TestFoldResolvesHandImmediately(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")

	evts := apply(t, s, commands.Fold{Header: hdr("A")})
	names := eventNames(evts)
	assert.Contains(t, names, "PLAYER_FOLDED")
	assert.Contains(t, names, "SHOWDOWN_RESULT")

	result := evts[len(evts)-1].(events.ShowdownResult)
	assert.Equal(t, []string{"B"}, result.Winners)
	assert.Equal(t, 10, result.Payouts["B"])

	assert.Equal(t, PhaseHandComplete, s.Phase())
	b, _ := s.playerByID("B")
	assert.Equal(t, 105, b.Chips)
	potInvariant(t, s, 200)
}

func TestOutOfTurnCommandIsRejectedWithoutMutation(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")
	before := s.Snapshot()

	_, err := s.Apply(commands.Bet{Header: hdr("B"), Amount: 10})
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, before, s.Snapshot())

	_, err = s.Apply(commands.Check{Header: hdr("B")})
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, before, s.Snapshot())
}

func TestStatusIsIdempotent(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")

	evts := apply(t, s, commands.Status{Header: hdr("A")})
	assert.Empty(t, evts, "STATUS must not produce events")
	assert.Equal(t, s.Snapshot(), s.Snapshot())
}

func TestSnapshotNeverLeaksHoleCards(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")
	snap := s.Snapshot()
	assert.Equal(t, PhaseBettingRound1, snap.Phase)
	assert.Equal(t, 10, snap.Pot)
	assert.Equal(t, "A", snap.Turn)
	require.Len(t, snap.Players, 2)
	for _, pv := range snap.Players {
		assert.Equal(t, 95, pv.Chips)
		assert.Equal(t, StatusActive, pv.Status)
	}
}

func TestFullHandWithBettingDrawAndShowdown(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")
	potInvariant(t, s, 200)

	// betting round 1: A bets, B calls
	evts := apply(t, s, commands.Bet{Header: hdr("A"), Amount: 10})
	assert.Equal(t, []string{"POT_UPDATED", "TURN_CHANGED"}, eventNames(evts))
	assert.Equal(t, 20, evts[0].(events.PotUpdated).Pot)
	potInvariant(t, s, 200)

	evts = apply(t, s, commands.Call{Header: hdr("B")})
	assert.Contains(t, eventNames(evts), "POT_UPDATED")
	assert.Equal(t, PhaseDraw, s.Phase())
	assert.Equal(t, 30, s.pot)
	potInvariant(t, s, 200)

	// both stand pat
	evts = apply(t, s, commands.Draw{Header: hdr("A")})
	assert.Equal(t, []string{"CARDS_DRAWN", "TURN_CHANGED"}, eventNames(evts))
	apply(t, s, commands.Draw{Header: hdr("B")})
	assert.Equal(t, PhaseBettingRound2, s.Phase())

	// betting round 2: both check through to showdown
	apply(t, s, commands.Check{Header: hdr("A")})
	evts = apply(t, s, commands.Check{Header: hdr("B")})
	assert.Equal(t, PhaseShowdown, s.Phase())
	assert.Contains(t, eventNames(evts), "TURN_CHANGED")

	evts = apply(t, s, commands.Show{Header: hdr("A")})
	revealed := evts[0].(events.HandRevealed)
	assert.Equal(t, "High Card", revealed.Strength)

	evts = apply(t, s, commands.Show{Header: hdr("B")})
	result := evts[len(evts)-1].(events.ShowdownResult)
	assert.Equal(t, []string{"A"}, result.Winners)
	assert.Equal(t, 30, result.Payouts["A"])

	assert.Equal(t, PhaseHandComplete, s.Phase())
	a, _ := s.playerByID("A")
	b, _ := s.playerByID("B")
	assert.Equal(t, 115, a.Chips)
	assert.Equal(t, 85, b.Chips)
	potInvariant(t, s, 200)
}

func TestDrawReplacesRequestedCards(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	require.Equal(t, PhaseDraw, s.Phase())

	evts := apply(t, s, commands.Draw{Header: hdr("A"), Discards: []int{0, 1}})
	names := eventNames(evts)
	assert.Contains(t, names, "CARDS_DRAWN")
	assert.Contains(t, names, "CARDS_DEALT")

	a, _ := s.playerByID("A")
	require.Len(t, a.Hand, HandSize)
	assert.Equal(t, mustStack(t, "2c", "3c", "Qc", "Js", "9h"), a.Hand)

	drawn := evts[0].(events.CardsDrawn)
	assert.Equal(t, 2, drawn.Discarded)
}

func TestDrawLimitAndBadIndexes(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")
	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	require.Equal(t, PhaseDraw, s.Phase())

	_, err := s.Apply(commands.Draw{Header: hdr("A"), Discards: []int{0, 1, 2, 3}})
	assert.ErrorIs(t, err, ErrDrawLimitExceeded)

	_, err = s.Apply(commands.Draw{Header: hdr("A"), Discards: []int{5}})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.Apply(commands.Draw{Header: hdr("A"), Discards: []int{1, 1}})
	assert.ErrorIs(t, err, ErrInvalidState)

	// the failed attempts must not have consumed cards or the turn
	assert.Equal(t, "A", s.Snapshot().Turn)
	apply(t, s, commands.Draw{Header: hdr("A"), Discards: []int{0}})
}

func TestShowdownTieSplitsPotWithOddChipToEarliestSeat(t *testing.T) {
	stack := mustStack(t,
		"Ah", "Kd", "Qc", "Js", "9h", // A
		"As", "Kh", "Qd", "Jc", "9d", // B: exactly equal strength
		"2h", "3d", "4c", "7s", "8h", // C: folds anyway
	)
	s := newStartedSession(t, stack, "A", "B", "C")
	assert.Equal(t, 15, s.pot)

	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	apply(t, s, commands.Fold{Header: hdr("C")})
	require.Equal(t, PhaseDraw, s.Phase())

	apply(t, s, commands.Draw{Header: hdr("A")})
	apply(t, s, commands.Draw{Header: hdr("B")})
	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	require.Equal(t, PhaseShowdown, s.Phase())

	apply(t, s, commands.Show{Header: hdr("A")})
	evts := apply(t, s, commands.Show{Header: hdr("B")})
	result := evts[len(evts)-1].(events.ShowdownResult)

	assert.ElementsMatch(t, []string{"A", "B"}, result.Winners)
	assert.Equal(t, 8, result.Payouts["A"], "odd chip goes to the earliest seat")
	assert.Equal(t, 7, result.Payouts["B"])

	a, _ := s.playerByID("A")
	b, _ := s.playerByID("B")
	c, _ := s.playerByID("C")
	assert.Equal(t, 103, a.Chips)
	assert.Equal(t, 102, b.Chips)
	assert.Equal(t, 95, c.Chips)
	potInvariant(t, s, 300)
}

func TestAnteShortStackGoesAllIn(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)
	apply(t, s, commands.Join{Header: hdr("A")})
	apply(t, s, commands.Join{Header: hdr("B")})
	s.players[1].Chips = 3 // short of the 5 ante

	apply(t, s, commands.Start{Header: hdr("A")})

	b, _ := s.playerByID("B")
	assert.Equal(t, StatusAllIn, b.Status)
	assert.Equal(t, 0, b.Chips)
	assert.Equal(t, 8, s.pot, "B antes only what they can cover")
	potInvariant(t, s, 103)

	// B cannot be required to act; only A holds the action
	assert.Equal(t, "A", s.Snapshot().Turn)
	apply(t, s, commands.Check{Header: hdr("A")})
	assert.Equal(t, PhaseDraw, s.Phase())
}

func TestAllInBetSkipsSecondBettingRound(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	apply(t, s, commands.Bet{Header: hdr("A"), Amount: 95})
	a, _ := s.playerByID("A")
	assert.Equal(t, StatusAllIn, a.Status)

	apply(t, s, commands.Call{Header: hdr("B")})
	require.Equal(t, PhaseDraw, s.Phase())

	apply(t, s, commands.Draw{Header: hdr("A")})
	apply(t, s, commands.Draw{Header: hdr("B")})

	// nobody can bet, so round two is vacuous
	assert.Equal(t, PhaseShowdown, s.Phase())

	apply(t, s, commands.Show{Header: hdr("A")})
	evts := apply(t, s, commands.Show{Header: hdr("B")})

	var result events.ShowdownResult
	for _, e := range evts {
		if r, ok := e.(events.ShowdownResult); ok {
			result = r
		}
	}
	assert.Equal(t, []string{"A"}, result.Winners)
	assert.Equal(t, 200, result.Payouts["A"])

	// B is felted, the session cannot continue
	assert.Contains(t, eventNames(evts), "SESSION_TERMINATED")
	assert.Equal(t, PhaseTerminated, s.Phase())
	potInvariant(t, s, 200)
}

func TestRaiseReopensAction(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	apply(t, s, commands.Bet{Header: hdr("A"), Amount: 10})
	apply(t, s, commands.Raise{Header: hdr("B"), Amount: 10})
	assert.Equal(t, PhaseBettingRound1, s.Phase(), "raise reopens the round")
	assert.Equal(t, 20, s.betToCall)
	assert.Equal(t, "A", s.Snapshot().Turn)

	apply(t, s, commands.Call{Header: hdr("A")})
	assert.Equal(t, PhaseDraw, s.Phase())
	assert.Equal(t, 50, s.pot)
	potInvariant(t, s, 200)
}

func TestBettingRejections(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	_, err := s.Apply(commands.Raise{Header: hdr("A"), Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidState, "no bet to raise")

	_, err = s.Apply(commands.Bet{Header: hdr("A"), Amount: 200})
	assert.ErrorIs(t, err, ErrInsufficientChips)

	apply(t, s, commands.Bet{Header: hdr("A"), Amount: 10})

	_, err = s.Apply(commands.Bet{Header: hdr("B"), Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidState, "cannot bet into an open bet")

	_, err = s.Apply(commands.Check{Header: hdr("B")})
	assert.ErrorIs(t, err, ErrInvalidState, "cannot check facing a bet")

	potInvariant(t, s, 200)
}

func TestJoinRejections(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)

	apply(t, s, commands.Join{Header: hdr("A")})
	_, err = s.Apply(commands.Join{Header: hdr("A")})
	assert.ErrorIs(t, err, ErrInvalidState, "duplicate join")

	apply(t, s, commands.Join{Header: hdr("B")})
	apply(t, s, commands.Join{Header: hdr("C")})
	apply(t, s, commands.Join{Header: hdr("D")})
	_, err = s.Apply(commands.Join{Header: hdr("E")})
	assert.ErrorIs(t, err, ErrGameFull)
}

func TestJoinDuringHandIsRejected(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")
	_, err := s.Apply(commands.Join{Header: hdr("C")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStartNeedsEnoughPlayers(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)
	apply(t, s, commands.Join{Header: hdr("A")})

	_, err = s.Apply(commands.Start{Header: hdr("A")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLeaveDuringHandFoldsAndReapsSeat(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")

	// B leaves out of turn: folded immediately, hand resolves for A
	evts := apply(t, s, commands.Leave{Header: hdr("B")})
	names := eventNames(evts)
	assert.Contains(t, names, "PLAYER_FOLDED")
	assert.Contains(t, names, "SHOWDOWN_RESULT")
	assert.Contains(t, names, "PLAYER_LEFT")
	assert.Contains(t, names, "SESSION_TERMINATED")

	assert.Equal(t, PhaseTerminated, s.Phase())
	a, _ := s.playerByID("A")
	assert.Equal(t, 105, a.Chips)
}

func TestLeaveBeforeStartRemovesSeat(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)
	apply(t, s, commands.Join{Header: hdr("A")})
	apply(t, s, commands.Join{Header: hdr("B")})

	evts := apply(t, s, commands.Leave{Header: hdr("A")})
	assert.Equal(t, []string{"PLAYER_LEFT"}, eventNames(evts))
	assert.Len(t, s.players, 1)
	assert.Equal(t, PhaseWaitingForPlayers, s.Phase())

	// last player out terminates the session
	evts = apply(t, s, commands.Quit{Header: hdr("B")})
	names := eventNames(evts)
	assert.Contains(t, names, "SESSION_TERMINATED")
	assert.Equal(t, PhaseTerminated, s.Phase())
}

func TestTerminatedSessionRejectsEverything(t *testing.T) {
	s, err := NewSession("G1", &stackedFactory{cfg: testConfig()})
	require.NoError(t, err)
	apply(t, s, commands.Join{Header: hdr("A")})
	apply(t, s, commands.Leave{Header: hdr("A")})
	require.Equal(t, PhaseTerminated, s.Phase())

	_, err = s.Apply(commands.Join{Header: hdr("B")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestForceActionChecksWhenNothingOwed(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	evts, err := s.ForceAction("A")
	require.NoError(t, err)
	assert.Contains(t, eventNames(evts), "TURN_CHANGED")
	assert.Equal(t, "B", s.Snapshot().Turn)

	b, _ := s.playerByID("B")
	assert.Equal(t, StatusActive, b.Status)
	potInvariant(t, s, 200)
}

func TestForceActionFoldsFacingABet(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")

	apply(t, s, commands.Bet{Header: hdr("A"), Amount: 10})

	evts, err := s.ForceAction("B")
	require.NoError(t, err)
	names := eventNames(evts)
	assert.Contains(t, names, "PLAYER_FOLDED")
	assert.Contains(t, names, "SHOWDOWN_RESULT")
	assert.Equal(t, PhaseHandComplete, s.Phase())
}

func TestForceActionStandsPatAndShows(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")
	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	require.Equal(t, PhaseDraw, s.Phase())

	evts, err := s.ForceAction("A")
	require.NoError(t, err)
	assert.Equal(t, 0, evts[0].(events.CardsDrawn).Discarded)

	_, err = s.ForceAction("A")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	apply(t, s, commands.Draw{Header: hdr("B")})
	apply(t, s, commands.Check{Header: hdr("A")})
	apply(t, s, commands.Check{Header: hdr("B")})
	require.Equal(t, PhaseShowdown, s.Phase())

	evts, err = s.ForceAction("A")
	require.NoError(t, err)
	assert.Equal(t, "HAND_REVEALED", evts[0].Name())

	evts, err = s.ForceAction("B")
	require.NoError(t, err)
	assert.Contains(t, eventNames(evts), "SHOWDOWN_RESULT")
}

func TestNextHandStartsFromHandComplete(t *testing.T) {
	s := newStartedSession(t, twoPlayerStack(t), "A", "B")
	apply(t, s, commands.Fold{Header: hdr("A")})
	require.Equal(t, PhaseHandComplete, s.Phase())

	evts := apply(t, s, commands.Start{Header: hdr("B")})
	assert.Contains(t, eventNames(evts), "HAND_STARTED")
	assert.Equal(t, PhaseBettingRound1, s.Phase())
	assert.Equal(t, 10, s.pot)
	potInvariant(t, s, 200)
}

func TestShowRejectedOutsideShowdown(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")
	_, err := s.Apply(commands.Show{Header: hdr("A")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfigValidation(t *testing.T) {
	bad := []Config{
		{MinPlayers: 1, MaxPlayers: 4, StartingChips: 100, Ante: 5},
		{MinPlayers: 2, MaxPlayers: 1, StartingChips: 100, Ante: 5},
		{MinPlayers: 2, MaxPlayers: 4, StartingChips: 0, Ante: 5},
		{MinPlayers: 2, MaxPlayers: 4, StartingChips: 100, Ante: -1},
		{MinPlayers: 2, MaxPlayers: 4, StartingChips: 100, Ante: 5, MaxDrawCount: -1},
		{MinPlayers: 2, MaxPlayers: 11, StartingChips: 100, Ante: 5},
	}
	for i, cfg := range bad {
		assert.Error(t, cfg.Validate(), "config %d", i)
	}

	assert.NoError(t, DefaultConfig().Validate())

	_, err := NewSession("G1", &stackedFactory{cfg: Config{MinPlayers: 1}})
	assert.Error(t, err)
}

func TestHelloHasNoSessionEffect(t *testing.T) {
	s := newStartedSession(t, nil, "A", "B")
	before := s.Snapshot()
	evts := apply(t, s, commands.Hello{Header: hdr("B")})
	assert.Empty(t, evts)
	assert.Equal(t, before, s.Snapshot())
}
