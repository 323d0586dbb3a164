package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardsrv/drawpoker/cards"
	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/hands"
)

// Phase represents where a session is in the life of a hand.
type Phase string

const (
	PhaseWaitingForPlayers Phase = "waiting_for_players"
	PhaseDealing           Phase = "dealing"
	PhaseBettingRound1     Phase = "betting_round_1"
	PhaseDraw              Phase = "draw"
	PhaseBettingRound2     Phase = "betting_round_2"
	PhaseShowdown          Phase = "showdown"
	PhaseHandComplete      Phase = "hand_complete"
	PhaseTerminated        Phase = "terminated"
)

// Session is the state machine for one game. It owns its deck, its
// players and the pot. It is not safe for concurrent use: commands
// for a game must be serialized by the caller (see the lobby runner).
type Session struct {
	gameID    string
	cfg       Config
	deck      *cards.Deck
	evaluator *hands.Evaluator

	players   []*Player // seat order = turn order
	pot       int
	phase     Phase
	turnIdx   int // index into players, -1 when nobody holds the action
	betToCall int
	handID    string
	shown     map[string]bool

	pending []events.Event
}

// NewSession constructs a session from the factory's outputs and
// enters WAITING_FOR_PLAYERS.
func NewSession(gameID string, factory Factory) (*Session, error) {
	cfg := factory.NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		gameID:    gameID,
		cfg:       cfg,
		deck:      factory.NewDeck(),
		evaluator: factory.NewEvaluator(),
		phase:     PhaseWaitingForPlayers,
		turnIdx:   -1,
		shown:     map[string]bool{},
	}, nil
}

func (s *Session) GameID() string { return s.gameID }
func (s *Session) Phase() Phase   { return s.phase }
func (s *Session) Config() Config { return s.cfg }

// Apply runs one command against the session. The transition is
// atomic: on error no state was changed and no events are returned.
func (s *Session) Apply(cmd commands.Command) ([]events.Event, error) {
	if s.phase == PhaseTerminated {
		return nil, fmt.Errorf("%w: session is terminated", ErrInvalidState)
	}

	s.pending = nil
	var err error

	switch c := cmd.(type) {
	case commands.Hello, commands.Status:
		// no session-state effect; STATUS is answered via Snapshot
	case commands.Join:
		err = s.join(c.PlayerID())
	case commands.Leave:
		err = s.leave(c.PlayerID())
	case commands.Quit:
		err = s.leave(c.PlayerID())
	case commands.Start:
		err = s.start(c.PlayerID())
	case commands.Bet:
		err = s.bet(c.PlayerID(), c.Amount)
	case commands.Raise:
		err = s.raise(c.PlayerID(), c.Amount)
	case commands.Call:
		err = s.call(c.PlayerID())
	case commands.Check:
		err = s.check(c.PlayerID())
	case commands.Fold:
		err = s.fold(c.PlayerID())
	case commands.Draw:
		err = s.draw(c.PlayerID(), c.Discards)
	case commands.Show:
		err = s.show(c.PlayerID())
	default:
		err = fmt.Errorf("%w: unhandled command %s", ErrInvalidState, cmd.Kind())
	}

	if err != nil {
		s.pending = nil
		return nil, err
	}

	out := s.pending
	s.pending = nil
	return out, nil
}

// ForceAction performs the default action for a player whose turn
// timer has expired: CHECK when nothing is owed,
// FOLD otherwise; a stand-pat DRAW in the draw phase; SHOW at
// showdown. It funnels through the same transition logic as the
// corresponding commands.
func (s *Session) ForceAction(playerID string) ([]events.Event, error) {
	s.pending = nil
	var err error

	switch s.phase {
	case PhaseBettingRound1, PhaseBettingRound2:
		p, terr := s.requireTurn(playerID)
		if terr != nil {
			err = terr
			break
		}
		if s.betToCall == p.RoundBet {
			err = s.check(playerID)
		} else {
			err = s.fold(playerID)
		}
	case PhaseDraw:
		err = s.draw(playerID, nil)
	case PhaseShowdown:
		err = s.show(playerID)
	default:
		err = fmt.Errorf("%w: no action to force in phase %s", ErrInvalidState, s.phase)
	}

	if err != nil {
		s.pending = nil
		return nil, err
	}

	out := s.pending
	s.pending = nil
	return out, nil
}

// handInProgress reports whether cards are in play.
func (s *Session) handInProgress() bool {
	switch s.phase {
	case PhaseDealing, PhaseBettingRound1, PhaseDraw, PhaseBettingRound2, PhaseShowdown:
		return true
	}
	return false
}

func (s *Session) emit(event events.Event) {
	s.pending = append(s.pending, event)
}

func (s *Session) playerByID(playerID string) (*Player, int) {
	for i, p := range s.players {
		if p.ID == playerID {
			return p, i
		}
	}
	return nil, -1
}

func (s *Session) currentPlayer() *Player {
	if s.turnIdx < 0 || s.turnIdx >= len(s.players) {
		return nil
	}
	return s.players[s.turnIdx]
}

// requireTurn rejects commands from anyone but the player holding the
// action.
func (s *Session) requireTurn(playerID string) (*Player, error) {
	p, _ := s.playerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	cur := s.currentPlayer()
	if cur == nil || cur.ID != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// eligibleForTurn reports whether a player can hold the action in the
// current phase.
func (s *Session) eligibleForTurn(p *Player) bool {
	switch s.phase {
	case PhaseBettingRound1, PhaseBettingRound2:
		return p.canBet()
	case PhaseDraw:
		return p.inHand() && !p.acted
	case PhaseShowdown:
		return p.inHand() && !s.shown[p.ID]
	}
	return false
}

// advanceTurn moves the action to the next eligible seat, wrapping
// around the table. With no eligible seat the action goes dark
// (turnIdx -1).
func (s *Session) advanceTurn() {
	n := len(s.players)
	for i := 1; i <= n; i++ {
		idx := (s.turnIdx + n + i) % n
		if s.eligibleForTurn(s.players[idx]) {
			s.turnIdx = idx
			s.emitTurn()
			return
		}
	}
	s.turnIdx = -1
}

func (s *Session) emitTurn() {
	s.emit(events.TurnChanged{
		GameID:    s.gameID,
		PlayerID:  s.players[s.turnIdx].ID,
		Phase:     string(s.phase),
		BetToCall: s.betToCall,
	})
}

func (s *Session) contenders() []*Player {
	var out []*Player
	for _, p := range s.players {
		if p.inHand() {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) newHandID() string {
	return uuid.NewString()
}
