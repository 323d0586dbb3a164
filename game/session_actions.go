package game

import (
	"fmt"

	"github.com/thoas/go-funk"

	"github.com/cardsrv/drawpoker/cards"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/hands"
)

func (s *Session) join(playerID string) error {
	if s.phase != PhaseWaitingForPlayers && s.phase != PhaseHandComplete {
		return fmt.Errorf("%w: cannot join during a hand", ErrInvalidState)
	}
	if p, _ := s.playerByID(playerID); p != nil {
		return fmt.Errorf("%w: player %s already seated", ErrInvalidState, playerID)
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return ErrGameFull
	}

	player := NewPlayer(playerID, s.cfg.StartingChips)
	s.players = append(s.players, player)
	s.emit(events.PlayerJoined{
		GameID:   s.gameID,
		PlayerID: playerID,
		Seat:     len(s.players) - 1,
		Chips:    player.Chips,
	})
	return nil
}

func (s *Session) leave(playerID string) error {
	p, idx := s.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	if s.handInProgress() {
		// The seat stays until the hand resolves so the pot keeps its
		// integrity; the player plays no further part.
		p.leaving = true
		if p.inHand() {
			return s.foldPlayer(p)
		}
		return nil
	}

	s.players = append(s.players[:idx], s.players[idx+1:]...)
	s.emit(events.PlayerLeft{GameID: s.gameID, PlayerID: playerID})

	if len(s.players) == 0 {
		s.terminate("no players remaining")
	} else if s.handID != "" && s.playableCount() < s.cfg.MinPlayers {
		s.terminate("not enough players to continue")
	}
	return nil
}

func (s *Session) playableCount() int {
	count := 0
	for _, p := range s.players {
		if p.Chips > 0 {
			count++
		}
	}
	return count
}

func (s *Session) start(playerID string) error {
	if s.phase != PhaseWaitingForPlayers && s.phase != PhaseHandComplete {
		return fmt.Errorf("%w: a hand is already in progress", ErrInvalidState)
	}
	if p, _ := s.playerByID(playerID); p == nil {
		return ErrPlayerNotFound
	}
	if s.playableCount() < s.cfg.MinPlayers {
		return fmt.Errorf("%w: need at least %d players to start", ErrInvalidState, s.cfg.MinPlayers)
	}

	s.phase = PhaseDealing
	s.handID = s.newHandID()
	s.deck.Reset()
	s.deck.Shuffle()
	s.pot = 0
	s.betToCall = 0
	s.shown = map[string]bool{}

	var dealt []string
	for _, p := range s.players {
		p.Hand = nil
		p.RoundBet = 0
		p.acted = false
		if p.Chips <= 0 {
			p.Status = StatusSpectating
			continue
		}
		p.Status = StatusActive
		dealt = append(dealt, p.ID)
	}

	// Collect antes. A player who cannot cover the full ante posts
	// everything they have and is all-in for the hand.
	for _, p := range s.players {
		if p.Status != StatusActive {
			continue
		}
		ante := s.cfg.Ante
		if p.Chips < ante {
			ante = p.Chips
		}
		p.Chips -= ante
		s.pot += ante
		if p.Chips == 0 {
			p.Status = StatusAllIn
		}
	}

	s.emit(events.HandStarted{
		GameID:  s.gameID,
		HandID:  s.handID,
		Players: dealt,
		Ante:    s.cfg.Ante,
		Pot:     s.pot,
	})

	for _, p := range s.players {
		if !p.inHand() {
			continue
		}
		hand, err := s.deck.DrawN(HandSize)
		if err != nil {
			return err
		}
		p.Hand = hand
		s.emit(events.CardsDealt{GameID: s.gameID, PlayerID: p.ID, Cards: hand.Copy()})
	}

	s.enterBettingRound(PhaseBettingRound1)
	return nil
}

// enterBettingRound resets per-round bet state and hands the action to
// the first seat that can still bet. With everyone all-in the round is
// vacuous and play moves straight on.
func (s *Session) enterBettingRound(phase Phase) {
	s.phase = phase
	s.betToCall = 0
	for _, p := range s.players {
		p.RoundBet = 0
		p.acted = false
	}
	s.turnIdx = -1
	s.advanceTurn()
	if s.turnIdx == -1 {
		s.endBettingRound()
	}
}

func (s *Session) enterDrawPhase() {
	s.phase = PhaseDraw
	s.betToCall = 0
	for _, p := range s.players {
		p.RoundBet = 0
		p.acted = false
	}
	s.turnIdx = -1
	s.advanceTurn()
	if s.turnIdx == -1 {
		s.enterShowdown()
	}
}

func (s *Session) enterShowdown() {
	s.phase = PhaseShowdown
	s.betToCall = 0
	s.turnIdx = -1
	s.advanceTurn()
	if s.turnIdx == -1 {
		// nobody left to show; cannot happen with two contenders
		s.resolveShowdown()
	}
}

func (s *Session) endBettingRound() {
	if s.phase == PhaseBettingRound1 {
		s.enterDrawPhase()
	} else {
		s.enterShowdown()
	}
}

// bettingRoundComplete holds when every player who can still bet has
// acted since the last raise and matched the bet-to-call.
func (s *Session) bettingRoundComplete() bool {
	for _, p := range s.players {
		if !p.canBet() {
			continue
		}
		if !p.acted || p.RoundBet != s.betToCall {
			return false
		}
	}
	return true
}

func (s *Session) drawRoundComplete() bool {
	for _, p := range s.players {
		if p.inHand() && !p.acted {
			return false
		}
	}
	return true
}

// commitChips moves chips from the player's stack into the pot.
func (s *Session) commitChips(p *Player, amount int) {
	p.Chips -= amount
	p.RoundBet += amount
	s.pot += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	s.emit(events.PotUpdated{
		GameID:   s.gameID,
		PlayerID: p.ID,
		Amount:   amount,
		Pot:      s.pot,
	})
}

// reopenAction marks every other bettor as owing action again after a
// bet or raise.
func (s *Session) reopenAction(actor *Player) {
	for _, p := range s.players {
		if p.canBet() {
			p.acted = false
		}
	}
	actor.acted = true
}

// afterBettingAction advances the round after any betting action.
func (s *Session) afterBettingAction() {
	if len(s.contenders()) == 1 {
		s.resolveSingleWinner()
		return
	}
	if s.bettingRoundComplete() {
		s.endBettingRound()
		return
	}
	s.advanceTurn()
}

func (s *Session) requireBettingRound() error {
	if s.phase != PhaseBettingRound1 && s.phase != PhaseBettingRound2 {
		return fmt.Errorf("%w: no betting round in progress", ErrInvalidState)
	}
	return nil
}

func (s *Session) bet(playerID string, amount int) error {
	if err := s.requireBettingRound(); err != nil {
		return err
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	if s.betToCall > 0 {
		return fmt.Errorf("%w: a bet is already open, call or raise", ErrInvalidState)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive", ErrInvalidState)
	}
	if amount > p.Chips {
		return ErrInsufficientChips
	}

	s.commitChips(p, amount)
	s.betToCall = amount
	s.reopenAction(p)
	s.afterBettingAction()
	return nil
}

func (s *Session) raise(playerID string, amount int) error {
	if err := s.requireBettingRound(); err != nil {
		return err
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	if s.betToCall == 0 {
		return fmt.Errorf("%w: no bet to raise", ErrInvalidState)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: raise must be positive", ErrInvalidState)
	}
	newLevel := s.betToCall + amount
	owed := newLevel - p.RoundBet
	if owed > p.Chips {
		return ErrInsufficientChips
	}

	s.commitChips(p, owed)
	s.betToCall = newLevel
	s.reopenAction(p)
	s.afterBettingAction()
	return nil
}

func (s *Session) call(playerID string) error {
	if err := s.requireBettingRound(); err != nil {
		return err
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	owed := s.betToCall - p.RoundBet
	if owed > p.Chips {
		return ErrInsufficientChips
	}

	if owed > 0 {
		s.commitChips(p, owed)
	}
	p.acted = true
	s.afterBettingAction()
	return nil
}

func (s *Session) check(playerID string) error {
	if err := s.requireBettingRound(); err != nil {
		return err
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	if s.betToCall != p.RoundBet {
		return fmt.Errorf("%w: cannot check facing a bet", ErrInvalidState)
	}

	p.acted = true
	s.afterBettingAction()
	return nil
}

func (s *Session) fold(playerID string) error {
	if s.phase != PhaseBettingRound1 && s.phase != PhaseBettingRound2 && s.phase != PhaseDraw {
		return fmt.Errorf("%w: nothing to fold", ErrInvalidState)
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	return s.foldPlayer(p)
}

// foldPlayer removes a player from the hand, resolving it outright
// when only one contender remains. Unlike fold it carries no turn
// check, so LEAVE can fold out of turn.
func (s *Session) foldPlayer(p *Player) error {
	wasTurn := s.currentPlayer() == p
	p.Status = StatusFolded
	s.emit(events.PlayerFolded{GameID: s.gameID, PlayerID: p.ID})

	if len(s.contenders()) == 1 {
		s.resolveSingleWinner()
		return nil
	}

	switch s.phase {
	case PhaseBettingRound1, PhaseBettingRound2:
		if s.bettingRoundComplete() {
			s.endBettingRound()
		} else if wasTurn {
			s.advanceTurn()
		}
	case PhaseDraw:
		if s.drawRoundComplete() {
			s.enterBettingRound(PhaseBettingRound2)
		} else if wasTurn {
			s.advanceTurn()
		}
	case PhaseShowdown:
		if s.allShown() {
			s.resolveShowdown()
		} else if wasTurn {
			s.advanceTurn()
		}
	}
	return nil
}

func (s *Session) draw(playerID string, discards []int) error {
	if s.phase != PhaseDraw {
		return fmt.Errorf("%w: no draw phase in progress", ErrInvalidState)
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}
	if len(discards) > s.cfg.MaxDrawCount {
		return ErrDrawLimitExceeded
	}
	var seen []int
	for _, idx := range discards {
		if idx < 0 || idx >= len(p.Hand) {
			return fmt.Errorf("%w: discard index %d out of range", ErrInvalidState, idx)
		}
		if funk.ContainsInt(seen, idx) {
			return fmt.Errorf("%w: duplicate discard index %d", ErrInvalidState, idx)
		}
		seen = append(seen, idx)
	}
	if s.deck.Remaining() < len(discards) {
		return cards.ErrEmptyDeck
	}

	replacements, err := s.deck.DrawN(len(discards))
	if err != nil {
		return err
	}
	for i, idx := range discards {
		p.Hand[idx] = replacements[i]
	}
	p.acted = true

	s.emit(events.CardsDrawn{GameID: s.gameID, PlayerID: p.ID, Discarded: len(discards)})
	if len(discards) > 0 {
		s.emit(events.CardsDealt{GameID: s.gameID, PlayerID: p.ID, Cards: p.Hand.Copy()})
	}

	if s.drawRoundComplete() {
		s.enterBettingRound(PhaseBettingRound2)
	} else {
		s.advanceTurn()
	}
	return nil
}

func (s *Session) show(playerID string) error {
	if s.phase != PhaseShowdown {
		return fmt.Errorf("%w: no showdown in progress", ErrInvalidState)
	}
	p, err := s.requireTurn(playerID)
	if err != nil {
		return err
	}

	strength, err := s.evaluator.Evaluate(p.Hand)
	if err != nil {
		return err
	}

	s.shown[p.ID] = true
	s.emit(events.HandRevealed{
		GameID:   s.gameID,
		PlayerID: p.ID,
		Cards:    p.Hand.Copy(),
		Strength: strength.String(),
	})

	if s.allShown() {
		s.resolveShowdown()
		return nil
	}
	s.advanceTurn()
	return nil
}

func (s *Session) allShown() bool {
	for _, p := range s.contenders() {
		if !s.shown[p.ID] {
			return false
		}
	}
	return true
}

// resolveSingleWinner awards the pot to the last contender without a
// showdown.
func (s *Session) resolveSingleWinner() {
	winner := s.contenders()[0]
	pot := s.pot
	winner.Chips += pot
	s.emit(events.ShowdownResult{
		GameID:  s.gameID,
		HandID:  s.handID,
		Winners: []string{winner.ID},
		Payouts: map[string]int{winner.ID: pot},
		Pot:     pot,
	})
	s.finishHand()
}

// resolveShowdown compares the contenders' hands and splits the pot
// among the strongest, any indivisible remainder going to the earliest
// seat among the winners.
func (s *Session) resolveShowdown() {
	contenders := s.contenders()

	strengths := make([]hands.Strength, len(contenders))
	for i, p := range contenders {
		strength, err := s.evaluator.Evaluate(p.Hand)
		if err != nil {
			// dealt hands are always five distinct cards
			panic(fmt.Sprintf("showdown: %v", err))
		}
		strengths[i] = strength
	}

	best := strengths[0]
	for _, strength := range strengths[1:] {
		if strength.Beats(best) {
			best = strength
		}
	}

	var winners []*Player
	for i, p := range contenders {
		if strengths[i].Equal(best) {
			winners = append(winners, p)
		}
	}

	pot := s.pot
	share := pot / len(winners)
	remainder := pot % len(winners)

	winnerIDs := make([]string, len(winners))
	payouts := make(map[string]int, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		w.Chips += amount
		winnerIDs[i] = w.ID
		payouts[w.ID] = amount
	}

	s.emit(events.ShowdownResult{
		GameID:  s.gameID,
		HandID:  s.handID,
		Winners: winnerIDs,
		Payouts: payouts,
		Pot:     pot,
	})
	s.finishHand()
}

func (s *Session) finishHand() {
	s.phase = PhaseHandComplete
	s.pot = 0
	s.turnIdx = -1
	s.betToCall = 0

	kept := s.players[:0]
	for _, p := range s.players {
		if p.leaving {
			s.emit(events.PlayerLeft{GameID: s.gameID, PlayerID: p.ID})
			continue
		}
		p.Hand = nil
		p.RoundBet = 0
		p.acted = false
		if p.Chips > 0 {
			p.Status = StatusActive
		} else {
			p.Status = StatusSpectating
		}
		kept = append(kept, p)
	}
	s.players = kept

	if len(s.players) == 0 {
		s.terminate("no players remaining")
	} else if s.playableCount() < s.cfg.MinPlayers {
		s.terminate("not enough players with chips to continue")
	}
}

func (s *Session) terminate(reason string) {
	s.phase = PhaseTerminated
	s.emit(events.SessionTerminated{GameID: s.gameID, Reason: reason})
}
