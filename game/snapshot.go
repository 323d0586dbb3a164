package game

// PlayerView is the public view of a seated player. It never carries
// hole cards.
type PlayerView struct {
	ID       string `json:"id"`
	Seat     int    `json:"seat"`
	Chips    int    `json:"chips"`
	Status   Status `json:"status"`
	RoundBet int    `json:"roundBet"`
}

// Snapshot is the read-only public state returned for STATUS. Repeated
// snapshots with no intervening state change are identical.
type Snapshot struct {
	GameID    string       `json:"gameId"`
	Phase     Phase        `json:"phase"`
	HandID    string       `json:"handId,omitempty"`
	Pot       int          `json:"pot"`
	BetToCall int          `json:"betToCall"`
	Turn      string       `json:"turn,omitempty"`
	Players   []PlayerView `json:"players"`
}

// Snapshot captures the public session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:    s.gameID,
		Phase:     s.phase,
		HandID:    s.handID,
		Pot:       s.pot,
		BetToCall: s.betToCall,
		Players:   make([]PlayerView, len(s.players)),
	}
	if cur := s.currentPlayer(); cur != nil {
		snap.Turn = cur.ID
	}
	for i, p := range s.players {
		snap.Players[i] = PlayerView{
			ID:       p.ID,
			Seat:     i,
			Chips:    p.Chips,
			Status:   p.Status,
			RoundBet: p.RoundBet,
		}
	}
	return snap
}
