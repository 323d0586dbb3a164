// Package commands defines the closed set of player commands consumed
// by a game session, one struct per command type so each variant only
// carries the parameters valid for it.
package commands

// Kind identifies a command type on the wire.
type Kind string

const (
	KindHello  Kind = "HELLO"
	KindCreate Kind = "CREATE"
	KindJoin   Kind = "JOIN"
	KindLeave  Kind = "LEAVE"
	KindStart  Kind = "START"
	KindBet    Kind = "BET"
	KindCall   Kind = "CALL"
	KindCheck  Kind = "CHECK"
	KindFold   Kind = "FOLD"
	KindRaise  Kind = "RAISE"
	KindDraw   Kind = "DRAW"
	KindStatus Kind = "STATUS"
	KindShow   Kind = "SHOW"
	KindQuit   Kind = "QUIT"
)

// Command is the unit of input to a session. The set of
// implementations in this package is closed.
type Command interface {
	Kind() Kind
	GameID() string
	PlayerID() string
}

// Header carries the addressing shared by every command.
type Header struct {
	Game   string
	Player string
}

func (h Header) GameID() string   { return h.Game }
func (h Header) PlayerID() string { return h.Player }

// Hello acknowledges connectivity; it has no session-state effect.
type Hello struct{ Header }

func (Hello) Kind() Kind { return KindHello }

// Create creates a new game session for the game ID.
type Create struct{ Header }

func (Create) Kind() Kind { return KindCreate }

// Join seats the player at the game.
type Join struct{ Header }

func (Join) Kind() Kind { return KindJoin }

// Leave removes the player, or folds them if a hand is in flight.
type Leave struct{ Header }

func (Leave) Kind() Kind { return KindLeave }

// Start begins the next hand.
type Start struct{ Header }

func (Start) Kind() Kind { return KindStart }

// Bet opens the betting in the current round.
type Bet struct {
	Header
	Amount int
}

func (Bet) Kind() Kind { return KindBet }

// Raise increases the current bet-to-call by Amount.
type Raise struct {
	Header
	Amount int
}

func (Raise) Kind() Kind { return KindRaise }

// Call matches the current bet-to-call.
type Call struct{ Header }

func (Call) Kind() Kind { return KindCall }

// Check passes the action without betting.
type Check struct{ Header }

func (Check) Kind() Kind { return KindCheck }

// Fold abandons the hand.
type Fold struct{ Header }

func (Fold) Kind() Kind { return KindFold }

// Draw discards the cards at the given hand indexes (0-4) and draws
// replacements. An empty Discards stands pat.
type Draw struct {
	Header
	Discards []int
}

func (Draw) Kind() Kind { return KindDraw }

// Status requests a read-only snapshot of public session state.
type Status struct{ Header }

func (Status) Kind() Kind { return KindStatus }

// Show reveals the player's hand at showdown.
type Show struct{ Header }

func (Show) Kind() Kind { return KindShow }

// Quit is Leave plus connection teardown at the protocol layer.
type Quit struct{ Header }

func (Quit) Kind() Kind { return KindQuit }
