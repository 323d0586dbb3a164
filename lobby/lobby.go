package lobby

import (
	"sync"
	"time"

	"github.com/sanity-io/litter"

	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/game"
)

// Lobby is the registry of running game sessions. It owns one Runner
// per game ID and routes commands to them; CREATE and the registry
// lookups are the only session concerns handled here.
type Lobby struct {
	factory game.Factory
	store   events.EventStore

	mu       sync.RWMutex
	runners  map[string]*Runner
	handlers []events.EventHandler

	turnTimeout time.Duration
	debug       bool
}

// Option configures a Lobby.
type Option func(*Lobby)

// WithTurnTimeout arms a per-turn timer; a player who does not act in
// time has the default action forced. Zero disables the timer.
func WithTurnTimeout(d time.Duration) Option {
	return func(l *Lobby) { l.turnTimeout = d }
}

// WithDebug dumps every published event to stdout.
func WithDebug() Option {
	return func(l *Lobby) { l.debug = true }
}

// New creates a lobby backed by the given factory and event store.
func New(factory game.Factory, store events.EventStore, opts ...Option) *Lobby {
	l := &Lobby{
		factory: factory,
		store:   store,
		runners: make(map[string]*Runner),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddEventHandler registers a handler for every event published by any
// session. Register handlers before dispatching commands.
func (l *Lobby) AddEventHandler(handler events.EventHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, handler)
}

// CreateGame constructs a new session for the game ID and starts its
// runner.
func (l *Lobby) CreateGame(gameID string) error {
	session, err := game.NewSession(gameID, l.factory)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.runners[gameID]; exists {
		return game.ErrGameAlreadyExists
	}

	runner := newRunner(gameID, session, l.turnTimeout, l.publish, l.removeGame)
	l.runners[gameID] = runner
	runner.start()
	return nil
}

// Dispatch routes a command to its session and returns the events it
// produced. CREATE is handled by the registry itself.
func (l *Lobby) Dispatch(cmd commands.Command) ([]events.Event, error) {
	if cmd.Kind() == commands.KindCreate {
		return nil, l.CreateGame(cmd.GameID())
	}

	runner, err := l.runner(cmd.GameID())
	if err != nil {
		return nil, err
	}
	resp := runner.dispatch(request{cmd: cmd})
	return resp.events, resp.err
}

// Snapshot returns the public view of a session, serialized through
// its runner like any other request.
func (l *Lobby) Snapshot(gameID string) (game.Snapshot, error) {
	runner, err := l.runner(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}
	resp := runner.dispatch(request{snap: true})
	return resp.snap, resp.err
}

// GameIDs lists the currently registered games.
func (l *Lobby) GameIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.runners))
	for id := range l.runners {
		ids = append(ids, id)
	}
	return ids
}

// Close stops every runner.
func (l *Lobby) Close() {
	l.mu.Lock()
	runners := make([]*Runner, 0, len(l.runners))
	for _, r := range l.runners {
		runners = append(runners, r)
	}
	l.runners = make(map[string]*Runner)
	l.mu.Unlock()

	for _, r := range runners {
		r.stop()
	}
}

func (l *Lobby) runner(gameID string) (*Runner, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	runner, ok := l.runners[gameID]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return runner, nil
}

func (l *Lobby) removeGame(gameID string) {
	l.mu.Lock()
	delete(l.runners, gameID)
	l.mu.Unlock()
}

func (l *Lobby) publish(event events.Event) {
	if l.debug {
		litter.D(event)
	}
	if l.store != nil {
		_ = l.store.Append(event)
	}

	l.mu.RLock()
	handlers := l.handlers
	l.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}
