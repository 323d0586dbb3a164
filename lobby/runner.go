package lobby

import (
	"context"
	"sync"
	"time"

	"github.com/weedbox/timebank"

	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/game"
)

// request is a unit of work for a runner. Exactly one of cmd, force or
// snap is set.
type request struct {
	cmd   commands.Command
	force string
	snap  bool
	reply chan response
}

type response struct {
	events []events.Event
	snap   game.Snapshot
	err    error
}

// Runner owns a single game session. All commands for the session's
// game ID funnel through its mailbox, so Session.Apply is never
// invoked concurrently with itself.
type Runner struct {
	gameID      string
	session     *game.Session
	mailbox     chan request
	publish     func(events.Event)
	onTerminate func(gameID string)

	tb          *timebank.TimeBank
	turnTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRunner(gameID string, session *game.Session, turnTimeout time.Duration, publish func(events.Event), onTerminate func(string)) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		gameID:      gameID,
		session:     session,
		mailbox:     make(chan request, 64),
		publish:     publish,
		onTerminate: onTerminate,
		tb:          timebank.NewTimeBank(),
		turnTimeout: turnTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (r *Runner) start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run()
	}()
}

func (r *Runner) stop() {
	r.tb.Cancel()
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) run() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case req := <-r.mailbox:
			r.handle(req)
		}
	}
}

// dispatch submits a request and waits for the session's answer. A
// runner that has already shut down answers ErrGameNotFound.
func (r *Runner) dispatch(req request) response {
	req.reply = make(chan response, 1)

	select {
	case r.mailbox <- req:
	case <-r.ctx.Done():
		return response{err: game.ErrGameNotFound}
	}

	select {
	case resp := <-req.reply:
		return resp
	case <-r.ctx.Done():
		// the terminating command itself may have raced shutdown
		select {
		case resp := <-req.reply:
			return resp
		default:
			return response{err: game.ErrGameNotFound}
		}
	}
}

func (r *Runner) handle(req request) {
	if req.snap {
		r.respond(req, response{snap: r.session.Snapshot()})
		return
	}

	var evts []events.Event
	var err error
	if req.cmd != nil {
		evts, err = r.session.Apply(req.cmd)
	} else {
		// expired turn timer; the player may have acted at the wire
		// just before expiry, in which case the session rejects the
		// forced action and nothing happens
		evts, err = r.session.ForceAction(req.force)
		if err != nil {
			r.respond(req, response{err: err})
			return
		}
	}

	if err != nil {
		r.respond(req, response{err: err})
		return
	}

	for _, evt := range evts {
		r.publish(evt)
	}
	r.rearmTimer(evts)
	r.respond(req, response{events: evts})

	if r.session.Phase() == game.PhaseTerminated {
		r.tb.Cancel()
		r.cancel()
		if r.onTerminate != nil {
			r.onTerminate(r.gameID)
		}
	}
}

func (r *Runner) respond(req request, resp response) {
	if req.reply == nil {
		return
	}
	req.reply <- resp
}

// rearmTimer cancels any pending turn timer and arms a fresh one when
// the batch hands the action to a player.
func (r *Runner) rearmTimer(evts []events.Event) {
	if r.turnTimeout <= 0 || len(evts) == 0 {
		return
	}
	r.tb.Cancel()

	var turn *events.TurnChanged
	for i := len(evts) - 1; i >= 0; i-- {
		if tc, ok := evts[i].(events.TurnChanged); ok {
			turn = &tc
			break
		}
	}
	if turn == nil {
		return
	}

	playerID := turn.PlayerID
	_ = r.tb.NewTask(r.turnTimeout, func(isCancelled bool) {
		if isCancelled {
			return
		}
		select {
		case r.mailbox <- request{force: playerID}:
		case <-r.ctx.Done():
		}
	})
}
