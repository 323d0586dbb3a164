package server

import (
	"encoding/json"
	"log"

	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/server/connection"
)

// EventEnvelope wraps an event with its name for client consumption.
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher routes session events to clients. Events that carry
// private information (dealt cards, command errors) go only to the
// player concerned; everything else is broadcast to the game.
type Dispatcher struct {
	connMgr *connection.Manager
}

// NewDispatcher creates a new event dispatcher.
func NewDispatcher(connMgr *connection.Manager) *Dispatcher {
	return &Dispatcher{connMgr: connMgr}
}

// HandleEvent marshals a session event and delivers it.
func (d *Dispatcher) HandleEvent(event events.Event) {
	data, err := marshalEnvelope(event)
	if err != nil {
		log.Println("Failed to marshal event:", err)
		return
	}

	switch e := event.(type) {
	case events.CardsDealt:
		// hole cards are for the receiving player only
		d.connMgr.SendToPlayer(e.PlayerID, data)
	case events.Error:
		d.connMgr.SendToPlayer(e.PlayerID, data)
	default:
		d.connMgr.SendToGame(event.Game(), data)
	}
}

func marshalEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: event.Name(), Payload: payload})
}
