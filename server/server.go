package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cardsrv/drawpoker/commands"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/game"
	"github.com/cardsrv/drawpoker/lobby"
	"github.com/cardsrv/drawpoker/server/connection"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server exposes the lobby over WebSocket. Clients speak the
// line-oriented command protocol ("GAME_ID PLAYER_ID ACTION ...");
// session events come back as JSON envelopes.
type Server struct {
	lobby      *lobby.Lobby
	connMgr    *connection.Manager
	dispatcher *Dispatcher
}

// GameResponse represents a game in API responses.
type GameResponse struct {
	ID          string `json:"id"`
	Phase       string `json:"phase"`
	PlayerCount int    `json:"playerCount"`
	Pot         int    `json:"pot"`
}

// corsMiddleware adds CORS headers to all responses.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer creates a server for the given lobby and registers its
// dispatcher as the lobby's event handler.
func NewServer(l *lobby.Lobby) *Server {
	connMgr := connection.NewManager()
	dispatcher := NewDispatcher(connMgr)
	l.AddEventHandler(dispatcher.HandleEvent)

	return &Server{
		lobby:      l,
		connMgr:    connMgr,
		dispatcher: dispatcher,
	}
}

// Start begins the server on the specified port.
func (s *Server) Start(port string) error {
	go s.connMgr.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/api/games", corsMiddleware(s.handleGetGames))

	log.Printf("Starting server on port %s", port)
	return http.ListenAndServe("0.0.0.0:"+port, nil)
}

// handleWebSocket handles incoming WebSocket connections.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	clientID := uuid.NewString()
	log.Printf("New client connected: %s with ID: %s", r.RemoteAddr, clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	s.connMgr.Register <- client

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads command lines from the WebSocket connection.
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister <- client
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error: %v", err)
			}
			break
		}

		// a frame may carry several newline-separated commands
		for _, line := range strings.Split(string(message), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			s.handleLine(client, line)
		}
	}
}

// writePump sends messages to the WebSocket connection.
func (s *Server) writePump(client *connection.Client) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		message, ok := <-client.Send
		if !ok {
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Error writing message: %v", err)
			return
		}
	}
}

// handleLine parses one protocol line and routes the command.
func (s *Server) handleLine(client *connection.Client, line string) {
	cmd, err := commands.ParseLine(line)
	if err != nil {
		s.sendError(client, "", "", err)
		return
	}

	s.connMgr.BindPlayer(client.ID, cmd.PlayerID())

	switch cmd.Kind() {
	case commands.KindHello:
		s.connMgr.AddGameToClient(client.ID, cmd.GameID())
		s.sendEnvelope(client, "HELLO_ACK", map[string]string{"gameId": cmd.GameID(), "playerId": cmd.PlayerID()})
		return

	case commands.KindStatus:
		snap, err := s.lobby.Snapshot(cmd.GameID())
		if err != nil {
			s.sendError(client, cmd.GameID(), cmd.PlayerID(), err)
			return
		}
		s.sendEnvelope(client, "STATUS", snap)
		return

	case commands.KindCreate, commands.KindJoin:
		// subscribe before dispatch so the join broadcast reaches the
		// client itself
		s.connMgr.AddGameToClient(client.ID, cmd.GameID())
	}

	if _, err := s.lobby.Dispatch(cmd); err != nil {
		s.sendError(client, cmd.GameID(), cmd.PlayerID(), err)
		return
	}

	switch cmd.Kind() {
	case commands.KindCreate:
		snap, err := s.lobby.Snapshot(cmd.GameID())
		if err == nil {
			s.sendEnvelope(client, "GAME_CREATED", snap)
		}
	case commands.KindLeave, commands.KindQuit:
		s.connMgr.RemoveGameFromClient(client.ID, cmd.GameID())
	}
}

func (s *Server) sendEnvelope(client *connection.Client, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println("Failed to marshal payload:", err)
		return
	}
	envelope, err := json.Marshal(EventEnvelope{Name: name, Payload: data})
	if err != nil {
		log.Println("Failed to marshal envelope:", err)
		return
	}
	client.Send <- envelope
}

func (s *Server) sendError(client *connection.Client, gameID, playerID string, err error) {
	evt := events.Error{
		GameID:   gameID,
		PlayerID: playerID,
		Kind:     game.ErrorKind(err),
		Reason:   err.Error(),
	}
	data, merr := marshalEnvelope(evt)
	if merr != nil {
		log.Println("Failed to marshal error event:", merr)
		return
	}
	client.Send <- data
}

// handleGetGames returns a list of all running games.
func (s *Server) handleGetGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := s.lobby.GameIDs()
	responses := make([]GameResponse, 0, len(ids))
	for _, id := range ids {
		snap, err := s.lobby.Snapshot(id)
		if err != nil {
			continue
		}
		responses = append(responses, GameResponse{
			ID:          snap.GameID,
			Phase:       string(snap.Phase),
			PlayerCount: len(snap.Players),
			Pot:         snap.Pot,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
