package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected player.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string   // bound on the first command naming a player
	GameIDs  []string // games the client is subscribed to
}

// Manager handles all client connections.
type Manager struct {
	clients    map[string]*Client // connection ID to client
	playerMap  map[string]string  // player ID to connection ID
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		playerMap:  make(map[string]string),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start begins processing connection events.
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			if client.PlayerID != "" {
				m.playerMap[client.PlayerID] = client.ID
			}
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				if client.PlayerID != "" {
					delete(m.playerMap, client.PlayerID)
				}
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

// BindPlayer links a player ID to a connection so private messages can
// reach it.
func (m *Manager) BindPlayer(clientID, playerID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return
	}
	if client.PlayerID != "" && client.PlayerID != playerID {
		delete(m.playerMap, client.PlayerID)
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
}

// SendToPlayer sends a message to a specific player.
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if connID, exists := m.playerMap[playerID]; exists {
		if client, ok := m.clients[connID]; ok {
			client.Send <- message
			return true
		}
	}
	return false
}

// SendToGame sends a message to every client subscribed to a game.
func (m *Manager) SendToGame(gameID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		for _, id := range client.GameIDs {
			if id == gameID {
				client.Send <- message
				break
			}
		}
	}
}

// AddGameToClient subscribes a client to a game's broadcasts.
func (m *Manager) AddGameToClient(clientID, gameID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	for _, id := range client.GameIDs {
		if id == gameID {
			return true
		}
	}
	client.GameIDs = append(client.GameIDs, gameID)
	return true
}

// RemoveGameFromClient unsubscribes a client from a game.
func (m *Manager) RemoveGameFromClient(clientID, gameID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	for i, id := range client.GameIDs {
		if id == gameID {
			client.GameIDs = append(client.GameIDs[:i], client.GameIDs[i+1:]...)
			return true
		}
	}
	return false
}
