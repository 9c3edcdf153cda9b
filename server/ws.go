package server

import (
	"context"
	"net/http"
	"sync"

	"quizclash/domain/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the frame pushed to connected clients
type wsMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type wsClient struct {
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex // serializes writes
	games  map[string]bool
}

func (c *wsClient) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) subscribed(gameID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.games[gameID]
}

// Hub pushes live room and wallet updates to connected clients. It is fed
// by the in-process event bus, so every committed transaction that changed
// a room or a wallet reaches subscribed clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*wsClient]bool)}
}

// AttachBus subscribes the hub to the domain events worth pushing
func (h *Hub) AttachBus(bus *events.Bus) {
	bus.Subscribe(events.EventTypeGameStateChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GameStateChangeEvent); ok {
			h.broadcastGame(e.GameID, wsMessage{Type: "GAME_STATE", GameID: e.GameID, Data: gin.H{
				"oldState": e.OldState,
				"newState": e.NewState,
			}})
		}
	})
	bus.Subscribe(events.EventTypeQuestionAdvance, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.QuestionAdvanceEvent); ok {
			h.broadcastGame(e.GameID, wsMessage{Type: "QUESTION_ADVANCE", GameID: e.GameID, Data: gin.H{
				"currentQuestion": e.CurrentQuestion,
			}})
		}
	})
	bus.Subscribe(events.EventTypeGameSettled, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GameSettledEvent); ok {
			h.broadcastGame(e.GameID, wsMessage{Type: "GAME_SETTLED", GameID: e.GameID, Data: gin.H{
				"winnerId":   e.WinnerID,
				"prizePool":  e.PrizePool,
				"payout":     e.Payout,
				"commission": e.Commission,
			}})
		}
	})
	bus.Subscribe(events.EventTypeWalletChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WalletChangeEvent); ok {
			h.sendToUser(e.UserID, wsMessage{Type: "WALLET_CHANGE", Data: gin.H{
				"newBalance":  e.NewBalance,
				"direction":   e.Direction,
				"amount":      e.Amount,
				"description": e.Description,
			}})
		}
	})
}

func (h *Hub) broadcastGame(gameID string, msg wsMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.subscribed(gameID) {
			if err := client.send(msg); err != nil {
				log.WithError(err).Debug("Failed to push game update")
			}
		}
	}
}

func (h *Hub) sendToUser(userID string, msg wsMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.userID == userID {
			if err := client.send(msg); err != nil {
				log.WithError(err).Debug("Failed to push wallet update")
			}
		}
	}
}

func (h *Hub) add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// handleWebSocket upgrades the connection and processes subscription
// frames until the client disconnects
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade to WebSocket")
		return
	}

	client := &wsClient{
		userID: c.GetString(userIDKey),
		conn:   conn,
		games:  make(map[string]bool),
	}
	s.hub.add(client)
	defer func() {
		s.hub.remove(client)
		conn.Close()
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Debug("WebSocket read error")
			}
			return
		}

		switch msg.Type {
		case "PING":
			if err := client.send(wsMessage{Type: "PONG"}); err != nil {
				return
			}
		case "SUBSCRIBE_GAME":
			if msg.GameID != "" {
				client.mu.Lock()
				client.games[msg.GameID] = true
				client.mu.Unlock()
			}
		case "UNSUBSCRIBE_GAME":
			if msg.GameID != "" {
				client.mu.Lock()
				delete(client.games, msg.GameID)
				client.mu.Unlock()
			}
		}
	}
}
