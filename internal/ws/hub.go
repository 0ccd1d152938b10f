package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// userEvent routes an event to one user's room
type userEvent struct {
	UserID uuid.UUID
	Event  Event
}

// Hub maintains the set of active clients, one room per user, and
// broadcasts messages to them
type Hub struct {
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *userEvent
	done       chan struct{} // closed when Run returns

	logger *zap.Logger
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *userEvent, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client's send channel. Sends to a stopped hub are dropped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, userID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.logger.Error("marshal websocket event", zap.String("type", event.Event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.UserID] {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.userID)
	}
}

// leave unregisters a client unless the hub has already stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastToUser sends an event to every connection of a user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event Event) {
	select {
	case h.broadcast <- &userEvent{UserID: userID, Event: event}:
	case <-h.done:
	}
}

// Publish marshals payload and broadcasts it to the user's room under the
// given event type.
func (h *Hub) Publish(_ context.Context, userID uuid.UUID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal event payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.BroadcastToUser(userID, Event{Type: eventType, Payload: raw})
}

// OnSessionChange forwards session changes to the user's connections so
// open clients can refresh their view of the account.
func (h *Hub) OnSessionChange(ev auth.SessionEvent) {
	h.Publish(context.Background(), ev.UserID, enum.EventAuthChanged, ev)
}

// ConnectedClients reports how many connections a user has open.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
