package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// MessageEvent is the outbound chat frame fanned out to a transaction room.
// Sender is nil for system messages.
type MessageEvent struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	MessageID     string    `json:"message_id"`
	Sender        *Sender   `json:"sender,omitempty"`
	Body          *string   `json:"body,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Sender struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Hub keeps one room per open transaction. Delivery is fire-and-forget: a
// client with a full send buffer misses the frame and catches up from the
// persisted history.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(transactionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[transactionID] == nil {
		h.rooms[transactionID] = make(map[*Client]struct{})
	}
	h.rooms[transactionID][client] = struct{}{}
}

func (h *Hub) Unregister(transactionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[transactionID] == nil {
		return
	}
	delete(h.rooms[transactionID], client)
	if len(h.rooms[transactionID]) == 0 {
		delete(h.rooms, transactionID)
	}
}

func (h *Hub) BroadcastMessage(transactionID string, event MessageEvent) {
	payload, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[transactionID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
