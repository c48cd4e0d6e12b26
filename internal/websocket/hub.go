package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
// Targeted broadcasts arrive on the callers' goroutines while the Run loop
// registers and drops clients, so the maps are guarded by a mutex.
type Hub struct {
	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	mu sync.Mutex

	// Registered clients.
	clients map[*Client]bool

	// A map of account emails to the set of clients watching them.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			if client.Topic != "" {
				h.addSubscription(client, client.Topic)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("total_clients", total).Msg("Client connected")
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastTo sends a message to all clients watching a specific account
// email. Clients whose send buffer is full are dropped.
func (h *Hub) BroadcastTo(email string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.subscriptions[email] {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
			delete(h.subscriptions[email], client)
		}
	}
}

// addSubscription and removeSubscription require h.mu to be held.

func (h *Hub) addSubscription(client *Client, email string) {
	if h.subscriptions[email] == nil {
		h.subscriptions[email] = make(map[*Client]bool)
	}
	h.subscriptions[email][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for email, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, email)
			}
		}
	}
}
