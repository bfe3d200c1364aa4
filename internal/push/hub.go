// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package push

import (
	"context"
	"sort"
	"sync"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// Message types exchanged with clients.
const (
	MessageTypeNotification = "notification"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the envelope for everything sent over a push connection.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub maintains the set of connected clients and fans notifications out
// to them.
//
// Thread Safety: safe for concurrent use. Broadcast never blocks the
// caller; slow clients drop messages instead of stalling the hub.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty Hub. Call Run to start delivery.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Notify queues a notification for every connected client.
func (h *Hub) Notify(n Notification) {
	select {
	case h.broadcast <- Message{Type: MessageTypeNotification, Data: n}:
	default:
		logging.Warn().Msg("push broadcast queue full, dropping notification")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run delivers messages until ctx is cancelled, then closes every client.
// Lifecycle events are drained before broadcasts so client state is
// settled when a message fans out.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	metrics.PushClientsConnected.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("push client connected")
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.PushClientsConnected.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("push client disconnected")
}

// fanOut sends the message to clients in stable id order. Clients with a
// full queue miss the message rather than blocking everyone else.
func (h *Hub) fanOut(message Message) {
	h.mu.RLock()
	ordered := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		ordered = append(ordered, client)
	}
	h.mu.RUnlock()
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].id < ordered[j].id })

	for _, client := range ordered {
		select {
		case client.send <- message:
		default:
			logging.Warn().Uint64("client_id", client.id).Msg("push client queue full, dropping message")
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.PushClientsConnected.Set(0)
	logging.Info().
		Str("component", "push-hub").
		Int("clients_closed", count).
		Msg("push hub stopped")
}
