package stream

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

const maxClients = 64

// Hub tracks connected viewers and fans frames out to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	dropped    atomic.Int64
}

// NewHub creates a hub. Call Run to start processing registrations.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister events until ctx is cancelled,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= maxClients {
				h.mu.Unlock()
				slog.Warn("stream: client limit reached", "remote", client.remoteAddr)
				close(client.send)
				continue
			}
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			slog.Info("stream: client connected", "remote", client.remoteAddr, "clients", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			slog.Info("stream: client disconnected", "remote", client.remoteAddr, "clients", n)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast queues data for every client. Clients whose queue is full
// skip this message.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

// BroadcastFrame encodes a frame once and broadcasts it.
func (h *Hub) BroadcastFrame(f *Frame) error {
	data, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many per-client messages were skipped for slow clients.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
