package ws

import (
	"encoding/json"
	"log"
	"sync"

	"creative-builder/internal/model"
	"github.com/gorilla/websocket"
)

// SessionHub routes preview frames to the clients watching one editing
// session. Unlike Hub it has no run loop; pushes happen on the caller's
// goroutine.
type SessionHub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewSessionHub() *SessionHub {
	return &SessionHub{clients: map[string]map[*Client]struct{}{}}
}

func (h *SessionHub) Register(sessionID string, conn *websocket.Conn) *Client {
	var c *Client
	c = NewClientWithClose(conn, func() { h.Unregister(sessionID, c) })
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sessionID]; !ok {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][c] = struct{}{}
	return c
}

func (h *SessionHub) Unregister(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.clients[sessionID]; ok {
		if _, exist := m[c]; exist {
			delete(m, c)
			close(c.send)
		}
		if len(m) == 0 {
			delete(h.clients, sessionID)
		}
	}
}

// HasClients reports whether anyone is watching sessionID.
func (h *SessionHub) HasClients(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID]) > 0
}

// Push sends evt to the session's clients, dropping any client that cannot
// keep up.
func (h *SessionHub) Push(sessionID string, evt model.Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		log.Printf("marshal session event: session=%s type=%s err=%v", sessionID, evt.Type, err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[sessionID] {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("session client too slow, disconnecting: session=%s", sessionID)
		h.Unregister(sessionID, c)
	}
}
