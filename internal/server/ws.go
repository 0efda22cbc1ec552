package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// eventMessage is the wire form of one lifecycle event.
type eventMessage struct {
	Kind       string  `json:"kind"`
	GestureID  string  `json:"gesture_id"`
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	HandIndex  int     `json:"hand_index,omitempty"`
	Timestamp  int64   `json:"timestamp,omitempty"`
}

// EventsHandler broadcasts gesture lifecycle events to WebSocket clients.
// It subscribes to every gesture in the catalog at construction; events for
// definitions added later are not broadcast until the server restarts.
type EventsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventsHandler creates an EventsHandler subscribed to all of the
// catalog's gestures on the given registry.
func NewEventsHandler(reg *recognition.Registry, catalog *gesture.Catalog) *EventsHandler {
	h := &EventsHandler{
		clients: make(map[*websocket.Conn]bool),
	}
	for _, def := range catalog.Definitions() {
		reg.Subscribe(def.ID, h.broadcast)
	}
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast runs on the dispatch worker; it serializes one event and writes
// it to every client.
func (h *EventsHandler) broadcast(ev recognition.Event) {
	msg := eventMessage{
		Kind:      string(ev.Kind),
		GestureID: ev.GestureID,
	}
	if ev.Detection != nil {
		msg.Name = ev.Detection.Name
		msg.Confidence = ev.Detection.Confidence
		msg.HandIndex = ev.Detection.HandIndex
		msg.Timestamp = ev.Detection.Timestamp.UnixMilli()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		conn.WriteMessage(websocket.TextMessage, payload)
	}
}
