package handlers

import (
	"log"
	"net/http"
	"sync"

	"wa_gateway/internal/whatsapp"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/websocket"
)

type socketEvent struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// SocketHub fans lifecycle events out to every dashboard socket. It holds
// the only bus subscriptions; connections just receive broadcasts.
type SocketHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewSocketHub(bus EventBus.Bus) *SocketHub {
	hub := &SocketHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}

	topics := map[string]string{
		whatsapp.TopicQR:            "qr",
		whatsapp.TopicAuthenticated: "authenticated",
		whatsapp.TopicReady:         "ready",
		whatsapp.TopicAuthFailure:   "auth_failure",
		whatsapp.TopicDisconnected:  "disconnected",
	}
	for topic, event := range topics {
		event := event
		if err := bus.Subscribe(topic, func(data string) {
			hub.broadcast(event, data)
		}); err != nil {
			log.Printf("Error subscribing to %s: %v", topic, err)
		}
	}

	return hub
}

// Serve upgrades the request and registers the connection. New sockets get
// a greeting; everything after that is forward-only, no replay.
func (h *SocketHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	if err := conn.WriteJSON(socketEvent{Event: "message", Data: "Connecting..."}); err != nil {
		h.drop(conn)
		return
	}

	go h.readLoop(conn)
}

// readLoop drains the connection so close frames are noticed.
func (h *SocketHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *SocketHub) broadcast(event, data string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(socketEvent{Event: event, Data: data}); err != nil {
			log.Printf("Websocket write error: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *SocketHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
}
