package routes

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Hub fans comment events out to every connected websocket client.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	log       zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 100), // Buffered channel to prevent blocking
		log:       logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for event := range h.broadcast {
		h.mu.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, event); err != nil {
				h.log.Error().Err(err).Msg("websocket write error")
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// Broadcast queues an event for all clients. Events are dropped when the
// queue is full rather than blocking the request path.
func (h *Hub) Broadcast(event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode feed event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Msg("feed queue full, dropping event")
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// commentFeed upgrades the connection and keeps it registered with the hub
// until the client goes away. Clients only listen; inbound messages are
// discarded.
func (h *Handler) commentFeed(c *fiber.Ctx) error {
	handler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		h.hub.add(conn)
		h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("feed client connected")

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Error().Err(err).Msg("websocket read error")
				}
				h.hub.remove(conn)
				h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("feed client disconnected")
				return
			}
		}
	})
	return handler(c)
}
