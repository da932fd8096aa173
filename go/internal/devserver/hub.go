package devserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/winnersfeed"
)

// Hub fans the winners stream out to every connected websocket client.
// Each resolution broadcasts the full current list, never a delta.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub. Origin checks are disabled; this server
// only ever binds locally.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and parks the connection until the peer
// goes away. Clients never send anything meaningful; reads exist only to
// notice the close.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	log.Info().Int("clients", n).Msg("winners stream client connected")

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast pushes the current winners list to every client. Connections
// that fail to write are dropped.
func (h *Hub) Broadcast(event winnersfeed.Event) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Warn().Err(err).Msg("dropping winners stream client")
			h.drop(conn)
		}
	}
}
