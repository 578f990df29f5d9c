package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SignalEvent is the JSON payload broadcast to websocket subscribers
// whenever the live engine emits a signal transition.
type SignalEvent struct {
	Signal    string  `json:"signal"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	LeaderOBI float64 `json:"leader_obi"`
	Timestamp int64   `json:"ts"` // Unix Microseconds
}

// Hub fans messages out to every connected websocket client.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	lock      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		message := <-h.broadcast
		h.lock.Lock()
		for client := range h.clients {
			err := client.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.lock.Unlock()
	}
}

func (h *Hub) Broadcast(msg []byte) {
	h.broadcast <- msg
}

// StartServer exposes the hub on /ws and blocks.
func StartServer(hub *Hub, addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnw("ws_upgrade_error", "err", err)
			return
		}
		hub.lock.Lock()
		hub.clients[conn] = true
		hub.lock.Unlock()
	})

	log.Infow("telemetry_listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalw("telemetry_server_error", "err", err)
	}
}
