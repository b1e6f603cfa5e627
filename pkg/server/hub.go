package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/TR-Jackson/Chess/pkg/mcts"
)

// statsPayload is the wire format pushed to websocket subscribers while a
// search is running.
type statsPayload struct {
	Event     string         `json:"event"` // "stats" or "stop"
	Stats     mcts.TreeStats `json:"stats"`
	UpdatedAt int64          `json:"updated_at_ms"`
}

type statsClient struct {
	hub  *StatsHub
	conn *websocket.Conn
	send chan []byte
}

// StatsHub fans live search statistics out to any number of websocket
// subscribers. Publishing never blocks the search goroutine: a full
// broadcast queue or a slow client simply drops payloads.
type StatsHub struct {
	log       zerolog.Logger
	mu        sync.Mutex
	clients   map[*statsClient]struct{}
	broadcast chan statsPayload
}

func NewStatsHub(log zerolog.Logger) *StatsHub {
	return &StatsHub{
		log:       log,
		clients:   make(map[*statsClient]struct{}),
		broadcast: make(chan statsPayload, 64),
	}
}

func (h *StatsHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *StatsHub) Publish(event string, stats mcts.TreeStats) {
	payload := statsPayload{
		Event:     event,
		Stats:     stats,
		UpdatedAt: time.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *StatsHub) register(c *statsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *StatsHub) unregister(c *statsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of connected websocket clients.
func (h *StatsHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *StatsHub) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &statsClient{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register(client)

	go client.writeLoop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(client)
			conn.Close()
			return
		}
	}
}

func (c *statsClient) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
