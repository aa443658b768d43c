package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/scanner"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The terminal UI is served from arbitrary origins in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsEvent is the frame pushed to live feed subscribers.
type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans scanner events out to connected websocket clients. It implements
// scanner.Notifier; sends never block the scan loop because slow clients are
// dropped once their buffer fills.
type Hub struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan wsEvent
}

// NewHub creates a Hub. A nil logger disables logging.
func NewHub(logger *zap.SugaredLogger) *Hub {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

var _ scanner.Notifier = (*Hub)(nil)

// ScanLogged broadcasts a new scan feed entry.
func (h *Hub) ScanLogged(entry *domain.ScanEntry) {
	h.broadcast(wsEvent{Type: "scan", Data: entry})
}

// CycleCompleted broadcasts a cycle summary.
func (h *Hub) CycleCompleted(summary scanner.CycleSummary) {
	h.broadcast(wsEvent{Type: "cycle", Data: summary})
}

func (h *Hub) broadcast(ev wsEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			// Client can't keep up; disconnect it.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan wsEvent, 64)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client)
}

func (h *Hub) writePump(c *wsClient) {
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump drains inbound frames so pings are answered, and unregisters the
// client when the connection dies.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
