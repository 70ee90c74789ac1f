package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"valentine-server/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// progressEvent is the wire format pushed to generation progress listeners.
type progressEvent struct {
	Type    string `json:"type"`
	StoryID string `json:"storyId"`
	Stage   string `json:"stage"`
	TS      int64  `json:"ts"`
}

type progressClient struct {
	storyID string
	conn    *websocket.Conn
	send    chan []byte
}

// ProgressHub tracks one listener per story and pushes generation stage
// events to it. It satisfies service.ProgressNotifier so the generator can
// publish without knowing about websockets.
type ProgressHub struct {
	clients    map[string]*progressClient
	register   chan *progressClient
	unregister chan *progressClient
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	mu         sync.RWMutex
}

var _ service.ProgressNotifier = (*ProgressHub)(nil)

// NewProgressHub creates the hub and starts its management loop.
func NewProgressHub(allowedOrigins []string, logger *zap.Logger) *ProgressHub {
	h := &ProgressHub{
		clients:    make(map[string]*progressClient),
		register:   make(chan *progressClient),
		unregister: make(chan *progressClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.Named("ProgressHub"),
	}
	go h.run()
	return h
}

func originChecker(allowedOrigins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func (h *ProgressHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A reconnect for the same story replaces the old listener.
			if old, ok := h.clients[client.storyID]; ok {
				close(old.send)
				_ = old.conn.Close()
			}
			h.clients[client.storyID] = client
			h.mu.Unlock()
			h.logger.Debug("Listener registered", zap.String("storyID", client.storyID))

		case client := <-h.unregister:
			h.mu.Lock()
			// A replaced listener must not evict its successor.
			if current, ok := h.clients[client.storyID]; ok && current == client {
				delete(h.clients, client.storyID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("Listener unregistered", zap.String("storyID", client.storyID))
		}
	}
}

// Notify pushes a stage event to the story's listener, if one is connected.
// Generation never blocks on a slow or absent listener.
func (h *ProgressHub) Notify(storyID string, stage service.GenerationStage) {
	payload, err := json.Marshal(progressEvent{
		Type:    "generation_progress",
		StoryID: storyID,
		Stage:   string(stage),
		TS:      time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	// The send stays under the read lock: the channel is only closed under
	// the write lock, so a concurrent replacement cannot close it mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[storyID]
	if !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
		h.logger.Warn("Listener queue full, dropping event",
			zap.String("storyID", storyID), zap.String("stage", string(stage)))
	}
}

// ServeWS upgrades a progress subscription for GET /ws/generation/:storyId.
func (h *ProgressHub) ServeWS(c *gin.Context) {
	storyID := c.Param("storyId")
	if storyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing story id"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Upgrade failed", zap.String("storyID", storyID), zap.Error(err))
		return
	}

	client := &progressClient{
		storyID: storyID,
		conn:    conn,
		send:    make(chan []byte, 32),
	}
	h.register <- client

	go client.writePump(h.logger)
	go client.readPump(h)
}

// readPump drains the connection; clients are not expected to send anything.
func (c *progressClient) readPump(h *ProgressHub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *progressClient) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("Write failed", zap.String("storyID", c.storyID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
