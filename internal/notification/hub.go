// Package notification pushes order deltas to connected websocket clients.
package notification

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TypeOrderStatusUpdate   = "orderStatusUpdate"
	TypePaymentStatusUpdate = "paymentStatusUpdate"
)

const (
	defaultSendBuffer = 16
	defaultWriteWait  = 10 * time.Second
)

var ErrHubClosed = errors.New("notification hub closed")

// Conn is the part of *websocket.Conn the hub relies on.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber identifies who is behind a connection. Admins receive every
// order's notifications, customers only their own.
type Subscriber struct {
	UserID string
	Admin  bool
}

func (s Subscriber) wants(customerID string) bool {
	return s.Admin || (s.UserID != "" && s.UserID == customerID)
}

type Notification struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	OrderID string    `json:"orderId"`
	Data    any       `json:"data"`
	SentAt  time.Time `json:"sentAt"`
}

func New(kind, orderID string, data any) Notification {
	return Notification{
		ID:      uuid.New(),
		Type:    kind,
		OrderID: orderID,
		Data:    data,
		SentAt:  time.Now().UTC(),
	}
}

type client struct {
	conn Conn
	sub  Subscriber
	// written only by the client's writer goroutine; closed by unregister
	send chan []byte
}

// Hub owns the set of live connections. Broadcast never blocks on a
// connection: each client has its own queue and writer goroutine, and a
// client whose queue is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	closed  bool
	logger  *zap.Logger

	sendBuffer int
	writeWait  time.Duration
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*client),
		logger:     logger,
		sendBuffer: defaultSendBuffer,
		writeWait:  defaultWriteWait,
	}
}

// Serve registers conn for sub and blocks until the client goes away.
func (h *Hub) Serve(conn Conn, sub Subscriber) error {
	id, c, err := h.register(conn, sub)
	if err != nil {
		conn.Close()
		return err
	}
	defer h.unregister(id)

	go h.writePump(id, c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket client read failed", zap.String("clientId", id.String()), zap.Error(err))
			}
			return nil
		}
	}
}

func (h *Hub) register(conn Conn, sub Subscriber) (uuid.UUID, *client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return uuid.Nil, nil, ErrHubClosed
	}
	id := uuid.New()
	c := &client{conn: conn, sub: sub, send: make(chan []byte, h.sendBuffer)}
	h.clients[id] = c
	h.logger.Debug("websocket client connected",
		zap.String("clientId", id.String()),
		zap.String("userId", sub.UserID),
		zap.Int("clients", len(h.clients)))
	return id, c, nil
}

func (h *Hub) writePump(id uuid.UUID, c *client) {
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
			h.logger.Warn("dropping websocket client", zap.String("clientId", id.String()), zap.Error(err))
			h.unregister(id)
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("dropping websocket client", zap.String("clientId", id.String()), zap.Error(err))
			h.unregister(id)
			return
		}
	}
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		h.logger.Debug("websocket client disconnected", zap.String("clientId", id.String()))
	}
}

// Broadcast queues n for the order's customer and for admins.
func (h *Hub) Broadcast(customerID string, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.String("type", n.Type), zap.Error(err))
		return
	}

	var slow []uuid.UUID
	h.mu.RLock()
	for id, c := range h.clients {
		if !c.sub.wants(customerID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Warn("dropping slow websocket client", zap.String("clientId", id.String()))
		h.unregister(id)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects everybody and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	for _, c := range clients {
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
