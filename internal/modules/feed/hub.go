// Package feed pushes committed ledger events to connected dashboards over
// websockets.
package feed

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"resortbooking/internal/domain"
)

const sendBuffer = 32

type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every registered connection. A connection that
// cannot keep up is dropped rather than allowed to stall publishers.
type Hub struct {
	connections map[uint64]*client
	mutex       sync.RWMutex
	nextID      atomic.Uint64
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[uint64]*client),
		log:         log,
	}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   h.nextID.Add(1),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mutex.Lock()
	h.connections[c.id] = c
	h.mutex.Unlock()
	return c
}

func (h *Hub) unregister(id uint64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[id]; exists {
		close(c.send)
		delete(h.connections, id)
	}
}

// Publish implements the booking service's event sink.
func (h *Hub) Publish(event domain.LedgerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("encode ledger event", zap.Error(err))
		return
	}

	var slow []uint64
	h.mutex.RLock()
	for id, c := range h.connections {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, id)
		}
	}
	h.mutex.RUnlock()

	for _, id := range slow {
		h.log.Warn("dropping slow feed subscriber", zap.Uint64("subscriber", id))
		h.unregister(id)
	}
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, c := range h.connections {
		close(c.send)
		delete(h.connections, id)
	}
}
