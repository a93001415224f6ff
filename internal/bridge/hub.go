// Package bridge publishes simulation snapshots over websockets and accepts
// commands from out-of-process renderers and controllers.
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/companion/internal/sim"
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

// Config holds optional hub settings.
type Config struct {
	Logger logrus.FieldLogger
}

// Hub fans snapshots out to connected clients and applies their commands to
// the core. It implements scheduler.Listener.
type Hub struct {
	core     *sim.Core
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// client is one websocket connection. Only the write pump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// NewHub creates a hub serving core.
func NewHub(core *sim.Core, cfg Config) *Hub {
	log := cfg.Logger
	if log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		log = discard
	}

	return &Hub{
		core: core,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection, sends the current snapshot, and then
// reads commands until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	// The initial snapshot is queued before registering so that it is
	// always the first message a client sees.
	h.enqueue(c, snapshotMessage{Type: MessageSnapshot, Reason: ReasonInitial, State: h.core.Snapshot()})
	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	defer h.unregister(c)

	go h.writePump(c)
	h.readPump(r.Context(), c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.log.WithField("clients", len(h.clients)).Info("bridge client connected")
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	remaining := len(h.clients)
	h.mu.Unlock()

	c.close()
	h.log.WithField("clients", remaining).Info("bridge client disconnected")
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			h.log.WithError(err).Debug("discarding malformed bridge message")
			continue
		}

		changed, err := h.apply(ctx, cmd)
		if err != nil {
			h.enqueue(c, errorMessage{Type: MessageError, Error: err.Error()})
			continue
		}
		h.enqueue(c, ackMessage{Type: MessageAck, Command: cmd.Type, Changed: changed})
		if changed {
			h.ModeChanged(h.core.Snapshot())
		}
	}
}

// apply runs a client command against the core.
func (h *Hub) apply(ctx context.Context, cmd command) (bool, error) {
	switch cmd.Type {
	case CommandSit:
		return h.core.ForceSit(ctx), nil
	case CommandStand:
		return h.core.ForceStand(ctx), nil
	case CommandFly:
		return h.core.FlyUp(ctx), nil
	}

	ev, err := cmd.toEvent()
	if err != nil {
		return false, err
	}
	return h.core.HandleEvent(ctx, ev), nil
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.WithError(err).Debug("bridge write failed")
				c.close()
				return
			}
		}
	}
}

// enqueue queues a message for one client, dropping it if the client is
// not keeping up.
func (h *Hub) enqueue(c *client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal bridge message")
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		h.log.Debug("bridge client too slow, dropping message")
	}
}

func (h *Hub) broadcast(reason string, snap sim.Snapshot) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := snapshotMessage{Type: MessageSnapshot, Reason: reason, State: snap}
	for _, c := range clients {
		h.enqueue(c, msg)
	}
}

// ModeChanged publishes a snapshot after a mode transition.
func (h *Hub) ModeChanged(snap sim.Snapshot) {
	h.broadcast(ReasonMode, snap)
}

// FrameAdvanced publishes a snapshot after an animation frame.
func (h *Hub) FrameAdvanced(snap sim.Snapshot) {
	h.broadcast(ReasonFrame, snap)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
