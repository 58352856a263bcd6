package gateway

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"belote-lite/apps/server/internal/auth"
	"belote-lite/apps/server/internal/codec"
	"belote-lite/apps/server/internal/lobby"
	"belote-lite/apps/server/internal/table"
	"belote-lite/belote"
	"belote-lite/wire"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type frame struct {
	messageType int
	data        []byte
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan frame
	Gateway  *Gateway
	LastPing time.Time

	// Text connections get protojson frames, the rest binary protobuf.
	Text bool

	// Current table association
	TableID string
	Table   *table.Table
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	lobby       *lobby.Lobby
	gate        *auth.Gate
}

// New creates a new Gateway instance
func New(lby *lobby.Lobby, gate *auth.Gate) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		lobby:       lby,
		gate:        gate,
	}
}

// HandleWebSocket checks the table passphrase, upgrades and seats the
// connection. ?table=<id> joins a specific table, otherwise QuickStart.
// ?format=json switches to text frames.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := g.gate.Check(auth.PassphraseFromRequest(r)); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var t *table.Table
	if tableID := r.URL.Query().Get("table"); tableID != "" {
		t = g.lobby.GetTable(tableID)
		if t == nil || t.IsClosed() {
			http.Error(w, "table not found", http.StatusNotFound)
			return
		}
	} else {
		var err error
		t, err = g.lobby.QuickStart(g.SendTo)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	c := &Connection{
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan frame, 256),
		Gateway:  g,
		LastPing: time.Now(),
		Text:     r.URL.Query().Get("format") == "json",
		TableID:  t.ID,
		Table:    t,
	}
	g.mu.Lock()
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s table=%s, total: %d", c.ID, t.ID, total)

	go c.writePump()

	if err := t.SubmitEvent(table.Event{Type: table.EventJoin, ConnID: c.ID}); err != nil {
		// the table already sent the error envelope
		log.Printf("[Gateway] Join failed for %s: %v", c.ID, err)
		g.removeConnection(c)
		return
	}
	go c.readPump()
}

func (c *Connection) readPump() {
	defer func() {
		if c.Table != nil {
			if err := c.Table.SubmitEvent(table.Event{Type: table.EventLeave, ConnID: c.ID}); err != nil && !errors.Is(err, table.ErrTableClosed) {
				log.Printf("[Gateway] Leave failed for %s: %v", c.ID, err)
			}
		}
		c.Gateway.removeConnection(c)
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		c.handleMessage(message, messageType == websocket.TextMessage)
	}
}

var actionEvents = map[codec.ActionType]table.EventType{
	codec.ActionDeal:     table.EventDeal,
	codec.ActionBid:      table.EventBid,
	codec.ActionPlay:     table.EventPlay,
	codec.ActionDeclare:  table.EventDeclare,
	codec.ActionSnapshot: table.EventSnapshot,
	codec.ActionAddBot:   table.EventAddBot,
}

func (c *Connection) handleMessage(data []byte, text bool) {
	action, err := codec.DecodeAction(data, text)
	if err != nil {
		log.Printf("[Gateway] Failed to decode from %s: %v", c.ID, err)
		c.sendError(codec.CodeBadRequest, err.Error())
		return
	}
	if action.Type == codec.ActionPing {
		return
	}

	err = c.Table.SubmitEvent(table.Event{
		Type:   actionEvents[action.Type],
		ConnID: c.ID,
		Value:  action.Value,
	})
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, table.ErrTableClosed):
		c.sendError(codec.CodeInternal, err.Error())
	case action.Type == codec.ActionAddBot:
		c.sendError(codec.CodeBadRequest, err.Error())
	default:
		// Engine rejections were already answered by the table.
		if _, ok := belote.AsRejection(err); !ok {
			log.Printf("[Gateway] %s from %s: %v", action.Type, c.ID, err)
		}
	}
}

func (c *Connection) sendError(code, msg string) {
	c.Gateway.SendTo(c.ID, codec.EncodeError(c.TableID, 0, code, msg))
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(message.messageType, message.data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.connections[c.ID]; !ok {
		return
	}
	delete(g.connections, c.ID)
	close(c.Send)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// SendTo encodes env for the connection's frame mode and queues it.
func (g *Gateway) SendTo(connID string, env wire.ServerEnvelope) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c := g.connections[connID]
	if c == nil {
		return
	}

	var (
		f   frame
		err error
	)
	if c.Text {
		f.messageType = websocket.TextMessage
		f.data, err = env.MarshalJSON()
	} else {
		f.messageType = websocket.BinaryMessage
		f.data, err = env.Marshal()
	}
	if err != nil {
		log.Printf("[Gateway] Failed to encode %s: %v", env.Type, err)
		return
	}
	select {
	case c.Send <- f:
	default:
		// Drop if buffer full
	}
}

// Count returns the number of live connections.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}
