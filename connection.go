package main

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gridsnake/game"
)

var errUnknownDirection = errors.New("unknown direction")

// Conn binds one websocket to its own game session
type Conn struct {
	ID      string
	ws      *websocket.Conn
	codec   Codec
	session *game.Session
	mu      sync.Mutex // protects ws writes and closed
	closed  bool
}

// NewConn wraps ws; the connection takes the session's ID
func NewConn(ws *websocket.Conn, codec Codec, session *game.Session) *Conn {
	return &Conn{
		ID:      session.ID,
		ws:      ws,
		codec:   codec,
		session: session,
	}
}

// Send encodes msg with the connection's codec and writes it to the WebSocket
func (c *Conn) Send(msg any) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return c.ws.WriteMessage(c.codec.FrameType(), data)
}

// Close marks the connection closed and ends its session
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.ws.Close()
	c.mu.Unlock()
	c.session.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Get returns a connection by ID
func (m *ConnManager) Get(id string) (*Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// Pump forwards session snapshots to the client until the session is closed.
// A game over is announced once per game after its final state.
func (c *Conn) Pump() {
	var lastOver time.Time
	for snap := range c.session.Updates() {
		if err := c.Send(newStateMsg(snap)); err != nil {
			log.Printf("ws write error for %s: %v", c.ID, err)
			c.Close()
			continue
		}
		if snap.State.Phase == game.GameOver && !snap.At.Equal(lastOver) {
			lastOver = snap.At
			_ = c.Send(newGameOverMsg(snap.State))
		}
	}
}

// ReadLoop handles incoming messages until the client disconnects.
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := c.codec.Unmarshal(raw, &msg); err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}

		if err := c.handle(msg); err != nil {
			if errors.Is(err, game.ErrSessionClosed) {
				return
			}
			_ = c.Send(ErrorMsg{Type: MsgError, Message: err.Error()})
		}
	}
}

// handle applies one client message to the session
func (c *Conn) handle(msg ClientMessage) error {
	switch msg.Type {
	case MsgStart: // "s"
		d, err := game.ParseDifficulty(msg.D)
		if err != nil {
			return err
		}
		walls := msg.Walls == nil || *msg.Walls != 0
		return c.session.Start(d, walls)

	case MsgInput: // "i"
		_, err := c.session.QueueDirection(msg.X, msg.Y)
		return err

	case MsgKey: // "k"
		d, ok := game.ParseDirection(msg.D)
		if !ok {
			return fmt.Errorf("%w: %q", errUnknownDirection, msg.D)
		}
		_, err := c.session.QueueKey(d)
		return err

	case MsgPause: // "p"
		return c.session.Pause()

	case MsgResume: // "u"
		return c.session.Resume()

	case MsgReset: // "x"
		return c.session.Reset()
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}
