package relay

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/kvolkov/minerelay/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// WsConn wraps one websocket with a buffered send queue. TrySend never
// blocks: a full queue is reported as backpressure and left to the caller.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsConn(ws *websocket.Conn, buffer int) *WsConn {
	return &WsConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
