package remote

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	// errConnClosed is returned by Send after the connection has been closed.
	errConnClosed = errors.New("connection closed")
	// errSlowClient closes a connection whose send queue filled up.
	errSlowClient = errors.New("send queue full")
)

// safeConn owns the write side of a websocket connection. Messages are queued with Send and
// written by a single writer goroutine; reads stay on the connection's own goroutine.
type safeConn struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration

	send      chan any
	done      chan struct{}
	closeOnce sync.Once
}

func newSafeConn(conn *websocket.Conn, writeTimeout time.Duration, queue int) *safeConn {
	return &safeConn{
		conn:         conn,
		writeTimeout: writeTimeout,
		send:         make(chan any, max(queue, 1)),
		done:         make(chan struct{}),
	}
}

// Send queues v without blocking. A full queue means the client stopped reading, so the
// connection is closed and Send reports the reason.
func (c *safeConn) Send(v any) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}

	select {
	case c.send <- v:
		return nil
	default:
		_ = c.Close()
		return errSlowClient
	}
}

// writeLoop drains the send queue until the connection closes or a write fails.
func (c *safeConn) writeLoop(logger logrus.FieldLogger) {
	for {
		select {
		case <-c.done:
			return
		case v := <-c.send:
			if err := c.WriteJSON(v); err != nil {
				logger.WithError(err).Debug("remote write failed, closing connection")
				_ = c.Close()
				return
			}
		}
	}
}

func (c *safeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteJSON(v)
}

func (c *safeConn) ReadJSON(v any) error {
	return c.conn.ReadJSON(v)
}

// Close stops the writer and closes the socket, which also ends the read loop. Safe to call
// more than once and from any goroutine.
func (c *safeConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
