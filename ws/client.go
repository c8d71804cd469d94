package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"scopone-client/scoponeerrors"
	"scopone-client/wsutil"
)

// Options tune the connection. Zero fields fall back to DefaultOptions.
type Options struct {
	// Time allowed for the opening handshake.
	HandshakeTimeout time.Duration
	// Time allowed to write a message to the server.
	WriteWait time.Duration
	// Time allowed to read the next pong from the server.
	PongWait time.Duration
	// Maximum frame size accepted from the server. Hand views of all four
	// players travel in a single frame, hence the generous default.
	MaxMessageSize int64
	// Number of outbound commands buffered before Send fails.
	SendBuffer int
	// Extra handshake headers (e.g. Authorization).
	Header http.Header
}

// DefaultOptions returns the connection defaults.
func DefaultOptions() Options {
	return Options{
		HandshakeTimeout: 10 * time.Second,
		WriteWait:        10 * time.Second,
		PongWait:         60 * time.Second,
		MaxMessageSize:   1 << 20,
		SendBuffer:       64,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = d.HandshakeTimeout
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = d.MaxMessageSize
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = d.SendBuffer
	}
	return o
}

// Conn is the client side of the Scopone WebSocket: a read pump that turns
// frames into messages and a write pump that serialises commands.
type Conn struct {
	conn *websocket.Conn
	send chan []byte
	opts Options

	mu      sync.Mutex
	closing bool
	once    sync.Once
}

// Dial opens the connection. It returns once the handshake completed.
// Failures wrap scoponeerrors.ErrConnection.
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	opts = opts.withDefaults()
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: handshake status %d", scoponeerrors.ErrConnection, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", scoponeerrors.ErrConnection, err)
	}
	slog.Info("connected", "tag", "ws", "url", url)
	return &Conn{
		conn: conn,
		send: make(chan []byte, opts.SendBuffer),
		opts: opts,
	}, nil
}

// pingPeriod must be less than PongWait.
func (c *Conn) pingPeriod() time.Duration {
	return (c.opts.PongWait * 9) / 10
}

// ReadPump reads frames until the connection ends, handing every message to
// handle in arrival order. It runs in its own goroutine and is the only
// reader of the connection.
//
// It returns nil when the connection ended because Close was called.
// Otherwise the error wraps ErrUnexpectedClose (the server closed the
// socket), ErrGenericConnection (the network failed) or ErrMalformedMessage.
func (c *Conn) ReadPump(handle func(Message)) error {
	defer c.conn.Close()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if c.isClosing() {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("%w: %v", scoponeerrors.ErrUnexpectedClose, err)
			}
			return fmt.Errorf("%w: %v", scoponeerrors.ErrGenericConnection, err)
		}

		msgs, err := SplitFrame(frame)
		for _, m := range msgs {
			handle(m)
		}
		if err != nil {
			return err
		}
	}
}

// WritePump writes queued commands and keeps the connection alive with pings.
// It runs in its own goroutine.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				// Close was called.
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				slog.Warn("opening writer", "tag", "ws", "err", err)
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				slog.Warn("writing command", "tag", "ws", "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send stamps and queues cmd for the write pump.
func (c *Conn) Send(cmd Command) error {
	if c.isClosing() {
		return scoponeerrors.ErrNotConnected
	}
	cmd.TsSent = time.Now()
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", cmd.ID, err)
	}
	if !wsutil.SafeSend(c.send, data) {
		return fmt.Errorf("%s: %w", cmd.ID, scoponeerrors.ErrSendBufferFull)
	}
	return nil
}

// Close asks the write pump to send a close frame and shut the connection.
// ReadPump then returns nil.
func (c *Conn) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closing = true
		c.mu.Unlock()
		close(c.send)
	})
	return nil
}

func (c *Conn) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}
