// Package stream owns the persistent WebSocket connection to the Council.
//
// The client:
//   - Dials the Council event stream and decodes incoming frames
//   - Hands decoded events to the router
//   - Reconnects on any close or transport error with exponential backoff,
//     capped at a configured maximum, retrying until the process exits
//   - Drops malformed frames without touching connection state
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Veenoway/the-council-tg/internal/event"
	"github.com/Veenoway/the-council-tg/internal/metrics"
)

// State is the connection lifecycle state.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// EventHandler consumes decoded events. *router.Router implements it.
type EventHandler interface {
	Handle(ctx context.Context, ev event.Event)
}

// Config holds stream client settings.
type Config struct {
	URL                string
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
	HandshakeTimeout   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconnectBaseDelay: time.Second,
		ReconnectMaxDelay:  30 * time.Second,
		HandshakeTimeout:   10 * time.Second,
	}
}

// Client maintains the connection to the Council event stream.
type Client struct {
	cfg     Config
	handler EventHandler
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	attempts int
}

// NewClient creates a stream client.
func NewClient(cfg Config, handler EventHandler, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the reconnect attempt counter. It resets to zero only on
// a confirmed successful connect.
func (c *Client) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Run connects and keeps the connection alive until ctx is canceled.
// Connection failures are never fatal; each one schedules a reconnect.
func (c *Client) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(Connecting)
		c.logger.Info("connecting to council stream", "url", c.cfg.URL)

		conn, err := c.dial(ctx)
		if err != nil {
			c.setState(Disconnected)
			c.logger.Warn("connect failed", "error", err)
			if !c.waitReconnect(ctx) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.state = Connected
		c.attempts = 0
		c.mu.Unlock()
		metrics.StreamConnected.Set(1)
		c.logger.Info("connected to council stream")

		c.readLoop(ctx, conn)

		c.setState(Disconnected)
		metrics.StreamConnected.Set(0)
		c.logger.Info("disconnected from council stream")

		if !c.waitReconnect(ctx) {
			return
		}
	}
}

// dial establishes the WebSocket connection.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	return conn, err
}

// readLoop reads frames until the connection errors or ctx is canceled.
// Decode failures on individual frames do not affect the connection.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	connDone := make(chan struct{})
	defer close(connDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-connDone:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("read error", "error", err)
			}
			return
		}

		ev, ok := event.Decode(data)
		if !ok {
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			continue
		}
		c.handler.Handle(ctx, ev)
	}
}

// waitReconnect sleeps the backoff delay for the current attempt and bumps
// the counter. It returns false if ctx was canceled while waiting.
func (c *Client) waitReconnect(ctx context.Context) bool {
	c.mu.Lock()
	delay := backoffDelay(c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay, c.attempts)
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	metrics.StreamReconnects.Inc()
	c.logger.Info("reconnecting", "delay", delay, "attempt", attempt)

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// backoffDelay computes min(base × 2^attempt, max).
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
