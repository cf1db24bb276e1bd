package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veenoway/the-council-tg/internal/bots"
	"github.com/Veenoway/the-council-tg/internal/metrics"
)

// Sender posts messages to the messaging API. *Client implements it; tests
// substitute fakes.
type Sender interface {
	SendMessage(ctx context.Context, token, text string) error
	SendPhoto(ctx context.Context, token, photoURL, caption string) error
}

// Message is one outbound group message. Immutable once constructed and
// consumed exactly once by the queue.
type Message struct {
	ID       string // for log correlation across enqueue → send
	Text     string
	ImageURL string // if set, sent as a photo with Text as caption
	BotID    string // council member to post as; "" = main bot
}

// NewMessage constructs a Message with a fresh correlation ID.
func NewMessage(text, imageURL, botID string) Message {
	return Message{
		ID:       uuid.NewString(),
		Text:     text,
		ImageURL: imageURL,
		BotID:    botID,
	}
}

// QueueConfig holds dispatch queue settings.
type QueueConfig struct {
	MainToken   string        // default bot token
	SendSpacing time.Duration // minimum spacing between sends
	WarnSize    int           // backlog size that triggers a warning
	SendTimeout time.Duration // per-send timeout
}

// DefaultQueueConfig returns sensible defaults.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		SendSpacing: 400 * time.Millisecond,
		WarnSize:    200,
		SendTimeout: 30 * time.Second,
	}
}

// Queue is an ordered, serialized, rate-limited sender of outbound messages.
//
// Enqueue never blocks the caller. A single drain worker sends pending
// messages in strict FIFO order with SendSpacing between sends; it exits
// when the backlog empties and is restarted by the next Enqueue. Send
// failures are logged and the message discarded. The backlog is unbounded;
// crossing WarnSize only logs and raises a gauge.
type Queue struct {
	cfg    QueueConfig
	sender Sender
	logger *slog.Logger

	// tokenFor resolves a bot ID to its dedicated token ("" = none).
	tokenFor func(botID string) string

	mu       sync.Mutex
	pending  []Message
	draining bool
}

// NewQueue creates a dispatch queue on top of the given sender.
func NewQueue(cfg QueueConfig, sender Sender, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		cfg:      cfg,
		sender:   sender,
		logger:   logger,
		tokenFor: bots.Token,
	}
}

// Enqueue appends msg to the backlog and starts the drain worker if one is
// not already running. It returns immediately.
func (q *Queue) Enqueue(msg Message) {
	q.mu.Lock()
	q.pending = append(q.pending, msg)
	depth := len(q.pending)
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
	if depth >= q.cfg.WarnSize {
		q.logger.Warn("dispatch backlog growing", "depth", depth)
	}

	if start {
		go q.drain()
	}
}

// Pending returns the current backlog size.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// drain sends pending messages in FIFO order. Exactly one drain runs at a
// time; the draining flag is cleared only when the backlog is empty.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		msg := q.pending[0]
		q.pending = q.pending[1:]
		depth := len(q.pending)
		q.mu.Unlock()

		metrics.QueueDepth.Set(float64(depth))

		q.send(msg)
		time.Sleep(q.cfg.SendSpacing)
	}
}

// send delivers one message. Failures are logged and the message dropped.
func (q *Queue) send(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.SendTimeout)
	defer cancel()

	if msg.ImageURL != "" {
		// Photos always go out via the main bot.
		if err := q.sender.SendPhoto(ctx, q.cfg.MainToken, msg.ImageURL, msg.Text); err != nil {
			q.logger.Warn("photo send failed, falling back to text",
				"msg_id", msg.ID,
				"error", err,
			)
			metrics.SendsTotal.WithLabelValues("photo_fallback").Inc()

			if err := q.sender.SendMessage(ctx, q.cfg.MainToken, msg.Text); err != nil {
				q.logger.Error("text fallback failed", "msg_id", msg.ID, "error", err)
				metrics.SendsTotal.WithLabelValues("error").Inc()
				return
			}
		}
		metrics.SendsTotal.WithLabelValues("ok").Inc()
		return
	}

	token := ""
	if msg.BotID != "" {
		token = q.tokenFor(msg.BotID)
	}
	if token == "" {
		token = q.cfg.MainToken
	}

	if err := q.sender.SendMessage(ctx, token, msg.Text); err != nil {
		q.logger.Error("send failed", "msg_id", msg.ID, "bot_id", msg.BotID, "error", err)
		metrics.SendsTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.SendsTotal.WithLabelValues("ok").Inc()
}
