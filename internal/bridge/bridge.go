package bridge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veenoway/the-council-tg/internal/bots"
	"github.com/Veenoway/the-council-tg/internal/metrics"
	"github.com/Veenoway/the-council-tg/internal/telegram"
)

// Forwarder obtains a member reply for a user message. *BackendClient
// implements it.
type Forwarder interface {
	Chat(ctx context.Context, message, username, targetBotID string) (*ChatReply, error)
}

// Dispatcher accepts outbound messages. *telegram.Queue implements it.
type Dispatcher interface {
	Enqueue(msg telegram.Message)
}

// Bridge forwards inbound user messages and posts the replies.
type Bridge struct {
	backend Forwarder
	queue   Dispatcher
	logger  *slog.Logger

	// tokenFor resolves a member's dedicated bot token ("" = none).
	tokenFor func(botID string) string
}

// New creates a Bridge.
func New(backend Forwarder, queue Dispatcher, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		backend:  backend,
		queue:    queue,
		logger:   logger,
		tokenFor: bots.Token,
	}
}

// HandleInbound forwards one user message. targetBotID may be empty, in
// which case the backend picks the member. Failures are logged and dropped;
// the user simply receives no reply.
func (b *Bridge) HandleInbound(ctx context.Context, text, username, targetBotID string) {
	reply, err := b.backend.Chat(ctx, text, username, targetBotID)
	if err != nil {
		b.logger.Warn("backend forward failed", "username", username, "error", err)
		metrics.BridgeForwards.WithLabelValues("error").Inc()
		return
	}
	if reply.Response == "" {
		metrics.BridgeForwards.WithLabelValues("ok").Inc()
		return
	}

	if reply.BotID != "" && b.tokenFor(reply.BotID) != "" {
		b.queue.Enqueue(telegram.NewMessage(reply.Response, "", reply.BotID))
	} else {
		name := reply.BotName
		if name == "" {
			name = bots.Name(reply.BotID)
		}
		b.queue.Enqueue(telegram.NewMessage("<b>"+name+":</b> "+reply.Response, "", ""))
	}

	b.logger.Info("member replied", "bot_id", reply.BotID, "username", username)
	metrics.BridgeForwards.WithLabelValues("ok").Inc()
}

// ResolveTarget determines which member a message addresses: an explicit
// mention first, then the member being replied to, else unresolved.
func ResolveTarget(text, replyToUsername string, replyToIsBot bool) string {
	if id := detectMention(text); id != "" {
		return id
	}
	if replyToIsBot {
		if id, ok := bots.ByUsername(replyToUsername); ok {
			return id
		}
	}
	return ""
}

// detectMention scans text for a member's bot @username or display name.
func detectMention(text string) string {
	lower := strings.ToLower(text)

	for _, m := range bots.All() {
		if strings.Contains(lower, "@"+strings.ToLower(m.Username)) {
			return m.ID
		}
	}
	for _, m := range bots.All() {
		if strings.Contains(lower, strings.ToLower(m.Name)) {
			return m.ID
		}
	}
	return ""
}
