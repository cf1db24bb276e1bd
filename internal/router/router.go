// Package router classifies decoded Council events, filters noise and
// duplicates, and submits formatted messages to the dispatch queue.
package router

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veenoway/the-council-tg/internal/bots"
	"github.com/Veenoway/the-council-tg/internal/dedup"
	"github.com/Veenoway/the-council-tg/internal/event"
	"github.com/Veenoway/the-council-tg/internal/format"
	"github.com/Veenoway/the-council-tg/internal/images"
	"github.com/Veenoway/the-council-tg/internal/metrics"
	"github.com/Veenoway/the-council-tg/internal/telegram"
)

// dedupPrefixLen is how much of a chat message participates in its dedup key.
const dedupPrefixLen = 80

// ignoredPatterns matches automated trade-execution chatter that would spam
// the group. Matched messages are dropped before dedup.
var ignoredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^got \d+`),
	regexp.MustCompile(`(?i)^bought \d+`),
	regexp.MustCompile(`(?i)^sold \d+`),
	regexp.MustCompile(`(?i)wanted in but insufficient`),
	regexp.MustCompile(`(?i)^insufficient balance`),
	regexp.MustCompile(`(?i)^executing .* trade`),
	regexp.MustCompile(`(?i)^trade confirmed`),
	regexp.MustCompile(`(?i)^swapped \d+`),
}

// Dispatcher accepts outbound messages. *telegram.Queue implements it.
type Dispatcher interface {
	Enqueue(msg telegram.Message)
}

// ImageResolver resolves a token image. *images.Resolver implements it.
type ImageResolver interface {
	Resolve(ctx context.Context, address, payloadImage string) string
}

// Router dispatches events by kind. Handle has side effects only; every
// outcome is either a queued message or a logged drop.
type Router struct {
	queue  Dispatcher
	images ImageResolver
	logger *slog.Logger

	tradeSeen *dedup.Window // keyed by tx hash
	msgSeen   *dedup.Window // keyed by bot ID + content prefix

	// tokenFor resolves a member's dedicated bot token ("" = none).
	tokenFor func(botID string) string

	// Last announced token, to suppress re-announcement of the same one.
	currentToken string
	haveToken    bool
}

// New creates a Router. The two dedup windows must be independent instances.
func New(queue Dispatcher, imgs ImageResolver, tradeSeen, msgSeen *dedup.Window, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		queue:     queue,
		images:    imgs,
		logger:    logger,
		tradeSeen: tradeSeen,
		msgSeen:   msgSeen,
		tokenFor:  bots.Token,
	}
}

var _ ImageResolver = (*images.Resolver)(nil)

// Handle routes one decoded event.
func (r *Router) Handle(ctx context.Context, ev event.Event) {
	switch e := ev.(type) {
	case event.ChatMessage:
		metrics.EventsReceived.WithLabelValues("chat").Inc()
		r.handleChat(e)
	case event.NewToken:
		metrics.EventsReceived.WithLabelValues("new_token").Inc()
		r.handleNewToken(ctx, e)
	case event.Trade:
		metrics.EventsReceived.WithLabelValues("trade").Inc()
		r.handleTrade(e)
	case event.Verdict:
		metrics.EventsReceived.WithLabelValues("verdict").Inc()
		r.queue.Enqueue(telegram.NewMessage(format.Verdict(e), "", ""))
	}
}

// handleChat relays a member's discussion message, posting as that member's
// own bot when one exists.
func (r *Router) handleChat(e event.ChatMessage) {
	if !bots.IsMember(e.BotID) {
		r.drop("unknown_bot", "bot_id", e.BotID)
		return
	}
	if isIgnored(e.Content) {
		r.drop("ignored", "bot_id", e.BotID)
		return
	}
	if r.msgSeen.Seen(messageKey(e.BotID, e.Content)) {
		r.drop("duplicate", "bot_id", e.BotID)
		return
	}

	if r.tokenFor(e.BotID) != "" {
		r.queue.Enqueue(telegram.NewMessage(e.Content, "", e.BotID))
	} else {
		r.queue.Enqueue(telegram.NewMessage(format.NamePrefixed(e.BotID, e.Content), "", ""))
	}
}

// handleNewToken announces a token entering analysis, at most once per
// distinct address.
func (r *Router) handleNewToken(ctx context.Context, e event.NewToken) {
	if r.haveToken && e.Token.Address == r.currentToken {
		r.drop("same_token", "address", e.Token.Address)
		return
	}
	r.currentToken = e.Token.Address
	r.haveToken = true

	text := format.NewToken(e.Token)
	img := r.images.Resolve(ctx, e.Token.Address, e.Token.Image)
	if img == "" {
		r.logger.Info("no token image found, sending text only", "address", e.Token.Address)
	}

	r.queue.Enqueue(telegram.NewMessage(text, img, ""))
}

// handleTrade relays a member's trade once per transaction.
func (r *Router) handleTrade(e event.Trade) {
	if !bots.IsMember(e.BotID) {
		r.drop("unknown_bot", "bot_id", e.BotID)
		return
	}
	if e.TxHash == "" {
		r.drop("no_tx_hash", "bot_id", e.BotID)
		return
	}
	if r.tradeSeen.Seen(e.TxHash) {
		r.drop("duplicate", "tx_hash", e.TxHash)
		return
	}

	r.queue.Enqueue(telegram.NewMessage(format.Trade(e), "", ""))
}

// drop records a filtered event.
func (r *Router) drop(reason string, args ...any) {
	metrics.EventsDropped.WithLabelValues(reason).Inc()
	r.logger.Debug("event dropped", append([]any{"reason", reason}, args...)...)
}

// isIgnored reports whether content matches the noise patterns.
func isIgnored(content string) bool {
	trimmed := strings.TrimSpace(content)
	for _, re := range ignoredPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// messageKey builds the dedup key for a chat message: the sender plus the
// first 80 characters of content.
func messageKey(botID, content string) string {
	runes := []rune(content)
	if len(runes) > dedupPrefixLen {
		runes = runes[:dedupPrefixLen]
	}
	return botID + ":" + string(runes)
}
