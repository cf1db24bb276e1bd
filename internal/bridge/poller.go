package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Veenoway/the-council-tg/internal/metrics"
)

// PollerConfig holds getUpdates polling settings.
type PollerConfig struct {
	APIURL       string        // Bot API base
	BotToken     string        // main bot token
	ChatID       string        // only messages from this chat are processed
	PollTimeout  time.Duration // long-poll timeout passed to getUpdates
	PollInterval time.Duration // pause between polls
}

// Poller long-polls Telegram for user messages in the group and hands them
// to the Bridge.
type Poller struct {
	cfg        PollerConfig
	bridge     *Bridge
	limiter    *Limiter
	httpClient *http.Client
	logger     *slog.Logger

	lastUpdateID int64
}

// NewPoller creates a Poller.
func NewPoller(cfg PollerConfig, bridge *Bridge, limiter *Limiter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		bridge:  bridge,
		limiter: limiter,
		// The HTTP timeout must outlast the long-poll window.
		httpClient: &http.Client{Timeout: cfg.PollTimeout + 10*time.Second},
		logger:     logger,
	}
}

// Wire types for the getUpdates response.

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	Text    string `json:"text"`
	Chat    chat   `json:"chat"`
	From    *user  `json:"from"`
	ReplyTo *struct {
		From *user `json:"from"`
	} `json:"reply_to_message"`
}

type chat struct {
	ID int64 `json:"id"`
}

type user struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Run polls until ctx is canceled. Poll errors are logged and the loop
// continues; like the stream, polling is never fatal.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("starting telegram polling", "chat_id", p.cfg.ChatID)

	for {
		if err := p.poll(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.cfg.PollInterval):
		}
	}
}

// poll performs one getUpdates call and processes the batch.
func (p *Poller) poll(ctx context.Context) error {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(p.lastUpdateID+1, 10))
	query.Set("timeout", strconv.Itoa(int(p.cfg.PollTimeout/time.Second)))
	query.Set("allowed_updates", `["message"]`)

	reqURL := fmt.Sprintf("%s/bot%s/getUpdates?%s", p.cfg.APIURL, p.cfg.BotToken, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create getUpdates request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do getUpdates request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read getUpdates response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("getUpdates returned %d", resp.StatusCode)
	}

	var updates updatesResponse
	if err := json.Unmarshal(body, &updates); err != nil {
		return fmt.Errorf("unmarshal getUpdates response: %w", err)
	}
	if !updates.OK {
		return fmt.Errorf("getUpdates not ok")
	}

	for _, u := range updates.Result {
		p.lastUpdateID = u.UpdateID
		p.handleUpdate(ctx, u)
	}

	return nil
}

// handleUpdate filters and forwards one update.
func (p *Poller) handleUpdate(ctx context.Context, u update) {
	msg := u.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}

	// Only messages from our group, and never from our own bots.
	if strconv.FormatInt(msg.Chat.ID, 10) != p.cfg.ChatID {
		return
	}
	if msg.From.IsBot {
		return
	}

	username := msg.From.FirstName
	if username == "" {
		username = msg.From.Username
	}
	if username == "" {
		username = "anon"
	}

	if !p.limiter.Allow(msg.From.ID) {
		p.logger.Info("user rate limited", "username", username)
		metrics.BridgeForwards.WithLabelValues("rate_limited").Inc()
		return
	}

	replyToUsername := ""
	replyToIsBot := false
	if msg.ReplyTo != nil && msg.ReplyTo.From != nil {
		replyToUsername = msg.ReplyTo.From.Username
		replyToIsBot = msg.ReplyTo.From.IsBot
	}
	target := ResolveTarget(msg.Text, replyToUsername, replyToIsBot)

	p.logger.Debug("forwarding user message",
		"username", username,
		"target", target,
	)
	p.bridge.HandleInbound(ctx, msg.Text, username, target)
}
