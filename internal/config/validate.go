package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *RelayConfig) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	if c.Telegram.SendSpacing < 0 {
		return errors.New("telegram.send_spacing must be >= 0")
	}

	if c.Stream.URL == "" {
		return errors.New("stream.url is required")
	}
	if c.Stream.ReconnectBaseDelay <= 0 {
		return errors.New("stream.reconnect_base_delay must be > 0")
	}
	if c.Stream.ReconnectMaxDelay < c.Stream.ReconnectBaseDelay {
		return errors.New("stream.reconnect_max_delay must be >= stream.reconnect_base_delay")
	}

	if c.Dedup.TradeTTL <= 0 {
		return errors.New("dedup.trade_ttl must be > 0")
	}
	if c.Dedup.MessageTTL <= 0 {
		return errors.New("dedup.message_ttl must be > 0")
	}

	if c.Bridge.UserRateLimit < 1 {
		return errors.New("bridge.user_rate_limit must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}
