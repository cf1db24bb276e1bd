package config

import "time"

// Default values for optional configuration fields.
//
// Send spacing and dedup TTLs encode assumptions about Telegram's group
// rate limits (~20 msg/min) and the Council's event replay behavior. They
// are configurable rather than hard-coded for that reason.
const (
	DefaultTelegramAPIURL     = "https://api.telegram.org"
	DefaultSendSpacing        = 400 * time.Millisecond
	DefaultWarnQueueSize      = 200
	DefaultTelegramTimeout    = 30 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 30 * time.Second
	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultBackendTimeout     = 30 * time.Second
	DefaultDexScreenerURL     = "https://api.dexscreener.com"
	DefaultNadFunURL          = "https://api.nadapp.net"
	DefaultChain              = "monad"
	DefaultImagesTimeout      = 10 * time.Second
	DefaultTradeTTL           = 60 * time.Second
	DefaultMessageTTL         = 30 * time.Second
	DefaultPollTimeout        = 30 * time.Second
	DefaultPollInterval       = 500 * time.Millisecond
	DefaultUserRateLimit      = 3
	DefaultUserRateWindow     = time.Minute
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
)

func (c *RelayConfig) applyDefaults() {
	// Telegram defaults
	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = DefaultTelegramAPIURL
	}
	if c.Telegram.SendSpacing == 0 {
		c.Telegram.SendSpacing = DefaultSendSpacing
	}
	if c.Telegram.WarnQueueSize == 0 {
		c.Telegram.WarnQueueSize = DefaultWarnQueueSize
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = DefaultTelegramTimeout
	}

	// Stream defaults
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Backend defaults
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = DefaultBackendTimeout
	}

	// Images defaults
	if c.Images.DexScreenerURL == "" {
		c.Images.DexScreenerURL = DefaultDexScreenerURL
	}
	if c.Images.NadFunURL == "" {
		c.Images.NadFunURL = DefaultNadFunURL
	}
	if c.Images.Chain == "" {
		c.Images.Chain = DefaultChain
	}
	if c.Images.Timeout == 0 {
		c.Images.Timeout = DefaultImagesTimeout
	}

	// Dedup defaults
	if c.Dedup.TradeTTL == 0 {
		c.Dedup.TradeTTL = DefaultTradeTTL
	}
	if c.Dedup.MessageTTL == 0 {
		c.Dedup.MessageTTL = DefaultMessageTTL
	}

	// Bridge defaults
	if c.Bridge.PollTimeout == 0 {
		c.Bridge.PollTimeout = DefaultPollTimeout
	}
	if c.Bridge.PollInterval == 0 {
		c.Bridge.PollInterval = DefaultPollInterval
	}
	if c.Bridge.UserRateLimit == 0 {
		c.Bridge.UserRateLimit = DefaultUserRateLimit
	}
	if c.Bridge.UserRateWindow == 0 {
		c.Bridge.UserRateWindow = DefaultUserRateWindow
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
