package config

import "time"

// RelayConfig is the root configuration for a relay instance.
type RelayConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Telegram TelegramConfig `yaml:"telegram"`
	Stream   StreamConfig   `yaml:"stream"`
	Backend  BackendConfig  `yaml:"backend"`
	Images   ImagesConfig   `yaml:"images"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this relay.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	APIURL        string        `yaml:"api_url"`   // Bot API base (override for tests)
	BotToken      string        `yaml:"bot_token"` // Main bot token
	ChatID        string        `yaml:"chat_id"`   // Target group chat
	SendSpacing   time.Duration `yaml:"send_spacing"`
	WarnQueueSize int           `yaml:"warn_queue_size"` // Backlog size that triggers a warning
	Timeout       time.Duration `yaml:"timeout"`
}

// StreamConfig holds Council WebSocket settings.
type StreamConfig struct {
	URL                string        `yaml:"url"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
}

// BackendConfig holds the Council backend used for user replies.
// An empty base URL disables the reply bridge.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ImagesConfig holds the token image provider endpoints.
type ImagesConfig struct {
	DexScreenerURL string        `yaml:"dexscreener_url"`
	NadFunURL      string        `yaml:"nadfun_url"`
	Chain          string        `yaml:"chain"`
	Timeout        time.Duration `yaml:"timeout"`
}

// DedupConfig holds deduplication windows.
type DedupConfig struct {
	TradeTTL   time.Duration `yaml:"trade_ttl"`
	MessageTTL time.Duration `yaml:"message_ttl"`
}

// BridgeConfig holds reply-bridge polling settings.
type BridgeConfig struct {
	PollTimeout    time.Duration `yaml:"poll_timeout"`   // getUpdates long-poll timeout
	PollInterval   time.Duration `yaml:"poll_interval"`  // pause between polls
	UserRateLimit  int           `yaml:"user_rate_limit"`
	UserRateWindow time.Duration `yaml:"user_rate_window"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
