// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Stream connection state and reconnect counts
//   - Event throughput by kind and drop reason
//   - Dispatch queue depth and send outcomes
//   - Reply bridge forwarding rates
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StreamConnected is 1 while the Council WebSocket is connected.
	StreamConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_stream_connected",
		Help: "1 if the Council WebSocket is currently connected",
	})

	// StreamReconnects counts reconnection attempts.
	StreamReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_stream_reconnects_total",
		Help: "Total number of WebSocket reconnection attempts",
	})

	// EventsReceived counts decoded events by kind.
	EventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_events_received_total",
		Help: "Total decoded stream events",
	}, []string{"kind"}) // kind = "chat", "new_token", "trade", "verdict"

	// EventsDropped counts events dropped before dispatch, by reason.
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_events_dropped_total",
		Help: "Total events dropped before dispatch",
	}, []string{"reason"}) // reason = "malformed", "unknown_bot", "ignored", "duplicate", "same_token", "no_tx_hash"

	// QueueDepth tracks the number of pending outbound messages.
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_queue_depth",
		Help: "Current number of pending outbound Telegram messages",
	})

	// SendsTotal counts Telegram sends by outcome.
	SendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_sends_total",
		Help: "Total Telegram send attempts",
	}, []string{"outcome"}) // outcome = "ok", "error", "photo_fallback"

	// BridgeForwards counts user messages forwarded to the backend by outcome.
	BridgeForwards = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_bridge_forwards_total",
		Help: "Total user messages forwarded to the Council backend",
	}, []string{"outcome"}) // outcome = "ok", "error", "rate_limited"
)

func init() {
	prometheus.MustRegister(
		StreamConnected,
		StreamReconnects,
		EventsReceived,
		EventsDropped,
		QueueDepth,
		SendsTotal,
		BridgeForwards,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
