// Package telegram implements the outbound dispatch path.
//
// The dispatch path:
//   - Client wraps the Telegram Bot API (sendMessage / sendPhoto)
//   - Queue serializes outbound messages through a single drain worker
//   - Sends are spaced a fixed interval apart (Telegram allows ~20 msg/min
//     in groups) and preserved in strict enqueue order
//   - Send failures are logged and the message discarded, never retried
package telegram
