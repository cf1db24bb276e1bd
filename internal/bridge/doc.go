// Package bridge carries user messages from the Telegram group back to the
// Council backend and posts the chosen member's reply to the group.
//
// The bridge:
//   - Long-polls getUpdates for user messages in the group
//   - Rate limits users with an in-memory sliding window
//   - Resolves which member a message targets (mention, then reply-to,
//     then leaves it to the backend)
//   - Forwards to the backend and submits the response to the dispatch
//     queue under the resolved identity
//
// A message that fails to produce a backend response simply receives no
// reply; nothing is posted to the group.
package bridge
