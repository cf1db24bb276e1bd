package router

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veenoway/the-council-tg/internal/dedup"
	"github.com/Veenoway/the-council-tg/internal/event"
	"github.com/Veenoway/the-council-tg/internal/telegram"
)

// fakeQueue captures enqueued messages.
type fakeQueue struct {
	mu   sync.Mutex
	msgs []telegram.Message
}

func (q *fakeQueue) Enqueue(msg telegram.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}

func (q *fakeQueue) last() telegram.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.msgs[len(q.msgs)-1]
}

// fakeImages returns a fixed image URL.
type fakeImages struct {
	url string
}

func (f *fakeImages) Resolve(ctx context.Context, address, payloadImage string) string {
	return f.url
}

func newTestRouter(q *fakeQueue, img string, tradeTTL, msgTTL time.Duration) *Router {
	r := New(q, &fakeImages{url: img}, dedup.NewWindow(tradeTTL), dedup.NewWindow(msgTTL), nil)
	r.tokenFor = func(string) string { return "" }
	return r
}

func TestHandleChat_KnownMemberRelayed(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: "this chart looks strong"})

	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1", q.count())
	}
	// No dedicated token configured: posted via main bot with name prefix.
	msg := q.last()
	if msg.BotID != "" {
		t.Errorf("BotID = %q, want empty", msg.BotID)
	}
	if !strings.Contains(msg.Text, "James") {
		t.Errorf("Text = %q, want James prefix", msg.Text)
	}
}

func TestHandleChat_DedicatedBot(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)
	r.tokenFor = func(botID string) string {
		if botID == "chad" {
			return "chad:token"
		}
		return ""
	}

	r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: "gm"})

	msg := q.last()
	if msg.BotID != "chad" {
		t.Errorf("BotID = %q, want chad", msg.BotID)
	}
	if msg.Text != "gm" {
		t.Errorf("Text = %q, want raw content", msg.Text)
	}
}

func TestHandleChat_UnknownBotDropped(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	r.Handle(context.Background(), event.ChatMessage{BotID: "intruder", Content: "hello"})

	if q.count() != 0 {
		t.Errorf("messages = %d, want 0", q.count())
	}
}

func TestHandleChat_IgnoredPatterns(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	ignored := []string{
		"got 42 MOON",
		"Bought 100 tokens",
		"sold 3 at the top",
		"  Executing buy trade now",
		"Trade confirmed: 0xabc",
		"swapped 5 MON for MOON",
		"wanted in but insufficient balance",
		"insufficient balance for this one",
	}
	for _, content := range ignored {
		r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: content})
	}
	if q.count() != 0 {
		t.Errorf("messages = %d, want 0 (all ignored)", q.count())
	}

	r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: "I got a feeling about this one"})
	if q.count() != 1 {
		t.Errorf("messages = %d, want 1 (mid-sentence 'got' is not noise)", q.count())
	}
}

func TestHandleChat_Dedup(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, 50*time.Millisecond)

	msg := event.ChatMessage{BotID: "chad", Content: "same thing"}
	r.Handle(context.Background(), msg)
	r.Handle(context.Background(), msg)
	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1 (duplicate suppressed)", q.count())
	}

	// Same content from a different member is not a duplicate.
	r.Handle(context.Background(), event.ChatMessage{BotID: "quantum", Content: "same thing"})
	if q.count() != 2 {
		t.Fatalf("messages = %d, want 2 (domains keyed per sender)", q.count())
	}

	// After the TTL the same message goes through again.
	time.Sleep(60 * time.Millisecond)
	r.Handle(context.Background(), msg)
	if q.count() != 3 {
		t.Errorf("messages = %d, want 3 (window expired)", q.count())
	}
}

func TestHandleChat_DedupPrefix(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	prefix := strings.Repeat("a", 80)
	r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: prefix + " tail one"})
	r.Handle(context.Background(), event.ChatMessage{BotID: "chad", Content: prefix + " tail two"})

	if q.count() != 1 {
		t.Errorf("messages = %d, want 1 (first 80 chars identical)", q.count())
	}
}

func TestHandleTrade(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", 50*time.Millisecond, time.Minute)

	trade := event.Trade{BotID: "chad", TxHash: "0xabc", TokenSymbol: "MOON", AmountIn: 1.5, Side: "buy"}

	r.Handle(context.Background(), trade)
	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1", q.count())
	}

	msg := q.last()
	if !strings.Contains(msg.Text, "James") || !strings.Contains(msg.Text, "1.50") {
		t.Errorf("trade text = %q, want display name and amount", msg.Text)
	}
	// Trades go out under the default identity.
	if msg.BotID != "" {
		t.Errorf("BotID = %q, want empty", msg.BotID)
	}

	// Same tx within the window is suppressed.
	r.Handle(context.Background(), trade)
	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1 (duplicate tx)", q.count())
	}

	// After the window it is relayed again.
	time.Sleep(60 * time.Millisecond)
	r.Handle(context.Background(), trade)
	if q.count() != 2 {
		t.Errorf("messages = %d, want 2", q.count())
	}
}

func TestHandleTrade_Rejections(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	r.Handle(context.Background(), event.Trade{BotID: "nobody", TxHash: "0x1"})
	r.Handle(context.Background(), event.Trade{BotID: "chad", TxHash: ""})

	if q.count() != 0 {
		t.Errorf("messages = %d, want 0", q.count())
	}
}

func TestHandleNewToken_Gate(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "https://img/1.png", time.Minute, time.Minute)

	a := event.NewToken{Token: event.TokenData{Address: "0x1", Symbol: "MOON"}}
	r.Handle(context.Background(), a)
	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1", q.count())
	}
	if q.last().ImageURL != "https://img/1.png" {
		t.Errorf("ImageURL = %q, want resolved image", q.last().ImageURL)
	}

	// Same token announced again: no dispatch.
	r.Handle(context.Background(), a)
	if q.count() != 1 {
		t.Fatalf("messages = %d, want 1 (same token)", q.count())
	}

	// A different token goes through.
	b := event.NewToken{Token: event.TokenData{Address: "0x2", Symbol: "DOG"}}
	r.Handle(context.Background(), b)
	if q.count() != 2 {
		t.Fatalf("messages = %d, want 2", q.count())
	}

	// And the first one again is a new announcement.
	r.Handle(context.Background(), a)
	if q.count() != 3 {
		t.Errorf("messages = %d, want 3", q.count())
	}
}

func TestHandleNewToken_NoImage(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	r.Handle(context.Background(), event.NewToken{Token: event.TokenData{Address: "0x1", Symbol: "MOON"}})

	msg := q.last()
	if msg.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty (text-only)", msg.ImageURL)
	}
	if !strings.Contains(msg.Text, "MOON") {
		t.Errorf("Text = %q, want token announcement", msg.Text)
	}
}

func TestHandleVerdict_AlwaysDispatched(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q, "", time.Minute, time.Minute)

	v := event.Verdict{Verdict: "buy", TokenSymbol: "MOON"}
	r.Handle(context.Background(), v)
	r.Handle(context.Background(), v)

	// Verdicts are never filtered or deduplicated.
	if q.count() != 2 {
		t.Errorf("messages = %d, want 2", q.count())
	}
}
