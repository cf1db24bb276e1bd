package format

import (
	"strings"
	"testing"

	"github.com/Veenoway/the-council-tg/internal/event"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a < b && c > d", "a &lt; b &amp;&amp; c &gt; d"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
	}

	for _, tt := range tests {
		if got := EscapeHTML(tt.in); got != tt.want {
			t.Errorf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2_500_000, "$2.50M"},
		{125_000, "$125.0K"},
		{42.5, "$42.50"},
	}

	for _, tt := range tests {
		if got := usd(tt.in); got != tt.want {
			t.Errorf("usd(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewToken(t *testing.T) {
	tok := event.TokenData{
		Address:   "0x1",
		Symbol:    "MOON",
		Name:      "Moonshot",
		Price:     0.00000042,
		MCap:      125000,
		Liquidity: 30000,
		Holders:   87,
	}

	got := NewToken(tok)

	for _, want := range []string{
		"New Token: $MOON",
		"<b>Name:</b> Moonshot",
		"$0.00000042",
		"$125.0K",
		"$30.0K",
		"<code>0x1</code>",
		"dexscreener.com/monad/0x1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("NewToken output missing %q:\n%s", want, got)
		}
	}
}

func TestNewToken_MissingFields(t *testing.T) {
	got := NewToken(event.TokenData{})

	for _, want := range []string{"$???", "Unknown", "N/A"} {
		if !strings.Contains(got, want) {
			t.Errorf("NewToken output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<code>") {
		t.Errorf("NewToken without address should omit the CA line:\n%s", got)
	}
}

func TestTrade(t *testing.T) {
	got := Trade(event.Trade{
		BotID:       "chad",
		TxHash:      "0xabc",
		TokenSymbol: "MOON",
		AmountIn:    1.5,
		Side:        "buy",
	})

	for _, want := range []string{"📈 BUY", "James", "$MOON", "1.50 MON", "tx/0xabc"} {
		if !strings.Contains(got, want) {
			t.Errorf("Trade output missing %q:\n%s", want, got)
		}
	}
}

func TestTrade_Sell(t *testing.T) {
	got := Trade(event.Trade{BotID: "oracle", Side: "sell"})
	if !strings.Contains(got, "📉 SELL") {
		t.Errorf("Trade sell output missing SELL marker:\n%s", got)
	}
	if !strings.Contains(got, "Amount: ?") {
		t.Errorf("Trade with no amount should render ?:\n%s", got)
	}
}

func TestVerdict(t *testing.T) {
	got := Verdict(event.Verdict{
		Verdict:     "buy",
		TokenSymbol: "MOON",
		Opinions:    map[string]string{"chad": "buy", "sterling": "hold"},
	})

	for _, want := range []string{
		"✅ <b>COUNCIL VERDICT: BUY</b> — $MOON",
		"James: <b>BUY</b>",
		"Harpal: <b>HOLD</b>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Verdict output missing %q:\n%s", want, got)
		}
	}
}

func TestNamePrefixed(t *testing.T) {
	got := NamePrefixed("sensei", "hello group")
	if got != "<b>Portdev:</b> hello group" {
		t.Errorf("NamePrefixed = %q", got)
	}

	// Unknown member falls back to the raw ID.
	got = NamePrefixed("mystery", "hi")
	if got != "<b>mystery:</b> hi" {
		t.Errorf("NamePrefixed unknown = %q", got)
	}
}
