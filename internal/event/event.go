// Package event decodes raw Council stream payloads into typed events.
//
// The stream carries JSON text frames with a "type" field. Payload shapes
// vary between stream versions (fields at the top level or nested under
// "data"/"token"/"trade"), so decoding probes the known shapes and treats
// missing fields as absence. Malformed or unrecognized frames decode to
// (nil, false) and are dropped, never surfaced as errors.
package event

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Event is a decoded Council stream event. The set of implementations is
// closed: ChatMessage, NewToken, Trade, Verdict.
type Event interface {
	isEvent()
}

// ChatMessage is a council member speaking in the discussion.
type ChatMessage struct {
	BotID   string
	Content string
}

// TokenData describes a token under council analysis. Zero values mean the
// field was absent on the wire.
type TokenData struct {
	Address        string
	Symbol         string
	Name           string
	Image          string
	Price          float64
	MCap           float64
	Liquidity      float64
	PriceChange24h float64
	HasChange24h   bool
	Holders        int64
}

// NewToken announces a token entering council analysis.
type NewToken struct {
	Token TokenData
}

// Trade is a council member executing a trade.
type Trade struct {
	BotID       string
	TxHash      string
	TokenSymbol string
	Side        string // "buy" or "sell"
	AmountIn    float64
}

// Verdict is the council's final vote on a token.
type Verdict struct {
	Verdict     string
	TokenSymbol string
	Opinions    map[string]string // bot ID → opinion
}

func (ChatMessage) isEvent() {}
func (NewToken) isEvent()    {}
func (Trade) isEvent()       {}
func (Verdict) isEvent()     {}

// envelope is the common frame shape used to pick the event kind before
// per-kind decoding.
type envelope struct {
	Type    string          `json:"type"`
	BotID   string          `json:"botId"`
	Content string          `json:"content"`
	Data    json.RawMessage `json:"data"`
	Token   json.RawMessage `json:"token"`
	Trade   json.RawMessage `json:"trade"`

	// Verdict frames sometimes carry their payload at the top level.
	Verdict     string            `json:"verdict"`
	TokenSymbol string            `json:"tokenSymbol"`
	Symbol      string            `json:"symbol"`
	Opinions    map[string]string `json:"opinions"`
	Votes       map[string]string `json:"votes"`
}

// Decode parses a raw stream frame. It returns (nil, false) for malformed
// payloads and unrecognized types.
func Decode(data []byte) (Event, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}

	switch env.Type {
	case "message", "chat":
		return decodeChat(&env)
	case "new_token", "token":
		return decodeNewToken(&env)
	case "trade":
		return decodeTrade(&env)
	case "verdict", "vote_result":
		return decodeVerdict(&env, data)
	default:
		return nil, false
	}
}

// chatData is the nested payload shape for chat frames.
type chatData struct {
	BotID   string `json:"botId"`
	Content string `json:"content"`
	Message string `json:"message"`
}

func decodeChat(env *envelope) (Event, bool) {
	msg := ChatMessage{BotID: env.BotID, Content: env.Content}

	if env.Data != nil {
		var d chatData
		if err := json.Unmarshal(env.Data, &d); err == nil {
			if msg.BotID == "" {
				msg.BotID = d.BotID
			}
			if msg.Content == "" {
				msg.Content = d.Content
			}
			if msg.Content == "" {
				msg.Content = d.Message
			}
		}
	}

	if msg.BotID == "" || msg.Content == "" {
		return nil, false
	}
	return msg, true
}

// tokenWire is the wire shape for token payloads.
type tokenWire struct {
	Address        string      `json:"address"`
	Symbol         string      `json:"symbol"`
	Name           string      `json:"name"`
	Image          string      `json:"image"`
	Price          flexNumber  `json:"price"`
	MCap           flexNumber  `json:"mcap"`
	Liquidity      flexNumber  `json:"liquidity"`
	PriceChange24h *flexNumber `json:"priceChange24h"`
	Holders        flexNumber  `json:"holders"`
}

func decodeNewToken(env *envelope) (Event, bool) {
	raw := env.Token
	if raw == nil {
		raw = env.Data
	}
	if raw == nil {
		return nil, false
	}

	var w tokenWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, false
	}

	tok := TokenData{
		Address:   w.Address,
		Symbol:    w.Symbol,
		Name:      w.Name,
		Image:     w.Image,
		Price:     float64(w.Price),
		MCap:      float64(w.MCap),
		Liquidity: float64(w.Liquidity),
		Holders:   int64(w.Holders),
	}
	if w.PriceChange24h != nil {
		tok.PriceChange24h = float64(*w.PriceChange24h)
		tok.HasChange24h = true
	}
	return NewToken{Token: tok}, true
}

// tradeWire is the wire shape for trade payloads.
type tradeWire struct {
	BotID       string     `json:"botId"`
	TxHash      string     `json:"txHash"`
	TokenSymbol string     `json:"tokenSymbol"`
	Side        string     `json:"side"`
	AmountIn    flexNumber `json:"amountIn"`
}

func decodeTrade(env *envelope) (Event, bool) {
	raw := env.Trade
	if raw == nil {
		raw = env.Data
	}
	if raw == nil {
		return nil, false
	}

	var w tradeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, false
	}

	return Trade{
		BotID:       w.BotID,
		TxHash:      w.TxHash,
		TokenSymbol: w.TokenSymbol,
		Side:        w.Side,
		AmountIn:    float64(w.AmountIn),
	}, true
}

// verdictWire is the nested payload shape for verdict frames.
type verdictWire struct {
	Verdict     string            `json:"verdict"`
	TokenSymbol string            `json:"tokenSymbol"`
	Symbol      string            `json:"symbol"`
	Token       struct {
		Symbol string `json:"symbol"`
	} `json:"token"`
	Opinions map[string]string `json:"opinions"`
	Votes    map[string]string `json:"votes"`
}

func decodeVerdict(env *envelope, data []byte) (Event, bool) {
	var w verdictWire
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, false
		}
	} else {
		// Payload at the top level of the frame.
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, false
		}
	}

	v := Verdict{Verdict: w.Verdict}
	if v.Verdict == "" {
		v.Verdict = "unknown"
	}

	switch {
	case w.Token.Symbol != "":
		v.TokenSymbol = w.Token.Symbol
	case w.TokenSymbol != "":
		v.TokenSymbol = w.TokenSymbol
	default:
		v.TokenSymbol = w.Symbol
	}

	v.Opinions = w.Opinions
	if v.Opinions == nil {
		v.Opinions = w.Votes
	}

	return v, true
}

// flexNumber decodes JSON numbers that some stream versions emit as strings.
// Unparseable or absent values decode to zero.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(n)
	return nil
}
