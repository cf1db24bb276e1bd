// Package format renders Council events as Telegram HTML messages.
// Formatting is best effort: absent fields render as "N/A" or are omitted,
// never cause an error.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veenoway/the-council-tg/internal/bots"
	"github.com/Veenoway/the-council-tg/internal/event"
)

// EscapeHTML escapes the characters Telegram's HTML parse mode requires.
func EscapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// usd renders a dollar amount with K/M suffixes.
func usd(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("$%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("$%.1fK", n/1_000)
	default:
		return fmt.Sprintf("$%.2f", n)
	}
}

// NewToken renders a new-token announcement.
func NewToken(tok event.TokenData) string {
	symbol := tok.Symbol
	if symbol == "" {
		symbol = "???"
	}
	name := tok.Name
	if name == "" {
		name = "Unknown"
	}

	price := "N/A"
	if tok.Price != 0 {
		price = fmt.Sprintf("$%.8f", tok.Price)
	}
	if tok.HasChange24h {
		arrow := "🟢"
		if tok.PriceChange24h < 0 {
			arrow = "🔴"
		}
		price += fmt.Sprintf(" %s %.1f%%", arrow, tok.PriceChange24h)
	}

	mcap := "N/A"
	if tok.MCap != 0 {
		mcap = usd(tok.MCap)
	}
	liq := "N/A"
	if tok.Liquidity != 0 {
		liq = usd(tok.Liquidity)
	}
	holders := "N/A"
	if tok.Holders != 0 {
		holders = fmt.Sprintf("%d", tok.Holders)
	}

	lines := []string{
		fmt.Sprintf("🔍 <b>New Token: $%s</b>", EscapeHTML(symbol)),
		"━━━━━━━━━━━━━━━━━━",
		fmt.Sprintf("<b>Name:</b> %s", EscapeHTML(name)),
		fmt.Sprintf("<b>Price:</b> %s", price),
		fmt.Sprintf("<b>MCap:</b> %s", mcap),
		fmt.Sprintf("<b>Liquidity:</b> %s", liq),
		fmt.Sprintf("<b>Holders:</b> %s", holders),
	}

	if tok.Address != "" {
		lines = append(lines,
			fmt.Sprintf("<b>CA:</b> <code>%s</code>", tok.Address),
			"",
			fmt.Sprintf(`📈 <a href="https://dexscreener.com/monad/%s">DexScreener</a> · <a href="https://nad.fun/tokens/%s">NadFun</a>`, tok.Address, tok.Address),
		)
	}
	lines = append(lines, "⏳ <i>The Council is now analyzing this token...</i>")

	return strings.Join(lines, "\n")
}

// Trade renders a trade execution.
func Trade(tr event.Trade) string {
	symbol := tr.TokenSymbol
	if symbol == "" {
		symbol = "???"
	}

	amount := "?"
	if tr.AmountIn != 0 {
		amount = fmt.Sprintf("%.2f MON", tr.AmountIn)
	}

	side := "📈 BUY"
	if tr.Side == "sell" {
		side = "📉 SELL"
	}

	lines := []string{
		fmt.Sprintf("%s — <b>%s</b>", side, bots.Name(tr.BotID)),
		fmt.Sprintf("Token: <b>$%s</b>", EscapeHTML(symbol)),
		fmt.Sprintf("Amount: %s", amount),
	}

	if tr.TxHash != "" {
		lines = append(lines, fmt.Sprintf(`🔗 <a href="https://monad.socialscan.io/tx/%s">View TX</a>`, tr.TxHash))
	}

	return strings.Join(lines, "\n")
}

// Verdict renders the council's final vote, including individual opinions
// in a stable order.
func Verdict(v event.Verdict) string {
	verdict := strings.ToUpper(v.Verdict)
	if verdict == "" {
		verdict = "UNKNOWN"
	}

	emoji := "❌"
	if verdict == "BUY" {
		emoji = "✅"
	}

	symbol := v.TokenSymbol
	if symbol == "" {
		symbol = "???"
	}

	lines := []string{
		"",
		fmt.Sprintf("%s <b>COUNCIL VERDICT: %s</b> — $%s", emoji, verdict, EscapeHTML(symbol)),
		"━━━━━━━━━━━━━━━━━━",
	}

	ids := make([]string, 0, len(v.Opinions))
	for id := range v.Opinions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("%s: <b>%s</b>", bots.Name(id), strings.ToUpper(v.Opinions[id])))
	}

	return strings.Join(lines, "\n")
}

// NamePrefixed renders a chat message attributed to a member that has no
// dedicated Telegram bot, posted through the main bot.
func NamePrefixed(botID, content string) string {
	return fmt.Sprintf("<b>%s:</b> %s", bots.Name(botID), content)
}
