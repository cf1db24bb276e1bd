// streamtest connects to the Council WebSocket and prints decoded events to
// the console. Useful for checking connectivity and event rendering without
// touching Telegram.
//
// Usage: go run ./cmd/streamtest --url wss://council.example.com/ws
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Veenoway/the-council-tg/internal/event"
	"github.com/Veenoway/the-council-tg/internal/format"
	"github.com/Veenoway/the-council-tg/internal/stream"
)

func main() {
	url := flag.String("url", "", "council websocket url")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if *url == "" {
		logger.Error("missing --url")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	printer := &consolePrinter{verbose: *verbose}

	cfg := stream.DefaultConfig()
	cfg.URL = *url
	client := stream.NewClient(cfg, printer, logger)

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("stats",
					"state", client.State().String(),
					"events", printer.count.Load(),
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")
	client.Run(ctx)
	logger.Info("shutdown complete")
}

// consolePrinter renders events the way the relay would post them.
type consolePrinter struct {
	verbose bool
	count   atomic.Int64
}

func (p *consolePrinter) Handle(ctx context.Context, ev event.Event) {
	p.count.Add(1)

	if p.verbose {
		data, _ := json.MarshalIndent(ev, "", "  ")
		fmt.Printf("[EVENT] %s\n", data)
		return
	}

	switch e := ev.(type) {
	case event.ChatMessage:
		fmt.Printf("[CHAT] %s\n", format.NamePrefixed(e.BotID, e.Content))
	case event.NewToken:
		fmt.Printf("[TOKEN] %s\n", format.NewToken(e.Token))
	case event.Trade:
		fmt.Printf("[TRADE] %s\n", format.Trade(e))
	case event.Verdict:
		fmt.Printf("[VERDICT] %s\n", format.Verdict(e))
	}
}
