package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veenoway/the-council-tg/internal/bridge"
	"github.com/Veenoway/the-council-tg/internal/config"
	"github.com/Veenoway/the-council-tg/internal/dedup"
	"github.com/Veenoway/the-council-tg/internal/images"
	"github.com/Veenoway/the-council-tg/internal/metrics"
	"github.com/Veenoway/the-council-tg/internal/router"
	"github.com/Veenoway/the-council-tg/internal/stream"
	"github.com/Veenoway/the-council-tg/internal/telegram"
	"github.com/Veenoway/the-council-tg/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/relay.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"stream_url", cfg.Stream.URL,
		"chat_id", cfg.Telegram.ChatID,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Telegram client and dispatch queue
	tgClient := telegram.NewClient(
		cfg.Telegram.APIURL,
		cfg.Telegram.ChatID,
		telegram.WithLogger(logger),
		telegram.WithTimeout(cfg.Telegram.Timeout),
	)

	queue := telegram.NewQueue(telegram.QueueConfig{
		MainToken:   cfg.Telegram.BotToken,
		SendSpacing: cfg.Telegram.SendSpacing,
		WarnSize:    cfg.Telegram.WarnQueueSize,
		SendTimeout: cfg.Telegram.Timeout,
	}, tgClient, logger)

	// Token image resolution
	resolver := images.NewResolver(images.Config{
		DexScreenerURL: cfg.Images.DexScreenerURL,
		NadFunURL:      cfg.Images.NadFunURL,
		Chain:          cfg.Images.Chain,
		Timeout:        cfg.Images.Timeout,
	}, logger)

	// Event routing with per-kind dedup windows
	tradeSeen := dedup.NewWindow(cfg.Dedup.TradeTTL)
	msgSeen := dedup.NewWindow(cfg.Dedup.MessageTTL)
	rtr := router.New(queue, resolver, tradeSeen, msgSeen, logger)

	// Council event stream
	streamClient := stream.NewClient(stream.Config{
		URL:                cfg.Stream.URL,
		ReconnectBaseDelay: cfg.Stream.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Stream.ReconnectMaxDelay,
		HandshakeTimeout:   cfg.Stream.HandshakeTimeout,
	}, rtr, logger)

	// Metrics and health server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status string `json:"status"`
			Stream string `json:"stream"`
		}{
			Status: "healthy",
			Stream: streamClient.State().String(),
		}
		if streamClient.State() != stream.Connected {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Reply bridge (optional)
	if cfg.Backend.BaseURL != "" {
		backend := bridge.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
		br := bridge.New(backend, queue, logger)
		limiter := bridge.NewLimiter(cfg.Bridge.UserRateLimit, cfg.Bridge.UserRateWindow)
		poller := bridge.NewPoller(bridge.PollerConfig{
			APIURL:       cfg.Telegram.APIURL,
			BotToken:     cfg.Telegram.BotToken,
			ChatID:       cfg.Telegram.ChatID,
			PollTimeout:  cfg.Bridge.PollTimeout,
			PollInterval: cfg.Bridge.PollInterval,
		}, br, limiter, logger)

		go poller.Run(ctx)
		logger.Info("reply bridge started", "backend_url", cfg.Backend.BaseURL)
	} else {
		logger.Info("reply bridge disabled: no backend url configured")
	}

	// Announce the relay before events start flowing
	queue.Enqueue(telegram.NewMessage("🏛️ <b>The Council is now live!</b> Watching the debate...", "", ""))

	go streamClient.Run(ctx)

	logger.Info("relay running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/healthz", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	metricsServer.Shutdown(shutdownCtx)

	logger.Info("relay stopped")
}
