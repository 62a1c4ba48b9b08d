// streamtest connects to the quote streamer and prints decoded tickers to console.
// Usage: go run ./cmd/streamtest --tickers AAPL,MSFT,BTC-USD
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Anish565/Cloud-Final-Project/internal/connection"
	"github.com/Anish565/Cloud-Final-Project/internal/model"
	"github.com/Anish565/Cloud-Final-Project/internal/schema"
	"github.com/Anish565/Cloud-Final-Project/internal/ticker"
)

// consoleSink prints every ticker it receives.
type consoleSink struct {
	verbose bool
}

func (c consoleSink) Send(_ context.Context, msg model.TickerMessage) error {
	if c.verbose {
		data, err := sonic.ConfigStd.MarshalIndent(msg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("[TICKER] %s\n", data)
		return nil
	}
	fmt.Printf("[TICKER] symbol=%s price=%s high=%s low=%s vol=%d time=%s\n",
		msg.Symbol, msg.Price, msg.DayHigh, msg.DayLow, msg.DayVolume, msg.Time().Format(time.RFC3339))
	return nil
}

func main() {
	url := flag.String("url", connection.DefaultClientConfig().URL, "streamer websocket url")
	tickers := flag.String("tickers", "AAPL,MSFT,BTC-USD", "comma separated symbols")
	schemaPath := flag.String("schema", "", "text-format schema file (default: embedded)")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	registry := schema.NewRegistry()
	var err error
	if *schemaPath != "" {
		err = registry.Load(*schemaPath)
	} else {
		err = registry.LoadDefault()
	}
	if err != nil {
		logger.Error("failed to load schema", "error", err)
		os.Exit(1)
	}

	clientCfg := connection.DefaultClientConfig()
	clientCfg.URL = *url

	feed := connection.NewFeed(
		connection.DefaultFeedConfig(),
		connection.NewDialer(clientCfg, logger),
		ticker.NewDecoder(registry),
		consoleSink{verbose: *verbose},
		nil,
		logger,
	)

	var subs []string
	for _, s := range strings.Split(*tickers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			subs = append(subs, s)
		}
	}

	if err := feed.Start(ctx, subs); err != nil {
		logger.Error("failed to start feed", "error", err)
		os.Exit(1)
	}

	go func() {
		t := time.NewTicker(10 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s := feed.Stats()
				logger.Info("stats",
					"state", s.State.String(),
					"connects", s.Connects,
					"reconnects", s.Reconnects,
					"received", s.FramesReceived,
					"decoded", s.FramesDecoded,
					"dropped", s.FramesDropped,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop", "tickers", subs)

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down...")
	feed.Stop(shutdownCtx)

	logger.Info("shutdown complete")
}
