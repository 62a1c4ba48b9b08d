// newsload writes one batch of news articles to the configured store, either
// from a saved API response or from a single live fetch.
// Usage: go run ./cmd/newsload --config configs/streamer.local.yaml [--file news.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Anish565/Cloud-Final-Project/internal/config"
	"github.com/Anish565/Cloud-Final-Project/internal/news"
	"github.com/Anish565/Cloud-Final-Project/internal/poller"
	"github.com/Anish565/Cloud-Final-Project/internal/store"
	"github.com/Anish565/Cloud-Final-Project/internal/version"
	"github.com/Anish565/Cloud-Final-Project/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional env file loaded before the config")
	file := flag.String("file", "", "saved news response to load instead of fetching")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *envFile, *file); err != nil {
		logger.Error("newsload failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, envFile, file string) error {
	if err := config.LoadEnvFiles(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.Store, writer.KeyAttribute)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	w := writer.NewNewsWriter(writer.WriterConfig{Table: cfg.Store.Table}, st, logger)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		records, err := news.ParseResponse(data)
		if err != nil {
			return err
		}
		results := w.WriteBatch(ctx, records)
		logger.Info("loaded news file", "file", file, "records", len(results), "stats", w.Stats())
		return nil
	}

	if cfg.News.APIKey == "" {
		return fmt.Errorf("news.api_key is required for a live fetch")
	}

	client := news.NewClient(
		cfg.News.APIKey,
		news.WithBaseURL(cfg.News.RestURL),
		news.WithLimit(cfg.News.Limit),
		news.WithLogger(logger),
		news.WithTimeout(cfg.News.Timeout),
		news.WithRetries(cfg.News.MaxRetries, time.Second),
		news.WithUserAgent(version.UserAgent()),
	)

	p := poller.New(poller.Config{
		Tickers:     cfg.News.Tickers,
		Limit:       cfg.News.Limit,
		Concurrency: cfg.News.Concurrency,
		Timeout:     cfg.News.Timeout,
	}, client, w, logger)

	stats, err := p.RunOnce(ctx)
	if err != nil {
		return err
	}
	logger.Info("news loaded", "written", stats.Written, "failed", stats.Failed)
	return nil
}
