package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Anish565/Cloud-Final-Project/internal/config"
	"github.com/Anish565/Cloud-Final-Project/internal/connection"
	"github.com/Anish565/Cloud-Final-Project/internal/news"
	"github.com/Anish565/Cloud-Final-Project/internal/poller"
	"github.com/Anish565/Cloud-Final-Project/internal/schema"
	"github.com/Anish565/Cloud-Final-Project/internal/sink"
	"github.com/Anish565/Cloud-Final-Project/internal/store"
	"github.com/Anish565/Cloud-Final-Project/internal/ticker"
	"github.com/Anish565/Cloud-Final-Project/internal/version"
	"github.com/Anish565/Cloud-Final-Project/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional env file loaded before the config")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		slog.Error("streamer failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadEnvFiles(envFile); err != nil {
		return err
	}

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger = logger.With("instance_id", cfg.Instance.ID)
	slog.SetDefault(logger)

	logger.Info("starting streamer",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Frame schema
	registry := schema.Default()
	if cfg.Feed.SchemaPath != "" {
		err = registry.Load(cfg.Feed.SchemaPath)
	} else {
		err = registry.LoadDefault()
	}
	if err != nil {
		// News and health still run; the feed drops every frame until a
		// schema is available.
		logger.Error("failed to load ticker schema, decoding disabled",
			"path", cfg.Feed.SchemaPath,
			"error", err,
		)
	}

	// Document store
	logger.Info("opening store", "driver", cfg.Store.Driver, "table", cfg.Store.Table)
	st, err := store.Open(ctx, cfg.Store, writer.KeyAttribute)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// Ticker sinks
	out, err := buildSinks(ctx, cfg.Sinks, logger)
	if err != nil {
		return err
	}
	buffered := sink.NewBuffered(out, cfg.Sinks.BufferSize, logger)

	// Feed
	clientCfg, feedCfg := feedConfigs(cfg.Feed)
	feed := connection.NewFeed(
		feedCfg,
		connection.NewDialer(clientCfg, logger.With("component", "client")),
		ticker.NewDecoder(registry),
		buffered,
		nil,
		logger.With("component", "feed"),
	)

	// News
	var newsPoller *poller.Poller
	if cfg.News.Enabled {
		client := news.NewClient(
			cfg.News.APIKey,
			news.WithBaseURL(cfg.News.RestURL),
			news.WithLimit(cfg.News.Limit),
			news.WithLogger(logger),
			news.WithTimeout(cfg.News.Timeout),
			news.WithRetries(cfg.News.MaxRetries, time.Second),
			news.WithUserAgent(version.UserAgent()),
		)
		newsWriter := writer.NewNewsWriter(writer.WriterConfig{Table: cfg.Store.Table}, st, logger.With("component", "news_writer"))
		newsPoller = poller.New(poller.Config{
			Schedule:    cfg.News.Schedule,
			Tickers:     cfg.News.Tickers,
			Limit:       cfg.News.Limit,
			Concurrency: cfg.News.Concurrency,
			Timeout:     cfg.News.Timeout,
		}, client, newsWriter, logger.With("component", "news_poller"))
	}

	// Health server
	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Health.Port),
		Handler:           newHealthHandler(feed, st, buffered),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := feed.Start(ctx, cfg.Feed.Tickers); err != nil {
		return fmt.Errorf("start feed: %w", err)
	}

	if newsPoller != nil {
		if err := newsPoller.Start(ctx); err != nil {
			return fmt.Errorf("start news poller: %w", err)
		}
	}

	logger.Info("streamer running",
		"tickers", cfg.Feed.Tickers,
		"news", cfg.News.Enabled,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if newsPoller != nil {
		if err := newsPoller.Stop(shutdownCtx); err != nil {
			logger.Warn("news poller stop", "error", err)
		}
	}
	if err := feed.Stop(shutdownCtx); err != nil {
		logger.Warn("feed stop", "error", err)
	}
	if err := buffered.Shutdown(shutdownCtx); err != nil {
		logger.Warn("sink shutdown", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown", "error", err)
	}

	stats := feed.Stats()
	logger.Info("streamer stopped",
		"connects", stats.Connects,
		"reconnects", stats.Reconnects,
		"frames", stats.FramesDecoded,
		"dropped", stats.FramesDropped,
	)
	return nil
}

// feedConfigs maps the feed section onto the client and feed settings.
func feedConfigs(cfg config.FeedConfig) (connection.ClientConfig, connection.FeedConfig) {
	clientCfg := connection.DefaultClientConfig()
	clientCfg.URL = cfg.URL
	clientCfg.Origin = cfg.Origin
	clientCfg.WriteTimeout = cfg.WriteTimeout
	clientCfg.PingInterval = cfg.PingInterval
	clientCfg.BufferSize = cfg.BufferSize

	feedCfg := connection.DefaultFeedConfig()
	feedCfg.ReconnectDelay = cfg.ReconnectDelay
	feedCfg.ReconnectMaxDelay = cfg.ReconnectMaxDelay
	feedCfg.ReconnectJitter = cfg.ReconnectJitter

	return clientCfg, feedCfg
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}

// buildSinks assembles the configured outputs. Redis and Kafka are enabled
// by setting their address or brokers.
func buildSinks(ctx context.Context, cfg config.SinksConfig, logger *slog.Logger) (sink.Sink, error) {
	var sinks sink.Multi

	if cfg.Log {
		sinks = append(sinks, sink.NewLog(logger.With("component", "ticker_log"), slog.LevelInfo))
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		rc := sink.DefaultRedisConfig()
		rc.TTL = cfg.Redis.TTL
		sinks = append(sinks, sink.NewRedis(rc, rdb))
		logger.Info("redis sink enabled", "addr", cfg.Redis.Addr)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sinks = append(sinks, sink.NewKafka(sink.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)))
		logger.Info("kafka sink enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	if len(sinks) == 0 {
		logger.Warn("no ticker sinks configured, logging tickers")
		sinks = append(sinks, sink.NewLog(logger.With("component", "ticker_log"), slog.LevelInfo))
	}

	return sinks, nil
}
