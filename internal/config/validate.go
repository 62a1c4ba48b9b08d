package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks that all required fields are set and values are valid.
// An empty feed.tickers list is allowed; the feed then never connects.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if !strings.HasPrefix(c.Feed.URL, "ws://") && !strings.HasPrefix(c.Feed.URL, "wss://") {
		return fmt.Errorf("feed.url must be a ws:// or wss:// URL, got %q", c.Feed.URL)
	}
	for i, t := range c.Feed.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("feed.tickers[%d] is empty", i)
		}
	}
	if c.Feed.ReconnectDelay <= 0 {
		return errors.New("feed.reconnect_delay must be > 0")
	}
	if c.Feed.ReconnectMaxDelay < 0 {
		return errors.New("feed.reconnect_max_delay must be >= 0")
	}
	if c.Feed.ReconnectJitter < 0 || c.Feed.ReconnectJitter > 1 {
		return fmt.Errorf("feed.reconnect_jitter must be between 0 and 1, got %v", c.Feed.ReconnectJitter)
	}
	if c.Feed.BufferSize < 1 {
		return errors.New("feed.buffer_size must be >= 1")
	}

	if c.News.Enabled {
		if c.News.APIKey == "" {
			return errors.New("news.api_key is required when news is enabled")
		}
		if _, err := cron.NewParser(cronFields).Parse(c.News.Schedule); err != nil {
			return fmt.Errorf("news.schedule: %w", err)
		}
		if c.News.Limit < 1 {
			return errors.New("news.limit must be >= 1")
		}
		if c.News.Concurrency < 1 {
			return errors.New("news.concurrency must be >= 1")
		}
	}

	if c.Store.Table == "" {
		return errors.New("store.table is required")
	}
	switch c.Store.Driver {
	case "dynamodb":
		if c.Store.DynamoDB.Region == "" {
			return errors.New("store.dynamodb.region is required")
		}
		if (c.Store.DynamoDB.AccessKeyID == "") != (c.Store.DynamoDB.SecretAccessKey == "") {
			return errors.New("store.dynamodb access_key_id and secret_access_key must be set together")
		}
	case "postgres":
		if err := c.Store.Postgres.validate("store.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("store.driver must be dynamodb or postgres, got %q", c.Store.Driver)
	}

	if c.Sinks.BufferSize < 1 {
		return errors.New("sinks.buffer_size must be >= 1")
	}
	if len(c.Sinks.Kafka.Brokers) > 0 && c.Sinks.Kafka.Topic == "" {
		return errors.New("sinks.kafka.topic is required when brokers are set")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

// cronFields matches the six-field schedules used by the news poller.
const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
	}
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
