package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultFeedURL         = "wss://streamer.finance.yahoo.com"
	DefaultReconnectDelay  = 5 * time.Second
	DefaultWriteTimeout    = 5 * time.Second
	DefaultPingInterval    = 30 * time.Second
	DefaultFeedBufferSize  = 1000
	DefaultNewsRestURL     = "https://api.polygon.io"
	DefaultNewsSchedule    = "0 */15 * * * *"
	DefaultNewsLimit       = 10
	DefaultNewsTimeout     = 30 * time.Second
	DefaultNewsMaxRetries  = 3
	DefaultNewsConcurrency = 4
	DefaultStoreDriver     = "dynamodb"
	DefaultStoreTable      = "Stock_Sim_News_Data"
	DefaultDynamoDBRegion  = "us-east-1"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultSinkBufferSize  = 1024
	DefaultRedisTTL        = time.Hour
	DefaultKafkaTopic      = "tickers"
	DefaultHealthPort      = 8080
)

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Feed defaults
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.ReconnectDelay == 0 {
		c.Feed.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Feed.WriteTimeout == 0 {
		c.Feed.WriteTimeout = DefaultWriteTimeout
	}
	if c.Feed.PingInterval == 0 {
		c.Feed.PingInterval = DefaultPingInterval
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = DefaultFeedBufferSize
	}

	// News defaults
	if c.News.RestURL == "" {
		c.News.RestURL = DefaultNewsRestURL
	}
	if c.News.Schedule == "" {
		c.News.Schedule = DefaultNewsSchedule
	}
	if c.News.Limit == 0 {
		c.News.Limit = DefaultNewsLimit
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = DefaultNewsTimeout
	}
	if c.News.MaxRetries == 0 {
		c.News.MaxRetries = DefaultNewsMaxRetries
	}
	if c.News.Concurrency == 0 {
		c.News.Concurrency = DefaultNewsConcurrency
	}

	// Store defaults
	if c.Store.Driver == "" {
		c.Store.Driver = DefaultStoreDriver
	}
	if c.Store.Table == "" {
		c.Store.Table = DefaultStoreTable
	}
	if c.Store.DynamoDB.Region == "" {
		c.Store.DynamoDB.Region = DefaultDynamoDBRegion
	}
	applyDBDefaults(&c.Store.Postgres)

	// Sink defaults
	if c.Sinks.BufferSize == 0 {
		c.Sinks.BufferSize = DefaultSinkBufferSize
	}
	if c.Sinks.Redis.TTL == 0 {
		c.Sinks.Redis.TTL = DefaultRedisTTL
	}
	if c.Sinks.Kafka.Topic == "" {
		c.Sinks.Kafka.Topic = DefaultKafkaTopic
	}

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
