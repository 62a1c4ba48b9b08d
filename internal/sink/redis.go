package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

const (
	DefaultKeyPrefix     = "ticker:"
	DefaultChannelPrefix = "prices."
)

// RedisClient is the subset of *redis.Client the sink needs.
type RedisClient interface {
	Pipeline() redis.Pipeliner
	Close() error
}

// RedisConfig configures the Redis sink.
type RedisConfig struct {
	KeyPrefix     string
	ChannelPrefix string
	TTL           time.Duration
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		KeyPrefix:     DefaultKeyPrefix,
		ChannelPrefix: DefaultChannelPrefix,
		TTL:           time.Hour,
	}
}

// Redis stores the latest quote per symbol and publishes every update.
// SET and PUBLISH go out in one pipeline so readers never see a published
// quote that is missing from the cache.
type Redis struct {
	cfg    RedisConfig
	client RedisClient
}

// NewRedis creates a Redis sink.
func NewRedis(cfg RedisConfig, client RedisClient) *Redis {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = DefaultChannelPrefix
	}
	return &Redis{cfg: cfg, client: client}
}

func (r *Redis) Send(ctx context.Context, msg model.TickerMessage) error {
	payload, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Symbol, err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.cfg.KeyPrefix+msg.Symbol, payload, r.cfg.TTL)
	pipe.Publish(ctx, r.cfg.ChannelPrefix+msg.Symbol, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline %s: %w", msg.Symbol, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
