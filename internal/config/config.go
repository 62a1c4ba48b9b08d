package config

import "time"

// Config is the root configuration for a streamer instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Log      LogConfig      `yaml:"log"`
	Feed     FeedConfig     `yaml:"feed"`
	News     NewsConfig     `yaml:"news"`
	Store    StoreConfig    `yaml:"store"`
	Sinks    SinksConfig    `yaml:"sinks"`
	Health   HealthConfig   `yaml:"health"`
}

// InstanceConfig identifies this streamer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// FeedConfig holds quote streamer settings.
type FeedConfig struct {
	URL               string        `yaml:"url"`
	Origin            string        `yaml:"origin"`
	Tickers           []string      `yaml:"tickers"`
	SchemaPath        string        `yaml:"schema_path"` // Empty uses the embedded yaticker definition
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	ReconnectMaxDelay time.Duration `yaml:"reconnect_max_delay"`
	ReconnectJitter   float64       `yaml:"reconnect_jitter"` // Fraction in [0, 1], only used when the delay grows
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	PingInterval      time.Duration `yaml:"ping_interval"`
	BufferSize        int           `yaml:"buffer_size"`
}

// NewsConfig holds news ingestion settings.
type NewsConfig struct {
	Enabled     bool          `yaml:"enabled"`
	RestURL     string        `yaml:"rest_url"`
	APIKey      string        `yaml:"api_key"`
	Schedule    string        `yaml:"schedule"` // cron spec with seconds field
	Limit       int           `yaml:"limit"`
	Tickers     []string      `yaml:"tickers"` // Empty fetches market-wide news
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Concurrency int           `yaml:"concurrency"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver   string         `yaml:"driver"` // dynamodb or postgres
	Table    string         `yaml:"table"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Postgres DBConfig       `yaml:"postgres"`
}

// DynamoDBConfig holds AWS settings. Empty credentials use the default chain.
type DynamoDBConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // e.g. http://localhost:8000 for DynamoDB Local
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SinksConfig selects where decoded tickers go.
type SinksConfig struct {
	Log        bool        `yaml:"log"`
	BufferSize int         `yaml:"buffer_size"`
	Redis      RedisConfig `yaml:"redis"`
	Kafka      KafkaConfig `yaml:"kafka"`
}

// RedisConfig enables the Redis sink when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// KafkaConfig enables the Kafka sink when Brokers is set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
