package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-streamer
feed:
  url: wss://streamer.finance.yahoo.com
  tickers: [AAPL, MSFT]
  reconnect_delay: 5s
  reconnect_max_delay: 1m
  reconnect_jitter: 0.25
store:
  driver: dynamodb
  table: Stock_Sim_News_Data
  dynamodb:
    region: us-east-2
    endpoint: http://localhost:8000
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-streamer" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-streamer")
	}
	if len(cfg.Feed.Tickers) != 2 || cfg.Feed.Tickers[0] != "AAPL" || cfg.Feed.Tickers[1] != "MSFT" {
		t.Errorf("Feed.Tickers = %v, want [AAPL MSFT]", cfg.Feed.Tickers)
	}
	if cfg.Feed.ReconnectDelay != 5*time.Second {
		t.Errorf("Feed.ReconnectDelay = %v, want 5s", cfg.Feed.ReconnectDelay)
	}
	if cfg.Feed.ReconnectMaxDelay != time.Minute {
		t.Errorf("Feed.ReconnectMaxDelay = %v, want 1m", cfg.Feed.ReconnectMaxDelay)
	}
	if cfg.Feed.ReconnectJitter != 0.25 {
		t.Errorf("Feed.ReconnectJitter = %v, want 0.25", cfg.Feed.ReconnectJitter)
	}
	if cfg.Store.DynamoDB.Region != "us-east-2" {
		t.Errorf("Store.DynamoDB.Region = %q, want %q", cfg.Store.DynamoDB.Region, "us-east-2")
	}
	if cfg.Store.DynamoDB.Endpoint != "http://localhost:8000" {
		t.Errorf("Store.DynamoDB.Endpoint = %q, want %q", cfg.Store.DynamoDB.Endpoint, "http://localhost:8000")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_POLYGON_KEY", "secret123")
	t.Setenv("TEST_DB_PASSWORD", "dbpass")

	yaml := `
instance:
  id: test-streamer
news:
  enabled: true
  api_key: ${TEST_POLYGON_KEY}
store:
  driver: postgres
  postgres:
    host: localhost
    name: news
    user: streamer
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.News.APIKey != "secret123" {
		t.Errorf("News.APIKey = %q, want %q", cfg.News.APIKey, "secret123")
	}
	if cfg.Store.Postgres.Password != "dbpass" {
		t.Errorf("Store.Postgres.Password = %q, want %q", cfg.Store.Postgres.Password, "dbpass")
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TEST_ENVFILE_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TEST_ENVFILE_KEY") })

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("LoadEnvFiles failed: %v", err)
	}

	path := writeTempFile(t, `
instance:
  id: test-streamer
news:
  api_key: ${TEST_ENVFILE_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.News.APIKey != "from-dotenv" {
		t.Errorf("News.APIKey = %q, want %q", cfg.News.APIKey, "from-dotenv")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-streamer
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Feed.URL != DefaultFeedURL {
		t.Errorf("Feed.URL = %q, want default %q", cfg.Feed.URL, DefaultFeedURL)
	}
	if cfg.Feed.ReconnectDelay != DefaultReconnectDelay {
		t.Errorf("Feed.ReconnectDelay = %v, want default %v", cfg.Feed.ReconnectDelay, DefaultReconnectDelay)
	}
	if cfg.Feed.ReconnectMaxDelay != 0 {
		t.Errorf("Feed.ReconnectMaxDelay = %v, want 0", cfg.Feed.ReconnectMaxDelay)
	}
	if cfg.Store.Driver != DefaultStoreDriver {
		t.Errorf("Store.Driver = %q, want default %q", cfg.Store.Driver, DefaultStoreDriver)
	}
	if cfg.Store.Table != DefaultStoreTable {
		t.Errorf("Store.Table = %q, want default %q", cfg.Store.Table, DefaultStoreTable)
	}
	if cfg.Store.Postgres.Port != DefaultDBPort {
		t.Errorf("Store.Postgres.Port = %d, want default %d", cfg.Store.Postgres.Port, DefaultDBPort)
	}
	if cfg.News.Schedule != DefaultNewsSchedule {
		t.Errorf("News.Schedule = %q, want default %q", cfg.News.Schedule, DefaultNewsSchedule)
	}
	if cfg.Health.Port != DefaultHealthPort {
		t.Errorf("Health.Port = %d, want default %d", cfg.Health.Port, DefaultHealthPort)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, `
feed:
  tickers: [AAPL]
`)

	_, err := LoadAndValidate(path)
	if err == nil || err.Error() != "validate config: instance.id is required" {
		t.Errorf("LoadAndValidate() error = %v, want instance.id is required", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func validConfig() Config {
	cfg := Config{Instance: InstanceConfig{ID: "test"}}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: `log.level must be debug, info, warn or error, got "verbose"`,
		},
		{
			name:    "http feed url",
			mutate:  func(c *Config) { c.Feed.URL = "https://streamer.finance.yahoo.com" },
			wantErr: `feed.url must be a ws:// or wss:// URL, got "https://streamer.finance.yahoo.com"`,
		},
		{
			name:    "blank ticker",
			mutate:  func(c *Config) { c.Feed.Tickers = []string{"AAPL", " "} },
			wantErr: "feed.tickers[1] is empty",
		},
		{
			name:    "empty tickers allowed",
			mutate:  func(c *Config) { c.Feed.Tickers = nil },
			wantErr: "",
		},
		{
			name:    "jitter above one",
			mutate:  func(c *Config) { c.Feed.ReconnectJitter = 1.5 },
			wantErr: "feed.reconnect_jitter must be between 0 and 1, got 1.5",
		},
		{
			name:    "negative jitter",
			mutate:  func(c *Config) { c.Feed.ReconnectJitter = -0.1 },
			wantErr: "feed.reconnect_jitter must be between 0 and 1",
		},
		{
			name: "news without key",
			mutate: func(c *Config) {
				c.News.Enabled = true
			},
			wantErr: "news.api_key is required when news is enabled",
		},
		{
			name: "news bad schedule",
			mutate: func(c *Config) {
				c.News.Enabled = true
				c.News.APIKey = "key"
				c.News.Schedule = "every day"
			},
			wantErr: "news.schedule",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mongo" },
			wantErr: `store.driver must be dynamodb or postgres, got "mongo"`,
		},
		{
			name:    "half static credentials",
			mutate:  func(c *Config) { c.Store.DynamoDB.AccessKeyID = "AKID" },
			wantErr: "store.dynamodb access_key_id and secret_access_key must be set together",
		},
		{
			name:    "missing postgres host",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: "store.postgres.host is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Store.Driver = "postgres"
				c.Store.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "store.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "bad health port",
			mutate:  func(c *Config) { c.Health.Port = 70000 },
			wantErr: "health.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if len(err.Error()) < len(tt.wantErr) || err.Error()[:len(tt.wantErr)] != tt.wantErr {
				t.Errorf("Validate() error = %q, want prefix %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := LogConfig{Level: tt.level}.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q) error: %v", tt.level, err)
		}
		if got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
