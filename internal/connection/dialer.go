package connection

import (
	"context"
	"log/slog"
)

// Dialer opens a connected Client. The Feed calls it once per connect attempt.
type Dialer interface {
	Dial(ctx context.Context) (Client, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Client, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Client, error) {
	return f(ctx)
}

type wsDialer struct {
	cfg    ClientConfig
	logger *slog.Logger
}

// NewDialer returns a Dialer that builds a fresh gorilla/websocket Client per attempt.
func NewDialer(cfg ClientConfig, logger *slog.Logger) Dialer {
	if logger == nil {
		logger = slog.Default()
	}
	return &wsDialer{cfg: cfg, logger: logger}
}

func (d *wsDialer) Dial(ctx context.Context) (Client, error) {
	c := NewClient(d.cfg, d.logger)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
