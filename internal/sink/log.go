package sink

import (
	"context"
	"log/slog"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Log writes one structured log line per ticker message.
type Log struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLog creates a Log sink that logs at level.
func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: level}
}

func (l *Log) Send(ctx context.Context, msg model.TickerMessage) error {
	l.logger.Log(ctx, l.level, "ticker",
		"symbol", msg.Symbol,
		"price", msg.Price.String(),
		"day_high", msg.DayHigh.String(),
		"day_low", msg.DayLow.String(),
		"day_volume", msg.DayVolume,
		"time", msg.Time(),
	)
	return nil
}

func (l *Log) Close() error { return nil }
