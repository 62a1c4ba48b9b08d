package sink

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Errors
var (
	ErrClosed = errors.New("sink closed")
)

// Sink receives decoded ticker messages.
type Sink interface {
	Send(ctx context.Context, msg model.TickerMessage) error
	Close() error
}

// Quote is the JSON document published for each ticker message.
type Quote struct {
	Symbol        string `json:"symbol"`
	Price         string `json:"price"`
	DayHigh       string `json:"day_high"`
	DayLow        string `json:"day_low"`
	DayVolume     int64  `json:"day_volume"`
	Time          string `json:"time"`
	Exchange      string `json:"exchange,omitempty"`
	Currency      string `json:"currency,omitempty"`
	ShortName     string `json:"short_name,omitempty"`
	Change        string `json:"change,omitempty"`
	ChangePercent string `json:"change_percent,omitempty"`
	MarketHours   int32  `json:"market_hours"`
}

// NewQuote converts msg to its published form.
func NewQuote(msg model.TickerMessage) Quote {
	q := Quote{
		Symbol:      msg.Symbol,
		Price:       msg.Price.String(),
		DayHigh:     msg.DayHigh.String(),
		DayLow:      msg.DayLow.String(),
		DayVolume:   msg.DayVolume,
		Time:        msg.Time().Format(time.RFC3339Nano),
		Exchange:    msg.Exchange,
		Currency:    msg.Currency,
		ShortName:   msg.ShortName,
		MarketHours: msg.MarketHours,
	}
	if !msg.Change.IsZero() {
		q.Change = msg.Change.String()
	}
	if !msg.ChangePercent.IsZero() {
		q.ChangePercent = msg.ChangePercent.String()
	}
	return q
}

// Encode marshals msg as a Quote.
func Encode(msg model.TickerMessage) ([]byte, error) {
	return sonic.ConfigFastest.Marshal(NewQuote(msg))
}
