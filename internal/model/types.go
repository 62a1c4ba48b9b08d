package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Streaming Types
// -----------------------------------------------------------------------------

// TickerMessage is one decoded frame from the market-data feed.
// It is owned by the decode call that produced it and handed to a sink.
type TickerMessage struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	DayHigh       decimal.Decimal `json:"day_high"`
	DayLow        decimal.Decimal `json:"day_low"`
	DayVolume     int64           `json:"day_volume"`
	EventTime     int64           `json:"event_time"` // Milliseconds since epoch, as sent by the feed
	Exchange      string          `json:"exchange,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	ShortName     string          `json:"short_name,omitempty"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	MarketHours   int32           `json:"market_hours"`
}

// Time returns EventTime as a time.Time in UTC.
func (m TickerMessage) Time() time.Time {
	return time.UnixMilli(m.EventTime).UTC()
}

// -----------------------------------------------------------------------------
// News Types
// -----------------------------------------------------------------------------

// NewsRecord is one article from the reference news feed.
type NewsRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author,omitempty"`
	Description  string   `json:"description,omitempty"`
	PublishedUTC string   `json:"published_utc"`
	ArticleURL   string   `json:"article_url"`
	Tickers      []string `json:"tickers,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Insights     any      `json:"insights,omitempty"` // Arbitrary nested JSON
}

// Fields returns the persisted news body. Optional values that are not set
// are returned as nil so the serializer leaves them out of the stored map.
func (r NewsRecord) Fields() map[string]any {
	fields := map[string]any{
		"title":         r.Title,
		"published_utc": r.PublishedUTC,
		"article_url":   r.ArticleURL,
		"tickers":       nil,
		"image_url":     nil,
		"insights":      r.Insights,
	}
	if r.Tickers != nil {
		fields["tickers"] = r.Tickers
	}
	if r.ImageURL != "" {
		fields["image_url"] = r.ImageURL
	}
	return fields
}

// Key returns a stable identity for de-duplication: the article id when
// present, otherwise the article url.
func (r NewsRecord) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.ArticleURL
}
