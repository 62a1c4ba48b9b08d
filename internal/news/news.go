package news

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

const newsPath = "/v2/reference/news"

// Query selects articles. A zero Limit uses the client's page size; other
// zero values are omitted from the request.
type Query struct {
	Ticker         string
	Limit          int
	Order          string // asc or desc
	PublishedAfter time.Time
}

// Response is one page of the news endpoint.
type Response struct {
	Status    string             `json:"status"`
	RequestID string             `json:"request_id"`
	Count     int                `json:"count"`
	NextURL   string             `json:"next_url"`
	Results   []model.NewsRecord `json:"results"`
}

// ListNews fetches one page of articles, newest first unless q.Order says otherwise.
func (c *Client) ListNews(ctx context.Context, q Query) ([]model.NewsRecord, error) {
	query := url.Values{}

	if q.Ticker != "" {
		query.Set("ticker", strings.ToUpper(q.Ticker))
	}
	limit := c.limit
	if q.Limit > 0 {
		limit = clampLimit(q.Limit)
	}
	query.Set("limit", strconv.Itoa(limit))
	order := q.Order
	if order == "" {
		order = "desc"
	}
	query.Set("order", order)
	query.Set("sort", "published_utc")
	if !q.PublishedAfter.IsZero() {
		query.Set("published_utc.gt", q.PublishedAfter.UTC().Format(time.RFC3339))
	}

	var resp Response
	if err := c.get(ctx, newsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("list news %s: %w", q.Ticker, err)
	}

	c.logger.Debug("fetched news",
		"ticker", q.Ticker,
		"count", len(resp.Results),
		"request_id", resp.RequestID,
	)

	return resp.Results, nil
}

// ParseResponse decodes a saved news response body.
func ParseResponse(data []byte) ([]model.NewsRecord, error) {
	var resp Response
	if err := decoder.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse news response: %w", err)
	}
	return resp.Results, nil
}
