package writer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anish565/Cloud-Final-Project/internal/item"
	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// fakeStore records items by rank and fails ranks listed in failRanks.
type fakeStore struct {
	mu        sync.Mutex
	failRanks map[string]bool
	attempts  []string
	items     map[string]map[string]item.Item
	tables    []string
}

func newFakeStore(failRanks ...string) *fakeStore {
	s := &fakeStore{
		failRanks: make(map[string]bool),
		items:     make(map[string]map[string]item.Item),
	}
	for _, r := range failRanks {
		s.failRanks[r] = true
	}
	return s
}

func (s *fakeStore) PutItem(_ context.Context, table string, it map[string]item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rank := it[KeyAttribute].S
	s.attempts = append(s.attempts, rank)
	s.tables = append(s.tables, table)
	if s.failRanks[rank] {
		return errors.New("provisioned throughput exceeded")
	}
	s.items[rank] = it
	return nil
}

func records(titles ...string) []model.NewsRecord {
	out := make([]model.NewsRecord, len(titles))
	for i, title := range titles {
		out[i] = model.NewsRecord{
			Title:        title,
			PublishedUTC: "2024-01-15T12:00:00Z",
			ArticleURL:   "https://example.com/" + title,
		}
	}
	return out
}

func TestNewsWriter_WriteBatch(t *testing.T) {
	store := newFakeStore()
	w := NewNewsWriter(DefaultWriterConfig(), store, nil)

	results := w.WriteBatch(context.Background(), records("a", "b", "c"))

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i+1, res.Rank)
		assert.NoError(t, res.Err)
	}
	assert.Equal(t, []string{"1", "2", "3"}, store.attempts)
	assert.Equal(t, []string{DefaultNewsTable, DefaultNewsTable, DefaultNewsTable}, store.tables)

	first := store.items["1"]
	assert.Equal(t, item.String("1"), first[KeyAttribute])
	news := first["news"]
	require.Equal(t, item.KindMap, news.Kind)
	assert.Equal(t, item.String("a"), news.M["title"])
	assert.Equal(t, item.String("https://example.com/a"), news.M["article_url"])
	assert.NotContains(t, news.M, "tickers")
	assert.NotContains(t, news.M, "image_url")
	assert.NotContains(t, news.M, "insights")
}

func TestNewsWriter_FailedItemDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore("2")
	w := NewNewsWriter(DefaultWriterConfig(), store, nil)

	var results []Result
	assert.NotPanics(t, func() {
		results = w.WriteBatch(context.Background(), records("a", "b", "c"))
	})

	assert.Equal(t, []string{"1", "2", "3"}, store.attempts)
	assert.Contains(t, store.items, "1")
	assert.NotContains(t, store.items, "2")
	assert.Contains(t, store.items, "3")
	assert.Equal(t, item.String("c"), store.items["3"]["news"].M["title"])

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrPersist)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, "https://example.com/b", results[1].ArticleURL)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 3, results[2].Rank)

	stats := w.Stats()
	assert.Equal(t, int64(1), stats.Batches)
	assert.Equal(t, int64(2), stats.Inserts)
	assert.Equal(t, int64(1), stats.Errors)
}

func TestNewsWriter_RanksRestartPerBatch(t *testing.T) {
	store := newFakeStore()
	w := NewNewsWriter(DefaultWriterConfig(), store, nil)

	w.WriteBatch(context.Background(), records("a", "b"))
	w.WriteBatch(context.Background(), records("c"))

	assert.Equal(t, []string{"1", "2", "1"}, store.attempts)
	assert.Equal(t, item.String("c"), store.items["1"]["news"].M["title"])
}

func TestNewsWriter_OptionalFields(t *testing.T) {
	store := newFakeStore()
	w := NewNewsWriter(WriterConfig{Table: "news"}, store, nil)

	rec := model.NewsRecord{
		Title:        "Apple beats estimates",
		PublishedUTC: "2024-01-15T12:00:00Z",
		ArticleURL:   "https://example.com/aapl",
		Tickers:      []string{"AAPL"},
		ImageURL:     "https://example.com/aapl.png",
		Insights: []any{
			map[string]any{"ticker": "AAPL", "sentiment": "positive", "sentiment_reasoning": nil},
		},
	}

	w.WriteBatch(context.Background(), []model.NewsRecord{rec})

	news := store.items["1"]["news"]
	assert.Equal(t, item.List(item.String("AAPL")), news.M["tickers"])
	assert.Equal(t, item.String("https://example.com/aapl.png"), news.M["image_url"])
	assert.Equal(t, item.List(item.Map(map[string]item.Item{
		"ticker":    item.String("AAPL"),
		"sentiment": item.String("positive"),
	})), news.M["insights"])
	assert.Equal(t, []string{"news"}, store.tables)
}

func TestNewsWriter_ContextCanceled(t *testing.T) {
	store := newFakeStore()
	w := NewNewsWriter(DefaultWriterConfig(), store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := w.WriteBatch(ctx, records("a", "b"))

	require.Len(t, results, 2)
	assert.Empty(t, store.attempts)
	for i, res := range results {
		assert.Equal(t, i+1, res.Rank)
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestNewsWriter_EmptyBatch(t *testing.T) {
	store := newFakeStore()
	w := NewNewsWriter(DefaultWriterConfig(), store, nil)

	results := w.WriteBatch(context.Background(), nil)

	assert.Empty(t, results)
	assert.Equal(t, int64(1), w.Stats().Batches)
}

func TestDefaultWriterConfig(t *testing.T) {
	cfg := DefaultWriterConfig()
	assert.Equal(t, "Stock_Sim_News_Data", cfg.Table)
}
