package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anish565/Cloud-Final-Project/internal/item"
	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// ErrPersist wraps every failed single-item write.
var ErrPersist = errors.New("persist item")

// Store writes one item to a document-store table.
type Store interface {
	PutItem(ctx context.Context, table string, it map[string]item.Item) error
}

// Result reports the outcome for one record of a batch.
type Result struct {
	Rank       int
	ArticleURL string
	Err        error
}

// NewsWriter persists batches of news records, one item per write.
type NewsWriter struct {
	cfg    WriterConfig
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewNewsWriter creates a new NewsWriter.
func NewNewsWriter(cfg WriterConfig, store Store, logger *slog.Logger) *NewsWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsWriter{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// WriteBatch writes records in order. Each record gets the next rank,
// starting at 1, whether or not its write succeeds. A failed write is logged
// and the batch moves on. Writes are sequential: each one returns before the
// next begins. If ctx is done the remaining records are not attempted and
// their results carry the context error.
func (w *NewsWriter) WriteBatch(ctx context.Context, records []model.NewsRecord) []Result {
	batchID := uuid.New()
	logger := w.logger.With("batch_id", batchID.String(), "table", w.cfg.Table)
	start := time.Now()

	results := make([]Result, 0, len(records))
	var failed int

	rank := 0
	for _, rec := range records {
		rank++
		res := Result{Rank: rank, ArticleURL: rec.ArticleURL}

		if err := ctx.Err(); err != nil {
			res.Err = err
			results = append(results, res)
			failed++
			continue
		}

		if err := w.store.PutItem(ctx, w.cfg.Table, w.transform(rank, rec)); err != nil {
			res.Err = fmt.Errorf("%w: rank %d: %w", ErrPersist, rank, err)
			logger.Error("failed to write news item",
				"rank", rank,
				"title", rec.Title,
				"article_url", rec.ArticleURL,
				"error", err,
			)
			failed++
		} else {
			logger.Debug("wrote news item", "rank", rank, "title", rec.Title)
		}

		results = append(results, res)
	}

	w.mu.Lock()
	w.metrics.Batches++
	w.metrics.Inserts += int64(len(records) - failed)
	w.metrics.Errors += int64(failed)
	w.mu.Unlock()

	logger.Info("news batch written",
		"count", len(records),
		"failed", failed,
		"duration", time.Since(start),
	)

	return results
}

// Stats returns current metrics.
func (w *NewsWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// transform builds the store item for one ranked record.
func (w *NewsWriter) transform(rank int, rec model.NewsRecord) map[string]item.Item {
	return map[string]item.Item{
		KeyAttribute: item.String(strconv.Itoa(rank)),
		"news":       item.Serialize(rec.Fields()),
	}
}
