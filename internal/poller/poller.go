package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
	"github.com/Anish565/Cloud-Final-Project/internal/news"
	"github.com/Anish565/Cloud-Final-Project/internal/writer"
)

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("poller already started")

// Source lists news articles.
type Source interface {
	ListNews(ctx context.Context, q news.Query) ([]model.NewsRecord, error)
}

// BatchWriter persists one batch of articles.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []model.NewsRecord) []writer.Result
}

// Config holds poller configuration.
type Config struct {
	Schedule    string        // cron spec with a leading seconds field
	Tickers     []string      // Empty polls market-wide news
	Limit       int           // Articles per request
	Concurrency int           // Max concurrent requests
	Timeout     time.Duration // Per-request timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Schedule:    "0 */15 * * * *",
		Limit:       10,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// CycleStats summarizes one poll cycle.
type CycleStats struct {
	Fetched    int
	Duplicates int
	Written    int
	Failed     int
	FetchErrs  int
}

// Poller fetches news on a schedule and writes each cycle as one batch.
type Poller struct {
	cfg    Config
	source Source
	writer BatchWriter
	logger *slog.Logger

	cron    *cron.Cron
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source Source, w BatchWriter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:    cfg,
		source: source,
		writer: w,
		logger: logger,
	}
}

// Start runs one cycle immediately and then on every schedule tick.
func (p *Poller) Start(ctx context.Context) error {
	if p.cron != nil {
		return ErrAlreadyStarted
	}

	c := cron.New(cron.WithSeconds())
	p.ctx, p.cancel = context.WithCancel(ctx)

	if _, err := c.AddFunc(p.cfg.Schedule, p.tick); err != nil {
		p.cancel()
		return fmt.Errorf("schedule news poll %q: %w", p.cfg.Schedule, err)
	}
	p.cron = c

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.tick()
	}()

	c.Start()

	p.logger.Info("news poller started",
		"schedule", p.cfg.Schedule,
		"tickers", len(p.cfg.Tickers),
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop halts the schedule and waits for an in-flight cycle to finish.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cron == nil {
		return nil
	}

	cronDone := p.cron.Stop()
	p.cancel()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("news poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) tick() {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("previous news poll still running, skipping")
		return
	}
	defer p.running.Store(false)

	if _, err := p.RunOnce(p.ctx); err != nil {
		p.logger.Error("news poll failed", "error", err)
	}
}

// RunOnce performs one fetch-and-write cycle. A failed fetch for one ticker
// is logged and the other tickers are still written. An error is returned
// only when every fetch failed.
func (p *Poller) RunOnce(ctx context.Context) (CycleStats, error) {
	start := time.Now()

	queries := p.queries()
	pages := make([][]model.NewsRecord, len(queries))
	var (
		mu        sync.Mutex
		fetchErrs int
		lastErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, q := range queries {
		g.Go(func() error {
			reqCtx := gctx
			if p.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(gctx, p.cfg.Timeout)
				defer cancel()
			}

			records, err := p.source.ListNews(reqCtx, q)
			if err != nil {
				p.logger.Warn("failed to fetch news", "ticker", q.Ticker, "error", err)
				mu.Lock()
				fetchErrs++
				lastErr = err
				mu.Unlock()
				return nil
			}
			pages[i] = records
			return nil
		})
	}
	_ = g.Wait()

	stats := CycleStats{FetchErrs: fetchErrs}
	if fetchErrs == len(queries) {
		return stats, fmt.Errorf("all news fetches failed: %w", lastErr)
	}

	batch, dups := merge(pages)
	stats.Fetched = len(batch) + dups
	stats.Duplicates = dups

	if len(batch) > 0 {
		for _, res := range p.writer.WriteBatch(ctx, batch) {
			if res.Err != nil {
				stats.Failed++
			} else {
				stats.Written++
			}
		}
	}

	p.logger.Info("news poll complete",
		"fetched", stats.Fetched,
		"duplicates", stats.Duplicates,
		"written", stats.Written,
		"failed", stats.Failed,
		"fetch_errors", stats.FetchErrs,
		"duration", time.Since(start),
	)

	return stats, nil
}

func (p *Poller) queries() []news.Query {
	if len(p.cfg.Tickers) == 0 {
		return []news.Query{{Limit: p.cfg.Limit}}
	}
	qs := make([]news.Query, len(p.cfg.Tickers))
	for i, t := range p.cfg.Tickers {
		qs[i] = news.Query{Ticker: t, Limit: p.cfg.Limit}
	}
	return qs
}

// merge flattens pages in order, keeping the first occurrence of each article.
// Articles without an id or url cannot be matched and are always kept.
func merge(pages [][]model.NewsRecord) ([]model.NewsRecord, int) {
	seen := make(map[string]struct{})
	var out []model.NewsRecord
	dups := 0

	for _, page := range pages {
		for _, rec := range page {
			key := rec.Key()
			if key == "" {
				out = append(out, rec)
				continue
			}
			if _, ok := seen[key]; ok {
				dups++
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
	}
	return out, dups
}
