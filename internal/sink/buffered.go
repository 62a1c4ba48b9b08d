package sink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Buffered queues messages for a wrapped sink and delivers them from one
// goroutine, so a slow network sink never blocks the caller. Delivery order
// matches Send order.
type Buffered struct {
	next   Sink
	queue  *queue[model.TickerMessage]
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	failures int64
	closed   bool
}

// NewBuffered wraps next and starts the delivery goroutine.
func NewBuffered(next Sink, initialCapacity int, logger *slog.Logger) *Buffered {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	b := &Buffered{
		next:   next,
		queue:  newQueue[model.TickerMessage](initialCapacity),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	b.wg.Add(1)
	go b.drain()

	return b
}

// Send enqueues msg. It only fails after Close.
func (b *Buffered) Send(_ context.Context, msg model.TickerMessage) error {
	if !b.queue.push(msg) {
		return ErrClosed
	}
	return nil
}

// Close stops accepting messages, delivers what is queued, then closes the
// wrapped sink. If ctx ends first the backlog is abandoned.
func (b *Buffered) Close() error {
	return b.Shutdown(context.Background())
}

// Shutdown is Close with a deadline for draining the backlog.
func (b *Buffered) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.queue.close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.cancel()
		<-done
		b.logger.Warn("sink backlog abandoned", "pending", b.queue.stats().Pending)
	}

	b.cancel()
	return b.next.Close()
}

// Stats returns queue statistics.
func (b *Buffered) Stats() QueueStats {
	return b.queue.stats()
}

// Failures returns the number of messages the wrapped sink rejected.
func (b *Buffered) Failures() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Buffered) drain() {
	defer b.wg.Done()

	for {
		if b.ctx.Err() != nil {
			return
		}
		msg, ok := b.queue.pop()
		if !ok {
			return
		}
		if err := b.next.Send(b.ctx, msg); err != nil {
			b.mu.Lock()
			b.failures++
			b.mu.Unlock()
			b.logger.Error("sink delivery failed", "symbol", msg.Symbol, "error", err)
		}
	}
}
