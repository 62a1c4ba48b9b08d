package connection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type eventKind int

const (
	evOpen eventKind = iota
	evDialFailed
	evFrame
	evError
	evReconnect
)

// event is the single unit of work for the feed loop. session ties socket
// events to the connect attempt that produced them so late events from an
// abandoned socket are ignored.
type event struct {
	kind    eventKind
	session uint64
	client  Client
	data    []byte
	err     error
}

// Feed keeps one subscription to the quote streamer alive. All socket and
// timer events are handled on a single goroutine, so frames are decoded and
// delivered to the sink strictly in arrival order.
type Feed struct {
	cfg     FeedConfig
	dialer  Dialer
	decoder Decoder
	sink    Sink
	clock   Clock
	backoff Backoff
	logger  *slog.Logger

	events chan event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	subs    []string
	stats   FeedStats

	// Owned by the loop goroutine.
	client   Client
	session  uint64
	sessDone chan struct{}
	timer    Timer
	attempt  int
}

// NewFeed creates a Feed. A nil clock uses the time package.
func NewFeed(cfg FeedConfig, dialer Dialer, decoder Decoder, sink Sink, clock Clock, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultFeedConfig().EventBuffer
	}

	return &Feed{
		cfg:     cfg,
		dialer:  dialer,
		decoder: decoder,
		sink:    sink,
		clock:   clock,
		backoff: NewBackoff(cfg),
		logger:  logger,
		events:  make(chan event, cfg.EventBuffer),
	}
}

// Start connects and subscribes to subs. An empty subs is a no-op: nothing is
// dialed and no retry is scheduled. subs is copied and reused unchanged on
// every reconnect.
func (f *Feed) Start(ctx context.Context, subs []string) error {
	f.mu.Lock()
	if f.stats.State == StateStopped {
		f.mu.Unlock()
		return ErrStopped
	}
	if f.started {
		f.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(subs) == 0 {
		f.mu.Unlock()
		f.logger.Warn("no tickers to subscribe, feed not started")
		return nil
	}

	f.started = true
	f.subs = append([]string(nil), subs...)
	f.ctx, f.cancel = context.WithCancel(ctx)
	f.mu.Unlock()

	f.logger.Info("starting feed", "tickers", f.subs)

	f.wg.Add(1)
	go f.run()

	return nil
}

// Stop cancels any pending reconnect, closes the socket and leaves the feed
// in the terminal Stopped state. It is safe to call more than once.
func (f *Feed) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.stats.State == StateStopped {
		f.mu.Unlock()
		return nil
	}
	if !f.started {
		f.stats.State = StateStopped
		f.mu.Unlock()
		return nil
	}
	cancel := f.cancel
	f.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (f *Feed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stats.State
}

// Stats returns current statistics.
func (f *Feed) Stats() FeedStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stats
}

// Subscriptions returns a copy of the subscription set.
func (f *Feed) Subscriptions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.subs...)
}

func (f *Feed) run() {
	defer f.wg.Done()

	f.connect()

	for {
		select {
		case <-f.ctx.Done():
			f.shutdown()
			return
		case ev := <-f.events:
			f.handle(ev)
		}
	}
}

func (f *Feed) handle(ev event) {
	if ev.session != f.session {
		if ev.client != nil {
			ev.client.Close()
		}
		return
	}

	switch ev.kind {
	case evOpen:
		f.onOpen(ev.client)
	case evDialFailed:
		f.logger.Warn("feed connect failed", "error", ev.err)
		f.setState(StateFaulted)
		f.onClose()
	case evFrame:
		f.onFrame(ev.data)
	case evError:
		if f.client == nil {
			return
		}
		f.onError(ev.err)
	case evReconnect:
		if f.State() != StateIdle {
			return
		}
		f.timer = nil
		f.mu.Lock()
		f.stats.Reconnects++
		f.mu.Unlock()
		f.connect()
	}
}

// post delivers ev to the loop unless the feed is shutting down.
func (f *Feed) post(ev event) bool {
	select {
	case f.events <- ev:
		return true
	case <-f.ctx.Done():
		return false
	}
}

func (f *Feed) connect() {
	f.session++
	session := f.session
	f.setState(StateConnecting)
	f.logger.Debug("connecting feed", "session", session)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		c, err := f.dialer.Dial(f.ctx)
		if err != nil {
			f.post(event{kind: evDialFailed, session: session, err: err})
			return
		}
		if !f.post(event{kind: evOpen, session: session, client: c}) {
			c.Close()
		}
	}()
}

func (f *Feed) onOpen(c Client) {
	f.client = c
	f.sessDone = make(chan struct{})

	f.wg.Add(1)
	go f.pump(f.session, c, f.sessDone)

	data, err := json.Marshal(SubscribeMessage{Subscribe: f.subs})
	if err != nil {
		f.onError(err)
		return
	}
	if err := c.Send(data); err != nil {
		f.logger.Error("failed to send subscribe", "error", err)
		f.onError(err)
		return
	}

	f.attempt = 0
	f.mu.Lock()
	f.stats.Connects++
	f.mu.Unlock()
	f.setState(StateSubscribed)

	f.logger.Info("feed subscribed", "tickers", f.subs, "session", f.session)
}

// pump forwards one client's frames and errors into the event loop.
func (f *Feed) pump(session uint64, c Client, done <-chan struct{}) {
	defer f.wg.Done()

	for {
		select {
		case <-done:
			return
		case msg := <-c.Messages():
			if !f.post(event{kind: evFrame, session: session, data: msg.Data}) {
				return
			}
		case err := <-c.Errors():
			// Frames read before the error are delivered first.
			if !f.drain(session, c) {
				return
			}
			f.post(event{kind: evError, session: session, err: err})
			return
		}
	}
}

// drain posts every frame already buffered by c without waiting for more.
func (f *Feed) drain(session uint64, c Client) bool {
	for {
		select {
		case msg := <-c.Messages():
			if !f.post(event{kind: evFrame, session: session, data: msg.Data}) {
				return false
			}
		default:
			return true
		}
	}
}

func (f *Feed) onFrame(data []byte) {
	f.mu.Lock()
	f.stats.FramesReceived++
	f.mu.Unlock()

	if f.State() != StateSubscribed {
		f.drop()
		return
	}

	msg, err := f.decoder.Decode(data)
	if err != nil {
		f.logger.Warn("dropping undecodable frame", "error", err, "bytes", len(data))
		f.drop()
		return
	}

	f.mu.Lock()
	f.stats.FramesDecoded++
	f.mu.Unlock()

	if err := f.sink.Send(f.ctx, msg); err != nil {
		f.mu.Lock()
		f.stats.SinkErrors++
		f.mu.Unlock()
		f.logger.Error("sink send failed", "symbol", msg.Symbol, "error", err)
	}
}

func (f *Feed) drop() {
	f.mu.Lock()
	f.stats.FramesDropped++
	f.mu.Unlock()
}

// onError handles a socket error. A close frame from the server is a clean
// close; anything else faults the session and forces the socket closed.
func (f *Feed) onError(err error) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		f.logger.Info("feed closed by server", "code", ce.Code, "reason", ce.Text)
		f.setState(StateClosing)
	} else {
		f.logger.Error("feed socket error", "error", err)
		f.setState(StateFaulted)
	}
	f.onClose()
}

// onClose releases the session and schedules the next attempt.
func (f *Feed) onClose() {
	f.closeSession()
	f.setState(StateIdle)

	f.attempt++
	delay := f.backoff.Next(f.attempt)
	session := f.session

	f.logger.Info("feed reconnect scheduled", "delay", delay, "attempt", f.attempt)

	f.timer = f.clock.AfterFunc(delay, func() {
		f.post(event{kind: evReconnect, session: session})
	})
}

func (f *Feed) closeSession() {
	if f.sessDone != nil {
		close(f.sessDone)
		f.sessDone = nil
	}
	if f.client != nil {
		if err := f.client.Close(); err != nil {
			f.logger.Debug("close socket", "error", err)
		}
		f.client = nil
	}
}

func (f *Feed) shutdown() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.closeSession()
	f.setState(StateStopped)
	f.logger.Info("feed stopped")
}

func (f *Feed) setState(s State) {
	f.mu.Lock()
	prev := f.stats.State
	f.stats.State = s
	f.mu.Unlock()

	if prev != s {
		f.logger.Debug("feed state", "from", prev.String(), "to", s.String())
	}
}
