package connection

import (
	"context"
	"errors"
	"time"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no pong)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrAlreadyStarted  = errors.New("feed already started")
	ErrStopped         = errors.New("feed stopped")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// SubscribeMessage is the directive sent once per successful open.
type SubscribeMessage struct {
	Subscribe []string `json:"subscribe"`
}

// Decoder turns one inbound frame into a ticker message.
type Decoder interface {
	Decode(payload []byte) (model.TickerMessage, error)
}

// Sink receives every successfully decoded ticker message, in arrival order.
type Sink interface {
	Send(ctx context.Context, msg model.TickerMessage) error
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., wss://streamer.finance.yahoo.com)
	Origin           string        // Optional Origin header
	HandshakeTimeout time.Duration // Dial handshake timeout
	PingInterval     time.Duration // Interval between keepalive pings
	PingTimeout      time.Duration // Max time without pong before considering connection stale
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:              "wss://streamer.finance.yahoo.com",
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		PingTimeout:      90 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       1000,
	}
}

// FeedConfig configures a Feed.
type FeedConfig struct {
	ReconnectDelay    time.Duration // Delay before reconnecting after a close
	ReconnectMaxDelay time.Duration // Cap for exponential growth; <= ReconnectDelay keeps the delay constant
	ReconnectJitter   float64       // Fraction of jitter applied when growing
	EventBuffer       int           // Capacity of the event queue
}

// DefaultFeedConfig returns the fixed five second reconnect policy.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay: 5 * time.Second,
		EventBuffer:    1024,
	}
}

// State is the lifecycle state of a Feed.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateSubscribed
	StateClosing
	StateFaulted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateClosing:
		return "closing"
	case StateFaulted:
		return "faulted"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FeedStats provides statistics about a Feed.
type FeedStats struct {
	State          State
	Connects       int64 // Successful subscriptions
	Reconnects     int64 // Reconnect timers that fired
	FramesReceived int64
	FramesDecoded  int64
	FramesDropped  int64
	SinkErrors     int64
}
