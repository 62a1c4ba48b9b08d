package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// MessageWriter is the subset of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a batching writer for topic. Messages with the same
// key land on the same partition, so per-symbol order is kept.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// Kafka appends quotes to a topic keyed by symbol.
type Kafka struct {
	writer MessageWriter
}

// NewKafka creates a Kafka sink.
func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{writer: writer}
}

func (k *Kafka) Send(ctx context.Context, msg model.TickerMessage) error {
	payload, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Symbol, err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Symbol),
		Value: payload,
		Time:  msg.Time(),
	})
	if err != nil {
		return fmt.Errorf("kafka write %s: %w", msg.Symbol, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
