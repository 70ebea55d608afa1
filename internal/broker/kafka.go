package broker

import (
	"context"
	"fmt"
	"time"

	"water_telemetry/internal/config"

	"github.com/segmentio/kafka-go"
)

// publishFlushTimeout bounds how long a single-message batch waits before it
// is sent. kafka-go otherwise holds partial batches for a full second.
const publishFlushTimeout = 10 * time.Millisecond

// KafkaPublisher is a synchronous writer: Publish waits for the leader ack.
type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher builds a writer for cfg.Brokers. Topic is chosen per message.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			BatchSize:              1,
			BatchTimeout:           publishFlushTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes value with a null key.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, value []byte) error {
	if err := p.w.WriteMessages(ctx, kafka.Message{Topic: topic, Value: value}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// KafkaSubscriber reads all configured topics as one consumer-group member.
type KafkaSubscriber struct {
	r *kafka.Reader
}

// NewKafkaSubscriber joins cfg.GroupID on the sensor, current and alert topics.
func NewKafkaSubscriber(cfg config.KafkaConfig) *KafkaSubscriber {
	return &KafkaSubscriber{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			GroupID:     cfg.GroupID,
			GroupTopics: cfg.Topics.Names(),
			StartOffset: startOffset(cfg.OffsetReset),
			MinBytes:    1,
			MaxBytes:    10e6,
		}),
	}
}

// Fetch blocks for the next message; offsets are committed by the reader.
func (s *KafkaSubscriber) Fetch(ctx context.Context) (Record, error) {
	m, err := s.r.ReadMessage(ctx)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Topic:     m.Topic,
		Key:       m.Key,
		Value:     m.Value,
		Partition: m.Partition,
		Offset:    m.Offset,
		Time:      m.Time,
	}, nil
}

func (s *KafkaSubscriber) Close() error {
	return s.r.Close()
}

func startOffset(reset string) int64 {
	if reset == "latest" {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}

var (
	_ Publisher  = (*KafkaPublisher)(nil)
	_ Subscriber = (*KafkaSubscriber)(nil)
)
