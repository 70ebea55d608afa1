// Package broker hides the message broker behind small publish/fetch
// interfaces so the loops can run against Kafka or an in-memory log.
package broker

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by Publish/Fetch after Close.
var ErrClosed = errors.New("broker: closed")

// Record is one message as seen by a subscriber.
type Record struct {
	Topic     string
	Key       []byte
	Value     []byte
	Partition int
	Offset    int64
	Time      time.Time
}

// Publisher sends a value to a topic and returns once the broker acknowledged it.
type Publisher interface {
	Publish(ctx context.Context, topic string, value []byte) error
	Close() error
}

// Subscriber blocks until the next record on any subscribed topic is available.
type Subscriber interface {
	Fetch(ctx context.Context) (Record, error)
	Close() error
}
