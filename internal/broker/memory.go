package broker

import (
	"context"
	"sync"
	"time"
)

// MemBroker is an in-process append-only log shared by publishers and
// subscribers. Records keep global publish order.
type MemBroker struct {
	mu      sync.Mutex
	log     []Record
	offsets map[string]int64
	notify  chan struct{}
	closed  bool
}

func NewMemBroker() *MemBroker {
	return &MemBroker{
		offsets: make(map[string]int64),
		notify:  make(chan struct{}),
	}
}

// Publish appends value to topic. The append is the acknowledgment.
func (b *MemBroker) Publish(ctx context.Context, topic string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	off := b.offsets[topic]
	b.offsets[topic] = off + 1
	b.log = append(b.log, Record{
		Topic:  topic,
		Value:  append([]byte(nil), value...),
		Offset: off,
		Time:   time.Now().UTC(),
	})
	// wake every waiting subscriber
	close(b.notify)
	b.notify = make(chan struct{})
	return nil
}

// Close stops the broker; pending and future Fetch calls return ErrClosed.
func (b *MemBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.notify)
	}
	return nil
}

// Len reports how many records were published.
func (b *MemBroker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.log)
}

// Subscribe returns a reader over topics starting at the beginning of the log.
func (b *MemBroker) Subscribe(topics ...string) *MemSubscriber {
	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}
	return &MemSubscriber{b: b, topics: set, done: make(chan struct{})}
}

// next returns the first record at or after pos that matches topics,
// or the channel to wait on when none is available yet.
func (b *MemBroker) next(pos int, topics map[string]struct{}) (Record, int, <-chan struct{}, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ; pos < len(b.log); pos++ {
		if _, ok := topics[b.log[pos].Topic]; ok {
			return b.log[pos], pos + 1, nil, true, nil
		}
	}
	if b.closed {
		return Record{}, pos, nil, false, ErrClosed
	}
	return Record{}, pos, b.notify, false, nil
}

// MemSubscriber is a single reader position over a MemBroker.
type MemSubscriber struct {
	b      *MemBroker
	topics map[string]struct{}

	mu   sync.Mutex // serializes Fetch
	pos  int
	once sync.Once
	done chan struct{}
}

func (s *MemSubscriber) Fetch(ctx context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		select {
		case <-s.done:
			return Record{}, ErrClosed
		default:
		}
		rec, pos, wait, ok, err := s.b.next(s.pos, s.topics)
		s.pos = pos
		if err != nil {
			return Record{}, err
		}
		if ok {
			return rec, nil
		}
		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-s.done:
			return Record{}, ErrClosed
		case <-wait:
		}
	}
}

func (s *MemSubscriber) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

var (
	_ Publisher  = (*MemBroker)(nil)
	_ Subscriber = (*MemSubscriber)(nil)
)
