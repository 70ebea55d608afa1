package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBroker_FetchPreservesPublishOrderAcrossTopics(t *testing.T) {
	b := NewMemBroker()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, "a", []byte("a0")))
	require.NoError(t, b.Publish(ctx, "b", []byte("b0")))
	require.NoError(t, b.Publish(ctx, "ignored", []byte("x")))
	require.NoError(t, b.Publish(ctx, "a", []byte("a1")))

	sub := b.Subscribe("a", "b")
	var got []string
	for i := 0; i < 3; i++ {
		rec, err := sub.Fetch(ctx)
		require.NoError(t, err)
		got = append(got, rec.Topic+":"+string(rec.Value))
	}
	assert.Equal(t, []string{"a:a0", "b:b0", "a:a1"}, got)
	assert.Equal(t, 4, b.Len())
}

func TestMemBroker_OffsetsArePerTopic(t *testing.T) {
	b := NewMemBroker()
	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, "a", nil))
	require.NoError(t, b.Publish(ctx, "b", nil))
	require.NoError(t, b.Publish(ctx, "a", nil))

	sub := b.Subscribe("a")
	first, err := sub.Fetch(ctx)
	require.NoError(t, err)
	second, err := sub.Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(0), first.Offset)
	assert.Equal(t, int64(1), second.Offset)
	assert.Nil(t, first.Key)
}

func TestMemSubscriber_FetchBlocksUntilPublish(t *testing.T) {
	b := NewMemBroker()
	sub := b.Subscribe("t")

	got := make(chan Record, 1)
	go func() {
		rec, err := sub.Fetch(context.Background())
		if err == nil {
			got <- rec
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Publish(context.Background(), "t", []byte("late")))

	select {
	case rec := <-got:
		assert.Equal(t, "late", string(rec.Value))
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not wake up after publish")
	}
}

func TestMemSubscriber_FetchHonorsContext(t *testing.T) {
	b := NewMemBroker()
	sub := b.Subscribe("t")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := sub.Fetch(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestMemBroker_CloseUnblocksAndRejects(t *testing.T) {
	b := NewMemBroker()
	sub := b.Subscribe("t")

	errc := make(chan error, 1)
	go func() {
		_, err := sub.Fetch(context.Background())
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Close())

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after close")
	}
	assert.ErrorIs(t, b.Publish(context.Background(), "t", nil), ErrClosed)
}

func TestMemSubscriber_Close(t *testing.T) {
	b := NewMemBroker()
	sub := b.Subscribe("t")
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, err := sub.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
