package broker

import (
	"testing"

	"water_telemetry/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestStartOffset(t *testing.T) {
	assert.Equal(t, kafka.FirstOffset, startOffset("earliest"))
	assert.Equal(t, kafka.LastOffset, startOffset("latest"))
	assert.Equal(t, kafka.FirstOffset, startOffset(""))
}

func TestNewKafkaPublisher_RequiresAckAndPerMessageTopic(t *testing.T) {
	p := NewKafkaPublisher(config.Default().Kafka)
	defer p.Close()

	assert.Equal(t, kafka.RequireOne, p.w.RequiredAcks)
	assert.Empty(t, p.w.Topic)
	assert.False(t, p.w.Async)
	// a lone message is flushed at once instead of waiting out the default 1s batch timer
	assert.Equal(t, 1, p.w.BatchSize)
	assert.Equal(t, publishFlushTimeout, p.w.BatchTimeout)
	assert.Less(t, p.w.BatchTimeout, config.Default().Producer.Interval/10)
}
