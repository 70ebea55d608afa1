package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/config"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/metrics"
	"water_telemetry/internal/models"
)

var errAlertNotJSON = errors.New("alert payload is not valid JSON")

// ConsumerService reads the raw and alert topics and routes each record by channel.
type ConsumerService struct {
	topics  config.Topics
	sub     broker.Subscriber
	handler RecordHandler
	log     *logger.Logger
	backoff *Backoff
}

func NewConsumerService(cfg config.Config, sub broker.Subscriber, handler RecordHandler, log *logger.Logger) *ConsumerService {
	if log == nil {
		log = logger.Nop()
	}
	return &ConsumerService{
		topics:  cfg.Kafka.Topics,
		sub:     sub,
		handler: handler,
		log:     log,
		backoff: NewBackoff(cfg.Consumer.BackoffInitial, cfg.Consumer.BackoffMax, true),
	}
}

// Run receives until ctx is done or the subscriber is closed. Receive errors
// are logged and retried after a capped backoff; they never end the loop.
func (c *ConsumerService) Run(ctx context.Context) error {
	c.log.Infow("consumer_started", "topics", c.topics.Names())
	for {
		rec, err := c.sub.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, broker.ErrClosed) {
				c.log.Infow("consumer_stopped")
				return nil
			}
			metrics.IncReceiveError()
			c.log.Errorw("receive_failed", "err", err)
			if werr := c.backoff.Wait(ctx); werr != nil {
				c.log.Infow("consumer_stopped")
				return nil
			}
			continue
		}
		c.backoff.Reset()
		c.dispatch(ctx, rec)
	}
}

// dispatch decodes rec according to its channel and hands it to the matching handler.
func (c *ConsumerService) dispatch(ctx context.Context, rec broker.Record) {
	ch := c.topics.Classify(rec.Topic)
	metrics.IncConsumed(ch.String())

	var err error
	switch ch {
	case models.ChannelSensor:
		var r models.SensorReading
		if err = json.Unmarshal(rec.Value, &r); err != nil {
			err = fmt.Errorf("decode sensor reading: %w", err)
			break
		}
		err = c.handler.HandleSensor(ctx, r, rec)
	case models.ChannelCurrent:
		var r models.CurrentReading
		if err = json.Unmarshal(rec.Value, &r); err != nil {
			err = fmt.Errorf("decode current reading: %w", err)
			break
		}
		err = c.handler.HandleCurrent(ctx, r, rec)
	case models.ChannelAlert:
		if !json.Valid(rec.Value) {
			err = errAlertNotJSON
			break
		}
		payload := append(json.RawMessage(nil), rec.Value...)
		err = c.handler.HandleAlert(ctx, models.AlertRecord{Payload: payload}, rec)
	default:
		c.log.Warnw("unexpected_topic", "topic", rec.Topic)
		return
	}

	if err != nil {
		c.log.Errorw("record_handling_failed",
			"channel", ch.String(), "topic", rec.Topic, "offset", rec.Offset, "err", err)
	}
}
