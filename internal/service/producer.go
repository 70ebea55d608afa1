package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/config"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/metrics"
	"water_telemetry/internal/models"
)

// ProducerService simulates the water-level and current sensors.
type ProducerService struct {
	cfg    config.ProducerConfig
	topics config.Topics
	pub    broker.Publisher
	log    *logger.Logger
	rnd    *rand.Rand
	now    func() time.Time

	last time.Time
}

// NewProducerService builds a producer. A nil src seeds from the clock.
func NewProducerService(cfg config.Config, pub broker.Publisher, log *logger.Logger, src rand.Source) *ProducerService {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProducerService{
		cfg:    cfg.Producer,
		topics: cfg.Kafka.Topics,
		pub:    pub,
		log:    log,
		rnd:    rand.New(src),
		now:    time.Now,
	}
}

// Run publishes a cycle immediately, then waits a full interval after each
// acknowledged cycle before the next one. A publish failure ends the loop and
// is returned; ctx cancellation returns nil.
func (p *ProducerService) Run(ctx context.Context) error {
	t := time.NewTimer(p.cfg.Interval)
	defer t.Stop()

	p.log.Infow("producer_started", "interval", p.cfg.Interval, "sensor_id", p.cfg.SensorID)
	for {
		if err := p.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metrics.IncPublishError()
			p.log.Errorw("publish_failed", "err", err)
			return err
		}
		resetTimer(t, p.cfg.Interval)
		select {
		case <-ctx.Done():
			p.log.Infow("producer_stopped")
			return nil
		case <-t.C:
		}
	}
}

// Cycle generates one reading pair and publishes sensor then current,
// waiting for each acknowledgment.
func (p *ProducerService) Cycle(ctx context.Context) error {
	sensor, current := p.generate()

	sensorJSON, err := json.Marshal(sensor)
	if err != nil {
		return fmt.Errorf("encode sensor reading: %w", err)
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode current reading: %w", err)
	}

	if err := p.pub.Publish(ctx, p.topics.Sensor, sensorJSON); err != nil {
		return err
	}
	metrics.IncPublished(p.topics.Sensor)

	if err := p.pub.Publish(ctx, p.topics.Current, currentJSON); err != nil {
		return err
	}
	metrics.IncPublished(p.topics.Current)

	p.log.Debugw("readings_published", "sensor", string(sensorJSON), "current", string(currentJSON))
	return nil
}

// generate draws both readings; timestamps never go backwards within a run.
func (p *ProducerService) generate() (models.SensorReading, models.CurrentReading) {
	ts := p.now().UTC()
	if ts.Before(p.last) {
		ts = p.last
	}
	p.last = ts

	sensor := models.SensorReading{
		SensorID:    p.cfg.SensorID,
		WaterLevel:  p.cfg.WaterLevelMin + p.rnd.Intn(p.cfg.WaterLevelMax-p.cfg.WaterLevelMin),
		AlarmButton: false,
		Timestamp:   ts,
	}
	current := models.CurrentReading{
		SensorID:     p.cfg.SensorID,
		CurrentValue: p.cfg.CurrentMin + p.rnd.Intn(p.cfg.CurrentMax-p.cfg.CurrentMin),
	}
	return sensor, current
}

// resetTimer restarts t for d, draining a fire that was never received.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
