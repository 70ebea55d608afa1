package service

import (
	"context"
	"fmt"
	"time"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/models"
	"water_telemetry/internal/repository"
)

// RecordHandler receives decoded records, one method per channel.
type RecordHandler interface {
	HandleSensor(ctx context.Context, r models.SensorReading, rec broker.Record) error
	HandleCurrent(ctx context.Context, r models.CurrentReading, rec broker.Record) error
	HandleAlert(ctx context.Context, a models.AlertRecord, rec broker.Record) error
}

// PipelineRecorder folds consumed records into the pipeline snapshot and logs
// alerts. Only the consumer loop calls it.
type PipelineRecorder struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewPipelineRecorder(stateRepo repository.StateRepo, eventRepo repository.EventRepo, log *logger.Logger) *PipelineRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &PipelineRecorder{stateRepo: stateRepo, eventRepo: eventRepo, log: log, now: time.Now}
}

func (r *PipelineRecorder) HandleSensor(ctx context.Context, reading models.SensorReading, rec broker.Record) error {
	r.log.Debugw("sensor_received", "sensor_id", reading.SensorID, "water_level", reading.WaterLevel, "offset", rec.Offset)
	return r.update(ctx, func(st *models.PipelineState) {
		st.SensorID = reading.SensorID
		st.LastWaterLevel = reading.WaterLevel
		st.LastAlarmButton = reading.AlarmButton
		st.SensorCount++
	})
}

func (r *PipelineRecorder) HandleCurrent(ctx context.Context, reading models.CurrentReading, rec broker.Record) error {
	r.log.Debugw("current_received", "sensor_id", reading.SensorID, "current", reading.CurrentValue, "offset", rec.Offset)
	return r.update(ctx, func(st *models.PipelineState) {
		if st.SensorID == "" {
			st.SensorID = reading.SensorID
		}
		st.LastCurrentValue = reading.CurrentValue
		st.CurrentCount++
	})
}

func (r *PipelineRecorder) HandleAlert(ctx context.Context, alert models.AlertRecord, rec broker.Record) error {
	r.log.Warnw("alert_received", "topic", rec.Topic, "payload", string(alert.Payload))
	if err := r.update(ctx, func(st *models.PipelineState) {
		st.LastAlert = alert.Payload
		st.AlertCount++
	}); err != nil {
		return err
	}
	return r.eventRepo.Append(ctx, models.PipelineEvent{
		OccurredAt:  r.now().UTC(),
		Type:        models.EventAlert,
		Description: "Alert stream emitted a record",
		Metadata: map[string]any{
			"topic":     rec.Topic,
			"partition": rec.Partition,
			"offset":    rec.Offset,
			"payload":   alert.Payload,
		},
	})
}

// update applies fn to the stored snapshot, initializing it on first use.
func (r *PipelineRecorder) update(ctx context.Context, fn func(st *models.PipelineState)) error {
	st, err := r.stateRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load pipeline state: %w", err)
	}
	if st.ID == 0 {
		st = models.PipelineState{ID: 1}
	}
	fn(&st)
	st.UpdatedAt = r.now().UTC()
	if err := r.stateRepo.Save(ctx, st); err != nil {
		return fmt.Errorf("save pipeline state: %w", err)
	}
	return nil
}
