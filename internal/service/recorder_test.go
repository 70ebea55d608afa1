package service

import (
	"context"
	"testing"
	"time"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/models"
)

func TestPipelineRecorder_FoldsReadingsIntoSnapshot(t *testing.T) {
	states := &stateRepoStub{}
	events := &eventRepoStub{}
	r := NewPipelineRecorder(states, events, nil)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }
	ctx := context.Background()

	if err := r.HandleSensor(ctx, models.SensorReading{SensorID: "s1", WaterLevel: 4200}, broker.Record{}); err != nil {
		t.Fatalf("HandleSensor: %v", err)
	}
	if err := r.HandleCurrent(ctx, models.CurrentReading{SensorID: "s1", CurrentValue: 17}, broker.Record{}); err != nil {
		t.Fatalf("HandleCurrent: %v", err)
	}

	st := states.snapshot()
	if st.ID != 1 || st.SensorID != "s1" {
		t.Fatalf("unexpected identity: %+v", st)
	}
	if st.LastWaterLevel != 4200 || st.LastCurrentValue != 17 {
		t.Fatalf("unexpected values: %+v", st)
	}
	if st.SensorCount != 1 || st.CurrentCount != 1 || st.AlertCount != 0 {
		t.Fatalf("unexpected counters: %+v", st)
	}
	if !st.UpdatedAt.Equal(fixed) {
		t.Fatalf("UpdatedAt = %v", st.UpdatedAt)
	}
	if len(events.events()) != 0 {
		t.Fatalf("readings must not be logged as events")
	}
}

func TestPipelineRecorder_AlertAppendsEvent(t *testing.T) {
	states := &stateRepoStub{}
	events := &eventRepoStub{}
	r := NewPipelineRecorder(states, events, nil)

	payload := []byte(`{"NIVELAGUA":9800}`)
	rec := broker.Record{Topic: "ALERTA_PERIGO", Offset: 5}
	if err := r.HandleAlert(context.Background(), models.AlertRecord{Payload: payload}, rec); err != nil {
		t.Fatalf("HandleAlert: %v", err)
	}

	st := states.snapshot()
	if st.AlertCount != 1 || string(st.LastAlert) != string(payload) {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	got := events.events()
	if len(got) != 1 || got[0].Type != models.EventAlert {
		t.Fatalf("expected one ALERT event, got %+v", got)
	}
	meta, ok := got[0].Metadata.(map[string]any)
	if !ok || meta["offset"] != int64(5) {
		t.Fatalf("unexpected metadata: %#v", got[0].Metadata)
	}
}
