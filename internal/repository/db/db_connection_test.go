package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"water_telemetry/internal/models"
	"water_telemetry/internal/repository"
)

func TestInitDB_CreatesSchemaAndRoundTripsThroughRepositories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.db")

	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	ctx := context.Background()

	empty, err := repos.StateRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if empty.ID != 0 {
		t.Fatalf("expected no state yet, got %+v", empty)
	}

	at := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	want := models.PipelineState{
		SensorID:         "sensor-01",
		LastWaterLevel:   9321,
		LastCurrentValue: 17,
		LastAlert:        json.RawMessage(`{"NIVELAGUA":9321}`),
		SensorCount:      3,
		CurrentCount:     3,
		AlertCount:       1,
		UpdatedAt:        at,
	}
	if err := repos.StateRepo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repos.StateRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != 1 || got.LastWaterLevel != 9321 || got.AlertCount != 1 || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected state: %+v", got)
	}

	if err := repos.EventRepo.Append(ctx, models.PipelineEvent{Type: models.EventAlert, Description: "alert"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	events, err := repos.EventRepo.List(ctx, time.Time{}, time.Time{}, models.EventAlert)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 || events[0].Description != "alert" {
		t.Fatalf("unexpected events: %+v", events)
	}

	id, err := repos.Operators.Create("ops", "hash")
	if err != nil || id == 0 {
		t.Fatalf("Create operator: id=%d err=%v", id, err)
	}
	op, err := repos.Operators.GetByUsername("ops")
	if err != nil || op == nil || op.PasswordHash != "hash" {
		t.Fatalf("GetByUsername: %+v, %v", op, err)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.db")
	for i := 0; i < 2; i++ {
		conn, err := InitDB(path)
		if err != nil {
			t.Fatalf("InitDB #%d: %v", i+1, err)
		}
		_ = conn.Close()
	}
}
