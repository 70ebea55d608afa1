package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"water_telemetry/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	pipelineStateRowID = 1

	upsertStateSQL = `
		INSERT INTO pipeline_state (id, sensor_id, water_level, alarm_button, current_value, last_alert,
			sensor_count, current_count, alert_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sensor_id=excluded.sensor_id,
			water_level=excluded.water_level,
			alarm_button=excluded.alarm_button,
			current_value=excluded.current_value,
			last_alert=excluded.last_alert,
			sensor_count=excluded.sensor_count,
			current_count=excluded.current_count,
			alert_count=excluded.alert_count,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, sensor_id, water_level, alarm_button, current_value, last_alert,
			sensor_count, current_count, alert_count, updated_at
		FROM pipeline_state WHERE id=?
	`
)

// Save upserts the snapshot row (id always 1). UpdatedAt is stored in UTC.
func (r *StateSQLite) Save(ctx context.Context, state models.PipelineState) error {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	var alert sql.NullString
	if len(state.LastAlert) > 0 {
		alert = sql.NullString{String: string(state.LastAlert), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		pipelineStateRowID,
		state.SensorID,
		state.LastWaterLevel,
		state.LastAlarmButton,
		state.LastCurrentValue,
		alert,
		state.SensorCount,
		state.CurrentCount,
		state.AlertCount,
		ts,
	)
	return err
}

// Load returns the zero value with a nil error when nothing was saved yet.
func (r *StateSQLite) Load(ctx context.Context) (models.PipelineState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, pipelineStateRowID)

	var (
		s     models.PipelineState
		alert sql.NullString
	)
	if err := row.Scan(
		&s.ID,
		&s.SensorID,
		&s.LastWaterLevel,
		&s.LastAlarmButton,
		&s.LastCurrentValue,
		&alert,
		&s.SensorCount,
		&s.CurrentCount,
		&s.AlertCount,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PipelineState{}, nil
		}
		return models.PipelineState{}, err
	}

	if alert.Valid && alert.String != "" {
		if !json.Valid([]byte(alert.String)) {
			return models.PipelineState{}, errors.New("pipeline_state.last_alert is not valid JSON")
		}
		s.LastAlert = json.RawMessage(alert.String)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
