package models

import (
	"encoding/json"
	"time"
)

// PipelineState is the current snapshot of what the consumer has observed.
type PipelineState struct {
	ID               int             `json:"id"`
	SensorID         string          `json:"sensor_id,omitempty"`
	LastWaterLevel   int             `json:"last_water_level"`
	LastAlarmButton  bool            `json:"last_alarm_button"`
	LastCurrentValue int             `json:"last_current_value"`
	LastAlert        json.RawMessage `json:"last_alert,omitempty"`
	SensorCount      int64           `json:"sensor_count"`
	CurrentCount     int64           `json:"current_count"`
	AlertCount       int64           `json:"alert_count"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
