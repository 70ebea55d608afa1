package models

import "time"

// Event types written to the pipeline log.
const (
	EventAlert   = "ALERT"
	EventCommand = "COMMAND"
	EventError   = "ERROR"
)

// PipelineEvent is a single log entry.
type PipelineEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // ALERT | COMMAND | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
