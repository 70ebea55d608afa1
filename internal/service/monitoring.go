package service

import (
	"context"
	"time"

	"water_telemetry/internal/models"
	"water_telemetry/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted pipeline snapshot, or an empty
// baseline when nothing has been consumed yet.
func (s *MonitoringService) GetState(ctx context.Context) (models.PipelineState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.PipelineState{}, err
	}
	if state.ID == 0 {
		return baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

func baselineState() models.PipelineState {
	return models.PipelineState{
		ID:        1, // single-row table
		UpdatedAt: time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
