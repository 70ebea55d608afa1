package repository

import (
	"context"
	"database/sql"
	"time"

	"water_telemetry/internal/models"
)

type Operators interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// StateRepo persists the single pipeline snapshot row.
type StateRepo interface {
	Save(ctx context.Context, s models.PipelineState) error
	Load(ctx context.Context) (models.PipelineState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.PipelineEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PipelineEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
