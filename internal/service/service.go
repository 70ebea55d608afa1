package service

import (
	"context"
	"io"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/config"
	"water_telemetry/internal/ksql"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/models"
	"water_telemetry/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes the latest pipeline snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.PipelineState, error)
}

// EventLog exposes the append-only alert/command log.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PipelineEvent, error)
}

// Producer publishes one sensor and one current reading per tick until ctx ends.
type Producer interface {
	Run(ctx context.Context) error
}

// Consumer receives from the sensor, current and alert topics until ctx ends.
type Consumer interface {
	Run(ctx context.Context) error
}

// Controller turns operator input into ksqlDB stream commands.
type Controller interface {
	Run(ctx context.Context, in io.Reader, out io.Writer) error
	Execute(ctx context.Context, a Action) (ksql.Response, error)
}

// StatementExecutor is the part of the ksqlDB client the controller needs.
type StatementExecutor interface {
	Execute(ctx context.Context, cmd models.StreamCommand) (ksql.Response, error)
}

// Service aggregates everything the HTTP layer and main need.
type Service struct {
	Monitoring
	EventLog
	Authorization

	Producer   Producer
	Consumer   Consumer
	Controller Controller
}

// Deps are the adapters each loop owns. Publisher and Subscriber are never shared across loops.
type Deps struct {
	Repos      *repository.Repository
	Publisher  broker.Publisher
	Subscriber broker.Subscriber
	KSQL       StatementExecutor
	Log        *logger.Logger
}

func NewService(cfg config.Config, d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	recorder := NewPipelineRecorder(d.Repos.StateRepo, d.Repos.EventRepo, log.Named("recorder"))
	return &Service{
		Monitoring:    NewMonitoringService(d.Repos.StateRepo),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Authorization: NewAuthService(d.Repos.Operators, cfg.Auth),
		Producer:      NewProducerService(cfg, d.Publisher, log.Named("producer"), nil),
		Consumer:      NewConsumerService(cfg, d.Subscriber, recorder, log.Named("consumer")),
		Controller:    NewControllerService(cfg.KSQL, d.KSQL, d.Repos.EventRepo, log.Named("controller")),
	}
}
