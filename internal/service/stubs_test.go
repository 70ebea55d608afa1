package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/ksql"
	"water_telemetry/internal/models"
)

// ---- Test doubles shared by the service tests ----

// stateRepoStub keeps the last saved snapshot in memory.
type stateRepoStub struct {
	mu      sync.Mutex
	current models.PipelineState
	saves   int
	loadErr error
}

func (s *stateRepoStub) Save(ctx context.Context, st models.PipelineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = st
	s.saves++
	return nil
}

func (s *stateRepoStub) Load(ctx context.Context) (models.PipelineState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loadErr
}

func (s *stateRepoStub) snapshot() models.PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// eventRepoStub records appends and the last List arguments.
type eventRepoStub struct {
	mu      sync.Mutex
	appends []models.PipelineEvent

	gotFrom, gotTo time.Time
	gotType        string
	listResp       []models.PipelineEvent
}

func (e *eventRepoStub) Append(ctx context.Context, ev models.PipelineEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appends = append(e.appends, ev)
	return nil
}

func (e *eventRepoStub) List(ctx context.Context, from, to time.Time, typ string) ([]models.PipelineEvent, error) {
	e.gotFrom, e.gotTo, e.gotType = from, to, typ
	return e.listResp, nil
}

func (e *eventRepoStub) events() []models.PipelineEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.PipelineEvent(nil), e.appends...)
}

// publisherStub captures published messages and fails once failAt calls are reached.
type publisherStub struct {
	mu     sync.Mutex
	msgs   []broker.Record
	failAt int // 1-based; 0 never fails
	calls  int
	delay  time.Duration
	starts []time.Time
}

func (p *publisherStub) Publish(ctx context.Context, topic string, value []byte) error {
	p.mu.Lock()
	p.starts = append(p.starts, time.Now())
	p.mu.Unlock()
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failAt > 0 && p.calls >= p.failAt {
		return errors.New("broker unavailable")
	}
	p.msgs = append(p.msgs, broker.Record{Topic: topic, Value: value})
	return nil
}

func (p *publisherStub) Close() error { return nil }

// subscriberStub replays a scripted sequence of fetch results, then blocks until ctx ends.
type subscriberStub struct {
	mu     sync.Mutex
	script []fetchResult
	done   chan struct{}
	once   sync.Once
}

type fetchResult struct {
	rec broker.Record
	err error
}

func newSubscriberStub(script ...fetchResult) *subscriberStub {
	return &subscriberStub{script: script, done: make(chan struct{})}
}

func (s *subscriberStub) Fetch(ctx context.Context) (broker.Record, error) {
	s.mu.Lock()
	if len(s.script) > 0 {
		r := s.script[0]
		s.script = s.script[1:]
		s.mu.Unlock()
		return r.rec, r.err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	<-ctx.Done()
	return broker.Record{}, ctx.Err()
}

func (s *subscriberStub) Close() error { return nil }

// handlerStub counts dispatched records per channel.
type handlerStub struct {
	sensors  []models.SensorReading
	currents []models.CurrentReading
	alerts   []models.AlertRecord
	failOn   string
}

func (h *handlerStub) HandleSensor(ctx context.Context, r models.SensorReading, rec broker.Record) error {
	h.sensors = append(h.sensors, r)
	if h.failOn == "sensor" {
		return errors.New("sensor handler failed")
	}
	return nil
}

func (h *handlerStub) HandleCurrent(ctx context.Context, r models.CurrentReading, rec broker.Record) error {
	h.currents = append(h.currents, r)
	return nil
}

func (h *handlerStub) HandleAlert(ctx context.Context, a models.AlertRecord, rec broker.Record) error {
	h.alerts = append(h.alerts, a)
	return nil
}

// executorStub records submitted stream commands.
type executorStub struct {
	mu   sync.Mutex
	cmds []models.StreamCommand
	resp ksql.Response
	err  error
}

func (x *executorStub) Execute(ctx context.Context, cmd models.StreamCommand) (ksql.Response, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.cmds = append(x.cmds, cmd)
	return x.resp, x.err
}

func (x *executorStub) commands() []models.StreamCommand {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]models.StreamCommand(nil), x.cmds...)
}
