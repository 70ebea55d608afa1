package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"water_telemetry/internal/config"
	"water_telemetry/internal/ksql"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/metrics"
	"water_telemetry/internal/models"
	"water_telemetry/internal/repository"
)

// Action is an operator request against the derived alert stream.
type Action string

const (
	ActionCreate Action = "create"
	ActionDrop   Action = "drop"
)

var ErrUnknownAction = errors.New("unknown stream action")

const menu = "1 - Create alert filter\n2 - Drop alert filter\n"

// ParseAction maps a menu line to an action. ok is false for anything else.
func ParseAction(line string) (Action, bool) {
	switch strings.TrimSpace(line) {
	case "1":
		return ActionCreate, true
	case "2":
		return ActionDrop, true
	default:
		return "", false
	}
}

// ControllerService drives the alert stream in ksqlDB.
type ControllerService struct {
	cfg    config.KSQLConfig
	exec   StatementExecutor
	events repository.EventRepo
	log    *logger.Logger
}

// NewControllerService builds a controller. events may be nil.
func NewControllerService(cfg config.KSQLConfig, exec StatementExecutor, events repository.EventRepo, log *logger.Logger) *ControllerService {
	if log == nil {
		log = logger.Nop()
	}
	return &ControllerService{cfg: cfg, exec: exec, events: events, log: log}
}

// BuildCommand renders the statement for a.
func (c *ControllerService) BuildCommand(a Action) (models.StreamCommand, error) {
	switch a {
	case ActionCreate:
		return models.NewStreamCommand(fmt.Sprintf(
			"CREATE STREAM %s AS SELECT * FROM %s WHERE NivelAgua > %d;",
			c.cfg.AlertStream, c.cfg.SourceStream, c.cfg.Threshold,
		)), nil
	case ActionDrop:
		return models.NewStreamCommand(fmt.Sprintf("DROP STREAM %s DELETE TOPIC;", c.cfg.AlertStream)), nil
	default:
		return models.StreamCommand{}, fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
}

// Execute submits the statement for a and records the outcome in the event log.
func (c *ControllerService) Execute(ctx context.Context, a Action) (ksql.Response, error) {
	cmd, err := c.BuildCommand(a)
	if err != nil {
		return ksql.Response{}, err
	}

	resp, err := c.exec.Execute(ctx, cmd)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case resp.StatusCode >= 300:
		outcome = "rejected"
	}
	metrics.IncStreamCommand(string(a), outcome)
	c.record(ctx, a, cmd, resp, err)

	return resp, err
}

func (c *ControllerService) record(ctx context.Context, a Action, cmd models.StreamCommand, resp ksql.Response, execErr error) {
	if c.events == nil {
		return
	}
	ev := models.PipelineEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventCommand,
		Description: fmt.Sprintf("Stream command %s", a),
		Metadata: map[string]any{
			"ksql":   cmd.KSQL,
			"status": resp.StatusCode,
		},
	}
	if execErr != nil {
		ev.Type = models.EventError
		ev.Description = fmt.Sprintf("Stream command %s failed", a)
		ev.Metadata = map[string]any{"ksql": cmd.KSQL, "error": execErr.Error()}
	}
	if err := c.events.Append(ctx, ev); err != nil {
		c.log.Warnw("command_event_append_failed", "action", a, "err", err)
	}
}

// Run is the operator read-eval loop. Unrecognized lines send nothing. It
// returns nil when ctx is done or in reaches EOF.
func (c *ControllerService) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines, errc := readLines(ctx, in)
	for {
		fmt.Fprint(out, menu)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("read operator input: %w", err)
				}
			default:
			}
			c.log.Infow("operator_input_closed")
			return nil
		}

		action, ok := ParseAction(line)
		if !ok {
			continue
		}

		resp, err := c.Execute(ctx, action)
		if err != nil {
			c.log.Errorw("stream_command_failed", "action", action, "err", err)
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Status: %s\n", resp.Status)
		fmt.Fprintf(out, "Response: %s\n", resp.Body)
	}
}

// maxInputLine caps a menu line. Longer lines are discarded and read as empty.
const maxInputLine = 4096

// readLines reads in on its own goroutine so Run can observe ctx while blocked on input.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(in, maxInputLine)
		for {
			line, err := br.ReadSlice('\n')
			overlong := false
			for errors.Is(err, bufio.ErrBufferFull) {
				overlong = true
				_, err = br.ReadSlice('\n')
			}
			if errors.Is(err, io.EOF) && len(line) == 0 && !overlong {
				errc <- nil
				return
			}

			text := ""
			if !overlong {
				text = string(line)
			}
			select {
			case lines <- text:
			case <-ctx.Done():
				return
			}

			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errc <- err
				return
			}
		}
	}()
	return lines, errc
}
