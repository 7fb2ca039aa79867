package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	ferrors "git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/metrics"
)

// Pipeline runs tasks one after another on the calling goroutine.
type Pipeline struct {
	tasks    []Task
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage tracing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder for stage timings and results.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:   slog.Default().With(logfields.Component("pipeline")),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddNext appends a task and returns the pipeline for chaining.
func (p *Pipeline) AddNext(t Task) *Pipeline {
	p.tasks = append(p.tasks, t)
	return p
}

// Stages returns the names of the queued tasks in execution order.
func (p *Pipeline) Stages() []StageName {
	out := make([]StageName, len(p.tasks))
	for i, t := range p.tasks {
		out[i] = t.Name()
	}
	return out
}

// Execute runs the tasks in order and stops at the first failure, which is
// returned as a *StageError. Later tasks do not run.
func (p *Pipeline) Execute(ctx context.Context, bc *buildctx.Context) error {
	for _, t := range p.tasks {
		name := t.Name()
		if err := ctx.Err(); err != nil {
			p.recorder.IncStageResult(string(name), metrics.ResultCanceled)
			return newCanceledStageError(name, err)
		}

		log := p.logger.With(logfields.Stage(string(name)), logfields.BuildID(bc.BuildID))
		log.Debug("Stage started")
		t0 := time.Now()
		err := runTask(ctx, t, bc)
		dur := time.Since(t0)
		p.recorder.ObserveStageDuration(string(name), dur)

		if err != nil {
			se := classifyStageError(name, err)
			if se.Kind == StageErrorCanceled {
				p.recorder.IncStageResult(string(name), metrics.ResultCanceled)
			} else {
				p.recorder.IncStageResult(string(name), metrics.ResultFatal)
			}
			log.Error("Stage failed", logfields.DurationMS(float64(dur.Milliseconds())), logfields.Error(err))
			return se
		}
		p.recorder.IncStageResult(string(name), metrics.ResultSuccess)
		log.Debug("Stage completed", logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}

func classifyStageError(name StageName, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newCanceledStageError(name, err)
	}
	return newFatalStageError(name, err)
}

func runTask(ctx context.Context, t Task, bc *buildctx.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ferrors.InternalError(fmt.Sprintf("task panicked: %v", r)).
				WithContext(logfields.KeyStage, string(t.Name())).
				Build()
		}
	}()
	return t.Execute(ctx, bc)
}
