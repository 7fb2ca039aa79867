package pipeline

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	ferrors "git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/metrics"
	"git.home.luguber.info/inful/pluginlit/internal/notify"
)

// NewSettingsSync builds the settings sync pipeline: SyncEditorSettings, End.
func NewSettingsSync(env *Env) *Pipeline {
	env = env.withDefaults()
	return New(WithLogger(env.Logger), WithRecorder(env.Recorder)).
		AddNext(SyncEditorSettings(env)).
		AddNext(End(env))
}

// NewFullBuild builds the full build pipeline: SyncEditorSettings,
// PrepareAssets, ExportProject, End.
func NewFullBuild(env *Env) *Pipeline {
	env = env.withDefaults()
	return New(WithLogger(env.Logger), WithRecorder(env.Recorder)).
		AddNext(SyncEditorSettings(env)).
		AddNext(PrepareAssets(env)).
		AddNext(ExportProject(env)).
		AddNext(End(env))
}

// RunSettingsSync marks bc as a pre-build and runs the settings sync pipeline.
func RunSettingsSync(ctx context.Context, bc *buildctx.Context, env *Env) Outcome {
	bc.TaskType = buildctx.TaskPreBuild
	return Run(ctx, NewSettingsSync(env), bc, env)
}

// RunFullBuild marks bc as a project build and runs the full build pipeline.
func RunFullBuild(ctx context.Context, bc *buildctx.Context, env *Env) Outcome {
	bc.TaskType = buildctx.TaskBuildProject
	return Run(ctx, NewFullBuild(env), bc, env)
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	Err      error
	ExitCode int
}

// Success reports whether every stage completed.
func (o Outcome) Success() bool { return o.Err == nil }

// Run publishes bc as the current context, executes p, and reports the
// outcome to metrics and the result publisher. Exit code 0 means success;
// any stage failure maps to 1. Run never exits the process.
func Run(ctx context.Context, p *Pipeline, bc *buildctx.Context, env *Env) Outcome {
	env = env.withDefaults()
	buildctx.SetCurrent(bc)
	defer buildctx.ClearCurrent()

	log := env.Logger.With(
		logfields.BuildID(bc.BuildID),
		logfields.Channel(bc.Channel),
		logfields.Platform(string(bc.Platform)),
		logfields.TaskType(bc.TaskType.String()))
	log.Info("Build started")

	start := time.Now()
	err := p.Execute(ctx, bc)
	env.Recorder.ObserveBuildDuration(time.Since(start))

	out := Outcome{Err: err}
	switch {
	case err == nil:
		env.Recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		log.Info("Build completed", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	case isCanceled(err):
		out.ExitCode = 1
		env.Recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		log.Warn("Build canceled", logfields.Error(err))
	default:
		out.ExitCode = 1
		env.Recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		log.Error("Build failed", logfields.Error(err))
	}

	msg := notify.Result{
		BuildID:  bc.BuildID,
		Channel:  bc.Channel,
		Platform: string(bc.Platform),
		Task:     bc.TaskType.String(),
		Success:  err == nil,
		ExitCode: out.ExitCode,
	}
	if err != nil {
		msg.Error = err.Error()
	} else {
		msg.Results = ResultEntries(bc)
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if perr := env.Publisher.Publish(pubCtx, msg); perr != nil {
		log.Warn("Cannot publish build result", logfields.Error(perr))
	}
	return out
}

func isCanceled(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Kind == StageErrorCanceled
}

// Terminator decides how a finished run ends the process. Unattended runs
// hand failures to the error adapter, which prints them and exits with the
// outcome's code; interactive runs return the error to the operator.
type Terminator struct {
	Unattended bool
	Adapter    *ferrors.CLIErrorAdapter
}

// Finish applies the termination policy to o.
func (t Terminator) Finish(o Outcome) error {
	if o.Err == nil || !t.Unattended {
		return o.Err
	}
	t.Adapter.HandleError(o.Err)
	return o.Err
}
