package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
)

// StageName is a strongly-typed identifier for a pipeline task.
type StageName string

// Canonical stage names.
const (
	StageSyncEditorSettings StageName = "sync_editor_settings"
	StagePrepareAssets      StageName = "prepare_assets"
	StageExportProject      StageName = "export_project"
	StageEnd                StageName = "end"
)

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failed stage and cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// Task is one step of a pipeline.
type Task interface {
	Name() StageName
	Execute(ctx context.Context, bc *buildctx.Context) error
}

// TaskFunc adapts a function to a Task.
type TaskFunc struct {
	Stage StageName
	Fn    func(ctx context.Context, bc *buildctx.Context) error
}

func (t TaskFunc) Name() StageName { return t.Stage }

func (t TaskFunc) Execute(ctx context.Context, bc *buildctx.Context) error {
	return t.Fn(ctx, bc)
}
