package pipeline

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/mainthread"
	"git.home.luguber.info/inful/pluginlit/internal/metrics"
	"git.home.luguber.info/inful/pluginlit/internal/notify"
	"git.home.luguber.info/inful/pluginlit/internal/settings"
)

// DefaultPollInterval is how often a waiting stage drains the action queue.
const DefaultPollInterval = 50 * time.Millisecond

// Env carries the collaborators stages use. Zero fields get defaults: the
// default hook registry, no settings persistence, the directory exporter, a
// fresh action queue, the default logger, no metrics and no publishing.
type Env struct {
	Hooks     *hook.Registry
	Settings  settings.Store
	Exporter  Exporter
	Queue     *mainthread.Queue
	Publisher notify.Publisher
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	// WorkspaceDir holds per-build scratch directories; empty uses the system temp dir.
	WorkspaceDir string
	PollInterval time.Duration

	// tagged is set once Logger carries the pipeline component.
	tagged bool
}

func (e *Env) withDefaults() *Env {
	out := Env{}
	if e != nil {
		out = *e
	}
	if out.Hooks == nil {
		out.Hooks = hook.Default()
	}
	if out.Exporter == nil {
		out.Exporter = DirExporter{}
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if !out.tagged {
		out.Logger = out.Logger.With(logfields.Component("pipeline"))
		out.tagged = true
	}
	if out.Queue == nil {
		out.Queue = mainthread.New(out.Logger)
	}
	if out.Publisher == nil {
		out.Publisher = notify.Noop{}
	}
	if out.Recorder == nil {
		out.Recorder = metrics.NoopRecorder{}
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	return &out
}
