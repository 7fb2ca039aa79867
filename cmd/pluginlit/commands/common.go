package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/config"
	ferrors "git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/git"
	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/metrics"
	"git.home.luguber.info/inful/pluginlit/internal/native"
	"git.home.luguber.info/inful/pluginlit/internal/notify"
	"git.home.luguber.info/inful/pluginlit/internal/pipeline"
	"git.home.luguber.info/inful/pluginlit/internal/settings"
	"git.home.luguber.info/inful/pluginlit/internal/version"
)

// Vars are the interpolation variables flag defaults refer to.
func Vars() kong.Vars {
	return kong.Vars{
		"version":    version.Version,
		"android_ns": native.AndroidNamespace,
	}
}

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	// Hooks is the registry builds dispatch to; nil means hook.Default().
	Hooks *hook.Registry
}

// NewGlobal returns the shared state for a CLI invocation writing to out.
func NewGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.Default(), Out: out}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pluginlit.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Batch   bool             `short:"b" help:"Unattended mode: read build arguments from the command line and exit with the build status"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file and default channel"`
	Sync  SyncCmd  `cmd:"" help:"Synchronize editor settings for the active channel"`
	Build BuildCmd `cmd:"" help:"Run the full build pipeline for the active channel"`
	Merge MergeCmd `cmd:"" help:"Merge XML fragments into a document"`
	Link  LinkCmd  `cmd:"" help:"Print the link preservation manifest"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the project configuration and reapplies logging from it.
// --verbose always wins over the configured level.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level.SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// resolvePlatform picks the --platform override or the configured platform.
func resolvePlatform(flag string, cfg *config.Config) (config.Platform, error) {
	if flag == "" {
		return cfg.Project.Platform, nil
	}
	p, err := config.NormalizePlatform(flag)
	if err != nil {
		return "", ferrors.ArgumentError(fmt.Sprintf("invalid platform %q", flag)).
			WithCause(err).
			WithContext("valid", config.Platforms()).
			Build()
	}
	return p, nil
}

// loadContext builds the context from editor settings, or from args when
// running unattended.
func loadContext(g *Global, root *CLI, cfg *config.Config, platform config.Platform, args []string) (*buildctx.Context, error) {
	opts := []buildctx.Option{
		buildctx.WithLogger(g.Logger),
		buildctx.WithRevisionResolver(git.Resolver(cfg.Project.Root)),
	}
	if root.Batch {
		return buildctx.FromArgs(cfg, platform, args, opts...)
	}
	if len(args) > 0 {
		g.Logger.Warn("Ignoring build arguments outside batch mode", slog.Int("count", len(args)))
	}
	return buildctx.FromSettings(cfg, platform, opts...)
}

// runtime owns the collaborators opened for one pipeline run.
type runtime struct {
	env      *pipeline.Env
	recorder *metrics.PrometheusRecorder
	textfile string
	logger   *slog.Logger
}

func openRuntime(g *Global, cfg *config.Config) (*runtime, error) {
	store, err := settings.Open(cfg)
	if err != nil {
		return nil, err
	}
	pub, err := notify.Open(cfg.Notify)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	hooks := g.Hooks
	if hooks == nil {
		hooks = hook.Default()
	}
	rec := metrics.NewPrometheusRecorder(nil)
	hooks.SetRecorder(rec)

	return &runtime{
		env: &pipeline.Env{
			Hooks:     hooks,
			Settings:  store,
			Publisher: pub,
			Logger:    g.Logger,
			Recorder:  rec,
		},
		recorder: rec,
		textfile: cfg.Resolve(cfg.Metrics.Textfile),
		logger:   g.Logger,
	}, nil
}

// Close flushes metrics and releases the settings store and publisher.
func (r *runtime) Close() {
	if r.textfile != "" {
		if err := r.recorder.WriteTextfile(r.textfile); err != nil {
			r.logger.Warn("Cannot write metrics textfile", logfields.Path(r.textfile), logfields.Error(err))
		}
	}
	if err := r.env.Publisher.Close(); err != nil {
		r.logger.Warn("Cannot close result publisher", logfields.Error(err))
	}
	if err := r.env.Settings.Close(); err != nil {
		r.logger.Warn("Cannot close settings store", logfields.Error(err))
	}
}

func terminator(g *Global, root *CLI) pipeline.Terminator {
	return pipeline.Terminator{
		Unattended: root.Batch,
		Adapter:    ferrors.NewCLIErrorAdapter(root.Verbose, g.Logger),
	}
}
