package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/mainthread"
	"git.home.luguber.info/inful/pluginlit/internal/pipeline"
	"git.home.luguber.info/inful/pluginlit/internal/watch"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Platform string   `short:"p" help:"Override the active platform (android|ios|webgl)"`
	Watch    bool     `short:"w" help:"Re-run whenever the configuration or a channel file changes"`
	Args     []string `arg:"" optional:"" passthrough:"" help:"Build arguments (batch mode), e.g. -- -channel store"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return s.run(ctx, g, root)
}

func (s *SyncCmd) run(ctx context.Context, g *Global, root *CLI) error {
	out := s.once(ctx, g, root)
	if !s.Watch {
		return terminator(g, root).Finish(out)
	}
	if out.Err != nil {
		g.Logger.Error("Initial sync failed; waiting for changes", logfields.Error(out.Err))
	}
	return s.watch(ctx, g, root)
}

func (s *SyncCmd) once(ctx context.Context, g *Global, root *CLI) pipeline.Outcome {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	platform, err := resolvePlatform(s.Platform, cfg)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	bc, err := loadContext(g, root, cfg, platform, s.Args)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	rt, err := openRuntime(g, cfg)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	defer rt.Close()
	return pipeline.RunSettingsSync(ctx, bc, rt.env)
}

// watch re-syncs on every debounced change until interrupted. Failed runs
// are logged and do not stop watching.
func (s *SyncCmd) watch(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	q := mainthread.New(g.Logger)
	defer q.Close()

	w, err := watch.New(q, func() error {
		return s.once(ctx, g, root).Err
	}, watch.DefaultDebounce, g.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	for _, p := range []string{root.Config, cfg.Resolve(cfg.Project.ChannelsDir)} {
		if err := w.Add(p); err != nil {
			return err
		}
	}
	w.Start(ctx)
	g.Logger.Info("Watching for changes", logfields.Path(root.Config))

	if err := q.Loop(ctx, pipeline.DefaultPollInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
