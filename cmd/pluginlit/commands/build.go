package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/pluginlit/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Platform string   `short:"p" help:"Override the active platform (android|ios|webgl)"`
	Args     []string `arg:"" optional:"" passthrough:"" help:"Build arguments (batch mode), e.g. -- -channel store -versionName 1.2.0"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return terminator(g, root).Finish(b.run(ctx, g, root))
}

func (b *BuildCmd) run(ctx context.Context, g *Global, root *CLI) pipeline.Outcome {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	platform, err := resolvePlatform(b.Platform, cfg)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	// Loading errors surface here, before any stage runs.
	bc, err := loadContext(g, root, cfg, platform, b.Args)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	rt, err := openRuntime(g, cfg)
	if err != nil {
		return pipeline.Outcome{Err: err, ExitCode: 1}
	}
	defer rt.Close()
	return pipeline.RunFullBuild(ctx, bc, rt.env)
}
