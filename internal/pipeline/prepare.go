package pipeline

import (
	"context"
	"os"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/fsutil"
	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

type prepareAssets struct{ env *Env }

// PrepareAssets runs the PrepareAssetsBeforeBuild handlers, then copies the
// channel's extra streaming assets into the project's streaming assets.
func PrepareAssets(env *Env) Task {
	return &prepareAssets{env: env.withDefaults()}
}

func (t *prepareAssets) Name() StageName { return StagePrepareAssets }

func (t *prepareAssets) Execute(ctx context.Context, bc *buildctx.Context) error {
	if err := hook.Invoke(ctx, t.env.Hooks, PrepareAssetsBeforeBuild, BuildTools, bc); err != nil {
		return err
	}

	ch := bc.ChannelConfig()
	if ch == nil || len(ch.ExtendStreamingAssets) == 0 {
		return nil
	}
	dst := bc.Project.Resolve(bc.Project.Project.StreamingAssets)
	for _, p := range ch.ExtendStreamingAssets {
		src := bc.Project.Resolve(p)
		if _, err := os.Stat(src); err != nil {
			t.env.Logger.Warn("Streaming asset not found", logfields.Path(src))
			continue
		}
		if err := fsutil.CopyPath(src, dst); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot copy streaming asset").
				WithContext(logfields.KeyPath, src).
				Build()
		}
		t.env.Logger.Debug("Copied streaming asset", logfields.Path(src))
	}
	return nil
}
