package pipeline

import (
	"context"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/settings"
)

// PluginsConfigKey holds the plugins configuration a settings sync rebuilds.
// OnSyncEditorSetting handlers fill it in.
var PluginsConfigKey = buildctx.NewKey[*settings.PluginsConfig]("pluginsConfig")

type syncEditorSettings struct{ env *Env }

// SyncEditorSettings recreates the plugins configuration, lets every
// OnSyncEditorSetting handler populate it, and saves it.
func SyncEditorSettings(env *Env) Task {
	return &syncEditorSettings{env: env.withDefaults()}
}

func (t *syncEditorSettings) Name() StageName { return StageSyncEditorSettings }

func (t *syncEditorSettings) Execute(ctx context.Context, bc *buildctx.Context) error {
	pc := settings.NewPluginsConfig()
	pc.Channel = bc.Channel
	pc.Platform = string(bc.Platform)
	buildctx.Set(bc, PluginsConfigKey, pc)

	if err := hook.Invoke(ctx, t.env.Hooks, OnSyncEditorSetting, BuildTools, bc); err != nil {
		return err
	}
	if t.env.Settings == nil {
		return nil
	}
	if err := t.env.Settings.Save(ctx, settings.PluginsConfigName, pc); err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "cannot save plugins config").Build()
	}
	t.env.Logger.Info("Synced plugins config", logfields.Sections(len(pc.Sections)))
	return nil
}
