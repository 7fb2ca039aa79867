package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/config"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/hook"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/native"
	"git.home.luguber.info/inful/pluginlit/internal/workspace"
	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

type exportProject struct{ env *Env }

// ExportProject exports the native project into the context's project path
// and post-processes it: OnCompileComplete handlers, channel fragments and
// the platform modify point, then BuildProjectCompleted and the result
// entries describing the exported project.
func ExportProject(env *Env) Task {
	return &exportProject{env: env.withDefaults()}
}

func (t *exportProject) Name() StageName { return StageExportProject }

func (t *exportProject) Execute(ctx context.Context, bc *buildctx.Context) error {
	cfg := bc.Project
	ch := bc.ChannelConfig()
	if ch == nil {
		return errors.ConfigError("no channel loaded").WithContext(logfields.KeyChannel, bc.Channel).Build()
	}
	if err := os.MkdirAll(bc.BuildPath, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot create build path").
			WithContext(logfields.KeyPath, bc.BuildPath).
			Build()
	}

	linkFile, err := t.writeLinkFile(bc)
	if err != nil {
		return err
	}

	if err := t.compileComplete(ctx, bc); err != nil {
		return err
	}

	req := ExportRequest{
		Platform:    bc.Platform,
		Source:      cfg.Resolve(ch.Export.Source),
		Dest:        bc.ProjectPath,
		LinkFile:    linkFile,
		Symbols:     bc.Symbols,
		Development: bc.DebugMode,
	}
	if err := t.export(ctx, bc, req); err != nil {
		return err
	}
	if err := t.modifyProject(ctx, bc, req.Dest); err != nil {
		return err
	}
	return t.projectCompleted(ctx, bc, req.Dest)
}

// writeLinkFile writes the preservation manifest into a scratch workspace
// that End removes.
func (t *exportProject) writeLinkFile(bc *buildctx.Context) (string, error) {
	doc, err := bc.LinkDocument()
	if err != nil || doc == nil {
		return "", err
	}
	ws := workspace.NewManager(t.env.WorkspaceDir)
	if err := ws.Create(); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot create build workspace").Build()
	}
	bc.AddTempPath(ws.Path())
	path, err := ws.WriteFile("link.xml", []byte(doc.String()))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot write linker manifest").Build()
	}
	return path, nil
}

func (t *exportProject) compileComplete(ctx context.Context, bc *buildctx.Context) error {
	if bc.TaskType == buildctx.TaskNone {
		return nil
	}
	if err := hook.Invoke(ctx, t.env.Hooks, OnCompileComplete, BuildTools, bc); err != nil {
		return err
	}
	bc.SetResult("showSplashLogo", bc.ChannelConfig().ShowSplashLogo)
	return nil
}

// export starts the exporter and waits for its completion, which arrives as
// a queued action that clears the context's waiting flag.
func (t *exportProject) export(ctx context.Context, bc *buildctx.Context, req ExportRequest) error {
	log := t.env.Logger.With(logfields.Path(req.Dest), logfields.Platform(string(req.Platform)))
	log.Info("Exporting project")

	var exportErr error
	bc.SetWaiting(true)
	err := t.env.Exporter.Export(ctx, req, func(err error) {
		qerr := t.env.Queue.Run(func() error {
			exportErr = err
			bc.SetWaiting(false)
			return nil
		})
		if qerr != nil {
			log.Warn("Export completion dropped", logfields.Error(qerr))
		}
	})
	if err != nil {
		bc.SetWaiting(false)
		return err
	}
	if err := t.env.Queue.Wait(ctx, t.env.PollInterval, func() bool { return !bc.Waiting() }); err != nil {
		return err
	}
	if exportErr != nil {
		return errors.WrapError(exportErr, errors.CategoryBuild, "export failed").
			Fatal().
			WithContext(logfields.KeyPath, req.Dest).
			Build()
	}
	log.Info("Exported project")
	return nil
}

func (t *exportProject) modifyProject(ctx context.Context, bc *buildctx.Context, exportPath string) error {
	if bc.TaskType != buildctx.TaskBuildProject {
		return nil
	}
	bc.ProjectPath = exportPath

	switch bc.Platform {
	case config.PlatformAndroid:
		return t.modifyAndroid(ctx, bc, exportPath)
	case config.PlatformIOS:
		return t.modifyIOS(ctx, bc, exportPath)
	case config.PlatformWebGL:
		return hook.Invoke(ctx, t.env.Hooks, WebGLProjectModify, BuildTools,
			hook.Pair[*buildctx.Context, string]{First: bc, Second: exportPath})
	}
	return nil
}

func (t *exportProject) modifyAndroid(ctx context.Context, bc *buildctx.Context, exportPath string) error {
	cfg := bc.Project
	ch := bc.ChannelConfig()
	if _, err := native.EnsureGradleWrapper(exportPath, cfg.Resolve(cfg.Project.GradleTemplates), t.env.Logger); err != nil {
		return err
	}
	proj, err := native.OpenAndroidProject(exportPath)
	if err != nil {
		return err
	}
	for i, raw := range ch.Android.ManifestFragments {
		frag, err := loadFragment(cfg, raw)
		if err != nil {
			return fragmentError(err, "manifest", i)
		}
		if err := proj.MergeManifest(frag, ch.Android.Strict, ch.Android.MergeKeys...); err != nil {
			return err
		}
	}
	for _, pkg := range ch.Android.Queries {
		if err := proj.AddQueries(pkg); err != nil {
			return err
		}
	}
	if err := hook.Invoke(ctx, t.env.Hooks, AndroidProjectModify, BuildTools,
		hook.Pair[*buildctx.Context, *native.AndroidProject]{First: bc, Second: proj}); err != nil {
		return err
	}
	return proj.Save()
}

func (t *exportProject) modifyIOS(ctx context.Context, bc *buildctx.Context, exportPath string) error {
	cfg := bc.Project
	ch := bc.ChannelConfig()
	proj, err := native.OpenXcodeProject(exportPath)
	if err != nil {
		return err
	}
	for i, raw := range ch.IOS.PlistFragments {
		frag, err := loadFragment(cfg, raw)
		if err != nil {
			return fragmentError(err, "plist", i)
		}
		if err := proj.MergePlist(frag, ch.IOS.Strict); err != nil {
			return err
		}
	}
	if err := hook.Invoke(ctx, t.env.Hooks, IOSProjectModify, BuildTools,
		hook.Pair[*buildctx.Context, *native.XcodeProject]{First: bc, Second: proj}); err != nil {
		return err
	}
	return proj.Save()
}

func (t *exportProject) projectCompleted(ctx context.Context, bc *buildctx.Context, exportPath string) error {
	if err := hook.Invoke(ctx, t.env.Hooks, BuildProjectCompleted, BuildTools,
		hook.Pair[*buildctx.Context, string]{First: bc, Second: exportPath}); err != nil {
		return err
	}

	cfg := bc.Project
	if cfg.Player.HostVersion != "" {
		bc.SetResult("hostVersion", cfg.Player.HostVersion)
	}
	bundleID := cfg.BundleID(bc.Platform)
	if bc.Platform == config.PlatformWebGL {
		bundleID = bc.ChannelConfig().PackageName
	}
	bc.SetResult("bundleId", bundleID)
	bc.SetResult("platform", bc.Platform.DisplayName())

	if bc.TaskType != buildctx.TaskBuildProject {
		return nil
	}
	abs, err := filepath.Abs(exportPath)
	if err != nil {
		return err
	}
	bc.SetResult("projectPath", abs)
	if bc.Platform == config.PlatformAndroid {
		sdk, err := (&native.AndroidProject{Root: exportPath}).TargetSdkVersion()
		if err != nil {
			t.env.Logger.Warn("Cannot read targetSdkVersion", logfields.Path(exportPath), logfields.Error(err))
			return nil
		}
		bc.SetResult("targetSdkVersion", sdk)
	}
	return nil
}

// loadFragment parses an inline XML fragment, or loads it from a file
// relative to the project root.
func loadFragment(cfg *config.Config, raw string) (*xmlmerge.Document, error) {
	if strings.HasPrefix(strings.TrimSpace(raw), "<") {
		return xmlmerge.ParseString(raw)
	}
	return xmlmerge.LoadFile(cfg.Resolve(raw))
}

func fragmentError(err error, kind string, index int) error {
	return errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid %s fragment #%d", kind, index)).
		Fatal().
		Build()
}
