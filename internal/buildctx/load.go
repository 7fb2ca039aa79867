package buildctx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pluginlit/internal/cmdargs"
	"git.home.luguber.info/inful/pluginlit/internal/config"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// RevisionResolver turns a symbolic revision such as HEAD into a commit id.
type RevisionResolver func(ref string) (string, error)

type loader struct {
	logger   *slog.Logger
	revision RevisionResolver
}

// Option configures context loading.
type Option func(*loader)

// WithRevisionResolver resolves "-gitcommit HEAD" to a concrete revision.
func WithRevisionResolver(r RevisionResolver) Option {
	return func(l *loader) { l.revision = r }
}

// WithLogger sets the logger used while loading.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func newLoader(opts []Option) *loader {
	l := &loader{logger: slog.Default().With(logfields.Component("buildctx"))}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromSettings loads an interactive build context: editor settings first,
// then the simulated command arguments configured for the editor.
func FromSettings(cfg *config.Config, platform config.Platform, opts ...Option) (*Context, error) {
	l := newLoader(opts)
	c, err := reset(cfg, platform)
	if err != nil {
		return nil, err
	}
	ed := cfg.Editor
	if ed.Channel != "" {
		c.Channel = ed.Channel
	}
	c.Build = strconv.Itoa(ed.Build)
	if ed.VersionName != "" {
		c.VersionName = ed.VersionName
	}
	if ed.VersionCode != 0 {
		c.VersionCode = strconv.Itoa(ed.VersionCode)
	}
	c.DebugMode = ed.Debug
	c.ProductMode = ed.ProductMode
	l.logger.Debug("Loaded editor settings",
		slog.String("version_name", c.VersionName),
		slog.String("version_code", c.VersionCode))

	if err := l.applyArgs(c, ed.CommandsSimulation); err != nil {
		return nil, err
	}
	return c, nil
}

// FromArgs loads an unattended build context from process arguments
// (without the program name).
func FromArgs(cfg *config.Config, platform config.Platform, args []string, opts ...Option) (*Context, error) {
	l := newLoader(opts)
	c, err := reset(cfg, platform)
	if err != nil {
		return nil, err
	}
	if err := l.applyArgs(c, args); err != nil {
		return nil, err
	}
	return c, nil
}

func reset(cfg *config.Config, platform config.Platform) (*Context, error) {
	c := newContext(cfg)
	c.BuildID = uuid.NewString()
	c.Platform = platform
	c.VersionName = cfg.Player.VersionName
	switch platform {
	case config.PlatformAndroid:
		c.VersionCode = strconv.Itoa(cfg.Player.AndroidVersionCode)
	case config.PlatformIOS:
		c.VersionCode = cfg.Player.IOSBuildNumber
	case config.PlatformWebGL:
		c.VersionCode = "0"
	default:
		return nil, errors.ConfigError(fmt.Sprintf("platform %q is not supported", platform)).
			WithContext(logfields.KeyPlatform, string(platform)).
			Build()
	}
	c.BuildPath = filepath.Join(cfg.Project.Root, "Build")
	c.Channel = "default"
	c.Build = "0"
	return c, nil
}

func (l *loader) applyArgs(c *Context, tokens []string) error {
	args, err := cmdargs.Parse(tokens, c.Project.Project.ArgMarker)
	if err != nil {
		return err
	}
	c.Args = args
	c.DebugMode = c.DebugMode || args.Has("debug")
	c.ProductMode = c.ProductMode || args.Has("product")
	c.BuildPath = args.Get("path", c.BuildPath)
	c.Channel = args.Get("channel", c.Channel)
	c.VersionName = args.Get("versionname", c.VersionName)
	c.VersionCode = args.Get("versioncode", c.VersionCode)
	c.Build = args.Get("build", c.Build)

	c.PatchFiles = &PatchFiles{}
	if err := json.Unmarshal([]byte(args.Get("patchdata", "{}")), c.PatchFiles); err != nil {
		return errors.ArgumentError("patchdata is not valid JSON").WithCause(err).Build()
	}

	c.ResourceVersion = args.Get("gitcommit", "")
	if c.ResourceVersion == "HEAD" && l.revision != nil {
		rev, err := l.revision(c.ResourceVersion)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "cannot resolve gitcommit HEAD").Fatal().Build()
		}
		c.ResourceVersion = rev
	}
	if c.ResourceVersion == "" {
		c.ResourceVersion = c.VersionName + "-" + c.VersionCode
	}
	c.ProjectPath = filepath.Join(c.BuildPath, c.Channel)

	if patchFile := args.Get("patchfile", ""); patchFile != "" {
		data, err := os.ReadFile(patchFile)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot read patchfile").
				WithContext(logfields.KeyPath, patchFile).
				Build()
		}
		c.PatchFiles = &PatchFiles{}
		if err := json.Unmarshal(data, c.PatchFiles); err != nil {
			return errors.ArgumentError("patchfile is not valid JSON").
				WithCause(err).
				WithContext(logfields.KeyPath, patchFile).
				Build()
		}
	}

	attrs := make([]any, 0, len(args)+2)
	attrs = append(attrs, logfields.BuildID(c.BuildID), logfields.Channel(c.Channel))
	for _, k := range args.Keys() {
		attrs = append(attrs, slog.String("arg."+k, args[k]))
	}
	l.logger.Debug("Build arguments", attrs...)

	ch, err := c.Project.LoadChannel(c.Channel, c.Platform)
	if err != nil {
		return err
	}
	c.channel = ch
	return nil
}
