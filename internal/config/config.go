package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/normalization"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// DefaultFile is the project configuration file name looked up by the CLI.
const DefaultFile = "pluginlit.yaml"

// Config is the project configuration: the values the build core consumes
// from the host project (paths, player version strings, editor defaults)
// plus the ambient settings of the tool itself.
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Player   PlayerConfig   `yaml:"player"`
	Editor   EditorConfig   `yaml:"editor"`
	Settings SettingsConfig `yaml:"settings"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	Notify   NotifyConfig   `yaml:"notify,omitempty"`
}

// ProjectConfig locates the host project on disk.
type ProjectConfig struct {
	// Root defaults to the directory holding the configuration file.
	Root            string   `yaml:"root,omitempty"`
	Platform        Platform `yaml:"platform"`
	StreamingAssets string   `yaml:"streaming_assets"`
	ChannelsDir     string   `yaml:"channels_dir"`
	GradleTemplates string   `yaml:"gradle_templates,omitempty"`
	// ArgMarker prefixes command-line keys.
	ArgMarker string `yaml:"arg_marker,omitempty"`
}

// PlayerConfig holds the host's player settings the build context starts from.
type PlayerConfig struct {
	VersionName        string              `yaml:"version_name"`
	AndroidVersionCode int                 `yaml:"android_version_code"`
	IOSBuildNumber     string              `yaml:"ios_build_number"`
	BundleIDs          map[Platform]string `yaml:"bundle_ids,omitempty"`
	HostVersion        string              `yaml:"host_version,omitempty"`
}

// EditorConfig holds interactive build defaults.
type EditorConfig struct {
	Channel     string `yaml:"channel"`
	VersionName string `yaml:"version_name,omitempty"`
	VersionCode int    `yaml:"version_code,omitempty"`
	Build       int    `yaml:"build"`
	ProductMode bool   `yaml:"product_mode,omitempty"`
	Debug       bool   `yaml:"debug,omitempty"`
	// CommandsSimulation is parsed like process arguments in interactive builds.
	CommandsSimulation []string `yaml:"commands_simulation,omitempty"`
}

// SettingsDriver selects the named-settings store implementation.
type SettingsDriver string

const (
	SettingsDriverYAML   SettingsDriver = "yaml"
	SettingsDriverSQLite SettingsDriver = "sqlite"
)

var settingsDriverNormalizer = normalization.NewNormalizer("settings driver", map[string]SettingsDriver{
	"yaml":    SettingsDriverYAML,
	"yml":     SettingsDriverYAML,
	"sqlite":  SettingsDriverSQLite,
	"sqlite3": SettingsDriverSQLite,
}, SettingsDriverYAML)

// SettingsConfig configures where named settings objects are persisted.
type SettingsConfig struct {
	Driver SettingsDriver `yaml:"driver"`
	Path   string         `yaml:"path"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// NotifyConfig enables build result publishing over NATS when URL is set.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot resolve configuration path").Fatal().Build()
	}
	for _, env := range loadEnvFiles(filepath.Dir(abs)) {
		slog.Debug("Loaded environment file", logfields.Path(env))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext(logfields.KeyPath, abs).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext(logfields.KeyPath, abs).
			Build()
	}

	cfg, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration YAML. Relative project paths resolve against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := cfg.applyDefaults(baseDir); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(baseDir string) error {
	if c.Project.Root == "" {
		c.Project.Root = baseDir
	} else if !filepath.IsAbs(c.Project.Root) {
		c.Project.Root = filepath.Join(baseDir, c.Project.Root)
	}
	platform, err := NormalizePlatform(string(c.Project.Platform))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid project platform").Fatal().Build()
	}
	c.Project.Platform = platform
	if c.Project.StreamingAssets == "" {
		c.Project.StreamingAssets = filepath.Join("Assets", "StreamingAssets")
	}
	if c.Project.ChannelsDir == "" {
		c.Project.ChannelsDir = "channels"
	}
	if c.Project.ArgMarker == "" {
		c.Project.ArgMarker = "-"
	}
	if c.Player.VersionName == "" {
		c.Player.VersionName = "1.0.0"
	}
	if c.Player.IOSBuildNumber == "" {
		c.Player.IOSBuildNumber = "0"
	}

	driver, err := settingsDriverNormalizer.NormalizeWithError(string(c.Settings.Driver))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid settings driver").Fatal().Build()
	}
	c.Settings.Driver = driver
	if c.Settings.Path == "" {
		if driver == SettingsDriverSQLite {
			c.Settings.Path = filepath.Join(".pluginlit", "settings.db")
		} else {
			c.Settings.Path = filepath.Join(".pluginlit", "settings")
		}
	}

	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))

	if c.Notify.URL != "" && c.Notify.Subject == "" {
		c.Notify.Subject = "pluginlit.build.result"
	}
	return nil
}

// Resolve returns p unchanged when absolute, otherwise joined onto the project root.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.Root, p)
}

// BundleID returns the configured bundle identifier for platform.
func (c *Config) BundleID(p Platform) string {
	return c.Player.BundleIDs[p]
}
