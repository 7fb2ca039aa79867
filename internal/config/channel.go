package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// Channel is a named build variant: distribution target specific settings
// plus the native project fragments merged into exported projects.
type Channel struct {
	Name                  string         `yaml:"name"`
	Platform              Platform       `yaml:"platform"`
	PackageName           string         `yaml:"package_name,omitempty"`
	ShowSplashLogo        bool           `yaml:"show_splash_logo"`
	ExtendStreamingAssets []string       `yaml:"extend_streaming_assets,omitempty"`
	Export                ExportConfig   `yaml:"export"`
	Android               AndroidChannel `yaml:"android,omitempty"`
	IOS                   IOSChannel     `yaml:"ios,omitempty"`
}

// ExportConfig names the directory holding the host's exported native project.
type ExportConfig struct {
	Source string `yaml:"source"`
}

// AndroidChannel carries manifest fragments and package visibility queries.
type AndroidChannel struct {
	ManifestFragments []string `yaml:"manifest_fragments,omitempty"`
	Queries           []string `yaml:"queries,omitempty"`
	MergeKeys         []string `yaml:"merge_keys,omitempty"`
	Strict            bool     `yaml:"strict,omitempty"`
}

// IOSChannel carries Info.plist fragments.
type IOSChannel struct {
	PlistFragments []string `yaml:"plist_fragments,omitempty"`
	Strict         bool     `yaml:"strict,omitempty"`
}

// IsMatchToPlatform reports whether the channel was authored for p.
func (c *Channel) IsMatchToPlatform(p Platform) bool {
	return c != nil && c.Platform == p
}

// ChannelPath returns the file a channel called name is read from.
func (c *Config) ChannelPath(name string) string {
	return filepath.Join(c.Resolve(c.Project.ChannelsDir), name+".yaml")
}

// LoadChannel reads the channel called name and checks that it targets
// platform. A missing file or a platform mismatch is a configuration error.
func (c *Config) LoadChannel(name string, platform Platform) (*Channel, error) {
	path := c.ChannelPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("cannot load channel %s at platform %s", name, platform)).
			WithCause(err).
			WithContext(logfields.KeyChannel, name).
			WithContext(logfields.KeyPath, path).
			Build()
	}
	ch, err := ParseChannel(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid channel file %s", path)).
			Fatal().
			WithContext(logfields.KeyChannel, name).
			Build()
	}
	if ch.Name == "" {
		ch.Name = name
	}
	if !ch.IsMatchToPlatform(platform) {
		return nil, errors.ConfigError(fmt.Sprintf("channel %s targets %s, which does not match platform %s", name, ch.Platform, platform)).
			WithContext(logfields.KeyChannel, name).
			WithContext(logfields.KeyPlatform, string(platform)).
			Build()
	}
	return ch, nil
}

// ParseChannel decodes a channel file.
func ParseChannel(data []byte) (*Channel, error) {
	var ch Channel
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &ch); err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(ch.Platform)) == "" {
		return nil, fmt.Errorf("channel %q does not declare a platform", ch.Name)
	}
	p, err := NormalizePlatform(string(ch.Platform))
	if err != nil {
		return nil, err
	}
	ch.Platform = p
	if len(ch.Android.MergeKeys) == 0 {
		ch.Android.MergeKeys = []string{"name"}
	}
	return &ch, nil
}
