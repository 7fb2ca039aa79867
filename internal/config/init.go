package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const exampleManifestFragment = `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
  <application>
    <meta-data android:name="pluginlit.channel" android:value="default"/>
  </application>
</manifest>
`

// Init writes an example configuration file and a default channel next to it.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Project: ProjectConfig{
			Platform:        PlatformAndroid,
			StreamingAssets: filepath.Join("Assets", "StreamingAssets"),
			ChannelsDir:     "channels",
		},
		Player: PlayerConfig{
			VersionName:        "1.0.0",
			AndroidVersionCode: 1,
			IOSBuildNumber:     "1",
			BundleIDs: map[Platform]string{
				PlatformAndroid: "com.example.game",
				PlatformIOS:     "com.example.game",
			},
		},
		Editor: EditorConfig{
			Channel: "default",
			Build:   0,
		},
		Settings: SettingsConfig{Driver: SettingsDriverYAML, Path: filepath.Join(".pluginlit", "settings")},
		Logging:  LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	channelsDir := filepath.Join(filepath.Dir(configPath), example.Project.ChannelsDir)
	if err := os.MkdirAll(channelsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create channels directory: %w", err)
	}
	channelPath := filepath.Join(channelsDir, "default.yaml")
	if _, err := os.Stat(channelPath); err == nil && !force {
		return nil
	}
	channel := Channel{
		Name:     "default",
		Platform: PlatformAndroid,
		Export:   ExportConfig{Source: filepath.Join("Export", "android")},
		Android: AndroidChannel{
			ManifestFragments: []string{exampleManifestFragment},
			MergeKeys:         []string{"name"},
		},
	}
	data, err = yaml.Marshal(&channel)
	if err != nil {
		return fmt.Errorf("failed to marshal channel: %w", err)
	}
	if err := os.WriteFile(channelPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write channel file: %w", err)
	}
	return nil
}
