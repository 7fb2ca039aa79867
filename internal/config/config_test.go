package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	writeFile(t, path, "project:\n  platform: iPhone\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, PlatformIOS, cfg.Project.Platform)
	assert.Equal(t, "channels", cfg.Project.ChannelsDir)
	assert.Equal(t, "-", cfg.Project.ArgMarker)
	assert.Equal(t, "1.0.0", cfg.Player.VersionName)
	assert.Equal(t, SettingsDriverYAML, cfg.Settings.Driver)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, filepath.Join(dir, "Assets", "StreamingAssets"), cfg.Resolve(cfg.Project.StreamingAssets))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PLUGINLIT_TEST_VERSION", "2.3.4")
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	writeFile(t, path, "player:\n  version_name: ${PLUGINLIT_TEST_VERSION}\nnotify:\n  url: nats://localhost:4222\nsettings:\n  driver: SQLite\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", cfg.Player.VersionName)
	assert.Equal(t, "pluginlit.build.result", cfg.Notify.Subject)
	assert.Equal(t, SettingsDriverSQLite, cfg.Settings.Driver)
	assert.Equal(t, filepath.Join(".pluginlit", "settings.db"), cfg.Settings.Path)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("PLUGINLIT_TEST_CHANNEL", "fromenv")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "PLUGINLIT_TEST_CHANNEL=fromfile\n")
	path := filepath.Join(dir, DefaultFile)
	writeFile(t, path, "editor:\n  channel: ${PLUGINLIT_TEST_CHANNEL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Editor.Channel)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "project:\n  platform: switch\n")
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid platform")

	broken := filepath.Join(dir, "broken.yaml")
	writeFile(t, broken, "project: [\n")
	_, err = Load(broken)
	require.Error(t, err)
}

func TestLoadChannel(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Parse([]byte("project:\n  platform: android\n"), dir)
	require.NoError(t, err)

	writeFile(t, cfg.ChannelPath("googleplay"), "platform: Android\npackage_name: com.example\nshow_splash_logo: true\n")
	writeFile(t, cfg.ChannelPath("appstore"), "platform: ios\n")

	ch, err := cfg.LoadChannel("googleplay", PlatformAndroid)
	require.NoError(t, err)
	assert.Equal(t, "googleplay", ch.Name)
	assert.True(t, ch.ShowSplashLogo)
	assert.Equal(t, []string{"name"}, ch.Android.MergeKeys)

	_, err = cfg.LoadChannel("appstore", PlatformAndroid)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Contains(t, err.Error(), "does not match platform android")

	_, err = cfg.LoadChannel("missing", PlatformAndroid)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseChannel_RequiresPlatform(t *testing.T) {
	_, err := ParseChannel([]byte("name: x\n"))
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Editor.Channel)
	assert.Equal(t, "com.example.game", cfg.BundleID(PlatformAndroid))

	ch, err := cfg.LoadChannel("default", PlatformAndroid)
	require.NoError(t, err)
	require.Len(t, ch.Android.ManifestFragments, 1)
	assert.Contains(t, ch.Android.ManifestFragments[0], "pluginlit.channel")
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
