package native

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, withJar bool) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"gradlew", "gradlew.bat", "gradle-wrapper.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	}
	if withJar {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "gradle-launcher-7.5.1.jar"), nil, 0o600))
	}
	return dir
}

func TestDetectGradleVersion(t *testing.T) {
	assert.Equal(t, "7.5.1", DetectGradleVersion(writeTemplates(t, true)))
	assert.Empty(t, DetectGradleVersion(writeTemplates(t, false)))
}

func TestEnsureGradleWrapper(t *testing.T) {
	export := t.TempDir()
	installed, err := EnsureGradleWrapper(export, writeTemplates(t, true), slog.Default())
	require.NoError(t, err)
	assert.True(t, installed)

	info, err := os.Stat(filepath.Join(export, "gradlew"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100)
	assert.FileExists(t, filepath.Join(export, "gradlew.bat"))
	assert.FileExists(t, filepath.Join(export, "gradle", "wrapper", "gradle-wrapper.jar"))

	props, err := os.ReadFile(filepath.Join(export, "gradle", "wrapper", "gradle-wrapper.properties"))
	require.NoError(t, err)
	assert.Contains(t, string(props), `distributionUrl=https\://services.gradle.org/distributions/gradle-7.5.1-bin.zip`)
	assert.Contains(t, string(props), "zipStorePath=wrapper/dists")

	installed, err = EnsureGradleWrapper(export, writeTemplates(t, true), slog.Default())
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestEnsureGradleWrapper_TemplateAndDefaultVersion(t *testing.T) {
	templates := writeTemplates(t, false)
	tmpl := "distributionBase=CUSTOM\ndistributionUrl=https\\://example.invalid/old.zip\n"
	require.NoError(t, os.WriteFile(filepath.Join(templates, "gradle-wrapper.properties.template"), []byte(tmpl), 0o600))

	export := t.TempDir()
	_, err := EnsureGradleWrapper(export, templates, slog.Default())
	require.NoError(t, err)

	props, err := os.ReadFile(filepath.Join(export, "gradle", "wrapper", "gradle-wrapper.properties"))
	require.NoError(t, err)
	assert.Equal(t, "distributionBase=CUSTOM\ndistributionUrl=https\\://services.gradle.org/distributions/gradle-"+DefaultGradleVersion+"-bin.zip\n", string(props))
}

func TestEnsureGradleWrapper_NoTemplates(t *testing.T) {
	installed, err := EnsureGradleWrapper(t.TempDir(), "", slog.Default())
	require.NoError(t, err)
	assert.False(t, installed)
}
