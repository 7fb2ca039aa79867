package native

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/fsutil"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// DefaultGradleVersion is used when the templates carry no gradle-*.jar.
const DefaultGradleVersion = "6.1.1"

var gradleJarPattern = regexp.MustCompile(`gradle(-\w+)+-([0-9]+\.[0-9]+(\.[0-9]+)?)`)

var defaultWrapperProperties = []string{
	"distributionBase=GRADLE_USER_HOME",
	"distributionPath=wrapper/dists",
	"zipStoreBase=GRADLE_USER_HOME",
	"zipStorePath=wrapper/dists",
	`distributionUrl=https\://services.gradle.org/distributions/gradle-$(GradleVersion)-all.zip`,
}

// DetectGradleVersion returns the version encoded in the first
// lib/gradle-*.jar under templates, or "".
func DetectGradleVersion(templates string) string {
	jars, _ := filepath.Glob(filepath.Join(templates, "lib", "gradle-*.jar"))
	for _, jar := range jars {
		name := strings.TrimSuffix(filepath.Base(jar), ".jar")
		if m := gradleJarPattern.FindStringSubmatch(name); m != nil {
			return m[2]
		}
	}
	return ""
}

// EnsureGradleWrapper installs the wrapper scripts from templates into an
// exported project that has none. It reports whether files were installed.
// The wrapper's distributionUrl is rewritten to the detected Gradle version.
func EnsureGradleWrapper(exportPath, templates string, logger *slog.Logger) (bool, error) {
	if _, err := os.Stat(filepath.Join(exportPath, "gradlew")); err == nil {
		return false, nil
	}
	if templates == "" {
		logger.Warn("Exported project has no gradle wrapper and no templates are configured",
			logfields.Path(exportPath))
		return false, nil
	}

	for _, script := range []string{"gradlew", "gradlew.bat"} {
		if err := fsutil.CopyFile(filepath.Join(templates, script), filepath.Join(exportPath, script)); err != nil {
			return false, errors.WrapError(err, errors.CategoryFileSystem, "cannot install "+script).
				WithContext(logfields.KeyPath, templates).
				Build()
		}
	}
	if err := os.Chmod(filepath.Join(exportPath, "gradlew"), 0o755); err != nil {
		return false, err
	}

	wrapperDir := filepath.Join(exportPath, "gradle", "wrapper")
	if err := os.MkdirAll(wrapperDir, 0o755); err != nil {
		return false, err
	}
	if err := fsutil.CopyFile(filepath.Join(templates, "gradle-wrapper.jar"), filepath.Join(wrapperDir, "gradle-wrapper.jar")); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "cannot install gradle-wrapper.jar").
			WithContext(logfields.KeyPath, templates).
			Build()
	}

	lines := defaultWrapperProperties
	if data, err := os.ReadFile(filepath.Join(templates, "gradle-wrapper.properties.template")); err == nil {
		lines = nil
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
	}

	version := DetectGradleVersion(templates)
	if version == "" {
		version = DefaultGradleVersion
	}
	props := rewriteDistributionURL(lines, "gradle-"+version+"-bin")
	if err := os.WriteFile(filepath.Join(wrapperDir, "gradle-wrapper.properties"), []byte(strings.Join(props, "\n")+"\n"), 0o644); err != nil {
		return false, err
	}
	logger.Info("Installed gradle wrapper", logfields.Path(exportPath), slog.String("gradle_version", version))
	return true, nil
}

func rewriteDistributionURL(lines []string, distribution string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for i, l := range out {
		if strings.HasPrefix(l, "distributionUrl=") {
			out[i] = `distributionUrl=https\://services.gradle.org/distributions/` + distribution + ".zip"
			break
		}
	}
	return out
}
