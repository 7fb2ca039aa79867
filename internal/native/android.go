package native

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

const (
	// AndroidNamespace is the namespace of android:* manifest attributes.
	AndroidNamespace = "http://schemas.android.com/apk/res/android"
	// AndroidPrefix is the conventional prefix bound to AndroidNamespace.
	AndroidPrefix = "android"

	queriesPath = "/manifest/queries/package"
)

// Modules an exported Gradle project keeps its main manifest in, most
// specific first.
var manifestModules = []string{"launcher", "unityLibrary", ""}

var targetSdkPattern = regexp.MustCompile(`targetSdk(?:Version)?\s*=?\s*\(?\s*(\d+)`)

// AndroidProject is an exported Gradle project.
type AndroidProject struct {
	Root         string
	ManifestPath string
	Manifest     *xmlmerge.Document
}

// OpenAndroidProject loads the main manifest of the project at root.
func OpenAndroidProject(root string) (*AndroidProject, error) {
	for _, module := range manifestModules {
		path := filepath.Join(root, module, "src", "main", "AndroidManifest.xml")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		doc, err := xmlmerge.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return &AndroidProject{Root: root, ManifestPath: path, Manifest: doc}, nil
	}
	return nil, errors.FileSystemError("android manifest not found").
		WithContext(logfields.KeyPath, root).
		Build()
}

// MergeManifest folds a manifest fragment into the project manifest.
// Elements are matched by android:<key> attributes.
func (p *AndroidProject) MergeManifest(fragment *xmlmerge.Document, strict bool, keys ...string) error {
	src, dst := fragment.Root(), p.Manifest.Root()
	if src == nil || dst == nil {
		return errors.StructuralError("cannot merge empty manifest").
			WithCause(xmlmerge.ErrNoRoot).
			WithContext(logfields.KeyPath, p.ManifestPath).
			Build()
	}
	return xmlmerge.MergeInto(src, dst, strict, AndroidNamespace, keys...)
}

// AddQueries declares package visibility for pkg unless the manifest
// already does.
func (p *AndroidProject) AddQueries(pkg string) error {
	return AddQueries(p.Manifest, pkg)
}

// AddQueries adds /manifest/queries/package with android:name=pkg to doc
// unless an equal entry exists.
func AddQueries(doc *xmlmerge.Document, pkg string) error {
	found, err := xmlmerge.FindElements(doc, queriesPath, AndroidPrefix, "name", pkg)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return nil
	}
	el, err := xmlmerge.CreateElementWithPath(doc, queriesPath)
	if err != nil {
		return err
	}
	el.SetAttr("name", AndroidNamespace, pkg)
	return nil
}

// Save writes the manifest back to disk.
func (p *AndroidProject) Save() error {
	return p.Manifest.SaveFile(p.ManifestPath)
}

// TargetSdkVersion reads the target SDK level from the launcher build script.
func (p *AndroidProject) TargetSdkVersion() (int, error) {
	for _, module := range manifestModules {
		path := filepath.Join(p.Root, module, "build.gradle")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		m := targetSdkPattern.FindSubmatch(data)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return 0, fmt.Errorf("parse targetSdkVersion in %s: %w", path, err)
		}
		return v, nil
	}
	return 0, errors.BuildError("targetSdkVersion not found in any build.gradle").
		WithContext(logfields.KeyPath, p.Root).
		Build()
}
