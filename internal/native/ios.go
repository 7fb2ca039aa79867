package native

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

// XcodeProject is an exported Xcode project.
type XcodeProject struct {
	Root      string
	PlistPath string
	InfoPlist *xmlmerge.Document
}

// OpenXcodeProject loads the Info.plist of the project at root.
func OpenXcodeProject(root string) (*XcodeProject, error) {
	path := filepath.Join(root, "Info.plist")
	if _, err := os.Stat(path); err != nil {
		return nil, errors.FileSystemError("Info.plist not found").
			WithCause(err).
			WithContext(logfields.KeyPath, root).
			Build()
	}
	doc, err := xmlmerge.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &XcodeProject{Root: root, PlistPath: path, InfoPlist: doc}, nil
}

// MergePlist folds a plist fragment into Info.plist.
func (p *XcodeProject) MergePlist(fragment *xmlmerge.Document, strict bool) error {
	return MergePlist(fragment, p.InfoPlist, strict)
}

// Save writes Info.plist back to disk.
func (p *XcodeProject) Save() error {
	return p.InfoPlist.SaveFile(p.PlistPath)
}
