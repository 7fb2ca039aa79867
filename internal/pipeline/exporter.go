package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pluginlit/internal/config"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/fsutil"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// ExportRequest describes one native project export.
type ExportRequest struct {
	Platform config.Platform
	// Source is the host-specific input the exporter builds from.
	Source string
	// Dest receives the exported native project.
	Dest string
	// LinkFile is the linker preservation manifest, or "" when none was requested.
	LinkFile    string
	Symbols     []string
	Development bool
}

// Exporter produces a native project. Export returns once the export has
// started; done is called exactly once, from any goroutine, when it ends.
type Exporter interface {
	Export(ctx context.Context, req ExportRequest, done func(error)) error
}

// DirExporter exports by copying a prebuilt native project directory.
// The linker manifest, when present, is placed at the project root.
type DirExporter struct{}

func (DirExporter) Export(ctx context.Context, req ExportRequest, done func(error)) error {
	if req.Source == "" {
		return errors.ConfigError("channel does not configure an export source").Build()
	}
	if _, err := os.Stat(req.Source); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "export source not found").
			WithContext(logfields.KeyPath, req.Source).
			Build()
	}
	go func() {
		if err := ctx.Err(); err != nil {
			done(err)
			return
		}
		err := fsutil.CopyDir(req.Source, req.Dest)
		if err == nil && req.LinkFile != "" {
			err = fsutil.CopyFile(req.LinkFile, filepath.Join(req.Dest, "link.xml"))
		}
		done(err)
	}()
	return nil
}
