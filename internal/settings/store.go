// Package settings persists named settings objects, such as the plugins
// configuration rebuilt by every settings sync. Objects are encoded as YAML;
// the encoding is an implementation detail of the stores, not a contract.
package settings

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pluginlit/internal/config"
)

// Store saves and loads named settings objects.
type Store interface {
	// Load decodes the object called name into out and reports whether it existed.
	Load(ctx context.Context, name string, out any) (bool, error)
	Save(ctx context.Context, name string, v any) error
	// Remove deletes the object; removing a missing object is not an error.
	Remove(ctx context.Context, name string) error
	Close() error
}

// Open returns the store selected by the project configuration.
func Open(cfg *config.Config) (Store, error) {
	path := cfg.Resolve(cfg.Settings.Path)
	switch cfg.Settings.Driver {
	case config.SettingsDriverSQLite:
		return NewSQLiteStore(path)
	default:
		return NewYAMLStore(path)
	}
}

func fileName(dir, name string) string {
	return filepath.Join(dir, name+".yaml")
}
