package settings

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// YAMLStore keeps one YAML file per settings object in a directory.
type YAMLStore struct {
	dir string
}

// NewYAMLStore creates the directory when needed.
func NewYAMLStore(dir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "cannot create settings directory").
			WithContext(logfields.KeyPath, dir).
			Build()
	}
	return &YAMLStore{dir: dir}, nil
}

func (s *YAMLStore) Load(_ context.Context, name string, out any) (bool, error) {
	data, err := os.ReadFile(fileName(s.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read settings %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, errors.WrapError(err, errors.CategoryStorage, "cannot decode settings "+name).Build()
	}
	return true, nil
}

func (s *YAMLStore) Save(_ context.Context, name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", name, err)
	}
	path := fileName(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "cannot write settings "+name).
			WithContext(logfields.KeyPath, tmp).
			Build()
	}
	return os.Rename(tmp, path)
}

func (s *YAMLStore) Remove(_ context.Context, name string) error {
	if err := os.Remove(fileName(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove settings %s: %w", name, err)
	}
	return nil
}

func (s *YAMLStore) Close() error { return nil }
