package settings

import (
	"maps"
	"slices"
)

// PluginsConfigName is the settings object a sync recreates.
const PluginsConfigName = "PluginsConfig"

// PluginsConfig collects per-plugin runtime settings. Each plugin owns a
// section keyed by its alias; sync handlers fill their section from the
// channel and build context.
type PluginsConfig struct {
	Channel  string                    `yaml:"channel"`
	Platform string                    `yaml:"platform"`
	Sections map[string]map[string]any `yaml:"sections"`
}

// NewPluginsConfig returns an empty configuration.
func NewPluginsConfig() *PluginsConfig {
	return &PluginsConfig{Sections: make(map[string]map[string]any)}
}

// Section returns the settings of alias, creating the section when absent.
func (p *PluginsConfig) Section(alias string) map[string]any {
	if p.Sections == nil {
		p.Sections = make(map[string]map[string]any)
	}
	sec, ok := p.Sections[alias]
	if !ok {
		sec = make(map[string]any)
		p.Sections[alias] = sec
	}
	return sec
}

// Set stores a value in the section of alias.
func (p *PluginsConfig) Set(alias, key string, value any) {
	p.Section(alias)[key] = value
}

// Get reads a value from the section of alias.
func (p *PluginsConfig) Get(alias, key string) (any, bool) {
	sec, ok := p.Sections[alias]
	if !ok {
		return nil, false
	}
	v, ok := sec[key]
	return v, ok
}

// Aliases returns the section names in sorted order.
func (p *PluginsConfig) Aliases() []string {
	return slices.Sorted(maps.Keys(p.Sections))
}
