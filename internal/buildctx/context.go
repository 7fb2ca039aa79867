// Package buildctx holds the per-run build state threaded through every
// pipeline task and extension point handler.
package buildctx

import (
	"maps"

	"git.home.luguber.info/inful/pluginlit/internal/cmdargs"
	"git.home.luguber.info/inful/pluginlit/internal/config"
)

// TaskType is the kind of pipeline run a context belongs to.
type TaskType int

const (
	TaskNone TaskType = iota
	TaskPreBuild
	TaskBuildProject
)

func (t TaskType) String() string {
	switch t {
	case TaskPreBuild:
		return "PreBuild"
	case TaskBuildProject:
		return "BuildProject"
	default:
		return "None"
	}
}

// PatchFiles lists files a hot-update build adds and modifies.
type PatchFiles struct {
	AddFiles []string `json:"AddFiles"`
	ModFiles []string `json:"ModFiles"`
}

// Context is the mutable state of one build. It is owned by the pipeline
// goroutine: handlers and tasks read and write it without locking.
type Context struct {
	BuildID  string
	Platform config.Platform
	TaskType TaskType

	Channel     string
	VersionName string
	VersionCode string
	Build       string
	DebugMode   bool
	ProductMode bool

	// BuildPath is the output directory; ProjectPath is BuildPath/Channel.
	BuildPath       string
	ProjectPath     string
	ResourceVersion string
	PatchFiles      *PatchFiles
	Symbols         []string
	// TempPaths are deleted when the pipeline ends.
	TempPaths []string

	Args    cmdargs.Args
	Project *config.Config

	channel  *config.Channel
	links    []*linkEntry
	results  map[string]any
	slots    map[any]any
	waiting  bool
	onResume []func()
}

func newContext(cfg *config.Config) *Context {
	return &Context{
		Project: cfg,
		Args:    cmdargs.Args{},
		results: make(map[string]any),
		slots:   make(map[any]any),
	}
}

// ChannelConfig returns the channel loaded for this build.
func (c *Context) ChannelConfig() *config.Channel { return c.channel }

// AddTempPath registers a file or directory for deletion when the pipeline ends.
func (c *Context) AddTempPath(path string) {
	c.TempPaths = append(c.TempPaths, path)
}

// SetResult records a key for the build result file.
func (c *Context) SetResult(key string, value any) {
	if c.results == nil {
		c.results = make(map[string]any)
	}
	c.results[key] = value
}

// RemoveResult drops a key from the build result file.
func (c *Context) RemoveResult(key string) {
	delete(c.results, key)
}

// Results returns a copy of the recorded result entries.
func (c *Context) Results() map[string]any {
	return maps.Clone(c.results)
}

// Waiting reports whether the build is paused on an external operation.
func (c *Context) Waiting() bool { return c.waiting }

// SetWaiting marks the build as paused or resumed. Clearing the flag runs
// every callback registered with OnResume, in registration order.
func (c *Context) SetWaiting(waiting bool) {
	c.waiting = waiting
	if waiting {
		return
	}
	for _, fn := range c.onResume {
		fn()
	}
}

// OnResume registers a callback run each time the waiting flag is cleared.
func (c *Context) OnResume(fn func()) {
	c.onResume = append(c.onResume, fn)
}
