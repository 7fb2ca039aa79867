package buildctx

import (
	"sync/atomic"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

var current atomic.Pointer[Context]

// SetCurrent publishes c as the process-wide build context. Only the code
// that starts a build calls it; everything else receives the context as a
// parameter and uses Current solely when re-entered from a host callback
// that has no parameter path.
func SetCurrent(c *Context) {
	current.Store(c)
}

// Current returns the published build context.
func Current() (*Context, error) {
	c := current.Load()
	if c == nil {
		return nil, errors.BuildError("no build context loaded").Build()
	}
	return c, nil
}

// ClearCurrent forgets the published context.
func ClearCurrent() {
	current.Store(nil)
}
