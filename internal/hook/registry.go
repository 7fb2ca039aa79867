package hook

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/metrics"
)

// ErrSealed is returned when a handler is registered after the registry has
// been used for an invocation.
var ErrSealed = stderrors.New("hook registry is sealed")

// Registration describes one registered handler.
type Registration struct {
	Point     string
	Owner     Owner
	Component string
	Order     int

	seq  int
	call func(any) error
}

type groupKey struct {
	point string
	owner Owner
}

// Registry holds the handlers of every extension point.
type Registry struct {
	mu       sync.Mutex
	entries  []*Registration
	groups   map[groupKey][]*Registration
	sealed   bool
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for invocation tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder for invocation timings and failures.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:   slog.Default().With(logfields.Component("hook")),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetRecorder replaces the metrics recorder. It may be called at any time.
func (r *Registry) SetRecorder(rec metrics.Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that handlers declared in init
// functions register with.
func Default() *Registry { return defaultRegistry }

// Register adds fn as a handler of p for owner. Component names the declaring
// component and breaks ordering ties.
func Register[A any](r *Registry, p Point[A], owner Owner, component string, order int, fn func(A) error) error {
	if fn == nil {
		return errors.InternalError("nil handler").
			WithContext(logfields.KeyExtensionPoint, p.name).
			WithContext(logfields.KeyComponent, component).
			Build()
	}
	if p.name == "" {
		return errors.InternalError("extension point has no name").
			WithContext(logfields.KeyComponent, component).
			Build()
	}

	call := func(arg any) error {
		a, ok := arg.(A)
		if !ok {
			return errors.InternalError("extension point argument type mismatch").
				WithContext(logfields.KeyExtensionPoint, p.name).
				WithContext("type", fmt.Sprintf("%T", arg)).
				Build()
		}
		return fn(a)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("register %s for %s: %w", component, p.name, ErrSealed)
	}
	r.entries = append(r.entries, &Registration{
		Point:     p.name,
		Owner:     owner,
		Component: component,
		Order:     order,
		seq:       len(r.entries),
		call:      call,
	})
	return nil
}

// MustRegister is Register for init-time declarations; it panics on error.
func MustRegister[A any](r *Registry, p Point[A], owner Owner, component string, order int, fn func(A) error) {
	if err := Register(r, p, owner, component, order, fn); err != nil {
		panic(err)
	}
}

// On registers fn with the default registry.
func On[A any](p Point[A], owner Owner, component string, order int, fn func(A) error) error {
	return Register(defaultRegistry, p, owner, component, order, fn)
}

// Invoke runs every handler of p registered for owner, in order, passing args.
// The first handler error or panic stops the invocation and is returned
// classified as a hook error. A point with no handlers succeeds immediately.
func Invoke[A any](ctx context.Context, r *Registry, p Point[A], owner Owner, args A) error {
	handlers, logger, recorder := r.discover(p.name, owner)
	if len(handlers) == 0 {
		return nil
	}

	logger.Debug("Invoking extension point",
		logfields.ExtensionPoint(p.name),
		logfields.Owner(string(owner)),
		logfields.Handlers(len(handlers)))

	start := time.Now()
	defer func() { recorder.ObserveHookDuration(p.name, time.Since(start)) }()

	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runHandler(h, args); err != nil {
			recorder.IncHookFailure(p.name)
			logger.Error("Extension point handler failed",
				logfields.ExtensionPoint(p.name),
				logfields.Component(h.Component),
				logfields.Error(err))
			return err
		}
	}
	return nil
}

func runHandler(h *Registration, args any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.HookError(fmt.Sprintf("handler panicked: %v", rec)).
				WithContext(logfields.KeyExtensionPoint, h.Point).
				WithContext(logfields.KeyComponent, h.Component).
				Build()
		}
	}()
	if herr := h.call(args); herr != nil {
		return errors.WrapError(herr, errors.CategoryHook, fmt.Sprintf("%s handler %s failed", h.Point, h.Component)).
			Fatal().
			WithContext(logfields.KeyExtensionPoint, h.Point).
			WithContext(logfields.KeyComponent, h.Component).
			Build()
	}
	return nil
}

// discover seals the registry on first use and returns the ordered handlers
// for (point, owner).
func (r *Registry) discover(point string, owner Owner) ([]*Registration, *slog.Logger, metrics.Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sealed {
		r.sealed = true
		r.groups = make(map[groupKey][]*Registration)
		for _, e := range r.entries {
			k := groupKey{point: e.Point, owner: e.Owner}
			r.groups[k] = append(r.groups[k], e)
		}
		for _, list := range r.groups {
			slices.SortStableFunc(list, compareRegistrations)
		}
		r.logger.Debug("Extension points discovered", logfields.Handlers(len(r.entries)))
	}
	return r.groups[groupKey{point: point, owner: owner}], r.logger, r.recorder
}

func compareRegistrations(a, b *Registration) int {
	if a.Order != b.Order {
		return a.Order - b.Order
	}
	if c := strings.Compare(a.Component, b.Component); c != 0 {
		return c
	}
	return a.seq - b.seq
}

// Sealed reports whether registration is closed.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Registrations returns the handlers of (point, owner) in invocation order.
// Calling it seals the registry like an invocation would.
func (r *Registry) Registrations(point string, owner Owner) []Registration {
	handlers, _, _ := r.discover(point, owner)
	out := make([]Registration, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, Registration{Point: h.Point, Owner: h.Owner, Component: h.Component, Order: h.Order})
	}
	return out
}
