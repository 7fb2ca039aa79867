// Package mainthread marshals callbacks from other goroutines onto a single
// owning goroutine. Producers enqueue under a mutex; the owner drains the
// queue once per tick and runs every action in enqueue order.
package mainthread

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// ErrClosed is returned when an action is enqueued after Close.
var ErrClosed = stderrors.New("action queue closed")

// Action is a unit of work run on the owning goroutine.
type Action func() error

type entry struct {
	key string
	fn  Action
}

// Queue is a mutex-protected hand-off of actions to one draining goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []entry
	closed  bool
	wake    chan struct{}
	logger  *slog.Logger
}

// New creates an empty queue. A nil logger uses the default logger.
func New(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		wake:   make(chan struct{}, 1),
		logger: logger.With(logfields.Component("mainthread")),
	}
}

// Run enqueues fn. It is safe to call from any goroutine.
func (q *Queue) Run(fn Action) error {
	return q.push(entry{fn: fn})
}

// Once enqueues fn under key, replacing a pending action with the same key.
// The replacement keeps the position of the action it replaces.
func (q *Queue) Once(key string, fn Action) error {
	return q.push(entry{key: key, fn: fn})
}

func (q *Queue) push(e entry) error {
	if e.fn == nil {
		return fmt.Errorf("enqueue: nil action")
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	replaced := false
	if e.key != "" {
		for i := range q.pending {
			if q.pending[i].key == e.key {
				q.pending[i] = e
				replaced = true
				break
			}
		}
	}
	if !replaced {
		q.pending = append(q.pending, e)
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs every pending action on the calling goroutine and returns how
// many ran. Actions enqueued while draining wait for the next call. A failing
// or panicking action is logged and does not stop the others.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, e := range batch {
		if err := runAction(e.fn); err != nil {
			attrs := []any{logfields.Error(err)}
			if e.key != "" {
				attrs = append(attrs, logfields.Key(e.key))
			}
			q.logger.Error("Queued action failed", attrs...)
		}
	}
	return len(batch)
}

func runAction(fn Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return fn()
}

// Loop drains the queue every interval, and as soon as an action arrives,
// until ctx is done or the queue is closed.
func (q *Queue) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-q.wake:
		}
		q.Drain()
		if q.isClosed() {
			return nil
		}
	}
}

// Wait drains the queue until cond reports true or ctx is done. It is used by
// the owner to block on an asynchronous operation whose completion arrives as
// a queued action.
func (q *Queue) Wait(ctx context.Context, interval time.Duration, cond func() bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		q.Drain()
		if cond() {
			return nil
		}
		if q.isClosed() {
			return ErrClosed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-q.wake:
		}
	}
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close drops pending actions and rejects new ones.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}
