package mainthread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainRunsInOrder(t *testing.T) {
	q := New(nil)
	var got []int
	for i := range 3 {
		require.NoError(t, q.Run(func() error {
			got = append(got, i)
			return nil
		}))
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, q.Drain())
}

func TestQueue_FailingActionDoesNotBlockOthers(t *testing.T) {
	q := New(nil)
	ran := 0
	require.NoError(t, q.Run(func() error { return errors.New("boom") }))
	require.NoError(t, q.Run(func() error { panic("kaboom") }))
	require.NoError(t, q.Run(func() error { ran++; return nil }))

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, 1, ran)
}

func TestQueue_OnceReplacesPending(t *testing.T) {
	q := New(nil)
	var got []string
	require.NoError(t, q.Once("refresh", func() error { got = append(got, "first"); return nil }))
	require.NoError(t, q.Run(func() error { got = append(got, "other"); return nil }))
	require.NoError(t, q.Once("refresh", func() error { got = append(got, "second"); return nil }))

	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []string{"second", "other"}, got)
}

func TestQueue_ActionsEnqueuedDuringDrainWait(t *testing.T) {
	q := New(nil)
	require.NoError(t, q.Run(func() error {
		return q.Run(func() error { return nil })
	}))
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Close(t *testing.T) {
	q := New(nil)
	require.NoError(t, q.Run(func() error { return nil }))
	q.Close()
	assert.Equal(t, 0, q.Len())
	assert.ErrorIs(t, q.Run(func() error { return nil }), ErrClosed)
	assert.Error(t, q.Run(nil))
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := New(nil)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = q.Run(func() error { return nil })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, q.Drain())
}

func TestQueue_WaitResumesOnCompletion(t *testing.T) {
	q := New(nil)
	done := false
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = q.Run(func() error { done = true; return nil })
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Wait(ctx, time.Millisecond, func() bool { return done }))
	assert.True(t, done)
}

func TestQueue_LoopStopsOnCancel(t *testing.T) {
	q := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	require.NoError(t, q.Run(func() error { close(ran); cancel(); return nil }))

	err := q.Loop(ctx, time.Hour)
	<-ran
	assert.ErrorIs(t, err, context.Canceled)
}
