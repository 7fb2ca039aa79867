package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pluginlit/internal/mainthread"
)

func TestWatcher_DebouncedChangeRunsOnQueue(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pluginlit.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("a: 1\n"), 0o600))
	channels := filepath.Join(dir, "channels")
	require.NoError(t, os.MkdirAll(channels, 0o755))

	q := mainthread.New(nil)
	var runs atomic.Int32
	w, err := New(q, func() error { runs.Add(1); return nil }, 100*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(cfgFile))
	require.NoError(t, w.Add(channels))
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(cfgFile, []byte("a: 2\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(channels, "store.yaml"), []byte("platform: ios\n"), 0o600))

	require.NoError(t, q.Wait(ctx, 5*time.Millisecond, func() bool { return runs.Load() > 0 }))
	assert.Equal(t, int32(1), runs.Load())
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pluginlit.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("a: 1\n"), 0o600))

	q := mainthread.New(nil)
	w, err := New(q, func() error { return nil }, 10*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(cfgFile))
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, q.Len())
}

func TestWatcher_AddMissingPath(t *testing.T) {
	w, err := New(mainthread.New(nil), func() error { return nil }, 0, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, DefaultDebounce, w.debounce)
}
