package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Lifecycle(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ws")
	mgr := NewManager(base)

	_, err := mgr.CreateSubdir("x")
	require.Error(t, err)

	require.NoError(t, mgr.Create())
	wsPath := mgr.Path()
	require.NotEmpty(t, wsPath)
	assert.True(t, strings.HasPrefix(filepath.Base(wsPath), "pluginlit-"))
	assert.DirExists(t, wsPath)

	sub, err := mgr.CreateSubdir("fragments")
	require.NoError(t, err)
	assert.DirExists(t, sub)

	file, err := mgr.WriteFile("linker/link.xml", []byte("<linker/>"))
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "<linker/>", string(data))

	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, wsPath)
	assert.Empty(t, mgr.Path())
	require.NoError(t, mgr.Cleanup())
}

func TestManager_DistinctWorkspaces(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base), NewManager(base)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	assert.NotEqual(t, a.Path(), b.Path())
}

func TestNewManager_DefaultBase(t *testing.T) {
	mgr := NewManager("")
	assert.Equal(t, os.TempDir(), mgr.baseDir)
}
