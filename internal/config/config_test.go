package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	state, err := LoadState(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, state.DataDir)
	assert.Equal(t, "dark", state.Config.Theme)
	assert.Equal(t, filepath.Join(dir, "tasks.yaml"), state.TasksPath())

	// Directory is created on first load.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadStateReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "theme: light\ntasks_file: /etc/tally/tasks.yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	state, err := LoadState(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", state.Config.Theme)
	assert.Equal(t, "/etc/tally/tasks.yaml", state.TasksPath())
}

func TestLastAccountRoundTrip(t *testing.T) {
	state, err := LoadState(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, state.LastAccount(), "no account recorded yet")

	require.NoError(t, state.SetLastAccount("alice"))
	assert.Equal(t, "alice", state.LastAccount())

	require.NoError(t, state.SetLastAccount("bob"))
	assert.Equal(t, "bob", state.LastAccount())
}
