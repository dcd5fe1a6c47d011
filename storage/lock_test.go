package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceLock(t *testing.T) {
	dir := t.TempDir()
	lock := NewInstanceLock(dir)

	locked, _, err := lock.Check()
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, lock.Acquire())

	// Our own PID never counts as another instance
	locked, pid, err := lock.Check()
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())
}

func TestInstanceLockStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, lockFile)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	locked, _, err := NewInstanceLock(dir).Check()
	require.NoError(t, err)
	assert.False(t, locked)
	assert.NoFileExists(t, path)
}
