package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const lockFile = "willchat.lock"

// InstanceLock marks a data directory as in use by this process. Two
// processes writing the same state would overwrite each other's snapshots.
type InstanceLock struct {
	path string
}

func NewInstanceLock(dataDir string) *InstanceLock {
	return &InstanceLock{path: filepath.Join(dataDir, lockFile)}
}

// Acquire writes our PID to the lock file.
func (l *InstanceLock) Acquire() error {
	return os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())), 0600)
}

func (l *InstanceLock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Check reports whether another process holds the lock. Unparseable lock
// files are treated as stale and removed.
func (l *InstanceLock) Check() (bool, int, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}
	if pid == os.Getpid() {
		return false, pid, nil
	}

	// os.FindProcess always succeeds on Unix; this is a best-effort check
	if _, err := os.FindProcess(pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}
	return true, pid, nil
}
