package storage

import (
	"fmt"
	"path/filepath"
)

const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the named backend rooted in dataDir. An empty name selects
// the file backend.
func Open(backend, dataDir string) (KeyValue, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(filepath.Join(dataDir, "state"))
	case BackendBolt:
		return NewBoltKV(filepath.Join(dataDir, "state.bolt"))
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dataDir, "state.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
