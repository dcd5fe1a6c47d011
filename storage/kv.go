package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed     = errors.New("storage is closed")
	ErrInvalidKey = errors.New("invalid storage key")
)

// KeyValue is the string key/value store conversation state is persisted in.
// A missing key is reported as ok == false, not as an error.
type KeyValue interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
