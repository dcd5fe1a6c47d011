package storage

import (
	"encoding/base64"
	"fmt"
)

// Cipher seals and opens stored values. config.EncryptionManager satisfies it.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptedKV seals every value before handing it to the wrapped backend.
// Values are base64 encoded so text-only backends can hold them.
type EncryptedKV struct {
	inner  KeyValue
	cipher Cipher
}

func NewEncryptedKV(inner KeyValue, cipher Cipher) *EncryptedKV {
	return &EncryptedKV{inner: inner, cipher: cipher}
}

func (e *EncryptedKV) Get(key string) (string, bool, error) {
	raw, ok, err := e.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}

	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	plain, err := e.cipher.Decrypt(sealed)
	if err != nil {
		return "", false, fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return string(plain), true, nil
}

func (e *EncryptedKV) Set(key, value string) error {
	sealed, err := e.cipher.Encrypt([]byte(value))
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	return e.inner.Set(key, base64.StdEncoding.EncodeToString(sealed))
}

func (e *EncryptedKV) Remove(key string) error {
	return e.inner.Remove(key)
}

// Unwrap returns the backend holding the sealed values.
func (e *EncryptedKV) Unwrap() KeyValue {
	return e.inner
}

func (e *EncryptedKV) Close() error {
	return e.inner.Close()
}
