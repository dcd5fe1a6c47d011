package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xorCipher is a reversible stand-in for the SSH-derived AES cipher.
type xorCipher struct{ fail bool }

func (x xorCipher) Encrypt(p []byte) ([]byte, error) {
	if x.fail {
		return nil, errors.New("boom")
	}
	out := make([]byte, len(p))
	for i, b := range p {
		out[i] = b ^ 0x5a
	}
	return out, nil
}

func (x xorCipher) Decrypt(c []byte) ([]byte, error) { return x.Encrypt(c) }

func backends(t *testing.T) map[string]KeyValue {
	t.Helper()

	file, err := Open(BackendFile, t.TempDir())
	require.NoError(t, err)
	bolt, err := Open(BackendBolt, t.TempDir())
	require.NoError(t, err)
	sqlite, err := Open(BackendSQLite, t.TempDir())
	require.NoError(t, err)
	memory, err := Open(BackendMemory, "")
	require.NoError(t, err)

	all := map[string]KeyValue{
		"file":      file,
		"bolt":      bolt,
		"sqlite":    sqlite,
		"memory":    memory,
		"encrypted": NewEncryptedKV(NewMemoryKV(), xorCipher{}),
	}
	t.Cleanup(func() {
		for _, kv := range all {
			kv.Close()
		}
	})
	return all
}

func TestKeyValueBackends(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("willchat.missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("willchat.key", "first"))
			require.NoError(t, kv.Set("willchat.key", "second ✓"))

			v, ok, err := kv.Get("willchat.key")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "second ✓", v)

			require.NoError(t, kv.Remove("willchat.key"))
			_, ok, err = kv.Get("willchat.key")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing a missing key is not an error
			assert.NoError(t, kv.Remove("willchat.key"))

			assert.ErrorIs(t, kv.Set("../escape", "x"), ErrInvalidKey)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestFileKVPermissions(t *testing.T) {
	dir := t.TempDir()
	kv, err := Open(BackendFile, dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set("willchat.conversations", "[]"))

	info, err := os.Stat(filepath.Join(dir, "state", "willchat.conversations"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, "state"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(dir, "state"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestBoltKVReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bolt")

	kv, err := NewBoltKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("willchat.pro-mode", "true"))
	require.NoError(t, kv.Close())

	kv, err = NewBoltKV(path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get("willchat.pro-mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestMemoryKVClosed(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Close())

	_, _, err := kv.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, kv.Set("k", "v"), ErrClosed)
}

func TestEncryptedKVStoresCiphertext(t *testing.T) {
	inner := NewMemoryKV()
	kv := NewEncryptedKV(inner, xorCipher{})

	require.NoError(t, kv.Set("willchat.active-conversation", "abc"))

	raw, ok, err := inner.Get("willchat.active-conversation")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "abc", raw)

	require.NoError(t, inner.Set("willchat.active-conversation", "%%%not-base64"))
	_, _, err = kv.Get("willchat.active-conversation")
	assert.Error(t, err)

	failing := NewEncryptedKV(inner, xorCipher{fail: true})
	assert.Error(t, failing.Set("willchat.active-conversation", "abc"))
}
