package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

func TestConfigStore_ImplementsInterface(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_EnvDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	t.Setenv(EnvConfigDir, dir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".grantcheck"), dir)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test_key", "test_value"))

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("string_key", "hello world"))
	assert.Equal(t, "hello world", store.GetString("string_key"))

	assert.Equal(t, "", store.GetString("nonexistent"))

	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("bool_key", true))
	assert.True(t, store.GetBool("bool_key"))

	require.NoError(t, store.Set("bool_key_false", false))
	assert.False(t, store.GetBool("bool_key_false"))

	assert.False(t, store.GetBool("nonexistent"))

	require.NoError(t, store.Set("string_key", "true"))
	assert.False(t, store.GetBool("string_key"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set(domain.KeyFillColor, "FFCC00"))
	require.NoError(t, store1.Set(domain.KeyVerbose, true))
	require.NoError(t, store1.Set("top", "level"))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "FFCC00", store2.GetString(domain.KeyFillColor))
	assert.True(t, store2.GetBool(domain.KeyVerbose))
	assert.Equal(t, "level", store2.GetString("top"))
}

func TestConfigStore_SavesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(domain.KeyPDFTool, "/usr/bin/pdftotext"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[pdf]")
	assert.Contains(t, string(data), "tool = ")
}

func TestConfigStore_Load_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[export]
fill_color = "#00FF00"
dir = "/tmp/out"

[access]
key_sha256 = "abc"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "#00FF00", store.GetString(domain.KeyFillColor))
	assert.Equal(t, "/tmp/out", store.GetString(domain.KeyExportDir))
	assert.Equal(t, "abc", store.GetString(domain.KeyAccessKeySHA))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id%2 == 0)
			_ = store.GetString(key)
			_ = store.GetBool(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("key", "original"))
	assert.Equal(t, "original", store.GetString("key"))

	require.NoError(t, store.Set("key", "updated"))
	assert.Equal(t, "updated", store.GetString("key"))
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flattenMap(nested, ""))
}

func TestNestMap(t *testing.T) {
	tests := []struct {
		name     string
		flat     map[string]any
		expected map[string]any
	}{
		{
			name:     "flat keys",
			flat:     map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "shared prefix",
			flat:     map[string]any{"export.dir": "/x", "export.fill_color": "FF9999"},
			expected: map[string]any{"export": map[string]any{"dir": "/x", "fill_color": "FF9999"}},
		},
		{
			name:     "value blocks table",
			flat:     map[string]any{"a": 1, "a.b": 2},
			expected: map[string]any{"a": 1, "a.b": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nestMap(tt.flat))
		})
	}
}
