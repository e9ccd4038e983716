package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRootJSONObject(t *testing.T) {
	root, err := LoadRoot(`{"a": {"b": 1, "c": 2}}`)
	require.NoError(t, err)

	m, ok := root.(map[string]interface{})
	require.True(t, ok)
	inner, ok := m["a"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), inner["b"])
	assert.Equal(t, float64(2), inner["c"])
}

func TestLoadRootJSONArray(t *testing.T) {
	root, err := LoadRoot(`[1, 2, 3]`)
	require.NoError(t, err)

	arr, ok := root.([]interface{})
	require.True(t, ok)
	assert.Len(t, arr, 3)
}

func TestLoadRootInvalidJSON(t *testing.T) {
	_, err := LoadRoot(`{"a": `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoadRootEmpty(t *testing.T) {
	_, err := LoadRoot("   \n ")
	assert.Error(t, err)
}

func TestLoadRootYAML(t *testing.T) {
	root, err := LoadRoot("name: demo\nitems:\n  - 1\n  - 2\n")
	require.NoError(t, err)

	m, ok := root.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "demo", m["name"])
	items, ok := m["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestLoadRootTOML(t *testing.T) {
	root, err := LoadRoot("[server]\nhost = \"localhost\"\nport = 8080\n")
	require.NoError(t, err)

	m, ok := root.(map[string]interface{})
	require.True(t, ok)
	server, ok := m["server"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "localhost", server["host"])
}

func TestLoadRootRejectsMultiDocYAML(t *testing.T) {
	_, err := LoadRoot("---\na: 1\n---\nb: 2\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multi-document")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x": true}`), 0o644))

	root, err := LoadFile(path)
	require.NoError(t, err)
	m, ok := root.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, m["x"])
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	root, err := LoadReader(strings.NewReader(`{"k": "v"}`))
	require.NoError(t, err)
	m, ok := root.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "v", m["k"])
}

func TestIsLikelyTOML(t *testing.T) {
	assert.True(t, isLikelyTOML("[server]\nhost = \"x\""))
	assert.True(t, isLikelyTOML("key = \"value\"\nother = 1"))
	assert.False(t, isLikelyTOML("[1, 2, 3]"))
	assert.False(t, isLikelyTOML("key: value"))
}
