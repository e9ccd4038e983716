package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	r := NewFunctionRegistry()

	fn := r.Get("length")
	require.NotNil(t, fn)
	assert.Equal(t, "length", fn.Name)
	assert.NotEmpty(t, fn.Signature)

	assert.Nil(t, r.Get("definitely_not_a_builtin"))
}

func TestRegistryMatchPrefix(t *testing.T) {
	r := NewFunctionRegistry()

	matches := r.MatchPrefix("to")
	require.NotEmpty(t, matches)
	names := make([]string, 0, len(matches))
	for _, fn := range matches {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "tostring")
	assert.Contains(t, names, "tonumber")

	assert.Empty(t, r.MatchPrefix("zzz"))
	assert.Len(t, r.MatchPrefix(""), r.Size())
}

func TestRegistryCategoriesInDisplayOrder(t *testing.T) {
	r := NewFunctionRegistry()

	cats := r.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "general", cats[0])
	for _, cat := range cats {
		assert.NotEmpty(t, r.ByCategory(cat))
	}
}

func TestEngineAppliesLimit(t *testing.T) {
	e := NewEngine(NewPathProvider(testIndex()), 2)

	got := e.Suggest(".", 1)
	assert.Len(t, got, 2)

	unlimited := NewEngine(NewPathProvider(testIndex()), 0)
	assert.Greater(t, len(unlimited.Suggest(".", 1)), 2)
}

func TestEngineFunctionsExposesRegistry(t *testing.T) {
	e := NewEngine(NewPathProvider(testIndex()), 0)
	fns := e.Functions()
	assert.NotEmpty(t, fns)
}
