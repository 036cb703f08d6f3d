package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectEndToEnd(t *testing.T) {
	result := Collect(CollectOptions{
		File:                   "App.js",
		Contents:               "const a = require('b');\nimport('c').then(f => f);\n",
		AsyncRequireModulePath: "asyncRequire",
		KeepRequireNames:       true,
	})

	require.Empty(t, result.Errors)
	assert.Equal(t, "_dependencyMap", result.DependencyMapName)

	require.Len(t, result.Dependencies, 3)
	assert.Equal(t, "b", result.Dependencies[0].Name)
	assert.Equal(t, "c", result.Dependencies[1].Name)
	assert.Equal(t, "asyncRequire", result.Dependencies[2].Name)
	assert.False(t, result.Dependencies[0].Data.IsAsync)
	assert.True(t, result.Dependencies[1].Data.IsAsync)

	assert.Equal(t, "const a = require(_dependencyMap[0], \"b\");\n"+
		"require(_dependencyMap[2], \"asyncRequire\")(_dependencyMap[1], \"c\").then(f => f);\n",
		result.Code)
}

func TestCollectParseError(t *testing.T) {
	result := Collect(CollectOptions{
		Contents: "const = 1;",
	})

	require.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Code)
	assert.Equal(t, "<stdin>", result.Errors[0].File)
}

func TestCollectInvalidRequire(t *testing.T) {
	result := Collect(CollectOptions{
		File:     "bad.js",
		Contents: "require(foo);",
	})

	require.Len(t, result.Errors, 1)
	msg := result.Errors[0]
	assert.Contains(t, msg.Text, "must be a string literal")
	assert.Equal(t, "bad.js", msg.File)
	assert.Equal(t, 1, msg.Line)
	assert.Equal(t, "require(foo);", msg.LineText)
}

func TestCollectThrowAtRuntime(t *testing.T) {
	result := Collect(CollectOptions{
		Contents:               "require(1);",
		AsyncRequireModulePath: "asyncRequire",
		DynamicRequires:        DynamicRequiresThrowAtRuntime,
	})

	require.Empty(t, result.Errors)
	assert.Empty(t, result.Dependencies)
	assert.Contains(t, result.Code, "Dynamic require defined at line")
}

func TestDependencyJSONShape(t *testing.T) {
	result := Collect(CollectOptions{
		Contents:               "require('a');\n__prefetchImport('b');\n",
		AsyncRequireModulePath: "asyncRequire",
		KeepRequireNames:       true,
	})
	require.Empty(t, result.Errors)

	encoded, err := json.Marshal(result.Dependencies)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 3)

	first := decoded[0]
	assert.Equal(t, "a", first["name"])
	data := first["data"].(map[string]interface{})
	assert.Equal(t, false, data["isAsync"])

	// isPrefetchOnly is omitted when false
	_, hasPrefetch := data["isPrefetchOnly"]
	assert.False(t, hasPrefetch)

	prefetched := decoded[1]["data"].(map[string]interface{})
	assert.Equal(t, true, prefetched["isPrefetchOnly"])

	locs := data["locs"].([]interface{})
	require.Len(t, locs, 1)
	start := locs[0].(map[string]interface{})["start"].(map[string]interface{})
	assert.Equal(t, float64(1), start["line"])
	assert.Equal(t, float64(0), start["column"])
}
