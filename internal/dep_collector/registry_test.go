package dep_collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/connectdotz/metro/internal/logger"
)

func testRange(start int32, length int32) *logger.Range {
	return &logger.Range{Loc: logger.Loc{Start: start}, Len: length}
}

func TestRegistryAssignsDenseIndices(t *testing.T) {
	r := newRegistry(zap.NewNop())

	assert.Equal(t, 0, r.register("a", depAttrs{}, nil))
	assert.Equal(t, 1, r.register("b", depAttrs{}, nil))
	assert.Equal(t, 2, r.register("c", depAttrs{}, nil))

	// Indices are stable on re-registration
	assert.Equal(t, 1, r.register("b", depAttrs{isAsync: true}, nil))
	assert.Equal(t, 0, r.register("a", depAttrs{}, nil))
}

func TestRegistryMergeIsOrderIndependent(t *testing.T) {
	// async then sync
	r := newRegistry(zap.NewNop())
	r.register("m", depAttrs{isAsync: true}, nil)
	r.register("m", depAttrs{}, nil)
	assert.False(t, r.deps[0].isAsync)

	// sync then async
	r = newRegistry(zap.NewNop())
	r.register("m", depAttrs{}, nil)
	r.register("m", depAttrs{isAsync: true}, nil)
	assert.False(t, r.deps[0].isAsync)
}

func TestRegistryPrefetchDowngrade(t *testing.T) {
	r := newRegistry(zap.NewNop())
	r.register("m", depAttrs{isAsync: true, isPrefetchOnly: true}, nil)
	assert.True(t, r.deps[0].isPrefetchOnly)

	r.register("m", depAttrs{isAsync: true}, nil)
	assert.True(t, r.deps[0].isAsync)
	assert.False(t, r.deps[0].isPrefetchOnly)
}

func TestRegistryLocsAppendInOrder(t *testing.T) {
	r := newRegistry(zap.NewNop())
	r.register("m", depAttrs{}, testRange(0, 10))
	r.register("m", depAttrs{}, testRange(20, 5))
	r.register("m", depAttrs{}, nil)

	require.Len(t, r.deps[0].locs, 2)
	assert.Equal(t, int32(0), r.deps[0].locs[0].Loc.Start)
	assert.Equal(t, int32(20), r.deps[0].locs[1].Loc.Start)
}

func TestRegistryAsyncLoader(t *testing.T) {
	r := newRegistry(zap.NewNop())
	first := r.registerAsyncLoader("asyncRequire")
	second := r.registerAsyncLoader("asyncRequire")
	assert.Equal(t, first, second)

	loader := r.deps[first]
	assert.False(t, loader.isAsync)
	assert.False(t, loader.isPrefetchOnly)
	assert.Empty(t, loader.locs)

	// Once the loader entry exists it never becomes prefetch-only and never
	// gains locations
	r.register("asyncRequire", depAttrs{isAsync: true, isPrefetchOnly: true}, testRange(0, 10))
	assert.False(t, loader.isPrefetchOnly)
	assert.Empty(t, loader.locs)
}

func TestRegistrySnapshot(t *testing.T) {
	source := logger.Source{Contents: "require(\"a\");\nrequire(\"b\");\n"}
	r := newRegistry(zap.NewNop())
	r.register("a", depAttrs{}, testRange(0, 12))
	r.register("b", depAttrs{isAsync: true}, testRange(14, 12))

	deps := r.snapshot(&source)
	require.Len(t, deps, 2)
	assert.Equal(t, "a", deps[0].Name)
	assert.Equal(t, "b", deps[1].Name)
	assert.True(t, deps[1].Data.IsAsync)

	require.Len(t, deps[1].Data.Locs, 1)
	assert.Equal(t, Position{Line: 2, Column: 0}, deps[1].Data.Locs[0].Start)
	assert.Equal(t, Position{Line: 2, Column: 12}, deps[1].Data.Locs[0].End)
}
