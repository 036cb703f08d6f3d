package dep_collector

import (
	"go.uber.org/zap"

	"github.com/connectdotz/metro/internal/logger"
)

// The registry interns dependencies by name. Each unique name is assigned a
// dense index in order of first discovery, and attributes from later
// discovery sites are merged in: a synchronous site makes the dependency
// synchronous no matter what was seen before, and any non-prefetch site
// clears the prefetch-only flag.
type registry struct {
	byName map[string]int
	deps   []*dependency
	log    *zap.Logger
}

type dependency struct {
	name           string
	index          int
	isAsync        bool
	isPrefetchOnly bool
	locs           []logger.Range

	// The synthetic async-loader entry. Once set, the entry never becomes
	// prefetch-only and records no further source locations, even if the same
	// name is also imported directly. Locations recorded before it became the
	// loader are kept.
	isLoader bool
}

type depAttrs struct {
	isAsync        bool
	isPrefetchOnly bool
}

func newRegistry(log *zap.Logger) *registry {
	return &registry{
		byName: make(map[string]int),
		log:    log,
	}
}

func (r *registry) register(name string, attrs depAttrs, loc *logger.Range) int {
	if index, ok := r.byName[name]; ok {
		dep := r.deps[index]
		dep.isAsync = dep.isAsync && attrs.isAsync
		dep.isPrefetchOnly = dep.isPrefetchOnly && attrs.isPrefetchOnly
		if dep.isLoader {
			dep.isPrefetchOnly = false
		} else if loc != nil {
			dep.locs = append(dep.locs, *loc)
		}
		return index
	}

	index := len(r.deps)
	dep := &dependency{
		name:           name,
		index:          index,
		isAsync:        attrs.isAsync,
		isPrefetchOnly: attrs.isPrefetchOnly,
	}
	if loc != nil {
		dep.locs = append(dep.locs, *loc)
	}
	r.deps = append(r.deps, dep)
	r.byName[name] = index

	r.log.Debug("registered dependency",
		zap.String("name", name),
		zap.Int("index", index),
		zap.Bool("isAsync", attrs.isAsync),
		zap.Bool("isPrefetchOnly", attrs.isPrefetchOnly))
	return index
}

// registerAsyncLoader registers the synthetic dependency on the async require
// implementation. It is idempotent and adds no source location.
func (r *registry) registerAsyncLoader(path string) int {
	index := r.register(path, depAttrs{}, nil)
	dep := r.deps[index]
	dep.isLoader = true
	dep.isPrefetchOnly = false
	return index
}

// snapshot converts the interned dependencies into the public record shape,
// ordered by assigned index. Byte-offset ranges become line/column spans.
func (r *registry) snapshot(source *logger.Source) []Dependency {
	deps := make([]Dependency, len(r.deps))
	for i, dep := range r.deps {
		locs := make([]SourceSpan, len(dep.locs))
		for j, loc := range dep.locs {
			startLine, startColumn := source.LineAndColumnForLoc(loc.Loc)
			endLine, endColumn := source.LineAndColumnForLoc(logger.Loc{Start: loc.End()})
			locs[j] = SourceSpan{
				Start: Position{Line: startLine, Column: startColumn},
				End:   Position{Line: endLine, Column: endColumn},
			}
		}
		deps[i] = Dependency{
			Name: dep.name,
			Data: DependencyData{
				IsAsync:        dep.isAsync,
				IsPrefetchOnly: dep.isPrefetchOnly,
				Locs:           locs,
			},
		}
	}
	return deps
}
