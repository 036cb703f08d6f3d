// Package api is the public entry point for dependency collection. It mirrors
// the internal types with a stable, string-based surface: callers hand in
// source text and get back the transformed code, the dependency records, and
// any diagnostics, without touching the internal AST.
package api

import (
	"go.uber.org/zap"
)

type DynamicRequires uint8

const (
	// Unfoldable specifiers fail the collection
	DynamicRequiresReject DynamicRequires = iota

	// Unfoldable synchronous require calls are rewritten to throw at runtime
	DynamicRequiresThrowAtRuntime
)

type CollectOptions struct {
	// File name used in diagnostics, e.g. "src/App.js". Defaults to "<stdin>".
	File string

	// The JavaScript module source text
	Contents string

	// The module that implements dynamic import, prefetch, and resource
	// loading at runtime
	AsyncRequireModulePath string

	DynamicRequires DynamicRequires

	// Callee names that may be treated as side-effect-free during specifier
	// folding. Accepted for forward compatibility and currently ignored.
	InlineableCalls []string

	// Keep the resolved specifier as a trailing string hint in rewritten calls
	KeepRequireNames bool

	// Overrides the generated dependency map identifier
	DependencyMapName string

	// Optional trace logging
	Logger *zap.Logger
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type DependencyLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type DependencyData struct {
	IsAsync        bool                 `json:"isAsync"`
	IsPrefetchOnly bool                 `json:"isPrefetchOnly,omitempty"`
	Locs           []DependencyLocation `json:"locs"`
}

type Dependency struct {
	Name string         `json:"name"`
	Data DependencyData `json:"data"`
}

type Message struct {
	Text   string `json:"text"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	// The text of the offending source line, when known
	LineText string `json:"lineText,omitempty"`
}

type CollectResult struct {
	Errors []Message

	// The transformed module source. Empty when Errors is non-empty.
	Code string

	Dependencies      []Dependency `json:"dependencies"`
	DependencyMapName string       `json:"dependencyMapName"`
}

// Collect parses the module, collects and rewrites its dependencies, and
// prints the result.
func Collect(options CollectOptions) CollectResult {
	return collectImpl(options)
}
