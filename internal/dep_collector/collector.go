package dep_collector

// Collects the static module dependencies of a parsed JavaScript module.
//
// The pass walks the tree once in source order. Call sites of the recognized
// dependency-introducing forms are classified, their specifier argument is
// constant-folded, the result is interned in the registry, and the site is
// rewritten in place so that the emitted code resolves the dependency through
// a numeric index into a runtime-provided dependency map. Asynchronous forms
// additionally pull in a synthetic dependency on the configured async require
// implementation, through which dynamic import, prefetch, and resource
// semantics are implemented in user space.

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/connectdotz/metro/internal/js_ast"
	"github.com/connectdotz/metro/internal/logger"
)

type DynamicRequiresMode uint8

const (
	// Unfoldable specifiers raise InvalidRequireCallError
	DynamicRequiresReject DynamicRequiresMode = iota

	// An unfoldable synchronous require is rewritten to an expression that
	// throws when evaluated; it contributes no dependency. All other static
	// failures remain fatal.
	DynamicRequiresThrowAtRuntime
)

type Options struct {
	// The specifier used to register and refer to the synthetic async loader.
	// Required for modules that use any asynchronous form.
	AsyncRequireModulePath string

	DynamicRequires DynamicRequiresMode

	// Callee names whose invocations may be treated as side-effect-free for
	// the purpose of specifier folding. Accepted and currently ignored.
	InlineableCalls []string

	// Keep the resolved specifier as a trailing string-literal hint in
	// rewritten calls
	KeepRequireNames bool

	// Overrides the generated dependency map identifier. The caller owns
	// collision avoidance when this is set.
	DependencyMapName string

	// Optional trace logging; a no-op logger is used when nil
	Logger *zap.Logger
}

type Position struct {
	Line   int // 1-based
	Column int // 0-based, in bytes
}

type SourceSpan struct {
	Start Position
	End   Position
}

type DependencyData struct {
	IsAsync        bool
	IsPrefetchOnly bool
	Locs           []SourceSpan
}

// Dependency is one interned module dependency. Its index is implied by its
// position in Result.Dependencies.
type Dependency struct {
	Name string
	Data DependencyData
}

type Result struct {
	Dependencies      []Dependency
	DependencyMapName string
}

// The recognized intrinsic call forms. Dynamic "import" is syntactic and not
// part of this set.
const (
	requireName                    = "require"
	jsResourceName                 = "__jsResource"
	conditionallySplitResourceName = "__conditionallySplitJSResource"
	prefetchImportName             = "__prefetchImport"
)

type collector struct {
	options           Options
	source            logger.Source
	log               *zap.Logger
	scopes            scopeStack
	reg               *registry
	dependencyMapName string

	// Guards against const initializer cycles during specifier folding
	foldingNames map[string]bool
}

// Collect runs the pass over the tree, mutating it in place. On error the
// tree may be partially rewritten and must be discarded.
func Collect(source logger.Source, tree *js_ast.AST, options Options) (result Result, err error) {
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &collector{
		options:      options,
		source:       source,
		log:          log,
		reg:          newRegistry(log),
		foldingNames: make(map[string]bool),
	}

	c.dependencyMapName = options.DependencyMapName
	if c.dependencyMapName == "" {
		c.dependencyMapName = generateDependencyMapName(source.Contents)
	}

	defer func() {
		if r := recover(); r != nil {
			if p, isCollectorPanic := r.(collectorPanic); isCollectorPanic {
				err = p.err
				return
			}
			panic(r)
		}
	}()

	log.Debug("collecting dependencies", zap.String("file", source.PrettyPath))

	c.scopes.push(scopeProgram)
	c.scopes.declareStmts(tree.Stmts)
	c.visitStmts(tree.Stmts)
	c.scopes.pop()

	result = Result{
		Dependencies:      c.reg.snapshot(&source),
		DependencyMapName: c.dependencyMapName,
	}

	log.Debug("collected dependencies",
		zap.String("file", source.PrettyPath),
		zap.Int("count", len(result.Dependencies)))
	return
}

// generateDependencyMapName picks an identifier that appears nowhere in the
// module text. Scanning the raw text instead of the symbol table is
// conservative: a name that only occurs inside a comment or string is also
// skipped, which is harmless.
func generateDependencyMapName(contents string) string {
	for i := 1; ; i++ {
		name := "_dependencyMap"
		if i > 1 {
			name += strconv.Itoa(i)
		}
		if !strings.Contains(contents, name) {
			return name
		}
	}
}

func (c *collector) visitStmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		c.visitStmt(&stmts[i])
	}
}

func (c *collector) visitStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SDirective, *js_ast.SBreak, *js_ast.SContinue,
		*js_ast.SExportClause:

	case *js_ast.SImport:
		c.recordImportDecl(stmt.Loc, s.Path, s.PathLoc)

	case *js_ast.SExportFrom:
		c.recordImportDecl(stmt.Loc, s.Path, s.PathLoc)

	case *js_ast.SExportStar:
		c.recordImportDecl(stmt.Loc, s.Path, s.PathLoc)

	case *js_ast.SExportDefault:
		c.visitStmt(&s.Value)

	case *js_ast.SExpr:
		c.visitExpr(&s.Value)

	case *js_ast.SLocal:
		for i := range s.Decls {
			c.visitBindingExprs(&s.Decls[i].Binding)
			if s.Decls[i].ValueOrNil.Data != nil {
				c.visitExpr(&s.Decls[i].ValueOrNil)
			}
		}

	case *js_ast.SFunction:
		c.visitFn(&s.Fn)

	case *js_ast.SClass:
		c.visitClass(&s.Class)

	case *js_ast.SBlock:
		c.scopes.push(scopeBlock)
		c.scopes.declareStmts(s.Stmts)
		c.visitStmts(s.Stmts)
		c.scopes.pop()

	case *js_ast.SIf:
		c.visitExpr(&s.Test)
		c.visitStmt(&s.Yes)
		if s.NoOrNil.Data != nil {
			c.visitStmt(&s.NoOrNil)
		}

	case *js_ast.SFor:
		c.scopes.push(scopeBlock)
		if s.InitOrNil.Data != nil {
			if local, isLocal := s.InitOrNil.Data.(*js_ast.SLocal); isLocal {
				c.scopes.declareDecls(local)
			}
			c.visitStmt(&s.InitOrNil)
		}
		if s.TestOrNil.Data != nil {
			c.visitExpr(&s.TestOrNil)
		}
		if s.UpdateOrNil.Data != nil {
			c.visitExpr(&s.UpdateOrNil)
		}
		c.visitStmt(&s.Body)
		c.scopes.pop()

	case *js_ast.SForIn:
		c.visitForInOf(&s.Init, &s.Value, &s.Body)

	case *js_ast.SForOf:
		c.visitForInOf(&s.Init, &s.Value, &s.Body)

	case *js_ast.SWhile:
		c.visitExpr(&s.Test)
		c.visitStmt(&s.Body)

	case *js_ast.SDoWhile:
		c.visitStmt(&s.Body)
		c.visitExpr(&s.Test)

	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			c.visitExpr(&s.ValueOrNil)
		}

	case *js_ast.SThrow:
		c.visitExpr(&s.Value)

	case *js_ast.STry:
		c.scopes.push(scopeBlock)
		c.scopes.declareStmts(s.Body)
		c.visitStmts(s.Body)
		c.scopes.pop()
		if s.Catch != nil {
			c.scopes.push(scopeCatch)
			if s.Catch.BindingOrNil.Data != nil {
				c.scopes.declareBindingNames(s.Catch.BindingOrNil, bindingCatch)
			}
			c.scopes.declareStmts(s.Catch.Block)
			c.visitStmts(s.Catch.Block)
			c.scopes.pop()
		}
		if s.Finally != nil {
			c.scopes.push(scopeBlock)
			c.scopes.declareStmts(s.Finally.Stmts)
			c.visitStmts(s.Finally.Stmts)
			c.scopes.pop()
		}

	default:
		panic("Internal error")
	}
}

func (c *collector) visitForInOf(init *js_ast.Stmt, value *js_ast.Expr, body *js_ast.Stmt) {
	c.scopes.push(scopeBlock)
	if local, isLocal := init.Data.(*js_ast.SLocal); isLocal {
		c.scopes.declareDecls(local)
	}
	c.visitStmt(init)
	c.visitExpr(value)
	c.visitStmt(body)
	c.scopes.pop()
}

// visitBindingExprs visits the default-value expressions nested inside a
// binding pattern
func (c *collector) visitBindingExprs(binding *js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BArray:
		for i := range b.Items {
			c.visitBindingExprs(&b.Items[i].Binding)
			if b.Items[i].DefaultValueOrNil.Data != nil {
				c.visitExpr(&b.Items[i].DefaultValueOrNil)
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			if b.Properties[i].IsComputed {
				c.visitExpr(&b.Properties[i].Key)
			}
			c.visitBindingExprs(&b.Properties[i].Value)
			if b.Properties[i].DefaultValueOrNil.Data != nil {
				c.visitExpr(&b.Properties[i].DefaultValueOrNil)
			}
		}
	}
}

func (c *collector) visitFn(fn *js_ast.Fn) {
	c.scopes.push(scopeFunction)
	if fn.Name != nil {
		c.scopes.declare(fn.Name.Name, scopeBinding{kind: bindingFunction})
	}
	for i := range fn.Args {
		c.scopes.declareBindingNames(fn.Args[i].Binding, bindingParam)
	}
	c.scopes.declareStmts(fn.Body.Stmts)
	for i := range fn.Args {
		c.visitBindingExprs(&fn.Args[i].Binding)
		if fn.Args[i].DefaultOrNil.Data != nil {
			c.visitExpr(&fn.Args[i].DefaultOrNil)
		}
	}
	c.visitStmts(fn.Body.Stmts)
	c.scopes.pop()
}

func (c *collector) visitArrow(arrow *js_ast.EArrow) {
	c.scopes.push(scopeFunction)
	for i := range arrow.Args {
		c.scopes.declareBindingNames(arrow.Args[i].Binding, bindingParam)
	}
	c.scopes.declareStmts(arrow.Body.Stmts)
	for i := range arrow.Args {
		c.visitBindingExprs(&arrow.Args[i].Binding)
		if arrow.Args[i].DefaultOrNil.Data != nil {
			c.visitExpr(&arrow.Args[i].DefaultOrNil)
		}
	}
	c.visitStmts(arrow.Body.Stmts)
	c.scopes.pop()
}

func (c *collector) visitClass(class *js_ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		c.visitExpr(&class.ExtendsOrNil)
	}
	c.scopes.push(scopeClass)
	if class.Name != nil {
		c.scopes.declare(class.Name.Name, scopeBinding{kind: bindingClass})
	}
	for i := range class.Properties {
		property := &class.Properties[i]
		if property.IsComputed {
			c.visitExpr(&property.Key)
		}
		if property.ValueOrNil.Data != nil {
			c.visitExpr(&property.ValueOrNil)
		}
	}
	c.scopes.pop()
}

func (c *collector) visitExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier, *js_ast.EString, *js_ast.ENumber, *js_ast.EBoolean,
		*js_ast.ENull, *js_ast.EUndefined, *js_ast.EThis, *js_ast.EMissing,
		*js_ast.EImportMeta:

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			c.visitExpr(&e.TagOrNil)
		}
		for i := range e.Parts {
			c.visitExpr(&e.Parts[i].Value)
		}

	case *js_ast.EArray:
		for i := range e.Items {
			c.visitExpr(&e.Items[i])
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.IsComputed {
				c.visitExpr(&property.Key)
			}
			if property.ValueOrNil.Data != nil {
				c.visitExpr(&property.ValueOrNil)
			}
		}

	case *js_ast.ESpread:
		c.visitExpr(&e.Value)

	case *js_ast.EUnary:
		c.visitExpr(&e.Value)

	case *js_ast.EBinary:
		c.visitExpr(&e.Left)
		c.visitExpr(&e.Right)

	case *js_ast.EIf:
		c.visitExpr(&e.Test)
		c.visitExpr(&e.Yes)
		c.visitExpr(&e.No)

	case *js_ast.EDot:
		c.visitExpr(&e.Target)

	case *js_ast.EIndex:
		c.visitExpr(&e.Target)
		c.visitExpr(&e.Index)

	case *js_ast.ENew:
		c.visitExpr(&e.Target)
		for i := range e.Args {
			c.visitExpr(&e.Args[i])
		}

	case *js_ast.EAwait:
		c.visitExpr(&e.Value)

	case *js_ast.EArrow:
		c.visitArrow(e)

	case *js_ast.EFunction:
		c.visitFn(&e.Fn)

	case *js_ast.EClass:
		c.visitClass(&e.Class)

	case *js_ast.ECall:
		c.visitCall(expr, e)

	case *js_ast.EImportCall:
		c.processImportCall(expr, e)

	default:
		panic("Internal error")
	}
}

// visitCall classifies a call expression. Sites whose callee is one of the
// recognized bare names, unshadowed at this position, are processed and
// rewritten; everything else is traversed normally.
func (c *collector) visitCall(expr *js_ast.Expr, call *js_ast.ECall) {
	if id, isID := call.Target.Data.(*js_ast.EIdentifier); isID && !c.scopes.isShadowed(id.Name) {
		switch id.Name {
		case requireName:
			c.processRequireCall(expr, call)
			return
		case jsResourceName:
			c.processLoaderIntrinsic(expr, call, id.Name, "resource", 1, false)
			return
		case conditionallySplitResourceName:
			c.processLoaderIntrinsic(expr, call, id.Name, "resource", 2, false)
			return
		case prefetchImportName:
			c.processLoaderIntrinsic(expr, call, id.Name, "prefetch", 1, true)
			return
		}
	}

	c.visitExpr(&call.Target)
	for i := range call.Args {
		c.visitExpr(&call.Args[i])
	}
}

func (c *collector) callRange(loc logger.Loc, closeParenLoc logger.Loc) logger.Range {
	return logger.Range{Loc: loc, Len: closeParenLoc.Start + 1 - loc.Start}
}

func (c *collector) recordImportDecl(stmtLoc logger.Loc, path string, pathLoc logger.Loc) {
	r := logger.Range{Loc: stmtLoc}
	if stringRange := c.source.RangeOfString(pathLoc); stringRange.Len > 0 {
		r.Len = stringRange.End() - stmtLoc.Start
	}
	c.reg.register(path, depAttrs{}, &r)
}

func (c *collector) processRequireCall(expr *js_ast.Expr, call *js_ast.ECall) {
	r := c.callRange(expr.Loc, call.CloseParenLoc)

	var name string
	var failure *foldFailure
	if len(call.Args) == 1 {
		name, failure = c.foldSpecifier(call.Args[0])
	} else {
		// Wrong arity is reported the same way as a non-string argument
		failure = &foldFailure{cause: causeNonString, loc: expr.Loc}
	}
	if failure != nil {
		if failure.cause == causeNonString && c.options.DynamicRequires == DynamicRequiresThrowAtRuntime {
			originalArgs := call.Args
			c.rewriteToRuntimeThrow(expr, originalArgs)

			// Dependency sites nested inside the preserved argument are still
			// collected; they end up inside the throwing expression
			for i := range originalArgs {
				c.visitExpr(&originalArgs[i])
			}
			return
		}
		c.throwFoldFailure(requireName, failure)
	}

	index := c.reg.register(name, depAttrs{}, &r)
	c.rewriteSyncRequire(call, expr.Loc, index, name)
}

func (c *collector) processImportCall(expr *js_ast.Expr, importCall *js_ast.EImportCall) {
	r := c.callRange(expr.Loc, importCall.CloseParenLoc)

	name, failure := c.foldSpecifier(importCall.Expr)
	if failure != nil {
		c.throwFoldFailure("import", failure)
	}

	index := c.reg.register(name, depAttrs{isAsync: true}, &r)
	loaderIndex := c.reg.registerAsyncLoader(c.options.AsyncRequireModulePath)
	c.rewriteImportCall(expr, loaderIndex, index, name)
}

func (c *collector) processLoaderIntrinsic(expr *js_ast.Expr, call *js_ast.ECall, callee string, method string, arity int, isPrefetch bool) {
	r := c.callRange(expr.Loc, call.CloseParenLoc)

	if len(call.Args) != arity {
		c.throwInvalidRequireCall(r, callee+"() was called with the wrong number of arguments")
	}

	name, failure := c.foldSpecifier(call.Args[0])
	if failure != nil {
		c.throwFoldFailure(callee, failure)
	}

	index := c.reg.register(name, depAttrs{isAsync: true, isPrefetchOnly: isPrefetch}, &r)
	loaderIndex := c.reg.registerAsyncLoader(c.options.AsyncRequireModulePath)
	c.rewriteLoaderMethodCall(expr, method, loaderIndex, index, name)
}

func (c *collector) throwFoldFailure(callee string, failure *foldFailure) {
	r := logger.Range{Loc: failure.loc}
	switch failure.cause {
	case causeDynamicInterpolation:
		c.throwInvalidRequireCall(r, callee+"() argument contains a dynamic template interpolation and cannot be resolved statically")
	case causeTaggedTemplate:
		c.throwInvalidRequireCall(r, callee+"() argument is a tagged template literal, which cannot be resolved statically")
	default:
		c.throwInvalidRequireCall(r, callee+"() argument must be a string literal, or a value that statically resolves to one")
	}
}
