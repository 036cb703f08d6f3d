package dep_collector

import (
	"github.com/connectdotz/metro/internal/js_ast"
	"github.com/connectdotz/metro/internal/logger"
)

// The rewriter turns each recognized site into its canonical indexed form.
// The dependency map identifier is resolved by the runtime to an array whose
// indices match the ones assigned by the registry, so rewritten code never
// mentions module names except as an optional trailing hint.

// depMapRef builds "M[index]"
func (c *collector) depMapRef(loc logger.Loc, index int) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: c.dependencyMapName}},
		Index:  js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: float64(index)}},
	}}
}

// indexedArgs builds the argument list "M[index]" or "M[index], 'name'"
// depending on whether require names are kept
func (c *collector) indexedArgs(loc logger.Loc, index int, name string) []js_ast.Expr {
	args := []js_ast.Expr{c.depMapRef(loc, index)}
	if c.options.KeepRequireNames {
		args = append(args, js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: name}})
	}
	return args
}

// loaderCall builds "require(M[j], 'asyncRequireModulePath')", the call that
// resolves the async loader at runtime
func (c *collector) loaderCall(loc logger.Loc, loaderIndex int) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "require"}},
		Args:   c.indexedArgs(loc, loaderIndex, c.options.AsyncRequireModulePath),
	}}
}

// rewriteSyncRequire mutates "require(x)" into "require(M[i], 'x')" in place,
// preserving the original callee
func (c *collector) rewriteSyncRequire(call *js_ast.ECall, loc logger.Loc, index int, name string) {
	call.Args = c.indexedArgs(loc, index, name)
}

// rewriteImportCall replaces "import(x)" with
// "require(M[j], 'asyncRequire')(M[i], 'x')"
func (c *collector) rewriteImportCall(expr *js_ast.Expr, loaderIndex int, index int, name string) {
	loc := expr.Loc
	expr.Data = &js_ast.ECall{
		Target: c.loaderCall(loc, loaderIndex),
		Args:   c.indexedArgs(loc, index, name),
	}
}

// rewriteLoaderMethodCall replaces "__jsResource(x)" or "__prefetchImport(x)"
// with "require(M[j], 'asyncRequire').<method>(M[i], 'x')"
func (c *collector) rewriteLoaderMethodCall(expr *js_ast.Expr, method string, loaderIndex int, index int, name string) {
	loc := expr.Loc
	expr.Data = &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EDot{
			Target:  c.loaderCall(loc, loaderIndex),
			Name:    method,
			NameLoc: loc,
		}},
		Args: c.indexedArgs(loc, index, name),
	}
}

// rewriteToRuntimeThrow replaces an unresolvable "require(e)" with an
// immediately-invoked function that throws, carrying the original argument
// through as the reported line:
//
//	(function (line) { throw new Error('Dynamic require defined at line ' +
//	line + '; not supported by Metro'); })(e)
func (c *collector) rewriteToRuntimeThrow(expr *js_ast.Expr, originalArgs []js_ast.Expr) {
	loc := expr.Loc

	message := js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
		Op: js_ast.BinOpAdd,
		Left: js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAdd,
			Left:  js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: "Dynamic require defined at line "}},
			Right: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "line"}},
		}},
		Right: js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: "; not supported by Metro"}},
	}}

	throwStmt := js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{
		Value: js_ast.Expr{Loc: loc, Data: &js_ast.ENew{
			Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "Error"}},
			Args:   []js_ast.Expr{message},
		}},
	}}

	fn := js_ast.Fn{
		Args: []js_ast.Arg{{
			Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: "line"}},
		}},
		Body: js_ast.FnBody{Loc: loc, Stmts: []js_ast.Stmt{throwStmt}},
	}

	expr.Data = &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}},
		Args:   originalArgs,
	}
}
