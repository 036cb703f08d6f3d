package dep_collector

import (
	"strings"

	"github.com/connectdotz/metro/internal/js_ast"
	"github.com/connectdotz/metro/internal/logger"
)

// The specifier evaluator constant-folds a deliberately tiny expression
// language: string literals, templates whose interpolations themselves fold,
// string concatenation with "+", and references to const bindings whose
// initializers fold. Everything else is refused, even when a richer evaluator
// could prove the value. The conservative refusal is part of the contract:
// widening the accepted grammar would reclassify previously-dynamic call
// sites as static.

type foldCause uint8

const (
	causeDynamicInterpolation foldCause = iota
	causeTaggedTemplate
	causeNonString
)

type foldFailure struct {
	cause foldCause
	loc   logger.Loc
}

func (c *collector) foldSpecifier(expr js_ast.Expr) (string, *foldFailure) {
	switch e := expr.Data.(type) {
	case *js_ast.EString:
		return e.Value, nil

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			return "", &foldFailure{cause: causeTaggedTemplate, loc: expr.Loc}
		}
		sb := strings.Builder{}
		sb.WriteString(e.HeadCooked)
		for _, part := range e.Parts {
			value, failure := c.foldSpecifier(part.Value)
			if failure != nil {
				return "", &foldFailure{cause: causeDynamicInterpolation, loc: part.Value.Loc}
			}
			sb.WriteString(value)
			sb.WriteString(part.TailCooked)
		}
		return sb.String(), nil

	case *js_ast.EBinary:
		if e.Op != js_ast.BinOpAdd {
			return "", &foldFailure{cause: causeNonString, loc: expr.Loc}
		}
		left, failure := c.foldSpecifier(e.Left)
		if failure != nil {
			return "", failure
		}
		right, failure := c.foldSpecifier(e.Right)
		if failure != nil {
			return "", failure
		}
		return left + right, nil

	case *js_ast.EIdentifier:
		// Only a const initializer is provably single-assignment. Guard
		// against initializer cycles by name.
		if c.foldingNames[e.Name] {
			return "", &foldFailure{cause: causeNonString, loc: expr.Loc}
		}
		value, ok := c.scopes.lookupConstValue(e.Name)
		if !ok {
			return "", &foldFailure{cause: causeNonString, loc: expr.Loc}
		}
		c.foldingNames[e.Name] = true
		folded, failure := c.foldSpecifier(value)
		delete(c.foldingNames, e.Name)
		if failure != nil {
			return "", &foldFailure{cause: causeNonString, loc: expr.Loc}
		}
		return folded, nil

	default:
		return "", &foldFailure{cause: causeNonString, loc: expr.Loc}
	}
}
