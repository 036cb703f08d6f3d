package js_printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/connectdotz/metro/internal/js_ast"
	"github.com/connectdotz/metro/internal/logger"
)

func TestQuoteForJS(t *testing.T) {
	assert.Equal(t, `"abc"`, QuoteForJS("abc"))
	assert.Equal(t, `"a\"b"`, QuoteForJS(`a"b`))
	assert.Equal(t, `"a\\b"`, QuoteForJS(`a\b`))
	assert.Equal(t, `"a\nb"`, QuoteForJS("a\nb"))
	assert.Equal(t, `"\t"`, QuoteForJS("\t"))
	assert.Equal(t, `"\x01"`, QuoteForJS("\x01"))
	assert.Equal(t, `" "`, QuoteForJS(" "))
	assert.Equal(t, `"héllo"`, QuoteForJS("héllo"))
}

func TestPrintExpr(t *testing.T) {
	loc := logger.Loc{}

	// The canonical rewritten require form: require(M[0], "name")
	expr := js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "require"}},
		Args: []js_ast.Expr{
			{Loc: loc, Data: &js_ast.EIndex{
				Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "_dependencyMap"}},
				Index:  js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: 0}},
			}},
			{Loc: loc, Data: &js_ast.EString{Value: "name"}},
		},
	}}
	assert.Equal(t, `require(_dependencyMap[0], "name")`, string(PrintExpr(expr)))
}

func TestPrintNumbers(t *testing.T) {
	check := func(value float64, expected string) {
		expr := js_ast.Expr{Data: &js_ast.ENumber{Value: value}}
		assert.Equal(t, expected, string(PrintExpr(expr)))
	}

	check(0, "0")
	check(1, "1")
	check(255, "255")
	check(0.5, "0.5")
	check(-0.25+0.5, "0.25")
	check(1e21, "1e+21")
}

func TestPrintIndentOption(t *testing.T) {
	tree := js_ast.AST{Stmts: []js_ast.Stmt{
		{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "x"}}}},
	}}
	js := Print(tree, Options{Indent: 1}).JS
	assert.Equal(t, "  x;\n", string(js))
}
