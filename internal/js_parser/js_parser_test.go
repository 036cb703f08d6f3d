package js_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectdotz/metro/internal/js_printer"
	"github.com/connectdotz/metro/internal/logger"
)

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		source := logger.Source{PrettyPath: "<stdin>", Contents: contents}
		log := logger.NewDeferLog()
		tree, ok := Parse(log, source)
		require.True(t, ok, "parse error: %v", log.Done())
		js := js_printer.Print(tree, js_printer.Options{}).JS
		assert.Equal(t, expected, string(js))
	})
}

func expectParseError(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		source := logger.Source{PrettyPath: "<stdin>", Contents: contents}
		log := logger.NewDeferLog()
		_, ok := Parse(log, source)
		assert.False(t, ok, "expected a parse error")
		assert.NotEmpty(t, log.Done())
	})
}

func TestExprPrecedence(t *testing.T) {
	expectPrinted(t, "x = 1", "x = 1;\n")
	expectPrinted(t, "a + b * c", "a + b * c;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a - b - c", "a - b - c;\n")
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "a += b", "a += b;\n")
	expectPrinted(t, "a ? b : c", "a ? b : c;\n")
	expectPrinted(t, "a || b && c", "a || b && c;\n")
	expectPrinted(t, "a ?? b", "a ?? b;\n")
	expectPrinted(t, "a === b !== c", "a === b !== c;\n")
	expectPrinted(t, "!a", "!a;\n")
	expectPrinted(t, "typeof a", "typeof a;\n")
	expectPrinted(t, "void 0", "void 0;\n")
	expectPrinted(t, "-x", "-x;\n")
	expectPrinted(t, "i++", "i++;\n")
	expectPrinted(t, "--i", "--i;\n")
	expectPrinted(t, "a instanceof B", "a instanceof B;\n")
	expectPrinted(t, "'k' in o", "\"k\" in o;\n")
}

func TestMemberAndCallExprs(t *testing.T) {
	expectPrinted(t, "a.b.c", "a.b.c;\n")
	expectPrinted(t, "a[b][0]", "a[b][0];\n")
	expectPrinted(t, "f(a, b)", "f(a, b);\n")
	expectPrinted(t, "f(...args)", "f(...args);\n")
	expectPrinted(t, "a?.b.c", "a?.b.c;\n")
	expectPrinted(t, "a?.[b]", "a?.[b];\n")
	expectPrinted(t, "f?.(x)", "f?.(x);\n")
	expectPrinted(t, "new Foo(a)", "new Foo(a);\n")
	expectPrinted(t, "new ns.Foo()", "new ns.Foo();\n")
	expectPrinted(t, "exports.do = 1", "exports.do = 1;\n")
	expectPrinted(t, "f(a, (b, c))", "f(a, (b, c));\n")
}

func TestLiterals(t *testing.T) {
	expectPrinted(t, "x = 'a'", "x = \"a\";\n")
	expectPrinted(t, "x = \"a\\n\"", "x = \"a\\n\";\n")
	expectPrinted(t, "x = 0x10", "x = 16;\n")
	expectPrinted(t, "x = 1_000", "x = 1000;\n")
	expectPrinted(t, "x = .5", "x = 0.5;\n")
	expectPrinted(t, "x = true", "x = true;\n")
	expectPrinted(t, "x = null", "x = null;\n")
	expectPrinted(t, "x = undefined", "x = undefined;\n")
	expectPrinted(t, "x = [1, , 2]", "x = [1, , 2];\n")
	expectPrinted(t, "x = { a: 1, b }", "x = { a: 1, b };\n")
	expectPrinted(t, "x = { 'a b': 1 }", "x = { \"a b\": 1 };\n")
	expectPrinted(t, "x = { [k]: 1 }", "x = { [k]: 1 };\n")
	expectPrinted(t, "x = { ...rest }", "x = { ...rest };\n")
}

func TestTemplates(t *testing.T) {
	expectPrinted(t, "x = `abc`", "x = `abc`;\n")
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = `${a}${b}`", "x = `${a}${b}`;\n")
	expectPrinted(t, "x = tag`a${b}c`", "x = tag`a${b}c`;\n")
	expectPrinted(t, "x = `a${b + c}d`", "x = `a${b + c}d`;\n")
}

func TestArrowFunctions(t *testing.T) {
	expectPrinted(t, "x = y => z", "x = y => z;\n")
	expectPrinted(t, "x = () => y", "x = () => y;\n")
	expectPrinted(t, "x = (a, b) => a + b", "x = (a, b) => a + b;\n")
	expectPrinted(t, "x = (a = 1) => a", "x = (a = 1) => a;\n")
	expectPrinted(t, "x = ({ a }) => a", "x = ({ a }) => a;\n")
	expectPrinted(t, "x = ([a]) => a", "x = ([a]) => a;\n")
	expectPrinted(t, "x = async y => y", "x = async y => y;\n")
	expectPrinted(t, "x = async () => y", "x = async () => y;\n")
	expectPrinted(t, "x = () => ({ a: 1 })", "x = () => ({ a: 1 });\n")
	expectPrinted(t, "(x => x)(1)", "(x => x)(1);\n")
}

func TestFunctions(t *testing.T) {
	expectPrinted(t, "function f(a, b) {\n  return a;\n}", "function f(a, b) {\n  return a;\n}\n")
	expectPrinted(t, "function f(...rest) {}", "function f(...rest) {\n}\n")
	expectPrinted(t, "async function f() {}", "async function f() {\n}\n")
	expectPrinted(t, "x = function() {}", "x = function() {\n};\n")
	expectPrinted(t, "x = function named() {}", "x = function named() {\n};\n")
	expectPrinted(t, "x = async () => await f()", "x = async () => await f();\n")
}

func TestDeclarations(t *testing.T) {
	expectPrinted(t, "var a", "var a;\n")
	expectPrinted(t, "let a, b = 1", "let a, b = 1;\n")
	expectPrinted(t, "const a = 1", "const a = 1;\n")
	expectPrinted(t, "const { a, b: c } = o", "const { a, b: c } = o;\n")
	expectPrinted(t, "const [a, , b] = xs", "const [a, , b] = xs;\n")
	expectPrinted(t, "const { a = 1 } = o", "const { a = 1 } = o;\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "a\nb", "a;\nb;\n")
	expectPrinted(t, ";", ";\n")
	expectPrinted(t, "{ a(); }", "{\n  a();\n}\n")
	expectPrinted(t, "if (a) b()", "if (a)\n  b();\n")
	expectPrinted(t, "if (a) { b(); }", "if (a) {\n  b();\n}\n")
	expectPrinted(t, "if (a) b(); else c()", "if (a)\n  b();\nelse\n  c();\n")
	expectPrinted(t, "if (a) { b(); } else if (c) { d(); }", "if (a) {\n  b();\n} else if (c) {\n  d();\n}\n")
	expectPrinted(t, "while (a) b()", "while (a)\n  b();\n")
	expectPrinted(t, "do { a(); } while (b)", "do {\n  a();\n} while (b);\n")
	expectPrinted(t, "for (let i = 0; i < 10; i++) f()", "for (let i = 0; i < 10; i++)\n  f();\n")
	expectPrinted(t, "for (;;) f()", "for (;;)\n  f();\n")
	expectPrinted(t, "for (const k in o) f(k)", "for (const k in o)\n  f(k);\n")
	expectPrinted(t, "for (const v of xs) f(v)", "for (const v of xs)\n  f(v);\n")
	expectPrinted(t, "throw new Error('x')", "throw new Error(\"x\");\n")
	expectPrinted(t, "try { f(); } catch (e) { g(); }", "try {\n  f();\n} catch (e) {\n  g();\n}\n")
	expectPrinted(t, "try { f(); } catch { g(); }", "try {\n  f();\n} catch {\n  g();\n}\n")
	expectPrinted(t, "try { f(); } finally { g(); }", "try {\n  f();\n} finally {\n  g();\n}\n")
	expectPrinted(t, "while (a) { break; }", "while (a) {\n  break;\n}\n")
	expectPrinted(t, "while (a) { continue; }", "while (a) {\n  continue;\n}\n")
	expectPrinted(t, "'use strict'\nf()", "\"use strict\";\nf();\n")
}

func TestClasses(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {\n}\n")
	expectPrinted(t, "class A extends B {}", "class A extends B {\n}\n")
	expectPrinted(t, "class A {\n  m(x) {\n    return x;\n  }\n}", "class A {\n  m(x) {\n    return x;\n  }\n}\n")
	expectPrinted(t, "class A { static m() {} }", "class A {\n  static m() {\n  }\n}\n")
	expectPrinted(t, "class A { f = 1; }", "class A {\n  f = 1;\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
}

func TestImports(t *testing.T) {
	expectPrinted(t, "import 'm'", "import \"m\";\n")
	expectPrinted(t, "import a from 'm'", "import a from \"m\";\n")
	expectPrinted(t, "import { a } from 'm'", "import { a } from \"m\";\n")
	expectPrinted(t, "import { a as b } from 'm'", "import { a as b } from \"m\";\n")
	expectPrinted(t, "import { default as d } from 'm'", "import { default as d } from \"m\";\n")
	expectPrinted(t, "import * as ns from 'm'", "import * as ns from \"m\";\n")
	expectPrinted(t, "import a, { b } from 'm'", "import a, { b } from \"m\";\n")
	expectPrinted(t, "import a, * as ns from 'm'", "import a, * as ns from \"m\";\n")
	expectPrinted(t, "import type { T } from 'm'", "import type { T } from \"m\";\n")
	expectPrinted(t, "import type T from 'm'", "import type T from \"m\";\n")
	expectPrinted(t, "import type from 'm'", "import type from \"m\";\n")
	expectPrinted(t, "import('m')", "import(\"m\");\n")
	expectPrinted(t, "import('m').then(f)", "import(\"m\").then(f);\n")
	expectPrinted(t, "x = import.meta", "x = import.meta;\n")
}

func TestExports(t *testing.T) {
	expectPrinted(t, "export { a }", "export { a };\n")
	expectPrinted(t, "export { a as b }", "export { a as b };\n")
	expectPrinted(t, "export { a } from 'm'", "export { a } from \"m\";\n")
	expectPrinted(t, "export * from 'm'", "export * from \"m\";\n")
	expectPrinted(t, "export * as ns from 'm'", "export * as ns from \"m\";\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
	expectPrinted(t, "export class A {}", "export class A {\n}\n")
	expectPrinted(t, "export default 1", "export default 1;\n")
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default function f() {}", "export default function f() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	expectPrinted(t, "a\nb", "a;\nb;\n")
	expectPrinted(t, "return", "return;\n")
	expectPrinted(t, "x = a\n++b", "x = a;\n++b;\n")
	expectPrinted(t, "f()\ng()", "f();\ng();\n")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "const")
	expectParseError(t, "x = ")
	expectParseError(t, "import(")
	expectParseError(t, "f(")
	expectParseError(t, "x = 'unterminated")
	expectParseError(t, "x = `unterminated")
	expectParseError(t, "function () {}")
	expectParseError(t, "import { a } 'm'")
	expectParseError(t, "export * 'm'")
	expectParseError(t, "try { f(); }")
	expectParseError(t, "x = {")
	expectParseError(t, "a & b")
}

func TestComments(t *testing.T) {
	expectPrinted(t, "// comment\nf()", "f();\n")
	expectPrinted(t, "/* multi\nline */ f()", "f();\n")
	expectPrinted(t, "f(/* inline */ a)", "f(a);\n")
}
