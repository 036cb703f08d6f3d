package js_printer

// Converts an AST back into JavaScript source text. The output is pretty-
// printed with two-space indentation. Parentheses are reconstructed from
// operator precedence rather than preserved from the input, so the result is
// equivalent modulo whitespace and redundant parentheses.

import (
	"math"
	"strconv"
	"strings"

	"github.com/connectdotz/metro/internal/js_ast"
)

type Options struct {
	// Indentation to apply to every line (used when printing a module that
	// will be nested inside a wrapper function)
	Indent int
}

type PrintResult struct {
	JS []byte
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{options: options}
	for _, stmt := range tree.Stmts {
		p.emitStmt(stmt)
	}
	return PrintResult{JS: []byte(p.sb.String())}
}

// PrintExpr prints a single expression, which is useful in tests
func PrintExpr(expr js_ast.Expr) []byte {
	p := &printer{}
	p.emitExpr(expr, js_ast.LLowest)
	return []byte(p.sb.String())
}

type printer struct {
	options Options
	indent  int
	sb      strings.Builder
}

func (p *printer) emit(text string) {
	p.sb.WriteString(text)
}

func (p *printer) emitIndent() {
	for i := 0; i < p.options.Indent+p.indent; i++ {
		p.emit("  ")
	}
}

func (p *printer) emitNewline() {
	p.emit("\n")
}

func (p *printer) emitSpace() {
	p.emit(" ")
}

// QuoteForJS returns a double-quoted JavaScript string literal
func QuoteForJS(text string) string {
	sb := strings.Builder{}
	sb.WriteByte('"')
	for _, c := range text {
		switch c {
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\v':
			sb.WriteString("\\v")
		case 0:
			sb.WriteString("\\0")
		case 0x2028:
			sb.WriteString("\\u2028")
		case 0x2029:
			sb.WriteString("\\u2029")
		default:
			if c < 0x20 {
				sb.WriteString("\\x")
				const hex = "0123456789abcdef"
				sb.WriteByte(hex[(c>>4)&15])
				sb.WriteByte(hex[c&15])
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (p *printer) emitQuoted(text string) {
	p.emit(QuoteForJS(text))
}

func (p *printer) emitNumber(value float64) {
	if value != value {
		p.emit("NaN")
		return
	}
	if math.IsInf(value, 1) {
		p.emit("Infinity")
		return
	}
	if math.IsInf(value, -1) {
		p.emit("-Infinity")
		return
	}
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		p.emit(strconv.FormatInt(int64(value), 10))
		return
	}
	p.emit(strconv.FormatFloat(value, 'g', -1, 64))
}

func (p *printer) emitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.emit(b.Name)

	case *js_ast.BArray:
		p.emit("[")
		for i, item := range b.Items {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			if b.HasSpread && i == len(b.Items)-1 {
				p.emit("...")
			}
			p.emitBinding(item.Binding)
			if item.DefaultValueOrNil.Data != nil {
				p.emitSpace()
				p.emit("=")
				p.emitSpace()
				p.emitExpr(item.DefaultValueOrNil, js_ast.LComma)
			}
		}
		p.emit("]")

	case *js_ast.BObject:
		p.emit("{")
		for i, property := range b.Properties {
			if i > 0 {
				p.emit(",")
			}
			p.emitSpace()
			if property.IsSpread {
				p.emit("...")
				p.emitBinding(property.Value)
			} else {
				if property.IsComputed {
					p.emit("[")
					p.emitExpr(property.Key, js_ast.LComma)
					p.emit("]:")
					p.emitSpace()
					p.emitBinding(property.Value)
				} else {
					shorthand := false
					if str, ok := property.Key.Data.(*js_ast.EString); ok {
						if id, okID := property.Value.Data.(*js_ast.BIdentifier); okID && id.Name == str.Value {
							p.emit(id.Name)
							shorthand = true
						}
					}
					if !shorthand {
						p.emitPropertyKey(property.Key)
						p.emit(":")
						p.emitSpace()
						p.emitBinding(property.Value)
					}
				}
				if property.DefaultValueOrNil.Data != nil {
					p.emitSpace()
					p.emit("=")
					p.emitSpace()
					p.emitExpr(property.DefaultValueOrNil, js_ast.LComma)
				}
			}
		}
		if len(b.Properties) > 0 {
			p.emitSpace()
		}
		p.emit("}")

	default:
		panic("Internal error")
	}
}

func (p *printer) emitPropertyKey(key js_ast.Expr) {
	switch k := key.Data.(type) {
	case *js_ast.EString:
		if isIdentifierText(k.Value) {
			p.emit(k.Value)
		} else {
			p.emitQuoted(k.Value)
		}
	case *js_ast.ENumber:
		p.emitNumber(k.Value)
	default:
		p.emitExpr(key, js_ast.LComma)
	}
}

func isIdentifierText(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, c := range text {
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

func (p *printer) emitFnArgs(args []js_ast.Arg, hasRestArg bool) {
	p.emit("(")
	for i, arg := range args {
		if i > 0 {
			p.emit(",")
			p.emitSpace()
		}
		if hasRestArg && i == len(args)-1 {
			p.emit("...")
		}
		p.emitBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			p.emitSpace()
			p.emit("=")
			p.emitSpace()
			p.emitExpr(arg.DefaultOrNil, js_ast.LComma)
		}
	}
	p.emit(")")
}

func (p *printer) emitBlock(stmts []js_ast.Stmt) {
	p.emit("{")
	p.emitNewline()
	p.indent++
	for _, stmt := range stmts {
		p.emitStmt(stmt)
	}
	p.indent--
	p.emitIndent()
	p.emit("}")
}

func (p *printer) emitFn(fn js_ast.Fn) {
	if fn.IsAsync {
		p.emit("async ")
	}
	p.emit("function")
	if fn.Name != nil {
		p.emit(" ")
		p.emit(fn.Name.Name)
	}
	p.emitFnArgs(fn.Args, fn.HasRestArg)
	p.emitSpace()
	p.emitBlock(fn.Body.Stmts)
}

func (p *printer) emitClass(class js_ast.Class) {
	p.emit("class")
	if class.Name != nil {
		p.emit(" ")
		p.emit(class.Name.Name)
	}
	if class.ExtendsOrNil.Data != nil {
		p.emit(" extends ")
		p.emitExpr(class.ExtendsOrNil, js_ast.LNew)
	}
	p.emitSpace()
	p.emit("{")
	p.emitNewline()
	p.indent++
	for _, property := range class.Properties {
		p.emitIndent()
		if property.IsStatic {
			p.emit("static ")
		}
		if fn, ok := property.ValueOrNil.Data.(*js_ast.EFunction); ok && property.Kind == js_ast.PropertyMethod {
			if fn.Fn.IsAsync {
				p.emit("async ")
			}
			p.emitObjectKey(property)
			p.emitFnArgs(fn.Fn.Args, fn.Fn.HasRestArg)
			p.emitSpace()
			p.emitBlock(fn.Fn.Body.Stmts)
		} else {
			p.emitObjectKey(property)
			if property.ValueOrNil.Data != nil {
				p.emitSpace()
				p.emit("=")
				p.emitSpace()
				p.emitExpr(property.ValueOrNil, js_ast.LComma)
			}
			p.emit(";")
		}
		p.emitNewline()
	}
	p.indent--
	p.emitIndent()
	p.emit("}")
}

func (p *printer) emitObjectKey(property js_ast.Property) {
	if property.IsComputed {
		p.emit("[")
		p.emitExpr(property.Key, js_ast.LComma)
		p.emit("]")
	} else {
		p.emitPropertyKey(property.Key)
	}
}

func (p *printer) emitExpr(expr js_ast.Expr, level js_ast.L) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		p.emit("undefined")

	case *js_ast.ENull:
		p.emit("null")

	case *js_ast.EThis:
		p.emit("this")

	case *js_ast.EBoolean:
		if e.Value {
			p.emit("true")
		} else {
			p.emit("false")
		}

	case *js_ast.ENumber:
		p.emitNumber(e.Value)

	case *js_ast.EString:
		p.emitQuoted(e.Value)

	case *js_ast.EIdentifier:
		p.emit(e.Name)

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			p.emitExpr(e.TagOrNil, js_ast.LPostfix)
		}
		p.emit("`")
		p.emit(e.HeadRaw)
		for _, part := range e.Parts {
			p.emit("${")
			p.emitExpr(part.Value, js_ast.LLowest)
			p.emit("}")
			p.emit(part.TailRaw)
		}
		p.emit("`")

	case *js_ast.EArray:
		p.emit("[")
		for i, item := range e.Items {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			p.emitExpr(item, js_ast.LComma)
		}
		p.emit("]")

	case *js_ast.EObject:
		p.emit("{")
		for i, property := range e.Properties {
			if i > 0 {
				p.emit(",")
			}
			p.emitSpace()
			p.emitObjectProperty(property)
		}
		if len(e.Properties) > 0 {
			p.emitSpace()
		}
		p.emit("}")

	case *js_ast.ESpread:
		p.emit("...")
		p.emitExpr(e.Value, js_ast.LComma)

	case *js_ast.EFunction:
		p.emitFn(e.Fn)

	case *js_ast.EClass:
		p.emitClass(e.Class)

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.emit("(")
		}
		if e.IsAsync {
			p.emit("async ")
		}
		if len(e.Args) == 1 && !e.HasRestArg && e.Args[0].DefaultOrNil.Data == nil {
			if id, ok := e.Args[0].Binding.Data.(*js_ast.BIdentifier); ok {
				p.emit(id.Name)
			} else {
				p.emitFnArgs(e.Args, e.HasRestArg)
			}
		} else {
			p.emitFnArgs(e.Args, e.HasRestArg)
		}
		p.emitSpace()
		p.emit("=>")
		p.emitSpace()
		printedExpr := false
		if e.PreferExpr && len(e.Body.Stmts) == 1 {
			if ret, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && ret.ValueOrNil.Data != nil {
				// An object literal here would parse as a block
				if _, isObject := ret.ValueOrNil.Data.(*js_ast.EObject); isObject {
					p.emit("(")
					p.emitExpr(ret.ValueOrNil, js_ast.LLowest)
					p.emit(")")
				} else {
					p.emitExpr(ret.ValueOrNil, js_ast.LComma)
				}
				printedExpr = true
			}
		}
		if !printedExpr {
			p.emitBlock(e.Body.Stmts)
		}
		if wrap {
			p.emit(")")
		}

	case *js_ast.EDot:
		p.emitExpr(e.Target, js_ast.LPostfix)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.emit("?.")
		} else {
			p.emit(".")
		}
		p.emit(e.Name)

	case *js_ast.EIndex:
		p.emitExpr(e.Target, js_ast.LPostfix)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.emit("?.")
		}
		p.emit("[")
		p.emitExpr(e.Index, js_ast.LLowest)
		p.emit("]")

	case *js_ast.ECall:
		wrap := level >= js_ast.LCall
		if wrap {
			p.emit("(")
		}
		// A function expression as a call target always gets parentheses so
		// an immediately-invoked expression survives statement position
		if _, isFn := e.Target.Data.(*js_ast.EFunction); isFn {
			p.emit("(")
			p.emitExpr(e.Target, js_ast.LLowest)
			p.emit(")")
		} else {
			p.emitExpr(e.Target, js_ast.LPostfix)
		}
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.emit("?.")
		}
		p.emit("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			p.emitExpr(arg, js_ast.LComma)
		}
		p.emit(")")
		if wrap {
			p.emit(")")
		}

	case *js_ast.ENew:
		p.emit("new ")
		p.emitExpr(e.Target, js_ast.LCall)
		p.emit("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			p.emitExpr(arg, js_ast.LComma)
		}
		p.emit(")")

	case *js_ast.EImportCall:
		p.emit("import(")
		p.emitExpr(e.Expr, js_ast.LComma)
		if e.OptionsOrNil.Data != nil {
			p.emit(",")
			p.emitSpace()
			p.emitExpr(e.OptionsOrNil, js_ast.LComma)
		}
		p.emit(")")

	case *js_ast.EImportMeta:
		p.emit("import.meta")

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.emit("(")
		}
		p.emit("await ")
		p.emitExpr(e.Value, js_ast.LPrefix-1)
		if wrap {
			p.emit(")")
		}

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.emit("(")
		}
		p.emitExpr(e.Test, js_ast.LConditional)
		p.emitSpace()
		p.emit("?")
		p.emitSpace()
		p.emitExpr(e.Yes, js_ast.LComma)
		p.emitSpace()
		p.emit(":")
		p.emitSpace()
		p.emitExpr(e.No, js_ast.LComma)
		if wrap {
			p.emit(")")
		}

	case *js_ast.EUnary:
		p.emitUnary(e, level)

	case *js_ast.EBinary:
		p.emitBinary(e, level)

	default:
		panic("Internal error")
	}
}

// emitUnary wraps the operand tightly; keyword operators need a separating
// space, punctuation ones do not.
func (p *printer) emitUnary(e *js_ast.EUnary, level js_ast.L) {
	entry := js_ast.OpTable[e.Op]
	parenthesize := level >= entry.Level
	if parenthesize {
		p.emit("(")
	}

	if !e.Op.IsPrefix() {
		p.emitExpr(e.Value, js_ast.LPostfix-1)
		p.emit(entry.Text)
	} else {
		p.emit(entry.Text)
		if entry.IsKeyword {
			p.emit(" ")
		}
		p.emitExpr(e.Value, js_ast.LPrefix-1)
	}

	if parenthesize {
		p.emit(")")
	}
}

// emitBinary prints one operand at the operator's own level and the other one
// level looser: the tight side is the one the operator does NOT group with,
// which forces parentheses there when precedence ties.
func (p *printer) emitBinary(e *js_ast.EBinary, level js_ast.L) {
	entry := js_ast.OpTable[e.Op]
	parenthesize := level >= entry.Level
	if parenthesize {
		p.emit("(")
	}

	tight, loose := entry.Level, entry.Level-1
	if e.Op.IsBinaryAssign() {
		// Right-associative: the left side is the tight one
		tight, loose = loose, tight
	}

	p.emitExpr(e.Left, loose)
	if e.Op != js_ast.BinOpComma {
		p.emitSpace()
	}
	p.emit(entry.Text)
	p.emitSpace()
	p.emitExpr(e.Right, tight)

	if parenthesize {
		p.emit(")")
	}
}

func (p *printer) emitObjectProperty(property js_ast.Property) {
	switch property.Kind {
	case js_ast.PropertySpread:
		p.emit("...")
		p.emitExpr(property.ValueOrNil, js_ast.LComma)

	case js_ast.PropertyShorthand:
		p.emitExpr(property.ValueOrNil, js_ast.LComma)

	case js_ast.PropertyMethod:
		fn := property.ValueOrNil.Data.(*js_ast.EFunction)
		if fn.Fn.IsAsync {
			p.emit("async ")
		}
		p.emitObjectKey(property)
		p.emitFnArgs(fn.Fn.Args, fn.Fn.HasRestArg)
		p.emitSpace()
		p.emitBlock(fn.Fn.Body.Stmts)

	default:
		p.emitObjectKey(property)
		p.emit(":")
		p.emitSpace()
		p.emitExpr(property.ValueOrNil, js_ast.LComma)
	}
}

func (p *printer) emitClauseItems(items []js_ast.ClauseItem) {
	p.emit("{")
	for i, item := range items {
		if i > 0 {
			p.emit(",")
		}
		p.emitSpace()
		p.emit(item.OriginalName)
		if item.Alias != item.OriginalName {
			p.emit(" as ")
			p.emit(item.Alias)
		}
	}
	if len(items) > 0 {
		p.emitSpace()
	}
	p.emit("}")
}

func (p *printer) emitLoopBody(stmt js_ast.Stmt) {
	if block, ok := stmt.Data.(*js_ast.SBlock); ok {
		p.emitSpace()
		p.emitBlock(block.Stmts)
		p.emitNewline()
	} else {
		p.emitNewline()
		p.indent++
		p.emitStmt(stmt)
		p.indent--
	}
}

func (p *printer) emitStmt(stmt js_ast.Stmt) {
	p.emitIndent()

	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.emit(";")
		p.emitNewline()

	case *js_ast.SDirective:
		p.emitQuoted(s.Value)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SBlock:
		p.emitBlock(s.Stmts)
		p.emitNewline()

	case *js_ast.SExpr:
		// A function, class, or object literal at the start of an expression
		// statement needs parentheses to avoid parsing as a declaration
		switch s.Value.Data.(type) {
		case *js_ast.EFunction, *js_ast.EClass, *js_ast.EObject:
			p.emit("(")
			p.emitExpr(s.Value, js_ast.LLowest)
			p.emit(")")
		default:
			p.emitExpr(s.Value, js_ast.LLowest)
		}
		p.emit(";")
		p.emitNewline()

	case *js_ast.SLocal:
		if s.IsExport {
			p.emit("export ")
		}
		p.emit(s.Kind.String())
		p.emit(" ")
		for i, decl := range s.Decls {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			p.emitBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				p.emitSpace()
				p.emit("=")
				p.emitSpace()
				p.emitExpr(decl.ValueOrNil, js_ast.LComma)
			}
		}
		p.emit(";")
		p.emitNewline()

	case *js_ast.SFunction:
		if s.IsExport {
			p.emit("export ")
		}
		p.emitFn(s.Fn)
		p.emitNewline()

	case *js_ast.SClass:
		if s.IsExport {
			p.emit("export ")
		}
		p.emitClass(s.Class)
		p.emitNewline()

	case *js_ast.SIf:
		p.emitIf(s)

	case *js_ast.SFor:
		p.emit("for")
		p.emitSpace()
		p.emit("(")
		if s.InitOrNil.Data != nil {
			p.emitForLoopInit(s.InitOrNil)
		}
		p.emit(";")
		if s.TestOrNil.Data != nil {
			p.emitSpace()
			p.emitExpr(s.TestOrNil, js_ast.LLowest)
		}
		p.emit(";")
		if s.UpdateOrNil.Data != nil {
			p.emitSpace()
			p.emitExpr(s.UpdateOrNil, js_ast.LLowest)
		}
		p.emit(")")
		p.emitLoopBody(s.Body)

	case *js_ast.SForIn:
		p.emit("for")
		p.emitSpace()
		p.emit("(")
		p.emitForLoopInit(s.Init)
		p.emit(" in ")
		p.emitExpr(s.Value, js_ast.LComma)
		p.emit(")")
		p.emitLoopBody(s.Body)

	case *js_ast.SForOf:
		p.emit("for")
		p.emitSpace()
		p.emit("(")
		p.emitForLoopInit(s.Init)
		p.emit(" of ")
		p.emitExpr(s.Value, js_ast.LComma)
		p.emit(")")
		p.emitLoopBody(s.Body)

	case *js_ast.SWhile:
		p.emit("while")
		p.emitSpace()
		p.emit("(")
		p.emitExpr(s.Test, js_ast.LLowest)
		p.emit(")")
		p.emitLoopBody(s.Body)

	case *js_ast.SDoWhile:
		p.emit("do")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
			p.emitSpace()
			p.emitBlock(block.Stmts)
			p.emitSpace()
		} else {
			p.emitNewline()
			p.indent++
			p.emitStmt(s.Body)
			p.indent--
			p.emitIndent()
		}
		p.emit("while")
		p.emitSpace()
		p.emit("(")
		p.emitExpr(s.Test, js_ast.LLowest)
		p.emit(");")
		p.emitNewline()

	case *js_ast.SReturn:
		p.emit("return")
		if s.ValueOrNil.Data != nil {
			p.emit(" ")
			p.emitExpr(s.ValueOrNil, js_ast.LLowest)
		}
		p.emit(";")
		p.emitNewline()

	case *js_ast.SThrow:
		p.emit("throw ")
		p.emitExpr(s.Value, js_ast.LLowest)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SBreak:
		p.emit("break;")
		p.emitNewline()

	case *js_ast.SContinue:
		p.emit("continue;")
		p.emitNewline()

	case *js_ast.STry:
		p.emit("try")
		p.emitSpace()
		p.emitBlock(s.Body)
		if s.Catch != nil {
			p.emitSpace()
			p.emit("catch")
			if s.Catch.BindingOrNil.Data != nil {
				p.emitSpace()
				p.emit("(")
				p.emitBinding(s.Catch.BindingOrNil)
				p.emit(")")
			}
			p.emitSpace()
			p.emitBlock(s.Catch.Block)
		}
		if s.Finally != nil {
			p.emitSpace()
			p.emit("finally")
			p.emitSpace()
			p.emitBlock(s.Finally.Stmts)
		}
		p.emitNewline()

	case *js_ast.SImport:
		p.emit("import ")
		if s.IsTypeOnly {
			p.emit("type ")
		}
		hasClause := false
		if s.DefaultName != nil {
			p.emit(s.DefaultName.Name)
			hasClause = true
		}
		if s.StarName != nil {
			if hasClause {
				p.emit(",")
				p.emitSpace()
			}
			p.emit("* as ")
			p.emit(s.StarName.Name)
			hasClause = true
		}
		if s.Items != nil {
			if hasClause {
				p.emit(",")
				p.emitSpace()
			}
			p.emitClauseItems(*s.Items)
			hasClause = true
		}
		if hasClause {
			p.emit(" from ")
		}
		p.emitQuoted(s.Path)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SExportClause:
		p.emit("export ")
		p.emitClauseItems(s.Items)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SExportFrom:
		p.emit("export ")
		p.emitClauseItems(s.Items)
		p.emit(" from ")
		p.emitQuoted(s.Path)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SExportStar:
		p.emit("export *")
		if s.Alias != nil {
			p.emit(" as ")
			p.emit(s.Alias.Name)
		}
		p.emit(" from ")
		p.emitQuoted(s.Path)
		p.emit(";")
		p.emitNewline()

	case *js_ast.SExportDefault:
		p.emit("export default ")
		switch v := s.Value.Data.(type) {
		case *js_ast.SExpr:
			p.emitExpr(v.Value, js_ast.LComma)
			p.emit(";")
			p.emitNewline()
		case *js_ast.SFunction:
			p.emitFn(v.Fn)
			p.emitNewline()
		case *js_ast.SClass:
			p.emitClass(v.Class)
			p.emitNewline()
		default:
			panic("Internal error")
		}

	default:
		panic("Internal error")
	}
}

func (p *printer) emitForLoopInit(init js_ast.Stmt) {
	switch s := init.Data.(type) {
	case *js_ast.SExpr:
		p.emitExpr(s.Value, js_ast.LLowest)
	case *js_ast.SLocal:
		p.emit(s.Kind.String())
		p.emit(" ")
		for i, decl := range s.Decls {
			if i > 0 {
				p.emit(",")
				p.emitSpace()
			}
			p.emitBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				p.emitSpace()
				p.emit("=")
				p.emitSpace()
				p.emitExpr(decl.ValueOrNil, js_ast.LComma)
			}
		}
	default:
		panic("Internal error")
	}
}

func (p *printer) emitIf(s *js_ast.SIf) {
	p.emit("if")
	p.emitSpace()
	p.emit("(")
	p.emitExpr(s.Test, js_ast.LLowest)
	p.emit(")")

	if block, ok := s.Yes.Data.(*js_ast.SBlock); ok {
		p.emitSpace()
		p.emitBlock(block.Stmts)
		if s.NoOrNil.Data != nil {
			p.emitSpace()
		} else {
			p.emitNewline()
		}
	} else {
		p.emitNewline()
		p.indent++
		p.emitStmt(s.Yes)
		p.indent--
		if s.NoOrNil.Data != nil {
			p.emitIndent()
		}
	}

	if s.NoOrNil.Data != nil {
		p.emit("else")
		if noBlock, ok := s.NoOrNil.Data.(*js_ast.SBlock); ok {
			p.emitSpace()
			p.emitBlock(noBlock.Stmts)
			p.emitNewline()
		} else if noIf, ok := s.NoOrNil.Data.(*js_ast.SIf); ok {
			p.emit(" ")
			p.emitIf(noIf)
		} else {
			p.emitNewline()
			p.indent++
			p.emitStmt(s.NoOrNil)
			p.indent--
		}
	}
}
