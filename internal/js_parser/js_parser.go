package js_parser

// A hand-written recursive descent parser for the subset of ECMAScript that
// module code in this toolchain is expected to use. Operator precedence is
// handled the usual way: "parseOperand" consumes a primary expression and
// "continueExpr" keeps extending it while the next operator binds tighter than
// the requested level.

import (
	"github.com/connectdotz/metro/internal/js_ast"
	"github.com/connectdotz/metro/internal/js_lexer"
	"github.com/connectdotz/metro/internal/logger"
)

type parser struct {
	log    *logger.Log
	source logger.Source
	lexer  js_lexer.Lexer

	// "in" is not allowed at the top level of a for-loop initializer
	allowIn bool
}

// Parse converts source text into an AST. Syntax errors are added to the log
// and cause "ok" to be false; the returned tree is then incomplete and must
// not be used.
func Parse(log *logger.Log, source logger.Source) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:     log,
		source:  source,
		lexer:   js_lexer.NewLexer(log, source),
		allowIn: true,
	}

	result.Stmts = p.parseStmtsUntil(js_lexer.TEndOfFile)
	return
}

func (p *parser) parseStmtsUntil(end js_lexer.T) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	isDirectivePrologue := true

	for p.lexer.Token != end {
		stmt := p.parseStmt()

		// A string literal expression statement at the top of the block is a
		// directive ("use strict" and friends)
		if isDirectivePrologue {
			if expr, isExpr := stmt.Data.(*js_ast.SExpr); isExpr {
				if str, isStr := expr.Value.Data.(*js_ast.EString); isStr {
					stmt.Data = &js_ast.SDirective{Value: str.Value}
				} else {
					isDirectivePrologue = false
				}
			} else {
				isDirectivePrologue = false
			}
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

func (p *parser) parseBlock() []js_ast.Stmt {
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUntil(js_lexer.TCloseBrace)
	p.lexer.Expect(js_lexer.TCloseBrace)
	return stmts
}

func (p *parser) parseStmt() js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		stmts := p.parseStmtsUntil(js_lexer.TCloseBrace)
		closeBraceLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts, CloseBraceLoc: closeBraceLoc}}

	case js_lexer.TVar, js_lexer.TLet, js_lexer.TConst:
		kind := localKindForToken(p.lexer.Token)
		p.lexer.Next()
		decls := p.parseDecls()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: kind, Decls: decls}}

	case js_lexer.TIf:
		return p.parseIfStmt(loc)

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt()
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TFunction:
		fn := p.parseFn(false /* isAsync */, true /* requireName */)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}}

	case js_lexer.TClass:
		class := p.parseClass()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}}

	case js_lexer.TReturn:
		p.lexer.Next()
		var value js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon && p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile && !p.lexer.HasNewlineBefore {
			value = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

	case js_lexer.TTry:
		return p.parseTryStmt(loc)

	case js_lexer.TBreak:
		p.lexer.Next()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{}}

	case js_lexer.TContinue:
		p.lexer.Next()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{}}

	case js_lexer.TImport:
		return p.parseImportStmt(loc)

	case js_lexer.TExport:
		return p.parseExportStmt(loc)

	default:
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ConsumeSemicolon()

		// "async function f() {}" parses as an expression because "async" is
		// contextual, but a named function at statement level is a declaration
		if fn, isFn := expr.Data.(*js_ast.EFunction); isFn && fn.Fn.Name != nil {
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn.Fn}}
		}

		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}
}

func localKindForToken(token js_lexer.T) js_ast.LocalKind {
	switch token {
	case js_lexer.TVar:
		return js_ast.LocalVar
	case js_lexer.TLet:
		return js_ast.LocalLet
	default:
		return js_ast.LocalConst
	}
}

func (p *parser) parseIfStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)
	test := p.parseExpr(js_ast.LLowest)
	p.lexer.Expect(js_lexer.TCloseParen)
	yes := p.parseStmt()

	var no js_ast.Stmt
	if p.lexer.Token == js_lexer.TElse {
		p.lexer.Next()
		no = p.parseStmt()
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: no}}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)

	var init js_ast.Stmt

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		// No initializer

	case js_lexer.TVar, js_lexer.TLet, js_lexer.TConst:
		kind := localKindForToken(p.lexer.Token)
		declLoc := p.lexer.Loc()
		p.lexer.Next()
		binding := p.parseBinding()

		// "for (const x of y)" and "for (const x in y)"
		if p.lexer.Token == js_lexer.TIn || p.lexer.IsContextualKeyword("of") {
			isOf := p.lexer.Token != js_lexer.TIn
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			p.lexer.Expect(js_lexer.TCloseParen)
			body := p.parseStmt()
			initStmt := js_ast.Stmt{Loc: declLoc, Data: &js_ast.SLocal{
				Kind:  kind,
				Decls: []js_ast.Decl{{Binding: binding}},
			}}
			if isOf {
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{Init: initStmt, Value: value, Body: body}}
			}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: initStmt, Value: value, Body: body}}
		}

		decls := p.parseDeclsAfterBinding(binding)
		init = js_ast.Stmt{Loc: declLoc, Data: &js_ast.SLocal{Kind: kind, Decls: decls}}

	default:
		oldAllowIn := p.allowIn
		p.allowIn = false
		value := p.parseExpr(js_ast.LLowest)
		p.allowIn = oldAllowIn

		if p.lexer.Token == js_lexer.TIn || p.lexer.IsContextualKeyword("of") {
			isOf := p.lexer.Token != js_lexer.TIn
			p.lexer.Next()
			iter := p.parseExpr(js_ast.LComma)
			p.lexer.Expect(js_lexer.TCloseParen)
			body := p.parseStmt()
			initStmt := js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SExpr{Value: value}}
			if isOf {
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{Init: initStmt, Value: iter, Body: body}}
			}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: initStmt, Value: iter, Body: body}}
		}

		init = js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SExpr{Value: value}}
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	var test js_ast.Expr
	if p.lexer.Token != js_lexer.TSemicolon {
		test = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TSemicolon)

	var update js_ast.Expr
	if p.lexer.Token != js_lexer.TCloseParen {
		update = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	body := p.parseStmt()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{
		InitOrNil:   init,
		TestOrNil:   test,
		UpdateOrNil: update,
		Body:        body,
	}}
}

func (p *parser) parseTryStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	bodyLoc := p.lexer.Loc()
	body := p.parseBlock()

	var catch *js_ast.Catch
	var finally *js_ast.Finally

	if p.lexer.Token == js_lexer.TCatch {
		catchLoc := p.lexer.Loc()
		p.lexer.Next()
		var binding js_ast.Binding

		// The catch binding is optional
		if p.lexer.Token == js_lexer.TOpenParen {
			p.lexer.Next()
			binding = p.parseBinding()
			p.lexer.Expect(js_lexer.TCloseParen)
		}

		block := p.parseBlock()
		catch = &js_ast.Catch{Loc: catchLoc, BindingOrNil: binding, Block: block}
	}

	if p.lexer.Token == js_lexer.TFinally {
		finallyLoc := p.lexer.Loc()
		p.lexer.Next()
		block := p.parseBlock()
		finally = &js_ast.Finally{Loc: finallyLoc, Stmts: block}
	}

	if catch == nil && finally == nil {
		p.lexer.Expected(js_lexer.TCatch)
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{BodyLoc: bodyLoc, Body: body, Catch: catch, Finally: finally}}
}

func (p *parser) parseDecls() []js_ast.Decl {
	binding := p.parseBinding()
	return p.parseDeclsAfterBinding(binding)
}

func (p *parser) parseDeclsAfterBinding(first js_ast.Binding) []js_ast.Decl {
	decls := []js_ast.Decl{}
	binding := first

	for {
		var value js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			value = p.parseExpr(js_ast.LComma)
		}
		decls = append(decls, js_ast.Decl{Binding: binding, ValueOrNil: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
		binding = p.parseBinding()
	}

	return decls
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				// An elision
				items = append(items, js_ast.ArrayBinding{
					Binding: js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}},
				})
				p.lexer.Next()
				continue
			}

			if p.lexer.Token == js_lexer.TDotDotDot {
				hasSpread = true
				p.lexer.Next()
			}

			binding := p.parseBinding()
			var defaultValue js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				defaultValue = p.parseExpr(js_ast.LComma)
			}
			items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValueOrNil: defaultValue})

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.PropertyBinding{}

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.lexer.Expected(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		valueLoc := p.lexer.Loc()
		name := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{
			IsSpread: true,
			Value:    js_ast.Binding{Loc: valueLoc, Data: &js_ast.BIdentifier{Name: name}},
		}
	}

	var key js_ast.Expr
	isComputed := false
	keyLoc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		name := p.lexer.Raw()
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: name}}
		p.lexer.Next()

		// Shorthand binding, possibly with a default value
		if p.lexer.Token != js_lexer.TColon {
			var defaultValue js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				defaultValue = p.parseExpr(js_ast.LComma)
			}
			return js_ast.PropertyBinding{
				Key:               key,
				Value:             js_ast.Binding{Loc: keyLoc, Data: &js_ast.BIdentifier{Name: name}},
				DefaultValueOrNil: defaultValue,
			}
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding()

	var defaultValue js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		defaultValue = p.parseExpr(js_ast.LComma)
	}

	return js_ast.PropertyBinding{
		Key:               key,
		Value:             value,
		DefaultValueOrNil: defaultValue,
		IsComputed:        isComputed,
	}
}

// parseFn is called with the lexer at "function". When "requireName" is false
// the name is optional (function expressions).
func (p *parser) parseFn(isAsync bool, requireName bool) js_ast.Fn {
	p.lexer.Expect(js_lexer.TFunction)

	var name *js_ast.LocRef
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocRef{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if requireName {
		p.lexer.Expected(js_lexer.TIdentifier)
	}

	args, hasRestArg := p.parseFnArgs()
	bodyLoc := p.lexer.Loc()
	body := p.parseBlock()

	return js_ast.Fn{
		Name:       name,
		Args:       args,
		Body:       js_ast.FnBody{Loc: bodyLoc, Stmts: body},
		IsAsync:    isAsync,
		HasRestArg: hasRestArg,
	}
}

func (p *parser) parseFnArgs() (args []js_ast.Arg, hasRestArg bool) {
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			hasRestArg = true
			p.lexer.Next()
		}

		binding := p.parseBinding()
		var defaultValue js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			defaultValue = p.parseExpr(js_ast.LComma)
		}
		args = append(args, js_ast.Arg{Binding: binding, DefaultOrNil: defaultValue})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	return
}

func (p *parser) parseClass() js_ast.Class {
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocRef
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocRef{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	}

	var extendsOrNil js_ast.Expr
	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extendsOrNil = p.parseExpr(js_ast.LNew)
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		properties = append(properties, p.parseClassProperty())
	}

	closeBraceLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseBrace)

	return js_ast.Class{
		Name:          name,
		ExtendsOrNil:  extendsOrNil,
		BodyLoc:       bodyLoc,
		Properties:    properties,
		CloseBraceLoc: closeBraceLoc,
	}
}

func (p *parser) parseClassProperty() js_ast.Property {
	isStatic := false
	if p.lexer.IsContextualKeyword("static") {
		p.lexer.Next()
		isStatic = true
	}

	isAsync := false
	if p.lexer.IsContextualKeyword("async") && !p.lexer.HasNewlineBefore {
		// Peek ahead: "async" may itself be a member name
		lookahead := p.lexer
		lookahead.Next()
		if lookahead.IsIdentifierOrKeyword() || lookahead.Token == js_lexer.TOpenBracket ||
			lookahead.Token == js_lexer.TStringLiteral {
			p.lexer.Next()
			isAsync = true
		}
	}

	var key js_ast.Expr
	isComputed := false
	keyLoc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: p.lexer.Raw()}}
		p.lexer.Next()
	}

	// A method
	if p.lexer.Token == js_lexer.TOpenParen {
		args, hasRestArg := p.parseFnArgs()
		bodyLoc := p.lexer.Loc()
		body := p.parseBlock()
		fn := js_ast.Fn{
			Args:       args,
			Body:       js_ast.FnBody{Loc: bodyLoc, Stmts: body},
			IsAsync:    isAsync,
			HasRestArg: hasRestArg,
		}
		return js_ast.Property{
			Kind:       js_ast.PropertyMethod,
			Key:        key,
			ValueOrNil: js_ast.Expr{Loc: keyLoc, Data: &js_ast.EFunction{Fn: fn}},
			IsStatic:   isStatic,
			IsComputed: isComputed,
		}
	}

	// A field, possibly with an initializer
	var value js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		value = p.parseExpr(js_ast.LComma)
	}
	p.lexer.ConsumeSemicolon()
	return js_ast.Property{
		Kind:       js_ast.PropertyNormal,
		Key:        key,
		ValueOrNil: value,
		IsStatic:   isStatic,
		IsComputed: isComputed,
	}
}

func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TOpenParen, js_lexer.TDot:
		// "import('path')" and "import.meta" are expressions, not declarations
		var value js_ast.Expr
		if p.lexer.Token == js_lexer.TOpenParen {
			value = p.parseImportCall(loc)
		} else {
			p.lexer.Next()
			p.lexer.ExpectContextualKeyword("meta")
			value = js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
		}
		value = p.continueExpr(value, js_ast.LLowest)
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: value}}

	case js_lexer.TStringLiteral:
		// "import 'path'"
		pathLoc := p.lexer.Loc()
		path := p.lexer.StringLiteral
		p.lexer.Next()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SImport{Path: path, PathLoc: pathLoc}}
	}

	stmt := js_ast.SImport{}

	// "import type {T} from 'path'" is a TypeScript type-only import. It still
	// names a module, which is all this toolchain cares about.
	if p.lexer.IsContextualKeyword("type") {
		lookahead := p.lexer
		lookahead.Next()
		switch lookahead.Token {
		case js_lexer.TOpenBrace, js_lexer.TAsterisk:
			stmt.IsTypeOnly = true
			p.lexer.Next()
		case js_lexer.TIdentifier:
			if lookahead.Identifier != "from" {
				stmt.IsTypeOnly = true
				p.lexer.Next()
			}
		}
	}

	if p.lexer.Token == js_lexer.TIdentifier {
		stmt.DefaultName = &js_ast.LocRef{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
		} else if p.lexer.Token != js_lexer.TOpenBrace && p.lexer.Token != js_lexer.TAsterisk {
			p.lexer.ExpectContextualKeyword("from")
			return p.parseImportPath(loc, stmt)
		}
	}

	switch p.lexer.Token {
	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		stmt.StarName = &js_ast.LocRef{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)

	case js_lexer.TOpenBrace:
		// "import {item1, item2} from 'path'"
		items := p.parseImportClause()
		stmt.Items = &items

	default:
		p.lexer.Unexpected()
	}

	p.lexer.ExpectContextualKeyword("from")
	return p.parseImportPath(loc, stmt)
}

func (p *parser) parseImportPath(loc logger.Loc, stmt js_ast.SImport) js_ast.Stmt {
	if p.lexer.Token != js_lexer.TStringLiteral {
		p.lexer.Expected(js_lexer.TStringLiteral)
	}
	stmt.PathLoc = p.lexer.Loc()
	stmt.Path = p.lexer.StringLiteral
	p.lexer.Next()
	p.lexer.ConsumeSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

// parseImportClause parses "{a, b as c, default as d}". For import items the
// "OriginalName" is the name in the imported module and "Alias" is the local
// binding.
func (p *parser) parseImportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		originalName := p.lexer.Raw()
		aliasLoc := p.lexer.Loc()
		alias := originalName
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc = p.lexer.Loc()
			alias = p.lexer.Identifier
			p.lexer.Expect(js_lexer.TIdentifier)
		}

		items = append(items, js_ast.ClauseItem{
			Alias:        alias,
			AliasLoc:     aliasLoc,
			OriginalName: originalName,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

func (p *parser) parseExportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TAsterisk:
		// "export * from 'path'" and "export * as ns from 'path'"
		p.lexer.Next()
		var alias *js_ast.LocRef
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			alias = &js_ast.LocRef{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.ExpectContextualKeyword("from")
		if p.lexer.Token != js_lexer.TStringLiteral {
			p.lexer.Expected(js_lexer.TStringLiteral)
		}
		pathLoc := p.lexer.Loc()
		path := p.lexer.StringLiteral
		p.lexer.Next()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path, PathLoc: pathLoc}}

	case js_lexer.TOpenBrace:
		// "export {a, b as c}" and "export {a} from 'path'"
		items := p.parseImportClause()
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TStringLiteral {
				p.lexer.Expected(js_lexer.TStringLiteral)
			}
			pathLoc := p.lexer.Loc()
			path := p.lexer.StringLiteral
			p.lexer.Next()
			p.lexer.ConsumeSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, Path: path, PathLoc: pathLoc}}
		}
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}

	case js_lexer.TDefault:
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()

		var value js_ast.Stmt
		switch p.lexer.Token {
		case js_lexer.TFunction:
			stmtLoc := p.lexer.Loc()
			fn := p.parseFn(false, false /* requireName */)
			value = js_ast.Stmt{Loc: stmtLoc, Data: &js_ast.SFunction{Fn: fn}}
		case js_lexer.TClass:
			stmtLoc := p.lexer.Loc()
			class := p.parseClass()
			value = js_ast.Stmt{Loc: stmtLoc, Data: &js_ast.SClass{Class: class}}
		default:
			expr := p.parseExpr(js_ast.LComma)
			p.lexer.ConsumeSemicolon()
			value = js_ast.Stmt{Loc: expr.Loc, Data: &js_ast.SExpr{Value: expr}}
		}

		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: value}}

	case js_lexer.TVar, js_lexer.TLet, js_lexer.TConst:
		kind := localKindForToken(p.lexer.Token)
		p.lexer.Next()
		decls := p.parseDecls()
		p.lexer.ConsumeSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: kind, Decls: decls, IsExport: true}}

	case js_lexer.TFunction:
		fn := p.parseFn(false, true /* requireName */)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: true}}

	case js_lexer.TClass:
		class := p.parseClass()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: true}}

	default:
		p.lexer.Unexpected()
		return js_ast.Stmt{}
	}
}

// parseImportCall is called with the lexer just past "import", at the opening
// parenthesis.
func (p *parser) parseImportCall(loc logger.Loc) js_ast.Expr {
	p.lexer.Expect(js_lexer.TOpenParen)

	oldAllowIn := p.allowIn
	p.allowIn = true
	value := p.parseExpr(js_ast.LComma)

	var options js_ast.Expr
	if p.lexer.Token == js_lexer.TComma {
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TCloseParen {
			options = p.parseExpr(js_ast.LComma)
			if p.lexer.Token == js_lexer.TComma {
				p.lexer.Next()
			}
		}
	}
	p.allowIn = oldAllowIn

	closeParenLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseParen)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EImportCall{
		Expr:          value,
		OptionsOrNil:  options,
		CloseParenLoc: closeParenLoc,
	}}
}

// Infix and prefix operators the expression parser understands, keyed by
// token. Precedence and associativity come from the shared operator table, so
// a single handler covers the whole family.
var binaryOpForToken = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TAmpersandAmpersand:      js_ast.BinOpLogicalAnd,
	js_lexer.TAsterisk:                js_ast.BinOpMul,
	js_lexer.TBarBar:                  js_ast.BinOpLogicalOr,
	js_lexer.TComma:                   js_ast.BinOpComma,
	js_lexer.TEquals:                  js_ast.BinOpAssign,
	js_lexer.TEqualsEquals:            js_ast.BinOpLooseEq,
	js_lexer.TEqualsEqualsEquals:      js_ast.BinOpStrictEq,
	js_lexer.TExclamationEquals:       js_ast.BinOpLooseNe,
	js_lexer.TExclamationEqualsEquals: js_ast.BinOpStrictNe,
	js_lexer.TGreaterThan:             js_ast.BinOpGt,
	js_lexer.TGreaterThanEquals:       js_ast.BinOpGe,
	js_lexer.TIn:                      js_ast.BinOpIn,
	js_lexer.TInstanceof:              js_ast.BinOpInstanceof,
	js_lexer.TLessThan:                js_ast.BinOpLt,
	js_lexer.TLessThanEquals:          js_ast.BinOpLe,
	js_lexer.TMinus:                   js_ast.BinOpSub,
	js_lexer.TMinusEquals:             js_ast.BinOpSubAssign,
	js_lexer.TPercent:                 js_ast.BinOpRem,
	js_lexer.TPlus:                    js_ast.BinOpAdd,
	js_lexer.TPlusEquals:              js_ast.BinOpAddAssign,
	js_lexer.TQuestionQuestion:        js_ast.BinOpNullishCoalescing,
	js_lexer.TSlash:                   js_ast.BinOpDiv,
}

var prefixOpForToken = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TDelete:      js_ast.UnOpDelete,
	js_lexer.TExclamation: js_ast.UnOpNot,
	js_lexer.TMinus:       js_ast.UnOpNeg,
	js_lexer.TMinusMinus:  js_ast.UnOpPreDec,
	js_lexer.TPlus:        js_ast.UnOpPos,
	js_lexer.TPlusPlus:    js_ast.UnOpPreInc,
	js_lexer.TTypeof:      js_ast.UnOpTypeof,
	js_lexer.TVoid:        js_ast.UnOpVoid,
}

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	expr := p.parseOperand(level)
	return p.continueExpr(expr, level)
}

func (p *parser) parseOperand(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	if op, isPrefixOp := prefixOpForToken[p.lexer.Token]; isPrefixOp {
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: p.parseExpr(js_ast.LPrefix)}}
	}

	switch p.lexer.Token {
	case js_lexer.TOpenParen:
		if p.isArrowAfterParenScan() {
			args, hasRestArg := p.parseFnArgs()
			return p.parseArrowBody(loc, args, hasRestArg, false /* isAsync */)
		}

		p.lexer.Next()
		oldAllowIn := p.allowIn
		p.allowIn = true
		value := p.parseExpr(js_ast.LLowest)
		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseParen)
		return value

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()

		if name == "async" && !p.lexer.HasNewlineBefore {
			switch p.lexer.Token {
			case js_lexer.TFunction:
				// "async function() {}"
				fn := p.parseFn(true /* isAsync */, false)
				return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}

			case js_lexer.TIdentifier:
				// "async x => {}"
				lookahead := p.lexer
				lookahead.Next()
				if lookahead.Token == js_lexer.TEqualsGreaterThan {
					argLoc := p.lexer.Loc()
					argName := p.lexer.Identifier
					p.lexer.Next()
					args := []js_ast.Arg{{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: argName}}}}
					return p.parseArrowBody(loc, args, false, true /* isAsync */)
				}

			case js_lexer.TOpenParen:
				// "async () => {}"
				if p.isArrowAfterParenScan() {
					args, hasRestArg := p.parseFnArgs()
					return p.parseArrowBody(loc, args, hasRestArg, true /* isAsync */)
				}
			}
		}

		// "x => {}"
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && !p.lexer.HasNewlineBefore && level <= js_ast.LAssign {
			args := []js_ast.Arg{{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}}
			return p.parseArrowBody(loc, args, false, false)
		}

		// "undefined" is just an identifier in real JavaScript, but folding it
		// into its own node simplifies every pass that looks for it
		if name == "undefined" {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}
		}

		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}

	case js_lexer.TStringLiteral:
		value := p.lexer.StringLiteral
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNoSubstitutionTemplateLiteral:
		headCooked := p.lexer.StringLiteral
		headRaw := p.lexer.TemplateRaw
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
			HeadLoc:    loc,
			HeadCooked: headCooked,
			HeadRaw:    headRaw,
		}}

	case js_lexer.TTemplateHead:
		headCooked := p.lexer.StringLiteral
		headRaw := p.lexer.TemplateRaw
		parts := p.parseTemplateParts()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{
			HeadLoc:    loc,
			HeadCooked: headCooked,
			HeadRaw:    headRaw,
			Parts:      parts,
		}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TFunction:
		fn := p.parseFn(false, false /* requireName */)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}

	case js_lexer.TClass:
		class := p.parseClass()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()

		// Member expressions are part of the constructor target, but the
		// argument list belongs to "new" itself
		target := p.continueExpr(p.parseOperand(js_ast.LNew), js_ast.LCall)

		var args []js_ast.Expr
		var closeParenLoc logger.Loc
		if p.lexer.Token == js_lexer.TOpenParen {
			args, closeParenLoc = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args, CloseParenLoc: closeParenLoc}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})
			case js_lexer.TDotDotDot:
				spreadLoc := p.lexer.Loc()
				p.lexer.Next()
				items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})
			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		closeBracketLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items, CloseBracketLoc: closeBracketLoc}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.Property{}
		for p.lexer.Token != js_lexer.TCloseBrace {
			properties = append(properties, p.parseObjectProperty())
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		closeBraceLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties, CloseBraceLoc: closeBraceLoc}}

	case js_lexer.TImport:
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			p.lexer.ExpectContextualKeyword("meta")
			return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
		}
		return p.parseImportCall(loc)

	case js_lexer.TAwait:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: p.parseExpr(js_ast.LPrefix)}}

	default:
		p.lexer.Unexpected()
		return js_ast.Expr{}
	}
}

func (p *parser) parseObjectProperty() js_ast.Property {
	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		return js_ast.Property{
			Kind:       js_ast.PropertySpread,
			ValueOrNil: p.parseExpr(js_ast.LComma),
		}
	}

	var key js_ast.Expr
	isComputed := false
	keyLoc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		name := p.lexer.Raw()
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: name}}
		p.lexer.Next()

		// Shorthand property: "{a}" or "{a, b}"
		if p.lexer.Token == js_lexer.TComma || p.lexer.Token == js_lexer.TCloseBrace {
			return js_ast.Property{
				Kind:       js_ast.PropertyShorthand,
				Key:        key,
				ValueOrNil: js_ast.Expr{Loc: keyLoc, Data: &js_ast.EIdentifier{Name: name}},
			}
		}
	}

	// A method
	if p.lexer.Token == js_lexer.TOpenParen {
		args, hasRestArg := p.parseFnArgs()
		bodyLoc := p.lexer.Loc()
		body := p.parseBlock()
		fn := js_ast.Fn{
			Args:       args,
			Body:       js_ast.FnBody{Loc: bodyLoc, Stmts: body},
			HasRestArg: hasRestArg,
		}
		return js_ast.Property{
			Kind:       js_ast.PropertyMethod,
			Key:        key,
			ValueOrNil: js_ast.Expr{Loc: keyLoc, Data: &js_ast.EFunction{Fn: fn}},
			IsComputed: isComputed,
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseExpr(js_ast.LComma)
	return js_ast.Property{
		Kind:       js_ast.PropertyNormal,
		Key:        key,
		ValueOrNil: value,
		IsComputed: isComputed,
	}
}

func (p *parser) parseTemplateParts() []js_ast.TemplatePart {
	parts := []js_ast.TemplatePart{}
	p.lexer.Next()

	for {
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.NextInsideTemplate()
		tailLoc := p.lexer.Loc()
		part := js_ast.TemplatePart{
			Value:      value,
			TailLoc:    tailLoc,
			TailCooked: p.lexer.StringLiteral,
			TailRaw:    p.lexer.TemplateRaw,
		}
		parts = append(parts, part)
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			break
		}
		p.lexer.Next()
	}

	return parts
}

// isArrowAfterParenScan speculatively scans from the current "(" to the
// matching ")" and reports whether the next token is "=>". The lexer is a
// value type so a copy is enough to back out of the scan.
func (p *parser) isArrowAfterParenScan() bool {
	lookahead := p.lexer
	depth := 0

	for {
		switch lookahead.Token {
		case js_lexer.TOpenParen:
			depth++
		case js_lexer.TCloseParen:
			depth--
			if depth == 0 {
				lookahead.Next()
				return lookahead.Token == js_lexer.TEqualsGreaterThan
			}
		case js_lexer.TEndOfFile:
			return false
		}
		lookahead.Next()
	}
}

func (p *parser) parseArrowBody(loc logger.Loc, args []js_ast.Arg, hasRestArg bool, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)

	if p.lexer.Token == js_lexer.TOpenBrace {
		bodyLoc := p.lexer.Loc()
		body := p.parseBlock()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
			Args:       args,
			Body:       js_ast.FnBody{Loc: bodyLoc, Stmts: body},
			IsAsync:    isAsync,
			HasRestArg: hasRestArg,
		}}
	}

	bodyLoc := p.lexer.Loc()
	value := p.parseExpr(js_ast.LComma)
	stmts := []js_ast.Stmt{{Loc: value.Loc, Data: &js_ast.SReturn{ValueOrNil: value}}}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
		Args:       args,
		Body:       js_ast.FnBody{Loc: bodyLoc, Stmts: stmts},
		IsAsync:    isAsync,
		HasRestArg: hasRestArg,
		PreferExpr: true,
	}}
}

func (p *parser) parseCallArgs() (args []js_ast.Expr, closeParenLoc logger.Loc) {
	oldAllowIn := p.allowIn
	p.allowIn = true

	p.lexer.Expect(js_lexer.TOpenParen)
	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			spreadLoc := p.lexer.Loc()
			p.lexer.Next()
			args = append(args, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})
		} else {
			args = append(args, p.parseExpr(js_ast.LComma))
		}
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	closeParenLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseParen)

	p.allowIn = oldAllowIn
	return
}

func (p *parser) continueExpr(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			nameLoc := p.lexer.Loc()
			name := p.lexer.Raw()
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc}}

		case js_lexer.TQuestionDot:
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TOpenParen:
				args, closeParenLoc := p.parseCallArgs()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
					Target:        left,
					Args:          args,
					CloseParenLoc: closeParenLoc,
					OptionalChain: js_ast.OptionalChainStart,
				}}

			case js_lexer.TOpenBracket:
				p.lexer.Next()
				index := p.parseExpr(js_ast.LLowest)
				p.lexer.Expect(js_lexer.TCloseBracket)
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
					Target:        left,
					Index:         index,
					OptionalChain: js_ast.OptionalChainStart,
				}}

			default:
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Expected(js_lexer.TIdentifier)
				}
				nameLoc := p.lexer.Loc()
				name := p.lexer.Raw()
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{
					Target:        left,
					Name:          name,
					NameLoc:       nameLoc,
					OptionalChain: js_ast.OptionalChainStart,
				}}
			}

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			args, closeParenLoc := p.parseCallArgs()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
				Target:        left,
				Args:          args,
				CloseParenLoc: closeParenLoc,
			}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			oldAllowIn := p.allowIn
			p.allowIn = true
			index := p.parseExpr(js_ast.LLowest)
			p.allowIn = oldAllowIn
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index}}

		case js_lexer.TNoSubstitutionTemplateLiteral:
			// A tagged template with no substitutions
			headLoc := p.lexer.Loc()
			headCooked := p.lexer.StringLiteral
			headRaw := p.lexer.TemplateRaw
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{
				TagOrNil:   left,
				HeadLoc:    headLoc,
				HeadCooked: headCooked,
				HeadRaw:    headRaw,
			}}

		case js_lexer.TTemplateHead:
			// A tagged template with substitutions
			headLoc := p.lexer.Loc()
			headCooked := p.lexer.StringLiteral
			headRaw := p.lexer.TemplateRaw
			parts := p.parseTemplateParts()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{
				TagOrNil:   left,
				HeadLoc:    headLoc,
				HeadCooked: headCooked,
				HeadRaw:    headRaw,
				Parts:      parts,
			}}

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostInc, Value: left}}

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostDec, Value: left}}

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()
			oldAllowIn := p.allowIn
			p.allowIn = true
			yes := p.parseExpr(js_ast.LComma)
			p.allowIn = oldAllowIn
			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		default:
			op, isBinaryOp := binaryOpForToken[p.lexer.Token]
			if !isBinaryOp {
				return left
			}
			entry := js_ast.OpTable[op]
			if level >= entry.Level || (op == js_ast.BinOpIn && !p.allowIn) {
				return left
			}
			p.lexer.Next()

			// Assignment groups right to left; everything else left to right
			rightLevel := entry.Level
			if op.IsBinaryAssign() {
				rightLevel = entry.Level - 1
			}

			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{
				Op:    op,
				Left:  left,
				Right: p.parseExpr(rightLevel),
			}}
		}
	}
}
