package js_ast

import (
	"github.com/connectdotz/metro/internal/logger"
)

// Every module is parsed into a separate AST data structure. The tree uses a
// tagged-union encoding: expression and statement nodes hold a small interface
// value whose concrete type identifies the variant. Passes that transform the
// tree mutate the "Data" field of a node in place so that the surrounding
// expression context is preserved.

type L uint8

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LEquals
	LCompare
	LAdd
	LMultiply
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode uint8

// If you add a new operator, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpComma

	// Non-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
)

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsUnaryUpdate() bool {
	return op >= UnOpPreDec && op <= UnOpPostInc
}

func (op OpCode) IsBinaryAssign() bool {
	return op >= BinOpAssign
}

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{",", LComma, false},

	// Non-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
}

type OptionalChain uint8

const (
	// "a.b"
	OptionalChainNone OptionalChain = iota

	// "a?.b"
	OptionalChainStart

	// "a?.b.c" => ".c" is OptionalChainContinue
	OptionalChainContinue
)

type LocRef struct {
	Loc  logger.Loc
	Name string
}

type Arg struct {
	Binding      Binding
	DefaultOrNil Expr
}

type Fn struct {
	Name       *LocRef
	Args       []Arg
	Body       FnBody
	IsAsync    bool
	HasRestArg bool
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Class struct {
	Name          *LocRef
	ExtendsOrNil  Expr
	BodyLoc       logger.Loc
	Properties    []Property
	CloseBraceLoc logger.Loc
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyMethod
	PropertySpread
	PropertyShorthand
)

type Property struct {
	Kind       PropertyKind
	Key        Expr
	ValueOrNil Expr
	IsStatic   bool
	IsComputed bool
}

// Bindings are the left-hand side of declarations: a plain name or a
// destructuring pattern.
type Binding struct {
	Data B
	Loc  logger.Loc
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

type BMissing struct{}

type BIdentifier struct{ Name string }

type ArrayBinding struct {
	Binding           Binding
	DefaultValueOrNil Expr
}

type BArray struct {
	Items        []ArrayBinding
	HasSpread    bool
	IsSingleLine bool
}

type PropertyBinding struct {
	Key               Expr
	Value             Binding
	DefaultValueOrNil Expr
	IsComputed        bool
	IsSpread          bool
}

type BObject struct {
	Properties   []PropertyBinding
	IsSingleLine bool
}

type Expr struct {
	Data E
	Loc  logger.Loc
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

func (*EArray) isExpr()      {}
func (*EUnary) isExpr()      {}
func (*EBinary) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ENull) isExpr()       {}
func (*EUndefined) isExpr()  {}
func (*EThis) isExpr()       {}
func (*ENew) isExpr()        {}
func (*ECall) isExpr()       {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*EArrow) isExpr()      {}
func (*EFunction) isExpr()   {}
func (*EClass) isExpr()      {}
func (*EIdentifier) isExpr() {}
func (*EMissing) isExpr()    {}
func (*ENumber) isExpr()     {}
func (*EObject) isExpr()     {}
func (*ESpread) isExpr()     {}
func (*EString) isExpr()     {}
func (*ETemplate) isExpr()   {}
func (*EAwait) isExpr()      {}
func (*EIf) isExpr()         {}
func (*EImportCall) isExpr() {}
func (*EImportMeta) isExpr() {}

type EArray struct {
	Items           []Expr
	CloseBracketLoc logger.Loc
	IsSingleLine    bool
}

type EUnary struct {
	Value Expr
	Op    OpCode
}

type EBinary struct {
	Left  Expr
	Right Expr
	Op    OpCode
}

type EBoolean struct{ Value bool }

type EMissing struct{}

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ENew struct {
	Target        Expr
	Args          []Expr
	CloseParenLoc logger.Loc
}

type ECall struct {
	Target        Expr
	Args          []Expr
	CloseParenLoc logger.Loc
	OptionalChain OptionalChain
}

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain OptionalChain
}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain OptionalChain
}

type EArrow struct {
	Args       []Arg
	Body       FnBody
	IsAsync    bool
	HasRestArg bool

	// Use shorthand if true and "Body" is a single return statement
	PreferExpr bool
}

type EFunction struct{ Fn Fn }

type EClass struct{ Class Class }

type EIdentifier struct {
	Name string
}

type ENumber struct{ Value float64 }

type EObject struct {
	Properties    []Property
	CloseBraceLoc logger.Loc
	IsSingleLine  bool
}

type ESpread struct{ Value Expr }

type EString struct {
	Value string
}

type TemplatePart struct {
	Value      Expr
	TailRaw    string
	TailCooked string
	TailLoc    logger.Loc
}

type ETemplate struct {
	TagOrNil   Expr
	HeadRaw    string
	HeadCooked string
	Parts      []TemplatePart
	HeadLoc    logger.Loc
}

type EAwait struct {
	Value Expr
}

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

type EImportCall struct {
	Expr          Expr
	OptionsOrNil  Expr
	CloseParenLoc logger.Loc
}

type EImportMeta struct{}

type Stmt struct {
	Data S
	Loc  logger.Loc
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

func (*SBlock) isStmt()         {}
func (*SBreak) isStmt()         {}
func (*SClass) isStmt()         {}
func (*SContinue) isStmt()      {}
func (*SDirective) isStmt()     {}
func (*SDoWhile) isStmt()       {}
func (*SEmpty) isStmt()         {}
func (*SExportClause) isStmt()  {}
func (*SExportDefault) isStmt() {}
func (*SExportFrom) isStmt()    {}
func (*SExportStar) isStmt()    {}
func (*SExpr) isStmt()          {}
func (*SFor) isStmt()           {}
func (*SForIn) isStmt()         {}
func (*SForOf) isStmt()         {}
func (*SFunction) isStmt()      {}
func (*SIf) isStmt()            {}
func (*SImport) isStmt()        {}
func (*SLocal) isStmt()         {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*STry) isStmt()           {}
func (*SWhile) isStmt()         {}

type SBlock struct {
	Stmts         []Stmt
	CloseBraceLoc logger.Loc
}

type SBreak struct{}

type SClass struct {
	Class    Class
	IsExport bool
}

type SContinue struct{}

type SDirective struct {
	Value string
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type SEmpty struct{}

type ClauseItem struct {
	Alias    string
	AliasLoc logger.Loc

	// The original name if this is a rename ("foo as bar"), or the same as the
	// alias otherwise
	OriginalName string
}

type SExportClause struct {
	Items        []ClauseItem
	IsSingleLine bool
}

type SExportDefault struct {
	DefaultLoc logger.Loc

	// May be an SExpr, SFunction, or SClass
	Value Stmt
}

type SExportFrom struct {
	Items        []ClauseItem
	Path         string
	PathLoc      logger.Loc
	IsSingleLine bool
}

type SExportStar struct {
	// "export * as ns from 'path'" if non-nil
	Alias *LocRef

	Path    string
	PathLoc logger.Loc
}

type SExpr struct {
	Value Expr
}

type SFor struct {
	// May be an SLocal or SExpr statement, or nil
	InitOrNil   Stmt
	TestOrNil   Expr
	UpdateOrNil Expr
	Body        Stmt
}

type SForIn struct {
	// May be an SLocal or SExpr statement
	Init  Stmt
	Value Expr
	Body  Stmt
}

type SForOf struct {
	// May be an SLocal or SExpr statement
	Init  Stmt
	Value Expr
	Body  Stmt
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil Stmt
}

//	import 'path'
//	import def from 'path'
//	import {item1, item2} from 'path'
//	import * as ns from 'path'
//	import def, {item1, item2} from 'path'
//	import def, * as ns from 'path'
//
// Many parts are optional and can be combined in different ways. The only
// restriction is that you cannot have both a clause and a star namespace.
type SImport struct {
	DefaultName *LocRef
	Items       *[]ClauseItem
	StarName    *LocRef
	Path        string
	PathLoc     logger.Loc

	// "import type {T} from 'path'" (accepted and treated like a value import
	// for dependency purposes, which is what the bundler wants)
	IsTypeOnly bool

	IsSingleLine bool
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (kind LocalKind) String() string {
	switch kind {
	case LocalVar:
		return "var"
	case LocalLet:
		return "let"
	default:
		return "const"
	}
}

type Decl struct {
	Binding    Binding
	ValueOrNil Expr
}

type SLocal struct {
	Decls    []Decl
	Kind     LocalKind
	IsExport bool
}

type SReturn struct {
	ValueOrNil Expr
}

type SThrow struct {
	Value Expr
}

type Catch struct {
	Loc          logger.Loc
	BindingOrNil Binding
	Block        []Stmt
}

type Finally struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type STry struct {
	BodyLoc logger.Loc
	Body    []Stmt
	Catch   *Catch
	Finally *Finally
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type AST struct {
	Stmts []Stmt
}

// JoinWithComma joins two expressions with a comma operator, reusing the left
// expression's location.
func JoinWithComma(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

// IsStringValue returns the string behind an expression if it is provably a
// string literal (a plain string or a template literal with no substitutions
// and no tag).
func IsStringValue(e Expr) (string, bool) {
	switch v := e.Data.(type) {
	case *EString:
		return v.Value, true
	case *ETemplate:
		if v.TagOrNil.Data == nil && len(v.Parts) == 0 {
			return v.HeadCooked, true
		}
	}
	return "", false
}
