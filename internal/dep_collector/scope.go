package dep_collector

import (
	"github.com/connectdotz/metro/internal/js_ast"
)

// The pass only needs two facts about lexical scope: whether a bare name is
// shadowed by a user binding at the current position, and what a name's
// initializer is when the binding is provably single-assignment. Frames are
// pushed and popped as the traversal enters and leaves function bodies,
// blocks, catch clauses, and class bodies. Hoisted bindings ("var" and
// function declarations) attach to the nearest function-or-program frame at
// entry time, so a declaration later in the body still shadows earlier calls.
type scopeKind uint8

const (
	scopeProgram scopeKind = iota
	scopeFunction
	scopeBlock
	scopeCatch
	scopeClass
)

type bindingKind uint8

const (
	bindingVar bindingKind = iota
	bindingLet
	bindingConst
	bindingParam
	bindingFunction
	bindingClass
	bindingImport
	bindingCatch
)

type scopeBinding struct {
	kind bindingKind

	// Set only for a const with a plain identifier binding and an initializer
	valueOrNil js_ast.Expr
}

type scopeFrame struct {
	kind  scopeKind
	names map[string]scopeBinding
}

type scopeStack struct {
	frames []*scopeFrame
}

func (s *scopeStack) push(kind scopeKind) *scopeFrame {
	frame := &scopeFrame{kind: kind, names: make(map[string]scopeBinding)}
	s.frames = append(s.frames, frame)
	return frame
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) declare(name string, binding scopeBinding) {
	frame := s.frames[len(s.frames)-1]
	frame.names[name] = binding
}

// declareHoisted attaches a binding to the nearest function-or-program frame
func (s *scopeStack) declareHoisted(name string, binding scopeBinding) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		if frame.kind == scopeFunction || frame.kind == scopeProgram {
			frame.names[name] = binding
			return
		}
	}
}

// isShadowed reports whether any enclosing frame declares the name. A name
// that is not shadowed refers to the module-level built-in.
func (s *scopeStack) isShadowed(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].names[name]; ok {
			return true
		}
	}
	return false
}

// lookupConstValue resolves a name to its initializer if the innermost
// binding is a const with one. Any other binding kind fails: it cannot be
// proven single-assignment.
func (s *scopeStack) lookupConstValue(name string) (js_ast.Expr, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if binding, ok := s.frames[i].names[name]; ok {
			if binding.kind == bindingConst && binding.valueOrNil.Data != nil {
				return binding.valueOrNil, true
			}
			return js_ast.Expr{}, false
		}
	}
	return js_ast.Expr{}, false
}

// declareBindingNames declares every name bound by a binding pattern
func (s *scopeStack) declareBindingNames(b js_ast.Binding, kind bindingKind) {
	switch data := b.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		s.declare(data.Name, scopeBinding{kind: kind})

	case *js_ast.BArray:
		for _, item := range data.Items {
			s.declareBindingNames(item.Binding, kind)
		}

	case *js_ast.BObject:
		for _, property := range data.Properties {
			s.declareBindingNames(property.Value, kind)
		}
	}
}

// declareDecls declares the names of a variable declaration statement in the
// current frame. A const with a plain identifier binding keeps its
// initializer so the specifier evaluator can resolve references to it.
func (s *scopeStack) declareDecls(local *js_ast.SLocal) {
	kind := bindingVar
	switch local.Kind {
	case js_ast.LocalLet:
		kind = bindingLet
	case js_ast.LocalConst:
		kind = bindingConst
	}

	for _, decl := range local.Decls {
		if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok {
			if kind == bindingVar {
				s.declareHoisted(id.Name, scopeBinding{kind: kind})
			} else {
				s.declare(id.Name, scopeBinding{kind: kind, valueOrNil: decl.ValueOrNil})
			}
			continue
		}
		if kind == bindingVar {
			s.hoistBindingNames(decl.Binding)
		} else {
			s.declareBindingNames(decl.Binding, kind)
		}
	}
}

func (s *scopeStack) hoistBindingNames(b js_ast.Binding) {
	switch data := b.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		s.declareHoisted(data.Name, scopeBinding{kind: bindingVar})

	case *js_ast.BArray:
		for _, item := range data.Items {
			s.hoistBindingNames(item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range data.Properties {
			s.hoistBindingNames(property.Value)
		}
	}
}

// declareStmts pre-declares the bindings introduced directly by a list of
// statements into the current frame, and hoists "var" declarations from
// nested statements when the current frame is a function or the program.
// This runs at frame entry so that declarations shadow uses that precede
// them textually.
func (s *scopeStack) declareStmts(stmts []js_ast.Stmt) {
	frame := s.frames[len(s.frames)-1]
	hoist := frame.kind == scopeFunction || frame.kind == scopeProgram

	for i := range stmts {
		switch data := stmts[i].Data.(type) {
		case *js_ast.SLocal:
			s.declareDecls(data)

		case *js_ast.SFunction:
			if data.Fn.Name != nil {
				s.declare(data.Fn.Name.Name, scopeBinding{kind: bindingFunction})
			}

		case *js_ast.SClass:
			if data.Class.Name != nil {
				s.declare(data.Class.Name.Name, scopeBinding{kind: bindingClass})
			}

		case *js_ast.SImport:
			if data.DefaultName != nil {
				s.declare(data.DefaultName.Name, scopeBinding{kind: bindingImport})
			}
			if data.StarName != nil {
				s.declare(data.StarName.Name, scopeBinding{kind: bindingImport})
			}
			if data.Items != nil {
				for _, item := range *data.Items {
					s.declare(item.Alias, scopeBinding{kind: bindingImport})
				}
			}

		case *js_ast.SExportDefault:
			switch value := data.Value.Data.(type) {
			case *js_ast.SFunction:
				if value.Fn.Name != nil {
					s.declare(value.Fn.Name.Name, scopeBinding{kind: bindingFunction})
				}
			case *js_ast.SClass:
				if value.Class.Name != nil {
					s.declare(value.Class.Name.Name, scopeBinding{kind: bindingClass})
				}
			}

		default:
			if hoist {
				s.hoistNestedVars(stmts[i])
			}
		}
	}
}

// hoistNestedVars walks into nested statements, but not into nested
// functions, collecting "var" declarations for the enclosing function frame
func (s *scopeStack) hoistNestedVars(stmt js_ast.Stmt) {
	switch data := stmt.Data.(type) {
	case *js_ast.SLocal:
		if data.Kind == js_ast.LocalVar {
			for _, decl := range data.Decls {
				s.hoistBindingNames(decl.Binding)
			}
		}

	case *js_ast.SBlock:
		for _, child := range data.Stmts {
			s.hoistNestedVars(child)
		}

	case *js_ast.SIf:
		s.hoistNestedVars(data.Yes)
		if data.NoOrNil.Data != nil {
			s.hoistNestedVars(data.NoOrNil)
		}

	case *js_ast.SFor:
		if data.InitOrNil.Data != nil {
			s.hoistNestedVars(data.InitOrNil)
		}
		s.hoistNestedVars(data.Body)

	case *js_ast.SForIn:
		s.hoistNestedVars(data.Init)
		s.hoistNestedVars(data.Body)

	case *js_ast.SForOf:
		s.hoistNestedVars(data.Init)
		s.hoistNestedVars(data.Body)

	case *js_ast.SWhile:
		s.hoistNestedVars(data.Body)

	case *js_ast.SDoWhile:
		s.hoistNestedVars(data.Body)

	case *js_ast.STry:
		for _, child := range data.Body {
			s.hoistNestedVars(child)
		}
		if data.Catch != nil {
			for _, child := range data.Catch.Block {
				s.hoistNestedVars(child)
			}
		}
		if data.Finally != nil {
			for _, child := range data.Finally.Stmts {
				s.hoistNestedVars(child)
			}
		}
	}
}
