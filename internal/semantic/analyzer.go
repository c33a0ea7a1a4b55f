// Package semantic walks a parsed bb Program and reports non-fatal
// diagnostics: undeclared references, assignment to an undeclared or
// constant name, double declaration, and unused bindings. Analysis
// never halts code generation; every finding is a Warning.
package semantic

import (
	"fmt"

	"github.com/trgwii/bc/internal/ast"
	"github.com/trgwii/bc/pkg/token"
)

// Binding records one declared name: whether it was declared constant,
// and whether it has been read at least once.
type Binding struct {
	Name     string
	Constant bool
	Read     bool
	Pos      token.Position
}

// Scope is one level of lexical nesting: an ordered list of Binding plus
// a link to the enclosing scope. Blocks and function bodies each push a
// fresh Scope, mirroring the teacher's SymbolTable.outer chain.
type Scope struct {
	bindings []*Binding
	outer    *Scope
}

func newScope(outer *Scope) *Scope {
	return &Scope{outer: outer}
}

// declare adds name to the current scope only, returning the existing
// binding if name is already present there (a double declaration).
func (s *Scope) declare(name string, constant bool, pos token.Position) (*Binding, bool) {
	if existing := s.lookupLocal(name); existing != nil {
		return existing, true
	}
	b := &Binding{Name: name, Constant: constant, Pos: pos}
	s.bindings = append(s.bindings, b)
	return b, false
}

func (s *Scope) lookupLocal(name string) *Binding {
	for _, b := range s.bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// resolve searches the current scope and every enclosing scope.
func (s *Scope) resolve(name string) *Binding {
	for sc := s; sc != nil; sc = sc.outer {
		if b := sc.lookupLocal(name); b != nil {
			return b
		}
	}
	return nil
}

// Warning is a single non-fatal diagnostic produced by the analyzer.
type Warning struct {
	Pos     token.Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Pos, w.Message)
}

// builtinPrint is the only callee name the analyzer never requires a
// binding for, and never records as one.
const builtinPrint = "print"

// Analyzer walks a Program's statement tree, accumulating Warnings. The
// zero value is ready to use.
type Analyzer struct {
	warnings []Warning
}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Warnings returns every diagnostic collected so far.
func (a *Analyzer) Warnings() []Warning { return a.warnings }

func (a *Analyzer) warn(pos token.Position, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Analyze walks prog's top-level statements in a fresh root scope, then
// reports unused top-level bindings once the walk completes.
func (a *Analyzer) Analyze(prog *ast.Program) []Warning {
	root := newScope(nil)
	for _, stmt := range prog.Statements {
		a.analyzeStatement(stmt, root)
	}
	a.reportUnused(root)
	return a.warnings
}

func (a *Analyzer) reportUnused(scope *Scope) {
	for _, b := range scope.bindings {
		if !b.Read {
			kind := "variable"
			if b.Constant {
				kind = "constant"
			}
			a.warn(b.Pos, "Unused %s: %s", kind, b.Name)
		}
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.Declaration:
		a.analyzeDeclaration(s, scope)

	case *ast.Assignment:
		a.analyzeAssignment(s, scope)

	case *ast.ExpressionStatement:
		a.analyzeExpression(s.Expression, scope)

	case *ast.IfStatement:
		a.analyzeExpression(s.Condition, scope)
		a.analyzeStatement(s.Consequence, scope)
		if s.Alternate != nil {
			a.analyzeStatement(s.Alternate, scope)
		}

	case *ast.WhileStatement:
		a.analyzeExpression(s.Condition, scope)
		a.analyzeStatement(s.Body, scope)

	case *ast.ReturnStatement:
		if s.Value != nil {
			a.analyzeExpression(s.Value, scope)
		}

	case *ast.BlockStatement:
		a.analyzeBlock(s, newScope(scope))

	case *ast.InlineBatchStatement:
		// Raw Batch text is opaque to the analyzer.

	default:
		// Nothing else carries identifiers.
	}
}

func (a *Analyzer) analyzeBlock(block *ast.BlockStatement, inner *Scope) {
	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt, inner)
	}
	a.reportUnused(inner)
}

func (a *Analyzer) analyzeDeclaration(d *ast.Declaration, scope *Scope) {
	if fn, ok := d.Value.(*ast.FunctionLiteral); ok {
		a.analyzeFunctionLiteral(fn, scope)
	} else {
		a.analyzeExpression(d.Value, scope)
	}

	if _, dup := scope.declare(d.Name.Name, d.Constant, d.Name.Pos()); dup {
		a.warn(d.Name.Pos(), "Double declaration of: %s", d.Name.Name)
	}
}

func (a *Analyzer) analyzeFunctionLiteral(fn *ast.FunctionLiteral, outer *Scope) {
	inner := newScope(outer)
	for _, param := range fn.Params {
		inner.declare(param.Name, false, param.Pos())
	}
	a.analyzeBlock(fn.Body, inner)
}

func (a *Analyzer) analyzeAssignment(asn *ast.Assignment, scope *Scope) {
	a.analyzeExpression(asn.Value, scope)

	b := scope.resolve(asn.Name.Name)
	switch {
	case b == nil:
		a.warn(asn.Name.Pos(), "Assignment to undeclared name: %s", asn.Name.Name)
	case b.Constant:
		a.warn(asn.Name.Pos(), "Assignment to constant: %s", asn.Name.Name)
	}
}

func (a *Analyzer) analyzeExpression(expr ast.Expression, scope *Scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		a.analyzeIdentifierUse(e, scope)

	case *ast.CallExpression:
		if callee, ok := e.Callee.(*ast.Identifier); ok {
			if callee.Name != builtinPrint {
				if b := scope.resolve(callee.Name); b != nil {
					b.Read = true
				} else {
					a.warn(callee.Pos(), "Referring to undeclared name: %s", callee.Name)
				}
			}
		} else {
			a.analyzeExpression(e.Callee, scope)
		}
		for _, arg := range e.Args {
			a.analyzeExpression(arg, scope)
		}

	case *ast.ArithmeticExpression:
		a.analyzeExpression(e.Left, scope)
		a.analyzeExpression(e.Right, scope)

	case *ast.FunctionLiteral:
		a.analyzeFunctionLiteral(e, scope)

	case *ast.NumberLiteral, *ast.StringLiteral:
		// No identifiers to resolve.
	}
}

func (a *Analyzer) analyzeIdentifierUse(ident *ast.Identifier, scope *Scope) {
	b := scope.resolve(ident.Name)
	if b == nil {
		a.warn(ident.Pos(), "Referring to undeclared name: %s", ident.Name)
		return
	}
	b.Read = true
}
