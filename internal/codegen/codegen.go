// Package codegen lowers a bb Program into Windows Batch text. It has
// no direct teacher analogue — the teacher emits bytecode to a VM
// chunk, not source text to another language — so its shape is
// grounded on the reference compiler's codegen.c, generalized from a
// print-only emitter to the full statement and expression set and
// rewritten in the teacher's buffer-building idiom (the same
// incremental strings.Builder / bytes.Buffer style internal/ast's
// String() methods use).
package codegen

import (
	"fmt"
	"strings"

	"github.com/trgwii/bc/internal/ast"
	"github.com/trgwii/bc/pkg/token"
)

// Error is the single fatal diagnostic codegen can raise: emission of a
// forbidden AST shape (a FunctionLiteral used anywhere but as the value
// of a top-level Declaration). Codegen never recovers from this.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// parentKind classifies the syntactic position an expression is being
// lowered into. It is kept to the minimum needed to choose between
// Batch's two disjoint expression sublanguages — arithmetic (`set /a`)
// and string/boolean comparison (`if "X"=="Y"`) — rather than grown
// into a general emitter state.
type parentKind int

const (
	ctxDeclaration parentKind = iota
	ctxAssignment
	ctxIf
	ctxWhile
	ctxExpression
)

func isConditionCtx(ctx parentKind) bool {
	return ctx == ctxIf || ctx == ctxWhile
}

func isAssignLikeCtx(ctx parentKind) bool {
	return ctx == ctxDeclaration || ctx == ctxAssignment
}

// genScope tracks, for one lexical nesting level introduced by a Block
// (or function body, which is itself a Block), which names were
// declared directly in it and which names were assigned without being
// declared there — the latter must be exported across that block's
// `endlocal` via `&& set "name=%name%"`.
type genScope struct {
	parent      *genScope
	declared    map[string]bool
	outer       []string // outer-assignment names, in first-seen order
	outerSeen   map[string]bool
}

func newGenScope(parent *genScope) *genScope {
	return &genScope{parent: parent, declared: map[string]bool{}, outerSeen: map[string]bool{}}
}

func (s *genScope) declare(name string) {
	s.declared[name] = true
}

// recordAssignment marks name as assigned. If name isn't declared in
// this scope, it must be exported when this scope's block closes, and
// the same holds all the way up the chain until a scope that does own
// the declaration is reached — each intervening `endlocal` only hands a
// value to its immediate parent's environment, so every level between
// the assignment and the declaration must re-export it in turn.
func (s *genScope) recordAssignment(name string) {
	if s.declared[name] {
		return
	}
	if !s.outerSeen[name] {
		s.outerSeen[name] = true
		s.outer = append(s.outer, name)
	}
	if s.parent != nil {
		s.parent.recordAssignment(name)
	}
}

// Generator lowers a Program to Batch text. The zero value is ready to
// use; New returns one.
type Generator struct {
	pending     []string // spilled statement lines awaiting flush
	functions   strings.Builder
	diagnostics []string

	ifCounter, whileCounter, tempCounter int

	err *Error
}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Diagnostics returns non-fatal notices collected during generation
// (bare expression statements and similar skipped constructs).
func (g *Generator) Diagnostics() []string { return g.diagnostics }

func (g *Generator) fail(pos token.Position, format string, args ...any) {
	if g.err == nil {
		g.err = &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}

func (g *Generator) failing() bool { return g.err != nil }

func (g *Generator) note(format string, args ...any) {
	g.diagnostics = append(g.diagnostics, fmt.Sprintf(format, args...))
}

// Generate lowers prog into a full Batch script: prologue, each
// top-level statement in source order (with any spilled temporaries
// flushed directly ahead of the statement that needs them), epilogue,
// then the accumulated function-label section.
func Generate(prog *ast.Program) (string, []string, error) {
	g := New()
	root := newGenScope(nil)

	var out strings.Builder
	out.WriteString("@setlocal EnableDelayedExpansion\r\n")
	out.WriteString("@pushd \"%~dp0\"\r\n")
	out.WriteString("\r\n")

	for _, stmt := range prog.Statements {
		out.WriteString(g.emitStatementWithSpills(stmt, root))
		if g.failing() {
			return "", g.diagnostics, g.err
		}
	}

	out.WriteString("\r\n")
	out.WriteString("@popd\r\n")
	out.WriteString("@endlocal\r\n")
	out.WriteString("@exit /b 0\r\n")
	out.WriteString(g.functions.String())

	return out.String(), g.diagnostics, nil
}

// emitStatementWithSpills renders stmt, then prefixes the result with
// any statement lines spilled while rendering it (temporaries must be
// defined before the statement that consumes them).
func (g *Generator) emitStatementWithSpills(stmt ast.Statement, scope *genScope) string {
	mark := len(g.pending)
	main := g.emitStatement(stmt, scope)
	if g.failing() {
		g.pending = g.pending[:mark]
		return ""
	}
	spilled := g.pending[mark:]
	var sb strings.Builder
	for _, s := range spilled {
		sb.WriteString(s)
	}
	g.pending = g.pending[:mark]
	sb.WriteString(main)
	return sb.String()
}

func (g *Generator) emitStatement(stmt ast.Statement, scope *genScope) string {
	switch s := stmt.(type) {
	case *ast.Declaration:
		return g.emitDeclaration(s, scope)
	case *ast.Assignment:
		return g.emitAssignment(s, scope)
	case *ast.InlineBatchStatement:
		return strings.TrimSpace(s.Text) + "\r\n"
	case *ast.BlockStatement:
		return g.emitBlock(s, scope)
	case *ast.IfStatement:
		return g.emitIf(s, scope)
	case *ast.WhileStatement:
		return g.emitWhile(s, scope)
	case *ast.ReturnStatement:
		return g.emitReturn(s, scope)
	case *ast.ExpressionStatement:
		return g.emitExpressionStatement(s, scope)
	default:
		g.fail(stmt.Pos(), "codegen: unhandled statement shape %T", stmt)
		return ""
	}
}

func (g *Generator) emitDeclaration(d *ast.Declaration, scope *genScope) string {
	if fn, ok := d.Value.(*ast.FunctionLiteral); ok {
		if scope.parent != nil {
			g.fail(fn.Pos(), "function declarations are only allowed at the top level")
			return ""
		}
		g.emitFunction(d.Name.Name, fn, scope)
		scope.declare(d.Name.Name)
		return ""
	}
	line := g.renderNamedAssignment(d.Name.Name, d.Value, scope)
	scope.declare(d.Name.Name)
	return line
}

func (g *Generator) emitAssignment(a *ast.Assignment, scope *genScope) string {
	line := g.renderNamedAssignment(a.Name.Name, a.Value, scope)
	if !scope.declared[a.Name.Name] {
		scope.recordAssignment(a.Name.Name)
	}
	return line
}

// renderNamedAssignment lowers `name = value` (used for Declaration,
// Assignment, and Return's implicit assignment to __ret__) in
// assignment context: arithmetic inlines directly with `/a`, everything
// else per the general expression rules.
func (g *Generator) renderNamedAssignment(name string, value ast.Expression, scope *genScope) string {
	rendered := g.emitExpression(value, ctxAssignment, scope)
	if isInlineArithmetic(value) {
		return fmt.Sprintf("@set /a %s=%s\r\n", name, rendered)
	}
	return fmt.Sprintf("@set %s=%s\r\n", name, rendered)
}

func isInlineArithmetic(expr ast.Expression) bool {
	a, ok := expr.(*ast.ArithmeticExpression)
	return ok && !a.Op.IsComparison()
}

// emitFunction appends a function's label, parameter shims, and body to
// the functions buffer. The body's statements are emitted directly
// (not via emitBlock) so a trailing Return's own `@endlocal ... && exit
// /b 0` line is the function's only closing line; a body that falls off
// the end without a Return gets `@endlocal && exit /b 0` appended as a
// fallback.
func (g *Generator) emitFunction(name string, fn *ast.FunctionLiteral, outer *genScope) {
	fmt.Fprintf(&g.functions, ":%s\r\n", name)
	paramScope := newGenScope(outer)
	for i, param := range fn.Params {
		fmt.Fprintf(&g.functions, "@set %s=%%~%d\r\n", param.Name, i+1)
		paramScope.declare(param.Name)
	}

	bodyScope := newGenScope(paramScope)
	g.functions.WriteString("@setlocal EnableDelayedExpansion\r\n")

	endsInReturn := false
	for _, stmt := range fn.Body.Statements {
		g.functions.WriteString(g.emitStatementWithSpills(stmt, bodyScope))
		if g.failing() {
			return
		}
		_, endsInReturn = stmt.(*ast.ReturnStatement)
	}
	if !endsInReturn {
		g.functions.WriteString("@endlocal && exit /b 0\r\n")
	}
}

func (g *Generator) emitBlock(block *ast.BlockStatement, parent *genScope) string {
	inner := newGenScope(parent)
	var body strings.Builder
	body.WriteString("@setlocal EnableDelayedExpansion\r\n")
	for _, stmt := range block.Statements {
		body.WriteString(g.emitStatementWithSpills(stmt, inner))
		if g.failing() {
			return ""
		}
	}
	body.WriteString("@endlocal")
	for _, name := range inner.outer {
		fmt.Fprintf(&body, ` && set "%s=%%%s%%"`, name, name)
	}
	body.WriteString("\r\n")
	return body.String()
}

func (g *Generator) emitIf(s *ast.IfStatement, scope *genScope) string {
	k := g.ifCounter
	g.ifCounter++

	cond := g.emitExpression(s.Condition, ctxIf, scope)
	if g.failing() {
		return ""
	}

	endifLabel := fmt.Sprintf("_endif%d_", k)
	target := endifLabel
	if s.Alternate != nil {
		target = fmt.Sprintf("_else%d_", k)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@if not %s goto :%s\r\n", cond, target)
	sb.WriteString(g.emitStatementWithSpills(s.Consequence, scope))
	fmt.Fprintf(&sb, "@goto :%s\r\n", endifLabel)
	if s.Alternate != nil {
		fmt.Fprintf(&sb, ":%s\r\n", target)
		sb.WriteString(g.emitStatementWithSpills(s.Alternate, scope))
	}
	fmt.Fprintf(&sb, ":%s\r\n", endifLabel)
	return sb.String()
}

func (g *Generator) emitWhile(s *ast.WhileStatement, scope *genScope) string {
	k := g.whileCounter
	g.whileCounter++
	whileLabel := fmt.Sprintf("_while%d_", k)
	endLabel := fmt.Sprintf("_endwhile%d_", k)

	var sb strings.Builder
	fmt.Fprintf(&sb, ":%s\r\n", whileLabel)

	// The condition is re-evaluated every iteration, so any temporaries
	// it spills must be computed inside the loop body on every pass,
	// not hoisted once above the label.
	mark := len(g.pending)
	cond := g.emitExpression(s.Condition, ctxWhile, scope)
	if g.failing() {
		return ""
	}
	for _, p := range g.pending[mark:] {
		sb.WriteString(p)
	}
	g.pending = g.pending[:mark]

	fmt.Fprintf(&sb, "@if not %s goto :%s\r\n", cond, endLabel)
	sb.WriteString(g.emitStatementWithSpills(s.Body, scope))
	fmt.Fprintf(&sb, "@goto :%s\r\n", whileLabel)
	fmt.Fprintf(&sb, ":%s\r\n", endLabel)
	return sb.String()
}

// emitReturn closes the current function body scope and, when there is
// a value, assigns it to __ret__ as an ordinary named assignment ahead
// of the closing line, which exports __ret__ across its `endlocal` —
// exactly the shape a caller reads back via `%__ret__%` after `@call`.
func (g *Generator) emitReturn(s *ast.ReturnStatement, scope *genScope) string {
	var sb strings.Builder
	if s.Value != nil {
		sb.WriteString(g.renderNamedAssignment("__ret__", s.Value, scope))
		if g.failing() {
			return ""
		}
		sb.WriteString("@endlocal && set \"__ret__=%__ret__%\" && exit /b 0\r\n")
		return sb.String()
	}
	sb.WriteString("@endlocal && exit /b 0\r\n")
	return sb.String()
}

func (g *Generator) emitExpressionStatement(es *ast.ExpressionStatement, scope *genScope) string {
	call, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		g.note("skipped bare expression at %s", es.Pos())
		return ""
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok {
		g.note("skipped call with non-identifier callee at %s", es.Pos())
		return ""
	}

	if callee.Name == "print" {
		var sb strings.Builder
		for _, arg := range call.Args {
			mark := len(g.pending)
			text := g.emitExpression(arg, ctxExpression, scope)
			if g.failing() {
				return ""
			}
			for _, p := range g.pending[mark:] {
				sb.WriteString(p)
			}
			g.pending = g.pending[:mark]
			fmt.Fprintf(&sb, "@echo %s\r\n", text)
		}
		return sb.String()
	}

	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.emitExpression(arg, ctxExpression, scope)
		if g.failing() {
			return ""
		}
	}
	if len(args) == 0 {
		return fmt.Sprintf("@call :%s\r\n", callee.Name)
	}
	return fmt.Sprintf("@call :%s %s\r\n", callee.Name, strings.Join(args, " "))
}

func (g *Generator) emitExpression(expr ast.Expression, ctx parentKind, scope *genScope) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		if isConditionCtx(ctx) {
			return fmt.Sprintf(`"%%%s%%"=="true"`, e.Name)
		}
		return fmt.Sprintf("%%%s%%", e.Name)

	case *ast.NumberLiteral:
		return e.Text

	case *ast.StringLiteral:
		return strings.ReplaceAll(e.Text, `\`, "^")

	case *ast.CallExpression:
		return g.spillCall(e, scope)

	case *ast.ArithmeticExpression:
		return g.emitArithmetic(e, ctx, scope)

	case *ast.FunctionLiteral:
		g.fail(e.Pos(), "function literals cannot appear as a sub-expression")
		return ""

	default:
		g.fail(expr.Pos(), "codegen: unhandled expression shape %T", expr)
		return ""
	}
}

func (g *Generator) emitArithmetic(a *ast.ArithmeticExpression, ctx parentKind, scope *genScope) string {
	if a.Op.IsComparison() {
		l := g.emitExpression(a.Left, ctxExpression, scope)
		r := g.emitExpression(a.Right, ctxExpression, scope)
		var cond string
		if a.Op == ast.OpEq {
			cond = fmt.Sprintf(`"%s"=="%s"`, l, r)
		} else {
			cond = fmt.Sprintf(`"%s" NEQ "%s"`, l, r)
		}
		if isConditionCtx(ctx) {
			return cond
		}
		// A comparison used as a value (assigned, returned, passed, …)
		// has no inline Batch form: compute it into a boolean temporary.
		tmp := g.mintTemp()
		g.pending = append(g.pending, fmt.Sprintf("@set %s=false\r\n", tmp))
		g.pending = append(g.pending, fmt.Sprintf("@if %s set %s=true\r\n", cond, tmp))
		return fmt.Sprintf("%%%s%%", tmp)
	}

	if isAssignLikeCtx(ctx) {
		l := g.emitExpression(a.Left, ctx, scope)
		r := g.emitExpression(a.Right, ctx, scope)
		return l + opText(a.Op) + r
	}

	// Outside an assignment's right-hand side there is no inline `set
	// /a` form available, so spill the computation to a temporary.
	l := g.emitExpression(a.Left, ctxDeclaration, scope)
	r := g.emitExpression(a.Right, ctxDeclaration, scope)
	tmp := g.mintTemp()
	g.pending = append(g.pending, fmt.Sprintf("@set /a %s=%s%s%s\r\n", tmp, l, opText(a.Op), r))
	return fmt.Sprintf("%%%s%%", tmp)
}

// opText renders an arithmetic operator's literal text. `%` is doubled
// because a lone `%` inside a Batch script is an unterminated variable
// reference; `%%` is how a literal percent survives.
func opText(op ast.ArithmeticOp) string {
	if op == ast.OpMod {
		return "%%"
	}
	return op.String()
}

func (g *Generator) spillCall(call *ast.CallExpression, scope *genScope) string {
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok {
		g.fail(call.Pos(), "call target must be an identifier")
		return ""
	}
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.emitExpression(arg, ctxExpression, scope)
		if g.failing() {
			return ""
		}
	}
	if len(args) == 0 {
		g.pending = append(g.pending, fmt.Sprintf("@call :%s\r\n", callee.Name))
	} else {
		g.pending = append(g.pending, fmt.Sprintf("@call :%s %s\r\n", callee.Name, strings.Join(args, " ")))
	}
	ret := fmt.Sprintf("_ret%d_", g.tempCounter)
	g.tempCounter++
	g.pending = append(g.pending, fmt.Sprintf("@set %s=%%__ret__%%\r\n", ret))
	return fmt.Sprintf("%%%s%%", ret)
}

func (g *Generator) mintTemp() string {
	tmp := fmt.Sprintf("_tmp%d_", g.tempCounter)
	g.tempCounter++
	return tmp
}
