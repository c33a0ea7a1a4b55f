package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/ast"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, arena.New(0))
	prog := p.ParseProgram()
	require.Nil(t, p.Err())
	return prog
}

func TestParseDeclarationMutable(t *testing.T) {
	prog := parseProgram(t, `x := 1;`)
	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*ast.Declaration)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name.Name)
	require.False(t, decl.Constant)
	require.Equal(t, "1", decl.Value.(*ast.NumberLiteral).Text)
}

func TestParseDeclarationConstant(t *testing.T) {
	prog := parseProgram(t, `x :: 3;`)
	decl := prog.Statements[0].(*ast.Declaration)
	require.True(t, decl.Constant)
}

func TestParseAssignment(t *testing.T) {
	prog := parseProgram(t, `x := 1; x = 2;`)
	assign := prog.Statements[1].(*ast.Assignment)
	require.Equal(t, "x", assign.Name.Name)
	require.Equal(t, "2", assign.Value.(*ast.NumberLiteral).Text)
}

func TestParseCall(t *testing.T) {
	prog := parseProgram(t, `print("hello");`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.CallExpression)
	require.Equal(t, "print", call.Callee.(*ast.Identifier).Name)
	require.Len(t, call.Args, 1)
	require.Equal(t, "hello", call.Args[0].(*ast.StringLiteral).Text)
}

func TestParseRightAssociativeNoPrecedence(t *testing.T) {
	prog := parseProgram(t, `x := 2 * 3 + 1;`)
	decl := prog.Statements[0].(*ast.Declaration)
	top := decl.Value.(*ast.ArithmeticExpression)
	require.Equal(t, ast.OpMul, top.Op)
	require.Equal(t, "2", top.Left.(*ast.NumberLiteral).Text)
	nested := top.Right.(*ast.ArithmeticExpression)
	require.Equal(t, ast.OpAdd, nested.Op)
}

func TestParseEqualityOperators(t *testing.T) {
	prog := parseProgram(t, `x := 1 == 2;`)
	decl := prog.Statements[0].(*ast.Declaration)
	expr := decl.Value.(*ast.ArithmeticExpression)
	require.Equal(t, ast.OpEq, expr.Op)

	prog = parseProgram(t, `x := 1 != 2;`)
	decl = prog.Statements[0].(*ast.Declaration)
	expr = decl.Value.(*ast.ArithmeticExpression)
	require.Equal(t, ast.OpNeq, expr.Op)
}

func TestParseIfElse(t *testing.T) {
	prog := parseProgram(t, `if (x == 1) { print("eq"); } else { print("ne"); }`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	require.NotNil(t, stmt.Alternate)
	cons := stmt.Consequence.(*ast.BlockStatement)
	require.Len(t, cons.Statements, 1)
}

func TestParseIfWithoutElse(t *testing.T) {
	prog := parseProgram(t, `if (x == 1) { print("eq"); }`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	require.Nil(t, stmt.Alternate)
}

func TestParseWhile(t *testing.T) {
	prog := parseProgram(t, `while (i != 3) { i = i + 1; }`)
	stmt := prog.Statements[0].(*ast.WhileStatement)
	require.IsType(t, &ast.ArithmeticExpression{}, stmt.Condition)
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, `add :: func(a, b) { return a + b; };`)
	decl := prog.Statements[0].(*ast.Declaration)
	require.True(t, decl.Constant)
	fn := decl.Value.(*ast.FunctionLiteral)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "a", fn.Params[0].Name)
	require.Equal(t, "b", fn.Params[1].Name)
}

func TestParseInlineBatch(t *testing.T) {
	prog := parseProgram(t, `batch { @echo hi }`)
	stmt := prog.Statements[0].(*ast.InlineBatchStatement)
	require.Equal(t, " @echo hi ", stmt.Text)
}

func TestParseReturnWithoutValue(t *testing.T) {
	prog := parseProgram(t, `f :: func() { return; };`)
	fn := prog.Statements[0].(*ast.Declaration).Value.(*ast.FunctionLiteral)
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	require.Nil(t, ret.Value)
}

func TestParseErrorOnBadToken(t *testing.T) {
	l := lexer.New(`x := ;`)
	p := parser.New(l, arena.New(0))
	p.ParseProgram()
	require.NotNil(t, p.Err())
}

func TestParseErrorFunctionDeclWithMutableOperator(t *testing.T) {
	l := lexer.New(`add := func(a, b) { return a + b; };`)
	p := parser.New(l, arena.New(0))
	p.ParseProgram()
	require.NotNil(t, p.Err())
}

func TestParseErrorNestedFunctionDeclaration(t *testing.T) {
	l := lexer.New(`outer :: func() { inner :: func() { return 1; }; return inner(); };`)
	p := parser.New(l, arena.New(0))
	p.ParseProgram()
	require.NotNil(t, p.Err())
}

func TestParseErrorStopsAtFirstFailure(t *testing.T) {
	l := lexer.New(`x := 1; y := ; z := 3;`)
	p := parser.New(l, arena.New(0))
	prog := p.ParseProgram()
	require.NotNil(t, p.Err())
	require.Len(t, prog.Statements, 1)
}

// Two independent arenas parsing the same source must yield
// structurally identical trees. testify's ObjectsAreEqual falls back to
// reflect.DeepEqual here, which walks the arena-owned pointer graph node
// by node with no readable failure output; cmp.Diff gives a field-level
// diff when this regresses.
func TestParseIsDeterministicAcrossArenas(t *testing.T) {
	const src = `x := 1; y := x + 2; if (y == 3) { print(y); } else { print("no"); }`
	first := parseProgram(t, src)
	second := parseProgram(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("parse of identical source diverged (-first +second):\n%s", diff)
	}
}
