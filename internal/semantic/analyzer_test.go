package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/internal/parser"
	"github.com/trgwii/bc/internal/semantic"
)

func analyze(t *testing.T, src string) []semantic.Warning {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, arena.New(0))
	prog := p.ParseProgram()
	require.Nil(t, p.Err())
	return semantic.New().Analyze(prog)
}

func messages(warnings []semantic.Warning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Message
	}
	return out
}

func TestUndeclaredUse(t *testing.T) {
	warnings := analyze(t, `x := y;`)
	require.Contains(t, messages(warnings), "Referring to undeclared name: y")
}

func TestPrintIsNeverUndeclared(t *testing.T) {
	warnings := analyze(t, `print("hi");`)
	require.Empty(t, warnings)
}

func TestAssignmentToUndeclared(t *testing.T) {
	warnings := analyze(t, `x = 1;`)
	require.Contains(t, messages(warnings), "Assignment to undeclared name: x")
}

func TestAssignmentToConstant(t *testing.T) {
	warnings := analyze(t, `x :: 1; x = 2; print(x);`)
	require.Contains(t, messages(warnings), "Assignment to constant: x")
}

func TestAssignmentToMutableIsFine(t *testing.T) {
	warnings := analyze(t, `x := 1; x = 2; print(x);`)
	require.Empty(t, warnings)
}

func TestDoubleDeclaration(t *testing.T) {
	warnings := analyze(t, `x := 1; x := 2; print(x);`)
	require.Contains(t, messages(warnings), "Double declaration of: x")
}

func TestDoubleDeclarationInDifferentScopesIsFine(t *testing.T) {
	warnings := analyze(t, `x := 1; if (x == 1) { x := 2; print(x); }`)
	require.NotContains(t, messages(warnings), "Double declaration of: x")
}

func TestUnusedVariable(t *testing.T) {
	warnings := analyze(t, `x := 1;`)
	require.Contains(t, messages(warnings), "Unused variable: x")
}

func TestUnusedConstant(t *testing.T) {
	warnings := analyze(t, `x :: 1;`)
	require.Contains(t, messages(warnings), "Unused constant: x")
}

func TestUsedVariableIsNotWarned(t *testing.T) {
	warnings := analyze(t, `x := 1; print(x);`)
	require.Empty(t, warnings)
}

func TestFunctionParamsAreBoundAndUnusedIsReported(t *testing.T) {
	warnings := analyze(t, `f :: func(a, b) { return a; }; print(f(1, 2));`)
	require.Contains(t, messages(warnings), "Unused variable: b")
}

func TestFunctionCallResolvesCallee(t *testing.T) {
	warnings := analyze(t, `f :: func() { return 1; }; print(f());`)
	require.Empty(t, warnings)
}

func TestUndeclaredFunctionCall(t *testing.T) {
	warnings := analyze(t, `print(f());`)
	require.Contains(t, messages(warnings), "Referring to undeclared name: f")
}

func TestWhileConditionAnalyzed(t *testing.T) {
	warnings := analyze(t, `while (i != 1) { print("x"); }`)
	require.Contains(t, messages(warnings), "Referring to undeclared name: i")
}

func TestInlineBatchIsOpaque(t *testing.T) {
	warnings := analyze(t, `batch { @echo %undefined_var% }`)
	require.Empty(t, warnings)
}
