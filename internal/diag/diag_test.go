package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trgwii/bc/internal/diag"
	"github.com/trgwii/bc/pkg/token"
)

func TestFatalErrorFormatNoColor(t *testing.T) {
	e := &diag.FatalError{
		Pos:     token.Position{Line: 2, Column: 5},
		Message: "unexpected token EOF",
		Source:  "x := 1;\ny := ;",
		File:    "in.bb",
	}
	out := e.Format(false)
	require.Contains(t, out, "Error in in.bb:2:5")
	require.Contains(t, out, "y := ;")
	require.Contains(t, out, "^")
	require.Contains(t, out, "unexpected token EOF")
	require.NotContains(t, out, "\033[")
}

func TestFatalErrorFormatColor(t *testing.T) {
	e := &diag.FatalError{Pos: token.Position{Line: 1, Column: 1}, Message: "boom"}
	out := e.Format(true)
	require.Contains(t, out, "\033[")
}

func TestFatalErrorImplementsError(t *testing.T) {
	e := &diag.FatalError{Pos: token.Position{Line: 1, Column: 1}, Message: "boom", File: "in.bb"}
	require.Equal(t, "in.bb:1:1: boom", e.Error())
}

func TestWarningDiagFormat(t *testing.T) {
	w := diag.WarningDiag{Pos: token.Position{Line: 3, Column: 1}, Message: "Unused variable: x", File: "in.bb"}
	out := w.Format(false)
	require.Contains(t, out, "warning: ")
	require.Contains(t, out, "in.bb:3:1")
	require.Contains(t, out, "Unused variable: x")
}

func TestFormatWarningsJoinsLines(t *testing.T) {
	warnings := []diag.WarningDiag{
		{Pos: token.Position{Line: 1, Column: 1}, Message: "a"},
		{Pos: token.Position{Line: 2, Column: 1}, Message: "b"},
	}
	out := diag.FormatWarnings(warnings, false)
	require.Equal(t, 1, strings.Count(out, "\n"))
	require.Equal(t, 2, len(strings.Split(out, "\n")))
}
