package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunParsePrintsSurfaceSyntaxByDefault(t *testing.T) {
	in := writeTempSource(t, `x := 1;`)
	parseDumpAST = false

	out := captureStdout(t, func() {
		require.NoError(t, runParse(nil, []string{in}))
	})
	require.Contains(t, out, "x := 1;")
}

func TestRunParseDumpAST(t *testing.T) {
	in := writeTempSource(t, `x := 1; print(x);`)
	parseDumpAST = true
	defer func() { parseDumpAST = false }()

	out := captureStdout(t, func() {
		require.NoError(t, runParse(nil, []string{in}))
	})
	require.Contains(t, out, "Program (2 statements)")
	require.Contains(t, out, "Declaration (mutable) x")
	require.Contains(t, out, "CallExpression")
}

func TestRunParseReportsFatalOnBadSource(t *testing.T) {
	in := writeTempSource(t, `x := ;`)
	err := runParse(nil, []string{in})
	require.Error(t, err)
}
