package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCheckReportsNoWarnings(t *testing.T) {
	in := writeTempSource(t, `x := 1; print(x);`)

	out := captureStdout(t, func() {
		require.NoError(t, runCheck(nil, []string{in}))
	})
	require.Contains(t, out, "no warnings")
}

func TestRunCheckReportsWarnings(t *testing.T) {
	in := writeTempSource(t, `x := 1;`)

	out := captureStdout(t, func() {
		require.NoError(t, runCheck(nil, []string{in}))
	})
	require.Contains(t, out, "Unused variable: x")
}

func TestRunCheckFailsOnParseError(t *testing.T) {
	in := writeTempSource(t, `x := ;`)
	err := runCheck(nil, []string{in})
	require.Error(t, err)
}
