package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunLexPrintsTokenLiterals(t *testing.T) {
	in := writeTempSource(t, `x := 1;`)
	lexShowPos, lexShowType = false, false

	out := captureStdout(t, func() {
		require.NoError(t, runLex(nil, []string{in}))
	})
	require.Contains(t, out, `"x"`)
	require.Contains(t, out, `":"`)
	require.Contains(t, out, `"="`)
	require.Contains(t, out, `"1"`)
	require.Contains(t, out, "EOF")
}

func TestRunLexShowTypeAndPos(t *testing.T) {
	in := writeTempSource(t, `x := 1;`)
	lexShowPos, lexShowType = true, true
	defer func() { lexShowPos, lexShowType = false, false }()

	out := captureStdout(t, func() {
		require.NoError(t, runLex(nil, []string{in}))
	})
	require.Contains(t, out, "[IDENT")
	require.Contains(t, out, "@1:1")
}
