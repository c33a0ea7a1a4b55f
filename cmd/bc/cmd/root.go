// Package cmd implements the bc command-line driver: a cobra root
// command plus the build/lex/parse/check/version subcommands, wiring
// internal/lexer, internal/arena, internal/parser, internal/semantic,
// and internal/codegen into the pipeline spec.md describes.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trgwii/bc/internal/diag"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	noColor bool
	verbose bool
)

// compileFailure marks an error that originates from the compiler
// pipeline itself (a fatal tokenizer/parser/codegen error) rather than
// from bad CLI usage, so main can tell the two apart for exit codes.
type compileFailure struct{ err error }

func (c *compileFailure) Error() string { return c.err.Error() }
func (c *compileFailure) Unwrap() error { return c.err }

func failCompile(err error) error { return &compileFailure{err: err} }

var rootCmd = &cobra.Command{
	Use:   "bc <input> <output>",
	Short: "Compiles bb programs to Windows Batch scripts",
	Long: `bc is a single-pass compiler for bb, a small imperative language,
targeting Windows Batch (.cmd) scripts.

Given a bb source file it runs bb through a tokenizer, a recursive-descent
parser, a semantic analyzer that reports non-fatal warnings, and a code
generator that lowers the program directly to Batch source text.

Run with two bare positional arguments to compile in one step:

  bc in.bb out.cmd

or use the "build" subcommand explicitly for the same effect.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Help()
		}
		if len(args) != 2 {
			return fmt.Errorf("expected exactly 2 positional arguments (<input> <output>), got %d", len(args))
		}
		return runBuild(c, args)
	},
}

// Execute runs the root command and returns a process exit code: 0 on
// success, 1 when the failure originated in the compiler pipeline, 2
// for everything else (bad flags, bad arguments, I/O errors).
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var cf *compileFailure
	if isCompileFailure(err, &cf) {
		return 1
	}
	return 2
}

func isCompileFailure(err error, target **compileFailure) bool {
	for err != nil {
		if cf, ok := err.(*compileFailure); ok {
			*target = cf
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print token/AST/codegen trace diagnostics")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostic output")
}

// useColor reports whether diagnostics should be rendered with ANSI
// color: off when --no-color is passed or NO_COLOR is set to a
// non-empty value in the environment, per https://no-color.org, on
// otherwise.
func useColor() bool {
	if noColor {
		return false
	}
	if v, set := os.LookupEnv("NO_COLOR"); set && v != "" {
		return false
	}
	return true
}

// configureTrace raises diag.Trace to Debug level when --verbose was
// passed, so internal trace dumps reach stderr.
func configureTrace() {
	if verbose {
		diag.Trace.SetLevel(logrus.DebugLevel)
	}
}
