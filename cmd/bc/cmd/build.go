package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/codegen"
	"github.com/trgwii/bc/internal/diag"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/internal/parser"
	"github.com/trgwii/bc/internal/semantic"
)

var buildCmd = &cobra.Command{
	Use:   "build <input> <output>",
	Short: "Compile a bb source file to a Batch script",
	Long: `Compile runs the full pipeline (tokenize, parse, analyze, generate) and
writes the resulting Batch script to <output>.

Non-fatal semantic warnings are printed to stdout and do not stop
compilation; any tokenizer, parser, or code generator error is fatal and
is printed to stderr with source context.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	configureTrace()
	input, output := args[0], args[1]

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	source := string(src)

	diag.Trace.Debugf("tokenizing %s (%d bytes)", input, len(source))

	l := lexer.New(source)
	p := parser.New(l, arena.New(0))
	program := p.ParseProgram()

	if perr := p.Err(); perr != nil {
		fe := &diag.FatalError{Pos: perr.Pos, Message: perr.Message, Source: source, File: input}
		fmt.Fprintln(os.Stderr, fe.Format(useColor()))
		return failCompile(fe)
	}

	diag.Trace.Debug("parse complete, running semantic analysis")

	warnings := semantic.New().Analyze(program)
	for _, w := range warnings {
		wd := diag.WarningDiag{Pos: w.Pos, Message: w.Message, File: input}
		fmt.Println(wd.Format(useColor()))
	}

	diag.Trace.Debug("semantic analysis complete, generating Batch")

	out, notes, cerr := codegen.Generate(program)
	for _, n := range notes {
		diag.Trace.Debug(n)
	}
	if cerr != nil {
		var pos = program.Pos()
		if ce, ok := cerr.(*codegen.Error); ok {
			pos = ce.Pos
		}
		fe := &diag.FatalError{Pos: pos, Message: cerr.Error(), Source: source, File: input}
		fmt.Fprintln(os.Stderr, fe.Format(useColor()))
		return failCompile(fe)
	}

	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	diag.Trace.Debugf("wrote %s (%d bytes)", output, len(out))
	fmt.Printf("Compiled %s -> %s\n", input, output)
	return nil
}
