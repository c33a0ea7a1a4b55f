package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/diag"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/internal/parser"
	"github.com/trgwii/bc/internal/semantic"
)

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Run the semantic analyzer without generating output",
	Long: `Check parses a bb source file and runs the semantic analyzer only,
printing every warning it finds (undeclared use, assignment to an
undeclared or constant name, double declaration, unused binding) without
emitting a Batch script.

Exits 1 if the file fails to tokenize or parse; a clean analyzer run
exits 0 even when it reports warnings, since none of bb's semantic
checks are fatal.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	configureTrace()
	input := args[0]

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	source := string(src)

	l := lexer.New(source)
	p := parser.New(l, arena.New(0))
	program := p.ParseProgram()

	if perr := p.Err(); perr != nil {
		fe := &diag.FatalError{Pos: perr.Pos, Message: perr.Message, Source: source, File: input}
		fmt.Fprintln(os.Stderr, fe.Format(useColor()))
		return failCompile(fe)
	}

	warnings := semantic.New().Analyze(program)
	if len(warnings) == 0 {
		fmt.Println("no warnings")
		return nil
	}
	for _, w := range warnings {
		wd := diag.WarningDiag{Pos: w.Pos, Message: w.Message, File: input}
		fmt.Println(wd.Format(useColor()))
	}
	return nil
}
