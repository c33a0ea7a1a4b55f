package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/pkg/token"
)

var (
	lexShowPos  bool
	lexShowType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex <input>",
	Short: "Tokenize a bb source file and print the resulting tokens",
	Long: `Tokenize prints one line per token, useful for debugging the lexer
and understanding how bb source is broken into tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
}

func runLex(_ *cobra.Command, args []string) error {
	configureTrace()
	input := args[0]

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	l := lexer.New(string(src))
	for {
		tok := l.Next()
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}

func printToken(tok token.Token) {
	var out string
	if lexShowType {
		out = fmt.Sprintf("[%-12s]", tok.Type)
	}
	if tok.Type == token.EOF {
		out += " EOF"
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
