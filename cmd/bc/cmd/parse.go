package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/ast"
	"github.com/trgwii/bc/internal/diag"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <input>",
	Short: "Parse a bb source file and display its AST",
	Long: `Parse runs the tokenizer and parser and prints the resulting program.

By default the program is printed in bb's own surface syntax (Node.String());
pass --dump-ast for an indented structural dump of the tree instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure instead of surface syntax")
}

func runParse(_ *cobra.Command, args []string) error {
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

	diag.Trace.Debugf("parsed %d top-level statement(s)", len(program.Statements))

	if parseDumpAST {
		dumpASTNode(program, 0)
	} else {
		fmt.Print(program.String())
	}
	return nil
}

func dumpASTNode(node ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, stmt := range n.Statements {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.BlockStatement:
		fmt.Printf("%sBlockStatement (%d statements)\n", pad, len(n.Statements))
		for _, stmt := range n.Statements {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement\n", pad)
		dumpASTNode(n.Expression, indent+1)
	case *ast.Declaration:
		kind := "mutable"
		if n.Constant {
			kind = "constant"
		}
		fmt.Printf("%sDeclaration (%s) %s\n", pad, kind, n.Name.Name)
		dumpASTNode(n.Value, indent+1)
	case *ast.Assignment:
		fmt.Printf("%sAssignment %s\n", pad, n.Name.Name)
		dumpASTNode(n.Value, indent+1)
	case *ast.IfStatement:
		fmt.Printf("%sIfStatement\n", pad)
		fmt.Printf("%s  Condition:\n", pad)
		dumpASTNode(n.Condition, indent+2)
		fmt.Printf("%s  Consequence:\n", pad)
		dumpASTNode(n.Consequence, indent+2)
		if n.Alternate != nil {
			fmt.Printf("%s  Alternate:\n", pad)
			dumpASTNode(n.Alternate, indent+2)
		}
	case *ast.WhileStatement:
		fmt.Printf("%sWhileStatement\n", pad)
		fmt.Printf("%s  Condition:\n", pad)
		dumpASTNode(n.Condition, indent+2)
		fmt.Printf("%s  Body:\n", pad)
		dumpASTNode(n.Body, indent+2)
	case *ast.ReturnStatement:
		fmt.Printf("%sReturnStatement\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.InlineBatchStatement:
		fmt.Printf("%sInlineBatchStatement: %q\n", pad, n.Text)
	case *ast.CallExpression:
		fmt.Printf("%sCallExpression\n", pad)
		fmt.Printf("%s  Callee:\n", pad)
		dumpASTNode(n.Callee, indent+2)
		for _, arg := range n.Args {
			dumpASTNode(arg, indent+1)
		}
	case *ast.ArithmeticExpression:
		fmt.Printf("%sArithmeticExpression (%s)\n", pad, n.Op.String())
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.FunctionLiteral:
		fmt.Printf("%sFunctionLiteral (%d params)\n", pad, len(n.Params))
		for _, param := range n.Params {
			fmt.Printf("%s  Param: %s\n", pad, param.Name)
		}
		dumpASTNode(n.Body, indent+1)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Name)
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral: %s\n", pad, n.Text)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, n.Text)
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node.String())
	}
}
