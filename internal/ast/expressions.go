package ast

import (
	"bytes"
	"strings"

	"github.com/trgwii/bc/pkg/token"
)

// Identifier is a reference to a variable, constant, or function name.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Name }

// NumberLiteral is an ASCII decimal literal, kept as the source
// substring; bb performs no numeric parsing at the AST level since
// every numeric operation is lowered straight into Batch's own `set /a`
// arithmetic.
type NumberLiteral struct {
	Token token.Token
	Text  string
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Text }

// StringLiteral holds the interior bytes of a "..." literal exactly as
// they appeared between the delimiting quotes; escape processing is
// deferred to code generation.
type StringLiteral struct {
	Token token.Token
	Text  string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) Pos() token.Position  { return s.Token.Pos }
func (s *StringLiteral) String() string       { return "\"" + s.Text + "\"" }

// CallExpression is a function call, e.g. add(2, 3).
type CallExpression struct {
	Token  token.Token // the '(' token
	Callee Expression
	Args   []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() token.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(c.Callee.String())
	out.WriteString("(")
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// ArithmeticOp identifies the operator of an ArithmeticExpression.
type ArithmeticOp byte

const (
	OpAdd ArithmeticOp = '+'
	OpSub ArithmeticOp = '-'
	OpMul ArithmeticOp = '*'
	OpDiv ArithmeticOp = '/'
	OpMod ArithmeticOp = '%'
	OpEq  ArithmeticOp = '='
	OpNeq ArithmeticOp = '!'
)

// IsComparison reports whether op produces a boolean rather than a
// number (the `=`/`!` family).
func (op ArithmeticOp) IsComparison() bool {
	return op == OpEq || op == OpNeq
}

func (op ArithmeticOp) String() string { return string(rune(op)) }

// ArithmeticExpression is a binary operation: either numeric
// (+ - * / %) or a comparison (= for equality, ! for inequality).
// Operators are right-associative with no precedence, per the bb
// grammar.
type ArithmeticExpression struct {
	Token token.Token // the operator token
	Op    ArithmeticOp
	Left  Expression
	Right Expression
}

func (a *ArithmeticExpression) expressionNode()      {}
func (a *ArithmeticExpression) TokenLiteral() string { return a.Token.Literal }
func (a *ArithmeticExpression) Pos() token.Position  { return a.Token.Pos }
func (a *ArithmeticExpression) String() string {
	return "(" + a.Left.String() + " " + a.Op.String() + " " + a.Right.String() + ")"
}

// FunctionLiteral is `func(params) block`. It is valid only as the value
// of a top-level constant Declaration. The parser rejects a `:=`
// function declaration and one nested in a function body; the code
// generator rejects every other position.
type FunctionLiteral struct {
	Token  token.Token // the 'func' token
	Params []*Identifier
	Body   *BlockStatement
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("func(")
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}
