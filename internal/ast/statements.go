package ast

import (
	"bytes"

	"github.com/trgwii/bc/pkg/token"
)

// ExpressionStatement is a statement consisting of a single expression,
// e.g. a bare call like print("hi");.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()      {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

// Declaration introduces a new binding: `name := value;` (mutable) or
// `name :: value;` (constant).
type Declaration struct {
	Token    token.Token // the identifier token
	Name     *Identifier
	Value    Expression
	Constant bool
}

func (d *Declaration) statementNode()      {}
func (d *Declaration) TokenLiteral() string { return d.Token.Literal }
func (d *Declaration) Pos() token.Position  { return d.Token.Pos }
func (d *Declaration) String() string {
	op := " := "
	if d.Constant {
		op = " :: "
	}
	return d.Name.String() + op + d.Value.String() + ";"
}

// Assignment rebinds an existing, non-constant variable.
type Assignment struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (a *Assignment) statementNode()      {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() token.Position  { return a.Token.Pos }
func (a *Assignment) String() string {
	return a.Name.String() + " = " + a.Value.String() + ";"
}

// IfStatement is `if (condition) consequence` with an optional
// `else alternate`.
type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence Statement
	Alternate   Statement // nil if there is no else branch
}

func (is *IfStatement) statementNode()      {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	if is.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternate.String())
	}
	return out.String()
}

// WhileStatement is `while (condition) body`.
type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()      {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// ReturnStatement is `return;` or `return value;`. It is only valid
// inside a FunctionLiteral body.
type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression  // nil when no value is returned
}

func (rs *ReturnStatement) statementNode()      {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String() + ";"
	}
	return "return;"
}

// BlockStatement is `{ statements }`.
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()      {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, stmt := range bs.Statements {
		out.WriteString("  ")
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// InlineBatchStatement injects raw Batch text verbatim, after trimming
// leading and trailing whitespace.
type InlineBatchStatement struct {
	Token token.Token // the 'batch' token
	Text  string      // untrimmed payload as lexed
}

func (ib *InlineBatchStatement) statementNode()      {}
func (ib *InlineBatchStatement) TokenLiteral() string { return ib.Token.Literal }
func (ib *InlineBatchStatement) Pos() token.Position  { return ib.Token.Pos }
func (ib *InlineBatchStatement) String() string {
	return "batch {" + ib.Text + "}"
}
