// Package ast defines the Abstract Syntax Tree node types for bb. The
// parser allocates every node struct except Program from the
// compilation's arena.Arena; Program and the slices linking nodes
// (Statements, Args, Params) are ordinary Go allocations. Nodes take
// their text from token literals, which borrow the source buffer except
// for inline-batch payloads, which the lexer builds as new strings.
package ast

import (
	"bytes"

	"github.com/trgwii/bc/pkg/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is
	// associated with.
	TokenLiteral() string
	// String returns a debug representation of the node.
	String() string
	// Pos returns the node's position in the source code.
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action but produces no value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}
