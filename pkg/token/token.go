// Package token defines the lexical tokens of the bb language.
package token

import "fmt"

// Position identifies a single point in the source buffer.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type identifies the kind of a Token.
type Type int

const (
	EOF Type = iota
	ILLEGAL

	IDENT  // identifiers, including the contextual keywords if/else/while/return/func
	NUMBER // [0-9]+
	STRING // "..."

	INLINE_BATCH // batch { ... }

	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	SEMI   // ;
	COMMA  // ,
	COLON  // :
	EQUAL  // =
	EXCL   // !

	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	PERCENT
)

var typeNames = map[Type]string{
	EOF:          "EOF",
	ILLEGAL:      "ILLEGAL",
	IDENT:        "IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	INLINE_BATCH: "INLINE_BATCH",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACE:       "{",
	RBRACE:       "}",
	SEMI:         ";",
	COMMA:        ",",
	COLON:        ":",
	EQUAL:        "=",
	EXCL:         "!",
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is a single lexeme. Literal borrows from the source buffer; it
// never outlives it.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
