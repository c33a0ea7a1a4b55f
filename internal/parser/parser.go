// Package parser implements a recursive-descent parser that turns a
// token stream from internal/lexer into an internal/ast tree. Every
// node is allocated from the compilation's arena.Arena; the parser
// keeps only a single token of lookahead, borrowed from the lexer.
package parser

import (
	"fmt"

	"github.com/trgwii/bc/internal/arena"
	"github.com/trgwii/bc/internal/ast"
	"github.com/trgwii/bc/internal/lexer"
	"github.com/trgwii/bc/pkg/token"
)

// ParseError is a single fatal parse diagnostic: the first error halts
// parsing, matching spec.md's "no recovery" non-goal.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parser is a recursive-descent parser over a single *lexer.Lexer.
type Parser struct {
	l     *lexer.Lexer
	arena *arena.Arena

	cur  token.Token
	peek token.Token

	err *ParseError
}

// New creates a Parser that allocates AST nodes from a.
func New(l *lexer.Lexer, a *arena.Arena) *Parser {
	p := &Parser{l: l, arena: a}
	p.cur = l.Next()
	p.peek = l.Next()
	return p
}

// Err returns the fatal parse error, if parsing stopped early.
func (p *Parser) Err() *ParseError { return p.err }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) fail(pos token.Position, format string, args ...any) {
	if p.err == nil {
		p.err = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}

func (p *Parser) failing() bool { return p.err != nil }

// allocNode allocates a zero-valued T from the parser's arena. Running
// out of arena space is a fatal compiler error, same as any other
// unrecoverable parse failure.
func allocNode[T any](p *Parser, pos token.Position) *T {
	n, err := arena.New[T](p.arena)
	if err != nil {
		p.fail(pos, "out of memory: %v", err)
		return new(T)
	}
	return n
}

func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if tok.Type != t {
		p.fail(tok.Pos, "expected %s, got %s", t, tok)
		return tok
	}
	p.advance()
	return tok
}

// ParseProgram parses the whole token stream into a Program. Check
// Err() afterward: on the first fatal error, the returned Program holds
// whatever statements were parsed before the failure.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Type != token.EOF && !p.failing() {
		stmt := p.parseStatement()
		if p.failing() {
			break
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.cur.Type == token.INLINE_BATCH:
		return p.parseInlineBatch()
	case p.cur.Type == token.LBRACE:
		return p.parseBlock()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.cur.Type == token.IDENT && p.peek.Type == token.COLON:
		return p.parseDeclaration()
	case p.cur.Type == token.IDENT && p.peek.Type == token.EQUAL:
		return p.parseAssignment()
	default:
		return p.parseExpressionStatement()
	}
}

// isKeyword reports whether the current token is the identifier kw.
// bb's keywords (if, else, while, return, func) are recognized
// contextually by the parser, not reserved by the tokenizer.
func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Type == token.IDENT && p.cur.Literal == kw
}

func (p *Parser) parseInlineBatch() ast.Statement {
	tok := p.cur
	p.advance()
	stmt := allocNode[ast.InlineBatchStatement](p, tok.Pos)
	stmt.Token, stmt.Text = tok, tok.Literal
	return stmt
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	tok := p.expect(token.LBRACE)
	block := allocNode[ast.BlockStatement](p, tok.Pos)
	block.Token = tok
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF && !p.failing() {
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	p.advance() // 'if'
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	consequence := p.parseStatement()

	stmt := allocNode[ast.IfStatement](p, tok.Pos)
	stmt.Token, stmt.Condition, stmt.Consequence = tok, cond, consequence
	if p.isKeyword("else") {
		p.advance()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	p.advance() // 'while'
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	stmt := allocNode[ast.WhileStatement](p, tok.Pos)
	stmt.Token, stmt.Condition, stmt.Body = tok, cond, body
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	p.advance() // 'return'
	stmt := allocNode[ast.ReturnStatement](p, tok.Pos)
	stmt.Token = tok
	if p.cur.Type != token.SEMI {
		stmt.Value = p.parseExpression()
	}
	p.expect(token.SEMI)
	return stmt
}

// parseDeclaration parses `name := value;` or `name :: value;`. When the
// value is a function literal, its closing brace may end the declaration
// without a trailing ';' (one is still accepted).
func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur
	name := p.parseIdentifier()
	p.expect(token.COLON)
	constant := p.parseDeclOperator()
	value := p.parseExpression()
	if _, isFn := value.(*ast.FunctionLiteral); !isFn || p.cur.Type == token.SEMI {
		p.expect(token.SEMI)
	}

	if fn, ok := value.(*ast.FunctionLiteral); ok && !constant {
		p.fail(fn.Pos(), "function declarations must use ::, not :=")
	}
	decl := allocNode[ast.Declaration](p, tok.Pos)
	decl.Token, decl.Name, decl.Value, decl.Constant = tok, name, value, constant
	return decl
}

// parseDeclOperator consumes the second character of `:=` or `::` and
// reports which one it was.
func (p *Parser) parseDeclOperator() (constant bool) {
	switch p.cur.Type {
	case token.EQUAL:
		p.advance()
		return false
	case token.COLON:
		p.advance()
		return true
	default:
		p.fail(p.cur.Pos, "expected := or :: , got %s", p.cur)
		return false
	}
}

func (p *Parser) parseAssignment() ast.Statement {
	tok := p.cur
	name := p.parseIdentifier()
	p.expect(token.EQUAL)
	value := p.parseExpression()
	p.expect(token.SEMI)
	assign := allocNode[ast.Assignment](p, tok.Pos)
	assign.Token, assign.Name, assign.Value = tok, name, value
	return assign
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression()
	p.expect(token.SEMI)
	stmt := allocNode[ast.ExpressionStatement](p, tok.Pos)
	stmt.Token, stmt.Expression = tok, expr
	return stmt
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.expect(token.IDENT)
	ident := allocNode[ast.Identifier](p, tok.Pos)
	ident.Token, ident.Name = tok, tok.Literal
	return ident
}

// parseExpression parses `primary (binop expression)?`: right-
// associative, no precedence, per spec.md's documented limitation.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parsePrimary()
	if p.failing() {
		return left
	}
	if op, tok, ok := p.tryBinop(); ok {
		right := p.parseExpression()
		expr := allocNode[ast.ArithmeticExpression](p, tok.Pos)
		expr.Token, expr.Op, expr.Left, expr.Right = tok, op, left, right
		return expr
	}
	return left
}

// tryBinop consumes a binary operator token if the current position
// holds one. `==` and `!=` are recognized only when `=`/`!` is followed
// immediately by `=`; any other arithmetic operator is single-character.
func (p *Parser) tryBinop() (ast.ArithmeticOp, token.Token, bool) {
	tok := p.cur
	switch tok.Type {
	case token.PLUS:
		p.advance()
		return ast.OpAdd, tok, true
	case token.MINUS:
		p.advance()
		return ast.OpSub, tok, true
	case token.STAR:
		p.advance()
		return ast.OpMul, tok, true
	case token.SLASH:
		p.advance()
		return ast.OpDiv, tok, true
	case token.PERCENT:
		p.advance()
		return ast.OpMod, tok, true
	case token.EQUAL:
		if p.peek.Type != token.EQUAL {
			return 0, tok, false
		}
		p.advance()
		p.advance()
		return ast.OpEq, tok, true
	case token.EXCL:
		if p.peek.Type != token.EQUAL {
			return 0, tok, false
		}
		p.advance()
		p.advance()
		return ast.OpNeq, tok, true
	default:
		return 0, tok, false
	}
}

// parsePrimary parses Number | String | Ident | Ident '(' args? ')' |
// 'func' '(' ident-list? ')' block.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur
	switch {
	case tok.Type == token.NUMBER:
		p.advance()
		lit := allocNode[ast.NumberLiteral](p, tok.Pos)
		lit.Token, lit.Text = tok, tok.Literal
		return lit

	case tok.Type == token.STRING:
		p.advance()
		lit := allocNode[ast.StringLiteral](p, tok.Pos)
		lit.Token, lit.Text = tok, tok.Literal
		return lit

	case p.isKeyword("func"):
		return p.parseFunctionLiteral()

	case tok.Type == token.IDENT:
		ident := allocNode[ast.Identifier](p, tok.Pos)
		ident.Token, ident.Name = tok, tok.Literal
		p.advance()
		if p.cur.Type == token.LPAREN {
			return p.parseCall(ident)
		}
		return ident

	default:
		p.fail(tok.Pos, "unexpected token %s in expression", tok)
		return nil
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.expect(token.LPAREN)
	call := allocNode[ast.CallExpression](p, tok.Pos)
	call.Token, call.Callee = tok, callee
	for p.cur.Type != token.RPAREN && !p.failing() {
		call.Args = append(call.Args, p.parseExpression())
		if p.cur.Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.cur
	p.advance() // 'func'
	p.expect(token.LPAREN)

	fn := allocNode[ast.FunctionLiteral](p, tok.Pos)
	fn.Token = tok
	for p.cur.Type != token.RPAREN && !p.failing() {
		fn.Params = append(fn.Params, p.parseIdentifier())
		if p.cur.Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	fn.Body = p.parseBlock()

	if hasNestedFunctionLiteral(fn.Body) {
		p.fail(fn.Pos(), "nested function declarations are not allowed")
	}
	return fn
}

// hasNestedFunctionLiteral reports whether block contains a Declaration
// whose value is itself a FunctionLiteral. Per spec.md §9's open
// question, the reference implementation permits function declarations
// only at the top level without syntactically rejecting nested ones;
// this implementation treats a nested one as an error instead of
// guessing intent.
func hasNestedFunctionLiteral(block *ast.BlockStatement) bool {
	for _, stmt := range block.Statements {
		if containsFunctionDeclaration(stmt) {
			return true
		}
	}
	return false
}

func containsFunctionDeclaration(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.Declaration:
		_, isFn := s.Value.(*ast.FunctionLiteral)
		return isFn
	case *ast.BlockStatement:
		return hasNestedFunctionLiteral(s)
	case *ast.IfStatement:
		if containsFunctionDeclaration(s.Consequence) {
			return true
		}
		return s.Alternate != nil && containsFunctionDeclaration(s.Alternate)
	case *ast.WhileStatement:
		return containsFunctionDeclaration(s.Body)
	default:
		return false
	}
}
