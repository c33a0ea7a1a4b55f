package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trgwii/bc/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `x := 5;
	x = x + 10;
	print("hi");
	`

	tests := []struct {
		literal string
		typ     token.Type
	}{
		{"x", token.IDENT},
		{":", token.COLON},
		{"=", token.EQUAL},
		{"5", token.NUMBER},
		{";", token.SEMI},
		{"x", token.IDENT},
		{"=", token.EQUAL},
		{"x", token.IDENT},
		{"+", token.PLUS},
		{"10", token.NUMBER},
		{";", token.SEMI},
		{"print", token.IDENT},
		{"(", token.LPAREN},
		{"hi", token.STRING},
		{")", token.RPAREN},
		{";", token.SEMI},
		{"", token.EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		require.Equalf(t, tt.typ, tok.Type, "token %d", i)
		require.Equalf(t, tt.literal, tok.Literal, "token %d", i)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	l := New("a b")
	first := l.Peek()
	second := l.Peek()
	require.Equal(t, first, second)
	require.Equal(t, first, l.Next())
	require.Equal(t, "b", l.Next().Literal)
}

func TestReset(t *testing.T) {
	l := New("a b c")
	l.Next()
	l.Next()
	l.Reset()
	require.Equal(t, "a", l.Next().Literal)
	require.Equal(t, "b", l.Next().Literal)
}

func TestNumbersAndPunctuation(t *testing.T) {
	l := New("1 + 2 * 3 / 4 - 5 % 6 == 7 != 8")
	var kinds []token.Type
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
		kinds = append(kinds, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER,
		token.SLASH, token.NUMBER, token.MINUS, token.NUMBER, token.PERCENT,
		token.NUMBER, token.EQUAL, token.EQUAL, token.NUMBER, token.EXCL,
		token.EQUAL, token.NUMBER,
	}, kinds)
}

func TestStringEscape(t *testing.T) {
	l := New(`"a\"b"`)
	tok := l.Next()
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, `a\"b`, tok.Literal)
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.Next()
	require.Equal(t, token.ILLEGAL, tok.Type)
	require.Equal(t, "abc", tok.Literal)
}

func TestUnknownByte(t *testing.T) {
	l := New("x ? y")
	l.Next()
	tok := l.Next()
	require.Equal(t, token.ILLEGAL, tok.Type)
	require.Equal(t, "?", tok.Literal)
	require.Equal(t, 1, tok.Pos.Line)
	require.Equal(t, 3, tok.Pos.Column)
}

func TestInlineBatchSingleBrace(t *testing.T) {
	l := New(`batch { @echo hi }`)
	tok := l.Next()
	require.Equal(t, token.INLINE_BATCH, tok.Type)
	require.Equal(t, " @echo hi ", tok.Literal)
	require.Equal(t, token.EOF, l.Next().Type)
}

func TestInlineBatchDoubleBraceAllowsNested(t *testing.T) {
	l := New(`batch {{ if (1) { @echo x } }}`)
	tok := l.Next()
	require.Equal(t, token.INLINE_BATCH, tok.Type)
	require.Equal(t, " if (1) { @echo x } ", tok.Literal)
}

func TestInlineBatchTruncatedAtEOF(t *testing.T) {
	l := New(`batch { unterminated`)
	tok := l.Next()
	require.Equal(t, token.INLINE_BATCH, tok.Type)
	require.Equal(t, " unterminated", tok.Literal)
}

func TestBatchWithoutBraceIsIdentifier(t *testing.T) {
	l := New(`batch := 1;`)
	tok := l.Next()
	require.Equal(t, token.IDENT, tok.Type)
	require.Equal(t, "batch", tok.Literal)
}

func TestLineColumnTracking(t *testing.T) {
	l := New("x\ny")
	first := l.Next()
	require.Equal(t, 1, first.Pos.Line)
	second := l.Next()
	require.Equal(t, 2, second.Pos.Line)
	require.Equal(t, 1, second.Pos.Column)
}
