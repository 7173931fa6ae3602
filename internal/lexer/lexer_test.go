/*
File    : easyscript/internal/lexer/lexer_test.go
Table-driven style grounded on lexer/lexer_test.go in go-mix, adapted to
use testify assertions as in the teacher's own test files.
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/easyscript/internal/errs"
	"github.com/akashmaji946/easyscript/internal/token"
)

func TestTokenize_Punctuation(t *testing.T) {
	tokens, err := Tokenize("(){}[],.:;+-*/%^")
	require.NoError(t, err)

	want := []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.DOT, token.COLON,
		token.SEMI, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.PERCENT, token.CARET, token.EOF,
	}
	require.Len(t, tokens, len(want))
	for i, w := range want {
		require.Equalf(t, w, tokens[i].Type, "token %d", i)
	}
}

func TestTokenize_CompoundOperators(t *testing.T) {
	tokens, err := Tokenize("== != <= >= << >> && ||")
	require.NoError(t, err)

	want := []token.Type{
		token.EQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR,
		token.LOGIC_AND, token.LOGIC_OR, token.EOF,
	}
	require.Len(t, tokens, len(want))
	for i, w := range want {
		require.Equalf(t, w, tokens[i].Type, "token %d", i)
	}
}

func TestTokenize_BareAmpAndPipeAreBitwise(t *testing.T) {
	tokens, err := Tokenize("a & b | c")
	require.NoError(t, err)
	require.Equal(t, token.AMP, tokens[1].Type)
	require.Equal(t, token.PIPE, tokens[3].Type)
}

func TestTokenize_BareBangIsError(t *testing.T) {
	_, err := Tokenize("!a")
	require.Error(t, err)
	var lexErr *errs.LexerError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := Tokenize("if else for in fun let true false nil")
	require.NoError(t, err)
	want := []token.Type{
		token.IF, token.ELSE, token.FOR, token.IN, token.FUN, token.LET,
		token.TRUE, token.FALSE, token.NIL, token.EOF,
	}
	for i, w := range want {
		require.Equalf(t, w, tokens[i].Type, "token %d", i)
	}
}

func TestTokenize_Identifier(t *testing.T) {
	tokens, err := Tokenize("foo_bar2")
	require.NoError(t, err)
	require.Equal(t, token.IDENT, tokens[0].Type)
	require.Equal(t, "foo_bar2", tokens[0].Literal)
}

func TestTokenize_NumberLiteral(t *testing.T) {
	tokens, err := Tokenize("42 3.14 0.5")
	require.NoError(t, err)
	require.Equal(t, "42", tokens[0].Literal)
	require.Equal(t, "3.14", tokens[1].Literal)
	require.Equal(t, "0.5", tokens[2].Literal)
}

func TestTokenize_StringLiteral(t *testing.T) {
	tokens, err := Tokenize(`"hello world"`)
	require.NoError(t, err)
	require.Equal(t, token.STRING, tokens[0].Type)
	require.Equal(t, "hello world", tokens[0].Literal)
}

func TestTokenize_UnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"hello`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unterminated")
}

func TestTokenize_StringNewlineIsUnterminated(t *testing.T) {
	_, err := Tokenize("\"ab\ncd\"")
	require.Error(t, err)
}

func TestTokenize_LineComment(t *testing.T) {
	tokens, err := Tokenize("let x = 1 // comment\nlet y = 2")
	require.NoError(t, err)
	// two `let` statements' worth of tokens, comment produces nothing
	count := 0
	for _, tok := range tokens {
		if tok.Type == token.LET {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestTokenize_BlockCommentIsError(t *testing.T) {
	_, err := Tokenize("/* nope */")
	require.Error(t, err)
}

func TestTokenize_LineColumnTracking(t *testing.T) {
	tokens, err := Tokenize("a\nb")
	require.NoError(t, err)
	require.Equal(t, 1, tokens[0].Line)
	require.Equal(t, 2, tokens[1].Line)
	require.Equal(t, 1, tokens[1].Column)
}

func TestTokenize_RoundTripConcatenation(t *testing.T) {
	a, err := Tokenize("let x = 1;")
	require.NoError(t, err)
	b, err := Tokenize("let y = 2;")
	require.NoError(t, err)
	combined, err := Tokenize("let x = 1;let y = 2;")
	require.NoError(t, err)

	// concatenation modulo the EOF token in the middle
	var want []token.Type
	for _, tok := range a[:len(a)-1] {
		want = append(want, tok.Type)
	}
	for _, tok := range b {
		want = append(want, tok.Type)
	}
	require.Len(t, combined, len(want))
	for i, w := range want {
		require.Equalf(t, w, combined[i].Type, "token %d", i)
	}
}
