package lexer

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
	"github.com/sqllineage/analyzer/pkg/token"
	"github.com/stretchr/testify/assert"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, ansi.New())
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNext_KeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "SELECT a, b FROM orders")
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []token.Type{
		token.SELECT, token.IDENT, token.COMMA, token.IDENT, token.FROM, token.IDENT, token.EOF,
	}, types)
}

func TestNext_QuotedIdentifier(t *testing.T) {
	toks := scanAll(t, `"my col"`)
	assert.Equal(t, token.IDENT, toks[0].Type)
	assert.Equal(t, "my col", toks[0].Literal)
}

func TestNext_QuotedIdentifierEscape(t *testing.T) {
	toks := scanAll(t, `"a""b"`)
	assert.Equal(t, token.IDENT, toks[0].Type)
	assert.Equal(t, `a"b`, toks[0].Literal)
}

func TestNext_StringLiteral(t *testing.T) {
	toks := scanAll(t, `'it''s here'`)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, `'it''s here'`, toks[0].Literal)
}

func TestNext_Numbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 1e10")
	assert.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, "42", toks[0].Literal)
	assert.Equal(t, "3.14", toks[1].Literal)
	assert.Equal(t, "1e10", toks[2].Literal)
}

func TestNext_Operators(t *testing.T) {
	toks := scanAll(t, "a <= b AND c != d")
	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, token.LE)
	assert.Contains(t, types, token.NE)
	assert.Contains(t, types, token.AND)
}

func TestComments_CollectedSeparately(t *testing.T) {
	l := New("-- a comment\nSELECT 1", ansi.New())
	tok := l.Next()
	assert.Equal(t, token.SELECT, tok.Type)
	comments := l.Comments()
	assert.Len(t, comments, 1)
	assert.Equal(t, token.LineComment, comments[0].Kind)
}

func TestNext_BlockCommentNested(t *testing.T) {
	l := New("/* outer /* inner */ still outer */ SELECT", ansi.New())
	tok := l.Next()
	assert.Equal(t, token.SELECT, tok.Type)
}
