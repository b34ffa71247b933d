package splitter

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/stretchr/testify/assert"
)

func TestSplit_MultipleStatements(t *testing.T) {
	chunks, issues := Split("SELECT 1; SELECT 2;", ansi.New(), "f.sql")
	assert.Empty(t, issues)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "SELECT 1", chunks[0].Text)
	assert.Equal(t, "SELECT 2", chunks[1].Text)
	assert.Equal(t, "f.sql", chunks[0].SourceName)
}

func TestSplit_TrailingStatementWithoutSemicolon(t *testing.T) {
	chunks, issues := Split("SELECT 1; SELECT 2", ansi.New(), "")
	assert.Empty(t, issues)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "SELECT 2", chunks[1].Text)
}

func TestSplit_SemicolonInsideStringLiteralIsNotASplitPoint(t *testing.T) {
	chunks, issues := Split(`SELECT 'a;b'; SELECT 2;`, ansi.New(), "")
	assert.Empty(t, issues)
	assert.Len(t, chunks, 2)
	assert.Equal(t, `SELECT 'a;b'`, chunks[0].Text)
}

func TestSplit_SemicolonInsideQuotedIdentifierIsNotASplitPoint(t *testing.T) {
	chunks, issues := Split(`SELECT "weird;name" FROM t;`, ansi.New(), "")
	assert.Empty(t, issues)
	assert.Len(t, chunks, 1)
}

func TestSplit_SemicolonInsideCommentIsNotASplitPoint(t *testing.T) {
	chunks, issues := Split("SELECT 1 -- comment; with semicolon\n;", ansi.New(), "")
	assert.Empty(t, issues)
	assert.Len(t, chunks, 1)
}

func TestSplit_UnterminatedStringLiteral(t *testing.T) {
	chunks, issues := Split(`SELECT 'unterminated`, ansi.New(), "")
	assert.Len(t, issues, 1)
	assert.Equal(t, issue.CodeUnterminatedLiteral, issues[0].Code)
	assert.Len(t, chunks, 1) // best-effort chunk still emitted
}

func TestSplit_UnterminatedBlockComment(t *testing.T) {
	chunks, issues := Split("SELECT 1 /* oops", ansi.New(), "")
	assert.Len(t, issues, 1)
	assert.Equal(t, issue.CodeUnterminatedLiteral, issues[0].Code)
	assert.Len(t, chunks, 1)
}

func TestSplit_EmptyInput(t *testing.T) {
	chunks, issues := Split("   \n  ", ansi.New(), "")
	assert.Empty(t, issues)
	assert.Empty(t, chunks)
}
