// Package parser recursive-descent parses one statement's token stream into
// an ast.Statement, recovering from syntax errors by resynchronizing at the
// next clause boundary instead of aborting the whole statement.
package parser

import (
	"fmt"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/lexer"
	"github.com/sqllineage/analyzer/pkg/span"
	"github.com/sqllineage/analyzer/pkg/token"
)

// Parser holds state for parsing a single statement's text.
type Parser struct {
	d              *dialect.Dialect
	lex            *lexer.Lexer
	cur, next      token.Token
	prevEnd        int
	statementIndex *int
	issues         []issue.Issue
	text           []byte
}

// New constructs a Parser over text for dialect d. statementIndex, when
// non-nil, is attached to every issue this parser raises.
func New(text string, d *dialect.Dialect, statementIndex *int) *Parser {
	p := &Parser{d: d, lex: lexer.New(text, d), statementIndex: statementIndex, text: []byte(text)}
	p.advance()
	p.advance()
	return p
}

// Issues returns every PARSE_ERROR issue raised while parsing.
func (p *Parser) Issues() []issue.Issue { return p.issues }

func (p *Parser) advance() {
	p.prevEnd = p.cur.Span.End
	p.cur = p.next
	p.next = p.lex.Next()
}

func (p *Parser) at(t token.Type) bool     { return p.cur.Type == t }
func (p *Parser) nextAt(t token.Type) bool { return p.next.Type == t }

func (p *Parser) atKeyword(lit string) bool {
	return p.cur.Type == token.IDENT && equalFold(p.cur.Literal, lit)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (p *Parser) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sp := p.cur.Span
	p.issues = append(p.issues, issue.New(issue.CodeParseError, msg, p.statementIndex, &sp))
}

// expect consumes the current token if it matches t, otherwise records a
// parse error and returns false without advancing, letting the caller decide
// how to resynchronize.
func (p *Parser) expect(t token.Type) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	p.errorf("expected %s, found %s %q", t, p.cur.Type, p.cur.Literal)
	return false
}

// clauseBoundaries are the token types syncToClauseBoundary stops at so a
// malformed clause doesn't poison the rest of the statement.
var clauseBoundaries = map[token.Type]bool{
	token.FROM: true, token.WHERE: true, token.GROUP: true, token.HAVING: true,
	token.QUALIFY: true, token.ORDER: true, token.LIMIT: true, token.UNION: true,
	token.INTERSECT: true, token.EXCEPT: true, token.EOF: true, token.SEMI: true,
}

func (p *Parser) syncToClauseBoundary() {
	for !clauseBoundaries[p.cur.Type] {
		p.advance()
	}
}

// spanFrom produces a span.Span covering from start to the end of the token
// just consumed.
func (p *Parser) spanFrom(start int) span.Span {
	return span.Span{Start: start, End: p.prevEnd}
}

// ParseStatement parses one full statement (already isolated by the
// splitter) and returns its AST root; PARSE_ERROR issues raised along the
// way are collected on the parser and read back through Issues.
func (p *Parser) ParseStatement() ast.Statement {
	start := p.cur.Span.Start

	switch {
	case p.at(token.WITH):
		return p.parseSelectWithCTE()
	case p.at(token.SELECT):
		return p.parseSelectOrSetOp()
	case p.at(token.INSERT):
		return p.parseInsert()
	case p.at(token.UPDATE):
		return p.parseUpdate()
	case p.at(token.DELETE):
		return p.parseDelete()
	case p.at(token.CREATE):
		return p.parseCreate()
	case p.at(token.MERGE):
		return p.parseMerge()
	case p.at(token.COPY):
		return p.parseCopy()
	default:
		p.errorf("unrecognized statement starting at %q", p.cur.Literal)
		end := len(p.text)
		for !p.at(token.EOF) {
			p.advance()
		}
		return &ast.OtherStmt{
			NodeInfo: ast.NodeInfo{Span: span.Span{Start: start, End: end}},
			Text:     string(p.text),
		}
	}
}
