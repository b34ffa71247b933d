// Package lexer tokenizes SQL source text into a token.Token stream,
// gated by a dialect's identifier quoting, string-literal flavors, and
// numeric literal forms.
package lexer

import (
	"strings"

	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/span"
	"github.com/sqllineage/analyzer/pkg/token"
)

// Lexer scans src byte by byte, dialect-aware for quoting and literals.
type Lexer struct {
	src     []byte
	d       *dialect.Dialect
	pos     int
	comments []token.Comment
}

// New returns a Lexer over src for dialect d.
func New(src string, d *dialect.Dialect) *Lexer {
	return &Lexer{src: []byte(src), d: d}
}

// Comments returns every comment collected since the last call to Next that
// returned it; callers wanting leading-comment attachment should drain this
// after each token.
func (l *Lexer) Comments() []token.Comment {
	c := l.comments
	l.comments = nil
	return c
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(string(l.src[l.pos:]), s)
}

// Next scans and returns the next token, skipping whitespace and comments
// (comments are retained in l.comments, not discarded).
func (l *Lexer) Next() token.Token {
	l.skipTrivia()
	start := l.pos
	if l.eof() {
		return token.Token{Type: token.EOF, Span: span.Span{Start: start, End: start}}
	}

	c := l.peek()
	switch {
	case isIdentStart(c):
		return l.scanIdentOrKeyword()
	case c == l.quoteByte(l.d.Identifiers.Quote):
		return l.scanQuotedIdent()
	case isDigit(c):
		return l.scanNumber()
	case c == '\'':
		return l.scanStringLiteral("", "'")
	default:
		return l.scanOperatorOrLiteralPrefix()
	}
}

func (l *Lexer) quoteByte(q string) byte {
	if q == "" {
		return 0
	}
	return q[0]
}

func (l *Lexer) skipTrivia() {
	for !l.eof() {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '-' && l.peekAt(1) == '-':
			l.scanLineComment()
		case c == '/' && l.peekAt(1) == '*':
			l.scanBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) scanLineComment() {
	start := l.pos
	for !l.eof() && l.peek() != '\n' {
		l.pos++
	}
	l.comments = append(l.comments, token.Comment{
		Kind: token.LineComment,
		Text: string(l.src[start:l.pos]),
		Span: span.Span{Start: start, End: l.pos},
	})
}

func (l *Lexer) scanBlockComment() {
	start := l.pos
	l.pos += 2
	depth := 1
	for !l.eof() && depth > 0 {
		if l.hasPrefix("/*") {
			depth++
			l.pos += 2
			continue
		}
		if l.hasPrefix("*/") {
			depth--
			l.pos += 2
			continue
		}
		l.pos++
	}
	l.comments = append(l.comments, token.Comment{
		Kind: token.BlockComment,
		Text: string(l.src[start:min(l.pos, len(l.src))]),
		Span: span.Span{Start: start, End: l.pos},
	})
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scanIdentOrKeyword() token.Token {
	start := l.pos
	for !l.eof() && isIdentPart(l.peek()) {
		l.pos++
	}
	// Check for a recognized string-literal prefix, e.g. Postgres E'...'
	// or BigQuery r"..."/b"...".
	word := string(l.src[start:l.pos])
	if !l.eof() && (l.peek() == '\'' || l.peek() == '"') {
		for _, f := range l.d.StringLiteralFlavors {
			if f.Prefix != "" && strings.EqualFold(f.Prefix, word) {
				return l.scanStringLiteral(f.Prefix, string(l.peek()))
			}
		}
	}
	lit := string(l.src[start:l.pos])
	t := token.LookupIdent(strings.ToLower(lit))
	return token.Token{Type: t, Literal: lit, Span: span.Span{Start: start, End: l.pos}}
}

func (l *Lexer) scanQuotedIdent() token.Token {
	start := l.pos
	quote := l.d.Identifiers.Quote
	end := l.d.Identifiers.QuoteEnd
	l.pos += len(quote)
	var sb strings.Builder
	for !l.eof() {
		if l.hasPrefix(l.d.Identifiers.Escape) && l.d.Identifiers.Escape != "" {
			sb.WriteString(end)
			l.pos += len(l.d.Identifiers.Escape)
			continue
		}
		if l.hasPrefix(end) {
			l.pos += len(end)
			return token.Token{Type: token.IDENT, Literal: sb.String(), Span: span.Span{Start: start, End: l.pos}}
		}
		sb.WriteByte(l.peek())
		l.pos++
	}
	// Unterminated: the splitter stage is responsible for raising
	// UNTERMINATED_LITERAL; the lexer just returns what it scanned.
	return token.Token{Type: token.IDENT, Literal: sb.String(), Span: span.Span{Start: start, End: l.pos}}
}

func (l *Lexer) scanNumber() token.Token {
	start := l.pos
	if l.d.NumericLiteralForms.HexLiterals && l.hasPrefix("0x") {
		l.pos += 2
		for !l.eof() && isHex(l.peek()) {
			l.pos++
		}
		return token.Token{Type: token.NUMBER, Literal: string(l.src[start:l.pos]), Span: span.Span{Start: start, End: l.pos}}
	}
	for !l.eof() && (isDigit(l.peek()) || (l.peek() == '_' && l.d.NumericLiteralForms.UnderscoreSeparators)) {
		l.pos++
	}
	if !l.eof() && l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.pos++
		for !l.eof() && isDigit(l.peek()) {
			l.pos++
		}
	}
	if l.d.NumericLiteralForms.ExponentForms && !l.eof() && (l.peek() == 'e' || l.peek() == 'E') {
		save := l.pos
		l.pos++
		if !l.eof() && (l.peek() == '+' || l.peek() == '-') {
			l.pos++
		}
		if !l.eof() && isDigit(l.peek()) {
			for !l.eof() && isDigit(l.peek()) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return token.Token{Type: token.NUMBER, Literal: string(l.src[start:l.pos]), Span: span.Span{Start: start, End: l.pos}}
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) scanStringLiteral(prefix, quote string) token.Token {
	start := l.pos
	l.pos += len(quote)
	for !l.eof() {
		if quote == "'" && l.peek() == '\'' && l.peekAt(1) == '\'' {
			l.pos += 2
			continue
		}
		if l.hasPrefix(quote) {
			l.pos += len(quote)
			return token.Token{Type: token.STRING, Literal: string(l.src[start:l.pos]), Span: span.Span{Start: start, End: l.pos}}
		}
		l.pos++
	}
	// Unterminated; surfaced by the splitter stage.
	return token.Token{Type: token.STRING, Literal: string(l.src[start:l.pos]), Span: span.Span{Start: start, End: l.pos}}
}

func (l *Lexer) scanOperatorOrLiteralPrefix() token.Token {
	start := l.pos
	c := l.peek()
	two := string(l.src[l.pos:min(l.pos+2, len(l.src))])
	switch two {
	case "::":
		l.pos += 2
		return token.Token{Type: token.DCOLON, Literal: "::", Span: span.Span{Start: start, End: l.pos}}
	case "||":
		l.pos += 2
		return token.Token{Type: token.DPIPE, Literal: "||", Span: span.Span{Start: start, End: l.pos}}
	case "<=":
		l.pos += 2
		return token.Token{Type: token.LE, Literal: "<=", Span: span.Span{Start: start, End: l.pos}}
	case ">=":
		l.pos += 2
		return token.Token{Type: token.GE, Literal: ">=", Span: span.Span{Start: start, End: l.pos}}
	case "<>":
		l.pos += 2
		return token.Token{Type: token.NE, Literal: "<>", Span: span.Span{Start: start, End: l.pos}}
	case "!=":
		l.pos += 2
		return token.Token{Type: token.NE, Literal: "!=", Span: span.Span{Start: start, End: l.pos}}
	}
	l.pos++
	switch c {
	case '+':
		return token.Token{Type: token.PLUS, Literal: "+", Span: span.Span{Start: start, End: l.pos}}
	case '-':
		return token.Token{Type: token.MINUS, Literal: "-", Span: span.Span{Start: start, End: l.pos}}
	case '*':
		return token.Token{Type: token.STAR, Literal: "*", Span: span.Span{Start: start, End: l.pos}}
	case '/':
		return token.Token{Type: token.SLASH, Literal: "/", Span: span.Span{Start: start, End: l.pos}}
	case '%':
		return token.Token{Type: token.MOD, Literal: "%", Span: span.Span{Start: start, End: l.pos}}
	case '=':
		return token.Token{Type: token.EQ, Literal: "=", Span: span.Span{Start: start, End: l.pos}}
	case '<':
		return token.Token{Type: token.LT, Literal: "<", Span: span.Span{Start: start, End: l.pos}}
	case '>':
		return token.Token{Type: token.GT, Literal: ">", Span: span.Span{Start: start, End: l.pos}}
	case '.':
		return token.Token{Type: token.DOT, Literal: ".", Span: span.Span{Start: start, End: l.pos}}
	case ',':
		return token.Token{Type: token.COMMA, Literal: ",", Span: span.Span{Start: start, End: l.pos}}
	case '(':
		return token.Token{Type: token.LPAREN, Literal: "(", Span: span.Span{Start: start, End: l.pos}}
	case ')':
		return token.Token{Type: token.RPAREN, Literal: ")", Span: span.Span{Start: start, End: l.pos}}
	case '[':
		return token.Token{Type: token.LBRACKET, Literal: "[", Span: span.Span{Start: start, End: l.pos}}
	case ']':
		return token.Token{Type: token.RBRACKET, Literal: "]", Span: span.Span{Start: start, End: l.pos}}
	case ':':
		return token.Token{Type: token.COLON, Literal: ":", Span: span.Span{Start: start, End: l.pos}}
	case ';':
		return token.Token{Type: token.SEMI, Literal: ";", Span: span.Span{Start: start, End: l.pos}}
	default:
		return token.Token{Type: token.ILLEGAL, Literal: string(c), Span: span.Span{Start: start, End: l.pos}}
	}
}
