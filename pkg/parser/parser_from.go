package parser

import (
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/token"
)

// parseFromClause parses the entry following FROM: a comma-joined list of
// table/subquery/join items. A bare comma in FROM is treated as an implicit
// CROSS JOIN, matching standard SQL comma-join semantics.
func (p *Parser) parseFromClause() ast.FromItem {
	item := p.parseJoinedItem()
	for p.at(token.COMMA) {
		start := item.Info().Span.Start
		p.advance()
		right := p.parseJoinedItem()
		item = &ast.JoinExpr{
			NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)},
			Left:     item, Right: right,
			Type: p.d.JoinKeywordType([]string{"cross", "join"}), Keywords: []string{"cross", "join"},
		}
	}
	return item
}

// parseJoinedItem parses one base item followed by zero or more JOIN clauses.
func (p *Parser) parseJoinedItem() ast.FromItem {
	start := p.cur.Span.Start
	left := p.parseFromPrimary()
	for {
		kws, joinType, ok := p.tryParseJoinKeywords()
		if !ok {
			return left
		}
		right := p.parseFromPrimary()
		join := &ast.JoinExpr{Left: left, Right: right, Type: joinType, Keywords: kws}
		if p.at(token.ON) {
			p.advance()
			join.On = p.parseExpr()
		} else if p.at(token.USING) {
			p.advance()
			p.expect(token.LPAREN)
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				if p.at(token.IDENT) {
					join.Using = append(join.Using, p.cur.Literal)
					p.advance()
				}
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		join.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
		left = join
	}
}

// tryParseJoinKeywords consumes a join keyword sequence (LEFT OUTER JOIN,
// CROSS JOIN, NATURAL JOIN, ...) if present, returning its lowercased
// keyword spelling and resolved JoinType.
func (p *Parser) tryParseJoinKeywords() ([]string, dialect.JoinType, bool) {
	var kws []string
	consume := func(t token.Type, word string) bool {
		if p.at(t) {
			kws = append(kws, word)
			p.advance()
			return true
		}
		return false
	}

	switch {
	case consume(token.JOIN, "join"):
	case consume(token.INNER, "inner"):
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.LEFT, "left"):
		consume(token.OUTER, "outer")
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.RIGHT, "right"):
		consume(token.OUTER, "outer")
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.FULL, "full"):
		consume(token.OUTER, "outer")
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.CROSS, "cross"):
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.NATURAL, "natural"):
		p.expect(token.JOIN)
		kws = append(kws, "join")
	case consume(token.ASOF, "asof"):
		p.expect(token.JOIN)
		kws = append(kws, "join")
	default:
		return nil, dialect.JoinInner, false
	}
	return kws, p.d.JoinKeywordType(kws), true
}

func (p *Parser) parseFromPrimary() ast.FromItem {
	start := p.cur.Span.Start
	if p.at(token.LPAREN) {
		p.advance()
		sub := p.parseSelectOrSetOp()
		p.expect(token.RPAREN)
		alias := p.parseOptionalAlias()
		return &ast.SubqueryRef{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Query: asSelect(sub), Alias: alias}
	}
	name := p.parseObjectName()
	alias := p.parseOptionalAlias()
	return &ast.TableRef{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Name: name, Alias: alias}
}

func (p *Parser) parseObjectName() *ast.ObjectName {
	start := p.cur.Span.Start
	var parts []ast.Ident
	for p.at(token.IDENT) {
		parts = append(parts, ast.Ident{NodeInfo: ast.NodeInfo{Span: p.cur.Span}, Name: p.cur.Literal})
		p.advance()
		if p.at(token.DOT) {
			p.advance()
			continue
		}
		break
	}
	if len(parts) == 0 {
		p.errorf("expected a name, found %s %q", p.cur.Type, p.cur.Literal)
	}
	return &ast.ObjectName{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Parts: parts}
}

// parseOptionalAlias consumes an optional [AS] alias, refusing to treat a
// following clause keyword (WHERE, JOIN, ...) as an alias.
func (p *Parser) parseOptionalAlias() string {
	if p.at(token.AS) {
		p.advance()
		if p.at(token.IDENT) {
			name := p.cur.Literal
			p.advance()
			return name
		}
		p.errorf("expected alias after AS, found %s %q", p.cur.Type, p.cur.Literal)
		return ""
	}
	if p.at(token.IDENT) && !p.isReservedAliasBreaker() {
		name := p.cur.Literal
		p.advance()
		return name
	}
	return ""
}

// isReservedAliasBreaker reports whether the current IDENT token is actually
// a dialect keyword the lexer didn't classify (none currently, kept for
// clarity and as the hook dialect-specific alias exceptions would use).
func (p *Parser) isReservedAliasBreaker() bool {
	return false
}
