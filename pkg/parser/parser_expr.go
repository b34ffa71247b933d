package parser

import (
	"strings"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/token"
)

// parseExpr parses a full boolean/value expression, top precedence OR.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseAnd()
	for p.at(token.OR) {
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "OR", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseNot()
	for p.at(token.AND) {
		p.advance()
		right := p.parseNot()
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "AND", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(token.NOT) {
		start := p.cur.Span.Start
		p.advance()
		operand := p.parseNot()
		return &ast.UnaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "NOT", Operand: operand}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseConcat()
	for {
		switch {
		case p.at(token.EQ) || p.at(token.NE) || p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE):
			op := p.cur.Type.String()
			p.advance()
			right := p.parseConcat()
			left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Left: left, Right: right}
		case p.at(token.LIKE) || p.at(token.ILIKE):
			op := p.cur.Type.String()
			p.advance()
			right := p.parseConcat()
			left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Left: left, Right: right}
		case p.at(token.IS):
			p.advance()
			op := "IS"
			if p.at(token.NOT) {
				p.advance()
				op = "IS NOT"
			}
			var right ast.Expr
			if p.at(token.NULL) {
				sp := p.cur.Span
				p.advance()
				right = &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralNull, Value: "NULL"}
			} else {
				right = p.parseConcat()
			}
			left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Left: left, Right: right}
		case p.at(token.BETWEEN):
			p.advance()
			lo := p.parseConcat()
			p.expect(token.AND)
			hi := p.parseConcat()
			left = &ast.BinaryExpr{
				NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "BETWEEN", Left: left,
				Right: &ast.BinaryExpr{Op: "AND", Left: lo, Right: hi},
			}
		case p.at(token.IN):
			p.advance()
			right := p.parseInList()
			left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "IN", Left: left, Right: right}
		default:
			return left
		}
	}
}

func (p *Parser) parseInList() ast.Expr {
	start := p.cur.Span.Start
	p.expect(token.LPAREN)
	if p.at(token.SELECT) || p.at(token.WITH) {
		sub := p.parseSelectOrSetOp()
		p.expect(token.RPAREN)
		return &ast.SubqueryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Query: asSelect(sub)}
	}
	var items []ast.Expr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		items = append(items, p.parseExpr())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return &ast.FuncCall{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Name: "__in_list", Args: items}
}

func (p *Parser) parseConcat() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseAdd()
	for p.at(token.DPIPE) {
		p.advance()
		right := p.parseAdd()
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdd() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseMul()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.cur.Type.String()
		p.advance()
		right := p.parseMul()
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	start := p.cur.Span.Start
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.MOD) {
		op := p.cur.Type.String()
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.PLUS) || p.at(token.MINUS) {
		start := p.cur.Span.Start
		op := p.cur.Type.String()
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Op: op, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur.Span.Start
	left := p.parsePrimary()
	for p.at(token.DCOLON) {
		p.advance()
		dt := p.parseTypeName()
		left = &ast.CastExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Operand: left, DataType: dt}
	}
	return left
}

func (p *Parser) parseTypeName() string {
	var sb strings.Builder
	for p.at(token.IDENT) {
		sb.WriteString(p.cur.Literal)
		p.advance()
		if p.at(token.LPAREN) {
			p.advance()
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				p.advance()
			}
			p.expect(token.RPAREN)
		}
		if p.at(token.DOT) {
			sb.WriteString(".")
			p.advance()
			continue
		}
		break
	}
	return sb.String()
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur.Span.Start
	switch {
	case p.at(token.NUMBER):
		v := p.cur.Literal
		sp := p.cur.Span
		p.advance()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralNumber, Value: v}
	case p.at(token.STRING):
		v := p.cur.Literal
		sp := p.cur.Span
		p.advance()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralString, Value: v}
	case p.at(token.TRUE) || p.at(token.FALSE):
		v := p.cur.Type.String()
		sp := p.cur.Span
		p.advance()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralBool, Value: v}
	case p.at(token.NULL):
		sp := p.cur.Span
		p.advance()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralNull, Value: "NULL"}
	case p.at(token.STAR):
		sp := p.cur.Span
		p.advance()
		return p.parseStarModifiers(&ast.StarExpr{NodeInfo: ast.NodeInfo{Span: sp}})
	case p.at(token.CASE):
		return p.parseCase()
	case p.at(token.CAST):
		return p.parseCast()
	case p.at(token.LPAREN):
		p.advance()
		if p.at(token.SELECT) || p.at(token.WITH) {
			sub := p.parseSelectOrSetOp()
			p.expect(token.RPAREN)
			return &ast.SubqueryExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Query: asSelect(sub)}
		}
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	case p.at(token.EXISTS):
		p.advance()
		p.expect(token.LPAREN)
		sub := p.parseSelectOrSetOp()
		p.expect(token.RPAREN)
		return &ast.FuncCall{
			NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Name: "EXISTS",
			Args: []ast.Expr{&ast.SubqueryExpr{Query: asSelect(sub)}},
		}
	case p.at(token.IDENT):
		return p.parseIdentOrCallOrColumn()
	default:
		p.errorf("unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
		sp := p.cur.Span
		p.advance()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: sp}, Kind: ast.LiteralNull, Value: ""}
	}
}

func (p *Parser) parseStarModifiers(star *ast.StarExpr) ast.Expr {
	if p.d.SupportsStarModifiers {
		for p.atKeyword("except") && p.d.SupportsStarModifiers {
			p.advance()
			p.expect(token.LPAREN)
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				if p.at(token.IDENT) {
					star.Except = append(star.Except, p.cur.Literal)
					p.advance()
				}
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		for p.atKeyword("replace") {
			p.advance()
			p.expect(token.LPAREN)
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				e := p.parseExpr()
				alias := ""
				if p.at(token.AS) {
					p.advance()
				}
				if p.at(token.IDENT) {
					alias = p.cur.Literal
					p.advance()
				}
				star.Replace = append(star.Replace, &ast.AliasedExpr{Expr: e, Alias: alias})
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
	}
	return star
}

func (p *Parser) parseCase() ast.Expr {
	start := p.cur.Span.Start
	p.advance() // CASE
	c := &ast.CaseExpr{}
	if !p.at(token.WHEN) {
		c.Operand = p.parseExpr()
	}
	for p.at(token.WHEN) {
		p.advance()
		cond := p.parseExpr()
		p.expect(token.THEN)
		then := p.parseExpr()
		c.Whens = append(c.Whens, ast.CaseWhen{Cond: cond, Then: then})
	}
	if p.at(token.ELSE) {
		p.advance()
		c.Else = p.parseExpr()
	}
	p.expect(token.END)
	c.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return c
}

func (p *Parser) parseCast() ast.Expr {
	start := p.cur.Span.Start
	p.advance() // CAST
	p.expect(token.LPAREN)
	operand := p.parseExpr()
	p.expect(token.AS)
	dt := p.parseTypeName()
	p.expect(token.RPAREN)
	return &ast.CastExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Operand: operand, DataType: dt}
}

// parseIdentOrCallOrColumn parses a dotted identifier chain and decides,
// based on the following token, whether it is a function call or a column
// reference (possibly qualified, possibly ending in a bare or qualified *).
func (p *Parser) parseIdentOrCallOrColumn() ast.Expr {
	start := p.cur.Span.Start
	var parts []ast.Ident
	for {
		parts = append(parts, ast.Ident{NodeInfo: ast.NodeInfo{Span: p.cur.Span}, Name: p.cur.Literal})
		p.advance()
		if p.at(token.DOT) {
			p.advance()
			if p.at(token.STAR) {
				sp := p.cur.Span
				p.advance()
				qualifier := &ast.ObjectName{Parts: parts}
				return p.parseStarModifiers(&ast.StarExpr{NodeInfo: ast.NodeInfo{Span: sp}, Qualifier: qualifier})
			}
			continue
		}
		break
	}

	if p.at(token.LPAREN) {
		return p.parseFuncCallTail(parts, start)
	}

	if len(parts) == 1 {
		return &ast.ColumnRef{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Name: parts[0]}
	}
	name := parts[len(parts)-1]
	qualifier := &ast.ObjectName{Parts: parts[:len(parts)-1]}
	return &ast.ColumnRef{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Qualifier: qualifier, Name: name}
}

func (p *Parser) parseFuncCallTail(nameParts []ast.Ident, start int) ast.Expr {
	name := nameParts[len(nameParts)-1].Name
	p.advance() // (
	call := &ast.FuncCall{}
	if p.at(token.STAR) {
		call.Star = true
		p.advance()
	} else {
		if p.at(token.DISTINCT) {
			call.Distinct = true
			p.advance()
		}
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			call.Args = append(call.Args, p.parseExpr())
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	call.Name = name

	if p.atKeyword("filter") {
		p.advance()
		p.expect(token.LPAREN)
		p.expect(token.WHERE)
		call.Filter = p.parseExpr()
		p.expect(token.RPAREN)
	}
	if p.at(token.OVER) {
		call.Over = p.parseWindowSpec()
	}
	call.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return call
}

func (p *Parser) parseWindowSpec() *ast.WindowSpec {
	start := p.cur.Span.Start
	p.advance() // OVER
	p.expect(token.LPAREN)
	spec := &ast.WindowSpec{}
	if p.at(token.PARTITION) {
		p.advance()
		p.expect(token.BY)
		spec.PartitionBy = append(spec.PartitionBy, p.parseExpr())
		for p.at(token.COMMA) {
			p.advance()
			spec.PartitionBy = append(spec.PartitionBy, p.parseExpr())
		}
	}
	if p.at(token.ORDER) {
		spec.OrderBy = p.parseOrderByList()
	}
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		p.advance()
	}
	p.expect(token.RPAREN)
	spec.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return spec
}

// asSelect unwraps a Statement known to be a *ast.SelectStmt (subqueries are
// always parsed via parseSelectOrSetOp, whose result is always that type).
func asSelect(s ast.Statement) *ast.SelectStmt {
	if sel, ok := s.(*ast.SelectStmt); ok {
		return sel
	}
	return &ast.SelectStmt{}
}
