package parser

import (
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/token"
)

// parseSelectWithCTE parses a WITH [RECURSIVE] cte [, ...] prefix and
// attaches it to the SELECT/set-operation that follows.
func (p *Parser) parseSelectWithCTE() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // WITH
	with := &ast.WithClause{}
	if p.at(token.RECURSIVE) {
		with.Recursive = true
		p.advance()
	}
	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	with.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}

	stmt := p.parseSelectOrSetOp()
	if sel, ok := stmt.(*ast.SelectStmt); ok {
		sel.With = with
		sel.Span.Start = start
		return sel
	}
	return stmt
}

func (p *Parser) parseCTE() ast.CTE {
	start := p.cur.Span.Start
	cte := ast.CTE{}
	if p.at(token.IDENT) {
		cte.Name = p.cur.Literal
		p.advance()
	} else {
		p.errorf("expected CTE name, found %s %q", p.cur.Type, p.cur.Literal)
	}
	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				cte.ColumnNames = append(cte.ColumnNames, p.cur.Literal)
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.AS)
	p.expect(token.LPAREN)
	body := p.parseSelectOrSetOp()
	cte.Query = asSelect(body)
	p.expect(token.RPAREN)
	cte.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return cte
}

// parseSelectOrSetOp parses a SELECT core and any trailing
// UNION/INTERSECT/EXCEPT combinations, left-associative.
func (p *Parser) parseSelectOrSetOp() ast.Statement {
	start := p.cur.Span.Start
	left := p.parseSelectCore()
	for p.at(token.UNION) || p.at(token.INTERSECT) || p.at(token.EXCEPT) {
		op := p.cur.Type.String()
		p.advance()
		all := false
		if p.at(token.ALL) {
			all = true
			p.advance()
		} else if p.at(token.DISTINCT) {
			p.advance()
		}
		right := p.parseSelectCore()
		left = &ast.SelectStmt{
			NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)},
			SetOp:    op, SetOpAll: all, Left: left, Right: right,
		}
	}
	return left
}

func (p *Parser) parseSelectCore() *ast.SelectStmt {
	start := p.cur.Span.Start
	if !p.expect(token.SELECT) {
		p.syncToClauseBoundary()
	}
	sel := &ast.SelectStmt{}
	if p.at(token.DISTINCT) {
		sel.Distinct = true
		p.advance()
	} else if p.at(token.ALL) {
		p.advance()
	}

	sel.SelectList = p.parseSelectList()

	if p.at(token.FROM) {
		p.advance()
		sel.From = p.parseFromClause()
	}
	if p.at(token.WHERE) {
		p.advance()
		sel.Where = p.parseExpr()
	}
	if p.at(token.GROUP) {
		p.advance()
		p.expect(token.BY)
		sel.GroupBy = append(sel.GroupBy, p.parseExpr())
		for p.at(token.COMMA) {
			p.advance()
			sel.GroupBy = append(sel.GroupBy, p.parseExpr())
		}
	}
	if p.at(token.HAVING) {
		p.advance()
		sel.Having = p.parseExpr()
	}
	if p.at(token.QUALIFY) && p.d.SupportsQualify {
		p.advance()
		sel.Qualify = p.parseExpr()
	}
	if p.at(token.ORDER) {
		sel.OrderBy = p.parseOrderByList()
	}
	if p.at(token.LIMIT) {
		p.advance()
		sel.Limit = p.parseExpr()
	}
	if p.at(token.OFFSET) {
		p.advance()
		sel.Offset = p.parseExpr()
	}
	sel.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return sel
}

func (p *Parser) parseSelectList() []*ast.AliasedExpr {
	var items []*ast.AliasedExpr
	for {
		start := p.cur.Span.Start
		e := p.parseExpr()
		alias := p.parseOptionalAlias()
		items = append(items, &ast.AliasedExpr{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Expr: e, Alias: alias})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return items
}

func (p *Parser) parseOrderByList() []ast.OrderItem {
	p.advance() // ORDER
	p.expect(token.BY)
	var items []ast.OrderItem
	for {
		e := p.parseExpr()
		desc := false
		if p.at(token.ASC) {
			p.advance()
		} else if p.at(token.DESC) {
			desc = true
			p.advance()
		}
		if p.atKeyword("nulls") {
			p.advance()
			if p.atKeyword("first") || p.atKeyword("last") {
				p.advance()
			}
		}
		items = append(items, ast.OrderItem{Expr: e, Desc: desc})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return items
}

// ---- DML ----

func (p *Parser) parseInsert() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // INSERT
	p.expect(token.INTO)
	table := p.parseObjectName()
	ins := &ast.InsertStmt{Table: table}

	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				ins.Columns = append(ins.Columns, p.cur.Literal)
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}

	if p.at(token.VALUES) {
		p.advance()
		for {
			p.expect(token.LPAREN)
			var row []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				row = append(row, p.parseExpr())
				if p.at(token.COMMA) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.RPAREN)
			ins.Values = append(ins.Values, row)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	} else if p.at(token.SELECT) || p.at(token.WITH) {
		ins.Query = asSelect(p.parseSelectOrSetOp())
	} else {
		p.errorf("expected VALUES or SELECT after INSERT INTO, found %s %q", p.cur.Type, p.cur.Literal)
	}
	ins.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return ins
}

func (p *Parser) parseUpdate() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // UPDATE
	table := p.parseObjectName()
	alias := p.parseOptionalAlias()
	upd := &ast.UpdateStmt{Table: table, Alias: alias}

	p.expect(token.SET)
	for {
		if !p.at(token.IDENT) {
			p.errorf("expected column name in SET, found %s %q", p.cur.Type, p.cur.Literal)
			break
		}
		col := p.cur.Literal
		p.advance()
		p.expect(token.EQ)
		val := p.parseExpr()
		upd.Sets = append(upd.Sets, ast.UpdateSetItem{Column: col, Value: val})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if p.at(token.FROM) {
		p.advance()
		upd.From = p.parseFromClause()
	}
	if p.at(token.WHERE) {
		p.advance()
		upd.Where = p.parseExpr()
	}
	upd.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return upd
}

func (p *Parser) parseDelete() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // DELETE
	p.expect(token.FROM)
	table := p.parseObjectName()
	alias := p.parseOptionalAlias()
	del := &ast.DeleteStmt{Table: table, Alias: alias}
	if p.at(token.USING) {
		p.advance()
		del.Using = p.parseFromClause()
	}
	if p.at(token.WHERE) {
		p.advance()
		del.Where = p.parseExpr()
	}
	del.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return del
}

// ---- DDL ----

func (p *Parser) parseCreate() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // CREATE
	replace := false
	if p.at(token.OR) {
		p.advance()
		p.expect(token.REPLACE)
		replace = true
	}
	switch {
	case p.at(token.TABLE):
		return p.parseCreateTable(start)
	case p.at(token.VIEW):
		return p.parseCreateView(start, replace)
	case p.at(token.SCHEMA):
		return p.parseCreateSchema(start)
	default:
		p.errorf("expected TABLE, VIEW, or SCHEMA after CREATE, found %s %q", p.cur.Type, p.cur.Literal)
		p.syncToClauseBoundary()
		return &ast.OtherStmt{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}}
	}
}

func (p *Parser) parseCreateTable(start int) ast.Statement {
	p.advance() // TABLE
	name := p.parseObjectName()
	ct := &ast.CreateTableStmt{Name: name}
	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				col := ast.ColumnDef{Name: p.cur.Literal}
				p.advance()
				col.DataType = p.parseTypeName()
				// Skip any column constraints (PRIMARY KEY, NOT NULL, ...)
				// up to the next comma or close-paren.
				for !p.at(token.COMMA) && !p.at(token.RPAREN) && !p.at(token.EOF) {
					p.advance()
				}
				ct.Columns = append(ct.Columns, col)
			} else {
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	if p.at(token.AS) {
		p.advance()
		ct.AsSelect = asSelect(p.parseSelectOrSetOp())
	}
	ct.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return ct
}

func (p *Parser) parseCreateView(start int, replace bool) ast.Statement {
	p.advance() // VIEW
	name := p.parseObjectName()
	cv := &ast.CreateViewStmt{Name: name, Replace: replace}
	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				cv.Columns = append(cv.Columns, p.cur.Literal)
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.AS)
	cv.Query = asSelect(p.parseSelectOrSetOp())
	cv.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return cv
}

func (p *Parser) parseCreateSchema(start int) ast.Statement {
	p.advance() // SCHEMA
	if !p.d.SupportsCreateSchema {
		p.errorf("dialect %s does not support CREATE SCHEMA", p.d.Name)
	}
	name := p.parseObjectName()
	return &ast.CreateSchemaStmt{NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)}, Name: name}
}

// ---- Dialect-gated statements ----

func (p *Parser) parseMerge() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // MERGE
	if !p.d.SupportsMerge {
		p.errorf("dialect %s does not support MERGE", p.d.Name)
	}
	p.expect(token.INTO)
	target := p.parseObjectName()
	alias := p.parseOptionalAlias()
	p.expect(token.USING)
	source := p.parseFromPrimary()
	p.expect(token.ON)
	on := p.parseExpr()
	// WHEN MATCHED/NOT MATCHED clauses affect only the target's written
	// columns, which the extractor treats as a full-table write; skip their
	// bodies structurally.
	for p.at(token.WHEN) {
		for !p.at(token.WHEN) && !p.at(token.EOF) {
			p.advance()
		}
		if !p.at(token.WHEN) {
			break
		}
		p.advance()
	}
	for !p.at(token.EOF) {
		p.advance()
	}
	return &ast.MergeStmt{
		NodeInfo: ast.NodeInfo{Span: p.spanFrom(start)},
		Target:   target, TargetAlias: alias, Source: source, On: on,
	}
}

func (p *Parser) parseCopy() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // COPY
	if !p.d.SupportsCopy {
		p.errorf("dialect %s does not support COPY", p.d.Name)
	}
	table := p.parseObjectName()
	cp := &ast.CopyStmt{Table: table}
	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				cp.Columns = append(cp.Columns, p.cur.Literal)
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	for !p.at(token.EOF) {
		p.advance()
	}
	cp.NodeInfo = ast.NodeInfo{Span: p.spanFrom(start)}
	return cp
}
