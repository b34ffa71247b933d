// Package resolver binds every relation and column reference in an AST to a
// canonical name, walking scopes nested along WITH CTE groups, FROM sources,
// and correlated subqueries. Resolution is a pure tree-annotation pass: it
// never mutates the AST, recording results in a Result side-table instead,
// so re-running Resolve on the same AST is trivially idempotent.
package resolver

import (
	"fmt"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/sqllineage/analyzer/pkg/span"
)

// Result is the side-table of annotations produced by Resolve. AST nodes
// are used as map keys by pointer identity.
type Result struct {
	// Scopes records, for every SELECT node (top-level or a CTE/subquery
	// body), the scope governing its own FROM level.
	Scopes map[*ast.SelectStmt]*Scope
	// Relations records the canonical name resolved for every TableRef.
	Relations map[*ast.TableRef]CanonicalName
	// Columns records which ScopeEntry a bare or qualified ColumnRef bound
	// to; a ColumnRef present in this AST but absent from the map (or
	// mapping to nil) is unresolved.
	Columns map[*ast.ColumnRef]*ScopeEntry
	// Top is the outermost scope for the statement passed to Resolve. It
	// holds no entries: WITH CTE bindings and FROM relations live in the
	// child scopes opened for each SELECT.
	Top *Scope
	// Targets records the canonical name of the single relation an
	// INSERT/UPDATE/DELETE/MERGE statement writes to, or a CREATE
	// TABLE/VIEW statement creates, keyed by the top-level Statement.
	Targets map[ast.Statement]CanonicalName
}

func newResult() *Result {
	return &Result{
		Scopes:    make(map[*ast.SelectStmt]*Scope),
		Relations: make(map[*ast.TableRef]CanonicalName),
		Columns:   make(map[*ast.ColumnRef]*ScopeEntry),
		Targets:   make(map[ast.Statement]CanonicalName),
	}
}

// Resolver binds relation and column references for one dialect against an
// optional schema index.
type Resolver struct {
	d      *dialect.Dialect
	schema *schema.Index

	issues         []issue.Issue
	stmtIndex      *int
	res            *Result
}

// New returns a Resolver for dialect d consulting idx (nil is valid: every
// relation resolves against CTEs only).
func New(d *dialect.Dialect, idx *schema.Index) *Resolver {
	return &Resolver{d: d, schema: idx}
}

// Resolve annotates stmt, attaching statementIndex (may be nil) to every
// issue it raises.
func (r *Resolver) Resolve(stmt ast.Statement, statementIndex *int) (*Result, []issue.Issue) {
	r.issues = nil
	r.stmtIndex = statementIndex
	r.res = newResult()

	top := NewScope(nil)
	r.res.Top = top
	r.resolveStatement(stmt, top)
	return r.res, r.issues
}

func (r *Resolver) fold(s string) string {
	if r.d == nil {
		return s
	}
	return r.d.NormalizeName(s)
}

func (r *Resolver) addIssue(code issue.Code, msg string, sp span.Span) {
	s := sp
	r.issues = append(r.issues, issue.New(code, msg, r.stmtIndex, &s))
}

func (r *Resolver) resolveStatement(stmt ast.Statement, parent *Scope) {
	switch st := stmt.(type) {
	case *ast.SelectStmt:
		if st.IsSetOp() {
			r.resolveStatement(st.Left, parent)
			r.resolveStatement(st.Right, parent)
			return
		}
		r.resolveSelect(st, parent)
	case *ast.InsertStmt:
		scope := NewScope(parent)
		r.res.Targets[stmt] = r.registerTarget(st.Table, "", scope)
		for _, row := range st.Values {
			for _, e := range row {
				r.walkExpr(e, scope)
			}
		}
		if st.Query != nil {
			r.resolveStatement(st.Query, nil)
		}
	case *ast.UpdateStmt:
		scope := NewScope(parent)
		r.res.Targets[stmt] = r.registerTarget(st.Table, st.Alias, scope)
		if st.From != nil {
			r.registerFromItem(st.From, scope)
		}
		for _, set := range st.Sets {
			r.walkExpr(set.Value, scope)
		}
		if st.Where != nil {
			r.walkExpr(st.Where, scope)
		}
	case *ast.DeleteStmt:
		scope := NewScope(parent)
		r.res.Targets[stmt] = r.registerTarget(st.Table, st.Alias, scope)
		if st.Using != nil {
			r.registerFromItem(st.Using, scope)
		}
		if st.Where != nil {
			r.walkExpr(st.Where, scope)
		}
	case *ast.CreateTableStmt:
		r.res.Targets[stmt] = r.resolveCreatedName(st.Name)
		if st.AsSelect != nil {
			r.resolveStatement(st.AsSelect, nil)
		}
	case *ast.CreateViewStmt:
		r.res.Targets[stmt] = r.resolveCreatedName(st.Name)
		if st.Query != nil {
			r.resolveStatement(st.Query, nil)
		}
	case *ast.MergeStmt:
		scope := NewScope(parent)
		r.res.Targets[stmt] = r.registerTarget(st.Target, st.TargetAlias, scope)
		if st.Source != nil {
			r.registerFromItem(st.Source, scope)
		}
		if st.On != nil {
			r.walkExpr(st.On, scope)
		}
	case *ast.CopyStmt, *ast.CreateSchemaStmt, *ast.OtherStmt:
		// No relation or column references to resolve.
	}
}

func (r *Resolver) registerTarget(name *ast.ObjectName, alias string, scope *Scope) CanonicalName {
	canonical := r.resolveRelationName(name)
	kind := KindTable
	var cols []string
	if t, ok := r.lookupSchemaTable(canonical); ok {
		cols = columnNames(t)
	} else {
		kind = KindUnknown
	}
	entry := &ScopeEntry{Alias: aliasOrBare(alias, canonical.Name), Canonical: canonical, Kind: kind, Columns: cols, Span: name.Span}
	scope.Push(entry)
	return canonical
}

// resolveCreatedName resolves the name of a relation a CREATE TABLE/VIEW
// statement defines. Unlike resolveRelationName, a schema miss is not an
// error here: the relation is being introduced by this very statement, so
// "not already in the schema" is the expected case, not UNKNOWN_TABLE.
func (r *Resolver) resolveCreatedName(name *ast.ObjectName) CanonicalName {
	parts := name.Parts
	if t, ok := r.lookupSchemaTableTriple(catalogPart(parts), schemaPart(parts), name.Last()); ok {
		return CanonicalName{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name, Resolved: true}
	}
	switch len(parts) {
	case 2:
		return CanonicalName{Schema: parts[0].Name, Name: parts[1].Name, Resolved: true}
	case 3:
		return CanonicalName{Catalog: parts[0].Name, Schema: parts[1].Name, Name: parts[2].Name, Resolved: true}
	default:
		return CanonicalName{Name: name.Last(), Resolved: true}
	}
}

func catalogPart(parts []ast.Ident) string {
	if len(parts) == 3 {
		return parts[0].Name
	}
	return ""
}

func schemaPart(parts []ast.Ident) string {
	if len(parts) == 3 {
		return parts[1].Name
	}
	if len(parts) == 2 {
		return parts[0].Name
	}
	return ""
}

// resolveSelect binds st's WITH/FROM scopes and walks every expression in
// its clauses, returning the scope governing st's own FROM level.
func (r *Resolver) resolveSelect(st *ast.SelectStmt, parent *Scope) *Scope {
	effectiveParent := parent
	if st.With != nil {
		cteScope := NewScope(parent)
		for i := range st.With.CTEs {
			cte := &st.With.CTEs[i]
			entry := &ScopeEntry{
				Alias:     cte.Name,
				Canonical: CanonicalName{Name: cte.Name, Resolved: true},
				Kind:      KindCTE,
				Columns:   cte.ColumnNames,
				Span:      cte.Span,
			}
			// Push before resolving the body so a WITH RECURSIVE binding
			// can reference itself.
			cteScope.Push(entry)
			if cte.Query != nil {
				inner := r.resolveSelect(cte.Query, cteScope)
				r.res.Scopes[cte.Query] = inner
				if len(entry.Columns) == 0 {
					entry.Columns = outputColumnNames(cte.Query)
				}
			}
		}
		effectiveParent = cteScope
	}

	scope := NewScope(effectiveParent)
	if st.From != nil {
		r.registerFromItem(st.From, scope)
	}
	for _, item := range st.SelectList {
		if item.Expr != nil {
			r.walkExpr(item.Expr, scope)
		}
	}
	if st.Where != nil {
		r.walkExpr(st.Where, scope)
	}
	for _, e := range st.GroupBy {
		r.walkExpr(e, scope)
	}
	if st.Having != nil {
		r.walkExpr(st.Having, scope)
	}
	if st.Qualify != nil {
		r.walkExpr(st.Qualify, scope)
	}
	for _, o := range st.OrderBy {
		if o.Expr != nil {
			r.walkExpr(o.Expr, scope)
		}
	}
	if st.Limit != nil {
		r.walkExpr(st.Limit, scope)
	}
	if st.Offset != nil {
		r.walkExpr(st.Offset, scope)
	}

	r.res.Scopes[st] = scope
	return scope
}

func (r *Resolver) registerFromItem(item ast.FromItem, scope *Scope) {
	switch it := item.(type) {
	case *ast.TableRef:
		// Rule 1(a): a bare name naming an in-scope CTE wins over a schema
		// table of the same name, and must not raise UNKNOWN_TABLE.
		if len(it.Name.Parts) == 1 {
			if cteEntry, ok := scope.Lookup(it.Name.Parts[0].Name, r.fold); ok && cteEntry.Kind == KindCTE {
				r.res.Relations[it] = cteEntry.Canonical
				scope.Push(&ScopeEntry{
					Alias: aliasOrBare(it.Alias, cteEntry.Canonical.Name), Canonical: cteEntry.Canonical,
					Kind: KindCTE, Columns: cteEntry.Columns, Span: it.Span,
				})
				return
			}
		}
		canonical := r.resolveRelationName(it.Name)
		r.res.Relations[it] = canonical
		kind := KindTable
		var cols []string
		if t, ok := r.lookupSchemaTable(canonical); ok {
			cols = columnNames(t)
		} else {
			kind = KindUnknown
		}
		entry := &ScopeEntry{Alias: aliasOrBare(it.Alias, canonical.Name), Canonical: canonical, Kind: kind, Columns: cols, Span: it.Span}
		scope.Push(entry)

	case *ast.SubqueryRef:
		inner := r.resolveSelect(it.Query, scope)
		r.res.Scopes[it.Query] = inner
		entry := &ScopeEntry{Alias: it.Alias, Kind: KindDerived, Columns: outputColumnNames(it.Query), Span: it.Span}
		scope.Push(entry)

	case *ast.JoinExpr:
		r.registerFromItem(it.Left, scope)
		r.registerFromItem(it.Right, scope)
		if it.On != nil {
			r.walkExpr(it.On, scope)
		}
	}
}

// resolveRelationName implements resolution rules 1-3: bare, a.b, a.b.c.
func (r *Resolver) resolveRelationName(name *ast.ObjectName) CanonicalName {
	parts := name.Parts
	switch len(parts) {
	case 1:
		bare := parts[0].Name
		if t, ok := r.lookupSchemaTable(CanonicalName{Name: bare}); ok {
			return CanonicalName{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name, Resolved: true}
		}
		r.addIssue(issue.CodeUnknownTable, fmt.Sprintf("unknown table %q", bare), name.Span)
		return CanonicalName{Name: bare, Resolved: false}

	case 2:
		a, b := parts[0].Name, parts[1].Name
		if t, ok := r.lookupSchemaTableTriple("", a, b); ok {
			return CanonicalName{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name, Resolved: true}
		}
		if t, ok := r.lookupSchemaTableTriple(a, "", b); ok {
			return CanonicalName{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name, Resolved: true}
		}
		r.addIssue(issue.CodeUnknownTable, fmt.Sprintf("unknown table %q", name.String()), name.Span)
		return CanonicalName{Schema: a, Name: b, Resolved: false}

	case 3:
		a, b, c := parts[0].Name, parts[1].Name, parts[2].Name
		if t, ok := r.lookupSchemaTableTriple(a, b, c); ok {
			return CanonicalName{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name, Resolved: true}
		}
		r.addIssue(issue.CodeUnknownTable, fmt.Sprintf("unknown table %q", name.String()), name.Span)
		return CanonicalName{Catalog: a, Schema: b, Name: c, Resolved: false}

	default:
		r.addIssue(issue.CodeUnknownTable, fmt.Sprintf("unknown table %q", name.String()), name.Span)
		return CanonicalName{Name: name.Last(), Resolved: false}
	}
}

func (r *Resolver) lookupSchemaTable(c CanonicalName) (*schema.SchemaTable, bool) {
	return r.lookupSchemaTableTriple(c.Catalog, c.Schema, c.Name)
}

func (r *Resolver) lookupSchemaTableTriple(catalog, sch, name string) (*schema.SchemaTable, bool) {
	if r.schema == nil {
		return nil, false
	}
	return r.schema.Lookup(catalog, sch, name)
}

func columnNames(t *schema.SchemaTable) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// outputColumnNames derives the column names a derived table/CTE exposes to
// its enclosing scope: each SELECT-list item's alias, or its bare column
// name when unaliased, or "" for expressions with neither (never matched by
// a bare-column lookup, which is the conservative, safe default).
func outputColumnNames(st *ast.SelectStmt) []string {
	if st == nil || st.IsSetOp() {
		if st != nil && st.IsSetOp() {
			return outputColumnNames(st.Left)
		}
		return nil
	}
	names := make([]string, 0, len(st.SelectList))
	for _, item := range st.SelectList {
		if item.Alias != "" {
			names = append(names, item.Alias)
			continue
		}
		if col, ok := item.Expr.(*ast.ColumnRef); ok {
			names = append(names, col.Name.Name)
			continue
		}
		names = append(names, "")
	}
	return names
}

func aliasOrBare(alias, bare string) string {
	if alias != "" {
		return alias
	}
	return bare
}
