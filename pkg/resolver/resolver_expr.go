package resolver

import (
	"fmt"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/issue"
)

// walkExpr recurses through an expression tree, resolving every ColumnRef
// leaf and descending into nested subqueries (correlated to scope).
func (r *Resolver) walkExpr(e ast.Expr, scope *Scope) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.ColumnRef:
		r.resolveColumnRef(n, scope)
	case *ast.StarExpr:
		for _, repl := range n.Replace {
			r.walkExpr(repl.Expr, scope)
		}
	case *ast.BinaryExpr:
		r.walkExpr(n.Left, scope)
		r.walkExpr(n.Right, scope)
	case *ast.UnaryExpr:
		r.walkExpr(n.Operand, scope)
	case *ast.CastExpr:
		r.walkExpr(n.Operand, scope)
	case *ast.CaseExpr:
		r.walkExpr(n.Operand, scope)
		for _, w := range n.Whens {
			r.walkExpr(w.Cond, scope)
			r.walkExpr(w.Then, scope)
		}
		r.walkExpr(n.Else, scope)
	case *ast.FuncCall:
		for _, a := range n.Args {
			r.walkExpr(a, scope)
		}
		r.walkExpr(n.Filter, scope)
		if n.Over != nil {
			for _, p := range n.Over.PartitionBy {
				r.walkExpr(p, scope)
			}
			for _, o := range n.Over.OrderBy {
				r.walkExpr(o.Expr, scope)
			}
		}
	case *ast.SubqueryExpr:
		inner := r.resolveSelect(n.Query, scope)
		r.res.Scopes[n.Query] = inner
	case *ast.AliasedExpr:
		r.walkExpr(n.Expr, scope)
	case *ast.Literal, *ast.Ident:
		// Leaves with nothing to resolve.
	}
}

// resolveColumnRef implements resolution rule 4 (bare column) and the
// qualifier half of rule 6 (alias lookup for `t.c`).
func (r *Resolver) resolveColumnRef(cr *ast.ColumnRef, scope *Scope) {
	if cr.Qualifier != nil {
		qualifier := cr.Qualifier.Last()
		entry, ok := scope.Lookup(qualifier, r.fold)
		if !ok {
			r.addIssue(issue.CodeUnknownTable, fmt.Sprintf("unknown table %q", qualifier), cr.Qualifier.Span)
			return
		}
		if len(entry.Columns) > 0 && !entry.HasColumn(r.fold(cr.Name.Name), r.fold) {
			r.addIssue(issue.CodeUnknownColumn, fmt.Sprintf("unknown column %q on %q", cr.Name.Name, entry.EffectiveName()), cr.Span)
			return
		}
		r.res.Columns[cr] = entry
		return
	}

	visible := scope.VisibleEntries()
	folded := r.fold(cr.Name.Name)
	var matches []*ScopeEntry
	knownStructure := false
	for _, entry := range visible {
		if len(entry.Columns) == 0 {
			continue
		}
		knownStructure = true
		if entry.HasColumn(folded, r.fold) {
			matches = append(matches, entry)
		}
	}

	switch {
	case len(matches) == 1:
		r.res.Columns[cr] = matches[0]
	case len(matches) > 1:
		r.addIssue(issue.CodeAmbiguousColumn, fmt.Sprintf("ambiguous column %q", cr.Name.Name), cr.Span)
	case knownStructure:
		// At least one visible relation has known columns and none
		// exposes this name: a genuine miss.
		r.addIssue(issue.CodeUnknownColumn, fmt.Sprintf("unknown column %q", cr.Name.Name), cr.Span)
	case len(visible) == 1:
		// Exactly one relation in scope with unknown structure (no
		// schema supplied): the only plausible owner, bound silently.
		r.res.Columns[cr] = visible[0]
	case len(visible) == 0:
		r.addIssue(issue.CodeUnknownColumn, fmt.Sprintf("unknown column %q", cr.Name.Name), cr.Span)
	default:
		// Multiple relations of unknown structure: cannot determine an
		// owner without guessing, so the column is left unresolved with
		// no issue raised (its relation references already carry one).
	}
}
