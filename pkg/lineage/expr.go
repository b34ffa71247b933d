package lineage

import (
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
)

// collectColumnRefs returns every ColumnRef reachable inside e, in
// left-to-right evaluation order, used to wire derivation edges for a
// compound expression (function call, arithmetic, CASE, cast).
func collectColumnRefs(e ast.Expr) []*ast.ColumnRef {
	var out []*ast.ColumnRef
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.ColumnRef:
			out = append(out, n)
		case *ast.BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *ast.UnaryExpr:
			walk(n.Operand)
		case *ast.CastExpr:
			walk(n.Operand)
		case *ast.CaseExpr:
			walk(n.Operand)
			for _, w := range n.Whens {
				walk(w.Cond)
				walk(w.Then)
			}
			walk(n.Else)
		case *ast.FuncCall:
			for _, a := range n.Args {
				walk(a)
			}
			walk(n.Filter)
			if n.Over != nil {
				for _, p := range n.Over.PartitionBy {
					walk(p)
				}
				for _, o := range n.Over.OrderBy {
					walk(o.Expr)
				}
			}
		case *ast.AliasedExpr:
			walk(n.Expr)
			// SubqueryExpr and StarExpr are opaque to this walk: a scalar
			// subquery's own columns belong to its own statement, not this
			// one, and a star is expanded by the caller before this ever
			// runs.
		}
	}
	walk(e)
	return out
}

// topLevelAggregateCall reports the aggregate function name when expr's
// outermost node is a call the dialect classifies as an aggregate,
// e.g. `count(*)` or `sum(amount)` but not `sum(amount) + 1`.
func topLevelAggregateCall(expr ast.Expr, d *dialect.Dialect) (*ast.FuncCall, bool) {
	call, ok := expr.(*ast.FuncCall)
	if !ok || d == nil {
		return nil, false
	}
	if d.IsAggregate(call.Name) {
		return call, true
	}
	return nil, false
}
