package lineage

import (
	"fmt"
	"math"

	"github.com/sqllineage/analyzer/internal/graph"
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/resolver"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/sqllineage/analyzer/pkg/span"
)

type colKey struct {
	owner graph.NodeID
	name  string
}

type joinEdgeData struct {
	joinType dialect.JoinType
	cond     string
}

// extractor builds one statement's lineage graph into an arena, then
// projects the arena into the exported Nodes/Edges slices. CTE and subquery
// bodies are never walked for their own internal lineage: they are treated
// as opaque relations exposing whatever columns the resolver already
// inferred, and only the statement actually passed to Extract gets a graph.
type extractor struct {
	d         *dialect.Dialect
	schemaIdx *schema.Index
	res       *resolver.Result
	source    []byte
	stmtIndex int
	opts      Options

	g             *graph.Arena
	relByEntry    map[*resolver.ScopeEntry]graph.NodeID
	cteNodeByName map[string]graph.NodeID
	bareRelByRef  map[*ast.TableRef]graph.NodeID
	colByKey      map[colKey]graph.NodeID
	outputID      graph.NodeID

	issues    []issue.Issue
	joinCount int
	cteDepth  int
	subqDepth int
}

// Extract builds the lineage graph for one resolved statement.
func Extract(stmt ast.Statement, res *resolver.Result, d *dialect.Dialect, schemaIdx *schema.Index, source []byte, stmtIndex int, sourceName string, weights ComplexityWeights, opts Options) (*StatementLineage, []issue.Issue) {
	ex := &extractor{
		d:             d,
		schemaIdx:     schemaIdx,
		res:           res,
		source:        source,
		stmtIndex:     stmtIndex,
		opts:          opts,
		g:             graph.New(),
		relByEntry:    make(map[*resolver.ScopeEntry]graph.NodeID),
		cteNodeByName: make(map[string]graph.NodeID),
		bareRelByRef:  make(map[*ast.TableRef]graph.NodeID),
		colByKey:      make(map[colKey]graph.NodeID),
	}

	switch st := stmt.(type) {
	case *ast.SelectStmt:
		ex.extractTopSelect(st)
	case *ast.InsertStmt:
		ex.extractInsert(st)
	case *ast.UpdateStmt:
		ex.extractUpdate(st)
	case *ast.DeleteStmt:
		ex.extractDelete(st)
	case *ast.CreateTableStmt:
		ex.extractCreateTable(st)
	case *ast.CreateViewStmt:
		ex.extractCreateView(st)
	case *ast.MergeStmt:
		ex.extractMerge(st)
	case *ast.CopyStmt:
		ex.extractCopy(st)
	case *ast.CreateSchemaStmt:
		// Defines a namespace, not a relation: no lineage to extract.
	case *ast.OtherStmt:
		ex.addIssue(issue.CodeUnsupportedStatement, "statement could not be fully parsed", st.Span)
	}

	sl := &StatementLineage{
		StatementIndex: stmtIndex,
		StatementType:  ast.ClassifyStatement(stmt),
		SourceName:     sourceName,
		Span:           stmt.Info().Span,
		JoinCount:      ex.joinCount,
	}
	ex.projectNodes(sl)
	ex.projectEdges(sl)
	sl.ComplexityScore = ex.complexityScore(weights, len(sl.Nodes))
	return sl, ex.issues
}

func (ex *extractor) fold(s string) string {
	if ex.d == nil {
		return s
	}
	return ex.d.NormalizeName(s)
}

func (ex *extractor) addIssue(code issue.Code, msg string, sp span.Span) {
	idx := ex.stmtIndex
	ex.issues = append(ex.issues, issue.New(code, msg, &idx, &sp))
}

func (ex *extractor) sliceText(sp span.Span) string {
	return sp.Slice(ex.source)
}

func (ex *extractor) mustNode(id graph.NodeID) *Node {
	n, _ := ex.g.Node(id)
	return n.(*Node)
}

// addFilter attaches f to target's node, unless Options.CollectFilters is
// disabled.
func (ex *extractor) addFilter(target graph.NodeID, f Filter) {
	if !ex.opts.CollectFilters || target == 0 {
		return
	}
	n := ex.mustNode(target)
	n.Filters = append(n.Filters, f)
}

func (ex *extractor) addEdgeOnce(from, to graph.NodeID, typ EdgeType, data any) {
	if from == 0 || to == 0 {
		return
	}
	if ex.g.HasEdge(from, to, string(typ)) {
		return
	}
	ex.g.AddEdge(from, to, string(typ), data)
}

// ---- relation and column node plumbing ----

func (ex *extractor) newRelationNode(entry *resolver.ScopeEntry) graph.NodeID {
	nt := NodeTable
	if entry.Kind == resolver.KindCTE {
		nt = NodeCTE
	}
	canon := entry.Canonical
	return ex.g.AddNode(&Node{Type: nt, Label: entry.EffectiveName(), Canonical: &canon})
}

// relationNode returns this FROM entry's relation node, creating it on first
// use. CTE entries referencing the same binding share one node (keyed by
// folded name) even though the resolver allocates a fresh ScopeEntry per
// FROM reference; every other relation gets one node per distinct entry.
func (ex *extractor) relationNode(entry *resolver.ScopeEntry) graph.NodeID {
	if id, ok := ex.relByEntry[entry]; ok {
		return id
	}
	var id graph.NodeID
	if entry.Kind == resolver.KindCTE {
		key := ex.fold(entry.Canonical.Name)
		if existing, ok := ex.cteNodeByName[key]; ok {
			id = existing
		} else {
			id = ex.newRelationNode(entry)
			ex.cteNodeByName[key] = id
		}
	} else {
		id = ex.newRelationNode(entry)
	}
	ex.relByEntry[entry] = id
	return id
}

// ownedColumn returns the column node named name owned by owner, creating
// it (and the ownership edge) on first use.
func (ex *extractor) ownedColumn(owner graph.NodeID, name string) graph.NodeID {
	key := colKey{owner, ex.fold(name)}
	if id, ok := ex.colByKey[key]; ok {
		return id
	}
	id := ex.g.AddNode(&Node{Type: NodeColumn, Label: name})
	ex.colByKey[key] = id
	ex.g.AddEdge(owner, id, string(EdgeOwnership), nil)
	return id
}

func (ex *extractor) columnNodeFor(entry *resolver.ScopeEntry, name string) graph.NodeID {
	_, existed := ex.colByKey[colKey{ex.relationNode(entry), ex.fold(name)}]
	id := ex.ownedColumn(ex.relationNode(entry), name)
	if !existed && ex.schemaIdx != nil && entry.Canonical.Resolved {
		if t, ok := ex.schemaIdx.Lookup(entry.Canonical.Catalog, entry.Canonical.Schema, entry.Canonical.Name); ok {
			for _, c := range ex.schemaIdx.Classifications(t, name) {
				node := ex.mustNode(id)
				node.Tags = append(node.Tags, Tag{Name: c, Source: "imported"})
			}
		}
	}
	return id
}

// columnRefNode resolves a ColumnRef to its source column node. When the
// resolver could not bind it, a standalone, unowned column node is still
// returned so the edge it participates in keeps a valid endpoint instead of
// silently vanishing from the graph.
func (ex *extractor) columnRefNode(cr *ast.ColumnRef) graph.NodeID {
	if entry, ok := ex.res.Columns[cr]; ok && entry != nil {
		return ex.columnNodeFor(entry, cr.Name.Name)
	}
	label := cr.Name.Name
	if cr.Qualifier != nil {
		label = cr.Qualifier.String() + "." + cr.Name.Name
	}
	return ex.g.AddNode(&Node{Type: NodeColumn, Label: label})
}

// ---- FROM / join traversal (SELECT context, scope-aware) ----

// walkFromWithScope mirrors the resolver's registerFromItem traversal order
// so cursor indexes the same scope.Entries() slice the resolver built,
// letting each leaf recover its ScopeEntry (Kind, Columns, Canonical)
// without the resolver needing to expose a FromItem->ScopeEntry map.
func (ex *extractor) walkFromWithScope(item ast.FromItem, scope *resolver.Scope, cursor *int) graph.NodeID {
	switch it := item.(type) {
	case *ast.TableRef:
		entries := scope.Entries()
		if *cursor >= len(entries) {
			return 0
		}
		entry := entries[*cursor]
		*cursor++
		return ex.relationNode(entry)

	case *ast.SubqueryRef:
		entries := scope.Entries()
		if *cursor >= len(entries) {
			return 0
		}
		entry := entries[*cursor]
		*cursor++
		ex.subqDepth++
		return ex.relationNode(entry)

	case *ast.JoinExpr:
		left := ex.walkFromWithScope(it.Left, scope, cursor)
		right := ex.walkFromWithScope(it.Right, scope, cursor)
		ex.joinCount++
		cond := ""
		kind := "on"
		switch {
		case it.On != nil:
			cond = ex.sliceText(it.On.Info().Span)
		case len(it.Using) > 0:
			cond = "USING (" + joinStrings(it.Using) + ")"
		}
		ex.addEdgeOnce(left, right, EdgeJoinDependency, &joinEdgeData{joinType: it.Type, cond: cond})
		if cond != "" {
			ex.addFilter(right, Filter{Expression: cond, Span: it.Info().Span, Kind: kind})
		}
		return right
	}
	return 0
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// ---- FROM traversal outside a resolved SELECT scope (UPDATE FROM, DELETE
// USING, MERGE source): only res.Relations is available, not a Scope, so
// these relations get plain table nodes with no inferred column list.

func (ex *extractor) walkFromBare(item ast.FromItem) graph.NodeID {
	switch it := item.(type) {
	case *ast.TableRef:
		if id, ok := ex.bareRelByRef[it]; ok {
			return id
		}
		canon := ex.res.Relations[it]
		id := ex.g.AddNode(&Node{Type: NodeTable, Label: aliasOr(it.Alias, canon.Name), Canonical: &canon})
		ex.bareRelByRef[it] = id
		return id
	case *ast.SubqueryRef:
		return ex.g.AddNode(&Node{Type: NodeTable, Label: it.Alias})
	case *ast.JoinExpr:
		left := ex.walkFromBare(it.Left)
		right := ex.walkFromBare(it.Right)
		ex.joinCount++
		cond := ""
		if it.On != nil {
			cond = ex.sliceText(it.On.Info().Span)
		}
		ex.addEdgeOnce(left, right, EdgeJoinDependency, &joinEdgeData{joinType: it.Type, cond: cond})
		return right
	}
	return 0
}

func aliasOr(alias, name string) string {
	if alias != "" {
		return alias
	}
	return name
}

// ---- filters ----

func (ex *extractor) primaryRelation(scope *resolver.Scope) graph.NodeID {
	entries := scope.VisibleEntries()
	if len(entries) == 0 {
		return 0
	}
	return ex.relationNode(entries[0])
}

func (ex *extractor) collectFilters(sel *ast.SelectStmt, scope *resolver.Scope) {
	owner := ex.primaryRelation(scope)
	if owner == 0 {
		return
	}
	for _, f := range []struct {
		expr ast.Expr
		kind string
	}{
		{sel.Where, "where"},
		{sel.Having, "having"},
		{sel.Qualify, "qualify"},
	} {
		if f.expr == nil {
			continue
		}
		ex.addFilter(owner, Filter{
			Expression: ex.sliceText(f.expr.Info().Span),
			Span:       f.expr.Info().Span,
			Kind:       f.kind,
		})
	}
}

// ---- projection ----

func (ex *extractor) columnOutputName(item *ast.AliasedExpr, idx int, overrides []string) string {
	if idx < len(overrides) && overrides[idx] != "" {
		return overrides[idx]
	}
	if item.Alias != "" {
		return item.Alias
	}
	if cr, ok := item.Expr.(*ast.ColumnRef); ok {
		return cr.Name.Name
	}
	return fmt.Sprintf("col_%d", idx+1)
}

func (ex *extractor) tagAggregation(colID graph.NodeID, call *ast.FuncCall) {
	node := ex.mustNode(colID)
	filterExpr := ""
	if call.Filter != nil {
		filterExpr = ex.sliceText(call.Filter.Info().Span)
	}
	var orderBy []string
	if call.Over != nil {
		for _, o := range call.Over.OrderBy {
			if o.Expr != nil {
				orderBy = append(orderBy, ex.sliceText(o.Expr.Info().Span))
			}
		}
	}
	node.Aggregation = &Aggregation{
		Function:         call.Name,
		IsDistinct:       call.Distinct,
		FilterExpression: filterExpr,
		OrderBy:          orderBy,
	}
}

func (ex *extractor) projectExpr(expr ast.Expr, outID graph.NodeID) {
	if expr == nil {
		return
	}
	if cr, ok := expr.(*ast.ColumnRef); ok {
		src := ex.columnRefNode(cr)
		ex.addEdgeOnce(src, outID, EdgeDataFlow, "")
		return
	}
	if _, ok := expr.(*ast.SubqueryExpr); ok {
		ex.subqDepth++
		return
	}
	refs := collectColumnRefs(expr)
	if len(refs) == 0 {
		return
	}
	text := ex.sliceText(expr.Info().Span)
	for _, cr := range refs {
		src := ex.columnRefNode(cr)
		ex.addEdgeOnce(src, outID, EdgeDerivation, text)
	}
}

func containsFold(list []string, name string, fold func(string) string) bool {
	n := fold(name)
	for _, s := range list {
		if fold(s) == n {
			return true
		}
	}
	return false
}

// expandStar expands a `*`/`t.*` select item against the entries visible in
// scope, honoring EXCEPT(...) and applying name overrides positionally the
// same way a plain column would receive one.
func (ex *extractor) expandStar(star *ast.StarExpr, scope *resolver.Scope, ownerID graph.NodeID, idx *int, overrides []string) []graph.NodeID {
	var entries []*resolver.ScopeEntry
	if star.Qualifier != nil {
		name := star.Qualifier.Last()
		if e, ok := scope.Lookup(name, ex.fold); ok {
			entries = []*resolver.ScopeEntry{e}
		}
	} else {
		entries = scope.VisibleEntries()
	}

	if !ex.opts.ResolveWildcards {
		return ex.passthroughStar(entries, ownerID, idx, overrides)
	}

	var ids []graph.NodeID
	for _, entry := range entries {
		if len(entry.Columns) == 0 {
			ex.addIssue(issue.CodeWildcardNoSchema, fmt.Sprintf("cannot expand wildcard for %q: schema unknown", entry.EffectiveName()), star.Span)
			continue
		}
		for _, col := range entry.Columns {
			if containsFold(star.Except, col, ex.fold) {
				continue
			}
			name := col
			if *idx < len(overrides) && overrides[*idx] != "" {
				name = overrides[*idx]
			}
			colID := ex.ownedColumn(ownerID, name)
			srcID := ex.columnNodeFor(entry, col)
			ex.addEdgeOnce(srcID, colID, EdgeDataFlow, "")
			ids = append(ids, colID)
			*idx++
		}
	}

	for _, repl := range star.Replace {
		for _, id := range ids {
			if ex.mustNode(id).Label == repl.Alias {
				ex.projectExpr(repl.Expr, id)
			}
		}
	}
	return ids
}

// passthroughStar is expandStar's Options.ResolveWildcards=false path: one
// unexpanded column node per visible entry instead of per schema column,
// fed by a data_flow edge from the whole relation rather than from any
// individual source column.
func (ex *extractor) passthroughStar(entries []*resolver.ScopeEntry, ownerID graph.NodeID, idx *int, overrides []string) []graph.NodeID {
	var ids []graph.NodeID
	for _, entry := range entries {
		name := entry.EffectiveName() + ".*"
		if *idx < len(overrides) && overrides[*idx] != "" {
			name = overrides[*idx]
		}
		colID := ex.ownedColumn(ownerID, name)
		ex.addEdgeOnce(ex.relationNode(entry), colID, EdgeDataFlow, "")
		ids = append(ids, colID)
		*idx++
	}
	return ids
}

// projectSelectList projects sel's select list onto ownerID's columns,
// returning the output column node for each projected position (used to
// align UNION branches and to know what a CREATE/INSERT target's columns
// should be named when no explicit column list was given).
func (ex *extractor) projectSelectList(sel *ast.SelectStmt, scope *resolver.Scope, ownerID graph.NodeID, overrides []string) []graph.NodeID {
	var outIDs []graph.NodeID
	idx := 0
	for _, item := range sel.SelectList {
		if star, ok := item.Expr.(*ast.StarExpr); ok {
			ids := ex.expandStar(star, scope, ownerID, &idx, overrides)
			outIDs = append(outIDs, ids...)
			continue
		}
		name := ex.columnOutputName(item, idx, overrides)
		colID := ex.ownedColumn(ownerID, name)
		ex.projectExpr(item.Expr, colID)
		if call, ok := topLevelAggregateCall(item.Expr, ex.d); ok {
			ex.tagAggregation(colID, call)
		}
		outIDs = append(outIDs, colID)
		idx++
	}
	return outIDs
}

// projectSelectListInto is the continuation pass for a later UNION/
// INTERSECT/EXCEPT branch: it reuses the first branch's output column nodes
// positionally instead of creating new ones.
func (ex *extractor) projectSelectListInto(sel *ast.SelectStmt, scope *resolver.Scope, outIDs []graph.NodeID) {
	idx := 0
	for _, item := range sel.SelectList {
		if star, ok := item.Expr.(*ast.StarExpr); ok {
			entries := scope.VisibleEntries()
			if star.Qualifier != nil {
				if e, ok := scope.Lookup(star.Qualifier.Last(), ex.fold); ok {
					entries = []*resolver.ScopeEntry{e}
				}
			}
			if !ex.opts.ResolveWildcards {
				for _, entry := range entries {
					if idx < len(outIDs) {
						ex.addEdgeOnce(ex.relationNode(entry), outIDs[idx], EdgeDataFlow, "")
					}
					idx++
				}
				continue
			}
			for _, entry := range entries {
				for _, col := range entry.Columns {
					if containsFold(star.Except, col, ex.fold) || idx >= len(outIDs) {
						idx++
						continue
					}
					srcID := ex.columnNodeFor(entry, col)
					ex.addEdgeOnce(srcID, outIDs[idx], EdgeDataFlow, "")
					idx++
				}
			}
			continue
		}
		if idx < len(outIDs) {
			ex.projectExpr(item.Expr, outIDs[idx])
		}
		idx++
	}
}

// flattenSetOp returns the leaf SELECT branches of a UNION/INTERSECT/EXCEPT
// chain in left-to-right order.
func flattenSetOp(st *ast.SelectStmt) []*ast.SelectStmt {
	if !st.IsSetOp() {
		return []*ast.SelectStmt{st}
	}
	var out []*ast.SelectStmt
	out = append(out, flattenSetOp(st.Left)...)
	out = append(out, flattenSetOp(st.Right)...)
	return out
}

// ---- per-statement-kind extraction ----

func (ex *extractor) extractTopSelect(st *ast.SelectStmt) {
	ex.outputID = ex.g.AddNode(&Node{Type: NodeOutput, Label: "output"})
	ex.extractQueryInto(st, ex.outputID, nil)
}

// extractQueryInto projects query's result columns onto targetID, flattening
// a UNION/INTERSECT/EXCEPT chain so every branch's select list lands on the
// same output/target columns positionally. Used both for a bare SELECT
// (targetID is the virtual output node) and for a SELECT feeding a DML or
// CREATE target (targetID is that relation's node).
func (ex *extractor) extractQueryInto(query *ast.SelectStmt, targetID graph.NodeID, overrides []string) {
	ex.declareCTEs(query)
	branches := flattenSetOp(query)

	first := branches[0]
	scope := ex.res.Scopes[first]
	if scope == nil {
		scope = resolver.NewScope(nil)
	}
	cursor := 0
	if first.From != nil {
		ex.walkFromWithScope(first.From, scope, &cursor)
	}
	outIDs := ex.projectSelectList(first, scope, targetID, overrides)
	ex.collectFilters(first, scope)

	for _, branch := range branches[1:] {
		bScope := ex.res.Scopes[branch]
		if bScope == nil {
			bScope = resolver.NewScope(nil)
		}
		bCursor := 0
		if branch.From != nil {
			ex.walkFromWithScope(branch.From, bScope, &bCursor)
		}
		ex.projectSelectListInto(branch, bScope, outIDs)
		ex.collectFilters(branch, bScope)
	}
}

// declareCTEs emits one relation node per WITH binding regardless of
// whether it ends up referenced in a FROM clause, per "one node per CTE".
func (ex *extractor) declareCTEs(st *ast.SelectStmt) {
	if st.With == nil {
		return
	}
	ex.cteDepth += len(st.With.CTEs)
	for i := range st.With.CTEs {
		cte := &st.With.CTEs[i]
		key := ex.fold(cte.Name)
		if _, ok := ex.cteNodeByName[key]; ok {
			continue
		}
		id := ex.g.AddNode(&Node{
			Type:        NodeCTE,
			Label:       cte.Name,
			IsRecursive: cte.Recursive || st.With.Recursive,
		})
		ex.cteNodeByName[key] = id
		if cte.Recursive || st.With.Recursive {
			ex.addIssue(issue.CodeRecursiveCTESelfRef, fmt.Sprintf("recursive CTE %q", cte.Name), cte.Span)
		}
	}
}

func (ex *extractor) newTargetNode(canon resolver.CanonicalName, nt NodeType, created bool) graph.NodeID {
	return ex.g.AddNode(&Node{Type: nt, Label: canon.Name, Canonical: &canon, IsCreated: created})
}

func (ex *extractor) extractInsert(st *ast.InsertStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, false)

	if st.Query != nil {
		ex.extractQueryInto(st.Query, targetID, st.Columns)
		return
	}

	for _, row := range st.Values {
		for i, val := range row {
			name := ""
			if i < len(st.Columns) {
				name = st.Columns[i]
			} else {
				name = fmt.Sprintf("col_%d", i+1)
			}
			colID := ex.ownedColumn(targetID, name)
			ex.projectExpr(val, colID)
		}
	}
}

func (ex *extractor) extractUpdate(st *ast.UpdateStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, false)
	if st.From != nil {
		ex.walkFromBare(st.From)
	}
	for _, set := range st.Sets {
		colID := ex.ownedColumn(targetID, set.Column)
		ex.projectExpr(set.Value, colID)
	}
	if st.Where != nil {
		ex.addFilter(targetID, Filter{Expression: ex.sliceText(st.Where.Info().Span), Span: st.Where.Info().Span, Kind: "where"})
	}
}

func (ex *extractor) extractDelete(st *ast.DeleteStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, false)
	if st.Using != nil {
		ex.walkFromBare(st.Using)
	}
	if st.Where != nil {
		ex.addFilter(targetID, Filter{Expression: ex.sliceText(st.Where.Info().Span), Span: st.Where.Info().Span, Kind: "where"})
	}
}

func (ex *extractor) extractCreateTable(st *ast.CreateTableStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, true)
	if st.AsSelect == nil {
		for _, c := range st.Columns {
			ex.ownedColumn(targetID, c.Name)
		}
		return
	}
	names := make([]string, len(st.Columns))
	for i, c := range st.Columns {
		names[i] = c.Name
	}
	ex.extractQueryInto(st.AsSelect, targetID, names)
}

func (ex *extractor) extractCreateView(st *ast.CreateViewStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeView, true)
	if st.Query == nil {
		return
	}
	ex.extractQueryInto(st.Query, targetID, st.Columns)
}

func (ex *extractor) extractMerge(st *ast.MergeStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, false)
	var sourceID graph.NodeID
	if st.Source != nil {
		sourceID = ex.walkFromBare(st.Source)
	}
	if st.On != nil {
		ex.addFilter(targetID, Filter{Expression: ex.sliceText(st.On.Info().Span), Span: st.On.Info().Span, Kind: "on"})
		ex.addEdgeOnce(sourceID, targetID, EdgeJoinDependency, &joinEdgeData{joinType: dialect.JoinInner, cond: ex.sliceText(st.On.Info().Span)})
	}
}

func (ex *extractor) extractCopy(st *ast.CopyStmt) {
	canon := ex.res.Targets[st]
	targetID := ex.newTargetNode(canon, NodeTable, false)
	for _, c := range st.Columns {
		ex.ownedColumn(targetID, c)
	}
}

// ---- projection into the exported shape ----

func (ex *extractor) projectNodes(sl *StatementLineage) {
	n := ex.g.NodeCount()
	sl.Nodes = make([]Node, 0, n)
	for i := 1; i <= n; i++ {
		data, _ := ex.g.Node(graph.NodeID(i))
		node := *data.(*Node)
		node.ID = i
		sl.Nodes = append(sl.Nodes, node)
	}
}

func (ex *extractor) projectEdges(sl *StatementLineage) {
	order := []EdgeType{EdgeOwnership, EdgeDataFlow, EdgeDerivation, EdgeJoinDependency}
	for _, typ := range order {
		ids := ex.g.EdgesByType(string(typ))
		ex.g.SortEdgesByEndpoints(ids)
		for _, id := range ids {
			from, to, _, data, ok := ex.g.Edge(id)
			if !ok {
				continue
			}
			e := Edge{ID: len(sl.Edges) + 1, From: int(from), To: int(to), Type: typ}
			switch typ {
			case EdgeDerivation:
				if s, ok := data.(string); ok {
					e.Expression = s
				}
			case EdgeJoinDependency:
				if jd, ok := data.(*joinEdgeData); ok {
					e.JoinType = jd.joinType
					e.JoinCondition = jd.cond
				}
			}
			sl.Edges = append(sl.Edges, e)
		}
	}
}

func (ex *extractor) complexityScore(w ComplexityWeights, nodeCount int) int {
	columnCount := 0
	for i := 1; i <= ex.g.NodeCount(); i++ {
		if data, ok := ex.g.Node(graph.NodeID(i)); ok {
			if data.(*Node).Type == NodeColumn {
				columnCount++
			}
		}
	}
	raw := w.Joins*float64(ex.joinCount) +
		w.Nodes*math.Log(float64(nodeCount+1)) +
		w.CTEDepth*float64(ex.cteDepth) +
		w.SubqDepth*float64(ex.subqDepth) +
		w.Columns*float64(columnCount)/10

	score := int(math.Round(raw))
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}
