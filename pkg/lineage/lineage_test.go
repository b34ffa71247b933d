package lineage

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
	"github.com/sqllineage/analyzer/pkg/parser"
	"github.com/sqllineage/analyzer/pkg/resolver"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractSQL(t *testing.T, sql string, idx *schema.Index) *StatementLineage {
	t.Helper()
	d := ansi.New()
	p := parser.New(sql, d, nil)
	stmt := p.ParseStatement()
	require.Empty(t, p.Issues())
	res, resIssues := resolver.New(d, idx).Resolve(stmt, nil)
	require.Empty(t, resIssues)
	sl, exIssues := Extract(stmt, res, d, idx, []byte(sql), 0, "t.sql", DefaultComplexityWeights, DefaultOptions)
	require.Empty(t, exIssues)
	return sl
}

func ordersSchemaIdx() *schema.Index {
	return schema.New(ansi.New(), []schema.SchemaTable{
		{Schema: "public", Name: "orders", Columns: []schema.ColumnSchema{{Name: "id"}, {Name: "customer_id"}, {Name: "amount"}}},
		{Schema: "public", Name: "customers", Columns: []schema.ColumnSchema{{Name: "id"}, {Name: "name"}}},
		{Schema: "public", Name: "sink", Columns: []schema.ColumnSchema{{Name: "id"}}},
	})
}

func findNode(sl *StatementLineage, typ NodeType, label string) (Node, bool) {
	for _, n := range sl.Nodes {
		if n.Type == typ && n.Label == label {
			return n, true
		}
	}
	return Node{}, false
}

func edgesOfType(sl *StatementLineage, typ EdgeType) []Edge {
	var out []Edge
	for _, e := range sl.Edges {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestExtract_SimpleSelect(t *testing.T) {
	sl := extractSQL(t, "SELECT id FROM orders", ordersSchemaIdx())

	tbl, ok := findNode(sl, NodeTable, "orders")
	assert.True(t, ok)
	assert.NotNil(t, tbl.Canonical)
	assert.True(t, tbl.Canonical.Resolved)

	_, ok = findNode(sl, NodeOutput, "output")
	assert.True(t, ok)

	outCol, ok := findNode(sl, NodeColumn, "id")
	assert.True(t, ok)

	ownership := edgesOfType(sl, EdgeOwnership)
	assert.NotEmpty(t, ownership)

	dataFlow := edgesOfType(sl, EdgeDataFlow)
	require.Len(t, dataFlow, 1)
	assert.Equal(t, outCol.ID, dataFlow[0].To)
}

func TestExtract_JoinProducesJoinDependencyEdge(t *testing.T) {
	sl := extractSQL(t, "SELECT o.id FROM orders o JOIN customers c ON o.id = c.id", ordersSchemaIdx())
	assert.Equal(t, 1, sl.JoinCount)

	joins := edgesOfType(sl, EdgeJoinDependency)
	require.Len(t, joins, 1)
	assert.Contains(t, joins[0].JoinCondition, "o.id = c.id")
}

func TestExtract_CTEDedupedByName(t *testing.T) {
	sl := extractSQL(t, "WITH recent AS (SELECT id FROM orders) SELECT id FROM recent", ordersSchemaIdx())

	cteCount := 0
	for _, n := range sl.Nodes {
		if n.Type == NodeCTE {
			cteCount++
		}
	}
	assert.Equal(t, 1, cteCount)
}

func TestExtract_InsertIntoFromSelect(t *testing.T) {
	sl := extractSQL(t, "INSERT INTO sink (id) SELECT id FROM orders", ordersSchemaIdx())

	sink, ok := findNode(sl, NodeTable, "sink")
	assert.True(t, ok)
	assert.False(t, sink.IsCreated)

	sinkCol, ok := findNode(sl, NodeColumn, "id")
	assert.True(t, ok)

	dataFlow := edgesOfType(sl, EdgeDataFlow)
	assert.NotEmpty(t, dataFlow)
	found := false
	for _, e := range dataFlow {
		if e.To == sinkCol.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtract_CreateTableAsSelectMarksCreated(t *testing.T) {
	sl := extractSQL(t, "CREATE TABLE report AS SELECT id FROM orders", ordersSchemaIdx())
	report, ok := findNode(sl, NodeTable, "report")
	assert.True(t, ok)
	assert.True(t, report.IsCreated)
}

func TestExtract_CreateViewMarksView(t *testing.T) {
	sl := extractSQL(t, "CREATE VIEW v AS SELECT id FROM orders", ordersSchemaIdx())
	v, ok := findNode(sl, NodeView, "v")
	assert.True(t, ok)
	assert.True(t, v.IsCreated)
}

func TestExtract_StarExpansionAgainstSchema(t *testing.T) {
	sl := extractSQL(t, "SELECT * FROM orders", ordersSchemaIdx())

	var colLabels []string
	for _, n := range sl.Nodes {
		if n.Type == NodeColumn {
			colLabels = append(colLabels, n.Label)
		}
	}
	assert.Contains(t, colLabels, "id")
	assert.Contains(t, colLabels, "customer_id")
	assert.Contains(t, colLabels, "amount")
}

func TestExtract_StarExpansionWithoutSchemaRaisesIssue(t *testing.T) {
	d := ansi.New()
	idx := schema.New(d, nil)
	p := parser.New("SELECT * FROM unknown_tbl", d, nil)
	stmt := p.ParseStatement()
	require.Empty(t, p.Issues())
	res, _ := resolver.New(d, idx).Resolve(stmt, nil)
	_, exIssues := Extract(stmt, res, d, idx, []byte("SELECT * FROM unknown_tbl"), 0, "t.sql", DefaultComplexityWeights, DefaultOptions)
	require.NotEmpty(t, exIssues)
}

func TestExtract_UnionAlignsBranchesPositionally(t *testing.T) {
	sl := extractSQL(t, "SELECT id FROM orders UNION SELECT id FROM customers", ordersSchemaIdx())

	// Both branches project into the same output column node, so at least
	// two data_flow edges should land on the same `To`.
	toCounts := map[int]int{}
	for _, e := range edgesOfType(sl, EdgeDataFlow) {
		toCounts[e.To]++
	}
	maxCount := 0
	for _, c := range toCounts {
		if c > maxCount {
			maxCount = c
		}
	}
	assert.GreaterOrEqual(t, maxCount, 2)
}

func TestExtract_AggregateFunctionTagged(t *testing.T) {
	sl := extractSQL(t, "SELECT COUNT(id) AS cnt FROM orders", ordersSchemaIdx())
	col, ok := findNode(sl, NodeColumn, "cnt")
	assert.True(t, ok)
	require.NotNil(t, col.Aggregation)
	assert.Equal(t, "COUNT", col.Aggregation.Function)
}

func TestExtract_WhereFilterAttachedToPrimaryRelation(t *testing.T) {
	sl := extractSQL(t, "SELECT id FROM orders WHERE amount > 100", ordersSchemaIdx())
	tbl, ok := findNode(sl, NodeTable, "orders")
	assert.True(t, ok)
	require.Len(t, tbl.Filters, 1)
	assert.Equal(t, "where", tbl.Filters[0].Kind)
	assert.Contains(t, tbl.Filters[0].Expression, "amount > 100")
}

func TestExtract_ComplexityScoreBounds(t *testing.T) {
	sl := extractSQL(t, "SELECT id FROM orders", ordersSchemaIdx())
	assert.GreaterOrEqual(t, sl.ComplexityScore, 1)
	assert.LessOrEqual(t, sl.ComplexityScore, 100)
}

func TestExtract_StatementTypeAndSourceNamePropagated(t *testing.T) {
	sl := extractSQL(t, "SELECT id FROM orders", ordersSchemaIdx())
	assert.Equal(t, ast.StatementSelect, sl.StatementType)
	assert.Equal(t, "t.sql", sl.SourceName)
}

func TestExtract_UpdateSetsCreateDerivationOrDataFlowEdges(t *testing.T) {
	sl := extractSQL(t, "UPDATE orders SET amount = amount + 1 WHERE id = 1", ordersSchemaIdx())
	tbl, ok := findNode(sl, NodeTable, "orders")
	assert.True(t, ok)
	require.Len(t, tbl.Filters, 1)

	amountCol, ok := findNode(sl, NodeColumn, "amount")
	require.True(t, ok)

	derivations := edgesOfType(sl, EdgeDerivation)
	found := false
	for _, e := range derivations {
		if e.To == amountCol.ID {
			found = true
		}
	}
	assert.True(t, found)
}
