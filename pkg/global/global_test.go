package global

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/lineage"
	"github.com/sqllineage/analyzer/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedCanon(schema, name string) *resolver.CanonicalName {
	return &resolver.CanonicalName{Schema: schema, Name: name, Resolved: true}
}

// stmtWithFlow builds a minimal statement: src(table) -ownership-> srcCol,
// dst(table) -ownership-> dstCol, srcCol -[edgeType]-> dstCol.
func stmtWithFlow(idx int, srcName, dstName string, srcType, dstType lineage.NodeType, edgeType lineage.EdgeType, srcTags []lineage.Tag) *lineage.StatementLineage {
	src := lineage.Node{ID: 1, Type: srcType, Label: srcName, Canonical: resolvedCanon("public", srcName), Tags: nil}
	dst := lineage.Node{ID: 2, Type: dstType, Label: dstName, Canonical: resolvedCanon("public", dstName)}
	srcCol := lineage.Node{ID: 3, Type: lineage.NodeColumn, Label: "id", Tags: srcTags}
	dstCol := lineage.Node{ID: 4, Type: lineage.NodeColumn, Label: "id"}
	return &lineage.StatementLineage{
		StatementIndex: idx,
		Nodes:          []lineage.Node{src, dst, srcCol, dstCol},
		Edges: []lineage.Edge{
			{ID: 1, From: 1, To: 3, Type: lineage.EdgeOwnership},
			{ID: 2, From: 2, To: 4, Type: lineage.EdgeOwnership},
			{ID: 3, From: 3, To: 4, Type: edgeType},
		},
	}
}

func TestUnify_SameTableAcrossStatementsSharesOneNode(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "staging", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "staging", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)

	require.Len(t, gl.Nodes, 3)
	names := map[string]bool{}
	for _, n := range gl.Nodes {
		names[n.Name] = true
	}
	assert.True(t, names["orders"])
	assert.True(t, names["staging"])
	assert.True(t, names["mart"])

	require.Len(t, gl.Edges, 2)
}

func TestUnify_ViewTypePriorityOverTable(t *testing.T) {
	s1 := stmtWithFlow(0, "src", "v", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "v", "downstream", lineage.NodeView, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)

	var vNode *GlobalNode
	for i := range gl.Nodes {
		if gl.Nodes[i].Name == "v" {
			vNode = &gl.Nodes[i]
		}
	}
	require.NotNil(t, vNode)
	assert.Equal(t, lineage.NodeView, vNode.Type)
}

func TestUnify_DuplicateEdgesAcrossStatementsDeduped(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "orders", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)
	assert.Len(t, gl.Edges, 1)
}

func TestUnify_TagFlowPropagatedFromSourceColumn(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow,
		[]lineage.Tag{{Name: "pii", Source: "imported"}})

	gl := Unify([]*lineage.StatementLineage{s1}, DefaultOptions)
	require.Len(t, gl.TagFlows, 1)
	assert.Equal(t, "pii", gl.TagFlows[0].Tag)
}

func TestUnify_CTEAndOutputNodesNeverUnified(t *testing.T) {
	cte := lineage.Node{ID: 1, Type: lineage.NodeCTE, Label: "recent"}
	out := lineage.Node{ID: 2, Type: lineage.NodeOutput, Label: "output"}
	col1 := lineage.Node{ID: 3, Type: lineage.NodeColumn, Label: "id"}
	col2 := lineage.Node{ID: 4, Type: lineage.NodeColumn, Label: "id"}
	sl := &lineage.StatementLineage{
		Nodes: []lineage.Node{cte, out, col1, col2},
		Edges: []lineage.Edge{
			{From: 1, To: 3, Type: lineage.EdgeOwnership},
			{From: 2, To: 4, Type: lineage.EdgeOwnership},
			{From: 3, To: 4, Type: lineage.EdgeDataFlow},
		},
	}
	gl := Unify([]*lineage.StatementLineage{sl}, DefaultOptions)
	assert.Empty(t, gl.Nodes)
	assert.Empty(t, gl.Edges)
}

func TestUnify_StatementRefsNeverEmpty(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "staging", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "staging", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)
	for _, n := range gl.Nodes {
		assert.NotEmpty(t, n.StatementRefs, "node %q must have at least one statement ref", n.Name)
	}
}

func TestUnify_StatementRefsAccumulateAcrossStatements(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "staging", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "staging", "mart", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)

	var staging *GlobalNode
	for i := range gl.Nodes {
		if gl.Nodes[i].Name == "staging" {
			staging = &gl.Nodes[i]
		}
	}
	require.NotNil(t, staging)
	require.Len(t, staging.StatementRefs, 2, "staging is the dst of statement 0 and the src of statement 1")
	assert.Equal(t, 0, staging.StatementRefs[0].StatementIndex)
	assert.Equal(t, 2, staging.StatementRefs[0].NodeID) // dst node in stmtWithFlow
	assert.Equal(t, 1, staging.StatementRefs[1].StatementIndex)
	assert.Equal(t, 1, staging.StatementRefs[1].NodeID) // src node in stmtWithFlow
}

func TestUnify_ColumnsUnifiedOnlyWhenOptedIn(t *testing.T) {
	s1 := stmtWithFlow(0, "orders", "staging", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	glOff := Unify([]*lineage.StatementLineage{s1}, DefaultOptions)
	assert.Empty(t, glOff.Columns)

	glOn := Unify([]*lineage.StatementLineage{s1}, Options{PropagateTags: true, UnifyColumns: true})
	require.Len(t, glOn.Columns, 2)
	assert.Equal(t, "id", glOn.Columns[0].Name)
	assert.NotEmpty(t, glOn.Columns[0].StatementRefs)
}

func TestUnify_NilStatementsIgnored(t *testing.T) {
	gl := Unify([]*lineage.StatementLineage{nil}, DefaultOptions)
	assert.Empty(t, gl.Nodes)
	assert.Empty(t, gl.Edges)
}

func TestUnify_EdgesSortedByEndpoints(t *testing.T) {
	s1 := stmtWithFlow(0, "b_tbl", "c_tbl", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)
	s2 := stmtWithFlow(1, "a_tbl", "b_tbl", lineage.NodeTable, lineage.NodeTable, lineage.EdgeDataFlow, nil)

	gl := Unify([]*lineage.StatementLineage{s1, s2}, DefaultOptions)
	require.Len(t, gl.Edges, 2)
	for i := 1; i < len(gl.Edges); i++ {
		prev, cur := gl.Edges[i-1], gl.Edges[i]
		assert.True(t, prev.From < cur.From || (prev.From == cur.From && prev.To <= cur.To))
	}
}
