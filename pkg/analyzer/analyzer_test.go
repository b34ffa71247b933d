package analyzer

import (
	"strings"
	"testing"

	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/lineage"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SimpleSelectDefaultsToANSI(t *testing.T) {
	res := Analyze(Request{SQL: "SELECT id FROM orders"})
	require.Len(t, res.Statements, 1)
	// No schema was supplied, so the bare "orders" reference is unknown.
	require.Len(t, res.Issues, 1)
	assert.Equal(t, issue.CodeUnknownTable, res.Issues[0].Code)
	assert.Equal(t, 1, res.Summary.StatementCount)
}

func TestAnalyze_MultipleStatementsSplitAndCounted(t *testing.T) {
	res := Analyze(Request{SQL: "SELECT id FROM orders; SELECT id FROM customers;"})
	assert.Len(t, res.Statements, 2)
	assert.Equal(t, 2, res.Summary.StatementCount)
}

func TestAnalyze_UnknownDialectRaisesParseErrorIssue(t *testing.T) {
	res := Analyze(Request{SQL: "SELECT 1", Dialect: "not_a_real_dialect"})
	require.NotEmpty(t, res.Issues)
	assert.Empty(t, res.Statements)
	assert.True(t, res.Summary.HasErrors)
}

func TestAnalyze_UnknownTableRaisesWarningIssue(t *testing.T) {
	res := Analyze(Request{SQL: "SELECT id FROM nonexistent"})
	require.NotEmpty(t, res.Issues)
	assert.False(t, res.Summary.HasErrors)
	assert.Equal(t, 1, res.Summary.IssueCount.Warnings)
}

func TestAnalyze_SchemaDrivenStarExpansion(t *testing.T) {
	res := Analyze(Request{
		SQL: "SELECT * FROM orders",
		Schema: []schema.SchemaTable{
			{Schema: "public", Name: "orders", Columns: []schema.ColumnSchema{{Name: "id"}, {Name: "amount"}}},
		},
	})
	assert.Empty(t, res.Issues)
	// Two output columns plus the two orders source columns they read.
	assert.Equal(t, 4, res.Summary.ColumnCount)
}

func TestAnalyzeMany_UnifiesGlobalLineageAcrossRequests(t *testing.T) {
	res := AnalyzeMany([]Request{
		{SQL: "CREATE TABLE staging AS SELECT id FROM orders", SourceName: "a.sql"},
		{SQL: "INSERT INTO mart (id) SELECT id FROM staging", SourceName: "b.sql"},
	})
	require.NotNil(t, res.GlobalLineage)

	names := map[string]bool{}
	for _, n := range res.GlobalLineage.Nodes {
		names[n.Name] = true
	}
	assert.True(t, names["orders"])
	assert.True(t, names["staging"])
	assert.True(t, names["mart"])
}

func TestAnalyzeMany_PreservesStatementOrderAcrossUnits(t *testing.T) {
	reqs := make([]Request, 0, 20)
	for i := 0; i < 20; i++ {
		reqs = append(reqs, Request{SQL: "SELECT id FROM orders"})
	}
	res := AnalyzeMany(reqs)
	require.Len(t, res.Statements, 20)
	for i, sl := range res.Statements {
		require.NotNil(t, sl)
		assert.Equal(t, i, sl.StatementIndex)
	}
}

func TestAnalyze_SecondStatementSpanOffsetIntoCombinedSource(t *testing.T) {
	sql := "SELECT id FROM orders; SELECT id FROM customers;"
	second := "SELECT id FROM customers"
	wantStart := strings.Index(sql, second)
	require.Greater(t, wantStart, 0)

	res := Analyze(Request{SQL: sql})
	require.Len(t, res.Statements, 2)
	assert.Equal(t, wantStart, res.Statements[1].Span.Start)
	assert.Equal(t, sql[res.Statements[1].Span.Start:res.Statements[1].Span.End], second)
}

func TestAnalyze_IssueSpanOnSecondStatementOffsetIntoCombinedSource(t *testing.T) {
	sql := "SELECT id FROM orders; SELECT id FROM nonexistent;"
	res := Analyze(Request{SQL: sql})
	require.NotEmpty(t, res.Issues)
	var second *issue.Issue
	for i := range res.Issues {
		if idx := res.Issues[i].StatementIndex; idx != nil && *idx == 1 {
			second = &res.Issues[i]
		}
	}
	require.NotNil(t, second)
	require.NotNil(t, second.Span)
	assert.Greater(t, second.Span.Start, strings.Index(sql, "SELECT id FROM nonexistent"))
}

func TestAnalyze_ResolveWildcardsFalseProducesPassthroughColumn(t *testing.T) {
	opts := Options{ResolveWildcards: false, CollectFilters: true, PropagateTags: true}
	res := Analyze(Request{SQL: "SELECT * FROM orders", Options: &opts})
	require.Len(t, res.Statements, 1)
	assert.Equal(t, 1, res.Summary.ColumnCount)

	var found bool
	for _, n := range res.Statements[0].Nodes {
		if n.Type == lineage.NodeColumn && n.Label == "orders.*" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyze_CollectFiltersFalseDropsFilters(t *testing.T) {
	sql := "SELECT id FROM orders WHERE id > 1"
	withFilters := Analyze(Request{SQL: sql})
	opts := Options{ResolveWildcards: true, CollectFilters: false, PropagateTags: true}
	withoutFilters := Analyze(Request{SQL: sql, Options: &opts})

	assertHasFilter := func(sl *lineage.StatementLineage) bool {
		for _, n := range sl.Nodes {
			if len(n.Filters) > 0 {
				return true
			}
		}
		return false
	}
	assert.True(t, assertHasFilter(withFilters.Statements[0]))
	assert.False(t, assertHasFilter(withoutFilters.Statements[0]))
}

func TestAnalyzeMany_UnifyColumnsOptedInAcrossRequests(t *testing.T) {
	opts := Options{ResolveWildcards: true, CollectFilters: true, PropagateTags: true, UnifyColumns: true}
	res := AnalyzeMany([]Request{
		{SQL: "CREATE TABLE staging AS SELECT id FROM orders", SourceName: "a.sql"},
		{SQL: "INSERT INTO mart (id) SELECT id FROM staging", SourceName: "b.sql", Options: &opts},
	})
	require.NotNil(t, res.GlobalLineage)
	assert.NotEmpty(t, res.GlobalLineage.Columns)
}

func TestAnalyze_CustomWeightsAffectComplexityScore(t *testing.T) {
	sql := "SELECT o.id FROM orders o JOIN customers c ON o.id = c.id"
	highWeights := lineage.DefaultComplexityWeights
	highWeights.Joins = 80
	low := Analyze(Request{SQL: sql})
	high := Analyze(Request{SQL: sql, Weights: &highWeights})

	require.Len(t, low.Statements, 1)
	require.Len(t, high.Statements, 1)
	assert.GreaterOrEqual(t, high.Summary.ComplexityScore, low.Summary.ComplexityScore)
}
