package resolver

import (
	"testing"

	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/parser"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func resolveSQL(t *testing.T, sql string, idx *schema.Index) (ast.Statement, *Result, []issue.Issue) {
	t.Helper()
	d := ansi.New()
	p := parser.New(sql, d, nil)
	stmt := p.ParseStatement()
	assert.Empty(t, p.Issues())
	res, issues := New(d, idx).Resolve(stmt, nil)
	return stmt, res, issues
}

func ordersSchema() *schema.Index {
	return schema.New(ansi.New(), []schema.SchemaTable{
		{Schema: "public", Name: "orders", Columns: []schema.ColumnSchema{{Name: "id"}, {Name: "customer_id"}, {Name: "amount"}}},
		{Schema: "public", Name: "customers", Columns: []schema.ColumnSchema{{Name: "id"}, {Name: "name"}}},
	})
}

func TestResolve_BareTableAgainstSchema(t *testing.T) {
	stmt, res, issues := resolveSQL(t, "SELECT id FROM orders", ordersSchema())
	assert.Empty(t, issues)

	sel := stmt.(*ast.SelectStmt)
	tref := sel.From.(*ast.TableRef)
	canon := res.Relations[tref]
	assert.True(t, canon.Resolved)
	assert.Equal(t, "public", canon.Schema)
	assert.Equal(t, "orders", canon.Name)
}

func TestResolve_UnknownTableRaisesIssue(t *testing.T) {
	_, _, issues := resolveSQL(t, "SELECT id FROM nonexistent", ordersSchema())
	assert.Len(t, issues, 1)
	assert.Equal(t, issue.CodeUnknownTable, issues[0].Code)
}

func TestResolve_CTEPriorityOverSchemaTable(t *testing.T) {
	stmt, res, issues := resolveSQL(t, "WITH orders AS (SELECT 1 AS id) SELECT id FROM orders", ordersSchema())
	assert.Empty(t, issues)
	sel := stmt.(*ast.SelectStmt)
	tref := sel.From.(*ast.TableRef)
	canon := res.Relations[tref]
	// The CTE binding wins: it has no schema, so Resolved carries through
	// from the CTE's own CanonicalName (always Resolved: true, no catalog/schema).
	assert.True(t, canon.Resolved)
	assert.Empty(t, canon.Schema)
}

func TestResolve_AliasShadowsBareName(t *testing.T) {
	stmt, res, issues := resolveSQL(t, "SELECT o.id FROM orders o", ordersSchema())
	assert.Empty(t, issues)
	sel := stmt.(*ast.SelectStmt)
	scope := res.Scopes[sel]
	entry, ok := scope.Lookup("o", func(s string) string { return s })
	assert.True(t, ok)
	assert.Equal(t, "orders", entry.Canonical.Name)

	_, ok = scope.Lookup("orders", func(s string) string { return s })
	assert.False(t, ok) // bare name no longer visible once aliased
}

func TestResolve_BareColumnBindsToUniqueRelation(t *testing.T) {
	stmt, res, issues := resolveSQL(t, "SELECT id FROM orders", ordersSchema())
	assert.Empty(t, issues)
	sel := stmt.(*ast.SelectStmt)
	colRef := sel.SelectList[0].Expr.(*ast.ColumnRef)
	entry := res.Columns[colRef]
	assert.NotNil(t, entry)
	assert.Equal(t, "orders", entry.Canonical.Name)
}

func TestResolve_AmbiguousColumnAcrossJoin(t *testing.T) {
	_, _, issues := resolveSQL(t, "SELECT id FROM orders JOIN customers ON orders.id = customers.id", ordersSchema())
	var codes []issue.Code
	for _, iss := range issues {
		codes = append(codes, iss.Code)
	}
	assert.Contains(t, codes, issue.CodeAmbiguousColumn)
}

func TestResolve_QualifiedColumnUnknown(t *testing.T) {
	_, _, issues := resolveSQL(t, "SELECT o.missing FROM orders o", ordersSchema())
	var codes []issue.Code
	for _, iss := range issues {
		codes = append(codes, iss.Code)
	}
	assert.Contains(t, codes, issue.CodeUnknownColumn)
}

func TestResolve_InsertTarget(t *testing.T) {
	stmt, res, issues := resolveSQL(t, "INSERT INTO orders (id) VALUES (1)", ordersSchema())
	assert.Empty(t, issues)
	canon := res.Targets[stmt]
	assert.True(t, canon.Resolved)
	assert.Equal(t, "orders", canon.Name)
}

func TestResolve_CreateTableTargetNeverRaisesUnknownTable(t *testing.T) {
	_, res, issues := resolveSQL(t, "CREATE TABLE new_report AS SELECT id FROM orders", ordersSchema())
	assert.Empty(t, issues)
	assert.NotEmpty(t, res.Targets)
}
