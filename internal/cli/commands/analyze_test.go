package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sqllineage/analyzer/pkg/analyzer"
	"github.com/sqllineage/analyzer/pkg/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1"), 0o644))

	src, name, err := readSource(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", src)
	assert.Equal(t, path, name)
}

func TestReadSource_MissingFile(t *testing.T) {
	_, _, err := readSource(filepath.Join(t.TempDir(), "missing.sql"))
	assert.Error(t, err)
}

func TestLoadSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	body := `[{"schema":"public","name":"orders","columns":[{"name":"id"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tables, err := loadSchemaFile(path)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "orders", tables[0].Name)
	assert.Equal(t, "public", tables[0].Schema)
}

func TestLoadSchemaFile_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := loadSchemaFile(path)
	assert.Error(t, err)
}

func TestWeightsPtr(t *testing.T) {
	w := lineage.DefaultComplexityWeights
	p := weightsPtr(w)
	require.NotNil(t, p)
	assert.Equal(t, w, *p)
}

func TestNodeLabel_FallsBackToType(t *testing.T) {
	assert.Equal(t, "orders", nodeLabel(lineage.Node{Label: "orders", Type: lineage.NodeTable}))
	assert.Equal(t, string(lineage.NodeOutput), nodeLabel(lineage.Node{Type: lineage.NodeOutput}))
}

func TestRenderAnalyzeJSON(t *testing.T) {
	result := analyzer.Analyze(analyzer.Request{SQL: "SELECT id FROM orders"})
	var buf bytes.Buffer
	require.NoError(t, renderAnalyzeJSON(&buf, result))

	var decoded analyzer.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result.Summary.StatementCount, decoded.Summary.StatementCount)
}

func TestRenderAnalyzeText_ReturnsErrorWhenHasErrors(t *testing.T) {
	result := analyzer.Analyze(analyzer.Request{SQL: "SELECT 1", Dialect: "not_a_dialect"})
	var buf bytes.Buffer
	err := renderAnalyzeText(&buf, result)
	assert.Error(t, err)
	assert.NotEmpty(t, buf.String())
}

func TestRenderAnalyzeText_NoErrorOnCleanQuery(t *testing.T) {
	result := analyzer.Analyze(analyzer.Request{SQL: "SELECT id FROM orders"})
	var buf bytes.Buffer
	err := renderAnalyzeText(&buf, result)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "statement(s)")
}
