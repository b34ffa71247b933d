// Package bigquery adapts the ANSI dialect with BigQuery's backtick
// identifier quoting and EXCEPT/REPLACE star modifiers (both ancestrally
// BigQuery's own syntax), and case-sensitive, catalog-qualified
// project.dataset.table naming.
package bigquery

import (
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
)

func init() {
	dialect.Register("bigquery", New())
}

// New constructs the BigQuery dialect.
func New() *dialect.Dialect {
	d := ansi.New()
	d.Name = "bigquery"
	d.Identifiers = dialect.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "\\`"}
	// Every identifier keeps its case and compares case-sensitively,
	// columns and aliases included; no object kind is folded.
	d.CaseFolding = dialect.NormSensitive
	d.StringLiteralFlavors = []dialect.StringLiteralFlavor{
		{Quote: "'"},
		{Quote: `"`},
		{Prefix: "r", Quote: `"`},
		{Prefix: "b", Quote: `"`},
		{Quote: `"""`, Multiline: true},
		{Quote: "'''", Multiline: true},
	}
	d.NumericLiteralForms = dialect.NumericLiteralForms{
		HexLiterals:   true,
		ExponentForms: true,
	}
	d.SupportsQualify = true
	d.SupportsPivot = true
	d.SupportsStarModifiers = true
	d.SupportsNamedArgs = true
	d.Aggregates = merge(d.Aggregates, "array_agg", "string_agg", "approx_count_distinct", "any_value")
	d.Windows = merge(d.Windows, "percent_rank", "cume_dist", "ntile")
	d.Generators = merge(d.Generators, "current_timestamp", "generate_uuid", "current_date")
	d.TableFunctions = merge(d.TableFunctions, "unnest", "generate_array", "generate_date_array")
	return d
}

func merge(base map[string]struct{}, words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(base)+len(words))
	for k := range base {
		out[k] = struct{}{}
	}
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
