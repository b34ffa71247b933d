// Package ansi provides the baseline ANSI SQL dialect: double-quoted
// identifiers, lowercase folding, the SQL-standard join vocabulary, and no
// dialect-specific statement forms.
package ansi

import "github.com/sqllineage/analyzer/pkg/dialect"

func init() {
	dialect.Register("ansi", New())
}

// New constructs the ANSI dialect.
func New() *dialect.Dialect {
	return &dialect.Dialect{
		Name: "ansi",
		Identifiers: dialect.IdentifierConfig{
			Quote: `"`, QuoteEnd: `"`, Escape: `""`,
		},
		CaseFolding: dialect.NormLowercase,
		StringLiteralFlavors: []dialect.StringLiteralFlavor{
			{Quote: "'"},
		},
		NumericLiteralForms: dialect.NumericLiteralForms{ExponentForms: true},
		JoinTypes:           JoinTypes(),
		Aggregates:          set("count", "sum", "avg", "min", "max"),
		Generators:          set("current_timestamp", "current_date", "current_user"),
		Windows:             set("row_number", "rank", "dense_rank", "ntile", "lag", "lead", "first_value", "last_value"),
		TableFunctions:      set(),
		ReservedKeywords: set(
			"select", "from", "where", "join", "on", "group", "by", "having",
			"order", "union", "insert", "update", "delete", "create", "table",
			"view", "with", "as", "distinct", "and", "or", "not", "null",
		),
	}
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
