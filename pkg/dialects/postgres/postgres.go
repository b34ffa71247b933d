// Package postgres adapts the ANSI dialect with PostgreSQL's identifier
// quoting, E'...'/$$...$$ string literals, and MERGE/COPY/CREATE SCHEMA
// support. It keeps the ANSI join vocabulary unchanged: no semi/anti or
// ASOF join forms are added.
package postgres

import (
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
)

func init() {
	dialect.Register("postgres", New())
}

// New constructs the PostgreSQL dialect.
func New() *dialect.Dialect {
	d := ansi.New()
	d.Name = "postgres"
	d.Identifiers = dialect.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`}
	d.CaseFolding = dialect.NormLowercase
	d.StringLiteralFlavors = []dialect.StringLiteralFlavor{
		{Quote: "'"},
		{Prefix: "E", Quote: "'"},
		{Quote: "$$", Multiline: true},
	}
	d.NumericLiteralForms = dialect.NumericLiteralForms{
		UnderscoreSeparators: true,
		HexLiterals:          true,
		ExponentForms:        true,
	}
	d.SupportsMerge = true
	d.SupportsCopy = true
	d.SupportsCreateSchema = true
	d.Aggregates = merge(d.Aggregates, "string_agg", "array_agg", "bool_and", "bool_or")
	d.Windows = merge(d.Windows, "percent_rank", "cume_dist", "ntile")
	d.Generators = merge(d.Generators, "now", "gen_random_uuid", "nextval")
	d.TableFunctions = merge(d.TableFunctions, "generate_series", "unnest", "jsonb_each")
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
