// Package snowflake adapts the ANSI dialect with Snowflake's uppercase
// identifier folding, QUALIFY clause, ASOF join, and semi/anti join forms.
package snowflake

import (
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/dialects/ansi"
)

func init() {
	dialect.Register("snowflake", New())
}

// New constructs the Snowflake dialect.
func New() *dialect.Dialect {
	d := ansi.New()
	d.Name = "snowflake"
	d.Identifiers = dialect.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`}
	d.CaseFolding = dialect.NormUppercase
	d.StringLiteralFlavors = []dialect.StringLiteralFlavor{
		{Quote: "'"},
		{Quote: "$$", Multiline: true},
	}
	d.NumericLiteralForms = dialect.NumericLiteralForms{
		UnderscoreSeparators: true,
		ExponentForms:        true,
	}
	d.SupportsQualify = true
	d.SupportsMerge = true
	d.SupportsCopy = true
	d.SupportsCreateSchema = true
	d.SupportsStarModifiers = true
	d.JoinTypes = append(append([]dialect.JoinTypeDef{}, d.JoinTypes...),
		dialect.JoinTypeDef{Keywords: []string{"left", "semi", "join"}, Type: dialect.JoinLeftSemi},
		dialect.JoinTypeDef{Keywords: []string{"right", "semi", "join"}, Type: dialect.JoinRightSemi},
		dialect.JoinTypeDef{Keywords: []string{"left", "anti", "join"}, Type: dialect.JoinLeftAnti},
		dialect.JoinTypeDef{Keywords: []string{"right", "anti", "join"}, Type: dialect.JoinRightAnti},
		dialect.JoinTypeDef{Keywords: []string{"asof", "join"}, Type: dialect.JoinAsOf},
	)
	d.Aggregates = merge(d.Aggregates, "listagg", "array_agg", "approx_count_distinct")
	d.Windows = merge(d.Windows, "percent_rank", "cume_dist", "ratio_to_report")
	d.Generators = merge(d.Generators, "current_timestamp", "uuid_string", "seq4")
	d.TableFunctions = merge(d.TableFunctions, "flatten", "generator", "split_to_table")
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
