// Package config loads CLI-level defaults (dialect, schema file, output
// format, complexity weights) from an optional sqllineage.yaml file so
// repeated invocations over the same project don't need to repeat flags.
package config

import "github.com/sqllineage/analyzer/pkg/lineage"

// Weights mirrors lineage.ComplexityWeights for YAML unmarshalling; a zero
// value means "use the default for that term" rather than literally zero,
// since a weight of exactly zero would silently disable a whole term.
type Weights struct {
	Joins     float64 `koanf:"joins"`
	Nodes     float64 `koanf:"nodes"`
	CTEDepth  float64 `koanf:"cte_depth"`
	SubqDepth float64 `koanf:"subquery_depth"`
	Columns   float64 `koanf:"columns"`
}

// Resolve overlays non-zero fields of w onto the defaults.
func (w Weights) Resolve() lineage.ComplexityWeights {
	out := lineage.DefaultComplexityWeights
	if w.Joins != 0 {
		out.Joins = w.Joins
	}
	if w.Nodes != 0 {
		out.Nodes = w.Nodes
	}
	if w.CTEDepth != 0 {
		out.CTEDepth = w.CTEDepth
	}
	if w.SubqDepth != 0 {
		out.SubqDepth = w.SubqDepth
	}
	if w.Columns != 0 {
		out.Columns = w.Columns
	}
	return out
}

// Config is the project-level configuration for the sqllineage CLI.
type Config struct {
	Dialect    string  `koanf:"dialect"`
	SchemaFile string  `koanf:"schema_file"`
	Output     string  `koanf:"output"`
	Verbose    bool    `koanf:"verbose"`
	Weights    Weights `koanf:"weights"`
}
