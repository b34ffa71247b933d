// Package lineage extracts, for one parsed and resolved statement, the
// node/edge graph describing how its output columns derive from its source
// relations: the core artifact the rest of the pipeline (global unification,
// result assembly) is built around.
package lineage

import (
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	"github.com/sqllineage/analyzer/pkg/resolver"
	"github.com/sqllineage/analyzer/pkg/span"
)

// NodeType classifies a Node.
type NodeType string

const (
	NodeTable  NodeType = "table"
	NodeView   NodeType = "view"
	NodeCTE    NodeType = "cte"
	NodeColumn NodeType = "column"
	NodeOutput NodeType = "output"
)

// EdgeType classifies an Edge.
type EdgeType string

const (
	EdgeOwnership      EdgeType = "ownership"
	EdgeDataFlow       EdgeType = "data_flow"
	EdgeDerivation     EdgeType = "derivation"
	EdgeJoinDependency EdgeType = "join_dependency"
)

// Filter is one WHERE/HAVING/QUALIFY/ON predicate surfaced on its owning
// relation node; filters never create edges.
type Filter struct {
	Expression string    `json:"expression"`
	Span       span.Span `json:"span"`
	Kind       string    `json:"kind"` // where, having, qualify, on
}

// Aggregation tags an output column node produced by an aggregate function.
type Aggregation struct {
	Function         string   `json:"function"`
	IsDistinct       bool     `json:"isDistinct"`
	FilterExpression string   `json:"filterExpression,omitempty"`
	OrderBy          []string `json:"orderBy,omitempty"`
}

// Tag is a propagated classification label on a column node.
type Tag struct {
	Name   string `json:"name"`
	Source string `json:"source"` // imported, user, propagated
}

// Node is one vertex of a statement's lineage graph. ID is the node's
// 1-based position in StatementLineage.Nodes (an arena index, stable for
// the life of the result).
type Node struct {
	ID          int                     `json:"id"`
	Type        NodeType                `json:"type"`
	Label       string                  `json:"label"`
	Canonical   *resolver.CanonicalName `json:"canonicalName,omitempty"`
	IsCreated   bool                    `json:"isCreated,omitempty"`
	IsRecursive bool                    `json:"isRecursive,omitempty"`
	Filters     []Filter                `json:"filters,omitempty"`
	Aggregation *Aggregation            `json:"aggregation,omitempty"`
	Tags        []Tag                   `json:"tags,omitempty"`
}

// Edge is one directed connection between two Nodes of the same statement.
type Edge struct {
	ID            int              `json:"id"`
	From          int              `json:"from"`
	To            int              `json:"to"`
	Type          EdgeType         `json:"type"`
	Expression    string           `json:"expression,omitempty"`
	JoinType      dialect.JoinType `json:"joinType,omitempty"`
	JoinCondition string           `json:"joinCondition,omitempty"`
}

// ComplexityWeights parameterizes the complexityScore formula: joinCount,
// log(nodeCount+1), cteDepth, subqueryDepth, and columnCount/10 each scaled
// by a configurable weight.
type ComplexityWeights struct {
	Joins     float64
	Nodes     float64
	CTEDepth  float64
	SubqDepth float64
	Columns   float64
}

// DefaultComplexityWeights gives joins and structural nesting the heaviest
// influence, nodeCount a moderate log-scaled influence, and raw column count
// the lightest — an analyst skimming complexityScore should see it move
// mostly on control-flow shape (joins, nesting), not on wide SELECT lists.
var DefaultComplexityWeights = ComplexityWeights{
	Joins:     15,
	Nodes:     10,
	CTEDepth:  8,
	SubqDepth: 8,
	Columns:   1,
}

// Options toggles extraction behavior that isn't always the right default
// for every caller.
type Options struct {
	// ResolveWildcards expands a `*`/`t.*` select item into one column node
	// per schema column. When false, a wildcard instead produces one
	// passthrough column node (named "alias.*") for each relation it covers,
	// with a data_flow edge from that relation, and never raises
	// CodeWildcardNoSchema.
	ResolveWildcards bool
	// CollectFilters attaches WHERE/HAVING/QUALIFY/ON predicates to their
	// owning relation node. When false, filters are dropped entirely.
	CollectFilters bool
}

// DefaultOptions resolves wildcards against schema and collects filters —
// the behavior every existing caller expects.
var DefaultOptions = Options{ResolveWildcards: true, CollectFilters: true}

// StatementLineage is the full lineage graph for one statement.
type StatementLineage struct {
	StatementIndex  int               `json:"statementIndex"`
	StatementType   ast.StatementType `json:"statementType"`
	SourceName      string            `json:"sourceName,omitempty"`
	Nodes           []Node            `json:"nodes"`
	Edges           []Edge            `json:"edges"`
	JoinCount       int               `json:"joinCount"`
	ComplexityScore int               `json:"complexityScore"`
	Span            span.Span         `json:"span"`
}
