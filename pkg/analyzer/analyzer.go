// Package analyzer wires the splitter, parser, resolver, and lineage
// extractor into the public entry point: Analyze and AnalyzeMany turn SQL
// source text (and an optional schema) into a full lineage result.
package analyzer

import (
	"github.com/sqllineage/analyzer/pkg/ast"
	"github.com/sqllineage/analyzer/pkg/dialect"
	_ "github.com/sqllineage/analyzer/pkg/dialects/ansi"
	_ "github.com/sqllineage/analyzer/pkg/dialects/bigquery"
	_ "github.com/sqllineage/analyzer/pkg/dialects/postgres"
	_ "github.com/sqllineage/analyzer/pkg/dialects/snowflake"
	"github.com/sqllineage/analyzer/pkg/global"
	"github.com/sqllineage/analyzer/pkg/issue"
	"github.com/sqllineage/analyzer/pkg/lineage"
	"github.com/sqllineage/analyzer/pkg/parser"
	"github.com/sqllineage/analyzer/pkg/resolver"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/sqllineage/analyzer/pkg/span"
	"github.com/sqllineage/analyzer/pkg/splitter"
)

// Request is one source file (or snippet) to analyze.
type Request struct {
	SQL        string
	Dialect    string // registered dialect name; defaults to "ansi"
	SourceName string
	Schema     []schema.SchemaTable
	Weights    *lineage.ComplexityWeights // nil uses lineage.DefaultComplexityWeights
	Options    *Options                  // nil uses DefaultOptions
}

// Options toggles optional lineage-extraction and cross-statement
// unification behavior. The zero value is never used directly; a nil
// Request.Options resolves to DefaultOptions.
type Options struct {
	// ResolveWildcards expands `*`/`t.*` select items against schema. See
	// lineage.Options.ResolveWildcards.
	ResolveWildcards bool
	// CollectFilters attaches WHERE/HAVING/QUALIFY/ON predicates to their
	// owning relation node. See lineage.Options.CollectFilters.
	CollectFilters bool
	// PropagateTags carries classification tags across promoted global
	// edges. See global.Options.PropagateTags.
	PropagateTags bool
	// UnifyColumns additionally unifies column nodes across statements.
	// See global.Options.UnifyColumns.
	UnifyColumns bool
}

// DefaultOptions matches every existing caller's expectations: wildcards
// resolve against schema, filters are collected, tags propagate, and
// column-level unification stays off.
var DefaultOptions = Options{ResolveWildcards: true, CollectFilters: true, PropagateTags: true, UnifyColumns: false}

func (o *Options) resolve() Options {
	if o == nil {
		return DefaultOptions
	}
	return *o
}

func (o Options) toLineageOptions() lineage.Options {
	return lineage.Options{ResolveWildcards: o.ResolveWildcards, CollectFilters: o.CollectFilters}
}

func (o Options) toGlobalOptions() global.Options {
	return global.Options{PropagateTags: o.PropagateTags, UnifyColumns: o.UnifyColumns}
}

// IssueCount tallies issues by severity.
type IssueCount struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Summary rolls every statement's lineage up into headline numbers.
type Summary struct {
	StatementCount  int              `json:"statementCount"`
	TableCount      int              `json:"tableCount"`
	ColumnCount     int              `json:"columnCount"`
	JoinCount       int              `json:"joinCount"`
	ComplexityScore int              `json:"complexityScore"`
	IssueCount      IssueCount       `json:"issueCount"`
	HasErrors       bool             `json:"hasErrors"`
	TagFlows        []global.TagFlow `json:"tagFlows,omitempty"`
}

// Result is the full output of analyzing one or more requests.
type Result struct {
	Statements    []*lineage.StatementLineage `json:"statements"`
	Issues        []issue.Issue               `json:"issues"`
	Summary       Summary                     `json:"summary"`
	GlobalLineage *global.Lineage             `json:"globalLineage"`
}

// Analyze runs the full pipeline over one request.
func Analyze(req Request) *Result {
	return AnalyzeMany([]Request{req})
}

// unit is one statement chunk queued for parse/resolve/extract, already
// carrying the global stmtIndex it was assigned during the splitting pass
// so its result lands at its source-order position.
type unit struct {
	chunk     splitter.Chunk
	d         *dialect.Dialect
	idx       *schema.Index
	weights   lineage.ComplexityWeights
	opts      Options
	stmtIndex int
}

// AnalyzeMany runs the full pipeline over every request and unifies their
// lineage into one GlobalLineage, letting a table created in one file and
// queried in another still produce a single cross-file edge. Every stage
// runs sequentially on the calling goroutine: splitting assigns statement
// indices in source order, then each resulting chunk is parsed, resolved,
// and extracted in turn.
func AnalyzeMany(reqs []Request) *Result {
	collector := issue.NewCollector()
	var units []unit
	stmtCounter := 0
	globalOpts := global.Options{}

	for _, req := range reqs {
		dialectName := req.Dialect
		if dialectName == "" {
			dialectName = "ansi"
		}
		d, err := dialect.Lookup(dialectName)
		if err != nil {
			collector.Addf(issue.CodeParseError, err.Error(), nil, nil)
			continue
		}

		idx := schema.New(d, req.Schema)
		weights := lineage.DefaultComplexityWeights
		if req.Weights != nil {
			weights = *req.Weights
		}
		opts := req.Options.resolve()
		reqGlobalOpts := opts.toGlobalOptions()
		globalOpts.PropagateTags = globalOpts.PropagateTags || reqGlobalOpts.PropagateTags
		globalOpts.UnifyColumns = globalOpts.UnifyColumns || reqGlobalOpts.UnifyColumns

		chunks, splitIssues := splitter.Split(req.SQL, d, req.SourceName)
		for _, iss := range splitIssues {
			collector.Add(iss)
		}

		for _, chunk := range chunks {
			units = append(units, unit{chunk: chunk, d: d, idx: idx, weights: weights, opts: opts, stmtIndex: stmtCounter})
			stmtCounter++
		}
	}

	statements := make([]*lineage.StatementLineage, len(units))
	issuesByUnit := make([][]issue.Issue, len(units))

	for i, u := range units {
		statements[i], issuesByUnit[i] = analyzeUnit(u)
	}

	for _, iss := range issuesByUnit {
		for _, i := range iss {
			collector.Add(i)
		}
	}

	gl := global.Unify(statements, globalOpts)
	issues := collector.Issues()

	return &Result{
		Statements:    statements,
		Issues:        issues,
		Summary:       buildSummary(statements, issues, gl),
		GlobalLineage: gl,
	}
}

// analyzeUnit parses, resolves, and extracts lineage for one statement
// chunk, merging every stage's issues into a single slice. Every stage
// operates on the chunk's own text, so every span it produces is relative
// to chunk-local offset 0; offsetSpans shifts them back by the chunk's true
// start in the original request source before the result leaves this
// function.
func analyzeUnit(u unit) (*lineage.StatementLineage, []issue.Issue) {
	stmtIndex := u.stmtIndex
	var issues []issue.Issue

	p := parser.New(u.chunk.Text, u.d, &stmtIndex)
	stmt := p.ParseStatement()
	issues = append(issues, p.Issues()...)

	res, resIssues := resolver.New(u.d, u.idx).Resolve(stmt, &stmtIndex)
	issues = append(issues, resIssues...)

	sl, exIssues := lineage.Extract(stmt, res, u.d, u.idx, []byte(u.chunk.Text), stmtIndex, u.chunk.SourceName, u.weights, u.opts.toLineageOptions())
	issues = append(issues, exIssues...)

	offsetSpans(sl, issues, u.chunk.Span.Start)

	return sl, issues
}

// offsetSpans shifts every span produced for one statement chunk by delta,
// the chunk's start offset in the original request source, so spans in the
// final result always point into req.SQL rather than the chunk substring.
func offsetSpans(sl *lineage.StatementLineage, issues []issue.Issue, delta int) {
	if delta == 0 {
		return
	}

	sl.Span = offsetSpan(sl.Span, delta)
	for i := range sl.Nodes {
		for j := range sl.Nodes[i].Filters {
			sl.Nodes[i].Filters[j].Span = offsetSpan(sl.Nodes[i].Filters[j].Span, delta)
		}
	}

	for i := range issues {
		if issues[i].Span == nil {
			continue
		}
		shifted := offsetSpan(*issues[i].Span, delta)
		issues[i].Span = &shifted
	}
}

func offsetSpan(sp span.Span, delta int) span.Span {
	return span.Span{Start: sp.Start + delta, End: sp.End + delta}
}

func buildSummary(statements []*lineage.StatementLineage, issues []issue.Issue, gl *global.Lineage) Summary {
	s := Summary{StatementCount: len(statements), TagFlows: gl.TagFlows}
	if len(gl.Nodes) > 0 {
		s.TableCount = len(gl.Nodes)
	}

	for _, sl := range statements {
		s.JoinCount += sl.JoinCount
		if sl.ComplexityScore > s.ComplexityScore {
			s.ComplexityScore = sl.ComplexityScore
		}
		for _, n := range sl.Nodes {
			if n.Type == lineage.NodeColumn {
				s.ColumnCount++
			}
		}
	}

	for _, iss := range issues {
		switch iss.Severity {
		case issue.SeverityError:
			s.IssueCount.Errors++
			s.HasErrors = true
		case issue.SeverityWarning:
			s.IssueCount.Warnings++
		case issue.SeverityInfo:
			s.IssueCount.Infos++
		}
	}

	return s
}

// StatementType re-exports ast.StatementType so callers of this package
// never need to import pkg/ast just to read a StatementLineage's kind.
type StatementType = ast.StatementType
