// Package issue collects diagnostics produced by every stage of the
// analysis pipeline and orders/deduplicates them for the final result.
package issue

import (
	"sort"

	"github.com/sqllineage/analyzer/pkg/span"
)

// Severity ranks an Issue for ordering and for summary.issueCount tallying.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// rank orders severities error < warning < info, matching §4.G's ordering rule.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Code identifies the kind of diagnostic. Each code has a fixed severity.
type Code string

const (
	CodeUnterminatedLiteral  Code = "UNTERMINATED_LITERAL"
	CodeParseError           Code = "PARSE_ERROR"
	CodeUnknownTable         Code = "UNKNOWN_TABLE"
	CodeUnknownColumn        Code = "UNKNOWN_COLUMN"
	CodeAmbiguousColumn      Code = "AMBIGUOUS_COLUMN"
	CodeSchemaConflict       Code = "SCHEMA_CONFLICT"
	CodeWildcardNoSchema     Code = "WILDCARD_NO_SCHEMA"
	CodeRecursiveCTESelfRef  Code = "RECURSIVE_CTE_SELF_REF"
	CodeUnsupportedStatement Code = "UNSUPPORTED_STATEMENT"
)

// severities fixes the severity for each code, per spec §7.
var severities = map[Code]Severity{
	CodeUnterminatedLiteral:  SeverityError,
	CodeParseError:           SeverityError,
	CodeUnknownTable:         SeverityWarning,
	CodeUnknownColumn:        SeverityWarning,
	CodeAmbiguousColumn:      SeverityWarning,
	CodeSchemaConflict:       SeverityWarning,
	CodeWildcardNoSchema:     SeverityInfo,
	CodeRecursiveCTESelfRef:  SeverityInfo,
	CodeUnsupportedStatement: SeverityWarning,
}

// SeverityOf returns the fixed severity for code.
func SeverityOf(code Code) Severity {
	if s, ok := severities[code]; ok {
		return s
	}
	return SeverityWarning
}

// Issue is a single diagnostic attached to an optional statement and span.
type Issue struct {
	Severity       Severity   `json:"severity"`
	Code           Code       `json:"code"`
	Message        string     `json:"message"`
	StatementIndex *int       `json:"statementIndex,omitempty"`
	Span           *span.Span `json:"span,omitempty"`
}

// New builds an Issue with the code's fixed severity.
func New(code Code, message string, statementIndex *int, sp *span.Span) Issue {
	return Issue{
		Severity:       SeverityOf(code),
		Code:           code,
		Message:        message,
		StatementIndex: statementIndex,
		Span:           sp,
	}
}

// Collector accumulates issues from every stage of one analysis and
// produces a deduplicated, ordered slice.
type Collector struct {
	issues []Issue
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records an issue.
func (c *Collector) Add(i Issue) {
	c.issues = append(c.issues, i)
}

// Addf is a convenience constructor-and-add.
func (c *Collector) Addf(code Code, message string, statementIndex *int, sp *span.Span) {
	c.Add(New(code, message, statementIndex, sp))
}

type dedupKey struct {
	code    Code
	message string
	start   int
	end     int
	hasSpan bool
}

// Issues returns the deduplicated issues ordered by
// (statementIndex asc, span.start asc, severity asc), per §4.G.
func (c *Collector) Issues() []Issue {
	seen := make(map[dedupKey]struct{}, len(c.issues))
	out := make([]Issue, 0, len(c.issues))
	for _, iss := range c.issues {
		key := dedupKey{code: iss.Code, message: iss.Message}
		if iss.Span != nil {
			key.hasSpan = true
			key.start = iss.Span.Start
			key.end = iss.Span.End
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, iss)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ai, bi := statementIndexOrMax(a.StatementIndex), statementIndexOrMax(b.StatementIndex)
		if ai != bi {
			return ai < bi
		}
		as, bs := spanStartOrMax(a.Span), spanStartOrMax(b.Span)
		if as != bs {
			return as < bs
		}
		return a.Severity.rank() < b.Severity.rank()
	})
	return out
}

func statementIndexOrMax(i *int) int {
	if i == nil {
		return int(^uint(0) >> 1)
	}
	return *i
}

func spanStartOrMax(s *span.Span) int {
	if s == nil {
		return int(^uint(0) >> 1)
	}
	return s.Start
}
