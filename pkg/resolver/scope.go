package resolver

import "github.com/sqllineage/analyzer/pkg/span"

// RelationKind classifies what a ScopeEntry's binding actually is, since a
// bare name can resolve to a CTE, a schema table, or a derived subquery.
type RelationKind string

const (
	KindTable    RelationKind = "table"
	KindView     RelationKind = "view"
	KindCTE      RelationKind = "cte"
	KindDerived  RelationKind = "derived"
	KindUnknown  RelationKind = "unknown"
)

// CanonicalName is the (catalog?, schema?, name) identity of a relation,
// spelled as the matching schema table spells it; names are not case-folded
// here. Resolved is false when no binding could be found; in that case
// Name still carries the surface spelling so the lineage extractor can still
// emit a labeled, unresolved node.
type CanonicalName struct {
	Catalog  string
	Schema   string
	Name     string
	Resolved bool
}

// ScopeEntry binds one alias (or bare relation name, if unaliased) visible
// within a Scope to its canonical relation and the columns it exposes.
type ScopeEntry struct {
	Alias     string
	Canonical CanonicalName
	Kind      RelationKind
	Columns   []string // exposed column names, from schema or inferred from the AST
	Span      span.Span
}

// EffectiveName returns the name other clauses in the same scope use to
// reference this entry: the alias if one was given, else the relation's bare
// name.
func (e *ScopeEntry) EffectiveName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Canonical.Name
}

// HasColumn reports whether name (already case-folded by the caller) is
// among this entry's exposed columns.
func (e *ScopeEntry) HasColumn(foldedName string, fold func(string) string) bool {
	for _, c := range e.Columns {
		if fold(c) == foldedName {
			return true
		}
	}
	return false
}

// Scope holds the relation bindings visible at one nesting level: the
// outermost statement, a WITH CTE binding group, the FROM sources of a
// SELECT, or a correlated subquery extension. Lookups search innermost to
// outermost scope.
type Scope struct {
	parent  *Scope
	entries []*ScopeEntry
}

// NewScope returns an empty scope nested under parent (nil for the
// outermost scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Push registers e as visible in s.
func (s *Scope) Push(e *ScopeEntry) {
	s.entries = append(s.entries, e)
}

// Entries returns this scope's own bindings, in registration order (FROM
// list order, or CTE declaration order).
func (s *Scope) Entries() []*ScopeEntry {
	return s.entries
}

// Lookup searches s and its ancestors, innermost first, for an entry whose
// EffectiveName case-folds (per fold) to name.
func (s *Scope) Lookup(name string, fold func(string) string) (*ScopeEntry, bool) {
	target := fold(name)
	for sc := s; sc != nil; sc = sc.parent {
		for _, e := range sc.entries {
			if fold(e.EffectiveName()) == target {
				return e, true
			}
		}
	}
	return nil, false
}

// VisibleEntries returns every entry visible at s's own FROM level (not
// ancestor scopes), used to expand a bare `*` and to search for the unique
// relation exposing a bare column.
func (s *Scope) VisibleEntries() []*ScopeEntry {
	return s.entries
}
