// Package dialect models the per-database capability set consulted by the
// lexer, parser, and resolver: identifier quoting, case folding, literal
// syntax, and the set of functions/joins/statement forms a dialect supports.
package dialect

import "strings"

// NormalizationStrategy controls how an unquoted identifier is case-folded
// before canonical-name comparison.
type NormalizationStrategy int

const (
	NormLowercase NormalizationStrategy = iota
	NormUppercase
	NormSensitive   // identifiers compare as written, never folded
	NormInsensitive // folded to lowercase for comparison but not display
)

// FunctionLineage classifies how a function call affects column lineage.
type FunctionLineage int

const (
	LineagePassthrough FunctionLineage = iota
	LineageAggregate
	LineageGenerator
	LineageWindow
	LineageTableFunction
)

func (t FunctionLineage) String() string {
	switch t {
	case LineageAggregate:
		return "aggregate"
	case LineageGenerator:
		return "generator"
	case LineageWindow:
		return "window"
	case LineageTableFunction:
		return "table"
	default:
		return "passthrough"
	}
}

// JoinType is the canonical join kind carried on a join_dependency edge.
type JoinType string

const (
	JoinInner      JoinType = "INNER"
	JoinLeft       JoinType = "LEFT"
	JoinRight      JoinType = "RIGHT"
	JoinFull       JoinType = "FULL"
	JoinCross      JoinType = "CROSS"
	JoinLeftSemi   JoinType = "LEFT_SEMI"
	JoinRightSemi  JoinType = "RIGHT_SEMI"
	JoinLeftAnti   JoinType = "LEFT_ANTI"
	JoinRightAnti  JoinType = "RIGHT_ANTI"
	JoinCrossApply JoinType = "CROSS_APPLY"
	JoinOuterApply JoinType = "OUTER_APPLY"
	JoinAsOf       JoinType = "AS_OF"
)

// IdentifierConfig configures quoting for one dialect.
type IdentifierConfig struct {
	Quote    string // opening quote character(s): ", `, [
	QuoteEnd string // closing quote character(s): ", `, ]
	Escape   string // escaped-quote sequence inside a quoted identifier
}

// StringLiteralFlavor describes one accepted string-literal spelling, e.g.
// standard '...', Postgres E'...'/$$...$$, or BigQuery r"..."/b"...".
type StringLiteralFlavor struct {
	Prefix    string // case-insensitive literal prefix, "" for the bare form
	Quote     string // quote delimiter, e.g. "'" or "$$"
	Multiline bool   // whether the literal may span newlines unescaped
}

// NumericLiteralForms flags which numeric spellings a dialect accepts
// beyond plain decimal integers/floats.
type NumericLiteralForms struct {
	UnderscoreSeparators bool // 1_000_000
	HexLiterals          bool // 0x1F
	ExponentForms        bool // 1e10
}

// JoinTypeDef maps a dialect's surface join keyword(s) to a canonical JoinType.
type JoinTypeDef struct {
	Keywords []string // lowercased keyword sequence, e.g. []string{"left","semi"}
	Type     JoinType
}

// Dialect is the full capability set for one SQL dialect.
type Dialect struct {
	Name        string
	Identifiers IdentifierConfig
	CaseFolding NormalizationStrategy

	ReservedKeywords     map[string]struct{}
	StringLiteralFlavors []StringLiteralFlavor
	NumericLiteralForms  NumericLiteralForms

	SupportsNamedArgs     bool
	SupportsLambda        bool
	SupportsQualify       bool
	SupportsPivot         bool
	SupportsMerge         bool
	SupportsCopy          bool
	SupportsCreateSchema  bool
	SupportsStarModifiers bool // EXCEPT(...)/REPLACE(...) inside SELECT *

	JoinTypes []JoinTypeDef

	Aggregates     map[string]struct{}
	Generators     map[string]struct{}
	Windows        map[string]struct{}
	TableFunctions map[string]struct{}
}

// NormalizeName case-folds name per the dialect's folding rule. Callers
// that know an identifier was quoted should skip calling this and compare
// the raw spelling instead, since quoting suppresses folding in every
// supported dialect.
func (d *Dialect) NormalizeName(name string) string {
	switch d.CaseFolding {
	case NormUppercase:
		return strings.ToUpper(name)
	case NormSensitive:
		return name
	default: // NormLowercase, NormInsensitive
		return strings.ToLower(name)
	}
}

// FunctionLineageType classifies name for lineage purposes.
func (d *Dialect) FunctionLineageType(name string) FunctionLineage {
	n := d.NormalizeName(name)
	if _, ok := d.TableFunctions[n]; ok {
		return LineageTableFunction
	}
	if _, ok := d.Aggregates[n]; ok {
		return LineageAggregate
	}
	if _, ok := d.Generators[n]; ok {
		return LineageGenerator
	}
	if _, ok := d.Windows[n]; ok {
		return LineageWindow
	}
	return LineagePassthrough
}

func (d *Dialect) IsAggregate(name string) bool { return d.FunctionLineageType(name) == LineageAggregate }
func (d *Dialect) IsWindow(name string) bool     { return d.FunctionLineageType(name) == LineageWindow }
func (d *Dialect) IsGenerator(name string) bool  { return d.FunctionLineageType(name) == LineageGenerator }

// IsReservedWord reports whether word needs quoting to use as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.ReservedKeywords[d.NormalizeName(word)]
	return ok
}

// QuoteIdentifier quotes name using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// JoinKeywordType resolves a lowercased keyword sequence (e.g. "left","join")
// to its canonical JoinType, defaulting to INNER for a bare "join".
func (d *Dialect) JoinKeywordType(keywords []string) JoinType {
	for _, def := range d.JoinTypes {
		if keywordsEqual(def.Keywords, keywords) {
			return def.Type
		}
	}
	return JoinInner
}

func keywordsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
