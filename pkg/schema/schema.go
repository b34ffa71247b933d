// Package schema indexes caller-supplied table definitions so the resolver
// can look up relations and columns by canonical name. CREATE TABLE/VIEW
// statements in the analyzed input are not added to the index.
package schema

import "github.com/sqllineage/analyzer/pkg/dialect"

// Origin distinguishes a table definition the caller supplied directly from
// an implied one. Nothing in the analyzer creates implied entries: tables
// built by New are imported.
type Origin string

const (
	OriginImported Origin = "imported"
	OriginImplied  Origin = "implied"
)

// ForeignKey references the column a FK column points at.
type ForeignKey struct {
	Table  string
	Column string
}

// ColumnSchema describes one column of a SchemaTable.
type ColumnSchema struct {
	Name            string
	DataType        string
	IsPrimaryKey    bool
	ForeignKey      *ForeignKey
	Classifications []string
}

// SchemaTable is one relation's definition.
type SchemaTable struct {
	Catalog string
	Schema  string
	Name    string
	Columns []ColumnSchema
	Origin  Origin
}

// triple is the case-folded lookup key for a SchemaTable.
type triple struct {
	catalog, schema, name string
}

// Index answers canonical-name and column lookups over a set of tables,
// case-folded per the dialect that built it. A nil *Index, or one built from
// zero tables, degrades every lookup to "not found" rather than erroring.
type Index struct {
	d         *dialect.Dialect
	byTriple  map[triple]*SchemaTable
	byBare    map[string][]*SchemaTable // bare name -> every table with that name
}

// New builds an Index over tables, case-folding every identifier per d.
func New(d *dialect.Dialect, tables []SchemaTable) *Index {
	idx := &Index{d: d, byTriple: make(map[triple]*SchemaTable), byBare: make(map[string][]*SchemaTable)}
	for i := range tables {
		t := &tables[i]
		key := idx.keyOf(t.Catalog, t.Schema, t.Name)
		idx.byTriple[key] = t
		bare := idx.fold(t.Name)
		idx.byBare[bare] = append(idx.byBare[bare], t)
	}
	return idx
}

func (idx *Index) fold(s string) string {
	if idx == nil || idx.d == nil {
		return s
	}
	return idx.d.NormalizeName(s)
}

func (idx *Index) keyOf(catalog, schema, name string) triple {
	return triple{idx.fold(catalog), idx.fold(schema), idx.fold(name)}
}

// Lookup resolves a possibly-partial name to a SchemaTable. An empty
// catalog/schema is treated as "unspecified": if no exact triple match is
// found, Lookup falls back to a bare-name match, returning it only when
// exactly one table carries that bare name (an ambiguous bare name is
// reported as not found, leaving disambiguation to the resolver).
func (idx *Index) Lookup(catalog, schema, name string) (*SchemaTable, bool) {
	if idx == nil {
		return nil, false
	}
	if t, ok := idx.byTriple[idx.keyOf(catalog, schema, name)]; ok {
		return t, true
	}
	if catalog == "" && schema == "" {
		candidates := idx.byBare[idx.fold(name)]
		if len(candidates) == 1 {
			return candidates[0], true
		}
	}
	return nil, false
}

// Column looks up a column by name on t, case-folded per the index's
// dialect. Returns false if t is nil or the column is absent.
func (idx *Index) Column(t *SchemaTable, name string) (ColumnSchema, bool) {
	if t == nil {
		return ColumnSchema{}, false
	}
	folded := idx.fold(name)
	for _, c := range t.Columns {
		if idx.fold(c.Name) == folded {
			return c, true
		}
	}
	return ColumnSchema{}, false
}

// PrimaryKeys returns the primary-key columns of t, in column order.
func (idx *Index) PrimaryKeys(t *SchemaTable) []ColumnSchema {
	if t == nil {
		return nil
	}
	var pks []ColumnSchema
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// ForeignKeys returns the foreign-key columns of t, in column order.
func (idx *Index) ForeignKeys(t *SchemaTable) []ColumnSchema {
	if t == nil {
		return nil
	}
	var fks []ColumnSchema
	for _, c := range t.Columns {
		if c.ForeignKey != nil {
			fks = append(fks, c)
		}
	}
	return fks
}

// Classifications returns the tags declared on column name of t.
func (idx *Index) Classifications(t *SchemaTable, name string) []string {
	c, ok := idx.Column(t, name)
	if !ok {
		return nil
	}
	return c.Classifications
}

// Tables returns every table in the index. It walks a map, so the order of
// the returned tables is not defined.
func (idx *Index) Tables() []*SchemaTable {
	if idx == nil {
		return nil
	}
	tables := make([]*SchemaTable, 0, len(idx.byTriple))
	seen := make(map[*SchemaTable]bool)
	for _, candidates := range idx.byBare {
		for _, t := range candidates {
			if !seen[t] {
				seen[t] = true
				tables = append(tables, t)
			}
		}
	}
	return tables
}

// Add registers t into the index. The analyzer does not call it: CREATE
// TABLE/VIEW statements in the input do not add schema entries.
func (idx *Index) Add(t SchemaTable) {
	key := idx.keyOf(t.Catalog, t.Schema, t.Name)
	stored := t
	idx.byTriple[key] = &stored
	bare := idx.fold(t.Name)
	idx.byBare[bare] = append(idx.byBare[bare], &stored)
}
