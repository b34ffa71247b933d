// Package global unifies the per-statement lineage graphs pkg/lineage
// produces into one cross-statement graph: the same physical table
// referenced from ten different queries becomes one GlobalNode, and a
// data_flow/derivation edge between two statement-local relations is
// promoted into an edge between their GlobalNodes.
package global

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sqllineage/analyzer/pkg/lineage"
)

// StatementRef points back at one statement-local node that contributed to
// a GlobalNode's identity.
type StatementRef struct {
	StatementIndex int `json:"statementIndex"`
	NodeID         int `json:"nodeId"`
}

// GlobalNode is one physically distinct relation across every analyzed
// statement, keyed by its case-folded (catalog, schema, name) triple.
// Relation kinds that are never cross-statement (CTEs, the virtual output
// node) are not unified and never appear here. StatementRefs is never
// empty: a GlobalNode only exists because at least one statement's node
// mapped to it.
type GlobalNode struct {
	ID            int              `json:"id"`
	Type          lineage.NodeType `json:"type"`
	Catalog       string           `json:"catalog,omitempty"`
	Schema        string           `json:"schema,omitempty"`
	Name          string           `json:"name"`
	StatementRefs []StatementRef   `json:"statementRefs"`
}

// GlobalEdge is a data_flow or derivation edge promoted from some
// statement's column-level edges, deduplicated by (from, to, type) across
// every statement that exercises the same pair of relations.
type GlobalEdge struct {
	ID   int              `json:"id"`
	From int              `json:"from"`
	To   int              `json:"to"`
	Type lineage.EdgeType `json:"type"`
}

// TagFlow records that a classification tag attached to a source column
// reaches a relation through at least one promoted edge.
type TagFlow struct {
	Tag  string `json:"tag"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// GlobalColumn is a column identity unified across statements under the
// same owning GlobalNode, only populated when Options.UnifyColumns is set.
type GlobalColumn struct {
	ID            int            `json:"id"`
	Owner         int            `json:"owner"` // GlobalNode.ID
	Name          string         `json:"name"`
	StatementRefs []StatementRef `json:"statementRefs"`
}

// Lineage is the unified cross-statement graph.
type Lineage struct {
	Nodes    []GlobalNode   `json:"nodes"`
	Edges    []GlobalEdge   `json:"edges"`
	TagFlows []TagFlow      `json:"tagFlows,omitempty"`
	Columns  []GlobalColumn `json:"columns,omitempty"`
}

// Options toggles optional cross-statement unification behavior.
type Options struct {
	// PropagateTags carries a source column's classification tags across a
	// promoted edge into a TagFlow. Defaults to true.
	PropagateTags bool
	// UnifyColumns additionally unifies column nodes owned by the same
	// GlobalNode, populating Lineage.Columns. Defaults to false: relation-
	// level unification alone is cheaper and is what most callers want.
	UnifyColumns bool
}

// DefaultOptions matches the behavior every existing caller expects:
// tags propagate, columns stay statement-local.
var DefaultOptions = Options{PropagateTags: true, UnifyColumns: false}

type key struct {
	catalog, schema, name string
}

// newKey derives a GlobalNode's identity from a table/view node's canonical
// name, whether or not the schema resolved it; missing parts stay empty and
// unify with other empty parts. Callers are responsible for only passing
// table/view nodes: CTEs and the virtual output node are statement-local and
// never unified.
func newKey(n *lineage.Node) (key, bool) {
	if n.Canonical == nil {
		return key{}, false
	}
	return key{strings.ToLower(n.Canonical.Catalog), strings.ToLower(n.Canonical.Schema), strings.ToLower(n.Canonical.Name)}, true
}

// typePriority ranks which Type wins when two statements disagree about
// whether a name is a table or a view (a view created in one statement,
// then referenced as a plain relation before its DDL is known elsewhere).
func typePriority(t lineage.NodeType) int {
	if t == lineage.NodeView {
		return 0
	}
	return 1
}

// colKey identifies a column unified under UnifyColumns: the owning
// GlobalNode id plus the column's case-folded name.
type colKey struct {
	owner int
	name  string
}

// unifier accumulates global nodes/edges while walking every statement.
type unifier struct {
	opts      Options
	nodeByKey map[key]int // 1-based GlobalNode id
	nodes     []GlobalNode
	edgeSeen  map[[3]int]bool // (from, to, int(type))
	edges     []GlobalEdge
	tagSeen   map[[2]string]bool
	tagFlows  []TagFlow
	colByKey  map[colKey]int // 1-based GlobalColumn id
	columns   []GlobalColumn
}

func edgeTypeCode(t lineage.EdgeType) int {
	if t == lineage.EdgeDerivation {
		return 1
	}
	return 0 // data_flow
}

func (u *unifier) globalID(n *lineage.Node, stmtIndex int) (int, bool) {
	k, ok := newKey(n)
	if !ok {
		return 0, false
	}
	ref := StatementRef{StatementIndex: stmtIndex, NodeID: n.ID}
	if id, ok := u.nodeByKey[k]; ok {
		if typePriority(n.Type) < typePriority(u.nodes[id-1].Type) {
			u.nodes[id-1].Type = n.Type
		}
		u.nodes[id-1].StatementRefs = append(u.nodes[id-1].StatementRefs, ref)
		return id, true
	}
	u.nodes = append(u.nodes, GlobalNode{
		Type:          n.Type,
		Catalog:       n.Canonical.Catalog,
		Schema:        n.Canonical.Schema,
		Name:          n.Canonical.Name,
		StatementRefs: []StatementRef{ref},
	})
	id := len(u.nodes)
	u.nodeByKey[k] = id
	return id, true
}

// columnGlobalID returns the GlobalColumn id for name owned by ownerGlobal,
// creating it on first use. Only called when Options.UnifyColumns is set.
func (u *unifier) columnGlobalID(ownerGlobal int, name string, stmtIndex, nodeID int) int {
	k := colKey{ownerGlobal, strings.ToLower(name)}
	ref := StatementRef{StatementIndex: stmtIndex, NodeID: nodeID}
	if id, ok := u.colByKey[k]; ok {
		u.columns[id-1].StatementRefs = append(u.columns[id-1].StatementRefs, ref)
		return id
	}
	u.columns = append(u.columns, GlobalColumn{Owner: ownerGlobal, Name: name, StatementRefs: []StatementRef{ref}})
	id := len(u.columns)
	u.colByKey[k] = id
	return id
}

func (u *unifier) addEdge(from, to int, t lineage.EdgeType) {
	k := [3]int{from, to, edgeTypeCode(t)}
	if u.edgeSeen[k] {
		return
	}
	u.edgeSeen[k] = true
	u.edges = append(u.edges, GlobalEdge{From: from, To: to, Type: t})
}

func (u *unifier) addTagFlow(tag string, from, to int) {
	k := [2]string{tag, keyFor(from, to)}
	if u.tagSeen[k] {
		return
	}
	u.tagSeen[k] = true
	u.tagFlows = append(u.tagFlows, TagFlow{Tag: tag, From: from, To: to})
}

func keyFor(from, to int) string {
	return strconv.Itoa(from) + ":" + strconv.Itoa(to)
}

// Unify builds the cross-statement graph from every statement's lineage.
func Unify(statements []*lineage.StatementLineage, opts Options) *Lineage {
	u := &unifier{
		opts:      opts,
		nodeByKey: make(map[key]int),
		edgeSeen:  make(map[[3]int]bool),
		tagSeen:   make(map[[2]string]bool),
		colByKey:  make(map[colKey]int),
	}

	for _, sl := range statements {
		if sl == nil {
			continue
		}
		u.absorb(sl)
	}

	sort.SliceStable(u.edges, func(i, j int) bool {
		if u.edges[i].From != u.edges[j].From {
			return u.edges[i].From < u.edges[j].From
		}
		return u.edges[i].To < u.edges[j].To
	})
	for i := range u.edges {
		u.edges[i].ID = i + 1
	}
	sortRefs := func(refs []StatementRef) {
		sort.SliceStable(refs, func(a, b int) bool {
			if refs[a].StatementIndex != refs[b].StatementIndex {
				return refs[a].StatementIndex < refs[b].StatementIndex
			}
			return refs[a].NodeID < refs[b].NodeID
		})
	}
	for i := range u.nodes {
		u.nodes[i].ID = i + 1
		sortRefs(u.nodes[i].StatementRefs)
	}
	for i := range u.columns {
		u.columns[i].ID = i + 1
		sortRefs(u.columns[i].StatementRefs)
	}

	return &Lineage{Nodes: u.nodes, Edges: u.edges, TagFlows: u.tagFlows, Columns: u.columns}
}

// absorb promotes one statement's column-level data_flow/derivation edges
// into relation-level global edges, quotiented through each column's
// owning relation.
func (u *unifier) absorb(sl *lineage.StatementLineage) {
	ownerOf := make(map[int]int, len(sl.Nodes)) // local column node id -> local relation node id
	globalOf := make(map[int]int, len(sl.Nodes))
	tagsOf := make(map[int][]lineage.Tag, len(sl.Nodes))

	for _, n := range sl.Nodes {
		if n.Type == lineage.NodeTable || n.Type == lineage.NodeView {
			if gid, ok := u.globalID(&n, sl.StatementIndex); ok {
				globalOf[n.ID] = gid
			}
		}
		if len(n.Tags) > 0 {
			tagsOf[n.ID] = n.Tags
		}
	}
	for _, e := range sl.Edges {
		if e.Type == lineage.EdgeOwnership {
			ownerOf[e.To] = e.From
		}
	}

	colLabel := make(map[int]string, len(sl.Nodes))
	if u.opts.UnifyColumns {
		for _, n := range sl.Nodes {
			if n.Type == lineage.NodeColumn {
				colLabel[n.ID] = n.Label
			}
		}
	}

	for _, e := range sl.Edges {
		if e.Type != lineage.EdgeDataFlow && e.Type != lineage.EdgeDerivation {
			continue
		}
		fromRelLocal, ok1 := ownerOf[e.From]
		toRelLocal, ok2 := ownerOf[e.To]
		if !ok1 || !ok2 {
			continue
		}
		fromGlobal, ok1 := globalOf[fromRelLocal]
		toGlobal, ok2 := globalOf[toRelLocal]
		if !ok1 || !ok2 || fromGlobal == toGlobal {
			continue
		}
		u.addEdge(fromGlobal, toGlobal, e.Type)
		if u.opts.PropagateTags {
			for _, tag := range tagsOf[e.From] {
				u.addTagFlow(tag.Name, fromGlobal, toGlobal)
			}
		}
		if u.opts.UnifyColumns {
			if name, ok := colLabel[e.From]; ok {
				u.columnGlobalID(fromGlobal, name, sl.StatementIndex, e.From)
			}
			if name, ok := colLabel[e.To]; ok {
				u.columnGlobalID(toGlobal, name, sl.StatementIndex, e.To)
			}
		}
	}
}
