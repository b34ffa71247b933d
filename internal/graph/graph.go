// Package graph provides a flat, integer-indexed arena for directed graphs
// that may contain cycles (recursive CTEs produce genuine self-loops), used
// by pkg/lineage and pkg/global instead of pointer-linked node structures.
package graph

import "sort"

// NodeID indexes a node in an Arena. The zero value is never assigned by
// AddNode, so a NodeID zero value reliably means "absent".
type NodeID int

// EdgeID indexes an edge in an Arena.
type EdgeID int

type edgeEntry struct {
	from, to NodeID
	typ      string
	data     any
}

// Arena stores nodes and edges in flat slices; all cross-references are
// NodeID/EdgeID indices rather than pointers, so the structure can represent
// cycles without any special-casing.
type Arena struct {
	nodes []any
	edges []edgeEntry
	out   map[NodeID][]EdgeID
	in    map[NodeID][]EdgeID
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{out: make(map[NodeID][]EdgeID), in: make(map[NodeID][]EdgeID)}
}

// AddNode appends a node carrying data and returns its NodeID.
func (a *Arena) AddNode(data any) NodeID {
	a.nodes = append(a.nodes, data)
	return NodeID(len(a.nodes))
}

// Node returns the data attached to id. The second return is false if id is
// out of range.
func (a *Arena) Node(id NodeID) (any, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(a.nodes) {
		return nil, false
	}
	return a.nodes[i], true
}

// NodeCount returns the number of nodes added.
func (a *Arena) NodeCount() int { return len(a.nodes) }

// AddEdge appends a directed edge from -> to of the given type, carrying
// data. Self-loops (from == to) are permitted: recursive CTEs rely on them.
func (a *Arena) AddEdge(from, to NodeID, typ string, data any) EdgeID {
	a.edges = append(a.edges, edgeEntry{from: from, to: to, typ: typ, data: data})
	id := EdgeID(len(a.edges))
	a.out[from] = append(a.out[from], id)
	a.in[to] = append(a.in[to], id)
	return id
}

// HasEdge reports whether an edge from -> to of type typ already exists,
// used to enforce the no-duplicate-triple invariant before calling AddEdge.
func (a *Arena) HasEdge(from, to NodeID, typ string) bool {
	for _, id := range a.out[from] {
		e := a.edges[id-1]
		if e.to == to && e.typ == typ {
			return true
		}
	}
	return false
}

// Edge returns the endpoints, type, and data of id.
func (a *Arena) Edge(id EdgeID) (from, to NodeID, typ string, data any, ok bool) {
	i := int(id) - 1
	if i < 0 || i >= len(a.edges) {
		return 0, 0, "", nil, false
	}
	e := a.edges[i]
	return e.from, e.to, e.typ, e.data, true
}

// EdgeCount returns the number of edges added.
func (a *Arena) EdgeCount() int { return len(a.edges) }

// Out returns the edge IDs leaving id, in insertion order.
func (a *Arena) Out(id NodeID) []EdgeID { return a.out[id] }

// In returns the edge IDs entering id, in insertion order.
func (a *Arena) In(id NodeID) []EdgeID { return a.in[id] }

// EdgesByType returns every edge ID of the given type, grouped by insertion
// order; callers needing canonical (from, to) ordering within a group should
// sort the returned slice with SortEdgesByEndpoints.
func (a *Arena) EdgesByType(typ string) []EdgeID {
	var ids []EdgeID
	for i, e := range a.edges {
		if e.typ == typ {
			ids = append(ids, EdgeID(i+1))
		}
	}
	return ids
}

// SortEdgesByEndpoints orders ids by (from, to) ascending, stable on ties.
func (a *Arena) SortEdgesByEndpoints(ids []EdgeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		ei, ej := a.edges[ids[i]-1], a.edges[ids[j]-1]
		if ei.from != ej.from {
			return ei.from < ej.from
		}
		return ei.to < ej.to
	})
}
