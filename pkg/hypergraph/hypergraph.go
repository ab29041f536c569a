package hypergraph

import (
	"fmt"
	"sort"
)

// Edge is a single hyperedge: a set of node identifiers.
type Edge struct {
	Nodes   []string // sorted member identifiers
	members map[string]struct{}
}

// NewEdge builds a hyperedge from raw tokens, deduplicating them.
func NewEdge(tokens []string) Edge {
	members := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		members[tok] = struct{}{}
	}
	nodes := make([]string, 0, len(members))
	for id := range members {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return Edge{Nodes: nodes, members: members}
}

// Size returns the number of distinct nodes in the hyperedge.
func (e Edge) Size() int { return len(e.Nodes) }

// Contains reports whether the hyperedge includes the given node.
func (e Edge) Contains(id string) bool {
	_, ok := e.members[id]
	return ok
}

// Hypergraph is the immutable in-memory model shared by all analyzers.
// Edges keep file order; Nodes is the sorted node universe; NodeEdges maps
// each node to the sorted indices of the hyperedges containing it.
type Hypergraph struct {
	Edges     []Edge
	Nodes     []string
	NodeEdges map[string][]int
}

// New builds a hypergraph from raw token lines. Lines with zero tokens are
// dropped; duplicate tokens within a line collapse.
func New(lines [][]string) *Hypergraph {
	h := &Hypergraph{NodeEdges: make(map[string][]int)}
	for _, tokens := range lines {
		edge := NewEdge(tokens)
		if edge.Size() == 0 {
			continue
		}
		idx := len(h.Edges)
		h.Edges = append(h.Edges, edge)
		for _, id := range edge.Nodes {
			h.NodeEdges[id] = append(h.NodeEdges[id], idx)
		}
	}
	h.Nodes = make([]string, 0, len(h.NodeEdges))
	for id := range h.NodeEdges {
		h.Nodes = append(h.Nodes, id)
	}
	sort.Strings(h.Nodes)
	return h
}

// NumNodes returns the size of the node universe.
func (h *Hypergraph) NumNodes() int { return len(h.Nodes) }

// NumEdges returns the number of hyperedges.
func (h *Hypergraph) NumEdges() int { return len(h.Edges) }

// Degree returns the number of hyperedges containing the node.
func (h *Hypergraph) Degree(id string) int { return len(h.NodeEdges[id]) }

// AvgEdgeSize returns the mean hyperedge size, 0 for an empty hypergraph.
func (h *Hypergraph) AvgEdgeSize() float64 {
	if len(h.Edges) == 0 {
		return 0
	}
	total := 0
	for _, e := range h.Edges {
		total += e.Size()
	}
	return float64(total) / float64(len(h.Edges))
}

// BasicStats is the summary block every analyzer result embeds.
type BasicStats struct {
	NumNodes         int     `json:"num_nodes"`
	NumHyperedges    int     `json:"num_hyperedges"`
	AvgHyperedgeSize float64 `json:"avg_hyperedge_size"`
}

// Stats returns the basic summary of the hypergraph.
func (h *Hypergraph) Stats() BasicStats {
	return BasicStats{
		NumNodes:         h.NumNodes(),
		NumHyperedges:    h.NumEdges(),
		AvgHyperedgeSize: h.AvgEdgeSize(),
	}
}

// Validate checks structural consistency of the model.
func (h *Hypergraph) Validate() error {
	if len(h.Edges) == 0 {
		return fmt.Errorf("hypergraph has no hyperedges")
	}
	for i, e := range h.Edges {
		if e.Size() == 0 {
			return fmt.Errorf("hyperedge %d is empty", i)
		}
	}
	for id, edges := range h.NodeEdges {
		if len(edges) == 0 {
			return fmt.Errorf("node %s has no incident hyperedges", id)
		}
		for _, idx := range edges {
			if idx < 0 || idx >= len(h.Edges) {
				return fmt.Errorf("node %s references invalid hyperedge index %d", id, idx)
			}
			if !h.Edges[idx].Contains(id) {
				return fmt.Errorf("node %s indexed under hyperedge %d but not a member", id, idx)
			}
		}
	}
	return nil
}

// Neighbors returns the sorted union of co-members of id across all
// hyperedges containing it, excluding id itself.
func (h *Hypergraph) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	for _, idx := range h.NodeEdges[id] {
		for _, other := range h.Edges[idx].Nodes {
			if other != id {
				seen[other] = struct{}{}
			}
		}
	}
	neighbors := make([]string, 0, len(seen))
	for other := range seen {
		neighbors = append(neighbors, other)
	}
	sort.Strings(neighbors)
	return neighbors
}

// CoOccur reports whether u and w share at least one hyperedge.
func (h *Hypergraph) CoOccur(u, w string) bool {
	return intersectsSorted(h.NodeEdges[u], h.NodeEdges[w], -1)
}

// CoOccurExcluding reports whether u and w share a hyperedge other than
// the one at index excl.
func (h *Hypergraph) CoOccurExcluding(u, w string, excl int) bool {
	return intersectsSorted(h.NodeEdges[u], h.NodeEdges[w], excl)
}

// CoOccurTriple reports whether some hyperedge contains u, v, and w.
func (h *Hypergraph) CoOccurTriple(u, v, w string) bool {
	a, b, c := h.NodeEdges[u], h.NodeEdges[v], h.NodeEdges[w]
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) && k < len(c) {
		if a[i] == b[j] && b[j] == c[k] {
			return true
		}
		lowest := a[i]
		if b[j] < lowest {
			lowest = b[j]
		}
		if c[k] < lowest {
			lowest = c[k]
		}
		if a[i] == lowest {
			i++
		}
		if b[j] == lowest {
			j++
		}
		if c[k] == lowest {
			k++
		}
	}
	return false
}

// CoOccurCount returns the number of hyperedges containing both u and w.
func (h *Hypergraph) CoOccurCount(u, w string) int {
	a, b := h.NodeEdges[u], h.NodeEdges[w]
	count := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			count++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return count
}

// intersectsSorted reports whether two ascending index slices share an
// element other than skip.
func intersectsSorted(a, b []int, skip int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			if a[i] != skip {
				return true
			}
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// IntersectionSize returns the number of nodes two hyperedges share.
func IntersectionSize(a, b Edge) int {
	small, large := a, b
	if small.Size() > large.Size() {
		small, large = large, small
	}
	count := 0
	for _, id := range small.Nodes {
		if large.Contains(id) {
			count++
		}
	}
	return count
}

// Intersects reports whether two hyperedges share at least one node.
func Intersects(a, b Edge) bool {
	small, large := a, b
	if small.Size() > large.Size() {
		small, large = large, small
	}
	for _, id := range small.Nodes {
		if large.Contains(id) {
			return true
		}
	}
	return false
}

// TripleIntersects reports whether three hyperedges share a common node.
func TripleIntersects(a, b, c Edge) bool {
	smallest := a
	if b.Size() < smallest.Size() {
		smallest = b
	}
	if c.Size() < smallest.Size() {
		smallest = c
	}
	for _, id := range smallest.Nodes {
		if a.Contains(id) && b.Contains(id) && c.Contains(id) {
			return true
		}
	}
	return false
}

// UnionSize returns the number of distinct nodes across three hyperedges.
func UnionSize(a, b, c Edge) int {
	seen := make(map[string]struct{}, a.Size()+b.Size()+c.Size())
	for _, e := range []Edge{a, b, c} {
		for _, id := range e.Nodes {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
