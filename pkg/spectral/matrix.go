package spectral

import (
	"math"
	"sort"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
)

// entry is one nonzero element of a sparse symmetric row.
type entry struct {
	col int
	val float64
}

// SparseSym is a symmetric matrix in sorted adjacency-list form. Both halves
// are stored, so row i lists every nonzero column of that row in ascending
// column order.
type SparseSym struct {
	Dim  int
	rows [][]entry
}

// BuildAdjacency derives the hypergraph adjacency matrix A = H D_e^-1 H^T
// with a zeroed diagonal, where H is the |V| x |E| incidence matrix and D_e
// holds hyperedge sizes (floored at 1). Matrix rows follow the
// lexicographically sorted node universe.
func BuildAdjacency(hg *hypergraph.Hypergraph) *SparseSym {
	index := make(map[string]int, hg.NumNodes())
	for i, node := range hg.Nodes {
		index[node] = i
	}

	accum := make([]map[int]float64, hg.NumNodes())
	for i := range accum {
		accum[i] = make(map[int]float64)
	}
	for _, e := range hg.Edges {
		size := e.Size()
		if size == 0 {
			size = 1
		}
		weight := 1.0 / float64(size)
		for i := 0; i < len(e.Nodes); i++ {
			u := index[e.Nodes[i]]
			for j := i + 1; j < len(e.Nodes); j++ {
				v := index[e.Nodes[j]]
				accum[u][v] += weight
				accum[v][u] += weight
			}
		}
	}

	rows := make([][]entry, hg.NumNodes())
	for i, vals := range accum {
		row := make([]entry, 0, len(vals))
		for col, val := range vals {
			row = append(row, entry{col: col, val: val})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		rows[i] = row
	}
	return &SparseSym{Dim: hg.NumNodes(), rows: rows}
}

// BuildLaplacian derives the hypergraph Laplacian from the adjacency matrix:
// I - D^-1/2 A D^-1/2 when normalized, D - A otherwise. Node degrees are the
// adjacency row sums, floored at 1 before either variant so isolated rows
// never divide by zero.
func BuildLaplacian(adj *SparseSym, normalized bool) *SparseSym {
	deg := adj.RowSums()
	for i := range deg {
		if deg[i] == 0 {
			deg[i] = 1
		}
	}

	rows := make([][]entry, adj.Dim)
	for i, row := range adj.rows {
		diag := deg[i]
		if normalized {
			diag = 1.0
		}
		// Adjacency rows carry no diagonal entry, so the diagonal slots in
		// by column order.
		lrow := make([]entry, 0, len(row)+1)
		inserted := false
		for _, e := range row {
			if !inserted && e.col > i {
				lrow = append(lrow, entry{col: i, val: diag})
				inserted = true
			}
			val := -e.val
			if normalized {
				val = -e.val / math.Sqrt(deg[i]*deg[e.col])
			}
			lrow = append(lrow, entry{col: e.col, val: val})
		}
		if !inserted {
			lrow = append(lrow, entry{col: i, val: diag})
		}
		rows[i] = lrow
	}
	return &SparseSym{Dim: adj.Dim, rows: rows}
}

// RowSums returns the sum of each row.
func (m *SparseSym) RowSums() []float64 {
	sums := make([]float64, m.Dim)
	for i, row := range m.rows {
		for _, e := range row {
			sums[i] += e.val
		}
	}
	return sums
}

// MulVec computes dst = M x.
func (m *SparseSym) MulVec(dst, x []float64) {
	for i, row := range m.rows {
		sum := 0.0
		for _, e := range row {
			sum += e.val * x[e.col]
		}
		dst[i] = sum
	}
}

// At returns the element at (i, j) by scanning row i.
func (m *SparseSym) At(i, j int) float64 {
	row := m.rows[i]
	idx := sort.Search(len(row), func(k int) bool { return row[k].col >= j })
	if idx < len(row) && row[idx].col == j {
		return row[idx].val
	}
	return 0
}

// Traces computes Tr(M), Tr(M^2), and Tr(M^3) directly from the sparse
// structure. For symmetric M, Tr(M^2) is the squared Frobenius norm and
// Tr(M^3) sums M_ij * (row_i . row_j) over nonzero entries, staying valid
// when only part of the spectrum was ever computed.
func (m *SparseSym) Traces() (trM, trM2, trM3 float64) {
	for i, row := range m.rows {
		for _, e := range row {
			if e.col == i {
				trM += e.val
			}
			trM2 += e.val * e.val
			trM3 += e.val * m.rowDot(i, e.col)
		}
	}
	return trM, trM2, trM3
}

// rowDot computes the dot product of two sorted sparse rows.
func (m *SparseSym) rowDot(a, b int) float64 {
	ra, rb := m.rows[a], m.rows[b]
	sum := 0.0
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		switch {
		case ra[i].col == rb[j].col:
			sum += ra[i].val * rb[j].val
			i++
			j++
		case ra[i].col < rb[j].col:
			i++
		default:
			j++
		}
	}
	return sum
}
