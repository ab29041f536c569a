// Package structural counts wedge, claw, triangle, and star patterns in a
// hypergraph and measures the diversity of its size and degree distributions.
package structural

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/stats"
)

// Result contains the output of a structural pattern count analysis.
type Result struct {
	BasicStats          hypergraph.BasicStats `json:"basic_stats"`
	WedgeCounts         WedgeCounts           `json:"wedge_counts"`
	ClawCounts          ClawCounts            `json:"claw_counts"`
	TriangleCounts      TriangleCounts        `json:"triangle_counts"`
	StarPatterns        StarPatterns          `json:"star_patterns"`
	StructuralDiversity StructuralDiversity   `json:"structural_diversity"`
	Statistics          Statistics            `json:"statistics"`
}

// WedgeCounts describes intersecting hyperedge pairs. A wedge is an unordered
// pair of distinct hyperedges sharing at least one node. NodeWedgeCounts holds
// the center-based count C(deg(v), 2) per node, which counts a different
// structure than the pair total and is reported alongside it.
type WedgeCounts struct {
	TotalWedges              int            `json:"total_wedges"`
	WedgesByIntersectionSize map[int]int    `json:"wedges_by_intersection_size"`
	NodeWedgeCounts          map[string]int `json:"node_wedge_counts,omitempty"`
	AvgWedgesPerNode         float64        `json:"avg_wedges_per_node"`
}

// ClawCounts describes star-like claws centered on nodes: a node of degree d
// contributes C(d, k) k-claws. Claw5Plus sums C(d, k) for all k >= 5, which
// grows as 2^d and therefore needs arbitrary precision.
type ClawCounts struct {
	NodeDegrees        map[string]int `json:"node_degrees,omitempty"`
	DegreeDistribution map[int]int    `json:"degree_distribution"`
	Claw3              int64          `json:"claw_3"`
	Claw4              int64          `json:"claw_4"`
	Claw5Plus          *big.Int       `json:"claw_5_plus"`
	MaxClawSize        int            `json:"max_claw_size"`
	AvgDegree          float64        `json:"avg_degree"`
	StdDegree          float64        `json:"std_degree"`
}

// TriangleCounts describes hyperedge triples whose three pairwise
// intersections are all non-empty. A triangle is complete when the three
// hyperedges share a common node, partial otherwise. When the triple space
// exceeds the sampling budget the counts are scaled estimates and Sampled is
// set; AvgTriangleSize always reflects observed triangles only.
type TriangleCounts struct {
	TotalTriangles    int64   `json:"total_triangles"`
	CompleteTriangles int64   `json:"complete_triangles"`
	PartialTriangles  int64   `json:"partial_triangles"`
	AvgTriangleSize   float64 `json:"avg_triangle_size"`
	Sampled           bool    `json:"sampled"`
}

// StarPatterns classifies nodes into degree bands and lists the hubs.
type StarPatterns struct {
	LowDegreeStars          int            `json:"low_degree_stars"`
	MediumDegreeStars       int            `json:"medium_degree_stars"`
	HighDegreeStars         int            `json:"high_degree_stars"`
	HubNodes                []Hub          `json:"hub_nodes"`
	StarPatternDistribution map[string]int `json:"star_pattern_distribution"`
}

// Hub is a high-degree node entry in the hub list.
type Hub struct {
	Node   string `json:"node"`
	Degree int    `json:"degree"`
}

// StructuralDiversity holds Shannon entropies of the hyperedge size and node
// degree distributions, in bits, with variants normalized by the maximum
// entropy of the observed number of distinct values.
type StructuralDiversity struct {
	HyperedgeSizeEntropy    float64     `json:"hyperedge_size_entropy"`
	NodeDegreeEntropy       float64     `json:"node_degree_entropy"`
	SizeDistribution        map[int]int `json:"size_distribution"`
	DegreeDistribution      map[int]int `json:"degree_distribution"`
	NormalizedSizeEntropy   float64     `json:"normalized_size_entropy"`
	NormalizedDegreeEntropy float64     `json:"normalized_degree_entropy"`
}

// Statistics contains analyzer performance metrics.
type Statistics struct {
	RuntimeMS    int64 `json:"runtime_ms"`
	MemoryPeakMB int64 `json:"memory_peak_mb"`
}

const progressInterval = 100000

// Run counts all structural patterns in the hypergraph. Triangle counting
// samples hyperedge triples when their total exceeds
// structural.max_triangle_samples, using a generator seeded from
// analysis.random_seed.
func Run(hg *hypergraph.Hypergraph, config *hypergraph.Config, ctx context.Context) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger("structural")

	logger.Info().
		Int("nodes", hg.NumNodes()).
		Int("hyperedges", hg.NumEdges()).
		Msg("Starting structural pattern analysis")

	if err := hg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hypergraph: %w", err)
	}

	wedges := countWedges(hg)
	logger.Info().Int("total_wedges", wedges.TotalWedges).Msg("Wedge counting completed")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	claws := countClaws(hg)
	logger.Info().Int64("claw_3", claws.Claw3).Msg("Claw counting completed")

	rng := rand.New(rand.NewSource(config.RandomSeed()))
	triangles, err := countTriangles(hg, config.MaxTriangleSamples(), rng, logger, ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int64("total_triangles", triangles.TotalTriangles).
		Bool("sampled", triangles.Sampled).
		Msg("Triangle counting completed")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result := &Result{
		BasicStats:          hg.Stats(),
		WedgeCounts:         wedges,
		ClawCounts:          claws,
		TriangleCounts:      triangles,
		StarPatterns:        countStars(hg),
		StructuralDiversity: computeDiversity(hg),
		Statistics: Statistics{
			RuntimeMS:    time.Since(startTime).Milliseconds(),
			MemoryPeakMB: getMemoryUsage(),
		},
	}

	logger.Info().
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Structural pattern analysis completed")

	return result, nil
}

// countWedges accumulates intersecting hyperedge pairs through the node-edge
// index: each shared node bumps its edge pairs by one, so the per-pair tally
// ends up being the intersection size. This skips the disjoint pairs a direct
// O(E^2) sweep would test.
func countWedges(hg *hypergraph.Hypergraph) WedgeCounts {
	pairShared := make(map[[2]int]int)
	for _, node := range hg.Nodes {
		edges := hg.NodeEdges[node]
		for i := 0; i < len(edges); i++ {
			for j := i + 1; j < len(edges); j++ {
				pairShared[[2]int{edges[i], edges[j]}]++
			}
		}
	}

	byIntersection := make(map[int]int)
	for _, shared := range pairShared {
		byIntersection[shared]++
	}

	nodeWedges := make(map[string]int, hg.NumNodes())
	totalNodeWedges := 0
	for _, node := range hg.Nodes {
		degree := hg.Degree(node)
		wedges := degree * (degree - 1) / 2
		nodeWedges[node] = wedges
		totalNodeWedges += wedges
	}
	avgPerNode := 0.0
	if hg.NumNodes() > 0 {
		avgPerNode = float64(totalNodeWedges) / float64(hg.NumNodes())
	}

	return WedgeCounts{
		TotalWedges:              len(pairShared),
		WedgesByIntersectionSize: byIntersection,
		NodeWedgeCounts:          nodeWedges,
		AvgWedgesPerNode:         avgPerNode,
	}
}

func countClaws(hg *hypergraph.Hypergraph) ClawCounts {
	claws := ClawCounts{
		NodeDegrees:        make(map[string]int, hg.NumNodes()),
		DegreeDistribution: make(map[int]int),
		Claw5Plus:          big.NewInt(0),
	}

	degrees := make([]float64, 0, hg.NumNodes())
	for _, node := range hg.Nodes {
		degree := hg.Degree(node)
		claws.NodeDegrees[node] = degree
		claws.DegreeDistribution[degree]++
		degrees = append(degrees, float64(degree))

		if degree >= 3 {
			claws.Claw3 += stats.Binomial(degree, 3)
		}
		if degree >= 4 {
			claws.Claw4 += stats.Binomial(degree, 4)
		}
		if degree >= 5 {
			claws.Claw5Plus.Add(claws.Claw5Plus, clawFivePlus(degree))
		}
		if degree > claws.MaxClawSize {
			claws.MaxClawSize = degree
		}
	}

	claws.AvgDegree = stats.Mean(degrees)
	claws.StdDegree = stats.PopStd(degrees)
	return claws
}

// clawFivePlus returns sum_{k=5..d} C(d, k) using the closed form
// 2^d - sum_{k=0..4} C(d, k).
func clawFivePlus(degree int) *big.Int {
	total := new(big.Int).Lsh(big.NewInt(1), uint(degree))
	for k := int64(0); k <= 4; k++ {
		total.Sub(total, new(big.Int).Binomial(int64(degree), k))
	}
	return total
}

func countTriangles(hg *hypergraph.Hypergraph, maxSamples int, rng *rand.Rand, logger zerolog.Logger, ctx context.Context) (TriangleCounts, error) {
	triangles := TriangleCounts{}
	numEdges := hg.NumEdges()
	totalCombinations := stats.Binomial(numEdges, 3)

	sizeSum := 0
	sizeCount := 0

	record := func(i, j, k int) {
		e1, e2, e3 := hg.Edges[i], hg.Edges[j], hg.Edges[k]
		if !hypergraph.Intersects(e1, e2) || !hypergraph.Intersects(e2, e3) || !hypergraph.Intersects(e1, e3) {
			return
		}
		triangles.TotalTriangles++
		if hypergraph.TripleIntersects(e1, e2, e3) {
			triangles.CompleteTriangles++
		} else {
			triangles.PartialTriangles++
		}
		sizeSum += hypergraph.UnionSize(e1, e2, e3)
		sizeCount++
	}

	if totalCombinations > int64(maxSamples) {
		logger.Warn().
			Int("hyperedges", numEdges).
			Int64("total_combinations", totalCombinations).
			Int("max_samples", maxSamples).
			Msg("Triple space too large, sampling triangles")
		triangles.Sampled = true

		for sampled := 1; sampled <= maxSamples; sampled++ {
			i, j, k := sampleTriple(rng, numEdges)
			record(i, j, k)

			if sampled%progressInterval == 0 {
				select {
				case <-ctx.Done():
					return triangles, ctx.Err()
				default:
				}
				logger.Debug().
					Int("sampled", sampled).
					Int("max_samples", maxSamples).
					Msg("Triangle sampling progress")
			}
		}

		// Scale counts up by the inverse sampling ratio. The observed
		// average size is left unscaled.
		ratio := float64(maxSamples) / float64(totalCombinations)
		triangles.TotalTriangles = int64(float64(triangles.TotalTriangles) / ratio)
		triangles.CompleteTriangles = int64(float64(triangles.CompleteTriangles) / ratio)
		triangles.PartialTriangles = int64(float64(triangles.PartialTriangles) / ratio)
	} else {
		checked := 0
		for i := 0; i < numEdges; i++ {
			for j := i + 1; j < numEdges; j++ {
				for k := j + 1; k < numEdges; k++ {
					record(i, j, k)
					checked++
					if checked%progressInterval == 0 {
						select {
						case <-ctx.Done():
							return triangles, ctx.Err()
						default:
						}
						logger.Debug().
							Int("checked", checked).
							Int64("total_combinations", totalCombinations).
							Msg("Triangle enumeration progress")
					}
				}
			}
		}
	}

	if sizeCount > 0 {
		triangles.AvgTriangleSize = float64(sizeSum) / float64(sizeCount)
	}
	return triangles, nil
}

// sampleTriple draws three distinct hyperedge indices in ascending order.
func sampleTriple(rng *rand.Rand, n int) (int, int, int) {
	a := rng.Intn(n)
	b := rng.Intn(n)
	for b == a {
		b = rng.Intn(n)
	}
	c := rng.Intn(n)
	for c == a || c == b {
		c = rng.Intn(n)
	}
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return a, b, c
}

func countStars(hg *hypergraph.Hypergraph) StarPatterns {
	patterns := StarPatterns{
		HubNodes:                make([]Hub, 0),
		StarPatternDistribution: make(map[string]int),
	}

	for _, node := range hg.Nodes {
		degree := hg.Degree(node)
		switch {
		case degree <= 5:
			patterns.LowDegreeStars++
			patterns.StarPatternDistribution["low"]++
		case degree <= 20:
			patterns.MediumDegreeStars++
			patterns.StarPatternDistribution["medium"]++
		default:
			patterns.HighDegreeStars++
			patterns.StarPatternDistribution["high"]++
			patterns.HubNodes = append(patterns.HubNodes, Hub{Node: node, Degree: degree})
		}
	}

	// Ties keep node ID order because hg.Nodes is sorted.
	sort.SliceStable(patterns.HubNodes, func(i, j int) bool {
		return patterns.HubNodes[i].Degree > patterns.HubNodes[j].Degree
	})
	if len(patterns.HubNodes) > 10 {
		patterns.HubNodes = patterns.HubNodes[:10]
	}

	return patterns
}

func computeDiversity(hg *hypergraph.Hypergraph) StructuralDiversity {
	sizeDist := make(map[int]int)
	for _, e := range hg.Edges {
		sizeDist[e.Size()]++
	}
	degreeDist := make(map[int]int)
	for _, node := range hg.Nodes {
		degreeDist[hg.Degree(node)]++
	}

	return StructuralDiversity{
		HyperedgeSizeEntropy:    stats.Entropy(sizeDist),
		NodeDegreeEntropy:       stats.Entropy(degreeDist),
		SizeDistribution:        sizeDist,
		DegreeDistribution:      degreeDist,
		NormalizedSizeEntropy:   stats.NormalizedEntropy(sizeDist),
		NormalizedDegreeEntropy: stats.NormalizedEntropy(degreeDist),
	}
}

func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
