// Package motifs analyzes recurring interaction patterns in a hypergraph:
// pairwise co-occurrence, sampled triadic classification, the hyperedge size
// spectrum, dense hyperedges, and participation-weighted node centrality.
package motifs

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/stats"
)

// Result contains the output of a motif analysis.
type Result struct {
	BasicStats      hypergraph.BasicStats `json:"basic_stats"`
	PairwiseMotifs  PairwiseMotifs        `json:"pairwise_motifs"`
	TriadicMotifs   TriadicMotifs         `json:"triadic_motifs"`
	MotifSpectrum   MotifSpectrum         `json:"motif_spectrum"`
	DenseMotifs     DenseMotifs           `json:"dense_motifs"`
	MotifCentrality MotifCentrality       `json:"motif_centrality"`
	Statistics      Statistics            `json:"statistics"`
}

// PairwiseMotifs classifies co-occurring node pairs: simple pairs share
// exactly one hyperedge, multiple pairs share more than one.
type PairwiseMotifs struct {
	SimplePairs          int         `json:"simple_pairs"`
	MultiplePairs        int         `json:"multiple_pairs"`
	PairCooccurrenceDist map[int]int `json:"pair_cooccurrence_dist"`
	AvgCooccurrence      float64     `json:"avg_cooccurrence"`
	MaxCooccurrence      int         `json:"max_cooccurrence"`
	TotalPairs           int         `json:"total_pairs"`
}

// TriadicMotifs classifies node triples drawn from a fixed-size sample by
// connection pattern. The classification is priority ordered: closed triangle
// (one hyperedge holds all three), open triad (every pair co-occurs, no
// common hyperedge), path triad (exactly two pairs co-occur), star triad
// (each node merely has degree > 0). First match wins.
type TriadicMotifs struct {
	ClosedTriangles    int            `json:"closed_triangles"`
	OpenTriads         int            `json:"open_triads"`
	StarTriads         int            `json:"star_triads"`
	PathTriads         int            `json:"path_triads"`
	MotifDistribution  map[string]int `json:"motif_distribution"`
	TotalSampledTriads int            `json:"total_sampled_triads"`
}

// MotifSpectrum buckets hyperedges by size and measures the entropy of the
// full size distribution.
type MotifSpectrum struct {
	Size2Motifs       int         `json:"size_2_motifs"`
	Size3Motifs       int         `json:"size_3_motifs"`
	Size4Motifs       int         `json:"size_4_motifs"`
	Size5PlusMotifs   int         `json:"size_5_plus_motifs"`
	SizeDistribution  map[int]int `json:"size_distribution"`
	SpectrumEntropy   float64     `json:"spectrum_entropy"`
	NormalizedEntropy float64     `json:"normalized_entropy"`
}

// DenseMotifs buckets hyperedges by internal density: the fraction of member
// pairs that co-occur in at least one other hyperedge. Hyperedges with fewer
// than two members are skipped entirely.
type DenseMotifs struct {
	HighDensityEdges   int     `json:"high_density_edges"`
	MediumDensityEdges int     `json:"medium_density_edges"`
	LowDensityEdges    int     `json:"low_density_edges"`
	AvgEdgeDensity     float64 `json:"avg_edge_density"`
	StdEdgeDensity     float64 `json:"std_edge_density"`
	MedianEdgeDensity  float64 `json:"median_edge_density"`
}

// MotifCentrality scores each node by the summed sizes of its hyperedges, a
// weighted participation proxy. Scores are normalized by the maximum;
// AvgMotifParticipation reports the unnormalized mean.
type MotifCentrality struct {
	TopMotifCentralNodes  []CentralNode   `json:"top_motif_central_nodes"`
	AvgMotifParticipation float64         `json:"avg_motif_participation"`
	CentralityStats       CentralityStats `json:"centrality_stats"`
}

// CentralNode is one entry of the top central nodes list.
type CentralNode struct {
	Node       string  `json:"node"`
	Centrality float64 `json:"centrality"`
}

// CentralityStats summarizes the normalized centrality scores.
type CentralityStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// Statistics contains analyzer performance metrics.
type Statistics struct {
	RuntimeMS    int64 `json:"runtime_ms"`
	MemoryPeakMB int64 `json:"memory_peak_mb"`
}

// Run computes all motif metrics for the hypergraph. Triadic classification
// samples up to motifs.triad_sample_size nodes using a generator seeded from
// analysis.random_seed; all other metrics are exact.
func Run(hg *hypergraph.Hypergraph, config *hypergraph.Config, ctx context.Context) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger("motifs")

	logger.Info().
		Int("nodes", hg.NumNodes()).
		Int("hyperedges", hg.NumEdges()).
		Msg("Starting motif analysis")

	if err := hg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hypergraph: %w", err)
	}

	pairwise := identifyPairwiseMotifs(hg)
	logger.Info().Int("total_pairs", pairwise.TotalPairs).Msg("Pairwise motif identification completed")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rng := rand.New(rand.NewSource(config.RandomSeed()))
	triadic, err := identifyTriadicMotifs(hg, config.TriadSampleSize(), rng, ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("total_sampled_triads", triadic.TotalSampledTriads).
		Int("closed_triangles", triadic.ClosedTriangles).
		Msg("Triadic motif classification completed")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result := &Result{
		BasicStats:      hg.Stats(),
		PairwiseMotifs:  pairwise,
		TriadicMotifs:   triadic,
		MotifSpectrum:   computeMotifSpectrum(hg),
		DenseMotifs:     identifyDenseMotifs(hg),
		MotifCentrality: computeMotifCentrality(hg),
		Statistics: Statistics{
			RuntimeMS:    time.Since(startTime).Milliseconds(),
			MemoryPeakMB: getMemoryUsage(),
		},
	}

	logger.Info().
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Motif analysis completed")

	return result, nil
}

func identifyPairwiseMotifs(hg *hypergraph.Hypergraph) PairwiseMotifs {
	pairCounts := make(map[[2]string]int)
	for _, e := range hg.Edges {
		// Edge.Nodes is sorted, so i<j yields the canonical pair key.
		for i := 0; i < len(e.Nodes); i++ {
			for j := i + 1; j < len(e.Nodes); j++ {
				pairCounts[[2]string{e.Nodes[i], e.Nodes[j]}]++
			}
		}
	}

	motifs := PairwiseMotifs{
		PairCooccurrenceDist: make(map[int]int),
		TotalPairs:           len(pairCounts),
	}
	totalCooccurrence := 0
	for _, count := range pairCounts {
		motifs.PairCooccurrenceDist[count]++
		totalCooccurrence += count
		if count > motifs.MaxCooccurrence {
			motifs.MaxCooccurrence = count
		}
	}
	motifs.SimplePairs = motifs.PairCooccurrenceDist[1]
	for count, pairs := range motifs.PairCooccurrenceDist {
		if count > 1 {
			motifs.MultiplePairs += pairs
		}
	}
	if len(pairCounts) > 0 {
		motifs.AvgCooccurrence = float64(totalCooccurrence) / float64(len(pairCounts))
	}
	return motifs
}

func identifyTriadicMotifs(hg *hypergraph.Hypergraph, sampleSize int, rng *rand.Rand, ctx context.Context) (TriadicMotifs, error) {
	motifs := TriadicMotifs{MotifDistribution: make(map[string]int)}

	if sampleSize > hg.NumNodes() {
		sampleSize = hg.NumNodes()
	}
	perm := rng.Perm(hg.NumNodes())
	sample := make([]string, sampleSize)
	for i := 0; i < sampleSize; i++ {
		sample[i] = hg.Nodes[perm[i]]
	}

	for i := 0; i < len(sample); i++ {
		select {
		case <-ctx.Done():
			return motifs, ctx.Err()
		default:
		}
		for j := i + 1; j < len(sample); j++ {
			for k := j + 1; k < len(sample); k++ {
				u, v, w := sample[i], sample[j], sample[k]

				uv := hg.CoOccur(u, v)
				vw := hg.CoOccur(v, w)
				uw := hg.CoOccur(u, w)
				connectedPairs := 0
				for _, connected := range []bool{uv, vw, uw} {
					if connected {
						connectedPairs++
					}
				}

				switch {
				case hg.CoOccurTriple(u, v, w):
					motifs.ClosedTriangles++
					motifs.MotifDistribution["closed_triangle"]++
				case connectedPairs == 3:
					motifs.OpenTriads++
					motifs.MotifDistribution["open_triad"]++
				case connectedPairs == 2:
					motifs.PathTriads++
					motifs.MotifDistribution["path_triad"]++
				case hg.Degree(u) > 0 && hg.Degree(v) > 0 && hg.Degree(w) > 0:
					motifs.StarTriads++
					motifs.MotifDistribution["star_triad"]++
				}
			}
		}
	}

	for _, count := range motifs.MotifDistribution {
		motifs.TotalSampledTriads += count
	}
	return motifs, nil
}

func computeMotifSpectrum(hg *hypergraph.Hypergraph) MotifSpectrum {
	spectrum := MotifSpectrum{SizeDistribution: make(map[int]int)}
	for _, e := range hg.Edges {
		size := e.Size()
		spectrum.SizeDistribution[size]++
		switch {
		case size == 2:
			spectrum.Size2Motifs++
		case size == 3:
			spectrum.Size3Motifs++
		case size == 4:
			spectrum.Size4Motifs++
		case size >= 5:
			spectrum.Size5PlusMotifs++
		}
	}
	spectrum.SpectrumEntropy = stats.Entropy(spectrum.SizeDistribution)
	spectrum.NormalizedEntropy = stats.NormalizedEntropy(spectrum.SizeDistribution)
	return spectrum
}

func identifyDenseMotifs(hg *hypergraph.Hypergraph) DenseMotifs {
	motifs := DenseMotifs{}
	densities := make([]float64, 0, hg.NumEdges())

	for _, e := range hg.Edges {
		if e.Size() < 2 {
			continue
		}
		connected := 0
		for i := 0; i < len(e.Nodes); i++ {
			for j := i + 1; j < len(e.Nodes); j++ {
				// The current hyperedge always contributes one shared edge,
				// so a count above 1 means the pair recurs elsewhere.
				if hg.CoOccurCount(e.Nodes[i], e.Nodes[j]) > 1 {
					connected++
				}
			}
		}
		possible := e.Size() * (e.Size() - 1) / 2
		density := float64(connected) / float64(possible)
		densities = append(densities, density)

		switch {
		case density > 0.8:
			motifs.HighDensityEdges++
		case density > 0.5:
			motifs.MediumDensityEdges++
		default:
			motifs.LowDensityEdges++
		}
	}

	if len(densities) > 0 {
		motifs.AvgEdgeDensity = stats.Mean(densities)
		motifs.StdEdgeDensity = stats.PopStd(densities)
		sort.Float64s(densities)
		motifs.MedianEdgeDensity = stats.Percentile(densities, 0.5)
	}
	return motifs
}

func computeMotifCentrality(hg *hypergraph.Hypergraph) MotifCentrality {
	raw := make([]float64, hg.NumNodes())
	for i, node := range hg.Nodes {
		total := 0
		for _, idx := range hg.NodeEdges[node] {
			total += hg.Edges[idx].Size()
		}
		raw[i] = float64(total)
	}

	maxScore := 1.0
	for _, score := range raw {
		if score > maxScore {
			maxScore = score
		}
	}
	normalized := make([]float64, len(raw))
	for i, score := range raw {
		normalized[i] = score / maxScore
	}

	ranked := make([]CentralNode, hg.NumNodes())
	for i, node := range hg.Nodes {
		ranked[i] = CentralNode{Node: node, Centrality: normalized[i]}
	}
	// Ties keep node ID order because hg.Nodes is sorted.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Centrality > ranked[j].Centrality
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	centrality := MotifCentrality{
		TopMotifCentralNodes:  ranked,
		AvgMotifParticipation: stats.Mean(raw),
	}

	if len(normalized) > 0 {
		sorted := make([]float64, len(normalized))
		copy(sorted, normalized)
		sort.Float64s(sorted)
		centrality.CentralityStats = CentralityStats{
			Mean:   stats.Mean(normalized),
			Std:    stats.PopStd(normalized),
			Median: stats.Percentile(sorted, 0.5),
			Max:    sorted[len(sorted)-1],
			Min:    sorted[0],
		}
	}
	return centrality
}

func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
