package evaluation

import (
	"math"
	"sort"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/spectral"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/stats"
)

// Distances groups the per-family distance scalars between two bundles plus
// an aggregate over all of them. Every family is symmetric in its inputs.
type Distances struct {
	Spectral   spectral.SpectralDistances `json:"spectral"`
	Clustering ClusteringDistances        `json:"clustering"`
	Structural StructuralDistances        `json:"structural"`
	Motif      MotifDistances             `json:"motif"`
	Overall    OverallDistances           `json:"overall"`
}

// ClusteringDistances holds the absolute differences of the three global
// clustering scalars.
type ClusteringDistances struct {
	NodeClusteringDiff     float64 `json:"node_clustering_diff"`
	WeightedClusteringDiff float64 `json:"weighted_clustering_diff"`
	EdgeClusteringDiff     float64 `json:"edge_clustering_diff"`
}

// StructuralDistances holds size-normalized structural count differences, so
// hypergraphs of different scale stay comparable.
type StructuralDistances struct {
	WedgeRatioDiff float64 `json:"wedge_ratio_diff"`
	ClawRatioDiff  float64 `json:"claw_ratio_diff"`
	EntropyDiff    float64 `json:"entropy_diff"`
}

// MotifDistances holds the motif-level differences.
type MotifDistances struct {
	SpectrumEntropyDiff  float64 `json:"spectrum_entropy_diff"`
	PairCooccurrenceDiff float64 `json:"pair_cooccurrence_diff"`
	EdgeDensityDiff      float64 `json:"edge_density_diff"`
}

// OverallDistances aggregates every scalar distance across the families.
type OverallDistances struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Compare computes the distance families between two bundles.
func Compare(generated, reference *Bundle) *Distances {
	d := &Distances{
		Spectral:   spectral.CompareSpectra(reference.Spectral, generated.Spectral),
		Clustering: compareClustering(generated, reference),
		Structural: compareStructural(generated, reference),
		Motif:      compareMotif(generated, reference),
	}
	d.Overall = aggregateOverall(d)
	return d
}

func compareClustering(generated, reference *Bundle) ClusteringDistances {
	g := generated.Clustering.GlobalClustering
	r := reference.Clustering.GlobalClustering
	return ClusteringDistances{
		NodeClusteringDiff:     math.Abs(r.AverageNodeClustering - g.AverageNodeClustering),
		WeightedClusteringDiff: math.Abs(r.WeightedNodeClustering - g.WeightedNodeClustering),
		EdgeClusteringDiff:     math.Abs(r.AverageEdgeClustering - g.AverageEdgeClustering),
	}
}

func compareStructural(generated, reference *Bundle) StructuralDistances {
	g, r := generated.Structural, reference.Structural
	return StructuralDistances{
		WedgeRatioDiff: math.Abs(
			float64(r.WedgeCounts.TotalWedges)/float64(maxInt(r.BasicStats.NumHyperedges, 1)) -
				float64(g.WedgeCounts.TotalWedges)/float64(maxInt(g.BasicStats.NumHyperedges, 1))),
		ClawRatioDiff: math.Abs(
			float64(r.ClawCounts.Claw3)/float64(maxInt(r.BasicStats.NumNodes, 1)) -
				float64(g.ClawCounts.Claw3)/float64(maxInt(g.BasicStats.NumNodes, 1))),
		EntropyDiff: math.Abs(r.StructuralDiversity.NormalizedSizeEntropy - g.StructuralDiversity.NormalizedSizeEntropy),
	}
}

func compareMotif(generated, reference *Bundle) MotifDistances {
	g, r := generated.Motif, reference.Motif
	return MotifDistances{
		SpectrumEntropyDiff:  math.Abs(r.MotifSpectrum.SpectrumEntropy - g.MotifSpectrum.SpectrumEntropy),
		PairCooccurrenceDiff: math.Abs(r.PairwiseMotifs.AvgCooccurrence - g.PairwiseMotifs.AvgCooccurrence),
		EdgeDensityDiff:      math.Abs(r.DenseMotifs.AvgEdgeDensity - g.DenseMotifs.AvgEdgeDensity),
	}
}

// aggregateOverall summarizes every scalar distance, including the nested
// spectral maps.
func aggregateOverall(d *Distances) OverallDistances {
	scalars := []float64{
		d.Clustering.NodeClusteringDiff,
		d.Clustering.WeightedClusteringDiff,
		d.Clustering.EdgeClusteringDiff,
		d.Structural.WedgeRatioDiff,
		d.Structural.ClawRatioDiff,
		d.Structural.EntropyDiff,
		d.Motif.SpectrumEntropyDiff,
		d.Motif.PairCooccurrenceDiff,
		d.Motif.EdgeDensityDiff,
	}
	// Sorted key order keeps the aggregate identical across runs.
	for _, m := range []map[string]float64{
		d.Spectral.AdjacencyDistances,
		d.Spectral.LaplacianDistances,
		d.Spectral.StatisticalDistances,
	} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			scalars = append(scalars, m[k])
		}
	}

	summary := stats.Describe(scalars)
	return OverallDistances{
		Mean:   summary.Mean,
		Median: summary.Median,
		Min:    summary.Min,
		Max:    summary.Max,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
