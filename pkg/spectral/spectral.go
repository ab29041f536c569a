// Package spectral computes adjacency and Laplacian eigenvalue spectra,
// trace statistics, and the spectral distances used to compare hypergraphs.
package spectral

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/stats"
)

// Result contains the output of a spectral analysis.
type Result struct {
	BasicStats        hypergraph.BasicStats `json:"basic_stats"`
	AdjacencySpectrum AdjacencySpectrum     `json:"adjacency_spectrum"`
	LaplacianSpectrum LaplacianSpectrum     `json:"laplacian_spectrum"`
	TraceStatistics   TraceStatistics       `json:"trace_statistics"`
	Statistics        Statistics            `json:"statistics"`
}

// AdjacencySpectrum holds the largest-magnitude adjacency eigenvalues in
// ascending order.
type AdjacencySpectrum struct {
	Eigenvalues    []float64       `json:"eigenvalues"`
	SpectralRadius float64         `json:"spectral_radius"`
	Statistics     EigenvalueStats `json:"statistics"`
	Entropy        float64         `json:"entropy"`
}

// LaplacianSpectrum holds the smallest Laplacian eigenvalues in ascending
// order.
type LaplacianSpectrum struct {
	Eigenvalues []float64       `json:"eigenvalues"`
	SpectralGap float64         `json:"spectral_gap"`
	Statistics  EigenvalueStats `json:"statistics"`
	Entropy     float64         `json:"entropy"`
}

// EigenvalueStats extends the shared summary with the shape moments.
type EigenvalueStats struct {
	stats.Summary
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// TraceStatistics holds adjacency matrix power traces. They are exact even
// when only part of the spectrum was computed.
type TraceStatistics struct {
	TraceA            float64 `json:"trace_A"`
	TraceA2           float64 `json:"trace_A2"`
	TraceA3           float64 `json:"trace_A3"`
	NormalizedTraceA2 float64 `json:"normalized_trace_A2"`
}

// SpectralDistances compares two spectral results. The eigenvalue distance
// maps are present only when both sides produced a non-empty spectrum; the
// Laplacian map always carries spectral_gap_diff.
type SpectralDistances struct {
	AdjacencyDistances   map[string]float64 `json:"adjacency_distances,omitempty"`
	LaplacianDistances   map[string]float64 `json:"laplacian_distances"`
	StatisticalDistances map[string]float64 `json:"statistical_distances"`
}

// Statistics contains analyzer performance metrics.
type Statistics struct {
	RuntimeMS    int64 `json:"runtime_ms"`
	MemoryPeakMB int64 `json:"memory_peak_mb"`
}

// selectMode picks which end of the spectrum a solver call keeps.
type selectMode int

const (
	largestMagnitude selectMode = iota
	smallestValue
)

// Run computes the adjacency and Laplacian spectra plus trace statistics for
// the hypergraph. Matrices of dimension at most spectral.dense_limit use a
// dense decomposition; larger ones use a seeded Lanczos iteration.
func Run(hg *hypergraph.Hypergraph, config *hypergraph.Config, ctx context.Context) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger("spectral")

	logger.Info().
		Int("nodes", hg.NumNodes()).
		Int("hyperedges", hg.NumEdges()).
		Int("k", config.NumEigenvalues()).
		Msg("Starting spectral analysis")

	if err := hg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hypergraph: %w", err)
	}

	rng := rand.New(rand.NewSource(config.RandomSeed()))

	// Step 1: adjacency spectrum (largest magnitude)
	adj := BuildAdjacency(hg)
	adjEig, err := computeEigenvalues(adj, largestMagnitude, config, rng, logger)
	if err != nil {
		return nil, fmt.Errorf("adjacency spectrum: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Step 2: Laplacian spectrum (smallest)
	lap := BuildLaplacian(adj, config.NormalizedLaplacian())
	lapEig, err := computeEigenvalues(lap, smallestValue, config, rng, logger)
	if err != nil {
		return nil, fmt.Errorf("laplacian spectrum: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Step 3: trace statistics from the sparse adjacency structure
	trA, trA2, trA3 := adj.Traces()

	result := &Result{
		BasicStats: hg.Stats(),
		AdjacencySpectrum: AdjacencySpectrum{
			Eigenvalues:    adjEig,
			SpectralRadius: spectralRadius(adjEig),
			Statistics:     describeEigenvalues(adjEig),
			Entropy:        spectrumEntropy(adjEig),
		},
		LaplacianSpectrum: LaplacianSpectrum{
			Eigenvalues: lapEig,
			SpectralGap: spectralGap(lapEig),
			Statistics:  describeEigenvalues(lapEig),
			Entropy:     spectrumEntropy(lapEig),
		},
		TraceStatistics: TraceStatistics{
			TraceA:            trA,
			TraceA2:           trA2,
			TraceA3:           trA3,
			NormalizedTraceA2: trA2 / float64(hg.NumNodes()),
		},
		Statistics: Statistics{
			RuntimeMS:    time.Since(startTime).Milliseconds(),
			MemoryPeakMB: getMemoryUsage(),
		},
	}

	logger.Info().
		Int("adjacency_eigenvalues", len(adjEig)).
		Int("laplacian_eigenvalues", len(lapEig)).
		Float64("spectral_radius", result.AdjacencySpectrum.SpectralRadius).
		Float64("spectral_gap", result.LaplacianSpectrum.SpectralGap).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Spectral analysis completed")

	return result, nil
}

// CompareSpectra computes the spectral distance families between two
// results. Eigenvalue lists are truncated to the shorter length before the
// euclidean and cosine distances; the statistical distances come from the
// adjacency spectrum summaries.
func CompareSpectra(a, b *Result) SpectralDistances {
	d := SpectralDistances{
		LaplacianDistances: make(map[string]float64),
	}

	if n := minLen(a.AdjacencySpectrum.Eigenvalues, b.AdjacencySpectrum.Eigenvalues); n > 0 {
		x := a.AdjacencySpectrum.Eigenvalues[:n]
		y := b.AdjacencySpectrum.Eigenvalues[:n]
		d.AdjacencyDistances = map[string]float64{
			"euclidean": stats.Euclidean(x, y),
			"cosine":    stats.CosineDistance(x, y),
		}
	}

	if n := minLen(a.LaplacianSpectrum.Eigenvalues, b.LaplacianSpectrum.Eigenvalues); n > 0 {
		x := a.LaplacianSpectrum.Eigenvalues[:n]
		y := b.LaplacianSpectrum.Eigenvalues[:n]
		d.LaplacianDistances["euclidean"] = stats.Euclidean(x, y)
		d.LaplacianDistances["cosine"] = stats.CosineDistance(x, y)
	}
	d.LaplacianDistances["spectral_gap_diff"] = math.Abs(a.LaplacianSpectrum.SpectralGap - b.LaplacianSpectrum.SpectralGap)

	d.StatisticalDistances = map[string]float64{
		"mean_diff":    math.Abs(a.AdjacencySpectrum.Statistics.Mean - b.AdjacencySpectrum.Statistics.Mean),
		"std_diff":     math.Abs(a.AdjacencySpectrum.Statistics.Std - b.AdjacencySpectrum.Statistics.Std),
		"entropy_diff": math.Abs(a.AdjacencySpectrum.Entropy - b.AdjacencySpectrum.Entropy),
	}
	return d
}

// computeEigenvalues solves for k eigenvalues of m at the requested end of
// the spectrum, ascending. k is capped at dim-2; when the cap leaves no room
// the list is empty rather than an error.
func computeEigenvalues(m *SparseSym, mode selectMode, config *hypergraph.Config, rng *rand.Rand, logger zerolog.Logger) ([]float64, error) {
	k := config.NumEigenvalues()
	if k > m.Dim-2 {
		k = m.Dim - 2
	}
	if k < 1 {
		logger.Debug().
			Int("dim", m.Dim).
			Msg("Matrix too small for eigenvalue extraction")
		return []float64{}, nil
	}

	var all []float64
	var err error
	if m.Dim <= config.DenseLimit() {
		all, err = denseEigenvalues(m)
	} else {
		steps := config.LanczosSteps()
		if steps <= 0 {
			steps = autoSteps(m.Dim, k)
		}
		logger.Info().
			Int("dim", m.Dim).
			Int("steps", steps).
			Msg("Using Lanczos iteration for large matrix")
		all, err = lanczosEigenvalues(m, steps, rng)
	}
	if err != nil {
		return nil, err
	}
	if len(all) < k {
		k = len(all)
	}

	selected := make([]float64, 0, k)
	switch mode {
	case largestMagnitude:
		byMagnitude := append([]float64(nil), all...)
		sort.Slice(byMagnitude, func(i, j int) bool {
			return math.Abs(byMagnitude[i]) > math.Abs(byMagnitude[j])
		})
		selected = append(selected, byMagnitude[:k]...)
		sort.Float64s(selected)
	case smallestValue:
		selected = append(selected, all[:k]...)
	}
	return selected, nil
}

// describeEigenvalues summarizes an eigenvalue list. The shape moments need
// nonzero variance and at least three (skewness) or four (kurtosis) samples,
// and stay 0 otherwise.
func describeEigenvalues(eig []float64) EigenvalueStats {
	es := EigenvalueStats{Summary: stats.Describe(eig)}
	if es.Std > 0 {
		if len(eig) >= 3 {
			es.Skewness = stat.Skew(eig, nil)
		}
		if len(eig) >= 4 {
			es.Kurtosis = stat.ExKurtosis(eig, nil)
		}
	}
	return es
}

// spectralRadius returns the largest eigenvalue magnitude, 0 for an empty
// spectrum.
func spectralRadius(eig []float64) float64 {
	radius := 0.0
	for _, v := range eig {
		if math.Abs(v) > radius {
			radius = math.Abs(v)
		}
	}
	return radius
}

// spectralGap returns the difference between the two smallest eigenvalues of
// an ascending list, 0 when fewer than two are available.
func spectralGap(eig []float64) float64 {
	if len(eig) < 2 {
		return 0
	}
	return eig[1] - eig[0]
}

// spectrumEntropy computes the base-2 entropy of the eigenvalue magnitudes
// normalized to a probability distribution.
func spectrumEntropy(eig []float64) float64 {
	weights := make([]float64, len(eig))
	for i, v := range eig {
		weights[i] = math.Abs(v)
	}
	return stats.EntropyFromWeights(weights)
}

func minLen(a, b []float64) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}

func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
