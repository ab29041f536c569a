package spectral

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func newSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// cycleLines builds n two-node hyperedges forming a ring, so the adjacency
// spectrum is known in closed form and full of repeated eigenvalues.
func cycleLines(n int) [][]string {
	lines := make([][]string, n)
	for i := 0; i < n; i++ {
		lines[i] = []string{fmt.Sprintf("n%02d", i), fmt.Sprintf("n%02d", (i+1)%n)}
	}
	return lines
}

func TestBuildAdjacencySingleTriangle(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	adj := BuildAdjacency(hg)

	if adj.Dim != 3 {
		t.Fatalf("dim = %d, want 3", adj.Dim)
	}
	for i := 0; i < 3; i++ {
		if adj.At(i, i) != 0 {
			t.Errorf("diagonal (%d,%d) = %v, want 0", i, i, adj.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if i != j && !almostEqual(adj.At(i, j), 1.0/3.0) {
				t.Errorf("A(%d,%d) = %v, want 1/3", i, j, adj.At(i, j))
			}
		}
	}
	for i, sum := range adj.RowSums() {
		if !almostEqual(sum, 2.0/3.0) {
			t.Errorf("row sum %d = %v, want 2/3", i, sum)
		}
	}
}

func TestBuildAdjacencyOverlappingEdges(t *testing.T) {
	hg := hypergraph.New([][]string{
		{"1", "2", "3"},
		{"2", "3", "4"},
	})
	adj := BuildAdjacency(hg)

	// Nodes sort to [1 2 3 4]; the shared pair {2,3} accumulates both
	// hyperedge weights.
	checks := []struct {
		i, j int
		want float64
	}{
		{0, 1, 1.0 / 3.0},
		{0, 2, 1.0 / 3.0},
		{0, 3, 0},
		{1, 2, 2.0 / 3.0},
		{1, 3, 1.0 / 3.0},
		{2, 3, 1.0 / 3.0},
	}
	for _, c := range checks {
		if got := adj.At(c.i, c.j); !almostEqual(got, c.want) {
			t.Errorf("A(%d,%d) = %v, want %v", c.i, c.j, got, c.want)
		}
		if got := adj.At(c.j, c.i); !almostEqual(got, c.want) {
			t.Errorf("A(%d,%d) = %v, want %v", c.j, c.i, got, c.want)
		}
	}
}

func TestBuildAdjacencyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("adjacency is symmetric with a zero diagonal", prop.ForAll(
		func(edges [][]int) bool {
			lines := make([][]string, 0, len(edges))
			for _, e := range edges {
				line := make([]string, 0, len(e))
				for _, n := range e {
					line = append(line, strconv.Itoa(n))
				}
				lines = append(lines, line)
			}
			adj := BuildAdjacency(hypergraph.New(lines))
			for i := 0; i < adj.Dim; i++ {
				if adj.At(i, i) != 0 {
					return false
				}
				for j := i + 1; j < adj.Dim; j++ {
					if adj.At(i, j) != adj.At(j, i) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.SliceOf(gen.IntRange(0, 12))),
	))

	properties.TestingRun(t)
}

func TestBuildLaplacianNormalized(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	lap := BuildLaplacian(BuildAdjacency(hg), true)

	// Degrees are all 2/3, so off-diagonals become -(1/3)/(2/3) = -1/2.
	for i := 0; i < 3; i++ {
		if !almostEqual(lap.At(i, i), 1.0) {
			t.Errorf("L(%d,%d) = %v, want 1", i, i, lap.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if i != j && !almostEqual(lap.At(i, j), -0.5) {
				t.Errorf("L(%d,%d) = %v, want -1/2", i, j, lap.At(i, j))
			}
		}
	}
}

func TestBuildLaplacianUnnormalized(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	lap := BuildLaplacian(BuildAdjacency(hg), false)

	for i := 0; i < 3; i++ {
		if !almostEqual(lap.At(i, i), 2.0/3.0) {
			t.Errorf("L(%d,%d) = %v, want 2/3", i, i, lap.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if i != j && !almostEqual(lap.At(i, j), -1.0/3.0) {
				t.Errorf("L(%d,%d) = %v, want -1/3", i, j, lap.At(i, j))
			}
		}
	}
}

func TestBuildLaplacianFloorsIsolatedDegrees(t *testing.T) {
	// Node c only appears in a singleton hyperedge, so its adjacency row sum
	// is zero and its degree is floored to 1 in both variants.
	hg := hypergraph.New([][]string{
		{"a", "b"},
		{"c"},
	})
	adj := BuildAdjacency(hg)

	norm := BuildLaplacian(adj, true)
	if !almostEqual(norm.At(2, 2), 1.0) {
		t.Errorf("normalized L(c,c) = %v, want 1", norm.At(2, 2))
	}
	if !almostEqual(norm.At(0, 1), -1.0) {
		t.Errorf("normalized L(a,b) = %v, want -1", norm.At(0, 1))
	}

	unnorm := BuildLaplacian(adj, false)
	if !almostEqual(unnorm.At(2, 2), 1.0) {
		t.Errorf("unnormalized L(c,c) = %v, want floored 1", unnorm.At(2, 2))
	}
	if !almostEqual(unnorm.At(0, 0), 0.5) {
		t.Errorf("unnormalized L(a,a) = %v, want 1/2", unnorm.At(0, 0))
	}
	if !almostEqual(unnorm.At(0, 1), -0.5) {
		t.Errorf("unnormalized L(a,b) = %v, want -1/2", unnorm.At(0, 1))
	}
}

func TestTracesSingleTriangle(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	trA, trA2, trA3 := BuildAdjacency(hg).Traces()

	if trA != 0 {
		t.Errorf("trace_A = %v, want 0", trA)
	}
	if !almostEqual(trA2, 2.0/3.0) {
		t.Errorf("trace_A2 = %v, want 2/3", trA2)
	}
	if !almostEqual(trA3, 2.0/9.0) {
		t.Errorf("trace_A3 = %v, want 2/9", trA3)
	}
}

func TestTracesOverlappingEdges(t *testing.T) {
	hg := hypergraph.New([][]string{
		{"1", "2", "3"},
		{"2", "3", "4"},
	})
	trA, trA2, trA3 := BuildAdjacency(hg).Traces()

	if trA != 0 {
		t.Errorf("trace_A = %v, want 0", trA)
	}
	if !almostEqual(trA2, 16.0/9.0) {
		t.Errorf("trace_A2 = %v, want 16/9", trA2)
	}
	// Two weighted triangles {1,2,3} and {2,3,4}, each contributing
	// 6 * (1/3)(2/3)(1/3).
	if !almostEqual(trA3, 8.0/9.0) {
		t.Errorf("trace_A3 = %v, want 8/9", trA3)
	}
}

func TestDenseEigenvaluesSingleTriangle(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	eig, err := denseEigenvalues(BuildAdjacency(hg))
	if err != nil {
		t.Fatalf("denseEigenvalues: %v", err)
	}

	want := []float64{-1.0 / 3.0, -1.0 / 3.0, 2.0 / 3.0}
	if len(eig) != len(want) {
		t.Fatalf("got %d eigenvalues, want %d", len(eig), len(want))
	}
	for i, w := range want {
		if !almostEqual(eig[i], w) {
			t.Errorf("eigenvalue[%d] = %v, want %v", i, eig[i], w)
		}
	}
}

func TestLanczosMatchesDense(t *testing.T) {
	// A 40-cycle has eigenvalues cos(2*pi*k/40), most with multiplicity two,
	// which forces breakdown restarts before the basis is complete.
	hg := hypergraph.New(cycleLines(40))
	adj := BuildAdjacency(hg)

	dense, err := denseEigenvalues(adj)
	if err != nil {
		t.Fatalf("denseEigenvalues: %v", err)
	}
	ritz, err := lanczosEigenvalues(adj, adj.Dim, newSeededRNG(7))
	if err != nil {
		t.Fatalf("lanczosEigenvalues: %v", err)
	}

	if len(ritz) != len(dense) {
		t.Fatalf("lanczos returned %d values, dense returned %d", len(ritz), len(dense))
	}
	for i := range dense {
		if math.Abs(ritz[i]-dense[i]) > 1e-6 {
			t.Errorf("eigenvalue[%d]: lanczos %v vs dense %v", i, ritz[i], dense[i])
		}
	}
}

func TestLanczosThroughRun(t *testing.T) {
	hg := hypergraph.New(cycleLines(40))

	denseConfig := hypergraph.NewConfig()
	denseConfig.Set("spectral.num_eigenvalues", 38)

	sparseConfig := hypergraph.NewConfig()
	sparseConfig.Set("spectral.num_eigenvalues", 38)
	sparseConfig.Set("spectral.dense_limit", 10)

	denseResult, err := Run(hg, denseConfig, context.Background())
	if err != nil {
		t.Fatalf("dense Run: %v", err)
	}
	sparseResult, err := Run(hg, sparseConfig, context.Background())
	if err != nil {
		t.Fatalf("sparse Run: %v", err)
	}

	compare := func(name string, a, b []float64) {
		if len(a) != len(b) {
			t.Fatalf("%s: dense %d values, sparse %d", name, len(a), len(b))
		}
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-6 {
				t.Errorf("%s[%d]: dense %v vs sparse %v", name, i, a[i], b[i])
			}
		}
	}
	compare("adjacency", denseResult.AdjacencySpectrum.Eigenvalues, sparseResult.AdjacencySpectrum.Eigenvalues)
	compare("laplacian", denseResult.LaplacianSpectrum.Eigenvalues, sparseResult.LaplacianSpectrum.Eigenvalues)
}

func TestRunSingleLargeEdge(t *testing.T) {
	// One hyperedge over five nodes: A = (J - I)/5 with eigenvalues 4/5 and
	// -1/5 (multiplicity four). k caps at dim-2 = 3.
	hg := hypergraph.New([][]string{{"1", "2", "3", "4", "5"}})
	config := hypergraph.NewConfig()

	result, err := Run(hg, config, context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	adjWant := []float64{-0.2, -0.2, 0.8}
	if len(result.AdjacencySpectrum.Eigenvalues) != len(adjWant) {
		t.Fatalf("adjacency eigenvalues = %v, want 3 values", result.AdjacencySpectrum.Eigenvalues)
	}
	for i, w := range adjWant {
		if !almostEqual(result.AdjacencySpectrum.Eigenvalues[i], w) {
			t.Errorf("adjacency eigenvalue[%d] = %v, want %v", i, result.AdjacencySpectrum.Eigenvalues[i], w)
		}
	}
	if !almostEqual(result.AdjacencySpectrum.SpectralRadius, 0.8) {
		t.Errorf("spectral_radius = %v, want 0.8", result.AdjacencySpectrum.SpectralRadius)
	}

	// Normalized Laplacian eigenvalues are 0 and 5/4 (multiplicity four).
	lapWant := []float64{0, 1.25, 1.25}
	for i, w := range lapWant {
		if !almostEqual(result.LaplacianSpectrum.Eigenvalues[i], w) {
			t.Errorf("laplacian eigenvalue[%d] = %v, want %v", i, result.LaplacianSpectrum.Eigenvalues[i], w)
		}
	}
	if !almostEqual(result.LaplacianSpectrum.SpectralGap, 1.25) {
		t.Errorf("spectral_gap = %v, want 1.25", result.LaplacianSpectrum.SpectralGap)
	}

	// Magnitudes {0.2, 0.2, 0.8} normalize to {1/6, 1/6, 2/3}.
	wantEntropy := -(2*(1.0/6.0)*math.Log2(1.0/6.0) + (2.0/3.0)*math.Log2(2.0/3.0))
	if !almostEqual(result.AdjacencySpectrum.Entropy, wantEntropy) {
		t.Errorf("adjacency entropy = %v, want %v", result.AdjacencySpectrum.Entropy, wantEntropy)
	}

	if !almostEqual(result.TraceStatistics.TraceA, 0) {
		t.Errorf("trace_A = %v, want 0", result.TraceStatistics.TraceA)
	}
	if !almostEqual(result.TraceStatistics.TraceA2, 0.8) {
		t.Errorf("trace_A2 = %v, want 0.8", result.TraceStatistics.TraceA2)
	}
	if !almostEqual(result.TraceStatistics.TraceA3, 0.48) {
		t.Errorf("trace_A3 = %v, want 0.48", result.TraceStatistics.TraceA3)
	}
	if !almostEqual(result.TraceStatistics.NormalizedTraceA2, 0.16) {
		t.Errorf("normalized_trace_A2 = %v, want 0.16", result.TraceStatistics.NormalizedTraceA2)
	}

	stats := result.AdjacencySpectrum.Statistics
	if !almostEqual(stats.Mean, 2.0/15.0) {
		t.Errorf("adjacency mean = %v, want 2/15", stats.Mean)
	}
	if !almostEqual(stats.Std, math.Sqrt(2.0/9.0)) {
		t.Errorf("adjacency std = %v, want sqrt(2/9)", stats.Std)
	}
	if stats.Skewness <= 0 {
		t.Errorf("adjacency skewness = %v, want positive for one large value", stats.Skewness)
	}
	if stats.Kurtosis != 0 {
		t.Errorf("adjacency kurtosis = %v, want 0 for three samples", stats.Kurtosis)
	}

	if result.Statistics.RuntimeMS < 0 {
		t.Errorf("runtime_ms = %d, want >= 0", result.Statistics.RuntimeMS)
	}
}

func TestRunMatrixTooSmall(t *testing.T) {
	// Two nodes cap k at 0, so the spectra stay empty but the trace
	// statistics are still exact.
	hg := hypergraph.New([][]string{{"1", "2"}})
	config := hypergraph.NewConfig()

	result, err := Run(hg, config, context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.AdjacencySpectrum.Eigenvalues == nil || len(result.AdjacencySpectrum.Eigenvalues) != 0 {
		t.Errorf("adjacency eigenvalues = %v, want empty non-nil", result.AdjacencySpectrum.Eigenvalues)
	}
	if result.LaplacianSpectrum.Eigenvalues == nil || len(result.LaplacianSpectrum.Eigenvalues) != 0 {
		t.Errorf("laplacian eigenvalues = %v, want empty non-nil", result.LaplacianSpectrum.Eigenvalues)
	}
	if result.AdjacencySpectrum.SpectralRadius != 0 {
		t.Errorf("spectral_radius = %v, want 0", result.AdjacencySpectrum.SpectralRadius)
	}
	if result.LaplacianSpectrum.SpectralGap != 0 {
		t.Errorf("spectral_gap = %v, want 0", result.LaplacianSpectrum.SpectralGap)
	}
	if result.AdjacencySpectrum.Entropy != 0 || result.LaplacianSpectrum.Entropy != 0 {
		t.Errorf("entropies = %v, %v, want 0", result.AdjacencySpectrum.Entropy, result.LaplacianSpectrum.Entropy)
	}
	if result.AdjacencySpectrum.Statistics.Mean != 0 || result.AdjacencySpectrum.Statistics.Std != 0 {
		t.Errorf("statistics should be zero for an empty spectrum")
	}

	if !almostEqual(result.TraceStatistics.TraceA2, 0.5) {
		t.Errorf("trace_A2 = %v, want 0.5", result.TraceStatistics.TraceA2)
	}
	if !almostEqual(result.TraceStatistics.TraceA3, 0) {
		t.Errorf("trace_A3 = %v, want 0", result.TraceStatistics.TraceA3)
	}
	if !almostEqual(result.TraceStatistics.NormalizedTraceA2, 0.25) {
		t.Errorf("normalized_trace_A2 = %v, want 0.25", result.TraceStatistics.NormalizedTraceA2)
	}
}

func TestRunUnnormalizedLaplacian(t *testing.T) {
	// Unnormalized Laplacian of the five-node clique-like edge: D - A has
	// eigenvalues 0 and 1 (multiplicity four).
	hg := hypergraph.New([][]string{{"1", "2", "3", "4", "5"}})
	config := hypergraph.NewConfig()
	config.Set("spectral.normalized_laplacian", false)

	result, err := Run(hg, config, context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lapWant := []float64{0, 1, 1}
	for i, w := range lapWant {
		if !almostEqual(result.LaplacianSpectrum.Eigenvalues[i], w) {
			t.Errorf("laplacian eigenvalue[%d] = %v, want %v", i, result.LaplacianSpectrum.Eigenvalues[i], w)
		}
	}
	if !almostEqual(result.LaplacianSpectrum.SpectralGap, 1) {
		t.Errorf("spectral_gap = %v, want 1", result.LaplacianSpectrum.SpectralGap)
	}
}

func TestRunEmptyHypergraph(t *testing.T) {
	hg := hypergraph.New(nil)
	config := hypergraph.NewConfig()

	if _, err := Run(hg, config, context.Background()); err == nil {
		t.Fatal("expected error for empty hypergraph")
	}
}

func TestRunContextCancelled(t *testing.T) {
	hg := hypergraph.New([][]string{{"1", "2", "3"}})
	config := hypergraph.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(hg, config, ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestCompareSpectra(t *testing.T) {
	a := &Result{
		AdjacencySpectrum: AdjacencySpectrum{
			Eigenvalues: []float64{-0.5, 0.5, 1.0},
			Entropy:     1.5,
		},
		LaplacianSpectrum: LaplacianSpectrum{
			Eigenvalues: []float64{0, 0.5},
			SpectralGap: 0.5,
		},
	}
	a.AdjacencySpectrum.Statistics.Mean = 1.0
	a.AdjacencySpectrum.Statistics.Std = 0.25

	b := &Result{
		AdjacencySpectrum: AdjacencySpectrum{
			Eigenvalues: []float64{-0.5, 0.5},
			Entropy:     1.0,
		},
		LaplacianSpectrum: LaplacianSpectrum{
			Eigenvalues: []float64{0, 0.2},
			SpectralGap: 0.2,
		},
	}
	b.AdjacencySpectrum.Statistics.Mean = 0.4
	b.AdjacencySpectrum.Statistics.Std = 0.75

	d := CompareSpectra(a, b)

	// Adjacency lists truncate to the shorter length, which matches exactly.
	if !almostEqual(d.AdjacencyDistances["euclidean"], 0) {
		t.Errorf("adjacency euclidean = %v, want 0", d.AdjacencyDistances["euclidean"])
	}
	if !almostEqual(d.AdjacencyDistances["cosine"], 0) {
		t.Errorf("adjacency cosine = %v, want 0", d.AdjacencyDistances["cosine"])
	}
	if !almostEqual(d.LaplacianDistances["euclidean"], 0.3) {
		t.Errorf("laplacian euclidean = %v, want 0.3", d.LaplacianDistances["euclidean"])
	}
	if !almostEqual(d.LaplacianDistances["spectral_gap_diff"], 0.3) {
		t.Errorf("spectral_gap_diff = %v, want 0.3", d.LaplacianDistances["spectral_gap_diff"])
	}
	if !almostEqual(d.StatisticalDistances["mean_diff"], 0.6) {
		t.Errorf("mean_diff = %v, want 0.6", d.StatisticalDistances["mean_diff"])
	}
	if !almostEqual(d.StatisticalDistances["std_diff"], 0.5) {
		t.Errorf("std_diff = %v, want 0.5", d.StatisticalDistances["std_diff"])
	}
	if !almostEqual(d.StatisticalDistances["entropy_diff"], 0.5) {
		t.Errorf("entropy_diff = %v, want 0.5", d.StatisticalDistances["entropy_diff"])
	}

	// Distances are symmetric in their arguments.
	rev := CompareSpectra(b, a)
	for key, val := range d.StatisticalDistances {
		if !almostEqual(rev.StatisticalDistances[key], val) {
			t.Errorf("statistical %s not symmetric: %v vs %v", key, val, rev.StatisticalDistances[key])
		}
	}
	for key, val := range d.LaplacianDistances {
		if !almostEqual(rev.LaplacianDistances[key], val) {
			t.Errorf("laplacian %s not symmetric: %v vs %v", key, val, rev.LaplacianDistances[key])
		}
	}
}

func TestCompareSpectraEmptySpectra(t *testing.T) {
	a := &Result{}
	b := &Result{
		AdjacencySpectrum: AdjacencySpectrum{Eigenvalues: []float64{0.5}},
		LaplacianSpectrum: LaplacianSpectrum{Eigenvalues: []float64{0}, SpectralGap: 0.4},
	}

	d := CompareSpectra(a, b)

	if d.AdjacencyDistances != nil {
		t.Errorf("adjacency_distances = %v, want absent for an empty side", d.AdjacencyDistances)
	}
	if _, ok := d.LaplacianDistances["euclidean"]; ok {
		t.Error("laplacian euclidean should be absent for an empty side")
	}
	if !almostEqual(d.LaplacianDistances["spectral_gap_diff"], 0.4) {
		t.Errorf("spectral_gap_diff = %v, want 0.4", d.LaplacianDistances["spectral_gap_diff"])
	}
	if len(d.StatisticalDistances) != 3 {
		t.Errorf("statistical_distances = %v, want all three diffs", d.StatisticalDistances)
	}
}

func TestSpectralHelpers(t *testing.T) {
	if got := spectralRadius(nil); got != 0 {
		t.Errorf("spectralRadius(nil) = %v, want 0", got)
	}
	if got := spectralRadius([]float64{-3, 1}); got != 3 {
		t.Errorf("spectralRadius = %v, want 3", got)
	}
	if got := spectralGap([]float64{0.5}); got != 0 {
		t.Errorf("spectralGap single = %v, want 0", got)
	}
	if got := spectralGap([]float64{0.1, 0.4, 2.0}); !almostEqual(got, 0.3) {
		t.Errorf("spectralGap = %v, want 0.3", got)
	}
	if got := spectrumEntropy([]float64{2, -2}); !almostEqual(got, 1.0) {
		t.Errorf("spectrumEntropy = %v, want 1", got)
	}
	if got := spectrumEntropy([]float64{0, 0}); got != 0 {
		t.Errorf("spectrumEntropy zeros = %v, want 0", got)
	}
}

func TestDescribeEigenvaluesShapeGuards(t *testing.T) {
	// Symmetric data has exactly zero skewness.
	sym := describeEigenvalues([]float64{1, 2, 3, 4})
	if sym.Skewness != 0 {
		t.Errorf("skewness of symmetric data = %v, want 0", sym.Skewness)
	}
	if sym.Kurtosis == 0 {
		t.Error("kurtosis of four spread samples should be nonzero")
	}

	constant := describeEigenvalues([]float64{2, 2, 2, 2})
	if constant.Skewness != 0 || constant.Kurtosis != 0 {
		t.Errorf("constant data moments = %v, %v, want 0, 0", constant.Skewness, constant.Kurtosis)
	}

	short := describeEigenvalues([]float64{1, 2})
	if short.Skewness != 0 || short.Kurtosis != 0 {
		t.Errorf("two-sample moments = %v, %v, want 0, 0", short.Skewness, short.Kurtosis)
	}

	empty := describeEigenvalues(nil)
	if empty.Mean != 0 || empty.Std != 0 {
		t.Errorf("empty summary = %+v, want zeros", empty.Summary)
	}
}
