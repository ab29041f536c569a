package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

// starContent builds one two-node hyperedge per leaf through a shared center.
func starContent(leaves int) string {
	var sb strings.Builder
	for i := 0; i < leaves; i++ {
		fmt.Fprintf(&sb, "c l%d\n", i)
	}
	return sb.String()
}

func TestRunAllBundle(t *testing.T) {
	path := writeInput(t, "overlap.txt", "1 2 3\n2 3 4\n")
	config := hypergraph.NewConfig()

	bundle, err := RunAll(path, config, context.Background())
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	if bundle.Clustering == nil || bundle.Structural == nil || bundle.Motif == nil || bundle.Spectral == nil {
		t.Fatal("bundle has nil analyzer results")
	}

	// Raw arrays are kept in memory regardless of the caller's setting.
	if len(bundle.Clustering.RawNodeClustering) != 4 {
		t.Errorf("raw_node_clustering length = %d, want 4", len(bundle.Clustering.RawNodeClustering))
	}
	if len(bundle.Clustering.RawEdgeClustering) != 2 {
		t.Errorf("raw_edge_clustering length = %d, want 2", len(bundle.Clustering.RawEdgeClustering))
	}

	// The caller's configuration must stay untouched.
	if config.IncludeRaw() {
		t.Error("RunAll mutated the caller's output.include_raw")
	}
}

func TestRunAllMissingFile(t *testing.T) {
	config := hypergraph.NewConfig()
	if _, err := RunAll(filepath.Join(t.TempDir(), "missing.txt"), config, context.Background()); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestRunAllBlankInput(t *testing.T) {
	path := writeInput(t, "blank.txt", "\n\n\n")
	config := hypergraph.NewConfig()
	if _, err := RunAll(path, config, context.Background()); err == nil {
		t.Fatal("expected error for input with no hyperedges")
	}
}

func TestRunAllContextCancelled(t *testing.T) {
	path := writeInput(t, "overlap.txt", "1 2 3\n2 3 4\n")
	config := hypergraph.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunAll(path, config, ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestEvaluateIdenticalInputs(t *testing.T) {
	content := "1 2 3\n2 3 4\n"
	genPath := writeInput(t, "generated.txt", content)
	refPath := writeInput(t, "reference.txt", content)
	config := hypergraph.NewConfig()

	results, distances, err := Evaluate(genPath, refPath, config, context.Background())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if results.Generated == nil || results.Reference == nil {
		t.Fatal("results missing a side")
	}

	if distances.Clustering != (ClusteringDistances{}) {
		t.Errorf("clustering distances = %+v, want zeros", distances.Clustering)
	}
	if distances.Structural != (StructuralDistances{}) {
		t.Errorf("structural distances = %+v, want zeros", distances.Structural)
	}
	if distances.Motif != (MotifDistances{}) {
		t.Errorf("motif distances = %+v, want zeros", distances.Motif)
	}
	for key, v := range distances.Spectral.AdjacencyDistances {
		if v != 0 {
			t.Errorf("spectral adjacency %s = %v, want 0", key, v)
		}
	}
	if got := distances.Spectral.LaplacianDistances["spectral_gap_diff"]; got != 0 {
		t.Errorf("spectral_gap_diff = %v, want 0", got)
	}
	if distances.Overall != (OverallDistances{}) {
		t.Errorf("overall = %+v, want zeros", distances.Overall)
	}
}

func TestCompareKnownDifference(t *testing.T) {
	genPath := writeInput(t, "generated.txt", "1 2 3\n2 3 4\n")
	refPath := writeInput(t, "reference.txt", "a b\nc d\n")
	config := hypergraph.NewConfig()

	gen, err := RunAll(genPath, config, context.Background())
	if err != nil {
		t.Fatalf("RunAll generated: %v", err)
	}
	ref, err := RunAll(refPath, config, context.Background())
	if err != nil {
		t.Fatalf("RunAll reference: %v", err)
	}

	d := Compare(gen, ref)

	// Overlapping side: node 5/6, weighted 7/9, edge 1/3. Disjoint side: all 0.
	if !almostEqual(d.Clustering.NodeClusteringDiff, 5.0/6.0) {
		t.Errorf("node_clustering_diff = %v, want 5/6", d.Clustering.NodeClusteringDiff)
	}
	if !almostEqual(d.Clustering.WeightedClusteringDiff, 7.0/9.0) {
		t.Errorf("weighted_clustering_diff = %v, want 7/9", d.Clustering.WeightedClusteringDiff)
	}
	if !almostEqual(d.Clustering.EdgeClusteringDiff, 1.0/3.0) {
		t.Errorf("edge_clustering_diff = %v, want 1/3", d.Clustering.EdgeClusteringDiff)
	}

	// One wedge over two hyperedges vs none.
	if !almostEqual(d.Structural.WedgeRatioDiff, 0.5) {
		t.Errorf("wedge_ratio_diff = %v, want 0.5", d.Structural.WedgeRatioDiff)
	}
	if !almostEqual(d.Structural.ClawRatioDiff, 0) {
		t.Errorf("claw_ratio_diff = %v, want 0", d.Structural.ClawRatioDiff)
	}
	if !almostEqual(d.Structural.EntropyDiff, 0) {
		t.Errorf("entropy_diff = %v, want 0", d.Structural.EntropyDiff)
	}

	// Both sides have single-size spectra, so only the pair statistics move.
	if !almostEqual(d.Motif.SpectrumEntropyDiff, 0) {
		t.Errorf("spectrum_entropy_diff = %v, want 0", d.Motif.SpectrumEntropyDiff)
	}
	if !almostEqual(d.Motif.PairCooccurrenceDiff, 0.2) {
		t.Errorf("pair_cooccurrence_diff = %v, want 0.2", d.Motif.PairCooccurrenceDiff)
	}
	if !almostEqual(d.Motif.EdgeDensityDiff, 1.0/3.0) {
		t.Errorf("edge_density_diff = %v, want 1/3", d.Motif.EdgeDensityDiff)
	}

	if d.Overall.Max < d.Clustering.NodeClusteringDiff {
		t.Errorf("overall max %v below a member scalar %v", d.Overall.Max, d.Clustering.NodeClusteringDiff)
	}
	if d.Overall.Min < 0 || d.Overall.Mean < d.Overall.Min || d.Overall.Mean > d.Overall.Max {
		t.Errorf("overall aggregate inconsistent: %+v", d.Overall)
	}

	// Every family is symmetric in its arguments.
	if rev := Compare(ref, gen); !reflect.DeepEqual(d, rev) {
		t.Errorf("Compare not symmetric:\n%+v\nvs\n%+v", d, rev)
	}
}

func TestWriteEvaluationCompressesLargeArrays(t *testing.T) {
	content := starContent(12) // 13 nodes, 12 hyperedges
	genPath := writeInput(t, "generated.txt", content)
	refPath := writeInput(t, "reference.txt", content)
	config := hypergraph.NewConfig()

	results, distances, err := Evaluate(genPath, refPath, config, context.Background())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "results")
	if err := WriteEvaluation(dir, results, distances); err != nil {
		t.Fatalf("WriteEvaluation returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CompleteResultsFile))
	if err != nil {
		t.Fatalf("read complete results: %v", err)
	}
	var complete map[string]interface{}
	if err := json.Unmarshal(data, &complete); err != nil {
		t.Fatalf("parse complete results: %v", err)
	}

	clusteringOut := complete["generated"].(map[string]interface{})["clustering"].(map[string]interface{})
	rawNodes, ok := clusteringOut["raw_node_clustering"].(map[string]interface{})
	if !ok {
		t.Fatalf("raw_node_clustering not compressed: %T", clusteringOut["raw_node_clustering"])
	}
	if got := rawNodes["count"].(float64); got != 13 {
		t.Errorf("raw_node_clustering count = %v, want 13", got)
	}
	if got := len(rawNodes["sample"].([]interface{})); got != 10 {
		t.Errorf("raw_node_clustering sample length = %d, want 10", got)
	}

	spectralOut := complete["generated"].(map[string]interface{})["spectral"].(map[string]interface{})
	adjacency := spectralOut["adjacency_spectrum"].(map[string]interface{})
	eigen, ok := adjacency["eigenvalues"].(map[string]interface{})
	if !ok {
		t.Fatalf("eigenvalues not compressed: %T", adjacency["eigenvalues"])
	}
	if got := eigen["count"].(float64); got != 11 {
		t.Errorf("eigenvalues count = %v, want 11 (k capped at dim-2)", got)
	}
	if got := len(eigen["sample"].([]interface{})); got != 10 {
		t.Errorf("eigenvalues sample length = %d, want 10", got)
	}

	distData, err := os.ReadFile(filepath.Join(dir, DistancesFile))
	if err != nil {
		t.Fatalf("read distances: %v", err)
	}
	var dist map[string]interface{}
	if err := json.Unmarshal(distData, &dist); err != nil {
		t.Fatalf("parse distances: %v", err)
	}
	for _, family := range []string{"spectral", "clustering", "structural", "motif", "overall"} {
		if _, ok := dist[family]; !ok {
			t.Errorf("distances file missing family %q", family)
		}
	}
}

func TestWriteAnalyzerResults(t *testing.T) {
	path := writeInput(t, "sample.txt", "1 2 3\n2 3 4\n")
	config := hypergraph.NewConfig()

	bundle, err := RunAll(path, config, context.Background())
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}

	dir := t.TempDir()
	stem := InputStem(path)
	if err := WriteAnalyzerResults(dir, stem, bundle, false); err != nil {
		t.Fatalf("WriteAnalyzerResults returned error: %v", err)
	}

	readMap := func(name string) map[string]interface{} {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return m
	}

	cc := readMap("sample_clustering_coefficient.json")
	if _, ok := cc["raw_node_clustering"]; ok {
		t.Error("clustering file should not carry raw_node_clustering")
	}
	if _, ok := cc["global_clustering"]; !ok {
		t.Error("clustering file missing global_clustering")
	}

	st := readMap("sample_structural_counts.json")
	if _, ok := st["wedge_counts"].(map[string]interface{})["node_wedge_counts"]; ok {
		t.Error("structural file should not carry node_wedge_counts")
	}
	if _, ok := st["claw_counts"].(map[string]interface{})["node_degrees"]; ok {
		t.Error("structural file should not carry node_degrees")
	}

	if m := readMap("sample_motif_analysis.json"); m["pairwise_motifs"] == nil {
		t.Error("motif file missing pairwise_motifs")
	}
	if m := readMap("sample_spectral_similarity.json"); m["adjacency_spectrum"] == nil {
		t.Error("spectral file missing adjacency_spectrum")
	}

	// The in-memory bundle keeps its raw arrays after a stripped write.
	if bundle.Clustering.RawNodeClustering == nil {
		t.Error("write stripped the in-memory raw arrays")
	}
	if bundle.Structural.WedgeCounts.NodeWedgeCounts == nil {
		t.Error("write stripped the in-memory node wedge counts")
	}

	if err := WriteAnalyzerResults(dir, stem, bundle, true); err != nil {
		t.Fatalf("WriteAnalyzerResults with raws returned error: %v", err)
	}
	ccRaw := readMap("sample_clustering_coefficient.json")
	if _, ok := ccRaw["raw_node_clustering"]; !ok {
		t.Error("clustering file should carry raw_node_clustering when requested")
	}
}

func TestWriteAnalyzerResultsPartialBundle(t *testing.T) {
	path := writeInput(t, "partial.txt", "1 2 3\n2 3 4\n")
	config := hypergraph.NewConfig()

	bundle, err := RunAll(path, config, context.Background())
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	bundle.Motif = nil
	bundle.Spectral = nil

	dir := t.TempDir()
	if err := WriteAnalyzerResults(dir, "partial", bundle, false); err != nil {
		t.Fatalf("WriteAnalyzerResults returned error: %v", err)
	}

	for _, name := range []string{"partial_clustering_coefficient.json", "partial_structural_counts.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	for _, name := range []string{"partial_motif_analysis.json", "partial_spectral_similarity.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("did not expect %s to be written", name)
		}
	}
}

func TestInputStem(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/data/email_hypergraph.txt", "email_hypergraph"},
		{"plain", "plain"},
		{"dir/name.v2.json", "name.v2"},
	}
	for _, c := range cases {
		if got := InputStem(c.path); got != c.want {
			t.Errorf("InputStem(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
