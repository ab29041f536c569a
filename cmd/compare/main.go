package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/evaluation"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
)

func main() {
	generatedPath := flag.String("generated", "", "generated hypergraph file")
	referencePath := flag.String("reference", "", "reference hypergraph file")
	configPath := flag.String("config", "", "optional YAML config file")
	outputDir := flag.String("output", "output", "directory for the evaluation files")
	flag.Parse()

	if *generatedPath == "" || *referencePath == "" {
		fmt.Println("Usage: compare -generated <hypergraph.txt> -reference <hypergraph.txt> [-config <config.yaml>] [-output <dir>]")
		os.Exit(1)
	}

	fmt.Println("📊 Hypergraph Similarity Evaluation")
	fmt.Println("===================================")
	fmt.Printf("   🧪 Generated: %s\n", *generatedPath)
	fmt.Printf("   📚 Reference: %s\n", *referencePath)

	config := hypergraph.NewConfig()
	if *configPath != "" {
		if err := config.LoadFromFile(*configPath); err != nil {
			fmt.Printf("❌ Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("\n🔄 Step 1: Analyzing both hypergraphs")
	fmt.Println("=====================================")

	start := time.Now()
	results, distances, err := evaluation.Evaluate(*generatedPath, *referencePath, config, context.Background())
	if err != nil {
		fmt.Printf("❌ Evaluation failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	fmt.Printf("✅ Both analyses finished in %s\n", formatDuration(elapsed))

	printComparisonTable(results)
	printDistanceReport(distances)

	fmt.Println("\n🔄 Step 2: Writing evaluation files")
	fmt.Println("===================================")
	if err := evaluation.WriteEvaluation(*outputDir, results, distances); err != nil {
		fmt.Printf("❌ Failed to write evaluation: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("💾 %s/%s\n", *outputDir, evaluation.CompleteResultsFile)
	fmt.Printf("💾 %s/%s\n", *outputDir, evaluation.DistancesFile)
}

func printComparisonTable(results *evaluation.Results) {
	g, r := results.Generated, results.Reference

	fmt.Println("\n📊 Side-by-side metrics:")
	fmt.Println("┌─────────────────────┬────────────────────┬────────────────────┐")
	fmt.Println("│ Metric              │ Generated          │ Reference          │")
	fmt.Println("├─────────────────────┼────────────────────┼────────────────────┤")
	printRow("Nodes",
		fmt.Sprintf("%d", g.Clustering.BasicStats.NumNodes),
		fmt.Sprintf("%d", r.Clustering.BasicStats.NumNodes))
	printRow("Hyperedges",
		fmt.Sprintf("%d", g.Clustering.BasicStats.NumHyperedges),
		fmt.Sprintf("%d", r.Clustering.BasicStats.NumHyperedges))
	printRow("Avg edge size",
		fmt.Sprintf("%.4f", g.Clustering.BasicStats.AvgHyperedgeSize),
		fmt.Sprintf("%.4f", r.Clustering.BasicStats.AvgHyperedgeSize))
	printRow("Node clustering",
		fmt.Sprintf("%.6f", g.Clustering.GlobalClustering.AverageNodeClustering),
		fmt.Sprintf("%.6f", r.Clustering.GlobalClustering.AverageNodeClustering))
	printRow("Wedges",
		fmt.Sprintf("%d", g.Structural.WedgeCounts.TotalWedges),
		fmt.Sprintf("%d", r.Structural.WedgeCounts.TotalWedges))
	printRow("Triangles",
		fmt.Sprintf("%d", g.Structural.TriangleCounts.TotalTriangles),
		fmt.Sprintf("%d", r.Structural.TriangleCounts.TotalTriangles))
	printRow("Spectrum entropy",
		fmt.Sprintf("%.6f", g.Motif.MotifSpectrum.SpectrumEntropy),
		fmt.Sprintf("%.6f", r.Motif.MotifSpectrum.SpectrumEntropy))
	printRow("Spectral radius",
		fmt.Sprintf("%.6f", g.Spectral.AdjacencySpectrum.SpectralRadius),
		fmt.Sprintf("%.6f", r.Spectral.AdjacencySpectrum.SpectralRadius))
	printRow("Spectral gap",
		fmt.Sprintf("%.6f", g.Spectral.LaplacianSpectrum.SpectralGap),
		fmt.Sprintf("%.6f", r.Spectral.LaplacianSpectrum.SpectralGap))
	fmt.Println("└─────────────────────┴────────────────────┴────────────────────┘")
}

func printRow(metric, generated, reference string) {
	fmt.Printf("│ %-19s │ %-18s │ %-18s │\n",
		truncateString(metric, 19), truncateString(generated, 18), truncateString(reference, 18))
}

func printDistanceReport(d *evaluation.Distances) {
	fmt.Println("\n🔍 Distance Report:")
	fmt.Printf("   👥 Clustering: node %.6f, weighted %.6f, edge %.6f\n",
		d.Clustering.NodeClusteringDiff, d.Clustering.WeightedClusteringDiff, d.Clustering.EdgeClusteringDiff)
	fmt.Printf("   🔺 Structural: wedge ratio %.6f, claw ratio %.6f, entropy %.6f\n",
		d.Structural.WedgeRatioDiff, d.Structural.ClawRatioDiff, d.Structural.EntropyDiff)
	fmt.Printf("   🧩 Motif: spectrum %.6f, co-occurrence %.6f, density %.6f\n",
		d.Motif.SpectrumEntropyDiff, d.Motif.PairCooccurrenceDiff, d.Motif.EdgeDensityDiff)
	fmt.Printf("   🌊 Laplacian: euclidean %.6f, cosine %.6f, gap %.6f\n",
		d.Spectral.LaplacianDistances["euclidean"],
		d.Spectral.LaplacianDistances["cosine"],
		d.Spectral.LaplacianDistances["spectral_gap_diff"])

	fmt.Printf("\n   📈 Overall: mean %.6f, median %.6f, max %.6f\n",
		d.Overall.Mean, d.Overall.Median, d.Overall.Max)

	switch {
	case d.Overall.Mean <= 0.10:
		fmt.Println("\n💡 Verdict: the hypergraphs are structurally very similar")
	case d.Overall.Mean <= 0.35:
		fmt.Println("\n💡 Verdict: the hypergraphs are moderately similar")
	default:
		fmt.Println("\n💡 Verdict: the hypergraphs differ substantially")
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fμs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
