package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/clustering"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/evaluation"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/motifs"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/spectral"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/structural"
)

var analyzerNames = []string{"clustering", "structural", "motifs", "spectral"}

func main() {
	inputPath := flag.String("input", "", "hypergraph file, one hyperedge per line")
	configPath := flag.String("config", "", "optional YAML config file")
	analyzers := flag.String("analyzers", "all", "comma-separated subset of clustering,structural,motifs,spectral")
	includeRaw := flag.Bool("include-raw", false, "keep raw per-node arrays in the output files")
	seed := flag.Int64("seed", 0, "override the random seed (0 keeps the configured value)")
	outputDir := flag.String("output", "output", "directory for the result files")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: analyze -input <hypergraph.txt> [-config <config.yaml>] [-analyzers clustering,spectral] [-include-raw] [-seed N] [-output <dir>]")
		os.Exit(1)
	}

	fmt.Println("🔬 Hypergraph Structural Analysis")
	fmt.Println("=================================")

	config := hypergraph.NewConfig()
	if *configPath != "" {
		if err := config.LoadFromFile(*configPath); err != nil {
			fmt.Printf("❌ Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		config.Set("analysis.random_seed", *seed)
	}
	config.Set("output.include_raw", *includeRaw)

	selected, err := parseAnalyzers(*analyzers)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📋 Configuration:\n")
	fmt.Printf("   📄 Input: %s\n", *inputPath)
	fmt.Printf("   🧪 Analyzers: %s\n", strings.Join(selected, ", "))
	fmt.Printf("   🎲 Seed: %d\n", config.RandomSeed())
	fmt.Printf("   📁 Output: %s\n", *outputDir)

	hg, err := hypergraph.LoadFromFile(*inputPath)
	if err != nil {
		fmt.Printf("❌ Failed to load hypergraph: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n📥 Loaded %d nodes, %d hyperedges (avg size %.2f)\n",
		hg.NumNodes(), hg.NumEdges(), hg.AvgEdgeSize())

	ctx := context.Background()
	bundle := &evaluation.Bundle{}
	start := time.Now()

	for _, name := range selected {
		fmt.Printf("🔄 Running %s analysis...\n", name)
		switch name {
		case "clustering":
			bundle.Clustering, err = clustering.Run(hg, config, ctx)
		case "structural":
			bundle.Structural, err = structural.Run(hg, config, ctx)
		case "motifs":
			bundle.Motif, err = motifs.Run(hg, config, ctx)
		case "spectral":
			bundle.Spectral, err = spectral.Run(hg, config, ctx)
		}
		if err != nil {
			fmt.Printf("❌ %s analysis failed: %v\n", name, err)
			os.Exit(1)
		}
	}

	stem := evaluation.InputStem(*inputPath)
	if err := evaluation.WriteAnalyzerResults(*outputDir, stem, bundle, *includeRaw); err != nil {
		fmt.Printf("❌ Failed to write results: %v\n", err)
		os.Exit(1)
	}

	printSummary(bundle, time.Since(start))
	fmt.Printf("\n💾 Results written to %s/%s_*.json\n", *outputDir, stem)
}

// parseAnalyzers resolves the -analyzers flag into the canonical execution
// order.
func parseAnalyzers(list string) ([]string, error) {
	if list == "" || list == "all" {
		return analyzerNames, nil
	}

	requested := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		valid := false
		for _, known := range analyzerNames {
			if name == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown analyzer %q (choose from %s)", name, strings.Join(analyzerNames, ", "))
		}
		requested[name] = true
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("no analyzers selected")
	}

	var selected []string
	for _, name := range analyzerNames {
		if requested[name] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

func printSummary(bundle *evaluation.Bundle, elapsed time.Duration) {
	fmt.Println("\n📊 Analysis Summary:")
	if bundle.Clustering != nil {
		gc := bundle.Clustering.GlobalClustering
		fmt.Printf("   👥 Node clustering: %.6f (weighted %.6f)\n",
			gc.AverageNodeClustering, gc.WeightedNodeClustering)
		fmt.Printf("   🔗 Edge clustering: %.6f\n", gc.AverageEdgeClustering)
	}
	if bundle.Structural != nil {
		s := bundle.Structural
		fmt.Printf("   🔺 Wedges: %d, triangles: %d (complete %d)\n",
			s.WedgeCounts.TotalWedges, s.TriangleCounts.TotalTriangles, s.TriangleCounts.CompleteTriangles)
		fmt.Printf("   ⭐ 3-claws: %d, avg degree: %.2f\n", s.ClawCounts.Claw3, s.ClawCounts.AvgDegree)
	}
	if bundle.Motif != nil {
		m := bundle.Motif
		fmt.Printf("   🧩 Motif spectrum entropy: %.6f, avg co-occurrence: %.4f\n",
			m.MotifSpectrum.SpectrumEntropy, m.PairwiseMotifs.AvgCooccurrence)
	}
	if bundle.Spectral != nil {
		sp := bundle.Spectral
		fmt.Printf("   🌊 Spectral radius: %.6f, Laplacian gap: %.6f\n",
			sp.AdjacencySpectrum.SpectralRadius, sp.LaplacianSpectrum.SpectralGap)
	}
	fmt.Printf("   ⏱️  Total runtime: %v\n", elapsed)
}
