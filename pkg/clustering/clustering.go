// Package clustering computes node-level, hyperedge-level, global, weighted,
// and size-stratified clustering coefficients over a hypergraph.
package clustering

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/stats"
)

// Result contains the output of a clustering coefficient analysis.
type Result struct {
	BasicStats        hypergraph.BasicStats `json:"basic_stats"`
	GlobalClustering  GlobalClustering      `json:"global_clustering"`
	NodeDistribution  stats.Summary         `json:"node_clustering_distribution"`
	EdgeDistribution  stats.Summary         `json:"edge_clustering_distribution"`
	SizeStratified    map[int]float64       `json:"size_stratified_clustering"`
	RawNodeClustering []float64             `json:"raw_node_clustering,omitempty"`
	RawEdgeClustering []float64             `json:"raw_edge_clustering,omitempty"`
	Statistics        Statistics            `json:"statistics"`
}

// GlobalClustering holds the three global clustering scalars.
type GlobalClustering struct {
	AverageNodeClustering  float64 `json:"average_node_clustering"`
	WeightedNodeClustering float64 `json:"weighted_node_clustering"`
	AverageEdgeClustering  float64 `json:"average_edge_clustering"`
}

// Statistics contains analyzer performance metrics.
type Statistics struct {
	RuntimeMS    int64 `json:"runtime_ms"`
	MemoryPeakMB int64 `json:"memory_peak_mb"`
}

// Run computes all clustering coefficient metrics for the hypergraph.
// The per-node and per-edge coefficient arrays are attached only when
// output.include_raw is set.
func Run(hg *hypergraph.Hypergraph, config *hypergraph.Config, ctx context.Context) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger("clustering")

	logger.Info().
		Int("nodes", hg.NumNodes()).
		Int("hyperedges", hg.NumEdges()).
		Msg("Starting clustering coefficient analysis")

	if err := hg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hypergraph: %w", err)
	}

	// Step 1: per-node coefficients
	nodeCC := make([]float64, 0, hg.NumNodes())
	for i, node := range hg.Nodes {
		nodeCC = append(nodeCC, NodeCoefficient(hg, node))
		if config.EnableProgress() && (i+1)%1000 == 0 {
			logger.Debug().
				Int("processed", i+1).
				Int("total", hg.NumNodes()).
				Msg("Node clustering progress")
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Step 2: per-hyperedge coefficients
	edgeCC := make([]float64, 0, hg.NumEdges())
	for idx := range hg.Edges {
		edgeCC = append(edgeCC, EdgeCoefficient(hg, idx))
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Step 3: global and stratified aggregates
	result := &Result{
		BasicStats: hg.Stats(),
		GlobalClustering: GlobalClustering{
			AverageNodeClustering:  stats.Mean(nodeCC),
			WeightedNodeClustering: weightedGlobal(hg, nodeCC),
			AverageEdgeClustering:  stats.Mean(edgeCC),
		},
		NodeDistribution: stats.Describe(nodeCC),
		EdgeDistribution: stats.Describe(edgeCC),
		SizeStratified:   sizeStratified(hg, edgeCC),
		Statistics: Statistics{
			RuntimeMS:    time.Since(startTime).Milliseconds(),
			MemoryPeakMB: getMemoryUsage(),
		},
	}
	if config.IncludeRaw() {
		result.RawNodeClustering = nodeCC
		result.RawEdgeClustering = edgeCC
	}

	logger.Info().
		Float64("average_node_clustering", result.GlobalClustering.AverageNodeClustering).
		Float64("average_edge_clustering", result.GlobalClustering.AverageEdgeClustering).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Clustering coefficient analysis completed")

	return result, nil
}

// NodeCoefficient computes C(v): the fraction of v's neighbor pairs that
// co-occur in at least one hyperedge. Nodes with fewer than two neighbors
// score 0.
func NodeCoefficient(hg *hypergraph.Hypergraph, node string) float64 {
	neighbors := hg.Neighbors(node)
	if len(neighbors) < 2 {
		return 0
	}

	connected := 0
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			if hg.CoOccur(neighbors[i], neighbors[j]) {
				connected++
			}
		}
	}
	possible := len(neighbors) * (len(neighbors) - 1) / 2
	return float64(connected) / float64(possible)
}

// EdgeCoefficient computes C(e): the fraction of member pairs of hyperedge
// idx that also co-occur in some other hyperedge. Hyperedges with fewer
// than two members score 0.
func EdgeCoefficient(hg *hypergraph.Hypergraph, idx int) float64 {
	members := hg.Edges[idx].Nodes
	if len(members) < 2 {
		return 0
	}

	connected := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if hg.CoOccurExcluding(members[i], members[j], idx) {
				connected++
			}
		}
	}
	possible := len(members) * (len(members) - 1) / 2
	return float64(connected) / float64(possible)
}

// weightedGlobal computes the degree-weighted mean of the node coefficients.
// A zero total degree yields 0.
func weightedGlobal(hg *hypergraph.Hypergraph, nodeCC []float64) float64 {
	totalDegree := 0
	weighted := 0.0
	for i, node := range hg.Nodes {
		degree := hg.Degree(node)
		totalDegree += degree
		weighted += float64(degree) * nodeCC[i]
	}
	if totalDegree == 0 {
		return 0
	}
	return weighted / float64(totalDegree)
}

// sizeStratified groups hyperedge coefficients by hyperedge size and returns
// the per-size mean. Sizes below 2 are skipped.
func sizeStratified(hg *hypergraph.Hypergraph, edgeCC []float64) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for idx := range hg.Edges {
		size := hg.Edges[idx].Size()
		if size < 2 {
			continue
		}
		sums[size] += edgeCC[idx]
		counts[size]++
	}
	means := make(map[int]float64, len(sums))
	for size, sum := range sums {
		means[size] = sum / float64(counts[size])
	}
	return means
}

func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
