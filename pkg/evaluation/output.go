package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output file names inside an evaluation directory.
const (
	CompleteResultsFile = "evaluation_results_complete.json"
	DistancesFile       = "similarity_distances.json"
)

// compressedListKeys are the result arrays that grow with the input. The
// complete results file replaces them with their length and a short sample.
var compressedListKeys = map[string]bool{
	"raw_node_clustering": true,
	"raw_edge_clustering": true,
	"eigenvalues":         true,
}

// WriteEvaluation writes the complete results file (large arrays compressed)
// and the distances file into dir, creating it if needed.
func WriteEvaluation(dir string, results *Results, distances *Distances) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	compressed, err := compressResults(results)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, CompleteResultsFile), compressed); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, DistancesFile), distances)
}

// WriteAnalyzerResults writes one bundle as standalone analyzer files under
// dir, named <stem>_<analysis>.json. Sections missing from the bundle are
// skipped. The clustering raw arrays are kept only when includeRaw; the
// per-node structural maps never reach the standalone files.
func WriteAnalyzerResults(dir, stem string, bundle *Bundle, includeRaw bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []struct {
		suffix string
		value  interface{}
	}
	add := func(suffix string, value interface{}) {
		files = append(files, struct {
			suffix string
			value  interface{}
		}{suffix, value})
	}

	if bundle.Clustering != nil {
		cc := *bundle.Clustering
		if !includeRaw {
			cc.RawNodeClustering = nil
			cc.RawEdgeClustering = nil
		}
		add("_clustering_coefficient.json", &cc)
	}
	if bundle.Structural != nil {
		st := *bundle.Structural
		st.WedgeCounts.NodeWedgeCounts = nil
		st.ClawCounts.NodeDegrees = nil
		add("_structural_counts.json", &st)
	}
	if bundle.Motif != nil {
		add("_motif_analysis.json", bundle.Motif)
	}
	if bundle.Spectral != nil {
		add("_spectral_similarity.json", bundle.Spectral)
	}

	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, stem+f.suffix), f.value); err != nil {
			return err
		}
	}
	return nil
}

// InputStem returns the input file name without directory or extension, the
// prefix of the standalone analyzer files.
func InputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// compressResults rewrites the results with every compressible array reduced
// to its length and first ten values. Numbers round-trip as json.Number so
// arbitrary-precision counts survive unchanged.
func compressResults(results *Results) (map[string]interface{}, error) {
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded map[string]interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return compressMap(decoded), nil
}

func compressMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		switch v := value.(type) {
		case map[string]interface{}:
			out[key] = compressMap(v)
		case []interface{}:
			if compressedListKeys[key] {
				sample := v
				if len(v) > 10 {
					sample = v[:10]
				}
				out[key] = map[string]interface{}{
					"count":  len(v),
					"sample": sample,
				}
			} else {
				out[key] = v
			}
		default:
			out[key] = value
		}
	}
	return out
}
