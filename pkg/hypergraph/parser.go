package hypergraph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadFromFile parses a hypergraph from a line-per-hyperedge text file.
// Each line holds the node identifiers of one hyperedge separated by
// whitespace; blank lines are skipped. A file that yields no hyperedges
// is an input error.
func LoadFromFile(path string) (*Hypergraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hypergraph file: %w", err)
	}
	defer file.Close()

	h, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if h.NumEdges() == 0 {
		return nil, fmt.Errorf("empty hypergraph: %s contains no hyperedges", path)
	}
	return h, nil
}

// Parse reads hyperedges from r, one per line.
func Parse(r io.Reader) (*Hypergraph, error) {
	scanner := bufio.NewScanner(r)
	// Hyperedges over large universes can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var lines [][]string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hypergraph data: %w", err)
	}
	return New(lines), nil
}
