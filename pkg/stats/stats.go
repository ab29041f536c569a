// Package stats provides the shared descriptive statistics, entropy, and
// distance helpers used by the hypergraph analyzers.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over a sample. Std is the population
// standard deviation; percentiles use linear interpolation.
type Summary struct {
	Mean         float64 `json:"mean"`
	Std          float64 `json:"std"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Percentile25 float64 `json:"percentile_25"`
	Percentile75 float64 `json:"percentile_75"`
}

// Describe computes summary statistics over xs. Empty input yields zeros.
func Describe(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mean := stat.Mean(xs, nil)
	return Summary{
		Mean:         mean,
		Std:          math.Sqrt(stat.MomentAbout(2, xs, mean, nil)),
		Min:          sorted[0],
		Max:          sorted[len(sorted)-1],
		Median:       Percentile(sorted, 0.5),
		Percentile25: Percentile(sorted, 0.25),
		Percentile75: Percentile(sorted, 0.75),
	}
}

// Mean returns the arithmetic mean of xs, 0 for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// PopStd returns the population standard deviation of xs, 0 for empty input.
func PopStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return math.Sqrt(stat.MomentAbout(2, xs, stat.Mean(xs, nil), nil))
}

// Percentile returns the p-quantile (p in [0,1]) of ascending-sorted xs,
// interpolating linearly between the two nearest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Entropy computes the base-2 Shannon entropy of a frequency distribution.
func Entropy(counts map[int]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			probs = append(probs, float64(c)/float64(total))
		}
	}
	return stat.Entropy(probs) / math.Ln2
}

// NormalizedEntropy divides the base-2 entropy by log2 of the number of
// distinct values present. A single distinct value yields 0.
func NormalizedEntropy(counts map[int]int) float64 {
	distinct := 0
	for _, c := range counts {
		if c > 0 {
			distinct++
		}
	}
	if distinct <= 1 {
		return 0
	}
	return Entropy(counts) / math.Log2(float64(distinct))
}

// EntropyFromWeights computes the base-2 Shannon entropy of non-negative
// weights normalized to probabilities. A zero weight sum yields 0.
func EntropyFromWeights(ws []float64) float64 {
	total := 0.0
	for _, w := range ws {
		total += w
	}
	if total == 0 {
		return 0
	}
	probs := make([]float64, 0, len(ws))
	for _, w := range ws {
		if p := w / total; p > 0 {
			probs = append(probs, p)
		}
	}
	return stat.Entropy(probs) / math.Ln2
}

// Binomial computes C(n, k) exactly with the multiplicative formula.
// Safe in int64 for the small k used by wedge and claw counting.
func Binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// Euclidean returns the L2 distance between two equal-length vectors.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// CosineDistance returns one minus the cosine similarity of two equal-length
// vectors. A zero-norm input yields 0.
func CosineDistance(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}
