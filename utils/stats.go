package utils

import (
	"math"
	"sort"
)

// Number is the set of value types the map helpers accept
type Number interface {
	~int | ~float64
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SafeDiv divides by max(1, den) so empty denominators yield 0 instead of NaN
func SafeDiv(num, den float64) float64 {
	return num / math.Max(1, den)
}

// Pct returns part/whole as a percentage rounded to two decimals
func Pct(part, whole float64) float64 {
	return Round2(SafeDiv(part, whole) * 100)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, 0 for an empty slice
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Percentile returns the p-th percentile (0-100) using linear interpolation.
// The input is not modified. Empty input returns 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p = Clamp(p, 0, 100)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Quartiles returns the 25th, 50th and 75th percentiles
func Quartiles(values []float64) (q1, q2, q3 float64) {
	return Percentile(values, 25), Percentile(values, 50), Percentile(values, 75)
}

// SortedKeys returns the map keys in ascending order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SumValues adds the map values in key order so the float result is reproducible
func SumValues[V Number](m map[string]V) V {
	var total V
	for _, k := range SortedKeys(m) {
		total += m[k]
	}
	return total
}

// TopKey returns the key with the largest value, ties broken alphabetically.
// An empty map returns fallback.
func TopKey[V Number](m map[string]V, fallback string) string {
	best := fallback
	var bestVal V
	found := false
	for _, k := range SortedKeys(m) {
		if !found || m[k] > bestVal {
			best, bestVal, found = k, m[k], true
		}
	}
	return best
}

// DiversityIndex is 1 - HHI over the category counts, rounded to two decimals.
// One category yields 0; an even spread over many categories approaches 1.
func DiversityIndex[V Number](counts map[string]V) float64 {
	total := float64(SumValues(counts))
	if total <= 0 {
		return 0
	}
	var hhi float64
	for _, k := range SortedKeys(counts) {
		share := float64(counts[k]) / total
		hhi += share * share
	}
	return Round2(1 - hhi)
}
