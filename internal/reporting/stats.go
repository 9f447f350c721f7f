package reporting

import (
	"sort"

	"wallet-credit-score/internal/domain"
)

// computeDistribution calculates min/max/mean and percentiles of scores.
func computeDistribution(results []domain.ScoreResult) ScoreDistribution {
	n := len(results)
	if n == 0 {
		return ScoreDistribution{}
	}

	scores := make([]float64, n)
	for i, r := range results {
		scores[i] = float64(r.Score)
	}
	sort.Float64s(scores)

	return ScoreDistribution{
		Min:    int(scores[0]),
		Max:    int(scores[n-1]),
		Mean:   computeMean(scores),
		Median: computePercentile(scores, 0.50),
		P10:    computePercentile(scores, 0.10),
		P90:    computePercentile(scores, 0.90),
	}
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computePercentile returns the p-th percentile of sorted values using
// linear interpolation between closest ranks.
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
