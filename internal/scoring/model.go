// Package scoring converts wallet features into a bounded credit score.
//
// The model rewards log-dampened deposit and repayment volume and a healthy
// repayment ratio, and subtracts small penalties for liquidations and for
// machine-like transaction cadence. Each wallet is scored independently.
package scoring

import (
	"math"
	"sort"

	"wallet-credit-score/internal/domain"
)

// ModelVersion identifies the weight set below. Bump it whenever a weight changes.
const ModelVersion = "v1.0.0"

// Model weights.
const (
	WeightDeposit     = 0.3
	WeightRepay       = 0.3
	WeightRepayRatio  = 0.2
	WeightLiquidation = 0.1
	WeightBot         = 0.1
)

// Penalty shaping.
const (
	LiquidationPenaltyPerEvent = 0.1
	BotPenalty                 = 0.1
	BotGapThresholdDays        = 1.0

	// NoGapDays is used when a wallet has fewer than two timestamps.
	NoGapDays = 999.0

	// ScoreScale maps the raw score onto the public range.
	ScoreScale = 100.0

	secondsPerDay = 60 * 60 * 24
)

// Score returns the public score of a wallet in [domain.MinScore, domain.MaxScore].
func Score(f *domain.WalletFeatures) int {
	return scaledScore(Explain(f))
}

// Explain computes every term of the model for a wallet.
func Explain(f *domain.WalletFeatures) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		DepositScore:       math.Log1p(f.TotalDepositUSD),
		RepayScore:         math.Log1p(f.TotalRepayUSD),
		RepayRatio:         repayRatio(f.TotalRepayUSD, f.TotalBorrowUSD),
		LiquidationPenalty: float64(f.NumLiquidations) * LiquidationPenaltyPerEvent,
		AvgGapDays:         averageGapDays(f.Timestamps),
	}
	if b.AvgGapDays < BotGapThresholdDays {
		b.BotPenalty = BotPenalty
	}

	b.RawScore = b.DepositScore*WeightDeposit +
		b.RepayScore*WeightRepay +
		b.RepayRatio*WeightRepayRatio -
		b.LiquidationPenalty*WeightLiquidation -
		b.BotPenalty*WeightBot

	return b
}

// ScoreAll scores every wallet, preserving input order.
func ScoreAll(features []*domain.WalletFeatures) []domain.ScoreResult {
	results := make([]domain.ScoreResult, 0, len(features))
	for _, f := range features {
		b := Explain(f)
		results = append(results, domain.ScoreResult{
			Wallet:    f.Wallet,
			Score:     scaledScore(b),
			Breakdown: b,
		})
	}
	return results
}

// repayRatio returns repaid/borrowed capped at 1.0. A wallet that never
// borrowed has nothing outstanding and gets the full ratio.
func repayRatio(repaid, borrowed float64) float64 {
	if borrowed > 0 {
		return math.Min(repaid/borrowed, 1.0)
	}
	return 1.0
}

// averageGapDays returns the mean gap between consecutive sorted timestamps in days.
// Timestamps are not modified.
func averageGapDays(timestamps []int64) float64 {
	n := len(timestamps)
	if n < 2 {
		return NoGapDays
	}

	sorted := make([]int64, n)
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	// Gaps are summed in float64; int64 differences overflow at the range ends.
	var sum float64
	for i := 1; i < n; i++ {
		sum += float64(sorted[i]) - float64(sorted[i-1])
	}
	return sum / float64(n-1) / secondsPerDay
}

// scaledScore scales the raw score, clamps it to the public range and
// truncates toward zero. A NaN raw score (overflowed totals, Inf/Inf ratio)
// maps to the maximum.
func scaledScore(b domain.ScoreBreakdown) int {
	if math.IsNaN(b.RawScore) {
		return domain.MaxScore
	}
	v := math.Max(domain.MinScore, math.Min(domain.MaxScore, b.RawScore*ScoreScale))
	return int(v)
}
