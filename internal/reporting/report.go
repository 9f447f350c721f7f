package reporting

import (
	"sort"
	"time"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/features"
)

// topWalletsLimit caps the leaderboard in the Markdown summary.
const topWalletsLimit = 10

// Report represents the run summary.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	ModelVersion string
	DataVersion  string
	Input        string

	// Data Summary
	DataSummary DataSummary

	// Score distribution over all scored wallets
	Distribution ScoreDistribution

	// Behavior flags
	Flags FlagSummary

	// Top wallets by score (score DESC, first-seen order on ties)
	TopWallets []domain.ScoreResult
}

// DataSummary describes the loaded records.
type DataSummary struct {
	RecordsLoaded    int
	RecordsSkipped   int
	MissingWallet    int
	MissingTimestamp int
	WalletsScored    int
	FirstTimestamp   int64 // unix seconds, 0 if no valid record
	LastTimestamp    int64 // unix seconds, 0 if no valid record
}

// ScoreDistribution contains summary statistics of public scores.
type ScoreDistribution struct {
	Min    int
	Max    int
	Mean   float64
	Median float64
	P10    float64
	P90    float64
}

// FlagSummary counts wallets affected by each penalty or boundary.
type FlagSummary struct {
	BotPenalized  int
	Liquidated    int
	ZeroScore     int
	MaxScore      int
	NeverBorrowed int
}

// BuildReport assembles the run summary from aggregation output and scores.
// featureList and results must be index-aligned (as returned by scoring.ScoreAll).
func BuildReport(featureList []*domain.WalletFeatures, results []domain.ScoreResult, recordsLoaded int, skipped features.SkipStats) *Report {
	r := &Report{
		DataSummary: DataSummary{
			RecordsLoaded:    recordsLoaded,
			RecordsSkipped:   skipped.Total(),
			MissingWallet:    skipped.MissingWallet,
			MissingTimestamp: skipped.MissingTimestamp,
			WalletsScored:    len(results),
		},
		Distribution: computeDistribution(results),
	}

	first := true
	for _, f := range featureList {
		for _, ts := range f.Timestamps {
			if first || ts < r.DataSummary.FirstTimestamp {
				r.DataSummary.FirstTimestamp = ts
			}
			if first || ts > r.DataSummary.LastTimestamp {
				r.DataSummary.LastTimestamp = ts
			}
			first = false
		}
		if f.NumLiquidations > 0 {
			r.Flags.Liquidated++
		}
		if f.TotalBorrowUSD == 0 {
			r.Flags.NeverBorrowed++
		}
	}

	for _, res := range results {
		if res.Breakdown.BotPenalized() {
			r.Flags.BotPenalized++
		}
		switch res.Score {
		case domain.MinScore:
			r.Flags.ZeroScore++
		case domain.MaxScore:
			r.Flags.MaxScore++
		}
	}

	r.TopWallets = topWallets(results, topWalletsLimit)
	return r
}

// topWallets returns up to n results ordered by score DESC; stable on ties.
func topWallets(results []domain.ScoreResult, n int) []domain.ScoreResult {
	sorted := make([]domain.ScoreResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
