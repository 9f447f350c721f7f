package domain

// Score bounds.
const (
	MinScore = 0
	MaxScore = 1000
)

// ScoreResult is the public score of one wallet.
type ScoreResult struct {
	Wallet    string
	Score     int // in [MinScore, MaxScore]
	Breakdown ScoreBreakdown
}

// ScoreBreakdown holds every intermediate term of the scoring model.
type ScoreBreakdown struct {
	DepositScore       float64 // ln(1 + total_deposit_usd)
	RepayScore         float64 // ln(1 + total_repay_usd)
	RepayRatio         float64 // repaid / borrowed, capped at 1.0
	LiquidationPenalty float64 // num_liquidations * 0.1
	AvgGapDays         float64 // mean gap between sorted timestamps, 999 if < 2 timestamps
	BotPenalty         float64 // 0.1 if AvgGapDays < 1
	RawScore           float64 // weighted combination before scaling and clamping
}

// BotPenalized reports whether the cadence penalty was applied.
func (b ScoreBreakdown) BotPenalized() bool {
	return b.BotPenalty > 0
}
