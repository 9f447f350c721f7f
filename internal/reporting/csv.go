package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// ScoresHeader is the header row of the scores output.
var ScoresHeader = []string{"wallet_id", "score"}

// FeaturesHeader is the header row of the per-wallet features export.
var FeaturesHeader = []string{
	"wallet_id", "score",
	"num_transactions", "num_deposits", "num_borrows", "num_repayments", "num_liquidations",
	"total_deposit_usd", "total_borrow_usd", "total_repay_usd",
	"repay_ratio", "avg_gap_days", "bot_penalized", "raw_score",
}

// WriteScoresCSV writes one row per wallet in the given order.
// Rows use CRLF terminators and quote only fields that need it.
func WriteScoresCSV(w io.Writer, results []domain.ScoreResult) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(ScoresHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Wallet, strconv.Itoa(r.Score)}); err != nil {
			return fmt.Errorf("write row %s: %w", r.Wallet, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RenderScoresCSV renders scores as CSV bytes.
func RenderScoresCSV(results []domain.ScoreResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteScoresCSV(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderFeaturesCSV renders per-wallet features with their score breakdown.
// features and results must be index-aligned.
func RenderFeaturesCSV(features []*domain.WalletFeatures, results []domain.ScoreResult) ([]byte, error) {
	if len(features) != len(results) {
		return nil, fmt.Errorf("features/results length mismatch: %d != %d", len(features), len(results))
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true

	if err := cw.Write(FeaturesHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, f := range features {
		r := results[i]
		if f.Wallet != r.Wallet {
			return nil, fmt.Errorf("row %d: wallet mismatch %q != %q", i, f.Wallet, r.Wallet)
		}
		row := []string{
			f.Wallet,
			strconv.Itoa(r.Score),
			strconv.Itoa(f.NumTransactions()),
			strconv.Itoa(f.NumDeposits),
			strconv.Itoa(f.NumBorrows),
			strconv.Itoa(f.NumRepayments),
			strconv.Itoa(f.NumLiquidations),
			formatFloat(f.TotalDepositUSD),
			formatFloat(f.TotalBorrowUSD),
			formatFloat(f.TotalRepayUSD),
			formatFloat(r.Breakdown.RepayRatio),
			formatFloat(r.Breakdown.AvgGapDays),
			strconv.FormatBool(r.Breakdown.BotPenalized()),
			formatFloat(r.Breakdown.RawScore),
		}
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("write row %s: %w", f.Wallet, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
