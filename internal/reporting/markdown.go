package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wallet Score Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.ModelVersion != "" {
		sb.WriteString(fmt.Sprintf("Model: %s", r.ModelVersion))
		if r.DataVersion != "" {
			sb.WriteString(fmt.Sprintf(" | Data: %s", r.DataVersion))
		}
		sb.WriteString("\n\n")
	}
	if r.Input != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n\n", r.Input))
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Records Loaded | %d |\n", r.DataSummary.RecordsLoaded))
	sb.WriteString(fmt.Sprintf("| Records Skipped | %d |\n", r.DataSummary.RecordsSkipped))
	sb.WriteString(fmt.Sprintf("| Skipped: Missing Wallet | %d |\n", r.DataSummary.MissingWallet))
	sb.WriteString(fmt.Sprintf("| Skipped: Missing Timestamp | %d |\n", r.DataSummary.MissingTimestamp))
	sb.WriteString(fmt.Sprintf("| Wallets Scored | %d |\n", r.DataSummary.WalletsScored))
	sb.WriteString(fmt.Sprintf("| First Timestamp (s) | %d |\n", r.DataSummary.FirstTimestamp))
	sb.WriteString(fmt.Sprintf("| Last Timestamp (s) | %d |\n", r.DataSummary.LastTimestamp))
	sb.WriteString("\n")

	// Distribution
	sb.WriteString("## Score Distribution\n\n")
	if r.DataSummary.WalletsScored == 0 {
		sb.WriteString("No wallets scored.\n\n")
	} else {
		d := r.Distribution
		sb.WriteString("| Min | P10 | Median | Mean | P90 | Max |\n")
		sb.WriteString("|-----|-----|--------|------|-----|-----|\n")
		sb.WriteString(fmt.Sprintf("| %d | %.1f | %.1f | %.1f | %.1f | %d |\n\n",
			d.Min, d.P10, d.Median, d.Mean, d.P90, d.Max))
	}

	// Flags
	sb.WriteString("## Behavior Flags\n\n")
	sb.WriteString("| Flag | Wallets |\n")
	sb.WriteString("|------|---------|\n")
	sb.WriteString(fmt.Sprintf("| Bot Penalized | %d |\n", r.Flags.BotPenalized))
	sb.WriteString(fmt.Sprintf("| Liquidated | %d |\n", r.Flags.Liquidated))
	sb.WriteString(fmt.Sprintf("| Never Borrowed | %d |\n", r.Flags.NeverBorrowed))
	sb.WriteString(fmt.Sprintf("| Score 0 | %d |\n", r.Flags.ZeroScore))
	sb.WriteString(fmt.Sprintf("| Score 1000 | %d |\n", r.Flags.MaxScore))
	sb.WriteString("\n")

	// Top wallets
	sb.WriteString("## Top Wallets\n\n")
	if len(r.TopWallets) > 0 {
		sb.WriteString("| Wallet | Score | Repay Ratio | Avg Gap (days) | Bot |\n")
		sb.WriteString("|--------|-------|-------------|----------------|-----|\n")
		for _, w := range r.TopWallets {
			bot := "no"
			if w.Breakdown.BotPenalized() {
				bot = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.2f | %s |\n",
				escapeCell(w.Wallet), w.Score, w.Breakdown.RepayRatio, w.Breakdown.AvgGapDays, bot))
		}
	} else {
		sb.WriteString("No wallets scored.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// escapeCell keeps wallet ids from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
