package reporting

import (
	"bytes"
	"strings"
	"testing"

	"wallet-credit-score/internal/domain"
)

func TestWriteScoresCSV_HeaderAndOrder(t *testing.T) {
	results := []domain.ScoreResult{
		{Wallet: "0xb", Score: 413},
		{Wallet: "0xa", Score: 0},
	}

	var buf bytes.Buffer
	if err := WriteScoresCSV(&buf, results); err != nil {
		t.Fatalf("WriteScoresCSV failed: %v", err)
	}

	want := "wallet_id,score\r\n0xb,413\r\n0xa,0\r\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteScoresCSV_Empty(t *testing.T) {
	out, err := RenderScoresCSV(nil)
	if err != nil {
		t.Fatalf("RenderScoresCSV failed: %v", err)
	}
	if string(out) != "wallet_id,score\r\n" {
		t.Errorf("expected header only, got %q", out)
	}
}

func TestWriteScoresCSV_QuotesOnlyWhenNeeded(t *testing.T) {
	results := []domain.ScoreResult{
		{Wallet: "a,b", Score: 1},
		{Wallet: `say "hi"`, Score: 2},
		{Wallet: "", Score: 3},
	}

	out, err := RenderScoresCSV(results)
	if err != nil {
		t.Fatalf("RenderScoresCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), out)
	}
	if lines[1] != `"a,b",1` {
		t.Errorf("comma wallet: got %q", lines[1])
	}
	if lines[2] != `"say ""hi""",2` {
		t.Errorf("quote wallet: got %q", lines[2])
	}
	if lines[3] != ",3" {
		t.Errorf("empty wallet: got %q", lines[3])
	}
}

func TestRenderFeaturesCSV(t *testing.T) {
	features := []*domain.WalletFeatures{
		{Wallet: "0xa", NumDeposits: 1, NumBorrows: 1, NumRepayments: 1, TotalDepositUSD: 1000, TotalBorrowUSD: 100, TotalRepayUSD: 50, Timestamps: []int64{0, 86400, 172800}},
	}
	results := []domain.ScoreResult{
		{Wallet: "0xa", Score: 413, Breakdown: domain.ScoreBreakdown{RepayRatio: 0.5, AvgGapDays: 1, RawScore: 4.13}},
	}

	out, err := RenderFeaturesCSV(features, results)
	if err != nil {
		t.Fatalf("RenderFeaturesCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != strings.Join(FeaturesHeader, ",") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	want := "0xa,413,3,1,1,1,0,1000.000000,100.000000,50.000000,0.500000,1.000000,false,4.130000"
	if lines[1] != want {
		t.Errorf("got %q, want %q", lines[1], want)
	}
}

func TestRenderFeaturesCSV_Mismatch(t *testing.T) {
	features := []*domain.WalletFeatures{{Wallet: "0xa"}}

	if _, err := RenderFeaturesCSV(features, nil); err == nil {
		t.Error("expected error on length mismatch")
	}
	if _, err := RenderFeaturesCSV(features, []domain.ScoreResult{{Wallet: "0xb"}}); err == nil {
		t.Error("expected error on wallet mismatch")
	}
}
