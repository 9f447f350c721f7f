package pipeline

import (
	"context"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// LoadFixtures populates store with demonstration lending history.
func LoadFixtures(ctx context.Context, store storage.TransactionStore) error {
	return store.InsertBulk(ctx, FixtureTransactions())
}

// FixtureTransactions returns a small lending history covering every scoring
// branch: a steady borrower, a liquidated wallet, a high-frequency wallet,
// a deposit-only wallet and records that are skipped.
func FixtureTransactions() []*domain.Transaction {
	const day = int64(86400)
	base := int64(1704067200) // 2024-01-01 00:00:00 UTC

	return []*domain.Transaction{
		// Steady borrower: 1000 deposited, 100 borrowed, 50 repaid, daily cadence.
		fixture("0xsteady", domain.ActionDeposit, base, "1000", "1"),
		fixture("0xsteady", domain.ActionBorrow, base+day, "100", "1"),
		fixture("0xsteady", domain.ActionRepay, base+2*day, "50", "1"),

		// Liquidated twice after borrowing without repaying.
		fixture("0xliquidated", domain.ActionDeposit, base, "2", "1500"),
		fixture("0xliquidated", domain.ActionBorrow, base+3*day, "2000", "1"),
		fixture("0xliquidated", domain.ActionLiquidationCall, base+10*day, "", ""),
		fixture("0xliquidated", domain.ActionLiquidationCall, base+11*day, "", ""),

		// High-frequency activity, minutes apart.
		fixture("0xbot", domain.ActionDeposit, base, "500", "1"),
		fixture("0xbot", domain.ActionBorrow, base+60, "100", "1"),
		fixture("0xbot", domain.ActionRepay, base+120, "100", "1"),
		fixture("0xbot", domain.ActionDeposit, base+180, "500", "1"),

		// Deposit only, single record.
		fixture("0xsaver", domain.ActionDeposit, base+5*day, "10000", "1"),

		// Skipped: no wallet, then no timestamp.
		{Action: domain.ActionDeposit, Timestamp: int64Ptr(base), Amount: strPtr("1"), AssetPriceUSD: strPtr("1")},
		{Wallet: strPtr("0xsteady"), Action: domain.ActionDeposit, Amount: strPtr("1"), AssetPriceUSD: strPtr("1")},
	}
}

func fixture(wallet, action string, ts int64, amount, price string) *domain.Transaction {
	tx := &domain.Transaction{
		Wallet:    strPtr(wallet),
		Action:    action,
		Timestamp: int64Ptr(ts),
	}
	if amount != "" {
		tx.Amount = strPtr(amount)
	}
	if price != "" {
		tx.AssetPriceUSD = strPtr(price)
	}
	return tx
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
