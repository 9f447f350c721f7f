package domain

// WalletFeatures is the behavioral summary accumulated for one wallet.
// Counters and totals only grow during aggregation.
type WalletFeatures struct {
	Wallet string

	// Counts
	NumDeposits     int
	NumBorrows      int
	NumRepayments   int
	NumLiquidations int

	// USD volume (amount * assetPriceUSD)
	TotalDepositUSD float64
	TotalBorrowUSD  float64
	TotalRepayUSD   float64

	// Timestamps holds every timestamp seen for the wallet in insertion order.
	// Sorted copies are taken when gaps are computed.
	Timestamps []int64
}

// NumTransactions returns how many valid records referenced the wallet.
func (f *WalletFeatures) NumTransactions() int {
	return len(f.Timestamps)
}
