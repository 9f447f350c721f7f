// Package features aggregates raw lending transactions into per-wallet features.
package features

import (
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/quantity"
)

// Skip reasons, used as metric labels and in the run report.
const (
	SkipMissingWallet    = "missing_wallet"
	SkipMissingTimestamp = "missing_timestamp"
)

// SkipStats counts records dropped because a required field was absent.
type SkipStats struct {
	MissingWallet    int
	MissingTimestamp int
}

// Total returns the number of skipped records.
func (s SkipStats) Total() int {
	return s.MissingWallet + s.MissingTimestamp
}

// Aggregator accumulates WalletFeatures keyed by wallet, remembering the
// order in which wallets were first seen.
type Aggregator struct {
	byWallet map[string]*domain.WalletFeatures
	order    []string
	skipped  SkipStats
	records  int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byWallet: make(map[string]*domain.WalletFeatures),
	}
}

// Add folds one transaction into the wallet's features.
// Quantities are coerced before the skip check, so a malformed amount or
// price fails even on a record that would otherwise be skipped.
func (a *Aggregator) Add(tx *domain.Transaction) error {
	if tx == nil {
		return nil
	}
	a.records++

	amountUSD, err := quantity.Product(tx.Amount, tx.AssetPriceUSD)
	if err != nil {
		return fmt.Errorf("record %d: %w", a.records, err)
	}

	if tx.Wallet == nil {
		a.skipped.MissingWallet++
		return nil
	}
	if tx.Timestamp == nil {
		a.skipped.MissingTimestamp++
		return nil
	}

	f := a.getOrCreate(*tx.Wallet)
	f.Timestamps = append(f.Timestamps, *tx.Timestamp)

	switch domain.NormalizeAction(tx.Action) {
	case domain.ActionDeposit:
		f.NumDeposits++
		f.TotalDepositUSD += amountUSD
	case domain.ActionBorrow:
		f.NumBorrows++
		f.TotalBorrowUSD += amountUSD
	case domain.ActionRepay:
		f.NumRepayments++
		f.TotalRepayUSD += amountUSD
	case domain.ActionLiquidationCall:
		f.NumLiquidations++
	}

	return nil
}

// AddAll folds every transaction in order, stopping at the first error.
func (a *Aggregator) AddAll(txs []*domain.Transaction) error {
	for _, tx := range txs {
		if err := a.Add(tx); err != nil {
			return err
		}
	}
	return nil
}

// getOrCreate returns the wallet's features, inserting an empty record on first sight.
func (a *Aggregator) getOrCreate(wallet string) *domain.WalletFeatures {
	if f, ok := a.byWallet[wallet]; ok {
		return f
	}
	f := &domain.WalletFeatures{Wallet: wallet}
	a.byWallet[wallet] = f
	a.order = append(a.order, wallet)
	return f
}

// Get returns the features of a wallet, or false if it was never seen.
func (a *Aggregator) Get(wallet string) (*domain.WalletFeatures, bool) {
	f, ok := a.byWallet[wallet]
	return f, ok
}

// Features returns all wallet features in first-seen order.
func (a *Aggregator) Features() []*domain.WalletFeatures {
	result := make([]*domain.WalletFeatures, 0, len(a.order))
	for _, w := range a.order {
		result = append(result, a.byWallet[w])
	}
	return result
}

// Len returns the number of distinct wallets.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// Records returns the number of records passed to Add.
func (a *Aggregator) Records() int {
	return a.records
}

// Skipped returns counts of records dropped for missing wallet or timestamp.
func (a *Aggregator) Skipped() SkipStats {
	return a.skipped
}

// Aggregate is a convenience wrapper building features for a whole batch.
func Aggregate(txs []*domain.Transaction) (*Aggregator, error) {
	a := NewAggregator()
	if err := a.AddAll(txs); err != nil {
		return nil, err
	}
	return a, nil
}
