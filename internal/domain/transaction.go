package domain

import (
	"errors"
	"strings"
)

// Transaction is one lending-protocol action as read from a source.
// Optional fields are nil when the source omitted them (or carried null).
type Transaction struct {
	Wallet        *string // userWallet, record is skipped when nil
	Action        string  // raw action name, "" when absent
	Timestamp     *int64  // unix seconds, record is skipped when nil
	Amount        *string // textual decimal quantity, nil means 0
	AssetPriceUSD *string // textual decimal USD price, nil means 0
}

// Action names recognized by the aggregator (compared after lowercasing).
const (
	ActionDeposit         = "deposit"
	ActionBorrow          = "borrow"
	ActionRepay           = "repay"
	ActionLiquidationCall = "liquidationcall"
)

// NormalizeAction returns the lowercased action name used for dispatch.
func NormalizeAction(action string) string {
	return strings.ToLower(action)
}

// Input errors. Both abort the whole run.
var (
	// ErrInvalidQuantity is returned when amount or assetPriceUSD is present
	// but is not a finite, non-negative decimal number.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidTimestamp is returned when timestamp is present but is not
	// an integral number of seconds.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
