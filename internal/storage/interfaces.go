package storage

import (
	"context"

	"wallet-credit-score/internal/domain"
)

// TransactionReader provides read access to raw lending transactions.
type TransactionReader interface {
	// GetAll retrieves every transaction in ingestion order.
	GetAll(ctx context.Context) ([]*domain.Transaction, error)
}

// TransactionStore provides access to lending_transactions storage.
type TransactionStore interface {
	TransactionReader

	// InsertBulk appends transactions atomically, preserving slice order.
	// Returns ErrInvalidInput if any element is nil.
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int, error)
}
