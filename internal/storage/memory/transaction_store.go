package memory

import (
	"context"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data []*domain.Transaction // ingestion order
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// InsertBulk appends transactions atomically. Fails entire batch on a nil element.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	// First pass: validate
	for _, tx := range txs {
		if tx == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Second pass: append copies
	for _, tx := range txs {
		s.data = append(s.data, copyTransaction(tx))
	}
	return nil
}

// GetAll retrieves every transaction in ingestion order.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		result = append(result, copyTransaction(tx))
	}
	return result, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// copyTransaction deep-copies the optional fields so callers cannot mutate stored rows.
func copyTransaction(tx *domain.Transaction) *domain.Transaction {
	c := &domain.Transaction{Action: tx.Action}
	if tx.Wallet != nil {
		v := *tx.Wallet
		c.Wallet = &v
	}
	if tx.Timestamp != nil {
		v := *tx.Timestamp
		c.Timestamp = &v
	}
	if tx.Amount != nil {
		v := *tx.Amount
		c.Amount = &v
	}
	if tx.AssetPriceUSD != nil {
		v := *tx.AssetPriceUSD
		c.AssetPriceUSD = &v
	}
	return c
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
