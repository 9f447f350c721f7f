package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
// Rows live in lending_transactions; seq preserves ingestion order.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// InsertBulk appends transactions atomically. Fails entire batch on any error.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if t == nil {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO lending_transactions (
			user_wallet, action, ts, amount, asset_price_usd
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	for _, t := range txs {
		_, err := tx.Exec(ctx, query, t.Wallet, t.Action, t.Timestamp, t.Amount, t.AssetPriceUSD)
		if err != nil {
			if isUndefinedTableError(err) {
				return fmt.Errorf("lending_transactions: %w", storage.ErrNotFound)
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every transaction ordered by seq ASC.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT user_wallet, action, ts, amount, asset_price_usd
		FROM lending_transactions
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("lending_transactions: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lending_transactions`).Scan(&count)
	if err != nil {
		if isUndefinedTableError(err) {
			return 0, fmt.Errorf("lending_transactions: %w", storage.ErrNotFound)
		}
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(count), nil
}

// scanTransactions scans multiple rows.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		t := &domain.Transaction{}
		if err := rows.Scan(&t.Wallet, &t.Action, &t.Timestamp, &t.Amount, &t.AssetPriceUSD); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("lending_transactions: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
