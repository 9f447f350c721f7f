package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// TransactionStore implements storage.TransactionStore using ClickHouse.
// MergeTree has no autoincrement, so InsertBulk assigns seq itself.
type TransactionStore struct {
	conn *Conn
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(conn *Conn) *TransactionStore {
	return &TransactionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// InsertBulk appends transactions in a single batch, continuing the seq
// numbering after the highest stored row.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if t == nil {
			return storage.ErrInvalidInput
		}
	}

	next, err := s.nextSeq(ctx)
	if err != nil {
		return err
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO lending_transactions (
			seq, user_wallet, action, ts, amount, asset_price_usd
		)
	`)
	if err != nil {
		return wrapTableError(err, "prepare batch")
	}

	for i, t := range txs {
		err = batch.Append(
			next+uint64(i),
			t.Wallet,
			t.Action,
			t.Timestamp,
			t.Amount,
			t.AssetPriceUSD,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
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

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, wrapTableError(err, "query transactions")
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count() FROM lending_transactions`).Scan(&count)
	if err != nil {
		return 0, wrapTableError(err, "count transactions")
	}
	return int(count), nil
}

// nextSeq returns the seq to assign to the next inserted row.
func (s *TransactionStore) nextSeq(ctx context.Context) (uint64, error) {
	var count, maxSeq uint64
	err := s.conn.QueryRow(ctx, `SELECT count(), max(seq) FROM lending_transactions`).Scan(&count, &maxSeq)
	if err != nil {
		return 0, wrapTableError(err, "read max seq")
	}
	if count == 0 {
		return 0, nil
	}
	return maxSeq + 1, nil
}

// scanTransactions scans multiple rows.
func scanTransactions(rows driver.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		t := &domain.Transaction{}
		if err := rows.Scan(&t.Wallet, &t.Action, &t.Timestamp, &t.Amount, &t.AssetPriceUSD); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}

// wrapTableError maps a missing table to storage.ErrNotFound.
func wrapTableError(err error, op string) error {
	if isUnknownTableError(err) {
		return fmt.Errorf("%s: lending_transactions: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
