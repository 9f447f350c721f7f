package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"wallet-credit-score/internal/storage"
	chstore "wallet-credit-score/internal/storage/clickhouse"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

// Source kinds, selected from the input reference.
const (
	SourceKindFile       = "file"
	SourceKindPostgres   = "postgres"
	SourceKindClickhouse = "clickhouse"
)

// SourceKind classifies an input reference: a postgres:// or postgresql://
// DSN, a clickhouse:// DSN, or otherwise a JSON file path.
func SourceKind(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return SourceKindPostgres
	case strings.HasPrefix(lower, "clickhouse://"):
		return SourceKindClickhouse
	default:
		return SourceKindFile
	}
}

// OpenSource returns a transaction reader for input together with a close
// function releasing its connections. The close function is never nil.
func OpenSource(ctx context.Context, input string) (storage.TransactionReader, func(), error) {
	switch SourceKind(input) {
	case SourceKindPostgres:
		pool, err := pgstore.NewPool(ctx, input)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open postgres source: %w", err)
		}
		return pgstore.NewTransactionStore(pool), pool.Close, nil

	case SourceKindClickhouse:
		conn, err := chstore.NewConn(ctx, input)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open clickhouse source: %w", err)
		}
		return chstore.NewTransactionStore(conn), func() { conn.Close() }, nil

	default:
		return NewJSONFileSource(input), func() {}, nil
	}
}

// RedactInput hides the password of a DSN so it can be logged or written to
// the run manifest. File paths are returned unchanged.
func RedactInput(input string) string {
	if SourceKind(input) == SourceKindFile {
		return input
	}
	u, err := url.Parse(input)
	if err != nil {
		return SourceKind(input) + "://<unparseable>"
	}
	return u.Redacted()
}
