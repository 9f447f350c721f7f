package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/ingestion"
	"wallet-credit-score/internal/pipeline"
	"wallet-credit-score/internal/storage"
	chstore "wallet-credit-score/internal/storage/clickhouse"
	"wallet-credit-score/internal/storage/migrations"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: load [flags] <postgres://... | clickhouse://...> [input.json]")
	flag.PrintDefaults()
}

func main() {
	// Parse flags
	useFixtures := flag.Bool("use-fixtures", false, "Load built-in demo transactions instead of a JSON file")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not create the lending_transactions table")
	flag.Usage = usage
	flag.Parse()

	logger := log.New(os.Stderr, "[load] ", log.LstdFlags)

	wantArgs := 2
	if *useFixtures {
		wantArgs = 1
	}
	if flag.NArg() != wantArgs {
		usage()
		os.Exit(1)
	}
	target := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Read input before touching the database.
	var txs []*domain.Transaction
	if *useFixtures {
		txs = pipeline.FixtureTransactions()
	} else {
		var err error
		txs, err = ingestion.NewJSONFileSource(flag.Arg(1)).GetAll(ctx)
		if err != nil {
			logger.Fatalf("Read input: %v", err)
		}
	}
	logger.Printf("Read %d transactions", len(txs))

	store, closeStore, err := openTarget(ctx, target, !*skipMigrations, logger)
	if err != nil {
		logger.Fatalf("Open %s: %v", ingestion.RedactInput(target), err)
	}
	defer closeStore()

	if err := store.InsertBulk(ctx, txs); err != nil {
		closeStore()
		logger.Fatalf("Insert transactions: %v", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		closeStore()
		logger.Fatalf("Count transactions: %v", err)
	}

	fmt.Printf("Loaded %d transactions into %s (%d total)\n", len(txs), ingestion.RedactInput(target), total)
}

// openTarget connects to the target database and optionally applies migrations.
func openTarget(ctx context.Context, dsn string, migrate bool, logger *log.Logger) (storage.TransactionStore, func(), error) {
	switch ingestion.SourceKind(dsn) {
	case ingestion.SourceKindPostgres:
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			applied, err := migrations.RunPostgresMigrations(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Printf("Applied postgres migrations: %v", applied)
		}
		return pgstore.NewTransactionStore(pool), pool.Close, nil

	case ingestion.SourceKindClickhouse:
		var (
			conn *chstore.Conn
			err  error
		)
		// Migrations create the database, so connect through them when enabled.
		if migrate {
			var applied []string
			conn, applied, err = migrations.RunClickhouseMigrations(ctx, dsn)
			if err == nil {
				logger.Printf("Applied clickhouse migrations: %v", applied)
			}
		} else {
			conn, err = chstore.NewConn(ctx, dsn)
		}
		if err != nil {
			return nil, nil, err
		}
		return chstore.NewTransactionStore(conn), func() { conn.Close() }, nil

	default:
		return nil, nil, errors.New("target must be a postgres:// or clickhouse:// DSN")
	}
}
