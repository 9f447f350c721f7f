package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-credit-score/internal/domain"
)

func decode(t *testing.T, input string) ([]*domain.Transaction, error) {
	t.Helper()
	return DecodeTransactions(context.Background(), strings.NewReader(input))
}

func TestDecodeTransactions_FullRecord(t *testing.T) {
	txs, err := decode(t, `[
		{
			"userWallet": "0xABC",
			"action": "deposit",
			"timestamp": 1629178166,
			"actionData": {"amount": "2000000000", "assetPriceUSD": "0.9938318274296357543568636362026045"}
		}
	]`)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	require.NotNil(t, tx.Wallet)
	assert.Equal(t, "0xABC", *tx.Wallet)
	assert.Equal(t, "deposit", tx.Action)
	require.NotNil(t, tx.Timestamp)
	assert.Equal(t, int64(1629178166), *tx.Timestamp)
	assert.Equal(t, "2000000000", *tx.Amount)
	assert.Equal(t, "0.9938318274296357543568636362026045", *tx.AssetPriceUSD)
}

func TestDecodeTransactions_NumericQuantitiesKeepLiteral(t *testing.T) {
	txs, err := decode(t, `[{"userWallet":"w","action":"borrow","timestamp":1,"actionData":{"amount":1.5e3,"assetPriceUSD":2}}]`)
	require.NoError(t, err)
	assert.Equal(t, "1.5e3", *txs[0].Amount)
	assert.Equal(t, "2", *txs[0].AssetPriceUSD)
}

func TestDecodeTransactions_AbsentAndNullFields(t *testing.T) {
	txs, err := decode(t, `[
		{"action": "deposit", "timestamp": 1},
		{"userWallet": null, "timestamp": null, "action": null, "actionData": null},
		{"userWallet": "w", "timestamp": 5, "actionData": {}},
		{"userWallet": "w", "timestamp": 6, "actionData": {"amount": null}}
	]`)
	require.NoError(t, err)
	require.Len(t, txs, 4)

	assert.Nil(t, txs[0].Wallet)
	assert.Nil(t, txs[1].Wallet)
	assert.Nil(t, txs[1].Timestamp)
	assert.Equal(t, "", txs[1].Action)
	assert.Nil(t, txs[2].Amount)
	assert.Nil(t, txs[2].AssetPriceUSD)
	assert.Equal(t, "", txs[2].Action)
	assert.Nil(t, txs[3].Amount)
}

func TestDecodeTransactions_IntegralFloatTimestamp(t *testing.T) {
	txs, err := decode(t, `[{"userWallet":"w","timestamp":1.7e9}]`)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), *txs[0].Timestamp)
}

func TestDecodeTransactions_InvalidTimestamp(t *testing.T) {
	for _, input := range []string{
		`[{"userWallet":"w","timestamp":"1629178166"}]`,
		`[{"userWallet":"w","timestamp":1.5}]`,
		`[{"userWallet":"w","timestamp":true}]`,
	} {
		_, err := decode(t, input)
		assert.True(t, errors.Is(err, domain.ErrInvalidTimestamp), "input %s: got %v", input, err)
	}
}

func TestDecodeTransactions_InvalidQuantityType(t *testing.T) {
	for _, input := range []string{
		`[{"userWallet":"w","timestamp":1,"actionData":{"amount":true}}]`,
		`[{"userWallet":"w","timestamp":1,"actionData":{"assetPriceUSD":{"v":1}}}]`,
		`[{"userWallet":"w","timestamp":1,"actionData":{"amount":[1]}}]`,
	} {
		_, err := decode(t, input)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuantity), "input %s: got %v", input, err)
	}
}

func TestDecodeTransactions_TextualQuantityIsNotValidatedHere(t *testing.T) {
	txs, err := decode(t, `[{"userWallet":"w","timestamp":1,"actionData":{"amount":"abc"}}]`)
	require.NoError(t, err)
	assert.Equal(t, "abc", *txs[0].Amount)
}

func TestDecodeTransactions_MalformedRecords(t *testing.T) {
	for _, input := range []string{
		`{"userWallet":"w"}`,
		`[1, 2]`,
		`[null]`,
		`[{"userWallet": 42, "timestamp": 1}]`,
		`[{"userWallet": "w", "action": 7}]`,
		`[{"userWallet": "w", "actionData": "x"}]`,
		`[] trailing`,
	} {
		_, err := decode(t, input)
		assert.True(t, errors.Is(err, ErrMalformedRecord), "input %s: got %v", input, err)
	}
}

func TestDecodeTransactions_SyntaxError(t *testing.T) {
	_, err := decode(t, `[{"userWallet": "w",]`)
	assert.Error(t, err)

	_, err = decode(t, ``)
	assert.Error(t, err)
}

func TestDecodeTransactions_EmptyArray(t *testing.T) {
	txs, err := decode(t, ` [ ] `)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDecodeTransactions_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DecodeTransactions(ctx, strings.NewReader(`[{"userWallet":"w","timestamp":1}]`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONFileSource_GetAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"userWallet":"a","action":"deposit","timestamp":1,"actionData":{"amount":"1","assetPriceUSD":"1"}},
		{"userWallet":"b","action":"repay","timestamp":2}
	]`), 0644))

	src := NewJSONFileSource(path)
	assert.Equal(t, path, src.Path())

	txs, err := src.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "a", *txs[0].Wallet)
	assert.Equal(t, "b", *txs[1].Wallet)
}

func TestJSONFileSource_MissingFile(t *testing.T) {
	_, err := NewJSONFileSource(filepath.Join(t.TempDir(), "nope.json")).GetAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
