package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// ErrMalformedRecord is returned when a record is not shaped like a
// transaction object (wrong top-level type, non-string wallet or action,
// non-object actionData).
var ErrMalformedRecord = errors.New("malformed record")

// ctxCheckInterval is how many records are decoded between context checks.
const ctxCheckInterval = 1024

// JSONFileSource reads a JSON array of transaction records from a file.
type JSONFileSource struct {
	path string
}

// NewJSONFileSource creates a source reading from path.
func NewJSONFileSource(path string) *JSONFileSource {
	return &JSONFileSource{path: path}
}

// Compile-time interface check.
var _ storage.TransactionReader = (*JSONFileSource)(nil)

// Path returns the file the source reads.
func (s *JSONFileSource) Path() string {
	return s.path
}

// GetAll decodes every record in file order.
func (s *JSONFileSource) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	txs, err := DecodeTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return txs, nil
}

// rawRecord mirrors one input object. Every field is kept raw so that
// absence, null and wrong types can be told apart.
type rawRecord struct {
	UserWallet json.RawMessage `json:"userWallet"`
	Action     json.RawMessage `json:"action"`
	Timestamp  json.RawMessage `json:"timestamp"`
	ActionData json.RawMessage `json:"actionData"`
}

type rawActionData struct {
	Amount        json.RawMessage `json:"amount"`
	AssetPriceUSD json.RawMessage `json:"assetPriceUSD"`
}

// DecodeTransactions streams a top-level JSON array, converting each element.
// Trailing data after the array is an error.
func DecodeTransactions(ctx context.Context, r io.Reader) ([]*domain.Transaction, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrMalformedRecord)
	}

	var txs []*domain.Transaction
	for i := 0; dec.More(); i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var rec *rawRecord
		if err := dec.Decode(&rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, fmt.Errorf("record %d: %w: %v", i, ErrMalformedRecord, err)
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("record %d: %w: null record", i, ErrMalformedRecord)
		}

		tx, err := convertRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read closing token: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedRecord)
	}

	return txs, nil
}

// convertRecord applies the optional-field rules: absent and null are the same.
func convertRecord(rec *rawRecord) (*domain.Transaction, error) {
	tx := &domain.Transaction{}

	wallet, err := optionalString(rec.UserWallet)
	if err != nil {
		return nil, fmt.Errorf("userWallet: %w", err)
	}
	tx.Wallet = wallet

	action, err := optionalString(rec.Action)
	if err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}
	if action != nil {
		tx.Action = *action
	}

	ts, err := optionalTimestamp(rec.Timestamp)
	if err != nil {
		return nil, err
	}
	tx.Timestamp = ts

	if isAbsent(rec.ActionData) {
		return tx, nil
	}
	if firstByte(rec.ActionData) != '{' {
		return nil, fmt.Errorf("actionData: %w: expected object", ErrMalformedRecord)
	}
	var data rawActionData
	if err := json.Unmarshal(rec.ActionData, &data); err != nil {
		return nil, fmt.Errorf("actionData: %w: %v", ErrMalformedRecord, err)
	}

	if tx.Amount, err = optionalQuantity(data.Amount); err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if tx.AssetPriceUSD, err = optionalQuantity(data.AssetPriceUSD); err != nil {
		return nil, fmt.Errorf("assetPriceUSD: %w", err)
	}
	return tx, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func optionalString(raw json.RawMessage) (*string, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	if firstByte(raw) != '"' {
		return nil, fmt.Errorf("%w: expected string, got %s", ErrMalformedRecord, raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &s, nil
}

// optionalTimestamp accepts integral JSON numbers, including integral
// floats such as 1.7e9.
func optionalTimestamp(raw json.RawMessage) (*int64, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	lit := string(bytes.TrimSpace(raw))
	c := firstByte(raw)
	if c != '-' && (c < '0' || c > '9') {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTimestamp, lit)
	}

	if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTimestamp, lit)
	}
	v := int64(f)
	return &v, nil
}

// optionalQuantity keeps numbers and strings as text; the aggregator does
// the numeric coercion. Other JSON types are rejected here.
func optionalQuantity(raw json.RawMessage) (*string, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	switch c := firstByte(raw); {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, err)
		}
		return &s, nil
	case c == '-' || (c >= '0' && c <= '9'):
		s := string(bytes.TrimSpace(raw))
		return &s, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, raw)
	}
}
