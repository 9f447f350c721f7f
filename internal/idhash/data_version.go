// Package idhash computes deterministic content hashes.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// absent marks a nil optional field. It cannot collide with a present
// value because present values are prefixed with '='.
const absent = "-"

// ComputeDataVersion computes a deterministic version of a record set using SHA256.
// Formula: SHA256 over one line per record, in input order:
// wallet|action|timestamp|amount|asset_price_usd
// Returns hex-encoded hash (64 characters).
func ComputeDataVersion(txs []*domain.Transaction) string {
	h := sha256.New()
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		h.Write([]byte(canonicalRecord(tx)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortVersion returns the first 12 characters of a version hash.
func ShortVersion(version string) string {
	if len(version) <= 12 {
		return version
	}
	return version[:12]
}

func canonicalRecord(tx *domain.Transaction) string {
	var ts *string
	if tx.Timestamp != nil {
		s := strconv.FormatInt(*tx.Timestamp, 10)
		ts = &s
	}

	out := optional(tx.Wallet)
	out += "|" + strconv.Quote(tx.Action)
	out += "|" + optional(ts)
	out += "|" + optional(tx.Amount)
	out += "|" + optional(tx.AssetPriceUSD)
	return out
}

// optional quotes present values so separators inside them stay unambiguous.
func optional(s *string) string {
	if s == nil {
		return absent
	}
	return "=" + strconv.Quote(*s)
}
