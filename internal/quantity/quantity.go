// Package quantity converts textual decimal quantities into float64 values.
package quantity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"wallet-credit-score/internal/domain"
)

// Parse converts an optional textual quantity into a float64.
// A nil raw value is treated as zero. Accepted forms are decimal literals
// with an optional sign, fraction and exponent ("1000", "0.25", "1.5e18"),
// surrounded by optional whitespace. Negative values and anything that is
// not a decimal literal fail with domain.ErrInvalidQuantity.
func Parse(raw *string) (float64, error) {
	if raw == nil {
		return 0, nil
	}

	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", domain.ErrInvalidQuantity)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, *raw)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative value %q", domain.ErrInvalidQuantity, *raw)
	}

	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: out of range %q", domain.ErrInvalidQuantity, *raw)
	}
	return f, nil
}

// Product returns amount * price after parsing both quantities.
func Product(amount, price *string) (float64, error) {
	a, err := Parse(amount)
	if err != nil {
		return 0, fmt.Errorf("amount: %w", err)
	}
	p, err := Parse(price)
	if err != nil {
		return 0, fmt.Errorf("assetPriceUSD: %w", err)
	}
	return a * p, nil
}
