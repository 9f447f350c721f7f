package quantity

import (
	"errors"
	"math"
	"testing"

	"wallet-credit-score/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParse_Accepted(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want float64
	}{
		{"absent", nil, 0},
		{"integer", strPtr("1000"), 1000},
		{"decimal", strPtr("0.25"), 0.25},
		{"exponent", strPtr("1.5e3"), 1500},
		{"whitespace", strPtr("  42.5 "), 42.5},
		{"explicit plus", strPtr("+7"), 7},
		{"zero", strPtr("0"), 0},
		{"raw token units", strPtr("2000000000000000000"), 2e18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%v) unexpected error: %v", tt.raw, err)
			}
			if math.Abs(got-tt.want) > 1e-9*math.Max(1, tt.want) {
				t.Errorf("Parse = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_Rejected(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "1,000", "NaN", "Inf", "-5", "0x10", "12abc"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(strPtr(raw))
			if !errors.Is(err, domain.ErrInvalidQuantity) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidQuantity", raw, err)
			}
		})
	}
}

func TestProduct(t *testing.T) {
	got, err := Product(strPtr("500"), strPtr("1.0"))
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	if got != 500 {
		t.Errorf("Product = %v, want 500", got)
	}

	got, err = Product(strPtr("500"), nil)
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	if got != 0 {
		t.Errorf("missing price should yield 0, got %v", got)
	}

	_, err = Product(strPtr("500"), strPtr("oops"))
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}
