package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal is an arbitrary-precision signed decimal. It serializes as a
// plain decimal string (never scientific notation) and compares by value.
type Decimal struct {
	d decimal.Decimal
}

// ZeroDecimal is the additive identity.
var ZeroDecimal = Decimal{d: decimal.Zero}

// NewDecimalFromString parses a decimal string such as "10.02" or "-3".
func NewDecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{d: d}, nil
}

// NewDecimalFromInt builds a Decimal from an int64.
func NewDecimalFromInt(i int64) Decimal {
	return Decimal{d: decimal.NewFromInt(i)}
}

// String returns the canonical plain-decimal representation.
func (d Decimal) String() string {
	return d.d.String()
}

// MarshalJSON encodes the decimal as a quoted plain-decimal string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.d.String())
}

// UnmarshalJSON decodes a quoted plain-decimal string.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	d.d = parsed
	return nil
}

// Add returns d + other.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{d: d.d.Add(other.d)}
}

// Sub returns d - other.
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{d: d.d.Sub(other.d)}
}

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than other.
func (d Decimal) Cmp(other Decimal) int {
	return d.d.Cmp(other.d)
}

// GreaterThanOrEqual reports whether d >= other.
func (d Decimal) GreaterThanOrEqual(other Decimal) bool {
	return d.d.Cmp(other.d) >= 0
}

// IsNegative reports whether d < 0.
func (d Decimal) IsNegative() bool {
	return d.d.Sign() < 0
}

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool {
	return d.d.Sign() == 0
}

// IsPositive reports whether d > 0.
func (d Decimal) IsPositive() bool {
	return d.d.Sign() > 0
}

// Mul returns d * other.
func (d Decimal) Mul(other Decimal) Decimal {
	return Decimal{d: d.d.Mul(other.d)}
}

// MulInt64 returns d * n.
func (d Decimal) MulInt64(n int64) Decimal {
	return Decimal{d: d.d.Mul(decimal.NewFromInt(n))}
}

// Div returns d / other.
func (d Decimal) Div(other Decimal) Decimal {
	return Decimal{d: d.d.Div(other.d)}
}

// IsIntegral reports whether d has a zero fractional part.
func (d Decimal) IsIntegral() bool {
	return d.d.Equal(d.d.Truncate(0))
}

// Inner exposes the underlying decimal.Decimal for Integer conversion.
func (d Decimal) Inner() decimal.Decimal {
	return d.d
}
