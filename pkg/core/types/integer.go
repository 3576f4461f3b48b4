package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrNotIntegral is returned when a Decimal with a nonzero fractional part
// is converted to an Integer.
var ErrNotIntegral = errors.New("decimal has a nonzero fractional part")

// Integer is an arbitrary-precision signed integer. It serializes as a
// plain decimal string and compares by value.
type Integer struct {
	i *big.Int
}

// ZeroInteger is the additive identity.
var ZeroInteger = Integer{i: big.NewInt(0)}

// NewIntegerFromInt64 builds an Integer from an int64.
func NewIntegerFromInt64(n int64) Integer {
	return Integer{i: big.NewInt(n)}
}

// IntegerFromDecimal converts a Decimal to an Integer, failing if the
// decimal has a nonzero fractional part.
func IntegerFromDecimal(d Decimal) (Integer, error) {
	if !d.IsIntegral() {
		return Integer{}, ErrNotIntegral
	}
	bi := d.Inner().Truncate(0).BigInt()
	return Integer{i: bi}, nil
}

// ToDecimal converts the Integer back to a Decimal.
func (n Integer) ToDecimal() Decimal {
	d, err := NewDecimalFromString(n.String())
	if err != nil {
		// n.i is always a valid integer string; this cannot fail.
		panic(err)
	}
	return d
}

func (n Integer) bigOrZero() *big.Int {
	if n.i == nil {
		return big.NewInt(0)
	}
	return n.i
}

// String returns the canonical decimal string representation.
func (n Integer) String() string {
	return n.bigOrZero().String()
}

// MarshalJSON encodes the integer as a quoted decimal string.
func (n Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.bigOrZero().String())
}

// UnmarshalJSON decodes a quoted decimal string.
func (n *Integer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid integer %q", s)
	}
	n.i = bi
	return nil
}

// Add returns n + other.
func (n Integer) Add(other Integer) Integer {
	return Integer{i: new(big.Int).Add(n.bigOrZero(), other.bigOrZero())}
}

// Sub returns n - other.
func (n Integer) Sub(other Integer) Integer {
	return Integer{i: new(big.Int).Sub(n.bigOrZero(), other.bigOrZero())}
}

// Cmp returns -1, 0, or 1 as n is less than, equal to, or greater than other.
func (n Integer) Cmp(other Integer) int {
	return n.bigOrZero().Cmp(other.bigOrZero())
}

// IsNegative reports whether n < 0.
func (n Integer) IsNegative() bool {
	return n.bigOrZero().Sign() < 0
}

// GreaterThanOrEqual reports whether n >= other.
func (n Integer) GreaterThanOrEqual(other Integer) bool {
	return n.Cmp(other) >= 0
}

// BigInt returns a copy of the underlying *big.Int.
func (n Integer) BigInt() *big.Int {
	return new(big.Int).Set(n.bigOrZero())
}
