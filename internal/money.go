package internal

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency value held as an exact decimal with two fraction digits.
// Every monetary value in a fixture goes through NewAmount or ParseAmount, so
// sums built from Amounts never drift by a cent.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is 0.00
var ZeroAmount = Amount{d: decimal.Zero}

// NewAmount rounds a float half-up to two places. The float is first converted
// through its shortest decimal representation, so 2.675 becomes 2.68 rather
// than the 2.67 binary rounding would give.
func NewAmount(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v).Round(2)}
}

// ParseAmount parses a decimal string such as "895.00" and rounds it half-up to two places.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d.Round(2)}, nil
}

// MustAmount is ParseAmount for literals. It panics on invalid input.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Sign returns -1, 0 or 1
func (a Amount) Sign() int { return a.d.Sign() }
func (a Amount) IsZero() bool { return a.d.IsZero() }
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) Decimal() decimal.Decimal { return a.d }

// Float64 is for display only.
func (a Amount) Float64() float64 {
	return a.d.InexactFloat64()
}

// String formats the amount as fixed-point with exactly two decimals.
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a string: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SumAmounts adds up all amounts
func SumAmounts(amounts ...Amount) Amount {
	total := ZeroAmount
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
