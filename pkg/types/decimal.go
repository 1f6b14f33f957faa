package types

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Decimal carries a monetary or quantity value that the backend may emit either
// as a plain JSON number or as a tagged high-precision wrapper
// {"highPrecisionDecimal": "<string>"}. Decoding never fails the surrounding
// document: a malformed value collapses to zero so list rendering survives bad
// rows, and callers that need strict validation must check the raw shape first.
type Decimal struct {
	value decimal.Decimal
}

type highPrecisionWrapper struct {
	HighPrecisionDecimal string `json:"highPrecisionDecimal"`
}

// NewDecimal wraps a shopspring decimal.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{value: d}
}

// DecimalFromFloat builds a Decimal from a float64.
func DecimalFromFloat(f float64) Decimal {
	return Decimal{value: decimal.NewFromFloat(f)}
}

// DecimalFromString parses a base-10 decimal string, collapsing to zero on failure.
func DecimalFromString(s string) Decimal {
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}
	}
	return Decimal{value: parsed}
}

// UnmarshalJSON implements json.Unmarshaler for the number-or-wrapper union.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		d.value = decimal.Decimal{}
		return nil
	}

	if trimmed[0] == '{' {
		var wrapper highPrecisionWrapper
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			d.value = decimal.Decimal{}
			return nil
		}
		d.value = DecimalFromString(wrapper.HighPrecisionDecimal).value
		return nil
	}

	var parsed decimal.Decimal
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		d.value = decimal.Decimal{}
		return nil
	}
	d.value = parsed
	return nil
}

// MarshalJSON emits the plain-number representation.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.value.String()), nil
}

// Decimal returns the underlying arbitrary-precision value.
func (d Decimal) Decimal() decimal.Decimal {
	return d.value
}

// Float64 returns the closest float64, for display only.
func (d Decimal) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// String renders the base-10 representation.
func (d Decimal) String() string {
	return d.value.String()
}

// IsZero reports whether the value is exactly zero.
func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

// IsPositive reports whether the value is strictly greater than zero.
func (d Decimal) IsPositive() bool {
	return d.value.IsPositive()
}

// Add returns d + other.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{value: d.value.Add(other.value)}
}

// Mul returns d * other.
func (d Decimal) Mul(other Decimal) Decimal {
	return Decimal{value: d.value.Mul(other.value)}
}

// GreaterThan reports d > other.
func (d Decimal) GreaterThan(other Decimal) bool {
	return d.value.GreaterThan(other.value)
}

// Equal reports numeric equality.
func (d Decimal) Equal(other Decimal) bool {
	return d.value.Equal(other.value)
}

// Normalize converts an already-decoded JSON value into a Decimal. It accepts
// float64, json.Number, numeric strings, and the tagged wrapper as a
// map[string]any; anything else collapses to zero.
func Normalize(value any) Decimal {
	switch v := value.(type) {
	case nil:
		return Decimal{}
	case Decimal:
		return v
	case decimal.Decimal:
		return Decimal{value: v}
	case float64:
		return DecimalFromFloat(v)
	case int:
		return Decimal{value: decimal.NewFromInt(int64(v))}
	case int64:
		return Decimal{value: decimal.NewFromInt(v)}
	case json.Number:
		return DecimalFromString(v.String())
	case string:
		return DecimalFromString(v)
	case map[string]any:
		raw, ok := v["highPrecisionDecimal"].(string)
		if !ok {
			return Decimal{}
		}
		return DecimalFromString(raw)
	default:
		return Decimal{}
	}
}
