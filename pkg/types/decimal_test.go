package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimalUnmarshalPlainNumber(t *testing.T) {
	t.Parallel()

	var d Decimal
	if err := json.Unmarshal([]byte(`12500.75`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "12500.75" {
		t.Fatalf("unexpected value: %s", d)
	}
}

func TestDecimalUnmarshalWrapper(t *testing.T) {
	t.Parallel()

	var d Decimal
	if err := json.Unmarshal([]byte(`{"highPrecisionDecimal":"0.3333333333"}`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "0.3333333333" {
		t.Fatalf("unexpected value: %s", d)
	}
}

func TestDecimalUnmarshalMalformedCollapsesToZero(t *testing.T) {
	t.Parallel()

	cases := []string{`null`, `"not a number"`, `{"unexpected":"shape"}`, `{"highPrecisionDecimal":"abc"}`, `[1,2]`}
	for _, raw := range cases {
		var d Decimal
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("decode of %s must not error: %v", raw, err)
		}
		if !d.IsZero() {
			t.Fatalf("expected zero for %s, got %s", raw, d)
		}
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"0", "1", "19.99", "-4.5", "123456789.123456789"} {
		src := DecimalFromString(raw)
		wrapped, err := json.Marshal(struct {
			V Decimal `json:"v"`
		}{V: src})
		if err != nil {
			t.Fatalf("marshal %s: %v", raw, err)
		}
		var out struct {
			V Decimal `json:"v"`
		}
		if err := json.Unmarshal(wrapped, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !out.V.Equal(src) {
			t.Fatalf("round trip changed %s to %s", src, out.V)
		}
	}
}

func TestNormalizeShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"float", 10.5, "10.5"},
		{"int", 7, "7"},
		{"json number", json.Number("3.25"), "3.25"},
		{"string", "99.9", "99.9"},
		{"wrapper map", map[string]any{"highPrecisionDecimal": "250000.01"}, "250000.01"},
		{"decimal passthrough", decimal.NewFromInt(42), "42"},
		{"nil", nil, "0"},
		{"wrong map", map[string]any{"other": 1}, "0"},
		{"bool", true, "0"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in).String(); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
