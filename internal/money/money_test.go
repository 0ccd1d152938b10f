package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "1.5", "26.60", "-40", "1234567.89"} {
		d := decimal.RequireFromString(in)
		got := FromNumeric(ToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip %s: got %s", in, got)
		}
	}
}

func TestString_NullIsZero(t *testing.T) {
	if got := String(ToNumeric(decimal.Zero)); got != "0.00" {
		t.Errorf("zero: got %q, want %q", got, "0.00")
	}
	null := ToNumeric(decimal.Zero)
	null.Valid = false
	if got := String(null); got != "0.00" {
		t.Errorf("null: got %q, want %q", got, "0.00")
	}
}

func TestToNumericPlaces(t *testing.T) {
	got := FromNumeric(ToNumericPlaces(decimal.RequireFromString("8.25"), 4))
	if !got.Equal(decimal.RequireFromString("8.25")) {
		t.Errorf("got %s, want 8.25", got)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("")
	if err != nil || !d.IsZero() {
		t.Errorf("empty: got %s, %v", d, err)
	}
	if _, err := Parse("abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"0":      "$0.00",
		"26.6":   "$26.60",
		"1234.5": "$1,234.50",
		"-40":    "-$40.00",
		"0.125":  "$0.13",
	}
	for in, want := range tests {
		if got := Format(decimal.RequireFromString(in)); got != want {
			t.Errorf("Format(%s): got %q, want %q", in, got, want)
		}
	}
}
