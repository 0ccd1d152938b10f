// Package money converts between decimal amounts and their database and
// display representations.
package money

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FromNumeric converts a pgtype.Numeric to a decimal. Invalid or NULL values
// become zero.
func FromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToNumeric converts a decimal to a two-place pgtype.Numeric.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	return ToNumericPlaces(d, 2)
}

// ToNumericPlaces converts a decimal to a pgtype.Numeric with the given
// number of fractional digits.
func ToNumericPlaces(d decimal.Decimal, places int32) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(places))
	return n
}

// String renders a numeric as a fixed two-place string, "0.00" for NULL.
func String(n pgtype.Numeric) string {
	return FromNumeric(n).StringFixed(2)
}

// Parse parses a user-supplied amount. Empty input is zero.
func Parse(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders an amount as US dollars with digit grouping, for example
// "$1,234.50" or "-$40.00".
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	f, _ := d.Float64()
	return sign + "$" + printer.Sprint(number.Decimal(f, number.Scale(2)))
}
