// Package pricing derives order totals from a draft's line items.
//
// Compute is a pure function: it never mutates its inputs, holds no state and
// is safe to call concurrently. Callers are expected to coerce malformed or
// negative numbers before invoking it (see Sanitize).
package pricing

import (
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Mode selects how a discount or tax amount is derived.
type Mode string

const (
	// Percentage derives the amount from a rate applied to a base.
	Percentage Mode = enum.PricingModePercentage
	// Manual takes a user-entered absolute amount as-is.
	Manual Mode = enum.PricingModeManual
)

// LineItem is one product entry within an order draft.
type LineItem struct {
	UnitPrice     decimal.Decimal
	Quantity      int64
	OverridePrice bool
	CustomPrice   *decimal.Decimal
	TaxExempt     bool
}

// EffectivePrice is the price actually charged per unit.
func (li LineItem) EffectivePrice() decimal.Decimal {
	if li.OverridePrice && li.CustomPrice != nil {
		return *li.CustomPrice
	}
	return li.UnitPrice
}

// ExtendedPrice is EffectivePrice multiplied by quantity.
func (li LineItem) ExtendedPrice() decimal.Decimal {
	return li.EffectivePrice().Mul(decimal.NewFromInt(li.Quantity))
}

// Modifiers holds the order-level discount and tax settings.
// The zero value means no discount and no tax.
type Modifiers struct {
	DiscountMode    Mode
	DiscountPercent decimal.Decimal
	ManualDiscount  decimal.Decimal
	TaxMode         Mode
	TaxRatePercent  decimal.Decimal
	ManualTax       decimal.Decimal
}

// Result is the pricing snapshot persisted with an order.
type Result struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	TaxableBase decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Compute derives subtotal, discount, tax and total for the given items.
//
// Percentage discounts are clamped to the subtotal; manual discounts are not.
// Tax applies only to max(0, taxable subtotal - discount), where the taxable
// subtotal excludes tax-exempt items. All amounts are rounded to two places.
func Compute(items []LineItem, mods Modifiers) Result {
	subtotal := decimal.Zero
	taxableSubtotal := decimal.Zero
	for _, item := range items {
		ext := item.ExtendedPrice()
		subtotal = subtotal.Add(ext)
		if !item.TaxExempt {
			taxableSubtotal = taxableSubtotal.Add(ext)
		}
	}

	var discount decimal.Decimal
	if mods.DiscountMode == Manual {
		discount = mods.ManualDiscount
	} else {
		discount = decimal.Min(subtotal, subtotal.Mul(mods.DiscountPercent).Div(hundred))
	}

	taxBase := decimal.Max(decimal.Zero, taxableSubtotal.Sub(discount))

	var tax decimal.Decimal
	if mods.TaxMode == Manual {
		tax = mods.ManualTax
	} else {
		tax = taxBase.Mul(mods.TaxRatePercent).Div(hundred)
	}

	subtotal = round(subtotal)
	discount = round(discount)
	tax = round(tax)

	return Result{
		Subtotal:    subtotal,
		Discount:    discount,
		TaxableBase: round(taxBase),
		Tax:         tax,
		Total:       subtotal.Sub(discount).Add(tax),
	}
}

// Sanitize applies the coerce-on-input policy: negative amounts become zero,
// quantities below one become one and unknown modes fall back to percentage.
// It returns copies and leaves the arguments untouched.
func Sanitize(items []LineItem, mods Modifiers) ([]LineItem, Modifiers) {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.UnitPrice = nonNegative(item.UnitPrice)
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.CustomPrice != nil {
			cp := nonNegative(*item.CustomPrice)
			item.CustomPrice = &cp
		}
		out[i] = item
	}

	mods.DiscountMode = normalizeMode(mods.DiscountMode)
	mods.TaxMode = normalizeMode(mods.TaxMode)
	mods.DiscountPercent = nonNegative(mods.DiscountPercent)
	mods.ManualDiscount = nonNegative(mods.ManualDiscount)
	mods.TaxRatePercent = nonNegative(mods.TaxRatePercent)
	mods.ManualTax = nonNegative(mods.ManualTax)
	return out, mods
}

// ParseMode maps a stored mode string to a Mode, defaulting to Percentage.
func ParseMode(s string) Mode {
	return normalizeMode(Mode(s))
}

func normalizeMode(m Mode) Mode {
	if m == Manual {
		return Manual
	}
	return Percentage
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// round rounds half away from zero, which is half-up for the non-negative
// amounts the engine normally produces.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
