// Package dashboard aggregates order history into the summary cards and
// chart series shown on the dashboard. All functions are pure; callers load
// the orders and pass the current time.
package dashboard

import (
	"time"

	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OrderPoint is the slice of an order the aggregations need.
type OrderPoint struct {
	Type  string
	Total decimal.Decimal
	At    time.Time
}

// RevenueSeries holds per-month sales (revenue) and purchase (expense) totals,
// oldest month first.
type RevenueSeries struct {
	Categories []string          `json:"categories"`
	Revenue    []decimal.Decimal `json:"revenue"`
	Expenses   []decimal.Decimal `json:"expenses"`
}

// OrderSeries holds per-day order counts, oldest day first.
type OrderSeries struct {
	Categories []string `json:"categories"`
	Sales      []int    `json:"sales"`
	Purchases  []int    `json:"purchases"`
}

// Stat is a value with its percentage change against the previous period.
type Stat struct {
	Value decimal.Decimal `json:"value"`
	Trend decimal.Decimal `json:"trend"`
}

// SummaryStats backs the four dashboard cards.
type SummaryStats struct {
	Revenue      Stat `json:"revenue"`
	Orders       Stat `json:"orders"`
	Products     Stat `json:"products"`
	ProfitMargin Stat `json:"profit_margin"`
}

// Revenue buckets orders into the last n calendar months including the
// current one. Months are keyed by year and month, so a point from the same
// month a year earlier is not counted.
func Revenue(orders []OrderPoint, now time.Time, months int) RevenueSeries {
	if months < 1 {
		months = 1
	}
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

	s := RevenueSeries{
		Categories: make([]string, months),
		Revenue:    make([]decimal.Decimal, months),
		Expenses:   make([]decimal.Decimal, months),
	}
	for i := 0; i < months; i++ {
		s.Categories[i] = first.AddDate(0, i, 0).Format("Jan")
		s.Revenue[i] = decimal.Zero
		s.Expenses[i] = decimal.Zero
	}

	for _, o := range orders {
		at := o.At.In(loc)
		idx := (at.Year()-first.Year())*12 + int(at.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		switch o.Type {
		case enum.OrderTypeSales:
			s.Revenue[idx] = s.Revenue[idx].Add(o.Total)
		case enum.OrderTypePurchase:
			s.Expenses[idx] = s.Expenses[idx].Add(o.Total)
		}
	}
	return s
}

// OrderCounts counts sales and purchase orders for each of the last n days
// including today. Categories are short weekday names.
func OrderCounts(orders []OrderPoint, now time.Time, days int) OrderSeries {
	if days < 1 {
		days = 1
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	s := OrderSeries{
		Categories: make([]string, days),
		Sales:      make([]int, days),
		Purchases:  make([]int, days),
	}
	for i := 0; i < days; i++ {
		s.Categories[i] = first.AddDate(0, 0, i).Format("Mon")
	}

	for _, o := range orders {
		at := o.At.In(loc)
		d := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		idx := daysBetween(first, d)
		if idx < 0 || idx >= days {
			continue
		}
		switch o.Type {
		case enum.OrderTypeSales:
			s.Sales[idx]++
		case enum.OrderTypePurchase:
			s.Purchases[idx]++
		}
	}
	return s
}

// Summary computes this month's revenue and profit margin, this week's order
// count and the product count. Windows are rolling: the month is the last
// calendar month up to now, the week the last seven days.
func Summary(orders []OrderPoint, productCount int64, now time.Time) SummaryStats {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := today.AddDate(0, -1, 0)
	prevMonthStart := today.AddDate(0, -2, 0)
	weekStart := today.AddDate(0, 0, -7)
	prevWeekStart := today.AddDate(0, 0, -14)

	var revenue, prevRevenue, expenses decimal.Decimal
	var weekOrders, prevWeekOrders int64
	for _, o := range orders {
		switch {
		case !o.At.Before(monthStart):
			if o.Type == enum.OrderTypeSales {
				revenue = revenue.Add(o.Total)
			} else if o.Type == enum.OrderTypePurchase {
				expenses = expenses.Add(o.Total)
			}
		case !o.At.Before(prevMonthStart):
			if o.Type == enum.OrderTypeSales {
				prevRevenue = prevRevenue.Add(o.Total)
			}
		}
		switch {
		case !o.At.Before(weekStart):
			weekOrders++
		case !o.At.Before(prevWeekStart):
			prevWeekOrders++
		}
	}

	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = revenue.Sub(expenses).Div(revenue).Mul(hundred).Round(1)
	}

	return SummaryStats{
		Revenue:      Stat{Value: revenue, Trend: Trend(revenue, prevRevenue)},
		Orders:       Stat{Value: decimal.NewFromInt(weekOrders), Trend: Trend(decimal.NewFromInt(weekOrders), decimal.NewFromInt(prevWeekOrders))},
		Products:     Stat{Value: decimal.NewFromInt(productCount), Trend: decimal.Zero},
		ProfitMargin: Stat{Value: margin, Trend: decimal.Zero},
	}
}

// Trend returns the percentage change from prev to cur rounded to one place,
// or zero when prev is not positive.
func Trend(cur, prev decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
