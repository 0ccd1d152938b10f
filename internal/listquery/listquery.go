// Package listquery filters, searches, sorts and pages in-memory record
// lists from URL query parameters.
//
//	?filter=name:contains:acme&filter=created:after:2024-01-01
//	&search=net30&sort=total&dir=desc&limit=20&offset=40
package listquery

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidQuery = errors.New("invalid list query")

// Comparison is a filter operator.
type Comparison string

const (
	Contains    Comparison = "contains"
	NotContains Comparison = "not_contains"
	Equals      Comparison = "equals"
	StartsWith  Comparison = "starts_with"
	EndsWith    Comparison = "ends_with"
	Before      Comparison = "before"
	OnOrBefore  Comparison = "on_or_before"
	After       Comparison = "after"
	OnOrAfter   Comparison = "on_or_after"
)

var comparisons = map[string]Comparison{}

func init() {
	for _, c := range []Comparison{Contains, NotContains, Equals, StartsWith, EndsWith, Before, OnOrBefore, After, OnOrAfter} {
		comparisons[squash(string(c))] = c
	}
}

// squash lower-cases and drops separators so "startsWith", "starts_with"
// and "starts-with" compare equal.
func squash(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// ParseComparison accepts snake_case or camelCase operator names.
func ParseComparison(s string) (Comparison, bool) {
	c, ok := comparisons[squash(s)]
	return c, ok
}

func (c Comparison) isDate() bool {
	switch c {
	case Before, OnOrBefore, After, OnOrAfter:
		return true
	}
	return false
}

// Kind tells how a Value compares and sorts.
type Kind int

const (
	String Kind = iota
	Number
	Date
)

// Value is one property of a record.
type Value struct {
	Kind Kind
	Str  string
	Num  decimal.Decimal
	Time time.Time
}

func Str(s string) Value { return Value{Kind: String, Str: s} }
func Num(d decimal.Decimal) Value { return Value{Kind: Number, Num: d, Str: d.String()} }
func Int(n int64) Value { return Num(decimal.NewFromInt(n)) }
func Time(t time.Time) Value { return Value{Kind: Date, Time: t, Str: t.UTC().Format(time.RFC3339)} }
func Bool(b bool) Value { return Str(strconv.FormatBool(b)) }

// Fields exposes a record's filterable properties by name.
type Fields interface {
	Fields() map[string]Value
}

// Filter is a single property:comparison:value predicate.
type Filter struct {
	Property   string
	Comparison Comparison
	Value      string
}

// Query is a parsed list request.
type Query struct {
	Filters []Filter
	Search  string
	Sort    string
	Desc    bool
	Limit   int
	Offset  int
}

// Parse reads filter, search, sort, dir, limit and offset. Filters with an
// empty value are dropped.
func Parse(v url.Values) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(v.Get("search")),
		Sort:   strings.TrimSpace(v.Get("sort")),
		Limit:  DefaultLimit,
	}

	for _, raw := range v["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return Query{}, fmt.Errorf("%w: filter %q must be property:comparison:value", ErrInvalidQuery, raw)
		}
		cmp, ok := ParseComparison(parts[1])
		if !ok {
			return Query{}, fmt.Errorf("%w: unknown comparison %q", ErrInvalidQuery, parts[1])
		}
		value := strings.TrimSpace(parts[2])
		if value == "" {
			continue
		}
		if cmp.isDate() {
			if _, err := parseDay(value); err != nil {
				return Query{}, fmt.Errorf("%w: invalid date %q", ErrInvalidQuery, value)
			}
		}
		q.Filters = append(q.Filters, Filter{Property: strings.TrimSpace(parts[0]), Comparison: cmp, Value: value})
	}

	switch strings.ToLower(v.Get("dir")) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return Query{}, fmt.Errorf("%w: dir must be asc or desc", ErrInvalidQuery)
	}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("%w: invalid limit", ErrInvalidQuery)
		}
		q.Limit = min(n, MaxLimit)
	}
	if s := v.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Query{}, fmt.Errorf("%w: invalid offset", ErrInvalidQuery)
		}
		q.Offset = n
	}
	return q, nil
}

// Apply returns the page of items matching q and the number of matches
// before paging. The input slice is not modified.
func Apply[T Fields](items []T, q Query) ([]T, int) {
	type entry struct {
		item   T
		fields map[string]Value
	}

	matched := make([]entry, 0, len(items))
	for _, it := range items {
		f := it.Fields()
		if q.matches(f) {
			matched = append(matched, entry{item: it, fields: f})
		}
	}

	if q.Sort != "" {
		col := collate.New(language.English, collate.IgnoreCase, collate.Numeric)
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(col, matched[i].fields[q.Sort], matched[j].fields[q.Sort])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(matched)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	out := make([]T, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, e.item)
	}
	return out, total
}

func (q Query) matches(fields map[string]Value) bool {
	if q.Search != "" && !searchMatches(fields, strings.ToLower(q.Search)) {
		return false
	}
	for _, f := range q.Filters {
		v, ok := fields[f.Property]
		if !ok {
			return false
		}
		if !f.matches(v) {
			return false
		}
	}
	return true
}

func searchMatches(fields map[string]Value, needle string) bool {
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v.Str), needle) {
			return true
		}
	}
	return false
}

func (f Filter) matches(v Value) bool {
	if f.Comparison.isDate() {
		if v.Kind != Date || v.Time.IsZero() {
			return false
		}
		want, err := parseDay(f.Value)
		if err != nil {
			return false
		}
		got := day(v.Time)
		switch f.Comparison {
		case Before:
			return got.Before(want)
		case OnOrBefore:
			return !got.After(want)
		case After:
			return got.After(want)
		case OnOrAfter:
			return !got.Before(want)
		}
		return false
	}

	have := strings.ToLower(v.Str)
	if v.Kind == Date {
		have = strings.ToLower(v.Time.UTC().Format(time.DateOnly))
	}
	want := strings.ToLower(f.Value)
	switch f.Comparison {
	case Contains:
		return strings.Contains(have, want)
	case NotContains:
		return !strings.Contains(have, want)
	case Equals:
		if v.Kind == Number {
			if d, err := decimal.NewFromString(f.Value); err == nil {
				return v.Num.Equal(d)
			}
		}
		return have == want
	case StartsWith:
		return strings.HasPrefix(have, want)
	case EndsWith:
		return strings.HasSuffix(have, want)
	}
	return false
}

func compare(col *collate.Collator, a, b Value) int {
	switch {
	case a.Kind == Number && b.Kind == Number:
		return a.Num.Cmp(b.Num)
	case a.Kind == Date && b.Kind == Date:
		return a.Time.Compare(b.Time)
	}
	return col.CompareString(a.Str, b.Str)
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return day(t), nil
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
