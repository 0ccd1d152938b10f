// Package csvimport parses uploaded CSV files into business and product rows.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/shopspring/decimal"
)

// Entity selects the column rules applied while parsing.
type Entity string

const (
	Businesses Entity = "businesses"
	Products   Entity = "products"
)

var (
	ErrTooFewRows    = errors.New("CSV file must contain at least a header row and one data row")
	ErrNoDataRows    = errors.New("no data rows found in the CSV file")
	ErrUnknownEntity = errors.New("unknown import entity")
)

// numericColumns are parsed as decimals for products; invalid values become 0.
var numericColumns = map[string]bool{
	"price":  true,
	"length": true,
	"width":  true,
	"height": true,
	"weight": true,
}

// Row is one parsed data row. Index is 1-based and counts data rows only.
// Rows with a non-empty Err are reported back to the caller and not imported.
type Row struct {
	Index    int
	Values   map[string]string
	Numbers  map[string]decimal.Decimal
	Archived *bool
	Err      string
}

// Get returns the trimmed value of a column, or "".
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Decimal returns a numeric column, or zero.
func (r Row) Decimal(column string) decimal.Decimal {
	return r.Numbers[column]
}

// ParseEntity maps a path segment to an Entity.
func ParseEntity(s string) (Entity, error) {
	switch Entity(strings.ToLower(s)) {
	case Businesses:
		return Businesses, nil
	case Products:
		return Products, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
}

// Parse reads a CSV document with a header row. Header names are normalised
// so that "addressStreet", "address_street" and "Address Street" all map to
// "address_street". Blank lines are skipped.
func Parse(r io.Reader, entity Entity) ([]Row, error) {
	if entity != Businesses && entity != Products {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrTooFewRows
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	var rows []Row
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := Row{
			Index:   len(rows) + 1,
			Values:  make(map[string]string, len(headers)),
			Numbers: make(map[string]decimal.Decimal),
		}
		for col, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if col < len(rec) {
				value = strings.TrimSpace(rec[col])
			}
			applyColumn(&row, entity, header, value)
		}
		validate(&row, entity)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

func applyColumn(row *Row, entity Entity, header, value string) {
	switch {
	case header == "notes":
		value = strings.ReplaceAll(value, `\n`, "\n")
	case entity == Businesses && header == "archived":
		switch strings.ToLower(value) {
		case "true":
			v := true
			row.Archived = &v
		case "false":
			v := false
			row.Archived = &v
		}
	case entity == Products && numericColumns[header]:
		d, err := decimal.NewFromString(value)
		if err != nil {
			d = decimal.Zero
		}
		row.Numbers[header] = d
	}
	row.Values[header] = value
}

func validate(row *Row, entity Entity) {
	switch entity {
	case Businesses:
		if row.Get("name") == "" {
			row.Err = "Name is required"
			return
		}
		terms := row.Get("terms")
		if terms == "" {
			row.Values["terms"] = enum.DefaultPaymentTerms
		} else if !enum.IsPaymentTerms(terms) {
			row.Err = fmt.Sprintf("Invalid payment terms %q", terms)
		}
	case Products:
		if row.Get("sku") == "" {
			row.Err = "SKU is required"
			return
		}
		if row.Get("name") == "" {
			row.Err = "Name is required"
		}
	}
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	var b strings.Builder
	var prev rune
	for _, r := range h {
		switch {
		case r >= 'A' && r <= 'Z':
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && prev != '_' {
				b.WriteByte('_')
			}
			r = '_'
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return strings.TrimSuffix(b.String(), "_")
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
