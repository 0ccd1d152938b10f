package csvimport_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/TechLionDev/InviStar/internal/csvimport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Businesses(t *testing.T) {
	input := "name,contact,addressStreet,terms,archived,notes\n" +
		"Acme,Jane,1 Main St,Net30,true,first\\nsecond\n" +
		"\n" +
		"Globex,Hank,,,,\n" +
		"Initech,Bill,,Net90,false,\n"

	rows, err := csvimport.Parse(strings.NewReader(input), csvimport.Businesses)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	acme := rows[0]
	assert.Equal(t, 1, acme.Index)
	assert.Equal(t, "Acme", acme.Get("name"))
	assert.Equal(t, "1 Main St", acme.Get("address_street"))
	assert.Equal(t, "Net30", acme.Get("terms"))
	assert.Equal(t, "first\nsecond", acme.Get("notes"))
	require.NotNil(t, acme.Archived)
	assert.True(t, *acme.Archived)
	assert.Empty(t, acme.Err)

	globex := rows[1]
	assert.Equal(t, 2, globex.Index, "blank lines do not count")
	assert.Equal(t, "COD", globex.Get("terms"))
	assert.Nil(t, globex.Archived)

	initech := rows[2]
	assert.Contains(t, initech.Err, "Net90")
	require.NotNil(t, initech.Archived)
	assert.False(t, *initech.Archived)
}

func TestParse_Products(t *testing.T) {
	input := "Name,SKU,Price,Weight,Length\n" +
		"Widget, W-1 ,12.50,abc,3\n" +
		"Gadget,,1,,\n"

	rows, err := csvimport.Parse(strings.NewReader(input), csvimport.Products)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "W-1", rows[0].Get("sku"))
	assert.True(t, rows[0].Decimal("price").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, rows[0].Decimal("weight").IsZero(), "invalid numbers become zero")
	assert.True(t, rows[0].Decimal("length").Equal(decimal.NewFromInt(3)))
	assert.True(t, rows[0].Decimal("height").IsZero(), "missing column is zero")
	assert.Empty(t, rows[0].Err)

	assert.Equal(t, "SKU is required", rows[1].Err)
}

func TestParse_ProductsIgnoresUnstoredNumbers(t *testing.T) {
	input := "name,sku,price,cost,quantity\nWidget,W-1,2,1.25,40\n"

	rows, err := csvimport.Parse(strings.NewReader(input), csvimport.Products)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.NotContains(t, rows[0].Numbers, "cost")
	assert.NotContains(t, rows[0].Numbers, "quantity")
	assert.Equal(t, "40", rows[0].Get("quantity"))
	assert.Len(t, rows[0].Numbers, 1)
}

func TestParse_QuotedFields(t *testing.T) {
	input := "name,sku,price\n\"Bolt, hex\",B-2,0.10\n"

	rows, err := csvimport.Parse(strings.NewReader(input), csvimport.Products)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bolt, hex", rows[0].Get("name"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		entity  csvimport.Entity
		wantErr error
	}{
		{"header only", "name,sku\n", csvimport.Products, csvimport.ErrTooFewRows},
		{"empty", "", csvimport.Businesses, csvimport.ErrTooFewRows},
		{"only blank rows", "name,sku\n,\n , \n", csvimport.Products, csvimport.ErrNoDataRows},
		{"unknown entity", "a\nb\n", csvimport.Entity("orders"), csvimport.ErrUnknownEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvimport.Parse(strings.NewReader(tt.input), tt.entity)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEntity(t *testing.T) {
	e, err := csvimport.ParseEntity("Products")
	require.NoError(t, err)
	assert.Equal(t, csvimport.Products, e)

	_, err = csvimport.ParseEntity("invoices")
	assert.ErrorIs(t, err, csvimport.ErrUnknownEntity)
}
