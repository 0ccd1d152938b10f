package invoice

import (
	"time"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the order as sent to the PDF endpoint and stored alongside the
// generated invoice. Only fields that appear on the document are included,
// so bookkeeping updates (updated_at) do not force a new PDF.
type Snapshot struct {
	ID            uuid.UUID        `json:"id"`
	Number        string           `json:"number"`
	Date          string           `json:"date"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	Notes         string           `json:"notes"`
	Subtotal      string           `json:"subtotal"`
	Discount      string           `json:"discount"`
	Tax           string           `json:"tax"`
	Total         string           `json:"total"`
	DiscountMode  string           `json:"discountMode"`
	DiscountValue string           `json:"discountValue"`
	TaxMode       string           `json:"taxMode"`
	TaxValue      string           `json:"taxValue"`
	Formatted     FormattedTotals  `json:"formatted"`
	Business      BusinessSnapshot `json:"business"`
	Items         []ItemSnapshot   `json:"items"`
}

// FormattedTotals holds display strings such as "$1,234.50".
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type BusinessSnapshot struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	AddressStreet string    `json:"addressStreet"`
	AddressCity   string    `json:"addressCity"`
	AddressState  string    `json:"addressState"`
	AddressZip    string    `json:"addressZip"`
	Terms         string    `json:"terms"`
}

type ItemSnapshot struct {
	ProductID     uuid.UUID `json:"productId"`
	Name          string    `json:"name"`
	Sku           string    `json:"sku"`
	Quantity      int32     `json:"quantity"`
	UnitPrice     string    `json:"unitPrice"`
	Price         string    `json:"price"`
	Amount        string    `json:"amount"`
	AmountDisplay string    `json:"amountFormatted"`
	OverridePrice bool      `json:"overridePrice"`
	TaxExempt     bool      `json:"taxExempt"`
}

// BuildSnapshot expands an order with its business and line items.
func BuildSnapshot(order database.Order, business database.Business, items []database.ListOrderItemsByOrderRow) *Snapshot {
	s := &Snapshot{
		ID:            order.ID,
		Number:        order.Number,
		Date:          order.Date.UTC().Format(time.DateOnly),
		Type:          order.Type,
		Status:        order.Status,
		Notes:         order.Notes,
		Subtotal:      money.String(order.Subtotal),
		Discount:      money.String(order.Discount),
		Tax:           money.String(order.Tax),
		Total:         money.String(order.Total),
		DiscountMode:  order.DiscountMode,
		DiscountValue: money.FromNumeric(order.DiscountValue).String(),
		TaxMode:       order.TaxMode,
		TaxValue:      money.FromNumeric(order.TaxValue).String(),
		Formatted: FormattedTotals{
			Subtotal: money.Format(money.FromNumeric(order.Subtotal)),
			Discount: money.Format(money.FromNumeric(order.Discount)),
			Tax:      money.Format(money.FromNumeric(order.Tax)),
			Total:    money.Format(money.FromNumeric(order.Total)),
		},
		Business: BusinessSnapshot{
			ID:            business.ID,
			Name:          business.Name,
			Contact:       business.Contact,
			Phone:         business.Phone,
			Email:         business.Email,
			AddressStreet: business.AddressStreet,
			AddressCity:   business.AddressCity,
			AddressState:  business.AddressState,
			AddressZip:    business.AddressZip,
			Terms:         business.Terms,
		},
		Items: make([]ItemSnapshot, len(items)),
	}
	for i, it := range items {
		amount := money.FromNumeric(it.Price).Mul(decimal.NewFromInt32(it.Quantity)).Round(2)
		s.Items[i] = ItemSnapshot{
			ProductID:     it.ProductID,
			Name:          it.ProductName,
			Sku:           it.ProductSku,
			Quantity:      it.Quantity,
			UnitPrice:     money.String(it.UnitPrice),
			Price:         money.String(it.Price),
			Amount:        amount.StringFixed(2),
			AmountDisplay: money.Format(amount),
			OverridePrice: it.OverridePrice,
			TaxExempt:     it.TaxExempt,
		}
	}
	return s
}
