package enum

// ── Group A: Order lifecycle (CHECK constrained in DB) ──

const (
	OrderTypeSales    = "sales"
	OrderTypePurchase = "purchase"
)

const (
	OrderStatusPaid          = "paid"
	OrderStatusFulfilled     = "fulfilled"
	OrderStatusPaidFulfilled = "paid_fulfilled"
)

// ── Group B: Pricing modes (stored with the order snapshot) ──

const (
	PricingModePercentage = "percentage"
	PricingModeManual     = "manual"
)

// ── Group C: Business payment terms (CHECK constrained in DB) ──

const (
	PaymentTermsCOD         = "COD"
	PaymentTermsCheck       = "Check"
	PaymentTermsConsignment = "Consignment"
	PaymentTermsCreditCard  = "Credit Card"
	PaymentTermsSample      = "Sample"
	PaymentTermsNet15       = "Net15"
	PaymentTermsNet30       = "Net30"
	PaymentTermsNet60       = "Net60"
)

// DefaultPaymentTerms is applied when a business is created without terms.
const DefaultPaymentTerms = PaymentTermsCOD

// PaymentTerms lists every accepted payment term in display order.
var PaymentTerms = []string{
	PaymentTermsCOD,
	PaymentTermsCheck,
	PaymentTermsConsignment,
	PaymentTermsCreditCard,
	PaymentTermsSample,
	PaymentTermsNet15,
	PaymentTermsNet30,
	PaymentTermsNet60,
}

func IsOrderType(s string) bool {
	return s == OrderTypeSales || s == OrderTypePurchase
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPaid, OrderStatusFulfilled, OrderStatusPaidFulfilled:
		return true
	}
	return false
}

func IsPaymentTerms(s string) bool {
	for _, t := range PaymentTerms {
		if t == s {
			return true
		}
	}
	return false
}

func IsPricingMode(s string) bool {
	return s == PricingModePercentage || s == PricingModeManual
}

// ── Group D: Realtime event types ──

const (
	EventOrderCreated  = "order.created"
	EventOrderUpdated  = "order.updated"
	EventOrderArchived = "order.archived"
	EventInvoiceReady  = "invoice.created"
	EventAuthChanged   = "auth.changed"
)
