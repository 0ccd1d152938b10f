package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/invoice"
	"github.com/TechLionDev/InviStar/internal/listquery"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/TechLionDev/InviStar/internal/pricing"
	"github.com/TechLionDev/InviStar/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// OrderStore defines the read-side database methods needed by order handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error)
	ListBusinesses(ctx context.Context, createdBy uuid.UUID) ([]database.Business, error)
	GetBusinessIncludingArchived(ctx context.Context, arg database.GetBusinessIncludingArchivedParams) (database.Business, error)
	ListInvoicesByOrder(ctx context.Context, arg database.ListInvoicesByOrderParams) ([]database.Invoice, error)
	GetInvoice(ctx context.Context, arg database.GetInvoiceParams) (database.Invoice, error)
}

// OrderServicer runs order writes and pricing previews.
// Satisfied by *service.OrderService.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.OrderRequest) (*service.OrderResult, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, req service.OrderRequest) (*service.UpdateResult, error)
	ArchiveOrder(ctx context.Context, ownerID, orderID uuid.UUID) error
	PreviewPricing(ctx context.Context, req service.OrderRequest) (*service.Preview, error)
}

// InvoiceGenerator produces or reuses an invoice PDF for an order snapshot.
// Satisfied by *invoice.Generator.
type InvoiceGenerator interface {
	Generate(ctx context.Context, ownerID uuid.UUID, snap *invoice.Snapshot) (*invoice.Result, error)
}

// OrderHandler handles sales and purchase orders and their invoices.
type OrderHandler struct {
	store    OrderStore
	svc      OrderServicer
	invoices InvoiceGenerator
	files    filestore.Store
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore, svc OrderServicer, invoices InvoiceGenerator, files filestore.Store) *OrderHandler {
	return &OrderHandler{store: store, svc: svc, invoices: invoices, files: files}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/pricing", h.Pricing)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/invoices", h.ListInvoices)
		r.Post("/invoices", h.CreateInvoice)
	})
}

// RegisterInvoiceRoutes registers invoice file endpoints on the given Chi
// router. Expected to be mounted at /invoices.
func (h *OrderHandler) RegisterInvoiceRoutes(r chi.Router) {
	r.Get("/{id}/file", h.InvoiceFile)
}

// --- Request / Response types ---

// amount accepts a JSON number or a decimal string.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amount(n.String())
	return nil
}

type orderItemRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	OverridePrice bool   `json:"override_price"`
	CustomPrice   amount `json:"custom_price"`
	TaxExempt     bool   `json:"tax_exempt"`
}

type orderRequest struct {
	Number        string             `json:"number"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	BusinessID    string             `json:"business_id"`
	Date          string             `json:"date"`
	Notes         string             `json:"notes"`
	DiscountMode  string             `json:"discount_mode"`
	DiscountValue amount             `json:"discount_value"`
	TaxMode       string             `json:"tax_mode"`
	TaxValue      amount             `json:"tax_value"`
	Items         []orderItemRequest `json:"items"`
}

func (req orderRequest) toService(owner uuid.UUID) service.OrderRequest {
	items := make([]service.OrderItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemRequest{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			OverridePrice: it.OverridePrice,
			CustomPrice:   string(it.CustomPrice),
			TaxExempt:     it.TaxExempt,
		}
	}
	return service.OrderRequest{
		OwnerID:       owner,
		Number:        req.Number,
		Type:          req.Type,
		Status:        req.Status,
		BusinessID:    req.BusinessID,
		Date:          req.Date,
		Notes:         req.Notes,
		DiscountMode:  req.DiscountMode,
		DiscountValue: string(req.DiscountValue),
		TaxMode:       req.TaxMode,
		TaxValue:      string(req.TaxValue),
		Items:         items,
	}
}

type orderResponse struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	Date          time.Time `json:"date"`
	BusinessID    uuid.UUID `json:"business_id"`
	BusinessName  string    `json:"business_name,omitempty"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	Subtotal      string    `json:"subtotal"`
	Discount      string    `json:"discount"`
	Tax           string    `json:"tax"`
	Total         string    `json:"total"`
	DiscountMode  string    `json:"discount_mode"`
	DiscountValue string    `json:"discount_value"`
	TaxMode       string    `json:"tax_mode"`
	TaxValue      string    `json:"tax_value"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	total decimal.Decimal
}

func (o orderResponse) Fields() map[string]listquery.Value {
	return map[string]listquery.Value{
		"number":   listquery.Str(o.Number),
		"business": listquery.Str(o.BusinessName),
		"type":     listquery.Str(o.Type),
		"status":   listquery.Str(o.Status),
		"notes":    listquery.Str(o.Notes),
		"total":    listquery.Num(o.total),
		"date":     listquery.Time(o.Date),
		"created":  listquery.Time(o.CreatedAt),
		"updated":  listquery.Time(o.UpdatedAt),
	}
}

type orderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductSku    string    `json:"product_sku"`
	Quantity      int32     `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	Price         string    `json:"price"`
	OverridePrice bool      `json:"override_price"`
	TaxExempt     bool      `json:"tax_exempt"`
}

type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

type orderUpdateResponse struct {
	orderDetailResponse
	Reconciled reconcileCounts `json:"reconciled"`
}

type reconcileCounts struct {
	Added     int `json:"added"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

type pricingResponse struct {
	Subtotal    string `json:"subtotal"`
	Discount    string `json:"discount"`
	TaxableBase string `json:"taxable_base"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

type previewLineResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSku     string    `json:"product_sku"`
	Quantity       int64     `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	EffectivePrice string    `json:"effective_price"`
	ExtendedPrice  string    `json:"extended_price"`
	OverridePrice  bool      `json:"override_price"`
	TaxExempt      bool      `json:"tax_exempt"`
}

type previewResponse struct {
	Lines   []previewLineResponse `json:"lines"`
	Pricing pricingResponse       `json:"pricing"`
}

type invoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	FileURL   string          `json:"file_url"`
	Order     json.RawMessage `json:"order"`
	Reused    bool            `json:"reused,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Date:          o.Date,
		BusinessID:    o.BusinessID,
		Type:          o.Type,
		Status:        o.Status,
		Notes:         o.Notes,
		Subtotal:      money.String(o.Subtotal),
		Discount:      money.String(o.Discount),
		Tax:           money.String(o.Tax),
		Total:         money.String(o.Total),
		DiscountMode:  o.DiscountMode,
		DiscountValue: money.FromNumeric(o.DiscountValue).String(),
		TaxMode:       o.TaxMode,
		TaxValue:      money.FromNumeric(o.TaxValue).String(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		total:         money.FromNumeric(o.Total),
	}
}

func toOrderDetail(o database.Order, items []database.ListOrderItemsByOrderRow) orderDetailResponse {
	resp := orderDetailResponse{
		orderResponse: toOrderResponse(o),
		Items:         make([]orderItemResponse, len(items)),
	}
	for i, it := range items {
		resp.Items[i] = orderItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			ProductSku:    it.ProductSku,
			Quantity:      it.Quantity,
			UnitPrice:     money.String(it.UnitPrice),
			Price:         money.String(it.Price),
			OverridePrice: it.OverridePrice,
			TaxExempt:     it.TaxExempt,
		}
	}
	return resp
}

func toPricingResponse(p pricing.Result) pricingResponse {
	return pricingResponse{
		Subtotal:    p.Subtotal.StringFixed(2),
		Discount:    p.Discount.StringFixed(2),
		TaxableBase: p.TaxableBase.StringFixed(2),
		Tax:         p.Tax.StringFixed(2),
		Total:       p.Total.StringFixed(2),
	}
}

func toInvoiceResponse(inv database.Invoice, reused bool) invoiceResponse {
	order := json.RawMessage(inv.OrderJson)
	if len(order) == 0 {
		order = json.RawMessage("null")
	}
	return invoiceResponse{
		ID:        inv.ID,
		OrderID:   inv.OrderID,
		FileURL:   "/invoices/" + inv.ID.String() + "/file",
		Order:     order,
		Reused:    reused,
		CreatedAt: inv.CreatedAt,
	}
}

// --- Handlers ---

// List returns the user's orders, optionally restricted by ?type=, filtered
// and sorted by the shared list query parameters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	q, ok := parseList(w, r)
	if !ok {
		return
	}

	var orderType pgtype.Text
	if t := r.URL.Query().Get("type"); t != "" {
		if !enum.IsOrderType(t) {
			writeError(w, http.StatusBadRequest, "invalid order type")
			return
		}
		orderType = pgtype.Text{String: t, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{CreatedBy: owner, Type: orderType})
	if err != nil {
		serverError(w, r, "list orders", err)
		return
	}
	businesses, err := h.store.ListBusinesses(r.Context(), owner)
	if err != nil {
		serverError(w, r, "list businesses", err)
		return
	}
	names := make(map[uuid.UUID]string, len(businesses))
	for _, b := range businesses {
		names[b.ID] = b.Name
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
		resp[i].BusinessName = names[o.BusinessID]
	}
	page, total := listquery.Apply(resp, q)
	writeJSON(w, http.StatusOK, listResponse[orderResponse]{Items: page, Total: total})
}

// Get returns an order with its line items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	o, ok := h.lookup(w, r, owner)
	if !ok {
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
	if err != nil {
		serverError(w, r, "list order items", err)
		return
	}

	resp := toOrderDetail(o, items)
	if b, err := h.store.GetBusinessIncludingArchived(r.Context(), database.GetBusinessIncludingArchivedParams{ID: o.BusinessID, CreatedBy: owner}); err == nil {
		resp.BusinessName = b.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create saves a new order with its line items.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), req.toService(owner))
	if err != nil {
		h.writeServiceError(w, r, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDetail(result.Order, result.Items))
}

// Update saves an edited order, reconciling its line items against the draft.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "order")
	if !ok {
		return
	}

	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateOrder(r.Context(), id, req.toService(owner))
	if err != nil {
		h.writeServiceError(w, r, "update order", err)
		return
	}

	writeJSON(w, http.StatusOK, orderUpdateResponse{
		orderDetailResponse: toOrderDetail(result.Order, result.Items),
		Reconciled: reconcileCounts{
			Added:     result.Added,
			Changed:   result.Changed,
			Unchanged: result.Unchanged,
			Removed:   result.Removed,
		},
	})
}

// Delete archives an order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "order")
	if !ok {
		return
	}

	if err := h.svc.ArchiveOrder(r.Context(), owner, id); err != nil {
		h.writeServiceError(w, r, "archive order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pricing prices a draft without saving it.
func (h *OrderHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preview, err := h.svc.PreviewPricing(r.Context(), req.toService(owner))
	if err != nil {
		h.writeServiceError(w, r, "preview pricing", err)
		return
	}

	resp := previewResponse{
		Lines:   make([]previewLineResponse, len(preview.Lines)),
		Pricing: toPricingResponse(preview.Pricing),
	}
	for i, l := range preview.Lines {
		resp.Lines[i] = previewLineResponse{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			ProductSku:     l.ProductSku,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.StringFixed(2),
			EffectivePrice: l.EffectivePrice.StringFixed(2),
			ExtendedPrice:  l.ExtendedPrice.StringFixed(2),
			OverridePrice:  l.OverridePrice,
			TaxExempt:      l.TaxExempt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListInvoices returns an order's invoices, newest first.
func (h *OrderHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	o, ok := h.lookup(w, r, owner)
	if !ok {
		return
	}

	invoices, err := h.store.ListInvoicesByOrder(r.Context(), database.ListInvoicesByOrderParams{
		OrderID:   o.ID,
		CreatedBy: owner,
	})
	if err != nil {
		serverError(w, r, "list invoices", err)
		return
	}

	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toInvoiceResponse(inv, false)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateInvoice returns the order's current invoice, generating a new PDF
// only when the order changed since the last one.
func (h *OrderHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	o, ok := h.lookup(w, r, owner)
	if !ok {
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
	if err != nil {
		serverError(w, r, "list order items", err)
		return
	}

	// Archived businesses keep their full details on invoices for old orders.
	business, err := h.store.GetBusinessIncludingArchived(r.Context(), database.GetBusinessIncludingArchivedParams{ID: o.BusinessID, CreatedBy: owner})
	if err != nil {
		serverError(w, r, "get business", err)
		return
	}

	result, err := h.invoices.Generate(r.Context(), owner, invoice.BuildSnapshot(o, business, items))
	if err != nil {
		switch {
		case errors.Is(err, invoice.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "invoice generation is not configured")
		case errors.Is(err, invoice.ErrEndpoint):
			writeError(w, http.StatusBadGateway, "invoice service failed")
		default:
			serverError(w, r, "generate invoice", err)
		}
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	writeJSON(w, status, toInvoiceResponse(result.Invoice, result.Reused))
}

// InvoiceFile streams an invoice PDF.
func (h *OrderHandler) InvoiceFile(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.store.GetInvoice(r.Context(), database.GetInvoiceParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		serverError(w, r, "get invoice", err)
		return
	}

	w.Header().Set("Content-Disposition", `inline; filename="invoice-`+inv.ID.String()+`.pdf"`)
	serveFile(w, r, h.files, inv.File)
}

// --- Helpers ---

func (h *OrderHandler) lookup(w http.ResponseWriter, r *http.Request, owner uuid.UUID) (database.Order, bool) {
	id, ok := urlID(w, r, "id", "order")
	if !ok {
		return database.Order{}, false
	}

	o, err := h.store.GetOrder(r.Context(), database.GetOrderParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return database.Order{}, false
		}
		serverError(w, r, "get order", err)
		return database.Order{}, false
	}
	return o, true
}

// writeServiceError maps OrderService errors to HTTP responses.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidOrderType),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidProductID),
		errors.Is(err, service.ErrInvalidBusinessID),
		errors.Is(err, service.ErrInvalidPricingMode),
		errors.Is(err, service.ErrInvalidDiscountValue),
		errors.Is(err, service.ErrInvalidTaxValue),
		errors.Is(err, service.ErrInvalidCustomPrice),
		errors.Is(err, service.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrBusinessNotFound),
		errors.Is(err, service.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateOrderNumber):
		writeError(w, http.StatusConflict, err.Error())
	default:
		serverError(w, r, op, err)
	}
}
