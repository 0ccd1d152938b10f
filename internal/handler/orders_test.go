package handler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/handler"
	"github.com/TechLionDev/InviStar/internal/invoice"
	"github.com/TechLionDev/InviStar/internal/middleware"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/TechLionDev/InviStar/internal/pricing"
	"github.com/TechLionDev/InviStar/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	createFn  func(ctx context.Context, req service.OrderRequest) (*service.OrderResult, error)
	updateFn  func(ctx context.Context, orderID uuid.UUID, req service.OrderRequest) (*service.UpdateResult, error)
	archiveFn func(ctx context.Context, ownerID, orderID uuid.UUID) error
	previewFn func(ctx context.Context, req service.OrderRequest) (*service.Preview, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req service.OrderRequest) (*service.OrderResult, error) {
	return m.createFn(ctx, req)
}

func (m *mockOrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req service.OrderRequest) (*service.UpdateResult, error) {
	return m.updateFn(ctx, orderID, req)
}

func (m *mockOrderService) ArchiveOrder(ctx context.Context, ownerID, orderID uuid.UUID) error {
	return m.archiveFn(ctx, ownerID, orderID)
}

func (m *mockOrderService) PreviewPricing(ctx context.Context, req service.OrderRequest) (*service.Preview, error) {
	return m.previewFn(ctx, req)
}

// --- Mock OrderStore ---

type mockOrderReadStore struct {
	orders     map[uuid.UUID]database.Order
	items      map[uuid.UUID][]database.ListOrderItemsByOrderRow
	businesses map[uuid.UUID]database.Business
	invoices   []database.Invoice
	lastType   pgtype.Text
}

func newMockOrderReadStore() *mockOrderReadStore {
	return &mockOrderReadStore{
		orders:     make(map[uuid.UUID]database.Order),
		items:      make(map[uuid.UUID][]database.ListOrderItemsByOrderRow),
		businesses: make(map[uuid.UUID]database.Business),
	}
}

func (m *mockOrderReadStore) ListOrders(_ context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	m.lastType = arg.Type
	var out []database.Order
	for _, o := range m.orders {
		if o.CreatedBy == arg.CreatedBy && (!arg.Type.Valid || o.Type == arg.Type.String) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderReadStore) GetOrder(_ context.Context, arg database.GetOrderParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok || o.CreatedBy != arg.CreatedBy {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockOrderReadStore) ListOrderItemsByOrder(_ context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error) {
	return m.items[orderID], nil
}

func (m *mockOrderReadStore) ListBusinesses(_ context.Context, createdBy uuid.UUID) ([]database.Business, error) {
	var out []database.Business
	for _, b := range m.businesses {
		if b.CreatedBy == createdBy && !b.Archived {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockOrderReadStore) GetBusinessIncludingArchived(_ context.Context, arg database.GetBusinessIncludingArchivedParams) (database.Business, error) {
	b, ok := m.businesses[arg.ID]
	if !ok || b.CreatedBy != arg.CreatedBy {
		return database.Business{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockOrderReadStore) ListInvoicesByOrder(_ context.Context, arg database.ListInvoicesByOrderParams) ([]database.Invoice, error) {
	var out []database.Invoice
	for _, inv := range m.invoices {
		if inv.OrderID == arg.OrderID && inv.CreatedBy == arg.CreatedBy {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockOrderReadStore) GetInvoice(_ context.Context, arg database.GetInvoiceParams) (database.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.ID == arg.ID && inv.CreatedBy == arg.CreatedBy {
			return inv, nil
		}
	}
	return database.Invoice{}, pgx.ErrNoRows
}

// --- Mock InvoiceGenerator ---

type mockGenerator struct {
	snap   *invoice.Snapshot
	result *invoice.Result
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, _ uuid.UUID, snap *invoice.Snapshot) (*invoice.Result, error) {
	m.snap = snap
	return m.result, m.err
}

// --- Helpers ---

type orderFixture struct {
	owner    uuid.UUID
	store    *mockOrderReadStore
	svc      *mockOrderService
	gen      *mockGenerator
	files    filestore.Store
	router   *chi.Mux
	business database.Business
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	files, err := filestore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	f := &orderFixture{
		owner: uuid.New(),
		store: newMockOrderReadStore(),
		svc:   &mockOrderService{},
		gen:   &mockGenerator{},
		files: files,
	}
	f.business = database.Business{ID: uuid.New(), Name: "Acme Supply", Terms: "Net30", CreatedBy: f.owner}
	f.store.businesses[f.business.ID] = f.business

	h := handler.NewOrderHandler(f.store, f.svc, f.gen, files)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/orders", h.RegisterRoutes)
	r.Route("/invoices", h.RegisterInvoiceRoutes)
	f.router = r
	return f
}

func (f *orderFixture) addOrder(number, orderType, total string, created time.Time) database.Order {
	o := database.Order{
		ID:         uuid.New(),
		Number:     number,
		Date:       created,
		BusinessID: f.business.ID,
		Type:       orderType,
		Status:     "paid",
		Subtotal:   money.ToNumeric(decimal.RequireFromString(total)),
		Total:      money.ToNumeric(decimal.RequireFromString(total)),
		CreatedBy:  f.owner,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	f.store.orders[o.ID] = o
	return o
}

func sampleResult(owner uuid.UUID) *service.OrderResult {
	order := database.Order{
		ID:        uuid.New(),
		Number:    "SO-00001",
		Type:      "sales",
		Status:    "paid",
		Subtotal:  money.ToNumeric(decimal.RequireFromString("20")),
		Total:     money.ToNumeric(decimal.RequireFromString("21.6")),
		CreatedBy: owner,
	}
	return &service.OrderResult{
		Order: order,
		Items: []database.ListOrderItemsByOrderRow{{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   uuid.New(),
			Quantity:    2,
			UnitPrice:   money.ToNumeric(decimal.NewFromInt(10)),
			Price:       money.ToNumeric(decimal.NewFromInt(10)),
			ProductName: "Widget",
			ProductSku:  "W-1",
		}},
	}
}

// --- Create / Update / Delete ---

func TestOrderCreate_MapsRequest(t *testing.T) {
	f := newOrderFixture(t)
	productID := uuid.New()
	var got service.OrderRequest
	f.svc.createFn = func(_ context.Context, req service.OrderRequest) (*service.OrderResult, error) {
		got = req
		return sampleResult(req.OwnerID), nil
	}

	rr := doAuthRequest(t, f.router, "POST", "/orders", map[string]interface{}{
		"type":           "sales",
		"status":         "paid",
		"business_id":    f.business.ID.String(),
		"date":           "2025-03-01",
		"discount_mode":  "percentage",
		"discount_value": 10,
		"tax_mode":       "manual",
		"tax_value":      "4.25",
		"items": []map[string]interface{}{
			{"product_id": productID.String(), "quantity": 2, "override_price": true, "custom_price": 9.5, "tax_exempt": true},
		},
	}, f.owner)

	assertStatus(t, rr, http.StatusCreated)
	if got.OwnerID != f.owner {
		t.Errorf("owner: got %s, want %s", got.OwnerID, f.owner)
	}
	if got.DiscountValue != "10" || got.TaxValue != "4.25" {
		t.Errorf("modifier values: got %q / %q", got.DiscountValue, got.TaxValue)
	}
	if len(got.Items) != 1 || got.Items[0].CustomPrice != "9.5" || !got.Items[0].OverridePrice || !got.Items[0].TaxExempt {
		t.Errorf("items: got %+v", got.Items)
	}

	resp := decodeResponse(t, rr)
	if resp["number"] != "SO-00001" || resp["total"] != "21.60" {
		t.Errorf("response: got %v", resp)
	}
	items := resp["items"].([]interface{})
	if len(items) != 1 || items[0].(map[string]interface{})["product_sku"] != "W-1" {
		t.Errorf("items: got %v", items)
	}
}

func TestOrderCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"empty items", service.ErrEmptyItems, http.StatusBadRequest, service.ErrEmptyItems.Error()},
		{"bad date", fmt.Errorf("%w: %q", service.ErrInvalidDate, "x"), http.StatusBadRequest, `invalid date: "x"`},
		{"business missing", service.ErrBusinessNotFound, http.StatusNotFound, service.ErrBusinessNotFound.Error()},
		{"product missing", service.ErrProductNotFound, http.StatusNotFound, service.ErrProductNotFound.Error()},
		{"duplicate number", service.ErrDuplicateOrderNumber, http.StatusConflict, service.ErrDuplicateOrderNumber.Error()},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.svc.createFn = func(context.Context, service.OrderRequest) (*service.OrderResult, error) {
				return nil, tt.err
			}
			rr := doAuthRequest(t, f.router, "POST", "/orders", map[string]interface{}{"type": "sales"}, f.owner)
			assertError(t, rr, tt.wantStatus, tt.wantMsg)
		})
	}
}

func TestOrderCreate_InvalidBody(t *testing.T) {
	f := newOrderFixture(t)

	rr := doAuthRequest(t, f.router, "POST", "/orders", map[string]interface{}{"discount_value": true}, f.owner)

	assertError(t, rr, http.StatusBadRequest, "invalid request body")
}

func TestOrderUpdate_ReturnsReconcileCounts(t *testing.T) {
	f := newOrderFixture(t)
	orderID := uuid.New()
	f.svc.updateFn = func(_ context.Context, id uuid.UUID, req service.OrderRequest) (*service.UpdateResult, error) {
		if id != orderID {
			t.Errorf("order id: got %s, want %s", id, orderID)
		}
		return &service.UpdateResult{
			OrderResult: *sampleResult(req.OwnerID),
			Added:       1,
			Changed:     2,
			Unchanged:   3,
			Removed:     4,
		}, nil
	}

	rr := doAuthRequest(t, f.router, "PUT", "/orders/"+orderID.String(), map[string]interface{}{"items": []interface{}{}}, f.owner)

	assertStatus(t, rr, http.StatusOK)
	rec := decodeResponse(t, rr)["reconciled"].(map[string]interface{})
	if rec["added"] != float64(1) || rec["changed"] != float64(2) || rec["unchanged"] != float64(3) || rec["removed"] != float64(4) {
		t.Errorf("reconciled: got %v", rec)
	}
}

func TestOrderUpdate_NotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.svc.updateFn = func(context.Context, uuid.UUID, service.OrderRequest) (*service.UpdateResult, error) {
		return nil, service.ErrOrderNotFound
	}

	rr := doAuthRequest(t, f.router, "PUT", "/orders/"+uuid.NewString(), map[string]interface{}{}, f.owner)

	assertError(t, rr, http.StatusNotFound, "order not found")
}

func TestOrderDelete(t *testing.T) {
	f := newOrderFixture(t)
	var archived uuid.UUID
	f.svc.archiveFn = func(_ context.Context, owner, id uuid.UUID) error {
		if owner != f.owner {
			return service.ErrOrderNotFound
		}
		archived = id
		return nil
	}
	orderID := uuid.New()

	rr := doAuthRequest(t, f.router, "DELETE", "/orders/"+orderID.String(), nil, f.owner)
	assertStatus(t, rr, http.StatusNoContent)
	if archived != orderID {
		t.Errorf("archived: got %s, want %s", archived, orderID)
	}

	rr = doAuthRequest(t, f.router, "DELETE", "/orders/"+orderID.String(), nil, uuid.New())
	assertError(t, rr, http.StatusNotFound, "order not found")
}

func TestOrderPricingPreview(t *testing.T) {
	f := newOrderFixture(t)
	f.svc.previewFn = func(_ context.Context, req service.OrderRequest) (*service.Preview, error) {
		return &service.Preview{
			Lines: []service.PricedLine{{
				ProductID:      uuid.New(),
				ProductName:    "Widget",
				Quantity:       3,
				UnitPrice:      decimal.NewFromInt(8),
				EffectivePrice: decimal.NewFromInt(8),
				ExtendedPrice:  decimal.NewFromInt(24),
			}},
			Pricing: pricing.Result{
				Subtotal:    decimal.NewFromInt(24),
				Discount:    decimal.RequireFromString("2.4"),
				TaxableBase: decimal.RequireFromString("21.6"),
				Tax:         decimal.RequireFromString("2.16"),
				Total:       decimal.RequireFromString("23.76"),
			},
		}, nil
	}

	rr := doAuthRequest(t, f.router, "POST", "/orders/pricing", map[string]interface{}{"items": []interface{}{}}, f.owner)

	assertStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	p := resp["pricing"].(map[string]interface{})
	want := map[string]string{"subtotal": "24.00", "discount": "2.40", "taxable_base": "21.60", "tax": "2.16", "total": "23.76"}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("pricing.%s: got %v, want %s", k, p[k], v)
		}
	}
	line := resp["lines"].([]interface{})[0].(map[string]interface{})
	if line["extended_price"] != "24.00" {
		t.Errorf("extended_price: got %v", line["extended_price"])
	}
}

// --- Reads ---

func TestOrderList_TypeFilterAndBusinessSearch(t *testing.T) {
	f := newOrderFixture(t)
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f.addOrder("SO-00001", "sales", "10", now)
	f.addOrder("SO-00002", "sales", "30", now.Add(time.Hour))
	f.addOrder("PO-00001", "purchase", "5", now)

	rr := doAuthRequest(t, f.router, "GET", "/orders?type=sales&search=acme&sort=total&dir=desc", nil, f.owner)

	assertStatus(t, rr, http.StatusOK)
	if !f.store.lastType.Valid || f.store.lastType.String != "sales" {
		t.Errorf("type param: got %+v", f.store.lastType)
	}
	resp := decodeResponse(t, rr)
	if resp["total"] != float64(2) {
		t.Fatalf("total: got %v, want 2", resp["total"])
	}
	first := resp["items"].([]interface{})[0].(map[string]interface{})
	if first["number"] != "SO-00002" || first["business_name"] != "Acme Supply" {
		t.Errorf("first: got %v", first)
	}
}

func TestOrderList_InvalidType(t *testing.T) {
	f := newOrderFixture(t)

	rr := doAuthRequest(t, f.router, "GET", "/orders?type=refund", nil, f.owner)

	assertError(t, rr, http.StatusBadRequest, "invalid order type")
}

func TestOrderGet(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	f.store.items[o.ID] = sampleResult(f.owner).Items

	rr := doAuthRequest(t, f.router, "GET", "/orders/"+o.ID.String(), nil, f.owner)
	assertStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	if resp["business_name"] != "Acme Supply" {
		t.Errorf("business_name: got %v", resp["business_name"])
	}
	if len(resp["items"].([]interface{})) != 1 {
		t.Errorf("items: got %v", resp["items"])
	}

	rr = doAuthRequest(t, f.router, "GET", "/orders/"+o.ID.String(), nil, uuid.New())
	assertError(t, rr, http.StatusNotFound, "order not found")
}

// --- Invoices ---

func TestOrderInvoice_Generate(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	inv := database.Invoice{ID: uuid.New(), OrderID: o.ID, File: "invoices/x.pdf", OrderJson: []byte(`{"number":"SO-00001"}`), CreatedBy: f.owner}
	f.gen.result = &invoice.Result{Invoice: inv}

	rr := doAuthRequest(t, f.router, "POST", "/orders/"+o.ID.String()+"/invoices", nil, f.owner)

	assertStatus(t, rr, http.StatusCreated)
	if f.gen.snap == nil || f.gen.snap.Business.Name != "Acme Supply" || f.gen.snap.Number != "SO-00001" {
		t.Errorf("snapshot: got %+v", f.gen.snap)
	}
	resp := decodeResponse(t, rr)
	if resp["file_url"] != "/invoices/"+inv.ID.String()+"/file" {
		t.Errorf("file_url: got %v", resp["file_url"])
	}
	if resp["order"].(map[string]interface{})["number"] != "SO-00001" {
		t.Errorf("order json: got %v", resp["order"])
	}
}

func TestOrderInvoice_Reused(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	f.gen.result = &invoice.Result{Invoice: database.Invoice{ID: uuid.New(), OrderID: o.ID}, Reused: true}

	rr := doAuthRequest(t, f.router, "POST", "/orders/"+o.ID.String()+"/invoices", nil, f.owner)

	assertStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["reused"] != true {
		t.Errorf("reused: got %v", resp["reused"])
	}
}

func TestOrderInvoice_ArchivedBusiness(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	archived := f.business
	archived.Archived = true
	f.store.businesses[archived.ID] = archived
	f.gen.result = &invoice.Result{Invoice: database.Invoice{ID: uuid.New(), OrderID: o.ID}}

	rr := doAuthRequest(t, f.router, "POST", "/orders/"+o.ID.String()+"/invoices", nil, f.owner)

	assertStatus(t, rr, http.StatusCreated)
	if f.gen.snap.Business.ID != f.business.ID || f.gen.snap.Business.Name != "Acme Supply" {
		t.Errorf("business snapshot: got %+v", f.gen.snap.Business)
	}
}

func TestGetOrder_ArchivedBusinessName(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	archived := f.business
	archived.Archived = true
	f.store.businesses[archived.ID] = archived

	rr := doAuthRequest(t, f.router, "GET", "/orders/"+o.ID.String(), nil, f.owner)

	assertStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["business_name"] != "Acme Supply" {
		t.Errorf("business_name: got %v", resp["business_name"])
	}
}

func TestOrderInvoice_GeneratorErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not configured", invoice.ErrNotConfigured, http.StatusServiceUnavailable},
		{"endpoint failed", fmt.Errorf("%w: status 500", invoice.ErrEndpoint), http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			o := f.addOrder("SO-00001", "sales", "10", time.Now())
			f.gen.err = tt.err

			rr := doAuthRequest(t, f.router, "POST", "/orders/"+o.ID.String()+"/invoices", nil, f.owner)

			assertStatus(t, rr, tt.wantStatus)
		})
	}
}

func TestOrderInvoice_ListAndDownload(t *testing.T) {
	f := newOrderFixture(t)
	o := f.addOrder("SO-00001", "sales", "10", time.Now())
	key := filestore.NewKey("invoices/"+o.ID.String(), ".pdf")
	if err := f.files.Put(context.Background(), key, bytes.NewReader([]byte("%PDF-1.4")), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}
	inv := database.Invoice{ID: uuid.New(), OrderID: o.ID, File: key, CreatedBy: f.owner}
	f.store.invoices = []database.Invoice{inv}

	rr := doAuthRequest(t, f.router, "GET", "/orders/"+o.ID.String()+"/invoices", nil, f.owner)
	assertStatus(t, rr, http.StatusOK)
	if got := len(decodeList(t, rr)); got != 1 {
		t.Errorf("invoices: got %d, want 1", got)
	}

	rr = doAuthRequest(t, f.router, "GET", "/invoices/"+inv.ID.String()+"/file", nil, f.owner)
	assertStatus(t, rr, http.StatusOK)
	body, _ := io.ReadAll(rr.Body)
	if string(body) != "%PDF-1.4" {
		t.Errorf("body: got %q", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type: got %q", ct)
	}

	rr = doAuthRequest(t, f.router, "GET", "/invoices/"+inv.ID.String()+"/file", nil, uuid.New())
	assertError(t, rr, http.StatusNotFound, "invoice not found")
}
