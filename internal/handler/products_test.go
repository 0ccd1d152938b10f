package handler_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/handler"
	"github.com/TechLionDev/InviStar/internal/middleware"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Mock store ---

type mockProductStore struct {
	products map[uuid.UUID]database.Product
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: make(map[uuid.UUID]database.Product)}
}

func (m *mockProductStore) add(owner uuid.UUID, name, sku, price string) database.Product {
	p := database.Product{
		ID:        uuid.New(),
		Name:      name,
		Sku:       sku,
		Price:     money.ToNumeric(decimal.RequireFromString(price)),
		CreatedBy: owner,
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductStore) get(id, owner uuid.UUID) (database.Product, bool) {
	p, ok := m.products[id]
	if !ok || p.CreatedBy != owner || p.Archived {
		return database.Product{}, false
	}
	return p, true
}

func (m *mockProductStore) ListProducts(_ context.Context, createdBy uuid.UUID) ([]database.Product, error) {
	var out []database.Product
	for _, p := range m.products {
		if p.CreatedBy == createdBy && !p.Archived {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductStore) GetProduct(_ context.Context, arg database.GetProductParams) (database.Product, error) {
	p, ok := m.get(arg.ID, arg.CreatedBy)
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, arg database.CreateProductParams) (database.Product, error) {
	p := database.Product{
		ID:        uuid.New(),
		Name:      arg.Name,
		Sku:       arg.Sku,
		Price:     arg.Price,
		Length:    arg.Length,
		Width:     arg.Width,
		Height:    arg.Height,
		Weight:    arg.Weight,
		CreatedBy: arg.CreatedBy,
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, arg database.UpdateProductParams) (database.Product, error) {
	p, ok := m.get(arg.ID, arg.CreatedBy)
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	p.Name = arg.Name
	p.Sku = arg.Sku
	p.Price = arg.Price
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) SetProductImage(_ context.Context, arg database.SetProductImageParams) (database.Product, error) {
	p, ok := m.get(arg.ID, arg.CreatedBy)
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	p.Image = arg.Image
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) ArchiveProduct(_ context.Context, arg database.ArchiveProductParams) (uuid.UUID, error) {
	p, ok := m.get(arg.ID, arg.CreatedBy)
	if !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	p.Archived = true
	m.products[p.ID] = p
	return p.ID, nil
}

func setupProductRouter(t *testing.T, store *mockProductStore) (*chi.Mux, filestore.Store) {
	t.Helper()
	files, err := filestore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	h := handler.NewProductHandler(store, files)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/products", h.RegisterRoutes)
	return r, files
}

// --- Tests ---

func TestProductCreate(t *testing.T) {
	store := newMockProductStore()
	router, _ := setupProductRouter(t, store)

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{
		"name":   "Widget",
		"sku":    "W-1",
		"price":  "12.5",
		"weight": 1.25,
	}, uuid.New())

	assertStatus(t, rr, http.StatusCreated)
	resp := decodeResponse(t, rr)
	if resp["price"] != "12.50" {
		t.Errorf("price: got %v, want 12.50", resp["price"])
	}
	if resp["weight"] != "1.25" {
		t.Errorf("weight: got %v, want 1.25", resp["weight"])
	}
	if resp["image_url"] != nil {
		t.Errorf("image_url: got %v, want null", resp["image_url"])
	}
}

func TestProductCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		wantMsg string
	}{
		{"missing sku", map[string]interface{}{"name": "Widget"}, "sku is required"},
		{"missing name", map[string]interface{}{"sku": "W-1"}, "name is required"},
		{"negative price", map[string]interface{}{"name": "Widget", "sku": "W-1", "price": "-1"}, "price must be >= 0"},
		{"negative dimension", map[string]interface{}{"name": "Widget", "sku": "W-1", "height": -2}, "dimensions must be >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupProductRouter(t, newMockProductStore())
			rr := doAuthRequest(t, router, "POST", "/products", tt.body, uuid.New())
			assertError(t, rr, http.StatusBadRequest, tt.wantMsg)
		})
	}
}

func TestProductList_SortByPriceNumerically(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	store.add(owner, "Bolt", "B-1", "9.00")
	store.add(owner, "Anchor", "A-1", "100.00")
	store.add(owner, "Clip", "C-1", "25.50")
	router, _ := setupProductRouter(t, store)

	rr := doAuthRequest(t, router, "GET", "/products?sort=price&dir=desc", nil, owner)

	assertStatus(t, rr, http.StatusOK)
	items := decodeResponse(t, rr)["items"].([]interface{})
	var got []string
	for _, it := range items {
		got = append(got, it.(map[string]interface{})["sku"].(string))
	}
	if strings.Join(got, ",") != "A-1,C-1,B-1" {
		t.Errorf("order: got %v, want A-1,C-1,B-1", got)
	}
}

func TestProductList_Search(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	store.add(owner, "Steel Bolt", "B-1", "1")
	store.add(owner, "Anchor", "STEEL-9", "1")
	store.add(owner, "Clip", "C-1", "1")
	router, _ := setupProductRouter(t, store)

	rr := doAuthRequest(t, router, "GET", "/products?search=steel", nil, owner)

	assertStatus(t, rr, http.StatusOK)
	if total := decodeResponse(t, rr)["total"]; total != float64(2) {
		t.Errorf("total: got %v, want 2", total)
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	p := store.add(owner, "Widget", "W-1", "5")
	router, _ := setupProductRouter(t, store)

	rr := doAuthRequest(t, router, "PUT", "/products/"+p.ID.String(), map[string]interface{}{
		"name":  "Widget v2",
		"sku":   "W-2",
		"price": 6,
	}, owner)
	assertStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["price"] != "6.00" || resp["sku"] != "W-2" {
		t.Errorf("updated: got %v", resp)
	}

	rr = doAuthRequest(t, router, "DELETE", "/products/"+p.ID.String(), nil, owner)
	assertStatus(t, rr, http.StatusNoContent)

	rr = doAuthRequest(t, router, "GET", "/products/"+p.ID.String(), nil, owner)
	assertError(t, rr, http.StatusNotFound, "product not found")
}

func TestProductImage_UploadReplaceAndServe(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	p := store.add(owner, "Widget", "W-1", "5")
	router, files := setupProductRouter(t, store)
	path := "/products/" + p.ID.String() + "/image"

	rr := doUpload(t, router, "PUT", path, "image", "first.png", "image/png", []byte("png-one"), owner)
	assertStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["image_url"] != path {
		t.Errorf("image_url: got %v, want %s", resp["image_url"], path)
	}
	firstKey := store.products[p.ID].Image.String
	if !strings.HasPrefix(firstKey, "products/"+p.ID.String()+"/") || !strings.HasSuffix(firstKey, ".png") {
		t.Errorf("key: got %q", firstKey)
	}

	rr = doUpload(t, router, "PUT", path, "image", "second.jpg", "image/jpeg", []byte("jpeg-two"), owner)
	assertStatus(t, rr, http.StatusOK)
	if _, err := files.Open(context.Background(), firstKey); err == nil {
		t.Error("previous image should be deleted")
	}

	rr = doAuthRequest(t, router, "GET", path, nil, owner)
	assertStatus(t, rr, http.StatusOK)
	body, _ := io.ReadAll(rr.Body)
	if string(body) != "jpeg-two" {
		t.Errorf("body: got %q, want jpeg-two", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content-type: got %q, want image/jpeg", ct)
	}
}

func TestProductImage_RejectsNonImage(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	p := store.add(owner, "Widget", "W-1", "5")
	router, _ := setupProductRouter(t, store)

	rr := doUpload(t, router, "PUT", "/products/"+p.ID.String()+"/image", "image", "notes.txt", "text/plain", []byte("hi"), owner)

	assertError(t, rr, http.StatusBadRequest, "file must be an image")
}

func TestProductImage_NoneSet(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	p := store.add(owner, "Widget", "W-1", "5")
	router, _ := setupProductRouter(t, store)

	rr := doAuthRequest(t, router, "GET", "/products/"+p.ID.String()+"/image", nil, owner)

	assertError(t, rr, http.StatusNotFound, "product has no image")
}

func TestProductImport(t *testing.T) {
	store := newMockProductStore()
	owner := uuid.New()
	router, _ := setupProductRouter(t, store)

	csv := "SKU,Name,Price,Weight\n" +
		"A-1,Anchor,12.5,abc\n" +
		",Missing Sku,1,1\n" +
		"C-1,,1,1\n" +
		"D-1,Dowel,-4,2\n"

	rr := doUpload(t, router, "POST", "/products/import", "file", "products.csv", "text/csv", []byte(csv), owner)

	assertStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	if resp["count"] != float64(2) {
		t.Errorf("count: got %v, want 2", resp["count"])
	}
	errs := resp["errors"].([]interface{})
	if len(errs) != 2 {
		t.Fatalf("errors: got %v", errs)
	}
	if msg := errs[0].(map[string]interface{})["message"]; msg != "SKU is required" {
		t.Errorf("errors[0]: got %v", msg)
	}
	if msg := errs[1].(map[string]interface{})["message"]; msg != "Name is required" {
		t.Errorf("errors[1]: got %v", msg)
	}

	for _, p := range store.products {
		switch p.Sku {
		case "A-1":
			if money.String(p.Price) != "12.50" || money.String(p.Weight) != "0.00" {
				t.Errorf("anchor: price %s weight %s", money.String(p.Price), money.String(p.Weight))
			}
		case "D-1":
			if money.String(p.Price) != "0.00" {
				t.Errorf("dowel price: got %s, want 0.00", money.String(p.Price))
			}
		}
	}
}
