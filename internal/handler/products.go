package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TechLionDev/InviStar/internal/csvimport"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/listquery"
	"github.com/TechLionDev/InviStar/internal/logging"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxImageSize caps product image uploads.
const maxImageSize = 5 << 20

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context, createdBy uuid.UUID) ([]database.Product, error)
	GetProduct(ctx context.Context, arg database.GetProductParams) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	SetProductImage(ctx context.Context, arg database.SetProductImageParams) (database.Product, error)
	ArchiveProduct(ctx context.Context, arg database.ArchiveProductParams) (uuid.UUID, error)
}

// ProductHandler handles the product catalog, product images and CSV import.
type ProductHandler struct {
	store ProductStore
	files filestore.Store
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore, files filestore.Store) *ProductHandler {
	return &ProductHandler{store: store, files: files}
}

// RegisterRoutes registers product endpoints on the given Chi router.
// Expected to be mounted at /products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/import", h.Import)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Put("/image", h.UploadImage)
		r.Get("/image", h.Image)
	})
}

// --- Request / Response types ---

type productRequest struct {
	Name   string          `json:"name"`
	Sku    string          `json:"sku"`
	Price  decimal.Decimal `json:"price"`
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Weight decimal.Decimal `json:"weight"`
}

type productResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sku       string    `json:"sku"`
	Price     string    `json:"price"`
	Length    string    `json:"length"`
	Width     string    `json:"width"`
	Height    string    `json:"height"`
	Weight    string    `json:"weight"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	price decimal.Decimal
}

func (p productResponse) Fields() map[string]listquery.Value {
	return map[string]listquery.Value{
		"name":    listquery.Str(p.Name),
		"sku":     listquery.Str(p.Sku),
		"price":   listquery.Num(p.price),
		"created": listquery.Time(p.CreatedAt),
		"updated": listquery.Time(p.UpdatedAt),
	}
}

func toProductResponse(p database.Product) productResponse {
	resp := productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Sku:       p.Sku,
		Price:     money.String(p.Price),
		Length:    money.String(p.Length),
		Width:     money.String(p.Width),
		Height:    money.String(p.Height),
		Weight:    money.String(p.Weight),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		price:     money.FromNumeric(p.Price),
	}
	if p.Image.Valid {
		url := "/products/" + p.ID.String() + "/image"
		resp.ImageURL = &url
	}
	return resp
}

func (req *productRequest) normalize() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Sku = strings.TrimSpace(req.Sku)
	if req.Sku == "" {
		return errors.New("sku is required")
	}
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Price.IsNegative() {
		return errors.New("price must be >= 0")
	}
	for _, d := range []decimal.Decimal{req.Length, req.Width, req.Height, req.Weight} {
		if d.IsNegative() {
			return errors.New("dimensions must be >= 0")
		}
	}
	return nil
}

// --- Handlers ---

// List returns the user's active products, filtered and sorted by the shared
// list query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	q, ok := parseList(w, r)
	if !ok {
		return
	}

	products, err := h.store.ListProducts(r.Context(), owner)
	if err != nil {
		serverError(w, r, "list products", err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	page, total := listquery.Apply(resp, q)
	writeJSON(w, http.StatusOK, listResponse[productResponse]{Items: page, Total: total})
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		Name:      req.Name,
		Sku:       req.Sku,
		Price:     money.ToNumeric(req.Price),
		Length:    money.ToNumeric(req.Length),
		Width:     money.ToNumeric(req.Width),
		Height:    money.ToNumeric(req.Height),
		Weight:    money.ToNumeric(req.Weight),
		CreatedBy: owner,
	})
	if err != nil {
		serverError(w, r, "create product", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// Update replaces a product's catalog fields. Existing orders keep the price
// they were saved with.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "product")
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:        id,
		CreatedBy: owner,
		Name:      req.Name,
		Sku:       req.Sku,
		Price:     money.ToNumeric(req.Price),
		Length:    money.ToNumeric(req.Length),
		Width:     money.ToNumeric(req.Width),
		Height:    money.ToNumeric(req.Height),
		Weight:    money.ToNumeric(req.Weight),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		serverError(w, r, "update product", err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete archives a product. Line items that reference it are unaffected.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "product")
	if !ok {
		return
	}

	_, err := h.store.ArchiveProduct(r.Context(), database.ArchiveProductParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		serverError(w, r, "archive product", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores the "image" part of a multipart upload and points the
// product at it. The previous image, if any, is removed.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := filestore.NewKey("products/"+p.ID.String(), ext)
	if err := h.files.Put(r.Context(), key, file, contentType); err != nil {
		serverError(w, r, "store product image", err)
		return
	}

	updated, err := h.store.SetProductImage(r.Context(), database.SetProductImageParams{
		ID:        p.ID,
		CreatedBy: p.CreatedBy,
		Image:     pgtype.Text{String: key, Valid: true},
	})
	if err != nil {
		h.removeFile(r, key)
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		serverError(w, r, "set product image", err)
		return
	}
	if p.Image.Valid && p.Image.String != key {
		h.removeFile(r, p.Image.String)
	}

	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// Image streams the product's stored image.
func (h *ProductHandler) Image(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !p.Image.Valid {
		writeError(w, http.StatusNotFound, "product has no image")
		return
	}
	serveFile(w, r, h.files, p.Image.String)
}

// Import creates products from an uploaded CSV file. Rows without a SKU or
// name are reported and skipped.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	rows, ok := readImport(w, r, csvimport.Products)
	if !ok {
		return
	}

	resp := importResponse{}
	for _, row := range rows {
		if row.Err != "" {
			resp.Errors = append(resp.Errors, importError{Row: row.Index, Message: row.Err})
			continue
		}
		_, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
			Name:      row.Get("name"),
			Sku:       row.Get("sku"),
			Price:     money.ToNumeric(nonNegative(row.Decimal("price"))),
			Length:    money.ToNumeric(nonNegative(row.Decimal("length"))),
			Width:     money.ToNumeric(nonNegative(row.Decimal("width"))),
			Height:    money.ToNumeric(nonNegative(row.Decimal("height"))),
			Weight:    money.ToNumeric(nonNegative(row.Decimal("weight"))),
			CreatedBy: owner,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				serverError(w, r, "import products", err)
				return
			}
			resp.Errors = append(resp.Errors, rowFailed(r, row.Index, err))
			continue
		}
		resp.Count++
	}
	resp.Success = len(resp.Errors) == 0

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *ProductHandler) lookup(w http.ResponseWriter, r *http.Request) (database.Product, bool) {
	owner, ok := ownerID(w, r)
	if !ok {
		return database.Product{}, false
	}
	id, ok := urlID(w, r, "id", "product")
	if !ok {
		return database.Product{}, false
	}

	p, err := h.store.GetProduct(r.Context(), database.GetProductParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return database.Product{}, false
		}
		serverError(w, r, "get product", err)
		return database.Product{}, false
	}
	return p, true
}

func (h *ProductHandler) removeFile(r *http.Request, key string) {
	if err := h.files.Delete(r.Context(), key); err != nil {
		logging.FromContext(r.Context()).Warn("delete stored file", zap.String("key", key), zap.Error(err))
	}
}

// serveFile copies a stored object to the response.
func serveFile(w http.ResponseWriter, r *http.Request, files filestore.Store, key string) {
	obj, err := files.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		serverError(w, r, "open stored file", err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, obj.Body); err != nil {
		logging.FromContext(r.Context()).Warn("stream stored file", zap.String("key", key), zap.Error(err))
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
