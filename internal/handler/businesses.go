package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/TechLionDev/InviStar/internal/csvimport"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/TechLionDev/InviStar/internal/listquery"
	"github.com/TechLionDev/InviStar/internal/sanitize"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BusinessStore defines the database methods needed by business handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type BusinessStore interface {
	ListBusinesses(ctx context.Context, createdBy uuid.UUID) ([]database.Business, error)
	GetBusiness(ctx context.Context, arg database.GetBusinessParams) (database.Business, error)
	CreateBusiness(ctx context.Context, arg database.CreateBusinessParams) (database.Business, error)
	UpdateBusiness(ctx context.Context, arg database.UpdateBusinessParams) (database.Business, error)
	ArchiveBusiness(ctx context.Context, arg database.ArchiveBusinessParams) (uuid.UUID, error)
	ListOrdersByBusiness(ctx context.Context, arg database.ListOrdersByBusinessParams) ([]database.Order, error)
}

// BusinessHandler handles business CRUD and CSV import.
type BusinessHandler struct {
	store BusinessStore
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(store BusinessStore) *BusinessHandler {
	return &BusinessHandler{store: store}
}

// RegisterRoutes registers business endpoints on the given Chi router.
// Expected to be mounted at /businesses.
func (h *BusinessHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/import", h.Import)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/orders", h.Orders)
	})
}

// --- Request / Response types ---

type businessRequest struct {
	Name          string `json:"name"`
	Contact       string `json:"contact"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	AddressStreet string `json:"address_street"`
	AddressCity   string `json:"address_city"`
	AddressState  string `json:"address_state"`
	AddressZip    string `json:"address_zip"`
	Terms         string `json:"terms"`
	Notes         string `json:"notes"`
}

type businessResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	AddressStreet string    `json:"address_street"`
	AddressCity   string    `json:"address_city"`
	AddressState  string    `json:"address_state"`
	AddressZip    string    `json:"address_zip"`
	Terms         string    `json:"terms"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (b businessResponse) Fields() map[string]listquery.Value {
	return map[string]listquery.Value{
		"name":           listquery.Str(b.Name),
		"contact":        listquery.Str(b.Contact),
		"phone":          listquery.Str(b.Phone),
		"email":          listquery.Str(b.Email),
		"address_street": listquery.Str(b.AddressStreet),
		"address_city":   listquery.Str(b.AddressCity),
		"address_state":  listquery.Str(b.AddressState),
		"address_zip":    listquery.Str(b.AddressZip),
		"terms":          listquery.Str(b.Terms),
		"notes":          listquery.Str(b.Notes),
		"created":        listquery.Time(b.CreatedAt),
		"updated":        listquery.Time(b.UpdatedAt),
	}
}

type importError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Errors  []importError `json:"errors,omitempty"`
}

func toBusinessResponse(b database.Business) businessResponse {
	return businessResponse{
		ID:            b.ID,
		Name:          b.Name,
		Contact:       b.Contact,
		Phone:         b.Phone,
		Email:         b.Email,
		AddressStreet: b.AddressStreet,
		AddressCity:   b.AddressCity,
		AddressState:  b.AddressState,
		AddressZip:    b.AddressZip,
		Terms:         b.Terms,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// normalize trims fields, defaults terms and strips markup from notes.
func (req *businessRequest) normalize() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Contact = strings.TrimSpace(req.Contact)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.AddressStreet = strings.TrimSpace(req.AddressStreet)
	req.AddressCity = strings.TrimSpace(req.AddressCity)
	req.AddressState = strings.TrimSpace(req.AddressState)
	req.AddressZip = strings.TrimSpace(req.AddressZip)
	req.Terms = strings.TrimSpace(req.Terms)
	req.Notes = sanitize.Text(req.Notes)

	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Terms == "" {
		req.Terms = enum.DefaultPaymentTerms
	}
	if !enum.IsPaymentTerms(req.Terms) {
		return errors.New("invalid payment terms")
	}
	return nil
}

// --- Handlers ---

// List returns the user's active businesses, filtered and sorted by the
// shared list query parameters.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	q, ok := parseList(w, r)
	if !ok {
		return
	}

	businesses, err := h.store.ListBusinesses(r.Context(), owner)
	if err != nil {
		serverError(w, r, "list businesses", err)
		return
	}

	resp := make([]businessResponse, len(businesses))
	for i, b := range businesses {
		resp[i] = toBusinessResponse(b)
	}
	page, total := listquery.Apply(resp, q)
	writeJSON(w, http.StatusOK, listResponse[businessResponse]{Items: page, Total: total})
}

// Get returns a single business by ID.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "business")
	if !ok {
		return
	}

	b, err := h.store.GetBusiness(r.Context(), database.GetBusinessParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		serverError(w, r, "get business", err)
		return
	}

	writeJSON(w, http.StatusOK, toBusinessResponse(b))
}

// Create adds a new business.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req businessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.store.CreateBusiness(r.Context(), database.CreateBusinessParams{
		Name:          req.Name,
		Contact:       req.Contact,
		Phone:         req.Phone,
		Email:         req.Email,
		AddressStreet: req.AddressStreet,
		AddressCity:   req.AddressCity,
		AddressState:  req.AddressState,
		AddressZip:    req.AddressZip,
		Terms:         req.Terms,
		Notes:         req.Notes,
		CreatedBy:     owner,
	})
	if err != nil {
		serverError(w, r, "create business", err)
		return
	}

	writeJSON(w, http.StatusCreated, toBusinessResponse(b))
}

// Update replaces an existing business.
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "business")
	if !ok {
		return
	}

	var req businessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.store.UpdateBusiness(r.Context(), database.UpdateBusinessParams{
		ID:            id,
		CreatedBy:     owner,
		Name:          req.Name,
		Contact:       req.Contact,
		Phone:         req.Phone,
		Email:         req.Email,
		AddressStreet: req.AddressStreet,
		AddressCity:   req.AddressCity,
		AddressState:  req.AddressState,
		AddressZip:    req.AddressZip,
		Terms:         req.Terms,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		serverError(w, r, "update business", err)
		return
	}

	writeJSON(w, http.StatusOK, toBusinessResponse(b))
}

// Delete archives a business. Its orders keep referencing it.
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "business")
	if !ok {
		return
	}

	_, err := h.store.ArchiveBusiness(r.Context(), database.ArchiveBusinessParams{ID: id, CreatedBy: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		serverError(w, r, "archive business", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Orders returns the most recent orders placed with a business.
func (h *BusinessHandler) Orders(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id", "business")
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", 10, listquery.MaxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.store.ListOrdersByBusiness(r.Context(), database.ListOrdersByBusinessParams{
		CreatedBy:  owner,
		BusinessID: id,
		Limit:      int32(limit),
	})
	if err != nil {
		serverError(w, r, "list business orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Import creates businesses from an uploaded CSV file. Rows that fail
// validation are reported and skipped; the rest are imported.
func (h *BusinessHandler) Import(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	rows, ok := readImport(w, r, csvimport.Businesses)
	if !ok {
		return
	}

	resp := importResponse{}
	for _, row := range rows {
		if row.Err != "" {
			resp.Errors = append(resp.Errors, importError{Row: row.Index, Message: row.Err})
			continue
		}
		archived := row.Archived != nil && *row.Archived
		_, err := h.store.CreateBusiness(r.Context(), database.CreateBusinessParams{
			Name:          row.Get("name"),
			Contact:       row.Get("contact"),
			Phone:         row.Get("phone"),
			Email:         row.Get("email"),
			AddressStreet: row.Get("address_street"),
			AddressCity:   row.Get("address_city"),
			AddressState:  row.Get("address_state"),
			AddressZip:    row.Get("address_zip"),
			Terms:         row.Get("terms"),
			Notes:         sanitize.Text(row.Get("notes")),
			CreatedBy:     owner,
			Archived:      archived,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				serverError(w, r, "import businesses", err)
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
