package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/TechLionDev/InviStar/internal/dashboard"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	dashboardBusinesses = 10
	recentOrders        = 3
)

// DashboardStore defines the database methods needed by dashboard handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	ListOrdersSince(ctx context.Context, arg database.ListOrdersSinceParams) ([]database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	CountProducts(ctx context.Context, createdBy uuid.UUID) (int64, error)
	ListBusinesses(ctx context.Context, createdBy uuid.UUID) ([]database.Business, error)
}

// DashboardHandler serves the dashboard cards and charts.
type DashboardHandler struct {
	store DashboardStore
	now   func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler. now may be nil.
func NewDashboardHandler(store DashboardStore, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{store: store, now: now}
}

// RegisterRoutes registers dashboard endpoints on the given Chi router.
// Expected to be mounted at /dashboard.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/revenue", h.Revenue)
	r.Get("/orders", h.Orders)
	r.Get("/businesses", h.Businesses)
	r.Get("/activity", h.Activity)
}

// --- Handlers ---

// Summary returns the revenue, orders, products and profit margin cards.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	now := h.now()

	points, ok := h.points(w, r, owner, dayStart(now).AddDate(0, -2, 0))
	if !ok {
		return
	}
	count, err := h.store.CountProducts(r.Context(), owner)
	if err != nil {
		serverError(w, r, "count products", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Summary(points, count, now))
}

// Revenue returns monthly sales and purchase totals for ?months= (default 6).
func (h *DashboardHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	months, err := intParam(r, "months", 6, 24)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := h.now()

	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	points, ok := h.points(w, r, owner, since)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Revenue(points, now, months))
}

// Orders returns daily sales and purchase order counts for ?days= (default 7).
func (h *DashboardHandler) Orders(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", 7, 90)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := h.now()

	points, ok := h.points(w, r, owner, dayStart(now).AddDate(0, 0, -(days-1)))
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dashboard.OrderCounts(points, now, days))
}

// Businesses returns the first businesses by name.
func (h *DashboardHandler) Businesses(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	businesses, err := h.store.ListBusinesses(r.Context(), owner)
	if err != nil {
		serverError(w, r, "list businesses", err)
		return
	}
	if len(businesses) > dashboardBusinesses {
		businesses = businesses[:dashboardBusinesses]
	}

	resp := make([]businessResponse, len(businesses))
	for i, b := range businesses {
		resp[i] = toBusinessResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Activity returns the most recently created orders.
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{CreatedBy: owner})
	if err != nil {
		serverError(w, r, "list orders", err)
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > recentOrders {
		orders = orders[:recentOrders]
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recent_orders": resp})
}

// --- Helpers ---

func (h *DashboardHandler) points(w http.ResponseWriter, r *http.Request, owner uuid.UUID, since time.Time) ([]dashboard.OrderPoint, bool) {
	orders, err := h.store.ListOrdersSince(r.Context(), database.ListOrdersSinceParams{CreatedBy: owner, Date: since})
	if err != nil {
		serverError(w, r, "list orders since", err)
		return nil, false
	}

	points := make([]dashboard.OrderPoint, len(orders))
	for i, o := range orders {
		points[i] = dashboard.OrderPoint{Type: o.Type, Total: money.FromNumeric(o.Total), At: o.Date}
	}
	return points, true
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
