package router

import (
	"net/http"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/TechLionDev/InviStar/internal/config"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/handler"
	mw "github.com/TechLionDev/InviStar/internal/middleware"
	"github.com/TechLionDev/InviStar/internal/service"
	"github.com/TechLionDev/InviStar/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps holds the shared services the routes are built from.
type Deps struct {
	Config   *config.Config
	Queries  *database.Queries
	Orders   *service.OrderService
	Invoices handler.InvoiceGenerator
	Files    filestore.Store
	Hub      *ws.Hub
	Sessions *auth.SessionNotifier
	Logger   *zap.Logger
}

// New creates a Chi router with all application routes wired up.
// Everything except auth, health and the websocket is scoped to the caller.
func New(d Deps) chi.Router {
	cfg := d.Config
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(d.Queries, cfg.JWTSecret, d.Sessions)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterProtectedRoutes(r)

		profileHandler := handler.NewProfileHandler(d.Queries, d.Sessions)
		profileHandler.RegisterRoutes(r)

		businessHandler := handler.NewBusinessHandler(d.Queries)
		r.Route("/businesses", businessHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(d.Queries, d.Files)
		r.Route("/products", productHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(d.Queries, d.Orders, d.Invoices, d.Files)
		r.Route("/orders", orderHandler.RegisterRoutes)
		r.Route("/invoices", orderHandler.RegisterInvoiceRoutes)

		dashboardHandler := handler.NewDashboardHandler(d.Queries, nil)
		r.Route("/dashboard", dashboardHandler.RegisterRoutes)
	})

	return r
}
