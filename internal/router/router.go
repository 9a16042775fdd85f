package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/snackhub/api/internal/access"
	"github.com/snackhub/api/internal/config"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/handler"
	mw "github.com/snackhub/api/internal/middleware"
	"github.com/snackhub/api/internal/notify"
	"github.com/snackhub/api/internal/service"
	"github.com/snackhub/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Route names match the deployed SPA's calls, so list endpoints it fetches
// before login stay public while every mutation requires authentication.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Handlers
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	userHandler := handler.NewUserHandler(queries, cfg.UploadDir)
	roleHandler := handler.NewRoleHandler(queries)
	productHandler := handler.NewProductHandler(queries, cfg.UploadDir)
	feedbackHandler := handler.NewFeedbackHandler(queries)
	dashboardHandler := handler.NewDashboardHandler(queries)

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, newOrderStore)
	webhook := notify.NewWebhook(cfg.WebhookURL, cfg.FrontendURL)
	orderHandler := handler.NewOrderHandler(orderService, queries, hub, webhook)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		authHandler.RegisterPublicRoutes(r)
		feedbackHandler.RegisterPublicRoutes(r)
		r.Get("/loadUsers", userHandler.List)
		r.Get("/loadProducts", productHandler.List)
		r.Get("/loadOrders", orderHandler.List)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			authHandler.RegisterRoutes(r)
			orderHandler.RegisterRoutes(r)
			dashboardHandler.RegisterRoutes(r)

			// Admin-only
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(access.RolesAdmin...))
				userHandler.RegisterRoutes(r)
				roleHandler.RegisterRoutes(r)
			})

			// Admin or Manager
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(access.RolesAdminManager...))
				productHandler.RegisterRoutes(r)
				feedbackHandler.RegisterRoutes(r)
			})
		})
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Uploaded images are served as static files; records hold relative paths.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	log.Println("Router initialized with all handlers")
	return r
}
