package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SydAsim/Visaguardai-Upwork/internal/api/handlers"
	"github.com/SydAsim/Visaguardai-Upwork/internal/auth"
	"github.com/SydAsim/Visaguardai-Upwork/internal/config"
	"github.com/SydAsim/Visaguardai-Upwork/internal/services"
	"github.com/SydAsim/Visaguardai-Upwork/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, hub *websocket.Hub, tokens *auth.TokenManager,
	accountService services.AccountServiceProvider,
	analysisService services.AnalysisServiceProvider,
	eventService services.EventServiceProvider) *chi.Mux {

	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, eventService, tokens, cfg.IsProduction())
	analysisHandler := handlers.NewAnalysisHandler(accountService, analysisService)
	eventHandler := handlers.NewEventHandler(accountService, eventService)
	healthHandler := handlers.NewHealthHandler()
	wsHandler := handlers.NewWebSocketHandler(hub, tokens)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		// WebSocket connection endpoint (token via cookie or query param)
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", accountHandler.Register)
			r.Post("/login", accountHandler.Login)
			r.Post("/logout", accountHandler.Logout)
		})

		// Routes below require a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Get("/me", accountHandler.GetMe)
			r.Patch("/me", accountHandler.UpdateMe)
			r.Post("/me/accounts/{platform}", accountHandler.ConnectAccount)
			r.Delete("/me/accounts/{platform}", accountHandler.DisconnectAccount)

			r.Post("/analysis", analysisHandler.Run)
			r.Get("/analysis/latest", analysisHandler.Latest)

			r.Get("/events", eventHandler.Recent)
		})
	})

	return r
}
