package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"composer2/application/chat"
	"composer2/application/commands/bus"
	querybus "composer2/application/queries/bus"
	"composer2/application/state"
	"composer2/infrastructure/config"
	"composer2/interfaces/http/rest/handlers"
	"composer2/interfaces/http/rest/middleware"
	"composer2/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	config     *config.Config
	registry   *state.Registry
	turns      *chat.TurnController
	history    *chat.HistoryService
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	registry *state.Registry,
	turns *chat.TurnController,
	history *chat.HistoryService,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:     cfg,
		registry:   registry,
		turns:      turns,
		history:    history,
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.composer.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		// Conversation endpoints
		r.Route("/chat", func(r chi.Router) {
			chatHandler := handlers.NewChatHandler(rt.registry, rt.turns, rt.history, rt.logger)
			r.Post("/messages", chatHandler.SendMessage)
			r.Post("/bootstrap", chatHandler.Bootstrap)
			r.Get("/history", chatHandler.GetHistory)
			r.Delete("/history", chatHandler.ResetHistory)
		})

		// Live draft endpoints
		r.Route("/draft", func(r chi.Router) {
			draftHandler := handlers.NewDraftHandler(rt.registry, rt.commandBus, rt.logger)
			r.Get("/", draftHandler.GetDraft)
			r.Put("/", draftHandler.UpdateDraft)
			r.Post("/reset", draftHandler.ResetDraft)
			r.Patch("/kind", draftHandler.PatchKind)
			r.Patch("/schedule", draftHandler.PatchSchedule)
			r.Patch("/media", draftHandler.PatchMedia)
			r.Patch("/location", draftHandler.PatchLocation)
		})

		// Post persistence endpoints
		r.Route("/posts", func(r chi.Router) {
			postHandler := handlers.NewPostHandler(rt.commandBus, rt.queryBus, rt.logger)
			r.Post("/", postHandler.SavePost)
			r.Get("/", postHandler.ListPosts)
			r.Get("/counts", postHandler.GetCounts)
			r.Delete("/{postID}", postHandler.DeletePost)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
