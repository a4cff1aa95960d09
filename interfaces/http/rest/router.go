package rest

import (
	"net/http"

	"boardcore/application/services"
	"boardcore/infrastructure/config"
	"boardcore/interfaces/http/rest/handlers"
	"boardcore/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	boardService *services.BoardService
	cfg          *config.Config
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(boardService *services.BoardService, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		boardService: boardService,
		cfg:          cfg,
		logger:       logger,
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

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	boardHandler := handlers.NewBoardHandler(rt.boardService, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(middleware.AuthConfig{
			Secret: rt.cfg.JWTSecret,
			Issuer: rt.cfg.JWTIssuer,
		}))
		r.Use(middleware.RateLimit(100, 200))

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", boardHandler.ListBoards)
			r.Post("/", boardHandler.CreateBoard)
			r.Get("/{boardID}", boardHandler.GetBoard)
			r.Put("/{boardID}", boardHandler.UpdateBoard)
			r.Delete("/{boardID}", boardHandler.DeleteBoard)
		})

		r.Get("/link-metadata", boardHandler.GetLinkMetadata)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
