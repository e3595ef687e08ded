package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/repository"
)

// Router handles HTTP routing for the Slowish API.
type Router struct {
	authHandler       *AuthHandler
	accountHandler    *AccountHandler
	containerHandler  *ContainerHandler
	fileHandler       *FileHandler
	authMiddleware    func(http.Handler) http.Handler
	metricsMiddleware func(http.Handler) http.Handler
	health            repository.DatabaseHealth
	logger            zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler      *AuthHandler
	AccountHandler   *AccountHandler
	ContainerHandler *ContainerHandler
	FileHandler      *FileHandler
	AuthMiddleware   func(http.Handler) http.Handler

	// MetricsMiddleware instruments every request when set.
	MetricsMiddleware func(http.Handler) http.Handler

	// Health is pinged by the health endpoint when set.
	Health repository.DatabaseHealth

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:       config.AuthHandler,
		accountHandler:    config.AccountHandler,
		containerHandler:  config.ContainerHandler,
		fileHandler:       config.FileHandler,
		authMiddleware:    config.AuthMiddleware,
		metricsMiddleware: config.MetricsMiddleware,
		health:            config.Health,
		logger:            config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
//
// The token endpoint is open; everything under /files/{accountID} sits
// behind the token gate, which rejects the request before any lookup
// that could reveal whether the account exists.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(rt.logger))
	if rt.metricsMiddleware != nil {
		r.Use(rt.metricsMiddleware)
	}

	r.Get("/health", rt.handleHealth)

	r.Post("/tokens", rt.authHandler.IssueToken)

	r.Route("/files/{accountID}", func(r chi.Router) {
		r.Use(rt.authMiddleware)

		r.Get("/", rt.accountHandler.ListContainers)

		// /{container} is the container itself; the trailing-slash
		// form /{container}/ is its file listing, which the wildcard
		// routes pick up with an empty remainder.
		r.Put("/{container}", rt.containerHandler.PutContainer)
		r.Get("/{container}", rt.containerHandler.GetContainer)

		r.Put("/{container}/*", rt.fileHandler.PutFile)
		r.Get("/{container}/*", rt.fileHandler.GetFile)
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health.Ping(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
