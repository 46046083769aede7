package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/foodorder/apiserver/config"
	"github.com/foodorder/apiserver/internal/db"
	"github.com/foodorder/apiserver/internal/handlers"
	"github.com/foodorder/apiserver/internal/logging"
	"github.com/foodorder/apiserver/internal/mq"
	"github.com/foodorder/apiserver/internal/services"
	"github.com/foodorder/apiserver/internal/store"
	"github.com/foodorder/apiserver/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	bus        *mq.MQ
	logger     zerolog.Logger
}

// Dependencies are the shared resources the router is built from.
type Dependencies struct {
	DB     *sql.DB
	Tokens *token.Codec
	// Bus is optional; without it events are dropped.
	Bus    services.EventBus
	Logger zerolog.Logger
}

// New opens the database and the optional event bus and builds the router.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	secret, fallback := cfg.SigningSecret()
	if fallback {
		logger.Warn().Msg("JWT_SECRET is not set, signing tokens with the built-in fallback secret")
	}

	bus, err := mq.Connect(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	deps := Dependencies{
		DB:     dbConn,
		Tokens: token.NewCodec(secret),
		Logger: logger,
	}
	if bus != nil {
		deps.Bus = bus
		logger.Info().Str("backend", cfg.MQ.Backend).Str("channel", cfg.MQ.Channel).Msg("event bus connected")
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	router := NewRouter(cfg, deps)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		bus:        bus,
		logger:     logger,
	}, nil
}

// NewRouter wires repositories, services and handlers onto a chi router.
// API routes live under cfg.BasePath; /health stays at the root.
func NewRouter(cfg config.Config, deps Dependencies) *chi.Mux {
	accountRepo := store.NewAccountRepository(deps.DB)
	productRepo := store.NewProductRepository(deps.DB)
	orderRepo := store.NewOrderRepository(deps.DB)

	events := services.NewEventPublisher(deps.Bus, cfg.MQ.Channel)
	accountService := services.NewAccountService(accountRepo, deps.Tokens)
	catalogService := services.NewCatalogService(productRepo, events)
	orderService := services.NewOrderService(orderRepo, productRepo, events)

	router := chi.NewRouter()
	// Must be set before any Route call so subrouters inherit them.
	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.NotFound)
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(deps.Logger),
		handlers.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/health", handlers.Health)

	api := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, accountService)
		})
		r.Route("/products", func(r chi.Router) {
			handlers.ProductRouter(r, catalogService, deps.Tokens)
		})
		r.Route("/orders", func(r chi.Router) {
			handlers.OrderRouter(r, orderService, deps.Tokens)
		})
	}
	if cfg.BasePath == "" {
		api(router)
	} else {
		router.Route(cfg.BasePath, api)
	}

	return router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the bus and the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.bus != nil {
		if closeErr := s.bus.Close(); closeErr != nil {
			s.logger.Warn().Err(closeErr).Msg("close event bus")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
