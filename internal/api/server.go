// Package api exposes the terminal's REST and websocket surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"solana-sniper-terminal/internal/storage"
)

// ScannerControl is the loop-control surface the API needs.
type ScannerControl interface {
	Start(ctx context.Context) error
	Stop()
	Running() bool
}

// Options for creating a Server.
type Options struct {
	Balances  storage.BalanceStore
	Positions storage.PositionStore
	Trades    storage.TradeStore
	Scans     storage.ScanFeedStore
	Settings  storage.SettingsStore

	Scanner ScannerControl
	Hub     *Hub
	Logger  *zap.SugaredLogger

	// BaseContext parents scanner starts triggered over the API, so a server
	// shutdown still tears the loop down.
	BaseContext context.Context
}

// Server is the HTTP API server.
type Server struct {
	router  *mux.Router
	http    *http.Server
	logger  *zap.SugaredLogger
	started time.Time

	balances  storage.BalanceStore
	positions storage.PositionStore
	trades    storage.TradeStore
	scans     storage.ScanFeedStore
	settings  storage.SettingsStore

	scanner ScannerControl
	hub     *Hub
	baseCtx context.Context
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		started:   time.Now(),
		balances:  opts.Balances,
		positions: opts.Positions,
		trades:    opts.Trades,
		scans:     opts.Scans,
		settings:  opts.Settings,
		scanner:   opts.Scanner,
		hub:       opts.Hub,
		baseCtx:   baseCtx,
	}

	s.setupRoutes()

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/balance", s.handleGetBalance).Methods(http.MethodGet)
	v1.HandleFunc("/balance/deposit", s.handleDeposit).Methods(http.MethodPost)
	v1.HandleFunc("/positions", s.handleListPositions).Methods(http.MethodGet)
	v1.HandleFunc("/trades", s.handleListTrades).Methods(http.MethodGet)
	v1.HandleFunc("/scans", s.handleListScans).Methods(http.MethodGet)
	v1.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	v1.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/scanner/start", s.handleScannerStart).Methods(http.MethodPost)
	v1.HandleFunc("/scanner/stop", s.handleScannerStop).Methods(http.MethodPost)

	if s.hub != nil {
		s.router.Handle("/ws/feed", s.hub)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the listener until Shutdown.
func (s *Server) Start() error {
	s.logger.Infow("api server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugw("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
