// Package api serves the swapper application over REST.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/paw-chain/swapper/app"
)

// Server represents the main API server
type Server struct {
	router  *gin.Engine
	handler http.Handler
	app     *app.SwapApp
	config  *Config
	logger  log.Logger
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	CORSOrigins     []string
	RateLimitRPS    int
	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// FaucetEnabled exposes POST /api/ledger/mint
	FaucetEnabled bool
	// FaucetMaxAmount caps a single faucet mint
	FaucetMaxAmount math.Int
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "5000",
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		RateLimitRPS:    100,
		MaxRequestSize:  1 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FaucetEnabled:   false,
		FaucetMaxAmount: math.NewInt(1_000_000_000),
	}
}

// NewServer creates a new API server over swapApp
func NewServer(swapApp *app.SwapApp, config *Config, logger log.Logger) (*Server, error) {
	if swapApp == nil {
		return nil, fmt.Errorf("application is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.FaucetMaxAmount.IsNil() {
		config.FaucetMaxAmount = DefaultConfig().FaucetMaxAmount
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	server := &Server{
		app:    swapApp,
		config: config,
		logger: logger.With("module", "api"),
	}
	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	s.router = gin.New()

	// Global middleware - ORDER MATTERS!
	// 1. Recovery (must be first to catch panics)
	s.router.Use(RecoveryMiddleware(s.logger))

	// 2. Security headers (set early)
	s.router.Use(SecurityHeadersMiddleware())

	// 3. Request size limiting
	s.router.Use(RequestSizeLimitMiddleware(s.config.MaxRequestSize))

	// 4. Request ID (for tracing)
	s.router.Use(RequestIDMiddleware())

	// 5. Logging
	s.router.Use(LoggerMiddleware(s.logger))

	// 6. Rate limiting (before expensive operations)
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.router)
}

// Handler returns the HTTP handler including CORS handling
func (s *Server) Handler() http.Handler {
	return s.handler
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if !s.app.IsInitialized() {
		status = "uninitialized"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"height":    s.app.LastHeight(),
		"chain_id":  s.app.ChainID(),
		"timestamp": time.Now().Unix(),
		"version":   "1.0.0",
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr, "faucet", s.config.FaucetEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
