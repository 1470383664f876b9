// Package health provides health checks for a running swapper node.
//
// The checker reports on:
// - Store readability and query latency
// - Pool invariants (detailed checks only)
// - Telemetry exporter state
//
// Endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Comprehensive status including invariants
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// StateSource is the part of the application the checker inspects.
type StateSource interface {
	IsInitialized() bool
	LastHeight() int64
	Pools(ctx context.Context) ([]swaptypes.Pool, error)
	CheckInvariants(ctx context.Context) (string, bool, error)
}

// TelemetrySource reports whether exporters are running.
type TelemetrySource interface {
	HealthCheck() error
}

// Checker performs health checks on the node components
type Checker struct {
	logger    log.Logger
	state     StateSource
	telemetry TelemetrySource

	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// MaxResponseTime is the store query latency above which the store is degraded
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker. telemetry may be nil.
func NewChecker(logger log.Logger, cfg Config, state StateSource, telemetry TelemetrySource) (*Checker, error) {
	if state == nil {
		return nil, fmt.Errorf("state source is required")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Checker{
		logger:          logger,
		state:           state,
		telemetry:       telemetry,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check performs a health check. Detailed checks also run the invariants and are never cached.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Version:    "1.0.0",
		Components: make(map[string]ComponentHealth),
	}

	health.Components["store"] = c.checkStore(ctx)
	health.Components["telemetry"] = c.checkTelemetry()
	if detailed {
		health.Components["invariants"] = c.checkInvariants(ctx)
	}

	health.Status = c.calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}

	return health
}

// checkStore verifies the committed state is initialized and readable
func (c *Checker) checkStore(ctx context.Context) ComponentHealth {
	if !c.state.IsInitialized() {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "State has no genesis; run init",
			Timestamp: time.Now(),
		}
	}

	start := time.Now()
	pools, err := c.state.Pools(ctx)
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Store query failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	seeded := 0
	for _, pool := range pools {
		if pool.IsSeeded() {
			seeded++
		}
	}

	metrics := map[string]interface{}{
		"height":        c.state.LastHeight(),
		"pools":         len(pools),
		"seeded_pools":  seeded,
		"query_time_ms": duration.Milliseconds(),
	}

	componentStatus := StatusHealthy
	message := "Store is responsive"

	if c.maxResponseTime > 0 && duration > c.maxResponseTime {
		componentStatus = StatusDegraded
		message = "Store response time is degraded"
	}

	return ComponentHealth{
		Status:    componentStatus,
		Message:   message,
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// checkInvariants runs every pool invariant against committed state
func (c *Checker) checkInvariants(ctx context.Context) ComponentHealth {
	msg, broken, err := c.state.CheckInvariants(ctx)
	if err != nil {
		return ComponentHealth{
			Status:    StatusUnknown,
			Message:   fmt.Sprintf("Invariants could not run: %v", err),
			Timestamp: time.Now(),
		}
	}

	if broken {
		c.logger.Error("invariant broken", "msg", msg)
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   msg,
			Timestamp: time.Now(),
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "All invariants hold",
		Timestamp: time.Now(),
	}
}

func (c *Checker) checkTelemetry() ComponentHealth {
	if c.telemetry == nil {
		return ComponentHealth{
			Status:    StatusHealthy,
			Message:   "Telemetry disabled",
			Timestamp: time.Now(),
		}
	}

	if err := c.telemetry.HealthCheck(); err != nil {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   err.Error(),
			Timestamp: time.Now(),
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "Telemetry exporters running",
		Timestamp: time.Now(),
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded, StatusUnknown:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) cached() *HealthCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || time.Since(c.lastCheck) >= c.cacheDuration {
		return nil
	}
	return c.cachedHealth
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods(http.MethodGet)
}

// Handler returns the health routes with panic recovery and response compression.
func (c *Checker) Handler() http.Handler {
	router := mux.NewRouter()
	c.RegisterRoutes(router)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handlers.CompressHandler(router))
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
