// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/trainops/go-booking-backend/internal/config"
	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/http/handlers"
	"github.com/trainops/go-booking-backend/internal/http/middleware"
	"github.com/trainops/go-booking-backend/internal/pipeline"
	"github.com/trainops/go-booking-backend/internal/repo"
	"github.com/trainops/go-booking-backend/internal/services"
)

// contractRepoShim adapts the repository free functions to the
// services.ContractRepo interface expected by the ContractService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type contractRepoShim struct{}

// UpsertContracts proxies repo.UpsertContracts.
func (contractRepoShim) UpsertContracts(ctx context.Context, db *gorm.DB, contracts []domain.Contract) error {
	return repo.UpsertContracts(ctx, db, contracts)
}

// ListContracts proxies repo.ListContracts.
func (contractRepoShim) ListContracts(ctx context.Context, db *gorm.DB) ([]domain.Contract, error) {
	return repo.ListContracts(ctx, db)
}

// GetContract proxies repo.GetContract.
func (contractRepoShim) GetContract(ctx context.Context, db *gorm.DB, company string) (*domain.Contract, error) {
	return repo.GetContract(ctx, db, company)
}

// CountContracts proxies repo.CountContracts.
func (contractRepoShim) CountContracts(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountContracts(ctx, db)
}

// runRepoShim adapts the repository free functions to the services.RunRepo
// interface expected by the RunService.
type runRepoShim struct{}

// CreateRun proxies repo.CreateRun.
func (runRepoShim) CreateRun(ctx context.Context, db *gorm.DB, run *domain.Run) (*domain.Run, error) {
	return repo.CreateRun(ctx, db, run)
}

// GetRun proxies repo.GetRun.
func (runRepoShim) GetRun(ctx context.Context, db *gorm.DB, id string) (*domain.Run, error) {
	return repo.GetRun(ctx, db, id)
}

// CountRuns proxies repo.CountRuns.
func (runRepoShim) CountRuns(ctx context.Context, db *gorm.DB, period string) (int64, error) {
	return repo.CountRuns(ctx, db, period)
}

// ListRunsPage proxies repo.ListRunsPage.
func (runRepoShim) ListRunsPage(ctx context.Context, db *gorm.DB, period string, offset, limit int) ([]domain.Run, error) {
	return repo.ListRunsPage(ctx, db, period, offset, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, pipe *pipeline.Pipeline, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (CSV uploads can be large)
	r.Use(limitBody(cfg.ImportMaxBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, period, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, period, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/pipeline
	contractSvc := services.NewContractService(db, contractRepoShim{})
	runSvc := services.NewRunService(db, runRepoShim{}, contractRepoShim{}, pipe)
	h := handlers.New(contractSvc, runSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Contracts
		api.POST("/contracts/import", h.ImportContracts)
		api.GET("/contracts", h.ListContracts)
		api.GET("/contracts/:company", h.GetContract)

		// Runs
		api.POST("/runs", h.SubmitRun)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/runs/:id/summary/companies", h.GetRunCompanySummary)
		api.GET("/runs/:id/summary/trainers", h.GetRunTrainerSummary)

		// Datasets are full JSON dumps of one run's tables; compress them.
		datasets := api.Group("", gzip.Gzip(gzip.DefaultCompression))
		datasets.GET("/runs/:id/datasets/:name", h.GetRunDataset)

		// Flag code lookup
		api.GET("/flags", h.ListFlags)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
