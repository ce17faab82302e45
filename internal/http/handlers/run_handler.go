// Run HTTP handlers.
//
// This file exposes REST endpoints for pipeline runs:
//   - POST /runs                          (submit a bookings export for a period)
//   - GET  /runs                          (list runs, paginated, period filter)
//   - GET  /runs/{id}                     (run metadata and dataset counts)
//   - GET  /runs/{id}/datasets/{name}     (one emitted dataset as JSON)
//   - GET  /runs/{id}/summary/companies   (per-company monthly aggregates)
//   - GET  /runs/{id}/summary/trainers    (per-trainer monthly aggregates)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// run exists for (user, period, key), the handler returns that recorded run
// and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/repo"
	"github.com/trainops/go-booking-backend/internal/services"
)

//
// DTOs
//

// ListRunsResponse wraps a page of runs and pagination information.
type ListRunsResponse struct {
	Runs       []domain.Run `json:"runs"`
	Pagination Pagination   `json:"pagination"`
}

//
// Handlers
//

// SubmitRun godoc
// @ID          submitRun
// @Summary     Submit a bookings export
// @Description Runs the enrichment pipeline over the uploaded booking report for the given period and persists the result snapshot.
// @Description Supports idempotency via the Idempotency-Key header (same key → same run).
// @Tags        Runs
// @Accept      text/csv
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       period           query   string  true  "Reporting period (YYYY-MM)"  example(2024-03)
// @Param       body             body    string  true  "Booking report CSV (UTF-8 or UTF-16)"
//
// @Success     201  {object}  domain.Run
// @Failure     400  {object}  handlers.ErrorResponse  "Bad period, malformed CSV, or header mismatch"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs [post]
func (h *Handlers) SubmitRun(c *gin.Context) {
	ctx := c.Request.Context()
	period := strings.TrimSpace(c.Query("period"))
	if period == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "period query parameter required (YYYY-MM)")
		return
	}
	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if idemKey != "" {
		if svc, okSvc := h.runSvc.(*services.RunService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, period, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.runSvc.Get(ctx, rec.RunID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	data, okBody := readBody(c)
	if !okBody {
		return
	}

	run, err := h.runSvc.Submit(ctx, period, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadPeriod):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "period must be a valid YYYY-MM value")
		case errors.Is(err, services.ErrEmptyBatch):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking batch is empty")
		case isUploadError(err):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRunFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.runSvc.(*services.RunService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, period, idemKey, run.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, run)
}

// ListRuns godoc
// @ID          listRuns
// @Summary     List runs (paginated)
// @Description Returns a page of persisted runs, newest first, optionally filtered by reporting period.
// @Tags        Runs
// @Produce     json
//
// @Param       period     query  string  false "Reporting period filter (YYYY-MM)"  example(2024-03)
// @Param       page       query  int     false "Page number"                        minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"                     minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListRunsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad period"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs [get]
func (h *Handlers) ListRuns(c *gin.Context) {
	page, pageSize := clampPagination(c)
	period := strings.TrimSpace(c.Query("period"))

	items, total, err := h.runSvc.ListPage(c.Request.Context(), period, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrBadPeriod) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "period must be a valid YYYY-MM value")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListRunsResponse{
		Runs: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetRun godoc
// @ID          getRun
// @Summary     Fetch run metadata
// @Description Returns one run's metadata and dataset row counts. Dataset contents are served separately.
// @Tags        Runs
// @Produce     json
//
// @Param       id  path  string  true  "Run ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Run
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Run not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs/{id} [get]
func (h *Handlers) GetRun(c *gin.Context) {
	id, okID := runIDParam(c)
	if !okID {
		return
	}

	run, err := h.runSvc.Get(c.Request.Context(), id)
	if err != nil {
		failRunErr(c, err)
		return
	}
	ok(c, http.StatusOK, run)
}

// GetRunDataset godoc
// @ID          getRunDataset
// @Summary     Fetch one dataset of a run
// @Description Returns a single emitted dataset as a JSON array. Valid names: full_raw, monthly_raw, full_report, monthly_report, rollup, flags.
// @Tags        Runs
// @Produce     json
//
// @Param       id    path  string  true  "Run ID (UUID)"  format(uuid)
// @Param       name  path  string  true  "Dataset name"   example(monthly_report)
//
// @Success     200  {array}   object
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown dataset name"
// @Failure     404  {object}  handlers.ErrorResponse  "Run not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs/{id}/datasets/{name} [get]
func (h *Handlers) GetRunDataset(c *gin.Context) {
	id, okID := runIDParam(c)
	if !okID {
		return
	}
	name := c.Param("name")

	ds, err := h.runSvc.Dataset(c.Request.Context(), id, name)
	if err != nil {
		if errors.Is(err, services.ErrUnknownDataset) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown dataset name")
			return
		}
		failRunErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", ds)
}

// GetRunCompanySummary godoc
// @ID          getRunCompanySummary
// @Summary     Per-company monthly aggregates
// @Description Returns session, employee, and quota aggregates per company for the run's monthly dataset.
// @Tags        Runs
// @Produce     json
//
// @Param       id  path  string  true  "Run ID (UUID)"  format(uuid)
//
// @Success     200  {array}   services.CompanySummary
// @Failure     404  {object}  handlers.ErrorResponse  "Run not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs/{id}/summary/companies [get]
func (h *Handlers) GetRunCompanySummary(c *gin.Context) {
	id, okID := runIDParam(c)
	if !okID {
		return
	}

	out, err := h.runSvc.SummaryByCompany(c.Request.Context(), id)
	if err != nil {
		failRunErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetRunTrainerSummary godoc
// @ID          getRunTrainerSummary
// @Summary     Per-trainer monthly aggregates
// @Description Returns session counts and the in-person/online split per trainer for the run's monthly dataset.
// @Tags        Runs
// @Produce     json
//
// @Param       id  path  string  true  "Run ID (UUID)"  format(uuid)
//
// @Success     200  {array}   services.TrainerSummary
// @Failure     404  {object}  handlers.ErrorResponse  "Run not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /runs/{id}/summary/trainers [get]
func (h *Handlers) GetRunTrainerSummary(c *gin.Context) {
	id, okID := runIDParam(c)
	if !okID {
		return
	}

	out, err := h.runSvc.SummaryByTrainer(c.Request.Context(), id)
	if err != nil {
		failRunErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

//
// Helpers
//

// runIDParam validates the :id path parameter as a UUID.
func runIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "run id must be a UUID")
		return "", false
	}
	return id, true
}

// failRunErr maps run lookup errors to HTTP responses.
func failRunErr(c *gin.Context, err error) {
	if errors.Is(err, services.ErrRunNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "run not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
