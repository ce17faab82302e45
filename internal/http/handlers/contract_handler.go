// Contract HTTP handlers.
//
// This file exposes REST endpoints for the client limitation table:
//   - POST /contracts/import       (upload a contract CSV export)
//   - GET  /contracts              (list all stored contracts)
//   - GET  /contracts/{company}    (fetch one company's contract)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/ingest"
	"github.com/trainops/go-booking-backend/internal/services"
	"github.com/trainops/go-booking-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ContractService defines contract-table operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ContractService interface {
	// Import parses a contract CSV export and upserts every row by company.
	Import(ctx context.Context, data []byte) (int, error)
	// List returns all stored contracts ordered by company.
	List(ctx context.Context) ([]domain.Contract, error)
	// Get returns one company's contract.
	Get(ctx context.Context, company string) (*domain.Contract, error)
}

// RunService defines pipeline-run operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RunService interface {
	// Submit runs the enrichment pipeline over a bookings export and
	// persists the resulting snapshot.
	Submit(ctx context.Context, period string, bookingsCSV []byte) (*domain.Run, error)
	// Get returns one run including its payload.
	Get(ctx context.Context, id string) (*domain.Run, error)
	// ListPage returns a page of runs and the total count.
	ListPage(ctx context.Context, period string, page, pageSize int) ([]domain.Run, int64, error)
	// Dataset extracts one named dataset from a run snapshot.
	Dataset(ctx context.Context, id, name string) (json.RawMessage, error)
	// SummaryByCompany aggregates a run's monthly dataset per company.
	SummaryByCompany(ctx context.Context, runID string) ([]services.CompanySummary, error)
	// SummaryByTrainer aggregates a run's monthly dataset per trainer.
	SummaryByTrainer(ctx context.Context, runID string) ([]services.TrainerSummary, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for contracts, runs, and flag lookups.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	contractSvc ContractService
	runSvc      RunService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(contractSvc ContractService, runSvc RunService) *Handlers {
	return &Handlers{contractSvc: contractSvc, runSvc: runSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// ImportContractsResponse reports the outcome of a contract import.
type ImportContractsResponse struct {
	Imported int `json:"imported" example:"42"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// isUploadError reports whether an error stems from a malformed upload
// (header mismatch, empty file, broken CSV) rather than a server fault.
func isUploadError(err error) bool {
	var hdrErr *ingest.HeaderError
	var csvErr *csv.ParseError
	return errors.As(err, &hdrErr) ||
		errors.As(err, &csvErr) ||
		errors.Is(err, ingest.ErrEmptyFile)
}

// readBody drains the request body. The router caps body size upstream, so a
// read error here usually means the upload exceeded the cap.
func readBody(c *gin.Context) ([]byte, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
		return nil, false
	}
	return data, true
}

//
// Handlers
//

// ImportContracts godoc
// @ID          importContracts
// @Summary     Import a contract CSV export
// @Description Parses the uploaded contract table and upserts every row keyed by company name.
// @Tags        Contracts
// @Accept      text/csv
// @Produce     json
//
// @Param       body  body  string  true  "Contract CSV export (UTF-8 or UTF-16)"
//
// @Success     200  {object}  handlers.ImportContractsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed CSV or header mismatch"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contracts/import [post]
func (h *Handlers) ImportContracts(c *gin.Context) {
	data, okBody := readBody(c)
	if !okBody {
		return
	}

	n, err := h.contractSvc.Import(c.Request.Context(), data)
	if err != nil {
		if isUploadError(err) || errors.Is(err, services.ErrEmptyImport) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeImportFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ImportContractsResponse{Imported: n})
}

// ListContracts godoc
// @ID          listContracts
// @Summary     List stored contracts
// @Description Returns every contract row ordered by company name.
// @Tags        Contracts
// @Produce     json
//
// @Success     200  {array}   domain.Contract
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contracts [get]
func (h *Handlers) ListContracts(c *gin.Context) {
	items, err := h.contractSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetContract godoc
// @ID          getContract
// @Summary     Fetch one company's contract
// @Description Returns the contract row for the given company name (exact match).
// @Tags        Contracts
// @Produce     json
//
// @Param       company  path  string  true  "Company name"  example(ACME)
//
// @Success     200  {object}  domain.Contract
// @Failure     404  {object}  handlers.ErrorResponse  "Contract not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contracts/{company} [get]
func (h *Handlers) GetContract(c *gin.Context) {
	company := strings.TrimSpace(c.Param("company"))
	if company == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "company required")
		return
	}

	contract, err := h.contractSvc.Get(c.Request.Context(), company)
	if err != nil {
		if errors.Is(err, services.ErrContractNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "contract not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, contract)
}
