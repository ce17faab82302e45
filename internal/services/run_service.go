// Package services – RunService
//
// This file implements RunService, the application-level component that owns
// pipeline runs. It validates the reporting period, parses the submitted
// bookings export, executes the enrichment pipeline against the stored
// contract table, and persists the finished run as an immutable JSON
// snapshot. Individual datasets are extracted from the snapshot on demand.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include period, run identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/ingest"
	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// RunRepo defines the repository contract required by RunService.
type RunRepo interface {
	// CreateRun inserts a run snapshot.
	CreateRun(ctx context.Context, db *gorm.DB, run *domain.Run) (*domain.Run, error)

	// GetRun fetches a run by ID including its payload.
	GetRun(ctx context.Context, db *gorm.DB, id string) (*domain.Run, error)

	// CountRuns returns the number of runs, optionally filtered by period.
	CountRuns(ctx context.Context, db *gorm.DB, period string) (int64, error)

	// ListRunsPage returns a page of runs ordered newest first.
	ListRunsPage(ctx context.Context, db *gorm.DB, period string, offset, limit int) ([]domain.Run, error)
}

// datasetNames is the set of dataset keys a run snapshot exposes. The keys
// match the JSON field names of the serialized pipeline result.
var datasetNames = map[string]struct{}{
	"full_raw":       {},
	"monthly_raw":    {},
	"full_report":    {},
	"monthly_report": {},
	"rollup":         {},
	"flags":          {},
}

// RunService coordinates pipeline execution and run snapshot persistence.
type RunService struct {
	DB       *gorm.DB
	Repo     RunRepo
	Contract ContractRepo
	Pipeline *pipeline.Pipeline
}

// NewRunService constructs a RunService around a shared pipeline instance.
func NewRunService(db *gorm.DB, r RunRepo, c ContractRepo, p *pipeline.Pipeline) *RunService {
	return &RunService{DB: db, Repo: r, Contract: c, Pipeline: p}
}

// Submit parses a bookings export, runs the enrichment pipeline for the given
// reporting period against the stored contract table, and persists the result
// as a new run snapshot. The snapshot is immutable once written; re-running
// the same input produces a new run with identical datasets.
func (s *RunService) Submit(ctx context.Context, period string, bookingsCSV []byte) (*domain.Run, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("period", period),
			attribute.Int("bytes", len(bookingsCSV)),
		),
	)
	defer span.End()

	p, err := pipeline.ParsePeriod(period)
	if err != nil {
		return nil, ErrBadPeriod
	}

	bookings, err := ingest.ParseBookings(bookingsCSV)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrEmptyBatch
	}

	contracts, err := s.Contract.ListContracts(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	result := s.Pipeline.Run(ctx, bookings, contracts, p)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode run payload: %w", err)
	}

	run := &domain.Run{
		Period:      result.Period,
		TotalRows:   len(result.FullRaw),
		MonthlyRows: len(result.MonthlyRaw),
		RollupRows:  len(result.Rollup),
		FlaggedRows: result.FlaggedCount(),
		Payload:     string(payload),
	}
	return s.Repo.CreateRun(ctx, s.DB, run)
}

// Get returns one run including its payload, or ErrRunNotFound.
func (s *RunService) Get(ctx context.Context, id string) (*domain.Run, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("run.id", id)),
	)
	defer span.End()

	run, err := s.Repo.GetRun(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

// ListPage returns a page of runs, newest first, optionally filtered by
// reporting period. It applies defaults for invalid page/pageSize and returns
// the total count for pagination metadata.
func (s *RunService) ListPage(ctx context.Context, period string, page, pageSize int) ([]domain.Run, int64, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("period", period),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if period != "" {
		if _, err := pipeline.ParsePeriod(period); err != nil {
			return nil, 0, ErrBadPeriod
		}
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountRuns(ctx, s.DB, period)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Run{}, 0, nil
	}

	items, err := s.Repo.ListRunsPage(ctx, s.DB, period, offset, pageSize)
	return items, total, err
}

// Dataset extracts one named dataset from a run snapshot as raw JSON. Valid
// names are the JSON keys of the serialized result: full_raw, monthly_raw,
// full_report, monthly_report, rollup and flags.
func (s *RunService) Dataset(ctx context.Context, id, name string) (json.RawMessage, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "Dataset",
		trace.WithAttributes(
			attribute.String("run.id", id),
			attribute.String("dataset", name),
		),
	)
	defer span.End()

	if _, ok := datasetNames[name]; !ok {
		return nil, ErrUnknownDataset
	}

	run, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal([]byte(run.Payload), &snapshot); err != nil {
		return nil, fmt.Errorf("decode run payload: %w", err)
	}
	ds, ok := snapshot[name]
	if !ok {
		return nil, ErrUnknownDataset
	}
	return ds, nil
}

// decodeResult re-hydrates the full pipeline result from a run snapshot.
func (s *RunService) decodeResult(run *domain.Run) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := json.Unmarshal([]byte(run.Payload), &res); err != nil {
		return nil, fmt.Errorf("decode run payload: %w", err)
	}
	return &res, nil
}
