// Package services – ContractService
//
// This file implements the ContractService, which owns the client limitation
// table. It ingests contract exports (CSV), upserts them keyed by company
// name, and exposes lookups for the HTTP layer and the run pipeline.
//
// Service-level errors (e.g., ErrContractNotFound) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/ingest"
)

// ContractRepo defines the repository contract required by ContractService.
// Implementations are responsible for persistence of contract rows.
type ContractRepo interface {
	// UpsertContracts inserts or updates contracts keyed by company name.
	UpsertContracts(ctx context.Context, db *gorm.DB, contracts []domain.Contract) error

	// ListContracts returns all contracts ordered by company name.
	ListContracts(ctx context.Context, db *gorm.DB) ([]domain.Contract, error)

	// GetContract fetches one contract by company name.
	GetContract(ctx context.Context, db *gorm.DB, company string) (*domain.Contract, error)

	// CountContracts returns the total number of contracts.
	CountContracts(ctx context.Context, db *gorm.DB) (int64, error)
}

// ContractService provides operations over the client limitation table:
// importing contract exports and listing the stored rows.
type ContractService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the contract repository used by this service.
	Repo ContractRepo
}

// NewContractService constructs a ContractService.
func NewContractService(db *gorm.DB, r ContractRepo) *ContractService {
	return &ContractService{DB: db, Repo: r}
}

// Import parses a contract CSV export and upserts every row keyed by company
// name. The whole batch is applied in one transaction; a later export for the
// same company replaces the earlier row. Returns the number of rows imported.
func (s *ContractService) Import(ctx context.Context, data []byte) (int, error) {
	tr := otel.Tracer("services/ContractService")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(attribute.Int("bytes", len(data))),
	)
	defer span.End()

	contracts, err := ingest.ParseContracts(data)
	if err != nil {
		return 0, err
	}
	if len(contracts) == 0 {
		return 0, ErrEmptyImport
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.UpsertContracts(ctx, tx, contracts)
	})
	if err != nil {
		return 0, err
	}
	return len(contracts), nil
}

// List returns all stored contracts ordered by company name.
func (s *ContractService) List(ctx context.Context) ([]domain.Contract, error) {
	tr := otel.Tracer("services/ContractService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return s.Repo.ListContracts(ctx, s.DB)
}

// Get returns the contract for one company, or ErrContractNotFound.
func (s *ContractService) Get(ctx context.Context, company string) (*domain.Contract, error) {
	tr := otel.Tracer("services/ContractService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("company", company)),
	)
	defer span.End()

	c, err := s.Repo.GetContract(ctx, s.DB, company)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return c, nil
}

// Count returns the total number of stored contracts.
func (s *ContractService) Count(ctx context.Context) (int64, error) {
	return s.Repo.CountContracts(ctx, s.DB)
}
