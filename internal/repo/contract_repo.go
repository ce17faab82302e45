// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Contract
// model (the client limitation table).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a contract is not found, functions return gorm.ErrRecordNotFound
//     (also exported in db.go as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// UpsertContracts inserts or replaces the limitation rows in one
// transaction, keyed by the unique company name. An uploaded table fully
// defines a company's contract, so on conflict every business column is
// overwritten with the incoming values.
func UpsertContracts(ctx context.Context, db *gorm.DB, contracts []domain.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range contracts {
		if contracts[i].ID == "" {
			contracts[i].ID = uuid.NewString()
		}
		contracts[i].CreatedAt = now
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"per_employee", "per_month", "prepaid", "start", "end",
			"duration_days", "note", "hourly_rate", "is_valid", "updated_at",
		}),
	}).Create(&contracts).Error
}

// ListContracts returns the whole limitation table ordered by company name.
// It returns an empty slice when no contracts are stored.
func ListContracts(ctx context.Context, db *gorm.DB) ([]domain.Contract, error) {
	var out []domain.Contract
	err := db.WithContext(ctx).Order("company asc").Find(&out).Error
	return out, err
}

// GetContract fetches one contract by exact company name, or ErrNotFound.
func GetContract(ctx context.Context, db *gorm.DB, company string) (*domain.Contract, error) {
	var c domain.Contract
	err := db.WithContext(ctx).Where("company = ?", company).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountContracts returns the number of stored limitation rows.
func CountContracts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Contract{}).Count(&total).Error
	return total, err
}
