// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Run model
// (one persisted pipeline execution snapshot).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// CreateRun inserts a run snapshot. The run ID is a randomly generated UUID
// (string) unless the caller preassigned one, and CreatedAt is set to UTC.
func CreateRun(ctx context.Context, db *gorm.DB, run *domain.Run) (*domain.Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun fetches a run by ID including its payload, or ErrNotFound.
func GetRun(ctx context.Context, db *gorm.DB, id string) (*domain.Run, error) {
	var r domain.Run
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountRuns returns the number of persisted runs, optionally restricted to
// one reporting period (pass "" for all periods).
func CountRuns(ctx context.Context, db *gorm.DB, period string) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Run{})
	if period != "" {
		q = q.Where("period = ?", period)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListRunsPage returns a paginated slice of runs ordered by creation time
// descending, payloads omitted to keep listings light. An empty period means
// no period filter. Use CountRuns for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListRunsPage(ctx context.Context, db *gorm.DB, period string, offset, limit int) ([]domain.Run, error) {
	var out []domain.Run
	q := db.WithContext(ctx).Omit("payload")
	if period != "" {
		q = q.Where("period = ?", period)
	}
	err := q.Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
