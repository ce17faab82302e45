// Package domain defines the persistence models for contracts and pipeline
// runs. These types are mapped with GORM and form the core data layer of the
// booking-enrichment backend. The in-memory pipeline types (Booking, Record,
// report rows) live in booking.go and are not persisted row by row.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Contract is one row of the client limitation table. Each company has at
// most one contract record, looked up by exact company-name match when the
// pipeline joins bookings against the table.
//
// Fields:
//   - Company: join key, upper-cased company name as produced by the
//     session classifier.
//   - PerEmployee: maximum sessions one employee may use ("c_per_emp").
//   - PerMonth: maximum sessions per month for the whole company.
//   - Prepaid: free-text prepaid marker from the source file.
//   - Start / End: contract window; a booking counts against the quota only
//     when its start time falls inside [Start, End] inclusive.
//   - DurationDays: derived End − Start in days, computed on import.
//   - HourlyRate: invoicing rate ("bgn_per_hour").
//   - IsValid: 1 = company in scope for invoicing, 0 = out of scope.
type Contract struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Company      string         `json:"company"       gorm:"type:varchar(255);not null;uniqueIndex:ux_contract_company"`
	PerEmployee  int            `json:"c_per_emp"     gorm:"not null;default:0"`
	PerMonth     int            `json:"c_per_month"   gorm:"not null;default:0"`
	Prepaid      string         `json:"prepaid"       gorm:"type:varchar(32)"`
	Start        time.Time      `json:"starts"`
	End          time.Time      `json:"ends"`
	DurationDays int            `json:"contract_duration"`
	Note         string         `json:"note"          gorm:"type:text"`
	HourlyRate   float64        `json:"bgn_per_hour"`
	IsValid      int            `json:"is_valid"      gorm:"not null;default:0;check:is_valid IN (0,1)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Contract.
func (Contract) TableName() string { return "contracts" }

// Run records one completed pipeline execution: the reporting period it was
// asked for, row counts per emitted dataset, and the serialized result
// payload handed to downstream reporting consumers.
//
// The payload is stored as JSON text; individual datasets are extracted from
// it on demand rather than persisted as separate tables, since a run is an
// immutable snapshot once emitted.
type Run struct {
	ID          string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Period      string         `json:"period"        gorm:"type:varchar(7);not null;index"` // YYYY-MM
	TotalRows   int            `json:"total_rows"    gorm:"not null"`
	MonthlyRows int            `json:"monthly_rows"  gorm:"not null"`
	RollupRows  int            `json:"rollup_rows"   gorm:"not null"`
	FlaggedRows int            `json:"flagged_rows"  gorm:"not null"`
	Payload     string         `json:"-"             gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"    gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Run.
func (Run) TableName() string { return "runs" }

// Idempotency represents a recorded result of a previously processed report
// submission, keyed by (user_id, period, key). It enables safe retries for
// the run-creation endpoint by returning the originally produced run without
// re-executing the pipeline and creating a duplicate snapshot.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_period_key,priority:1"`
	Period    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_period_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_period_key,priority:3"`
	RunID     string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
