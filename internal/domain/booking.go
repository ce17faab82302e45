// Package domain – in-memory pipeline types.
//
// This file defines the tabular shapes the enrichment pipeline works on: the
// canonical raw booking row, the progressively enriched record, and the two
// projected row types handed to downstream reporting. None of these are
// persisted row by row; a finished run is snapshotted as one JSON payload
// (see Run in models.go).
package domain

import "time"

// Booking is one canonical appointment row as produced by the import layer.
// It is immutable once imported and stays the source of truth for its row
// for the whole pipeline run.
type Booking struct {
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	ScheduledOn        time.Time `json:"scheduled_on"`
	FirstName          string    `json:"f_name"`
	LastName           string    `json:"l_name"`
	Phone              string    `json:"phone"`
	PersonalEmail      string    `json:"pvt_email"`
	Type               string    `json:"type"`
	Calendar           string    `json:"calendar"`
	Price              float64   `json:"price"`
	IsPaid             string    `json:"is_paid"`
	PaidOnline         float64   `json:"paid_online"`
	CertificateCode    string    `json:"certificate_code"`
	Notes              string    `json:"notes"`
	Label              string    `json:"label"`
	ScheduledBy        string    `json:"scheduled_by"`
	CompanyName        string    `json:"company_name"`
	WorkEmail          string    `json:"work_email"`
	PreferredPlatforms string    `json:"preferred_platforms"`
	AppointmentID      string    `json:"appointment_id"`
}

// SessionMode is the tagged outcome of the session classifier. Matched is
// false when the free-text type field matched neither the in-person nor the
// online pattern, which forces callers to handle the unclassified case
// instead of reading an empty label by accident.
type SessionMode struct {
	Label   string `json:"label,omitempty"`
	Matched bool   `json:"matched"`
}

// Record is one enriched booking. It is created by the normalizer stage and
// mutated field by field as it flows through the pipeline; the flags string
// is append-only and quota fields stay nil unless the booking falls inside
// its company's contract window.
type Record struct {
	Booking

	// Flags accumulates diagnostic codes as a comma-terminated list
	// ("1,6," …) in the order the stages raised them. Duplicates are kept.
	Flags string `json:"flags"`

	// NamesInput echoes the raw name input as "|first|last|" for manual
	// review of odd rows.
	NamesInput string `json:"emp_names_input"`

	// Latinized, upper-cased name fields produced by the transliterator.
	FirstNameLat string `json:"first_name"`
	LastNameLat  string `json:"last_name"`

	// Nickname is the 8-character pseudonymous employee identifier.
	Nickname string `json:"nickname"`
	// EmployeeNames is the "First Last" display name in title case.
	EmployeeNames string `json:"employee_names"`

	// Classifier output.
	Company string      `json:"company"`
	Mode    SessionMode `json:"short_type"`

	// Contract is the joined limitation row; nil when the company has no
	// contract record (left join semantics, the row is kept regardless).
	Contract *Contract `json:"contract,omitempty"`

	// Usage counter output for the dataset this record currently sits in.
	EmpCompanyKey string `json:"concat_emp_company"`
	TotalPerEmp   *int   `json:"total_per_emp,omitempty"`
	ReturnLabel   string `json:"returns_or_not,omitempty"`

	// Trainer extracted from the calendar field.
	Trainer string `json:"trainer,omitempty"`

	// Quota engine output. ActiveKey/ActiveSessions/SessionsLeft are set
	// only when StartTime lies within the contract window.
	ActiveKey      string `json:"concat_count,omitempty"`
	ActiveSessions *int   `json:"active_trainings_per_client,omitempty"`
	SessionsLeft   *int   `json:"trainings_left,omitempty"`

	// Calendar-derived fields from StartTime / ScheduledOn / EndTime.
	Month            string `json:"month"`
	Year             int    `json:"year"`
	DayName          string `json:"dayname"`
	TrainingDatetime string `json:"training_datetime"`
	ScheduledDate    string `json:"scheduled_date"`
	TrainingEnd      string `json:"training_end"`
}

// AddFlag appends one diagnostic code (with its trailing comma) to the
// record's flag list. Codes are never deduplicated or reordered.
func (r *Record) AddFlag(code FlagCode) {
	r.Flags += code.String() + ","
}

// ReportRow is the fixed public projection of an enriched record used by the
// downstream reporting consumers. Contract-derived fields are pointers so an
// unmatched company serializes as null rather than a zero value.
type ReportRow struct {
	TrainingDatetime string   `json:"training_datetime"`
	DayName          string   `json:"dayname"`
	Month            string   `json:"month"`
	Year             int      `json:"year"`
	Nickname         string   `json:"nickname"`
	EmployeeNames    string   `json:"employee_names"`
	Company          string   `json:"company"`
	Trainer          string   `json:"trainer,omitempty"`
	ShortType        string   `json:"short_type,omitempty"`
	HourlyRate       *float64 `json:"bgn_per_hour,omitempty"`
	EmpCompanyKey    string   `json:"concat_emp_company"`
	TotalPerEmp      *int     `json:"total_per_emp,omitempty"`
	SessionsLeft     *int     `json:"trainings_left,omitempty"`
	ReturnLabel      string   `json:"returns_or_not,omitempty"`
	Flags            string   `json:"flags"`
	Phone            string   `json:"phone"`
	PersonalEmail    string   `json:"pvt_email"`
	WorkEmail        string   `json:"work_email"`
	ScheduledDate    string   `json:"scheduled_date"`
	Type             string   `json:"type"`
	NamesInput       string   `json:"emp_names_input"`
	IsValid          *int     `json:"is_valid,omitempty"`
}

// RollupRow is one line of the training roll-up: the monthly projection
// inner-joined with the annual projection on (employee-company key,
// formatted start datetime), carrying the annual "sessions left" figure plus
// the two constant descriptive fields that drive per-session invoicing.
type RollupRow struct {
	EmpCompanyKey    string `json:"concat_emp_company"`
	Type             string `json:"type"`
	Company          string `json:"company"`
	Nickname         string `json:"nickname"`
	TrainingDatetime string `json:"training_datetime"`
	EmployeeNames    string `json:"employee_names"`
	WorkEmail        string `json:"work_email"`
	Trainer          string `json:"trainer,omitempty"`
	ShortType        string `json:"short_type,omitempty"`
	Status           string `json:"status"`
	Language         string `json:"language"`
	SessionsLeft     *int   `json:"trainings_left,omitempty"`
}
