// Package services defines the business logic for contract management and
// pipeline runs. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrEmptyBatch is returned when a submitted bookings export parses to
	// zero data rows.
	ErrEmptyBatch = errors.New("booking batch is empty")

	// ErrBadPeriod is returned when a reporting period is not a valid
	// YYYY-MM value.
	ErrBadPeriod = errors.New("invalid reporting period")

	// ErrRunNotFound indicates that the requested run snapshot does not
	// exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrContractNotFound indicates that the requested contract does not
	// exist.
	ErrContractNotFound = errors.New("contract not found")

	// ErrUnknownDataset is returned when a dataset name does not match any
	// dataset emitted by a run.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrEmptyImport is returned when a contract import contains no rows.
	ErrEmptyImport = errors.New("contract import is empty")
)
