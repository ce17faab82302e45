// Package ingest – booking report parsing.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// ErrEmptyFile is returned when an upload carries no header row at all.
var ErrEmptyFile = errors.New("empty file: no header row found")

// HeaderMismatch describes one expected/found column pair that did not line
// up during header validation.
type HeaderMismatch struct {
	Expected string `json:"expected"`
	Found    string `json:"found"`
}

// HeaderError reports structural header problems for an uploaded report.
// It is fatal: the pipeline never sees a file with a broken header.
type HeaderError struct {
	Mismatches []HeaderMismatch
}

// Error lists every expected/found pair that failed to match.
func (e *HeaderError) Error() string {
	var b strings.Builder
	b.WriteString("column names/order do not match the expected report layout:")
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, " expected %q, found %q;", m.Expected, m.Found)
	}
	return strings.TrimSuffix(b.String(), ";")
}

// bookingDatetimeLayouts are tried in order when parsing the report's
// timestamp columns. The platform exports month-first dates.
var bookingDatetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"2006-01-02",
}

// ParseBookings decodes a booking report CSV into canonical Booking rows.
// The header must match the expected column list exactly, in both names and
// order; any deviation yields a *HeaderError and no rows. Email columns are
// lower-cased on import, matching the legacy import behavior.
func ParseBookings(data []byte) ([]domain.Booking, error) {
	rows, header, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(header, pipeline.ExpectedBookingHeaders()); err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header
		start, err := parseBookingTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad Start Time: %w", rowNum, err)
		}
		end, err := parseBookingTime(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad End Time: %w", rowNum, err)
		}
		scheduled, err := parseBookingTime(row[13])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad Date Scheduled: %w", rowNum, err)
		}

		out = append(out, domain.Booking{
			StartTime:          start,
			EndTime:            end,
			ScheduledOn:        scheduled,
			FirstName:          row[2],
			LastName:           row[3],
			Phone:              row[4],
			PersonalEmail:      strings.ToLower(row[5]),
			Type:               row[6],
			Calendar:           row[7],
			Price:              floatOrZero(row[8]),
			IsPaid:             row[9],
			PaidOnline:         floatOrZero(row[10]),
			CertificateCode:    row[11],
			Notes:              row[12],
			Label:              row[14],
			ScheduledBy:        row[15],
			CompanyName:        row[16],
			WorkEmail:          strings.ToLower(row[17]),
			PreferredPlatforms: row[18],
			AppointmentID:      row[19],
		})
	}
	return out, nil
}

// readCSV decodes bytes to UTF-8, parses all CSV rows, and splits off the
// header. Short rows are padded so column indexing stays safe.
func readCSV(data []byte) (rows [][]string, header []string, err error) {
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err = r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyFile
		}
		return nil, nil, fmt.Errorf("reading header row: %w", err)
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// validateHeader compares the found header against the expected one
// pairwise, exactly as the legacy importer did: both the names and their
// order must match.
func validateHeader(found, expected []string) error {
	var mismatches []HeaderMismatch
	for i, want := range expected {
		got := ""
		if i < len(found) {
			got = found[i]
		}
		if got != want {
			mismatches = append(mismatches, HeaderMismatch{Expected: want, Found: got})
		}
	}
	if len(mismatches) > 0 {
		return &HeaderError{Mismatches: mismatches}
	}
	return nil
}

// parseBookingTime tries the known export layouts in order.
func parseBookingTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range bookingDatetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// floatOrZero parses a numeric cell, treating blanks and junk as zero. Price
// columns routinely arrive empty for comped sessions.
func floatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
