package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// csvBytes renders a header and rows through the csv writer so the bilingual
// column names with embedded commas stay intact.
func csvBytes(t *testing.T, header []string, rows ...[]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	w.Flush()
	return buf.Bytes()
}

func contractCSV(t *testing.T, rows ...[]string) []byte {
	return csvBytes(t, pipeline.ExpectedContractHeaders(), rows...)
}

func acmeContractRow() []string {
	return []string{"ACME", "3", "10", "", "01/01/2024", "31/12/2024", "", "", "120", "1"}
}

func bookingsCSV(t *testing.T, rows ...[]string) []byte {
	return csvBytes(t, pipeline.ExpectedBookingHeaders(), rows...)
}

// bookingRow returns one valid export row; start/end timestamps and the type
// field vary per scenario.
func bookingRow(first, last, workEmail, typ, start string) []string {
	return []string{
		start,
		start,
		first,
		last,
		"+359888123456",
		"personal@mail.bg",
		typ,
		"Мила Троянова | Коучинг",
		"", "", "", "", "",
		"2024-03-01",
		"", "", "",
		workEmail,
		"", "",
	}
}
