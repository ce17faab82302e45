// Package ingest – limitation table parsing.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// contractDateLayouts are tried in order for the limitation table's START
// and END columns. This table is maintained by hand with day-first dates.
var contractDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseContracts decodes the limitation CSV into Contract rows. The header
// row is validated against the expected layout and then skipped; the unused
// "DURATION DAYS" column is ignored in favor of the derived value. Each row
// receives a fresh UUID so the rows can be upserted into the contract store.
func ParseContracts(data []byte) ([]domain.Contract, error) {
	rows, header, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(header, pipeline.ExpectedContractHeaders()); err != nil {
		return nil, err
	}

	out := make([]domain.Contract, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2
		start, err := parseContractDate(row[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad START: %w", rowNum, err)
		}
		end, err := parseContractDate(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad END: %w", rowNum, err)
		}

		out = append(out, domain.Contract{
			ID:          uuid.NewString(),
			Company:     strings.TrimSpace(row[0]),
			PerEmployee: intOrZero(row[1]),
			PerMonth:    intOrZero(row[2]),
			Prepaid:     strings.TrimSpace(row[3]),
			Start:       start,
			End:         end,
			Note:        strings.TrimSpace(row[7]),
			HourlyRate:  floatOrZero(row[8]),
			IsValid:     intOrZero(row[9]),
		})
	}
	return pipeline.PrepareContracts(out), nil
}

func parseContractDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range contractDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
