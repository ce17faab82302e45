// Package pipeline – period selection, public projection, and the training
// roll-up.
package pipeline

import (
	"fmt"
	"time"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// Period is a caller-selected year-month used to cut the monthly subset out
// of the annual dataset. The pipeline itself needs only the predicate; how
// the period is chosen is the caller's concern.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses the external "YYYY-MM" form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(PeriodFormat, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// String renders the period back in its external "YYYY-MM" form.
func (p Period) String() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format(PeriodFormat)
}

// Contains reports whether t falls inside the period's calendar month.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// addCalendarFields derives the month name, year, weekday name, and the
// formatted datetime/date strings every report sorts and joins on.
func (p *Pipeline) addCalendarFields(batch []*domain.Record) {
	for _, r := range batch {
		r.Month = r.StartTime.Month().String()
		r.Year = r.StartTime.Year()
		r.DayName = r.StartTime.Weekday().String()
		r.TrainingDatetime = r.StartTime.Format(DatetimeFormat)
		r.ScheduledDate = r.ScheduledOn.Format(DateFormat)
		r.TrainingEnd = r.EndTime.Format(DateFormat)
	}
}

// monthlySubset clones the records whose start time falls in the period.
// The clones are detached from the annual batch so the usage counter and
// quota engine can be re-run on the monthly dataset without disturbing the
// annual figures; the joined contract stays shared since it is read-only.
func monthlySubset(batch []*domain.Record, period Period) []*domain.Record {
	out := make([]*domain.Record, 0, len(batch))
	for _, r := range batch {
		if !period.Contains(r.StartTime) {
			continue
		}
		clone := *r
		clone.TotalPerEmp = nil
		clone.ReturnLabel = ""
		clone.ActiveKey = ""
		clone.ActiveSessions = nil
		clone.SessionsLeft = nil
		out = append(out, &clone)
	}
	return out
}

// project restricts a dataset to the fixed public column set handed to the
// reporting consumers.
func project(batch []*domain.Record) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(batch))
	for _, r := range batch {
		row := domain.ReportRow{
			TrainingDatetime: r.TrainingDatetime,
			DayName:          r.DayName,
			Month:            r.Month,
			Year:             r.Year,
			Nickname:         r.Nickname,
			EmployeeNames:    r.EmployeeNames,
			Company:          r.Company,
			Trainer:          r.Trainer,
			ShortType:        r.Mode.Label,
			EmpCompanyKey:    r.EmpCompanyKey,
			TotalPerEmp:      r.TotalPerEmp,
			SessionsLeft:     r.SessionsLeft,
			ReturnLabel:      r.ReturnLabel,
			Flags:            r.Flags,
			Phone:            r.Phone,
			PersonalEmail:    r.PersonalEmail,
			WorkEmail:        r.WorkEmail,
			ScheduledDate:    r.ScheduledDate,
			Type:             r.Type,
			NamesInput:       r.NamesInput,
		}
		if r.Contract != nil {
			rate := r.Contract.HourlyRate
			valid := r.Contract.IsValid
			row.HourlyRate = &rate
			row.IsValid = &valid
		}
		rows = append(rows, row)
	}
	return rows
}

// rollup inner-joins the monthly projection with the annual projection on
// (employee-company key, formatted start datetime), pulling the sessions-left
// figure from the annual side and appending the constant delivery-language
// and session-status fields. The result drives per-session invoicing.
func rollup(monthly, annual []domain.ReportRow) []domain.RollupRow {
	type joinKey struct{ key, datetime string }
	annualLeft := make(map[joinKey]*int, len(annual))
	for i := range annual {
		annualLeft[joinKey{annual[i].EmpCompanyKey, annual[i].TrainingDatetime}] = annual[i].SessionsLeft
	}

	out := make([]domain.RollupRow, 0, len(monthly))
	for _, m := range monthly {
		left, ok := annualLeft[joinKey{m.EmpCompanyKey, m.TrainingDatetime}]
		if !ok {
			continue
		}
		out = append(out, domain.RollupRow{
			EmpCompanyKey:    m.EmpCompanyKey,
			Type:             m.Type,
			Company:          m.Company,
			Nickname:         m.Nickname,
			TrainingDatetime: m.TrainingDatetime,
			EmployeeNames:    m.EmployeeNames,
			WorkEmail:        m.WorkEmail,
			Trainer:          m.Trainer,
			ShortType:        m.ShortType,
			Status:           RollupStatus,
			Language:         RollupLanguage,
			SessionsLeft:     left,
		})
	}
	return out
}
