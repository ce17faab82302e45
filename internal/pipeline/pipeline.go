// Package pipeline – orchestrator.
//
// The Pipeline value owns the injected static tables and sequences the
// enrichment stages over one shared record batch. Stages are strictly
// sequential: the usage counter and the quota engine need a full pass to
// build their group-wise counts before later per-record decisions, so there
// is no concurrency inside a run. The batch is owned exclusively by the
// orchestrator for the duration of one run.
//
// Every stage declares which fields it reads and which it adds; the ordering
// below is the only valid one, since each stage depends on columns added by
// an earlier stage (classifier → matcher → counters).
package pipeline

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// Pipeline carries the immutable configuration tables every stage consults.
// Construct it once with New and reuse it across runs; a Pipeline holds no
// per-run state and is safe for concurrent Run calls.
type Pipeline struct {
	translit   map[rune]string
	titleCaser cases.Caser
}

// New returns a Pipeline wired with the default transliteration table and an
// English title caser for display names and trainer names.
func New() *Pipeline {
	return &Pipeline{
		translit:   TransliterationTable(),
		titleCaser: cases.Title(language.English),
	}
}

// Result bundles the five datasets one run emits, plus the static flag-code
// lookup handed along for downstream reporting.
type Result struct {
	Period        string               `json:"period"`
	FullRaw       []*domain.Record     `json:"full_raw"`
	MonthlyRaw    []*domain.Record     `json:"monthly_raw"`
	FullReport    []domain.ReportRow   `json:"full_report"`
	MonthlyReport []domain.ReportRow   `json:"monthly_report"`
	Rollup        []domain.RollupRow   `json:"rollup"`
	Flags         []domain.FlagMeaning `json:"flags"`
}

// Stage describes one enrichment step: its name and the record fields it
// reads and adds. The declarations document the sequential coupling between
// steps; Run executes the stages in exactly this order.
type Stage struct {
	Name  string
	Reads []string
	Adds  []string

	apply func(batch []*domain.Record)
}

// stages returns the ordered stage list for one batch. The contract matcher
// is bound to the prepared contract table of the current run.
func (p *Pipeline) stages(contracts []domain.Contract) []Stage {
	return []Stage{
		{
			Name:  "transliterate",
			Reads: []string{"f_name", "l_name"},
			Adds:  []string{"first_name", "last_name"},
			apply: p.transliterateNames,
		},
		{
			Name:  "nickname",
			Reads: []string{"first_name", "last_name", "work_email", "pvt_email"},
			Adds:  []string{"nickname", "employee_names", "flags"},
			apply: p.generateIdentifiers,
		},
		{
			Name:  "classify",
			Reads: []string{"type"},
			Adds:  []string{"company", "short_type", "flags"},
			apply: p.classifySessions,
		},
		{
			Name:  "match_contracts",
			Reads: []string{"company"},
			Adds:  []string{"contract"},
			apply: func(batch []*domain.Record) { p.matchContracts(batch, contracts) },
		},
		{
			Name:  "count_usage",
			Reads: []string{"nickname", "company"},
			Adds:  []string{"concat_emp_company", "total_per_emp", "returns_or_not"},
			apply: p.countUsage,
		},
		{
			Name:  "validate_phones",
			Reads: []string{"phone"},
			Adds:  []string{"flags"},
			apply: p.validatePhones,
		},
		{
			Name:  "extract_trainers",
			Reads: []string{"calendar"},
			Adds:  []string{"trainer"},
			apply: p.extractTrainers,
		},
		{
			Name:  "apply_quotas",
			Reads: []string{"start_time", "contract", "company", "nickname"},
			Adds:  []string{"concat_count", "active_trainings_per_client", "trainings_left", "flags"},
			apply: func(batch []*domain.Record) { p.applyQuotas(batch, true) },
		},
		{
			Name:  "calendar_fields",
			Reads: []string{"start_time", "end_time", "scheduled_on"},
			Adds:  []string{"month", "year", "dayname", "training_datetime", "scheduled_date", "training_end"},
			apply: p.addCalendarFields,
		},
	}
}

// Run executes the full pipeline over one booking batch: normalization, the
// enrichment stages, the monthly cut (with its independently recomputed
// usage and quota figures), both public projections, and the training
// roll-up. Data-quality problems never abort a run; they only annotate
// records, so the output always carries one record per input booking.
func (p *Pipeline) Run(ctx context.Context, bookings []domain.Booking, contracts []domain.Contract, period Period) *Result {
	tr := otel.Tracer("pipeline")
	_, span := tr.Start(ctx, "Run",
		trace.WithAttributes(
			attribute.Int("bookings", len(bookings)),
			attribute.Int("contracts", len(contracts)),
			attribute.String("period", period.String()),
		),
	)
	defer span.End()

	contracts = PrepareContracts(contracts)

	batch := p.normalize(bookings)
	for _, st := range p.stages(contracts) {
		st.apply(batch)
	}

	// Monthly clones get their own group-wise counts: the same employee may
	// be a repeat client in the annual view and a first-timer in the month.
	// Quota figures are refreshed without re-raising flag 9; the flag trail
	// on a clone stays exactly what the annual pass produced.
	monthly := monthlySubset(batch, period)
	p.countUsage(monthly)
	p.applyQuotas(monthly, false)

	fullReport := project(batch)
	monthlyReport := project(monthly)

	return &Result{
		Period:        period.String(),
		FullRaw:       batch,
		MonthlyRaw:    monthly,
		FullReport:    fullReport,
		MonthlyReport: monthlyReport,
		Rollup:        rollup(monthlyReport, fullReport),
		Flags:         domain.FlagMeanings(),
	}
}

// FlaggedCount returns how many records in the annual dataset carry at least
// one diagnostic code. Used for run bookkeeping and metrics.
func (r *Result) FlaggedCount() int {
	n := 0
	for _, rec := range r.FullRaw {
		if strings.TrimSpace(rec.Flags) != "" {
			n++
		}
	}
	return n
}
