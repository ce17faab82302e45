package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/trainops/go-booking-backend/internal/domain"
	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// fakeRunRepo keeps runs in memory and records pagination parameters.
type fakeRunRepo struct {
	runs       []*domain.Run
	lastOffset int
	lastLimit  int
}

func (f *fakeRunRepo) CreateRun(_ context.Context, _ *gorm.DB, run *domain.Run) (*domain.Run, error) {
	if run.ID == "" {
		run.ID = "run-" + time.Now().UTC().Format("150405.000000000")
	}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRunRepo) GetRun(_ context.Context, _ *gorm.DB, id string) (*domain.Run, error) {
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRunRepo) CountRuns(_ context.Context, _ *gorm.DB, period string) (int64, error) {
	var n int64
	for _, r := range f.runs {
		if period == "" || r.Period == period {
			n++
		}
	}
	return n, nil
}

func (f *fakeRunRepo) ListRunsPage(_ context.Context, _ *gorm.DB, period string, offset, limit int) ([]domain.Run, error) {
	f.lastOffset, f.lastLimit = offset, limit
	var out []domain.Run
	for _, r := range f.runs {
		if period == "" || r.Period == period {
			out = append(out, *r)
		}
	}
	return out, nil
}

func acmeContracts() []domain.Contract {
	return []domain.Contract{{
		Company:     "ACME",
		PerEmployee: 3,
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		HourlyRate:  120,
		IsValid:     1,
	}}
}

// marchExport has two employees in March plus a June repeat session, all at
// one company with a three-session allowance.
func marchExport(t *testing.T) []byte {
	return bookingsCSV(t,
		bookingRow("Мария", "Петрова", "maria.petrova@acme.bg", "ACME : Онлайн", "2024-03-15 10:00:00"),
		bookingRow("Мария", "Петрова", "maria.petrova@acme.bg", "ACME : Онлайн", "2024-06-20 14:00:00"),
		bookingRow("Георги", "Димитров", "georgi@acme.bg", "ACME / На живо", "2024-03-10 09:00:00"),
	)
}

func newRunService(repo *fakeRunRepo, contracts []domain.Contract) *RunService {
	return NewRunService(nil, repo, &fakeContractRepo{contracts: contracts}, pipeline.New())
}

func TestRunService_Submit(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := newRunService(repo, acmeContracts())

	run, err := svc.Submit(context.Background(), "2024-03", marchExport(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if run.Period != "2024-03" {
		t.Fatalf("Period = %q", run.Period)
	}
	if run.TotalRows != 3 || run.MonthlyRows != 2 || run.RollupRows != 2 {
		t.Fatalf("row counts = %d/%d/%d", run.TotalRows, run.MonthlyRows, run.RollupRows)
	}
	// The repeat client's two rows exhaust the allowance down to one left.
	if run.FlaggedRows != 2 {
		t.Fatalf("FlaggedRows = %d, want 2", run.FlaggedRows)
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal([]byte(run.Payload), &snapshot); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	for _, name := range []string{"full_raw", "monthly_raw", "full_report", "monthly_report", "rollup", "flags"} {
		if _, ok := snapshot[name]; !ok {
			t.Fatalf("payload missing dataset %q", name)
		}
	}
}

func TestRunService_Submit_Errors(t *testing.T) {
	svc := newRunService(&fakeRunRepo{}, acmeContracts())
	ctx := context.Background()

	t.Run("bad period", func(t *testing.T) {
		if _, err := svc.Submit(ctx, "march", marchExport(t)); !errors.Is(err, ErrBadPeriod) {
			t.Fatalf("expected ErrBadPeriod, got %v", err)
		}
	})

	t.Run("header-only export", func(t *testing.T) {
		if _, err := svc.Submit(ctx, "2024-03", bookingsCSV(t)); !errors.Is(err, ErrEmptyBatch) {
			t.Fatalf("expected ErrEmptyBatch, got %v", err)
		}
	})
}

func TestRunService_Get_NotFound(t *testing.T) {
	svc := newRunService(&fakeRunRepo{}, nil)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRunService_ListPage(t *testing.T) {
	repo := &fakeRunRepo{runs: []*domain.Run{
		{ID: "a", Period: "2024-03"},
		{ID: "b", Period: "2024-04"},
	}}
	svc := newRunService(repo, nil)
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		items, total, err := svc.ListPage(ctx, "", 0, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 2 || len(items) != 2 {
			t.Fatalf("total = %d, items = %d", total, len(items))
		}
		if repo.lastOffset != 0 || repo.lastLimit != 20 {
			t.Fatalf("pagination = offset %d limit %d, want 0/20", repo.lastOffset, repo.lastLimit)
		}
	})

	t.Run("period filter", func(t *testing.T) {
		items, total, err := svc.ListPage(ctx, "2024-04", 1, 20)
		if err != nil || total != 1 || len(items) != 1 || items[0].ID != "b" {
			t.Fatalf("filtered list = %+v, total %d, %v", items, total, err)
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		if _, _, err := svc.ListPage(ctx, "bogus", 1, 20); !errors.Is(err, ErrBadPeriod) {
			t.Fatalf("expected ErrBadPeriod, got %v", err)
		}
	})

	t.Run("empty store short-circuits", func(t *testing.T) {
		svc := newRunService(&fakeRunRepo{}, nil)
		items, total, err := svc.ListPage(ctx, "", 1, 20)
		if err != nil || total != 0 || items == nil || len(items) != 0 {
			t.Fatalf("empty list = %+v, total %d, %v", items, total, err)
		}
	})
}

func TestRunService_Dataset(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := newRunService(repo, acmeContracts())
	ctx := context.Background()

	run, err := svc.Submit(ctx, "2024-03", marchExport(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	t.Run("extracts the named dataset", func(t *testing.T) {
		raw, err := svc.Dataset(ctx, run.ID, "rollup")
		if err != nil {
			t.Fatalf("dataset: %v", err)
		}
		var rows []domain.RollupRow
		if err := json.Unmarshal(raw, &rows); err != nil {
			t.Fatalf("decode rollup: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rollup rows = %d, want 2", len(rows))
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := svc.Dataset(ctx, run.ID, "everything"); !errors.Is(err, ErrUnknownDataset) {
			t.Fatalf("expected ErrUnknownDataset, got %v", err)
		}
	})

	t.Run("missing run", func(t *testing.T) {
		if _, err := svc.Dataset(ctx, "missing", "rollup"); !errors.Is(err, ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound, got %v", err)
		}
	})
}

func TestRunService_Summaries(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := newRunService(repo, acmeContracts())
	ctx := context.Background()

	run, err := svc.Submit(ctx, "2024-03", marchExport(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	t.Run("by company", func(t *testing.T) {
		sums, err := svc.SummaryByCompany(ctx, run.ID)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if len(sums) != 1 {
			t.Fatalf("companies = %d, want 1", len(sums))
		}
		s := sums[0]
		if s.Company != "ACME" || s.Sessions != 2 || s.Employees != 2 {
			t.Fatalf("summary = %+v", s)
		}
		// One monthly clone still carries the annual quota flag.
		if s.FlaggedRows != 1 || s.RepeatClients != 0 {
			t.Fatalf("flagged/repeats = %d/%d", s.FlaggedRows, s.RepeatClients)
		}
		// Monthly quota figures count one session per employee.
		if s.MinLeft == nil || *s.MinLeft != 2 {
			t.Fatalf("MinLeft = %v, want 2", s.MinLeft)
		}
	})

	t.Run("by trainer", func(t *testing.T) {
		sums, err := svc.SummaryByTrainer(ctx, run.ID)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if len(sums) != 1 {
			t.Fatalf("trainers = %d, want 1", len(sums))
		}
		s := sums[0]
		if s.Trainer != "Мила Троянова" || s.Sessions != 2 {
			t.Fatalf("summary = %+v", s)
		}
		if s.InPerson != 1 || s.Online != 1 || s.Companies != 1 {
			t.Fatalf("split = %+v", s)
		}
	})

	t.Run("missing run", func(t *testing.T) {
		if _, err := svc.SummaryByCompany(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound, got %v", err)
		}
	})
}
