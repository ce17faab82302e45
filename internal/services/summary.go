// Package services – run summaries.
//
// This file derives the per-company and per-trainer aggregates from a run's
// monthly dataset. Summaries are computed from the stored snapshot on demand;
// they are cheap relative to a pipeline run and keeping them out of the
// snapshot avoids versioning aggregate shapes alongside the datasets.
package services

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trainops/go-booking-backend/internal/pipeline"
)

// CompanySummary aggregates one company's monthly activity: how many sessions
// took place, how many distinct employees attended, how many rows carry at
// least one diagnostic flag, and the quota remaining after the last session
// in the window (nil when the company has no counted allowance).
type CompanySummary struct {
	Company       string `json:"company"`
	Sessions      int    `json:"sessions"`
	Employees     int    `json:"employees"`
	FlaggedRows   int    `json:"flagged_rows"`
	RepeatClients int    `json:"repeat_clients"`
	MinLeft       *int   `json:"min_trainings_left,omitempty"`
}

// TrainerSummary aggregates one trainer's monthly activity with the
// in-person / online split from the session classifier.
type TrainerSummary struct {
	Trainer   string `json:"trainer"`
	Sessions  int    `json:"sessions"`
	InPerson  int    `json:"in_person"`
	Online    int    `json:"online"`
	Companies int    `json:"companies"`
}

// SummaryByCompany computes per-company aggregates over a run's monthly
// dataset, ordered by company name. Rows with no classified company are
// grouped under the empty string.
func (s *RunService) SummaryByCompany(ctx context.Context, runID string) ([]CompanySummary, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "SummaryByCompany",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
	defer span.End()

	run, err := s.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	res, err := s.decodeResult(run)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sessions  int
		flagged   int
		repeats   int
		employees map[string]struct{}
		minLeft   *int
	}
	byCompany := make(map[string]*acc)
	for _, rec := range res.MonthlyRaw {
		a := byCompany[rec.Company]
		if a == nil {
			a = &acc{employees: make(map[string]struct{})}
			byCompany[rec.Company] = a
		}
		a.sessions++
		if strings.TrimSpace(rec.Flags) != "" {
			a.flagged++
		}
		if rec.ReturnLabel == pipeline.LabelRepeatClient {
			a.repeats++
		}
		if rec.Nickname != "" {
			a.employees[rec.Nickname] = struct{}{}
		}
		if rec.SessionsLeft != nil && (a.minLeft == nil || *rec.SessionsLeft < *a.minLeft) {
			v := *rec.SessionsLeft
			a.minLeft = &v
		}
	}

	out := make([]CompanySummary, 0, len(byCompany))
	for company, a := range byCompany {
		out = append(out, CompanySummary{
			Company:       company,
			Sessions:      a.sessions,
			Employees:     len(a.employees),
			FlaggedRows:   a.flagged,
			RepeatClients: a.repeats,
			MinLeft:       a.minLeft,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}

// SummaryByTrainer computes per-trainer aggregates over a run's monthly
// dataset, ordered by trainer name. Rows with no extracted trainer are
// grouped under the empty string.
func (s *RunService) SummaryByTrainer(ctx context.Context, runID string) ([]TrainerSummary, error) {
	tr := otel.Tracer("services/RunService")
	ctx, span := tr.Start(ctx, "SummaryByTrainer",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
	defer span.End()

	run, err := s.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	res, err := s.decodeResult(run)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sessions  int
		inPerson  int
		online    int
		companies map[string]struct{}
	}
	byTrainer := make(map[string]*acc)
	for _, rec := range res.MonthlyRaw {
		a := byTrainer[rec.Trainer]
		if a == nil {
			a = &acc{companies: make(map[string]struct{})}
			byTrainer[rec.Trainer] = a
		}
		a.sessions++
		switch rec.Mode.Label {
		case pipeline.ModeInPerson:
			a.inPerson++
		case pipeline.ModeOnline:
			a.online++
		}
		if rec.Company != "" {
			a.companies[rec.Company] = struct{}{}
		}
	}

	out := make([]TrainerSummary, 0, len(byTrainer))
	for trainer, a := range byTrainer {
		out = append(out, TrainerSummary{
			Trainer:   trainer,
			Sessions:  a.sessions,
			InPerson:  a.inPerson,
			Online:    a.online,
			Companies: len(a.companies),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trainer < out[j].Trainer })
	return out, nil
}
