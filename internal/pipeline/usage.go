// Package pipeline – usage counter.
//
// Counts how many sessions each (employee, company) pair holds within the
// dataset being processed and labels first-time vs. repeat clients. The
// counter follows the group-by-then-scatter-back pattern: one pass builds
// the key→count map, a second pass writes each record's count back onto it.
// Monthly and annual datasets are counted independently, so the same
// employee may carry different counts in each.
package pipeline

import "github.com/trainops/go-booking-backend/internal/domain"

// Repeat-client labels as they appear in the reporting sheets.
const (
	LabelSingleSession = "only one session"
	LabelRepeatClient  = "more than one session"
)

// countUsage fills EmpCompanyKey, TotalPerEmp, and ReturnLabel for every
// record with a non-empty nickname. Records without a nickname keep all
// three unset.
func (p *Pipeline) countUsage(batch []*domain.Record) {
	counts := make(map[string]int, len(batch))
	for _, r := range batch {
		if r.Nickname == "" {
			continue
		}
		r.EmpCompanyKey = r.Nickname + "|" + r.Company
		counts[r.EmpCompanyKey]++
	}
	for _, r := range batch {
		if r.EmpCompanyKey == "" {
			continue
		}
		n := counts[r.EmpCompanyKey]
		r.TotalPerEmp = &n
		if n == 1 {
			r.ReturnLabel = LabelSingleSession
		} else {
			r.ReturnLabel = LabelRepeatClient
		}
	}
}
