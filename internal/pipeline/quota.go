// Package pipeline – quota engine.
//
// Determines, per record, whether the booking falls inside the client's
// active contract window and how many sessions the employee has left on the
// company's allowance. Like the usage counter, the engine needs a group-wise
// count before any per-record decision, so it runs two explicit passes over
// the batch.
package pipeline

import "github.com/trainops/go-booking-backend/internal/domain"

// Allowance values outside [1, 9998] are sentinel "unlimited" markers in the
// limitation table and never produce a sessions-left figure.
const (
	minAllowance = 1
	maxAllowance = 9998
)

// quotaThreshold is the sessions-left level below which flag 9 is raised.
const quotaThreshold = 2

// applyQuotas fills ActiveKey, ActiveSessions, and SessionsLeft for records
// whose start time lies within [contract.Start, contract.End] inclusive.
// Records outside the window, or without a matched contract, keep all quota
// fields nil and never receive flag 9.
//
// flagLow controls whether a low sessions-left figure raises flag 9. The
// annual pass flags; the monthly recompute only refreshes the figures, so a
// record flagged annually is not flagged a second time on its monthly clone.
func (p *Pipeline) applyQuotas(batch []*domain.Record, flagLow bool) {
	counts := make(map[string]int)
	for _, r := range batch {
		if !inContractWindow(r) {
			continue
		}
		r.ActiveKey = r.Company + "|" + r.Nickname
		counts[r.ActiveKey]++
	}
	for _, r := range batch {
		if r.ActiveKey == "" {
			continue
		}
		used := counts[r.ActiveKey]
		r.ActiveSessions = &used

		allowance := r.Contract.PerEmployee
		if allowance < minAllowance || allowance > maxAllowance {
			continue
		}
		left := allowance - used
		r.SessionsLeft = &left
		if flagLow && left < quotaThreshold {
			r.AddFlag(domain.FlagQuotaLow)
		}
	}
}

// inContractWindow reports whether the record has a contract and its start
// time lies inside the contract window, boundaries included.
func inContractWindow(r *domain.Record) bool {
	if r.Contract == nil {
		return false
	}
	return !r.StartTime.Before(r.Contract.Start) && !r.StartTime.After(r.Contract.End)
}
