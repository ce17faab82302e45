// Package pipeline – contract matcher.
//
// Left join of the enriched batch against the limitation table on the exact
// company name the classifier produced. The join is left-preserving: a
// company absent from the table leaves the record's contract fields null and
// the record itself is never dropped.
package pipeline

import (
	"math"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// PrepareContracts derives the per-contract fields the pipeline and the
// reports rely on, currently the contract duration in whole days. It returns
// the same slice for chaining and is safe to call on already-prepared input.
func PrepareContracts(contracts []domain.Contract) []domain.Contract {
	for i := range contracts {
		d := contracts[i].End.Sub(contracts[i].Start)
		contracts[i].DurationDays = int(math.Floor(d.Hours() / 24))
	}
	return contracts
}

// matchContracts attaches each record's contract by exact company match.
// Unmatched records keep a nil Contract.
func (p *Pipeline) matchContracts(batch []*domain.Record, contracts []domain.Contract) {
	byCompany := make(map[string]*domain.Contract, len(contracts))
	for i := range contracts {
		byCompany[contracts[i].Company] = &contracts[i]
	}
	for _, r := range batch {
		if c, ok := byCompany[r.Company]; ok {
			r.Contract = c
		}
	}
}
