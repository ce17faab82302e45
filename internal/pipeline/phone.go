// Package pipeline – phone validator and trainer extractor.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// badPhoneCharRE matches anything that is not a digit or '+'.
var badPhoneCharRE = regexp.MustCompile(`[^\d+]`)

// validatePhones raises flag 5 for missing numbers and flag 6 for malformed
// ones. The two length/character checks for flag 6 are independent; a number
// that is both short and contains stray characters gets the code twice.
func (p *Pipeline) validatePhones(batch []*domain.Record) {
	for _, r := range batch {
		if r.Phone == "" {
			r.AddFlag(domain.FlagPhoneMissing)
		}
		if r.Phone != "" && badPhoneCharRE.MatchString(r.Phone) {
			r.AddFlag(domain.FlagPhoneInvalid)
		}
		if n := len(r.Phone); n >= 1 && n <= 8 {
			r.AddFlag(domain.FlagPhoneInvalid)
		}
	}
}

// extractTrainers derives the staff member's name from the calendar field:
// the first '|'-separated segment, trimmed and title-cased. Empty calendar
// fields leave the trainer unset.
func (p *Pipeline) extractTrainers(batch []*domain.Record) {
	for _, r := range batch {
		if r.Calendar == "" {
			continue
		}
		head, _, _ := strings.Cut(r.Calendar, "|")
		r.Trainer = p.titleCaser.String(strings.TrimSpace(head))
	}
}
