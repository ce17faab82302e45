// Package pipeline – session classifier.
//
// Derives the company name and the delivery mode (in-person/online) from the
// free-text type field. Mode detection is pattern based and inherently fuzzy,
// so the outcome is a tagged SessionMode value instead of a bare string: an
// unmatched record carries Matched == false and flag 7.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/trainops/go-booking-backend/internal/domain"
)

var (
	// inPersonRE matches English and Bulgarian spellings of an in-person
	// session ("in person", "на живо").
	inPersonRE = regexp.MustCompile(`person|живо`)
	// onlineRE matches "online"/"онлайн" regardless of leading capital.
	onlineRE = regexp.MustCompile(`nline|нлайн`)
)

// classifySessions fills Mode and Company per record. The in-person pattern
// wins when both patterns happen to match. Company is the text before the
// first ':', '|' or '/' delimiter, upper-cased and trimmed; empty type
// fields leave the company unset.
func (p *Pipeline) classifySessions(batch []*domain.Record) {
	for _, r := range batch {
		switch {
		case inPersonRE.MatchString(r.Type):
			r.Mode = domain.SessionMode{Label: ModeInPerson, Matched: true}
		case onlineRE.MatchString(r.Type):
			r.Mode = domain.SessionMode{Label: ModeOnline, Matched: true}
		default:
			r.AddFlag(domain.FlagModeUnknown)
		}

		if r.Type != "" {
			r.Company = extractCompany(r.Type)
		}
	}
}

// extractCompany returns the upper-cased text before the first ':', '|' or '/'.
func extractCompany(typ string) string {
	head := typ
	if i := strings.IndexAny(typ, ":|/"); i >= 0 {
		head = typ[:i]
	}
	return strings.ToUpper(strings.TrimSpace(head))
}
