// Package pipeline – field normalizer and transliterator.
//
// The normalizer turns a batch of canonical bookings into enrichment records,
// scrubs stray punctuation, and trims every textual value. The transliterator
// maps the Cyrillic name fields onto their Latin equivalents so the
// identifier generator downstream always works on `[A-Z]` input.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// unwantedRE matches the characters the normalizer removes outright: single
// quotes, backticks, and double-space runs left behind by sloppy form input.
var unwantedRE = regexp.MustCompile("'|  |`")

// cleanValue removes unwanted characters and trims surrounding whitespace.
// Non-string columns never reach this function; numeric and time fields are
// left untouched by the normalizer.
func cleanValue(s string) string {
	return strings.TrimSpace(unwantedRE.ReplaceAllString(s, ""))
}

// normalize creates one enrichment record per booking, cleans every textual
// field, and snapshots the raw name input as "|first|last|" for later manual
// review. Record order follows input order and is preserved by every
// subsequent stage.
func (p *Pipeline) normalize(bookings []domain.Booking) []*domain.Record {
	out := make([]*domain.Record, 0, len(bookings))
	for _, b := range bookings {
		b.FirstName = cleanValue(b.FirstName)
		b.LastName = cleanValue(b.LastName)
		b.Phone = cleanValue(b.Phone)
		b.PersonalEmail = cleanValue(b.PersonalEmail)
		b.Type = cleanValue(b.Type)
		b.Calendar = cleanValue(b.Calendar)
		b.IsPaid = cleanValue(b.IsPaid)
		b.CertificateCode = cleanValue(b.CertificateCode)
		b.Notes = cleanValue(b.Notes)
		b.Label = cleanValue(b.Label)
		b.ScheduledBy = cleanValue(b.ScheduledBy)
		b.CompanyName = cleanValue(b.CompanyName)
		b.WorkEmail = cleanValue(b.WorkEmail)
		b.PreferredPlatforms = cleanValue(b.PreferredPlatforms)
		b.AppointmentID = cleanValue(b.AppointmentID)

		out = append(out, &domain.Record{
			Booking:    b,
			NamesInput: "|" + b.FirstName + "|" + b.LastName + "|",
		})
	}
	return out
}

// Transliterate maps a possibly Cyrillic value to its upper-cased Latin
// rendition. Pure-ASCII input is only upper-cased; anything else is mapped
// rune by rune through the injected table, unmapped runes passing through
// unchanged. The function is pure: identical input always yields identical
// output.
func (p *Pipeline) Transliterate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || isASCII(s) {
		return strings.ToUpper(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := p.translit[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// transliterateNames fills the Latinized first/last name fields per record.
func (p *Pipeline) transliterateNames(batch []*domain.Record) {
	for _, r := range batch {
		r.FirstNameLat = p.Transliterate(r.FirstName)
		r.LastNameLat = p.Transliterate(r.LastName)
	}
}

// isASCII reports whether s contains only 7-bit characters.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
