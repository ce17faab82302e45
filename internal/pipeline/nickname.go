// Package pipeline – identifier generator.
//
// Builds the 8-character pseudonymous employee identifier ("nickname") from
// name and email fragments. The construction is deliberately lossy so the
// identifier cannot be trivially reversed, yet deterministic so the same
// person always yields the same code within a dataset.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/trainops/go-booking-backend/internal/domain"
)

const (
	nicknameLen      = 8
	namePrefixLen    = 5
	padChar          = "X"
	emailFragmentLen = 3
)

// lettersOnlyRE strips everything but Latin letters from an email before the
// fragment is cut out of it.
var lettersOnlyRE = regexp.MustCompile("[^A-Za-z]+")

// generateIdentifiers derives, per record, the nickname and the title-cased
// display name. The nickname pattern is:
//
//	2 letters from the Latinized first name,
//	3 letters (positions 2–4) from the Latinized last name,
//	3 letters (positions 2–4, letters only) from an email,
//	preferring the corporate email and falling back to the personal one
//	when only that is usable.
//
// Shortfalls are padded with 'X' so the result is always exactly 8 chars:
// to 5 after the name part (flag 1), and to 8 after the email part or when
// no email is usable. Flags 2/3/4 record which email validations failed.
func (p *Pipeline) generateIdentifiers(batch []*domain.Record) {
	for _, r := range batch {
		r.EmployeeNames = p.titleCaser.String(r.FirstNameLat + " " + r.LastNameLat)

		nick := sliceRunes(r.FirstNameLat, 0, 2) + sliceRunes(r.LastNameLat, 1, 4)
		nick = strings.ToUpper(nick)
		if len([]rune(nick)) < namePrefixLen {
			r.AddFlag(domain.FlagShortName)
			nick = padRight(nick, namePrefixLen)
		}

		workValid := strings.Contains(r.WorkEmail, "@")
		pvtValid := strings.Contains(r.PersonalEmail, "@")
		if !workValid {
			r.AddFlag(domain.FlagWorkEmail)
		}
		if !pvtValid {
			r.AddFlag(domain.FlagPersonalEmail)
		}
		if !workValid && !pvtValid {
			r.AddFlag(domain.FlagBothEmails)
		}

		switch {
		case workValid:
			nick += emailFragment(r.WorkEmail)
		case pvtValid:
			nick += emailFragment(r.PersonalEmail)
		}
		// Covers both the no-usable-email case and fragments shorter than
		// three letters.
		r.Nickname = padRight(nick, nicknameLen)
	}
}

// emailFragment returns up to three upper-cased letters taken from positions
// 2–4 of the letters-only rendition of an email address.
func emailFragment(email string) string {
	letters := lettersOnlyRE.ReplaceAllString(email, "")
	return strings.ToUpper(sliceRunes(letters, 1, 1+emailFragmentLen))
}

// sliceRunes returns s[from:to] in runes with both bounds clamped, mirroring
// the permissive slicing the identifier rules are specified in.
func sliceRunes(s string, from, to int) string {
	rs := []rune(s)
	if from > len(rs) {
		from = len(rs)
	}
	if to > len(rs) {
		to = len(rs)
	}
	if from >= to {
		return ""
	}
	return string(rs[from:to])
}

// padRight appends the pad character until s is n runes long.
func padRight(s string, n int) string {
	if d := n - len([]rune(s)); d > 0 {
		return s + strings.Repeat(padChar, d)
	}
	return s
}
