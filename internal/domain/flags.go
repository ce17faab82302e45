package domain

import "strconv"

// FlagCode is one of the nine fixed diagnostic codes the pipeline can raise
// on a record. Flags never abort a run; they annotate rows for post-filtering
// by strict consumers.
type FlagCode int

const (
	// FlagShortName – the name-derived identifier prefix was shorter than
	// five characters and had to be padded.
	FlagShortName FlagCode = 1
	// FlagWorkEmail – corporate email missing or without '@'.
	FlagWorkEmail FlagCode = 2
	// FlagPersonalEmail – personal email missing or without '@'.
	FlagPersonalEmail FlagCode = 3
	// FlagBothEmails – both email fields unusable.
	FlagBothEmails FlagCode = 4
	// FlagPhoneMissing – empty phone field.
	FlagPhoneMissing FlagCode = 5
	// FlagPhoneInvalid – phone contains non-dial characters or is 1–8
	// characters long.
	FlagPhoneInvalid FlagCode = 6
	// FlagModeUnknown – session type matched neither the in-person nor the
	// online pattern.
	FlagModeUnknown FlagCode = 7
	// FlagDuplicateEmail – personal email equals corporate email. Reserved:
	// defined in the lookup table but not raised by any current stage.
	FlagDuplicateEmail FlagCode = 8
	// FlagQuotaLow – fewer than two sessions left on the contract quota.
	FlagQuotaLow FlagCode = 9
)

// String returns the numeric form used inside a record's flag list.
func (f FlagCode) String() string { return strconv.Itoa(int(f)) }

// FlagMeaning pairs a flag code with its human-readable note. The slice of
// all meanings is emitted alongside every run as a static lookup dataset.
type FlagMeaning struct {
	Number FlagCode `json:"flag_number"`
	Note   string   `json:"flag_note"`
}

// FlagMeanings returns the fixed code→meaning lookup table, in code order.
// The wording follows the legacy reporting sheets, so downstream consumers
// keep matching on the exact notes.
func FlagMeanings() []FlagMeaning {
	return []FlagMeaning{
		{FlagShortName, "names issue"},
		{FlagWorkEmail, "work_mail issue"},
		{FlagPersonalEmail, "pvt_mail issue"},
		{FlagBothEmails, "missing both pvt_email and work_email"},
		{FlagPhoneMissing, "missing phone number"},
		{FlagPhoneInvalid, "phone number issue"},
		{FlagModeUnknown, "missing short_type"},
		{FlagDuplicateEmail, "pvt email equal to work email"},
		{FlagQuotaLow, "number of the trainings left less than 1"},
	}
}
