// Package pipeline implements the booking enrichment and contract-quota
// validation pipeline: the ordered, deterministic transformations that turn a
// raw booking batch into the validated record set driving invoicing and
// reporting.
//
// This file holds the static configuration tables: the canonical column
// mapping for the scheduling platform's CSV export, the Cyrillic→Latin
// transliteration table, the session-mode labels, and the date formats used
// across all emitted datasets. The tables are injected into a Pipeline value
// at construction time rather than referenced as ambient globals, so tests
// can swap them without touching package state.
package pipeline

// Canonical output date formats. The legacy reporting sheets expect
// dd-MMM-yyyy everywhere, so the Go layouts mirror that.
const (
	// DateFormat renders dates as "09-Feb-2023".
	DateFormat = "02-Jan-2006"
	// DatetimeFormat renders timestamps as "23-Dec-2020 16:00:00".
	DatetimeFormat = "02-Jan-2006 15:04:05"
	// PeriodFormat is the caller-supplied year-month selector ("2023-03").
	PeriodFormat = "2006-01"
)

// Session mode labels as they appear in the reporting sheets.
const (
	ModeInPerson = "На живо"
	ModeOnline   = "Онлайн"
)

// Constant descriptive fields appended to every roll-up row.
const (
	RollupLanguage = "Български"
	RollupStatus   = "Проведен"
)

// ExpectedBookingHeaders is the exact header list (names and order) a booking
// export must carry. A file whose header deviates is rejected by the import
// layer before the pipeline runs.
func ExpectedBookingHeaders() []string {
	return []string{
		"Start Time", "End Time", "First Name", "Last Name", "Phone", "Email",
		"Type", "Calendar", "Appointment Price", "Paid?", "Amount Paid Online",
		"Certificate Code", "Notes", "Date Scheduled", "Label", "Scheduled By",
		"Име на компанията, в която работите | Name of the company you work for  ",
		"Служебен имейл | Work email  ",
		"Предпочитани платформи | Preferred platforms  ",
		"Appointment ID",
	}
}

// ExpectedContractHeaders is the exact header list of the limitation table.
// The header row itself is skipped on import.
func ExpectedContractHeaders() []string {
	return []string{
		"COMPANY", "C_PER_PERSON", "C_PER_MONTH", "PREPAID", "START", "END",
		"DURATION DAYS", "NOTE", "BGN_PER_HOUR", "IS_VALID",
	}
}

// BookingColumnMapping maps the platform's header names to the canonical
// snake_case column names used across the pipeline and its outputs.
func BookingColumnMapping() map[string]string {
	return map[string]string{
		"Start Time":        "start_time",
		"End Time":          "end_time",
		"Date Scheduled":    "scheduled_on",
		"First Name":        "f_name",
		"Last Name":         "l_name",
		"Phone":             "phone",
		"Email":             "pvt_email",
		"Type":              "type",
		"Calendar":          "calendar",
		"Appointment Price": "price",
		"Paid?":             "is_paid",
		"Amount Paid Online": "paid_online",
		"Certificate Code":   "certificate_code",
		"Notes":              "notes",
		"Label":              "label",
		"Scheduled By":       "scheduled_by",
		"Име на компанията, в която работите | Name of the company you work for  ": "company_name",
		"Служебен имейл | Work email  ":                "work_email",
		"Предпочитани платформи | Preferred platforms  ": "preferred_platforms",
		"Appointment ID": "appointment_id",
	}
}

// TransliterationTable returns the fixed Bulgarian→Latin mapping used by the
// transliterator. One source letter may map to several Latin letters; any
// rune absent from the table passes through unchanged.
func TransliterationTable() map[rune]string {
	return map[rune]string{
		'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E",
		'Ж': "Zh", 'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L",
		'М': "M", 'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S",
		'Т': "T", 'У': "U", 'Ф': "F", 'Х': "H", 'Ц': "Ts", 'Ч': "Ch",
		'Ш': "Sh", 'Щ': "Sht", 'Ъ': "A", 'Ь': "Y", 'Ю': "Yu", 'Я': "Ya",
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e",
		'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l",
		'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s",
		'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
		'ш': "sh", 'щ': "sht", 'ъ': "a", 'ь': "y", 'ю': "yu", 'я': "ya",
		' ': " ", '-': "-",
	}
}
