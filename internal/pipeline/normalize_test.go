package pipeline

import (
	"testing"

	"github.com/trainops/go-booking-backend/internal/domain"
)

func Test_cleanValue(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Maria  ", "Maria"},
		{"O'Brien", "OBrien"},
		{"`quoted`", "quoted"},
		{"two  spaces", "twospaces"},
		{"", ""},
		{"вече чисто", "вече чисто"},
	}
	for _, tc := range cases {
		if got := cleanValue(tc.in); got != tc.want {
			t.Fatalf("cleanValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTransliterate(t *testing.T) {
	p := New()

	cases := []struct {
		name, in, want string
	}{
		{"ascii passthrough upper", "Maria", "MARIA"},
		{"simple cyrillic", "Мария", "MARIYA"},
		{"multi-letter mapping", "Щилиянов", "SHTILIYANOV"},
		{"space preserved", "Анна Мария", "ANNA MARIYA"},
		{"hyphen preserved", "Петрова-Иванова", "PETROVA-IVANOVA"},
		{"unmapped rune passes through", "Анна1", "ANNA1"},
		{"trimmed", "  Иван  ", "IVAN"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Transliterate(tc.in); got != tc.want {
				t.Fatalf("Transliterate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	// Determinism: same input, same output.
	if p.Transliterate("Георги") != p.Transliterate("Георги") {
		t.Fatalf("Transliterate is not deterministic")
	}
}

func Test_normalize_CleansFieldsAndSnapshotsNames(t *testing.T) {
	p := New()
	batch := p.normalize([]domain.Booking{{
		FirstName: " Мария ",
		LastName:  "O'Brien",
		Phone:     " +359 ",
		Type:      "ACME : Онлайн",
	}})
	if len(batch) != 1 {
		t.Fatalf("expected 1 record, got %d", len(batch))
	}
	r := batch[0]
	if r.FirstName != "Мария" || r.LastName != "OBrien" {
		t.Fatalf("names not cleaned: %q %q", r.FirstName, r.LastName)
	}
	if r.NamesInput != "|Мария|OBrien|" {
		t.Fatalf("NamesInput = %q", r.NamesInput)
	}
	if r.Phone != "+359" {
		t.Fatalf("phone not trimmed: %q", r.Phone)
	}
}
