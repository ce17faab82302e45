package pipeline

import (
	"testing"

	"github.com/trainops/go-booking-backend/internal/domain"
)

func Test_validatePhones(t *testing.T) {
	cases := []struct {
		name, phone, wantFlags string
	}{
		{"valid international", "+359888123456", ""},
		{"missing", "", "5,"},
		{"too short", "12345678", "6,"},
		{"stray characters", "088-123-4567", "6,"},
		{"short and malformed gets the code twice", "08-1234", "6,6,"},
		{"nine digits passes length check", "123456789", ""},
	}

	p := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &domain.Record{Booking: domain.Booking{Phone: tc.phone}}
			p.validatePhones([]*domain.Record{r})
			if r.Flags != tc.wantFlags {
				t.Fatalf("Flags = %q, want %q", r.Flags, tc.wantFlags)
			}
		})
	}
}

func Test_extractTrainers(t *testing.T) {
	cases := []struct {
		name, calendar, want string
	}{
		{"segment before pipe", "Иван Иванов | Coaching", "Иван Иванов"},
		{"lower-cased input is title-cased", "anna maria | Календар", "Anna Maria"},
		{"no pipe takes the whole field", "Solo Trainer", "Solo Trainer"},
		{"empty calendar leaves trainer unset", "", ""},
	}

	p := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &domain.Record{Booking: domain.Booking{Calendar: tc.calendar}}
			p.extractTrainers([]*domain.Record{r})
			if r.Trainer != tc.want {
				t.Fatalf("Trainer = %q, want %q", r.Trainer, tc.want)
			}
		})
	}
}
