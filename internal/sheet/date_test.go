package sheet

import (
	"testing"
	"time"
)

func TestParseAnyDate_SerialEpoch(t *testing.T) {
	got, ok := ParseAnyDate(float64(25569))
	if !ok {
		t.Fatal("expected serial 25569 to parse")
	}
	want := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("serial 25569: got %v, want %v", got, want)
	}
}

func TestParseAnyDate_SerialModern(t *testing.T) {
	got, ok := ParseAnyDate(float64(45292))
	if !ok {
		t.Fatal("expected serial 45292 to parse")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("serial 45292: got %v, want %v", got, want)
	}
}

func TestParseAnyDate_SerialInStringCell(t *testing.T) {
	got, ok := ParseAnyDate("45292")
	if !ok {
		t.Fatal("expected numeric string to parse as serial")
	}
	if got.Year() != 2024 || got.Month() != time.January || got.Day() != 1 {
		t.Errorf("string serial: got %v", got)
	}
}

func TestParseAnyDate_StringLayouts(t *testing.T) {
	cases := []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15T10:30:00",
		"2024-03-15",
		"15/03/2024",
		"15/3/2024",
		"15-03-2024",
	}
	for _, in := range cases {
		got, ok := ParseAnyDate(in)
		if !ok {
			t.Errorf("%q: expected parse", in)
			continue
		}
		if got.Year() != 2024 || got.Month() != time.March || got.Day() != 15 {
			t.Errorf("%q: got %v", in, got)
		}
	}
}

func TestParseAnyDate_NeverErrors(t *testing.T) {
	cases := []any{
		nil,
		"",
		"   ",
		"not a date",
		"99/99/9999",
		float64(100), // pre-1970 serial
		true,
		map[string]any{},
		time.Time{},
	}
	for _, in := range cases {
		got, ok := ParseAnyDate(in)
		if ok {
			t.Errorf("%v: expected ok=false, got %v", in, got)
		}
		if !got.IsZero() {
			t.Errorf("%v: expected zero time, got %v", in, got)
		}
	}
}

func TestParseAnyDate_PassesThroughTime(t *testing.T) {
	in := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	got, ok := ParseAnyDate(in)
	if !ok || !got.Equal(in) {
		t.Errorf("got %v ok=%v, want passthrough", got, ok)
	}
}

func TestFormatDMY(t *testing.T) {
	if got := FormatDMY(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)); got != "05/01/2024" {
		t.Errorf("got %q, want 05/01/2024", got)
	}
	if got := FormatDMY(time.Time{}); got != "" {
		t.Errorf("zero time: got %q, want empty", got)
	}
}

func TestFormatAnyDMY(t *testing.T) {
	if got := FormatAnyDMY(float64(45292)); got != "01/01/2024" {
		t.Errorf("serial: got %q, want 01/01/2024", got)
	}
	if got := FormatAnyDMY("garbage"); got != "" {
		t.Errorf("garbage: got %q, want empty", got)
	}
	if got := FormatAnyDMY(nil); got != "" {
		t.Errorf("nil: got %q, want empty", got)
	}
}
