package dateutil

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 13, 45, 0, 0, time.Local)
	if got := FormatDate(d); got != "2025-03-07" {
		t.Errorf("FormatDate = %q, want %q", got, "2025-03-07")
	}
}

func TestEnumerateDates(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{"three days", "2025-01-01", "2025-01-03", []string{"2025-01-01", "2025-01-02", "2025-01-03"}},
		{"single day", "2025-01-01", "2025-01-01", []string{"2025-01-01"}},
		{"month boundary", "2025-01-30", "2025-02-01", []string{"2025-01-30", "2025-01-31", "2025-02-01"}},
		{"leap day", "2024-02-28", "2024-03-01", []string{"2024-02-28", "2024-02-29", "2024-03-01"}},
		{"inverted range", "2025-01-03", "2025-01-01", nil},
		{"bad start", "not-a-date", "2025-01-01", nil},
		{"bad end", "2025-01-01", "01/02/2025", nil},
		{"empty bounds", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnumerateDates(tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("EnumerateDates(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("EnumerateDates(%q, %q)[%d] = %q, want %q", tt.start, tt.end, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseDateSet(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"space separated", "2025-01-01 2025-01-02", []string{"2025-01-01", "2025-01-02"}},
		{"commas and newlines", "2025-01-01,2025-01-02\n2025-01-03", []string{"2025-01-01", "2025-01-02", "2025-01-03"}},
		{"duplicates collapse", "2025-01-01 2025-01-01", []string{"2025-01-01"}},
		{"malformed dropped", "2025-01-01 banana 2025-1-2 01/02/2025", []string{"2025-01-01"}},
		{"impossible date dropped", "2025-02-30", nil},
		{"empty text", "", nil},
		{"only separators", " ,\n\t ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateSet(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseDateSet(%q) = %v, want keys %v", tt.text, got, tt.want)
			}
			for _, k := range tt.want {
				if _, ok := got[k]; !ok {
					t.Errorf("ParseDateSet(%q) missing %q", tt.text, k)
				}
			}
		})
	}
}

func TestToggleDate(t *testing.T) {
	text := "2025-01-03 2025-01-01"

	// Adding a new date yields a sorted, space-joined encoding.
	added := ToggleDate(text, "2025-01-02")
	if added != "2025-01-01 2025-01-02 2025-01-03" {
		t.Errorf("toggle add = %q", added)
	}

	// Toggling the same date again removes it.
	removed := ToggleDate(added, "2025-01-02")
	if removed != "2025-01-01 2025-01-03" {
		t.Errorf("toggle remove = %q", removed)
	}
}

func TestToggleDate_DoubleToggleIsIdentity(t *testing.T) {
	inputs := []string{
		"",
		"2025-01-01",
		"2025-01-02, 2025-01-01\n2025-03-15",
		"2025-05-05 junk 2025-05-06",
	}
	dates := []string{"2025-01-01", "2025-12-31"}

	for _, text := range inputs {
		for _, d := range dates {
			normalized := FormatDateSet(ParseDateSet(text))
			twice := ToggleDate(ToggleDate(text, d), d)
			if twice != normalized {
				t.Errorf("double toggle of %q on %q = %q, want %q", d, text, twice, normalized)
			}
		}
	}
}

func TestWeekday(t *testing.T) {
	if got := Weekday("2025-01-01"); got != "Wed" {
		t.Errorf("Weekday(2025-01-01) = %q, want Wed", got)
	}
	if got := Weekday("nope"); got != "" {
		t.Errorf("Weekday(nope) = %q, want empty", got)
	}
}
