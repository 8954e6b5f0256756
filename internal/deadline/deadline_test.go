package deadline

import (
	"testing"
	"time"
)

// Monday 2025-06-02 10:00 UTC.
var ref = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestParseRelative(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"today", ref},
		{"tomorrow", time.Date(2025, 6, 3, 23, 59, 59, 0, time.UTC)},
		{"tomorrow at 3pm", time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)},
		{"tomorrow at 3:30pm", time.Date(2025, 6, 3, 15, 30, 0, 0, time.UTC)},
		{"next week", time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC)},
		{"in 3 days", time.Date(2025, 6, 5, 23, 59, 59, 0, time.UTC)},
		{"in 2 weeks", time.Date(2025, 6, 16, 23, 59, 59, 0, time.UTC)},
		{"in 4 hours", time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)},
		{"next friday at 2:30pm", time.Date(2025, 6, 6, 14, 30, 0, 0, time.UTC)},
		{"next monday", time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC)},
		{"eod", time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)},
		{"end of week", time.Date(2025, 6, 6, 23, 59, 59, 0, time.UTC)},
		{"end of month", time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in, ref)
		if !ok {
			t.Errorf("Parse(%q) failed", tc.in)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseMultipleWeekdaysIsStable(t *testing.T) {
	// The earliest weekday named wins, on every parse.
	want := time.Date(2025, 6, 4, 23, 59, 59, 0, time.UTC)
	for i := 0; i < 50; i++ {
		got, ok := Parse("wednesday or thursday", ref)
		if !ok {
			t.Fatal("expected phrase to parse")
		}
		if !got.Equal(want) {
			t.Fatalf("Parse(wednesday or thursday) = %v, want %v", got, want)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	got, ok := Parse("2025-11-15", ref)
	if !ok {
		t.Fatal("expected ISO date to parse")
	}
	want := time.Date(2025, 11, 15, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Parse(2025-11-15) = %v, want %v", got, want)
	}

	got, ok = Parse("November 15", ref)
	if !ok {
		t.Fatal("expected month-day phrase to parse")
	}
	if got.Year() != ref.Year() || got.Month() != time.November || got.Day() != 15 {
		t.Fatalf("Parse(November 15) = %v", got)
	}
}

func TestParseMidnightEdge(t *testing.T) {
	got, ok := Parse("tomorrow at 12am", ref)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Hour() != 0 {
		t.Fatalf("12am should map to hour 0, got %d", got.Hour())
	}
}

func TestParseFailures(t *testing.T) {
	for _, in := range []string{"", "   ", "whenever", "soonish"} {
		if _, ok := Parse(in, ref); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}
