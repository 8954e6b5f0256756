package deadline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inPattern        = regexp.MustCompile(`in (\d+) (day|week|month|hour)s?`)
	clockPattern     = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)?`)
	hourOnlyPattern  = regexp.MustCompile(`(?i)(\d{1,2})\s*(am|pm)`)
	absoluteLayouts  = []string{"2006-01-02", "2006/01/02", "January 2 2006", "January 2, 2006", "Jan 2 2006", "Jan 2, 2006"}
	monthDayLayouts  = []string{"January 2", "Jan 2"}
	// Ordered so phrases naming several weekdays resolve the same way on
	// every parse (first match wins).
	weekdayPhrases = []struct {
		phrase string
		day    time.Weekday
	}{
		{"monday", time.Monday},
		{"tuesday", time.Tuesday},
		{"wednesday", time.Wednesday},
		{"thursday", time.Thursday},
		{"friday", time.Friday},
		{"saturday", time.Saturday},
		{"sunday", time.Sunday},
	}
)

// Parse converts a deadline phrase into a UTC timestamp relative to ref.
// The second return value reports whether parsing succeeded.
func Parse(text string, ref time.Time) (time.Time, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return time.Time{}, false
	}
	ref = ref.UTC()

	if when, ok := parseRelative(trimmed, ref); ok {
		return when, true
	}
	if when, ok := parseAbsolute(text, ref); ok {
		return when, true
	}
	return time.Time{}, false
}

func parseRelative(text string, ref time.Time) (time.Time, bool) {
	switch text {
	case "today", "now":
		return ref, true
	}

	if strings.Contains(text, "tomorrow") {
		return applyTime(text, ref.AddDate(0, 0, 1)), true
	}
	if strings.Contains(text, "yesterday") {
		return applyTime(text, ref.AddDate(0, 0, -1)), true
	}
	if strings.Contains(text, "next week") {
		return applyTime(text, ref.AddDate(0, 0, 7)), true
	}
	if strings.Contains(text, "this week") {
		return applyTime(text, ref), true
	}
	if strings.Contains(text, "next month") {
		return applyTime(text, ref.AddDate(0, 1, 0)), true
	}

	if match := inPattern.FindStringSubmatch(text); match != nil {
		count, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, false
		}
		var base time.Time
		switch match[2] {
		case "day":
			base = ref.AddDate(0, 0, count)
		case "week":
			base = ref.AddDate(0, 0, count*7)
		case "month":
			base = ref.AddDate(0, count, 0)
		case "hour":
			return ref.Add(time.Duration(count) * time.Hour), true
		default:
			return time.Time{}, false
		}
		return applyTime(text, base), true
	}

	for _, entry := range weekdayPhrases {
		if !strings.Contains(text, entry.phrase) {
			continue
		}
		ahead := (int(entry.day) - int(ref.Weekday()) + 7) % 7
		if ahead == 0 && strings.Contains(text, "next") {
			ahead = 7
		}
		return applyTime(text, ref.AddDate(0, 0, ahead)), true
	}

	if strings.Contains(text, "end of day") || strings.Contains(text, "eod") {
		return endOfDay(ref), true
	}
	if strings.Contains(text, "end of week") || strings.Contains(text, "eow") {
		toFriday := (int(time.Friday) - int(ref.Weekday()) + 7) % 7
		return endOfDay(ref.AddDate(0, 0, toFriday)), true
	}
	if strings.Contains(text, "end of month") || strings.Contains(text, "eom") {
		firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return endOfDay(firstOfNext.AddDate(0, 0, -1)), true
	}

	return time.Time{}, false
}

func parseAbsolute(text string, ref time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range absoluteLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return endOfDay(parsed.UTC()), true
		}
	}
	// Month-day phrases inherit the reference year.
	for _, layout := range monthDayLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			when := time.Date(ref.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return endOfDay(when), true
		}
	}
	return time.Time{}, false
}

// applyTime extracts a clock time from the phrase and applies it to base.
// Phrases with no time component default to end of day.
func applyTime(text string, base time.Time) time.Time {
	if match := clockPattern.FindStringSubmatch(text); match != nil {
		hour, _ := strconv.Atoi(match[1])
		minute, _ := strconv.Atoi(match[2])
		hour = adjustMeridiem(hour, match[3])
		return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, time.UTC)
	}
	if match := hourOnlyPattern.FindStringSubmatch(text); match != nil {
		hour, _ := strconv.Atoi(match[1])
		hour = adjustMeridiem(hour, match[2])
		return time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, time.UTC)
	}
	return endOfDay(base)
}

func adjustMeridiem(hour int, meridiem string) int {
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
