package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeDate resolves a named relative expression against "today".
// Entries are scanned in declaration order and the first containment
// match wins, so "day after tomorrow" must precede "tomorrow". Dates
// produced here are on or after today by construction and skip the
// future-date check.
type relativeDate struct {
	phrase  string
	resolve func(today time.Time) time.Time
}

var relativeDates = []relativeDate{
	{"day after tomorrow", func(t time.Time) time.Time { return t.AddDate(0, 0, 2) }},
	{"tomorrow", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"today", func(t time.Time) time.Time { return t }},
	{"next week", func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }},
	{"weekend", func(t time.Time) time.Time {
		offset := int((time.Saturday - t.Weekday() + 7) % 7)
		return t.AddDate(0, 0, offset)
	}},
	{"end of month", lastDayOfMonth},
	{"month end", lastDayOfMonth},
	{"next month", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{"christmas", func(t time.Time) time.Time {
		return time.Date(t.Year(), time.December, 25, 0, 0, 0, 0, t.Location())
	}},
	{"new year", func(t time.Time) time.Time {
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location())
	}},
}

func lastDayOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// Day-month order, year optional: "25/03", "2-5-2026".
var numericDateRe = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})(?:[-/](\d{2,4}))?\b`)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var spelledOrdinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18,
	"nineteenth": 19, "twentieth": 20, "twenty-first": 21, "twenty-second": 22,
	"twenty-third": 23, "twenty-fourth": 24, "twenty-fifth": 25,
	"twenty-sixth": 26, "twenty-seventh": 27, "twenty-eighth": 28,
	"twenty-ninth": 29, "thirtieth": 30, "thirty-first": 31,
}

var genericDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ResolveDate maps free text to a concrete calendar date. now anchors
// all relative arithmetic; the returned date carries now's location and
// a zero time of day.
func ResolveDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	today := midnight(now)

	for _, rd := range relativeDates {
		if strings.Contains(lower, rd.phrase) {
			return midnight(rd.resolve(today)), true
		}
	}

	if m := numericDateRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if d, ok := buildDate(year, month, day, today); ok {
			return d, true
		}
	}

	if d, ok := resolveMonthName(lower, today); ok {
		return d, true
	}

	for _, layout := range genericDateLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
			d := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, today.Location())
			if !d.Before(today) {
				return d, true
			}
		}
	}

	return time.Time{}, false
}

// resolveMonthName scans the 12 month names for "2nd feb [2026]" and
// "second february [2026]" shapes. The first month that matches wins.
func resolveMonthName(lower string, today time.Time) (time.Time, bool) {
	for i, name := range monthNames {
		prefix := name[:3]
		numRe := regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + prefix + `[a-z]*\b(?:\s+(\d{4}))?`)
		if m := numRe.FindStringSubmatch(lower); m != nil {
			day, _ := strconv.Atoi(m[1])
			year := today.Year()
			if m[2] != "" {
				year, _ = strconv.Atoi(m[2])
			}
			if d, ok := buildDate(year, i+1, day, today); ok {
				return d, true
			}
		}

		ordRe := regexp.MustCompile(`\b([a-z-]+)\s+(?:of\s+)?` + name + `\b(?:\s+(\d{4}))?`)
		if m := ordRe.FindStringSubmatch(lower); m != nil {
			day, known := spelledOrdinals[m[1]]
			if !known {
				continue
			}
			year := today.Year()
			if m[2] != "" {
				year, _ = strconv.Atoi(m[2])
			}
			if d, ok := buildDate(year, i+1, day, today); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// buildDate validates calendar bounds and the future-date rule: a
// resolved date is accepted only when it is on or after today at
// midnight, compared at day granularity.
func buildDate(year, month, day int, today time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	// Reject overflow like Feb 30 normalizing into March.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	if d.Before(today) {
		return time.Time{}, false
	}
	return d, true
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ResolveWeekday maps a weekday name plus qualifier to a concrete date.
// "next" lands 7-13 days out, "this"/"coming"/"" pick the nearest
// strictly-future occurrence, and "last" walks backward from month-end
// to the most recent occurrence within the current month before today.
func ResolveWeekday(name, qualifier string, now time.Time) (time.Time, bool) {
	target, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return time.Time{}, false
	}
	today := midnight(now)

	switch strings.ToLower(strings.TrimSpace(qualifier)) {
	case "next":
		offset := int((target-today.Weekday())%7+7)%7 + 7
		return today.AddDate(0, 0, offset), true
	case "last":
		for d := lastDayOfMonth(today); d.Day() >= 1; d = d.AddDate(0, 0, -1) {
			if d.Weekday() == target && d.Before(today) {
				return d, true
			}
			if d.Day() == 1 {
				break
			}
		}
		return time.Time{}, false
	default: // "this", "coming", or no qualifier
		offset := int(target - today.Weekday())
		if offset <= 0 {
			offset += 7
		}
		return today.AddDate(0, 0, offset), true
	}
}

var weekdayExprRe = regexp.MustCompile(`(?i)\b(?:(next|this|coming|last)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

// ResolveDay is the dialogue-facing resolver: a calendar date if one
// resolves, otherwise a possibly-qualified weekday name.
func ResolveDay(text string, now time.Time) (time.Time, bool) {
	if d, ok := ResolveDate(text, now); ok {
		return d, true
	}
	if m := weekdayExprRe.FindStringSubmatch(text); m != nil {
		return ResolveWeekday(m[2], m[1], now)
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
