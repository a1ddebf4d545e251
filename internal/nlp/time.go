package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// namedTime is one entry of the named-expression table. Matching is by
// case-insensitive substring containment, and the table is scanned in
// declaration order, so broader phrases must come before phrases they
// contain ("afternoon" before "noon").
type namedTime struct {
	phrase string
	value  string
}

var namedTimes = []namedTime{
	{"midnight", "00:00"},
	{"dawn", "06:00"},
	{"early morning", "07:00"},
	{"mid morning", "10:00"},
	{"late morning", "11:00"},
	{"early afternoon", "14:00"},
	{"afternoon", "15:00"},
	{"noon", "12:00"},
	{"midday", "12:00"},
	{"lunch", "12:30"},
	{"eod", "17:00"},
	{"cob", "17:00"},
	{"end of day", "17:00"},
	{"dusk", "18:00"},
	{"evening", "18:00"},
	{"dinner", "19:00"},
	{"tonight", "20:00"},
}

// Clock patterns tried in order after the named table. Each submatch
// layout is (hour, minute, meridian) with minute and meridian optional.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`),
	regexp.MustCompile(`\b(\d{1,2})[.:](\d{2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*o'?\s?clock\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*hrs\b`),
	regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`),
	regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{2}))?\s*$`),
}

// ExtractTime finds a time of day in free text and returns it as a
// zero-padded "HH:MM" string. The named table wins over clock patterns,
// and within each list the first match wins.
func ExtractTime(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, nt := range namedTimes {
		if strings.Contains(lower, nt.phrase) {
			return nt.value, true
		}
	}

	for _, re := range timePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		hour, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		minute := 0
		if len(m) > 2 && m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		meridian := ""
		if len(m) > 3 {
			meridian = m[3]
		}
		hh, ok := normalizeHour(hour, meridian, lower)
		if !ok || minute > 59 {
			continue
		}
		return fmt.Sprintf("%02d:%02d", hh, minute), true
	}

	return "", false
}

// normalizeHour applies meridian rules: "pm" adds 12 unless the hour is
// already >= 12, "am" maps 12 to 0, and without a meridian an
// evening/night cue in the message pushes hours below 12 into the
// evening.
func normalizeHour(hour int, meridian, lower string) (int, bool) {
	switch meridian {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if hour < 12 && (strings.Contains(lower, "evening") || strings.Contains(lower, "night")) {
			hour += 12
		}
	}
	if hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
