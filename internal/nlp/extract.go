package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/suhasdasari/remo-calender/internal/domain"
)

var (
	durationRe  = regexp.MustCompile(`(?i)\b(\d+)\s*(hours?|hrs?|minutes?|mins?)\b`)
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	fullEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	dateTokenRe = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow)\b`)

	noDescriptionRe = regexp.MustCompile(`(?i)\bno\s+description\b`)
	descQuotedRe    = regexp.MustCompile(`(?i)\b(?:with\s+description|description:|about|regarding)\s+"([^"]+)"`)
	descPlainRe     = regexp.MustCompile(`(?i)\b(?:with\s+description|description:|about|regarding)\s+(.+)`)
)

// ExtractDuration finds "<N> <unit>" where the unit is a minute or hour
// word. Hours are converted to minutes.
func ExtractDuration(text string) (int, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "h") {
		n *= 60
	}
	return n, true
}

// ExtractEmails collects every email-shaped token in the message, in
// order of appearance.
func ExtractEmails(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// ValidEmail reports whether the whole string is a single well-formed
// address.
func ValidEmail(s string) bool {
	return fullEmailRe.MatchString(strings.TrimSpace(s))
}

// ExtractDateToken flags the presence of a lone weekday or
// today/tomorrow token. Resolution happens in ResolveDate on the raw
// message; this only signals that a date was mentioned.
func ExtractDateToken(text string) (string, bool) {
	m := dateTokenRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// ExtractDescription finds an explicit meeting description. A literal
// "no description" suppresses everything else.
func ExtractDescription(text string) (string, bool) {
	if noDescriptionRe.MatchString(text) {
		return "", false
	}
	if m := descQuotedRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := descPlainRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ExtractAll runs every extractor over one message. Absence of an
// entity is not an error; the Has flags say what was found.
func ExtractAll(text string) domain.Extraction {
	ex := domain.Extraction{}
	ex.Time, ex.HasTime = ExtractTime(text)
	ex.DateToken, ex.HasDate = ExtractDateToken(text)
	ex.Duration, ex.HasDuration = ExtractDuration(text)
	ex.Emails = ExtractEmails(text)
	ex.Description, ex.HasDesc = ExtractDescription(text)
	return ex
}
