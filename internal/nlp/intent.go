package nlp

import "regexp"

// Intent predicates are independent; the handler evaluates them in a
// fixed priority order. An open meeting dialogue or IsMeetingIntent
// always wins over the cancel/list/update predicates, which in turn win
// over casual chat.

var (
	greetingRe  = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|greetings|good\s+(morning|afternoon|evening))\b`)
	howAreYouRe = regexp.MustCompile(`(?i)^\s*(how\s+are\s+you|how\s+r\s+u|how'?s\s+it\s+going|how\s+is\s+it\s+going|what'?s\s+up)\b`)

	meetingIntentRe = regexp.MustCompile(`(?i)\b(schedule|set\s+up|book|arrange|plan|update|change|modify|reschedule|move|postpone|cancel|delete|meeting|call|appointment)\b`)

	cancelVerbRe  = regexp.MustCompile(`(?i)\b(cancel|delete|remove)\b`)
	meetingNounRe = regexp.MustCompile(`(?i)\b(meeting|call|appointment|event)\b`)

	listVerbRe = regexp.MustCompile(`(?i)\b(check|list|show|view|get)\b`)
	listNounRe = regexp.MustCompile(`(?i)\b(meetings|schedule|calendar)\b`)

	updateVerbRe = regexp.MustCompile(`(?i)\b(update|change|move|postpone|reschedule)\b`)
)

// IsGreeting matches greetings anchored at the start of the message.
func IsGreeting(text string) bool {
	return greetingRe.MatchString(text)
}

// IsHowAreYou matches "how are you" phrasings anchored at the start.
func IsHowAreYou(text string) bool {
	return howAreYouRe.MatchString(text)
}

// IsMeetingIntent matches scheduling keywords anywhere in the message.
func IsMeetingIntent(text string) bool {
	return meetingIntentRe.MatchString(text)
}

// IsCancelMeeting requires both a cancel verb and a meeting noun.
func IsCancelMeeting(text string) bool {
	return cancelVerbRe.MatchString(text) && meetingNounRe.MatchString(text)
}

// IsListMeetings requires both a viewing verb and a scheduling noun.
func IsListMeetings(text string) bool {
	return listVerbRe.MatchString(text) && listNounRe.MatchString(text)
}

// IsUpdateMeeting matches update/reschedule verbs alone.
func IsUpdateMeeting(text string) bool {
	return updateVerbRe.MatchString(text)
}
