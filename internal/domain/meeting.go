package domain

import (
	"fmt"
	"strings"
	"time"
)

// Action is what a meeting dialogue will do once its slots are filled.
// It is inferred once from the opening message and never changes.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionReschedule Action = "reschedule"
	ActionCancel     Action = "cancel"
)

// MeetingDetails holds the slots collected so far. Nil pointers mean
// "not collected yet".
type MeetingDetails struct {
	Date            *time.Time // day granularity, time part ignored
	Time            string     // "HH:MM", empty = unset
	DurationMinutes int        // 0 = unset
	Attendees       []string   // validated emails, input order
	Description     string
	HasDescription  bool // distinguishes "skip" from empty text
	EventID         string
}

// Complete reports whether the dialogue may enter confirmation:
// date, time, duration and at least one attendee are present.
func (d *MeetingDetails) Complete() bool {
	return d.Date != nil && d.Time != "" && d.DurationMinutes > 0 && len(d.Attendees) > 0
}

// StartTime combines the collected date and time into a concrete instant.
func (d *MeetingDetails) StartTime() (time.Time, error) {
	if d.Date == nil || d.Time == "" {
		return time.Time{}, fmt.Errorf("date or time not collected")
	}
	var hh, mm int
	if _, err := fmt.Sscanf(d.Time, "%d:%d", &hh, &mm); err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", d.Time, err)
	}
	day := *d.Date
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, day.Location()), nil
}

// Title derives the event title from the first attendee's address.
func (d *MeetingDetails) Title() string {
	if len(d.Attendees) == 0 {
		return "Meeting"
	}
	local, _, _ := strings.Cut(d.Attendees[0], "@")
	return "Meeting with " + local
}

// CalendarEvent is the core's view of an event in the external calendar.
type CalendarEvent struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	Attendees []string
}

// Extraction is the set of entities found in a single message. It is
// produced once per message and consumed immediately; it is never stored.
type Extraction struct {
	Time        string
	HasTime     bool
	DateToken   string
	HasDate     bool
	Duration    int
	HasDuration bool
	Emails      []string
	Description string
	HasDesc     bool
}
