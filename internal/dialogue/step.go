package dialogue

import "github.com/suhasdasari/remo-calender/internal/domain"

// Step is the current phase of a meeting dialogue. Each variant carries
// only the data that is legal for that phase; the slots collected so
// far live in Meeting.Details. Exactly one step is active at a time.
type Step interface {
	isStep()
}

// CollectDate waits for a resolvable calendar date.
type CollectDate struct{}

// CollectTime waits for a resolvable time of day.
type CollectTime struct{}

// CollectEmail waits for a single valid attendee address.
type CollectEmail struct{}

// CollectDuration waits for a duration in minutes, 1..480.
type CollectDuration struct{}

// CollectDescription waits for free text or a literal "skip".
type CollectDescription struct{}

// Confirm waits for a yes before executing the collected action.
type Confirm struct{}

// ConfirmCancel holds the single event a cancellation request matched
// and waits for a yes/no.
type ConfirmCancel struct {
	Candidate domain.CalendarEvent
}

// SelectMeeting holds the candidate events a cancel or reschedule
// request matched and waits for a 1-based numeric selection.
type SelectMeeting struct {
	Candidates []domain.CalendarEvent
}

func (CollectDate) isStep()        {}
func (CollectTime) isStep()        {}
func (CollectEmail) isStep()       {}
func (CollectDuration) isStep()    {}
func (CollectDescription) isStep() {}
func (Confirm) isStep()            {}
func (ConfirmCancel) isStep()      {}
func (SelectMeeting) isStep()      {}

// Meeting is one in-progress scheduling conversation. While it exists,
// every message from its user routes here instead of casual chat.
type Meeting struct {
	UserID  int64
	Action  domain.Action
	Details domain.MeetingDetails
	Step    Step
}
