package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhasdasari/remo-calender/internal/domain"
)

// Wednesday, 11 March 2026.
var testNow = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)

type createdEvent struct {
	title, description string
	start, end         time.Time
	attendees          []string
}

type fakeCalendar struct {
	authorized  bool
	events      []domain.CalendarEvent
	created     []createdEvent
	deleted     []string
	rescheduled map[string]time.Time
	createErr   error
	listErr     error
	createHook  func()
}

func (f *fakeCalendar) IsAuthorized(context.Context, int64) bool { return f.authorized }

func (f *fakeCalendar) StartAuth(context.Context, int64) (string, error) {
	return "https://accounts.example.com/auth", nil
}

func (f *fakeCalendar) ListEvents(_ context.Context, _ int64, from, to time.Time, max int) ([]domain.CalendarEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.CalendarEvent
	for _, e := range f.events {
		if !e.Start.Before(from) && e.Start.Before(to) && len(out) < max {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ int64, title, description string, start, end time.Time, attendees []string) error {
	if f.createHook != nil {
		f.createHook()
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, createdEvent{title, description, start, end, attendees})
	return nil
}

func (f *fakeCalendar) RescheduleEvent(_ context.Context, _ int64, eventID string, newStart time.Time) error {
	if f.rescheduled == nil {
		f.rescheduled = make(map[string]time.Time)
	}
	f.rescheduled[eventID] = newStart
	return nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _ int64, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func newTestManager(fc *fakeCalendar) *Manager {
	m := NewManager(fc)
	m.now = func() time.Time { return testNow }
	return m
}

const userID = int64(42)

func TestFullySpecifiedMessageReachesConfirm(t *testing.T) {
	fc := &fakeCalendar{authorized: true}
	m := newTestManager(fc)

	reply := m.HandleMessage(context.Background(), userID,
		"schedule a meeting with john@x.com tomorrow at 3pm for 30 minutes")

	assert.Contains(t, reply, "Thursday, 12 Mar 2026")
	assert.Contains(t, reply, "15:00")
	assert.Contains(t, reply, "john@x.com")
	assert.Contains(t, reply, "30 minutes")
	assert.Contains(t, reply, "(yes/no)")
	require.True(t, m.Active(userID))
	assert.IsType(t, Confirm{}, m.dialogues[userID].Step)

	reply = m.HandleMessage(context.Background(), userID, "yes")
	assert.Contains(t, reply, "Booked!")
	assert.False(t, m.Active(userID))

	require.Len(t, fc.created, 1)
	got := fc.created[0]
	assert.Equal(t, "Meeting with john", got.title)
	assert.Equal(t, time.Date(2026, time.March, 12, 15, 0, 0, 0, time.UTC), got.start)
	assert.Equal(t, time.Date(2026, time.March, 12, 15, 30, 0, 0, time.UTC), got.end)
	assert.Equal(t, []string{"john@x.com"}, got.attendees)
}

func TestSlotOrderAndValidation(t *testing.T) {
	fc := &fakeCalendar{authorized: true}
	m := newTestManager(fc)
	ctx := context.Background()

	reply := m.HandleMessage(ctx, userID, "schedule a meeting")
	assert.Contains(t, reply, "What date")
	assert.IsType(t, CollectDate{}, m.dialogues[userID].Step)

	// Unresolvable date re-prompts in place.
	reply = m.HandleMessage(ctx, userID, "whenever")
	assert.Contains(t, reply, "couldn't work out that date")
	assert.IsType(t, CollectDate{}, m.dialogues[userID].Step)

	reply = m.HandleMessage(ctx, userID, "tomorrow")
	assert.Contains(t, reply, "What time")

	reply = m.HandleMessage(ctx, userID, "half past never")
	assert.Contains(t, reply, "couldn't work out that time")

	reply = m.HandleMessage(ctx, userID, "3pm")
	assert.Contains(t, reply, "email")

	reply = m.HandleMessage(ctx, userID, "just email them all")
	assert.Contains(t, reply, "doesn't look like an email")

	reply = m.HandleMessage(ctx, userID, "anna@example.com")
	assert.Contains(t, reply, "How long")

	for _, bad := range []string{"0", "481", "a while"} {
		reply = m.HandleMessage(ctx, userID, bad)
		assert.Contains(t, reply, "between 1 and 480", "input %q", bad)
		assert.IsType(t, CollectDuration{}, m.dialogues[userID].Step)
	}

	reply = m.HandleMessage(ctx, userID, "480")
	assert.Contains(t, reply, "description")

	reply = m.HandleMessage(ctx, userID, "skip")
	assert.Contains(t, reply, "(yes/no)")

	reply = m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "Booked!")
	require.Len(t, fc.created, 1)
	assert.Equal(t, 480*time.Minute, fc.created[0].end.Sub(fc.created[0].start))
	assert.Empty(t, fc.created[0].description)
}

func TestSlowCalendarDoesNotBlockOtherUsers(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fc := &fakeCalendar{authorized: true, createHook: func() {
		close(entered)
		<-release
	}}
	m := newTestManager(fc)
	ctx := context.Background()

	m.HandleMessage(ctx, 1, "schedule a meeting with a@b.com tomorrow at 2pm for 30 minutes")

	// User 1's confirmation blocks inside the calendar call.
	done := make(chan string, 1)
	go func() { done <- m.HandleMessage(ctx, 1, "yes") }()
	<-entered

	// User 2 must get served meanwhile, and Active must not hang.
	reply := m.HandleMessage(ctx, 2, "schedule a meeting")
	assert.Contains(t, reply, "What date")
	assert.True(t, m.Active(1))
	assert.True(t, m.Active(2))

	close(release)
	assert.Contains(t, <-done, "Booked!")
	assert.False(t, m.Active(1))
}

func TestDurationAcceptsUnits(t *testing.T) {
	fc := &fakeCalendar{authorized: true}
	m := newTestManager(fc)
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 10am")
	reply := m.HandleMessage(ctx, userID, "1 hour")
	assert.Contains(t, reply, "description")

	m.HandleMessage(ctx, userID, "skip")
	m.HandleMessage(ctx, userID, "yes")
	require.Len(t, fc.created, 1)
	assert.Equal(t, time.Hour, fc.created[0].end.Sub(fc.created[0].start))

	// "30 minutes" works the same way; "481 minutes" is still out of range.
	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 10am")
	reply = m.HandleMessage(ctx, userID, "481 minutes")
	assert.Contains(t, reply, "between 1 and 480")
	reply = m.HandleMessage(ctx, userID, "30 minutes")
	assert.Contains(t, reply, "description")
}

func TestClearDropsOpenDialogue(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting")
	require.True(t, m.Active(userID))

	m.Clear(userID)
	assert.False(t, m.Active(userID))

	// The next message starts over instead of resuming.
	reply := m.HandleMessage(ctx, userID, "schedule a meeting")
	assert.Contains(t, reply, "What date")
}

func TestDurationBoundariesAccepted(t *testing.T) {
	for _, minutes := range []string{"1", "480"} {
		fc := &fakeCalendar{authorized: true}
		m := newTestManager(fc)
		ctx := context.Background()

		m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 10am")
		reply := m.HandleMessage(ctx, userID, minutes)
		assert.Contains(t, reply, "description", "duration %s should be accepted", minutes)
	}
}

func TestPrefilledSlotsSkipTheirSteps(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})

	reply := m.HandleMessage(context.Background(), userID,
		"book a call with x@y.com tomorrow at noon")
	assert.Contains(t, reply, "How long")
	assert.IsType(t, CollectDuration{}, m.dialogues[userID].Step)
}

func TestCancelKeywordClearsWithoutLeaks(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 2pm")
	require.True(t, m.Active(userID))

	reply := m.HandleMessage(ctx, userID, "nevermind")
	assert.Contains(t, reply, "never mind")
	assert.False(t, m.Active(userID))

	// A fresh dialogue starts with no leftover slots.
	reply = m.HandleMessage(ctx, userID, "schedule a meeting")
	assert.Contains(t, reply, "What date")
	assert.NotContains(t, reply, "a@b.com")
}

func TestConfirmTypoRepromptsInsteadOfResetting(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 2pm for 30 minutes")
	require.IsType(t, Confirm{}, m.dialogues[userID].Step)

	reply := m.HandleMessage(ctx, userID, "sure thing")
	assert.Contains(t, reply, "a@b.com")
	assert.True(t, m.Active(userID), "typo at confirm must not discard the dialogue")
}

func TestConfirmRejectionClears(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 2pm for 30 minutes")
	reply := m.HandleMessage(ctx, userID, "no")
	assert.Contains(t, reply, "never mind")
	assert.False(t, m.Active(userID))
}

func TestMissingAuthorizationKeepsDialogue(t *testing.T) {
	fc := &fakeCalendar{authorized: false}
	m := newTestManager(fc)
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 2pm for 30 minutes")
	reply := m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "https://accounts.example.com/auth")
	assert.True(t, m.Active(userID), "dialogue survives until the user authorizes")

	// User connects and confirms again.
	fc.authorized = true
	reply = m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "Booked!")
	assert.False(t, m.Active(userID))
	assert.Len(t, fc.created, 1)
}

func TestCreateFailureClearsDialogue(t *testing.T) {
	fc := &fakeCalendar{authorized: true, createErr: errors.New("boom")}
	m := newTestManager(fc)
	ctx := context.Background()

	m.HandleMessage(ctx, userID, "schedule a meeting with a@b.com tomorrow at 2pm for 30 minutes")
	reply := m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "couldn't create")
	assert.False(t, m.Active(userID))
}

func TestCancelFlowSingleCandidate(t *testing.T) {
	fc := &fakeCalendar{
		authorized: true,
		events: []domain.CalendarEvent{
			{ID: "evt1", Title: "Standup", Start: testNow.Add(24 * time.Hour)},
		},
	}
	m := newTestManager(fc)
	ctx := context.Background()

	reply := m.HandleMessage(ctx, userID, "cancel my meeting")
	assert.Contains(t, reply, "Standup")
	assert.Contains(t, reply, "(yes/no)")

	reply = m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "Cancelled")
	assert.Equal(t, []string{"evt1"}, fc.deleted)
	assert.False(t, m.Active(userID))
}

func TestCancelFlowSelection(t *testing.T) {
	fc := &fakeCalendar{
		authorized: true,
		events: []domain.CalendarEvent{
			{ID: "evt1", Title: "Standup", Start: testNow.Add(24 * time.Hour)},
			{ID: "evt2", Title: "Review", Start: testNow.Add(48 * time.Hour)},
		},
	}
	m := newTestManager(fc)
	ctx := context.Background()

	reply := m.HandleMessage(ctx, userID, "cancel my meeting")
	assert.Contains(t, reply, "1. Standup")
	assert.Contains(t, reply, "2. Review")

	// Out-of-range and non-numeric selections re-prompt.
	reply = m.HandleMessage(ctx, userID, "7")
	assert.Contains(t, reply, "between 1 and 2")
	reply = m.HandleMessage(ctx, userID, "the first one")
	assert.Contains(t, reply, "between 1 and 2")

	reply = m.HandleMessage(ctx, userID, "2")
	assert.Contains(t, reply, "Review")

	reply = m.HandleMessage(ctx, userID, "yes")
	assert.Equal(t, []string{"evt2"}, fc.deleted)
	assert.False(t, m.Active(userID))
}

func TestCancelFlowNoCandidates(t *testing.T) {
	m := newTestManager(&fakeCalendar{authorized: true})

	reply := m.HandleMessage(context.Background(), userID, "cancel my meeting")
	assert.Contains(t, reply, "couldn't find any meetings")
	assert.False(t, m.Active(userID))
}

func TestRescheduleFlow(t *testing.T) {
	fc := &fakeCalendar{
		authorized: true,
		events: []domain.CalendarEvent{
			{ID: "evt1", Title: "Planning", Start: testNow.Add(24 * time.Hour)},
		},
	}
	m := newTestManager(fc)
	ctx := context.Background()

	reply := m.HandleMessage(ctx, userID, "reschedule my meeting")
	assert.Contains(t, reply, "Planning")
	assert.Contains(t, reply, "What date")

	m.HandleMessage(ctx, userID, "day after tomorrow")
	reply = m.HandleMessage(ctx, userID, "4pm")
	assert.Contains(t, reply, "(yes/no)")

	reply = m.HandleMessage(ctx, userID, "yes")
	assert.Contains(t, reply, "Moved")
	assert.Equal(t,
		time.Date(2026, time.March, 13, 16, 0, 0, 0, time.UTC),
		fc.rescheduled["evt1"])
	assert.False(t, m.Active(userID))
}
