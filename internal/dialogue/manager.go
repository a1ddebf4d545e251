package dialogue

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/suhasdasari/remo-calender/internal/domain"
	"github.com/suhasdasari/remo-calender/internal/nlp"
)

// Calendar is the external calendar capability the dialogue engine
// executes against. A missing authorization surfaces as
// domain.ErrNotAuthorized, never as a generic error.
type Calendar interface {
	IsAuthorized(ctx context.Context, userID int64) bool
	StartAuth(ctx context.Context, userID int64) (string, error)
	ListEvents(ctx context.Context, userID int64, from, to time.Time, max int) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, userID int64, title, description string, start, end time.Time, attendees []string) error
	RescheduleEvent(ctx context.Context, userID int64, eventID string, newStart time.Time) error
	DeleteEvent(ctx context.Context, userID int64, eventID string) error
}

// Manager owns every in-progress meeting dialogue, keyed by user.
// Dialogues live independently of casual-chat sessions and are never
// evicted by the idle sweep. mu guards only the maps; message handling
// runs under a per-user lock so one user's slow calendar call never
// stalls anyone else.
type Manager struct {
	mu        sync.Mutex
	dialogues map[int64]*Meeting
	userMu    map[int64]*sync.Mutex
	calendar  Calendar
	now       func() time.Time
}

func NewManager(calendar Calendar) *Manager {
	return &Manager{
		dialogues: make(map[int64]*Meeting),
		userMu:    make(map[int64]*sync.Mutex),
		calendar:  calendar,
		now:       time.Now,
	}
}

func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.userMu[userID]
	if !ok {
		l = &sync.Mutex{}
		m.userMu[userID] = l
	}
	return l
}

func (m *Manager) get(userID int64) (*Meeting, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mtg, ok := m.dialogues[userID]
	return mtg, ok
}

func (m *Manager) put(userID int64, mtg *Meeting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogues[userID] = mtg
}

// Active reports whether the user has an open dialogue.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.dialogues[userID]
	return ok
}

// Clear drops the user's dialogue, if any. Used by /reset.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dialogues, userID)
}

// Cancel keywords clear the dialogue at any step, checked before the
// per-step logic. Matching is by substring containment.
var cancelKeywords = []string{"cancel", "stop", "no", "quit", "exit", "nevermind", "never mind"}

func containsCancelKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range cancelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// HandleMessage routes one message into the user's dialogue, starting a
// new one when none exists. The returned string is the reply to send.
// Messages from the same user are serialized; remote calendar calls run
// without holding the shared lock.
func (m *Manager) HandleMessage(ctx context.Context, userID int64, text string) string {
	l := m.userLock(userID)
	l.Lock()
	defer l.Unlock()

	mtg, open := m.get(userID)
	if !open {
		return m.start(ctx, userID, text)
	}

	// A cancellation request before anything else. At Confirm a plain
	// "no" lands here too, which is the intended way to decline.
	if containsCancelKeyword(text) {
		m.Clear(userID)
		return "Okay, never mind. Let me know if you'd like to schedule something else."
	}

	return m.advance(ctx, mtg, text)
}

// start infers the action from the opening message and seeds the
// dialogue from a single extraction pass.
func (m *Manager) start(ctx context.Context, userID int64, text string) string {
	action := inferAction(text)

	switch action {
	case domain.ActionCancel:
		return m.startCancelFlow(ctx, userID, text)
	case domain.ActionUpdate, domain.ActionReschedule:
		return m.startRescheduleFlow(ctx, userID, action, text)
	}

	mtg := &Meeting{UserID: userID, Action: domain.ActionCreate}
	seed(&mtg.Details, text, m.now())
	mtg.Step = mtg.nextStep(false)
	m.put(userID, mtg)

	if summary := renderSummary(mtg); summary != "" {
		return summary + "\n\n" + prompt(mtg.Step)
	}
	return "Let's set up your meeting. " + prompt(mtg.Step)
}

func inferAction(text string) domain.Action {
	lower := strings.ToLower(text)
	switch {
	case nlp.IsCancelMeeting(lower):
		return domain.ActionCancel
	case containsAny(lower, "reschedule", "move", "postpone"):
		return domain.ActionReschedule
	case containsAny(lower, "update", "change", "modify"):
		return domain.ActionUpdate
	default:
		return domain.ActionCreate
	}
}

func containsAny(lower string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// seed pre-fills slots from the opening message. Later steps whose
// slots are already filled here get skipped.
func seed(d *domain.MeetingDetails, text string, now time.Time) {
	ex := nlp.ExtractAll(text)

	if date, ok := nlp.ResolveDay(text, now); ok {
		d.Date = &date
	}
	if ex.HasTime {
		d.Time = ex.Time
	}
	if ex.HasDuration && ex.Duration > 0 && ex.Duration <= maxDurationMinutes {
		d.DurationMinutes = ex.Duration
	}
	for _, e := range ex.Emails {
		if nlp.ValidEmail(e) {
			d.Attendees = append(d.Attendees, e)
		}
	}
	if ex.HasDesc {
		d.Description = ex.Description
		d.HasDescription = true
	}
}

// nextStep picks the first unfilled slot in the fixed order
// date, time, attendee, duration. askDescription enables the optional
// description question used in the linear flow; at entry it is skipped
// and a fully-seeded dialogue opens directly at Confirm. Reschedule and
// update dialogues only need the new date and time.
func (mtg *Meeting) nextStep(askDescription bool) Step {
	d := &mtg.Details
	lightweight := mtg.Action == domain.ActionReschedule || mtg.Action == domain.ActionUpdate

	switch {
	case d.Date == nil:
		return CollectDate{}
	case d.Time == "":
		return CollectTime{}
	case lightweight:
		return Confirm{}
	case len(d.Attendees) == 0:
		return CollectEmail{}
	case d.DurationMinutes == 0:
		return CollectDuration{}
	case askDescription && !d.HasDescription:
		return CollectDescription{}
	default:
		return Confirm{}
	}
}
