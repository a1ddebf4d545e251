package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/domain"
	"github.com/suhasdasari/remo-calender/internal/nlp"
)

const maxDurationMinutes = config.MaxMeetingMinutes

// advance interprets the whole message as the answer to the current
// step. Validation failures re-prompt in place and leave every slot
// untouched.
func (m *Manager) advance(ctx context.Context, mtg *Meeting, text string) string {
	switch step := mtg.Step.(type) {
	case CollectDate:
		date, ok := nlp.ResolveDay(text, m.now())
		if !ok {
			return "I couldn't work out that date. Try something like \"tomorrow\", \"next friday\", \"25/03\" or \"2nd feb\"."
		}
		mtg.Details.Date = &date

	case CollectTime:
		t, ok := nlp.ExtractTime(text)
		if !ok {
			return "I couldn't work out that time. Try something like \"3pm\", \"14:30\" or \"noon\"."
		}
		mtg.Details.Time = t

	case CollectEmail:
		addr := strings.TrimSpace(text)
		if !nlp.ValidEmail(addr) {
			return "That doesn't look like an email address. Send a single address like name@example.com."
		}
		mtg.Details.Attendees = []string{addr}

	case CollectDuration:
		minutes, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			// Accept "30 minutes" and "1 hour" too.
			var ok bool
			minutes, ok = nlp.ExtractDuration(text)
			if !ok {
				return fmt.Sprintf("Please send the duration as a number of minutes, between 1 and %d.", maxDurationMinutes)
			}
		}
		if minutes <= 0 || minutes > maxDurationMinutes {
			return fmt.Sprintf("Please send the duration as a number of minutes, between 1 and %d.", maxDurationMinutes)
		}
		mtg.Details.DurationMinutes = minutes

	case CollectDescription:
		if !strings.EqualFold(strings.TrimSpace(text), "skip") {
			mtg.Details.Description = text
		}
		mtg.Details.HasDescription = true

	case Confirm:
		if strings.Contains(strings.ToLower(text), "yes") {
			return m.execute(ctx, mtg)
		}
		// Cancel keywords were already handled; anything else here is
		// most likely a typo, so re-prompt instead of throwing the
		// collected slots away.
		return renderSummary(mtg) + "\n\nShall I go ahead? Reply \"yes\" to confirm or \"cancel\" to start over."

	case ConfirmCancel:
		if strings.Contains(strings.ToLower(text), "yes") {
			return m.deleteEvent(ctx, mtg, step.Candidate)
		}
		return "Please reply \"yes\" to cancel that meeting, or \"no\" to keep it."

	case SelectMeeting:
		idx, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || idx < 1 || idx > len(step.Candidates) {
			return fmt.Sprintf("Please reply with a number between 1 and %d.", len(step.Candidates))
		}
		chosen := step.Candidates[idx-1]
		if mtg.Action == domain.ActionCancel {
			mtg.Step = ConfirmCancel{Candidate: chosen}
			return fmt.Sprintf("Cancel \"%s\" on %s? (yes/no)", chosen.Title, chosen.Start.Format("Mon, 02 Jan 15:04"))
		}
		// Reschedule or update: remember the target and collect the
		// new date and time.
		mtg.Details.EventID = chosen.ID
		mtg.Step = CollectDate{}
		return fmt.Sprintf("Moving \"%s\". %s", chosen.Title, prompt(mtg.Step))
	}

	mtg.Step = mtg.nextStep(true)
	if _, done := mtg.Step.(Confirm); done {
		return renderSummary(mtg) + "\n\nShall I go ahead? (yes/no)"
	}
	return prompt(mtg.Step)
}

// execute commits the collected action to the calendar. Missing
// authorization keeps the dialogue so the user can connect and confirm
// again; any other failure reports and clears it.
func (m *Manager) execute(ctx context.Context, mtg *Meeting) string {
	if !m.calendar.IsAuthorized(ctx, mtg.UserID) {
		url, err := m.calendar.StartAuth(ctx, mtg.UserID)
		if err != nil {
			slog.Error("start auth", "error", err, "user_id", mtg.UserID)
			m.Clear(mtg.UserID)
			return "Something went wrong connecting your calendar. Please try again later."
		}
		// Known gap: execution does not resume automatically after
		// authorization; the user re-sends "yes".
		return "I need access to your Google Calendar first. Connect it here:\n" + url +
			"\n\nOnce you're connected, send \"yes\" again and I'll book it."
	}

	start, err := mtg.Details.StartTime()
	if err != nil {
		slog.Error("compute start time", "error", err, "user_id", mtg.UserID)
		m.Clear(mtg.UserID)
		return "Something went wrong with the meeting time. Let's start over."
	}
	end := start.Add(time.Duration(mtg.Details.DurationMinutes) * time.Minute)

	switch mtg.Action {
	case domain.ActionReschedule, domain.ActionUpdate:
		if err := m.calendar.RescheduleEvent(ctx, mtg.UserID, mtg.Details.EventID, start); err != nil {
			slog.Error("reschedule event", "error", err, "user_id", mtg.UserID)
			m.Clear(mtg.UserID)
			return "I couldn't move that meeting. Please try again."
		}
		m.Clear(mtg.UserID)
		return fmt.Sprintf("Done! Moved to %s.", start.Format("Monday, 02 Jan at 15:04"))
	default:
		err = m.calendar.CreateEvent(ctx, mtg.UserID,
			mtg.Details.Title(), mtg.Details.Description,
			start, end, mtg.Details.Attendees)
		if err != nil {
			slog.Error("create event", "error", err, "user_id", mtg.UserID)
			m.Clear(mtg.UserID)
			return "I couldn't create the meeting. Please try again."
		}
		m.Clear(mtg.UserID)
		return fmt.Sprintf("Booked! %s on %s, %d minutes, with %s.",
			mtg.Details.Title(),
			start.Format("Monday, 02 Jan at 15:04"),
			mtg.Details.DurationMinutes,
			strings.Join(mtg.Details.Attendees, ", "))
	}
}

func (m *Manager) deleteEvent(ctx context.Context, mtg *Meeting, evt domain.CalendarEvent) string {
	defer m.Clear(mtg.UserID)
	if err := m.calendar.DeleteEvent(ctx, mtg.UserID, evt.ID); err != nil {
		slog.Error("delete event", "error", err, "user_id", mtg.UserID)
		return "I couldn't cancel that meeting. Please try again."
	}
	return fmt.Sprintf("Cancelled \"%s\".", evt.Title)
}

// startCancelFlow looks up candidate events for a natural-language
// cancellation request. Zero candidates produce no dialogue.
func (m *Manager) startCancelFlow(ctx context.Context, userID int64, text string) string {
	candidates, reply := m.findCandidates(ctx, userID, text)
	if reply != "" {
		return reply
	}

	mtg := &Meeting{UserID: userID, Action: domain.ActionCancel}
	if len(candidates) == 1 {
		mtg.Step = ConfirmCancel{Candidate: candidates[0]}
		m.put(userID, mtg)
		return fmt.Sprintf("I found \"%s\" on %s. Cancel it? (yes/no)",
			candidates[0].Title, candidates[0].Start.Format("Mon, 02 Jan 15:04"))
	}
	mtg.Step = SelectMeeting{Candidates: candidates}
	m.put(userID, mtg)
	return "Which one should I cancel?\n" + renderCandidates(candidates)
}

func (m *Manager) startRescheduleFlow(ctx context.Context, userID int64, action domain.Action, text string) string {
	candidates, reply := m.findCandidates(ctx, userID, text)
	if reply != "" {
		return reply
	}

	mtg := &Meeting{UserID: userID, Action: action}
	if len(candidates) == 1 {
		mtg.Details.EventID = candidates[0].ID
		mtg.Step = CollectDate{}
		m.put(userID, mtg)
		return fmt.Sprintf("Moving \"%s\" (currently %s). %s",
			candidates[0].Title, candidates[0].Start.Format("Mon, 02 Jan 15:04"), prompt(mtg.Step))
	}
	mtg.Step = SelectMeeting{Candidates: candidates}
	m.put(userID, mtg)
	return "Which meeting should I move?\n" + renderCandidates(candidates)
}

// findCandidates lists events in the window the message implies: the
// extracted date's day if one resolves, otherwise the upcoming week.
// A non-empty reply means the flow stopped before a dialogue started.
func (m *Manager) findCandidates(ctx context.Context, userID int64, text string) ([]domain.CalendarEvent, string) {
	if !m.calendar.IsAuthorized(ctx, userID) {
		url, err := m.calendar.StartAuth(ctx, userID)
		if err != nil {
			slog.Error("start auth", "error", err, "user_id", userID)
			return nil, "Something went wrong connecting your calendar. Please try again later."
		}
		return nil, "I need access to your Google Calendar first. Connect it here:\n" + url
	}

	now := m.now()
	from, to := now, now.AddDate(0, 0, config.DefaultLookAheadDays)
	if date, ok := nlp.ResolveDay(text, now); ok {
		from, to = date, date.AddDate(0, 0, 1)
	}

	events, err := m.calendar.ListEvents(ctx, userID, from, to, config.MaxCancelCandidates)
	if err != nil {
		slog.Error("list events", "error", err, "user_id", userID)
		return nil, "I couldn't reach your calendar. Please try again."
	}
	if len(events) == 0 {
		return nil, "I couldn't find any meetings in that period."
	}
	return events, ""
}

func renderCandidates(events []domain.CalendarEvent) string {
	var b strings.Builder
	for i, e := range events {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, e.Title, e.Start.Format("Mon, 02 Jan 15:04"))
	}
	b.WriteString("\nReply with the number.")
	return b.String()
}

func prompt(s Step) string {
	switch s.(type) {
	case CollectDate:
		return "What date works for you? (e.g. \"tomorrow\", \"next friday\", \"25/03\")"
	case CollectTime:
		return "What time? (e.g. \"3pm\", \"14:30\", \"noon\")"
	case CollectEmail:
		return "Who should I invite? Send one email address."
	case CollectDuration:
		return fmt.Sprintf("How long should it be, in minutes? (1-%d)", maxDurationMinutes)
	case CollectDescription:
		return "Any description for the meeting? Reply \"skip\" to leave it out."
	default:
		return "Shall I go ahead? (yes/no)"
	}
}

// renderSummary shows the slots collected so far. Empty when nothing
// has been collected yet.
func renderSummary(mtg *Meeting) string {
	d := &mtg.Details
	if d.Date == nil && d.Time == "" && len(d.Attendees) == 0 && d.DurationMinutes == 0 && d.Description == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("Here's what I have so far:")
	if d.Date != nil {
		fmt.Fprintf(&b, "\n📅 Date: %s", d.Date.Format("Monday, 02 Jan 2006"))
	}
	if d.Time != "" {
		fmt.Fprintf(&b, "\n⏰ Time: %s", d.Time)
	}
	if len(d.Attendees) > 0 {
		fmt.Fprintf(&b, "\n👥 Attendees: %s", strings.Join(d.Attendees, ", "))
	}
	if d.DurationMinutes > 0 {
		fmt.Fprintf(&b, "\n⏱ Duration: %d minutes", d.DurationMinutes)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "\n📝 Description: %s", d.Description)
	}
	return b.String()
}
