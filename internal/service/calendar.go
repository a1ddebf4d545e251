package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/domain"
)

// TokenStore is the persistence the calendar service needs for per-user
// OAuth tokens.
type TokenStore interface {
	Save(ctx context.Context, telegramID int64, tok *oauth2.Token) error
	Get(ctx context.Context, telegramID int64) (*oauth2.Token, error)
	Delete(ctx context.Context, telegramID int64) error
}

type pendingAuth struct {
	userID  int64
	created time.Time
}

// CalendarService wraps Google Calendar v3 behind the capability set
// the dialogue engine needs. Every operation is per-user; a missing
// token surfaces as domain.ErrNotAuthorized.
type CalendarService struct {
	oauth  *oauth2.Config
	tokens TokenStore

	mu      sync.Mutex
	pending map[string]pendingAuth
	now     func() time.Time
}

func NewCalendarService(cfg *config.Config, tokens TokenStore) *CalendarService {
	return &CalendarService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL(),
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		tokens:  tokens,
		pending: make(map[string]pendingAuth),
		now:     time.Now,
	}
}

func (s *CalendarService) IsAuthorized(ctx context.Context, userID int64) bool {
	_, err := s.tokens.Get(ctx, userID)
	return err == nil
}

// StartAuth issues a consent URL bound to a one-time state token.
func (s *CalendarService) StartAuth(ctx context.Context, userID int64) (string, error) {
	state := uuid.NewString()

	s.mu.Lock()
	now := s.now()
	for k, p := range s.pending {
		if now.Sub(p.created) > config.AuthStateTTL {
			delete(s.pending, k)
		}
	}
	s.pending[state] = pendingAuth{userID: userID, created: now}
	s.mu.Unlock()

	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// CompleteAuth exchanges the callback code and persists the token for
// the user the state was issued to. It returns that user's id so the
// caller can notify them.
func (s *CalendarService) CompleteAuth(ctx context.Context, state, code string) (int64, error) {
	s.mu.Lock()
	p, ok := s.pending[state]
	if ok {
		delete(s.pending, state)
	}
	s.mu.Unlock()

	if !ok || s.now().Sub(p.created) > config.AuthStateTTL {
		return 0, domain.ErrInvalidState
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("exchange code: %w", err)
	}
	if err := s.tokens.Save(ctx, p.userID, tok); err != nil {
		return 0, err
	}
	return p.userID, nil
}

// Disconnect forgets the user's stored token.
func (s *CalendarService) Disconnect(ctx context.Context, userID int64) error {
	return s.tokens.Delete(ctx, userID)
}

func (s *CalendarService) client(ctx context.Context, userID int64) (*calendar.Service, error) {
	tok, err := s.tokens.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrNotAuthorized
		}
		return nil, err
	}
	svc, err := calendar.NewService(ctx, option.WithTokenSource(s.oauth.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}
	return svc, nil
}

// ListEvents returns events in [from, to), sorted by start time.
func (s *CalendarService) ListEvents(ctx context.Context, userID int64, from, to time.Time, max int) ([]domain.CalendarEvent, error) {
	svc, err := s.client(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, config.CalendarRequestTimeout)
	defer cancel()

	res, err := svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(max)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		evt := domain.CalendarEvent{ID: item.Id, Title: item.Summary}
		if evt.Title == "" {
			evt.Title = "(untitled)"
		}
		evt.Start = parseEventTime(item.Start)
		evt.End = parseEventTime(item.End)
		for _, a := range item.Attendees {
			evt.Attendees = append(evt.Attendees, a.Email)
		}
		events = append(events, evt)
	}
	return events, nil
}

func parseEventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *CalendarService) CreateEvent(ctx context.Context, userID int64, title, description string, start, end time.Time, attendees []string) error {
	svc, err := s.client(ctx, userID)
	if err != nil {
		return err
	}

	evt := &calendar.Event{
		Summary:     title,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	for _, email := range attendees {
		evt.Attendees = append(evt.Attendees, &calendar.EventAttendee{Email: email})
	}

	ctx, cancel := context.WithTimeout(ctx, config.CalendarRequestTimeout)
	defer cancel()

	if _, err := svc.Events.Insert("primary", evt).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent patches title and description of an existing event.
func (s *CalendarService) UpdateEvent(ctx context.Context, userID int64, eventID, title, description string) error {
	svc, err := s.client(ctx, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.CalendarRequestTimeout)
	defer cancel()

	patch := &calendar.Event{Summary: title, Description: description}
	if _, err := svc.Events.Patch("primary", eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// RescheduleEvent moves an event to newStart, preserving its original
// duration.
func (s *CalendarService) RescheduleEvent(ctx context.Context, userID int64, eventID string, newStart time.Time) error {
	svc, err := s.client(ctx, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.CalendarRequestTimeout)
	defer cancel()

	existing, err := svc.Events.Get("primary", eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	duration := parseEventTime(existing.End).Sub(parseEventTime(existing.Start))
	if duration <= 0 {
		duration = 30 * time.Minute
	}

	patch := &calendar.Event{
		Start: &calendar.EventDateTime{DateTime: newStart.Format(time.RFC3339)},
		End:   &calendar.EventDateTime{DateTime: newStart.Add(duration).Format(time.RFC3339)},
	}
	if _, err := svc.Events.Patch("primary", eventID, patch).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("reschedule event: %w", err)
	}
	return nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, userID int64, eventID string) error {
	svc, err := s.client(ctx, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.CalendarRequestTimeout)
	defer cancel()

	if err := svc.Events.Delete("primary", eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
