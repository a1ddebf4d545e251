package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/domain"
)

type emptyTokenStore struct{}

func (emptyTokenStore) Save(context.Context, int64, *oauth2.Token) error { return nil }
func (emptyTokenStore) Get(context.Context, int64) (*oauth2.Token, error) {
	return nil, domain.ErrTokenNotFound
}
func (emptyTokenStore) Delete(context.Context, int64) error { return nil }

func newTestCalendarService() *CalendarService {
	cfg := &config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		PublicBaseURL:      "https://bot.example.com",
	}
	return NewCalendarService(cfg, emptyTokenStore{})
}

func TestOperationsRequireAuthorization(t *testing.T) {
	s := newTestCalendarService()
	ctx := context.Background()

	assert.False(t, s.IsAuthorized(ctx, 1))

	_, err := s.ListEvents(ctx, 1, time.Now(), time.Now().AddDate(0, 0, 7), 5)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.ErrorIs(t, s.CreateEvent(ctx, 1, "t", "", time.Now(), time.Now(), nil), domain.ErrNotAuthorized)
	assert.ErrorIs(t, s.UpdateEvent(ctx, 1, "evt", "new title", "new description"), domain.ErrNotAuthorized)
	assert.ErrorIs(t, s.RescheduleEvent(ctx, 1, "evt", time.Now()), domain.ErrNotAuthorized)
	assert.ErrorIs(t, s.DeleteEvent(ctx, 1, "evt"), domain.ErrNotAuthorized)
}

func TestStartAuthIssuesStatefulConsentURL(t *testing.T) {
	s := newTestCalendarService()

	rawURL, err := s.StartAuth(context.Background(), 7)
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	q := u.Query()
	assert.NotEmpty(t, q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://bot.example.com/oauth2/callback", q.Get("redirect_uri"))

	// A second request gets its own state token.
	second, err := s.StartAuth(context.Background(), 7)
	require.NoError(t, err)
	u2, err := url.Parse(second)
	require.NoError(t, err)
	assert.NotEqual(t, q.Get("state"), u2.Query().Get("state"))
}

func TestCompleteAuthRejectsUnknownState(t *testing.T) {
	s := newTestCalendarService()

	_, err := s.CompleteAuth(context.Background(), "never-issued", "code")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteAuthRejectsExpiredState(t *testing.T) {
	s := newTestCalendarService()
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	rawURL, err := s.StartAuth(context.Background(), 7)
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	state := u.Query().Get("state")

	now = now.Add(config.AuthStateTTL + time.Minute)
	_, err = s.CompleteAuth(context.Background(), state, "code")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// And the state is one-time: it is gone even for a fresh clock.
	_, err = s.CompleteAuth(context.Background(), state, "code")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
