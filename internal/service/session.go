package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/domain"
)

// SessionService holds the per-user casual-chat sessions in memory and
// evicts them after the idle window. Meeting dialogues live elsewhere
// and are never touched by the sweep.
type SessionService struct {
	mu         sync.Mutex
	sessions   map[int64]*domain.ChatSession
	idleWindow time.Duration
	now        func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSessionService() *SessionService {
	return &SessionService{
		sessions:   make(map[int64]*domain.ChatSession),
		idleWindow: config.SessionIdleWindow,
		now:        time.Now,
	}
}

// Touch returns the user's session, creating one on first contact, and
// updates repeat tracking for the given message.
func (s *SessionService) Touch(userID int64, userText string) *domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.ChatSession{UserID: userID}
		s.sessions[userID] = sess
	}

	if userText == sess.LastUserText && userText != "" {
		sess.RepeatCount++
	} else {
		sess.LastUserText = userText
		sess.RepeatCount = 1
	}
	sess.LastActivity = s.now()
	return sess
}

// Append records a turn and trims history to the configured window.
func (s *SessionService) Append(userID int64, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return
	}
	sess.Turns = append(sess.Turns, domain.ChatTurn{Role: role, Text: text})
	if len(sess.Turns) > config.MaxHistoryTurns {
		sess.Turns = sess.Turns[len(sess.Turns)-config.MaxHistoryTurns:]
	}
	sess.LastActivity = s.now()
}

// History returns a copy of the user's turns, oldest first.
func (s *SessionService) History(userID int64) []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	out := make([]domain.ChatTurn, len(sess.Turns))
	copy(out, sess.Turns)
	return out
}

// Reset drops the user's session entirely.
func (s *SessionService) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// CleanupExpired removes sessions idle past the window and returns how
// many were dropped.
func (s *SessionService) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.idleWindow {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweep runs the periodic eviction until ctx is done or Stop is
// called.
func (s *SessionService) StartSweep(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupExpired(); n > 0 {
					slog.Debug("evicted idle chat sessions", "count", n)
				}
			}
		}
	}()
}

// Stop halts the sweep and waits for it to finish.
func (s *SessionService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
