package handler

import (
	"context"
	"time"

	"github.com/go-telegram/bot"

	"github.com/suhasdasari/remo-calender/internal/dialogue"
	"github.com/suhasdasari/remo-calender/internal/domain"
	"github.com/suhasdasari/remo-calender/internal/service"
)

// ChatService produces free-form assistant replies.
type ChatService interface {
	Reply(ctx context.Context, history []domain.ChatTurn, userText string, repeatCount int) (string, error)
}

// CalendarService is the slice of calendar capability the handlers use
// directly (listing and auth); the dialogue engine holds its own.
type CalendarService interface {
	IsAuthorized(ctx context.Context, userID int64) bool
	StartAuth(ctx context.Context, userID int64) (string, error)
	ListEvents(ctx context.Context, userID int64, from, to time.Time, max int) ([]domain.CalendarEvent, error)
	Disconnect(ctx context.Context, userID int64) error
}

// Handler holds all dependencies needed by command and text handlers.
type Handler struct {
	bot       *bot.Bot
	sessions  *service.SessionService
	dialogues *dialogue.Manager
	chat      ChatService
	calendar  CalendarService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Sessions  *service.SessionService
	Dialogues *dialogue.Manager
	Chat      ChatService
	Calendar  CalendarService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		sessions:  deps.Sessions,
		dialogues: deps.Dialogues,
		chat:      deps.Chat,
		calendar:  deps.Calendar,
	}
}

// NotifyConnected is called by the OAuth callback server once a user's
// calendar is linked. In private chats the chat id equals the user id.
func (h *Handler) NotifyConnected(ctx context.Context, userID int64) {
	h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   "✅ Your Google Calendar is connected! If you were in the middle of booking a meeting, send \"yes\" again to finish it.",
	})
}
