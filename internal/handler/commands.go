package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suhasdasari/remo-calender/internal/config"
	tg "github.com/suhasdasari/remo-calender/internal/telegram"
)

const helpText = `I'm Remo, your scheduling assistant. Just talk to me:

• "schedule a meeting with anna@example.com tomorrow at 3pm for 30 minutes"
• "what's on my calendar this week?"
• "cancel my meeting on friday"
• "move my 2pm call to thursday"

Commands:
/connect — link your Google Calendar
/disconnect — unlink it
/meetings — list your upcoming meetings
/reset — forget our current conversation`

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Hi! I'm Remo 👋 I can chat and schedule meetings on your Google Calendar.\n\n" + helpText,
	})
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

func (h *Handler) handleConnect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.calendar.IsAuthorized(ctx, userID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Your Google Calendar is already connected ✅",
		})
		return
	}

	url, err := h.calendar.StartAuth(ctx, userID)
	if err != nil {
		slog.Error("start auth", "error", err, "user_id", userID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Sorry, I couldn't start the connection. Please try again later.",
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Connect your Google Calendar here:\n" + url,
	})
}

func (h *Handler) handleDisconnect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if err := h.calendar.Disconnect(ctx, update.Message.From.ID); err != nil {
		slog.Error("disconnect", "error", err, "user_id", update.Message.From.ID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Sorry, I couldn't disconnect your calendar. Please try again.",
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Your calendar is disconnected. Use /connect to link it again.",
	})
}

func (h *Handler) handleMeetings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.sendUpcomingMeetings(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// sendUpcomingMeetings is shared by /meetings and natural-language list
// requests.
func (h *Handler) sendUpcomingMeetings(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	if !h.calendar.IsAuthorized(ctx, userID) {
		url, err := h.calendar.StartAuth(ctx, userID)
		if err != nil {
			slog.Error("start auth", "error", err, "user_id", userID)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Sorry, I couldn't reach Google. Please try again later.",
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "I need access to your Google Calendar first. Connect it here:\n" + url,
		})
		return
	}

	now := time.Now()
	events, err := h.calendar.ListEvents(ctx, userID, now, now.AddDate(0, 0, config.DefaultLookAheadDays), 10)
	if err != nil {
		slog.Error("list events", "error", err, "user_id", userID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "I couldn't reach your calendar. Please try again.",
		})
		return
	}
	if len(events) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("You have nothing scheduled in the next %d days 🎉", config.DefaultLookAheadDays),
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("Your upcoming meetings:\n")
	for _, e := range events {
		fmt.Fprintf(&sb, "\n📅 %s — %s", e.Start.Format("Mon, 02 Jan 15:04"), e.Title)
		if len(e.Attendees) > 0 {
			fmt.Fprintf(&sb, " (with %s)", strings.Join(e.Attendees, ", "))
		}
	}
	tg.SendLongMessage(ctx, b, chatID, sb.String())
}

func (h *Handler) handleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.sessions.Reset(update.Message.From.ID)
	h.dialogues.Clear(update.Message.From.ID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Done, I've forgotten our conversation. What's next?",
	})
}
