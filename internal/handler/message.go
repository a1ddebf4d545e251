package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suhasdasari/remo-calender/internal/nlp"
	"github.com/suhasdasari/remo-calender/internal/service"
	tg "github.com/suhasdasari/remo-calender/internal/telegram"
)

var greetingReplies = []string{
	"Hey there! 👋 Need me to set up a meeting?",
	"Hi! How can I help you today?",
	"Hello! Want to check your calendar or book something?",
	"Hey! What can I do for you?",
}

var howAreYouReplies = []string{
	"I'm doing great, thanks for asking! How about you?",
	"All good here — ready to schedule something whenever you are.",
	"Can't complain! What's on your mind?",
}

// HandleText is the top-level text router. Precedence: an open meeting
// dialogue or a meeting-intent keyword always wins; only then do the
// cancel/list/update phrasings get a chance; everything else is casual
// chat.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	if msg.Chat.Type != "private" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID
	text := msg.Text

	sess := h.sessions.Touch(userID, text)

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	switch {
	case h.dialogues.Active(userID) || nlp.IsMeetingIntent(text):
		reply := h.dialogues.HandleMessage(ctx, userID, text)
		tg.SendLongMessage(ctx, b, chatID, reply)

	case nlp.IsCancelMeeting(text):
		reply := h.dialogues.HandleMessage(ctx, userID, text)
		tg.SendLongMessage(ctx, b, chatID, reply)

	case nlp.IsListMeetings(text):
		h.sendUpcomingMeetings(ctx, b, chatID, userID)

	case nlp.IsUpdateMeeting(text):
		reply := h.dialogues.HandleMessage(ctx, userID, text)
		tg.SendLongMessage(ctx, b, chatID, reply)

	default:
		h.handleChat(ctx, b, chatID, userID, text, sess.RepeatCount)
	}
}

// cannedReply picks the scripted reply for greetings and "how are you",
// or "" when the model should answer. Sending the same greeting three
// or more times in a row gets called out instead of answered again.
func cannedReply(text string, repeatCount int) string {
	switch {
	case repeatCount >= 3 && (nlp.IsGreeting(text) || nlp.IsHowAreYou(text)):
		return fmt.Sprintf("That's %d times you've said that in a row 😄 Is there something I can actually help you with?", repeatCount)
	case nlp.IsGreeting(text):
		return greetingReplies[rand.Intn(len(greetingReplies))]
	case nlp.IsHowAreYou(text):
		return howAreYouReplies[rand.Intn(len(howAreYouReplies))]
	}
	return ""
}

// handleChat answers casual conversation: canned replies for greetings
// and "how are you", the model for everything else.
func (h *Handler) handleChat(ctx context.Context, b *bot.Bot, chatID, userID int64, text string, repeatCount int) {
	reply := cannedReply(text, repeatCount)
	if reply == "" {
		generated, err := h.chat.Reply(ctx, h.sessions.History(userID), text, repeatCount)
		if err != nil {
			slog.Error("chat completion", "error", err, "user_id", userID)
			generated = service.FallbackReply
		}
		reply = generated
	}

	h.sessions.Append(userID, "user", text)
	h.sessions.Append(userID, "assistant", reply)
	tg.SendLongMessage(ctx, b, chatID, reply)
}
