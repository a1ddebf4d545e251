package middleware

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Serialize returns middleware that processes at most one message per
// chat at a time. Dialogue and session state are per-user; concurrent
// messages from the same user would race on them, so each chat's
// updates go through its own mutex. Other updates pass straight
// through.
func Serialize() bot.Middleware {
	var (
		mu    sync.Mutex
		locks = make(map[int64]*sync.Mutex)
	)

	lockFor := func(chatID int64) *sync.Mutex {
		mu.Lock()
		defer mu.Unlock()
		l, ok := locks[chatID]
		if !ok {
			l = &sync.Mutex{}
			locks[chatID] = l
		}
		return l
	}

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}
			l := lockFor(update.Message.Chat.ID)
			l.Lock()
			defer l.Unlock()
			next(ctx, b, update)
		}
	}
}
