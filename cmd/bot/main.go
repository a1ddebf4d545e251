package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	remo "github.com/suhasdasari/remo-calender"
	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/dialogue"
	"github.com/suhasdasari/remo-calender/internal/handler"
	"github.com/suhasdasari/remo-calender/internal/middleware"
	"github.com/suhasdasari/remo-calender/internal/repository"
	"github.com/suhasdasari/remo-calender/internal/server"
	"github.com/suhasdasari/remo-calender/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(remo.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	tokens := repository.NewTokenRepository(pool)
	calendarService := service.NewCalendarService(cfg, tokens)
	sessionService := service.NewSessionService()
	chatService := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.ChatModel)
	dialogues := dialogue.NewManager(calendarService)

	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.Serialize(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	h = handler.New(handler.Deps{
		Bot:       b,
		Sessions:  sessionService,
		Dialogues: dialogues,
		Chat:      chatService,
		Calendar:  calendarService,
	})
	h.Register()

	// OAuth callback server
	srv := server.New(cfg.Port, calendarService, h)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("oauth server stopped", "error", err)
			stop()
		}
	}()

	// Idle chat session eviction
	sessionService.StartSweep(ctx)

	slog.Info("starting bot")
	b.Start(ctx)

	sessionService.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("oauth server shutdown", "error", err)
	}
	slog.Info("bot stopped gracefully")
}
