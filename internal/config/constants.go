package config

import "time"

const (
	// Chat session lifecycle
	SessionIdleWindow    = 5 * time.Minute
	SessionSweepInterval = 1 * time.Minute

	// Casual chat history kept per user (turns, user+assistant)
	MaxHistoryTurns = 20

	// AI request timeout
	ChatRequestTimeout = 30 * time.Second

	// Calendar request timeout
	CalendarRequestTimeout = 15 * time.Second

	// Meeting constraints
	MaxMeetingMinutes     = 480
	DefaultLookAheadDays  = 7
	MaxCancelCandidates   = 5

	// OAuth state TTL (consent links are short-lived)
	AuthStateTTL = 10 * time.Minute

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Chat sampling
	ChatTemperature = 0.8
	ChatMaxTokens   = 256
)
