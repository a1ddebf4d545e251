package domain

import "time"

// ChatTurn is one exchange in a casual-chat session.
type ChatTurn struct {
	Role string // "user" or "assistant"
	Text string
}

// ChatSession is the per-user casual-chat state. It is owned by the
// session service and mutated only by the message path for that user.
type ChatSession struct {
	UserID       int64
	Turns        []ChatTurn
	LastUserText string
	RepeatCount  int
	LastActivity time.Time
}
