package domain

import "errors"

var (
	ErrNotAuthorized   = errors.New("user has not connected a calendar")
	ErrTokenNotFound   = errors.New("oauth token not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrNoActiveSession = errors.New("no active chat session")
	ErrInvalidState    = errors.New("unknown or expired oauth state")
	ErrEmptyCompletion = errors.New("model returned no choices")
)
