package domain

import "time"

// TranslationRequest is the input of a single gateway call
type TranslationRequest struct {
	Text string
}

// TranslationResult is the normalized outcome of a gateway call.
// TranslatedText is meaningful when Success is true, Error otherwise.
type TranslationResult struct {
	Success        bool
	TranslatedText string
	Error          string
}

// TranslationLog is a journal row describing one gateway call.
// It never carries the source or translated text.
type TranslationLog struct {
	ID          string
	EventID     string
	ChannelID   string
	UserID      string
	Backend     string
	Success     bool
	Error       string
	SourceChars int
	CreatedAt   time.Time
}
