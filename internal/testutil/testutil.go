package testutil

import (
	"translatebot/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewObservedLogger creates a logger whose entries can be inspected
func NewObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// NewTestMessage creates a test message
func NewTestMessage(id, authorID, text string) domain.Message {
	return domain.Message{
		ID:        id,
		ChannelID: "channel-1",
		AuthorID:  authorID,
		Text:      text,
	}
}

// NewTestCommand creates a test slash command invocation
func NewTestCommand(name, id, userID string) domain.Command {
	return domain.Command{
		Name:      name,
		ID:        id,
		ChannelID: "channel-1",
		UserID:    userID,
	}
}
