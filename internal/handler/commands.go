package handler

import (
	"context"
	"fmt"

	"translatebot/internal/domain"
	"translatebot/internal/middleware"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCommand runs a slash command and replies to the invoking event
func (h *Handler) HandleCommand(ctx context.Context, cmd domain.Command, sender Sender) {
	logger := h.logger.With(
		zap.String("trace_id", uuid.NewString()),
		zap.String("command", cmd.Name),
		zap.String("event_id", cmd.ID),
		zap.String("user_id", cmd.UserID),
		zap.String("channel_id", cmd.ChannelID),
	)

	_ = middleware.Guard(logger, "command", func() error {
		fn, ok := h.commands[cmd.Name]
		if !ok {
			logger.Warn("Unknown command")
			return nil
		}

		logger.Info("Command executed")

		reply := domain.Reply{
			ChannelID: cmd.ChannelID,
			ReplyTo:   cmd.ID,
			Text:      fn(cmd),
		}
		if err := sender.Send(ctx, reply); err != nil {
			return fmt.Errorf("send %s reply: %w", cmd.Name, err)
		}
		return nil
	})
}

// handleStatus handles /status command
func (h *Handler) handleStatus(cmd domain.Command) string {
	if h.settingsService.IsEnabled(cmd.UserID) {
		return msgStatusEnabled
	}
	return msgStatusDisabled
}

// handleEnable handles /enable_translate command
func (h *Handler) handleEnable(cmd domain.Command) string {
	h.settingsService.Enable(cmd.UserID)
	return msgEnabled
}

// handleDisable handles /disable_translate command
func (h *Handler) handleDisable(cmd domain.Command) string {
	h.settingsService.Disable(cmd.UserID)
	return msgDisabled
}
