package handler

import (
	"context"
	"fmt"

	"translatebot/internal/domain"
	"translatebot/internal/middleware"
	"translatebot/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleMessage runs one inbound message through the pipeline. It sends at
// most one reply and never returns or panics on failure.
func (h *Handler) HandleMessage(ctx context.Context, msg domain.Message, sender Sender) {
	logger := h.logger.With(
		zap.String("trace_id", uuid.NewString()),
		zap.String("event_id", msg.ID),
		zap.String("user_id", msg.AuthorID),
		zap.String("channel_id", msg.ChannelID),
	)

	_ = middleware.Guard(logger, "message", func() error {
		return h.translateMessage(ctx, msg, sender, logger)
	})
}

func (h *Handler) translateMessage(ctx context.Context, msg domain.Message, sender Sender, logger *zap.Logger) error {
	if verdict := h.filter.Evaluate(msg); verdict != service.VerdictEligible {
		logger.Debug("Message skipped",
			zap.Stringer("reason", verdict),
			zap.String("text", preview(msg.Text, 30)),
		)
		return nil
	}

	logger.Info("Translating message", zap.String("text", preview(msg.Text, 50)))

	// In-flight translations are never cancelled.
	result := h.gateway.Translate(context.WithoutCancel(ctx), domain.TranslationRequest{Text: msg.Text})

	// Journal writes happen after the reply attempt.
	defer h.record(msg, result, logger)

	if !result.Success {
		logger.Error("Translation failed",
			zap.String("backend", h.gateway.Name()),
			zap.String("error", result.Error),
		)
		return nil
	}

	logger.Info("Translation successful", zap.String("translation", preview(result.TranslatedText, 50)))

	reply := domain.Reply{
		ChannelID:  msg.ChannelID,
		ReplyTo:    msg.ID,
		ThreadRoot: msg.ThreadRoot,
		Text:       translationMarker + result.TranslatedText,
	}
	if err := sender.Send(ctx, reply); err != nil {
		return fmt.Errorf("send translation: %w", err)
	}

	logger.Info("Translation sent")
	return nil
}

func (h *Handler) record(msg domain.Message, result domain.TranslationResult, logger *zap.Logger) {
	if err := h.journalService.Record(msg, result); err != nil {
		logger.Warn("Failed to record translation", zap.Error(err))
	}
}
