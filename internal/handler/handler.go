package handler

import (
	"context"
	"unicode/utf8"

	"translatebot/internal/domain"
	"translatebot/internal/service"
	"translatebot/internal/translation"

	"go.uber.org/zap"
)

// Slash command names
const (
	CmdStatus           = "status"
	CmdEnableTranslate  = "enable_translate"
	CmdDisableTranslate = "disable_translate"
)

// Reply texts
const (
	translationMarker = "🌐 "
	msgStatusEnabled  = "Translation: ✅ Enabled"
	msgStatusDisabled = "Translation: ❌ Disabled"
	msgEnabled        = "✅ Translation enabled"
	msgDisabled       = "❌ Translation disabled"
)

// Sender delivers replies through the chat platform
type Sender interface {
	Send(ctx context.Context, reply domain.Reply) error
}

// CommandFunc handles one slash command and returns the reply text
type CommandFunc func(cmd domain.Command) string

var commandSpecs = []domain.CommandSpec{
	{Name: CmdStatus, Description: "Check your translation status"},
	{Name: CmdEnableTranslate, Description: "Enable automatic translation of your messages to English"},
	{Name: CmdDisableTranslate, Description: "Disable automatic translation of your messages"},
}

// Handler dispatches chat events to the translation pipeline and commands
type Handler struct {
	filter          *service.EligibilityFilter
	settingsService *service.SettingsService
	journalService  *service.JournalService
	gateway         translation.Gateway
	logger          *zap.Logger

	commands map[string]CommandFunc
}

// NewHandler creates a new handler instance
func NewHandler(
	filter *service.EligibilityFilter,
	settingsService *service.SettingsService,
	journalService *service.JournalService,
	gateway translation.Gateway,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		filter:          filter,
		settingsService: settingsService,
		journalService:  journalService,
		gateway:         gateway,
		logger:          logger,
	}

	h.commands = map[string]CommandFunc{
		CmdStatus:           h.handleStatus,
		CmdEnableTranslate:  h.handleEnable,
		CmdDisableTranslate: h.handleDisable,
	}

	return h
}

// Commands returns the slash commands the handler serves
func (h *Handler) Commands() []domain.CommandSpec {
	specs := make([]domain.CommandSpec, len(commandSpecs))
	copy(specs, commandSpecs)
	return specs
}

// preview shortens text for log fields
func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
