// Package telegram connects the dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"translatebot/internal/domain"
	"translatebot/internal/handler"
	"translatebot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Adapter routes telebot updates into the dispatcher
type Adapter struct {
	bot     *tele.Bot
	handler *handler.Handler
	sender  *Sender
	logger  *zap.Logger
	ctx     context.Context
}

// NewAdapter creates a new adapter instance
func NewAdapter(ctx context.Context, bot *tele.Bot, h *handler.Handler, logger *zap.Logger) *Adapter {
	return &Adapter{
		bot:     bot,
		handler: h,
		sender:  NewSender(bot),
		logger:  logger,
		ctx:     ctx,
	}
}

// Identity returns the bot's own account as reported by getMe
func Identity(bot *tele.Bot) domain.BotIdentity {
	if bot.Me == nil {
		return domain.BotIdentity{}
	}
	return domain.BotIdentity{
		UserID:      strconv.FormatInt(bot.Me.ID, 10),
		Username:    bot.Me.Username,
		DisplayName: strings.TrimSpace(bot.Me.FirstName + " " + bot.Me.LastName),
	}
}

// RegisterHandlers registers all bot handlers
func (a *Adapter) RegisterHandlers() {
	a.bot.Use(middleware.Recover(a.logger))

	// Commands
	a.bot.Handle("/"+handler.CmdStatus, a.onCommand(handler.CmdStatus))
	a.bot.Handle("/"+handler.CmdEnableTranslate, a.onCommand(handler.CmdEnableTranslate))
	a.bot.Handle("/"+handler.CmdDisableTranslate, a.onCommand(handler.CmdDisableTranslate))

	// Text messages
	a.bot.Handle(tele.OnText, a.onText)
}

// PublishCommands sets the command menu shown by Telegram clients
func (a *Adapter) PublishCommands() error {
	specs := a.handler.Commands()
	commands := make([]tele.Command, 0, len(specs))
	for _, spec := range specs {
		commands = append(commands, tele.Command{
			Text:        spec.Name,
			Description: spec.Description,
		})
	}
	if err := a.bot.SetCommands(commands); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

func (a *Adapter) onCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := c.Message()
		if msg == nil {
			return nil
		}
		a.handler.HandleCommand(a.ctx, toCommand(name, msg), a.sender)
		return nil
	}
}

// onText handles plain text; unregistered slash commands land here too
func (a *Adapter) onText(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	if name, ok := commandName(msg.Text); ok {
		a.handler.HandleCommand(a.ctx, toCommand(name, msg), a.sender)
		return nil
	}

	a.handler.HandleMessage(a.ctx, toMessage(msg), a.sender)
	return nil
}

func toMessage(msg *tele.Message) domain.Message {
	m := domain.Message{
		ID:   strconv.Itoa(msg.ID),
		Text: msg.Text,
	}
	if msg.Chat != nil {
		m.ChannelID = strconv.FormatInt(msg.Chat.ID, 10)
	}
	if msg.Sender != nil {
		m.AuthorID = strconv.FormatInt(msg.Sender.ID, 10)
	}
	return m
}

func toCommand(name string, msg *tele.Message) domain.Command {
	m := toMessage(msg)
	return domain.Command{
		Name:      name,
		ID:        m.ID,
		ChannelID: m.ChannelID,
		UserID:    m.AuthorID,
	}
}

// commandName extracts "status" from "/status@SomeBot arg"
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}
