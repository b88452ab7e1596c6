package telegram

import (
	"context"
	"fmt"
	"strconv"

	"translatebot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Sender posts replies through the Bot API, quoting the original message
type Sender struct {
	api messageSender
}

// NewSender creates a new sender
func NewSender(api messageSender) *Sender {
	return &Sender{api: api}
}

// Send delivers one reply
func (s *Sender) Send(_ context.Context, reply domain.Reply) error {
	chatID, err := strconv.ParseInt(reply.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", reply.ChannelID, err)
	}
	chat := &tele.Chat{ID: chatID}

	opts := &tele.SendOptions{}
	if reply.ReplyTo != "" {
		messageID, err := strconv.Atoi(reply.ReplyTo)
		if err != nil {
			return fmt.Errorf("invalid message id %q: %w", reply.ReplyTo, err)
		}
		opts.ReplyTo = &tele.Message{ID: messageID, Chat: chat}
	}

	if _, err := s.api.Send(chat, reply.Text, opts); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
