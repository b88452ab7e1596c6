package mattermost

import (
	"context"
	"fmt"

	"translatebot/internal/domain"

	"github.com/mattermost/mattermost/server/public/model"
)

type postCreator interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, *model.Response, error)
}

// Sender creates reply posts in the thread of the original post
type Sender struct {
	api postCreator
}

// NewSender creates a new sender
func NewSender(api postCreator) *Sender {
	return &Sender{api: api}
}

// Send delivers one reply. Mattermost threads are one level deep, so a reply
// to a threaded post is attached to that thread's root.
func (s *Sender) Send(ctx context.Context, reply domain.Reply) error {
	rootID := reply.ThreadRoot
	if rootID == "" {
		rootID = reply.ReplyTo
	}

	post := &model.Post{
		ChannelId: reply.ChannelID,
		RootId:    rootID,
		Message:   reply.Text,
	}
	if _, _, err := s.api.CreatePost(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}
