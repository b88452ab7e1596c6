package mattermost

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"translatebot/internal/domain"
	"translatebot/internal/handler"

	"github.com/mattermost/mattermost/server/public/model"
	"go.uber.org/zap"
)

// CommandPath is where the slash-command webhook is mounted
const CommandPath = "/mattermost/command"

// CommandHandler serves Mattermost slash-command requests. The reply is
// returned in the HTTP response instead of being posted separately.
type CommandHandler struct {
	handler *handler.Handler
	secret  string
	logger  *zap.Logger
}

// NewCommandHandler creates a handler that accepts requests signed with secret
func NewCommandHandler(h *handler.Handler, secret string, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		handler: h,
		secret:  secret,
		logger:  logger,
	}
}

// ServeHTTP implements http.Handler
func (c *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if !c.verify(r) {
		c.logger.Warn("Rejected slash command with invalid token",
			zap.String("remote_addr", r.RemoteAddr),
		)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	cmd := domain.Command{
		Name:      strings.TrimPrefix(strings.TrimSpace(r.PostForm.Get("command")), "/"),
		ID:        r.PostForm.Get("trigger_id"),
		ChannelID: r.PostForm.Get("channel_id"),
		UserID:    r.PostForm.Get("user_id"),
	}

	recorder := &replyRecorder{}
	c.handler.HandleCommand(r.Context(), cmd, recorder)

	resp := &model.CommandResponse{ResponseType: model.CommandResponseTypeEphemeral}
	if reply, ok := recorder.get(); ok {
		resp.ResponseType = model.CommandResponseTypeInChannel
		resp.Text = reply.Text
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.logger.Error("Failed to write command response", zap.Error(err))
	}
}

func (c *CommandHandler) verify(r *http.Request) bool {
	if c.secret == "" {
		return false
	}
	token := r.PostForm.Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.secret)) == 1
}

type replyRecorder struct {
	mu    sync.Mutex
	reply *domain.Reply
}

func (r *replyRecorder) Send(_ context.Context, reply domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reply = &reply
	return nil
}

func (r *replyRecorder) get() (domain.Reply, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reply == nil {
		return domain.Reply{}, false
	}
	return *r.reply, true
}
