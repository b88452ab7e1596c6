// Package mattermost connects the dispatcher to a Mattermost server: posts
// arrive over the websocket API, replies go out through REST and slash
// commands come in over HTTP.
package mattermost

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"translatebot/internal/domain"
	"translatebot/internal/handler"

	"github.com/mattermost/mattermost/server/public/model"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

type apiClient interface {
	GetMe(ctx context.Context, etag string) (*model.User, *model.Response, error)
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, *model.Response, error)
}

// Adapter routes Mattermost events into the dispatcher
type Adapter struct {
	serverURL string
	token     string
	api       apiClient
	handler   *handler.Handler
	sender    handler.Sender
	logger    *zap.Logger

	wg sync.WaitGroup
}

// NewAdapter creates an adapter authenticated with a bot access token
func NewAdapter(serverURL, token string, logger *zap.Logger) *Adapter {
	serverURL = strings.TrimRight(serverURL, "/")
	client := model.NewAPIv4Client(serverURL)
	client.SetToken(token)

	return &Adapter{
		serverURL: serverURL,
		token:     token,
		api:       client,
		sender:    NewSender(client),
		logger:    logger,
	}
}

// SetHandler attaches the dispatcher. The handler depends on the bot
// identity, which is only known after Identity has been called.
func (a *Adapter) SetHandler(h *handler.Handler) {
	a.handler = h
}

// Identity resolves the bot account behind the token
func (a *Adapter) Identity(ctx context.Context) (domain.BotIdentity, error) {
	me, _, err := a.api.GetMe(ctx, "")
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("failed to get bot user: %w", err)
	}
	return domain.BotIdentity{
		UserID:      me.Id,
		Username:    me.Username,
		DisplayName: strings.TrimSpace(me.FirstName + " " + me.LastName),
	}, nil
}

// Start connects the websocket and consumes events until ctx is done
func (a *Adapter) Start(ctx context.Context) error {
	ws, err := a.connect()
	if err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.listen(ctx, ws)
	}()
	return nil
}

// Wait blocks until the listener and every in-flight event are done
func (a *Adapter) Wait() {
	a.wg.Wait()
}

func (a *Adapter) connect() (*model.WebSocketClient, error) {
	wsURL := httpToWS(a.serverURL)
	ws, err := model.NewWebSocketClient4(wsURL, a.token)
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket client: %w", err)
	}
	ws.Listen()

	a.logger.Info("WebSocket connected", zap.String("ws_url", wsURL))
	return ws, nil
}

func (a *Adapter) listen(ctx context.Context, ws *model.WebSocketClient) {
	for {
		select {
		case <-ctx.Done():
			ws.Close()
			a.logger.Info("WebSocket listener stopped")
			return
		case evt, ok := <-ws.EventChannel:
			if ok {
				if evt != nil {
					a.handleEvent(ctx, evt)
				}
				continue
			}

			a.logger.Warn("WebSocket event channel closed, reconnecting")
			ws = a.reconnect(ctx)
			if ws == nil {
				return
			}
		}
	}
}

func (a *Adapter) reconnect(ctx context.Context) *model.WebSocketClient {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}

		ws, err := a.connect()
		if err == nil {
			return ws
		}
		a.logger.Error("Failed to reconnect WebSocket", zap.Error(err))
	}
}

// handleEvent dispatches a posted event on its own goroutine
func (a *Adapter) handleEvent(ctx context.Context, evt *model.WebSocketEvent) {
	if evt.EventType() != model.WebsocketEventPosted {
		return
	}

	post, err := parsePost(evt)
	if err != nil {
		a.logger.Warn("Failed to parse posted event", zap.Error(err))
		return
	}
	if post == nil {
		return
	}

	// Replies for events already received are still delivered after shutdown starts.
	eventCtx := context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.handler.HandleMessage(eventCtx, toMessage(post), a.sender)
	}()
}

// parsePost returns nil without error for system messages
func parsePost(evt *model.WebSocketEvent) (*model.Post, error) {
	postJSON, ok := evt.GetData()["post"].(string)
	if !ok {
		return nil, fmt.Errorf("posted event missing post data")
	}

	var post model.Post
	if err := json.Unmarshal([]byte(postJSON), &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	if post.Type != "" && post.Type != model.PostTypeDefault {
		return nil, nil
	}
	return &post, nil
}

func toMessage(post *model.Post) domain.Message {
	return domain.Message{
		ID:         post.Id,
		ChannelID:  post.ChannelId,
		AuthorID:   post.UserId,
		Text:       post.Message,
		ThreadRoot: post.RootId,
	}
}

// httpToWS converts an HTTP(S) URL to a WS(S) URL
func httpToWS(url string) string {
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
