package mattermost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"translatebot/internal/domain"
	"translatebot/internal/handler"
	"translatebot/internal/repository/memory"
	"translatebot/internal/service"
	"translatebot/internal/testutil"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	botID  = "botuserid"
	secret = "s3cret"
)

type fakeAPI struct {
	mu    sync.Mutex
	me    *model.User
	err   error
	posts []*model.Post
}

func (f *fakeAPI) GetMe(_ context.Context, _ string) (*model.User, *model.Response, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.me, &model.Response{StatusCode: http.StatusOK}, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, post *model.Post) (*model.Post, *model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}
	f.posts = append(f.posts, post)
	return post, &model.Response{StatusCode: http.StatusCreated}, nil
}

func (f *fakeAPI) created() []*model.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Post(nil), f.posts...)
}

func newTestHandler(gateway *testutil.MockGateway) *handler.Handler {
	settings := service.NewSettingsService(memory.NewSettingsRepo())
	filter := service.NewEligibilityFilter(botID, settings)
	journal := service.NewJournalService(nil, "mock", 30, testutil.NewTestLogger())
	return handler.NewHandler(filter, settings, journal, gateway, testutil.NewTestLogger())
}

func newTestAdapter(api *fakeAPI, gateway *testutil.MockGateway) *Adapter {
	return &Adapter{
		serverURL: "https://chat.example.com",
		api:       api,
		handler:   newTestHandler(gateway),
		sender:    NewSender(api),
		logger:    testutil.NewTestLogger(),
	}
}

func postedEvent(t *testing.T, post *model.Post) *model.WebSocketEvent {
	t.Helper()
	data, err := json.Marshal(post)
	require.NoError(t, err)
	evt := model.NewWebSocketEvent(model.WebsocketEventPosted, "", post.ChannelId, "", nil, "")
	return evt.SetData(map[string]any{"post": string(data)})
}

func TestHTTPToWS(t *testing.T) {
	assert.Equal(t, "wss://chat.example.com", httpToWS("https://chat.example.com"))
	assert.Equal(t, "ws://localhost:8065", httpToWS("http://localhost:8065"))
	assert.Equal(t, "chat.example.com", httpToWS("chat.example.com"))
}

func TestAdapter_Identity(t *testing.T) {
	api := &fakeAPI{me: &model.User{Id: botID, Username: "translator", FirstName: "Trans", LastName: "Lator"}}
	a := newTestAdapter(api, new(testutil.MockGateway))

	identity, err := a.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BotIdentity{UserID: botID, Username: "translator", DisplayName: "Trans Lator"}, identity)

	api.err = errors.New("401")
	_, err = a.Identity(context.Background())
	assert.Error(t, err)
}

func TestAdapter_HandleEventTranslatesInThread(t *testing.T) {
	gateway := new(testutil.MockGateway)
	gateway.On("Translate", mock.Anything, domain.TranslationRequest{Text: "Привет мир"}).
		Return(domain.TranslationResult{Success: true, TranslatedText: "Hello world"})
	api := &fakeAPI{}
	a := newTestAdapter(api, gateway)

	a.handleEvent(context.Background(), postedEvent(t, &model.Post{
		Id:        "post1",
		ChannelId: "town-square",
		UserId:    "user1",
		RootId:    "root1",
		Message:   "Привет мир",
	}))
	a.Wait()

	posts := api.created()
	require.Len(t, posts, 1)
	assert.Equal(t, "town-square", posts[0].ChannelId)
	assert.Equal(t, "root1", posts[0].RootId)
	assert.Equal(t, "🌐 Hello world", posts[0].Message)
}

func TestAdapter_HandleEventSkips(t *testing.T) {
	tests := []struct {
		name string
		evt  func(t *testing.T) *model.WebSocketEvent
	}{
		{
			name: "own post",
			evt: func(t *testing.T) *model.WebSocketEvent {
				return postedEvent(t, &model.Post{Id: "p", ChannelId: "c", UserId: botID, Message: "🌐 Привет"})
			},
		},
		{
			name: "system post",
			evt: func(t *testing.T) *model.WebSocketEvent {
				return postedEvent(t, &model.Post{Id: "p", ChannelId: "c", UserId: "u", Type: model.PostTypeJoinChannel, Message: "Привет"})
			},
		},
		{
			name: "other event type",
			evt: func(t *testing.T) *model.WebSocketEvent {
				return model.NewWebSocketEvent(model.WebsocketEventTyping, "", "c", "", nil, "")
			},
		},
		{
			name: "missing post data",
			evt: func(t *testing.T) *model.WebSocketEvent {
				return model.NewWebSocketEvent(model.WebsocketEventPosted, "", "c", "", nil, "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(testutil.MockGateway)
			api := &fakeAPI{}
			a := newTestAdapter(api, gateway)

			a.handleEvent(context.Background(), tt.evt(t))
			a.Wait()

			assert.Empty(t, api.created())
			gateway.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)
		})
	}
}

func TestSender_Send(t *testing.T) {
	tests := []struct {
		name     string
		reply    domain.Reply
		expected string
	}{
		{name: "top-level post", reply: domain.Reply{ChannelID: "c", ReplyTo: "p1", Text: "x"}, expected: "p1"},
		{name: "threaded post", reply: domain.Reply{ChannelID: "c", ReplyTo: "p2", ThreadRoot: "root", Text: "x"}, expected: "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			require.NoError(t, NewSender(api).Send(context.Background(), tt.reply))

			posts := api.created()
			require.Len(t, posts, 1)
			assert.Equal(t, tt.expected, posts[0].RootId)
		})
	}

	err := NewSender(&fakeAPI{err: errors.New("forbidden")}).Send(context.Background(), domain.Reply{ChannelID: "c"})
	assert.Error(t, err)
}

func postCommand(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, CommandPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCommandHandler(t *testing.T) {
	h := NewCommandHandler(newTestHandler(new(testutil.MockGateway)), secret, testutil.NewTestLogger())

	form := url.Values{
		"token":      {secret},
		"user_id":    {"user1"},
		"channel_id": {"town-square"},
		"trigger_id": {"trigger1"},
	}

	tests := []struct {
		command      string
		expectedType string
		expectedText string
	}{
		{command: "/status", expectedType: model.CommandResponseTypeInChannel, expectedText: "Translation: ✅ Enabled"},
		{command: "/disable_translate", expectedType: model.CommandResponseTypeInChannel, expectedText: "❌ Translation disabled"},
		{command: "/status", expectedType: model.CommandResponseTypeInChannel, expectedText: "Translation: ❌ Disabled"},
		{command: "/enable_translate", expectedType: model.CommandResponseTypeInChannel, expectedText: "✅ Translation enabled"},
		{command: "/unknown", expectedType: model.CommandResponseTypeEphemeral, expectedText: ""},
	}

	for _, tt := range tests {
		form.Set("command", tt.command)
		rec := postCommand(t, h, form)

		require.Equal(t, http.StatusOK, rec.Code, tt.command)
		var resp model.CommandResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, tt.expectedType, resp.ResponseType, tt.command)
		assert.Equal(t, tt.expectedText, resp.Text, tt.command)
	}
}

func TestCommandHandler_Rejects(t *testing.T) {
	h := NewCommandHandler(newTestHandler(new(testutil.MockGateway)), secret, testutil.NewTestLogger())

	rec := postCommand(t, h, url.Values{"token": {"wrong"}, "command": {"/status"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, CommandPath, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	unsigned := NewCommandHandler(newTestHandler(new(testutil.MockGateway)), "", testutil.NewTestLogger())
	rec = postCommand(t, unsigned, url.Values{"token": {""}, "command": {"/status"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommandHandler_HeaderToken(t *testing.T) {
	h := NewCommandHandler(newTestHandler(new(testutil.MockGateway)), secret, testutil.NewTestLogger())

	form := url.Values{"command": {"/status"}, "user_id": {"u"}}
	req := httptest.NewRequest(http.MethodPost, CommandPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Token "+secret)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
