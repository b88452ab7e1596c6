package translation

import (
	"context"
	"errors"
	"strings"

	"translatebot/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIClient translates through an OpenAI-compatible chat completions API
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a chat completions backed gateway
func NewOpenAIClient(apiKey, model string, opts ...Option) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("IO_API_KEY is required for the translation gateway")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	o := buildOptions(opts)
	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	cfg.HTTPClient = o.httpClient

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name returns the backend name
func (c *OpenAIClient) Name() string {
	return BackendOpenAI
}

// Translate issues exactly one chat completion request
func (c *OpenAIClient) Translate(ctx context.Context, req domain.TranslationRequest) (result domain.TranslationResult) {
	defer recoverFailure(&result)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: instruction(req.Text),
			},
		},
	})
	if err != nil {
		return failure(normalizeOpenAIError(err))
	}

	if len(resp.Choices) == 0 {
		return failure(errors.New("no translation returned"))
	}

	return success(strings.TrimSpace(resp.Choices[0].Message.Content))
}

func normalizeOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &HTTPStatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &HTTPStatusError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}

	return err
}
