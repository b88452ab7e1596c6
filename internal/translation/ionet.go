package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"translatebot/internal/domain"
)

// DefaultIONetURL is the io.net workflow endpoint
const DefaultIONetURL = "https://api.intelligence.io.solutions/api/v1/workflows/run"

const maxErrorBody = 4096

type workflowRequest struct {
	Objective  string       `json:"objective"`
	AgentNames []string     `json:"agent_names"`
	Args       workflowArgs `json:"args"`
}

type workflowArgs struct {
	Type           string `json:"type"`
	TargetLanguage string `json:"target_language"`
}

type workflowResponse struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// IONetClient translates through the io.net translation agent workflow
type IONetClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewIONetClient creates a client for the io.net workflow API
func NewIONetClient(apiKey string, opts ...Option) (*IONetClient, error) {
	if apiKey == "" {
		return nil, errors.New("IO_API_KEY is required for the translation gateway")
	}
	o := buildOptions(opts)
	url := o.baseURL
	if url == "" {
		url = DefaultIONetURL
	}
	return &IONetClient{
		apiKey:     apiKey,
		url:        url,
		httpClient: o.httpClient,
	}, nil
}

// Name returns the backend name
func (c *IONetClient) Name() string {
	return BackendIONet
}

// Translate issues exactly one workflow request
func (c *IONetClient) Translate(ctx context.Context, req domain.TranslationRequest) (result domain.TranslationResult) {
	defer recoverFailure(&result)

	text, err := c.run(ctx, req.Text)
	if err != nil {
		return failure(err)
	}
	return success(text)
}

func (c *IONetClient) run(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(workflowRequest{
		Objective:  instruction(text),
		AgentNames: []string{"translation_agent"},
		Args: workflowArgs{
			Type:           "translate_text",
			TargetLanguage: targetLanguage,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return "", &HTTPStatusError{
			StatusCode: res.StatusCode,
			Body:       string(buf),
		}
	}

	var payload workflowResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != "" {
		return "", errors.New(payload.Error)
	}

	return payload.Result, nil
}
