package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"translatebot/internal/domain"
)

const (
	BackendIONet  = "ionet"
	BackendOpenAI = "openai"

	targetLanguage = "English"
	unknownError   = "Unknown translation error"
)

// Gateway translates a single message into English
type Gateway interface {
	Translate(ctx context.Context, req domain.TranslationRequest) domain.TranslationResult
	Name() string
}

// HTTPStatusError captures non-2xx upstream responses
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Translation API error: %d - %s", e.StatusCode, e.Body)
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a gateway backend
type Option func(*options)

// WithBaseURL overrides the backend endpoint
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient overrides the HTTP client used for backend calls
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func buildOptions(opts []Option) options {
	// Zero timeout: requests run until the transport gives up.
	o := options{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates the gateway for the named backend
func New(backend, apiKey, model string, opts ...Option) (Gateway, error) {
	switch backend {
	case BackendIONet, "":
		return NewIONetClient(apiKey, opts...)
	case BackendOpenAI:
		return NewOpenAIClient(apiKey, model, opts...)
	default:
		return nil, fmt.Errorf("unknown translation backend %q", backend)
	}
}

func instruction(text string) string {
	return "Translate the following text to " + targetLanguage + ". " +
		"Return ONLY the translated text, nothing else. No explanations, no formatting, no arrows.\n\n" +
		"Text: " + text
}

func success(text string) domain.TranslationResult {
	return domain.TranslationResult{Success: true, TranslatedText: text}
}

func failure(err error) domain.TranslationResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = unknownError
	}
	return domain.TranslationResult{Success: false, Error: msg}
}

// recoverFailure turns a panic inside a backend into a failure result
func recoverFailure(result *domain.TranslationResult) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*result = failure(err)
			return
		}
		*result = failure(fmt.Errorf("%v", r))
	}
}
