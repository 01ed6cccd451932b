// Package openai implements distill.Completer against any OpenAI
// compatible chat completion endpoint.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 120 * time.Second

const temperature = 0.1

var _ distill.Completer = (*Completer)(nil)

// Completer sends prompts as a single user message and returns the first
// choice.
type Completer struct {
	client *goopenai.Client
	model  string
}

// Option configures the client built by NewCompleter.
type Option func(*goopenai.ClientConfig)

// WithBaseURL points the client at another OpenAI compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *goopenai.ClientConfig) {
		if url != "" {
			c.BaseURL = url
		}
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *goopenai.ClientConfig) {
		c.HTTPClient = client
	}
}

// NewCompleter creates a Completer for provider, given as "vendor/model"
// or a bare model name.
func NewCompleter(provider, token string, opts ...Option) (*Completer, error) {
	model := ModelName(provider)
	if model == "" {
		return nil, distill.Errorf(distill.EINVALID, "model required")
	}
	cfg := goopenai.DefaultConfig(token)
	cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Completer{client: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

// ModelName strips the vendor prefix from a provider string.
func ModelName(provider string) string {
	if _, model, ok := strings.Cut(provider, "/"); ok {
		return model
	}
	return provider
}

// Complete returns the model's reply to prompt.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", distill.Errorf(distill.EINVALID, "prompt required")
	}
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", distill.Errorf(distill.EINTERNAL, "completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps client errors to distill error codes. Rate limits and
// transport failures are retryable; other HTTP statuses are not.
func classify(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch {
	case status == http.StatusTooManyRequests:
		return distill.Errorf(distill.ERATELIMIT, "completion rate limited: %v", err)
	case status != 0:
		return distill.Errorf(distill.EINTERNAL, "completion failed with status %d: %v", status, err)
	default:
		return distill.Errorf(distill.EUNAVAILABLE, "completion request failed: %v", err)
	}
}
