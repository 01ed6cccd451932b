// Package gemini implements distill.Completer using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

// DefaultModel is used when the provider names no model.
const DefaultModel = "gemini-2.5-flash"

var _ distill.Completer = (*Completer)(nil)

// Completer implements distill.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a Completer for provider, given as
// "gemini/<model>" or a bare model name.
func NewCompleter(client *genai.Client, provider string) *Completer {
	model := strings.TrimPrefix(provider, "gemini/")
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// NewClient creates a Gemini API client. An empty baseURL uses the
// public endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "gemini client: %v", err)
	}
	return client, nil
}

// Complete returns the model's reply to prompt.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", distill.Errorf(distill.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", Classify(err)
	}
	if result == nil {
		return "", distill.Errorf(distill.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}

// Classify maps Gemini errors to distill error codes: 429 is a retryable
// rate limit, other API errors are terminal and anything else is treated
// as a transport failure.
func Classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return distill.Errorf(distill.ERATELIMIT, "gemini rate limited: %s", apiErr.Message)
		}
		return distill.Errorf(distill.EINTERNAL, "gemini error %d: %s", apiErr.Code, apiErr.Message)
	}
	return distill.Errorf(distill.EUNAVAILABLE, "gemini request failed: %v", err)
}
