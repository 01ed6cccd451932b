package distill

import "context"

// Completer sends a single prompt to a language model and returns its reply.
type Completer interface {
	// Complete returns the model's text response.
	// Returns ERATELIMIT when the provider throttles the request and
	// EUNAVAILABLE when the provider could not be reached; both may be
	// retried. Any other error is final.
	Complete(ctx context.Context, prompt string) (string, error)
}
