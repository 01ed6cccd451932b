package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/gemini"
	"github.com/fwojciec/distill/openai"
	dslog "github.com/fwojciec/distill/slog"
)

// geminiPrefix routes a provider to the Gemini API; every other provider
// is served by an OpenAI compatible endpoint.
const geminiPrefix = "gemini/"

// newCompleter returns the logged completer for cfg.Provider. A token is
// required unless a base URL points at a self-hosted endpoint.
func newCompleter(ctx context.Context, cfg distill.LLMConfig, logger *slog.Logger) (distill.Completer, error) {
	if cfg.APIToken == "" && cfg.BaseURL == "" {
		return nil, distill.Errorf(distill.EINVALID,
			"no API token for %q: set DISTILL_API_TOKEN, OPENAI_API_KEY or GEMINI_API_KEY", cfg.Provider)
	}

	var c distill.Completer
	if strings.HasPrefix(cfg.Provider, geminiPrefix) {
		client, err := gemini.NewClient(ctx, cfg.APIToken, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		c = gemini.NewCompleter(client, cfg.Provider)
	} else {
		oc, err := openai.NewCompleter(cfg.Provider, cfg.APIToken, openai.WithBaseURL(cfg.BaseURL))
		if err != nil {
			return nil, err
		}
		c = oc
	}
	return dslog.NewLoggingCompleter(c, cfg.Provider, logger), nil
}
