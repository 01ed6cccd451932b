package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
)

// Run executes the filter command.
func (c *FilterCmd) Run(deps *Dependencies) error {
	cfg, err := c.Flags.FilterConfig()
	if err != nil {
		return report(deps, err)
	}
	if c.HTML && cfg.Kind() == distill.FilterLLM {
		return report(deps, distill.Errorf(distill.EINVALID, "--html is not available with the llm filter"))
	}

	filter, err := deps.NewFilter(cfg)
	if err != nil {
		return report(deps, err)
	}

	html, baseURL, err := readInput(deps, c.Input)
	if err != nil {
		return report(deps, err)
	}

	gen := &crawl.MarkdownGenerator{
		Converter:  deps.Converter,
		Filter:     filter,
		FilterKind: cfg.Kind(),
	}
	md, err := gen.Generate(deps.Ctx, html, baseURL)
	if err != nil {
		return report(deps, err)
	}

	out := md.FitMarkdown
	if c.HTML {
		out = md.FitHTML
	}
	fmt.Fprintln(deps.Stdout, strings.TrimRight(out, "\n"))
	return nil
}

// readInput loads an input argument. URLs are fetched and double as the
// base for resolving links; "-" reads standard input.
func readInput(deps *Dependencies, src string) (html, baseURL string, err error) {
	switch {
	case src == "-":
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", "", distill.Errorf(distill.EINVALID, "read stdin: %v", err)
		}
		return string(data), "", nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		html, err := deps.Fetcher.Fetch(deps.Ctx, src)
		if err != nil {
			return "", "", err
		}
		return html, src, nil
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return "", "", distill.Errorf(distill.EINVALID, "read %s: %v", src, err)
		}
		return string(data), "", nil
	}
}
