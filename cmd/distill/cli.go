package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	dslog "github.com/fwojciec/distill/slog"
	"gopkg.in/yaml.v3"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger

	Fetcher   distill.Fetcher
	Converter distill.Converter

	// Token returns the API token for an LLM provider.
	Token func(provider string) string

	// LLMLimiter paces completions per provider. Nil disables pacing.
	LLMLimiter distill.RateLimiter

	// Results stores crawl results. Nil unless a database was given.
	Results distill.ResultStore
}

// NewFilter builds the content filter for cfg, attaching a completer
// when cfg selects the LLM strategy.
func (d *Dependencies) NewFilter(cfg distill.FilterConfig) (distill.ContentFilter, error) {
	fd := crawl.FilterDeps{Limiter: d.LLMLimiter, Logger: d.Logger}
	if c, ok := cfg.(distill.LLMConfig); ok {
		if c.APIToken == "" && d.Token != nil {
			c.APIToken = d.Token(c.Provider)
		}
		completer, err := newCompleter(d.Ctx, c, d.Logger)
		if err != nil {
			return nil, err
		}
		fd.Completer = completer
		cfg = c
	}

	f, err := crawl.NewContentFilter(cfg, fd)
	if err != nil {
		return nil, err
	}
	return dslog.NewLoggingFilter(f, cfg.Kind(), d.Logger), nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `env:"DISTILL_CONFIG" help:"YAML file with flag defaults"`
	Verbose bool            `short:"v" help:"Enable debug logging"`

	APIToken  string  `name:"api-token" env:"DISTILL_API_TOKEN" help:"LLM API token, used for any provider"`
	OpenAIKey string  `name:"openai-key" env:"OPENAI_API_KEY" hidden:""`
	GeminiKey string  `name:"gemini-key" env:"GEMINI_API_KEY" hidden:""`
	LLMRPS    float64 `name:"llm-rps" help:"Completions per second per provider (0 disables pacing)"`

	Filter   FilterCmd   `cmd:"" help:"Filter an HTML document down to its relevant content"`
	Extract  ExtractCmd  `cmd:"" help:"Extract structured records with a JSON schema"`
	Entities EntitiesCmd `cmd:"" help:"Find emails, URLs, dates and other entities in a document"`
	Crawl    CrawlCmd    `cmd:"" help:"Crawl pages and write distilled markdown files"`
	Results  ResultsCmd  `cmd:"" help:"List crawl results stored in a database"`
	Serve    ServeCmd    `cmd:"" help:"Serve the distillation HTTP API"`
}

// dbPath returns the result database the command uses, if any.
func (c *CLI) dbPath(cmd string) string {
	switch cmd {
	case "crawl":
		return c.Crawl.DB
	case "results":
		return c.Results.DB
	}
	return ""
}

// Token returns the API token for provider. An explicit token wins over
// the vendor variables.
func (c *CLI) Token(provider string) string {
	switch {
	case c.APIToken != "":
		return c.APIToken
	case strings.HasPrefix(provider, geminiPrefix):
		return c.GeminiKey
	default:
		return c.OpenAIKey
	}
}

// FilterFlags select and tune a content filter. Zero values keep the
// defaults of the selected strategy.
type FilterFlags struct {
	FilterFile  string   `type:"existingfile" help:"YAML or JSON filter spec; flags override its fields"`
	Filter      string   `short:"f" help:"Filter strategy: pruning, bm25 or llm"`
	Query       string   `short:"q" help:"Query ranked against by the bm25 filter"`
	Threshold   float64  `help:"Score threshold"`
	MinWords    int      `help:"Minimum words for a block to be kept"`
	ExcludeTags []string `help:"Tags removed before pruning"`
	NoStemming  bool     `help:"Match bm25 terms without stemming"`
	Provider    string   `help:"LLM provider, e.g. openai/gpt-4o-mini or gemini/gemini-2.5-flash"`
	BaseURL     string   `name:"base-url" help:"Endpoint of an OpenAI compatible or Gemini API"`
	Instruction string   `help:"Instruction given to the llm filter"`
}

// IsSet reports whether any filter was requested.
func (f *FilterFlags) IsSet() bool {
	return f.Filter != "" || f.FilterFile != ""
}

// Spec merges the filter file and flags into a FilterSpec.
func (f *FilterFlags) Spec() (distill.FilterSpec, error) {
	var spec distill.FilterSpec
	if f.FilterFile != "" {
		data, err := os.ReadFile(f.FilterFile)
		if err != nil {
			return spec, distill.Errorf(distill.EINVALID, "read filter file: %v", err)
		}
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return spec, distill.Errorf(distill.EINVALID, "parse filter file: %v", err)
		}
	}

	if f.Filter != "" {
		spec.Type = distill.FilterKind(f.Filter)
	}
	if f.Query != "" {
		spec.UserQuery = f.Query
	}
	if f.Threshold != 0 {
		spec.Threshold = &f.Threshold
	}
	if f.MinWords != 0 {
		spec.MinWordThreshold = &f.MinWords
	}
	if len(f.ExcludeTags) > 0 {
		spec.ExcludedTags = f.ExcludeTags
	}
	if f.NoStemming {
		stem := false
		spec.UseStemming = &stem
	}
	if f.Provider != "" {
		spec.Provider = f.Provider
	}
	if f.BaseURL != "" {
		spec.BaseURL = f.BaseURL
	}
	if f.Instruction != "" {
		spec.Instruction = f.Instruction
	}
	return spec, nil
}

// FilterConfig returns the validated configuration of the flags.
func (f *FilterFlags) FilterConfig() (distill.FilterConfig, error) {
	spec, err := f.Spec()
	if err != nil {
		return nil, err
	}
	return spec.Config()
}

// FilterCmd is the "filter" subcommand.
type FilterCmd struct {
	Input string      `arg:"" help:"HTML file, http(s) URL, or - for stdin"`
	HTML  bool        `help:"Print the filtered HTML instead of markdown"`
	Flags FilterFlags `embed:""`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Input   string `arg:"" help:"HTML file, http(s) URL, or - for stdin"`
	Schema  string `short:"s" required:"" type:"existingfile" help:"JSON extraction schema"`
	Backend string `short:"b" enum:"css,xpath" default:"css" help:"Selector language of the schema"`
}

// EntitiesCmd is the "entities" subcommand.
type EntitiesCmd struct {
	Input  string   `arg:"" help:"HTML file, http(s) URL, or - for stdin"`
	Labels []string `short:"l" help:"Entity labels to report (default all)"`
	Text   bool     `help:"Treat the input as plain text instead of HTML"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Pages to crawl"`
	Output      string        `short:"o" type:"path" default:"distilled" help:"Directory for markdown files"`
	JSON        bool          `help:"Also write each full result as JSON"`
	Fetcher     string        `enum:"http,rod" default:"http" help:"Fetch with plain HTTP or a headless browser"`
	Wait        string        `help:"Browser wait condition: css:<selector>, js:<expression> or a duration"`
	WaitTimeout time.Duration `default:"10s" help:"Upper bound on the browser wait condition"`
	ShowBrowser bool          `help:"Run the browser with a visible window"`
	Cleaner     string        `enum:"trafilatura,readability,none" default:"trafilatura" help:"Main-content cleaner applied before filtering"`
	Schema      string        `type:"existingfile" help:"JSON extraction schema applied to each page"`
	Backend     string        `enum:"css,xpath" default:"css" help:"Selector language of the schema"`
	Concurrency int           `short:"c" default:"4" help:"Pages fetched at once"`
	RPS         float64       `name:"rps" default:"1" help:"Requests per second per host"`
	DB          string        `name:"db" type:"path" env:"DISTILL_DB" help:"SQLite database recording every result"`
	Flags       FilterFlags   `embed:""`
}

// ResultsCmd is the "results" subcommand.
type ResultsCmd struct {
	DB     string `name:"db" type:"path" required:"" env:"DISTILL_DB" help:"SQLite database written by crawl --db"`
	URL    string `help:"Print the full stored result of one URL as JSON"`
	Host   string `help:"Only list results of this host"`
	Failed bool   `help:"Only list failed results"`
	Limit  int    `short:"n" default:"50" help:"Maximum results to list"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr   string `default:":8080" help:"Listen address"`
	APIKey string `name:"api-key" env:"DISTILL_SERVER_KEY" help:"Bearer token required on /v1 routes"`
}
