package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/htmltomarkdown"
	disthttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/rod"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read for the "-" input. Set before calling Run().
	Stdin io.Reader

	// Fetcher used by the current command, closed by Close().
	Fetcher distill.Fetcher

	// SQLite database holding crawl results, when a command needs one.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  m.Stdin,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Distill HTML pages into focused markdown and structured data"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(YAMLLoader),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'distill --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Token = cli.Token
	if cli.LLMRPS > 0 {
		deps.LLMLimiter = crawl.NewKeyLimiter(cli.LLMRPS)
	}

	defer m.Close()

	// Wire command-specific dependencies based on command
	cmd := strings.Fields(kongCtx.Command())[0]
	if dbPath := cli.dbPath(cmd); dbPath != "" {
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		deps.Results = sqlite.NewResultStore(m.DB)
	}

	switch cmd {
	case "filter", "extract", "entities":
		m.Fetcher = disthttp.NewFetcher()
	case "crawl":
		if cli.Crawl.Fetcher == "rod" {
			fetcher, err := newBrowserFetcher(&cli.Crawl, deps.Logger)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --fetcher rod")
				return err
			}
			m.Fetcher = fetcher
		} else {
			m.Fetcher = disthttp.NewFetcher()
		}
	}
	if m.Fetcher != nil {
		deps.Fetcher = dslog.NewLoggingFetcher(m.Fetcher, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newBrowserFetcher(c *CrawlCmd, logger *slog.Logger) (*rod.Fetcher, error) {
	opts := []rod.Option{
		rod.WithLogger(logger),
		rod.WithWaitTimeout(c.WaitTimeout),
		rod.WithManagerOptions(rod.WithHeadless(!c.ShowBrowser)),
	}
	if c.Wait != "" {
		wait, err := ParseWait(c.Wait)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rod.WithWait(wait))
	}
	fetcher, err := rod.NewFetcher(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return fetcher, nil
}

// report prints err for the user and returns it.
func report(deps *Dependencies, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
	return err
}
