package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/crawl"
	"github.com/fwojciec/docsite/fs"
	"github.com/fwojciec/docsite/goldmark"
	"github.com/fwojciec/docsite/goquery"
	"github.com/fwojciec/docsite/htmltomarkdown"
	dshttp "github.com/fwojciec/docsite/http"
	"github.com/fwojciec/docsite/rod"
	dsslog "github.com/fwojciec/docsite/slog"
	"github.com/fwojciec/docsite/trafilatura"
	"github.com/fwojciec/docsite/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads environment overrides. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsite"),
		kong.Description("Tables of contents, search and tooling for documentation sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsite --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var processor docsite.PageProcessor = goquery.NewIndexerFromConfig(cfg.Site)
	if cli.Verbose {
		processor = dsslog.NewLoggingPageProcessor(processor, deps.Logger)
	}
	deps.Processor = processor
	deps.Site = fs.NewSite(goldmark.NewRenderer(), processor)

	switch kongCtx.Selected().Name {
	case "search":
		deps.Searcher = m.searcher(cfg, cli.Verbose, deps.Logger)
	case "serve":
		if cfg.Search.EngineKey != "" {
			deps.Searcher = m.searcher(cfg, cli.Verbose, deps.Logger)
		}
	case "outline":
		deps.Fetcher = m.fetcher(dshttp.NewFetcher(dshttp.WithTimeout(cfg.Audit.Timeout)), cli.Verbose, deps.Logger)
		deps.Extractor = trafilatura.NewExtractor()
		deps.Converter = htmltomarkdown.NewConverter()
	case "audit":
		auditor, closer, err := m.auditor(cfg, &cli.Audit, cli.Verbose, deps)
		if err != nil {
			return err
		}
		defer closer.Close()
		deps.Auditor = auditor
	}

	return kongCtx.Run(deps)
}

// loadConfig reads the configuration file when one is given and applies
// environment overrides.
func (m *Main) loadConfig(path string) (*docsite.Config, error) {
	var cfg *docsite.Config
	if path != "" {
		loaded, err := yaml.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		def := docsite.DefaultConfig()
		cfg = &def
	}

	if key := m.Getenv("DOCSITE_SEARCH_KEY"); key != "" {
		cfg.Search.EngineKey = key
	}
	return cfg, nil
}

func (m *Main) searcher(cfg *docsite.Config, verbose bool, logger *slog.Logger) docsite.Searcher {
	var s docsite.Searcher = dshttp.NewSearchClient(cfg.Search)
	if verbose {
		s = dsslog.NewLoggingSearcher(s, logger)
	}
	return s
}

func (m *Main) fetcher(f docsite.Fetcher, verbose bool, logger *slog.Logger) docsite.Fetcher {
	if verbose {
		return dsslog.NewLoggingFetcher(f, logger)
	}
	return f
}

// auditor wires the crawl pipeline. Command-line flags override the
// audit section of the configuration.
func (m *Main) auditor(cfg *docsite.Config, cmd *AuditCmd, verbose bool, deps *Dependencies) (*crawl.Auditor, io.Closer, error) {
	if cmd.Concurrency > 0 {
		cfg.Audit.Concurrency = cmd.Concurrency
	}
	if cmd.Rate > 0 {
		cfg.Audit.RequestsPerSecond = cmd.Rate
	}
	if cmd.Timeout > 0 {
		cfg.Audit.Timeout = cmd.Timeout
	}
	if cmd.RenderJS {
		cfg.Audit.RenderJS = true
	}

	filter, err := docsite.NewURLFilter(cmd.Filter, cmd.Skip)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return nil, nil, err
	}

	var fetcher docsite.Fetcher = dshttp.NewFetcher(dshttp.WithTimeout(cfg.Audit.Timeout))
	if cfg.Audit.RenderJS {
		rf, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Audit.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rf
	}
	fetcher = m.fetcher(fetcher, verbose, deps.Logger)

	var sitemaps docsite.SitemapService = dshttp.NewSitemapService(nil)
	if verbose {
		sitemaps = dsslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}

	return &crawl.Auditor{
		Sitemaps:    sitemaps,
		Fetcher:     fetcher,
		Processor:   deps.Processor,
		RateLimiter: crawl.NewDomainLimiter(cfg.Audit.RequestsPerSecond),
		Filter:      filter,
		Concurrency: cfg.Audit.Concurrency,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(deps.Stderr, "  "+format+"\n", args...)
		},
	}, fetcher, nil
}
